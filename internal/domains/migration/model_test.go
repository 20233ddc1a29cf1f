package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureXML = `<?xml version="1.0"?>
<entity_image>
  <entities>
    <image id="Hummingbird_printed_t-shirt_2" id_product="Hummingbird_printed_t-shirt" cover="0" />
    <image id="Hummingbird_printed_t-shirt" id_product="Hummingbird_printed_t-shirt" cover="1" />
    <IMAGE id="Mountain_fox_-_Vector_graphics" id_product="Mountain_fox_-_Vector_graphics" cover="" />
    <image id_product="broken" id="x" cover="1" />
  </entities>
</entity_image>`

func TestParseFixtureImages(t *testing.T) {
	images := ParseFixtureImages(fixtureXML)

	require.Len(t, images, 3)
	assert.Equal(t, FixtureImage{ID: "Hummingbird_printed_t-shirt_2", ProductID: "Hummingbird_printed_t-shirt"}, images[0])
	assert.True(t, images[1].Cover)
	assert.Equal(t, "Mountain_fox_-_Vector_graphics", images[2].ProductID)
	assert.False(t, images[2].Cover)
}

func TestGroupByProduct(t *testing.T) {
	groups, keys := GroupByProduct(ParseFixtureImages(fixtureXML))

	assert.Equal(t, []string{"Hummingbird_printed_t-shirt", "Mountain_fox_-_Vector_graphics"}, keys)
	shirt := groups["Hummingbird_printed_t-shirt"]
	require.Len(t, shirt, 2)
	assert.Equal(t, "Hummingbird_printed_t-shirt", shirt[0].ID)
	assert.Equal(t, "Hummingbird_printed_t-shirt_2", shirt[1].ID)
}

func TestPickCover(t *testing.T) {
	tests := []struct {
		name  string
		group []FixtureImage
		want  int
	}{
		{"no flag falls back to first", []FixtureImage{{ID: "a"}, {ID: "b"}}, 0},
		{"flagged image", []FixtureImage{{ID: "a"}, {ID: "b", Cover: true}}, 1},
		{"first flagged wins", []FixtureImage{{ID: "a"}, {ID: "b", Cover: true}, {ID: "c", Cover: true}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PickCover(tt.group))
		})
	}
}

func TestIsBaseImage(t *testing.T) {
	assert.True(t, IsBaseImage("Hummingbird_printed_t-shirt.jpg"))
	assert.True(t, IsBaseImage("brown-bear.jpg"))
	assert.False(t, IsBaseImage("Hummingbird_printed_t-shirt-home_default.jpg"))
	assert.False(t, IsBaseImage("mug-large_default.jpg"))
	assert.False(t, IsBaseImage("mug.png"))
}

func TestCandidateFiles(t *testing.T) {
	assert.Equal(t, []string{
		"mug.jpg", "mug.jpeg", "mug.png", "mug.webp", "mug-large_default.jpg", "mug-medium_default.jpg",
	}, CandidateFiles("mug"))
}
