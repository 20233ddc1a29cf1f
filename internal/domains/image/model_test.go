package image

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPosition(t *testing.T) {
	assert.Equal(t, 0, NextPosition(0, false))
	assert.Equal(t, 1, NextPosition(0, true))
	assert.Equal(t, 8, NextPosition(7, true))
}

func TestShouldBeCover(t *testing.T) {
	tests := []struct {
		name      string
		requested bool
		position  int
		want      bool
	}{
		{"first image ignores the flag", false, 0, true},
		{"first image requested", true, 0, true},
		{"later image not requested", false, 3, false},
		{"later image requested", true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldBeCover(tt.requested, tt.position))
		})
	}
}

func TestNextCover(t *testing.T) {
	assert.Nil(t, NextCover(nil))

	a := Image{ID: uuid.New(), Position: 4}
	b := Image{ID: uuid.New(), Position: 2}
	c := Image{ID: uuid.New(), Position: 9}

	next := NextCover([]Image{a, b, c})
	require.NotNil(t, next)
	assert.Equal(t, b.ID, next.ID)
}

func TestReorder(t *testing.T) {
	a := Image{ID: uuid.New(), Position: 0}
	b := Image{ID: uuid.New(), Position: 1}
	foreign := uuid.New()

	positions := Reorder([]Image{a, b}, []uuid.UUID{b.ID, foreign, a.ID})

	assert.Len(t, positions, 2)
	assert.Equal(t, 0, positions[b.ID])
	assert.Equal(t, 2, positions[a.ID])
	assert.NotContains(t, positions, foreign)
}

func TestURLResolution(t *testing.T) {
	productID := uuid.MustParse("7d3f0a8e-6a8b-4c3e-9d55-0b1f4b8a2c10")
	img := Image{ProductID: productID, Filename: "a.jpg"}

	assert.Equal(t, "/images/products/"+productID.String()+"/a.jpg", img.URL())
	assert.False(t, img.IsRemote())
	assert.Equal(t, "products/"+productID.String()+"/a.jpg", img.StorageKey())

	url := "https://bucket.s3.eu-west-1.amazonaws.com/custom/a.jpg"
	key := "custom/a.jpg"
	img.S3URL, img.S3Key = &url, &key
	assert.Equal(t, url, img.URL())
	assert.True(t, img.IsRemote())
	assert.Equal(t, key, img.StorageKey())
}

func TestSortByPosition(t *testing.T) {
	images := []Image{{ID: uuid.New(), Position: 3}, {ID: uuid.New(), Position: 1}, {ID: uuid.New(), Position: 2}}
	SortByPosition(images)
	assert.Equal(t, []int{1, 2, 3}, []int{images[0].Position, images[1].Position, images[2].Position})
}

func TestUploadRequest_Validate(t *testing.T) {
	assert.Error(t, UploadRequest{}.Validate())
	assert.NoError(t, UploadRequest{Data: []byte{1}}.Validate())
	assert.Error(t, PositionsRequest{}.Validate())
}
