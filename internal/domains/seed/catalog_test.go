package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countCategories(nodes []CategorySeed) int {
	n := len(nodes)
	for _, c := range nodes {
		n += countCategories(c.Children)
	}
	return n
}

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Equal(t, "admin@prestashop.com", c.Admin.Email)
	assert.Equal(t, "SuperAdmin", c.Admin.Profile)

	require.Len(t, c.Categories, 1)
	assert.Equal(t, "home", c.Categories[0].Slug)
	assert.Equal(t, 8, countCategories(c.Categories))

	require.Len(t, c.Products, 19)
	for _, p := range c.Products {
		assert.NotEmpty(t, p.Category, p.Slug)
		assert.True(t, p.wholesale.Equal(c.Products[0].wholesale), p.Slug)
		assert.True(t, p.price.IsPositive(), p.Slug)
	}
	assert.Equal(t, "5.49", c.Products[0].wholesale.StringFixed(2))
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "categories: ["},
		{"duplicate category", "categories:\n  - {name: A, slug: a}\n  - {name: B, slug: a}\n"},
		{"category without slug", "categories:\n  - {name: A}\n"},
		{"unknown category", "products:\n  - {name: Mug, slug: mug, category: kitchen, price: '1'}\n"},
		{"bad price", "products:\n  - {name: Mug, slug: mug, price: cheap}\n"},
		{"duplicate product", "products:\n  - {name: Mug, slug: mug, price: '1'}\n  - {name: Cup, slug: mug, price: '1'}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseCatalog_ProductWholesaleOverridesDefault(t *testing.T) {
	c, err := ParseCatalog([]byte(`
defaults:
  wholesalePrice: "5.49"
products:
  - {name: Mug, slug: mug, price: "11.90", wholesalePrice: "3"}
  - {name: Cup, slug: cup, price: "9"}
`))
	require.NoError(t, err)
	assert.Equal(t, "3", c.Products[0].wholesale.String())
	assert.Equal(t, "5.49", c.Products[1].wholesale.String())
}
