package seed

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the demo data applied to an empty database.
type Catalog struct {
	Admin      AdminSeed      `yaml:"admin"`
	Categories []CategorySeed `yaml:"categories"`
	Defaults   ProductDefault `yaml:"defaults"`
	Products   []ProductSeed  `yaml:"products"`
}

type AdminSeed struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Profile   string `yaml:"profile"`
}

// CategorySeed is a node of the seeded tree. Siblings get their list
// index as position.
type CategorySeed struct {
	Name        string         `yaml:"name"`
	Slug        string         `yaml:"slug"`
	Description string         `yaml:"description"`
	Children    []CategorySeed `yaml:"children"`
}

type ProductDefault struct {
	WholesalePrice string `yaml:"wholesalePrice"`
}

type ProductSeed struct {
	Name             string `yaml:"name"`
	Slug             string `yaml:"slug"`
	Category         string `yaml:"category"`
	Reference        string `yaml:"reference"`
	Price            string `yaml:"price"`
	WholesalePrice   string `yaml:"wholesalePrice"`
	Quantity         int    `yaml:"quantity"`
	DescriptionShort string `yaml:"descriptionShort"`
	Description      string `yaml:"description"`

	price     decimal.Decimal
	wholesale decimal.Decimal
}

// DefaultCatalog parses the embedded demo catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// ParseCatalog decodes and checks a catalog: slugs are unique, every
// product points at a seeded category and prices are decimals.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}

	categories := map[string]bool{}
	var walk func(nodes []CategorySeed) error
	walk = func(nodes []CategorySeed) error {
		for _, n := range nodes {
			if n.Name == "" || n.Slug == "" {
				return fmt.Errorf("seed category needs a name and a slug: %+v", n)
			}
			if categories[n.Slug] {
				return fmt.Errorf("duplicate seed category slug %q", n.Slug)
			}
			categories[n.Slug] = true
			if err := walk(n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(c.Categories); err != nil {
		return nil, err
	}

	products := map[string]bool{}
	for i := range c.Products {
		p := &c.Products[i]
		if p.Name == "" || p.Slug == "" {
			return nil, fmt.Errorf("seed product %d needs a name and a slug", i)
		}
		if products[p.Slug] {
			return nil, fmt.Errorf("duplicate seed product slug %q", p.Slug)
		}
		products[p.Slug] = true

		if p.Category != "" && !categories[p.Category] {
			return nil, fmt.Errorf("seed product %q: unknown category %q", p.Slug, p.Category)
		}

		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("seed product %q: price: %w", p.Slug, err)
		}
		p.price = price

		raw := p.WholesalePrice
		if raw == "" {
			raw = c.Defaults.WholesalePrice
		}
		if raw != "" {
			if p.wholesale, err = decimal.NewFromString(raw); err != nil {
				return nil, fmt.Errorf("seed product %q: wholesale price: %w", p.Slug, err)
			}
		}
	}
	return &c, nil
}
