package product

import (
	"errors"
	"regexp"
	"time"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/domains/image"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// nonNegative validates an optional decimal.
func nonNegative(value interface{}) error {
	d, _ := value.(*decimal.Decimal)
	if d != nil && d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

// atLeastOne validates an optional count. Min skips zero values.
func atLeastOne(value interface{}) error {
	n, _ := value.(*int)
	if n != nil && *n < 1 {
		return errors.New("must be at least 1")
	}
	return nil
}

func enumRule(parse func(string) error) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(*string)
		if s == nil {
			return nil
		}
		return parse(*s)
	})
}

var (
	visibilityRule = enumRule(func(s string) error { _, err := ParseVisibility(s); return err })
	conditionRule  = enumRule(func(s string) error { _, err := ParseCondition(s); return err })
	typeRule       = enumRule(func(s string) error { _, err := ParseProductType(s); return err })
)

// ========== Product requests ==========

// CreateProductRequest is the body of POST /admin/products.
type CreateProductRequest struct {
	Name              string           `json:"name"`
	Description       *string          `json:"description"`
	DescriptionShort  *string          `json:"descriptionShort"`
	Slug              *string          `json:"slug"`
	Price             *decimal.Decimal `json:"price"`
	WholesalePrice    *decimal.Decimal `json:"wholesalePrice"`
	Quantity          *int             `json:"quantity"`
	MinimalQuantity   *int             `json:"minimalQuantity"`
	Reference         *string          `json:"reference"`
	Ean13             *string          `json:"ean13"`
	Isbn              *string          `json:"isbn"`
	Upc               *string          `json:"upc"`
	Weight            *decimal.Decimal `json:"weight"`
	Width             *decimal.Decimal `json:"width"`
	Height            *decimal.Decimal `json:"height"`
	Depth             *decimal.Decimal `json:"depth"`
	Active            *bool            `json:"active"`
	Visibility        *string          `json:"visibility"`
	Condition         *string          `json:"condition"`
	ProductType       *string          `json:"productType"`
	OnSale            *bool            `json:"onSale"`
	OnlineOnly        *bool            `json:"onlineOnly"`
	MetaTitle         *string          `json:"metaTitle"`
	MetaDescription   *string          `json:"metaDescription"`
	DefaultCategoryID *uuid.UUID       `json:"defaultCategoryId"`
	CategoryIDs       []uuid.UUID      `json:"categoryIds"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("product name is required"),
			validation.RuneLength(1, 128).Error("name must be less than 128 characters"),
		),
		validation.Field(&r.Slug, validation.When(r.Slug != nil && *r.Slug != "",
			validation.Match(slugPattern).Error("slug may only contain lowercase letters, digits and hyphens"),
		)),
		validation.Field(&r.Price, validation.NotNil.Error("price is required"), validation.By(nonNegative)),
		validation.Field(&r.WholesalePrice, validation.By(nonNegative)),
		validation.Field(&r.Quantity, validation.Min(0).Error("quantity must be positive")),
		validation.Field(&r.MinimalQuantity, validation.By(atLeastOne)),
		validation.Field(&r.Reference, validation.RuneLength(0, 64)),
		validation.Field(&r.Ean13, validation.RuneLength(0, 13)),
		validation.Field(&r.Isbn, validation.RuneLength(0, 32)),
		validation.Field(&r.Upc, validation.RuneLength(0, 12)),
		validation.Field(&r.Weight, validation.By(nonNegative)),
		validation.Field(&r.Width, validation.By(nonNegative)),
		validation.Field(&r.Height, validation.By(nonNegative)),
		validation.Field(&r.Depth, validation.By(nonNegative)),
		validation.Field(&r.Visibility, visibilityRule),
		validation.Field(&r.Condition, conditionRule),
		validation.Field(&r.ProductType, typeRule),
		validation.Field(&r.MetaTitle, validation.RuneLength(0, 255)),
		validation.Field(&r.MetaDescription, validation.RuneLength(0, 512)),
	)
}

// UpdateProductRequest is a partial update: nil fields keep their value.
// CategoryIDs replaces the category set when present.
type UpdateProductRequest struct {
	Name              *string          `json:"name"`
	Description       *string          `json:"description"`
	DescriptionShort  *string          `json:"descriptionShort"`
	Slug              *string          `json:"slug"`
	Price             *decimal.Decimal `json:"price"`
	WholesalePrice    *decimal.Decimal `json:"wholesalePrice"`
	Quantity          *int             `json:"quantity"`
	MinimalQuantity   *int             `json:"minimalQuantity"`
	Reference         *string          `json:"reference"`
	Ean13             *string          `json:"ean13"`
	Isbn              *string          `json:"isbn"`
	Upc               *string          `json:"upc"`
	Weight            *decimal.Decimal `json:"weight"`
	Width             *decimal.Decimal `json:"width"`
	Height            *decimal.Decimal `json:"height"`
	Depth             *decimal.Decimal `json:"depth"`
	Active            *bool            `json:"active"`
	Visibility        *string          `json:"visibility"`
	Condition         *string          `json:"condition"`
	ProductType       *string          `json:"productType"`
	OnSale            *bool            `json:"onSale"`
	OnlineOnly        *bool            `json:"onlineOnly"`
	MetaTitle         *string          `json:"metaTitle"`
	MetaDescription   *string          `json:"metaDescription"`
	DefaultCategoryID *uuid.UUID       `json:"defaultCategoryId"`
	CategoryIDs       *[]uuid.UUID     `json:"categoryIds"`
}

func (r UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.When(r.Name != nil,
			validation.Required.Error("product name cannot be blank"),
			validation.RuneLength(1, 128),
		)),
		validation.Field(&r.Slug, validation.When(r.Slug != nil,
			validation.Required.Error("slug cannot be blank"),
			validation.Match(slugPattern).Error("slug may only contain lowercase letters, digits and hyphens"),
		)),
		validation.Field(&r.Price, validation.By(nonNegative)),
		validation.Field(&r.WholesalePrice, validation.By(nonNegative)),
		validation.Field(&r.Quantity, validation.Min(0).Error("quantity must be positive")),
		validation.Field(&r.MinimalQuantity, validation.By(atLeastOne)),
		validation.Field(&r.Reference, validation.RuneLength(0, 64)),
		validation.Field(&r.Ean13, validation.RuneLength(0, 13)),
		validation.Field(&r.Isbn, validation.RuneLength(0, 32)),
		validation.Field(&r.Upc, validation.RuneLength(0, 12)),
		validation.Field(&r.Weight, validation.By(nonNegative)),
		validation.Field(&r.Width, validation.By(nonNegative)),
		validation.Field(&r.Height, validation.By(nonNegative)),
		validation.Field(&r.Depth, validation.By(nonNegative)),
		validation.Field(&r.Visibility, visibilityRule),
		validation.Field(&r.Condition, conditionRule),
		validation.Field(&r.ProductType, typeRule),
		validation.Field(&r.MetaTitle, validation.RuneLength(0, 255)),
		validation.Field(&r.MetaDescription, validation.RuneLength(0, 512)),
	)
}

// BulkStatusRequest is the body of PATCH /admin/products/bulk/status.
type BulkStatusRequest struct {
	IDs    []uuid.UUID `json:"ids"`
	Active *bool       `json:"active"`
}

func (r BulkStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDs, validation.Required.Error("ids is required")),
		validation.Field(&r.Active, validation.NotNil.Error("active is required")),
	)
}

// BulkDeleteResult counts the outcome of a bulk delete. Unknown ids are
// not counted.
type BulkDeleteResult struct {
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// ========== Variant requests ==========

type CreateVariantRequest struct {
	Name            string           `json:"name"`
	Reference       *string          `json:"reference"`
	Ean13           *string          `json:"ean13"`
	Isbn            *string          `json:"isbn"`
	Upc             *string          `json:"upc"`
	PriceImpact     *decimal.Decimal `json:"priceImpact"`
	WeightImpact    *decimal.Decimal `json:"weightImpact"`
	Quantity        *int             `json:"quantity"`
	MinimalQuantity *int             `json:"minimalQuantity"`
	DefaultOn       *bool            `json:"defaultOn"`
}

func (r CreateVariantRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("variant name is required"),
			validation.RuneLength(1, 255),
		),
		validation.Field(&r.Reference, validation.RuneLength(0, 64)),
		validation.Field(&r.Ean13, validation.RuneLength(0, 13)),
		validation.Field(&r.Isbn, validation.RuneLength(0, 32)),
		validation.Field(&r.Upc, validation.RuneLength(0, 12)),
		validation.Field(&r.Quantity, validation.Min(0).Error("quantity must be positive")),
		validation.Field(&r.MinimalQuantity, validation.By(atLeastOne)),
	)
}

// ========== Specific price requests ==========

type CreateSpecificPriceRequest struct {
	VariantID     *uuid.UUID       `json:"productAttributeId"`
	ReductionType string           `json:"reductionType"`
	Reduction     *decimal.Decimal `json:"reduction"`
	ReductionTax  *bool            `json:"reductionTax"`
	FromQuantity  *int             `json:"fromQuantity"`
	From          *time.Time       `json:"from"`
	To            *time.Time       `json:"to"`
}

func (r CreateSpecificPriceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ReductionType,
			validation.Required.Error("reductionType is required"),
			validation.By(func(interface{}) error { _, err := ParseReductionType(r.ReductionType); return err }),
		),
		validation.Field(&r.Reduction,
			validation.NotNil.Error("reduction is required"),
			validation.By(nonNegative),
			validation.By(func(interface{}) error {
				if r.Reduction == nil {
					return nil
				}
				rt, err := ParseReductionType(r.ReductionType)
				if err == nil && rt == ReductionPercentage && r.Reduction.GreaterThan(decimal.NewFromInt(100)) {
					return errors.New("percentage cannot exceed 100")
				}
				return nil
			}),
		),
		validation.Field(&r.FromQuantity, validation.By(atLeastOne)),
		validation.Field(&r.To, validation.By(func(interface{}) error {
			if r.From != nil && r.To != nil && r.To.Before(*r.From) {
				return errors.New("must not be before from")
			}
			return nil
		})),
	)
}

// ========== Responses ==========

// ProductSummary is the listing view.
type ProductSummary struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	DescriptionShort string           `json:"descriptionShort,omitempty"`
	Slug             string           `json:"slug"`
	Price            decimal.Decimal  `json:"price"`
	SalePrice        *decimal.Decimal `json:"salePrice"`
	Reference        string           `json:"reference,omitempty"`
	Quantity         int              `json:"quantity"`
	InStock          bool             `json:"inStock"`
	Active           bool             `json:"active"`
	Visibility       Visibility       `json:"visibility"`
	OnSale           bool             `json:"onSale"`
	CoverImage       string           `json:"coverImage,omitempty"`
	DefaultCategory  *category.Simple `json:"defaultCategory,omitempty"`
	DateAdd          time.Time        `json:"dateAdd"`
}

// DefaultCategory is the default category with its breadcrumb.
type DefaultCategory struct {
	category.Simple
	Breadcrumb []category.BreadcrumbItem `json:"breadcrumb"`
}

// ProductDetail is the full product page view.
type ProductDetail struct {
	ID               uuid.UUID             `json:"id"`
	Name             string                `json:"name"`
	Description      string                `json:"description,omitempty"`
	DescriptionShort string                `json:"descriptionShort,omitempty"`
	Slug             string                `json:"slug"`
	Price            decimal.Decimal       `json:"price"`
	SalePrice        *decimal.Decimal      `json:"salePrice"`
	WholesalePrice   decimal.Decimal       `json:"wholesalePrice"`
	Reference        string                `json:"reference,omitempty"`
	Ean13            string                `json:"ean13,omitempty"`
	Quantity         int                   `json:"quantity"`
	MinimalQuantity  int                   `json:"minimalQuantity"`
	InStock          bool                  `json:"inStock"`
	Active           bool                  `json:"active"`
	Visibility       Visibility            `json:"visibility"`
	Condition        Condition             `json:"condition"`
	ProductType      ProductType           `json:"productType"`
	OnSale           bool                  `json:"onSale"`
	OnlineOnly       bool                  `json:"onlineOnly"`
	Weight           decimal.Decimal       `json:"weight"`
	Width            decimal.Decimal       `json:"width"`
	Height           decimal.Decimal       `json:"height"`
	Depth            decimal.Decimal       `json:"depth"`
	MetaTitle        string                `json:"metaTitle,omitempty"`
	MetaDescription  string                `json:"metaDescription,omitempty"`
	DefaultCategory  *DefaultCategory      `json:"defaultCategory,omitempty"`
	Categories       []category.Simple     `json:"categories"`
	Images           []image.ImageResponse `json:"images"`
	CoverImage       string                `json:"coverImage,omitempty"`
	Variants         []VariantResponse     `json:"variants"`
	DateAdd          time.Time             `json:"dateAdd"`
	DateUpd          time.Time             `json:"dateUpd"`
}

type VariantResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"productId"`
	Name        string          `json:"name"`
	Reference   string          `json:"reference,omitempty"`
	Ean13       string          `json:"ean13,omitempty"`
	Price       decimal.Decimal `json:"price"`
	PriceImpact decimal.Decimal `json:"priceImpact"`
	Quantity    int             `json:"quantity"`
	InStock     bool            `json:"inStock"`
	DefaultOn   bool            `json:"defaultOn"`
}

type SpecificPriceResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"productId"`
	VariantID     *uuid.UUID      `json:"productAttributeId"`
	ReductionType ReductionType   `json:"reductionType"`
	Reduction     decimal.Decimal `json:"reduction"`
	ReductionTax  bool            `json:"reductionTax"`
	FromQuantity  int             `json:"fromQuantity"`
	From          *time.Time      `json:"from"`
	To            *time.Time      `json:"to"`
	Active        bool            `json:"active"`
}

// Listing is a product row joined with what the listing view shows.
type Listing struct {
	Product
	DefaultCategory *category.Simple
	CoverURL        string
}

func ToSummary(l *Listing) ProductSummary {
	return ProductSummary{
		ID:               l.ID,
		Name:             l.Name,
		DescriptionShort: l.DescriptionShort,
		Slug:             l.Slug,
		Price:            l.Price,
		Reference:        l.Reference,
		Quantity:         l.Quantity,
		InStock:          l.InStock(),
		Active:           l.Active,
		Visibility:       l.Visibility,
		OnSale:           l.OnSale,
		CoverImage:       l.CoverURL,
		DefaultCategory:  l.DefaultCategory,
		DateAdd:          l.CreatedAt,
	}
}

// ToDetail converts the product fields; relations are filled by the caller.
func ToDetail(p *Product) ProductDetail {
	return ProductDetail{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		DescriptionShort: p.DescriptionShort,
		Slug:             p.Slug,
		Price:            p.Price,
		WholesalePrice:   p.WholesalePrice,
		Reference:        p.Reference,
		Ean13:            p.Ean13,
		Quantity:         p.Quantity,
		MinimalQuantity:  p.MinimalQuantity,
		InStock:          p.InStock(),
		Active:           p.Active,
		Visibility:       p.Visibility,
		Condition:        p.Condition,
		ProductType:      p.ProductType,
		OnSale:           p.OnSale,
		OnlineOnly:       p.OnlineOnly,
		Weight:           p.Weight,
		Width:            p.Width,
		Height:           p.Height,
		Depth:            p.Depth,
		MetaTitle:        p.MetaTitle,
		MetaDescription:  p.MetaDescription,
		Categories:       []category.Simple{},
		Images:           []image.ImageResponse{},
		Variants:         []VariantResponse{},
		DateAdd:          p.CreatedAt,
		DateUpd:          p.UpdatedAt,
	}
}

func ToVariantResponse(v *Variant, basePrice decimal.Decimal) VariantResponse {
	return VariantResponse{
		ID:          v.ID,
		ProductID:   v.ProductID,
		Name:        v.Name,
		Reference:   v.Reference,
		Ean13:       v.Ean13,
		Price:       v.FinalPrice(basePrice),
		PriceImpact: v.PriceImpact,
		Quantity:    v.Quantity,
		InStock:     v.InStock(),
		DefaultOn:   v.DefaultOn,
	}
}

func ToVariantResponses(variants []Variant, basePrice decimal.Decimal) []VariantResponse {
	out := make([]VariantResponse, 0, len(variants))
	for i := range variants {
		out = append(out, ToVariantResponse(&variants[i], basePrice))
	}
	return out
}

func ToSpecificPriceResponse(sp *SpecificPrice, now time.Time) SpecificPriceResponse {
	return SpecificPriceResponse{
		ID:            sp.ID,
		ProductID:     sp.ProductID,
		VariantID:     sp.VariantID,
		ReductionType: sp.ReductionType,
		Reduction:     sp.Reduction,
		ReductionTax:  sp.ReductionTax,
		FromQuantity:  sp.FromQuantity,
		From:          sp.From,
		To:            sp.To,
		Active:        sp.IsActive(now),
	}
}
