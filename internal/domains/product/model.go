package product

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Visibility string

const (
	VisibilityBoth    Visibility = "BOTH"
	VisibilityCatalog Visibility = "CATALOG"
	VisibilitySearch  Visibility = "SEARCH"
	VisibilityNone    Visibility = "NONE"
)

// StorefrontVisibilities lists the visibilities shown to shoppers.
var StorefrontVisibilities = []Visibility{VisibilityBoth, VisibilityCatalog, VisibilitySearch}

func ParseVisibility(raw string) (Visibility, error) {
	return parseEnum("visibility", raw, VisibilityBoth, VisibilityCatalog, VisibilitySearch, VisibilityNone)
}

func (v Visibility) Storefront() bool {
	for _, s := range StorefrontVisibilities {
		if v == s {
			return true
		}
	}
	return false
}

type Condition string

const (
	ConditionNew         Condition = "NEW"
	ConditionUsed        Condition = "USED"
	ConditionRefurbished Condition = "REFURBISHED"
)

func ParseCondition(raw string) (Condition, error) {
	return parseEnum("condition", raw, ConditionNew, ConditionUsed, ConditionRefurbished)
}

type ProductType string

const (
	TypeStandard     ProductType = "STANDARD"
	TypePack         ProductType = "PACK"
	TypeVirtual      ProductType = "VIRTUAL"
	TypeCombinations ProductType = "COMBINATIONS"
)

func ParseProductType(raw string) (ProductType, error) {
	return parseEnum("productType", raw, TypeStandard, TypePack, TypeVirtual, TypeCombinations)
}

type ReductionType string

const (
	ReductionAmount     ReductionType = "AMOUNT"
	ReductionPercentage ReductionType = "PERCENTAGE"
)

func ParseReductionType(raw string) (ReductionType, error) {
	return parseEnum("reductionType", raw, ReductionAmount, ReductionPercentage)
}

// parseEnum matches raw case-insensitively against values.
func parseEnum[T ~string](field, raw string, values ...T) (T, error) {
	raw = strings.TrimSpace(raw)
	for _, v := range values {
		if strings.EqualFold(raw, string(v)) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", ErrInvalidEnum, field, raw)
}

type Product struct {
	ID                uuid.UUID
	Name              string
	Description       string
	DescriptionShort  string
	Slug              string
	Price             decimal.Decimal
	WholesalePrice    decimal.Decimal
	Ecotax            decimal.Decimal
	Quantity          int
	MinimalQuantity   int
	LowStockThreshold *int
	Reference         string
	Ean13             string
	Isbn              string
	Upc               string
	Weight            decimal.Decimal
	Width             decimal.Decimal
	Height            decimal.Decimal
	Depth             decimal.Decimal
	Active            bool
	Visibility        Visibility
	Condition         Condition
	ProductType       ProductType
	OnSale            bool
	OnlineOnly        bool
	AvailableForOrder bool
	ShowPrice         bool
	MetaTitle         string
	MetaDescription   string
	DefaultCategoryID *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (p *Product) InStock() bool {
	return p.Quantity > 0
}

// IsStorefrontVisible reports whether shoppers may list or find the product.
func (p *Product) IsStorefrontVisible() bool {
	return p.Active && p.Visibility.Storefront()
}

// Variant is a product combination (size, color, ...).
type Variant struct {
	ID                uuid.UUID
	ProductID         uuid.UUID
	Name              string
	Reference         string
	Ean13             string
	Isbn              string
	Upc               string
	Mpn               string
	PriceImpact       decimal.Decimal
	WeightImpact      decimal.Decimal
	Quantity          int
	MinimalQuantity   int
	LowStockThreshold *int
	DefaultOn         bool
}

func (v *Variant) FinalPrice(base decimal.Decimal) decimal.Decimal {
	return base.Add(v.PriceImpact)
}

func (v *Variant) InStock() bool {
	return v.Quantity > 0
}

// SpecificPrice is a time-windowed discount rule. VariantID is nil for
// rules that apply to the product as a whole.
type SpecificPrice struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	VariantID     *uuid.UUID
	ReductionType ReductionType
	Reduction     decimal.Decimal
	ReductionTax  bool
	FromQuantity  int
	From          *time.Time
	To            *time.Time
}

// IsActive reports whether now falls inside the rule window. Both bounds
// are inclusive and a nil bound is open.
func (sp *SpecificPrice) IsActive(now time.Time) bool {
	if sp.From != nil && now.Before(*sp.From) {
		return false
	}
	if sp.To != nil && now.After(*sp.To) {
		return false
	}
	return true
}

// Apply returns price after the reduction, never below zero.
func (sp *SpecificPrice) Apply(price decimal.Decimal) decimal.Decimal {
	var out decimal.Decimal
	switch sp.ReductionType {
	case ReductionPercentage:
		discount := price.Mul(sp.Reduction).Div(decimal.NewFromInt(100))
		out = price.Sub(discount)
	default:
		out = price.Sub(sp.Reduction)
	}
	if out.IsNegative() {
		out = decimal.Zero
	}
	return out.Round(6)
}

// SalePrice picks, among the rules of the product active at now for a
// single unit, the one with the highest quantity break and applies it.
// Rules scoped to a variant count too. ok is false when no rule applies.
func SalePrice(price decimal.Decimal, rules []SpecificPrice, now time.Time) (sale decimal.Decimal, ok bool) {
	var best *SpecificPrice
	for i := range rules {
		r := &rules[i]
		if r.FromQuantity > 1 || !r.IsActive(now) {
			continue
		}
		if best == nil || r.FromQuantity > best.FromQuantity {
			best = r
		}
	}
	if best == nil {
		return decimal.Decimal{}, false
	}
	return best.Apply(price), true
}
