package product

import (
	"errors"
	"testing"
	"time"

	"catalog-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseEnums(t *testing.T) {
	v, err := ParseVisibility("catalog")
	require.NoError(t, err)
	assert.Equal(t, VisibilityCatalog, v)

	c, err := ParseCondition(" Refurbished ")
	require.NoError(t, err)
	assert.Equal(t, ConditionRefurbished, c)

	pt, err := ParseProductType("COMBINATIONS")
	require.NoError(t, err)
	assert.Equal(t, TypeCombinations, pt)

	rt, err := ParseReductionType("percentage")
	require.NoError(t, err)
	assert.Equal(t, ReductionPercentage, rt)

	_, err = ParseVisibility("hidden")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidEnum))
	assert.True(t, apperr.IsValidation(err))
}

func TestVisibility_Storefront(t *testing.T) {
	assert.True(t, VisibilityBoth.Storefront())
	assert.True(t, VisibilityCatalog.Storefront())
	assert.True(t, VisibilitySearch.Storefront())
	assert.False(t, VisibilityNone.Storefront())
}

func TestProduct_Predicates(t *testing.T) {
	p := &Product{
		Name:        "Hummingbird printed t-shirt",
		Description: "Regular fit, round neckline",
		Reference:   "demo_1",
		Active:      true,
		Visibility:  VisibilityBoth,
		Quantity:    0,
	}

	assert.False(t, p.InStock())
	assert.True(t, p.IsStorefrontVisible())

	p.Visibility = VisibilityNone
	assert.False(t, p.IsStorefrontVisible())
	p.Visibility = VisibilitySearch
	p.Active = false
	assert.False(t, p.IsStorefrontVisible())
}

func TestVariant_FinalPrice(t *testing.T) {
	v := &Variant{PriceImpact: dec("-2.50"), Quantity: 3}
	assert.True(t, v.FinalPrice(dec("23.90")).Equal(dec("21.40")))
	assert.True(t, v.InStock())
}

func TestSpecificPrice_IsActive(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name     string
		from, to *time.Time
		want     bool
	}{
		{"open window", nil, nil, true},
		{"started", &before, nil, true},
		{"not started", &after, nil, false},
		{"ended", nil, &before, false},
		{"inside", &before, &after, true},
		{"inclusive bounds", &now, &now, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := SpecificPrice{From: tt.from, To: tt.to}
			assert.Equal(t, tt.want, sp.IsActive(now))
		})
	}
}

func TestSpecificPrice_Apply(t *testing.T) {
	tests := []struct {
		name  string
		rule  SpecificPrice
		price string
		want  string
	}{
		{"percentage", SpecificPrice{ReductionType: ReductionPercentage, Reduction: dec("10")}, "100", "90"},
		{"percentage fraction", SpecificPrice{ReductionType: ReductionPercentage, Reduction: dec("20")}, "28.72", "22.976"},
		{"amount", SpecificPrice{ReductionType: ReductionAmount, Reduction: dec("5")}, "29", "24"},
		{"amount clamps at zero", SpecificPrice{ReductionType: ReductionAmount, Reduction: dec("50")}, "29", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rule.Apply(dec(tt.price))
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

func TestSalePrice(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)
	variantID := uuid.New()

	t.Run("no rules", func(t *testing.T) {
		_, ok := SalePrice(dec("100"), nil, now)
		assert.False(t, ok)
	})

	t.Run("active percentage rule", func(t *testing.T) {
		rules := []SpecificPrice{{ReductionType: ReductionPercentage, Reduction: dec("10"), FromQuantity: 1}}
		sale, ok := SalePrice(dec("100"), rules, now)
		require.True(t, ok)
		assert.True(t, sale.Equal(dec("90")))
	})

	t.Run("expired rule is ignored", func(t *testing.T) {
		rules := []SpecificPrice{{ReductionType: ReductionAmount, Reduction: dec("10"), FromQuantity: 1, From: &past, To: &yesterday}}
		_, ok := SalePrice(dec("100"), rules, now)
		assert.False(t, ok)
	})

	t.Run("quantity breaks above one are ignored", func(t *testing.T) {
		rules := []SpecificPrice{{ReductionType: ReductionAmount, Reduction: dec("10"), FromQuantity: 5}}
		_, ok := SalePrice(dec("100"), rules, now)
		assert.False(t, ok)
	})

	t.Run("variant scoped rule applies", func(t *testing.T) {
		rules := []SpecificPrice{{VariantID: &variantID, ReductionType: ReductionPercentage, Reduction: dec("10"), FromQuantity: 1}}
		sale, ok := SalePrice(dec("100"), rules, now)
		require.True(t, ok)
		assert.True(t, sale.Equal(dec("90")), "got %s", sale)
	})

	t.Run("highest applicable quantity break wins", func(t *testing.T) {
		rules := []SpecificPrice{
			{ReductionType: ReductionAmount, Reduction: dec("1"), FromQuantity: 0},
			{ReductionType: ReductionAmount, Reduction: dec("3"), FromQuantity: 1},
		}
		sale, ok := SalePrice(dec("10"), rules, now)
		require.True(t, ok)
		assert.True(t, sale.Equal(dec("7")))
	})
}

func TestCreateProductRequest_Validate(t *testing.T) {
	price := dec("10")
	negative := dec("-1")
	zero := 0
	bad := "hidden"

	assert.NoError(t, CreateProductRequest{Name: "Mug", Price: &price}.Validate())
	assert.Error(t, CreateProductRequest{Price: &price}.Validate())
	assert.Error(t, CreateProductRequest{Name: "Mug"}.Validate())
	assert.Error(t, CreateProductRequest{Name: "Mug", Price: &negative}.Validate())
	assert.Error(t, CreateProductRequest{Name: "Mug", Price: &price, MinimalQuantity: &zero}.Validate())
	assert.Error(t, CreateProductRequest{Name: "Mug", Price: &price, Visibility: &bad}.Validate())
}

func TestCreateSpecificPriceRequest_Validate(t *testing.T) {
	ten := dec("10")
	tooMuch := dec("150")
	from := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)

	assert.NoError(t, CreateSpecificPriceRequest{ReductionType: "PERCENTAGE", Reduction: &ten}.Validate())
	assert.NoError(t, CreateSpecificPriceRequest{ReductionType: "amount", Reduction: &tooMuch}.Validate())
	assert.Error(t, CreateSpecificPriceRequest{ReductionType: "PERCENTAGE", Reduction: &tooMuch}.Validate())
	assert.Error(t, CreateSpecificPriceRequest{ReductionType: "BOGO", Reduction: &ten}.Validate())
	assert.Error(t, CreateSpecificPriceRequest{ReductionType: "AMOUNT"}.Validate())
	assert.Error(t, CreateSpecificPriceRequest{ReductionType: "AMOUNT", Reduction: &ten, From: &from, To: &to}.Validate())
}
