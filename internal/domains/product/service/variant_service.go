package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog-backend/internal/domains/product"
	"catalog-backend/internal/infrastructure/events"
	"catalog-backend/internal/shared/apperr"
	"catalog-backend/pkg/logger"

	"github.com/google/uuid"
)

// ========== Variants ==========

func (s *productService) ListVariants(ctx context.Context, productID uuid.UUID) ([]product.VariantResponse, error) {
	p, err := s.findByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	variants, err := s.repo.ListVariants(ctx, productID)
	if err != nil {
		return nil, err
	}
	return product.ToVariantResponses(variants, p.Price), nil
}

func (s *productService) AddVariant(ctx context.Context, productID uuid.UUID, req product.CreateVariantRequest) (*product.VariantResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Invalid(err)
	}

	p, err := s.findByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	v := &product.Variant{
		ID:              uuid.New(),
		ProductID:       p.ID,
		Name:            strings.TrimSpace(req.Name),
		Reference:       deref(req.Reference),
		Ean13:           deref(req.Ean13),
		Isbn:            deref(req.Isbn),
		Upc:             deref(req.Upc),
		PriceImpact:     decimalOr(req.PriceImpact),
		WeightImpact:    decimalOr(req.WeightImpact),
		Quantity:        intOr(req.Quantity, 0),
		MinimalQuantity: intOr(req.MinimalQuantity, 1),
		DefaultOn:       boolOr(req.DefaultOn, false),
	}
	if err := s.repo.CreateVariant(ctx, v); err != nil {
		return nil, err
	}

	logger.Info("variant added", map[string]interface{}{"product": p.ID.String(), "variant": v.ID.String()})
	s.afterWrite(ctx, events.ProductUpdated, p.ID, p.Slug)

	resp := product.ToVariantResponse(v, p.Price)
	return &resp, nil
}

// DeleteVariant refuses to delete a variant of another product.
func (s *productService) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	v, err := s.repo.GetVariant(ctx, variantID)
	if errors.Is(err, product.ErrVariantNotFound) {
		return fmt.Errorf("%w: %s", product.ErrVariantNotFound, variantID)
	}
	if err != nil {
		return err
	}
	if v.ProductID != productID {
		return fmt.Errorf("%w: %s", product.ErrVariantMismatch, variantID)
	}

	if err := s.repo.DeleteVariant(ctx, variantID); err != nil {
		return err
	}

	s.afterWrite(ctx, events.ProductUpdated, productID, "")
	return nil
}

// ========== Specific prices ==========

func (s *productService) ListSpecificPrices(ctx context.Context, productID uuid.UUID) ([]product.SpecificPriceResponse, error) {
	if _, err := s.findByID(ctx, productID); err != nil {
		return nil, err
	}
	rules, err := s.repo.ListSpecificPrices(ctx, productID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]product.SpecificPriceResponse, 0, len(rules))
	for i := range rules {
		out = append(out, product.ToSpecificPriceResponse(&rules[i], now))
	}
	return out, nil
}

func (s *productService) AddSpecificPrice(ctx context.Context, productID uuid.UUID, req product.CreateSpecificPriceRequest) (*product.SpecificPriceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Invalid(err)
	}
	reductionType, err := product.ParseReductionType(req.ReductionType)
	if err != nil {
		return nil, err
	}

	p, err := s.findByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if req.VariantID != nil {
		v, err := s.repo.GetVariant(ctx, *req.VariantID)
		if err != nil {
			return nil, err
		}
		if v.ProductID != p.ID {
			return nil, fmt.Errorf("%w: %s", product.ErrVariantMismatch, v.ID)
		}
	}

	sp := &product.SpecificPrice{
		ID:            uuid.New(),
		ProductID:     p.ID,
		VariantID:     req.VariantID,
		ReductionType: reductionType,
		Reduction:     *req.Reduction,
		ReductionTax:  boolOr(req.ReductionTax, true),
		FromQuantity:  intOr(req.FromQuantity, 1),
		From:          req.From,
		To:            req.To,
	}
	if err := s.repo.CreateSpecificPrice(ctx, sp); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, events.ProductUpdated, p.ID, p.Slug)

	resp := product.ToSpecificPriceResponse(sp, s.now())
	return &resp, nil
}

func (s *productService) DeleteSpecificPrice(ctx context.Context, productID, priceID uuid.UUID) error {
	sp, err := s.repo.GetSpecificPrice(ctx, priceID)
	if err != nil {
		return err
	}
	if sp.ProductID != productID {
		return fmt.Errorf("%w: %s", product.ErrSpecificPriceNotFound, priceID)
	}

	if err := s.repo.DeleteSpecificPrice(ctx, priceID); err != nil {
		return err
	}

	s.afterWrite(ctx, events.ProductUpdated, productID, "")
	return nil
}
