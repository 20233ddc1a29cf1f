package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"catalog-backend/internal/domains/product"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Products"

var exportHeaders = []string{
	"ID",
	"Name",
	"Slug",
	"Reference",
	"EAN13",
	"Price",
	"Sale Price",
	"Wholesale Price",
	"Quantity",
	"Active",
	"Storefront",
	"Visibility",
	"Condition",
	"Default Category",
	"Cover URL",
	"Created At",
}

func (s *productService) Export(ctx context.Context, w io.Writer) error {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].ID)
	}
	rules, err := s.repo.ListSpecificPrices(ctx, ids...)
	if err != nil {
		return err
	}

	f, err := buildWorkbook(list, groupRules(rules), s.now())
	if err != nil {
		return fmt.Errorf("failed to build excel file: %w", err)
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write excel file: %w", err)
	}
	return nil
}

func buildWorkbook(list []product.Listing, rules map[uuid.UUID][]product.SpecificPrice, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	}

	for i := range list {
		p := &list[i]
		row := i + 2

		var sale interface{}
		if sp := salePrice(p.Price, rules[p.ID], now); sp != nil {
			sale = sp.InexactFloat64()
		}
		defaultCategory := ""
		if p.DefaultCategory != nil {
			defaultCategory = p.DefaultCategory.Name
		}

		values := []interface{}{
			p.ID.String(),
			p.Name,
			p.Slug,
			p.Reference,
			p.Ean13,
			p.Price.InexactFloat64(),
			sale,
			p.WholesalePrice.InexactFloat64(),
			p.Quantity,
			p.Active,
			p.IsStorefrontVisible(),
			string(p.Visibility),
			string(p.Condition),
			defaultCategory,
			p.CoverURL,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	return f, nil
}
