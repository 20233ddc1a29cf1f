package repository

import (
	"fmt"
	"strings"

	"catalog-backend/internal/domains/product"
	"catalog-backend/internal/shared/pagination"
	"catalog-backend/internal/shared/utils"
)

// sortColumns maps API sort fields to columns.
var sortColumns = map[string]string{
	"dateAdd":   "p.created_at",
	"name":      "p.name",
	"price":     "p.price",
	"reference": "p.reference",
	"quantity":  "p.quantity",
}

const listingFrom = `
	FROM products p
	LEFT JOIN categories dc ON dc.id = p.default_category_id
	LEFT JOIN product_images ci ON ci.product_id = p.id AND ci.cover`

// listQuery holds the page query and the matching count query. The count
// query takes the first countArgs arguments.
type listQuery struct {
	list      string
	count     string
	args      []any
	countArgs int
}

func buildListQuery(filter product.ListFilter, page pagination.Request) listQuery {
	var (
		args  utils.QueryArgs
		where []string
	)

	if filter.StorefrontOnly {
		visibilities := make([]string, 0, len(product.StorefrontVisibilities))
		for _, v := range product.StorefrontVisibilities {
			visibilities = append(visibilities, string(v))
		}
		where = append(where, "p.active", "p.visibility = ANY("+args.Add(visibilities)+")")
	}

	if filter.CategoryID != nil {
		ph := args.Add(*filter.CategoryID)
		where = append(where, fmt.Sprintf(
			"(p.default_category_id = %[1]s OR EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = p.id AND pc.category_id = %[1]s))",
			ph,
		))
	}

	if k := strings.TrimSpace(filter.Keyword); k != "" {
		ph := args.Add("%" + escapeLike(k) + "%")
		where = append(where, "("+utils.JoinWithOr([]string{
			"p.name ILIKE " + ph,
			"COALESCE(p.description, '') ILIKE " + ph,
			"COALESCE(p.reference, '') ILIKE " + ph,
		})+")")
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + utils.JoinWithAnd(where)
	}

	column, ok := sortColumns[page.SortField]
	if !ok {
		column = sortColumns["dateAdd"]
	}
	direction := "ASC"
	if page.SortDesc {
		direction = "DESC"
	}

	countArgs := args.Len()
	limit := args.Add(page.Limit())
	offset := args.Add(page.Offset())

	return listQuery{
		list: "SELECT " + listingColumns + listingFrom + whereSQL +
			fmt.Sprintf(" ORDER BY %s %s NULLS LAST, p.id LIMIT %s OFFSET %s", column, direction, limit, offset),
		count:     "SELECT COUNT(*) FROM products p" + whereSQL,
		args:      args.Values(),
		countArgs: countArgs,
	}
}

// escapeLike escapes the ILIKE wildcards so keywords match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
