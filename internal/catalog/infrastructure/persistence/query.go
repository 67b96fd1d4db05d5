// Package persistence provides SQLite and PostgreSQL catalog repositories.
package persistence

import (
	"strings"

	"github.com/google/uuid"

	"github.com/supplifit/supplifit/internal/catalog/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
)

const categoryColumns = `id, name, description, version, created_at, updated_at`

const supplementColumns = `
	id, category_id, name, description, brand, type, serving_size, ingredients,
	benefits, usage_instructions, price, available, version, created_at, updated_at`

var supplementSearchColumns = []string{"name", "description", "brand", "ingredients", "benefits"}

// Both drivers share these builders, so SQLite and PostgreSQL apply the same
// predicates. Only placeholders, id encoding and the price sort differ.

func idArg(driver database.Driver, id uuid.UUID) any {
	if driver == database.DriverPostgres {
		return id
	}
	return id.String()
}

func containsPattern(query string) string {
	return "%" + strings.ToLower(database.EscapeLike(strings.TrimSpace(query))) + "%"
}

func likeAny(args *database.Args, columns []string, query string) string {
	pattern := containsPattern(query)
	match := make([]string, 0, len(columns))
	for _, col := range columns {
		match = append(match, "lower("+col+") LIKE "+args.Add(pattern)+` ESCAPE '\'`)
	}
	return "(" + strings.Join(match, " OR ") + ")"
}

func categoryListSQL(driver database.Driver, query string) (string, []any) {
	args := database.NewArgs(driver)
	sql := `SELECT ` + categoryColumns + ` FROM supplement_categories`
	if strings.TrimSpace(query) != "" {
		sql += ` WHERE ` + likeAny(args, []string{"name", "description"}, query)
	}
	return sql + ` ORDER BY name, id`, args.Values()
}

func supplementSearchSQL(driver database.Driver, filter domain.SupplementFilter) (string, []any) {
	args := database.NewArgs(driver)
	var where []string

	if strings.TrimSpace(filter.Query) != "" {
		where = append(where, likeAny(args, supplementSearchColumns, filter.Query))
	}
	if filter.CategoryID != nil {
		where = append(where, "category_id = "+args.Add(idArg(driver, *filter.CategoryID)))
	}
	if filter.Type != nil {
		where = append(where, "type = "+args.Add(string(*filter.Type)))
	}
	if brand := strings.TrimSpace(filter.Brand); brand != "" {
		where = append(where, "lower(brand) = "+args.Add(strings.ToLower(brand)))
	}
	if filter.Available != nil {
		where = append(where, "available = "+args.Add(*filter.Available))
	}

	sql := `SELECT ` + supplementColumns + ` FROM supplements`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY ` + orderClause(driver, filter.OrderBy)
	if filter.Limit > 0 {
		sql += ` LIMIT ` + args.Add(filter.Limit)
	}
	return sql, args.Values()
}

func orderClause(driver database.Driver, ordering domain.Ordering) string {
	var col string
	switch ordering.Field() {
	case domain.OrderByPrice:
		col = "price"
		if driver == database.DriverSQLite {
			col = "CAST(price AS REAL)"
		}
	case domain.OrderByCreatedAt:
		col = "created_at"
	default:
		col = "name"
	}
	if ordering.Descending() {
		col += " DESC"
	}
	return col + ", id"
}
