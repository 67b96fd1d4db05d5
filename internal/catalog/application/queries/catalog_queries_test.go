package queries

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplifit/supplifit/internal/catalog/domain"
	"github.com/supplifit/supplifit/internal/catalog/infrastructure/persistence"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database/dbtest"
)

var now = time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)

func newCatalog(t *testing.T) (*CatalogQueries, *domain.Category, *domain.Supplement) {
	t.Helper()
	ctx := context.Background()
	conn := dbtest.NewSQLite(t)
	categories := persistence.NewSQLiteCategoryRepository(conn)
	supplements := persistence.NewSQLiteSupplementRepository(conn)

	protein, err := domain.NewCategory("Protein", "Powders", now)
	require.NoError(t, err)
	require.NoError(t, categories.Save(ctx, protein))

	add := func(name, brand string, typ domain.SupplementType, price string) *domain.Supplement {
		s, err := domain.NewSupplement(protein.ID(), domain.SupplementDetails{Name: name, Brand: brand, Type: typ},
			decimal.RequireFromString(price), now)
		require.NoError(t, err)
		require.NoError(t, supplements.Save(ctx, s))
		return s
	}
	whey := add("Whey 900g", "Growth", domain.TypeProtein, "129.9")
	add("Creatine 300g", "Growth", domain.TypeCreatine, "99")
	add("Casein", "Dux", domain.TypeProtein, "189.50")

	return NewCatalogQueries(categories, supplements), protein, whey
}

func names(dtos []*SupplementDTO) []string {
	out := make([]string, len(dtos))
	for i, d := range dtos {
		out[i] = d.Name
	}
	return out
}

func TestCatalogQueries_Supplements(t *testing.T) {
	q, protein, _ := newCatalog(t)
	ctx := context.Background()
	proteinID := protein.ID()

	tests := []struct {
		name  string
		query SearchSupplementsQuery
		want  []string
	}{
		{"all by name", SearchSupplementsQuery{}, []string{"Casein", "Creatine 300g", "Whey 900g"}},
		{"type", SearchSupplementsQuery{Type: "protein"}, []string{"Casein", "Whey 900g"}},
		{"brand", SearchSupplementsQuery{Brand: " growth "}, []string{"Creatine 300g", "Whey 900g"}},
		{"text", SearchSupplementsQuery{Query: "900"}, []string{"Whey 900g"}},
		{"category and cheapest first", SearchSupplementsQuery{CategoryID: &proteinID, Ordering: "price"}, []string{"Creatine 300g", "Whey 900g", "Casein"}},
		{"limit", SearchSupplementsQuery{Ordering: "-price", Limit: 1}, []string{"Casein"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := q.Supplements(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}

	t.Run("prices carry two places and category names", func(t *testing.T) {
		got, err := q.Supplements(ctx, SearchSupplementsQuery{Query: "creatine"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "99.00", got[0].Price)
		assert.Equal(t, "Protein", got[0].CategoryName)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := q.Supplements(ctx, SearchSupplementsQuery{Type: "gummies"})
		assert.ErrorIs(t, err, domain.ErrInvalidType)
		_, err = q.Supplements(ctx, SearchSupplementsQuery{Ordering: "rating"})
		assert.ErrorIs(t, err, domain.ErrInvalidOrdering)
	})
}

func TestCatalogQueries_Lookups(t *testing.T) {
	q, protein, whey := newCatalog(t)
	ctx := context.Background()

	dto, err := q.Supplement(ctx, whey.ID())
	require.NoError(t, err)
	assert.Equal(t, "Whey 900g", dto.Name)
	assert.Equal(t, "129.90", dto.Price)
	assert.Equal(t, "Protein", dto.CategoryName)

	_, err = q.Supplement(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrSupplementNotFound)

	category, err := q.Category(ctx, protein.ID())
	require.NoError(t, err)
	assert.Equal(t, "Powders", category.Description)
	_, err = q.Category(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	all, err := q.Categories(ctx, "pow")
	require.NoError(t, err)
	require.Len(t, all, 1)
	none, err := q.Categories(ctx, "vitamin")
	require.NoError(t, err)
	assert.Empty(t, none)
}
