package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplifit/supplifit/internal/catalog/domain"
	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database/dbtest"
)

var baseTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// The same assertions run against both drivers.

func TestSQLiteCatalogRepositories(t *testing.T) {
	conn := dbtest.NewSQLite(t)
	runCatalogRepoTests(t, NewSQLiteCategoryRepository(conn), NewSQLiteSupplementRepository(conn))
}

func TestPostgresCatalogRepositories(t *testing.T) {
	conn := dbtest.NewPostgres(t, "supplements", "supplement_categories")
	runCatalogRepoTests(t, NewPostgresCategoryRepository(conn), NewPostgresSupplementRepository(conn))
}

type catalogSeed struct {
	protein, vitamins     *domain.Category
	whey, creatine, multi *domain.Supplement
}

func seedCatalog(t *testing.T, cats domain.CategoryRepository, sups domain.SupplementRepository) catalogSeed {
	t.Helper()
	ctx := context.Background()

	newCategory := func(name, desc string) *domain.Category {
		c, err := domain.NewCategory(name, desc, baseTime)
		require.NoError(t, err)
		require.NoError(t, cats.Save(ctx, c))
		c.ClearDomainEvents()
		return c
	}
	newSupplement := func(c *domain.Category, d domain.SupplementDetails, price string, at time.Time) *domain.Supplement {
		s, err := domain.NewSupplement(c.ID(), d, decimal.RequireFromString(price), at)
		require.NoError(t, err)
		require.NoError(t, sups.Save(ctx, s))
		s.ClearDomainEvents()
		return s
	}

	var seed catalogSeed
	seed.protein = newCategory("Protein", "Powders and bars")
	seed.vitamins = newCategory("Vitamins", "Daily micronutrients")
	seed.whey = newSupplement(seed.protein, domain.SupplementDetails{
		Name: "Gold Standard Whey", Brand: "Optimum", Type: domain.TypeProtein,
		Description: "Isolate blend", Ingredients: "whey isolate, cocoa",
	}, "249.90", baseTime)
	seed.creatine = newSupplement(seed.protein, domain.SupplementDetails{
		Name: "Creatine 100%", Brand: "Max_Titanium", Type: domain.TypeCreatine,
		Benefits: "Strength and power",
	}, "89.90", baseTime.Add(time.Hour))
	seed.multi = newSupplement(seed.vitamins, domain.SupplementDetails{
		Name: "Opti-Men", Brand: "optimum", Type: domain.TypeVitamins,
	}, "59.90", baseTime.Add(2*time.Hour))

	unavailable := false
	require.NoError(t, seed.multi.Update(domain.SupplementUpdate{Available: &unavailable}, baseTime.Add(3*time.Hour)))
	require.NoError(t, sups.Save(ctx, seed.multi))
	seed.multi.ClearDomainEvents()
	return seed
}

func names(supplements []*domain.Supplement) []string {
	out := make([]string, 0, len(supplements))
	for _, s := range supplements {
		out = append(out, s.Name())
	}
	return out
}

func runCatalogRepoTests(t *testing.T, cats domain.CategoryRepository, sups domain.SupplementRepository) {
	seed := seedCatalog(t, cats, sups)
	ctx := context.Background()

	t.Run("find by id", func(t *testing.T) {
		found, err := sups.FindByID(ctx, seed.whey.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, seed.protein.ID(), found.CategoryID())
		assert.Equal(t, "whey isolate, cocoa", found.Details().Ingredients)
		assert.True(t, decimal.RequireFromString("249.9").Equal(found.Price()))
		assert.True(t, found.Available())
		assert.Equal(t, 1, found.Version())
		assert.True(t, baseTime.Equal(found.CreatedAt()))

		missing, err := sups.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)

		category, err := cats.FindByID(ctx, seed.vitamins.ID())
		require.NoError(t, err)
		require.NotNil(t, category)
		assert.Equal(t, "Daily micronutrients", category.Description())
	})

	t.Run("list categories", func(t *testing.T) {
		all, err := cats.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Protein", all[0].Name())

		matched, err := cats.List(ctx, "MICRO")
		require.NoError(t, err)
		require.Len(t, matched, 1)
		assert.Equal(t, "Vitamins", matched[0].Name())
	})

	boolPtr := func(b bool) *bool { return &b }
	typePtr := func(st domain.SupplementType) *domain.SupplementType { return &st }
	proteinID := seed.protein.ID()

	tests := []struct {
		name   string
		filter domain.SupplementFilter
		want   []string
	}{
		{"everything by name", domain.SupplementFilter{}, []string{"Creatine 100%", "Gold Standard Whey", "Opti-Men"}},
		{"text in ingredients", domain.SupplementFilter{Query: "ISOLATE"}, []string{"Gold Standard Whey"}},
		{"text in benefits", domain.SupplementFilter{Query: "power"}, []string{"Creatine 100%"}},
		{"wildcards match literally", domain.SupplementFilter{Query: "_"}, []string{"Creatine 100%"}},
		{"percent matches literally", domain.SupplementFilter{Query: "100%"}, []string{"Creatine 100%"}},
		{"category", domain.SupplementFilter{CategoryID: &proteinID}, []string{"Creatine 100%", "Gold Standard Whey"}},
		{"type", domain.SupplementFilter{Type: typePtr(domain.TypeCreatine)}, []string{"Creatine 100%"}},
		{"brand ignores case", domain.SupplementFilter{Brand: "OPTIMUM"}, []string{"Gold Standard Whey", "Opti-Men"}},
		{"unavailable", domain.SupplementFilter{Available: boolPtr(false)}, []string{"Opti-Men"}},
		{"available", domain.SupplementFilter{Available: boolPtr(true)}, []string{"Creatine 100%", "Gold Standard Whey"}},
		{"combined", domain.SupplementFilter{Brand: "optimum", Available: boolPtr(true)}, []string{"Gold Standard Whey"}},
		{"price descending", domain.SupplementFilter{OrderBy: "-price"}, []string{"Gold Standard Whey", "Creatine 100%", "Opti-Men"}},
		{"price ascending", domain.SupplementFilter{OrderBy: domain.OrderByPrice}, []string{"Opti-Men", "Creatine 100%", "Gold Standard Whey"}},
		{"newest first with limit", domain.SupplementFilter{OrderBy: "-created_at", Limit: 2}, []string{"Opti-Men", "Creatine 100%"}},
		{"no match", domain.SupplementFilter{Query: "casein"}, []string{}},
	}
	for _, tt := range tests {
		t.Run("search "+tt.name, func(t *testing.T) {
			got, err := sups.Search(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}

	t.Run("update is optimistic", func(t *testing.T) {
		first, err := sups.FindByID(ctx, seed.creatine.ID())
		require.NoError(t, err)
		stale, err := sups.FindByID(ctx, seed.creatine.ID())
		require.NoError(t, err)

		price := decimal.RequireFromString("79.90")
		require.NoError(t, first.Update(domain.SupplementUpdate{Price: &price}, baseTime.Add(4*time.Hour)))
		require.NoError(t, sups.Save(ctx, first))

		brand := "Growth"
		require.NoError(t, stale.Update(domain.SupplementUpdate{Brand: &brand}, baseTime.Add(4*time.Hour)))
		assert.ErrorIs(t, sups.Save(ctx, stale), sharedDomain.ErrConflict)

		reloaded, err := sups.FindByID(ctx, seed.creatine.ID())
		require.NoError(t, err)
		assert.True(t, price.Equal(reloaded.Price()))
		assert.Equal(t, "Max_Titanium", reloaded.Brand())
		assert.Equal(t, 2, reloaded.Version())
	})

	t.Run("count and delete", func(t *testing.T) {
		n, err := sups.CountByCategory(ctx, seed.protein.ID())
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		require.NoError(t, sups.Delete(ctx, seed.creatine.ID()))
		n, err = sups.CountByCategory(ctx, seed.protein.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		assert.ErrorIs(t, sups.Delete(ctx, seed.creatine.ID()), sharedDomain.ErrConflict)

		require.NoError(t, sups.Delete(ctx, seed.multi.ID()))
		require.NoError(t, cats.Delete(ctx, seed.vitamins.ID()))
		gone, err := cats.FindByID(ctx, seed.vitamins.ID())
		require.NoError(t, err)
		assert.Nil(t, gone)
	})
}
