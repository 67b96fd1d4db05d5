package commands

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
	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database/dbtest"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/outbox"
	"github.com/supplifit/supplifit/pkg/observability"
)

type fixture struct {
	categories  *persistence.SQLiteCategoryRepository
	supplements *persistence.SQLiteSupplementRepository
	outbox      *outbox.SQLiteRepository
	uow         *database.GenericUnitOfWork
	clock       *sharedDomain.FixedClock
	metrics     *observability.InMemoryMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.NewSQLite(t)
	return &fixture{
		categories:  persistence.NewSQLiteCategoryRepository(conn),
		supplements: persistence.NewSQLiteSupplementRepository(conn),
		outbox:      outbox.NewSQLiteRepository(conn),
		uow:         database.NewUnitOfWork(conn),
		clock:       sharedDomain.NewFixedClock(time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)),
		metrics:     observability.NewInMemoryMetrics(),
	}
}

func (f *fixture) routingKeys(t *testing.T) []string {
	t.Helper()
	msgs, err := f.outbox.GetUnpublished(context.Background(), 100)
	require.NoError(t, err)
	keys := make([]string, len(msgs))
	for i, m := range msgs {
		keys[i] = m.RoutingKey
	}
	return keys
}

func (f *fixture) category(t *testing.T, name string) *domain.Category {
	t.Helper()
	c, err := NewCreateCategoryHandler(f.categories, f.outbox, f.uow, f.clock).
		Handle(context.Background(), CreateCategoryCommand{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) supplement(t *testing.T, categoryID uuid.UUID) *domain.Supplement {
	t.Helper()
	s, err := NewCreateSupplementHandler(f.categories, f.supplements, f.outbox, f.uow, f.clock, f.metrics).
		Handle(context.Background(), CreateSupplementCommand{
			CategoryID: categoryID,
			Name:       "Iso Whey",
			Brand:      "Growth",
			Type:       "protein",
			Price:      decimal.RequireFromString("179.90"),
		})
	require.NoError(t, err)
	return s
}

func strPtr(s string) *string { return &s }

func TestCreateCategoryHandler(t *testing.T) {
	f := newFixture(t)
	handler := NewCreateCategoryHandler(f.categories, f.outbox, f.uow, f.clock)
	ctx := context.Background()

	created, err := handler.Handle(ctx, CreateCategoryCommand{Name: "  Pre-workout ", Description: "Energy"})
	require.NoError(t, err)
	assert.Equal(t, "Pre-workout", created.Name())

	found, err := f.categories.FindByID(ctx, created.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, []string{domain.RoutingKeyCategoryCreated}, f.routingKeys(t))

	_, err = handler.Handle(ctx, CreateCategoryCommand{Name: " "})
	assert.ErrorIs(t, err, domain.ErrEmptyCategoryName)
	assert.Len(t, f.routingKeys(t), 1)
}

func TestCreateSupplementHandler(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.category(t, "Protein")

	created := f.supplement(t, category.ID())
	found, err := f.supplements.FindByID(ctx, created.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.TypeProtein, found.Type())
	assert.True(t, found.Available())
	assert.Equal(t, int64(1), f.metrics.GetCounter(observability.MetricSupplementsCreated, observability.T("type", "protein")))
	assert.Equal(t, []string{domain.RoutingKeyCategoryCreated, domain.RoutingKeySupplementCreated}, f.routingKeys(t))

	handler := NewCreateSupplementHandler(f.categories, f.supplements, f.outbox, f.uow, f.clock, nil)
	tests := []struct {
		name string
		cmd  CreateSupplementCommand
		want error
	}{
		{"unknown category", CreateSupplementCommand{CategoryID: uuid.New(), Name: "X", Brand: "Y"}, domain.ErrCategoryNotFound},
		{"no category", CreateSupplementCommand{Name: "X", Brand: "Y"}, domain.ErrMissingCategory},
		{"bad type", CreateSupplementCommand{CategoryID: category.ID(), Name: "X", Brand: "Y", Type: "gummies"}, domain.ErrInvalidType},
		{"sub-cent price", CreateSupplementCommand{CategoryID: category.ID(), Name: "X", Brand: "Y", Price: decimal.RequireFromString("9.999")}, domain.ErrPricePrecision},
		{"no brand", CreateSupplementCommand{CategoryID: category.ID(), Name: "X"}, domain.ErrEmptyBrand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(ctx, tt.cmd)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Len(t, f.routingKeys(t), 2, "failed commands must not write events")
}

func TestUpdateSupplementHandler(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	protein := f.category(t, "Protein")
	bars := f.category(t, "Bars")
	created := f.supplement(t, protein.ID())
	handler := NewUpdateSupplementHandler(f.categories, f.supplements, f.outbox, f.uow, f.clock)
	f.clock.Advance(time.Hour)

	price := decimal.RequireFromString("159.90")
	unavailable := false
	barsID := bars.ID()
	updated, err := handler.Handle(ctx, UpdateSupplementCommand{
		SupplementID: created.ID(),
		CategoryID:   &barsID,
		Price:        &price,
		Available:    &unavailable,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Version())

	found, err := f.supplements.FindByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, bars.ID(), found.CategoryID())
	assert.True(t, price.Equal(found.Price()))
	assert.False(t, found.Available())
	assert.Equal(t, f.clock.Now(), found.UpdatedAt())
	assert.Equal(t, []string{
		domain.RoutingKeyCategoryCreated,
		domain.RoutingKeyCategoryCreated,
		domain.RoutingKeySupplementCreated,
		domain.RoutingKeySupplementUpdated,
		domain.RoutingKeySupplementUnavailable,
	}, f.routingKeys(t))

	t.Run("no change writes nothing", func(t *testing.T) {
		_, err := handler.Handle(ctx, UpdateSupplementCommand{SupplementID: created.ID(), Name: strPtr("Iso Whey")})
		require.NoError(t, err)
		assert.Len(t, f.routingKeys(t), 5)
	})

	t.Run("unknown category", func(t *testing.T) {
		other := uuid.New()
		_, err := handler.Handle(ctx, UpdateSupplementCommand{SupplementID: created.ID(), CategoryID: &other})
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := handler.Handle(ctx, UpdateSupplementCommand{SupplementID: created.ID(), Type: strPtr("gummies")})
		assert.ErrorIs(t, err, domain.ErrInvalidType)
	})

	t.Run("missing supplement", func(t *testing.T) {
		_, err := handler.Handle(ctx, UpdateSupplementCommand{SupplementID: uuid.New(), Name: strPtr("x")})
		assert.ErrorIs(t, err, domain.ErrSupplementNotFound)
		assert.ErrorIs(t, err, sharedDomain.ErrNotFound)
	})
}

func TestDeleteHandlers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.category(t, "Protein")
	supplement := f.supplement(t, category.ID())

	deleteCategory := NewDeleteCategoryHandler(f.categories, f.supplements, f.outbox, f.uow, f.clock)
	deleteSupplement := NewDeleteSupplementHandler(f.supplements, f.outbox, f.uow, f.clock)

	err := deleteCategory.Handle(ctx, DeleteCategoryCommand{CategoryID: category.ID()})
	assert.ErrorIs(t, err, domain.ErrCategoryInUse)
	assert.ErrorIs(t, err, sharedDomain.ErrConflict)

	require.NoError(t, deleteSupplement.Handle(ctx, DeleteSupplementCommand{SupplementID: supplement.ID()}))
	assert.ErrorIs(t, deleteSupplement.Handle(ctx, DeleteSupplementCommand{SupplementID: supplement.ID()}), domain.ErrSupplementNotFound)

	require.NoError(t, deleteCategory.Handle(ctx, DeleteCategoryCommand{CategoryID: category.ID()}))
	assert.ErrorIs(t, deleteCategory.Handle(ctx, DeleteCategoryCommand{CategoryID: category.ID()}), domain.ErrCategoryNotFound)

	keys := f.routingKeys(t)
	assert.Equal(t, []string{domain.RoutingKeySupplementDeleted, domain.RoutingKeyCategoryDeleted}, keys[len(keys)-2:])
}
