package app

import (
	"fmt"

	catalogDomain "github.com/supplifit/supplifit/internal/catalog/domain"
	catalogPersistence "github.com/supplifit/supplifit/internal/catalog/infrastructure/persistence"
	partnersDomain "github.com/supplifit/supplifit/internal/partners/domain"
	partnersPersistence "github.com/supplifit/supplifit/internal/partners/infrastructure/persistence"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/outbox"
	subscriptionsDomain "github.com/supplifit/supplifit/internal/subscriptions/domain"
	subscriptionsPersistence "github.com/supplifit/supplifit/internal/subscriptions/infrastructure/persistence"
)

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// StoreRepository creates a partner store repository for the configured driver.
func (f *RepositoryFactory) StoreRepository() (partnersDomain.StoreRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return partnersPersistence.NewPostgresStoreRepository(f.conn), nil
	case database.DriverSQLite:
		return partnersPersistence.NewSQLiteStoreRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// PlanRepository creates a plan repository for the configured driver.
func (f *RepositoryFactory) PlanRepository() (subscriptionsDomain.PlanRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return subscriptionsPersistence.NewPostgresPlanRepository(f.conn), nil
	case database.DriverSQLite:
		return subscriptionsPersistence.NewSQLitePlanRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// SubscriptionRepository creates a subscription repository for the configured driver.
func (f *RepositoryFactory) SubscriptionRepository() (subscriptionsDomain.SubscriptionRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return subscriptionsPersistence.NewPostgresSubscriptionRepository(f.conn), nil
	case database.DriverSQLite:
		return subscriptionsPersistence.NewSQLiteSubscriptionRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// CategoryRepository creates a supplement category repository for the configured driver.
func (f *RepositoryFactory) CategoryRepository() (catalogDomain.CategoryRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return catalogPersistence.NewPostgresCategoryRepository(f.conn), nil
	case database.DriverSQLite:
		return catalogPersistence.NewSQLiteCategoryRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// SupplementRepository creates a supplement repository for the configured driver.
func (f *RepositoryFactory) SupplementRepository() (catalogDomain.SupplementRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return catalogPersistence.NewPostgresSupplementRepository(f.conn), nil
	case database.DriverSQLite:
		return catalogPersistence.NewSQLiteSupplementRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// OutboxRepository creates an outbox repository for the configured driver.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return outbox.NewPostgresRepository(f.conn), nil
	case database.DriverSQLite:
		return outbox.NewSQLiteRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// Repositories groups every repository the container wires.
type Repositories struct {
	Stores        partnersDomain.StoreRepository
	Plans         subscriptionsDomain.PlanRepository
	Subscriptions subscriptionsDomain.SubscriptionRepository
	Categories    catalogDomain.CategoryRepository
	Supplements   catalogDomain.SupplementRepository
	Outbox        outbox.Repository
}

// CreateAll creates every repository for the configured driver.
func (f *RepositoryFactory) CreateAll() (*Repositories, error) {
	stores, err := f.StoreRepository()
	if err != nil {
		return nil, fmt.Errorf("store repository: %w", err)
	}
	plans, err := f.PlanRepository()
	if err != nil {
		return nil, fmt.Errorf("plan repository: %w", err)
	}
	subs, err := f.SubscriptionRepository()
	if err != nil {
		return nil, fmt.Errorf("subscription repository: %w", err)
	}
	categories, err := f.CategoryRepository()
	if err != nil {
		return nil, fmt.Errorf("category repository: %w", err)
	}
	supplements, err := f.SupplementRepository()
	if err != nil {
		return nil, fmt.Errorf("supplement repository: %w", err)
	}
	outboxRepo, err := f.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("outbox repository: %w", err)
	}
	return &Repositories{
		Stores:        stores,
		Plans:         plans,
		Subscriptions: subs,
		Categories:    categories,
		Supplements:   supplements,
		Outbox:        outboxRepo,
	}, nil
}
