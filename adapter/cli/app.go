package cli

import (
	"errors"

	"github.com/google/uuid"

	"github.com/supplifit/supplifit/internal/app"
	catalogCommands "github.com/supplifit/supplifit/internal/catalog/application/commands"
	catalogQueries "github.com/supplifit/supplifit/internal/catalog/application/queries"
	partnersCommands "github.com/supplifit/supplifit/internal/partners/application/commands"
	partnersQueries "github.com/supplifit/supplifit/internal/partners/application/queries"
	subscriptionsCommands "github.com/supplifit/supplifit/internal/subscriptions/application/commands"
	subscriptionsQueries "github.com/supplifit/supplifit/internal/subscriptions/application/queries"
)

// ErrNotInitialized is returned by commands that need a database connection.
var ErrNotInitialized = errors.New("application not initialized - database connection required")

// App holds the CLI application dependencies.
type App struct {
	// Partner handlers
	CreateStoreHandler         *partnersCommands.CreateStoreHandler
	UpdateStoreHandler         *partnersCommands.UpdateStoreHandler
	ChangeStoreStatusHandler   *partnersCommands.ChangeStoreStatusHandler
	CalculateCommissionHandler *partnersQueries.CalculateCommissionHandler
	StoreQueries               *partnersQueries.StoreQueries

	// Subscription handlers
	CreatePlanHandler           *subscriptionsCommands.CreatePlanHandler
	UpdatePlanHandler           *subscriptionsCommands.UpdatePlanHandler
	SetPlanActiveHandler        *subscriptionsCommands.SetPlanActiveHandler
	CreateSubscriptionHandler   *subscriptionsCommands.CreateSubscriptionHandler
	ActivateSubscriptionHandler *subscriptionsCommands.ActivateSubscriptionHandler
	CancelSubscriptionHandler   *subscriptionsCommands.CancelSubscriptionHandler
	RenewSubscriptionHandler    *subscriptionsCommands.RenewSubscriptionHandler
	ConsumeUnitHandler          *subscriptionsCommands.ConsumeUnitHandler
	ExpireDueHandler            *subscriptionsCommands.ExpireDueHandler
	SubscriptionQueries         *subscriptionsQueries.SubscriptionQueries

	// Catalog handlers
	CreateCategoryHandler   *catalogCommands.CreateCategoryHandler
	DeleteCategoryHandler   *catalogCommands.DeleteCategoryHandler
	CreateSupplementHandler *catalogCommands.CreateSupplementHandler
	UpdateSupplementHandler *catalogCommands.UpdateSupplementHandler
	DeleteSupplementHandler *catalogCommands.DeleteSupplementHandler
	CatalogQueries          *catalogQueries.CatalogQueries

	// Container backs serve, migrate and health.
	Container *app.Container

	// ActorID is recorded on events raised by CLI commands.
	ActorID uuid.UUID
}

// NewApp creates a CLI application from the container's handlers.
func NewApp(c *app.Container) *App {
	return &App{
		CreateStoreHandler:          c.CreateStoreHandler,
		UpdateStoreHandler:          c.UpdateStoreHandler,
		ChangeStoreStatusHandler:    c.ChangeStoreStatusHandler,
		CalculateCommissionHandler:  c.CalculateCommissionHandler,
		StoreQueries:                c.StoreQueries,
		CreatePlanHandler:           c.CreatePlanHandler,
		UpdatePlanHandler:           c.UpdatePlanHandler,
		SetPlanActiveHandler:        c.SetPlanActiveHandler,
		CreateSubscriptionHandler:   c.CreateSubscriptionHandler,
		ActivateSubscriptionHandler: c.ActivateSubscriptionHandler,
		CancelSubscriptionHandler:   c.CancelSubscriptionHandler,
		RenewSubscriptionHandler:    c.RenewSubscriptionHandler,
		ConsumeUnitHandler:          c.ConsumeUnitHandler,
		ExpireDueHandler:            c.ExpireDueHandler,
		SubscriptionQueries:         c.SubscriptionQueries,
		CreateCategoryHandler:       c.CreateCategoryHandler,
		DeleteCategoryHandler:       c.DeleteCategoryHandler,
		CreateSupplementHandler:     c.CreateSupplementHandler,
		UpdateSupplementHandler:     c.UpdateSupplementHandler,
		DeleteSupplementHandler:     c.DeleteSupplementHandler,
		CatalogQueries:              c.CatalogQueries,
		Container:                   c,
	}
}

// SetActorID updates the acting user.
func (a *App) SetActorID(id uuid.UUID) {
	a.ActorID = id
}

// current is the global CLI application instance
var current *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	current = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return current
}

// RequireApp returns the application or ErrNotInitialized.
func RequireApp() (*App, error) {
	if current == nil {
		return nil, ErrNotInitialized
	}
	return current, nil
}
