package api

import (
	"github.com/supplifit/supplifit/internal/app"
)

// NewServerFromContainer wires every handler from the application container.
func NewServerFromContainer(cfg ServerConfig, c *app.Container) *Server {
	partners := NewPartnersHandler(PartnersHandlerConfig{
		CreateStore:  c.CreateStoreHandler,
		UpdateStore:  c.UpdateStoreHandler,
		ChangeStatus: c.ChangeStoreStatusHandler,
		Commission:   c.CalculateCommissionHandler,
		Stores:       c.StoreQueries,
		Logger:       c.Logger,
	})
	subscriptions := NewSubscriptionsHandler(SubscriptionsHandlerConfig{
		CreatePlan: c.CreatePlanHandler,
		UpdatePlan: c.UpdatePlanHandler,
		PlanStatus: c.SetPlanActiveHandler,
		Create:     c.CreateSubscriptionHandler,
		Activate:   c.ActivateSubscriptionHandler,
		Cancel:     c.CancelSubscriptionHandler,
		Renew:      c.RenewSubscriptionHandler,
		Consume:    c.ConsumeUnitHandler,
		ExpireDue:  c.ExpireDueHandler,
		Queries:    c.SubscriptionQueries,
		Logger:     c.Logger,
	})
	catalog := NewCatalogHandler(CatalogHandlerConfig{
		CreateCategory:   c.CreateCategoryHandler,
		DeleteCategory:   c.DeleteCategoryHandler,
		CreateSupplement: c.CreateSupplementHandler,
		UpdateSupplement: c.UpdateSupplementHandler,
		DeleteSupplement: c.DeleteSupplementHandler,
		Queries:          c.CatalogQueries,
		Logger:           c.Logger,
	})
	return NewServer(cfg, partners, subscriptions, catalog, c.Health, c.Metrics, c.Logger)
}
