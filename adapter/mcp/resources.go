package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	partnersQueries "github.com/supplifit/supplifit/internal/partners/application/queries"
	partnersDomain "github.com/supplifit/supplifit/internal/partners/domain"
	subscriptionsQueries "github.com/supplifit/supplifit/internal/subscriptions/application/queries"
)

const jsonMimeType = "application/json"

// RegisterResources registers MCP resources that expose SuppliFit data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	if err := registerPlanResources(srv, deps); err != nil {
		return err
	}
	if err := registerStoreResources(srv, deps); err != nil {
		return err
	}
	if err := registerCatalogResources(srv, deps); err != nil {
		return err
	}
	if err := registerSystemResources(srv, deps); err != nil {
		return err
	}

	return nil
}

func registerPlanResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("supplifit://plans").
		Name("Plans").
		Description("The full plan catalog, cheapest first").
		MimeType(jsonMimeType).
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.SubscriptionQueries == nil {
				return nil, fmt.Errorf("plan listing requires database connection")
			}
			plans, err := app.SubscriptionQueries.Plans(ctx, subscriptionsQueries.ListPlansQuery{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, plans)
		})

	srv.Resource("supplifit://plans/active").
		Name("Active Plans").
		Description("Plans open to new subscriptions").
		MimeType(jsonMimeType).
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.SubscriptionQueries == nil {
				return nil, fmt.Errorf("plan listing requires database connection")
			}
			plans, err := app.SubscriptionQueries.Plans(ctx, subscriptionsQueries.ListPlansQuery{ActiveOnly: true})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, plans)
		})

	return nil
}

func registerStoreResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("supplifit://stores/{id}").
		Name("Store").
		Description("A partner store with its tier and commission rate").
		MimeType(jsonMimeType).
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.StoreQueries == nil {
				return nil, fmt.Errorf("store lookup requires database connection")
			}
			storeID, err := parseUUID(params["id"])
			if err != nil {
				return nil, err
			}
			store, err := app.StoreQueries.Get(ctx, partnersQueries.GetStoreQuery{StoreID: storeID})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, store)
		})

	return nil
}

func registerCatalogResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("supplifit://catalog/categories").
		Name("Supplement Categories").
		Description("Supplement categories by name").
		MimeType(jsonMimeType).
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.CatalogQueries == nil {
				return nil, fmt.Errorf("category listing requires database connection")
			}
			categories, err := app.CatalogQueries.Categories(ctx, "")
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, categories)
		})

	return nil
}

type tierSummary struct {
	Tier            string `json:"tier"`
	CommissionRate  string `json:"commission_rate"`
	Featured        bool   `json:"featured"`
	PrioritySupport bool   `json:"priority_support"`
	Rule            string `json:"rule"`
}

func registerSystemResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("supplifit://commission/tiers").
		Name("Commission Tiers").
		Description("Tier presets and the commission rule each tier follows").
		MimeType(jsonMimeType).
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			enterpriseCap := partnersDomain.DefaultEnterpriseCap
			if app != nil && app.Container != nil {
				enterpriseCap = app.Container.CommissionPolicy.EnterpriseCap()
			}

			rules := map[partnersDomain.Tier]string{
				partnersDomain.TierRegular:    "flat rate",
				partnersDomain.TierPremium:    "10% off the rate above 5000, 20% off above 10000",
				partnersDomain.TierEnterprise: "flat rate, capped at " + enterpriseCap.String() + " per sale",
			}

			tiers := make([]tierSummary, 0, len(rules))
			for _, tier := range []partnersDomain.Tier{partnersDomain.TierRegular, partnersDomain.TierPremium, partnersDomain.TierEnterprise} {
				preset, err := partnersDomain.PresetFor(tier)
				if err != nil {
					return nil, err
				}
				tiers = append(tiers, tierSummary{
					Tier:            string(tier),
					CommissionRate:  preset.CommissionRate.String(),
					Featured:        preset.Featured,
					PrioritySupport: preset.PrioritySupport,
					Rule:            rules[tier],
				})
			}
			return jsonResource(uri, tiers)
		})

	srv.Resource("supplifit://system/health").
		Name("Health").
		Description("Database, cache and broker health").
		MimeType(jsonMimeType).
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.Container == nil || app.Container.Health == nil {
				return nil, fmt.Errorf("health requires initialization")
			}
			return jsonResource(uri, app.Container.Health.Check(ctx))
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: jsonMimeType,
		Text:     string(data),
	}, nil
}
