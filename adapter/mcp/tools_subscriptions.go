package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/google/uuid"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/subscriptions/application/commands"
	"github.com/supplifit/supplifit/internal/subscriptions/application/queries"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
)

type planListInput struct {
	ActiveOnly bool `json:"active_only,omitempty"`
}

type planCreateInput struct {
	Name           string   `json:"name" jsonschema:"required"`
	PlanType       string   `json:"plan_type" jsonschema:"required"`
	Price          string   `json:"price" jsonschema:"required"`
	UnitsPerPeriod int      `json:"units_per_period,omitempty"`
	Description    string   `json:"description,omitempty"`
	Features       []string `json:"features,omitempty"`
}

type planUpdateInput struct {
	PlanID         string    `json:"plan_id" jsonschema:"required"`
	Name           *string   `json:"name,omitempty"`
	PlanType       *string   `json:"plan_type,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Price          *string   `json:"price,omitempty"`
	UnitsPerPeriod *int      `json:"units_per_period,omitempty"`
	Features       *[]string `json:"features,omitempty"`
}

type planStatusInput struct {
	PlanID string `json:"plan_id" jsonschema:"required"`
	Active bool   `json:"active"`
}

type subscriptionCreateInput struct {
	UserID    string `json:"user_id" jsonschema:"required"`
	PlanID    string `json:"plan_id" jsonschema:"required"`
	StartDate string `json:"start_date,omitempty"`
	Activate  bool   `json:"activate,omitempty"`
}

type subscriptionIDInput struct {
	SubscriptionID string `json:"subscription_id" jsonschema:"required"`
}

type userIDInput struct {
	UserID string `json:"user_id" jsonschema:"required"`
}

type sweepOutput struct {
	Today        string                     `json:"today"`
	Expired      []*queries.SubscriptionDTO `json:"expired"`
	SoonToExpire []*queries.SubscriptionDTO `json:"soon_to_expire"`
	Notified     int                        `json:"notified"`
}

type subscriptionTransition func(ctx context.Context, id uuid.UUID) (*domain.Subscription, error)

func registerSubscriptionTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("plans.list").
		Description("List subscription plans, cheapest first").
		Handler(func(ctx context.Context, input planListInput) ([]*queries.PlanDTO, error) {
			if app == nil || app.SubscriptionQueries == nil {
				return nil, errors.New("plan listing requires database connection")
			}
			return app.SubscriptionQueries.Plans(ctx, queries.ListPlansQuery{ActiveOnly: input.ActiveOnly})
		})

	srv.Tool("plans.create").
		Description("Add a plan to the catalog. Plan type is basic, pro or elite.").
		Handler(func(ctx context.Context, input planCreateInput) (*queries.PlanDTO, error) {
			if app == nil || app.CreatePlanHandler == nil {
				return nil, errors.New("plan creation requires database connection")
			}
			price, err := parseDecimal(input.Price)
			if err != nil {
				return nil, err
			}
			result, err := app.CreatePlanHandler.Handle(ctx, commands.CreatePlanCommand{
				Name:           input.Name,
				PlanType:       input.PlanType,
				Description:    input.Description,
				Price:          price,
				UnitsPerPeriod: input.UnitsPerPeriod,
				Features:       input.Features,
				ActorID:        app.ActorID,
			})
			if err != nil {
				return nil, err
			}
			return app.SubscriptionQueries.Plan(ctx, result.PlanID)
		})

	srv.Tool("plans.update").
		Description("Edit a plan's name, type, price, units or features. Omitted fields are left unchanged.").
		Handler(func(ctx context.Context, input planUpdateInput) (*queries.PlanDTO, error) {
			if app == nil || app.UpdatePlanHandler == nil {
				return nil, errors.New("plan update requires database connection")
			}
			planID, err := parseUUID(input.PlanID)
			if err != nil {
				return nil, err
			}
			cmd := commands.UpdatePlanCommand{
				PlanID:         planID,
				Name:           input.Name,
				PlanType:       input.PlanType,
				Description:    input.Description,
				UnitsPerPeriod: input.UnitsPerPeriod,
				Features:       input.Features,
				ActorID:        app.ActorID,
			}
			if input.Price != nil {
				price, err := parseDecimal(*input.Price)
				if err != nil {
					return nil, err
				}
				cmd.Price = &price
			}
			plan, err := app.UpdatePlanHandler.Handle(ctx, cmd)
			if err != nil {
				return nil, err
			}
			return queries.ToPlanDTO(plan), nil
		})

	srv.Tool("plans.status").
		Description("Open or close a plan for new subscriptions. Existing subscriptions keep running.").
		Handler(func(ctx context.Context, input planStatusInput) (*queries.PlanDTO, error) {
			if app == nil || app.SetPlanActiveHandler == nil {
				return nil, errors.New("plan status change requires database connection")
			}
			planID, err := parseUUID(input.PlanID)
			if err != nil {
				return nil, err
			}
			plan, err := app.SetPlanActiveHandler.Handle(ctx, commands.SetPlanActiveCommand{
				PlanID:  planID,
				Active:  input.Active,
				ActorID: app.ActorID,
			})
			if err != nil {
				return nil, err
			}
			return queries.ToPlanDTO(plan), nil
		})

	srv.Tool("subscription.create").
		Description("Open a pending subscription for a user. Start date defaults to today (YYYY-MM-DD).").
		Handler(func(ctx context.Context, input subscriptionCreateInput) (*queries.SubscriptionDTO, error) {
			if app == nil || app.CreateSubscriptionHandler == nil {
				return nil, errors.New("subscription creation requires database connection")
			}
			userID, err := parseUUID(input.UserID)
			if err != nil {
				return nil, err
			}
			planID, err := parseUUID(input.PlanID)
			if err != nil {
				return nil, err
			}
			start, err := parseOptionalDate(input.StartDate)
			if err != nil {
				return nil, err
			}

			sub, err := app.CreateSubscriptionHandler.Handle(ctx, commands.CreateSubscriptionCommand{
				UserID:    userID,
				PlanID:    planID,
				StartDate: start,
			})
			if err != nil {
				return nil, err
			}
			if input.Activate {
				sub, err = app.ActivateSubscriptionHandler.Handle(ctx, commands.ActivateSubscriptionCommand{
					SubscriptionID: sub.ID(),
					ActorID:        app.ActorID,
				})
				if err != nil {
					return nil, err
				}
			}
			return queries.ToSubscriptionDTO(sub), nil
		})

	srv.Tool("subscription.get").
		Description("Get a subscription by ID").
		Handler(func(ctx context.Context, input subscriptionIDInput) (*queries.SubscriptionDTO, error) {
			if app == nil || app.SubscriptionQueries == nil {
				return nil, errors.New("subscription lookup requires database connection")
			}
			id, err := parseUUID(input.SubscriptionID)
			if err != nil {
				return nil, err
			}
			return app.SubscriptionQueries.Get(ctx, queries.GetSubscriptionQuery{SubscriptionID: id})
		})

	srv.Tool("subscription.list").
		Description("List a user's subscriptions, newest first").
		Handler(func(ctx context.Context, input userIDInput) ([]*queries.SubscriptionDTO, error) {
			if app == nil || app.SubscriptionQueries == nil {
				return nil, errors.New("subscription listing requires database connection")
			}
			userID, err := parseUUID(input.UserID)
			if err != nil {
				return nil, err
			}
			return app.SubscriptionQueries.ListByUser(ctx, queries.ListUserSubscriptionsQuery{UserID: userID})
		})

	registerTransition(srv, "subscription.activate", "Activate a pending subscription",
		func(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
			if app.ActivateSubscriptionHandler == nil {
				return nil, errors.New("activation requires database connection")
			}
			return app.ActivateSubscriptionHandler.Handle(ctx, commands.ActivateSubscriptionCommand{SubscriptionID: id, ActorID: app.ActorID})
		})

	registerTransition(srv, "subscription.cancel", "Cancel a subscription and turn renewal off",
		func(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
			if app.CancelSubscriptionHandler == nil {
				return nil, errors.New("cancellation requires database connection")
			}
			return app.CancelSubscriptionHandler.Handle(ctx, commands.CancelSubscriptionCommand{SubscriptionID: id, ActorID: app.ActorID})
		})

	registerTransition(srv, "subscription.renew", "Start the next period of a subscription; returns the successor",
		func(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
			if app.RenewSubscriptionHandler == nil {
				return nil, errors.New("renewal requires database connection")
			}
			return app.RenewSubscriptionHandler.Handle(ctx, commands.RenewSubscriptionCommand{SubscriptionID: id, ActorID: app.ActorID})
		})

	registerTransition(srv, "subscription.consume", "Use one unit of an active subscription",
		func(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
			if app.ConsumeUnitHandler == nil {
				return nil, errors.New("unit consumption requires database connection")
			}
			return app.ConsumeUnitHandler.Handle(ctx, commands.ConsumeUnitCommand{SubscriptionID: id, ActorID: app.ActorID})
		})

	srv.Tool("subscriptions.sweep").
		Description("Expire overdue subscriptions and announce the ones ending soon").
		Handler(func(ctx context.Context, input struct{}) (*sweepOutput, error) {
			if app == nil || app.ExpireDueHandler == nil {
				return nil, errors.New("expiry sweep requires database connection")
			}
			result, err := app.ExpireDueHandler.Handle(ctx, commands.ExpireDueCommand{ActorID: app.ActorID})
			if err != nil {
				return nil, err
			}
			return &sweepOutput{
				Today:        result.Today.String(),
				Expired:      queries.ToSubscriptionDTOs(result.Expired),
				SoonToExpire: queries.ToSubscriptionDTOs(result.SoonToExpire),
				Notified:     result.Notified,
			}, nil
		})

	return nil
}

func registerTransition(srv *mcp.Server, name, description string, run subscriptionTransition) {
	srv.Tool(name).
		Description(description).
		Handler(func(ctx context.Context, input subscriptionIDInput) (*queries.SubscriptionDTO, error) {
			id, err := parseUUID(input.SubscriptionID)
			if err != nil {
				return nil, err
			}
			sub, err := run(ctx, id)
			if err != nil {
				return nil, err
			}
			return queries.ToSubscriptionDTO(sub), nil
		})
}

func parseOptionalDate(value string) (*sharedDomain.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := sharedDomain.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
