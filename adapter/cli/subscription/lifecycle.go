package subscription

import (
	"context"

	"github.com/google/uuid"

	"github.com/supplifit/supplifit/adapter/cli"
	"github.com/supplifit/supplifit/internal/subscriptions/application/commands"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
)

var activateCmd = lifecycleCommand("activate", "Activate a pending subscription",
	func(ctx context.Context, app *cli.App, id uuid.UUID) (*domain.Subscription, error) {
		return app.ActivateSubscriptionHandler.Handle(ctx, commands.ActivateSubscriptionCommand{SubscriptionID: id, ActorID: app.ActorID})
	})

var cancelCmd = lifecycleCommand("cancel", "Cancel a subscription and turn off renewal",
	func(ctx context.Context, app *cli.App, id uuid.UUID) (*domain.Subscription, error) {
		return app.CancelSubscriptionHandler.Handle(ctx, commands.CancelSubscriptionCommand{SubscriptionID: id, ActorID: app.ActorID})
	})

var renewCmd = lifecycleCommand("renew", "Start the next period and print the new subscription",
	func(ctx context.Context, app *cli.App, id uuid.UUID) (*domain.Subscription, error) {
		return app.RenewSubscriptionHandler.Handle(ctx, commands.RenewSubscriptionCommand{SubscriptionID: id, ActorID: app.ActorID})
	})

var consumeCmd = lifecycleCommand("consume", "Use one unit of an active subscription",
	func(ctx context.Context, app *cli.App, id uuid.UUID) (*domain.Subscription, error) {
		return app.ConsumeUnitHandler.Handle(ctx, commands.ConsumeUnitCommand{SubscriptionID: id, ActorID: app.ActorID})
	})
