package notify

import (
	"context"
	"log/slog"

	"github.com/supplifit/supplifit/internal/shared/infrastructure/eventbus"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
)

// LogConsumer writes expiry notices to the log. It is the notice sink when
// events stay in process.
type LogConsumer struct {
	logger *slog.Logger
}

// NewLogConsumer creates a LogConsumer.
func NewLogConsumer(logger *slog.Logger) *LogConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogConsumer{logger: logger}
}

func (c *LogConsumer) EventTypes() []string {
	return []string{domain.RoutingKeySubscriptionExpiringSoon}
}

func (c *LogConsumer) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var notice domain.SubscriptionExpiringSoon
	if err := event.Decode(&notice); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "subscription expiring soon",
		"subscription_id", notice.SubscriptionID,
		"user_id", notice.UserID,
		"end_date", notice.EndDate.String(),
		"days_left", notice.DaysLeft,
		"renewal_enabled", notice.RenewalEnabled,
	)
	return nil
}

var _ eventbus.EventConsumer = (*LogConsumer)(nil)
