package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	sharedInfra "github.com/supplifit/supplifit/internal/shared/infrastructure/database"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
)

// PostgresSubscriptionRepository implements domain.SubscriptionRepository using PostgreSQL.
type PostgresSubscriptionRepository struct {
	conn sharedInfra.Connection
}

// NewPostgresSubscriptionRepository creates a new PostgreSQL subscription repository.
func NewPostgresSubscriptionRepository(conn sharedInfra.Connection) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{conn: conn}
}

// Save inserts or updates a subscription.
func (r *PostgresSubscriptionRepository) Save(ctx context.Context, sub *domain.Subscription) error {
	exec := sharedInfra.ExecutorFromContext(ctx, r.conn)
	loaded := sharedInfra.LoadedVersion(sub)

	if loaded == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO subscriptions (`+subscriptionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			sub.ID(), sub.UserID(), sub.PlanID(), string(sub.Status()),
			sub.StartDate().Time(), sub.EndDate().Time(), sub.RemainingUnits(),
			sub.RenewalEnabled(), sub.PricePaid(), sub.RenewedFromID(),
			sub.Version(), sub.CreatedAt(), sub.UpdatedAt(),
		)
		if sharedInfra.IsUniqueViolation(err) {
			return domain.ErrAlreadyRenewed
		}
		return err
	}

	res, err := exec.Exec(ctx, `
		UPDATE subscriptions SET
			status = $2, remaining_units = $3, renewal_enabled = $4, version = $5, updated_at = $6
		WHERE id = $1 AND version = $7`,
		sub.ID(), string(sub.Status()), sub.RemainingUnits(), sub.RenewalEnabled(),
		sub.Version(), sub.UpdatedAt(), loaded,
	)
	if err != nil {
		return err
	}
	return sharedInfra.RequireAffected(res, "subscription")
}

// FindByID returns the subscription with the given ID.
func (r *PostgresSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	return r.findOne(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id)
}

// FindSuccessor returns the subscription renewed from id.
func (r *PostgresSubscriptionRepository) FindSuccessor(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	return r.findOne(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE renewed_from_id = $1`, id)
}

// FindByUser returns the user's subscriptions, newest first.
func (r *PostgresSubscriptionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Subscription, error) {
	return r.findMany(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC, start_date DESC`, userID)
}

// FindCurrent returns the user's newest active subscription still running today.
func (r *PostgresSubscriptionRepository) FindCurrent(ctx context.Context, userID uuid.UUID, today sharedDomain.Date) (*domain.Subscription, error) {
	return r.findOne(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE user_id = $1 AND status = 'active' AND end_date >= $2
		ORDER BY created_at DESC, start_date DESC
		LIMIT 1`, userID, today.Time())
}

// FindActiveEndingBefore returns active subscriptions that ended before day.
func (r *PostgresSubscriptionRepository) FindActiveEndingBefore(ctx context.Context, day sharedDomain.Date) ([]*domain.Subscription, error) {
	return r.findMany(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE status = 'active' AND end_date < $1
		ORDER BY end_date, id`, day.Time())
}

// FindActiveEndingBetween returns active subscriptions with from < end_date <= to.
func (r *PostgresSubscriptionRepository) FindActiveEndingBetween(ctx context.Context, from, to sharedDomain.Date) ([]*domain.Subscription, error) {
	return r.findMany(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE status = 'active' AND end_date > $1 AND end_date <= $2
		ORDER BY end_date, id`, from.Time(), to.Time())
}

func (r *PostgresSubscriptionRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Subscription, error) {
	exec := sharedInfra.ExecutorFromContext(ctx, r.conn)
	sub, err := scanPostgresSubscription(exec.QueryRow(ctx, query, args...))
	if sharedInfra.IsNoRows(err) {
		return nil, nil
	}
	return sub, err
}

func (r *PostgresSubscriptionRepository) findMany(ctx context.Context, query string, args ...any) ([]*domain.Subscription, error) {
	exec := sharedInfra.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]*domain.Subscription, 0)
	for rows.Next() {
		sub, err := scanPostgresSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func scanPostgresSubscription(row sharedInfra.Row) (*domain.Subscription, error) {
	var (
		id, userID, planID   uuid.UUID
		status               string
		start, end           time.Time
		units, version       int
		renewal              bool
		price                decimal.Decimal
		renewedFrom          *uuid.UUID
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &userID, &planID, &status, &start, &end, &units,
		&renewal, &price, &renewedFrom, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateSubscription(id, userID, planID, domain.Status(status),
		sharedDomain.DateOf(start), sharedDomain.DateOf(end), units, renewal, price,
		renewedFrom, version, createdAt.UTC(), updatedAt.UTC()), nil
}

var _ domain.SubscriptionRepository = (*PostgresSubscriptionRepository)(nil)
