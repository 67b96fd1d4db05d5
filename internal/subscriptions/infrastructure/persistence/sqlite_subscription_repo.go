package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	sharedInfra "github.com/supplifit/supplifit/internal/shared/infrastructure/database"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
)

const subscriptionColumns = `
	id, user_id, plan_id, status, start_date, end_date, remaining_units,
	renewal_enabled, price_paid, renewed_from_id, version, created_at, updated_at`

// SQLiteSubscriptionRepository implements domain.SubscriptionRepository with SQLite.
type SQLiteSubscriptionRepository struct {
	conn sharedInfra.Connection
}

// NewSQLiteSubscriptionRepository creates a new repository.
func NewSQLiteSubscriptionRepository(conn sharedInfra.Connection) *SQLiteSubscriptionRepository {
	return &SQLiteSubscriptionRepository{conn: conn}
}

// Save inserts or updates a subscription.
func (r *SQLiteSubscriptionRepository) Save(ctx context.Context, sub *domain.Subscription) error {
	exec := sharedInfra.ExecutorFromContext(ctx, r.conn)
	loaded := sharedInfra.LoadedVersion(sub)

	if loaded == 0 {
		var renewedFrom sql.NullString
		if id := sub.RenewedFromID(); id != nil {
			renewedFrom = sql.NullString{String: id.String(), Valid: true}
		}
		_, err := exec.Exec(ctx, `
			INSERT INTO subscriptions (`+subscriptionColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sub.ID().String(),
			sub.UserID().String(),
			sub.PlanID().String(),
			string(sub.Status()),
			sub.StartDate().String(),
			sub.EndDate().String(),
			sub.RemainingUnits(),
			sub.RenewalEnabled(),
			sub.PricePaid().String(),
			renewedFrom,
			sub.Version(),
			sharedInfra.FormatTimestamp(sub.CreatedAt()),
			sharedInfra.FormatTimestamp(sub.UpdatedAt()),
		)
		if sharedInfra.IsUniqueViolation(err) {
			return domain.ErrAlreadyRenewed
		}
		return err
	}

	res, err := exec.Exec(ctx, `
		UPDATE subscriptions SET
			status = ?, remaining_units = ?, renewal_enabled = ?, version = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		string(sub.Status()),
		sub.RemainingUnits(),
		sub.RenewalEnabled(),
		sub.Version(),
		sharedInfra.FormatTimestamp(sub.UpdatedAt()),
		sub.ID().String(),
		loaded,
	)
	if err != nil {
		return err
	}
	return sharedInfra.RequireAffected(res, "subscription")
}

// FindByID returns the subscription with the given ID.
func (r *SQLiteSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	return r.findOne(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = ?`, id.String())
}

// FindSuccessor returns the subscription renewed from id.
func (r *SQLiteSubscriptionRepository) FindSuccessor(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	return r.findOne(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE renewed_from_id = ?`, id.String())
}

// FindByUser returns the user's subscriptions, newest first.
func (r *SQLiteSubscriptionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Subscription, error) {
	return r.findMany(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE user_id = ?
		ORDER BY created_at DESC, start_date DESC`, userID.String())
}

// FindCurrent returns the user's newest active subscription still running today.
func (r *SQLiteSubscriptionRepository) FindCurrent(ctx context.Context, userID uuid.UUID, today sharedDomain.Date) (*domain.Subscription, error) {
	return r.findOne(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE user_id = ? AND status = 'active' AND end_date >= ?
		ORDER BY created_at DESC, start_date DESC
		LIMIT 1`, userID.String(), today.String())
}

// FindActiveEndingBefore returns active subscriptions that ended before day.
func (r *SQLiteSubscriptionRepository) FindActiveEndingBefore(ctx context.Context, day sharedDomain.Date) ([]*domain.Subscription, error) {
	return r.findMany(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE status = 'active' AND end_date < ?
		ORDER BY end_date, id`, day.String())
}

// FindActiveEndingBetween returns active subscriptions with from < end_date <= to.
func (r *SQLiteSubscriptionRepository) FindActiveEndingBetween(ctx context.Context, from, to sharedDomain.Date) ([]*domain.Subscription, error) {
	return r.findMany(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE status = 'active' AND end_date > ? AND end_date <= ?
		ORDER BY end_date, id`, from.String(), to.String())
}

func (r *SQLiteSubscriptionRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Subscription, error) {
	exec := sharedInfra.ExecutorFromContext(ctx, r.conn)
	sub, err := scanSQLiteSubscription(exec.QueryRow(ctx, query, args...))
	if sharedInfra.IsNoRows(err) {
		return nil, nil
	}
	return sub, err
}

func (r *SQLiteSubscriptionRepository) findMany(ctx context.Context, query string, args ...any) ([]*domain.Subscription, error) {
	exec := sharedInfra.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]*domain.Subscription, 0)
	for rows.Next() {
		sub, err := scanSQLiteSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func scanSQLiteSubscription(row sharedInfra.Row) (*domain.Subscription, error) {
	var (
		id, userID, planID   string
		status               string
		start, end           sharedDomain.Date
		units, version       int
		renewal              bool
		price                string
		renewedFrom          sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &userID, &planID, &status, &start, &end, &units,
		&renewal, &price, &renewedFrom, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	ids, err := parseUUIDs(id, userID, planID)
	if err != nil {
		return nil, err
	}
	var predecessor *uuid.UUID
	if renewedFrom.Valid {
		parsed, err := uuid.Parse(renewedFrom.String)
		if err != nil {
			return nil, fmt.Errorf("subscription renewed_from_id: %w", err)
		}
		predecessor = &parsed
	}
	pricePaid, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("subscription price_paid: %w", err)
	}
	created, err := sharedInfra.ParseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := sharedInfra.ParseTimestamp(updatedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateSubscription(ids[0], ids[1], ids[2], domain.Status(status), start, end,
		units, renewal, pricePaid, predecessor, version, created, updated), nil
}

func parseUUIDs(values ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(values))
	for i, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid %q: %w", v, err)
		}
		ids[i] = id
	}
	return ids, nil
}

var _ domain.SubscriptionRepository = (*SQLiteSubscriptionRepository)(nil)
