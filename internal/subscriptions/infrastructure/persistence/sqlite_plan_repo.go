// Package persistence provides SQLite and PostgreSQL repositories for plans
// and subscriptions.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sharedInfra "github.com/supplifit/supplifit/internal/shared/infrastructure/database"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
)

const planColumns = `
	id, name, plan_type, description, price, units_per_period, features,
	active, version, created_at, updated_at`

// SQLitePlanRepository implements domain.PlanRepository with SQLite.
type SQLitePlanRepository struct {
	conn sharedInfra.Connection
}

// NewSQLitePlanRepository creates a new repository.
func NewSQLitePlanRepository(conn sharedInfra.Connection) *SQLitePlanRepository {
	return &SQLitePlanRepository{conn: conn}
}

// Save inserts or updates a plan.
func (r *SQLitePlanRepository) Save(ctx context.Context, plan *domain.Plan) error {
	exec := sharedInfra.ExecutorFromContext(ctx, r.conn)
	features, err := json.Marshal(plan.Features())
	if err != nil {
		return fmt.Errorf("failed to encode plan features: %w", err)
	}
	loaded := sharedInfra.LoadedVersion(plan)

	if loaded == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO subscription_plans (`+planColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			plan.ID().String(),
			plan.Name(),
			string(plan.PlanType()),
			plan.Description(),
			plan.Price().String(),
			plan.UnitsPerPeriod(),
			string(features),
			plan.IsActive(),
			plan.Version(),
			sharedInfra.FormatTimestamp(plan.CreatedAt()),
			sharedInfra.FormatTimestamp(plan.UpdatedAt()),
		)
		return err
	}

	res, err := exec.Exec(ctx, `
		UPDATE subscription_plans SET
			name = ?, plan_type = ?, description = ?, price = ?, units_per_period = ?,
			features = ?, active = ?, version = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		plan.Name(),
		string(plan.PlanType()),
		plan.Description(),
		plan.Price().String(),
		plan.UnitsPerPeriod(),
		string(features),
		plan.IsActive(),
		plan.Version(),
		sharedInfra.FormatTimestamp(plan.UpdatedAt()),
		plan.ID().String(),
		loaded,
	)
	if err != nil {
		return err
	}
	return sharedInfra.RequireAffected(res, "plan")
}

// FindByID returns the plan with the given ID.
func (r *SQLitePlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	exec := sharedInfra.ExecutorFromContext(ctx, r.conn)
	plan, err := scanSQLitePlan(exec.QueryRow(ctx,
		`SELECT `+planColumns+` FROM subscription_plans WHERE id = ?`, id.String()))
	if sharedInfra.IsNoRows(err) {
		return nil, nil
	}
	return plan, err
}

// List returns plans ordered by price, optionally only the active ones.
func (r *SQLitePlanRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Plan, error) {
	exec := sharedInfra.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, `
		SELECT `+planColumns+` FROM subscription_plans
		WHERE active = 1 OR ? = 0
		ORDER BY CAST(price AS REAL), name`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]*domain.Plan, 0)
	for rows.Next() {
		plan, err := scanSQLitePlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func scanSQLitePlan(row sharedInfra.Row) (*domain.Plan, error) {
	var (
		id, name, planType   string
		description, price   string
		units, version       int
		features             string
		active               bool
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &name, &planType, &description, &price, &units, &features,
		&active, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	planID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("plan id: %w", err)
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("plan price: %w", err)
	}
	var featureList []string
	if err := json.Unmarshal([]byte(features), &featureList); err != nil {
		return nil, fmt.Errorf("plan features: %w", err)
	}
	created, err := sharedInfra.ParseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := sharedInfra.ParseTimestamp(updatedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydratePlan(planID, name, domain.PlanType(planType), description, amount,
		units, featureList, active, version, created, updated), nil
}

var _ domain.PlanRepository = (*SQLitePlanRepository)(nil)
