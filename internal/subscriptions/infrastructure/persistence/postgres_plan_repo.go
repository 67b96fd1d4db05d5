package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	sharedInfra "github.com/supplifit/supplifit/internal/shared/infrastructure/database"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
)

// PostgresPlanRepository implements domain.PlanRepository using PostgreSQL.
type PostgresPlanRepository struct {
	conn sharedInfra.Connection
}

// NewPostgresPlanRepository creates a new PostgreSQL plan repository.
func NewPostgresPlanRepository(conn sharedInfra.Connection) *PostgresPlanRepository {
	return &PostgresPlanRepository{conn: conn}
}

// Save inserts or updates a plan.
func (r *PostgresPlanRepository) Save(ctx context.Context, plan *domain.Plan) error {
	exec := sharedInfra.ExecutorFromContext(ctx, r.conn)
	loaded := sharedInfra.LoadedVersion(plan)

	if loaded == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO subscription_plans (`+planColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			plan.ID(), plan.Name(), string(plan.PlanType()), plan.Description(),
			plan.Price(), plan.UnitsPerPeriod(), pq.Array(plan.Features()),
			plan.IsActive(), plan.Version(), plan.CreatedAt(), plan.UpdatedAt(),
		)
		return err
	}

	res, err := exec.Exec(ctx, `
		UPDATE subscription_plans SET
			name = $2, plan_type = $3, description = $4, price = $5,
			units_per_period = $6, features = $7, active = $8, version = $9, updated_at = $10
		WHERE id = $1 AND version = $11`,
		plan.ID(), plan.Name(), string(plan.PlanType()), plan.Description(),
		plan.Price(), plan.UnitsPerPeriod(), pq.Array(plan.Features()),
		plan.IsActive(), plan.Version(), plan.UpdatedAt(), loaded,
	)
	if err != nil {
		return err
	}
	return sharedInfra.RequireAffected(res, "plan")
}

// FindByID returns the plan with the given ID.
func (r *PostgresPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	exec := sharedInfra.ExecutorFromContext(ctx, r.conn)
	plan, err := scanPostgresPlan(exec.QueryRow(ctx,
		`SELECT `+planColumns+` FROM subscription_plans WHERE id = $1`, id))
	if sharedInfra.IsNoRows(err) {
		return nil, nil
	}
	return plan, err
}

// List returns plans ordered by price, optionally only the active ones.
func (r *PostgresPlanRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Plan, error) {
	exec := sharedInfra.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, `
		SELECT `+planColumns+` FROM subscription_plans
		WHERE active OR NOT $1
		ORDER BY price, name`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]*domain.Plan, 0)
	for rows.Next() {
		plan, err := scanPostgresPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func scanPostgresPlan(row sharedInfra.Row) (*domain.Plan, error) {
	var (
		id                   uuid.UUID
		name, planType, desc string
		price                decimal.Decimal
		units, version       int
		features             []string
		active               bool
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &planType, &desc, &price, &units, pq.Array(&features),
		&active, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.RehydratePlan(id, name, domain.PlanType(planType), desc, price, units,
		features, active, version, createdAt.UTC(), updatedAt.UTC()), nil
}

var _ domain.PlanRepository = (*PostgresPlanRepository)(nil)
