package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplifit/supplifit/internal/catalog/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
)

// PostgresSupplementRepository implements domain.SupplementRepository using PostgreSQL.
type PostgresSupplementRepository struct {
	conn database.Connection
}

// NewPostgresSupplementRepository creates a new PostgreSQL supplement repository.
func NewPostgresSupplementRepository(conn database.Connection) *PostgresSupplementRepository {
	return &PostgresSupplementRepository{conn: conn}
}

// Save inserts or updates a supplement.
func (r *PostgresSupplementRepository) Save(ctx context.Context, s *domain.Supplement) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	d := s.Details()
	loaded := database.LoadedVersion(s)

	if loaded == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO supplements (`+supplementColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			s.ID(), s.CategoryID(), d.Name, d.Description, d.Brand, string(d.Type),
			d.ServingSize, d.Ingredients, d.Benefits, d.UsageInstructions,
			s.Price(), s.Available(), s.Version(), s.CreatedAt(), s.UpdatedAt(),
		)
		return err
	}

	res, err := exec.Exec(ctx, `
		UPDATE supplements SET
			category_id = $2, name = $3, description = $4, brand = $5, type = $6,
			serving_size = $7, ingredients = $8, benefits = $9, usage_instructions = $10,
			price = $11, available = $12, version = $13, updated_at = $14
		WHERE id = $1 AND version = $15`,
		s.ID(), s.CategoryID(), d.Name, d.Description, d.Brand, string(d.Type),
		d.ServingSize, d.Ingredients, d.Benefits, d.UsageInstructions,
		s.Price(), s.Available(), s.Version(), s.UpdatedAt(), loaded,
	)
	if err != nil {
		return err
	}
	return database.RequireAffected(res, "supplement")
}

// FindByID returns the supplement with the given ID.
func (r *PostgresSupplementRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Supplement, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	s, err := scanPostgresSupplement(exec.QueryRow(ctx,
		`SELECT `+supplementColumns+` FROM supplements WHERE id = $1`, id))
	if database.IsNoRows(err) {
		return nil, nil
	}
	return s, err
}

// Search lists supplements matching filter.
func (r *PostgresSupplementRepository) Search(ctx context.Context, filter domain.SupplementFilter) ([]*domain.Supplement, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	sql, args := supplementSearchSQL(database.DriverPostgres, filter)
	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	supplements := make([]*domain.Supplement, 0)
	for rows.Next() {
		s, err := scanPostgresSupplement(rows)
		if err != nil {
			return nil, err
		}
		supplements = append(supplements, s)
	}
	return supplements, rows.Err()
}

// CountByCategory counts the supplements in a category.
func (r *PostgresSupplementRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	var n int
	err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM supplements WHERE category_id = $1`, categoryID).Scan(&n)
	return n, err
}

// Delete removes a supplement.
func (r *PostgresSupplementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	res, err := exec.Exec(ctx, `DELETE FROM supplements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return database.RequireAffected(res, "supplement")
}

func scanPostgresSupplement(row database.Row) (*domain.Supplement, error) {
	var (
		id, categoryID       uuid.UUID
		d                    domain.SupplementDetails
		supplementType       string
		price                decimal.Decimal
		available            bool
		version              int
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &categoryID, &d.Name, &d.Description, &d.Brand, &supplementType,
		&d.ServingSize, &d.Ingredients, &d.Benefits, &d.UsageInstructions, &price, &available,
		&version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	d.Type = domain.SupplementType(supplementType)
	return domain.RehydrateSupplement(id, categoryID, d, price, available, version,
		createdAt.UTC(), updatedAt.UTC()), nil
}

var _ domain.SupplementRepository = (*PostgresSupplementRepository)(nil)
