package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/supplifit/supplifit/internal/catalog/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
)

// PostgresCategoryRepository implements domain.CategoryRepository using PostgreSQL.
type PostgresCategoryRepository struct {
	conn database.Connection
}

// NewPostgresCategoryRepository creates a new PostgreSQL category repository.
func NewPostgresCategoryRepository(conn database.Connection) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{conn: conn}
}

// Save inserts or updates a category.
func (r *PostgresCategoryRepository) Save(ctx context.Context, category *domain.Category) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	loaded := database.LoadedVersion(category)

	if loaded == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO supplement_categories (`+categoryColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			category.ID(), category.Name(), category.Description(),
			category.Version(), category.CreatedAt(), category.UpdatedAt(),
		)
		return err
	}

	res, err := exec.Exec(ctx, `
		UPDATE supplement_categories SET name = $2, description = $3, version = $4, updated_at = $5
		WHERE id = $1 AND version = $6`,
		category.ID(), category.Name(), category.Description(),
		category.Version(), category.UpdatedAt(), loaded,
	)
	if err != nil {
		return err
	}
	return database.RequireAffected(res, "category")
}

// FindByID returns the category with the given ID.
func (r *PostgresCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	category, err := scanPostgresCategory(exec.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM supplement_categories WHERE id = $1`, id))
	if database.IsNoRows(err) {
		return nil, nil
	}
	return category, err
}

// List returns categories ordered by name.
func (r *PostgresCategoryRepository) List(ctx context.Context, query string) ([]*domain.Category, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	sql, args := categoryListSQL(database.DriverPostgres, query)
	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		category, err := scanPostgresCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Delete removes a category.
func (r *PostgresCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	res, err := exec.Exec(ctx, `DELETE FROM supplement_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return database.RequireAffected(res, "category")
}

func scanPostgresCategory(row database.Row) (*domain.Category, error) {
	var (
		id                   uuid.UUID
		name, description    string
		version              int
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &description, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateCategory(id, name, description, version, createdAt.UTC(), updatedAt.UTC()), nil
}

var _ domain.CategoryRepository = (*PostgresCategoryRepository)(nil)
