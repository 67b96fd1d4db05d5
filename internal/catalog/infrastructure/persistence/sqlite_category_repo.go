package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/supplifit/supplifit/internal/catalog/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
)

// SQLiteCategoryRepository implements domain.CategoryRepository with SQLite.
type SQLiteCategoryRepository struct {
	conn database.Connection
}

// NewSQLiteCategoryRepository creates a new repository.
func NewSQLiteCategoryRepository(conn database.Connection) *SQLiteCategoryRepository {
	return &SQLiteCategoryRepository{conn: conn}
}

// Save inserts or updates a category.
func (r *SQLiteCategoryRepository) Save(ctx context.Context, category *domain.Category) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	loaded := database.LoadedVersion(category)

	if loaded == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO supplement_categories (`+categoryColumns+`)
			VALUES (?, ?, ?, ?, ?, ?)`,
			category.ID().String(),
			category.Name(),
			category.Description(),
			category.Version(),
			database.FormatTimestamp(category.CreatedAt()),
			database.FormatTimestamp(category.UpdatedAt()),
		)
		return err
	}

	res, err := exec.Exec(ctx, `
		UPDATE supplement_categories SET name = ?, description = ?, version = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		category.Name(),
		category.Description(),
		category.Version(),
		database.FormatTimestamp(category.UpdatedAt()),
		category.ID().String(),
		loaded,
	)
	if err != nil {
		return err
	}
	return database.RequireAffected(res, "category")
}

// FindByID returns the category with the given ID.
func (r *SQLiteCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	category, err := scanSQLiteCategory(exec.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM supplement_categories WHERE id = ?`, id.String()))
	if database.IsNoRows(err) {
		return nil, nil
	}
	return category, err
}

// List returns categories ordered by name.
func (r *SQLiteCategoryRepository) List(ctx context.Context, query string) ([]*domain.Category, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	sql, args := categoryListSQL(database.DriverSQLite, query)
	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		category, err := scanSQLiteCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Delete removes a category.
func (r *SQLiteCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	res, err := exec.Exec(ctx, `DELETE FROM supplement_categories WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	return database.RequireAffected(res, "category")
}

func scanSQLiteCategory(row database.Row) (*domain.Category, error) {
	var (
		id, name, description string
		version               int
		createdAt, updatedAt  string
	)
	if err := row.Scan(&id, &name, &description, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	categoryID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("category id: %w", err)
	}
	created, err := database.ParseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := database.ParseTimestamp(updatedAt)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateCategory(categoryID, name, description, version, created, updated), nil
}

var _ domain.CategoryRepository = (*SQLiteCategoryRepository)(nil)
