package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplifit/supplifit/internal/catalog/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
)

// SQLiteSupplementRepository implements domain.SupplementRepository with SQLite.
type SQLiteSupplementRepository struct {
	conn database.Connection
}

// NewSQLiteSupplementRepository creates a new repository.
func NewSQLiteSupplementRepository(conn database.Connection) *SQLiteSupplementRepository {
	return &SQLiteSupplementRepository{conn: conn}
}

// Save inserts or updates a supplement.
func (r *SQLiteSupplementRepository) Save(ctx context.Context, s *domain.Supplement) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	d := s.Details()
	loaded := database.LoadedVersion(s)

	if loaded == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO supplements (`+supplementColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID().String(),
			s.CategoryID().String(),
			d.Name,
			d.Description,
			d.Brand,
			string(d.Type),
			d.ServingSize,
			d.Ingredients,
			d.Benefits,
			d.UsageInstructions,
			s.Price().StringFixed(2),
			s.Available(),
			s.Version(),
			database.FormatTimestamp(s.CreatedAt()),
			database.FormatTimestamp(s.UpdatedAt()),
		)
		return err
	}

	res, err := exec.Exec(ctx, `
		UPDATE supplements SET
			category_id = ?, name = ?, description = ?, brand = ?, type = ?,
			serving_size = ?, ingredients = ?, benefits = ?, usage_instructions = ?,
			price = ?, available = ?, version = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		s.CategoryID().String(),
		d.Name,
		d.Description,
		d.Brand,
		string(d.Type),
		d.ServingSize,
		d.Ingredients,
		d.Benefits,
		d.UsageInstructions,
		s.Price().StringFixed(2),
		s.Available(),
		s.Version(),
		database.FormatTimestamp(s.UpdatedAt()),
		s.ID().String(),
		loaded,
	)
	if err != nil {
		return err
	}
	return database.RequireAffected(res, "supplement")
}

// FindByID returns the supplement with the given ID.
func (r *SQLiteSupplementRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Supplement, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	s, err := scanSQLiteSupplement(exec.QueryRow(ctx,
		`SELECT `+supplementColumns+` FROM supplements WHERE id = ?`, id.String()))
	if database.IsNoRows(err) {
		return nil, nil
	}
	return s, err
}

// Search lists supplements matching filter.
func (r *SQLiteSupplementRepository) Search(ctx context.Context, filter domain.SupplementFilter) ([]*domain.Supplement, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	sql, args := supplementSearchSQL(database.DriverSQLite, filter)
	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	supplements := make([]*domain.Supplement, 0)
	for rows.Next() {
		s, err := scanSQLiteSupplement(rows)
		if err != nil {
			return nil, err
		}
		supplements = append(supplements, s)
	}
	return supplements, rows.Err()
}

// CountByCategory counts the supplements in a category.
func (r *SQLiteSupplementRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	var n int
	err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM supplements WHERE category_id = ?`, categoryID.String()).Scan(&n)
	return n, err
}

// Delete removes a supplement.
func (r *SQLiteSupplementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	res, err := exec.Exec(ctx, `DELETE FROM supplements WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	return database.RequireAffected(res, "supplement")
}

func scanSQLiteSupplement(row database.Row) (*domain.Supplement, error) {
	var (
		id, categoryID       string
		d                    domain.SupplementDetails
		supplementType       string
		price                string
		available            bool
		version              int
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &categoryID, &d.Name, &d.Description, &d.Brand, &supplementType,
		&d.ServingSize, &d.Ingredients, &d.Benefits, &d.UsageInstructions, &price, &available,
		&version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	d.Type = domain.SupplementType(supplementType)

	supplementID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("supplement id: %w", err)
	}
	category, err := uuid.Parse(categoryID)
	if err != nil {
		return nil, fmt.Errorf("supplement category id: %w", err)
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("supplement price: %w", err)
	}
	created, err := database.ParseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := database.ParseTimestamp(updatedAt)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateSupplement(supplementID, category, d, amount, available, version, created, updated), nil
}

var _ domain.SupplementRepository = (*SQLiteSupplementRepository)(nil)
