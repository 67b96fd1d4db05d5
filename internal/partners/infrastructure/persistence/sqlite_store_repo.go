// Package persistence provides SQLite and PostgreSQL partner store repositories.
package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplifit/supplifit/internal/partners/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
)

const storeColumns = `
	id, owner_id, name, registration_number, address, phone, email, description,
	tier, status, commission_rate, featured, priority_support, version,
	created_at, updated_at`

// SQLiteStoreRepository implements domain.StoreRepository with SQLite.
type SQLiteStoreRepository struct {
	conn database.Connection
}

// NewSQLiteStoreRepository creates a new repository.
func NewSQLiteStoreRepository(conn database.Connection) *SQLiteStoreRepository {
	return &SQLiteStoreRepository{conn: conn}
}

// Save inserts or updates a store.
func (r *SQLiteStoreRepository) Save(ctx context.Context, store *domain.Store) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	details := store.Details()
	loaded := database.LoadedVersion(store)

	if loaded == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO partner_stores (`+storeColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			store.ID().String(),
			store.OwnerID().String(),
			details.Name,
			details.RegistrationNumber,
			details.Address,
			details.Phone,
			details.Email,
			details.Description,
			string(store.Tier()),
			string(store.Status()),
			store.CommissionRate().String(),
			store.Featured(),
			store.PrioritySupport(),
			store.Version(),
			database.FormatTimestamp(store.CreatedAt()),
			database.FormatTimestamp(store.UpdatedAt()),
		)
		if database.IsUniqueViolation(err) {
			return domain.ErrRegistrationInUse
		}
		return err
	}

	res, err := exec.Exec(ctx, `
		UPDATE partner_stores SET
			name = ?, address = ?, phone = ?, email = ?, description = ?,
			tier = ?, status = ?, commission_rate = ?, featured = ?, priority_support = ?,
			version = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		details.Name,
		details.Address,
		details.Phone,
		details.Email,
		details.Description,
		string(store.Tier()),
		string(store.Status()),
		store.CommissionRate().String(),
		store.Featured(),
		store.PrioritySupport(),
		store.Version(),
		database.FormatTimestamp(store.UpdatedAt()),
		store.ID().String(),
		loaded,
	)
	if err != nil {
		return err
	}
	return database.RequireAffected(res, "store")
}

// FindByID returns the store with the given ID.
func (r *SQLiteStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	return r.findOne(ctx, `SELECT `+storeColumns+` FROM partner_stores WHERE id = ?`, id.String())
}

// FindByRegistrationNumber returns the store with the given registration number.
func (r *SQLiteStoreRepository) FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*domain.Store, error) {
	return r.findOne(ctx, `SELECT `+storeColumns+` FROM partner_stores WHERE registration_number = ?`, registrationNumber)
}

// FindByOwner returns the owner's stores, newest first.
func (r *SQLiteStoreRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Store, error) {
	return r.findMany(ctx, `
		SELECT `+storeColumns+` FROM partner_stores
		WHERE owner_id = ?
		ORDER BY created_at DESC`, ownerID.String())
}

// Search matches name, registration number or address.
func (r *SQLiteStoreRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Store, error) {
	pattern := "%" + database.EscapeLike(strings.ToLower(query)) + "%"
	return r.findMany(ctx, `
		SELECT `+storeColumns+` FROM partner_stores
		WHERE lower(name) LIKE ? ESCAPE '\'
		   OR registration_number LIKE ? ESCAPE '\'
		   OR lower(address) LIKE ? ESCAPE '\'
		ORDER BY name
		LIMIT ?`, pattern, pattern, pattern, limit)
}

func (r *SQLiteStoreRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Store, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	store, err := scanSQLiteStore(exec.QueryRow(ctx, query, args...))
	if database.IsNoRows(err) {
		return nil, nil
	}
	return store, err
}

func (r *SQLiteStoreRepository) findMany(ctx context.Context, query string, args ...any) ([]*domain.Store, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := make([]*domain.Store, 0)
	for rows.Next() {
		store, err := scanSQLiteStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}
	return stores, rows.Err()
}

func scanSQLiteStore(row database.Row) (*domain.Store, error) {
	var (
		id, ownerID          string
		details              domain.StoreDetails
		tier, status         string
		rate                 string
		featured, priority   bool
		version              int
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&id, &ownerID, &details.Name, &details.RegistrationNumber, &details.Address,
		&details.Phone, &details.Email, &details.Description, &tier, &status, &rate,
		&featured, &priority, &version, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	storeID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("store id: %w", err)
	}
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("store owner id: %w", err)
	}
	commissionRate, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("store commission rate: %w", err)
	}
	created, err := database.ParseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := database.ParseTimestamp(updatedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateStore(storeID, owner, details, domain.StoreStatus(status), domain.Tier(tier),
		commissionRate, featured, priority, version, created, updated), nil
}

var _ domain.StoreRepository = (*SQLiteStoreRepository)(nil)
