package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplifit/supplifit/internal/partners/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
)

// PostgresStoreRepository implements domain.StoreRepository using PostgreSQL.
type PostgresStoreRepository struct {
	conn database.Connection
}

// NewPostgresStoreRepository creates a new PostgreSQL store repository.
func NewPostgresStoreRepository(conn database.Connection) *PostgresStoreRepository {
	return &PostgresStoreRepository{conn: conn}
}

// Save inserts or updates a store.
func (r *PostgresStoreRepository) Save(ctx context.Context, store *domain.Store) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	details := store.Details()
	loaded := database.LoadedVersion(store)

	if loaded == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO partner_stores (`+storeColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			store.ID(), store.OwnerID(), details.Name, details.RegistrationNumber,
			details.Address, details.Phone, details.Email, details.Description,
			string(store.Tier()), string(store.Status()), store.CommissionRate(),
			store.Featured(), store.PrioritySupport(), store.Version(),
			store.CreatedAt(), store.UpdatedAt(),
		)
		if database.IsUniqueViolation(err) {
			return domain.ErrRegistrationInUse
		}
		return err
	}

	res, err := exec.Exec(ctx, `
		UPDATE partner_stores SET
			name = $2, address = $3, phone = $4, email = $5, description = $6,
			tier = $7, status = $8, commission_rate = $9, featured = $10,
			priority_support = $11, version = $12, updated_at = $13
		WHERE id = $1 AND version = $14`,
		store.ID(), details.Name, details.Address, details.Phone, details.Email,
		details.Description, string(store.Tier()), string(store.Status()),
		store.CommissionRate(), store.Featured(), store.PrioritySupport(),
		store.Version(), store.UpdatedAt(), loaded,
	)
	if err != nil {
		return err
	}
	return database.RequireAffected(res, "store")
}

// FindByID returns the store with the given ID.
func (r *PostgresStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	return r.findOne(ctx, `SELECT `+storeColumns+` FROM partner_stores WHERE id = $1`, id)
}

// FindByRegistrationNumber returns the store with the given registration number.
func (r *PostgresStoreRepository) FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*domain.Store, error) {
	return r.findOne(ctx, `SELECT `+storeColumns+` FROM partner_stores WHERE registration_number = $1`, registrationNumber)
}

// FindByOwner returns the owner's stores, newest first.
func (r *PostgresStoreRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Store, error) {
	return r.findMany(ctx, `
		SELECT `+storeColumns+` FROM partner_stores
		WHERE owner_id = $1
		ORDER BY created_at DESC`, ownerID)
}

// Search matches name, registration number or address.
func (r *PostgresStoreRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Store, error) {
	pattern := "%" + database.EscapeLike(query) + "%"
	return r.findMany(ctx, `
		SELECT `+storeColumns+` FROM partner_stores
		WHERE name ILIKE $1 OR registration_number ILIKE $1 OR address ILIKE $1
		ORDER BY name
		LIMIT $2`, pattern, limit)
}

func (r *PostgresStoreRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Store, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	store, err := scanPostgresStore(exec.QueryRow(ctx, query, args...))
	if database.IsNoRows(err) {
		return nil, nil
	}
	return store, err
}

func (r *PostgresStoreRepository) findMany(ctx context.Context, query string, args ...any) ([]*domain.Store, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := make([]*domain.Store, 0)
	for rows.Next() {
		store, err := scanPostgresStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}
	return stores, rows.Err()
}

func scanPostgresStore(row database.Row) (*domain.Store, error) {
	var (
		id, ownerID          uuid.UUID
		details              domain.StoreDetails
		tier, status         string
		rate                 decimal.Decimal
		featured, priority   bool
		version              int
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(
		&id, &ownerID, &details.Name, &details.RegistrationNumber, &details.Address,
		&details.Phone, &details.Email, &details.Description, &tier, &status, &rate,
		&featured, &priority, &version, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	return domain.RehydrateStore(id, ownerID, details, domain.StoreStatus(status), domain.Tier(tier),
		rate, featured, priority, version, createdAt.UTC(), updatedAt.UTC()), nil
}

var _ domain.StoreRepository = (*PostgresStoreRepository)(nil)
