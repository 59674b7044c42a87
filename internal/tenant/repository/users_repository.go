package repository

import (
	"context"
	"database/sql"
	"fmt"

	"apotheca/internal/domain"
	"apotheca/internal/errors"
)

type MySQLUserRepository struct {
	db *sql.DB
}

func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

func (r *MySQLUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, tenant_id FROM users WHERE id = ?`

	var user domain.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.TenantID)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("user %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by id: %w", err)
	}

	return &user, nil
}

type MySQLTenantRepository struct {
	db *sql.DB
}

func NewMySQLTenantRepository(db *sql.DB) *MySQLTenantRepository {
	return &MySQLTenantRepository{db: db}
}

func (r *MySQLTenantRepository) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	query := `SELECT id, name, near_expiry_days, created_at FROM tenants WHERE id = ?`

	var tenant domain.Tenant
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tenant.ID, &tenant.Name, &tenant.NearExpiryDays, &tenant.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("tenant %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying tenant by id: %w", err)
	}

	if tenant.NearExpiryDays <= 0 {
		tenant.NearExpiryDays = domain.DefaultNearExpiryDays
	}

	return &tenant, nil
}
