package repository

import (
	"context"
	"database/sql"
	"fmt"

	"apotheca/internal/domain"
	"apotheca/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) FindByBarcode(ctx context.Context, tenantID, code string) (*domain.Product, error) {
	query := `
		SELECT id, tenant_id, sku, name, barcode, critical_stock_level, created_at, updated_at
		FROM products
		WHERE tenant_id = ?
		  AND barcode = ?
	`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, tenantID, code).Scan(
		&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.Barcode,
		&p.CriticalStockLevel, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with barcode %s not found", code))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by barcode: %w", err)
	}

	return &p, nil
}
