package repository

import (
	"context"
	"database/sql"
	"fmt"

	"apotheca/internal/domain"
)

type MySQLPurchaseRepository struct {
	db *sql.DB
}

func NewMySQLPurchaseRepository(db *sql.DB) *MySQLPurchaseRepository {
	return &MySQLPurchaseRepository{db: db}
}

func (r *MySQLPurchaseRepository) Insert(ctx context.Context, tx *sql.Tx, purchase domain.Purchase) error {
	query := `
		INSERT INTO purchases (id, tenant_id, user_id, supplier_name, total_amount)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		purchase.ID, purchase.TenantID, purchase.UserID,
		purchase.SupplierName, purchase.TotalAmount,
	)
	if err != nil {
		return fmt.Errorf("inserting purchase: %w", err)
	}

	return nil
}

func (r *MySQLPurchaseRepository) InsertLine(ctx context.Context, tx *sql.Tx, line domain.PurchaseLine) error {
	query := `
		INSERT INTO purchase_lines (id, purchase_id, product_id, batch_id, qty, purchase_price)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		line.ID, line.PurchaseID, line.ProductID, line.BatchID,
		line.Qty, line.PurchasePrice,
	)
	if err != nil {
		return fmt.Errorf("inserting purchase line: %w", err)
	}

	return nil
}
