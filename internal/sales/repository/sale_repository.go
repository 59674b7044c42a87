package repository

import (
	"context"
	"database/sql"
	"fmt"

	"apotheca/internal/domain"
)

type MySQLSaleRepository struct {
	db *sql.DB
}

func NewMySQLSaleRepository(db *sql.DB) *MySQLSaleRepository {
	return &MySQLSaleRepository{db: db}
}

func (r *MySQLSaleRepository) Insert(ctx context.Context, tx *sql.Tx, sale domain.Sale) error {
	query := `
		INSERT INTO sales (id, tenant_id, user_id, total_amount)
		VALUES (?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query, sale.ID, sale.TenantID, sale.UserID, sale.TotalAmount)
	if err != nil {
		return fmt.Errorf("inserting sale: %w", err)
	}

	return nil
}

func (r *MySQLSaleRepository) InsertLine(ctx context.Context, tx *sql.Tx, line domain.SaleLine) error {
	query := `
		INSERT INTO sale_lines (id, sale_id, product_id, batch_id, qty, unit_price, line_total)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		line.ID, line.SaleID, line.ProductID, line.BatchID,
		line.Qty, line.UnitPrice, line.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("inserting sale line: %w", err)
	}

	return nil
}
