package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"apotheca/internal/domain"
	"apotheca/internal/dto"
	"apotheca/internal/errors"
)

const batchColumns = `id, tenant_id, product_id, batch_no, qty_on_hand,
	       purchase_price, sale_price, expiry_date, created_at, updated_at`

// fifoOrder is the total order for batch selection: earliest expiry first,
// creation order as the stable tiebreak.
const fifoOrder = `ORDER BY expiry_date ASC, created_at ASC, id ASC`

type MySQLBatchRepository struct {
	db *sql.DB
}

func NewMySQLBatchRepository(db *sql.DB) *MySQLBatchRepository {
	return &MySQLBatchRepository{db: db}
}

func scanBatch(row *sql.Row) (*domain.StockBatch, error) {
	var b domain.StockBatch
	err := row.Scan(
		&b.ID, &b.TenantID, &b.ProductID, &b.BatchNo, &b.QtyOnHand,
		&b.PurchasePrice, &b.SalePrice, &b.ExpiryDate, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindFIFOBatch returns the head of the FIFO order among the product's
// batches with stock on hand. Pure read, no locks taken.
func (r *MySQLBatchRepository) FindFIFOBatch(ctx context.Context, tenantID, productID string) (*domain.StockBatch, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM stock_batches
		WHERE tenant_id = ?
		  AND product_id = ?
		  AND qty_on_hand > 0
		%s
		LIMIT 1`, batchColumns, fifoOrder)

	batch, err := scanBatch(r.db.QueryRowContext(ctx, query, tenantID, productID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no batch with stock for product %s", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying fifo batch: %w", err)
	}

	return batch, nil
}

// FindFIFOBatchForUpdate is the transactional variant: it locks the selected
// row so the selection stays valid until the deduction in the same
// transaction commits.
func (r *MySQLBatchRepository) FindFIFOBatchForUpdate(ctx context.Context, tx *sql.Tx, tenantID, productID string) (*domain.StockBatch, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM stock_batches
		WHERE tenant_id = ?
		  AND product_id = ?
		  AND qty_on_hand > 0
		%s
		LIMIT 1
		FOR UPDATE`, batchColumns, fifoOrder)

	batch, err := scanBatch(tx.QueryRowContext(ctx, query, tenantID, productID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no batch with stock for product %s", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying fifo batch for update: %w", err)
	}

	return batch, nil
}

func (r *MySQLBatchRepository) FindByID(ctx context.Context, batchID string) (*domain.StockBatch, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_batches WHERE id = ?`, batchColumns)

	batch, err := scanBatch(r.db.QueryRowContext(ctx, query, batchID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("batch %s not found", batchID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying batch by id: %w", err)
	}

	return batch, nil
}

// Deduct decrements qty_on_hand as one guarded statement. The qty_on_hand >= ?
// predicate makes verify-and-write a single atomic step: of two concurrent
// deductions that together exceed the available quantity, at most one matches
// the row. Returns false when the guard rejected the write (row missing or
// insufficient quantity) without distinguishing the two; callers that care
// re-read the row.
func (r *MySQLBatchRepository) Deduct(ctx context.Context, batchID string, qty int) (bool, error) {
	query := `
		UPDATE stock_batches
		SET qty_on_hand = qty_on_hand - ?
		WHERE id = ? AND qty_on_hand >= ?
	`

	result, err := r.db.ExecContext(ctx, query, qty, batchID, qty)
	if err != nil {
		return false, fmt.Errorf("deducting stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// DeductTx is Deduct inside a caller-owned transaction.
func (r *MySQLBatchRepository) DeductTx(ctx context.Context, tx *sql.Tx, batchID string, qty int) (bool, error) {
	query := `
		UPDATE stock_batches
		SET qty_on_hand = qty_on_hand - ?
		WHERE id = ? AND qty_on_hand >= ?
	`

	result, err := tx.ExecContext(ctx, query, qty, batchID, qty)
	if err != nil {
		return false, fmt.Errorf("deducting stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// FindForReceive locks the batch matching (tenant, product, batch number) for
// the receiving upsert, or reports not-found so the caller inserts a new one.
func (r *MySQLBatchRepository) FindForReceive(ctx context.Context, tx *sql.Tx, tenantID, productID, batchNo string) (*domain.StockBatch, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM stock_batches
		WHERE tenant_id = ?
		  AND product_id = ?
		  AND batch_no = ?
		FOR UPDATE`, batchColumns)

	batch, err := scanBatch(tx.QueryRowContext(ctx, query, tenantID, productID, batchNo))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("batch %s for product %s not found", batchNo, productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying batch for receive: %w", err)
	}

	return batch, nil
}

// Receive increments qty_on_hand and overwrites prices and expiry date with
// the newly received values (last-write-wins).
func (r *MySQLBatchRepository) Receive(ctx context.Context, tx *sql.Tx, batchID string, qty int, purchasePrice, salePrice decimal.Decimal, expiryDate time.Time) error {
	query := `
		UPDATE stock_batches
		SET qty_on_hand = qty_on_hand + ?,
		    purchase_price = ?,
		    sale_price = ?,
		    expiry_date = ?
		WHERE id = ?
	`

	result, err := tx.ExecContext(ctx, query, qty, purchasePrice, salePrice, expiryDate, batchID)
	if err != nil {
		return fmt.Errorf("receiving into batch: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("batch %s not found", batchID))
	}

	return nil
}

func (r *MySQLBatchRepository) Insert(ctx context.Context, tx *sql.Tx, batch domain.StockBatch) error {
	query := `
		INSERT INTO stock_batches (id, tenant_id, product_id, batch_no, qty_on_hand,
		                           purchase_price, sale_price, expiry_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		batch.ID, batch.TenantID, batch.ProductID, batch.BatchNo, batch.QtyOnHand,
		batch.PurchasePrice, batch.SalePrice, batch.ExpiryDate,
	)
	if err != nil {
		return fmt.Errorf("inserting batch: %w", err)
	}

	return nil
}

// FindLevels lists all positive batches of the tenant joined with product
// info, ordered the way the inventory screen shows them. productID narrows to
// one product when non-empty.
func (r *MySQLBatchRepository) FindLevels(ctx context.Context, tenantID, productID string) ([]dto.StockLevel, error) {
	query := `
		SELECT b.id, b.batch_no, b.product_id, p.name, p.sku, b.qty_on_hand,
		       b.sale_price, b.expiry_date, p.critical_stock_level
		FROM stock_batches b
		JOIN products p ON p.id = b.product_id
		WHERE b.tenant_id = ?
		  AND b.qty_on_hand > 0
	`
	args := []interface{}{tenantID}

	if productID != "" {
		query += " AND b.product_id = ?"
		args = append(args, productID)
	}

	query += " ORDER BY b.expiry_date ASC, b.created_at ASC, b.id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying stock levels: %w", err)
	}
	defer rows.Close()

	var levels []dto.StockLevel
	for rows.Next() {
		var lvl dto.StockLevel
		err := rows.Scan(
			&lvl.BatchID, &lvl.BatchNo, &lvl.ProductID, &lvl.ProductName, &lvl.SKU,
			&lvl.QtyOnHand, &lvl.SalePrice, &lvl.ExpiryDate, &lvl.CriticalStockLevel,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning stock level row: %w", err)
		}
		levels = append(levels, lvl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stock level rows: %w", err)
	}

	return levels, nil
}
