package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration test database. It expects a MySQL
// instance on localhost:3306 with a database named 'apotheca_test' and skips
// the test when none is reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/apotheca_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties every test table and closes the connection. Child
// tables go first so foreign keys never block the deletes.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{
		"audit_logs", "sale_lines", "sales", "purchase_lines", "purchases",
		"stock_batches", "products", "users", "tenants",
	}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema used by the repositories.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createTenantsTable := `
	CREATE TABLE IF NOT EXISTS tenants (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		near_expiry_days INT NOT NULL DEFAULT 30,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	createUsersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id CHAR(36) NOT NULL PRIMARY KEY,
		tenant_id CHAR(36) NOT NULL,
		name VARCHAR(255),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_users_tenant (tenant_id)
	)`

	createProductsTable := `
	CREATE TABLE IF NOT EXISTS products (
		id CHAR(36) NOT NULL PRIMARY KEY,
		tenant_id CHAR(36) NOT NULL,
		sku VARCHAR(100) NOT NULL,
		name VARCHAR(255) NOT NULL,
		barcode VARCHAR(64),
		critical_stock_level INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_products_tenant_sku (tenant_id, sku),
		INDEX idx_products_tenant_barcode (tenant_id, barcode)
	)`

	createStockBatchesTable := `
	CREATE TABLE IF NOT EXISTS stock_batches (
		id CHAR(36) NOT NULL PRIMARY KEY,
		tenant_id CHAR(36) NOT NULL,
		product_id CHAR(36) NOT NULL,
		batch_no VARCHAR(100) NOT NULL,
		qty_on_hand INT NOT NULL DEFAULT 0,
		purchase_price DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		sale_price DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		expiry_date DATE NOT NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
		UNIQUE KEY uq_batches_tenant_product_no (tenant_id, product_id, batch_no),
		INDEX idx_batches_fifo (tenant_id, product_id, expiry_date, created_at)
	)`

	createSalesTable := `
	CREATE TABLE IF NOT EXISTS sales (
		id CHAR(36) NOT NULL PRIMARY KEY,
		tenant_id CHAR(36) NOT NULL,
		user_id CHAR(36) NOT NULL,
		total_amount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_sales_tenant (tenant_id)
	)`

	createSaleLinesTable := `
	CREATE TABLE IF NOT EXISTS sale_lines (
		id CHAR(36) NOT NULL PRIMARY KEY,
		sale_id CHAR(36) NOT NULL,
		product_id CHAR(36) NOT NULL,
		batch_id CHAR(36) NOT NULL,
		qty INT NOT NULL,
		unit_price DECIMAL(12,2) NOT NULL,
		line_total DECIMAL(12,2) NOT NULL,
		FOREIGN KEY (sale_id) REFERENCES sales(id) ON DELETE CASCADE,
		INDEX idx_sale_lines_sale (sale_id)
	)`

	createPurchasesTable := `
	CREATE TABLE IF NOT EXISTS purchases (
		id CHAR(36) NOT NULL PRIMARY KEY,
		tenant_id CHAR(36) NOT NULL,
		user_id CHAR(36) NOT NULL,
		supplier_name VARCHAR(255) NOT NULL,
		total_amount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_purchases_tenant (tenant_id)
	)`

	createPurchaseLinesTable := `
	CREATE TABLE IF NOT EXISTS purchase_lines (
		id CHAR(36) NOT NULL PRIMARY KEY,
		purchase_id CHAR(36) NOT NULL,
		product_id CHAR(36) NOT NULL,
		batch_id CHAR(36) NOT NULL,
		qty INT NOT NULL,
		purchase_price DECIMAL(12,2) NOT NULL,
		FOREIGN KEY (purchase_id) REFERENCES purchases(id) ON DELETE CASCADE,
		INDEX idx_purchase_lines_purchase (purchase_id)
	)`

	createAuditLogsTable := `
	CREATE TABLE IF NOT EXISTS audit_logs (
		id CHAR(36) NOT NULL PRIMARY KEY,
		tenant_id CHAR(36) NOT NULL,
		user_id CHAR(36) NOT NULL,
		action VARCHAR(50) NOT NULL,
		entity VARCHAR(50) NOT NULL,
		entity_id CHAR(36) NOT NULL,
		payload JSON,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_audit_tenant (tenant_id)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"tenants", createTenantsTable},
		{"users", createUsersTable},
		{"products", createProductsTable},
		{"stock_batches", createStockBatchesTable},
		{"sales", createSalesTable},
		{"sale_lines", createSaleLinesTable},
		{"purchases", createPurchasesTable},
		{"purchase_lines", createPurchaseLinesTable},
		{"audit_logs", createAuditLogsTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Fatalf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
