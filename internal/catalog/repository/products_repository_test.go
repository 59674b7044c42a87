package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apotheca/internal/errors"
	"apotheca/internal/testutil"
)

// Unit Tests

func TestNewMySQLRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func TestProductsRepository_FindByBarcode_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	_, err := db.Exec(`
		INSERT INTO products (id, tenant_id, sku, name, barcode, critical_stock_level)
		VALUES ('product-p', 'tenant-1', 'SKU-1', 'Aspirin 500mg', '4006381333931', 10)
	`)
	require.NoError(t, err)

	product, err := repo.FindByBarcode(context.Background(), "tenant-1", "4006381333931")
	require.NoError(t, err)
	assert.Equal(t, "product-p", product.ID)
	assert.Equal(t, "SKU-1", product.SKU)
	assert.Equal(t, "Aspirin 500mg", product.Name)
	require.NotNil(t, product.Barcode)
	assert.Equal(t, "4006381333931", *product.Barcode)
	assert.Equal(t, 10, product.CriticalStockLevel)
}

func TestProductsRepository_FindByBarcode_WrongTenant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	_, err := db.Exec(`
		INSERT INTO products (id, tenant_id, sku, name, barcode)
		VALUES ('product-p', 'tenant-2', 'SKU-1', 'Aspirin 500mg', '4006381333931')
	`)
	require.NoError(t, err)

	product, err := repo.FindByBarcode(context.Background(), "tenant-1", "4006381333931")
	assert.Nil(t, product)

	nfe, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, nfe)
}

func TestProductsRepository_FindByBarcode_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	product, err := repo.FindByBarcode(context.Background(), "tenant-1", "0000000000000")
	assert.Nil(t, product)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}
