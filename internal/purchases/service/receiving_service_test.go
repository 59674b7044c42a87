package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"apotheca/internal/domain"
	"apotheca/internal/dto"
	apperrors "apotheca/internal/errors"
)

type mockBatchRepository struct {
	FindForReceiveFunc func(ctx context.Context, tx *sql.Tx, tenantID, productID, batchNo string) (*domain.StockBatch, error)
	ReceiveFunc        func(ctx context.Context, tx *sql.Tx, batchID string, qty int, purchasePrice, salePrice decimal.Decimal, expiryDate time.Time) error
	InsertFunc         func(ctx context.Context, tx *sql.Tx, batch domain.StockBatch) error
}

func (m *mockBatchRepository) FindForReceive(ctx context.Context, tx *sql.Tx, tenantID, productID, batchNo string) (*domain.StockBatch, error) {
	return m.FindForReceiveFunc(ctx, tx, tenantID, productID, batchNo)
}

func (m *mockBatchRepository) Receive(ctx context.Context, tx *sql.Tx, batchID string, qty int, purchasePrice, salePrice decimal.Decimal, expiryDate time.Time) error {
	return m.ReceiveFunc(ctx, tx, batchID, qty, purchasePrice, salePrice, expiryDate)
}

func (m *mockBatchRepository) Insert(ctx context.Context, tx *sql.Tx, batch domain.StockBatch) error {
	return m.InsertFunc(ctx, tx, batch)
}

type mockPurchaseRepository struct {
	InsertFunc     func(ctx context.Context, tx *sql.Tx, purchase domain.Purchase) error
	InsertLineFunc func(ctx context.Context, tx *sql.Tx, line domain.PurchaseLine) error
}

func (m *mockPurchaseRepository) Insert(ctx context.Context, tx *sql.Tx, purchase domain.Purchase) error {
	return m.InsertFunc(ctx, tx, purchase)
}

func (m *mockPurchaseRepository) InsertLine(ctx context.Context, tx *sql.Tx, line domain.PurchaseLine) error {
	return m.InsertLineFunc(ctx, tx, line)
}

func newTxManager(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("creating sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newTestReceivingService(db *sql.DB, batchRepo BatchRepository, purchaseRepo PurchaseRepository) *ReceivingService {
	return NewReceivingService(db, batchRepo, purchaseRepo, zap.NewNop(), 5*time.Second)
}

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

// Tests

func TestReceive_ExistingBatchIncremented(t *testing.T) {
	ctx := context.Background()
	db, mock := newTxManager(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var receivedQty int
	var receivedBatchID string
	batchRepo := &mockBatchRepository{
		FindForReceiveFunc: func(ctx context.Context, tx *sql.Tx, tenantID, productID, batchNo string) (*domain.StockBatch, error) {
			return &domain.StockBatch{ID: "batch-1", QtyOnHand: 45, BatchNo: batchNo}, nil
		},
		ReceiveFunc: func(ctx context.Context, tx *sql.Tx, batchID string, qty int, purchasePrice, salePrice decimal.Decimal, expiryDate time.Time) error {
			receivedBatchID = batchID
			receivedQty = qty
			return nil
		},
	}
	purchaseRepo := &mockPurchaseRepository{
		InsertFunc:     func(ctx context.Context, tx *sql.Tx, purchase domain.Purchase) error { return nil },
		InsertLineFunc: func(ctx context.Context, tx *sql.Tx, line domain.PurchaseLine) error { return nil },
	}

	svc := newTestReceivingService(db, batchRepo, purchaseRepo)

	result, err := svc.Receive(ctx, "tenant-1", "user-1", "Acme Pharma", []dto.PurchaseItemInput{
		{ProductID: "product-p", BatchNo: "BATCH001", Qty: 50, PurchasePrice: decimal.NewFromInt(4), SalePrice: decimal.NewFromInt(6), ExpiryDate: date("2027-06-30")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if receivedBatchID != "batch-1" || receivedQty != 50 {
		t.Errorf("expected 50 received into batch-1, got %d into %s", receivedQty, receivedBatchID)
	}
	if result.Items[0].BatchID != "batch-1" {
		t.Errorf("expected line to reference batch-1, got %s", result.Items[0].BatchID)
	}
	// total = 50 * 4
	if !result.TotalAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected total 200, got %s", result.TotalAmount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations: %v", err)
	}
}

func TestReceive_NewBatchCreated(t *testing.T) {
	ctx := context.Background()
	db, mock := newTxManager(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var inserted *domain.StockBatch
	batchRepo := &mockBatchRepository{
		FindForReceiveFunc: func(ctx context.Context, tx *sql.Tx, tenantID, productID, batchNo string) (*domain.StockBatch, error) {
			return nil, apperrors.NewNotFoundError("batch not found")
		},
		InsertFunc: func(ctx context.Context, tx *sql.Tx, batch domain.StockBatch) error {
			inserted = &batch
			return nil
		},
	}
	var line *domain.PurchaseLine
	purchaseRepo := &mockPurchaseRepository{
		InsertFunc: func(ctx context.Context, tx *sql.Tx, purchase domain.Purchase) error { return nil },
		InsertLineFunc: func(ctx context.Context, tx *sql.Tx, l domain.PurchaseLine) error {
			line = &l
			return nil
		},
	}

	svc := newTestReceivingService(db, batchRepo, purchaseRepo)

	_, err := svc.Receive(ctx, "tenant-1", "user-1", "Acme Pharma", []dto.PurchaseItemInput{
		{ProductID: "product-p", BatchNo: "BATCH009", Qty: 20, PurchasePrice: decimal.NewFromInt(3), SalePrice: decimal.NewFromInt(5), ExpiryDate: date("2027-01-31")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inserted == nil {
		t.Fatal("expected a new batch insert")
	}
	if inserted.QtyOnHand != 20 || inserted.BatchNo != "BATCH009" || inserted.TenantID != "tenant-1" {
		t.Errorf("unexpected new batch: %+v", inserted)
	}
	if line == nil || line.BatchID != inserted.ID {
		t.Errorf("expected purchase line referencing new batch %s, got %+v", inserted.ID, line)
	}
}

func TestReceive_ItemFailureAbortsWholePurchase(t *testing.T) {
	ctx := context.Background()
	db, mock := newTxManager(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	calls := 0
	batchRepo := &mockBatchRepository{
		FindForReceiveFunc: func(ctx context.Context, tx *sql.Tx, tenantID, productID, batchNo string) (*domain.StockBatch, error) {
			calls++
			if calls == 1 {
				return &domain.StockBatch{ID: "batch-1"}, nil
			}
			return nil, apperrors.NewInternalError("storage failure", nil)
		},
		ReceiveFunc: func(ctx context.Context, tx *sql.Tx, batchID string, qty int, purchasePrice, salePrice decimal.Decimal, expiryDate time.Time) error {
			return nil
		},
	}
	purchaseRepo := &mockPurchaseRepository{
		InsertFunc:     func(ctx context.Context, tx *sql.Tx, purchase domain.Purchase) error { return nil },
		InsertLineFunc: func(ctx context.Context, tx *sql.Tx, line domain.PurchaseLine) error { return nil },
	}

	svc := newTestReceivingService(db, batchRepo, purchaseRepo)

	_, err := svc.Receive(ctx, "tenant-1", "user-1", "Acme Pharma", []dto.PurchaseItemInput{
		{ProductID: "product-p", BatchNo: "B1", Qty: 5, PurchasePrice: decimal.NewFromInt(1)},
		{ProductID: "product-q", BatchNo: "B2", Qty: 5, PurchasePrice: decimal.NewFromInt(1)},
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations: %v", err)
	}
}

func TestReceive_TotalSpansAllItems(t *testing.T) {
	ctx := context.Background()
	db, mock := newTxManager(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var headerTotal decimal.Decimal
	batchRepo := &mockBatchRepository{
		FindForReceiveFunc: func(ctx context.Context, tx *sql.Tx, tenantID, productID, batchNo string) (*domain.StockBatch, error) {
			return nil, apperrors.NewNotFoundError("batch not found")
		},
		InsertFunc: func(ctx context.Context, tx *sql.Tx, batch domain.StockBatch) error { return nil },
	}
	purchaseRepo := &mockPurchaseRepository{
		InsertFunc: func(ctx context.Context, tx *sql.Tx, purchase domain.Purchase) error {
			headerTotal = purchase.TotalAmount
			return nil
		},
		InsertLineFunc: func(ctx context.Context, tx *sql.Tx, line domain.PurchaseLine) error { return nil },
	}

	svc := newTestReceivingService(db, batchRepo, purchaseRepo)

	result, err := svc.Receive(ctx, "tenant-1", "user-1", "Acme Pharma", []dto.PurchaseItemInput{
		{ProductID: "product-p", BatchNo: "B1", Qty: 10, PurchasePrice: decimal.NewFromFloat(2.5)},
		{ProductID: "product-q", BatchNo: "B2", Qty: 4, PurchasePrice: decimal.NewFromInt(7)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 10 * 2.5 + 4 * 7 = 53
	want := decimal.NewFromInt(53)
	if !result.TotalAmount.Equal(want) {
		t.Errorf("expected total 53, got %s", result.TotalAmount)
	}
	if !headerTotal.Equal(want) {
		t.Errorf("expected header total 53, got %s", headerTotal)
	}
}
