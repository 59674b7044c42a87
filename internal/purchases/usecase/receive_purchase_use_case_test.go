package usecase

import (
	"context"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"apotheca/internal/audit"
	"apotheca/internal/dto"
	apperrors "apotheca/internal/errors"
)

func createDeadlockError() error {
	return &mysql.MySQLError{Number: 1205}
}

type mockReceivingService struct {
	ReceiveFunc func(ctx context.Context, tenantID, userID, supplierName string, items []dto.PurchaseItemInput) (*dto.PurchaseResult, error)
}

func (m *mockReceivingService) Receive(ctx context.Context, tenantID, userID, supplierName string, items []dto.PurchaseItemInput) (*dto.PurchaseResult, error) {
	return m.ReceiveFunc(ctx, tenantID, userID, supplierName, items)
}

type recordingSink struct {
	entries []audit.Entry
}

func (s *recordingSink) Record(ctx context.Context, entry audit.Entry) {
	s.entries = append(s.entries, entry)
}

func newTestReceivePurchaseUseCase(svc PurchaseReceivingService, sink audit.Sink) *ReceivePurchaseUseCase {
	return NewReceivePurchaseUseCase(svc, sink, zap.NewNop(), 3)
}

// Tests

func TestReceivePurchase_Success_EmitsAudit(t *testing.T) {
	ctx := context.Background()

	svc := &mockReceivingService{
		ReceiveFunc: func(ctx context.Context, tenantID, userID, supplierName string, items []dto.PurchaseItemInput) (*dto.PurchaseResult, error) {
			return &dto.PurchaseResult{
				PurchaseID:  "purchase-1",
				TotalAmount: decimal.NewFromInt(200),
				Items:       []dto.ReceivedItem{{ProductID: "product-p", BatchNo: "BATCH001", BatchID: "batch-1", Qty: 50}},
			}, nil
		},
	}
	sink := &recordingSink{}

	uc := newTestReceivePurchaseUseCase(svc, sink)

	result, err := uc.ReceivePurchase(ctx, "tenant-1", "user-1", "Acme Pharma", []dto.PurchaseItemInput{
		{ProductID: "product-p", BatchNo: "BATCH001", Qty: 50, PurchasePrice: decimal.NewFromInt(4)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PurchaseID != "purchase-1" {
		t.Errorf("expected purchase-1, got %s", result.PurchaseID)
	}

	if len(sink.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(sink.entries))
	}
	entry := sink.entries[0]
	if entry.Entity != "purchase" || entry.EntityID != "purchase-1" {
		t.Errorf("unexpected audit entry: %+v", entry)
	}
	if entry.Payload["supplier_name"] != "Acme Pharma" {
		t.Errorf("expected supplier in payload, got %v", entry.Payload)
	}
}

func TestReceivePurchase_SortsItems(t *testing.T) {
	ctx := context.Background()

	var gotOrder []string
	svc := &mockReceivingService{
		ReceiveFunc: func(ctx context.Context, tenantID, userID, supplierName string, items []dto.PurchaseItemInput) (*dto.PurchaseResult, error) {
			for _, item := range items {
				gotOrder = append(gotOrder, item.ProductID+"/"+item.BatchNo)
			}
			return &dto.PurchaseResult{PurchaseID: "purchase-1"}, nil
		},
	}

	uc := newTestReceivePurchaseUseCase(svc, audit.NopSink{})

	_, err := uc.ReceivePurchase(ctx, "tenant-1", "user-1", "Acme Pharma", []dto.PurchaseItemInput{
		{ProductID: "product-z", BatchNo: "B1", Qty: 1, PurchasePrice: decimal.NewFromInt(1)},
		{ProductID: "product-a", BatchNo: "B2", Qty: 1, PurchasePrice: decimal.NewFromInt(1)},
		{ProductID: "product-a", BatchNo: "B1", Qty: 1, PurchasePrice: decimal.NewFromInt(1)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"product-a/B1", "product-a/B2", "product-z/B1"}
	for i, key := range want {
		if gotOrder[i] != key {
			t.Errorf("expected %s at position %d, got %s", key, i, gotOrder[i])
		}
	}
}

func TestReceivePurchase_DeadlockRetriesExhausted(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	svc := &mockReceivingService{
		ReceiveFunc: func(ctx context.Context, tenantID, userID, supplierName string, items []dto.PurchaseItemInput) (*dto.PurchaseResult, error) {
			attempts++
			return nil, createDeadlockError()
		},
	}
	sink := &recordingSink{}

	uc := newTestReceivePurchaseUseCase(svc, sink)

	_, err := uc.ReceivePurchase(ctx, "tenant-1", "user-1", "Acme Pharma", []dto.PurchaseItemInput{
		{ProductID: "product-p", BatchNo: "B1", Qty: 1, PurchasePrice: decimal.NewFromInt(1)},
	})

	if _, ok := apperrors.IsDeadlockError(err); !ok {
		t.Fatalf("expected DeadlockError, got %T", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if len(sink.entries) != 0 {
		t.Errorf("expected no audit entries on failure, got %d", len(sink.entries))
	}
}

func TestReceivePurchase_NonTransientErrorNotRetried(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	svc := &mockReceivingService{
		ReceiveFunc: func(ctx context.Context, tenantID, userID, supplierName string, items []dto.PurchaseItemInput) (*dto.PurchaseResult, error) {
			attempts++
			return nil, apperrors.NewInternalError("storage failure", nil)
		},
	}

	uc := newTestReceivePurchaseUseCase(svc, audit.NopSink{})

	_, err := uc.ReceivePurchase(ctx, "tenant-1", "user-1", "Acme Pharma", []dto.PurchaseItemInput{
		{ProductID: "product-p", BatchNo: "B1", Qty: 1, PurchasePrice: decimal.NewFromInt(1)},
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if attempts != 1 {
		t.Errorf("expected a single attempt, got %d", attempts)
	}
}
