package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"apotheca/internal/domain"
	"apotheca/internal/dto"
	apperrors "apotheca/internal/errors"
)

type mockRepository struct {
	FindByBarcodeFunc func(ctx context.Context, tenantID, code string) (*domain.Product, error)
}

func (m *mockRepository) FindByBarcode(ctx context.Context, tenantID, code string) (*domain.Product, error) {
	return m.FindByBarcodeFunc(ctx, tenantID, code)
}

type mockSelector struct {
	SelectBatchFunc func(ctx context.Context, tenantID, productID string, qty int) (*dto.BatchCandidate, error)
}

func (m *mockSelector) SelectBatch(ctx context.Context, tenantID, productID string, qty int) (*dto.BatchCandidate, error) {
	return m.SelectBatchFunc(ctx, tenantID, productID, qty)
}

func TestLookupByBarcode_ReturnsProductAndQuote(t *testing.T) {
	ctx := context.Background()

	repo := &mockRepository{
		FindByBarcodeFunc: func(ctx context.Context, tenantID, code string) (*domain.Product, error) {
			return &domain.Product{ID: "product-p", SKU: "SKU-1", Name: "Aspirin 500mg"}, nil
		},
	}
	selector := &mockSelector{
		SelectBatchFunc: func(ctx context.Context, tenantID, productID string, qty int) (*dto.BatchCandidate, error) {
			return &dto.BatchCandidate{
				BatchID:      "batch-b",
				BatchNo:      "B",
				ProductID:    productID,
				AvailableQty: 5,
				SalePrice:    decimal.NewFromInt(12),
				ExpiryDate:   time.Now().AddDate(1, 0, 0),
			}, nil
		},
	}

	uc := NewBarcodeLookupUseCase(repo, selector)

	quote, err := uc.LookupByBarcode(ctx, "tenant-1", "4006381333931")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.Product.ID != "product-p" {
		t.Errorf("expected product-p, got %s", quote.Product.ID)
	}
	if quote.Batch == nil || quote.Batch.ID != "batch-b" {
		t.Errorf("expected quote from batch-b, got %+v", quote.Batch)
	}
}

func TestLookupByBarcode_NoStockReturnsProductWithoutQuote(t *testing.T) {
	ctx := context.Background()

	repo := &mockRepository{
		FindByBarcodeFunc: func(ctx context.Context, tenantID, code string) (*domain.Product, error) {
			return &domain.Product{ID: "product-p", Name: "Aspirin 500mg"}, nil
		},
	}
	selector := &mockSelector{
		SelectBatchFunc: func(ctx context.Context, tenantID, productID string, qty int) (*dto.BatchCandidate, error) {
			return nil, apperrors.NewNoStockError(productID)
		},
	}

	uc := NewBarcodeLookupUseCase(repo, selector)

	quote, err := uc.LookupByBarcode(ctx, "tenant-1", "4006381333931")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Batch != nil {
		t.Errorf("expected nil batch quote, got %+v", quote.Batch)
	}
}

func TestLookupByBarcode_UnknownBarcode(t *testing.T) {
	ctx := context.Background()

	repo := &mockRepository{
		FindByBarcodeFunc: func(ctx context.Context, tenantID, code string) (*domain.Product, error) {
			return nil, apperrors.NewNotFoundError("product with barcode not found")
		},
	}

	uc := NewBarcodeLookupUseCase(repo, &mockSelector{})

	_, err := uc.LookupByBarcode(ctx, "tenant-1", "0000000000000")

	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}
