package catalog

import (
	"context"

	"apotheca/internal/domain"
	"apotheca/internal/dto"
)

type BarcodeLookupUseCase interface {
	LookupByBarcode(ctx context.Context, tenantID, code string) (*BarcodeQuote, error)
}

type Repository interface {
	FindByBarcode(ctx context.Context, tenantID, code string) (*domain.Product, error)
}

// BatchSelector is the FIFO selector exposed by the inventory module.
type BatchSelector interface {
	SelectBatch(ctx context.Context, tenantID, productID string, qty int) (*dto.BatchCandidate, error)
}
