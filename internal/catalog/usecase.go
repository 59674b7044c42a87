package catalog

import (
	"context"

	apperrors "apotheca/internal/errors"
)

type barcodeLookupUseCase struct {
	repo     Repository
	selector BatchSelector
}

func NewBarcodeLookupUseCase(repo Repository, selector BatchSelector) BarcodeLookupUseCase {
	return &barcodeLookupUseCase{
		repo:     repo,
		selector: selector,
	}
}

// LookupByBarcode resolves a scanned barcode to its product and the batch a
// unit sale would draw from. The quote's batch is nil when the product exists
// but has no stock on hand.
func (uc *barcodeLookupUseCase) LookupByBarcode(ctx context.Context, tenantID, code string) (*BarcodeQuote, error) {
	product, err := uc.repo.FindByBarcode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}

	quote := &BarcodeQuote{
		Product: ProductDTO{
			ID:                 product.ID,
			SKU:                product.SKU,
			Name:               product.Name,
			Barcode:            product.Barcode,
			CriticalStockLevel: product.CriticalStockLevel,
		},
	}

	candidate, err := uc.selector.SelectBatch(ctx, tenantID, product.ID, 1)
	if err != nil {
		if _, ok := apperrors.IsNoStockError(err); ok {
			return quote, nil
		}
		return nil, err
	}

	quote.Batch = &BatchQuoteDTO{
		ID:            candidate.BatchID,
		BatchNo:       candidate.BatchNo,
		AvailableQty:  candidate.AvailableQty,
		PurchasePrice: candidate.PurchasePrice,
		SalePrice:     candidate.SalePrice,
		ExpiryDate:    candidate.ExpiryDate,
	}

	return quote, nil
}
