package service

import (
	"context"

	"go.uber.org/zap"

	"apotheca/internal/domain"
	"apotheca/internal/dto"
	apperrors "apotheca/internal/errors"
)

type BatchRepository interface {
	FindFIFOBatch(ctx context.Context, tenantID, productID string) (*domain.StockBatch, error)
	FindByID(ctx context.Context, batchID string) (*domain.StockBatch, error)
	Deduct(ctx context.Context, batchID string, qty int) (bool, error)
}

// StockService is the allocation core's read and single-batch write surface:
// FIFO selection and atomic deduction.
type StockService struct {
	batchRepo BatchRepository
	logger    *zap.Logger
}

func NewStockService(batchRepo BatchRepository, logger *zap.Logger) *StockService {
	return &StockService{
		batchRepo: batchRepo,
		logger:    logger,
	}
}

// SelectBatch picks the batch a sale of the given quantity should draw from:
// the earliest-expiry batch with any stock on hand. It reports the batch even
// when its available quantity is below the requested quantity; the caller
// decides whether a short batch is a failure. No side effects.
func (s *StockService) SelectBatch(ctx context.Context, tenantID, productID string, qty int) (*dto.BatchCandidate, error) {
	if qty <= 0 {
		return nil, apperrors.NewValidationError("qty must be positive", apperrors.ValidationDetail{
			Field:   "qty",
			Message: "qty must be a positive integer",
		})
	}

	batch, err := s.batchRepo.FindFIFOBatch(ctx, tenantID, productID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewNoStockError(productID)
		}
		return nil, err
	}

	return &dto.BatchCandidate{
		BatchID:       batch.ID,
		BatchNo:       batch.BatchNo,
		ProductID:     batch.ProductID,
		AvailableQty:  batch.QtyOnHand,
		PurchasePrice: batch.PurchasePrice,
		SalePrice:     batch.SalePrice,
		ExpiryDate:    batch.ExpiryDate,
	}, nil
}

// Deduct removes qty from the batch or nothing at all. The repository's
// guarded update is the atomic verify-and-write; a rejected write is resolved
// to not-found or insufficient-stock by re-reading the row.
func (s *StockService) Deduct(ctx context.Context, batchID string, qty int) error {
	if qty <= 0 {
		return apperrors.NewValidationError("qty must be positive", apperrors.ValidationDetail{
			Field:   "qty",
			Message: "qty must be a positive integer",
		})
	}

	deducted, err := s.batchRepo.Deduct(ctx, batchID, qty)
	if err != nil {
		return err
	}
	if deducted {
		return nil
	}

	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return err
	}

	s.logger.Warn("deduction rejected",
		zap.String("batchId", batchID),
		zap.Int("available", batch.QtyOnHand),
		zap.Int("requested", qty),
	)

	return apperrors.NewInsufficientStockError(batch.ProductID, batch.QtyOnHand, qty)
}
