package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"apotheca/internal/domain"
	"apotheca/internal/dto"
	apperrors "apotheca/internal/errors"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type BatchRepository interface {
	FindFIFOBatchForUpdate(ctx context.Context, tx *sql.Tx, tenantID, productID string) (*domain.StockBatch, error)
	DeductTx(ctx context.Context, tx *sql.Tx, batchID string, qty int) (bool, error)
}

type SaleRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, sale domain.Sale) error
	InsertLine(ctx context.Context, tx *sql.Tx, line domain.SaleLine) error
}

// AllocationService runs a multi-line sale as one transaction: every line is
// drawn from its FIFO batch and deducted, then the sale header and lines are
// written. Any line failure aborts the whole sale; the rollback restores
// every batch touched so far.
type AllocationService struct {
	db        TransactionManager
	batchRepo BatchRepository
	saleRepo  SaleRepository
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewAllocationService(
	db TransactionManager,
	batchRepo BatchRepository,
	saleRepo SaleRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *AllocationService {
	return &AllocationService{
		db:        db,
		batchRepo: batchRepo,
		saleRepo:  saleRepo,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

func (s *AllocationService) Allocate(
	ctx context.Context,
	tenantID string,
	userID string,
	lines []dto.SaleLineInput,
) (*dto.SaleResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// Rollback on any exit path. MySQL ignores rollback if already committed.
	defer tx.Rollback()

	allocated := make([]dto.AllocatedLine, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		alloc, err := s.allocateLine(txCtx, tx, tenantID, line)
		if err != nil {
			s.logger.Warn("sale line allocation failed",
				zap.String("tenantId", tenantID),
				zap.String("productId", line.ProductID),
				zap.Int("qty", line.Qty),
				zap.Error(err),
			)
			return nil, err
		}

		allocated = append(allocated, *alloc)
		total = total.Add(alloc.LineTotal)
	}

	sale := domain.Sale{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		UserID:      userID,
		TotalAmount: total,
	}

	if err := s.saleRepo.Insert(txCtx, tx, sale); err != nil {
		s.logger.Error("failed to insert sale", zap.String("tenantId", tenantID), zap.Error(err))
		return nil, err
	}

	for _, alloc := range allocated {
		saleLine := domain.SaleLine{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: alloc.ProductID,
			BatchID:   alloc.BatchID,
			Qty:       alloc.Qty,
			UnitPrice: alloc.UnitPrice,
			LineTotal: alloc.LineTotal,
		}
		if err := s.saleRepo.InsertLine(txCtx, tx, saleLine); err != nil {
			s.logger.Error("failed to insert sale line", zap.String("saleId", sale.ID), zap.Error(err))
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit sale", zap.String("saleId", sale.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("sale committed",
		zap.String("saleId", sale.ID),
		zap.String("tenantId", tenantID),
		zap.Int("lineCount", len(allocated)),
		zap.String("totalAmount", total.String()),
	)

	return &dto.SaleResult{
		SaleID:      sale.ID,
		TotalAmount: total,
		Lines:       allocated,
	}, nil
}

func (s *AllocationService) allocateLine(
	ctx context.Context,
	tx *sql.Tx,
	tenantID string,
	line dto.SaleLineInput,
) (*dto.AllocatedLine, error) {
	// 1. Pick the FIFO batch and lock it for the rest of the transaction.
	batch, err := s.batchRepo.FindFIFOBatchForUpdate(ctx, tx, tenantID, line.ProductID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewNoStockError(line.ProductID)
		}
		return nil, err
	}

	// 2. The line must be satisfiable from this single batch. No splitting
	// across batches.
	if batch.QtyOnHand < line.Qty {
		return nil, apperrors.NewInsufficientStockError(line.ProductID, batch.QtyOnHand, line.Qty)
	}

	// 3. Deduct under the guard. With the row lock held the guard cannot be
	// beaten by a concurrent writer; a rejected write here is a storage fault.
	deducted, err := s.batchRepo.DeductTx(ctx, tx, batch.ID, line.Qty)
	if err != nil {
		return nil, err
	}
	if !deducted {
		return nil, apperrors.NewInternalError("deduction rejected for locked batch "+batch.ID, nil)
	}

	// 4. Price the line: caller's price when given, else the batch's sale
	// price at allocation time.
	unitPrice := line.UnitPrice
	if unitPrice.IsZero() {
		unitPrice = batch.SalePrice
	}

	return &dto.AllocatedLine{
		ProductID: line.ProductID,
		BatchID:   batch.ID,
		Qty:       line.Qty,
		UnitPrice: unitPrice,
		LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(line.Qty))),
	}, nil
}
