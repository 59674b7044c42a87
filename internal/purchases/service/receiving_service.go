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
	FindForReceive(ctx context.Context, tx *sql.Tx, tenantID, productID, batchNo string) (*domain.StockBatch, error)
	Receive(ctx context.Context, tx *sql.Tx, batchID string, qty int, purchasePrice, salePrice decimal.Decimal, expiryDate time.Time) error
	Insert(ctx context.Context, tx *sql.Tx, batch domain.StockBatch) error
}

type PurchaseRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, purchase domain.Purchase) error
	InsertLine(ctx context.Context, tx *sql.Tx, line domain.PurchaseLine) error
}

// ReceivingService books a purchase order in one transaction: header, batch
// upserts and purchase lines. A failure on any item aborts the whole
// purchase, there are no partially received orders.
type ReceivingService struct {
	db           TransactionManager
	batchRepo    BatchRepository
	purchaseRepo PurchaseRepository
	logger       *zap.Logger
	txTimeout    time.Duration
}

func NewReceivingService(
	db TransactionManager,
	batchRepo BatchRepository,
	purchaseRepo PurchaseRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *ReceivingService {
	return &ReceivingService{
		db:           db,
		batchRepo:    batchRepo,
		purchaseRepo: purchaseRepo,
		logger:       logger,
		txTimeout:    txTimeout,
	}
}

func (s *ReceivingService) Receive(
	ctx context.Context,
	tenantID string,
	userID string,
	supplierName string,
	items []dto.PurchaseItemInput,
) (*dto.PurchaseResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.PurchasePrice.Mul(decimal.NewFromInt(int64(item.Qty))))
	}

	purchase := domain.Purchase{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		UserID:       userID,
		SupplierName: supplierName,
		TotalAmount:  total,
	}

	if err := s.purchaseRepo.Insert(txCtx, tx, purchase); err != nil {
		s.logger.Error("failed to insert purchase", zap.String("tenantId", tenantID), zap.Error(err))
		return nil, err
	}

	received := make([]dto.ReceivedItem, 0, len(items))
	for _, item := range items {
		batchID, err := s.receiveItem(txCtx, tx, tenantID, item)
		if err != nil {
			s.logger.Error("failed to receive purchase item",
				zap.String("tenantId", tenantID),
				zap.String("productId", item.ProductID),
				zap.String("batchNo", item.BatchNo),
				zap.Error(err),
			)
			return nil, err
		}

		line := domain.PurchaseLine{
			ID:            uuid.New().String(),
			PurchaseID:    purchase.ID,
			ProductID:     item.ProductID,
			BatchID:       batchID,
			Qty:           item.Qty,
			PurchasePrice: item.PurchasePrice,
		}
		if err := s.purchaseRepo.InsertLine(txCtx, tx, line); err != nil {
			s.logger.Error("failed to insert purchase line", zap.String("purchaseId", purchase.ID), zap.Error(err))
			return nil, err
		}

		received = append(received, dto.ReceivedItem{
			ProductID: item.ProductID,
			BatchNo:   item.BatchNo,
			BatchID:   batchID,
			Qty:       item.Qty,
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit purchase", zap.String("purchaseId", purchase.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("purchase committed",
		zap.String("purchaseId", purchase.ID),
		zap.String("tenantId", tenantID),
		zap.Int("itemCount", len(received)),
		zap.String("totalAmount", total.String()),
	)

	return &dto.PurchaseResult{
		PurchaseID:  purchase.ID,
		TotalAmount: total,
		Items:       received,
	}, nil
}

// receiveItem upserts the batch for one received item and returns the batch
// id. Existing batches (matched on tenant, product and batch number) gain the
// received quantity and take the new prices and expiry date; unknown batch
// numbers become new batches.
func (s *ReceivingService) receiveItem(
	ctx context.Context,
	tx *sql.Tx,
	tenantID string,
	item dto.PurchaseItemInput,
) (string, error) {
	existing, err := s.batchRepo.FindForReceive(ctx, tx, tenantID, item.ProductID, item.BatchNo)
	if err == nil {
		err = s.batchRepo.Receive(ctx, tx, existing.ID, item.Qty,
			item.PurchasePrice, item.SalePrice, item.ExpiryDate)
		if err != nil {
			return "", err
		}
		return existing.ID, nil
	}

	if _, ok := apperrors.IsNotFoundError(err); !ok {
		return "", err
	}

	batch := domain.StockBatch{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		ProductID:     item.ProductID,
		BatchNo:       item.BatchNo,
		QtyOnHand:     item.Qty,
		PurchasePrice: item.PurchasePrice,
		SalePrice:     item.SalePrice,
		ExpiryDate:    item.ExpiryDate,
	}
	if err := s.batchRepo.Insert(ctx, tx, batch); err != nil {
		return "", err
	}

	return batch.ID, nil
}
