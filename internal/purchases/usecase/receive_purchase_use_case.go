package usecase

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"apotheca/internal/audit"
	"apotheca/internal/dto"
	apperrors "apotheca/internal/errors"
)

type PurchaseReceivingService interface {
	Receive(ctx context.Context, tenantID, userID, supplierName string, items []dto.PurchaseItemInput) (*dto.PurchaseResult, error)
}

type ReceivePurchaseUseCase struct {
	receivingSvc     PurchaseReceivingService
	auditSink        audit.Sink
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewReceivePurchaseUseCase(
	receivingSvc PurchaseReceivingService,
	auditSink audit.Sink,
	logger *zap.Logger,
	maxRetryAttempts int,
) *ReceivePurchaseUseCase {
	return &ReceivePurchaseUseCase{
		receivingSvc:     receivingSvc,
		auditSink:        auditSink,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *ReceivePurchaseUseCase) ReceivePurchase(
	ctx context.Context,
	tenantID string,
	userID string,
	supplierName string,
	items []dto.PurchaseItemInput,
) (*dto.PurchaseResult, error) {
	uc.logger.Info("purchase receiving started",
		zap.String("tenantId", tenantID),
		zap.String("supplierName", supplierName),
		zap.Int("itemCount", len(items)),
	)

	// Stable lock order against concurrent sales and receipts.
	sort.Slice(items, func(i, j int) bool {
		if items[i].ProductID != items[j].ProductID {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].BatchNo < items[j].BatchNo
	})

	result, err := uc.receiveWithRetry(ctx, tenantID, userID, supplierName, items)
	if err != nil {
		return nil, err
	}

	uc.auditSink.Record(ctx, audit.Entry{
		TenantID: tenantID,
		ActorID:  userID,
		Action:   "create",
		Entity:   "purchase",
		EntityID: result.PurchaseID,
		Payload: map[string]any{
			"supplier_name": supplierName,
			"total_amount":  result.TotalAmount.String(),
			"items_count":   len(result.Items),
		},
	})

	return result, nil
}

func (uc *ReceivePurchaseUseCase) receiveWithRetry(
	ctx context.Context,
	tenantID string,
	userID string,
	supplierName string,
	items []dto.PurchaseItemInput,
) (*dto.PurchaseResult, error) {
	maxAttempts := uc.maxRetryAttempts
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := uc.receivingSvc.Receive(ctx, tenantID, userID, supplierName, items)
		if err == nil {
			return result, nil
		}

		if isDeadlockError(err) {
			if attempt < maxAttempts {
				backoff := backoffs[(attempt-1)%len(backoffs)]
				jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
				time.Sleep(jitter)
				uc.logger.Warn("deadlock detected, retrying purchase",
					zap.Int("attempt", attempt),
					zap.Int("maxAttempts", maxAttempts),
					zap.String("tenantId", tenantID),
				)
				continue
			}
			break
		}

		return nil, err
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
