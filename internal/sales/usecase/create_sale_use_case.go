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

type SaleAllocationService interface {
	Allocate(ctx context.Context, tenantID, userID string, lines []dto.SaleLineInput) (*dto.SaleResult, error)
}

type CreateSaleUseCase struct {
	allocationSvc    SaleAllocationService
	auditSink        audit.Sink
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewCreateSaleUseCase(
	allocationSvc SaleAllocationService,
	auditSink audit.Sink,
	logger *zap.Logger,
	maxRetryAttempts int,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		allocationSvc:    allocationSvc,
		auditSink:        auditSink,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *CreateSaleUseCase) CreateSale(
	ctx context.Context,
	tenantID string,
	userID string,
	lines []dto.SaleLineInput,
) (*dto.SaleResult, error) {
	uc.logger.Info("sale allocation started",
		zap.String("tenantId", tenantID),
		zap.String("userId", userID),
		zap.Int("lineCount", len(lines)),
	)

	// Lock batches in a stable order across concurrent sales to avoid
	// deadlocking on each other.
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	result, err := uc.allocateWithRetry(ctx, tenantID, userID, lines)
	if err != nil {
		return nil, err
	}

	uc.auditSink.Record(ctx, audit.Entry{
		TenantID: tenantID,
		ActorID:  userID,
		Action:   "create",
		Entity:   "sale",
		EntityID: result.SaleID,
		Payload: map[string]any{
			"total_amount": result.TotalAmount.String(),
			"items_count":  len(result.Lines),
		},
	})

	return result, nil
}

func (uc *CreateSaleUseCase) allocateWithRetry(
	ctx context.Context,
	tenantID string,
	userID string,
	lines []dto.SaleLineInput,
) (*dto.SaleResult, error) {
	maxAttempts := uc.maxRetryAttempts
	// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms).
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := uc.allocationSvc.Allocate(ctx, tenantID, userID, lines)
		if err == nil {
			return result, nil
		}

		if isDeadlockError(err) {
			if attempt < maxAttempts {
				backoff := backoffs[(attempt-1)%len(backoffs)]
				// Jitter: ±20% of the backoff base.
				jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
				time.Sleep(jitter)
				uc.logger.Warn("deadlock detected, retrying sale",
					zap.Int("attempt", attempt),
					zap.Int("maxAttempts", maxAttempts),
					zap.String("tenantId", tenantID),
				)
				continue
			}
			break
		}

		// Non-transient failure, surface immediately.
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
