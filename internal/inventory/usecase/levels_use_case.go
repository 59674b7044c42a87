package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"apotheca/internal/domain"
	"apotheca/internal/dto"
)

type LevelsRepository interface {
	FindLevels(ctx context.Context, tenantID, productID string) ([]dto.StockLevel, error)
}

type TenantRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Tenant, error)
}

// LevelsUseCase serves the inventory screen: positive batches with product
// info, optionally narrowed to low-stock or near-expiry rows.
type LevelsUseCase struct {
	levelsRepo LevelsRepository
	tenantRepo TenantRepository
	logger     *zap.Logger
}

func NewLevelsUseCase(levelsRepo LevelsRepository, tenantRepo TenantRepository, logger *zap.Logger) *LevelsUseCase {
	return &LevelsUseCase{
		levelsRepo: levelsRepo,
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

func (uc *LevelsUseCase) Levels(ctx context.Context, tenantID string, filter dto.LevelsFilter) ([]dto.StockLevel, error) {
	levels, err := uc.levelsRepo.FindLevels(ctx, tenantID, filter.ProductID)
	if err != nil {
		return nil, err
	}

	if filter.LowStock {
		levels = filterLowStock(levels)
	}

	if filter.NearExpiry {
		days := domain.DefaultNearExpiryDays
		tenant, err := uc.tenantRepo.FindByID(ctx, tenantID)
		if err != nil {
			// Threshold lookup failure falls back to the default window.
			uc.logger.Warn("tenant expiry threshold lookup failed", zap.String("tenantId", tenantID), zap.Error(err))
		} else {
			days = tenant.NearExpiryDays
		}
		levels = filterNearExpiry(levels, days)
	}

	return levels, nil
}

// filterLowStock keeps batches of products whose total on-hand quantity is at
// or below the product's critical stock level.
func filterLowStock(levels []dto.StockLevel) []dto.StockLevel {
	totals := make(map[string]int)
	for _, lvl := range levels {
		totals[lvl.ProductID] += lvl.QtyOnHand
	}

	var out []dto.StockLevel
	for _, lvl := range levels {
		if totals[lvl.ProductID] <= lvl.CriticalStockLevel {
			out = append(out, lvl)
		}
	}
	return out
}

func filterNearExpiry(levels []dto.StockLevel, days int) []dto.StockLevel {
	cutoff := time.Now().AddDate(0, 0, days)

	var out []dto.StockLevel
	for _, lvl := range levels {
		if lvl.ExpiryDate.Before(cutoff) {
			out = append(out, lvl)
		}
	}
	return out
}
