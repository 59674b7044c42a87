package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"apotheca/internal/dto"
	"apotheca/internal/tenant"
)

type LevelsUseCase interface {
	Levels(ctx context.Context, tenantID string, filter dto.LevelsFilter) ([]dto.StockLevel, error)
}

type LevelsController struct {
	useCase LevelsUseCase
	logger  *zap.Logger
}

func NewLevelsController(useCase LevelsUseCase, logger *zap.Logger) *LevelsController {
	return &LevelsController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *LevelsController) HandleLevels(w http.ResponseWriter, r *http.Request) {
	actor, ok := tenant.ActorFromContext(r.Context())
	if !ok {
		c.writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":   "UNAUTHORIZED",
			"message": "missing tenant context",
		})
		return
	}

	query := r.URL.Query()
	filter := dto.LevelsFilter{
		ProductID:  query.Get("product_id"),
		LowStock:   query.Get("low_stock") == "true",
		NearExpiry: query.Get("near_expiry") == "true",
	}

	levels, err := c.useCase.Levels(r.Context(), actor.TenantID, filter)
	if err != nil {
		c.logger.Error("fetching stock levels failed", zap.String("tenantId", actor.TenantID), zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	if levels == nil {
		levels = []dto.StockLevel{}
	}

	c.writeJSON(w, http.StatusOK, dto.LevelsResponse{Data: levels})
}

func (c *LevelsController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
