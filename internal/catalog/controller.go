package catalog

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apperrors "apotheca/internal/errors"
	"apotheca/internal/tenant"
)

type Controller struct {
	useCase BarcodeLookupUseCase
	logger  *zap.Logger
}

func NewController(useCase BarcodeLookupUseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *Controller) HandleBarcodeLookup(w http.ResponseWriter, r *http.Request) {
	actor, ok := tenant.ActorFromContext(r.Context())
	if !ok {
		c.writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":   "UNAUTHORIZED",
			"message": "missing authenticated user",
		})
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		c.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "VALIDATION_ERROR",
			"message": "code query parameter is required",
			"details": []apperrors.ValidationDetail{{
				Field:   "code",
				Message: "code must not be empty",
			}},
		})
		return
	}

	quote, err := c.useCase.LookupByBarcode(r.Context(), actor.TenantID, code)
	if err != nil {
		if nf, ok := apperrors.IsNotFoundError(err); ok {
			c.writeJSON(w, http.StatusNotFound, map[string]string{
				"error":   "NOT_FOUND",
				"message": nf.Message,
			})
			return
		}
		c.logger.Error("barcode lookup failed",
			zap.String("tenantId", actor.TenantID),
			zap.String("code", code),
			zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	c.writeJSON(w, http.StatusOK, quote)
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
