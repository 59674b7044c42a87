package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"apotheca/internal/dto"
	apperrors "apotheca/internal/errors"
	"apotheca/internal/tenant"
)

const (
	maxPurchaseItems = 100
	expiryDateLayout = "2006-01-02"
)

type ReceivePurchaseUseCase interface {
	ReceivePurchase(ctx context.Context, tenantID, userID, supplierName string, items []dto.PurchaseItemInput) (*dto.PurchaseResult, error)
}

type ReceivePurchaseController struct {
	useCase ReceivePurchaseUseCase
	logger  *zap.Logger
}

func NewReceivePurchaseController(useCase ReceivePurchaseUseCase, logger *zap.Logger) *ReceivePurchaseController {
	return &ReceivePurchaseController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *ReceivePurchaseController) ReceivePurchase(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	actor, ok := tenant.ActorFromContext(r.Context())
	if !ok {
		c.writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":   "UNAUTHORIZED",
			"message": "missing tenant context",
		})
		return
	}

	var req dto.ReceivePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	items, validationErr := c.validateReceivePurchaseRequest(req)
	if validationErr != nil {
		ve, _ := apperrors.IsValidationError(validationErr)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	result, err := c.useCase.ReceivePurchase(r.Context(), actor.TenantID, actor.UserID, req.SupplierName, items)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	received := make([]dto.ReceivedItemDTO, len(result.Items))
	for i, item := range result.Items {
		received[i] = dto.ReceivedItemDTO{
			ProductID: item.ProductID,
			BatchNo:   item.BatchNo,
			BatchID:   item.BatchID,
			Qty:       item.Qty,
		}
	}

	c.writeJSON(w, http.StatusCreated, dto.ReceivePurchaseResponse{
		TraceID:     traceID,
		PurchaseID:  result.PurchaseID,
		TotalAmount: result.TotalAmount,
		Items:       received,
		Timestamp:   time.Now().UTC(),
	})
}

// validateReceivePurchaseRequest validates the request and parses expiry
// dates, returning the service-level inputs.
func (c *ReceivePurchaseController) validateReceivePurchaseRequest(req dto.ReceivePurchaseRequest) ([]dto.PurchaseItemInput, error) {
	var details []apperrors.ValidationDetail

	if req.SupplierName == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "supplierName",
			Message: "supplierName is required",
		})
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(req.Items) > maxPurchaseItems {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of " + strconv.Itoa(maxPurchaseItems),
		})
	}

	items := make([]dto.PurchaseItemInput, 0, len(req.Items))
	for idx, item := range req.Items {
		field := "items[" + strconv.Itoa(idx) + "]"

		if item.ProductID == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".productId",
				Message: "productId is required",
			})
		}

		if item.BatchNo == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".batchNo",
				Message: "batchNo is required",
			})
		}

		if item.Qty < 1 || item.Qty > 100000 {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".qty",
				Message: "qty must be between 1 and 100000",
			})
		}

		if item.PurchasePrice.IsNegative() {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".purchasePrice",
				Message: "purchasePrice must be non-negative",
			})
		}

		if item.SalePrice.IsNegative() {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".salePrice",
				Message: "salePrice must be non-negative",
			})
		}

		expiryDate, err := time.Parse(expiryDateLayout, item.ExpiryDate)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".expiryDate",
				Message: "expiryDate must be a date in YYYY-MM-DD format",
			})
		}

		items = append(items, dto.PurchaseItemInput{
			ProductID:     item.ProductID,
			BatchNo:       item.BatchNo,
			Qty:           item.Qty,
			PurchasePrice: item.PurchasePrice,
			SalePrice:     item.SalePrice,
			ExpiryDate:    expiryDate,
		})
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	return items, nil
}

func (c *ReceivePurchaseController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "DEADLOCK", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *ReceivePurchaseController) writeError(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, map[string]interface{}{
		"traceId":   traceID,
		"status":    status,
		"code":      code,
		"message":   message,
		"timestamp": time.Now().UTC(),
	})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *ReceivePurchaseController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	response := validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}

	c.writeJSON(w, http.StatusBadRequest, response)
}

func (c *ReceivePurchaseController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
