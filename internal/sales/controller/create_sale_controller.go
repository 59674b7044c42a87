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

const maxSaleItems = 100

type CreateSaleUseCase interface {
	CreateSale(ctx context.Context, tenantID, userID string, lines []dto.SaleLineInput) (*dto.SaleResult, error)
}

type CreateSaleController struct {
	useCase CreateSaleUseCase
	logger  *zap.Logger
}

func NewCreateSaleController(useCase CreateSaleUseCase, logger *zap.Logger) *CreateSaleController {
	return &CreateSaleController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *CreateSaleController) CreateSale(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	actor, ok := tenant.ActorFromContext(r.Context())
	if !ok {
		c.writeErrorResponse(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant context", nil, logger)
		return
	}

	var req dto.CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if validationErr := c.validateCreateSaleRequest(req); validationErr != nil {
		ve, _ := apperrors.IsValidationError(validationErr)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	lines := make([]dto.SaleLineInput, len(req.Items))
	for i, item := range req.Items {
		lines[i] = dto.SaleLineInput{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
		}
	}

	result, err := c.useCase.CreateSale(r.Context(), actor.TenantID, actor.UserID, lines)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeCreateSaleResponse(w, traceID, result)
}

func (c *CreateSaleController) validateCreateSaleRequest(req dto.CreateSaleRequest) error {
	var details []apperrors.ValidationDetail

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(req.Items) > maxSaleItems {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of " + strconv.Itoa(maxSaleItems),
		})
	}

	productIDMap := make(map[string]bool)

	for idx, item := range req.Items {
		if item.ProductID == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].productId",
				Message: "productId is required",
			})
		}

		if productIDMap[item.ProductID] {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].productId",
				Message: "productId must not be duplicated",
			})
		}
		productIDMap[item.ProductID] = true

		if item.Qty < 1 || item.Qty > 10000 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].qty",
				Message: "qty must be between 1 and 10000",
			})
		}

		if item.UnitPrice.IsNegative() {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].unitPrice",
				Message: "unitPrice must be non-negative",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func (c *CreateSaleController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if nsErr, ok := apperrors.IsNoStockError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "NO_STOCK", err.Error(), &dto.SaleErrorDetails{
			ProductID: nsErr.ProductID,
		}, logger)
		return
	}

	if isErr, ok := apperrors.IsInsufficientStockError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error(), &dto.SaleErrorDetails{
			ProductID: isErr.ProductID,
			Available: isErr.Available,
			Requested: isErr.Requested,
		}, logger)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), nil, logger)
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "DEADLOCK", err.Error(), nil, logger)
		return
	}

	if _, ok := apperrors.IsForbiddenError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusForbidden, "FORBIDDEN", err.Error(), nil, logger)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil, logger)
}

func (c *CreateSaleController) writeCreateSaleResponse(w http.ResponseWriter, traceID string, result *dto.SaleResult) {
	lines := make([]dto.SaleLineDTO, len(result.Lines))
	for i, line := range result.Lines {
		lines[i] = dto.SaleLineDTO{
			ProductID: line.ProductID,
			BatchID:   line.BatchID,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		}
	}

	response := dto.CreateSaleResponse{
		TraceID:     traceID,
		SaleID:      result.SaleID,
		TotalAmount: result.TotalAmount,
		Lines:       lines,
		Timestamp:   time.Now().UTC(),
	}

	c.writeJSON(w, http.StatusCreated, response)
}

func (c *CreateSaleController) writeErrorResponse(w http.ResponseWriter, traceID string, statusCode int, code, message string, details *dto.SaleErrorDetails, logger *zap.Logger) {
	response := dto.SaleErrorResponse{
		TraceID:   traceID,
		Status:    statusCode,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}

	c.writeJSON(w, statusCode, response)
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *CreateSaleController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	response := validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}

	c.writeJSON(w, http.StatusBadRequest, response)
}

func (c *CreateSaleController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
