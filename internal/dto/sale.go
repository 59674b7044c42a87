package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateSaleRequest struct {
	Items []CreateSaleItem `json:"items"`
}

type CreateSaleItem struct {
	ProductID string          `json:"productId"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type CreateSaleResponse struct {
	TraceID     string          `json:"traceId"`
	SaleID      string          `json:"saleId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Lines       []SaleLineDTO   `json:"lines"`
	Timestamp   time.Time       `json:"timestamp"`
}

type SaleLineDTO struct {
	ProductID string          `json:"productId"`
	BatchID   string          `json:"batchId"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type SaleErrorResponse struct {
	TraceID   string            `json:"traceId"`
	Status    int               `json:"status"`
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   *SaleErrorDetails `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

type SaleErrorDetails struct {
	ProductID string `json:"productId,omitempty"`
	Available int    `json:"available,omitempty"`
	Requested int    `json:"requested,omitempty"`
}
