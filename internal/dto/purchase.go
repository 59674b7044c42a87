package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReceivePurchaseRequest struct {
	SupplierName string                `json:"supplierName"`
	Items        []ReceivePurchaseItem `json:"items"`
}

type ReceivePurchaseItem struct {
	ProductID     string          `json:"productId"`
	BatchNo       string          `json:"batchNo"`
	Qty           int             `json:"qty"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	ExpiryDate    string          `json:"expiryDate"` // YYYY-MM-DD
}

type ReceivePurchaseResponse struct {
	TraceID     string             `json:"traceId"`
	PurchaseID  string             `json:"purchaseId"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Items       []ReceivedItemDTO  `json:"items"`
	Timestamp   time.Time          `json:"timestamp"`
}

type ReceivedItemDTO struct {
	ProductID string `json:"productId"`
	BatchNo   string `json:"batchNo"`
	BatchID   string `json:"batchId"`
	Qty       int    `json:"qty"`
}
