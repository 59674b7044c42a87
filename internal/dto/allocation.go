package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchCandidate is the head of the FIFO order for a product: the batch a
// sale should draw from, along with what it has available.
type BatchCandidate struct {
	BatchID       string
	BatchNo       string
	ProductID     string
	AvailableQty  int
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	ExpiryDate    time.Time
}

type SaleLineInput struct {
	ProductID string
	Qty       int
	// UnitPrice is optional; when zero the batch's sale price at allocation
	// time is charged.
	UnitPrice decimal.Decimal
}

type AllocatedLine struct {
	ProductID string
	BatchID   string
	Qty       int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

type SaleResult struct {
	SaleID      string
	TotalAmount decimal.Decimal
	Lines       []AllocatedLine
}

type PurchaseItemInput struct {
	ProductID     string
	BatchNo       string
	Qty           int
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	ExpiryDate    time.Time
}

type ReceivedItem struct {
	ProductID string
	BatchNo   string
	BatchID   string
	Qty       int
}

type PurchaseResult struct {
	PurchaseID  string
	TotalAmount decimal.Decimal
	Items       []ReceivedItem
}
