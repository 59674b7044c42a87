package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID          string
	TenantID    string
	UserID      string
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

// SaleLine records one product draw against a specific batch. Immutable once
// written: UnitPrice is the price charged at allocation time, LineTotal is
// Qty times UnitPrice.
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID string
	BatchID   string
	Qty       int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}
