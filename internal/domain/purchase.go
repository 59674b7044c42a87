package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Purchase struct {
	ID           string
	TenantID     string
	UserID       string
	SupplierName string
	TotalAmount  decimal.Decimal
	CreatedAt    time.Time
}

type PurchaseLine struct {
	ID            string
	PurchaseID    string
	ProductID     string
	BatchID       string
	Qty           int
	PurchasePrice decimal.Decimal
}
