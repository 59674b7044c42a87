package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBatch is a receipt lot of a product. QtyOnHand is mutated only through
// the inventory deduction and purchase receiving paths; it must never go
// negative. Batches are never deleted, a drained batch stays at zero.
type StockBatch struct {
	ID            string
	TenantID      string
	ProductID     string
	BatchNo       string
	QtyOnHand     int
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	ExpiryDate    time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (b StockBatch) IsExpired() bool {
	return b.ExpiryDate.Before(time.Now())
}

// ExpiresWithin reports whether the batch expires within the given number of
// days from now. Already-expired batches count as expiring.
func (b StockBatch) ExpiresWithin(days int) bool {
	return b.ExpiryDate.Before(time.Now().AddDate(0, 0, days))
}

func (b StockBatch) HasStock() bool {
	return b.QtyOnHand > 0
}
