package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel is one positive batch joined with its product, as shown on the
// inventory screen.
type StockLevel struct {
	BatchID            string          `json:"batchId"`
	BatchNo            string          `json:"batchNo"`
	ProductID          string          `json:"productId"`
	ProductName        string          `json:"productName"`
	SKU                string          `json:"sku"`
	QtyOnHand          int             `json:"qtyOnHand"`
	SalePrice          decimal.Decimal `json:"salePrice"`
	ExpiryDate         time.Time       `json:"expiryDate"`
	CriticalStockLevel int             `json:"criticalStockLevel"`
}

type LevelsFilter struct {
	ProductID  string
	LowStock   bool
	NearExpiry bool
}

type LevelsResponse struct {
	Data []StockLevel `json:"data"`
}
