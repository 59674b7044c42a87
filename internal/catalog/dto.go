package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// BarcodeQuote is the scan-to-price answer: the product plus the batch a sale
// of it would draw from. Batch is nil when the product has no stock on hand.
type BarcodeQuote struct {
	Product ProductDTO    `json:"product"`
	Batch   *BatchQuoteDTO `json:"batch"`
}

type ProductDTO struct {
	ID                 string  `json:"id"`
	SKU                string  `json:"sku"`
	Name               string  `json:"name"`
	Barcode            *string `json:"barcode"`
	CriticalStockLevel int     `json:"criticalStockLevel"`
}

type BatchQuoteDTO struct {
	ID            string          `json:"id"`
	BatchNo       string          `json:"batchNo"`
	AvailableQty  int             `json:"availableQty"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	ExpiryDate    time.Time       `json:"expiryDate"`
}
