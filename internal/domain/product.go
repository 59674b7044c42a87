package domain

import "time"

type Product struct {
	ID                 string
	TenantID           string
	SKU                string
	Name               string
	Barcode            *string
	CriticalStockLevel int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
