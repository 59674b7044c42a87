package domain

import "time"

const DefaultNearExpiryDays = 30

type Tenant struct {
	ID             string
	Name           string
	NearExpiryDays int
	CreatedAt      time.Time
}

type User struct {
	ID       string
	TenantID string
}
