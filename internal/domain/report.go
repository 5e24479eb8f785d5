package domain

import "github.com/google/uuid"

// Read-only reporting projections over requests and products. These carry
// no authority; the owning aggregates stay the source of truth.

type ProductSpend struct {
	ProductID        uuid.UUID `json:"product_id"`
	ProductName      string    `json:"product_name"`
	ApprovedRequests int       `json:"approved_requests"`
	ApprovedQuantity int       `json:"approved_quantity"`
	TotalCost        float64   `json:"total_cost"`
}

type RequestVolume struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Denied   int `json:"denied"`
}
