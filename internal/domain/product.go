package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Quantity         int       `json:"quantity"`
	Price            float64   `json:"price"`
	ReorderThreshold int       `json:"reorder_threshold"`
	Description      string    `json:"description,omitempty"`
	Category         string    `json:"category,omitempty"`
	Vendor           string    `json:"vendor,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	LowStockFlag     bool      `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewProduct(name string, quantity int, price float64, reorderThreshold int) *Product {
	return &Product{
		ID:               uuid.New(),
		Name:             name,
		Quantity:         quantity,
		Price:            price,
		ReorderThreshold: reorderThreshold,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

// lowStockFloor applies even when no reorder threshold is configured.
const lowStockFloor = 2

// IsLowStock is the single source of truth for the low-stock condition.
// Callers render the result; nothing else recomputes thresholds.
func (p *Product) IsLowStock() bool {
	if p.LowStockFlag {
		return true
	}
	if p.ReorderThreshold > 0 && p.Quantity <= p.ReorderThreshold {
		return true
	}
	return p.Quantity < lowStockFloor
}

func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return InvalidInput("Name is required")
	}
	if p.Quantity < 0 {
		return InvalidInput("Quantity cannot be negative")
	}
	if p.Price < 0 {
		return InvalidInput("Price cannot be negative")
	}
	if p.ReorderThreshold < 0 {
		return InvalidInput("Reorder threshold cannot be negative")
	}
	return nil
}

func (p *Product) Touch() {
	p.UpdatedAt = time.Now()
}
