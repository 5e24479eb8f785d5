package events

import (
	"time"

	"github.com/fogonims/stock-service/internal/domain"
	"github.com/google/uuid"
)

type StockEventType string

const (
	// Request Events
	RequestCreatedEvent  StockEventType = "request.created"
	RequestApprovedEvent StockEventType = "request.approved"
	RequestDeniedEvent   StockEventType = "request.denied"

	// Inventory Events
	ProductCreatedEvent StockEventType = "product.created"
	ProductUpdatedEvent StockEventType = "product.updated"
	ProductDeletedEvent StockEventType = "product.deleted"
	LowStockEvent       StockEventType = "stock.low"
)

type StockEvent struct {
	ID            uuid.UUID      `json:"id"`
	ActorID       uuid.UUID      `json:"actor_id"` // user that caused the event
	EventType     StockEventType `json:"event_type"`
	Payload       interface{}    `json:"payload"`
	Timestamp     time.Time      `json:"timestamp"`
	Service       string         `json:"service"`
	CorrelationID uuid.UUID      `json:"correlation_id"` // event tracking
}

type RequestCreatedPayload struct {
	RequestID     uuid.UUID `json:"request_id"`
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	RequesterID   uuid.UUID `json:"requester_id"`
	RequesterName string    `json:"requester_name"`
	Quantity      int       `json:"quantity"`
}

type RequestDecidedPayload struct {
	Request domain.StockRequest `json:"request"`
	Product *domain.Product     `json:"product,omitempty"`
}

type ProductChangedPayload struct {
	Product domain.Product `json:"product"`
}

type LowStockPayload struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Threshold   int       `json:"threshold"`
}
