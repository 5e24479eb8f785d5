package domain

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "Pending"
	RequestStatusApproved RequestStatus = "Approved"
	RequestStatusDenied   RequestStatus = "Denied"
)

type StockRequest struct {
	ID          uuid.UUID     `json:"id"`
	ProductID   uuid.UUID     `json:"product_id"`
	RequestedBy uuid.UUID     `json:"requested_by"`
	Quantity    int           `json:"quantity"`
	Status      RequestStatus `json:"status"`
	DenyReason  string        `json:"deny_reason,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	DecidedAt   *time.Time    `json:"decided_at,omitempty"`
}

// RequestWithRequester annotates a request with the requester's display
// name for the manager-facing listing.
type RequestWithRequester struct {
	StockRequest
	RequesterName string `json:"requester_name"`
}

func NewStockRequest(requestedBy, productID uuid.UUID, quantity int) (*StockRequest, error) {
	if quantity <= 0 {
		return nil, InvalidInput("Quantity must be greater than 0")
	}
	return &StockRequest{
		ID:          uuid.New(),
		ProductID:   productID,
		RequestedBy: requestedBy,
		Quantity:    quantity,
		Status:      RequestStatusPending,
		CreatedAt:   time.Now(),
	}, nil
}

func (r *StockRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// CanModify guards creator-only edit/delete while the request is Pending.
// The state check wins over the ownership check so a creator retrying
// against a decided request sees InvalidState, not Forbidden.
func (r *StockRequest) CanModify(caller Caller) error {
	if !r.IsPending() {
		return InvalidState("Request already %s", r.Status)
	}
	if r.RequestedBy != caller.ID {
		return Forbidden("Only the requester can modify this request")
	}
	return nil
}

// Approve and Deny are one-way transitions out of Pending.
func (r *StockRequest) Approve(decidedAt time.Time) error {
	if !r.IsPending() {
		return InvalidState("Request already %s", r.Status)
	}
	r.Status = RequestStatusApproved
	r.DecidedAt = &decidedAt
	return nil
}

func (r *StockRequest) Deny(reason string, decidedAt time.Time) error {
	if !r.IsPending() {
		return InvalidState("Request already %s", r.Status)
	}
	r.Status = RequestStatusDenied
	r.DenyReason = reason
	r.DecidedAt = &decidedAt
	return nil
}
