package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeLowStock        NotificationType = "LOW_STOCK"
	NotificationTypeRequestApproved NotificationType = "REQUEST_APPROVED"
	NotificationTypeRequestDenied   NotificationType = "REQUEST_DENIED"
	NotificationTypeRequestCreated  NotificationType = "REQUEST_CREATED"
)

type Notification struct {
	ID          uuid.UUID        `json:"id"`
	RecipientID uuid.UUID        `json:"recipient_id"`
	Type        NotificationType `json:"type"`
	Message     string           `json:"message"`
	IsRead      bool             `json:"is_read"`
	// ProductID is set for LOW_STOCK notifications; the dedup rule keys
	// on (recipient, product).
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewNotification(recipientID uuid.UUID, notificationType NotificationType, message string) *Notification {
	return &Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Type:        notificationType,
		Message:     message,
		CreatedAt:   time.Now(),
	}
}

func NewLowStockNotification(recipientID, productID uuid.UUID, message string) *Notification {
	n := NewNotification(recipientID, NotificationTypeLowStock, message)
	n.ProductID = &productID
	return n
}

// MarkRead is idempotent: re-marking a read notification is a no-op.
func (n *Notification) MarkRead(caller Caller) error {
	if n.RecipientID != caller.ID {
		return Forbidden("Notification belongs to another user")
	}
	n.IsRead = true
	return nil
}
