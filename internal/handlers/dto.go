package handlers

import (
	"time"

	"github.com/fogonims/stock-service/internal/domain"
	"github.com/google/uuid"
)

type ProductResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Quantity         int       `json:"quantity"`
	Price            float64   `json:"price"`
	ReorderThreshold int       `json:"reorder_threshold"`
	Description      string    `json:"description,omitempty"`
	Category         string    `json:"category,omitempty"`
	Vendor           string    `json:"vendor,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	LowStockFlag     bool      `json:"low_stock_flag"`
	LowStock         bool      `json:"low_stock"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// mapProduct renders the low-stock flag the domain policy computed; the
// client never recomputes thresholds.
func mapProduct(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:               product.ID,
		Name:             product.Name,
		Quantity:         product.Quantity,
		Price:            product.Price,
		ReorderThreshold: product.ReorderThreshold,
		Description:      product.Description,
		Category:         product.Category,
		Vendor:           product.Vendor,
		ImageURL:         product.ImageURL,
		LowStockFlag:     product.LowStockFlag,
		LowStock:         product.IsLowStock(),
		CreatedAt:        product.CreatedAt,
		UpdatedAt:        product.UpdatedAt,
	}
}

func mapProducts(products []*domain.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i, product := range products {
		responses[i] = mapProduct(product)
	}
	return responses
}

type RequestResponse struct {
	ID            uuid.UUID  `json:"id"`
	ProductID     uuid.UUID  `json:"product_id"`
	RequestedBy   uuid.UUID  `json:"requested_by"`
	RequesterName string     `json:"requester_name,omitempty"`
	Quantity      int        `json:"quantity"`
	Status        string     `json:"status"`
	DenyReason    string     `json:"deny_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
}

func mapRequest(request *domain.StockRequest) RequestResponse {
	return RequestResponse{
		ID:          request.ID,
		ProductID:   request.ProductID,
		RequestedBy: request.RequestedBy,
		Quantity:    request.Quantity,
		Status:      string(request.Status),
		DenyReason:  request.DenyReason,
		CreatedAt:   request.CreatedAt,
		DecidedAt:   request.DecidedAt,
	}
}

func mapAnnotatedRequests(requests []*domain.RequestWithRequester) []RequestResponse {
	responses := make([]RequestResponse, len(requests))
	for i, request := range requests {
		response := mapRequest(&request.StockRequest)
		response.RequesterName = request.RequesterName
		responses[i] = response
	}
	return responses
}

type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func mapNotification(notification *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        notification.ID,
		Type:      string(notification.Type),
		Message:   notification.Message,
		IsRead:    notification.IsRead,
		ProductID: notification.ProductID,
		CreatedAt: notification.CreatedAt,
	}
}

func mapNotifications(notifications []*domain.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, len(notifications))
	for i, notification := range notifications {
		responses[i] = mapNotification(notification)
	}
	return responses
}

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

func mapUser(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	}
}
