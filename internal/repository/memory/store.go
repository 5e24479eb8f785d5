// Package memory is an in-memory rendition of the Postgres repositories.
// It backs the test suites and local development without a database; the
// mutex gives ApproveRequest and DenyRequest the same all-or-nothing
// semantics the SQL transaction provides.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/fogonims/stock-service/internal/domain"
	"github.com/google/uuid"
)

type Store struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*domain.User
	tokens        map[uuid.UUID]*domain.AuthToken
	products      map[uuid.UUID]*domain.Product
	requests      map[uuid.UUID]*domain.StockRequest
	notifications []*domain.Notification
	requestSeq    map[uuid.UUID]int
	seq           int
}

func NewStore() *Store {
	return &Store{
		users:      make(map[uuid.UUID]*domain.User),
		tokens:     make(map[uuid.UUID]*domain.AuthToken),
		products:   make(map[uuid.UUID]*domain.Product),
		requests:   make(map[uuid.UUID]*domain.StockRequest),
		requestSeq: make(map[uuid.UUID]int),
	}
}

// --- users ---

func (s *Store) CreateUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *Store) GetUserByID(userID uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, domain.NotFound("User not found")
	}
	copied := *user
	return &copied, nil
}

func (s *Store) GetUserByUsername(username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.NotFound("User not found")
}

func (s *Store) ListManagers() ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var managers []*domain.User
	for _, user := range s.users {
		if user.Role == domain.RoleManager {
			copied := *user
			managers = append(managers, &copied)
		}
	}
	sort.Slice(managers, func(i, j int) bool {
		return managers[i].Username < managers[j].Username
	})
	return managers, nil
}

// --- tokens ---

func (s *Store) CreateToken(token *domain.AuthToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *token
	s.tokens[token.Token] = &copied
	return nil
}

func (s *Store) ResolveToken(token uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tokens[token]
	if !ok {
		return nil, domain.NotFound("Token not recognized")
	}
	user, ok := s.users[stored.UserID]
	if !ok {
		return nil, domain.NotFound("Token not recognized")
	}
	copied := *user
	return &copied, nil
}

func (s *Store) DeleteToken(token uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, token)
	return nil
}

// --- products ---

func (s *Store) CreateProduct(product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *product
	s.products[product.ID] = &copied
	return nil
}

func (s *Store) UpdateProduct(product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return domain.NotFound("Product not found")
	}
	copied := *product
	s.products[product.ID] = &copied
	return nil
}

func (s *Store) DeleteProduct(productID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return domain.NotFound("Product not found")
	}
	delete(s.products, productID)
	return nil
}

func (s *Store) GetProductByID(productID uuid.UUID) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return nil, domain.NotFound("Product not found")
	}
	copied := *product
	return &copied, nil
}

func (s *Store) ListProducts() ([]*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var products []*domain.Product
	for _, product := range s.products {
		copied := *product
		products = append(products, &copied)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
	return products, nil
}

// --- stock requests ---

func (s *Store) CreateRequest(request *domain.StockRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *request
	s.requests[request.ID] = &copied
	s.seq++
	s.requestSeq[request.ID] = s.seq
	return nil
}

func (s *Store) GetRequestByID(requestID uuid.UUID) (*domain.StockRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[requestID]
	if !ok {
		return nil, domain.NotFound("Request not found")
	}
	copied := *request
	return &copied, nil
}

func (s *Store) UpdatePendingRequest(request *domain.StockRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.requests[request.ID]
	if !ok {
		return domain.NotFound("Request not found")
	}
	if stored.Status != domain.RequestStatusPending {
		return domain.InvalidState("Request is no longer pending")
	}
	stored.ProductID = request.ProductID
	stored.Quantity = request.Quantity
	return nil
}

func (s *Store) DeletePendingRequest(requestID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.requests[requestID]
	if !ok {
		return domain.NotFound("Request not found")
	}
	if stored.Status != domain.RequestStatusPending {
		return domain.InvalidState("Request is no longer pending")
	}
	delete(s.requests, requestID)
	return nil
}

// ApproveRequest mirrors the SQL transaction: assert Pending, credit the
// product, flip the status, all under one lock.
func (s *Store) ApproveRequest(requestID uuid.UUID, decidedAt time.Time) (*domain.StockRequest, *domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[requestID]
	if !ok {
		return nil, nil, domain.NotFound("Request not found")
	}
	if request.Status != domain.RequestStatusPending {
		return nil, nil, domain.InvalidState("Request already %s", request.Status)
	}

	product, ok := s.products[request.ProductID]
	if !ok {
		return nil, nil, domain.NotFound("Product not found")
	}

	product.Quantity += request.Quantity
	product.UpdatedAt = decidedAt
	request.Status = domain.RequestStatusApproved
	request.DecidedAt = &decidedAt

	requestCopy := *request
	productCopy := *product
	return &requestCopy, &productCopy, nil
}

func (s *Store) DenyRequest(requestID uuid.UUID, reason string, decidedAt time.Time) (*domain.StockRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[requestID]
	if !ok {
		return nil, domain.NotFound("Request not found")
	}
	if request.Status != domain.RequestStatusPending {
		return nil, domain.InvalidState("Request already %s", request.Status)
	}

	request.Status = domain.RequestStatusDenied
	request.DenyReason = reason
	request.DecidedAt = &decidedAt

	copied := *request
	return &copied, nil
}

func (s *Store) ListRequestsByRequester(requesterID uuid.UUID) ([]*domain.StockRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var requests []*domain.StockRequest
	for _, request := range s.requests {
		if request.RequestedBy == requesterID {
			copied := *request
			requests = append(requests, &copied)
		}
	}
	s.sortRequestsNewestFirst(requests)
	return requests, nil
}

func (s *Store) ListAllRequests() ([]*domain.RequestWithRequester, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var plain []*domain.StockRequest
	for _, request := range s.requests {
		copied := *request
		plain = append(plain, &copied)
	}
	s.sortRequestsNewestFirst(plain)

	annotated := make([]*domain.RequestWithRequester, 0, len(plain))
	for _, request := range plain {
		name := ""
		if user, ok := s.users[request.RequestedBy]; ok {
			name = user.Username
		}
		annotated = append(annotated, &domain.RequestWithRequester{
			StockRequest:  *request,
			RequesterName: name,
		})
	}
	return annotated, nil
}

func (s *Store) sortRequestsNewestFirst(requests []*domain.StockRequest) {
	sort.Slice(requests, func(i, j int) bool {
		return s.requestSeq[requests[i].ID] > s.requestSeq[requests[j].ID]
	})
}

// --- notifications ---

func (s *Store) CreateNotification(notification *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *notification
	s.notifications = append(s.notifications, &copied)
	return nil
}

func (s *Store) GetNotificationByID(notificationID uuid.UUID) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, notification := range s.notifications {
		if notification.ID == notificationID {
			copied := *notification
			return &copied, nil
		}
	}
	return nil, domain.NotFound("Notification not found")
}

func (s *Store) MarkNotificationRead(notificationID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, notification := range s.notifications {
		if notification.ID == notificationID {
			notification.IsRead = true
			return nil
		}
	}
	return domain.NotFound("Notification not found")
}

func (s *Store) HasUnreadLowStock(recipientID, productID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, notification := range s.notifications {
		if notification.RecipientID == recipientID &&
			notification.Type == domain.NotificationTypeLowStock &&
			!notification.IsRead &&
			notification.ProductID != nil && *notification.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListNotificationsByRecipient(recipientID uuid.UUID) ([]*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var notifications []*domain.Notification
	// stored oldest-first; walk backwards for newest-first
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].RecipientID == recipientID {
			copied := *s.notifications[i]
			notifications = append(notifications, &copied)
		}
	}
	return notifications, nil
}

// --- reports ---

func (s *Store) SpendSummary() ([]*domain.ProductSpend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byProduct := make(map[uuid.UUID]*domain.ProductSpend)
	for _, product := range s.products {
		byProduct[product.ID] = &domain.ProductSpend{
			ProductID:   product.ID,
			ProductName: product.Name,
		}
	}

	for _, request := range s.requests {
		if request.Status != domain.RequestStatusApproved {
			continue
		}
		entry, ok := byProduct[request.ProductID]
		if !ok {
			continue // product deleted after approval
		}
		entry.ApprovedRequests++
		entry.ApprovedQuantity += request.Quantity
		entry.TotalCost += float64(request.Quantity) * s.products[request.ProductID].Price
	}

	var summary []*domain.ProductSpend
	for _, entry := range byProduct {
		summary = append(summary, entry)
	}
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].ProductName < summary[j].ProductName
	})
	return summary, nil
}

func (s *Store) RequestVolume() (*domain.RequestVolume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	volume := &domain.RequestVolume{}
	for _, request := range s.requests {
		switch request.Status {
		case domain.RequestStatusPending:
			volume.Pending++
		case domain.RequestStatusApproved:
			volume.Approved++
		case domain.RequestStatusDenied:
			volume.Denied++
		}
	}
	return volume, nil
}
