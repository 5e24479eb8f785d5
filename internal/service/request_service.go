package service

import (
	"fmt"
	"log"
	"time"

	"github.com/fogonims/stock-service/internal/domain"
	"github.com/fogonims/stock-service/internal/events"
	"github.com/google/uuid"
)

// RequestRepository is the storage contract the request engine needs.
// ApproveRequest and DenyRequest are transactional: the status transition
// (and, for approval, the stock credit) commit atomically or not at all.
type RequestRepository interface {
	CreateRequest(request *domain.StockRequest) error
	GetRequestByID(requestID uuid.UUID) (*domain.StockRequest, error)
	UpdatePendingRequest(request *domain.StockRequest) error
	DeletePendingRequest(requestID uuid.UUID) error
	ApproveRequest(requestID uuid.UUID, decidedAt time.Time) (*domain.StockRequest, *domain.Product, error)
	DenyRequest(requestID uuid.UUID, reason string, decidedAt time.Time) (*domain.StockRequest, error)
	ListRequestsByRequester(requesterID uuid.UUID) ([]*domain.StockRequest, error)
	ListAllRequests() ([]*domain.RequestWithRequester, error)
}

type ProductReader interface {
	GetProductByID(productID uuid.UUID) (*domain.Product, error)
}

type RequestService struct {
	requestRepo RequestRepository
	productRepo ProductReader
	dispatcher  *NotificationService
	publisher   EventPublisher
}

func NewRequestService(requestRepo RequestRepository, productRepo ProductReader, dispatcher *NotificationService, publisher EventPublisher) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		productRepo: productRepo,
		dispatcher:  dispatcher,
		publisher:   publisher,
	}
}

type CreateRequestInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type EditRequestInput struct {
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Quantity  *int       `json:"quantity,omitempty"`
}

func (s *RequestService) CreateRequest(caller domain.Caller, input CreateRequestInput) (*domain.StockRequest, error) {
	product, err := s.productRepo.GetProductByID(input.ProductID)
	if err != nil {
		return nil, err
	}

	request, err := domain.NewStockRequest(caller.ID, input.ProductID, input.Quantity)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.CreateRequest(request); err != nil {
		return nil, fmt.Errorf("request creation error: %v", err)
	}

	log.Printf("Stock request created: RequestID=%s, Product=%s, Quantity=%d",
		request.ID, product.Name, request.Quantity)

	s.publishRequestCreatedEvent(caller, request, product)

	return request, nil
}

func (s *RequestService) EditRequest(caller domain.Caller, requestID uuid.UUID, input EditRequestInput) (*domain.StockRequest, error) {
	request, err := s.requestRepo.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}

	if err := request.CanModify(caller); err != nil {
		return nil, err
	}

	if input.ProductID != nil {
		if _, err := s.productRepo.GetProductByID(*input.ProductID); err != nil {
			return nil, err
		}
		request.ProductID = *input.ProductID
	}

	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, domain.InvalidInput("Quantity must be greater than 0")
		}
		request.Quantity = *input.Quantity
	}

	if err := s.requestRepo.UpdatePendingRequest(request); err != nil {
		return nil, err
	}

	log.Printf("Stock request updated: RequestID=%s, Quantity=%d", request.ID, request.Quantity)
	return request, nil
}

func (s *RequestService) DeleteRequest(caller domain.Caller, requestID uuid.UUID) error {
	request, err := s.requestRepo.GetRequestByID(requestID)
	if err != nil {
		return err
	}

	if err := request.CanModify(caller); err != nil {
		return err
	}

	if err := s.requestRepo.DeletePendingRequest(requestID); err != nil {
		return err
	}

	log.Printf("Stock request deleted: RequestID=%s", requestID)
	return nil
}

// ApproveRequest commits the decision and stock credit atomically, then
// notifies the requester and re-evaluates the low-stock condition. A
// retry after a committed approval observes InvalidState, never a second
// credit.
func (s *RequestService) ApproveRequest(caller domain.Caller, requestID uuid.UUID) (*domain.StockRequest, error) {
	if !caller.IsManager() {
		return nil, domain.Forbidden("Manager role required")
	}

	request, product, err := s.requestRepo.ApproveRequest(requestID, time.Now())
	if err != nil {
		return nil, err
	}

	log.Printf("Stock request approved: RequestID=%s, Product=%s, NewQuantity=%d",
		request.ID, product.Name, product.Quantity)

	s.dispatcher.NotifyRequestApproved(request, product.Name)
	s.dispatcher.EvaluateLowStock(product)

	s.publishRequestDecidedEvent(caller, events.RequestApprovedEvent, request, product)

	return request, nil
}

func (s *RequestService) DenyRequest(caller domain.Caller, requestID uuid.UUID, reason string) (*domain.StockRequest, error) {
	if !caller.IsManager() {
		return nil, domain.Forbidden("Manager role required")
	}

	request, err := s.requestRepo.DenyRequest(requestID, reason, time.Now())
	if err != nil {
		return nil, err
	}

	log.Printf("Stock request denied: RequestID=%s, Reason=%s", request.ID, reason)

	productName := s.productNameFor(request.ProductID)
	s.dispatcher.NotifyRequestDenied(request, productName)

	s.publishRequestDecidedEvent(caller, events.RequestDeniedEvent, request, nil)

	return request, nil
}

// ListRequests is role-scoped: cooks see their own requests, managers see
// everything annotated with the requester's display name.
func (s *RequestService) ListRequests(caller domain.Caller) ([]*domain.RequestWithRequester, error) {
	if caller.IsManager() {
		return s.requestRepo.ListAllRequests()
	}

	own, err := s.requestRepo.ListRequestsByRequester(caller.ID)
	if err != nil {
		return nil, err
	}

	requests := make([]*domain.RequestWithRequester, 0, len(own))
	for _, request := range own {
		requests = append(requests, &domain.RequestWithRequester{
			StockRequest:  *request,
			RequesterName: caller.Username,
		})
	}

	return requests, nil
}

func (s *RequestService) productNameFor(productID uuid.UUID) string {
	product, err := s.productRepo.GetProductByID(productID)
	if err != nil {
		// product may have been deleted; the denial is still valid
		return "a deleted product"
	}
	return product.Name
}

func (s *RequestService) publishRequestCreatedEvent(caller domain.Caller, request *domain.StockRequest, product *domain.Product) {
	event := events.StockEvent{
		ID:            uuid.New(),
		ActorID:       caller.ID,
		EventType:     events.RequestCreatedEvent,
		Service:       "request-engine",
		CorrelationID: uuid.New(),
		Payload: events.RequestCreatedPayload{
			RequestID:     request.ID,
			ProductID:     product.ID,
			ProductName:   product.Name,
			RequesterID:   caller.ID,
			RequesterName: caller.Username,
			Quantity:      request.Quantity,
		},
	}

	if err := s.publisher.PublishStockEvent(event); err != nil {
		log.Printf("Request created event publish error: %v", err)
	}
}

func (s *RequestService) publishRequestDecidedEvent(caller domain.Caller, eventType events.StockEventType, request *domain.StockRequest, product *domain.Product) {
	event := events.StockEvent{
		ID:            uuid.New(),
		ActorID:       caller.ID,
		EventType:     eventType,
		Service:       "request-engine",
		CorrelationID: uuid.New(),
		Payload: events.RequestDecidedPayload{
			Request: *request,
			Product: product,
		},
	}

	if err := s.publisher.PublishStockEvent(event); err != nil {
		log.Printf("Request decided event publish error: %v", err)
	}
}
