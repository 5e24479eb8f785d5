package service

import (
	"fmt"
	"log"

	"github.com/fogonims/stock-service/internal/domain"
	"github.com/fogonims/stock-service/internal/events"
	"github.com/google/uuid"
)

type NotificationRepository interface {
	CreateNotification(notification *domain.Notification) error
	GetNotificationByID(notificationID uuid.UUID) (*domain.Notification, error)
	MarkNotificationRead(notificationID uuid.UUID) error
	HasUnreadLowStock(recipientID, productID uuid.UUID) (bool, error)
	ListNotificationsByRecipient(recipientID uuid.UUID) ([]*domain.Notification, error)
}

type UserDirectory interface {
	ListManagers() ([]*domain.User, error)
}

// NotificationService is the single writer of notification records. The
// request engine and inventory ledger call it synchronously after their
// transactions commit; the RabbitMQ consumer feeds it request.created
// events for the manager fan-out.
type NotificationService struct {
	notificationRepo NotificationRepository
	users            UserDirectory
	publisher        EventPublisher
}

func NewNotificationService(notificationRepo NotificationRepository, users UserDirectory, publisher EventPublisher) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		users:            users,
		publisher:        publisher,
	}
}

func (s *NotificationService) NotifyRequestApproved(request *domain.StockRequest, productName string) {
	message := fmt.Sprintf("Your request for %d x %s was approved", request.Quantity, productName)
	notification := domain.NewNotification(request.RequestedBy, domain.NotificationTypeRequestApproved, message)

	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		log.Printf("Approved notification create error: RequestID=%s, %v", request.ID, err)
		return
	}

	log.Printf("Notification created: Type=%s, Recipient=%s", notification.Type, notification.RecipientID)
}

func (s *NotificationService) NotifyRequestDenied(request *domain.StockRequest, productName string) {
	message := fmt.Sprintf("Your request for %d x %s was denied", request.Quantity, productName)
	if request.DenyReason != "" {
		message = fmt.Sprintf("%s: %s", message, request.DenyReason)
	}
	notification := domain.NewNotification(request.RequestedBy, domain.NotificationTypeRequestDenied, message)

	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		log.Printf("Denied notification create error: RequestID=%s, %v", request.ID, err)
		return
	}

	log.Printf("Notification created: Type=%s, Recipient=%s", notification.Type, notification.RecipientID)
}

// NotifyRequestCreated fans a new request out to every manager. Driven by
// the event bus consumer, not called inline by the request engine.
func (s *NotificationService) NotifyRequestCreated(payload events.RequestCreatedPayload) error {
	managers, err := s.users.ListManagers()
	if err != nil {
		return fmt.Errorf("manager lookup error: %v", err)
	}

	message := fmt.Sprintf("%s requested %d x %s", payload.RequesterName, payload.Quantity, payload.ProductName)

	for _, manager := range managers {
		notification := domain.NewNotification(manager.ID, domain.NotificationTypeRequestCreated, message)
		if err := s.notificationRepo.CreateNotification(notification); err != nil {
			return fmt.Errorf("created notification write error: %v", err)
		}
	}

	log.Printf("Request created fan-out: RequestID=%s, Managers=%d", payload.RequestID, len(managers))
	return nil
}

// EvaluateLowStock applies the low-stock policy for one product. Fires at
// most one unread LOW_STOCK notification per manager; an existing unread
// alert for the same product suppresses a new one. Alerts are not cleared
// on restock — a manager dismisses one by marking it read.
func (s *NotificationService) EvaluateLowStock(product *domain.Product) {
	if !product.IsLowStock() {
		return
	}

	managers, err := s.users.ListManagers()
	if err != nil {
		log.Printf("Low stock manager lookup error: %v", err)
		return
	}

	message := fmt.Sprintf("Low stock: %s has %d left", product.Name, product.Quantity)
	fired := 0

	for _, manager := range managers {
		exists, err := s.notificationRepo.HasUnreadLowStock(manager.ID, product.ID)
		if err != nil {
			log.Printf("Low stock dedup check error: Product=%s, %v", product.ID, err)
			continue
		}
		if exists {
			continue
		}

		notification := domain.NewLowStockNotification(manager.ID, product.ID, message)
		if err := s.notificationRepo.CreateNotification(notification); err != nil {
			log.Printf("Low stock notification create error: Product=%s, %v", product.ID, err)
			continue
		}
		fired++
	}

	if fired > 0 {
		log.Printf("Low stock alert fired: Product=%s, Quantity=%d, Recipients=%d",
			product.Name, product.Quantity, fired)
		s.publishLowStockEvent(product)
	}
}

func (s *NotificationService) MarkRead(caller domain.Caller, notificationID uuid.UUID) (*domain.Notification, error) {
	notification, err := s.notificationRepo.GetNotificationByID(notificationID)
	if err != nil {
		return nil, err
	}

	if err := notification.MarkRead(caller); err != nil {
		return nil, err
	}

	if err := s.notificationRepo.MarkNotificationRead(notificationID); err != nil {
		return nil, err
	}

	return notification, nil
}

func (s *NotificationService) ListNotifications(caller domain.Caller) ([]*domain.Notification, error) {
	return s.notificationRepo.ListNotificationsByRecipient(caller.ID)
}

func (s *NotificationService) publishLowStockEvent(product *domain.Product) {
	event := events.StockEvent{
		ID:            uuid.New(),
		EventType:     events.LowStockEvent,
		Service:       "notification-dispatcher",
		CorrelationID: uuid.New(),
		Payload: events.LowStockPayload{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    product.Quantity,
			Threshold:   product.ReorderThreshold,
		},
	}

	if err := s.publisher.PublishStockEvent(event); err != nil {
		log.Printf("Low stock event publish error: %v", err)
	}
}
