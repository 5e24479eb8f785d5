package service

import (
	"fmt"
	"log"

	"github.com/fogonims/stock-service/internal/domain"
	"github.com/fogonims/stock-service/internal/events"
	"github.com/google/uuid"
)

type ProductRepository interface {
	CreateProduct(product *domain.Product) error
	UpdateProduct(product *domain.Product) error
	DeleteProduct(productID uuid.UUID) error
	GetProductByID(productID uuid.UUID) (*domain.Product, error)
	ListProducts() ([]*domain.Product, error)
}

// InventoryService owns the product ledger. Quantity changes here and in
// the approval transaction are the only places stock moves, and both
// re-evaluate the low-stock policy afterwards.
type InventoryService struct {
	productRepo ProductRepository
	dispatcher  *NotificationService
	publisher   EventPublisher
}

func NewInventoryService(productRepo ProductRepository, dispatcher *NotificationService, publisher EventPublisher) *InventoryService {
	return &InventoryService{
		productRepo: productRepo,
		dispatcher:  dispatcher,
		publisher:   publisher,
	}
}

type ProductInput struct {
	Name             string  `json:"name"`
	Quantity         int     `json:"quantity"`
	Price            float64 `json:"price"`
	ReorderThreshold int     `json:"reorder_threshold"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	Vendor           string  `json:"vendor"`
	ImageURL         string  `json:"image_url"`
	LowStockFlag     bool    `json:"low_stock_flag"`
}

func (s *InventoryService) ListProducts() ([]*domain.Product, error) {
	return s.productRepo.ListProducts()
}

func (s *InventoryService) GetProduct(productID uuid.UUID) (*domain.Product, error) {
	return s.productRepo.GetProductByID(productID)
}

func (s *InventoryService) CreateProduct(caller domain.Caller, input ProductInput) (*domain.Product, error) {
	if !caller.IsManager() {
		return nil, domain.Forbidden("Manager role required")
	}

	product := domain.NewProduct(input.Name, input.Quantity, input.Price, input.ReorderThreshold)
	product.Description = input.Description
	product.Category = input.Category
	product.Vendor = input.Vendor
	product.ImageURL = input.ImageURL
	product.LowStockFlag = input.LowStockFlag

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.CreateProduct(product); err != nil {
		return nil, fmt.Errorf("product creation error: %v", err)
	}

	log.Printf("Product created: ProductID=%s, Name=%s, Quantity=%d",
		product.ID, product.Name, product.Quantity)

	s.dispatcher.EvaluateLowStock(product)
	s.publishProductEvent(caller, events.ProductCreatedEvent, product)

	return product, nil
}

func (s *InventoryService) UpdateProduct(caller domain.Caller, productID uuid.UUID, input ProductInput) (*domain.Product, error) {
	if !caller.IsManager() {
		return nil, domain.Forbidden("Manager role required")
	}

	product, err := s.productRepo.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	quantityChanged := product.Quantity != input.Quantity
	flagRaised := input.LowStockFlag && !product.LowStockFlag

	product.Name = input.Name
	product.Quantity = input.Quantity
	product.Price = input.Price
	product.ReorderThreshold = input.ReorderThreshold
	product.Description = input.Description
	product.Category = input.Category
	product.Vendor = input.Vendor
	product.ImageURL = input.ImageURL
	product.LowStockFlag = input.LowStockFlag
	product.Touch()

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.UpdateProduct(product); err != nil {
		return nil, err
	}

	log.Printf("Product updated: ProductID=%s, Name=%s, Quantity=%d",
		product.ID, product.Name, product.Quantity)

	if quantityChanged || flagRaised {
		s.dispatcher.EvaluateLowStock(product)
	}

	s.publishProductEvent(caller, events.ProductUpdatedEvent, product)

	return product, nil
}

func (s *InventoryService) DeleteProduct(caller domain.Caller, productID uuid.UUID) error {
	if !caller.IsManager() {
		return domain.Forbidden("Manager role required")
	}

	product, err := s.productRepo.GetProductByID(productID)
	if err != nil {
		return err
	}

	if err := s.productRepo.DeleteProduct(productID); err != nil {
		return err
	}

	log.Printf("Product deleted: ProductID=%s, Name=%s", productID, product.Name)

	s.publishProductEvent(caller, events.ProductDeletedEvent, product)

	return nil
}

func (s *InventoryService) publishProductEvent(caller domain.Caller, eventType events.StockEventType, product *domain.Product) {
	event := events.StockEvent{
		ID:            uuid.New(),
		ActorID:       caller.ID,
		EventType:     eventType,
		Service:       "inventory-ledger",
		CorrelationID: uuid.New(),
		Payload: events.ProductChangedPayload{
			Product: *product,
		},
	}

	if err := s.publisher.PublishStockEvent(event); err != nil {
		log.Printf("Product event publish error: %v", err)
	}
}
