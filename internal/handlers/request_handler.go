package handlers

import (
	"fmt"
	"log"

	"github.com/fogonims/stock-service/internal/events"
	"github.com/fogonims/stock-service/internal/httpapi"
	"github.com/fogonims/stock-service/internal/messaging"
	"github.com/fogonims/stock-service/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RequestHandler struct {
	requestService *service.RequestService
}

func NewRequestHandler(requestService *service.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
	}
}

func (h *RequestHandler) CreateRequest(c *fiber.Ctx) error {
	caller := CallerFromContext(c)

	var input service.CreateRequestInput
	if err := c.BodyParser(&input); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", nil)
	}

	request, err := h.requestService.CreateRequest(caller, input)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.CreatedResponse(c, "Request submitted", mapRequest(request))
}

func (h *RequestHandler) EditRequest(c *fiber.Ctx) error {
	caller := CallerFromContext(c)

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request ID", nil)
	}

	var input service.EditRequestInput
	if err := c.BodyParser(&input); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", nil)
	}

	request, err := h.requestService.EditRequest(caller, requestID, input)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Request updated", mapRequest(request))
}

func (h *RequestHandler) DeleteRequest(c *fiber.Ctx) error {
	caller := CallerFromContext(c)

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request ID", nil)
	}

	if err := h.requestService.DeleteRequest(caller, requestID); err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.NoContentResponse(c)
}

func (h *RequestHandler) ApproveRequest(c *fiber.Ctx) error {
	caller := CallerFromContext(c)

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request ID", nil)
	}

	request, err := h.requestService.ApproveRequest(caller, requestID)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Request approved", mapRequest(request))
}

type denyRequestBody struct {
	Reason string `json:"reason"`
}

func (h *RequestHandler) DenyRequest(c *fiber.Ctx) error {
	caller := CallerFromContext(c)

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request ID", nil)
	}

	var body denyRequestBody
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return httpapi.BadRequestResponse(c, "Invalid request body", nil)
		}
	}

	request, err := h.requestService.DenyRequest(caller, requestID, body.Reason)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Request denied", mapRequest(request))
}

func (h *RequestHandler) ListRequests(c *fiber.Ctx) error {
	caller := CallerFromContext(c)

	requests, err := h.requestService.ListRequests(caller)
	if err != nil {
		return httpapi.InternalServerErrorResponse(c, "Failed to list requests", nil)
	}

	return httpapi.SuccessResponse(c, "Requests retrieved", mapAnnotatedRequests(requests))
}

// NotificationConsumer wires the request.created fan-out: events published
// by the request engine come back off the queue and land as manager
// notifications.
type NotificationConsumer struct {
	notificationService *service.NotificationService
}

func NewNotificationConsumer(notificationService *service.NotificationService) *NotificationConsumer {
	return &NotificationConsumer{
		notificationService: notificationService,
	}
}

func (h *NotificationConsumer) HandleStockEvent(event events.StockEvent) error {
	log.Printf("Dispatcher event received: %s from %s", event.EventType, event.Service)

	switch event.EventType {
	case events.RequestCreatedEvent:
		return h.handleRequestCreated(event)
	default:
		log.Printf("Unhandled event type: %s", event.EventType)
		return nil
	}
}

func (h *NotificationConsumer) handleRequestCreated(event events.StockEvent) error {
	payloadMap, ok := event.Payload.(map[string]interface{})
	if !ok {
		return fmt.Errorf("invalid payload format for %s", event.EventType)
	}

	payload := events.RequestCreatedPayload{}

	if requestIDStr, ok := payloadMap["request_id"].(string); ok {
		if requestID, err := uuid.Parse(requestIDStr); err == nil {
			payload.RequestID = requestID
		}
	}

	if productIDStr, ok := payloadMap["product_id"].(string); ok {
		if productID, err := uuid.Parse(productIDStr); err == nil {
			payload.ProductID = productID
		}
	}

	if requesterIDStr, ok := payloadMap["requester_id"].(string); ok {
		if requesterID, err := uuid.Parse(requesterIDStr); err == nil {
			payload.RequesterID = requesterID
		}
	}

	if productName, ok := payloadMap["product_name"].(string); ok {
		payload.ProductName = productName
	}

	if requesterName, ok := payloadMap["requester_name"].(string); ok {
		payload.RequesterName = requesterName
	}

	if quantity, ok := payloadMap["quantity"].(float64); ok {
		payload.Quantity = int(quantity)
	}

	return h.notificationService.NotifyRequestCreated(payload)
}

func (h *NotificationConsumer) StartConsuming(consumer *messaging.Consumer) error {
	routingKeys := []string{
		"stock.request-engine.request.created",
	}

	return consumer.ConsumeEvents(routingKeys, h.HandleStockEvent)
}
