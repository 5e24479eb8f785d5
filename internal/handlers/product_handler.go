package handlers

import (
	"github.com/fogonims/stock-service/internal/httpapi"
	"github.com/fogonims/stock-service/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	inventoryService *service.InventoryService
}

func NewProductHandler(inventoryService *service.InventoryService) *ProductHandler {
	return &ProductHandler{
		inventoryService: inventoryService,
	}
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.inventoryService.ListProducts()
	if err != nil {
		return httpapi.InternalServerErrorResponse(c, "Failed to list products", nil)
	}

	return httpapi.SuccessResponse(c, "Products retrieved", mapProducts(products))
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid product ID", map[string]interface{}{
			"product_id": c.Params("id"),
		})
	}

	product, err := h.inventoryService.GetProduct(productID)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Product retrieved", mapProduct(product))
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	caller := CallerFromContext(c)

	var input service.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", nil)
	}

	product, err := h.inventoryService.CreateProduct(caller, input)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.CreatedResponse(c, "Product created", mapProduct(product))
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	caller := CallerFromContext(c)

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid product ID", nil)
	}

	var input service.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", nil)
	}

	product, err := h.inventoryService.UpdateProduct(caller, productID, input)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Product updated", mapProduct(product))
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	caller := CallerFromContext(c)

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid product ID", nil)
	}

	if err := h.inventoryService.DeleteProduct(caller, productID); err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.NoContentResponse(c)
}
