package handlers

import (
	"github.com/fogonims/stock-service/internal/httpapi"
	"github.com/fogonims/stock-service/internal/service"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", nil)
	}

	token, user, err := h.authService.Login(body.Username, body.Password)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, "Invalid credentials")
	}

	return httpapi.SuccessResponse(c, "Login successful", fiber.Map{
		"access_token": token.Token,
		"role":         user.Role,
		"user":         mapUser(user),
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token := ""
	if len(header) > len("Bearer ") {
		token = header[len("Bearer "):]
	}

	if err := h.authService.Logout(token); err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Logged out", nil)
}

func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	caller := CallerFromContext(c)

	var input service.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", nil)
	}

	user, err := h.authService.CreateUser(caller, input)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.CreatedResponse(c, "User created", mapUser(user))
}
