package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/httpapi"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

func (h *AccountHandler) Register(c *fiber.Ctx) error {
	var request RegisterRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	role := domain.Role(request.Role)
	switch role {
	case domain.RoleCustomer, domain.RoleProvider, domain.RoleAdmin:
	default:
		return httpapi.BadRequestResponse(c, "Invalid role", map[string]interface{}{
			"role": request.Role,
		})
	}
	if request.Name == "" || request.Email == "" {
		return httpapi.BadRequestResponse(c, "Name and email are required", nil)
	}

	user, err := h.accountService.Register(c.Context(), role, request.Name, request.Email, request.Phone, request.Category)
	if err != nil {
		return respondError(c, err)
	}
	return httpapi.CreatedResponse(c, "User registered successfully", user)
}

func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var request LoginRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", nil)
	}
	if request.UID == "" {
		return httpapi.BadRequestResponse(c, "UID is required", nil)
	}

	user, err := h.accountService.Login(c.Context(), request.UID)
	if err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Logged in successfully", user)
}

func (h *AccountHandler) Logout(c *fiber.Ctx) error {
	if err := h.accountService.Logout(); err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Logged out successfully", nil)
}

func (h *AccountHandler) Session(c *fiber.Ctx) error {
	record, ok := h.accountService.CurrentSession()
	if !ok {
		return httpapi.NotFoundResponse(c, "No active session")
	}
	return httpapi.SuccessResponse(c, "Session retrieved successfully", record)
}

func (h *AccountHandler) SaveCategories(c *fiber.Ctx) error {
	providerID := c.Params("id")

	var request SaveCategoriesRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", nil)
	}

	if err := h.accountService.SaveCategories(c.Context(), providerID, request.Categories); err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Categories saved successfully", nil)
}

func (h *AccountHandler) FollowProvider(c *fiber.Ctx) error {
	providerID := c.Params("id")

	if err := h.accountService.FollowProvider(c.Context(), providerID); err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Provider followed successfully", nil)
}

func (h *AccountHandler) HealthCheck(c *fiber.Ctx) error {
	return httpapi.SuccessResponse(c, "Marketplace service is healthy", fiber.Map{
		"status": "UP",
	})
}
