package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/docstore"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/httpapi"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/service"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/uploader"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
	uploads        *uploader.LocalUploader
}

func NewCatalogHandler(catalogService *service.CatalogService, uploads *uploader.LocalUploader) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		uploads:        uploads,
	}
}

func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	var request CreateItemRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}
	if request.ProviderID == "" || request.Name == "" {
		return httpapi.BadRequestResponse(c, "Provider ID and name are required", nil)
	}

	item := &domain.CatalogItem{
		ProviderID:   request.ProviderID,
		Name:         request.Name,
		Description:  request.Description,
		PriceDefault: request.PriceDefault,
		Currency:     request.Currency,
		Category:     request.Category,
		ImageURL:     request.ImageURL,
	}

	id, err := h.catalogService.CreateItem(c.Context(), item)
	if err != nil {
		return respondError(c, err)
	}
	return httpapi.CreatedResponse(c, "Catalog item created successfully", fiber.Map{
		"id":   id,
		"item": item,
	})
}

func (h *CatalogHandler) UpdateItem(c *fiber.Ctx) error {
	id := c.Params("id")

	var request UpdateItemRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", nil)
	}

	fields := docstore.Document{}
	if request.Name != nil {
		fields["name"] = *request.Name
	}
	if request.Description != nil {
		fields["description"] = *request.Description
	}
	if request.PriceDefault != nil {
		fields["priceDefault"] = *request.PriceDefault
	}
	if request.Category != nil {
		fields["category"] = *request.Category
	}
	if request.ImageURL != nil {
		fields["imageUrl"] = *request.ImageURL
	}
	if len(fields) == 0 {
		return httpapi.BadRequestResponse(c, "No fields to update", nil)
	}

	if err := h.catalogService.UpdateItem(c.Context(), id, fields); err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Catalog item updated successfully", nil)
}

func (h *CatalogHandler) DeleteItem(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.catalogService.DeleteItem(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Catalog item deleted successfully", nil)
}

func (h *CatalogHandler) ItemsByProvider(c *fiber.Ctx) error {
	providerID := c.Params("id")
	activeOnly := c.QueryBool("active_only", false)

	items, err := h.catalogService.ItemsByProvider(c.Context(), providerID, activeOnly)
	if err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Catalog items retrieved successfully", items)
}

func (h *CatalogHandler) CreateOffering(c *fiber.Ctx) error {
	var request CreateOfferingRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", nil)
	}
	if request.ItemID == "" || request.Date == "" {
		return httpapi.BadRequestResponse(c, "Item ID and date are required", nil)
	}

	offering, err := h.catalogService.CreateOffering(c.Context(), request.ItemID, request.Date, request.Price, request.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return httpapi.CreatedResponse(c, "Offering created successfully", offering)
}

func (h *CatalogHandler) EditOffering(c *fiber.Ctx) error {
	id := c.Params("id")

	var request EditOfferingRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", nil)
	}

	if err := h.catalogService.EditOffering(c.Context(), id, request.Price, request.QuantityTotal); err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Offering updated successfully", nil)
}

func (h *CatalogHandler) DeactivateOffering(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.catalogService.DeactivateOffering(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Offering deactivated successfully", nil)
}

func (h *CatalogHandler) ListOfferings(c *fiber.Ctx) error {
	date := c.Query("date")
	providerID := c.Query("provider_id")

	switch {
	case providerID != "":
		offerings, err := h.catalogService.OfferingsByProvider(c.Context(), providerID)
		if err != nil {
			return respondError(c, err)
		}
		return httpapi.SuccessResponse(c, "Offerings retrieved successfully", offerings)
	case date != "":
		offerings, err := h.catalogService.OfferingsByDate(c.Context(), date)
		if err != nil {
			return respondError(c, err)
		}
		return httpapi.SuccessResponse(c, "Offerings retrieved successfully", offerings)
	default:
		return httpapi.BadRequestResponse(c, "Either date or provider_id is required", nil)
	}
}

func (h *CatalogHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return httpapi.BadRequestResponse(c, "File is required", nil)
	}

	src, err := file.Open()
	if err != nil {
		return httpapi.BadRequestResponse(c, "File open error", nil)
	}
	defer src.Close()

	blob, err := io.ReadAll(src)
	if err != nil {
		return httpapi.BadRequestResponse(c, "File read error", nil)
	}

	url := h.uploads.Upload(blob, file.Filename)
	return httpapi.CreatedResponse(c, "File uploaded successfully", fiber.Map{
		"url": url,
	})
}
