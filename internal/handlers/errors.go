package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/docstore"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/httpapi"
)

// respondError maps the core error taxonomy onto the response envelope.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return httpapi.NotFoundResponse(c, err.Error())
	case errors.Is(err, docstore.ErrInvalidReference):
		return httpapi.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, domain.ErrSoldOut):
		return httpapi.ConflictResponse(c, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidTransition):
		return httpapi.ConflictResponse(c, err.Error(), nil)
	case errors.Is(err, domain.ErrInactive):
		return httpapi.ConflictResponse(c, err.Error(), nil)
	case errors.Is(err, domain.ErrPaymentReferenceSet):
		return httpapi.ConflictResponse(c, err.Error(), nil)
	case errors.Is(err, domain.ErrNotOwner):
		return httpapi.ForbiddenResponse(c, err.Error())
	case errors.Is(err, docstore.ErrStoreUnavailable):
		return httpapi.InternalServerErrorResponse(c, err.Error(), nil)
	default:
		return httpapi.InternalServerErrorResponse(c, err.Error(), nil)
	}
}
