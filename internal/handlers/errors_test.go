package handlers

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/docstore"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("offering o1: %w", docstore.ErrNotFound), fiber.StatusNotFound},
		{"invalid reference", fmt.Errorf("doc: %w", docstore.ErrInvalidReference), fiber.StatusBadRequest},
		{"sold out", fmt.Errorf("offering o1: %w", domain.ErrSoldOut), fiber.StatusConflict},
		{"invalid transition", fmt.Errorf("reservation r1: %w", domain.ErrInvalidTransition), fiber.StatusConflict},
		{"inactive offering", fmt.Errorf("offering o1: %w", domain.ErrInactive), fiber.StatusConflict},
		{"payment reference set", fmt.Errorf("reservation r1: %w", domain.ErrPaymentReferenceSet), fiber.StatusConflict},
		{"not owner", fmt.Errorf("reservation r1: %w", domain.ErrNotOwner), fiber.StatusForbidden},
		{"store unavailable", fmt.Errorf("dataset: %w", docstore.ErrStoreUnavailable), fiber.StatusInternalServerError},
		{"unknown", fmt.Errorf("boom"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return respondError(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
