package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/httpapi"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/service"
)

type ReservationHandler struct {
	reservationService *service.ReservationService
}

func NewReservationHandler(reservationService *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

func parseStatus(raw string) (domain.ReservationStatus, bool) {
	status := domain.ReservationStatus(raw)
	switch status {
	case domain.ReservationStatusPending, domain.ReservationStatusConfirmed,
		domain.ReservationStatusCompleted, domain.ReservationStatusCancelled:
		return status, true
	default:
		return "", false
	}
}

func (h *ReservationHandler) CreateReservation(c *fiber.Ctx) error {
	var request CreateReservationRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}
	if request.OfferingID == "" || request.CustomerID == "" {
		return httpapi.BadRequestResponse(c, "Offering ID and customer ID are required", nil)
	}

	reservation, err := h.reservationService.CreateReservation(c.Context(), request.OfferingID, request.CustomerID)
	if err != nil {
		return respondError(c, err)
	}
	return httpapi.CreatedResponse(c, "Reservation created successfully", mapReservation(reservation))
}

func (h *ReservationHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	var request UpdateStatusRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", nil)
	}
	status, ok := parseStatus(request.Status)
	if !ok {
		return httpapi.BadRequestResponse(c, "Invalid status", map[string]interface{}{
			"status": request.Status,
		})
	}

	if err := h.reservationService.UpdateReservationStatus(c.Context(), id, status); err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Reservation status updated successfully", nil)
}

func (h *ReservationHandler) BulkUpdateStatus(c *fiber.Ctx) error {
	var request BulkStatusRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", nil)
	}
	if len(request.ReservationIDs) == 0 {
		return httpapi.BadRequestResponse(c, "At least one reservation ID is required", nil)
	}
	status, ok := parseStatus(request.Status)
	if !ok {
		return httpapi.BadRequestResponse(c, "Invalid status", map[string]interface{}{
			"status": request.Status,
		})
	}

	if err := h.reservationService.BulkUpdateStatus(c.Context(), request.ReservationIDs, status); err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Reservation statuses updated successfully", nil)
}

func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")

	var request CancelRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", nil)
	}
	if request.CustomerID == "" {
		return httpapi.BadRequestResponse(c, "Customer ID is required", nil)
	}

	if err := h.reservationService.CancelByCustomer(c.Context(), id, request.CustomerID); err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Reservation cancelled successfully", nil)
}

func (h *ReservationHandler) AttachPaymentReference(c *fiber.Ctx) error {
	id := c.Params("id")

	var request PaymentReferenceRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", nil)
	}
	if request.CustomerID == "" || request.Reference == "" {
		return httpapi.BadRequestResponse(c, "Customer ID and reference are required", nil)
	}

	if err := h.reservationService.AttachPaymentReference(c.Context(), id, request.CustomerID, request.Reference); err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Payment reference attached successfully", nil)
}

func (h *ReservationHandler) ReservationsByCustomer(c *fiber.Ctx) error {
	customerID := c.Params("id")

	reservations, err := h.reservationService.ReservationsByCustomer(c.Context(), customerID)
	if err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Reservations retrieved successfully", mapReservations(reservations))
}

func (h *ReservationHandler) ReservationsByProvider(c *fiber.Ctx) error {
	providerID := c.Params("id")

	reservations, err := h.reservationService.ReservationsByProvider(c.Context(), providerID)
	if err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Reservations retrieved successfully", mapReservations(reservations))
}

func (h *ReservationHandler) Dashboard(c *fiber.Ctx) error {
	providerID := c.Params("id")

	counts, revenue, err := h.reservationService.Dashboard(c.Context(), providerID)
	if err != nil {
		return respondError(c, err)
	}

	response := DashboardResponse{
		Counts:  make(map[string]int, len(counts)),
		Revenue: revenue,
	}
	for status, count := range counts {
		response.Counts[string(status)] = count
	}
	return httpapi.SuccessResponse(c, "Dashboard retrieved successfully", response)
}
