package handlers

import (
	"time"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
)

type RegisterRequest struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Category string `json:"category,omitempty"`
}

type LoginRequest struct {
	UID string `json:"uid"`
}

type CreateItemRequest struct {
	ProviderID   string  `json:"provider_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	PriceDefault float64 `json:"price_default"`
	Currency     string  `json:"currency"`
	Category     string  `json:"category"`
	ImageURL     string  `json:"image_url,omitempty"`
}

type UpdateItemRequest struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	PriceDefault *float64 `json:"price_default,omitempty"`
	Category     *string  `json:"category,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty"`
}

type CreateOfferingRequest struct {
	ItemID   string  `json:"item_id"`
	Date     string  `json:"date"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

type EditOfferingRequest struct {
	Price         *float64 `json:"price,omitempty"`
	QuantityTotal *int64   `json:"quantity_total,omitempty"`
}

type CreateReservationRequest struct {
	OfferingID string `json:"offering_id"`
	CustomerID string `json:"customer_id"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type BulkStatusRequest struct {
	ReservationIDs []string `json:"reservation_ids"`
	Status         string   `json:"status"`
}

type CancelRequest struct {
	CustomerID string `json:"customer_id"`
}

type PaymentReferenceRequest struct {
	CustomerID string `json:"customer_id"`
	Reference  string `json:"reference"`
}

type SaveCategoriesRequest struct {
	Categories []string `json:"categories"`
}

type ReservationResponse struct {
	ID               string    `json:"id"`
	OfferingID       string    `json:"offering_id"`
	CustomerID       string    `json:"customer_id"`
	ProviderID       string    `json:"provider_id"`
	OfferingName     string    `json:"offering_name"`
	CustomerName     string    `json:"customer_name"`
	Quantity         int64     `json:"quantity"`
	TotalPrice       float64   `json:"total_price"`
	PaymentReference string    `json:"payment_reference,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

type DashboardResponse struct {
	Counts  map[string]int `json:"counts"`
	Revenue float64        `json:"revenue"`
}

func mapReservation(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:               r.ID,
		OfferingID:       r.OfferingID,
		CustomerID:       r.CustomerID,
		ProviderID:       r.ProviderID,
		OfferingName:     r.OfferingName,
		CustomerName:     r.CustomerName,
		Quantity:         r.Quantity,
		TotalPrice:       r.TotalPrice,
		PaymentReference: r.PaymentReference,
		Status:           string(r.Status),
		CreatedAt:        r.CreatedAt,
	}
}

func mapReservations(reservations []*domain.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		out[i] = mapReservation(r)
	}
	return out
}
