package domain

import (
	"errors"
	"time"
)

var (
	// ErrSoldOut marks a reservation attempt against an offering whose
	// remaining quantity was already 0 at the guarded re-check.
	ErrSoldOut = errors.New("offering sold out")

	// ErrInactive marks an operation against a deactivated offering or
	// catalog item.
	ErrInactive = errors.New("not active")

	// ErrNotOwner marks a customer-initiated operation on a reservation
	// that belongs to someone else.
	ErrNotOwner = errors.New("reservation belongs to another customer")

	// ErrPaymentReferenceSet marks a second attempt to attach a payment
	// reference; the reference is write-once.
	ErrPaymentReferenceSet = errors.New("payment reference already set")

	// ErrInvalidTransition marks a status change the reservation state
	// machine does not permit.
	ErrInvalidTransition = errors.New("invalid status transition")
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Reservation is a customer's claim on units of an Offering. OfferingName and
// CustomerName are denormalized at creation time.
type Reservation struct {
	ID               string            `json:"id"`
	OfferingID       string            `json:"offeringId"`
	CustomerID       string            `json:"customerId"`
	ProviderID       string            `json:"providerId"`
	OfferingName     string            `json:"offeringName"`
	CustomerName     string            `json:"customerName"`
	Quantity         int64             `json:"quantity"`
	TotalPrice       float64           `json:"totalPrice"`
	PaymentReference string            `json:"paymentReference,omitempty"`
	Status           ReservationStatus `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// NewReservation builds a pending reservation for one unit of the offering.
func NewReservation(offering *Offering, customerID, customerName string, quantity int64) *Reservation {
	return &Reservation{
		OfferingID:   offering.ID,
		CustomerID:   customerID,
		ProviderID:   offering.ProviderID,
		OfferingName: offering.ItemName,
		CustomerName: customerName,
		Quantity:     quantity,
		TotalPrice:   offering.Price * float64(quantity),
		Status:       ReservationStatusPending,
		CreatedAt:    time.Now(),
	}
}

// IsTerminal reports whether no further transition is defined.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusCompleted || s == ReservationStatusCancelled
}

// CanTransitionTo checks the state machine:
// pending -> confirmed -> completed, with cancel allowed only from pending.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	switch s {
	case ReservationStatusPending:
		return target == ReservationStatusConfirmed || target == ReservationStatusCancelled
	case ReservationStatusConfirmed:
		return target == ReservationStatusCompleted
	default:
		return false
	}
}
