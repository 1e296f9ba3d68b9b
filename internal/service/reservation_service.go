package service

import (
	"context"
	"fmt"
	"log"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/repository"
)

// ReservationService runs the reservation/offering consistency protocol. The
// store has no transactions, so the service serializes reservation creation
// per offering, re-checks the remaining quantity under that lock, and commits
// the reservation insert together with the quantity decrement in one batch.
// Notifications are best-effort and never roll back the primary write.
type ReservationService struct {
	reservationRepo *repository.ReservationRepository
	offeringRepo    *repository.OfferingRepository
	userRepo        *repository.UserRepository
	notifications   *NotificationService
}

func NewReservationService(
	reservationRepo *repository.ReservationRepository,
	offeringRepo *repository.OfferingRepository,
	userRepo *repository.UserRepository,
	notifications *NotificationService,
) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		offeringRepo:    offeringRepo,
		userRepo:        userRepo,
		notifications:   notifications,
	}
}

// CreateReservation reserves exactly one unit of the offering for the
// customer. The read of quantityRemaining and the decrement commit happen
// under a per-offering lock, which is what keeps two concurrent calls at
// quantityRemaining=1 from both succeeding.
func (s *ReservationService) CreateReservation(ctx context.Context, offeringID, customerID string) (*domain.Reservation, error) {
	customer, err := s.userRepo.GetUser(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("customer lookup error: %w", err)
	}

	lock := s.offeringRepo.Lock(offeringID)
	lock.Lock()
	defer lock.Unlock()

	offering, err := s.offeringRepo.GetOffering(ctx, offeringID)
	if err != nil {
		return nil, fmt.Errorf("offering lookup error: %w", err)
	}
	if !offering.IsActive {
		return nil, fmt.Errorf("offering %s: %w", offeringID, domain.ErrInactive)
	}
	if offering.SoldOut() {
		return nil, fmt.Errorf("offering %s: %w", offeringID, domain.ErrSoldOut)
	}

	reservation := domain.NewReservation(offering, customerID, customer.Name, 1)

	batch := s.reservationRepo.Store().NewBatch()
	if _, err := s.reservationRepo.InsertInBatch(batch, reservation); err != nil {
		return nil, err
	}
	if err := s.offeringRepo.AdjustQuantityInBatch(batch, offeringID, -1); err != nil {
		return nil, err
	}
	if err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("reservation commit error: %w", err)
	}

	log.Printf("Reservation created: ReservationID=%s, OfferingID=%s, CustomerID=%s, Total=%.2f",
		reservation.ID, offeringID, customerID, reservation.TotalPrice)

	s.notifyBestEffort(ctx, offering.ProviderID,
		"New reservation",
		fmt.Sprintf("%s reserved %s", customer.Name, offering.ItemName),
		domain.NotificationTypeInfo,
		"/reservations/"+reservation.ID,
	)

	return reservation, nil
}

// UpdateReservationStatus applies a provider-initiated transition and
// notifies the customer. Cancelling a pending reservation returns the unit
// to the offering's inventory in the same batch.
func (s *ReservationService) UpdateReservationStatus(ctx context.Context, reservationID string, target domain.ReservationStatus) error {
	reservation, err := s.reservationRepo.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}

	if err := s.commitTransition(ctx, []*domain.Reservation{reservation}, target); err != nil {
		return err
	}

	s.notifyStatusChange(ctx, reservation, target)
	return nil
}

// BulkUpdateStatus applies the same target status to every listed
// reservation as one batch commit, then issues one notification per affected
// reservation. A single invalid transition rejects the whole set.
func (s *ReservationService) BulkUpdateStatus(ctx context.Context, reservationIDs []string, target domain.ReservationStatus) error {
	reservations := make([]*domain.Reservation, 0, len(reservationIDs))
	for _, id := range reservationIDs {
		reservation, err := s.reservationRepo.GetReservation(ctx, id)
		if err != nil {
			return err
		}
		reservations = append(reservations, reservation)
	}

	if err := s.commitTransition(ctx, reservations, target); err != nil {
		return err
	}

	for _, reservation := range reservations {
		s.notifyStatusChange(ctx, reservation, target)
	}
	return nil
}

// CancelByCustomer cancels the customer's own pending reservation, restocks
// the offering and notifies the provider.
func (s *ReservationService) CancelByCustomer(ctx context.Context, reservationID, customerID string) error {
	reservation, err := s.reservationRepo.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	if reservation.CustomerID != customerID {
		return fmt.Errorf("reservation %s: %w", reservationID, domain.ErrNotOwner)
	}

	if err := s.commitTransition(ctx, []*domain.Reservation{reservation}, domain.ReservationStatusCancelled); err != nil {
		return err
	}

	s.notifyBestEffort(ctx, reservation.ProviderID,
		"Reservation cancelled",
		fmt.Sprintf("%s cancelled the reservation for %s", reservation.CustomerName, reservation.OfferingName),
		domain.NotificationTypeWarning,
		"/reservations/"+reservationID,
	)
	return nil
}

// AttachPaymentReference records a free-text payment reference exactly once,
// while the reservation is still pending. It does not change the status.
func (s *ReservationService) AttachPaymentReference(ctx context.Context, reservationID, customerID, reference string) error {
	reservation, err := s.reservationRepo.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	if reservation.CustomerID != customerID {
		return fmt.Errorf("reservation %s: %w", reservationID, domain.ErrNotOwner)
	}
	if reservation.Status != domain.ReservationStatusPending {
		return fmt.Errorf("reservation %s is %s: %w", reservationID, reservation.Status, domain.ErrInvalidTransition)
	}
	if reservation.PaymentReference != "" {
		return fmt.Errorf("reservation %s: %w", reservationID, domain.ErrPaymentReferenceSet)
	}
	return s.reservationRepo.SetPaymentReference(ctx, reservationID, reference)
}

// commitTransition validates every requested transition against the state
// machine, then applies all status updates and any inventory restocks as one
// batch. Nothing is applied when any transition is invalid.
func (s *ReservationService) commitTransition(ctx context.Context, reservations []*domain.Reservation, target domain.ReservationStatus) error {
	for _, reservation := range reservations {
		if !reservation.Status.CanTransitionTo(target) {
			return fmt.Errorf("reservation %s: %s -> %s: %w",
				reservation.ID, reservation.Status, target, domain.ErrInvalidTransition)
		}
	}

	batch := s.reservationRepo.Store().NewBatch()
	for _, reservation := range reservations {
		if err := s.reservationRepo.UpdateStatusInBatch(batch, reservation.ID, target); err != nil {
			return err
		}
		if target == domain.ReservationStatusCancelled {
			if err := s.offeringRepo.AdjustQuantityInBatch(batch, reservation.OfferingID, reservation.Quantity); err != nil {
				return err
			}
		}
	}
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("status commit error: %w", err)
	}

	for _, reservation := range reservations {
		log.Printf("Reservation status updated: ReservationID=%s, Status=%s", reservation.ID, target)
		reservation.Status = target
	}
	return nil
}

func (s *ReservationService) notifyStatusChange(ctx context.Context, reservation *domain.Reservation, target domain.ReservationStatus) {
	var title string
	notificationType := domain.NotificationTypeInfo
	switch target {
	case domain.ReservationStatusConfirmed:
		title = "Reservation confirmed"
		notificationType = domain.NotificationTypeSuccess
	case domain.ReservationStatusCompleted:
		title = "Reservation completed"
		notificationType = domain.NotificationTypeSuccess
	case domain.ReservationStatusCancelled:
		title = "Reservation cancelled"
		notificationType = domain.NotificationTypeWarning
	default:
		title = "Reservation updated"
	}

	s.notifyBestEffort(ctx, reservation.CustomerID,
		title,
		fmt.Sprintf("Your reservation for %s is now %s", reservation.OfferingName, target),
		notificationType,
		"/reservations/"+reservation.ID,
	)
}

func (s *ReservationService) notifyBestEffort(ctx context.Context, recipientID, title, body string, notificationType domain.NotificationType, link string) {
	if err := s.notifications.Notify(ctx, recipientID, title, body, notificationType, link); err != nil {
		log.Printf("Notification failed (recipient=%s): %v", recipientID, err)
	}
}

// Dashboard aggregates a provider's reservation counts per status and the
// realized revenue over completed reservations.
func (s *ReservationService) Dashboard(ctx context.Context, providerID string) (map[domain.ReservationStatus]int, float64, error) {
	counts, err := s.reservationRepo.CountsByStatus(ctx, providerID)
	if err != nil {
		return nil, 0, err
	}
	revenue, err := s.reservationRepo.CompletedRevenue(ctx, providerID)
	if err != nil {
		return nil, 0, err
	}
	return counts, revenue, nil
}

func (s *ReservationService) ReservationsByCustomer(ctx context.Context, customerID string) ([]*domain.Reservation, error) {
	return s.reservationRepo.ReservationsByCustomer(ctx, customerID)
}

func (s *ReservationService) ReservationsByProvider(ctx context.Context, providerID string) ([]*domain.Reservation, error) {
	return s.reservationRepo.ReservationsByProvider(ctx, providerID)
}
