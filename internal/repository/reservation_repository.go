package repository

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/docstore"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
)

type ReservationRepository struct {
	store *docstore.Store
}

func NewReservationRepository(store *docstore.Store) *ReservationRepository {
	return &ReservationRepository{store: store}
}

// Store exposes the underlying docstore for batch composition across
// repositories.
func (r *ReservationRepository) Store() *docstore.Store {
	return r.store
}

// InsertInBatch assigns a fresh id and appends the reservation insert to the
// batch, so it commits atomically with the offering quantity decrement.
func (r *ReservationRepository) InsertInBatch(batch *docstore.WriteBatch, reservation *domain.Reservation) (string, error) {
	id := ulid.Make().String()
	reservation.ID = id

	doc, err := encodeDoc(reservation)
	if err != nil {
		return "", err
	}
	delete(doc, "id")

	ref, err := docstore.Doc(ReservationsCollection, id)
	if err != nil {
		return "", err
	}
	batch.Set(ref, doc)
	return id, nil
}

func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	ref, err := docstore.Doc(ReservationsCollection, id)
	if err != nil {
		return nil, err
	}
	result, err := r.store.GetDoc(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !result.Exists {
		return nil, fmt.Errorf("reservation %s: %w", id, docstore.ErrNotFound)
	}
	reservation := &domain.Reservation{}
	if err := decodeDoc(result.Data, reservation); err != nil {
		return nil, err
	}
	reservation.ID = id
	return reservation, nil
}

// UpdateStatusInBatch appends the status change to the batch. The state
// machine check happens in the service before the batch commits.
func (r *ReservationRepository) UpdateStatusInBatch(batch *docstore.WriteBatch, id string, status domain.ReservationStatus) error {
	ref, err := docstore.Doc(ReservationsCollection, id)
	if err != nil {
		return err
	}
	batch.Update(ref, docstore.Document{"status": string(status)})
	return nil
}

func (r *ReservationRepository) SetPaymentReference(ctx context.Context, id, reference string) error {
	ref, err := docstore.Doc(ReservationsCollection, id)
	if err != nil {
		return err
	}
	return r.store.UpdateDoc(ctx, ref, docstore.Document{"paymentReference": reference})
}

func (r *ReservationRepository) ReservationsByCustomer(ctx context.Context, customerID string) ([]*domain.Reservation, error) {
	query := docstore.NewQuery(docstore.Collection(ReservationsCollection),
		docstore.Where("customerId", "==", customerID),
		docstore.OrderBy("createdAt", docstore.Desc),
	)
	return r.listReservations(ctx, query)
}

func (r *ReservationRepository) ReservationsByProvider(ctx context.Context, providerID string) ([]*domain.Reservation, error) {
	query := docstore.NewQuery(docstore.Collection(ReservationsCollection),
		docstore.Where("providerId", "==", providerID),
		docstore.OrderBy("createdAt", docstore.Desc),
	)
	return r.listReservations(ctx, query)
}

// CompletedRevenue sums totalPrice over the provider's completed
// reservations, the realized-revenue aggregate for the dashboard.
func (r *ReservationRepository) CompletedRevenue(ctx context.Context, providerID string) (float64, error) {
	query := docstore.NewQuery(docstore.Collection(ReservationsCollection),
		docstore.Where("providerId", "==", providerID),
		docstore.Where("status", "==", string(domain.ReservationStatusCompleted)),
	)
	reservations, err := r.listReservations(ctx, query)
	if err != nil {
		return 0, err
	}
	var revenue float64
	for _, reservation := range reservations {
		revenue += reservation.TotalPrice
	}
	return revenue, nil
}

// CountsByStatus returns the provider's reservation counts per status.
func (r *ReservationRepository) CountsByStatus(ctx context.Context, providerID string) (map[domain.ReservationStatus]int, error) {
	reservations, err := r.ReservationsByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.ReservationStatus]int)
	for _, reservation := range reservations {
		counts[reservation.Status]++
	}
	return counts, nil
}

func (r *ReservationRepository) listReservations(ctx context.Context, query docstore.QueryRef) ([]*domain.Reservation, error) {
	result, err := r.store.GetDocs(ctx, query)
	if err != nil {
		return nil, err
	}
	reservations := make([]*domain.Reservation, 0, result.Count)
	for _, snap := range result.Docs {
		reservation := &domain.Reservation{}
		if err := decodeDoc(snap.Data, reservation); err != nil {
			return nil, err
		}
		reservation.ID = snap.ID
		reservations = append(reservations, reservation)
	}
	return reservations, nil
}
