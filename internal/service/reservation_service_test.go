package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/docstore"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/repository"
)

type fixture struct {
	store         *docstore.Store
	users         *repository.UserRepository
	offerings     *repository.OfferingRepository
	reservations  *repository.ReservationRepository
	notifications *repository.NotificationRepository
	service       *ReservationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := docstore.NewStore(docstore.NewMemoryPersistence())
	require.NoError(t, err)

	users := repository.NewUserRepository(store)
	offerings := repository.NewOfferingRepository(store)
	reservations := repository.NewReservationRepository(store)
	notifications := repository.NewNotificationRepository(store)
	notificationService := NewNotificationService(notifications, nil)

	return &fixture{
		store:         store,
		users:         users,
		offerings:     offerings,
		reservations:  reservations,
		notifications: notifications,
		service:       NewReservationService(reservations, offerings, users, notificationService),
	}
}

func (f *fixture) seedCustomer(t *testing.T, uid, name string) {
	t.Helper()
	require.NoError(t, f.users.CreateUser(context.Background(), &domain.User{
		UID:       uid,
		Role:      domain.RoleCustomer,
		Name:      name,
		Email:     uid + "@example.com",
		CreatedAt: time.Now(),
	}))
}

func (f *fixture) seedOffering(t *testing.T, providerID string, price float64, quantity int64) *domain.Offering {
	t.Helper()
	offering := &domain.Offering{
		ItemID:            "item-1",
		ProviderID:        providerID,
		ItemName:          "Grilled Salmon Box",
		Price:             price,
		QuantityTotal:     quantity,
		QuantityRemaining: quantity,
		Date:              "2026-09-01",
		IsActive:          true,
	}
	_, err := f.offerings.CreateOffering(context.Background(), offering)
	require.NoError(t, err)
	return offering
}

func TestCreateReservationDecrementsQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCustomer(t, "c1", "Alice")
	offering := f.seedOffering(t, "p1", 50, 10)

	reservation, err := f.service.CreateReservation(ctx, offering.ID, "c1")
	require.NoError(t, err)

	assert.Equal(t, domain.ReservationStatusPending, reservation.Status)
	assert.Equal(t, 50.0, reservation.TotalPrice)
	assert.Equal(t, "Alice", reservation.CustomerName)
	assert.Equal(t, "Grilled Salmon Box", reservation.OfferingName)

	updated, err := f.offerings.GetOffering(ctx, offering.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), updated.QuantityRemaining)
}

func TestOversellGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCustomer(t, "c1", "Alice")
	f.seedCustomer(t, "c2", "Bob")
	f.seedCustomer(t, "c3", "Carol")
	offering := f.seedOffering(t, "p1", 25, 2)

	_, err := f.service.CreateReservation(ctx, offering.ID, "c1")
	require.NoError(t, err)
	_, err = f.service.CreateReservation(ctx, offering.ID, "c2")
	require.NoError(t, err)

	// Third call observes quantityRemaining=0 and must not create anything.
	_, err = f.service.CreateReservation(ctx, offering.ID, "c3")
	assert.ErrorIs(t, err, domain.ErrSoldOut)

	updated, err := f.offerings.GetOffering(ctx, offering.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.QuantityRemaining)

	reservations, err := f.reservations.ReservationsByCustomer(ctx, "c3")
	require.NoError(t, err)
	assert.Empty(t, reservations)
}

func TestOversellGuardUnderConcurrency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, uid := range []string{"c1", "c2", "c3", "c4"} {
		f.seedCustomer(t, uid, "Customer "+uid)
	}
	offering := f.seedOffering(t, "p1", 10, 1)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i, uid := range []string{"c1", "c2", "c3", "c4"} {
		wg.Add(1)
		go func(i int, uid string) {
			defer wg.Done()
			_, errs[i] = f.service.CreateReservation(ctx, offering.ID, uid)
		}(i, uid)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrSoldOut)
		}
	}
	assert.Equal(t, 1, succeeded)

	updated, err := f.offerings.GetOffering(ctx, offering.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.QuantityRemaining)
}

func TestReservationAgainstInactiveOffering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCustomer(t, "c1", "Alice")
	offering := f.seedOffering(t, "p1", 10, 5)
	require.NoError(t, f.offerings.DeactivateOffering(ctx, offering.ID))

	_, err := f.service.CreateReservation(ctx, offering.ID, "c1")
	assert.ErrorIs(t, err, domain.ErrInactive)
}

func TestStateMachineRejectsTransitionsOutOfTerminalStates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCustomer(t, "c1", "Alice")
	offering := f.seedOffering(t, "p1", 10, 5)

	reservation, err := f.service.CreateReservation(ctx, offering.ID, "c1")
	require.NoError(t, err)

	require.NoError(t, f.service.UpdateReservationStatus(ctx, reservation.ID, domain.ReservationStatusConfirmed))
	require.NoError(t, f.service.UpdateReservationStatus(ctx, reservation.ID, domain.ReservationStatusCompleted))

	for _, target := range []domain.ReservationStatus{
		domain.ReservationStatusPending,
		domain.ReservationStatusConfirmed,
		domain.ReservationStatusCancelled,
	} {
		err := f.service.UpdateReservationStatus(ctx, reservation.ID, target)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	}

	// The document is unchanged after the rejected attempts.
	current, err := f.reservations.GetReservation(ctx, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCompleted, current.Status)
}

func TestStateMachineRejectsSkippingConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCustomer(t, "c1", "Alice")
	offering := f.seedOffering(t, "p1", 10, 5)

	reservation, err := f.service.CreateReservation(ctx, offering.ID, "c1")
	require.NoError(t, err)

	err = f.service.UpdateReservationStatus(ctx, reservation.ID, domain.ReservationStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestProviderCancelRestocksInventory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCustomer(t, "c1", "Alice")
	offering := f.seedOffering(t, "p1", 10, 3)

	reservation, err := f.service.CreateReservation(ctx, offering.ID, "c1")
	require.NoError(t, err)

	require.NoError(t, f.service.UpdateReservationStatus(ctx, reservation.ID, domain.ReservationStatusCancelled))

	updated, err := f.offerings.GetOffering(ctx, offering.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.QuantityRemaining)
}

func TestCustomerCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCustomer(t, "c1", "Alice")
	offering := f.seedOffering(t, "p1", 10, 3)

	reservation, err := f.service.CreateReservation(ctx, offering.ID, "c1")
	require.NoError(t, err)

	// Only the owning customer may cancel.
	err = f.service.CancelByCustomer(ctx, reservation.ID, "someone-else")
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	require.NoError(t, f.service.CancelByCustomer(ctx, reservation.ID, "c1"))

	current, err := f.reservations.GetReservation(ctx, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCancelled, current.Status)

	updated, err := f.offerings.GetOffering(ctx, offering.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.QuantityRemaining)

	// No cancel out of a terminal state.
	err = f.service.CancelByCustomer(ctx, reservation.ID, "c1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCustomerCancelOnlyWhilePending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCustomer(t, "c1", "Alice")
	offering := f.seedOffering(t, "p1", 10, 3)

	reservation, err := f.service.CreateReservation(ctx, offering.ID, "c1")
	require.NoError(t, err)
	require.NoError(t, f.service.UpdateReservationStatus(ctx, reservation.ID, domain.ReservationStatusConfirmed))

	err = f.service.CancelByCustomer(ctx, reservation.ID, "c1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestBulkUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCustomer(t, "c1", "Alice")
	f.seedCustomer(t, "c2", "Bob")
	offering := f.seedOffering(t, "p1", 10, 5)

	first, err := f.service.CreateReservation(ctx, offering.ID, "c1")
	require.NoError(t, err)
	second, err := f.service.CreateReservation(ctx, offering.ID, "c2")
	require.NoError(t, err)

	require.NoError(t, f.service.BulkUpdateStatus(ctx, []string{first.ID, second.ID}, domain.ReservationStatusConfirmed))

	for _, id := range []string{first.ID, second.ID} {
		current, err := f.reservations.GetReservation(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusConfirmed, current.Status)
	}

	// One notification per affected reservation customer.
	inboxC1, err := f.notifications.NotificationsByRecipient(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, inboxC1, 1)
	inboxC2, err := f.notifications.NotificationsByRecipient(ctx, "c2")
	require.NoError(t, err)
	assert.Len(t, inboxC2, 1)
}

func TestBulkUpdateRejectsWholeSetOnOneInvalidTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCustomer(t, "c1", "Alice")
	f.seedCustomer(t, "c2", "Bob")
	offering := f.seedOffering(t, "p1", 10, 5)

	pending, err := f.service.CreateReservation(ctx, offering.ID, "c1")
	require.NoError(t, err)
	cancelled, err := f.service.CreateReservation(ctx, offering.ID, "c2")
	require.NoError(t, err)
	require.NoError(t, f.service.UpdateReservationStatus(ctx, cancelled.ID, domain.ReservationStatusCancelled))

	err = f.service.BulkUpdateStatus(ctx, []string{pending.ID, cancelled.ID}, domain.ReservationStatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	current, err := f.reservations.GetReservation(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusPending, current.Status)
}

func TestAttachPaymentReferenceExactlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCustomer(t, "c1", "Alice")
	offering := f.seedOffering(t, "p1", 10, 3)

	reservation, err := f.service.CreateReservation(ctx, offering.ID, "c1")
	require.NoError(t, err)

	require.NoError(t, f.service.AttachPaymentReference(ctx, reservation.ID, "c1", "TXN-123"))

	current, err := f.reservations.GetReservation(ctx, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, "TXN-123", current.PaymentReference)
	assert.Equal(t, domain.ReservationStatusPending, current.Status)

	err = f.service.AttachPaymentReference(ctx, reservation.ID, "c1", "TXN-456")
	assert.ErrorIs(t, err, domain.ErrPaymentReferenceSet)

	require.NoError(t, f.service.UpdateReservationStatus(ctx, reservation.ID, domain.ReservationStatusConfirmed))
	err = f.service.AttachPaymentReference(ctx, reservation.ID, "c1", "TXN-789")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestEndToEndReservationLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCustomer(t, "c1", "Alice")
	offering := f.seedOffering(t, "p1", 50, 10)

	// Live inbox for the customer.
	var inbox []*domain.AppNotification
	stop := f.notifications.SubscribeInbox("c1", func(notifications []*domain.AppNotification) {
		inbox = notifications
	})
	defer stop()

	reservation, err := f.service.CreateReservation(ctx, offering.ID, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusPending, reservation.Status)
	assert.Equal(t, 50.0, reservation.TotalPrice)

	updated, err := f.offerings.GetOffering(ctx, offering.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), updated.QuantityRemaining)

	require.NoError(t, f.service.UpdateReservationStatus(ctx, reservation.ID, domain.ReservationStatusConfirmed))
	require.Len(t, inbox, 1)
	assert.Equal(t, "Reservation confirmed", inbox[0].Title)

	require.NoError(t, f.service.UpdateReservationStatus(ctx, reservation.ID, domain.ReservationStatusCompleted))

	counts, revenue, err := f.service.Dashboard(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts[domain.ReservationStatusCompleted])
	assert.Equal(t, 50.0, revenue)

	// Provider got the creation notice.
	providerInbox, err := f.notifications.NotificationsByRecipient(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, providerInbox, 1)
	assert.Equal(t, "New reservation", providerInbox[0].Title)
}
