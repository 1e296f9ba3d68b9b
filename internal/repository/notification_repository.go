package repository

import (
	"context"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/docstore"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
)

type NotificationRepository struct {
	store *docstore.Store
}

func NewNotificationRepository(store *docstore.Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, notification *domain.AppNotification) (string, error) {
	doc, err := encodeDoc(notification)
	if err != nil {
		return "", err
	}
	delete(doc, "id")
	id, err := r.store.AddDoc(ctx, docstore.Collection(NotificationsCollection), doc)
	if err != nil {
		return "", err
	}
	notification.ID = id
	return id, nil
}

// NotificationsByRecipient lists the inbox, newest first.
func (r *NotificationRepository) NotificationsByRecipient(ctx context.Context, recipientID string) ([]*domain.AppNotification, error) {
	result, err := r.store.GetDocs(ctx, r.inboxQuery(recipientID))
	if err != nil {
		return nil, err
	}
	return decodeNotifications(result)
}

// MarkRead flips read false to true. It never reverts.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	ref, err := docstore.Doc(NotificationsCollection, id)
	if err != nil {
		return err
	}
	return r.store.UpdateDoc(ctx, ref, docstore.Document{"read": true})
}

// SubscribeInbox delivers the recipient's full inbox to the handler now and
// again after every store mutation. The returned stop function is idempotent.
func (r *NotificationRepository) SubscribeInbox(recipientID string, handler func([]*domain.AppNotification)) func() {
	return r.store.Subscribe(r.inboxQuery(recipientID), func(result docstore.QueryResult) {
		notifications, err := decodeNotifications(result)
		if err != nil {
			return
		}
		handler(notifications)
	})
}

func (r *NotificationRepository) inboxQuery(recipientID string) docstore.QueryRef {
	return docstore.NewQuery(docstore.Collection(NotificationsCollection),
		docstore.Where("recipientId", "==", recipientID),
		docstore.OrderBy("createdAt", docstore.Desc),
	)
}

func decodeNotifications(result docstore.QueryResult) ([]*domain.AppNotification, error) {
	notifications := make([]*domain.AppNotification, 0, result.Count)
	for _, snap := range result.Docs {
		notification := &domain.AppNotification{}
		if err := decodeDoc(snap.Data, notification); err != nil {
			return nil, err
		}
		notification.ID = snap.ID
		notifications = append(notifications, notification)
	}
	return notifications, nil
}
