package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/messaging"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/repository"
)

// NotificationService writes inbox notifications and, when a broker is
// configured, fans them out as events. Fan-out failures are logged and never
// fail the write they accompany.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	publisher        *messaging.Publisher
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, publisher *messaging.Publisher) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
	}
}

func (s *NotificationService) Notify(ctx context.Context, recipientID, title, body string, notificationType domain.NotificationType, link string) error {
	notification := &domain.AppNotification{
		RecipientID: recipientID,
		Title:       title,
		Body:        body,
		Type:        notificationType,
		Read:        false,
		CreatedAt:   time.Now(),
		Link:        link,
	}

	id, err := s.notificationRepo.CreateNotification(ctx, notification)
	if err != nil {
		return fmt.Errorf("notification create error: %v", err)
	}

	if s.publisher != nil {
		event := messaging.NotificationEvent{
			NotificationID: id,
			RecipientID:    recipientID,
			Type:           notificationType,
			Title:          title,
			Body:           body,
			Link:           link,
		}
		if err := s.publisher.PublishNotificationEvent(event); err != nil {
			log.Printf("Notification fan-out failed: %v", err)
		}
	}

	return nil
}

func (s *NotificationService) Inbox(ctx context.Context, recipientID string) ([]*domain.AppNotification, error) {
	return s.notificationRepo.NotificationsByRecipient(ctx, recipientID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.notificationRepo.MarkRead(ctx, id)
}

// SubscribeInbox wires a live inbox: the handler receives the recipient's
// full notification list now and after every store mutation.
func (s *NotificationService) SubscribeInbox(recipientID string, handler func([]*domain.AppNotification)) func() {
	return s.notificationRepo.SubscribeInbox(recipientID, handler)
}
