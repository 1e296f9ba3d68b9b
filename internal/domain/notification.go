package domain

import "time"

type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
)

// AppNotification is created only by the protocol layer as a side effect of
// a state change. Read flips false to true exactly once and never reverts.
type AppNotification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipientId"`
	Title       string           `json:"title"`
	Body        string           `json:"body"`
	Type        NotificationType `json:"type"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"createdAt"`
	Link        string           `json:"link,omitempty"`
}
