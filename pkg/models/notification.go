package models

import "time"

// NotificationType classifies notification events. SUBSCRIPTION is
// gated by the recipient's subscriptionActivity flag, COMMENT and REPLY
// by commentActivity; remaining types are delivered unconditionally.
type NotificationType string

const (
	NotificationSubscription NotificationType = "SUBSCRIPTION"
	NotificationComment      NotificationType = "COMMENT"
	NotificationReply        NotificationType = "REPLY"
	NotificationVideo        NotificationType = "VIDEO"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationSubscription, NotificationComment, NotificationReply, NotificationVideo:
		return true
	}
	return false
}

// Notification is a stored, pull-delivered notification record.
type Notification struct {
	ID          string           `json:"id" db:"id"`
	RecipientID string           `json:"recipient_id" db:"recipient_id"`
	SenderID    string           `json:"sender_id" db:"sender_id"`
	Type        NotificationType `json:"type" db:"type"`
	Content     string           `json:"content" db:"content"`
	Read        bool             `json:"read" db:"read"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

// NotificationResponse is a notification with the sender projection.
type NotificationResponse struct {
	Notification
	Sender UserProfile `json:"sender"`
}

// NotificationListResponse is the paginated notification payload with
// the unread badge count.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
	ListMeta
}
