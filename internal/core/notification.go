package core

import (
	"context"

	"vidhub/internal/repository"
	"vidhub/pkg/logger"
	"vidhub/pkg/models"
	"vidhub/pkg/utils"
)

// NotificationService handles gated notification fan-out and the
// pull-delivery inbox. Delivery is best-effort: a failed notification
// never fails the mutation that triggered it.
type NotificationService interface {
	// Notify creates one notification if the recipient's preferences
	// allow the type. Self-notifications are dropped. Errors are
	// swallowed and logged.
	Notify(ctx context.Context, recipientID, senderID string, t models.NotificationType, content string)
	// FanOutToSubscribers notifies every subscriber of a channel.
	FanOutToSubscribers(ctx context.Context, channelID string, t models.NotificationType, content string)

	List(ctx context.Context, recipientID string, unreadOnly bool, page models.Page) (*models.NotificationListResponse, error)
	MarkRead(ctx context.Context, recipientID, notificationID string) error
	MarkAllRead(ctx context.Context, recipientID string) (int, error)
	Delete(ctx context.Context, recipientID, notificationID string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	subscriptionRepo repository.SubscriptionRepository
	userRepo         repository.UserRepository
}

// NewNotificationService creates the notification service.
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	subscriptionRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
	}
}

// allowed applies the recipient's preference flags to the type.
func allowed(s models.NotificationSettings, t models.NotificationType) bool {
	switch t {
	case models.NotificationSubscription:
		return s.SubscriptionActivity
	case models.NotificationComment, models.NotificationReply:
		return s.CommentActivity
	default:
		return true
	}
}

func (s *notificationService) Notify(ctx context.Context, recipientID, senderID string, t models.NotificationType, content string) {
	if recipientID == "" || recipientID == senderID {
		return
	}
	if !t.Valid() {
		logger.Warnf("dropping notification with unknown type %q", t)
		return
	}

	recipient, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		logger.Warnf("notification recipient %s lookup failed: %v", recipientID, err)
		return
	}
	if !allowed(recipient.Notifications, t) {
		return
	}

	n := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        t,
		Content:     content,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		logger.Warnf("notification delivery to %s failed: %v", recipientID, err)
	}
}

// FanOutToSubscribers runs the per-recipient gate for every subscriber.
// Intended to be called from a goroutine with a detached context.
func (s *notificationService) FanOutToSubscribers(ctx context.Context, channelID string, t models.NotificationType, content string) {
	ids, err := s.subscriptionRepo.ListSubscriberIDs(ctx, channelID)
	if err != nil {
		logger.Warnf("subscriber fan-out for channel %s failed: %v", channelID, err)
		return
	}
	for _, id := range ids {
		s.Notify(ctx, id, channelID, t, content)
	}
}

func (s *notificationService) List(ctx context.Context, recipientID string, unreadOnly bool, page models.Page) (*models.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.ListByRecipient(ctx, recipientID, unreadOnly, page)
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.UnreadCount(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	return &models.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
		ListMeta:      models.NewListMeta(total, page.Number, page.Size),
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, recipientID, notificationID string) error {
	return s.notificationRepo.MarkRead(ctx, notificationID, recipientID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	return s.notificationRepo.MarkAllRead(ctx, recipientID)
}

func (s *notificationService) Delete(ctx context.Context, recipientID, notificationID string) error {
	return s.notificationRepo.Delete(ctx, notificationID, recipientID)
}

// detachedContext returns a background context bounded by the default
// timeout, for fan-out that must outlive the originating request.
func detachedContext() (context.Context, context.CancelFunc) {
	return utils.WithTimeout(context.Background())
}
