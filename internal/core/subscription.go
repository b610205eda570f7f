package core

import (
	"context"
	"fmt"

	"vidhub/internal/repository"
	"vidhub/pkg/models"
)

// SubscriptionService handles channel subscriptions.
type SubscriptionService interface {
	Subscribe(ctx context.Context, subscriberID, channelID string) (*models.Subscription, error)
	Unsubscribe(ctx context.Context, subscriberID, channelID string) error
	ListSubscribers(ctx context.Context, channelID string, page models.Page) (*models.SubscriberListResponse, error)
	ListSubscriptions(ctx context.Context, subscriberID string, page models.Page) (*models.SubscriptionListResponse, error)
}

type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	userRepo         repository.UserRepository
	notifications    NotificationService
}

// NewSubscriptionService creates the subscription service.
func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	notifications NotificationService,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		notifications:    notifications,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, subscriberID, channelID string) (*models.Subscription, error) {
	if subscriberID == channelID {
		return nil, models.NewInvalidInput("cannot subscribe to your own channel")
	}

	channel, err := s.userRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	sub := &models.Subscription{
		SubscriberID: subscriberID,
		ChannelID:    channelID,
	}
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	subscriber, err := s.userRepo.GetByID(ctx, subscriberID)
	if err == nil {
		s.notifications.Notify(ctx, channel.ID, subscriberID, models.NotificationSubscription,
			fmt.Sprintf("%s subscribed to your channel", subscriber.Username))
	}

	return sub, nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, subscriberID, channelID string) error {
	return s.subscriptionRepo.Delete(ctx, subscriberID, channelID)
}

func (s *subscriptionService) ListSubscribers(ctx context.Context, channelID string, page models.Page) (*models.SubscriberListResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		return nil, err
	}

	subscribers, total, err := s.subscriptionRepo.ListSubscribers(ctx, channelID, page)
	if err != nil {
		return nil, err
	}
	return &models.SubscriberListResponse{
		Subscribers: subscribers,
		ListMeta:    models.NewListMeta(total, page.Number, page.Size),
	}, nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, subscriberID string, page models.Page) (*models.SubscriptionListResponse, error) {
	subscriptions, total, err := s.subscriptionRepo.ListSubscriptions(ctx, subscriberID, page)
	if err != nil {
		return nil, err
	}
	return &models.SubscriptionListResponse{
		Subscriptions: subscriptions,
		ListMeta:      models.NewListMeta(total, page.Number, page.Size),
	}, nil
}
