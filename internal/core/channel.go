package core

import (
	"context"

	"vidhub/internal/repository"
	"vidhub/pkg/models"
	"vidhub/pkg/utils"
)

// ChannelService handles the public channel surface and the owner's
// channel settings. Channel views never expose email, credentials,
// preferences or watch history.
type ChannelService interface {
	// GetChannel resolves a channel page by username, with subscriber
	// stats relative to the viewer.
	GetChannel(ctx context.Context, viewerID, username string) (*models.ChannelInfo, error)
	UpdateChannelInfo(ctx context.Context, userID string, req models.UpdateChannelRequest) (*models.ChannelProfile, error)
	GetNotificationSettings(ctx context.Context, userID string) (models.NotificationSettings, error)
	UpdateNotificationSettings(ctx context.Context, userID string, req models.UpdateNotificationSettingsRequest) (models.NotificationSettings, error)
	// ChannelVideos lists a channel's uploads; unpublished ones appear
	// only for the owner.
	ChannelVideos(ctx context.Context, viewerID, channelID string, page models.Page) (*models.VideoListResponse, error)
}

type channelService struct {
	userRepo         repository.UserRepository
	subscriptionRepo repository.SubscriptionRepository
	videos           VideoService
}

// NewChannelService creates the channel service.
func NewChannelService(
	userRepo repository.UserRepository,
	subscriptionRepo repository.SubscriptionRepository,
	videos VideoService,
) ChannelService {
	return &channelService{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		videos:           videos,
	}
}

func (s *channelService) GetChannel(ctx context.Context, viewerID, username string) (*models.ChannelInfo, error) {
	user, err := s.userRepo.GetByUsername(ctx, utils.NormalizeUsername(username))
	if err != nil {
		return nil, err
	}

	count, err := s.subscriptionRepo.CountSubscribers(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	subscribed := false
	if viewerID != "" && viewerID != user.ID {
		subscribed, err = s.subscriptionRepo.Exists(ctx, viewerID, user.ID)
		if err != nil {
			return nil, err
		}
	}

	return &models.ChannelInfo{
		ChannelProfile:  user.Channel(),
		SubscriberCount: count,
		IsSubscribed:    subscribed,
	}, nil
}

func (s *channelService) UpdateChannelInfo(ctx context.Context, userID string, req models.UpdateChannelRequest) (*models.ChannelProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.ChannelDescription != nil {
		user.ChannelDescription = *req.ChannelDescription
	}
	if req.ChannelTags != nil {
		user.ChannelTags = req.ChannelTags
	}
	if req.SocialLinks != nil {
		user.SocialLinks = *req.SocialLinks
	}

	if err := s.userRepo.UpdateChannel(ctx, user); err != nil {
		return nil, err
	}

	profile := user.Channel()
	return &profile, nil
}

func (s *channelService) GetNotificationSettings(ctx context.Context, userID string) (models.NotificationSettings, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return models.NotificationSettings{}, err
	}
	return user.Notifications, nil
}

func (s *channelService) UpdateNotificationSettings(ctx context.Context, userID string, req models.UpdateNotificationSettingsRequest) (models.NotificationSettings, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return models.NotificationSettings{}, err
	}

	settings, changed := req.Patch(user.Notifications)
	if !changed {
		return user.Notifications, nil
	}

	if err := s.userRepo.UpdateNotificationSettings(ctx, userID, settings); err != nil {
		return models.NotificationSettings{}, err
	}
	return settings, nil
}

func (s *channelService) ChannelVideos(ctx context.Context, viewerID, channelID string, page models.Page) (*models.VideoListResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		return nil, err
	}

	q := models.FeedQuery{
		OwnerID:            channelID,
		IncludeUnpublished: viewerID == channelID,
		Page:               page,
	}
	return s.videos.List(ctx, viewerID, q)
}
