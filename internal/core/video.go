package core

import (
	"context"
	"fmt"
	"net/url"

	"vidhub/internal/repository"
	"vidhub/pkg/blob"
	"vidhub/pkg/cache"
	"vidhub/pkg/logger"
	"vidhub/pkg/models"
	"vidhub/pkg/utils"
)

// VideoDetailCache is the read-side cache contract for video detail
// documents. A nil cache disables caching.
type VideoDetailCache interface {
	Get(ctx context.Context, videoID string) (*models.VideoResponse, error)
	Set(ctx context.Context, resp *models.VideoResponse) error
	Invalidate(ctx context.Context, videoID string) error
}

// VideoService handles the video lifecycle: upload with blob
// compensation, the feed read path, counters and publish state.
type VideoService interface {
	Publish(ctx context.Context, ownerID string, req models.PublishVideoRequest, videoPath, thumbnailPath string, duration float64) (*models.VideoResponse, error)
	// Get returns a visible video, bumping its view counter and
	// recording watch history for authenticated viewers.
	Get(ctx context.Context, viewerID, videoID string) (*models.VideoResponse, error)
	List(ctx context.Context, viewerID string, q models.FeedQuery) (*models.VideoListResponse, error)
	Update(ctx context.Context, ownerID, videoID string, req models.UpdateVideoRequest, thumbnailPath string) (*models.VideoResponse, error)
	Delete(ctx context.Context, ownerID, videoID string) error
	TogglePublish(ctx context.Context, ownerID, videoID string) (*models.Video, error)
	// Share builds per-platform share links and bumps the counter.
	Share(ctx context.Context, viewerID, videoID string) (*models.ShareResponse, error)
	WatchHistory(ctx context.Context, userID string, page models.Page) (*models.VideoListResponse, error)
}

type videoService struct {
	videoRepo     repository.VideoRepository
	userRepo      repository.UserRepository
	blobs         blob.Store
	cache         VideoDetailCache
	notifications NotificationService
	baseURL       string
}

// NewVideoService creates the video service. detailCache may be nil.
func NewVideoService(
	videoRepo repository.VideoRepository,
	userRepo repository.UserRepository,
	blobs blob.Store,
	detailCache VideoDetailCache,
	notifications NotificationService,
	baseURL string,
) VideoService {
	return &videoService{
		videoRepo:     videoRepo,
		userRepo:      userRepo,
		blobs:         blobs,
		cache:         detailCache,
		notifications: notifications,
		baseURL:       baseURL,
	}
}

func (s *videoService) Publish(ctx context.Context, ownerID string, req models.PublishVideoRequest, videoPath, thumbnailPath string, duration float64) (*models.VideoResponse, error) {
	if err := validateTitleInput(req.Title); err != nil {
		return nil, err
	}
	if videoPath == "" {
		return nil, models.NewInvalidInput("video file is required")
	}
	if thumbnailPath == "" {
		return nil, models.NewInvalidInput("thumbnail file is required")
	}

	videoFile, err := s.blobs.Upload(ctx, videoPath, "videos", "video/mp4")
	if err != nil {
		return nil, models.NewInternal("upload video file", err)
	}

	thumbnail, err := s.blobs.Upload(ctx, thumbnailPath, "thumbnails", "")
	if err != nil {
		// The video blob must not outlive a failed upload pair.
		s.deleteBlob(videoFile)
		return nil, models.NewInternal("upload thumbnail", err)
	}

	video := &models.Video{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
		Duration:    duration,
		IsPublished: true,
		Category:    req.Category,
		Tags:        req.Tags,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		s.deleteBlob(videoFile)
		s.deleteBlob(thumbnail)
		return nil, err
	}

	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	s.announceToSubscribers(owner, video)

	return &models.VideoResponse{
		Video: *video,
		Owner: owner.Profile(),
	}, nil
}

// announceToSubscribers fans a VIDEO notification out to the owner's
// subscribers without blocking the publish response.
func (s *videoService) announceToSubscribers(owner *models.User, video *models.Video) {
	go func() {
		ctx, cancel := detachedContext()
		defer cancel()
		s.notifications.FanOutToSubscribers(ctx, owner.ID, models.NotificationVideo,
			fmt.Sprintf("%s uploaded a new video: %s", owner.Username, video.Title))
	}()
}

func (s *videoService) deleteBlob(ref models.MediaRef) {
	if ref.ID == "" {
		return
	}
	ctx, cancel := detachedContext()
	defer cancel()
	if err := s.blobs.Delete(ctx, ref.ID); err != nil {
		logger.Warnf("orphaned blob %s: %v", ref.ID, err)
	}
}

func (s *videoService) Get(ctx context.Context, viewerID, videoID string) (*models.VideoResponse, error) {
	resp := s.cachedDetail(ctx, videoID)
	if resp == nil {
		var err error
		resp, err = s.videoRepo.GetResponseByID(ctx, videoID)
		if err != nil {
			return nil, err
		}
		s.fillCache(ctx, resp)
	}

	// Unpublished videos read as absent to everyone but their owner.
	if !resp.IsPublished && resp.OwnerID != viewerID {
		return nil, models.NewNotFound("video not found", models.ErrVideoNotFound)
	}

	if err := s.videoRepo.IncrementViews(ctx, videoID); err != nil {
		return nil, err
	}
	resp.Views++

	if viewerID != "" {
		if err := s.userRepo.AddWatchHistory(ctx, viewerID, videoID); err != nil {
			logger.Warnf("watch history for user %s video %s: %v", viewerID, videoID, err)
		}
	}

	return resp, nil
}

func (s *videoService) cachedDetail(ctx context.Context, videoID string) *models.VideoResponse {
	if s.cache == nil {
		return nil
	}
	resp, err := s.cache.Get(ctx, videoID)
	if err != nil {
		if err != cache.ErrMiss {
			logger.Warnf("video cache read %s: %v", videoID, err)
		}
		return nil
	}
	return resp
}

func (s *videoService) fillCache(ctx context.Context, resp *models.VideoResponse) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, resp); err != nil {
		logger.Warnf("video cache write %s: %v", resp.ID, err)
	}
}

func (s *videoService) invalidateCache(ctx context.Context, videoID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, videoID); err != nil {
		logger.Warnf("video cache invalidate %s: %v", videoID, err)
	}
}

// List runs the feed query. Unpublished videos are only included when
// the viewer asks for their own uploads.
func (s *videoService) List(ctx context.Context, viewerID string, q models.FeedQuery) (*models.VideoListResponse, error) {
	if q.IncludeUnpublished && (q.OwnerID == "" || q.OwnerID != viewerID) {
		q.IncludeUnpublished = false
	}

	videos, total, err := s.videoRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &models.VideoListResponse{
		Videos:   videos,
		ListMeta: models.NewListMeta(total, q.Page.Number, q.Page.Size),
	}, nil
}

func (s *videoService) Update(ctx context.Context, ownerID, videoID string, req models.UpdateVideoRequest, thumbnailPath string) (*models.VideoResponse, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != ownerID {
		return nil, models.NewNotFound("video not found", models.ErrVideoNotFound)
	}

	if req.Title != nil {
		if err := validateTitleInput(*req.Title); err != nil {
			return nil, err
		}
		video.Title = *req.Title
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	if req.Category != nil {
		video.Category = *req.Category
	}
	if req.Tags != nil {
		video.Tags = req.Tags
	}

	var oldThumbnail models.MediaRef
	if thumbnailPath != "" {
		thumbnail, err := s.blobs.Upload(ctx, thumbnailPath, "thumbnails", "")
		if err != nil {
			return nil, models.NewInternal("upload thumbnail", err)
		}
		oldThumbnail = video.Thumbnail
		video.Thumbnail = thumbnail
	}

	if err := s.videoRepo.Update(ctx, video); err != nil {
		if thumbnailPath != "" {
			s.deleteBlob(video.Thumbnail)
		}
		return nil, err
	}
	s.deleteBlob(oldThumbnail)
	s.invalidateCache(ctx, videoID)

	if req.IsPublished != nil && *req.IsPublished != video.IsPublished {
		updated, err := s.setPublished(ctx, video, *req.IsPublished)
		if err != nil {
			return nil, err
		}
		video = updated
	}

	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &models.VideoResponse{
		Video: *video,
		Owner: owner.Profile(),
	}, nil
}

func (s *videoService) Delete(ctx context.Context, ownerID, videoID string) error {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	if video.OwnerID != ownerID {
		return models.NewNotFound("video not found", models.ErrVideoNotFound)
	}

	deleted, err := s.videoRepo.Delete(ctx, videoID)
	if err != nil {
		return err
	}

	s.deleteBlob(deleted.VideoFile)
	s.deleteBlob(deleted.Thumbnail)
	s.invalidateCache(ctx, videoID)
	return nil
}

func (s *videoService) TogglePublish(ctx context.Context, ownerID, videoID string) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != ownerID {
		return nil, models.NewNotFound("video not found", models.ErrVideoNotFound)
	}
	return s.setPublished(ctx, video, !video.IsPublished)
}

func (s *videoService) setPublished(ctx context.Context, video *models.Video, published bool) (*models.Video, error) {
	wasPublished := video.IsPublished

	updated, err := s.videoRepo.SetPublished(ctx, video.ID, published)
	if err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, video.ID)

	if published && !wasPublished {
		owner, err := s.userRepo.GetByID(ctx, updated.OwnerID)
		if err == nil {
			s.announceToSubscribers(owner, updated)
		}
	}
	return updated, nil
}

// sharePlatforms maps platform names to their share URL templates.
var sharePlatforms = map[string]string{
	"facebook": "https://www.facebook.com/sharer/sharer.php?u=%s",
	"x":        "https://twitter.com/intent/tweet?url=%s",
	"whatsapp": "https://wa.me/?text=%s",
	"telegram": "https://t.me/share/url?url=%s",
}

func (s *videoService) Share(ctx context.Context, viewerID, videoID string) (*models.ShareResponse, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, models.NewNotFound("video not found", models.ErrVideoNotFound)
	}

	if err := s.videoRepo.IncrementShares(ctx, videoID); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, videoID)

	watchURL := fmt.Sprintf("%s/watch/%s", s.baseURL, video.ID)
	links := models.ShareLinks{"direct": watchURL}
	for platform, template := range sharePlatforms {
		links[platform] = fmt.Sprintf(template, url.QueryEscape(watchURL))
	}

	return &models.ShareResponse{
		VideoID:    video.ID,
		VideoTitle: video.Title,
		Thumbnail:  video.Thumbnail,
		ShareLinks: links,
	}, nil
}

func (s *videoService) WatchHistory(ctx context.Context, userID string, page models.Page) (*models.VideoListResponse, error) {
	videos, total, err := s.userRepo.ListWatchHistory(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return &models.VideoListResponse{
		Videos:   videos,
		ListMeta: models.NewListMeta(total, page.Number, page.Size),
	}, nil
}

func validateTitleInput(title string) error {
	if err := utils.ValidateTitle(title); err != nil {
		return models.NewInvalidInput("title must be 1-255 characters")
	}
	return nil
}
