package core

import (
	"context"

	"vidhub/internal/repository"
	"vidhub/pkg/models"
)

// LikeService handles the polymorphic like toggle and its read sides.
type LikeService interface {
	// Toggle likes the target if unliked and unlikes it otherwise,
	// reporting the resulting state.
	Toggle(ctx context.Context, userID string, target models.LikeTarget) (models.ToggleResult, error)
	ListLikedVideos(ctx context.Context, userID string, page models.Page) (*models.LikedVideoListResponse, error)
	ListLikers(ctx context.Context, target models.LikeTarget, page models.Page) (*models.LikerListResponse, error)
}

type likeService struct {
	likeRepo    repository.LikeRepository
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
}

// NewLikeService creates the like service.
func NewLikeService(
	likeRepo repository.LikeRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
) LikeService {
	return &likeService{
		likeRepo:    likeRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
	}
}

// resolveTarget verifies the target exists before any like row is
// written, so likes never dangle.
func (s *likeService) resolveTarget(ctx context.Context, target models.LikeTarget) error {
	if target.ID == "" {
		return models.NewInvalidInput("like target id is required")
	}
	switch target.Kind {
	case models.LikeTargetVideo:
		_, err := s.videoRepo.GetByID(ctx, target.ID)
		return err
	case models.LikeTargetComment:
		_, err := s.commentRepo.GetByID(ctx, target.ID)
		return err
	default:
		return models.NewInvalidInput("unknown like target kind")
	}
}

func (s *likeService) Toggle(ctx context.Context, userID string, target models.LikeTarget) (models.ToggleResult, error) {
	if err := s.resolveTarget(ctx, target); err != nil {
		return models.ToggleResult{}, err
	}
	return s.likeRepo.Toggle(ctx, target, userID)
}

func (s *likeService) ListLikedVideos(ctx context.Context, userID string, page models.Page) (*models.LikedVideoListResponse, error) {
	liked, total, err := s.likeRepo.ListLikedVideos(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return &models.LikedVideoListResponse{
		LikedVideos: liked,
		TotalCount:  total,
	}, nil
}

func (s *likeService) ListLikers(ctx context.Context, target models.LikeTarget, page models.Page) (*models.LikerListResponse, error) {
	if err := s.resolveTarget(ctx, target); err != nil {
		return nil, err
	}

	likers, total, err := s.likeRepo.ListLikers(ctx, target, page)
	if err != nil {
		return nil, err
	}
	return &models.LikerListResponse{
		Likes:      likers,
		TotalCount: total,
	}, nil
}
