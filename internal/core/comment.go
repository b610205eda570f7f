package core

import (
	"context"
	"fmt"
	"strings"

	"vidhub/internal/repository"
	"vidhub/pkg/models"
)

// CommentService handles the single-level comment thread under each
// video. Replies to replies are rejected; deleting a top-level comment
// removes its replies in the same transaction.
type CommentService interface {
	Add(ctx context.Context, userID, videoID string, req models.AddCommentRequest) (*models.CommentResponse, error)
	Update(ctx context.Context, userID, commentID string, req models.UpdateCommentRequest) (*models.CommentResponse, error)
	Delete(ctx context.Context, userID, commentID string) error

	ListByVideo(ctx context.Context, videoID string, page models.Page) (*models.CommentListResponse, error)
	ListReplies(ctx context.Context, commentID string, page models.Page) (*models.CommentListResponse, error)
}

type commentService struct {
	commentRepo   repository.CommentRepository
	videoRepo     repository.VideoRepository
	userRepo      repository.UserRepository
	notifications NotificationService
}

// NewCommentService creates the comment service.
func NewCommentService(
	commentRepo repository.CommentRepository,
	videoRepo repository.VideoRepository,
	userRepo repository.UserRepository,
	notifications NotificationService,
) CommentService {
	return &commentService{
		commentRepo:   commentRepo,
		videoRepo:     videoRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

func validateContent(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return models.NewInvalidInput("comment content is required")
	}
	if len(content) > models.MaxCommentLength {
		return models.NewInvalidInput(fmt.Sprintf("comment content exceeds %d characters", models.MaxCommentLength))
	}
	return nil
}

func (s *commentService) Add(ctx context.Context, userID, videoID string, req models.AddCommentRequest) (*models.CommentResponse, error) {
	if err := validateContent(req.Content); err != nil {
		return nil, err
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	var parent *models.Comment
	if req.ParentCommentID != "" {
		parent, err = s.commentRepo.GetByID(ctx, req.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.VideoID != videoID {
			return nil, models.NewInvalidInput("parent comment belongs to a different video")
		}
		if parent.ParentID != "" {
			return nil, models.NewInvalidInput("cannot reply to a reply")
		}
	}

	comment := &models.Comment{
		VideoID:  videoID,
		OwnerID:  userID,
		Content:  req.Content,
		ParentID: req.ParentCommentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if parent != nil {
		s.notifications.Notify(ctx, parent.OwnerID, userID, models.NotificationReply,
			fmt.Sprintf("%s replied to your comment", author.Username))
	} else {
		s.notifications.Notify(ctx, video.OwnerID, userID, models.NotificationComment,
			fmt.Sprintf("%s commented on your video %q", author.Username, video.Title))
	}

	return &models.CommentResponse{
		Comment: *comment,
		Owner:   author.Profile(),
	}, nil
}

func (s *commentService) Update(ctx context.Context, userID, commentID string, req models.UpdateCommentRequest) (*models.CommentResponse, error) {
	if err := validateContent(req.Content); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.OwnerID != userID {
		// Ownership failures read as absence.
		return nil, models.NewNotFound("comment not found", models.ErrNotFound)
	}

	updated, err := s.commentRepo.UpdateContent(ctx, commentID, req.Content)
	if err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.CommentResponse{
		Comment: *updated,
		Owner:   owner.Profile(),
	}, nil
}

func (s *commentService) Delete(ctx context.Context, userID, commentID string) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.OwnerID != userID {
		return models.NewNotFound("comment not found", models.ErrNotFound)
	}
	return s.commentRepo.DeleteCascade(ctx, commentID)
}

func (s *commentService) ListByVideo(ctx context.Context, videoID string, page models.Page) (*models.CommentListResponse, error) {
	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.ListByVideo(ctx, videoID, page)
	if err != nil {
		return nil, err
	}
	return &models.CommentListResponse{
		Comments: comments,
		ListMeta: models.NewListMeta(total, page.Number, page.Size),
	}, nil
}

func (s *commentService) ListReplies(ctx context.Context, commentID string, page models.Page) (*models.CommentListResponse, error) {
	parent, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if parent.ParentID != "" {
		return nil, models.NewInvalidInput("replies can only be listed for top-level comments")
	}

	replies, total, err := s.commentRepo.ListReplies(ctx, commentID, page)
	if err != nil {
		return nil, err
	}
	return &models.CommentListResponse{
		Comments: replies,
		ListMeta: models.NewListMeta(total, page.Number, page.Size),
	}, nil
}
