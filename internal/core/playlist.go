package core

import (
	"context"

	"vidhub/internal/repository"
	"vidhub/pkg/models"
	"vidhub/pkg/utils"
)

// PlaylistService handles playlists and their ordered membership.
// Private playlists are visible only to their owner; this is the one
// place where a denial reads as Forbidden rather than absence, since
// playlist links are shared deliberately.
type PlaylistService interface {
	Create(ctx context.Context, ownerID string, req models.CreatePlaylistRequest) (*models.PlaylistResponse, error)
	Get(ctx context.Context, viewerID, playlistID string) (*models.PlaylistResponse, error)
	ListByUser(ctx context.Context, viewerID, userID string, page models.Page) ([]models.PlaylistResponse, models.ListMeta, error)
	Update(ctx context.Context, ownerID, playlistID string, req models.UpdatePlaylistRequest) (*models.PlaylistResponse, error)
	Delete(ctx context.Context, ownerID, playlistID string) error

	AddVideo(ctx context.Context, ownerID, playlistID, videoID string) (*models.PlaylistResponse, error)
	RemoveVideo(ctx context.Context, ownerID, playlistID, videoID string) (*models.PlaylistResponse, error)
}

type playlistService struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    repository.VideoRepository
}

// NewPlaylistService creates the playlist service.
func NewPlaylistService(playlistRepo repository.PlaylistRepository, videoRepo repository.VideoRepository) PlaylistService {
	return &playlistService{
		playlistRepo: playlistRepo,
		videoRepo:    videoRepo,
	}
}

func (s *playlistService) Create(ctx context.Context, ownerID string, req models.CreatePlaylistRequest) (*models.PlaylistResponse, error) {
	if err := utils.ValidateTitle(req.Name); err != nil {
		return nil, models.NewInvalidInput("playlist name must be 1-255 characters")
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	playlist := &models.Playlist{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    isPublic,
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return s.playlistRepo.GetResponseByID(ctx, playlist.ID)
}

func (s *playlistService) Get(ctx context.Context, viewerID, playlistID string) (*models.PlaylistResponse, error) {
	resp, err := s.playlistRepo.GetResponseByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if !resp.IsPublic && resp.OwnerID != viewerID {
		return nil, models.NewForbidden("this playlist is private")
	}
	return resp, nil
}

// ListByUser lists a user's playlists; anyone but the owner sees only
// public ones.
func (s *playlistService) ListByUser(ctx context.Context, viewerID, userID string, page models.Page) ([]models.PlaylistResponse, models.ListMeta, error) {
	publicOnly := viewerID != userID
	playlists, total, err := s.playlistRepo.ListByOwner(ctx, userID, publicOnly, page)
	if err != nil {
		return nil, models.ListMeta{}, err
	}
	return playlists, models.NewListMeta(total, page.Number, page.Size), nil
}

// ownedPlaylist loads the playlist and hides it from non-owners.
func (s *playlistService) ownedPlaylist(ctx context.Context, ownerID, playlistID string) (*models.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.OwnerID != ownerID {
		return nil, models.NewNotFound("playlist not found", models.ErrNotFound)
	}
	return playlist, nil
}

func (s *playlistService) Update(ctx context.Context, ownerID, playlistID string, req models.UpdatePlaylistRequest) (*models.PlaylistResponse, error) {
	playlist, err := s.ownedPlaylist(ctx, ownerID, playlistID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := utils.ValidateTitle(*req.Name); err != nil {
			return nil, models.NewInvalidInput("playlist name must be 1-255 characters")
		}
		playlist.Name = *req.Name
	}
	if req.Description != nil {
		playlist.Description = *req.Description
	}
	if req.IsPublic != nil {
		playlist.IsPublic = *req.IsPublic
	}

	if err := s.playlistRepo.Update(ctx, playlist); err != nil {
		return nil, err
	}
	return s.playlistRepo.GetResponseByID(ctx, playlistID)
}

func (s *playlistService) Delete(ctx context.Context, ownerID, playlistID string) error {
	if _, err := s.ownedPlaylist(ctx, ownerID, playlistID); err != nil {
		return err
	}
	return s.playlistRepo.Delete(ctx, playlistID)
}

// AddVideo appends a video to the playlist. A video already present is
// a Conflict, not a silent success.
func (s *playlistService) AddVideo(ctx context.Context, ownerID, playlistID, videoID string) (*models.PlaylistResponse, error) {
	if _, err := s.ownedPlaylist(ctx, ownerID, playlistID); err != nil {
		return nil, err
	}
	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	if err := s.playlistRepo.AddVideo(ctx, playlistID, videoID); err != nil {
		return nil, err
	}
	return s.playlistRepo.GetResponseByID(ctx, playlistID)
}

func (s *playlistService) RemoveVideo(ctx context.Context, ownerID, playlistID, videoID string) (*models.PlaylistResponse, error) {
	if _, err := s.ownedPlaylist(ctx, ownerID, playlistID); err != nil {
		return nil, err
	}

	if err := s.playlistRepo.RemoveVideo(ctx, playlistID, videoID); err != nil {
		return nil, err
	}
	return s.playlistRepo.GetResponseByID(ctx, playlistID)
}
