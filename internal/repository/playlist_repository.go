package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vidhub/pkg/models"
	"vidhub/pkg/utils"
)

// PlaylistRepository handles playlists and their ordered membership.
// Membership lives in playlist_videos with a position column; UNIQUE
// (playlist_id, video_id) makes duplicates a storage-level conflict.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	GetByID(ctx context.Context, id string) (*models.Playlist, error)
	GetResponseByID(ctx context.Context, id string) (*models.PlaylistResponse, error)
	ListByOwner(ctx context.Context, ownerID string, publicOnly bool, page models.Page) ([]models.PlaylistResponse, int, error)
	Update(ctx context.Context, playlist *models.Playlist) error
	Delete(ctx context.Context, id string) error

	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
}

type playlistRepository struct {
	pool *pgxpool.Pool
}

// NewPlaylistRepository creates a PostgreSQL playlist repository.
func NewPlaylistRepository(pool *pgxpool.Pool) PlaylistRepository {
	return &playlistRepository{pool: pool}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	if playlist.ID == "" {
		playlist.ID = utils.NewPlaylistID()
	}

	query := `
		INSERT INTO playlists (id, owner_id, name, description, is_public)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		playlist.ID,
		playlist.OwnerID,
		playlist.Name,
		playlist.Description,
		playlist.IsPublic,
	).Scan(&playlist.CreatedAt, &playlist.UpdatedAt)

	if err != nil {
		return mapDBError(err, "create_playlist")
	}
	return nil
}

func (r *playlistRepository) GetByID(ctx context.Context, id string) (*models.Playlist, error) {
	return r.getByID(ctx, r.pool, id)
}

func (r *playlistRepository) getByID(ctx context.Context, q querier, id string) (*models.Playlist, error) {
	query := `
		SELECT id, owner_id, name, description, is_public, created_at, updated_at
		FROM playlists
		WHERE id = $1
	`
	playlist := &models.Playlist{}
	err := q.QueryRow(ctx, query, id).Scan(
		&playlist.ID,
		&playlist.OwnerID,
		&playlist.Name,
		&playlist.Description,
		&playlist.IsPublic,
		&playlist.CreatedAt,
		&playlist.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("playlist not found", models.ErrNotFound)
	}
	if err != nil {
		return nil, mapDBError(err, "get_playlist_by_id")
	}

	rows, err := q.Query(ctx,
		`SELECT video_id FROM playlist_videos WHERE playlist_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, mapDBError(err, "get_playlist_videos")
	}
	defer rows.Close()

	playlist.VideoIDs = []string{}
	for rows.Next() {
		var videoID string
		if err := rows.Scan(&videoID); err != nil {
			return nil, mapDBError(err, "scan_playlist_video")
		}
		playlist.VideoIDs = append(playlist.VideoIDs, videoID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err, "scan_playlist_videos")
	}
	return playlist, nil
}

// GetResponseByID returns the playlist with owner profile and video
// snapshots in playlist order.
func (r *playlistRepository) GetResponseByID(ctx context.Context, id string) (*models.PlaylistResponse, error) {
	playlist, err := r.getByID(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}

	resp := &models.PlaylistResponse{Playlist: *playlist}

	err = r.pool.QueryRow(ctx,
		`SELECT id, username, full_name, avatar_url FROM users WHERE id = $1`,
		playlist.OwnerID).Scan(
		&resp.Owner.ID,
		&resp.Owner.Username,
		&resp.Owner.FullName,
		&resp.Owner.Avatar,
	)
	if err != nil {
		return nil, mapDBError(err, "get_playlist_owner")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT v.id, v.title, v.thumbnail_id, v.thumbnail_url, v.duration, v.views, v.created_at
		FROM playlist_videos pv
		JOIN videos v ON v.id = pv.video_id
		WHERE pv.playlist_id = $1
		ORDER BY pv.position`, id)
	if err != nil {
		return nil, mapDBError(err, "get_playlist_video_snapshots")
	}
	defer rows.Close()

	resp.Videos = []models.PlaylistVideo{}
	for rows.Next() {
		var v models.PlaylistVideo
		err := rows.Scan(&v.ID, &v.Title, &v.Thumbnail.ID, &v.Thumbnail.URL, &v.Duration, &v.Views, &v.CreatedAt)
		if err != nil {
			return nil, mapDBError(err, "scan_playlist_snapshot")
		}
		resp.Videos = append(resp.Videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err, "scan_playlist_snapshots")
	}

	resp.VideoCount = len(resp.Videos)
	return resp, nil
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID string, publicOnly bool, page models.Page) ([]models.PlaylistResponse, int, error) {
	where := `p.owner_id = $1`
	if publicOnly {
		where += ` AND p.is_public = TRUE`
	}

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM playlists p WHERE `+where, ownerID).Scan(&total)
	if err != nil {
		return nil, 0, mapDBError(err, "count_playlists")
	}

	query := `
		SELECT p.id, p.owner_id, p.name, p.description, p.is_public, p.created_at, p.updated_at,
			u.id, u.username, u.full_name, u.avatar_url,
			(SELECT COUNT(*) FROM playlist_videos pv WHERE pv.playlist_id = p.id)
		FROM playlists p
		JOIN users u ON u.id = p.owner_id
		WHERE ` + where + `
		ORDER BY p.created_at DESC, p.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, ownerID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err, "list_playlists")
	}
	defer rows.Close()

	playlists := []models.PlaylistResponse{}
	for rows.Next() {
		var p models.PlaylistResponse
		err := rows.Scan(
			&p.ID,
			&p.OwnerID,
			&p.Name,
			&p.Description,
			&p.IsPublic,
			&p.CreatedAt,
			&p.UpdatedAt,
			&p.Owner.ID,
			&p.Owner.Username,
			&p.Owner.FullName,
			&p.Owner.Avatar,
			&p.VideoCount,
		)
		if err != nil {
			return nil, 0, mapDBError(err, "scan_playlist")
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err, "scan_playlists")
	}
	return playlists, total, nil
}

func (r *playlistRepository) Update(ctx context.Context, playlist *models.Playlist) error {
	query := `
		UPDATE playlists
		SET name = $2, description = $3, is_public = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		playlist.ID,
		playlist.Name,
		playlist.Description,
		playlist.IsPublic,
	).Scan(&playlist.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewNotFound("playlist not found", models.ErrNotFound)
	}
	if err != nil {
		return mapDBError(err, "update_playlist")
	}
	return nil
}

func (r *playlistRepository) Delete(ctx context.Context, id string) error {
	return withTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM playlist_videos WHERE playlist_id = $1`, id); err != nil {
			return mapDBError(err, "delete_playlist_videos")
		}
		tag, err := tx.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
		if err != nil {
			return mapDBError(err, "delete_playlist")
		}
		if tag.RowsAffected() == 0 {
			return models.NewNotFound("playlist not found", models.ErrNotFound)
		}
		return nil
	})
}

// AddVideo appends the video at the next position. A duplicate is a
// Conflict, not a silent no-op. The playlist row is locked while the
// position is computed so concurrent appends serialize instead of
// reading the same MAX(position).
func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID string) error {
	return withTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var locked string
		err := tx.QueryRow(ctx,
			`SELECT id FROM playlists WHERE id = $1 FOR UPDATE`, playlistID).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NewNotFound("playlist not found", models.ErrNotFound)
		}
		if err != nil {
			return mapDBError(err, "lock_playlist")
		}

		// A duplicate aborts the transaction, which is fine: the
		// Conflict is returned and withTransaction rolls back.
		_, err = tx.Exec(ctx, `
			INSERT INTO playlist_videos (playlist_id, video_id, position)
			VALUES ($1, $2, (
				SELECT COALESCE(MAX(position) + 1, 0)
				FROM playlist_videos WHERE playlist_id = $1
			))`,
			playlistID, videoID)
		if isUniqueViolation(err) {
			return models.NewConflict("video already in playlist", models.ErrAlreadyExists)
		}
		if err != nil {
			return mapDBError(err, "add_playlist_video")
		}

		_, err = tx.Exec(ctx,
			`UPDATE playlists SET updated_at = CURRENT_TIMESTAMP WHERE id = $1`, playlistID)
		if err != nil {
			return mapDBError(err, "touch_playlist")
		}
		return nil
	})
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`,
		playlistID, videoID)
	if err != nil {
		return mapDBError(err, "remove_playlist_video")
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound("video not in playlist", models.ErrNotFound)
	}

	_, err = r.pool.Exec(ctx,
		`UPDATE playlists SET updated_at = CURRENT_TIMESTAMP WHERE id = $1`, playlistID)
	if err != nil {
		return mapDBError(err, "touch_playlist")
	}
	return nil
}
