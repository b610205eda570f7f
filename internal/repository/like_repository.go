package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vidhub/pkg/models"
	"vidhub/pkg/utils"
)

// LikeRepository handles the polymorphic like rows. The storage layer
// enforces UNIQUE (target_kind, target_id, liked_by); the video like
// counter is adjusted in the same transaction as the row change.
type LikeRepository interface {
	// Toggle flips the like state and reports the state afterwards.
	Toggle(ctx context.Context, target models.LikeTarget, userID string) (models.ToggleResult, error)
	CountForTarget(ctx context.Context, target models.LikeTarget) (int, error)
	IsLiked(ctx context.Context, target models.LikeTarget, userID string) (bool, error)
	ListLikers(ctx context.Context, target models.LikeTarget, page models.Page) ([]models.Liker, int, error)
	ListLikedVideos(ctx context.Context, userID string, page models.Page) ([]models.LikedVideo, int, error)
}

type likeRepository struct {
	pool *pgxpool.Pool
}

// NewLikeRepository creates a PostgreSQL like repository.
func NewLikeRepository(pool *pgxpool.Pool) LikeRepository {
	return &likeRepository{pool: pool}
}

func (r *likeRepository) Toggle(ctx context.Context, target models.LikeTarget, userID string) (models.ToggleResult, error) {
	var result models.ToggleResult

	err := withTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var removed string
		err := tx.QueryRow(ctx, `
			DELETE FROM likes
			WHERE target_kind = $1 AND target_id = $2 AND liked_by = $3
			RETURNING id`,
			target.Kind, target.ID, userID).Scan(&removed)

		switch {
		case err == nil:
			result.Liked = false
			return r.adjustCounter(ctx, tx, target, -1)
		case errors.Is(err, pgx.ErrNoRows):
			// Nothing to remove; insert.
		default:
			return mapDBError(err, "unlike")
		}

		// ON CONFLICT keeps the transaction usable when a concurrent
		// like wins the race; a raw unique violation would abort it
		// and poison the commit.
		tag, err := tx.Exec(ctx, `
			INSERT INTO likes (id, target_kind, target_id, liked_by)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (target_kind, target_id, liked_by) DO NOTHING`,
			utils.NewLikeID(), target.Kind, target.ID, userID)
		if err != nil {
			return mapDBError(err, "like")
		}

		result.Liked = true
		if tag.RowsAffected() == 0 {
			// Lost the race; the row exists and the winner already
			// adjusted the counter.
			return nil
		}
		return r.adjustCounter(ctx, tx, target, 1)
	})
	if err != nil {
		return models.ToggleResult{}, err
	}
	return result, nil
}

// adjustCounter keeps the denormalized video like counter equal to the
// number of like rows. Comment like counts are derived on read.
func (r *likeRepository) adjustCounter(ctx context.Context, tx pgx.Tx, target models.LikeTarget, delta int) error {
	if target.Kind != models.LikeTargetVideo {
		return nil
	}
	_, err := tx.Exec(ctx,
		`UPDATE videos SET likes = GREATEST(likes + $2, 0) WHERE id = $1`,
		target.ID, delta)
	if err != nil {
		return mapDBError(err, "adjust_like_counter")
	}
	return nil
}

func (r *likeRepository) CountForTarget(ctx context.Context, target models.LikeTarget) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM likes WHERE target_kind = $1 AND target_id = $2`,
		target.Kind, target.ID).Scan(&count)
	if err != nil {
		return 0, mapDBError(err, "count_likes")
	}
	return count, nil
}

func (r *likeRepository) IsLiked(ctx context.Context, target models.LikeTarget, userID string) (bool, error) {
	var liked bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM likes
			WHERE target_kind = $1 AND target_id = $2 AND liked_by = $3
		)`,
		target.Kind, target.ID, userID).Scan(&liked)
	if err != nil {
		return false, mapDBError(err, "check_liked")
	}
	return liked, nil
}

func (r *likeRepository) ListLikers(ctx context.Context, target models.LikeTarget, page models.Page) ([]models.Liker, int, error) {
	total, err := r.CountForTarget(ctx, target)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT u.id, u.username, u.full_name, u.avatar_url, l.created_at
		FROM likes l
		JOIN users u ON u.id = l.liked_by
		WHERE l.target_kind = $1 AND l.target_id = $2
		ORDER BY l.created_at DESC, l.id
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, target.Kind, target.ID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err, "list_likers")
	}
	defer rows.Close()

	likers := []models.Liker{}
	for rows.Next() {
		var liker models.Liker
		err := rows.Scan(
			&liker.LikedBy.ID,
			&liker.LikedBy.Username,
			&liker.LikedBy.FullName,
			&liker.LikedBy.Avatar,
			&liker.LikedAt,
		)
		if err != nil {
			return nil, 0, mapDBError(err, "scan_liker")
		}
		likers = append(likers, liker)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err, "scan_likers")
	}
	return likers, total, nil
}

// ListLikedVideos returns the videos the user liked, most recently
// liked first. Unpublished videos stay visible to the liker until the
// like is removed.
func (r *likeRepository) ListLikedVideos(ctx context.Context, userID string, page models.Page) ([]models.LikedVideo, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM likes l
		JOIN videos v ON v.id = l.target_id
		WHERE l.target_kind = 'video' AND l.liked_by = $1`,
		userID).Scan(&total)
	if err != nil {
		return nil, 0, mapDBError(err, "count_liked_videos")
	}

	query := `
		SELECT ` + videoResponseColumns + `, l.created_at
		FROM likes l
		JOIN videos v ON v.id = l.target_id
		JOIN users u ON u.id = v.owner_id
		WHERE l.target_kind = 'video' AND l.liked_by = $1
		ORDER BY l.created_at DESC, l.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, userID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err, "list_liked_videos")
	}
	defer rows.Close()

	liked := []models.LikedVideo{}
	for rows.Next() {
		var lv models.LikedVideo
		err := rows.Scan(
			&lv.Video.ID,
			&lv.Video.OwnerID,
			&lv.Video.Title,
			&lv.Video.Description,
			&lv.Video.VideoFile.ID,
			&lv.Video.VideoFile.URL,
			&lv.Video.Thumbnail.ID,
			&lv.Video.Thumbnail.URL,
			&lv.Video.Duration,
			&lv.Video.Views,
			&lv.Video.Likes,
			&lv.Video.Shares,
			&lv.Video.IsPublished,
			&lv.Video.Category,
			&lv.Video.Tags,
			&lv.Video.CreatedAt,
			&lv.Video.UpdatedAt,
			&lv.Video.Owner.ID,
			&lv.Video.Owner.Username,
			&lv.Video.Owner.FullName,
			&lv.Video.Owner.Avatar,
			&lv.LikedAt,
		)
		if err != nil {
			return nil, 0, mapDBError(err, "scan_liked_video")
		}
		liked = append(liked, lv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err, "scan_liked_videos")
	}
	return liked, total, nil
}
