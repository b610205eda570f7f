package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vidhub/pkg/models"
	"vidhub/pkg/utils"
)

// VideoRepository handles video persistence and the generalized feed
// read path.
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id string) (*models.Video, error)
	GetResponseByID(ctx context.Context, id string) (*models.VideoResponse, error)
	List(ctx context.Context, q models.FeedQuery) ([]models.VideoResponse, int, error)
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id string) (*models.Video, error)

	IncrementViews(ctx context.Context, id string) error
	IncrementShares(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, published bool) (*models.Video, error)
}

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a PostgreSQL video repository.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

const videoColumns = `
	v.id, v.owner_id, v.title, v.description,
	v.video_id, v.video_url, v.thumbnail_id, v.thumbnail_url,
	v.duration, v.views, v.likes, v.shares,
	v.is_published, v.category, v.tags, v.created_at, v.updated_at`

const videoResponseColumns = videoColumns + `,
	u.id, u.username, u.full_name, u.avatar_url`

func scanVideo(row pgx.Row, video *models.Video) error {
	return row.Scan(
		&video.ID,
		&video.OwnerID,
		&video.Title,
		&video.Description,
		&video.VideoFile.ID,
		&video.VideoFile.URL,
		&video.Thumbnail.ID,
		&video.Thumbnail.URL,
		&video.Duration,
		&video.Views,
		&video.Likes,
		&video.Shares,
		&video.IsPublished,
		&video.Category,
		&video.Tags,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
}

func scanVideoResponse(row pgx.Row) (*models.VideoResponse, error) {
	resp := &models.VideoResponse{}
	err := row.Scan(
		&resp.ID,
		&resp.OwnerID,
		&resp.Title,
		&resp.Description,
		&resp.VideoFile.ID,
		&resp.VideoFile.URL,
		&resp.Thumbnail.ID,
		&resp.Thumbnail.URL,
		&resp.Duration,
		&resp.Views,
		&resp.Likes,
		&resp.Shares,
		&resp.IsPublished,
		&resp.Category,
		&resp.Tags,
		&resp.CreatedAt,
		&resp.UpdatedAt,
		&resp.Owner.ID,
		&resp.Owner.Username,
		&resp.Owner.FullName,
		&resp.Owner.Avatar,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func scanVideoResponses(rows pgx.Rows) ([]models.VideoResponse, error) {
	videos := []models.VideoResponse{}
	for rows.Next() {
		resp, err := scanVideoResponse(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *resp)
	}
	return videos, rows.Err()
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	if video.ID == "" {
		video.ID = utils.NewVideoID()
	}

	query := `
		INSERT INTO videos (
			id, owner_id, title, description,
			video_id, video_url, thumbnail_id, thumbnail_url,
			duration, is_published, category, tags
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Description,
		video.VideoFile.ID,
		video.VideoFile.URL,
		video.Thumbnail.ID,
		video.Thumbnail.URL,
		video.Duration,
		video.IsPublished,
		video.Category,
		video.Tags,
	).Scan(&video.CreatedAt, &video.UpdatedAt)

	if err != nil {
		return mapDBError(err, "create_video")
	}
	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos v WHERE v.id = $1`
	video := &models.Video{}
	err := scanVideo(r.pool.QueryRow(ctx, query, id), video)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("video not found", models.ErrVideoNotFound)
	}
	if err != nil {
		return nil, mapDBError(err, "get_video_by_id")
	}
	return video, nil
}

func (r *videoRepository) GetResponseByID(ctx context.Context, id string) (*models.VideoResponse, error) {
	query := `
		SELECT ` + videoResponseColumns + `
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = $1
	`
	resp, err := scanVideoResponse(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("video not found", models.ErrVideoNotFound)
	}
	if err != nil {
		return nil, mapDBError(err, "get_video_response")
	}
	return resp, nil
}

// Sortable feed columns. Anything else falls back to created_at.
var feedSortColumns = map[string]string{
	"created_at": "v.created_at",
	"views":      "v.views",
	"likes":      "v.likes",
	"duration":   "v.duration",
	"title":      "v.title",
}

// List runs the feed pipeline: filter, search, visibility, count, sort,
// paginate. The total is counted before pagination is applied.
func (r *videoRepository) List(ctx context.Context, q models.FeedQuery) ([]models.VideoResponse, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if q.OwnerID != "" {
		args = append(args, q.OwnerID)
		where = append(where, fmt.Sprintf("v.owner_id = $%d", len(args)))
	}
	if !q.IncludeUnpublished {
		where = append(where, "v.is_published = TRUE")
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(v.title ILIKE $%d OR v.description ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(v.tags) t WHERE t ILIKE $%d))",
			n, n, n))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM videos v WHERE ` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, mapDBError(err, "count_videos")
	}

	sortCol, ok := feedSortColumns[q.SortBy]
	if !ok {
		sortCol = "v.created_at"
	}
	dir := "DESC"
	if q.SortDir == models.SortAsc {
		dir = "ASC"
	}

	args = append(args, q.Page.Size, q.Page.Offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE %s
		ORDER BY %s %s, v.id
		LIMIT $%d OFFSET $%d`,
		videoResponseColumns, whereClause, sortCol, dir, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapDBError(err, "list_videos")
	}
	defer rows.Close()

	videos, err := scanVideoResponses(rows)
	if err != nil {
		return nil, 0, mapDBError(err, "scan_videos")
	}
	return videos, total, nil
}

func (r *videoRepository) Update(ctx context.Context, video *models.Video) error {
	query := `
		UPDATE videos
		SET title = $2, description = $3, category = $4, tags = $5,
			thumbnail_id = $6, thumbnail_url = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		video.ID,
		video.Title,
		video.Description,
		video.Category,
		video.Tags,
		video.Thumbnail.ID,
		video.Thumbnail.URL,
	).Scan(&video.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewNotFound("video not found", models.ErrVideoNotFound)
	}
	if err != nil {
		return mapDBError(err, "update_video")
	}
	return nil
}

// Delete removes the video row plus its comments, likes, playlist
// memberships and watch history entries in one transaction. The deleted
// row is returned so the caller can clean up blobs.
func (r *videoRepository) Delete(ctx context.Context, id string) (*models.Video, error) {
	video := &models.Video{}

	err := withTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `SELECT ` + videoColumns + ` FROM videos v WHERE v.id = $1 FOR UPDATE`
		if err := scanVideo(tx.QueryRow(ctx, query, id), video); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NewNotFound("video not found", models.ErrVideoNotFound)
			}
			return mapDBError(err, "delete_video")
		}

		cleanups := []string{
			`DELETE FROM likes WHERE target_kind = 'comment'
			 AND target_id IN (SELECT id FROM comments WHERE video_id = $1)`,
			`DELETE FROM likes WHERE target_kind = 'video' AND target_id = $1`,
			`DELETE FROM comments WHERE video_id = $1`,
			`DELETE FROM playlist_videos WHERE video_id = $1`,
			`DELETE FROM watch_history WHERE video_id = $1`,
			`DELETE FROM videos WHERE id = $1`,
		}
		for _, q := range cleanups {
			if _, err := tx.Exec(ctx, q, id); err != nil {
				return mapDBError(err, "delete_video_cleanup")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return video, nil
}

func (r *videoRepository) IncrementViews(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return mapDBError(err, "increment_views")
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound("video not found", models.ErrVideoNotFound)
	}
	return nil
}

func (r *videoRepository) IncrementShares(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE videos SET shares = shares + 1 WHERE id = $1`, id)
	if err != nil {
		return mapDBError(err, "increment_shares")
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound("video not found", models.ErrVideoNotFound)
	}
	return nil
}

func (r *videoRepository) SetPublished(ctx context.Context, id string, published bool) (*models.Video, error) {
	query := `
		UPDATE videos v
		SET is_published = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + videoColumns + `
	`
	video := &models.Video{}
	err := scanVideo(r.pool.QueryRow(ctx, query, id, published), video)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("video not found", models.ErrVideoNotFound)
	}
	if err != nil {
		return nil, mapDBError(err, "set_published")
	}
	return video, nil
}
