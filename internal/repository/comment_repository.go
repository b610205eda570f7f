package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vidhub/pkg/models"
	"vidhub/pkg/utils"
)

// CommentRepository handles comment persistence. Threading is single
// level: parent_id is NULL for top-level comments and always references
// a top-level comment otherwise.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) (*models.Comment, error)
	// DeleteCascade removes a comment, its replies and all likes on any
	// of them in one transaction.
	DeleteCascade(ctx context.Context, id string) error

	ListByVideo(ctx context.Context, videoID string, page models.Page) ([]models.CommentResponse, int, error)
	ListReplies(ctx context.Context, parentID string, page models.Page) ([]models.CommentResponse, int, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a PostgreSQL comment repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

// parentID converts between the empty-string model convention and the
// NULL storage convention.
func parentID(c *models.Comment) any {
	if c.ParentID == "" {
		return nil
	}
	return c.ParentID
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = utils.NewCommentID()
	}

	query := `
		INSERT INTO comments (id, video_id, owner_id, content, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		comment.ID,
		comment.VideoID,
		comment.OwnerID,
		comment.Content,
		parentID(comment),
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return mapDBError(err, "create_comment")
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		SELECT id, video_id, owner_id, content, COALESCE(parent_id, ''), created_at, updated_at
		FROM comments
		WHERE id = $1
	`
	comment := &models.Comment{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.OwnerID,
		&comment.Content,
		&comment.ParentID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("comment not found", models.ErrNotFound)
	}
	if err != nil {
		return nil, mapDBError(err, "get_comment_by_id")
	}
	return comment, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, content string) (*models.Comment, error) {
	query := `
		UPDATE comments
		SET content = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING id, video_id, owner_id, content, COALESCE(parent_id, ''), created_at, updated_at
	`
	comment := &models.Comment{}
	err := r.pool.QueryRow(ctx, query, id, content).Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.OwnerID,
		&comment.Content,
		&comment.ParentID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("comment not found", models.ErrNotFound)
	}
	if err != nil {
		return nil, mapDBError(err, "update_comment")
	}
	return comment, nil
}

func (r *commentRepository) DeleteCascade(ctx context.Context, id string) error {
	return withTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var videoID string
		err := tx.QueryRow(ctx,
			`SELECT video_id FROM comments WHERE id = $1 FOR UPDATE`, id).Scan(&videoID)
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NewNotFound("comment not found", models.ErrNotFound)
		}
		if err != nil {
			return mapDBError(err, "delete_comment")
		}

		cleanups := []string{
			`DELETE FROM likes WHERE target_kind = 'comment'
			 AND target_id IN (SELECT id FROM comments WHERE id = $1 OR parent_id = $1)`,
			`DELETE FROM comments WHERE parent_id = $1`,
			`DELETE FROM comments WHERE id = $1`,
		}
		for _, q := range cleanups {
			if _, err := tx.Exec(ctx, q, id); err != nil {
				return mapDBError(err, "delete_comment_cascade")
			}
		}
		return nil
	})
}

const commentResponseColumns = `
	c.id, c.video_id, c.owner_id, c.content, COALESCE(c.parent_id, ''),
	c.created_at, c.updated_at,
	u.id, u.username, u.full_name, u.avatar_url`

func scanCommentResponses(rows pgx.Rows, withReplyCount bool) ([]models.CommentResponse, error) {
	comments := []models.CommentResponse{}
	for rows.Next() {
		var c models.CommentResponse
		dest := []any{
			&c.ID,
			&c.VideoID,
			&c.OwnerID,
			&c.Content,
			&c.ParentID,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.Owner.ID,
			&c.Owner.Username,
			&c.Owner.FullName,
			&c.Owner.Avatar,
		}
		if withReplyCount {
			dest = append(dest, &c.ReplyCount)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ListByVideo returns top-level comments newest first, each carrying
// its reply count.
func (r *commentRepository) ListByVideo(ctx context.Context, videoID string, page models.Page) ([]models.CommentResponse, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE video_id = $1 AND parent_id IS NULL`,
		videoID).Scan(&total)
	if err != nil {
		return nil, 0, mapDBError(err, "count_comments")
	}

	query := `
		SELECT ` + commentResponseColumns + `,
			(SELECT COUNT(*) FROM comments r WHERE r.parent_id = c.id)
		FROM comments c
		JOIN users u ON u.id = c.owner_id
		WHERE c.video_id = $1 AND c.parent_id IS NULL
		ORDER BY c.created_at DESC, c.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, videoID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err, "list_comments")
	}
	defer rows.Close()

	comments, err := scanCommentResponses(rows, true)
	if err != nil {
		return nil, 0, mapDBError(err, "scan_comments")
	}
	return comments, total, nil
}

// ListReplies returns a comment's replies newest first, matching the
// top-level ordering.
func (r *commentRepository) ListReplies(ctx context.Context, parentID string, page models.Page) ([]models.CommentResponse, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE parent_id = $1`, parentID).Scan(&total)
	if err != nil {
		return nil, 0, mapDBError(err, "count_replies")
	}

	query := `
		SELECT ` + commentResponseColumns + `
		FROM comments c
		JOIN users u ON u.id = c.owner_id
		WHERE c.parent_id = $1
		ORDER BY c.created_at DESC, c.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, parentID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err, "list_replies")
	}
	defer rows.Close()

	comments, err := scanCommentResponses(rows, false)
	if err != nil {
		return nil, 0, mapDBError(err, "scan_replies")
	}
	return comments, total, nil
}
