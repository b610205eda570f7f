package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vidhub/pkg/models"
	"vidhub/pkg/utils"
)

// UserRepository handles account persistence, credential state and
// watch history.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, username, email string) (bool, error)

	UpdateAccount(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id string, avatar models.MediaRef) error
	UpdateCoverImage(ctx context.Context, id string, cover models.MediaRef) error
	UpdateChannel(ctx context.Context, user *models.User) error
	UpdateNotificationSettings(ctx context.Context, id string, s models.NotificationSettings) error

	// SetRefreshToken overwrites the stored refresh credential; empty
	// revokes it.
	SetRefreshToken(ctx context.Context, id, token string) error
	// RotateRefreshToken swaps old for new only if old is still the
	// stored credential. Returns models.ErrTokenReused when the stored
	// value no longer matches.
	RotateRefreshToken(ctx context.Context, id, old, new string) error

	AddWatchHistory(ctx context.Context, userID, videoID string) error
	ListWatchHistory(ctx context.Context, userID string, page models.Page) ([]models.VideoResponse, int, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a PostgreSQL user repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `
	id, username, email, full_name, password_hash, refresh_token,
	avatar_id, avatar_url, cover_id, cover_url,
	channel_description, channel_tags,
	social_x, social_instagram, social_facebook, social_website,
	email_notification, subscription_activity, comment_activity,
	is_verified, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.RefreshToken,
		&user.Avatar.ID,
		&user.Avatar.URL,
		&user.CoverImage.ID,
		&user.CoverImage.URL,
		&user.ChannelDescription,
		&user.ChannelTags,
		&user.SocialLinks.X,
		&user.SocialLinks.Instagram,
		&user.SocialLinks.Facebook,
		&user.SocialLinks.Website,
		&user.Notifications.EmailNotification,
		&user.Notifications.SubscriptionActivity,
		&user.Notifications.CommentActivity,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = utils.NewUserID()
	}

	query := `
		INSERT INTO users (
			id, username, email, full_name, password_hash,
			avatar_id, avatar_url, cover_id, cover_url,
			email_notification, subscription_activity, comment_activity
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.Avatar.ID,
		user.Avatar.URL,
		user.CoverImage.ID,
		user.CoverImage.URL,
		user.Notifications.EmailNotification,
		user.Notifications.SubscriptionActivity,
		user.Notifications.CommentActivity,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if isUniqueViolation(err) {
		return models.NewConflict("user with email or username already exists", models.ErrUserExists)
	}
	if err != nil {
		return mapDBError(err, "create_user")
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	if err != nil {
		return nil, mapDBError(err, "get_user_by_id")
	}
	return user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	if err != nil {
		return nil, mapDBError(err, "get_user_by_username")
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	if err != nil {
		return nil, mapDBError(err, "get_user_by_email")
	}
	return user, nil
}

func (r *userRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, username, email).Scan(&exists); err != nil {
		return false, mapDBError(err, "check_user_exists")
	}
	return exists, nil
}

func (r *userRepository) UpdateAccount(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET full_name = $2, email = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query, user.ID, user.FullName, user.Email).Scan(&user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	if isUniqueViolation(err) {
		return models.NewConflict("email already in use", models.ErrUserExists)
	}
	if err != nil {
		return mapDBError(err, "update_account")
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return mapDBError(err, "update_password")
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	return nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id string, avatar models.MediaRef) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET avatar_id = $2, avatar_url = $3, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
		id, avatar.ID, avatar.URL)
	if err != nil {
		return mapDBError(err, "update_avatar")
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	return nil
}

func (r *userRepository) UpdateCoverImage(ctx context.Context, id string, cover models.MediaRef) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET cover_id = $2, cover_url = $3, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
		id, cover.ID, cover.URL)
	if err != nil {
		return mapDBError(err, "update_cover_image")
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	return nil
}

func (r *userRepository) UpdateChannel(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET channel_description = $2,
			channel_tags = $3,
			social_x = $4,
			social_instagram = $5,
			social_facebook = $6,
			social_website = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.ChannelDescription,
		user.ChannelTags,
		user.SocialLinks.X,
		user.SocialLinks.Instagram,
		user.SocialLinks.Facebook,
		user.SocialLinks.Website,
	).Scan(&user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	if err != nil {
		return mapDBError(err, "update_channel")
	}
	return nil
}

func (r *userRepository) UpdateNotificationSettings(ctx context.Context, id string, s models.NotificationSettings) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email_notification = $2,
			subscription_activity = $3,
			comment_activity = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`,
		id, s.EmailNotification, s.SubscriptionActivity, s.CommentActivity)
	if err != nil {
		return mapDBError(err, "update_notification_settings")
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	return nil
}

func (r *userRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET refresh_token = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
		id, token)
	if err != nil {
		return mapDBError(err, "set_refresh_token")
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	return nil
}

// RotateRefreshToken is a compare-and-swap on the stored credential.
// Two concurrent refreshes with the same token race on this UPDATE;
// exactly one matches, the other observes reuse.
func (r *userRepository) RotateRefreshToken(ctx context.Context, id, old, new string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET refresh_token = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND refresh_token = $2`,
		id, old, new)
	if err != nil {
		return mapDBError(err, "rotate_refresh_token")
	}
	if tag.RowsAffected() == 0 {
		return models.NewUnauthorized("refresh token is expired or already used", models.ErrTokenReused)
	}
	return nil
}

// AddWatchHistory records that the user watched the video. Membership
// is a set; rewatching is a no-op.
func (r *userRepository) AddWatchHistory(ctx context.Context, userID, videoID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = CURRENT_TIMESTAMP`,
		userID, videoID)
	if err != nil {
		return mapDBError(err, "add_watch_history")
	}
	return nil
}

func (r *userRepository) ListWatchHistory(ctx context.Context, userID string, page models.Page) ([]models.VideoResponse, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM watch_history wh
		 JOIN videos v ON v.id = wh.video_id
		 WHERE wh.user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, mapDBError(err, "count_watch_history")
	}

	query := `
		SELECT ` + videoResponseColumns + `
		FROM watch_history wh
		JOIN videos v ON v.id = wh.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE wh.user_id = $1
		ORDER BY wh.watched_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, userID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err, "list_watch_history")
	}
	defer rows.Close()

	videos, err := scanVideoResponses(rows)
	if err != nil {
		return nil, 0, mapDBError(err, "scan_watch_history")
	}
	return videos, total, nil
}
