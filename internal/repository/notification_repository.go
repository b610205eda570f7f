package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"vidhub/pkg/models"
	"vidhub/pkg/utils"
)

// NotificationRepository handles stored, pull-delivered notifications.
// Recipient scoping is enforced in every mutation so one user cannot
// touch another's records.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, page models.Page) ([]models.NotificationResponse, int, error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) (int, error)
	Delete(ctx context.Context, id, recipientID string) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a PostgreSQL notification repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = utils.NewNotificationID()
	}

	query := `
		INSERT INTO notifications (id, recipient_id, sender_id, type, content, read)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		n.ID,
		n.RecipientID,
		n.SenderID,
		string(n.Type),
		n.Content,
	).Scan(&n.CreatedAt)

	if err != nil {
		return mapDBError(err, "create_notification")
	}
	return nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, page models.Page) ([]models.NotificationResponse, int, error) {
	where := `n.recipient_id = $1`
	if unreadOnly {
		where += ` AND n.read = FALSE`
	}

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications n WHERE `+where, recipientID).Scan(&total)
	if err != nil {
		return nil, 0, mapDBError(err, "count_notifications")
	}

	query := `
		SELECT n.id, n.recipient_id, n.sender_id, n.type, n.content, n.read, n.created_at,
			u.id, u.username, u.full_name, u.avatar_url
		FROM notifications n
		JOIN users u ON u.id = n.sender_id
		WHERE ` + where + `
		ORDER BY n.created_at DESC, n.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, recipientID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err, "list_notifications")
	}
	defer rows.Close()

	notifications := []models.NotificationResponse{}
	for rows.Next() {
		var n models.NotificationResponse
		var typeStr string
		err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.SenderID,
			&typeStr,
			&n.Content,
			&n.Read,
			&n.CreatedAt,
			&n.Sender.ID,
			&n.Sender.Username,
			&n.Sender.FullName,
			&n.Sender.Avatar,
		)
		if err != nil {
			return nil, 0, mapDBError(err, "scan_notification")
		}
		n.Type = models.NotificationType(typeStr)
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err, "scan_notifications")
	}
	return notifications, total, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = FALSE`,
		recipientID).Scan(&count)
	if err != nil {
		return 0, mapDBError(err, "count_unread_notifications")
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_id = $2`,
		id, recipientID)
	if err != nil {
		return mapDBError(err, "mark_notification_read")
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound("notification not found", models.ErrNotFound)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND read = FALSE`,
		recipientID)
	if err != nil {
		return 0, mapDBError(err, "mark_all_notifications_read")
	}
	return int(tag.RowsAffected()), nil
}

func (r *notificationRepository) Delete(ctx context.Context, id, recipientID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`,
		id, recipientID)
	if err != nil {
		return mapDBError(err, "delete_notification")
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound("notification not found", models.ErrNotFound)
	}
	return nil
}
