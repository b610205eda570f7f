package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"vidhub/pkg/models"
	"vidhub/pkg/utils"
)

// SubscriptionRepository handles channel subscriptions. UNIQUE
// (subscriber_id, channel_id) makes double-subscribing a conflict.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	Delete(ctx context.Context, subscriberID, channelID string) error
	Exists(ctx context.Context, subscriberID, channelID string) (bool, error)

	ListSubscribers(ctx context.Context, channelID string, page models.Page) ([]models.SubscriberEntry, int, error)
	ListSubscriptions(ctx context.Context, subscriberID string, page models.Page) ([]models.SubscriptionEntry, int, error)
	// ListSubscriberIDs returns every subscriber of a channel, for
	// notification fan-out.
	ListSubscriberIDs(ctx context.Context, channelID string) ([]string, error)
	CountSubscribers(ctx context.Context, channelID string) (int, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository creates a PostgreSQL subscription repository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = utils.NewSubscriptionID()
	}

	query := `
		INSERT INTO subscriptions (id, subscriber_id, channel_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query, sub.ID, sub.SubscriberID, sub.ChannelID).Scan(&sub.CreatedAt)
	if isUniqueViolation(err) {
		return models.NewConflict("already subscribed to this channel", models.ErrAlreadyExists)
	}
	if err != nil {
		return mapDBError(err, "create_subscription")
	}
	return nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, subscriberID, channelID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`,
		subscriberID, channelID)
	if err != nil {
		return mapDBError(err, "delete_subscription")
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound("subscription not found", models.ErrNotFound)
	}
	return nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, channelID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2)`,
		subscriberID, channelID).Scan(&exists)
	if err != nil {
		return false, mapDBError(err, "check_subscription")
	}
	return exists, nil
}

func (r *subscriptionRepository) ListSubscribers(ctx context.Context, channelID string, page models.Page) ([]models.SubscriberEntry, int, error) {
	total, err := r.CountSubscribers(ctx, channelID)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT u.id, u.username, u.full_name, u.avatar_url, s.created_at
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC, s.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, channelID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err, "list_subscribers")
	}
	defer rows.Close()

	subscribers := []models.SubscriberEntry{}
	for rows.Next() {
		var entry models.SubscriberEntry
		err := rows.Scan(
			&entry.Subscriber.ID,
			&entry.Subscriber.Username,
			&entry.Subscriber.FullName,
			&entry.Subscriber.Avatar,
			&entry.SubscribedAt,
		)
		if err != nil {
			return nil, 0, mapDBError(err, "scan_subscriber")
		}
		subscribers = append(subscribers, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err, "scan_subscribers")
	}
	return subscribers, total, nil
}

func (r *subscriptionRepository) ListSubscriptions(ctx context.Context, subscriberID string, page models.Page) ([]models.SubscriptionEntry, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`,
		subscriberID).Scan(&total)
	if err != nil {
		return nil, 0, mapDBError(err, "count_subscriptions")
	}

	query := `
		SELECT u.id, u.username, u.full_name, u.avatar_url, s.created_at
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC, s.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, subscriberID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err, "list_subscriptions")
	}
	defer rows.Close()

	subscriptions := []models.SubscriptionEntry{}
	for rows.Next() {
		var entry models.SubscriptionEntry
		err := rows.Scan(
			&entry.Channel.ID,
			&entry.Channel.Username,
			&entry.Channel.FullName,
			&entry.Channel.Avatar,
			&entry.SubscribedAt,
		)
		if err != nil {
			return nil, 0, mapDBError(err, "scan_subscription")
		}
		subscriptions = append(subscriptions, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err, "scan_subscriptions")
	}
	return subscriptions, total, nil
}

func (r *subscriptionRepository) ListSubscriberIDs(ctx context.Context, channelID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT subscriber_id FROM subscriptions WHERE channel_id = $1`, channelID)
	if err != nil {
		return nil, mapDBError(err, "list_subscriber_ids")
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapDBError(err, "scan_subscriber_id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err, "scan_subscriber_ids")
	}
	return ids, nil
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, channelID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID).Scan(&count)
	if err != nil {
		return 0, mapDBError(err, "count_subscribers")
	}
	return count, nil
}
