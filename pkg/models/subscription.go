package models

import "time"

// Subscription records that a user follows a channel. The
// (subscriber, channel) pair is unique at the storage layer.
type Subscription struct {
	ID           string    `json:"id" db:"id"`
	SubscriberID string    `json:"subscriber_id" db:"subscriber_id"`
	ChannelID    string    `json:"channel_id" db:"channel_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SubscriberEntry is one row of a channel's subscriber list.
type SubscriberEntry struct {
	Subscriber   UserProfile `json:"subscriber"`
	SubscribedAt time.Time   `json:"subscribed_at"`
}

// SubscriptionEntry is one row of a user's subscribed-channels list.
type SubscriptionEntry struct {
	Channel      UserProfile `json:"channel"`
	SubscribedAt time.Time   `json:"subscribed_at"`
}

// SubscriberListResponse lists a channel's subscribers.
type SubscriberListResponse struct {
	Subscribers []SubscriberEntry `json:"subscribers"`
	ListMeta
}

// SubscriptionListResponse lists the channels a user subscribes to.
type SubscriptionListResponse struct {
	Subscriptions []SubscriptionEntry `json:"subscriptions"`
	ListMeta
}
