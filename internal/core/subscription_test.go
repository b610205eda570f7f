package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidhub/pkg/models"
)

func newSubscriptionService(w *world) SubscriptionService {
	notifications := NewNotificationService(w.notifications, w.subscriptions, w.users)
	return NewSubscriptionService(w.subscriptions, w.users, notifications)
}

func TestSubscribe(t *testing.T) {
	w := newWorld()
	svc := newSubscriptionService(w)
	channel := seedUser(t, w, "channel")
	fan := seedUser(t, w, "fan")
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, fan.ID, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, fan.ID, sub.SubscriberID)
	assert.Equal(t, channel.ID, sub.ChannelID)

	got := notificationsFor(t, w, channel.ID)
	require.Len(t, got, 1)
	assert.Equal(t, models.NotificationSubscription, got[0].Type)
	assert.Contains(t, got[0].Content, "fan")
}

func TestSubscribeToSelfRejected(t *testing.T) {
	w := newWorld()
	svc := newSubscriptionService(w)
	channel := seedUser(t, w, "channel")

	_, err := svc.Subscribe(context.Background(), channel.ID, channel.ID)
	require.Error(t, err)
	assert.Equal(t, 400, models.StatusOf(err))
}

func TestSubscribeTwiceConflicts(t *testing.T) {
	w := newWorld()
	svc := newSubscriptionService(w)
	channel := seedUser(t, w, "channel")
	fan := seedUser(t, w, "fan")
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, fan.ID, channel.ID)
	require.NoError(t, err)

	_, err = svc.Subscribe(ctx, fan.ID, channel.ID)
	require.Error(t, err)
	assert.Equal(t, 409, models.StatusOf(err))
}

func TestSubscribeUnknownChannel(t *testing.T) {
	w := newWorld()
	svc := newSubscriptionService(w)
	fan := seedUser(t, w, "fan")

	_, err := svc.Subscribe(context.Background(), fan.ID, "no-such-channel")
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusOf(err))
}

func TestSubscribeGatedNotification(t *testing.T) {
	w := newWorld()
	svc := newSubscriptionService(w)
	channel := seedUser(t, w, "channel")
	fan := seedUser(t, w, "fan")
	ctx := context.Background()

	settings := channel.Notifications
	settings.SubscriptionActivity = false
	require.NoError(t, w.users.UpdateNotificationSettings(ctx, channel.ID, settings))

	_, err := svc.Subscribe(ctx, fan.ID, channel.ID)
	require.NoError(t, err)
	assert.Empty(t, notificationsFor(t, w, channel.ID))
}

func TestUnsubscribe(t *testing.T) {
	w := newWorld()
	svc := newSubscriptionService(w)
	channel := seedUser(t, w, "channel")
	fan := seedUser(t, w, "fan")
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, fan.ID, channel.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Unsubscribe(ctx, fan.ID, channel.ID))

	err = svc.Unsubscribe(ctx, fan.ID, channel.ID)
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusOf(err))
}

func TestListSubscribersAndSubscriptions(t *testing.T) {
	w := newWorld()
	svc := newSubscriptionService(w)
	channel := seedUser(t, w, "channel")
	other := seedUser(t, w, "otherchannel")
	fan := seedUser(t, w, "fan")
	second := seedUser(t, w, "second")
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, fan.ID, channel.ID)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, second.ID, channel.ID)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, fan.ID, other.ID)
	require.NoError(t, err)

	subscribers, err := svc.ListSubscribers(ctx, channel.ID, models.NormalizePage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, subscribers.TotalCount)
	require.Len(t, subscribers.Subscribers, 2)

	subscriptions, err := svc.ListSubscriptions(ctx, fan.ID, models.NormalizePage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, subscriptions.TotalCount)

	_, err = svc.ListSubscribers(ctx, "no-such-channel", models.NormalizePage(1, 10))
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusOf(err))
}
