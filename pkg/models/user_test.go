package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationSettingsPatch(t *testing.T) {
	base := DefaultNotificationSettings()

	patched, changed := UpdateNotificationSettingsRequest{}.Patch(base)
	assert.False(t, changed)
	assert.Equal(t, base, patched)

	off := false
	patched, changed = UpdateNotificationSettingsRequest{CommentActivity: &off}.Patch(base)
	assert.True(t, changed)
	assert.False(t, patched.CommentActivity)
	assert.True(t, patched.SubscriptionActivity)
}

func TestUserProjections(t *testing.T) {
	user := User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		FullName:     "Alice",
		PasswordHash: "hash",
		RefreshToken: "token",
		Avatar:       MediaRef{ID: "avatars/a", URL: "http://blobs.local/avatars/a"},
	}

	profile := user.Profile()
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "http://blobs.local/avatars/a", profile.Avatar)

	channel := user.Channel()
	assert.Equal(t, "user-1", channel.ID)
	// Projections never carry credentials or email.
	assert.NotContains(t, []string{profile.ID, profile.Username, profile.FullName}, "alice@example.com")
	assert.Equal(t, "", channel.ChannelDescription)
}
