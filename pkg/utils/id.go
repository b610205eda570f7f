package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID creates a prefixed opaque identifier, e.g. "video-2c61…".
// The prefix makes IDs self-describing in logs and the database.
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String())
}

// Entity ID constructors used across repositories.
func NewUserID() string         { return NewID("user") }
func NewVideoID() string        { return NewID("video") }
func NewCommentID() string      { return NewID("comment") }
func NewLikeID() string         { return NewID("like") }
func NewPlaylistID() string     { return NewID("playlist") }
func NewSubscriptionID() string { return NewID("sub") }
func NewNotificationID() string { return NewID("notif") }
