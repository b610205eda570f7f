package models

import "time"

// Playlist is an ordered sequence of videos owned by one user.
// Membership is unique; insertion order is preserved.
type Playlist struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	IsPublic    bool      `json:"is_public" db:"is_public"`
	VideoIDs    []string  `json:"video_ids"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// PlaylistVideo is the trimmed video projection inside playlist views.
type PlaylistVideo struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Thumbnail MediaRef `json:"thumbnail"`
	Duration  float64  `json:"duration"`
	Views     int64    `json:"views"`
	CreatedAt time.Time `json:"created_at"`
}

// PlaylistResponse is a playlist enriched with owner profile and video
// snapshots, in playlist order.
type PlaylistResponse struct {
	Playlist
	Owner      UserProfile     `json:"owner"`
	Videos     []PlaylistVideo `json:"videos"`
	VideoCount int             `json:"video_count"`
}

// CreatePlaylistRequest creates a playlist; IsPublic defaults to true.
type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

// UpdatePlaylistRequest patches playlist fields; nil means unchanged.
type UpdatePlaylistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}
