package models

import "time"

// MediaRef points at an object in the blob store.
type MediaRef struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url,omitempty"`
}

// Video represents an uploaded video. Counters are maintained
// incrementally at the storage layer; likes always equals the number of
// Like rows referencing the video.
type Video struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	VideoFile   MediaRef  `json:"video_file" db:"video_file"`
	Thumbnail   MediaRef  `json:"thumbnail" db:"thumbnail"`
	Duration    float64   `json:"duration" db:"duration"`
	Views       int64     `json:"views" db:"views"`
	Likes       int64     `json:"likes" db:"likes"`
	Shares      int64     `json:"shares" db:"shares"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	Category    string    `json:"category" db:"category"`
	Tags        []string  `json:"tags" db:"tags"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// VideoResponse is a video with the owner reference replaced by the
// projected profile snapshot.
type VideoResponse struct {
	Video
	Owner UserProfile `json:"owner"`
}

// PublishVideoRequest carries the metadata half of a video upload; the
// file halves arrive as multipart form files.
type PublishVideoRequest struct {
	Title       string   `json:"title" form:"title"`
	Description string   `json:"description" form:"description"`
	Category    string   `json:"category" form:"category"`
	Tags        []string `json:"tags" form:"tags"`
}

// UpdateVideoRequest patches mutable video fields; nil means unchanged.
type UpdateVideoRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"is_published"`
}

// SortDirection for feed queries.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// FeedQuery is the generalized read path input: equality filters,
// substring search, visibility, sort, pagination. Used by every video
// listing endpoint.
type FeedQuery struct {
	OwnerID string
	// Search matches title, description and tags case-insensitively.
	Search string
	// IncludeUnpublished widens visibility for owner views.
	IncludeUnpublished bool
	SortBy             string
	SortDir            SortDirection
	Page               Page
}

// VideoListResponse is the paginated feed payload.
type VideoListResponse struct {
	Videos []VideoResponse `json:"videos"`
	ListMeta
}

// ShareLinks are the per-platform share URLs for a video.
type ShareLinks map[string]string

// ShareResponse is returned by the share endpoint; the share counter is
// incremented as a side effect.
type ShareResponse struct {
	VideoID    string     `json:"video_id"`
	VideoTitle string     `json:"video_title"`
	Thumbnail  MediaRef   `json:"thumbnail"`
	ShareLinks ShareLinks `json:"share_links"`
}
