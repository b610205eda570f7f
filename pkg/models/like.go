package models

import "time"

// LikeTargetKind discriminates what a like points at.
type LikeTargetKind string

const (
	LikeTargetVideo   LikeTargetKind = "video"
	LikeTargetComment LikeTargetKind = "comment"
)

// LikeTarget is the tagged union of likeable things. A like references
// exactly one video or one comment; the illegal "both" state cannot be
// expressed.
type LikeTarget struct {
	Kind LikeTargetKind `json:"kind"`
	ID   string         `json:"id"`
}

// VideoTarget builds a like target for a video.
func VideoTarget(videoID string) LikeTarget {
	return LikeTarget{Kind: LikeTargetVideo, ID: videoID}
}

// CommentTarget builds a like target for a comment.
func CommentTarget(commentID string) LikeTarget {
	return LikeTarget{Kind: LikeTargetComment, ID: commentID}
}

// Like records that a user liked a target. (target, liked_by) is unique
// at the storage layer.
type Like struct {
	ID        string     `json:"id" db:"id"`
	Target    LikeTarget `json:"target"`
	LikedBy   string     `json:"liked_by" db:"liked_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// ToggleResult reports the state after a toggle.
type ToggleResult struct {
	Liked bool `json:"liked"`
}

// LikedVideo pairs a liked video with the moment it was liked.
type LikedVideo struct {
	Video   VideoResponse `json:"video"`
	LikedAt time.Time     `json:"liked_at"`
}

// LikedVideoListResponse lists the authenticated user's liked videos.
type LikedVideoListResponse struct {
	LikedVideos []LikedVideo `json:"liked_videos"`
	TotalCount  int          `json:"total_count"`
}

// Liker is a user who liked a target.
type Liker struct {
	LikedBy UserProfile `json:"liked_by"`
	LikedAt time.Time   `json:"liked_at"`
}

// LikerListResponse lists who liked a target.
type LikerListResponse struct {
	Likes      []Liker `json:"likes"`
	TotalCount int     `json:"total_count"`
}
