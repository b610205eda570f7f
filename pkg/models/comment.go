package models

import "time"

// MaxCommentLength bounds comment content.
const MaxCommentLength = 5000

// Comment represents a comment on a video. ParentID empty means
// top-level; set means reply. Threading is single-level: a reply's
// parent is always a top-level comment on the same video.
type Comment struct {
	ID        string    `json:"id" db:"id"`
	VideoID   string    `json:"video_id" db:"video_id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Content   string    `json:"content" db:"content"`
	ParentID  string    `json:"parent_id,omitempty" db:"parent_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CommentResponse is a comment with the owner projection and, for
// top-level comments, the number of replies underneath it.
type CommentResponse struct {
	Comment
	Owner      UserProfile `json:"owner"`
	ReplyCount int         `json:"reply_count"`
}

// AddCommentRequest creates a comment or, when ParentCommentID is set,
// a reply.
type AddCommentRequest struct {
	Content         string `json:"content"`
	ParentCommentID string `json:"parent_comment_id"`
}

// UpdateCommentRequest replaces a comment's content.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// CommentListResponse is the paginated comment (or reply) payload.
type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
	ListMeta
}
