package models

import "time"

// NotificationSettings are the per-recipient preference flags that gate
// notification fan-out. All default to enabled.
type NotificationSettings struct {
	EmailNotification    bool `json:"email_notification" db:"email_notification"`
	SubscriptionActivity bool `json:"subscription_activity" db:"subscription_activity"`
	CommentActivity      bool `json:"comment_activity" db:"comment_activity"`
}

// DefaultNotificationSettings returns the registration-time defaults.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		EmailNotification:    true,
		SubscriptionActivity: true,
		CommentActivity:      true,
	}
}

// SocialLinks are the optional channel profile links.
type SocialLinks struct {
	X         string `json:"x,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Website   string `json:"website,omitempty"`
}

// User represents a registered account. Username and email are stored
// case-folded and are unique. RefreshToken holds the single active
// refresh credential; empty means logged out everywhere.
type User struct {
	ID                 string               `json:"id" db:"id"`
	Username           string               `json:"username" db:"username"`
	Email              string               `json:"email" db:"email"`
	FullName           string               `json:"full_name" db:"full_name"`
	PasswordHash       string               `json:"-" db:"password_hash"`
	RefreshToken       string               `json:"-" db:"refresh_token"`
	Avatar             MediaRef             `json:"avatar" db:"avatar"`
	CoverImage         MediaRef             `json:"cover_image" db:"cover_image"`
	ChannelDescription string               `json:"channel_description" db:"channel_description"`
	ChannelTags        []string             `json:"channel_tags" db:"channel_tags"`
	SocialLinks        SocialLinks          `json:"social_links" db:"social_links"`
	Notifications      NotificationSettings `json:"notification_settings" db:"notification_settings"`
	IsVerified         bool                 `json:"is_verified" db:"is_verified"`
	CreatedAt          time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at" db:"updated_at"`
}

// UserProfile is the owner projection joined onto content everywhere:
// comments, videos, notifications, likers.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar,omitempty"`
}

// Profile returns the public projection of a user.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar.URL,
	}
}

// ChannelProfile is the public channel view. No email, preferences or
// watch history leave the server.
type ChannelProfile struct {
	ID                 string      `json:"id"`
	Username           string      `json:"username"`
	FullName           string      `json:"full_name"`
	Avatar             MediaRef    `json:"avatar"`
	CoverImage         MediaRef    `json:"cover_image"`
	ChannelDescription string      `json:"channel_description"`
	ChannelTags        []string    `json:"channel_tags"`
	SocialLinks        SocialLinks `json:"social_links"`
	CreatedAt          time.Time   `json:"created_at"`
}

// Channel returns the public channel projection of a user.
func (u *User) Channel() ChannelProfile {
	return ChannelProfile{
		ID:                 u.ID,
		Username:           u.Username,
		FullName:           u.FullName,
		Avatar:             u.Avatar,
		CoverImage:         u.CoverImage,
		ChannelDescription: u.ChannelDescription,
		ChannelTags:        u.ChannelTags,
		SocialLinks:        u.SocialLinks,
		CreatedAt:          u.CreatedAt,
	}
}

// ChannelInfo is the channel page payload: the public profile plus
// subscriber stats relative to the viewer.
type ChannelInfo struct {
	ChannelProfile
	SubscriberCount int  `json:"subscriber_count"`
	IsSubscribed    bool `json:"is_subscribed"`
}

// RegisterRequest carries the registration form fields. Avatar and
// cover image arrive as multipart files and are handled by the boundary.
type RegisterRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	FullName string `json:"full_name" form:"full_name"`
	Password string `json:"password" form:"password"`
}

// LoginRequest accepts either username or email plus the password.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is an access/refresh credential pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse returns the sanitized user plus both credentials.
type LoginResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshRequest carries the refresh token when it is not in a cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest carries a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UpdateAccountRequest patches mutable account fields.
type UpdateAccountRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

// UpdateChannelRequest patches the channel-facing profile fields.
type UpdateChannelRequest struct {
	ChannelDescription *string      `json:"channel_description"`
	ChannelTags        []string     `json:"channel_tags"`
	SocialLinks        *SocialLinks `json:"social_links"`
}

// UpdateNotificationSettingsRequest patches individual preference
// flags; nil fields are left untouched.
type UpdateNotificationSettingsRequest struct {
	EmailNotification    *bool `json:"email_notification"`
	SubscriptionActivity *bool `json:"subscription_activity"`
	CommentActivity      *bool `json:"comment_activity"`
}

// Patch returns settings with the non-nil fields applied, and whether
// anything changed.
func (r UpdateNotificationSettingsRequest) Patch(s NotificationSettings) (NotificationSettings, bool) {
	changed := false
	if r.EmailNotification != nil {
		s.EmailNotification = *r.EmailNotification
		changed = true
	}
	if r.SubscriptionActivity != nil {
		s.SubscriptionActivity = *r.SubscriptionActivity
		changed = true
	}
	if r.CommentActivity != nil {
		s.CommentActivity = *r.CommentActivity
		changed = true
	}
	return s, changed
}
