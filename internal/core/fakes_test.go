package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"vidhub/pkg/models"
)

// In-memory repository fakes. They enforce the same uniqueness and
// not-found behavior as the PostgreSQL implementations so service
// tests exercise real error paths.

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *clock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type world struct {
	clock         *clock
	users         *memUserRepo
	videos        *memVideoRepo
	comments      *memCommentRepo
	likes         *memLikeRepo
	playlists     *memPlaylistRepo
	subscriptions *memSubscriptionRepo
	notifications *memNotificationRepo
	blobs         *fakeBlobStore
}

func newWorld() *world {
	w := &world{clock: newClock()}
	w.users = &memUserRepo{world: w, users: map[string]*models.User{}}
	w.videos = &memVideoRepo{world: w, videos: map[string]*models.Video{}}
	w.comments = &memCommentRepo{world: w, comments: map[string]*models.Comment{}}
	w.likes = &memLikeRepo{world: w, likes: map[string]*models.Like{}}
	w.playlists = &memPlaylistRepo{world: w, playlists: map[string]*models.Playlist{}, members: map[string][]string{}}
	w.subscriptions = &memSubscriptionRepo{world: w}
	w.notifications = &memNotificationRepo{world: w}
	w.blobs = &fakeBlobStore{}
	return w
}

var (
	idMu  sync.Mutex
	idSeq int
)

func nextID(prefix string) string {
	idMu.Lock()
	defer idMu.Unlock()
	idSeq++
	return fmt.Sprintf("%s-%04d", prefix, idSeq)
}

// --- users ---

type memUserRepo struct {
	world *world
	mu    sync.Mutex
	users map[string]*models.User
	watch map[string][]string
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return models.NewConflict("user with email or username already exists", models.ErrUserExists)
		}
	}
	if user.ID == "" {
		user.ID = nextID("user")
	}
	now := r.world.clock.tick()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) get(id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.NewNotFound("user not found", models.ErrUserNotFound)
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.NewNotFound("user not found", models.ErrUserNotFound)
}

func (r *memUserRepo) Exists(_ context.Context, username, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) UpdateAccount(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	stored.FullName = user.FullName
	stored.Email = user.Email
	stored.UpdatedAt = r.world.clock.tick()
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	u.PasswordHash = hash
	return nil
}

func (r *memUserRepo) UpdateAvatar(_ context.Context, id string, avatar models.MediaRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	u.Avatar = avatar
	return nil
}

func (r *memUserRepo) UpdateCoverImage(_ context.Context, id string, cover models.MediaRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	u.CoverImage = cover
	return nil
}

func (r *memUserRepo) UpdateChannel(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[user.ID]
	if !ok {
		return models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	u.ChannelDescription = user.ChannelDescription
	u.ChannelTags = user.ChannelTags
	u.SocialLinks = user.SocialLinks
	return nil
}

func (r *memUserRepo) UpdateNotificationSettings(_ context.Context, id string, s models.NotificationSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	u.Notifications = s
	return nil
}

func (r *memUserRepo) SetRefreshToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return models.NewNotFound("user not found", models.ErrUserNotFound)
	}
	u.RefreshToken = token
	return nil
}

func (r *memUserRepo) RotateRefreshToken(_ context.Context, id, old, new string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.RefreshToken != old {
		return models.NewUnauthorized("refresh token is expired or already used", models.ErrTokenReused)
	}
	u.RefreshToken = new
	return nil
}

func (r *memUserRepo) AddWatchHistory(_ context.Context, userID, videoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.watch == nil {
		r.watch = map[string][]string{}
	}
	for _, v := range r.watch[userID] {
		if v == videoID {
			return nil
		}
	}
	r.watch[userID] = append(r.watch[userID], videoID)
	return nil
}

func (r *memUserRepo) ListWatchHistory(ctx context.Context, userID string, page models.Page) ([]models.VideoResponse, int, error) {
	r.mu.Lock()
	ids := append([]string(nil), r.watch[userID]...)
	r.mu.Unlock()

	responses := []models.VideoResponse{}
	// Most recent first.
	for i := len(ids) - 1; i >= 0; i-- {
		resp, err := r.world.videos.GetResponseByID(ctx, ids[i])
		if err != nil {
			continue
		}
		responses = append(responses, *resp)
	}
	return paginate(responses, page)
}

func paginate[T any](items []T, page models.Page) ([]T, int, error) {
	total := len(items)
	start := page.Offset()
	if start >= total {
		return []T{}, total, nil
	}
	end := start + page.Size
	if end > total {
		end = total
	}
	return items[start:end], total, nil
}

// --- videos ---

type memVideoRepo struct {
	world  *world
	mu     sync.Mutex
	videos map[string]*models.Video
}

func (r *memVideoRepo) Create(_ context.Context, video *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if video.ID == "" {
		video.ID = nextID("video")
	}
	now := r.world.clock.tick()
	video.CreatedAt = now
	video.UpdatedAt = now
	cp := *video
	r.videos[video.ID] = &cp
	return nil
}

func (r *memVideoRepo) get(id string) (*models.Video, error) {
	v, ok := r.videos[id]
	if !ok {
		return nil, models.NewNotFound("video not found", models.ErrVideoNotFound)
	}
	cp := *v
	return &cp, nil
}

func (r *memVideoRepo) GetByID(_ context.Context, id string) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *memVideoRepo) GetResponseByID(ctx context.Context, id string) (*models.VideoResponse, error) {
	r.mu.Lock()
	video, err := r.get(id)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	owner, err := r.world.users.GetByID(ctx, video.OwnerID)
	if err != nil {
		return nil, err
	}
	return &models.VideoResponse{Video: *video, Owner: owner.Profile()}, nil
}

func (r *memVideoRepo) List(ctx context.Context, q models.FeedQuery) ([]models.VideoResponse, int, error) {
	r.mu.Lock()
	matched := []*models.Video{}
	for _, v := range r.videos {
		if q.OwnerID != "" && v.OwnerID != q.OwnerID {
			continue
		}
		if !q.IncludeUnpublished && !v.IsPublished {
			continue
		}
		if q.Search != "" && !matchesSearch(v, q.Search) {
			continue
		}
		cp := *v
		matched = append(matched, &cp)
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch q.SortBy {
		case "views":
			less = matched[i].Views < matched[j].Views
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if q.SortDir == models.SortAsc {
			return less
		}
		return !less
	})

	responses := []models.VideoResponse{}
	for _, v := range matched {
		owner, err := r.world.users.GetByID(ctx, v.OwnerID)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, models.VideoResponse{Video: *v, Owner: owner.Profile()})
	}
	return paginate(responses, q.Page)
}

func matchesSearch(v *models.Video, search string) bool {
	s := strings.ToLower(search)
	if strings.Contains(strings.ToLower(v.Title), s) || strings.Contains(strings.ToLower(v.Description), s) {
		return true
	}
	for _, tag := range v.Tags {
		if strings.Contains(strings.ToLower(tag), s) {
			return true
		}
	}
	return false
}

func (r *memVideoRepo) Update(_ context.Context, video *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.videos[video.ID]
	if !ok {
		return models.NewNotFound("video not found", models.ErrVideoNotFound)
	}
	stored.Title = video.Title
	stored.Description = video.Description
	stored.Category = video.Category
	stored.Tags = video.Tags
	stored.Thumbnail = video.Thumbnail
	stored.UpdatedAt = r.world.clock.tick()
	video.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *memVideoRepo) Delete(_ context.Context, id string) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	video, err := r.get(id)
	if err != nil {
		return nil, err
	}
	delete(r.videos, id)
	return video, nil
}

func (r *memVideoRepo) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return models.NewNotFound("video not found", models.ErrVideoNotFound)
	}
	v.Views++
	return nil
}

func (r *memVideoRepo) IncrementShares(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return models.NewNotFound("video not found", models.ErrVideoNotFound)
	}
	v.Shares++
	return nil
}

func (r *memVideoRepo) SetPublished(_ context.Context, id string, published bool) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, models.NewNotFound("video not found", models.ErrVideoNotFound)
	}
	v.IsPublished = published
	v.UpdatedAt = r.world.clock.tick()
	cp := *v
	return &cp, nil
}

// --- comments ---

type memCommentRepo struct {
	world    *world
	mu       sync.Mutex
	comments map[string]*models.Comment
}

func (r *memCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment.ID == "" {
		comment.ID = nextID("comment")
	}
	now := r.world.clock.tick()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *memCommentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, models.NewNotFound("comment not found", models.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r *memCommentRepo) UpdateContent(_ context.Context, id, content string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, models.NewNotFound("comment not found", models.ErrNotFound)
	}
	c.Content = content
	c.UpdatedAt = r.world.clock.tick()
	cp := *c
	return &cp, nil
}

func (r *memCommentRepo) DeleteCascade(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return models.NewNotFound("comment not found", models.ErrNotFound)
	}
	for cid, c := range r.comments {
		if c.ParentID == id {
			delete(r.comments, cid)
		}
	}
	delete(r.comments, id)
	return nil
}

func (r *memCommentRepo) listFiltered(ctx context.Context, keep func(*models.Comment) bool, newestFirst bool, withReplyCount bool) ([]models.CommentResponse, error) {
	r.mu.Lock()
	matched := []*models.Comment{}
	replyCounts := map[string]int{}
	for _, c := range r.comments {
		if c.ParentID != "" {
			replyCounts[c.ParentID]++
		}
		if keep(c) {
			cp := *c
			matched = append(matched, &cp)
		}
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if newestFirst {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	responses := []models.CommentResponse{}
	for _, c := range matched {
		owner, err := r.world.users.GetByID(ctx, c.OwnerID)
		if err != nil {
			return nil, err
		}
		resp := models.CommentResponse{Comment: *c, Owner: owner.Profile()}
		if withReplyCount {
			resp.ReplyCount = replyCounts[c.ID]
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (r *memCommentRepo) ListByVideo(ctx context.Context, videoID string, page models.Page) ([]models.CommentResponse, int, error) {
	responses, err := r.listFiltered(ctx, func(c *models.Comment) bool {
		return c.VideoID == videoID && c.ParentID == ""
	}, true, true)
	if err != nil {
		return nil, 0, err
	}
	return paginate(responses, page)
}

func (r *memCommentRepo) ListReplies(ctx context.Context, parentID string, page models.Page) ([]models.CommentResponse, int, error) {
	responses, err := r.listFiltered(ctx, func(c *models.Comment) bool {
		return c.ParentID == parentID
	}, true, false)
	if err != nil {
		return nil, 0, err
	}
	return paginate(responses, page)
}

// --- likes ---

type memLikeRepo struct {
	world *world
	mu    sync.Mutex
	likes map[string]*models.Like
}

func likeKey(target models.LikeTarget, userID string) string {
	return fmt.Sprintf("%s|%s|%s", target.Kind, target.ID, userID)
}

func (r *memLikeRepo) Toggle(ctx context.Context, target models.LikeTarget, userID string) (models.ToggleResult, error) {
	r.mu.Lock()
	key := likeKey(target, userID)
	_, exists := r.likes[key]
	if exists {
		delete(r.likes, key)
	} else {
		r.likes[key] = &models.Like{
			ID:        nextID("like"),
			Target:    target,
			LikedBy:   userID,
			CreatedAt: r.world.clock.tick(),
		}
	}
	r.mu.Unlock()

	if target.Kind == models.LikeTargetVideo {
		r.world.videos.mu.Lock()
		if v, ok := r.world.videos.videos[target.ID]; ok {
			if exists {
				v.Likes--
			} else {
				v.Likes++
			}
		}
		r.world.videos.mu.Unlock()
	}
	return models.ToggleResult{Liked: !exists}, nil
}

func (r *memLikeRepo) CountForTarget(_ context.Context, target models.LikeTarget) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, l := range r.likes {
		if l.Target == target {
			count++
		}
	}
	return count, nil
}

func (r *memLikeRepo) IsLiked(_ context.Context, target models.LikeTarget, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.likes[likeKey(target, userID)]
	return ok, nil
}

func (r *memLikeRepo) ListLikers(ctx context.Context, target models.LikeTarget, page models.Page) ([]models.Liker, int, error) {
	r.mu.Lock()
	matched := []*models.Like{}
	for _, l := range r.likes {
		if l.Target == target {
			matched = append(matched, l)
		}
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	likers := []models.Liker{}
	for _, l := range matched {
		user, err := r.world.users.GetByID(ctx, l.LikedBy)
		if err != nil {
			return nil, 0, err
		}
		likers = append(likers, models.Liker{LikedBy: user.Profile(), LikedAt: l.CreatedAt})
	}
	return paginate(likers, page)
}

func (r *memLikeRepo) ListLikedVideos(ctx context.Context, userID string, page models.Page) ([]models.LikedVideo, int, error) {
	r.mu.Lock()
	matched := []*models.Like{}
	for _, l := range r.likes {
		if l.Target.Kind == models.LikeTargetVideo && l.LikedBy == userID {
			matched = append(matched, l)
		}
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	liked := []models.LikedVideo{}
	for _, l := range matched {
		resp, err := r.world.videos.GetResponseByID(ctx, l.Target.ID)
		if err != nil {
			continue
		}
		liked = append(liked, models.LikedVideo{Video: *resp, LikedAt: l.CreatedAt})
	}
	return paginate(liked, page)
}

// --- playlists ---

type memPlaylistRepo struct {
	world     *world
	mu        sync.Mutex
	playlists map[string]*models.Playlist
	members   map[string][]string
}

func (r *memPlaylistRepo) Create(_ context.Context, playlist *models.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if playlist.ID == "" {
		playlist.ID = nextID("playlist")
	}
	now := r.world.clock.tick()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	cp := *playlist
	r.playlists[playlist.ID] = &cp
	return nil
}

func (r *memPlaylistRepo) GetByID(_ context.Context, id string) (*models.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.playlists[id]
	if !ok {
		return nil, models.NewNotFound("playlist not found", models.ErrNotFound)
	}
	cp := *p
	cp.VideoIDs = append([]string{}, r.members[id]...)
	return &cp, nil
}

func (r *memPlaylistRepo) GetResponseByID(ctx context.Context, id string) (*models.PlaylistResponse, error) {
	playlist, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := r.world.users.GetByID(ctx, playlist.OwnerID)
	if err != nil {
		return nil, err
	}

	resp := &models.PlaylistResponse{Playlist: *playlist, Owner: owner.Profile(), Videos: []models.PlaylistVideo{}}
	for _, videoID := range playlist.VideoIDs {
		v, err := r.world.videos.GetByID(ctx, videoID)
		if err != nil {
			continue
		}
		resp.Videos = append(resp.Videos, models.PlaylistVideo{
			ID:        v.ID,
			Title:     v.Title,
			Thumbnail: v.Thumbnail,
			Duration:  v.Duration,
			Views:     v.Views,
			CreatedAt: v.CreatedAt,
		})
	}
	resp.VideoCount = len(resp.Videos)
	return resp, nil
}

func (r *memPlaylistRepo) ListByOwner(ctx context.Context, ownerID string, publicOnly bool, page models.Page) ([]models.PlaylistResponse, int, error) {
	r.mu.Lock()
	ids := []string{}
	for id, p := range r.playlists {
		if p.OwnerID != ownerID {
			continue
		}
		if publicOnly && !p.IsPublic {
			continue
		}
		ids = append(ids, id)
	}
	r.mu.Unlock()
	sort.Strings(ids)

	responses := []models.PlaylistResponse{}
	for _, id := range ids {
		resp, err := r.GetResponseByID(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, *resp)
	}
	return paginate(responses, page)
}

func (r *memPlaylistRepo) Update(_ context.Context, playlist *models.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.playlists[playlist.ID]
	if !ok {
		return models.NewNotFound("playlist not found", models.ErrNotFound)
	}
	p.Name = playlist.Name
	p.Description = playlist.Description
	p.IsPublic = playlist.IsPublic
	p.UpdatedAt = r.world.clock.tick()
	return nil
}

func (r *memPlaylistRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.playlists[id]; !ok {
		return models.NewNotFound("playlist not found", models.ErrNotFound)
	}
	delete(r.playlists, id)
	delete(r.members, id)
	return nil
}

func (r *memPlaylistRepo) AddVideo(_ context.Context, playlistID, videoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.members[playlistID] {
		if v == videoID {
			return models.NewConflict("video already in playlist", models.ErrAlreadyExists)
		}
	}
	r.members[playlistID] = append(r.members[playlistID], videoID)
	return nil
}

func (r *memPlaylistRepo) RemoveVideo(_ context.Context, playlistID, videoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.members[playlistID]
	for i, v := range current {
		if v == videoID {
			r.members[playlistID] = append(current[:i], current[i+1:]...)
			return nil
		}
	}
	return models.NewNotFound("video not in playlist", models.ErrNotFound)
}

// --- subscriptions ---

type memSubscriptionRepo struct {
	world *world
	mu    sync.Mutex
	subs  []*models.Subscription
}

func (r *memSubscriptionRepo) Create(_ context.Context, sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.SubscriberID == sub.SubscriberID && s.ChannelID == sub.ChannelID {
			return models.NewConflict("already subscribed to this channel", models.ErrAlreadyExists)
		}
	}
	if sub.ID == "" {
		sub.ID = nextID("sub")
	}
	sub.CreatedAt = r.world.clock.tick()
	cp := *sub
	r.subs = append(r.subs, &cp)
	return nil
}

func (r *memSubscriptionRepo) Delete(_ context.Context, subscriberID, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.subs {
		if s.SubscriberID == subscriberID && s.ChannelID == channelID {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return nil
		}
	}
	return models.NewNotFound("subscription not found", models.ErrNotFound)
}

func (r *memSubscriptionRepo) Exists(_ context.Context, subscriberID, channelID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.SubscriberID == subscriberID && s.ChannelID == channelID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memSubscriptionRepo) ListSubscribers(ctx context.Context, channelID string, page models.Page) ([]models.SubscriberEntry, int, error) {
	r.mu.Lock()
	matched := []*models.Subscription{}
	for _, s := range r.subs {
		if s.ChannelID == channelID {
			matched = append(matched, s)
		}
	}
	r.mu.Unlock()

	entries := []models.SubscriberEntry{}
	for _, s := range matched {
		user, err := r.world.users.GetByID(ctx, s.SubscriberID)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, models.SubscriberEntry{Subscriber: user.Profile(), SubscribedAt: s.CreatedAt})
	}
	return paginate(entries, page)
}

func (r *memSubscriptionRepo) ListSubscriptions(ctx context.Context, subscriberID string, page models.Page) ([]models.SubscriptionEntry, int, error) {
	r.mu.Lock()
	matched := []*models.Subscription{}
	for _, s := range r.subs {
		if s.SubscriberID == subscriberID {
			matched = append(matched, s)
		}
	}
	r.mu.Unlock()

	entries := []models.SubscriptionEntry{}
	for _, s := range matched {
		user, err := r.world.users.GetByID(ctx, s.ChannelID)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, models.SubscriptionEntry{Channel: user.Profile(), SubscribedAt: s.CreatedAt})
	}
	return paginate(entries, page)
}

func (r *memSubscriptionRepo) ListSubscriberIDs(_ context.Context, channelID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []string{}
	for _, s := range r.subs {
		if s.ChannelID == channelID {
			ids = append(ids, s.SubscriberID)
		}
	}
	return ids, nil
}

func (r *memSubscriptionRepo) CountSubscribers(_ context.Context, channelID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, s := range r.subs {
		if s.ChannelID == channelID {
			count++
		}
	}
	return count, nil
}

// --- notifications ---

type memNotificationRepo struct {
	world *world
	mu    sync.Mutex
	items []*models.Notification
}

func (r *memNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == "" {
		n.ID = nextID("notif")
	}
	n.CreatedAt = r.world.clock.tick()
	cp := *n
	r.items = append(r.items, &cp)
	return nil
}

func (r *memNotificationRepo) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, page models.Page) ([]models.NotificationResponse, int, error) {
	r.mu.Lock()
	matched := []*models.Notification{}
	for _, n := range r.items {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		matched = append(matched, n)
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	responses := []models.NotificationResponse{}
	for _, n := range matched {
		sender, err := r.world.users.GetByID(ctx, n.SenderID)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, models.NotificationResponse{Notification: *n, Sender: sender.Profile()})
	}
	return paginate(responses, page)
}

func (r *memNotificationRepo) UnreadCount(_ context.Context, recipientID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.ID == id && n.RecipientID == recipientID {
			n.Read = true
			return nil
		}
	}
	return models.NewNotFound("notification not found", models.ErrNotFound)
}

func (r *memNotificationRepo) MarkAllRead(_ context.Context, recipientID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) Delete(_ context.Context, id, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.items {
		if n.ID == id && n.RecipientID == recipientID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return models.NewNotFound("notification not found", models.ErrNotFound)
}

// --- blob store ---

type fakeBlobStore struct {
	mu          sync.Mutex
	uploads     []string
	deleted     []string
	failFolders map[string]bool
}

func (s *fakeBlobStore) failFolder(folder string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFolders == nil {
		s.failFolders = map[string]bool{}
	}
	s.failFolders[folder] = true
}

func (s *fakeBlobStore) Upload(_ context.Context, localPath, folder, _ string) (models.MediaRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFolders[folder] {
		return models.MediaRef{}, fmt.Errorf("upload to %s failed", folder)
	}
	id := fmt.Sprintf("%s/%s", folder, nextID("obj"))
	s.uploads = append(s.uploads, id)
	return models.MediaRef{ID: id, URL: "http://blobs.local/" + id}, nil
}

func (s *fakeBlobStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeBlobStore) wasDeleted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.deleted {
		if d == id {
			return true
		}
	}
	return false
}
