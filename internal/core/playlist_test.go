package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidhub/pkg/models"
)

func newPlaylistService(w *world) PlaylistService {
	return NewPlaylistService(w.playlists, w.videos)
}

func TestCreatePlaylistDefaultsToPublic(t *testing.T) {
	w := newWorld()
	svc := newPlaylistService(w)
	owner := seedUser(t, w, "owner")

	resp, err := svc.Create(context.Background(), owner.ID, models.CreatePlaylistRequest{
		Name:        "favorites",
		Description: "the good ones",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsPublic)
	assert.Equal(t, owner.Username, resp.Owner.Username)
	assert.Equal(t, 0, resp.VideoCount)

	private := false
	hidden, err := svc.Create(context.Background(), owner.ID, models.CreatePlaylistRequest{
		Name:     "secret",
		IsPublic: &private,
	})
	require.NoError(t, err)
	assert.False(t, hidden.IsPublic)
}

func TestCreatePlaylistValidation(t *testing.T) {
	w := newWorld()
	svc := newPlaylistService(w)
	owner := seedUser(t, w, "owner")

	_, err := svc.Create(context.Background(), owner.ID, models.CreatePlaylistRequest{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, 400, models.StatusOf(err))
}

func TestPrivatePlaylistForbiddenToStrangers(t *testing.T) {
	w := newWorld()
	svc := newPlaylistService(w)
	owner := seedUser(t, w, "owner")
	viewer := seedUser(t, w, "viewer")
	private := false

	playlist, err := svc.Create(context.Background(), owner.ID, models.CreatePlaylistRequest{
		Name:     "secret",
		IsPublic: &private,
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), viewer.ID, playlist.ID)
	require.Error(t, err)
	// Private playlists deny rather than hide: the link was shared.
	assert.Equal(t, 403, models.StatusOf(err))

	_, err = svc.Get(context.Background(), "", playlist.ID)
	require.Error(t, err)
	assert.Equal(t, 403, models.StatusOf(err))

	mine, err := svc.Get(context.Background(), owner.ID, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", mine.Name)
}

func TestListByUserHidesPrivateFromStrangers(t *testing.T) {
	w := newWorld()
	svc := newPlaylistService(w)
	owner := seedUser(t, w, "owner")
	viewer := seedUser(t, w, "viewer")
	private := false
	ctx := context.Background()

	_, err := svc.Create(ctx, owner.ID, models.CreatePlaylistRequest{Name: "public one"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner.ID, models.CreatePlaylistRequest{Name: "private one", IsPublic: &private})
	require.NoError(t, err)

	visible, meta, err := svc.ListByUser(ctx, viewer.ID, owner.ID, models.NormalizePage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, meta.TotalCount)
	require.Len(t, visible, 1)
	assert.Equal(t, "public one", visible[0].Name)

	all, meta, err := svc.ListByUser(ctx, owner.ID, owner.ID, models.NormalizePage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, meta.TotalCount)
	assert.Len(t, all, 2)
}

func TestPlaylistOwnershipReadsAsAbsence(t *testing.T) {
	w := newWorld()
	svc := newPlaylistService(w)
	owner := seedUser(t, w, "owner")
	other := seedUser(t, w, "other")
	ctx := context.Background()

	playlist, err := svc.Create(ctx, owner.ID, models.CreatePlaylistRequest{Name: "mine"})
	require.NoError(t, err)

	name := "stolen"
	_, err = svc.Update(ctx, other.ID, playlist.ID, models.UpdatePlaylistRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusOf(err))

	err = svc.Delete(ctx, other.ID, playlist.ID)
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusOf(err))

	_, err = svc.AddVideo(ctx, other.ID, playlist.ID, "whatever")
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusOf(err))
}

func TestUpdatePlaylist(t *testing.T) {
	w := newWorld()
	svc := newPlaylistService(w)
	owner := seedUser(t, w, "owner")
	ctx := context.Background()

	playlist, err := svc.Create(ctx, owner.ID, models.CreatePlaylistRequest{Name: "mine"})
	require.NoError(t, err)

	name := "renamed"
	private := false
	resp, err := svc.Update(ctx, owner.ID, playlist.ID, models.UpdatePlaylistRequest{
		Name:     &name,
		IsPublic: &private,
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", resp.Name)
	assert.False(t, resp.IsPublic)
}

func TestAddAndRemovePlaylistVideos(t *testing.T) {
	w := newWorld()
	svc := newPlaylistService(w)
	owner := seedUser(t, w, "owner")
	first := seedVideo(t, w, owner.ID, "first", true)
	second := seedVideo(t, w, owner.ID, "second", true)
	ctx := context.Background()

	playlist, err := svc.Create(ctx, owner.ID, models.CreatePlaylistRequest{Name: "queue"})
	require.NoError(t, err)

	resp, err := svc.AddVideo(ctx, owner.ID, playlist.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.VideoCount)

	resp, err = svc.AddVideo(ctx, owner.ID, playlist.ID, second.ID)
	require.NoError(t, err)
	require.Len(t, resp.Videos, 2)
	// Insertion order is preserved.
	assert.Equal(t, "first", resp.Videos[0].Title)
	assert.Equal(t, "second", resp.Videos[1].Title)

	// Membership is unique, and the failed add changes nothing.
	_, err = svc.AddVideo(ctx, owner.ID, playlist.ID, first.ID)
	require.Error(t, err)
	assert.Equal(t, 409, models.StatusOf(err))
	unchanged, err := svc.Get(ctx, owner.ID, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unchanged.VideoCount)

	// Unknown videos cannot be added.
	_, err = svc.AddVideo(ctx, owner.ID, playlist.ID, "no-such-video")
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusOf(err))

	resp, err = svc.RemoveVideo(ctx, owner.ID, playlist.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.VideoCount)
	assert.Equal(t, "second", resp.Videos[0].Title)

	_, err = svc.RemoveVideo(ctx, owner.ID, playlist.ID, first.ID)
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusOf(err))
}

func TestDeletePlaylist(t *testing.T) {
	w := newWorld()
	svc := newPlaylistService(w)
	owner := seedUser(t, w, "owner")
	ctx := context.Background()

	playlist, err := svc.Create(ctx, owner.ID, models.CreatePlaylistRequest{Name: "temp"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner.ID, playlist.ID))

	_, err = svc.Get(ctx, owner.ID, playlist.ID)
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusOf(err))
}
