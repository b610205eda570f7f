package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidhub/pkg/models"
	"vidhub/pkg/utils"
)

func TestToggleLikeRoundTrip(t *testing.T) {
	pool := testPool(t)
	repo := NewLikeRepository(pool)
	ctx := context.Background()

	owner := seedDBUser(t, pool)
	viewer := seedDBUser(t, pool)
	videoID := seedDBVideo(t, pool, owner)
	target := models.VideoTarget(videoID)

	result, err := repo.Toggle(ctx, target, viewer)
	require.NoError(t, err)
	assert.True(t, result.Liked)

	var likes int
	require.NoError(t, pool.QueryRow(ctx, `SELECT likes FROM videos WHERE id = $1`, videoID).Scan(&likes))
	assert.Equal(t, 1, likes)

	result, err = repo.Toggle(ctx, target, viewer)
	require.NoError(t, err)
	assert.False(t, result.Liked)

	require.NoError(t, pool.QueryRow(ctx, `SELECT likes FROM videos WHERE id = $1`, videoID).Scan(&likes))
	assert.Zero(t, likes)
}

// A toggler that loses the insert race to a like committed mid-flight
// must come back "liked" on a clean commit, without bumping the
// counter a second time.
func TestToggleLikeLosingRaceReportsLiked(t *testing.T) {
	pool := testPool(t)
	repo := NewLikeRepository(pool)
	ctx := context.Background()

	owner := seedDBUser(t, pool)
	viewer := seedDBUser(t, pool)
	videoID := seedDBVideo(t, pool, owner)
	target := models.VideoTarget(videoID)

	// Hold an uncommitted like row for the same (target, user). The
	// toggle's delete does not see it, so its insert queues up on the
	// unique index and conflicts once the holder commits.
	held, err := pool.Begin(ctx)
	require.NoError(t, err)
	_, err = held.Exec(ctx, `
		INSERT INTO likes (id, target_kind, target_id, liked_by)
		VALUES ($1, $2, $3, $4)`,
		utils.NewLikeID(), target.Kind, target.ID, viewer)
	require.NoError(t, err)

	type outcome struct {
		result models.ToggleResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := repo.Toggle(ctx, target, viewer)
		done <- outcome{result, err}
	}()

	// Let the toggle reach the index wait before releasing the holder.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, held.Commit(ctx))

	got := <-done
	require.NoError(t, got.err)
	assert.True(t, got.result.Liked)

	count, err := repo.CountForTarget(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The counter bump belongs to whoever inserted the row; the
	// losing toggle must skip it.
	var likes int
	require.NoError(t, pool.QueryRow(ctx, `SELECT likes FROM videos WHERE id = $1`, videoID).Scan(&likes))
	assert.Zero(t, likes)
}
