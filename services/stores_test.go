package services

import (
	"context"
	"testing"
	"time"

	"trilha-do-cristo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormHikeStore_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	store := NewGormHikeStore(db)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"h1", "h2", "h3"} {
		h := &models.Hike{ID: id, UserID: "u1", Date: "2025-01-01", Duration: "30:00", Distance: "3", CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, store.SaveHike(ctx, h))
	}
	require.NoError(t, store.SaveHike(ctx, &models.Hike{ID: "other", UserID: "u2", Date: "2025-01-01", Duration: "1:00", Distance: "1"}))

	hikes, err := store.LoadHikes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, hikes, 3)
	assert.Equal(t, "h3", hikes[0].ID)
	assert.Equal(t, "h1", hikes[2].ID)

	empty, err := store.LoadHikes(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)

	all, err := store.AllHikes(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestGormGamificationStore_RoundTripAndUpsert(t *testing.T) {
	db := newTestDB(t)
	store := NewGormGamificationStore(db)
	ctx := context.Background()

	missing, err := store.LoadState(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	state := RecomputeProgress([]models.Hike{hike("2025-01-01", "25:00", "6", "")}, models.NewGamificationState("u1"))
	require.NoError(t, store.SaveState(ctx, "u1", state))

	loaded, err := store.LoadState(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, badgeIDs(state.Badges), badgeIDs(loaded.Badges))
	assert.True(t, loaded.Badges[1].Earned)
	assert.Equal(t, 5.0, *loaded.Badges[1].Progress)
	assert.True(t, loaded.Challenges[2].Completed)

	state.Level = 4
	state.Badges = state.Badges[:2]
	require.NoError(t, store.SaveState(ctx, "u1", state))

	loaded, err = store.LoadState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Level)
	assert.Len(t, loaded.Badges, 2)

	var count int64
	require.NoError(t, db.Model(&models.GamificationState{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormGamificationStore_MalformedStateIsDiscarded(t *testing.T) {
	db := newTestDB(t)
	store := NewGormGamificationStore(db)
	ctx := context.Background()

	require.NoError(t, store.SaveState(ctx, "u1", models.NewGamificationState("u1")))
	require.NoError(t, db.Exec("UPDATE gamification_states SET badges = ? WHERE user_id = ?", "{not json", "u1").Error)

	loaded, err := store.LoadState(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
