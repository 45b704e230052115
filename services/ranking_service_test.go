package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"trilha-do-cristo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rankingEpoch = time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)

func rankedHike(userID, duration string, minute int) models.Hike {
	return models.Hike{
		ID:        fmt.Sprintf("%s-%d", userID, minute),
		UserID:    userID,
		Date:      "2025-03-01",
		Duration:  duration,
		Distance:  "5",
		CreatedAt: rankingEpoch.Add(time.Duration(minute) * time.Minute),
	}
}

func TestBuildRanking_OrderAndLabels(t *testing.T) {
	hikes := []models.Hike{
		rankedHike("ana", "42:10", 1),
		rankedHike("ana", "40:05", 2),
		rankedHike("bruno", "40:05", 0),
		rankedHike("carla", "55:00", 3),
		rankedHike("davi", "bad", 4),
	}
	for i := 0; i < 20; i++ {
		hikes = append(hikes, rankedHike("edu", "50:00", 10+i))
	}
	profiles := map[string]models.HikerProfile{
		"bruno": {ExternalUserID: "bruno", DisplayName: "Bruno S.", City: "Itapema"},
	}
	previous := map[string]int{"ana": 1, "carla": 2}

	entries, stats := BuildRanking(hikes, profiles, previous, rankingEpoch)
	require.Len(t, entries, 4)

	assert.Equal(t, []string{"bruno", "ana", "edu", "carla"}, []string{entries[0].UserID, entries[1].UserID, entries[2].UserID, entries[3].UserID})

	assert.Equal(t, "Bruno S.", entries[0].Name)
	assert.Equal(t, "Itapema", entries[0].City)
	assert.Equal(t, "40:05", entries[0].Time)
	assert.Equal(t, models.RankBadgeRecordHolder, entries[0].Badge)
	assert.Equal(t, "=", entries[0].Trend)

	assert.Equal(t, "Trilheiro ana", entries[1].Name)
	assert.Equal(t, "-1", entries[1].Trend)
	assert.Equal(t, 2, entries[1].HikeCount)
	assert.Equal(t, models.RankBadgeConsistent, entries[1].Badge)

	assert.Equal(t, models.RankBadgeVeteran, entries[2].Badge)
	assert.Equal(t, 20, entries[2].HikeCount)

	assert.Equal(t, "-2", entries[3].Trend)
	assert.Equal(t, models.RankBadgeNewcomer, entries[3].Badge)

	assert.Equal(t, 4, stats.TotalParticipants)
	assert.Equal(t, "40:05", stats.BestTime)
	// (2405 + 2405 + 3000 + 3300) / 4 = 2777.5
	assert.Equal(t, "46:18", stats.AverageTime)
}

func TestBuildRanking_RisingBadge(t *testing.T) {
	hikes := []models.Hike{
		rankedHike("ana", "30:00", 0),
		rankedHike("bia", "35:00", 1), rankedHike("bia", "36:00", 2),
		rankedHike("caio", "40:00", 3), rankedHike("caio", "41:00", 4),
	}
	entries, _ := BuildRanking(hikes, nil, map[string]int{"ana": 1, "bia": 3, "caio": 2}, rankingEpoch)

	require.Len(t, entries, 3)
	assert.Equal(t, "+1", entries[1].Trend)
	assert.Equal(t, models.RankBadgeRising, entries[1].Badge)
	assert.Equal(t, "-1", entries[2].Trend)
	assert.Equal(t, models.RankBadgeConsistent, entries[2].Badge)
}

func TestBuildRanking_Empty(t *testing.T) {
	entries, stats := BuildRanking(nil, nil, nil, rankingEpoch)
	assert.Empty(t, entries)
	assert.Equal(t, models.RankingStats{}, stats)
}

func TestRankingService_RefreshReplacesTable(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	store := NewGormHikeStore(db)
	for _, h := range []models.Hike{rankedHike("ana", "30:00", 0), rankedHike("bia", "25:00", 1)} {
		require.NoError(t, store.SaveHike(ctx, &h))
	}
	require.NoError(t, db.Create(&models.HikerProfile{ExternalUserID: "bia", DisplayName: "Bia"}).Error)

	svc := NewRankingService(db)
	stats, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalParticipants)

	h := rankedHike("ana", "20:00", 5)
	require.NoError(t, store.SaveHike(ctx, &h))
	_, err = svc.Refresh(ctx)
	require.NoError(t, err)

	entries, stats, err := svc.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ana", entries[0].UserID)
	assert.Equal(t, "+1", entries[0].Trend)
	assert.Equal(t, "20:00", stats.BestTime)
	assert.Equal(t, 2, stats.TotalParticipants)

	all, _, err := svc.Top(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Bia", all[1].Name)
	assert.Equal(t, "-1", all[1].Trend)
}
