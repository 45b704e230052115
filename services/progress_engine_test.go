package services

import (
	"fmt"
	"testing"

	"trilha-do-cristo/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hike(date, duration, distance, elevation string) models.Hike {
	h := models.Hike{
		ID:       fmt.Sprintf("%s-%s-%s", date, duration, distance),
		UserID:   "u1",
		Date:     date,
		Duration: duration,
		Distance: distance,
	}
	if elevation != "" {
		h.Elevation = &elevation
	}
	return h
}

func badgeByID(t *testing.T, s models.GamificationState, id string) models.Badge {
	t.Helper()
	for _, b := range s.Badges {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("badge %s not found", id)
	return models.Badge{}
}

func challengeByID(t *testing.T, s models.GamificationState, id string) models.Challenge {
	t.Helper()
	for _, c := range s.Challenges {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("challenge %s not found", id)
	return models.Challenge{}
}

func TestRecomputeProgress_EmptyHistory(t *testing.T) {
	state := RecomputeProgress(nil, models.NewGamificationState("u1"))

	for _, b := range state.Badges {
		assert.False(t, b.Earned, b.ID)
		if b.Progress != nil {
			assert.Zero(t, *b.Progress, b.ID)
		}
	}
	for _, c := range state.Challenges {
		assert.False(t, c.Completed, c.ID)
		assert.Zero(t, c.Progress, c.ID)
	}
	assert.False(t, badgeByID(t, state, models.BadgeFirstHike).Earned)
}

func TestRecomputeProgress_SingleFiveKmHike(t *testing.T) {
	hikes := []models.Hike{hike("2025-01-01", "10:00", "5.0", "0")}
	state := RecomputeProgress(hikes, models.NewGamificationState("u1"))

	assert.True(t, badgeByID(t, state, models.BadgeFirstHike).Earned)

	dist := badgeByID(t, state, models.BadgeDistance5km)
	assert.True(t, dist.Earned)
	require.NotNil(t, dist.Progress)
	assert.Equal(t, 5.0, *dist.Progress)

	elev := badgeByID(t, state, models.BadgeElevation500m)
	assert.False(t, elev.Earned)
	require.NotNil(t, elev.Progress)
	assert.Equal(t, 0.0, *elev.Progress)

	assert.True(t, challengeByID(t, state, models.ChallengeIDSpeed).Completed)
}

func TestComputeStats_SameDayCountsOnce(t *testing.T) {
	a := hike("2025-03-10T07:00:00Z", "40:00", "3", "")
	b := hike("2025-03-10T16:30:00Z", "45:00", "4", "")
	a.ID, b.ID = "a", "b"

	stats := ComputeStats([]models.Hike{a, b})
	assert.Equal(t, 1, stats.UniqueDayCount)
	assert.Equal(t, 2, stats.HikeCount)
}

func TestRecomputeProgress_TimeChallenges(t *testing.T) {
	short := RecomputeProgress([]models.Hike{hike("2025-01-01", "25:00", "2", "")}, models.NewGamificationState("u1"))
	assert.True(t, challengeByID(t, short, models.ChallengeIDSpeed).Completed)
	assert.False(t, challengeByID(t, short, models.ChallengeIDEndurance).Completed)

	long := RecomputeProgress([]models.Hike{hike("2025-01-02", "125:00", "12", "")}, models.NewGamificationState("u1"))
	assert.False(t, challengeByID(t, long, models.ChallengeIDSpeed).Completed)
	assert.True(t, challengeByID(t, long, models.ChallengeIDEndurance).Completed)

	both := RecomputeProgress([]models.Hike{
		hike("2025-01-01", "25:00", "2", ""),
		hike("2025-01-02", "125:00", "12", ""),
	}, models.NewGamificationState("u1"))
	assert.True(t, challengeByID(t, both, models.ChallengeIDSpeed).Completed)
	assert.True(t, challengeByID(t, both, models.ChallengeIDEndurance).Completed)
	assert.Equal(t, 1.0, challengeByID(t, both, models.ChallengeIDEndurance).Progress)
}

func TestComputeStats_InvalidNumbersCountAsZero(t *testing.T) {
	hikes := []models.Hike{
		hike("2025-01-01", "10:00", "abc", "NaN"),
		hike("2025-01-02", "xx:yy", "-3", "-50"),
		hike("2025-01-03", "20:30", "2,5", "100"),
	}
	stats := ComputeStats(hikes)

	assert.Equal(t, 2.5, stats.TotalDistanceKm)
	assert.Equal(t, 100.0, stats.TotalElevationM)
	assert.Equal(t, 30, stats.TotalDurationMinutes)
	assert.Equal(t, 3, stats.UniqueDayCount)
}

func TestParseDecimal_LeadingNumber(t *testing.T) {
	cases := map[string]float64{
		"5km":    5,
		"4,8 km": 4.8,
		" 12.5m": 12.5,
		".5":     0.5,
		"1e2":    100,
		"km5":    0,
		"-2km":   0,
		"":       0,
		"1e999":  0,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseDecimal(in), in)
	}
}

func TestComputeStats_MalformedDurationNeverSatisfiesTimeChecks(t *testing.T) {
	stats := ComputeStats([]models.Hike{hike("2025-01-01", "", "1", ""), hike("2025-01-02", ":15", "1", "")})
	assert.False(t, stats.hasShortHike)
	assert.False(t, stats.hasLongHike)
	assert.Zero(t, stats.TotalDurationMinutes)
}

func TestComputeStats_EmptyDateIsSkipped(t *testing.T) {
	stats := ComputeStats([]models.Hike{hike("", "10:00", "1", ""), hike("  ", "10:00", "1", "")})
	assert.Zero(t, stats.UniqueDayCount)
}

func TestRecomputeProgress_ProgressNeverExceedsTarget(t *testing.T) {
	var hikes []models.Hike
	for i := 1; i <= 30; i++ {
		hikes = append(hikes, hike(fmt.Sprintf("2025-02-%02d", i%28+1), "150:00", "12.5", "400"))
	}
	state := RecomputeProgress(hikes, models.NewGamificationState("u1"))

	for _, b := range state.Badges {
		if b.Target != nil {
			require.NotNil(t, b.Progress, b.ID)
			assert.LessOrEqual(t, *b.Progress, *b.Target, b.ID)
			assert.True(t, b.Earned, b.ID)
		}
	}
	for _, c := range state.Challenges {
		assert.LessOrEqual(t, c.Progress, c.Target, c.ID)
	}
}

func TestRecomputeProgress_Idempotent(t *testing.T) {
	hikes := []models.Hike{
		hike("2025-01-01", "25:00", "3.2", "120"),
		hike("2025-01-04", "130:10", "8", "640"),
	}
	once := RecomputeProgress(hikes, models.NewGamificationState("u1"))
	twice := RecomputeProgress(hikes, once)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("recompute is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestRecomputeProgress_DoesNotMutateInput(t *testing.T) {
	input := models.NewGamificationState("u1")
	snapshot := input.Clone()

	RecomputeProgress([]models.Hike{hike("2025-01-01", "60:00", "9", "700")}, input)

	if diff := cmp.Diff(snapshot, input); diff != "" {
		t.Errorf("input state was mutated:\n%s", diff)
	}
}

func TestRecomputeProgress_Monotone(t *testing.T) {
	history := []models.Hike{
		hike("2025-01-01", "50:00", "4", "200"),
		hike("2025-01-02", "70:00", "bad", ""),
		hike("2025-01-02T18:00", "15:00", "1.5", "80"),
		hike("2025-01-05", "200:00", "11", "900"),
	}

	prevState := RecomputeProgress(nil, models.NewGamificationState("u1"))
	prevStats := ComputeStats(nil)
	for i := range history {
		stats := ComputeStats(history[:i+1])
		state := RecomputeProgress(history[:i+1], prevState)

		assert.GreaterOrEqual(t, stats.TotalDistanceKm, prevStats.TotalDistanceKm)
		assert.GreaterOrEqual(t, stats.TotalElevationM, prevStats.TotalElevationM)
		assert.GreaterOrEqual(t, stats.TotalDurationMinutes, prevStats.TotalDurationMinutes)
		assert.GreaterOrEqual(t, stats.UniqueDayCount, prevStats.UniqueDayCount)

		for j, b := range state.Badges {
			if prevState.Badges[j].Earned {
				assert.True(t, b.Earned, "badge %s flipped back", b.ID)
			}
		}
		for j, c := range state.Challenges {
			if prevState.Challenges[j].Completed {
				assert.True(t, c.Completed, "challenge %s flipped back", c.ID)
			}
		}
		prevState, prevStats = state, stats
	}
}

func TestRecomputeProgress_FallbackTargetsAndPassThrough(t *testing.T) {
	state := models.NewGamificationState("u1")
	state.Badges[1].Target = nil // distance_5km
	zero := 0.0
	state.Badges[2].Target = &zero // elevation_500m
	state.Badges = append(state.Badges, models.Badge{ID: "legacy_badge", Name: "Legado"})
	state.Challenges = append(state.Challenges,
		models.Challenge{ID: "weekly_streak", Type: models.ChallengeStreak, Target: 3, Progress: 2},
		models.Challenge{ID: "mystery", Type: "mystery", Target: 1},
	)

	out := RecomputeProgress([]models.Hike{hike("2025-01-01", "30:00", "6", "550")}, state)

	assert.True(t, badgeByID(t, out, models.BadgeDistance5km).Earned)
	assert.Equal(t, 5.0, *badgeByID(t, out, models.BadgeDistance5km).Progress)
	assert.True(t, badgeByID(t, out, models.BadgeElevation500m).Earned)
	assert.Equal(t, 500.0, *badgeByID(t, out, models.BadgeElevation500m).Progress)

	assert.Equal(t, models.Badge{ID: "legacy_badge", Name: "Legado"}, badgeByID(t, out, "legacy_badge"))
	assert.Equal(t, 2.0, challengeByID(t, out, "weekly_streak").Progress)
	assert.False(t, challengeByID(t, out, "mystery").Completed)
}

func TestRecomputeProgress_SecondsIgnoredForTimeBadge(t *testing.T) {
	hikes := []models.Hike{
		hike("2025-01-01", "149:59", "1", ""),
		hike("2025-01-02", "150:59", "1", ""),
	}
	state := RecomputeProgress(hikes, models.NewGamificationState("u1"))

	b := badgeByID(t, state, models.BadgeTime5Hours)
	assert.Equal(t, 299.0, *b.Progress)
	assert.False(t, b.Earned)
}

func TestDurationSeconds(t *testing.T) {
	cases := map[string]struct {
		secs int
		ok   bool
	}{
		"10:30":  {630, true},
		"125:00": {7500, true},
		"45":     {2700, true},
		"10:75":  {0, false},
		"ab:10":  {0, false},
		"":       {0, false},
	}
	for in, want := range cases {
		secs, ok := durationSeconds(in)
		assert.Equal(t, want.ok, ok, in)
		assert.Equal(t, want.secs, secs, in)
	}
}

func TestSummarize(t *testing.T) {
	state := RecomputeProgress([]models.Hike{hike("2025-01-01", "25:00", "6", "")}, models.NewGamificationState("u1"))
	sum := Summarize(state)

	assert.Equal(t, 2, sum.EarnedBadges) // first_hike, distance_5km
	assert.Equal(t, 1, sum.CompletedChallenges)
	assert.Equal(t, 4, sum.ActiveChallenges)
}
