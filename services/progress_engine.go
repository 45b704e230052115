package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"trilha-do-cristo/models"
)

// Literal fallbacks for badges persisted without a positive target.
const (
	defaultDistanceTargetKm  = 5
	defaultElevationTargetM  = 500
	defaultDurationTargetMin = 300
	defaultStreakTargetDays  = 7
)

// Thresholds for the existence-style time challenges.
const (
	speedThresholdMinutes     = 30
	enduranceThresholdMinutes = 120
)

// HikeStats are the aggregates shared by every badge and challenge rule.
type HikeStats struct {
	HikeCount            int     `json:"hike_count"`
	TotalDistanceKm      float64 `json:"total_distance_km"`
	TotalElevationM      float64 `json:"total_elevation_m"`
	TotalDurationMinutes int     `json:"total_duration_minutes"`
	UniqueDayCount       int     `json:"unique_day_count"`

	hasShortHike bool
	hasLongHike  bool
}

// ComputeStats scans the hike list once. Records with unparsable numbers
// contribute zero to the affected total and never satisfy a time check.
func ComputeStats(hikes []models.Hike) HikeStats {
	stats := HikeStats{HikeCount: len(hikes)}
	days := make(map[string]struct{}, len(hikes))

	for _, h := range hikes {
		stats.TotalDistanceKm += parseDecimal(h.Distance)
		if h.Elevation != nil {
			stats.TotalElevationM += parseDecimal(*h.Elevation)
		}

		if mins, ok := durationMinutes(h.Duration); ok {
			stats.TotalDurationMinutes += mins
			if mins < speedThresholdMinutes {
				stats.hasShortHike = true
			}
			if mins > enduranceThresholdMinutes {
				stats.hasLongHike = true
			}
		}

		if key := dayKey(h.Date); key != "" {
			days[key] = struct{}{}
		}
	}

	stats.UniqueDayCount = len(days)
	return stats
}

// RecomputeProgress derives badge and challenge progress from the full hike
// history. It is pure: the input state is never mutated, and feeding the
// result back with the same hikes yields the same state.
func RecomputeProgress(hikes []models.Hike, state models.GamificationState) models.GamificationState {
	stats := ComputeStats(hikes)
	out := state.Clone()

	for i := range out.Badges {
		out.Badges[i] = applyBadgeRule(out.Badges[i], stats)
	}
	for i := range out.Challenges {
		out.Challenges[i] = applyChallengeRule(out.Challenges[i], stats)
	}
	return out
}

func applyBadgeRule(b models.Badge, stats HikeStats) models.Badge {
	switch b.ID {
	case models.BadgeFirstHike:
		b.Earned = stats.HikeCount > 0
	case models.BadgeDistance5km:
		b = progressBadge(b, stats.TotalDistanceKm, defaultDistanceTargetKm)
	case models.BadgeElevation500m:
		b = progressBadge(b, stats.TotalElevationM, defaultElevationTargetM)
	case models.BadgeTime5Hours:
		b = progressBadge(b, float64(stats.TotalDurationMinutes), defaultDurationTargetMin)
	case models.BadgeStreak7:
		b = progressBadge(b, float64(stats.UniqueDayCount), defaultStreakTargetDays)
	}
	return b
}

func progressBadge(b models.Badge, value, fallbackTarget float64) models.Badge {
	target := fallbackTarget
	if b.Target != nil && *b.Target > 0 {
		target = *b.Target
	}
	progress := math.Min(value, target)
	b.Progress = &progress
	b.Earned = value >= target
	return b
}

func applyChallengeRule(c models.Challenge, stats HikeStats) models.Challenge {
	switch c.Type {
	case models.ChallengeDistance:
		return progressChallenge(c, stats.TotalDistanceKm)
	case models.ChallengeElevation:
		return progressChallenge(c, stats.TotalElevationM)
	case models.ChallengeFrequency:
		return progressChallenge(c, float64(stats.UniqueDayCount))
	case models.ChallengeTime:
		// type alone does not discriminate the two time challenges
		switch c.ID {
		case models.ChallengeIDSpeed:
			return existenceChallenge(c, stats.hasShortHike)
		case models.ChallengeIDEndurance:
			return existenceChallenge(c, stats.hasLongHike)
		}
	}
	return c
}

func progressChallenge(c models.Challenge, value float64) models.Challenge {
	c.Progress = math.Min(value, c.Target)
	c.Completed = value >= c.Target
	return c
}

func existenceChallenge(c models.Challenge, met bool) models.Challenge {
	c.Completed = met
	c.Progress = 0
	if met {
		c.Progress = 1
	}
	return c
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// parseDecimal reads the leading number of raw, so "5km" is 5. A comma
// decimal separator is accepted. No number, a negative one or a non-finite
// one counts as zero.
func parseDecimal(raw string) float64 {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	s = leadingNumber.FindString(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// durationMinutes returns the minutes component of an MM:SS duration.
func durationMinutes(raw string) (int, bool) {
	head, _, _ := strings.Cut(strings.TrimSpace(raw), ":")
	if head == "" {
		return 0, false
	}
	mins, err := strconv.Atoi(head)
	if err != nil || mins < 0 {
		return 0, false
	}
	return mins, true
}

// durationSeconds reads the full MM:SS value, honouring seconds.
func durationSeconds(raw string) (int, bool) {
	mins, ok := durationMinutes(raw)
	if !ok {
		return 0, false
	}
	_, tail, found := strings.Cut(strings.TrimSpace(raw), ":")
	if !found || tail == "" {
		return mins * 60, true
	}
	secs, err := strconv.Atoi(tail)
	if err != nil || secs < 0 || secs > 59 {
		return 0, false
	}
	return mins*60 + secs, true
}

// dayKey buckets a hike date by the calendar-day prefix.
func dayKey(date string) string {
	day, _, _ := strings.Cut(strings.TrimSpace(date), "T")
	return day
}

// GamificationSummary feeds the badge/challenge tab counters.
type GamificationSummary struct {
	EarnedBadges        int `json:"earned_badges"`
	ActiveChallenges    int `json:"active_challenges"`
	CompletedChallenges int `json:"completed_challenges"`
}

func Summarize(state models.GamificationState) GamificationSummary {
	var s GamificationSummary
	for _, b := range state.Badges {
		if b.Earned {
			s.EarnedBadges++
		}
	}
	for _, c := range state.Challenges {
		if c.Completed {
			s.CompletedChallenges++
		} else {
			s.ActiveChallenges++
		}
	}
	return s
}
