package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"trilha-do-cristo/models"

	"gorm.io/gorm"
)

const veteranHikeCount = 20

type RankingService struct {
	DB *gorm.DB
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{DB: db}
}

type rankCandidate struct {
	userID      string
	bestSeconds int
	bestAt      time.Time
	hikeCount   int
}

// BuildRanking orders every hiker with at least one valid duration by best
// time. previous maps user id to the position of the last published ranking.
func BuildRanking(hikes []models.Hike, profiles map[string]models.HikerProfile, previous map[string]int, now time.Time) ([]models.RankingEntry, models.RankingStats) {
	byUser := make(map[string]*rankCandidate)
	for _, h := range hikes {
		c, ok := byUser[h.UserID]
		if !ok {
			c = &rankCandidate{userID: h.UserID, bestSeconds: -1}
			byUser[h.UserID] = c
		}
		c.hikeCount++
		secs, valid := durationSeconds(h.Duration)
		if !valid || secs == 0 {
			continue
		}
		if c.bestSeconds < 0 || secs < c.bestSeconds || (secs == c.bestSeconds && h.CreatedAt.Before(c.bestAt)) {
			c.bestSeconds = secs
			c.bestAt = h.CreatedAt
		}
	}

	candidates := make([]*rankCandidate, 0, len(byUser))
	for _, c := range byUser {
		if c.bestSeconds > 0 {
			candidates = append(candidates, c)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.bestSeconds != b.bestSeconds {
			return a.bestSeconds < b.bestSeconds
		}
		if !a.bestAt.Equal(b.bestAt) {
			return a.bestAt.Before(b.bestAt)
		}
		return a.userID < b.userID
	})

	entries := make([]models.RankingEntry, 0, len(candidates))
	for i, c := range candidates {
		position := i + 1
		delta, seen := 0, false
		if prev, ok := previous[c.userID]; ok {
			delta, seen = prev-position, true
		}
		profile := profiles[c.userID]
		entries = append(entries, models.RankingEntry{
			Position:    position,
			UserID:      c.userID,
			Name:        displayName(profile, c.userID),
			City:        profile.City,
			Time:        FormatMMSS(c.bestSeconds),
			BestSeconds: c.bestSeconds,
			HikeCount:   c.hikeCount,
			Trend:       trendLabel(delta, seen),
			Badge:       rankBadge(position, c.hikeCount, delta),
			ComputedAt:  now,
		})
	}
	return entries, RankingStatsFor(entries)
}

// RankingStatsFor summarises an already ordered ranking.
func RankingStatsFor(entries []models.RankingEntry) models.RankingStats {
	stats := models.RankingStats{TotalParticipants: len(entries)}
	if len(entries) == 0 {
		return stats
	}
	var total int
	best := entries[0].BestSeconds
	for _, e := range entries {
		total += e.BestSeconds
		if e.BestSeconds < best {
			best = e.BestSeconds
		}
	}
	stats.AverageTime = FormatMMSS(int(math.Round(float64(total) / float64(len(entries)))))
	stats.BestTime = FormatMMSS(best)
	return stats
}

func FormatMMSS(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func displayName(p models.HikerProfile, userID string) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	short := userID
	if len(short) > 8 {
		short = short[:8]
	}
	return "Trilheiro " + short
}

func trendLabel(delta int, seen bool) string {
	switch {
	case !seen || delta == 0:
		return "="
	case delta > 0:
		return fmt.Sprintf("+%d", delta)
	default:
		return fmt.Sprintf("%d", delta)
	}
}

func rankBadge(position, hikeCount, delta int) string {
	switch {
	case position == 1:
		return models.RankBadgeRecordHolder
	case hikeCount == 1:
		return models.RankBadgeNewcomer
	case hikeCount >= veteranHikeCount:
		return models.RankBadgeVeteran
	case delta > 0:
		return models.RankBadgeRising
	default:
		return models.RankBadgeConsistent
	}
}

// Refresh rebuilds the ranking table from every stored hike.
func (s *RankingService) Refresh(ctx context.Context) (models.RankingStats, error) {
	db := s.DB.WithContext(ctx)

	hikes, err := NewGormHikeStore(s.DB).AllHikes(ctx)
	if err != nil {
		return models.RankingStats{}, err
	}

	var profileRows []models.HikerProfile
	if err := db.Find(&profileRows).Error; err != nil {
		return models.RankingStats{}, fmt.Errorf("load profiles: %w", err)
	}
	profiles := make(map[string]models.HikerProfile, len(profileRows))
	for _, p := range profileRows {
		profiles[p.ExternalUserID] = p
	}

	var current []models.RankingEntry
	if err := db.Find(&current).Error; err != nil {
		return models.RankingStats{}, fmt.Errorf("load previous ranking: %w", err)
	}
	previous := make(map[string]int, len(current))
	for _, e := range current {
		previous[e.UserID] = e.Position
	}

	entries, stats := BuildRanking(hikes, profiles, previous, time.Now().UTC())

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.RankingEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(&entries, 100).Error
	})
	if err != nil {
		return models.RankingStats{}, fmt.Errorf("replace ranking: %w", err)
	}

	log.Printf("🏆 [RANKING] refreshed: %d participants, best %s", stats.TotalParticipants, stats.BestTime)
	return stats, nil
}

// Top returns the first limit entries (all when limit <= 0) and stats over
// the whole ranking.
func (s *RankingService) Top(ctx context.Context, limit int) ([]models.RankingEntry, models.RankingStats, error) {
	var entries []models.RankingEntry
	if err := s.DB.WithContext(ctx).Order("position ASC").Find(&entries).Error; err != nil {
		return nil, models.RankingStats{}, err
	}
	stats := RankingStatsFor(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, stats, nil
}
