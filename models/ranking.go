package models

import (
	"time"
)

// Ranking badge labels shown next to each hiker.
const (
	RankBadgeRecordHolder = "Recordista"
	RankBadgeNewcomer     = "Estreante"
	RankBadgeVeteran      = "Veterano"
	RankBadgeRising       = "Em Alta"
	RankBadgeConsistent   = "Consistente"
)

// RankingEntry is one ranked hiker, rebuilt by the ranking refresh job.
type RankingEntry struct {
	Position    int       `json:"position" gorm:"primaryKey;autoIncrement:false"`
	UserID      string    `json:"user_id" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	Time        string    `json:"time"` // best time, MM:SS
	BestSeconds int       `json:"best_seconds"`
	HikeCount   int       `json:"hike_count"`
	Trend       string    `json:"trend"` // "+N", "-N" or "="
	Badge       string    `json:"badge"`
	ComputedAt  time.Time `json:"computed_at"`
}

// RankingStats summarises the current ranking.
type RankingStats struct {
	TotalParticipants int    `json:"total_participants"`
	AverageTime       string `json:"average_time"`
	BestTime          string `json:"best_time"`
}
