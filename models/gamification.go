package models

import (
	"time"
)

// ChallengeType selects the aggregation rule used for a challenge.
type ChallengeType string

const (
	ChallengeDistance  ChallengeType = "distance"
	ChallengeTime      ChallengeType = "time"
	ChallengeElevation ChallengeType = "elevation"
	ChallengeFrequency ChallengeType = "frequency"
	ChallengeStreak    ChallengeType = "streak"
)

// Badge ids with a dedicated progress rule.
const (
	BadgeFirstHike     = "first_hike"
	BadgeDistance5km   = "distance_5km"
	BadgeElevation500m = "elevation_500m"
	BadgeTime5Hours    = "time_5hours"
	BadgeStreak7       = "streak_7"
)

// Challenge ids referenced by rules that cannot dispatch on type alone.
const (
	ChallengeIDDistance10km = "challenge_10km"
	ChallengeIDAltitude     = "challenge_1000m"
	ChallengeIDSpeed        = "challenge_speed"
	ChallengeIDFrequency    = "challenge_frequency"
	ChallengeIDEndurance    = "challenge_endurance"
)

// Badge is an earnable achievement. Badges without a target are simple
// existence checks and carry no progress.
type Badge struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        Icon     `json:"icon"`
	Earned      bool     `json:"earned"`
	Progress    *float64 `json:"progress,omitempty"`
	Target      *float64 `json:"target,omitempty"`
}

// Challenge is a goal with a numeric target and an optional reward label.
type Challenge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        Icon          `json:"icon"`
	Progress    float64       `json:"progress"`
	Target      float64       `json:"target"`
	Reward      string        `json:"reward"`
	Completed   bool          `json:"completed"`
	Type        ChallengeType `json:"type"`
}

// GamificationState is the per-user aggregate persisted between views.
// TotalPoints and Level are carried through untouched by the progress rules.
type GamificationState struct {
	UserID      string      `json:"user_id,omitempty" gorm:"primaryKey"`
	Badges      []Badge     `json:"badges" gorm:"serializer:json;type:text"`
	Challenges  []Challenge `json:"challenges" gorm:"serializer:json;type:text"`
	TotalPoints int64       `json:"total_points"`
	Level       int         `json:"level"`
	UpdatedAt   time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// Clone returns a deep copy so callers can derive a new state without
// aliasing the receiver's progress pointers.
func (s GamificationState) Clone() GamificationState {
	out := s
	if s.Badges != nil {
		out.Badges = make([]Badge, len(s.Badges))
		for i, b := range s.Badges {
			out.Badges[i] = b.clone()
		}
	}
	if s.Challenges != nil {
		out.Challenges = append([]Challenge{}, s.Challenges...)
	}
	return out
}

func (b Badge) clone() Badge {
	if b.Progress != nil {
		v := *b.Progress
		b.Progress = &v
	}
	if b.Target != nil {
		v := *b.Target
		b.Target = &v
	}
	return b
}

func ptr(v float64) *float64 { return &v }

// DefaultBadges returns a fresh copy of the canonical badge catalog.
func DefaultBadges() []Badge {
	return []Badge{
		{
			ID:          BadgeFirstHike,
			Name:        "Primeiro Passo",
			Description: "Complete sua primeira trilha",
			Icon:        IconMountain,
		},
		{
			ID:          BadgeDistance5km,
			Name:        "Caminhante",
			Description: "Percorra 5km em trilhas",
			Icon:        IconTarget,
			Progress:    ptr(0),
			Target:      ptr(5),
		},
		{
			ID:          BadgeElevation500m,
			Name:        "Escalador",
			Description: "Ganhe 500m de elevação total",
			Icon:        IconTrophy,
			Progress:    ptr(0),
			Target:      ptr(500),
		},
		{
			ID:          BadgeTime5Hours,
			Name:        "Resistente",
			Description: "Acumule 5 horas de trilha",
			Icon:        IconTimer,
			Progress:    ptr(0),
			Target:      ptr(300),
		},
		{
			ID:          BadgeStreak7,
			Name:        "Dedicado",
			Description: "7 trilhas em 7 dias diferentes",
			Icon:        IconFlame,
			Progress:    ptr(0),
			Target:      ptr(7),
		},
	}
}

// DefaultChallenges returns a fresh copy of the canonical challenge catalog.
func DefaultChallenges() []Challenge {
	return []Challenge{
		{
			ID:          ChallengeIDDistance10km,
			Name:        "Desafio 10km",
			Description: "Percorra 10km em trilhas este mês",
			Icon:        IconTarget,
			Target:      10,
			Reward:      "Badge Explorador",
			Type:        ChallengeDistance,
		},
		{
			ID:          ChallengeIDAltitude,
			Name:        "Desafio Altitude",
			Description: "Ganhe 1000m de elevação total",
			Icon:        IconMountain,
			Target:      1000,
			Reward:      "Badge Montanhista",
			Type:        ChallengeElevation,
		},
		{
			ID:          ChallengeIDSpeed,
			Name:        "Desafio Velocidade",
			Description: "Complete uma trilha em menos de 30 minutos",
			Icon:        IconZap,
			Target:      1,
			Reward:      "Badge Velocista",
			Type:        ChallengeTime,
		},
		{
			ID:          ChallengeIDFrequency,
			Name:        "Desafio Frequência",
			Description: "Complete 5 trilhas em uma semana",
			Icon:        IconMedal,
			Target:      5,
			Reward:      "Badge Ativo",
			Type:        ChallengeFrequency,
		},
		{
			ID:          ChallengeIDEndurance,
			Name:        "Desafio Resistência",
			Description: "Complete uma trilha de mais de 2 horas",
			Icon:        IconCrown,
			Target:      1,
			Reward:      "Badge Resistente",
			Type:        ChallengeTime,
		},
	}
}

// NewGamificationState is the seed used the first time a user opens the
// gamification surface.
func NewGamificationState(userID string) GamificationState {
	return GamificationState{
		UserID:      userID,
		Badges:      DefaultBadges(),
		Challenges:  DefaultChallenges(),
		TotalPoints: 0,
		Level:       1,
	}
}
