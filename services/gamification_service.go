package services

import (
	"context"
	"fmt"
	"log"

	"trilha-do-cristo/models"
)

type GamificationService struct {
	Hikes  HikeStore
	States GamificationStore
}

func NewGamificationService(hikes HikeStore, states GamificationStore) *GamificationService {
	return &GamificationService{Hikes: hikes, States: states}
}

// Refresh loads the user's history and saved state, reconciles the state with
// the current catalog, recomputes progress and persists the result.
func (s *GamificationService) Refresh(ctx context.Context, userID string) (models.GamificationState, error) {
	hikes, err := s.Hikes.LoadHikes(ctx, userID)
	if err != nil {
		return models.GamificationState{}, err
	}

	persisted, err := s.States.LoadState(ctx, userID)
	if err != nil {
		return models.GamificationState{}, err
	}

	previous := ReconcileCatalog(userID, persisted)
	updated := RecomputeProgress(hikes, previous)

	if err := s.States.SaveState(ctx, userID, updated); err != nil {
		return models.GamificationState{}, err
	}

	logUnlocks(userID, previous, updated)
	return updated, nil
}

// RecordHike stores a new hike and refreshes the derived state in one go.
func (s *GamificationService) RecordHike(ctx context.Context, hike *models.Hike) (models.GamificationState, error) {
	if err := s.Hikes.SaveHike(ctx, hike); err != nil {
		return models.GamificationState{}, err
	}
	state, err := s.Refresh(ctx, hike.UserID)
	if err != nil {
		return models.GamificationState{}, fmt.Errorf("hike %s saved but %w: %v", hike.ID, ErrProgressRefresh, err)
	}
	return state, nil
}

func logUnlocks(userID string, before, after models.GamificationState) {
	earned := make(map[string]bool, len(before.Badges))
	for _, b := range before.Badges {
		earned[b.ID] = b.Earned
	}
	for _, b := range after.Badges {
		if b.Earned && !earned[b.ID] {
			log.Printf("🎖️ [GAMIFICATION] Badge earned: %s → %s", b.Name, userID)
		}
	}

	completed := make(map[string]bool, len(before.Challenges))
	for _, c := range before.Challenges {
		completed[c.ID] = c.Completed
	}
	for _, c := range after.Challenges {
		if c.Completed && !completed[c.ID] {
			log.Printf("🏁 [GAMIFICATION] Challenge completed: %s → %s (reward: %s)", c.Name, userID, c.Reward)
		}
	}
}
