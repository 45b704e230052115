package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"trilha-do-cristo/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HikeStore is the per-user hike history.
type HikeStore interface {
	LoadHikes(ctx context.Context, userID string) ([]models.Hike, error)
	SaveHike(ctx context.Context, hike *models.Hike) error
}

// GamificationStore persists the derived gamification state.
// LoadState returns (nil, nil) when the user has no saved state yet.
type GamificationStore interface {
	LoadState(ctx context.Context, userID string) (*models.GamificationState, error)
	SaveState(ctx context.Context, userID string, state models.GamificationState) error
}

type GormHikeStore struct {
	DB *gorm.DB
}

func NewGormHikeStore(db *gorm.DB) *GormHikeStore {
	return &GormHikeStore{DB: db}
}

// LoadHikes returns the user's hikes, newest first.
func (s *GormHikeStore) LoadHikes(ctx context.Context, userID string) ([]models.Hike, error) {
	var hikes []models.Hike
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&hikes).Error
	if err != nil {
		return nil, fmt.Errorf("load hikes for %s: %w", userID, err)
	}
	return hikes, nil
}

func (s *GormHikeStore) SaveHike(ctx context.Context, hike *models.Hike) error {
	if err := s.DB.WithContext(ctx).Create(hike).Error; err != nil {
		return fmt.Errorf("save hike %s: %w", hike.ID, err)
	}
	return nil
}

// AllHikes is used by the ranking job; it streams every user's history.
func (s *GormHikeStore) AllHikes(ctx context.Context) ([]models.Hike, error) {
	var hikes []models.Hike
	if err := s.DB.WithContext(ctx).Order("created_at ASC").Find(&hikes).Error; err != nil {
		return nil, fmt.Errorf("load all hikes: %w", err)
	}
	return hikes, nil
}

type GormGamificationStore struct {
	DB *gorm.DB
}

func NewGormGamificationStore(db *gorm.DB) *GormGamificationStore {
	return &GormGamificationStore{DB: db}
}

func (s *GormGamificationStore) LoadState(ctx context.Context, userID string) (*models.GamificationState, error) {
	var state models.GamificationState
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		// unreadable rows are rebuilt from the catalog on the next save
		log.Printf("⚠️ [GAMIFICATION] discarding malformed state for %s: %v", userID, err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load gamification state for %s: %w", userID, err)
	}
	return &state, nil
}

// SaveState upserts the whole derived state; the last writer wins.
func (s *GormGamificationStore) SaveState(ctx context.Context, userID string, state models.GamificationState) error {
	state.UserID = userID
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"badges", "challenges", "total_points", "level", "updated_at"}),
	}).Create(&state).Error
	if err != nil {
		return fmt.Errorf("save gamification state for %s: %w", userID, err)
	}
	return nil
}
