// workers/profile_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"trilha-do-cristo/models"
	"trilha-do-cristo/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileSource lists profiles changed after since, oldest first.
type ProfileSource interface {
	ProfilesSince(ctx context.Context, since time.Time) ([]models.RemoteProfile, error)
}

// SupabaseProfileSource reads the `profiles` table through PostgREST.
type SupabaseProfileSource struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

func NewSupabaseProfileSource(baseURL, serviceKey string) *SupabaseProfileSource {
	return &SupabaseProfileSource{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: utils.HTTPClient,
	}
}

func (s *SupabaseProfileSource) ProfilesSince(ctx context.Context, since time.Time) ([]models.RemoteProfile, error) {
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Supabase URL '%s': %w", s.baseURL, err)
	}
	endpointURL := base.JoinPath("/rest/v1/profiles")

	q := endpointURL.Query()
	q.Set("select", "id,full_name,city,avatar_url,created_at,updated_at")
	q.Set("updated_at", "gt."+since.UTC().Format(time.RFC3339Nano))
	q.Set("order", "updated_at.asc")
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request to profiles failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("profiles non-200 response: %d %s", resp.StatusCode, string(body))
	}

	var profiles []models.RemoteProfile
	if err := json.NewDecoder(resp.Body).Decode(&profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles response: %w", err)
	}
	return profiles, nil
}

// ProfileSyncWorker mirrors display names and cities into hiker_profiles
// for the ranking.
type ProfileSyncWorker struct {
	db       *gorm.DB
	source   ProfileSource
	interval time.Duration
}

func NewProfileSyncWorker(db *gorm.DB, source ProfileSource, interval time.Duration) *ProfileSyncWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &ProfileSyncWorker{db: db, source: source, interval: interval}
}

// Run syncs immediately and then on every tick until ctx is cancelled.
func (w *ProfileSyncWorker) Run(ctx context.Context) error {
	log.Println("🔁 Starting Profile Sync Worker (profiles → hiker_profiles)…")

	if _, err := w.SyncOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("⚠️ Initial profile sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.SyncOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("❌ Profile sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Profile Sync Worker stopped")
			return nil
		}
	}
}

// lastSyncTime is the newest updated_at already mirrored, zero when empty.
func (w *ProfileSyncWorker) lastSyncTime(ctx context.Context) time.Time {
	var latest []models.HikerProfile
	err := w.db.WithContext(ctx).Order("updated_at DESC").Limit(1).Find(&latest).Error
	if err != nil || len(latest) == 0 {
		return time.Unix(0, 0)
	}
	return latest[0].UpdatedAt
}

// SyncOnce pulls one batch of changes and returns how many rows were upserted.
func (w *ProfileSyncWorker) SyncOnce(ctx context.Context) (int, error) {
	since := w.lastSyncTime(ctx)
	profiles, err := w.source.ProfilesSince(ctx, since)
	if err != nil {
		return 0, err
	}
	if len(profiles) == 0 {
		return 0, nil
	}

	var upsertCount, errorCount int
	for _, remote := range profiles {
		if remote.ID == "" {
			continue
		}
		local := models.HikerProfile{
			ExternalUserID: remote.ID,
			DisplayName:    remote.FullName,
			AvatarURL:      remote.AvatarURL,
			CreatedAt:      remote.CreatedAt,
			UpdatedAt:      remote.UpdatedAt,
		}
		if remote.City != nil {
			local.City = *remote.City
		}

		if err := w.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "city", "avatar_url", "updated_at"}),
		}).Create(&local).Error; err != nil {
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to upsert hiker_profile (id=%q): %v", remote.ID, err)
			continue
		}
		upsertCount++
	}

	log.Printf("[SYNC] ✅ Synced %d profiles (%d upserted, %d errors)", len(profiles), upsertCount, errorCount)
	return upsertCount, nil
}
