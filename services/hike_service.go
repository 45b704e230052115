package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"

	"trilha-do-cristo/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	durationPattern = regexp.MustCompile(`^\d{1,3}:[0-5]\d$`)
	decimalPattern  = regexp.MustCompile(`^\d+([.,]\d+)?$`)
)

// CreateHikeRequest is the payload of a manual registration and the shape
// the screenshot extractor must produce.
type CreateHikeRequest struct {
	Name      string  `json:"name" validate:"max=120"`
	Date      string  `json:"date" validate:"required,hikedate"`
	Duration  string  `json:"duration" validate:"required,mmss"`
	Distance  string  `json:"distance" validate:"required,hikedecimal"`
	Elevation *string `json:"elevation,omitempty" validate:"omitempty,hikedecimal"`
	Location  *string `json:"location,omitempty" validate:"omitempty,max=160"`
	ImageURL  string  `json:"image_url,omitempty" validate:"omitempty,imageurl"`
}

// NewHikeValidator registers the hike-specific validation tags.
func NewHikeValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("mmss", func(fl validator.FieldLevel) bool {
		return durationPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("hikedecimal", func(fl validator.FieldLevel) bool {
		return decimalPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("hikedate", func(fl validator.FieldLevel) bool {
		day := dayKey(fl.Field().String())
		_, err := time.Parse(time.DateOnly, day)
		return err == nil
	})
	_ = v.RegisterValidation("imageurl", func(fl validator.FieldLevel) bool {
		return isImageURL(fl.Field().String())
	})
	return v
}

// isImageURL accepts absolute http(s) URLs and root-relative paths such as
// the /uploads/... URLs local storage hands out.
func isImageURL(raw string) bool {
	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return u.Host == "" && strings.HasPrefix(u.Path, "/") && !strings.HasPrefix(raw, "//")
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidationMessages flattens validator errors into "field: rule" strings.
func ValidationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("%s: failed on '%s'", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return out
}

type HikeService struct {
	Hikes        HikeStore
	Gamification *GamificationService
	validate     *validator.Validate
}

func NewHikeService(hikes HikeStore, gamification *GamificationService) *HikeService {
	return &HikeService{
		Hikes:        hikes,
		Gamification: gamification,
		validate:     NewHikeValidator(),
	}
}

func (s *HikeService) Validate(req CreateHikeRequest) error {
	return s.validate.Struct(req)
}

// Create validates and stores a hike, then refreshes the user's progress.
// When only the refresh fails the stored hike is returned with the error.
func (s *HikeService) Create(ctx context.Context, userID, source string, req CreateHikeRequest) (*models.Hike, models.GamificationState, error) {
	if err := s.Validate(req); err != nil {
		return nil, models.GamificationState{}, err
	}

	hike := &models.Hike{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		Date:      strings.TrimSpace(req.Date),
		Duration:  strings.TrimSpace(req.Duration),
		Distance:  strings.TrimSpace(req.Distance),
		Elevation: trimmed(req.Elevation),
		Location:  trimmed(req.Location),
		ImageURL:  req.ImageURL,
		Source:    source,
	}
	if hike.Name == "" {
		hike.Name = models.DefaultHikeName
	}

	state, err := s.Gamification.RecordHike(ctx, hike)
	if errors.Is(err, ErrProgressRefresh) {
		return hike, models.GamificationState{}, err
	}
	if err != nil {
		return nil, models.GamificationState{}, err
	}
	return hike, state, nil
}

func (s *HikeService) List(ctx context.Context, userID string) ([]models.Hike, error) {
	return s.Hikes.LoadHikes(ctx, userID)
}

// HikeSummary backs the dashboard activity cards.
type HikeSummary struct {
	HikeCount       int       `json:"hike_count"`
	TotalMinutes    int       `json:"total_minutes"`
	TotalDistanceKm float64   `json:"total_distance_km"`
	LastHikeDate    string    `json:"last_hike_date,omitempty"`
	Stats           HikeStats `json:"stats"`
}

func (s *HikeService) Summary(ctx context.Context, userID string) (HikeSummary, error) {
	hikes, err := s.Hikes.LoadHikes(ctx, userID)
	if err != nil {
		return HikeSummary{}, err
	}
	return SummarizeHikes(hikes), nil
}

// SummarizeHikes totals the dashboard figures. Unlike the badge rules, the
// time total counts seconds as fractions of a minute.
func SummarizeHikes(hikes []models.Hike) HikeSummary {
	stats := ComputeStats(hikes)
	var seconds int
	var last string
	for _, h := range hikes {
		if secs, ok := durationSeconds(h.Duration); ok {
			seconds += secs
		}
		if day := dayKey(h.Date); day > last {
			last = day
		}
	}
	return HikeSummary{
		HikeCount:       len(hikes),
		TotalMinutes:    int(math.Round(float64(seconds) / 60)),
		TotalDistanceKm: math.Round(stats.TotalDistanceKm*10) / 10,
		LastHikeDate:    last,
		Stats:           stats,
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
