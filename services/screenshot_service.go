package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path"
	"strings"

	"trilha-do-cristo/utils"

	"github.com/google/uuid"
)

const MaxImageBytes = 10 << 20

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// ErrUnsupportedImage is returned for uploads that are not a known image type
// or exceed MaxImageBytes.
var ErrUnsupportedImage = errors.New("unsupported image upload")

// ScreenshotDraft is what the user reviews before confirming with POST /hikes.
type ScreenshotDraft struct {
	Hike     CreateHikeRequest `json:"hike"`
	ImageURL string            `json:"image_url"`
	Problems []string          `json:"problems,omitempty"`
}

type ScreenshotService struct {
	Storage   utils.ObjectStorage
	Extractor HikeExtractor // nil when no model is configured
	Limiter   RateLimiter
	Hikes     *HikeService
}

func NewScreenshotService(storage utils.ObjectStorage, extractor HikeExtractor, limiter RateLimiter, hikes *HikeService) *ScreenshotService {
	return &ScreenshotService{Storage: storage, Extractor: extractor, Limiter: limiter, Hikes: hikes}
}

// UploadImage stores an image under prefix/<user>/<uuid><ext> and returns its URL.
func (s *ScreenshotService) UploadImage(ctx context.Context, prefix, userID string, body []byte, declaredType string) (string, string, error) {
	contentType, ext, err := detectImage(body, declaredType)
	if err != nil {
		return "", "", err
	}
	key := path.Join(prefix, userID, uuid.NewString()+ext)
	url, err := s.Storage.Put(ctx, key, body, contentType)
	if err != nil {
		return "", "", fmt.Errorf("store %s: %w", key, err)
	}
	return url, contentType, nil
}

// Extract stores the screenshot and asks the model for a hike draft.
// The draft is validated but not saved.
func (s *ScreenshotService) Extract(ctx context.Context, userID string, body []byte, declaredType string) (ScreenshotDraft, error) {
	if s.Extractor == nil {
		return ScreenshotDraft{}, ErrExtractorDisabled
	}
	if s.Limiter != nil {
		ok, err := s.Limiter.Allow(ctx, userID)
		if err != nil {
			// limiter outages should not block uploads
			log.Printf("⚠️ [SCREENSHOT] rate limiter unavailable: %v", err)
		} else if !ok {
			return ScreenshotDraft{}, ErrRateLimited
		}
	}

	url, contentType, err := s.UploadImage(ctx, "hike-screenshots", userID, body, declaredType)
	if err != nil {
		return ScreenshotDraft{}, err
	}

	req, err := s.Extractor.ExtractHike(ctx, body, contentType)
	if err != nil {
		log.Printf("❌ [SCREENSHOT] extraction failed for user %s: %v", userID, err)
		if errors.Is(err, ErrInvalidExtraction) {
			return ScreenshotDraft{}, err
		}
		return ScreenshotDraft{}, fmt.Errorf("%w: %v", ErrInvalidExtraction, err)
	}
	req.ImageURL = url

	draft := ScreenshotDraft{Hike: req, ImageURL: url}
	if err := s.Hikes.Validate(req); err != nil {
		if req.Duration == "" && req.Distance == "" {
			return ScreenshotDraft{}, fmt.Errorf("%w: no activity data found", ErrInvalidExtraction)
		}
		draft.Problems = ValidationMessages(err)
	}
	log.Printf("📸 [SCREENSHOT] draft extracted for user %s (%s km in %s)", userID, req.Distance, req.Duration)
	return draft, nil
}

// detectImage trusts the bytes, not the declared type. HEIC is the one
// format the sniffer cannot name, so it is accepted on the ftyp brand.
func detectImage(body []byte, declared string) (string, string, error) {
	if len(body) == 0 || len(body) > MaxImageBytes {
		return "", "", ErrUnsupportedImage
	}
	sniffed := http.DetectContentType(body)
	if ext, ok := imageExtensions[sniffed]; ok {
		return sniffed, ext, nil
	}
	if isHEIC(body) {
		return "image/heic", imageExtensions["image/heic"], nil
	}
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = declared[:i]
	}
	log.Printf("🚫 [UPLOAD] rejected %q upload sniffed as %q", declared, sniffed)
	return "", "", ErrUnsupportedImage
}

var heicBrands = map[string]bool{
	"heic": true, "heix": true, "heim": true, "heis": true,
	"hevc": true, "hevx": true, "mif1": true, "msf1": true,
}

func isHEIC(body []byte) bool {
	if len(body) < 12 || string(body[4:8]) != "ftyp" {
		return false
	}
	return heicBrands[string(body[8:12])]
}
