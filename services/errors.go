package services

import "errors"

var (
	ErrExtractorDisabled = errors.New("screenshot extraction is not configured")
	ErrInvalidExtraction = errors.New("could not read hike data from screenshot")
	ErrRateLimited       = errors.New("too many extraction requests, try again later")
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidToken      = errors.New("invalid or expired access token")
	ErrProgressRefresh   = errors.New("progress refresh failed")
)
