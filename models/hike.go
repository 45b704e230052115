package models

import (
	"time"
)

const (
	HikeSourceManual     = "manual"
	HikeSourceScreenshot = "screenshot"
)

// DefaultHikeName is used when a hike is registered without a trail name.
const DefaultHikeName = "Trilha do Cristo"

// Hike is one recorded activity. Numeric fields are kept as the text the
// user (or the extraction model) supplied; parsing happens in the engine.
type Hike struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Name      string    `json:"name"`
	Date      string    `json:"date" gorm:"not null"`     // ISO date, optionally with a time part
	Duration  string    `json:"duration" gorm:"not null"` // MM:SS
	Distance  string    `json:"distance" gorm:"not null"` // km
	Elevation *string   `json:"elevation,omitempty"`      // m
	Location  *string   `json:"location,omitempty"`
	ImageURL  string    `json:"image_url,omitempty" gorm:"type:text"`
	Source    string    `json:"source" gorm:"type:varchar(16);default:'manual'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
