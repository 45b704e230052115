package models

import (
	"time"
)

// HikerProfile is a local snapshot of the auth backend's profile row,
// kept only for what the ranking needs to display.
// Populated by the profile sync worker.
type HikerProfile struct {
	ExternalUserID string    `gorm:"primaryKey" json:"external_user_id"`
	DisplayName    string    `gorm:"index" json:"display_name"`
	City           string    `json:"city,omitempty"`
	AvatarURL      *string   `json:"avatar_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RemoteProfile mirrors a row of the auth backend's `profiles` table (read-only).
type RemoteProfile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	City      *string   `json:"city,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
