// config/config.go
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"trilha-do-cristo/utils"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string   `env:"PORT" envDefault:"5200"`
	DatabaseURL    string   `env:"DATABASE_URL,required,notEmpty"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	ServiceToken   string   `env:"SERVICE_TOKEN"`
	BodyLimit      int      `env:"BODY_LIMIT" envDefault:"12582912"`
	PublicDir      string   `env:"PUBLIC_DIR" envDefault:"./public"`
	UploadDir      string   `env:"UPLOAD_DIR" envDefault:"./uploads"`

	SupabaseURL            string `env:"SUPABASE_URL"`
	SupabaseAnonKey        string `env:"SUPABASE_ANON_KEY"`
	SupabaseServiceRoleKey string `env:"SUPABASE_SERVICE_ROLE_KEY"`
	SupabaseJWTSecret      string `env:"SUPABASE_JWT_SECRET"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	R2 utils.R2Config

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	ExtractionLimit        int           `env:"EXTRACTION_LIMIT" envDefault:"10"`
	ExtractionWindow       time.Duration `env:"EXTRACTION_WINDOW" envDefault:"1h"`
	RankingRefreshInterval time.Duration `env:"RANKING_REFRESH_INTERVAL" envDefault:"10m"`
	ProfileSyncInterval    time.Duration `env:"PROFILE_SYNC_INTERVAL" envDefault:"5m"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	for i, origin := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
	}
	if cfg.ExtractionLimit <= 0 {
		return nil, fmt.Errorf("invalid configuration: EXTRACTION_LIMIT must be positive")
	}
	if cfg.RankingRefreshInterval <= 0 || cfg.ProfileSyncInterval <= 0 {
		return nil, fmt.Errorf("invalid configuration: refresh intervals must be positive")
	}
	return cfg, nil
}

// AuthMode names the token verifier main will build.
func (c *Config) AuthMode() string {
	switch {
	case c.SupabaseJWTSecret != "":
		return "jwt"
	case c.SupabaseURL != "" && c.SupabaseAnonKey != "":
		return "remote"
	default:
		return ""
	}
}
