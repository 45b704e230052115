// services/auth_service_client.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"trilha-do-cristo/utils"
)

// SupabaseAuthClient validates tokens remotely when no JWT secret is configured.
type SupabaseAuthClient struct {
	BaseURL string
	AnonKey string
	Client  *http.Client
}

type supabaseUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func NewSupabaseAuthClient(baseURL, anonKey string) *SupabaseAuthClient {
	return &SupabaseAuthClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		AnonKey: anonKey,
		Client:  utils.HTTPClient,
	}
}

// Verify calls GET /auth/v1/user with the user's access token.
func (c *SupabaseAuthClient) Verify(ctx context.Context, accessToken string) (AuthenticatedUser, error) {
	url := fmt.Sprintf("%s/auth/v1/user", c.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return AuthenticatedUser{}, err
	}
	req.Header.Set("apikey", c.AnonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.Client.Do(req)
	if err != nil {
		return AuthenticatedUser{}, fmt.Errorf("auth backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("[AUTH] /auth/v1/user returned %d: %s", resp.StatusCode, string(body))
		return AuthenticatedUser{}, fmt.Errorf("%w: status %d", ErrInvalidToken, resp.StatusCode)
	}

	var out supabaseUser
	if err := json.Unmarshal(body, &out); err != nil {
		return AuthenticatedUser{}, err
	}
	if out.ID == "" {
		return AuthenticatedUser{}, fmt.Errorf("%w: empty user", ErrInvalidToken)
	}

	return AuthenticatedUser{
		ID:    out.ID,
		Email: out.Email,
		Name:  metadataName(out.UserMetadata, out.Email),
	}, nil
}
