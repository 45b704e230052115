package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AuthenticatedUser is the identity attached to a request after verification.
type AuthenticatedUser struct {
	ID    string
	Email string
	Name  string
}

// TokenVerifier turns a bearer token into a user.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (AuthenticatedUser, error)
}

type supabaseClaims struct {
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

// JWTVerifier checks Supabase access tokens locally with the project's HS256 secret.
type JWTVerifier struct {
	secret   []byte
	audience string
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), audience: "authenticated"}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (AuthenticatedUser, error) {
	claims := &supabaseClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return AuthenticatedUser{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return AuthenticatedUser{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return AuthenticatedUser{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  metadataName(claims.UserMetadata, claims.Email),
	}, nil
}

// metadataName picks the display name the signup form stored.
func metadataName(meta map[string]any, email string) string {
	for _, key := range []string{"full_name", "name"} {
		if v, ok := meta[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if local, _, ok := strings.Cut(email, "@"); ok {
		return local
	}
	return ""
}
