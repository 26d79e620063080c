package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/dkl25/admin-api/pkg/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken signs a token shaped like a Supabase access token.
// Used by tests and local tooling; production tokens come from Supabase Auth.
func GenerateToken(secret string, user models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  "authenticated",
		"app_metadata": map[string]interface{}{
			"role": string(user.Role),
		},
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a Supabase access token and extracts the caller.
// Tokens without app_metadata.role are treated as editors.
func ParseToken(tokenString, secret string) (*models.User, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if role, _ := claims["role"].(string); role == "anon" {
		return nil, errors.New("anonymous token is not allowed")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token has no subject")
	}
	email, _ := claims["email"].(string)

	user := &models.User{ID: sub, Email: email, Role: models.RoleEditor}
	if meta, ok := claims["app_metadata"].(map[string]interface{}); ok {
		if r, ok := meta["role"].(string); ok && r != "" {
			user.Role = models.Role(r)
		}
	}
	return user, nil
}
