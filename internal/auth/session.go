package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/arbor-dev/arbor/internal/models"
	"gorm.io/gorm"
)

const (
	tokenBytes  = 64
	sessionLife = 30 * 24 * time.Hour
)

// GenerateSessionToken returns an opaque URL-safe bearer token.
func GenerateSessionToken() (string, error) {
	buf := make([]byte, tokenBytes)

	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// CreateSession issues a fresh 30-day session for the user. Every
// successful auth path writes exactly one session row; existing sessions
// are never rotated out.
func CreateSession(tx *gorm.DB, userID uint) (*models.Session, error) {
	token, err := GenerateSessionToken()

	if err != nil {
		return nil, err
	}

	session := models.Session{
		UserID:       userID,
		SessionToken: token,
		ExpiresAt:    time.Now().UTC().Add(sessionLife),
	}

	if err := tx.Create(&session).Error; err != nil {
		return nil, err
	}

	return &session, nil
}
