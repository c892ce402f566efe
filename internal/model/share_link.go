package model

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// DefaultShareLinkTTL is how long a minted share link stays valid.
const DefaultShareLinkTTL = 30 * 24 * time.Hour

// GenerateShareToken generates a new random share-link token.
func GenerateShareToken() (string, error) {
	// Generate 32 random bytes
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(bytes), nil
}
