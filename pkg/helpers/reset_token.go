package helpers

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

const (
	// ResetTokenBytes is the token entropy in bytes; the hex form is twice as long.
	ResetTokenBytes = 32
	ResetTokenTTL   = time.Hour
)

// ResetTokenGenerator issues password reset tokens stamped with an expiry.
type ResetTokenGenerator struct {
	Now func() time.Time
	TTL time.Duration
}

func NewResetTokenGenerator() *ResetTokenGenerator {
	return &ResetTokenGenerator{Now: time.Now, TTL: ResetTokenTTL}
}

// Generate returns a 64-char hex token from crypto/rand and now+TTL.
func (g *ResetTokenGenerator) Generate() (string, time.Time, error) {
	b := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", time.Time{}, err
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	ttl := g.TTL
	if ttl <= 0 {
		ttl = ResetTokenTTL
	}
	return hex.EncodeToString(b), now().Add(ttl), nil
}
