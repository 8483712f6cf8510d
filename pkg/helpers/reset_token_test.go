package helpers

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokenGenerator_FormatAndExpiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	g := &ResetTokenGenerator{Now: func() time.Time { return now }, TTL: time.Hour}

	tok, exp, err := g.Generate()
	require.NoError(t, err)
	assert.Len(t, tok, 64)
	raw, err := hex.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
	assert.Equal(t, now.Add(time.Hour), exp)
}

func TestResetTokenGenerator_Unique(t *testing.T) {
	g := NewResetTokenGenerator()
	seen := make(map[string]struct{}, 500)
	for i := 0; i < 500; i++ {
		tok, _, err := g.Generate()
		require.NoError(t, err)
		_, dup := seen[tok]
		require.False(t, dup, "duplicate token %s", tok)
		seen[tok] = struct{}{}
	}
}

func TestResetTokenGenerator_ZeroValueDefaults(t *testing.T) {
	var g ResetTokenGenerator
	before := time.Now()
	_, exp, err := g.Generate()
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(ResetTokenTTL), exp, 5*time.Second)
}
