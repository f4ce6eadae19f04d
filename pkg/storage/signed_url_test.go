package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("test_secret", time.Hour)

	token, expiresAt, err := signer.Generate("r1", "inventory/r1.csv")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	reportID, relPath, gotExpiry, err := signer.Parse(token, false)
	require.NoError(t, err)
	assert.Equal(t, "r1", reportID)
	assert.Equal(t, "inventory/r1.csv", relPath)
	assert.Equal(t, expiresAt.Unix(), gotExpiry.Unix())
}

func TestSignedURLRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("test_secret", time.Hour)

	token, _, err := signer.Generate("r1", "inventory/r1.csv")
	require.NoError(t, err)

	// Swapping the report id invalidates the signature.
	parts := strings.SplitN(token, ".", 2)
	forged := "r2." + parts[1]
	_, _, _, err = signer.Parse(forged, false)
	require.Error(t, err)

	_, _, _, err = signer.Parse("not-a-token", false)
	require.Error(t, err)
}

func TestSignedURLRejectsWrongSecret(t *testing.T) {
	signer := NewSignedURLSigner("secret_a", time.Hour)
	other := NewSignedURLSigner("secret_b", time.Hour)

	token, _, err := signer.Generate("r1", "inventory/r1.csv")
	require.NoError(t, err)

	_, _, _, err = other.Parse(token, false)
	require.Error(t, err)
}

func TestSignedURLExpiry(t *testing.T) {
	signer := NewSignedURLSigner("test_secret", -time.Hour)
	// Non-positive TTL falls back to the default window.
	assert.Equal(t, 24*time.Hour, signer.ttl)

	expired := &SignedURLSigner{secret: []byte("test_secret"), ttl: -time.Minute}
	token, _, err := expired.Generate("r1", "inventory/r1.csv")
	require.NoError(t, err)

	_, _, _, err = expired.Parse(token, false)
	require.Error(t, err)

	// Cleanup paths still need the embedded location after expiry.
	reportID, relPath, _, err := expired.Parse(token, true)
	require.NoError(t, err)
	assert.Equal(t, "r1", reportID)
	assert.Equal(t, "inventory/r1.csv", relPath)
}

func TestSignedURLRequiresInput(t *testing.T) {
	signer := NewSignedURLSigner("test_secret", time.Hour)

	_, _, err := signer.Generate("", "inventory/r1.csv")
	require.Error(t, err)

	_, _, err = signer.Generate("r1", "")
	require.Error(t, err)
}
