package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionToken_RoundTripAndExpiry(t *testing.T) {
	secret, err := loadOrInitSecretKey(t.TempDir())
	require.NoError(t, err)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tok, err := newSessionToken(secret, "usr-abc", now)
	require.NoError(t, err)

	sp, err := verifyToken(secret, tok, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, "usr-abc", sp.Sub)
	require.NotEmpty(t, sp.N)

	_, err = verifyToken(secret, tok, now.Add(sessionTTL+time.Minute))
	require.Error(t, err)
}

func TestSessionToken_RejectsTampering(t *testing.T) {
	secret, err := loadOrInitSecretKey(t.TempDir())
	require.NoError(t, err)
	tok, err := newSessionToken(secret, "usr-abc", time.Now())
	require.NoError(t, err)

	_, err = verifyToken([]byte("other-secret"), tok, time.Now())
	require.Error(t, err)
	_, err = verifyToken(secret, tok+"x", time.Now())
	require.Error(t, err)
}

func TestSecretKey_IsStable(t *testing.T) {
	dir := t.TempDir()
	a, err := loadOrInitSecretKey(dir)
	require.NoError(t, err)
	b, err := loadOrInitSecretKey(dir)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
