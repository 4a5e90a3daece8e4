package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("test-secret", 30*time.Minute, 24*time.Hour)
}

func TestGeneratePairAndVerify(t *testing.T) {
	m := newTestManager()

	pair, err := m.GeneratePair(42, "session-abc")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, int64(1800), pair.ExpiresIn)

	claims, err := m.Verify(pair.AccessToken, TypeAccess)
	require.NoError(t, err)
	require.Equal(t, uint64(42), claims.UserID)
	require.Equal(t, "session-abc", claims.Session)
	require.Equal(t, TypeAccess, claims.TokenType)

	refreshClaims, err := m.Verify(pair.RefreshToken, TypeRefresh)
	require.NoError(t, err)
	require.Equal(t, "session-abc", refreshClaims.Session)
}

func TestVerifyRejectsWrongType(t *testing.T) {
	m := newTestManager()

	pair, err := m.GeneratePair(1, "s")
	require.NoError(t, err)

	_, err = m.Verify(pair.RefreshToken, TypeAccess)
	require.ErrorIs(t, err, ErrWrongType)

	_, err = m.Verify(pair.AccessToken, TypeRefresh)
	require.ErrorIs(t, err, ErrWrongType)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, -time.Minute)

	pair, err := m.GeneratePair(1, "s")
	require.NoError(t, err)

	_, err = m.Verify(pair.AccessToken, TypeAccess)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager("another-secret", 30*time.Minute, 24*time.Hour)

	pair, err := m.GeneratePair(1, "s")
	require.NoError(t, err)

	_, err = other.Verify(pair.AccessToken, TypeAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager()

	_, err := m.Verify("not-a-token", TypeAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}
