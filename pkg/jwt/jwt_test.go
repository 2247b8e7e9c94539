package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

var admin = Identity{StaffID: 1, Email: "admin@techbookstore.local", Name: "管理员", Role: "ADMIN"}

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", 15*time.Minute, 24*time.Hour)

	pair, err := m.GenerateToken(admin)
	require.NoError(t, err)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := m.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.StaffID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "1", claims.Subject)
}

func TestParseAccessToken_RejectsRefreshToken(t *testing.T) {
	m := NewManager("test-secret", 15*time.Minute, 24*time.Hour)
	pair, err := m.GenerateToken(admin)
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = m.ParseRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestParseAccessToken_Expired(t *testing.T) {
	m := NewManager("test-secret", time.Minute, time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }

	pair, err := m.GenerateToken(admin)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	pair, err := NewManager("secret-a", time.Minute, time.Hour).GenerateToken(admin)
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Minute, time.Hour).ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefreshAccessToken(t *testing.T) {
	m := NewManager("test-secret", 15*time.Minute, 24*time.Hour)
	pair, err := m.GenerateToken(admin)
	require.NoError(t, err)

	promoted := admin
	promoted.Name = "店长"
	token, err := m.RefreshAccessToken(pair.RefreshToken, promoted)
	require.NoError(t, err)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "店长", claims.Name)

	_, err = m.RefreshAccessToken(pair.RefreshToken, Identity{StaffID: 2})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
