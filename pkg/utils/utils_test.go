package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfirmationToken(t *testing.T) {
	alnum := regexp.MustCompile(`^[A-Za-z0-9]+$`)
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		token, err := GenerateConfirmationToken()
		require.NoError(t, err)
		assert.Len(t, token, ConfirmationTokenLength)
		assert.Regexp(t, alnum, token)
		assert.False(t, seen[token], "duplicate token %s", token)
		seen[token] = true
	}
}

func TestGenerateDocumentNumber(t *testing.T) {
	issued := time.Date(2026, time.October, 7, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-1007-001", GenerateDocumentNumber(issued, 1))
	assert.Equal(t, "2026-1007-012", GenerateDocumentNumber(issued, 12))
	assert.Equal(t, "2026-1007-001", GenerateDocumentNumber(issued, 0))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID(uuid.New().String()))
	assert.False(t, IsUUID("K2026-0001"))
	assert.False(t, IsUUID("abc123firebase"))
	assert.False(t, IsUUID(""))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("umzug2026")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("umzug2026", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	access, err := m.GenerateAccessToken(userID, "buero@relocato.de", []string{"admin"}, []string{"manage-quotes"})
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, []string{"manage-quotes"}, claims.Permissions)

	refresh, err := m.GenerateRefreshToken(userID)
	require.NoError(t, err)
	got, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = NewJWTManager("other", time.Hour, time.Hour).ValidateAccessToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTTokenKindsAreNotInterchangeable(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	access, err := m.GenerateAccessToken(userID, "buero@relocato.de", []string{"staff"}, nil)
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken(userID)
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTExpiry(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	issued := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	access, err := m.GenerateAccessToken(uuid.New(), "buero@relocato.de", nil, nil)
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(access)
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.ValidateAccessToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
