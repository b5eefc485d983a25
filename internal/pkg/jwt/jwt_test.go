package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	s := New("secret", time.Hour)

	token, err := s.GenerateToken(42)
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.Remaining().Seconds(), 5)
}

func TestTokensHaveDistinctIDs(t *testing.T) {
	s := New("secret", time.Hour)

	a, _ := s.GenerateToken(1)
	b, _ := s.GenerateToken(1)
	ca, err := s.ValidateToken(a)
	require.NoError(t, err)
	cb, err := s.ValidateToken(b)
	require.NoError(t, err)

	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, _ := New("one", time.Hour).GenerateToken(1)

	_, err := New("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	s := New("secret", -time.Minute)
	token, err := s.GenerateToken(1)
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
