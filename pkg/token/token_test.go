package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignParseRoundTrip(t *testing.T) {
	s := NewSigner("secret", "gac")
	raw, err := s.Sign("u1", "s1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := s.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "s1", claims.SessionID)
}

func TestParseRejects(t *testing.T) {
	s := NewSigner("secret", "gac")

	expired, err := s.Sign("u1", "s1", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = s.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalid)

	foreign, err := NewSigner("other", "gac").Sign("u1", "s1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = s.Parse(foreign)
	assert.ErrorIs(t, err, ErrInvalid)

	wrongIssuer, err := NewSigner("secret", "elsewhere").Sign("u1", "s1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = s.Parse(wrongIssuer)
	assert.ErrorIs(t, err, ErrInvalid)

	noSession, err := s.Sign("u1", "", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = s.Parse(noSession)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = s.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalid)
}
