package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", 30*time.Minute)
	id := uuid.New()

	token, err := issuer.Issue(id, testDNI, time.Now())
	require.NoError(t, err)

	got, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenIssuer_RejectsOtherSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret", time.Minute).Issue(uuid.New(), testDNI, time.Now())
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Minute).Parse(token)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", 30*time.Minute)

	token, err := issuer.Issue(uuid.New(), testDNI, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	_, err := NewTokenIssuer("secret", time.Minute).Parse("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}
