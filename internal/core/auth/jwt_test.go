package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type finderFunc func(ctx context.Context, email string) (*domain.User, error)

func (f finderFunc) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return f(ctx, email)
}

func oneUser(email string) UserFinder {
	return finderFunc(func(_ context.Context, e string) (*domain.User, error) {
		if e != email {
			return nil, nil
		}
		return &domain.User{Model: domain.Model{ID: "u-1"}, Email: email}, nil
	})
}

func newJWTer(t *testing.T, secret string, ttl time.Duration, now func() time.Time) *JWTer {
	t.Helper()
	j, err := NewJWTer(Options{Secret: secret, Issuer: "test", TTL: ttl, Now: now}, oneUser("a@x.io"))
	require.NoError(t, err)
	return j
}

func TestIssueRoundTrip(t *testing.T) {
	j := newJWTer(t, "s3cret", 10*time.Hour, nil)
	tok, err := j.Issue(context.Background(), "a@x.io")
	require.NoError(t, err)

	sub, err := j.ExtractSubject(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", sub)
	assert.True(t, j.IsValid(tok, "a@x.io"))
	assert.False(t, j.IsValid(tok, "b@x.io"))

	c, err := j.parse(tok)
	require.NoError(t, err)
	assert.Equal(t, UserClaim{ID: "u-1", Email: "a@x.io"}, c.User)
}

func TestIssueUnknownUser(t *testing.T) {
	j := newJWTer(t, "s3cret", time.Hour, nil)
	_, err := j.Issue(context.Background(), "nobody@x.io")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestZeroTTLIsNeverValid(t *testing.T) {
	j := newJWTer(t, "s3cret", 0, nil)
	tok, err := j.Issue(context.Background(), "a@x.io")
	require.NoError(t, err)

	// signature still verifies
	sub, err := j.ExtractSubject(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", sub)
	assert.False(t, j.IsValid(tok, "a@x.io"))
}

func TestExpiryUsesClock(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	j := newJWTer(t, "s3cret", time.Hour, func() time.Time { return now })
	tok, err := j.Issue(context.Background(), "a@x.io")
	require.NoError(t, err)

	now = now.Add(59 * time.Minute)
	assert.True(t, j.IsValid(tok, "a@x.io"))
	now = now.Add(time.Minute)
	assert.False(t, j.IsValid(tok, "a@x.io"))
}

func TestTamperedToken(t *testing.T) {
	j := newJWTer(t, "s3cret", time.Hour, nil)
	tok, err := j.Issue(context.Background(), "a@x.io")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	_, err = j.ExtractSubject(parts[0] + "." + parts[1] + "." + string(sig))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	other := newJWTer(t, "other", time.Hour, nil)
	_, err = other.ExtractSubject(tok)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.False(t, other.IsValid(tok, "a@x.io"))

	_, err = j.ExtractSubject("not-a-token")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestEphemeralKey(t *testing.T) {
	a := newJWTer(t, "", time.Hour, nil)
	b := newJWTer(t, "", time.Hour, nil)
	assert.True(t, a.Ephemeral())

	tok, err := a.Issue(context.Background(), "a@x.io")
	require.NoError(t, err)
	assert.True(t, a.IsValid(tok, "a@x.io"))
	assert.False(t, b.IsValid(tok, "a@x.io"))
}
