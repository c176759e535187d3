package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSignature = errors.New("auth: invalid token signature")
	ErrMalformedToken   = errors.New("auth: malformed token")
)

type UserClaim struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Claims carry the email as subject plus a user snapshot.
type Claims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// UserFinder is satisfied by the user repository.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type Options struct {
	Secret string
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

type JWTer struct {
	secret    []byte
	ephemeral bool
	issuer    string
	ttl       time.Duration
	now       func() time.Time
	users     UserFinder
}

// NewJWTer signs with o.Secret, or with 32 random bytes when it is empty.
func NewJWTer(o Options, users UserFinder) (*JWTer, error) {
	j := &JWTer{secret: []byte(o.Secret), issuer: o.Issuer, ttl: o.TTL, now: o.Now, users: users}
	if j.now == nil {
		j.now = time.Now
	}
	if len(j.secret) == 0 {
		j.secret = make([]byte, 32)
		if _, err := rand.Read(j.secret); err != nil {
			return nil, fmt.Errorf("auth: generate signing key: %w", err)
		}
		j.ephemeral = true
	}
	return j, nil
}

// Ephemeral reports whether the key was generated at start-up, in which
// case tokens do not survive a restart and other processes cannot verify them.
func (j *JWTer) Ephemeral() bool { return j.ephemeral }

func (j *JWTer) Issue(ctx context.Context, username string) (string, error) {
	u, err := j.users.FindByEmail(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", apperr.NotFound("user %s not found", username)
	}
	now := j.now()
	claims := Claims{
		User: UserClaim{ID: u.ID, Email: u.Email},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

// parse verifies the signature only; expiry is judged by IsValid.
func (j *JWTer) parse(token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", t.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok {
		return nil, ErrMalformedToken
	}
	return c, nil
}

func (j *JWTer) ExtractSubject(token string) (string, error) {
	c, err := j.parse(token)
	if err != nil {
		return "", err
	}
	return c.Subject, nil
}

// IsValid reports whether token names expected and expires strictly after now.
// There is no revocation.
func (j *JWTer) IsValid(token, expected string) bool {
	c, err := j.parse(token)
	if err != nil || c.ExpiresAt == nil {
		return false
	}
	return c.Subject == expected && c.ExpiresAt.After(j.now())
}
