package service

import (
	"context"
	"time"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/domain"
	"go-gin-ecommerce/pkg/utils"

	"go.uber.org/zap"
)

type TokenIssuer interface {
	Issue(ctx context.Context, username string) (string, error)
}

type AuthService struct {
	store           domain.Store
	tokens          TokenIssuer
	details         *UserDetailsService
	notifier        *Notifier
	log             *zap.Logger
	verificationTTL time.Duration
	resetTTL        time.Duration
	now             func() time.Time
}

func NewAuthService(store domain.Store, tokens TokenIssuer, details *UserDetailsService, n *Notifier, opts Options, l *zap.Logger) *AuthService {
	return &AuthService{
		store:           store,
		tokens:          tokens,
		details:         details,
		notifier:        n,
		log:             l,
		verificationTTL: opts.VerificationTTL,
		resetTTL:        opts.ResetTTL,
		now:             opts.clock(),
	}
}

// expired reports whether a token stamped at issuedAt is older than ttl.
func (s *AuthService) expired(issuedAt *time.Time, ttl time.Duration) bool {
	return issuedAt == nil || s.now().Sub(*issuedAt) > ttl
}

// Signup creates an unverified local user and mails the verification link.
// A failed mail rolls the user back.
func (s *AuthService) Signup(ctx context.Context, email, password string) (string, error) {
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		taken, err := tx.Users().EmailTaken(ctx, email, "")
		if err != nil {
			return err
		}
		if taken {
			return apperr.Invalid(apperr.MsgEmailAlreadyRegistered)
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			return apperr.Internal(err, "hash password")
		}
		token := utils.NewID()
		now := s.now()
		u := &domain.User{
			Email:                           email,
			PasswordHash:                    hash,
			Role:                            domain.RoleUser,
			Provider:                        domain.ProviderLocal,
			EmailVerificationToken:          &token,
			EmailVerificationTokenExpiresAt: &now,
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		return s.notifier.SendVerification(ctx, email, token)
	})
	if err != nil {
		return "", err
	}
	s.log.Info("user signed up", zap.String("email", email))
	return s.tokens.Issue(ctx, email)
}

// SigninLocal drops the cached details first so the check sees the store.
// Unknown, unverified and disabled accounts all fail as bad credentials.
func (s *AuthService) SigninLocal(ctx context.Context, email, password string) (string, error) {
	s.details.Invalidate(ctx, email)
	u, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil || !u.EmailVerified || u.Disabled || !utils.CheckPassword(password, u.PasswordHash) {
		s.log.Info("signin rejected", zap.String("email", email))
		return "", apperr.BadCredentials()
	}
	return s.tokens.Issue(ctx, email)
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	var email string
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		u, err := tx.Users().FindByEmailVerificationToken(ctx, token)
		if err != nil {
			return err
		}
		if u == nil {
			return apperr.Invalid(apperr.MsgVerifyTokenInvalid)
		}
		if s.expired(u.EmailVerificationTokenExpiresAt, s.verificationTTL) {
			return apperr.Invalid(apperr.MsgVerifyTokenExpired)
		}
		u.EmailVerified = true
		u.EmailVerificationToken = nil
		u.EmailVerificationTokenExpiresAt = nil
		email = u.Email
		return tx.Users().Save(ctx, u)
	})
	if err != nil {
		return err
	}
	s.details.Invalidate(ctx, email)
	return nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, email, current, next string) error {
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		u, err := tx.Users().FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if u == nil {
			return apperr.Invalid(apperr.MsgEmailNotFound)
		}
		if !utils.CheckPassword(current, u.PasswordHash) {
			return apperr.Invalid(apperr.MsgWrongPassword)
		}
		if current == next {
			return apperr.Invalid(apperr.MsgSamePassword)
		}
		hash, err := utils.HashPassword(next)
		if err != nil {
			return apperr.Internal(err, "hash password")
		}
		u.PasswordHash = hash
		stampUpdate(ctx, &u.Model)
		return tx.Users().Save(ctx, u)
	})
	if err != nil {
		return err
	}
	s.details.Invalidate(ctx, email)
	return nil
}

func (s *AuthService) SendPasswordResetEmail(ctx context.Context, email string) error {
	return s.store.Transaction(ctx, func(tx domain.Store) error {
		u, err := tx.Users().FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if u == nil {
			return apperr.Missing(apperr.MsgEmailNotFound)
		}
		token := utils.NewID()
		now := s.now()
		u.PasswordResetToken = &token
		u.PasswordResetTokenExpiresAt = &now
		if err := tx.Users().Save(ctx, u); err != nil {
			return err
		}
		return s.notifier.SendPasswordReset(ctx, email, token)
	})
}

// ResetPassword measures expiry on the reset token's own timestamp.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) (*domain.User, error) {
	var u *domain.User
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		var err error
		if u, err = tx.Users().FindByPasswordResetToken(ctx, token); err != nil {
			return err
		}
		if u == nil {
			return apperr.Invalid(apperr.MsgResetTokenInvalid)
		}
		if s.expired(u.PasswordResetTokenExpiresAt, s.resetTTL) {
			return apperr.Invalid(apperr.MsgResetTokenExpired)
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			return apperr.Internal(err, "hash password")
		}
		u.PasswordHash = hash
		u.PasswordResetToken = nil
		u.PasswordResetTokenExpiresAt = nil
		return tx.Users().Save(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	s.details.Invalidate(ctx, u.Email)
	return u, nil
}

// Me returns the profile of the signed-in user.
func (s *AuthService) Me(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.Missing(apperr.MsgEmailNotFound)
	}
	full, err := s.store.Users().FindByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if full == nil {
		// purged between the two reads
		return nil, apperr.Missing(apperr.MsgEmailNotFound)
	}
	full.Avatar, err = s.store.Files().FindByOwner(ctx, domain.UserAvatar, u.ID)
	full.Avatar = nonNil(full.Avatar)
	return full, err
}

// SigninExternal signs in a user vouched for by an identity provider,
// creating a verified account on first sight.
func (s *AuthService) SigninExternal(ctx context.Context, provider, email, firstName, lastName string) (string, error) {
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		u, err := tx.Users().FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if u != nil {
			if u.Disabled {
				return apperr.BadCredentials()
			}
			if u.EmailVerified {
				return nil
			}
			u.EmailVerified = true
			u.EmailVerificationToken = nil
			u.EmailVerificationTokenExpiresAt = nil
			return tx.Users().Save(ctx, u)
		}
		hash, err := utils.HashPassword(utils.RandomPassword())
		if err != nil {
			return apperr.Internal(err, "hash password")
		}
		return tx.Users().Create(ctx, &domain.User{
			Email:         email,
			FirstName:     firstName,
			LastName:      lastName,
			PasswordHash:  hash,
			Role:          domain.RoleUser,
			Provider:      provider,
			EmailVerified: true,
		})
	})
	if err != nil {
		return "", err
	}
	s.details.Invalidate(ctx, email)
	return s.tokens.Issue(ctx, email)
}
