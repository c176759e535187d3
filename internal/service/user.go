package service

import (
	"context"
	"time"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/domain"
	"go-gin-ecommerce/pkg/utils"

	"go.uber.org/zap"
)

type UserInput struct {
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	PhoneNumber   string      `json:"phoneNumber"`
	Email         string      `json:"email" binding:"required,email"`
	Role          string      `json:"role"`
	Disabled      bool        `json:"disabled"`
	Password      string      `json:"password"`
	EmailVerified bool        `json:"emailVerified"`
	Provider      string      `json:"provider"`
	ImportHash    *string     `json:"importHash"`
	Wishlist      []string    `json:"wishlist"`
	Avatar        []FileInput `json:"avatar"`
}

type UserService struct {
	store           domain.Store
	details         *UserDetailsService
	files           attacher
	log             *zap.Logger
	verificationTTL time.Duration
	now             func() time.Time
}

func NewUserService(store domain.Store, details *UserDetailsService, opts Options, l *zap.Logger) *UserService {
	return &UserService{
		store:           store,
		details:         details,
		files:           attacher{downloadURL: opts.DownloadURL},
		log:             l,
		verificationTTL: opts.VerificationTTL,
		now:             opts.clock(),
	}
}

func (s *UserService) withAvatars(ctx context.Context, users []domain.User) error {
	byOwner, err := s.store.Files().FindByOwners(ctx, domain.UserAvatar, idsOf(users, func(u *domain.User) string { return u.ID }))
	if err != nil {
		return err
	}
	for i := range users {
		users[i].Avatar = nonNil(byOwner[users[i].ID])
	}
	return nil
}

func (s *UserService) List(ctx context.Context, q domain.ListQuery) ([]domain.User, error) {
	users, err := s.store.Users().List(ctx, q)
	if err != nil {
		return nil, err
	}
	return users, s.withAvatars(ctx, users)
}

func (s *UserService) Autocomplete(ctx context.Context, prefix string, limit int) ([]domain.User, error) {
	return s.store.Users().Autocomplete(ctx, prefix, limit)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.Missing(apperr.MsgUserNotFound, id)
	}
	users := []domain.User{*u}
	if err := s.withAvatars(ctx, users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

// apply copies in onto u. An empty password keeps the current one.
func (s *UserService) apply(u *domain.User, in *UserInput) error {
	role := domain.RoleUser
	if in.Role != "" {
		r, ok := domain.ParseRole(in.Role)
		if !ok {
			return apperr.Invalid(apperr.MsgInvalidRole, in.Role)
		}
		role = r
	}
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.PhoneNumber = in.PhoneNumber
	u.Email = in.Email
	u.Role = role
	u.Disabled = in.Disabled
	u.EmailVerified = in.EmailVerified
	u.ImportHash = in.ImportHash
	u.Provider = in.Provider
	if u.Provider == "" {
		u.Provider = domain.ProviderLocal
	}
	if in.Password != "" {
		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			return apperr.Internal(err, "hash password")
		}
		u.PasswordHash = hash
	}
	return nil
}

// relate sets the wishlist and avatar of u from in. Nil slices leave the
// current values untouched.
func (s *UserService) relate(ctx context.Context, tx domain.Store, u *domain.User, in *UserInput) error {
	if in.Wishlist != nil {
		ids := uniq(in.Wishlist)
		products, err := tx.Products().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if missing := firstMissing(ids, products, func(p *domain.Product) string { return p.ID }); missing != "" {
			return apperr.Missing(apperr.MsgProductNotFound, missing)
		}
		if err := tx.Users().ReplaceWishlist(ctx, u, products); err != nil {
			return err
		}
	}
	if in.Avatar != nil {
		files, err := s.files.reconcile(ctx, tx, domain.UserAvatar, u.ID, in.Avatar)
		if err != nil {
			return err
		}
		u.Avatar = files
		return nil
	}
	files, err := tx.Files().FindByOwner(ctx, domain.UserAvatar, u.ID)
	u.Avatar = nonNil(files)
	return err
}

func (s *UserService) Save(ctx context.Context, in *UserInput) (*domain.User, error) {
	var u domain.User
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		taken, err := tx.Users().EmailTaken(ctx, in.Email, "")
		if err != nil {
			return err
		}
		if taken {
			return apperr.Invalid(apperr.MsgUserEmailTaken, in.Email)
		}
		if err := s.apply(&u, in); err != nil {
			return err
		}
		stampCreate(ctx, &u.Model)
		if err := tx.Users().Create(ctx, &u); err != nil {
			return err
		}
		return s.relate(ctx, tx, &u, in)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.String("id", u.ID), zap.String("email", u.Email))
	return &u, nil
}

// Update rewrites the user and drops the cached details of both the old and
// the new email.
func (s *UserService) Update(ctx context.Context, id string, in *UserInput) (*domain.User, error) {
	var (
		u        *domain.User
		oldEmail string
	)
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		var err error
		if u, err = findLive(ctx, tx.Users().FindByID, id, apperr.MsgUserNotFound); err != nil {
			return err
		}
		oldEmail = u.Email
		if in.Email != u.Email {
			taken, err := tx.Users().EmailTaken(ctx, in.Email, id)
			if err != nil {
				return err
			}
			if taken {
				return apperr.Invalid(apperr.MsgUserEmailTaken, in.Email)
			}
		}
		if err := s.apply(u, in); err != nil {
			return err
		}
		stampUpdate(ctx, &u.Model)
		if err := tx.Users().Save(ctx, u); err != nil {
			return err
		}
		return s.relate(ctx, tx, u, in)
	})
	if err != nil {
		return nil, err
	}
	s.details.Invalidate(ctx, oldEmail, u.Email)
	return u, nil
}

// Delete soft-deletes the user and detaches its orders.
func (s *UserService) Delete(ctx context.Context, id string) error {
	var email string
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		u, err := findLive(ctx, tx.Users().FindByID, id, apperr.MsgUserNotFound)
		if err != nil {
			return err
		}
		email = u.Email
		if err := tx.Orders().ClearUser(ctx, id); err != nil {
			return err
		}
		return tx.Users().SoftDelete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.details.Invalidate(ctx, email)
	s.log.Info("user deleted", zap.String("id", id))
	return nil
}

func (s *UserService) SetDisabled(ctx context.Context, id string, disabled bool) (*domain.User, error) {
	var u *domain.User
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		var err error
		if u, err = findLive(ctx, tx.Users().FindByID, id, apperr.MsgUserNotFound); err != nil {
			return err
		}
		u.Disabled = disabled
		stampUpdate(ctx, &u.Model)
		return tx.Users().Save(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	s.details.Invalidate(ctx, u.Email)
	return u, nil
}

func (s *UserService) AdminList(ctx context.Context, offset, limit int, q string, withDeleted bool) ([]domain.User, int64, error) {
	return s.store.Users().AdminList(ctx, offset, limit, q, withDeleted)
}

// PurgeUnverified hard-deletes users whose verification token outlived the
// verification period without being used.
func (s *UserService) PurgeUnverified(ctx context.Context) (int, error) {
	users, err := s.store.Users().FindUnverifiedWithToken(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now()
	purged := 0
	for _, u := range users {
		if u.EmailVerificationTokenExpiresAt == nil || now.Sub(*u.EmailVerificationTokenExpiresAt) <= s.verificationTTL {
			continue
		}
		err := s.store.Transaction(ctx, func(tx domain.Store) error {
			if err := tx.Orders().ClearUser(ctx, u.ID); err != nil {
				return err
			}
			return tx.Users().HardDelete(ctx, u.ID)
		})
		if err != nil {
			s.log.Warn("purge unverified user", zap.String("email", u.Email), zap.Error(err))
			continue
		}
		s.details.Invalidate(ctx, u.Email)
		purged++
	}
	if purged > 0 {
		s.log.Info("unverified users purged", zap.Int("count", purged))
	}
	unverifiedPurged.Add(float64(purged))
	return purged, nil
}
