package service

import (
	"context"
	"testing"
	"time"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/core/auth"
	"go-gin-ecommerce/internal/core/cache"
	"go-gin-ecommerce/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// heldUsers blocks FindByEmail until release is closed and reports every
// lookup on entered.
type heldUsers struct {
	domain.UserRepository
	entered chan struct{}
	release chan struct{}
}

func (h heldUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	h.entered <- struct{}{}
	<-h.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.UserRepository.FindByEmail(ctx, email)
}

type heldStore struct {
	domain.Store
	users heldUsers
}

func (h heldStore) Users() domain.UserRepository { return h.users }

// vanishingUsers finds users by email but no longer by id, as when the
// purge job removes a user between two reads.
type vanishingUsers struct{ domain.UserRepository }

func (vanishingUsers) FindByID(context.Context, string) (*domain.User, error) { return nil, nil }

type vanishingStore struct{ domain.Store }

func (v vanishingStore) Users() domain.UserRepository {
	return vanishingUsers{v.Store.Users()}
}

func TestMeUserRemovedMidway(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "a@x.io", domain.RoleUser)
	a := NewAuthService(vanishingStore{f.store}, f.tokens, f.details,
		NewNotifier(f.mail, "Shop", "http://front.test"), Options{}, zap.NewNop())

	me, err := a.Me(context.Background(), "a@x.io")
	assert.Nil(t, me)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestLoadSurvivesCancelledLeader(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "a@x.io", domain.RoleUser)

	users := heldUsers{
		UserRepository: f.store.Users(),
		entered:        make(chan struct{}, 2),
		release:        make(chan struct{}),
	}
	mem := cache.NewMemory()
	details := NewUserDetailsService(heldStore{Store: f.store, users: users}, mem)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := details.Load(leaderCtx, "a@x.io")
		leaderErr <- err
	}()
	<-users.entered

	type result struct {
		d   *auth.UserDetails
		err error
	}
	follower := make(chan result, 1)
	go func() {
		d, err := details.Load(context.Background(), "a@x.io")
		follower <- result{d, err}
	}()
	// let the second caller join the lookup in flight
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)
	close(users.release)

	select {
	case r := <-follower:
		require.NoError(t, r.err)
		assert.Equal(t, "a@x.io", r.d.Email)
	case <-time.After(5 * time.Second):
		t.Fatal("second caller never returned")
	}
	_, cached := mem.Get(context.Background(), "a@x.io")
	assert.True(t, cached, "the detached lookup still fills the cache")
}

func TestLoadUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.details.Load(context.Background(), "ghost@x.io")
	assert.True(t, apperr.Is(err, apperr.KindBadCredentials))
}

func TestSigninDropsCachedDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "a@x.io", domain.RoleUser)

	d, err := f.details.Load(ctx, "a@x.io")
	require.NoError(t, err)
	require.False(t, d.Disabled)

	u, err := f.store.Users().FindByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	u.Disabled = true
	require.NoError(t, f.store.Users().Save(ctx, u))

	cached, ok := f.cache.Get(ctx, "a@x.io")
	require.True(t, ok)
	assert.False(t, cached.Disabled, "a direct store write leaves the cache stale")

	_, err = f.auth.SigninLocal(ctx, "a@x.io", "pw")
	assert.True(t, apperr.Is(err, apperr.KindBadCredentials))

	_, ok = f.cache.Get(ctx, "a@x.io")
	assert.False(t, ok)
	d, err = f.details.Load(ctx, "a@x.io")
	require.NoError(t, err)
	assert.True(t, d.Disabled)
}

func TestSetDisabledDropsCachedDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "a@x.io", domain.RoleUser)

	_, err := f.details.Load(ctx, "a@x.io")
	require.NoError(t, err)

	_, err = f.users.SetDisabled(ctx, u.ID, true)
	require.NoError(t, err)

	_, ok := f.cache.Get(ctx, "a@x.io")
	assert.False(t, ok)
	d, err := f.details.Load(ctx, "a@x.io")
	require.NoError(t, err)
	assert.True(t, d.Disabled)
}

func TestVerifyEmailDropsCachedDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Signup(ctx, "new@x.io", "pw")
	require.NoError(t, err)

	d, err := f.details.Load(ctx, "new@x.io")
	require.NoError(t, err)
	require.False(t, d.EmailVerified)

	msg, ok := f.mail.Last()
	require.True(t, ok)
	require.NoError(t, f.auth.VerifyEmail(ctx, tokenFrom(t, msg.HTML)))

	_, ok = f.cache.Get(ctx, "new@x.io")
	assert.False(t, ok)
	d, err = f.details.Load(ctx, "new@x.io")
	require.NoError(t, err)
	assert.True(t, d.EmailVerified)
}
