package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-gin-ecommerce/internal/core/auth"
	"go-gin-ecommerce/internal/core/cache"
	"go-gin-ecommerce/internal/core/mail"
	"go-gin-ecommerce/internal/domain"
	"go-gin-ecommerce/internal/repo"
	"go-gin-ecommerce/internal/testutil"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	store      *repo.Store
	clock      *clock
	mail       *mail.Recorder
	cache      *cache.Memory
	details    *UserDetailsService
	tokens     *auth.JWTer
	auth       *AuthService
	users      *UserService
	products   *ProductService
	categories *CategoryService
	orders     *OrderService
}

const testDownloadURL = "http://api.test/api/file/download"

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	require.NoError(t, repo.Migrate(db))
	store := repo.NewStore(db)

	clk := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	opts := Options{
		DownloadURL:     testDownloadURL,
		VerificationTTL: 3 * time.Hour,
		ResetTTL:        3 * time.Hour,
		Now:             clk.Now,
	}
	rec := &mail.Recorder{}
	mem := cache.NewMemory()
	details := NewUserDetailsService(store, mem)
	tokens, err := auth.NewJWTer(auth.Options{Secret: "test-secret", TTL: time.Hour}, store.Users())
	require.NoError(t, err)
	l := zap.NewNop()

	return &fixture{
		store:      store,
		clock:      clk,
		mail:       rec,
		cache:      mem,
		details:    details,
		tokens:     tokens,
		auth:       NewAuthService(store, tokens, details, NewNotifier(rec, "Shop", "http://front.test"), opts, l),
		users:      NewUserService(store, details, opts, l),
		products:   NewProductService(store, opts, l),
		categories: NewCategoryService(store),
		orders:     NewOrderService(store),
	}
}

// addUser creates a verified local user with password "pw".
func (f *fixture) addUser(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	u, err := f.users.Save(context.Background(), &UserInput{
		Email:         email,
		Password:      "pw",
		Role:          string(role),
		EmailVerified: true,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) addProduct(t *testing.T, title string) *domain.Product {
	t.Helper()
	p, err := f.products.Save(context.Background(), &ProductInput{Title: title, Price: 10, Status: "in stock"})
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T { return &v }
