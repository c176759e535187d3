package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/domain"
	"go-gin-ecommerce/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db := testutil.NewDB(t)
	require.NoError(t, Migrate(db))
	return NewStore(db)
}

// seedProducts creates n products titled p00..p(n-1), each one minute newer
// than the previous.
func seedProducts(t *testing.T, s *Store, n int) []domain.Product {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.Product, n)
	for i := 0; i < n; i++ {
		out[i] = domain.Product{
			Model: domain.Model{CreatedAt: base.Add(time.Duration(i) * time.Minute)},
			Title: fmt.Sprintf("p%02d", i),
			Price: float64(100 - i),
		}
		require.NoError(t, s.Products().Create(context.Background(), &out[i]))
	}
	return out
}

func titles(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Title
	}
	return out
}

func TestParseOrderBy(t *testing.T) {
	cases := []struct {
		in   string
		col  string
		desc bool
	}{
		{"", "created_at", true},
		{"title_ASC", "title", false},
		{"title_DESC", "title", true},
		{"title_asc", "title", true},
		{"title", "title", true},
		{"bogus_ASC", "created_at", false},
		{"order_date_ASC", "order_date", false},
	}
	s := sortable{"title": "title", "order_date": "order_date"}
	for _, tc := range cases {
		col, desc := s.parseOrderBy(tc.in)
		assert.Equal(t, tc.col, col, tc.in)
		assert.Equal(t, tc.desc, desc, tc.in)
	}
}

func TestListOffsetIsPageIndex(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seedProducts(t, s, 25)

	rows, err := s.Products().List(ctx, domain.Page(1, 10, "title_ASC"))
	require.NoError(t, err)
	assert.Equal(t, []string{"p10", "p11", "p12", "p13", "p14", "p15", "p16", "p17", "p18", "p19"}, titles(rows))

	rows, err = s.Products().List(ctx, domain.Page(2, 10, "title_ASC"))
	require.NoError(t, err)
	assert.Equal(t, []string{"p20", "p21", "p22", "p23", "p24"}, titles(rows))
}

func TestListDefaultsToNewestFirst(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seedProducts(t, s, 25)

	rows, err := s.Products().List(ctx, domain.Page(1, 10, ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"p14", "p13", "p12", "p11", "p10", "p09", "p08", "p07", "p06", "p05"}, titles(rows))

	// direction tokens other than "ASC" sort descending
	rows, err = s.Products().List(ctx, domain.Page(0, 3, "price_asc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"p00", "p01", "p02"}, titles(rows))

	rows, err = s.Products().List(ctx, domain.Page(0, 3, "bogus_ASC"))
	require.NoError(t, err)
	assert.Equal(t, []string{"p00", "p01", "p02"}, titles(rows))
}

func TestListWithoutPagingReturnsAll(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seedProducts(t, s, 25)

	limit := 5
	rows, err := s.Products().List(ctx, domain.ListQuery{Limit: &limit, OrderBy: "title_ASC"})
	require.NoError(t, err)
	require.Len(t, rows, 25)
	assert.Equal(t, "p24", rows[0].Title)
	assert.Equal(t, "p00", rows[24].Title)
}

func TestListRejectsBadPage(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Products().List(ctx, domain.Page(-1, 10, ""))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = s.Products().List(ctx, domain.Page(0, 0, ""))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSoftDeletedRowsAreHidden(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	ps := seedProducts(t, s, 3)

	require.NoError(t, s.Products().SoftDelete(ctx, ps[1].ID))

	rows, err := s.Products().List(ctx, domain.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"p02", "p00"}, titles(rows))

	ac, err := s.Products().Autocomplete(ctx, "p0", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p00", "p02"}, titles(ac))

	got, err := s.Products().FindByID(ctx, ps[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.DeletedAt.Valid)
}

func TestAutocomplete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for _, title := range []string{"Banana", "Apricot", "Apple", "100%_off", "100 x", "1000"} {
		require.NoError(t, s.Categories().Create(ctx, &domain.Category{Title: title}))
	}
	names := func(cs []domain.Category) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.Title
		}
		return out
	}

	got, err := s.Categories().Autocomplete(ctx, "Ap", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Apricot"}, names(got))

	got, err = s.Categories().Autocomplete(ctx, "100%", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"100%_off"}, names(got))

	got, err = s.Categories().Autocomplete(ctx, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"100 x", "100%_off"}, names(got))

	_, err = s.Categories().Autocomplete(ctx, "A", 0)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
