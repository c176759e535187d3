package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/core/auth"
	"go-gin-ecommerce/internal/domain"
	resp "go-gin-ecommerce/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

// fakeTokens treats "good:<email>" as valid, "stale:<email>" as well signed
// but expired, anything else as tampered.
type fakeTokens struct{}

func (fakeTokens) split(t string) (string, string, bool) {
	for _, p := range []string{"good:", "stale:"} {
		if len(t) > len(p) && t[:len(p)] == p {
			return p, t[len(p):], true
		}
	}
	return "", "", false
}

func (f fakeTokens) ExtractSubject(t string) (string, error) {
	_, sub, ok := f.split(t)
	if !ok {
		return "", auth.ErrInvalidSignature
	}
	return sub, nil
}

func (f fakeTokens) IsValid(t, expected string) bool {
	p, sub, ok := f.split(t)
	return ok && p == "good:" && sub == expected
}

type fakeDetails map[string]*auth.UserDetails

func (f fakeDetails) Load(_ context.Context, u string) (*auth.UserDetails, error) {
	if d, ok := f[u]; ok {
		return d, nil
	}
	return nil, apperr.BadCredentials()
}

func gateEngine(mw ...gin.HandlerFunc) *gin.Engine {
	details := fakeDetails{
		"user@x.io":  {ID: "1", Email: "user@x.io", Role: domain.RoleUser},
		"admin@x.io": {ID: "2", Email: "admin@x.io", Role: domain.RoleAdmin},
		"off@x.io":   {ID: "3", Email: "off@x.io", Role: domain.RoleAdmin, Disabled: true},
	}
	r := gin.New()
	r.Use(Authenticate(fakeTokens{}, details))
	h := func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c.Request.Context())
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, p.Email)
	}
	r.GET("/open", h)
	r.GET("/user", append(mw, RequireAuth(), h)...)
	r.GET("/admin", append(mw, RequireRole(domain.RoleAdmin), h)...)
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	r := gateEngine()
	cases := []struct {
		name, path, token string
		status            int
		body              string
	}{
		{"no token", "/open", "", 200, "anonymous"},
		{"valid token", "/open", "good:user@x.io", 200, "user@x.io"},
		{"tampered", "/open", "forged", 401, ""},
		{"expired", "/open", "stale:user@x.io", 200, "anonymous"},
		{"unknown user", "/open", "good:ghost@x.io", 200, "anonymous"},
		{"auth required", "/user", "", 401, ""},
		{"auth ok", "/user", "good:user@x.io", 200, "user@x.io"},
		{"disabled", "/user", "good:off@x.io", 403, ""},
		{"role denied", "/admin", "good:user@x.io", 403, ""},
		{"role ok", "/admin", "good:admin@x.io", 200, "admin@x.io"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(r, tc.path, tc.token)
			assert.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
				return
			}
			var env resp.Resp
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, tc.status, env.Code)
		})
	}
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(0.0001, 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, 204, send("10.0.0.1"))
	assert.Equal(t, 204, send("10.0.0.1"))
	assert.Equal(t, 429, send("10.0.0.1"))
	assert.Equal(t, 204, send("10.0.0.2"), "buckets are per client")
}

func TestRequestIDAndRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic(errors.New("boom")) })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(KeyRequestID, "rid-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "rid-1", w.Header().Get(KeyRequestID))

	w = get(r, "/boom", "")
	assert.NotEmpty(t, w.Header().Get(KeyRequestID))
}

func TestMaskHidesSecrets(t *testing.T) {
	got := mask(map[string][]string{
		"privateUrl": {"users/avatar/a.png"},
		"code":       {"oauth-code"},
		"limit":      {"10"},
	})
	assert.Equal(t, []string{"****"}, got["privateUrl"])
	assert.Equal(t, []string{"****"}, got["code"])
	assert.Equal(t, []string{"10"}, got["limit"])
}
