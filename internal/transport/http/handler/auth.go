package handler

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/core/auth"
	"go-gin-ecommerce/internal/domain"
	"go-gin-ecommerce/internal/service"
	"go-gin-ecommerce/internal/transport/http/ez"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	auth   *service.AuthService
	google *service.GoogleAuth
	// extra middleware for the credential endpoints, e.g. a per-IP limiter
	guard []gin.HandlerFunc
}

func NewAuthHandler(a *service.AuthService, g *service.GoogleAuth, guard ...gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{auth: a, google: g, guard: guard}
}

type credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type verifyEmailIn struct {
	Token string `json:"token" binding:"required"`
}

type passwordUpdateIn struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type resetEmailIn struct {
	Email string `json:"email" binding:"required,email"`
}

type passwordResetIn struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type empty struct{}

func principal(c *gin.Context) *auth.UserDetails {
	p, _ := auth.PrincipalFrom(c.Request.Context())
	return p
}

func (h *AuthHandler) MountAPI(e ez.EZ) {
	g := e.Group("/auth", h.guard...)

	ez.RegisterAction(g, ez.Action[credentials, string]{
		Method: http.MethodPost,
		Path:   "/signin/local",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *credentials) (string, error) {
			return h.auth.SigninLocal(c.Request.Context(), in.Email, in.Password)
		},
	})
	ez.RegisterAction(g, ez.Action[credentials, string]{
		Method: http.MethodPost,
		Path:   "/signup",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *credentials) (string, error) {
			return h.auth.Signup(c.Request.Context(), in.Email, in.Password)
		},
	})
	ez.RegisterAction(g, ez.Action[verifyEmailIn, empty]{
		Method: http.MethodPut,
		Path:   "/verify-email",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *verifyEmailIn) (empty, error) {
			return empty{}, h.auth.VerifyEmail(c.Request.Context(), in.Token)
		},
	})
	ez.RegisterAction(g, ez.Action[passwordUpdateIn, empty]{
		Method: http.MethodPut,
		Path:   "/password-update",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *passwordUpdateIn) (empty, error) {
			return empty{}, h.auth.UpdatePassword(c.Request.Context(), principal(c).Email, in.CurrentPassword, in.NewPassword)
		},
	})
	ez.RegisterAction(g, ez.Action[resetEmailIn, empty]{
		Method: http.MethodPost,
		Path:   "/send-password-reset-email",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *resetEmailIn) (empty, error) {
			return empty{}, h.auth.SendPasswordResetEmail(c.Request.Context(), in.Email)
		},
	})
	ez.RegisterAction(g, ez.Action[passwordResetIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/password-reset",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *passwordResetIn) (*domain.User, error) {
			return h.auth.ResetPassword(c.Request.Context(), in.Token, in.Password)
		},
	})
	ez.RegisterAction(g, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.auth.Me(c.Request.Context(), principal(c).Email)
		},
	})

	g.Router().GET("/signin/google", h.googleRedirect(e))
	g.Router().GET("/signin/google/callback", h.googleCallback(e))
}

func (h *AuthHandler) googleRedirect(e ez.EZ) gin.HandlerFunc {
	return func(c *gin.Context) {
		b := make([]byte, 16)
		if _, err := rand.Read(b); err != nil {
			ez.Fail(c, e.Log(), err)
			return
		}
		state := base64.RawURLEncoding.EncodeToString(b)
		target, err := h.google.AuthCodeURL(state)
		if err != nil {
			ez.Fail(c, e.Log(), err)
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(oauthStateCookie, state, 600, "/", "", c.Request.TLS != nil, true)
		c.Redirect(http.StatusFound, target)
	}
}

func (h *AuthHandler) googleCallback(e ez.EZ) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := c.Cookie(oauthStateCookie)
		if err != nil || state == "" || state != c.Query("state") {
			ez.Fail(c, e.Log(), apperr.New(apperr.KindUnauthorized, "oauth state mismatch"))
			return
		}
		c.SetCookie(oauthStateCookie, "", -1, "/", "", c.Request.TLS != nil, true)
		target, err := h.google.Callback(c.Request.Context(), c.Query("code"))
		if err != nil {
			ez.Fail(c, e.Log(), err)
			return
		}
		c.Redirect(http.StatusFound, target)
	}
}
