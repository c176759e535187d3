package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/core/config"
	"go-gin-ecommerce/internal/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

type googleUser struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// GoogleAuth runs the authorization code flow against Google and hands the
// verified identity to the auth service.
type GoogleAuth struct {
	conf         *oauth2.Config
	userInfoURL  string
	auth         *AuthService
	frontendHost string
}

func NewGoogleAuth(c config.Google, frontendHost string, a *AuthService) *GoogleAuth {
	return &GoogleAuth{
		conf: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL:  googleUserInfoURL,
		auth:         a,
		frontendHost: strings.TrimRight(frontendHost, "/"),
	}
}

func (g *GoogleAuth) Enabled() bool { return g.conf.ClientID != "" }

func (g *GoogleAuth) AuthCodeURL(state string) (string, error) {
	if !g.Enabled() {
		return "", apperr.Missing(apperr.MsgGoogleDisabled)
	}
	return g.conf.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// Callback exchanges code and returns the frontend URL carrying our token.
func (g *GoogleAuth) Callback(ctx context.Context, code string) (string, error) {
	if !g.Enabled() {
		return "", apperr.Missing(apperr.MsgGoogleDisabled)
	}
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnauthorized, err, "google code exchange failed")
	}
	info, err := g.userInfo(ctx, tok)
	if err != nil {
		return "", err
	}
	if info.Email == "" || !info.EmailVerified {
		return "", apperr.BadCredentials()
	}
	token, err := g.auth.SigninExternal(ctx, domain.ProviderGoogle, info.Email, info.GivenName, info.FamilyName)
	if err != nil {
		return "", err
	}
	return g.frontendHost + "/#/login?token=" + url.QueryEscape(token), nil
}

func (g *GoogleAuth) userInfo(ctx context.Context, tok *oauth2.Token) (*googleUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthorized, err, "google userinfo request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.New(apperr.KindUnauthorized, "google userinfo: %s", resp.Status)
	}
	var u googleUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode google userinfo: %w", err)
	}
	return &u, nil
}
