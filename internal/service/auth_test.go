package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/domain"
	"go-gin-ecommerce/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenFrom pulls the token query parameter out of the link in a mail body.
func tokenFrom(t *testing.T, body string) string {
	t.Helper()
	i := strings.Index(body, "?token=")
	require.GreaterOrEqual(t, i, 0, body)
	rest := body[i+len("?token="):]
	end := strings.IndexAny(rest, `"<`)
	require.Greater(t, end, 0)
	tok, err := url.QueryUnescape(rest[:end])
	require.NoError(t, err)
	return tok
}

func TestSignupVerifySignin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.auth.Signup(ctx, "new@x.io", "pw")
	require.NoError(t, err)
	assert.True(t, f.tokens.IsValid(token, "new@x.io"))

	msg, ok := f.mail.Last()
	require.True(t, ok)
	assert.Equal(t, "new@x.io", msg.To)
	assert.Contains(t, msg.HTML, "http://front.test/#/verify-email?token=")

	u, err := f.store.Users().FindByEmail(ctx, "new@x.io")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.False(t, u.EmailVerified)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.Equal(t, domain.ProviderLocal, u.Provider)

	_, err = f.auth.SigninLocal(ctx, "new@x.io", "pw")
	assert.True(t, apperr.Is(err, apperr.KindBadCredentials), "unverified users cannot sign in")

	require.NoError(t, f.auth.VerifyEmail(ctx, tokenFrom(t, msg.HTML)))

	u, err = f.store.Users().FindByEmail(ctx, "new@x.io")
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)
	assert.Nil(t, u.EmailVerificationToken)

	token, err = f.auth.SigninLocal(ctx, "new@x.io", "pw")
	require.NoError(t, err)
	assert.True(t, f.tokens.IsValid(token, "new@x.io"))

	_, err = f.auth.SigninLocal(ctx, "new@x.io", "wrong")
	assert.True(t, apperr.Is(err, apperr.KindBadCredentials))
	_, err = f.auth.SigninLocal(ctx, "nobody@x.io", "pw")
	assert.True(t, apperr.Is(err, apperr.KindBadCredentials))
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "a@x.io", domain.RoleUser)

	_, err := f.auth.Signup(context.Background(), "a@x.io", "pw")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, apperr.Msg(apperr.MsgEmailAlreadyRegistered), apperr.Message(err))
	assert.Empty(t, f.mail.Sent())
}

func TestSignupMailFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.mail.Err = errors.New("smtp down")
	ctx := context.Background()

	_, err := f.auth.Signup(ctx, "new@x.io", "pw")
	assert.True(t, apperr.Is(err, apperr.KindMailDelivery))

	u, err := f.store.Users().FindByEmail(ctx, "new@x.io")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestVerifyEmailTokenChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.auth.VerifyEmail(ctx, "no-such-token")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, apperr.Msg(apperr.MsgVerifyTokenInvalid), apperr.Message(err))

	_, err = f.auth.Signup(ctx, "late@x.io", "pw")
	require.NoError(t, err)
	msg, _ := f.mail.Last()

	f.clock.Advance(3*time.Hour + time.Second)
	err = f.auth.VerifyEmail(ctx, tokenFrom(t, msg.HTML))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, apperr.Msg(apperr.MsgVerifyTokenExpired), apperr.Message(err))
}

func TestSigninDisabledUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "a@x.io", domain.RoleUser)
	_, err := f.users.SetDisabled(ctx, u.ID, true)
	require.NoError(t, err)

	_, err = f.auth.SigninLocal(ctx, "a@x.io", "pw")
	assert.True(t, apperr.Is(err, apperr.KindBadCredentials))
}

func TestUpdatePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "a@x.io", domain.RoleUser)

	err := f.auth.UpdatePassword(ctx, "a@x.io", "wrong", "next")
	assert.Equal(t, apperr.Msg(apperr.MsgWrongPassword), apperr.Message(err))

	err = f.auth.UpdatePassword(ctx, "a@x.io", "pw", "pw")
	assert.Equal(t, apperr.Msg(apperr.MsgSamePassword), apperr.Message(err))

	require.NoError(t, f.auth.UpdatePassword(ctx, "a@x.io", "pw", "next"))
	_, err = f.auth.SigninLocal(ctx, "a@x.io", "pw")
	assert.Error(t, err)
	_, err = f.auth.SigninLocal(ctx, "a@x.io", "next")
	assert.NoError(t, err)
}

func TestPasswordReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "a@x.io", domain.RoleUser)

	err := f.auth.SendPasswordResetEmail(ctx, "nobody@x.io")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, f.auth.SendPasswordResetEmail(ctx, "a@x.io"))
	msg, ok := f.mail.Last()
	require.True(t, ok)
	assert.Contains(t, msg.HTML, "/#/password-reset?token=")
	token := tokenFrom(t, msg.HTML)

	u, err := f.auth.ResetPassword(ctx, token, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", u.Email)
	assert.True(t, utils.CheckPassword("fresh", u.PasswordHash))

	_, err = f.auth.ResetPassword(ctx, token, "again")
	assert.Equal(t, apperr.Msg(apperr.MsgResetTokenInvalid), apperr.Message(err), "reset tokens are single use")

	require.NoError(t, f.auth.SendPasswordResetEmail(ctx, "a@x.io"))
	msg, _ = f.mail.Last()
	f.clock.Advance(4 * time.Hour)
	_, err = f.auth.ResetPassword(ctx, tokenFrom(t, msg.HTML), "late")
	assert.Equal(t, apperr.Msg(apperr.MsgResetTokenExpired), apperr.Message(err))
}

func TestResetMailFailureKeepsOldToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "a@x.io", domain.RoleUser)

	f.mail.Err = errors.New("smtp down")
	err := f.auth.SendPasswordResetEmail(ctx, "a@x.io")
	assert.True(t, apperr.Is(err, apperr.KindMailDelivery))

	u, err := f.store.Users().FindByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Nil(t, u.PasswordResetToken)
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "Apple")
	u := f.addUser(t, "a@x.io", domain.RoleUser)
	_, err := f.users.Update(ctx, u.ID, &UserInput{Email: "a@x.io", EmailVerified: true, Wishlist: []string{p.ID}})
	require.NoError(t, err)

	me, err := f.auth.Me(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)
	require.Len(t, me.Wishlist, 1)
	assert.Equal(t, "Apple", me.Wishlist[0].Title)
	assert.NotNil(t, me.Avatar)

	_, err = f.auth.Me(ctx, "nobody@x.io")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSigninExternal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.auth.SigninExternal(ctx, domain.ProviderGoogle, "g@x.io", "Gee", "Oogle")
	require.NoError(t, err)
	assert.True(t, f.tokens.IsValid(token, "g@x.io"))

	u, err := f.store.Users().FindByEmail(ctx, "g@x.io")
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)
	assert.Equal(t, domain.ProviderGoogle, u.Provider)
	assert.Equal(t, "Gee", u.FirstName)

	_, err = f.auth.Signup(ctx, "pending@x.io", "pw")
	require.NoError(t, err)
	_, err = f.auth.SigninExternal(ctx, domain.ProviderGoogle, "pending@x.io", "", "")
	require.NoError(t, err)
	u, err = f.store.Users().FindByEmail(ctx, "pending@x.io")
	require.NoError(t, err)
	assert.True(t, u.EmailVerified, "an external sign-in vouches for the address")
}
