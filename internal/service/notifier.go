package service

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/core/mail"
)

// Notifier writes the account emails. Links point at the frontend's hash
// routes.
type Notifier struct {
	sender       mail.Sender
	appName      string
	frontendHost string
}

func NewNotifier(sender mail.Sender, appName, frontendHost string) *Notifier {
	return &Notifier{sender: sender, appName: appName, frontendHost: strings.TrimRight(frontendHost, "/")}
}

func (n *Notifier) link(route, token string) string {
	return n.frontendHost + "/#/" + route + "?token=" + url.QueryEscape(token)
}

func (n *Notifier) SendVerification(ctx context.Context, email, token string) error {
	link := n.link("verify-email", token)
	return n.send(ctx, mail.Message{
		To:      email,
		Subject: fmt.Sprintf("Verify your email for %s", n.appName),
		HTML: fmt.Sprintf(`<p>Hello,</p><p>Follow this link to verify your email address.</p><p><a href="%s">%s</a></p>`,
			html.EscapeString(link), html.EscapeString(link)),
	})
}

func (n *Notifier) SendPasswordReset(ctx context.Context, email, token string) error {
	link := n.link("password-reset", token)
	return n.send(ctx, mail.Message{
		To:      email,
		Subject: fmt.Sprintf("Reset your password for %s", n.appName),
		HTML: fmt.Sprintf(`<p>Hello,</p><p>Follow this link to reset your %s password for your %s account.</p><p><a href="%s">%s</a></p>`,
			html.EscapeString(n.appName), html.EscapeString(email), html.EscapeString(link), html.EscapeString(link)),
	})
}

func (n *Notifier) send(ctx context.Context, m mail.Message) error {
	if err := n.sender.Send(ctx, m); err != nil {
		return apperr.Wrap(apperr.KindMailDelivery, err, "%s", apperr.Msg(apperr.MsgMailFailed))
	}
	return nil
}
