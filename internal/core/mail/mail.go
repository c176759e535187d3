// Package mail sends transactional email.
package mail

import (
	"context"
	"sync"

	"go-gin-ecommerce/internal/core/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SMTP delivers through one dial per message. There are no retries.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(c config.Mail) *SMTP {
	return &SMTP{dialer: gomail.NewDialer(c.Host, c.Port, c.Username, c.Password), from: c.From}
}

func (s *SMTP) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)
	return s.dialer.DialAndSend(msg)
}

// Log writes messages to the logger instead of sending them. Used when no
// SMTP host is configured.
type Log struct{ l *zap.Logger }

func NewLog(l *zap.Logger) *Log { return &Log{l: l} }

func (s *Log) Send(_ context.Context, m Message) error {
	s.l.Info("mail (not sent)", zap.String("to", m.To), zap.String("subject", m.Subject))
	// the body carries one-time tokens
	s.l.Debug("mail body", zap.String("to", m.To), zap.String("body", m.HTML))
	return nil
}

// New picks SMTP when a host is configured.
func New(c config.Mail, l *zap.Logger) Sender {
	if c.Host == "" {
		return NewLog(l)
	}
	return NewSMTP(c)
}

// Recorder keeps messages in memory. Err, when set, is returned by Send
// and nothing is recorded.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
	Err  error
}

func (r *Recorder) Send(_ context.Context, m Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.msgs = append(r.msgs, m)
	return nil
}

func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}

func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return Message{}, false
	}
	return r.msgs[len(r.msgs)-1], true
}
