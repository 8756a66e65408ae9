// internal/message/message.go
//
// Order notification email.
//
// Context
//   Every persisted order produces one email to the store's admin inbox.
//   The body is rendered twice from the same view, as plain text and as an
//   HTML table alternative, and dispatched through an authenticated SMTP
//   relay with mandatory STARTTLS.
//
//   Send never returns an error.  Template, address, network, and relay
//   failures are logged and reported as false so checkout can degrade its
//   message instead of failing the order.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package message

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/rokibulislampro/mnly-server/internal/config"
	"github.com/rokibulislampro/mnly-server/internal/models"
)

// placeholder stands in for absent optional fields.
const placeholder = "N/A"

// sendTimeout bounds one relay conversation.
const sendTimeout = 30 * time.Second

// Transport is satisfied by *mail.Client.
type Transport interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Sender renders and dispatches order notifications.
type Sender struct {
	tr   Transport
	from string
	to   string
	log  *zap.Logger
}

// New returns a Sender using tr.  to is the fixed admin address.
func New(tr Transport, from, to string, log *zap.Logger) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{tr: tr, from: from, to: to, log: log}
}

// NewSMTP builds the relay client from configuration.
func NewSMTP(cfg config.Mail, log *zap.Logger) (*Sender, error) {
	cli, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(sendTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("mail client: %w", err)
	}
	return New(cli, cfg.From, cfg.AdminAddress, log), nil
}

// Subject is the notification subject line for o.
func Subject(o models.Order) string {
	return "New Order Received - " + orNA(o.OrderID)
}

// Compose builds the message without sending it.
func (s *Sender) Compose(o models.Order) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return nil, fmt.Errorf("from %q: %w", s.from, err)
	}
	if err := m.To(s.to); err != nil {
		return nil, fmt.Errorf("to %q: %w", s.to, err)
	}
	m.Subject(Subject(o))

	v := newView(o)
	if err := m.SetBodyTextTemplate(textTmpl, v); err != nil {
		return nil, fmt.Errorf("text body: %w", err)
	}
	if err := m.AddAlternativeHTMLTemplate(htmlTmpl, v); err != nil {
		return nil, fmt.Errorf("html body: %w", err)
	}
	return m, nil
}

// Send delivers the notification for o and reports success.
func (s *Sender) Send(ctx context.Context, o models.Order) bool {
	m, err := s.Compose(o)
	if err != nil {
		s.log.Error("order email compose failed", zap.String("orderId", o.OrderID), zap.Error(err))
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := s.tr.DialAndSendWithContext(ctx, m); err != nil {
		s.log.Error("order email send failed", zap.String("orderId", o.OrderID), zap.Error(err))
		return false
	}
	s.log.Info("order email sent", zap.String("orderId", o.OrderID), zap.String("to", s.to))
	return true
}

func orNA(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
