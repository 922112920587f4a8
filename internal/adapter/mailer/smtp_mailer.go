package mailer

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/jiten398/single-checkout-flow/internal/adapter/observ"
	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
)

// Message is a rendered order email.
type Message struct {
	To       string
	Subject  string
	HTML     string
	Template string
}

// Compose renders the confirmation or failure email for an order.
func Compose(o entity.Order) (Message, error) {
	var buf bytes.Buffer
	msg := Message{To: o.Customer.Email}

	if o.Payment.Status == entity.StatusApproved {
		msg.Subject = "Order Confirmed - #" + o.OrderID
		msg.Template = "confirmed"
		if err := confirmedTmpl.Execute(&buf, o); err != nil {
			return Message{}, fmt.Errorf("render confirmed: %w", err)
		}
	} else {
		reason := "Gateway error"
		if o.Payment.Status == entity.StatusDeclined {
			reason = "Card was declined"
		}
		msg.Subject = "Order Failed - #" + o.OrderID
		msg.Template = "failed"
		data := struct {
			Order  entity.Order
			Reason string
		}{o, reason}
		if err := failedTmpl.Execute(&buf, data); err != nil {
			return Message{}, fmt.Errorf("render failed: %w", err)
		}
	}
	msg.HTML = buf.String()
	return msg, nil
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPMailer delivers order emails over SMTP.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: c, from: cfg.From}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	em := mail.NewMsg()
	if err := em.From(m.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := em.To(msg.To); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	em.Subject(msg.Subject)
	em.SetBodyString(mail.TypeTextHTML, msg.HTML)

	err := m.client.DialAndSendWithContext(ctx, em)
	observ.RecordEmail(msg.Template, err == nil)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// NotifyOrderPlaced sends the order email directly.
func (m *SMTPMailer) NotifyOrderPlaced(ctx context.Context, o entity.Order) error {
	msg, err := Compose(o)
	if err != nil {
		return err
	}
	return m.Send(ctx, msg)
}

var _ usecase.Notifier = (*SMTPMailer)(nil)
