// Package mailer delivers transactional email through SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cama-app/apiserver/config"
	gomail "github.com/wneessen/go-mail"
)

// Mailer sends a plain-text message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTPMailer constructs a mailer from config.
func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp host is required")
	}
	if strings.TrimSpace(cfg.Username) == "" || strings.TrimSpace(cfg.Password) == "" {
		return nil, errors.New("smtp username and password are required")
	}

	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return nil, err
	}

	from := cfg.From
	if strings.TrimSpace(from) == "" {
		from = cfg.Username
	}

	return &SMTPMailer{
		client: client,
		from:   from,
	}, nil
}

// Send delivers one message. Failures surface to the caller; nothing
// is retried here.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	return m.client.DialAndSendWithContext(ctx, msg)
}

// LogMailer writes messages to the process log instead of sending
// them. It stands in for SMTP in development when no credentials are
// configured.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	log.Printf("mail to %s: %s\n%s", to, subject, body)
	return nil
}

const otpSubject = "🔐 Admin Authentication OTP – Secure Access Confirmation"

// OTPBody renders the verification message carrying the one-time code.
func OTPBody(code string) string {
	return fmt.Sprintf(`Dear Administrator,

To verify your identity and access the admin panel securely, please use the following One-Time Password (OTP):

🔑 **%s**

This OTP is automatically generated for internal verification and is valid for a limited time. **Do not share or forward this code.**

If you did not request this OTP, please investigate immediately to ensure the security of your system.

For any security concerns, please check your system logs or reach out to your IT administrator.

Best regards,
CAMA
`, code)
}

// OTPSubject returns the subject line used for OTP mail.
func OTPSubject() string {
	return otpSubject
}
