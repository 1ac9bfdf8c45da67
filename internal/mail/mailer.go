package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/greifwand/systemboard/internal/config"
)

// Mailer delivers plaintext notification mail. Delivery is fire-and-forget
// from the caller's point of view: a failed send surfaces as an error but
// never rolls back the account mutation that triggered it.
type Mailer interface {
	Send(to string, subject string, body string) error
}

type SMTPMailer struct {
	config config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{config: cfg}
}

func (mailer *SMTPMailer) Send(to string, subject string, body string) error {
	fromHeader := fmt.Sprintf("%s <%s>", mailer.config.FromName, mailer.config.From)
	message := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	addr := mailer.config.Host + ":" + mailer.config.Port
	auth := smtp.PlainAuth("", mailer.config.Username, mailer.config.Password, mailer.config.Host)
	if err := smtp.SendMail(addr, auth, mailer.config.From, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer is the development fallback when no SMTP host is configured.
type LogMailer struct{}

func (LogMailer) Send(to string, subject string, body string) error {
	log.Printf("mail (not sent): to=%s subject=%q %d bytes", to, subject, len(body))
	return nil
}

// FromConfig picks the SMTP sender when a host is configured and the
// log-only fallback otherwise.
func FromConfig(cfg config.SMTPConfig) Mailer {
	if cfg.Host == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}
