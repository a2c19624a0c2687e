package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/hearthside/authkit"
)

// Config defines a public type used by authkit APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Addr     string // host:port of the SMTP relay
	From     string
	Username string
	Password string // empty disables AUTH
	AppName  string
}

// SMTP sends authentication mail through a plain SMTP relay. It is a minimal
// [authkit.Mailer]; deployments with a transactional mail provider should
// implement the interface against that provider's API instead.
type SMTP struct {
	cfg  Config
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTP describes the newsmtp operation and its observable behavior.
//
// NewSMTP may return an error when input validation, dependency calls, or security checks fail.
// NewSMTP does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewSMTP(cfg Config) (*SMTP, error) {
	if cfg.Addr == "" {
		return nil, errors.New("smtp addr required")
	}
	if cfg.From == "" {
		return nil, errors.New("smtp from address required")
	}
	if cfg.AppName == "" {
		cfg.AppName = "authkit"
	}
	return &SMTP{cfg: cfg, send: smtp.SendMail}, nil
}

// SendOTP describes the sendotp operation and its observable behavior.
//
// SendOTP may return an error when input validation, dependency calls, or security checks fail.
// SendOTP does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *SMTP) SendOTP(ctx context.Context, email, code string, purpose authkit.OTPPurpose) error {
	subject := fmt.Sprintf("%s: your %s code", m.cfg.AppName, purpose)
	body := fmt.Sprintf("Your one-time code is %s. It expires shortly; do not share it.", code)
	return m.deliver(ctx, email, subject, body)
}

// SendPasswordReset describes the sendpasswordreset operation and its observable behavior.
//
// SendPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// SendPasswordReset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *SMTP) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	subject := fmt.Sprintf("%s: password reset", m.cfg.AppName)
	body := fmt.Sprintf("A password reset was requested for this address. Use this link within 10 minutes: %s", resetURL)
	return m.deliver(ctx, email, subject, body)
}

func (m *SMTP) deliver(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Password != "" {
		host := m.cfg.Addr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, host)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	return m.send(m.cfg.Addr, auth, m.cfg.From, []string{to}, []byte(msg.String()))
}
