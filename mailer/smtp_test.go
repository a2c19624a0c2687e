package mailer

import (
	"bytes"
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/hearthside/authkit"
)

type sentMail struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	msg  []byte
}

func newCaptureSMTP(t *testing.T, cfg Config) (*SMTP, *sentMail) {
	t.Helper()

	m, err := NewSMTP(cfg)
	if err != nil {
		t.Fatalf("NewSMTP failed: %v", err)
	}

	captured := &sentMail{}
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		captured.addr = addr
		captured.auth = a
		captured.from = from
		captured.to = to
		captured.msg = msg
		return nil
	}
	return m, captured
}

func TestNewSMTPValidatesConfig(t *testing.T) {
	if _, err := NewSMTP(Config{From: "noreply@x.com"}); err == nil {
		t.Fatal("expected error for missing Addr")
	}
	if _, err := NewSMTP(Config{Addr: "relay:25"}); err == nil {
		t.Fatal("expected error for missing From")
	}
}

func TestSendOTPComposesMessage(t *testing.T) {
	m, captured := newCaptureSMTP(t, Config{Addr: "relay:25", From: "noreply@x.com"})

	if err := m.SendOTP(context.Background(), "a@x.com", "123456", authkit.PurposeLogin); err != nil {
		t.Fatalf("SendOTP failed: %v", err)
	}

	if captured.addr != "relay:25" || captured.from != "noreply@x.com" {
		t.Fatalf("unexpected relay parameters %+v", captured)
	}
	if len(captured.to) != 1 || captured.to[0] != "a@x.com" {
		t.Fatalf("unexpected recipients %v", captured.to)
	}
	if captured.auth != nil {
		t.Fatal("expected no AUTH without a password")
	}

	msg := string(captured.msg)
	if !strings.Contains(msg, "To: a@x.com\r\n") {
		t.Fatalf("missing To header in %q", msg)
	}
	if !strings.Contains(msg, "123456") {
		t.Fatalf("missing code in %q", msg)
	}
	// Default app name lands in the subject.
	if !strings.Contains(msg, "Subject: authkit: your login code\r\n") {
		t.Fatalf("unexpected subject in %q", msg)
	}
}

func TestSendPasswordResetComposesMessage(t *testing.T) {
	m, captured := newCaptureSMTP(t, Config{Addr: "relay:25", From: "noreply@x.com", AppName: "myapp"})

	if err := m.SendPasswordReset(context.Background(), "a@x.com", "https://x.com/reset?token=abc"); err != nil {
		t.Fatalf("SendPasswordReset failed: %v", err)
	}

	msg := string(captured.msg)
	if !strings.Contains(msg, "Subject: myapp: password reset\r\n") {
		t.Fatalf("unexpected subject in %q", msg)
	}
	if !strings.Contains(msg, "https://x.com/reset?token=abc") {
		t.Fatalf("missing reset link in %q", msg)
	}
}

func TestSendUsesAuthWhenPasswordSet(t *testing.T) {
	m, captured := newCaptureSMTP(t, Config{
		Addr:     "relay.example.com:587",
		From:     "noreply@x.com",
		Username: "user",
		Password: "pass",
	})

	if err := m.SendOTP(context.Background(), "a@x.com", "123456", authkit.PurposeRegistration); err != nil {
		t.Fatalf("SendOTP failed: %v", err)
	}
	if captured.auth == nil {
		t.Fatal("expected PLAIN auth with a password configured")
	}
}

func TestSendRespectsCancelledContext(t *testing.T) {
	m, captured := newCaptureSMTP(t, Config{Addr: "relay:25", From: "noreply@x.com"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := m.SendOTP(ctx, "a@x.com", "123456", authkit.PurposeLogin); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if captured.msg != nil {
		t.Fatal("expected no delivery attempt after cancellation")
	}
}

func TestWriterSinkFormatsMail(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.SendOTP(context.Background(), "a@x.com", "123456", authkit.PurposeRegistration); err != nil {
		t.Fatalf("SendOTP failed: %v", err)
	}
	if err := w.SendPasswordReset(context.Background(), "a@x.com", "https://x.com/reset"); err != nil {
		t.Fatalf("SendPasswordReset failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "to=a@x.com") || !strings.Contains(out, "otp=123456") {
		t.Fatalf("unexpected writer output %q", out)
	}
	if !strings.Contains(out, "reset_url=https://x.com/reset") {
		t.Fatalf("unexpected writer output %q", out)
	}
}
