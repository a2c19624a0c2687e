package mailer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/hearthside/authkit"
)

// Writer is a development [authkit.Mailer] that prints outbound mail to an
// io.Writer instead of delivering it.
type Writer struct {
	w  io.Writer
	mu sync.Mutex
}

// NewWriter describes the newwriter operation and its observable behavior.
//
// NewWriter may return an error when input validation, dependency calls, or security checks fail.
// NewWriter does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// SendOTP describes the sendotp operation and its observable behavior.
//
// SendOTP may return an error when input validation, dependency calls, or security checks fail.
// SendOTP does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Writer) SendOTP(ctx context.Context, email, code string, purpose authkit.OTPPurpose) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := fmt.Fprintf(m.w, "mail to=%s purpose=%s otp=%s\n", email, purpose, code)
	return err
}

// SendPasswordReset describes the sendpasswordreset operation and its observable behavior.
//
// SendPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// SendPasswordReset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Writer) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := fmt.Fprintf(m.w, "mail to=%s reset_url=%s\n", email, resetURL)
	return err
}
