package httpapi

import (
	"context"
	"net"
	"net/http"

	"github.com/hearthside/authkit"
	"github.com/hearthside/authkit/middleware"
)

// Options defines a public type used by authkit APIs.
//
// Options instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Options struct {
	// Metrics, when set, is mounted at GET /metrics. Callers typically pass
	// the Prometheus exporter handler.
	Metrics http.Handler
}

// Server defines a public type used by authkit APIs.
//
// Server instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Server struct {
	engine *authkit.Engine
	mux    *http.ServeMux
}

// NewServer describes the newserver operation and its observable behavior.
//
// NewServer may return an error when input validation, dependency calls, or security checks fail.
// NewServer does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewServer(engine *authkit.Engine, opts Options) *Server {
	s := &Server{
		engine: engine,
		mux:    http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /auth/verify-registration", s.handleVerifyRegistration)
	s.mux.HandleFunc("POST /auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /auth/verify-login", s.handleVerifyLogin)
	s.mux.HandleFunc("POST /auth/forgot-password", s.handleForgotPassword)
	s.mux.HandleFunc("POST /auth/reset-password/{resetToken}", s.handleResetPassword)
	s.mux.HandleFunc("POST /auth/resend-otp", s.handleResendOTP)
	s.mux.HandleFunc("POST /auth/logout", s.handleLogout)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	guard := middleware.Guard(engine)
	s.mux.Handle("PUT /auth/profile", guard(http.HandlerFunc(s.handleUpdateProfile)))
	s.mux.Handle("PUT /auth/password", guard(http.HandlerFunc(s.handleChangePassword)))
	s.mux.Handle("GET /auth/me", guard(http.HandlerFunc(s.handleMe)))

	if opts.Metrics != nil {
		s.mux.Handle("GET /metrics", opts.Metrics)
	}

	return s
}

// Handler describes the handler operation and its observable behavior.
//
// Handler may return an error when input validation, dependency calls, or security checks fail.
// Handler does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// requestContext threads the caller's network identity into the engine for
// audit events.
func requestContext(r *http.Request) context.Context {
	ctx := r.Context()

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ctx = authkit.WithClientIP(ctx, host)
	ctx = authkit.WithUserAgent(ctx, r.UserAgent())

	return ctx
}
