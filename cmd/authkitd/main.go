// Command authkitd serves the authentication engine as an HTTP JSON service.
//
// Configuration is taken from flags with environment fallbacks. Without a
// Redis address it starts an embedded miniredis, and without SMTP settings it
// prints outbound mail to stdout; both fallbacks are for development only.
//
// Run:
//
//	go run ./cmd/authkitd -jwt-secret=dev-secret-at-least-32-bytes-long
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/hearthside/authkit"
	"github.com/hearthside/authkit/accounts"
	"github.com/hearthside/authkit/httpapi"
	"github.com/hearthside/authkit/mailer"
	"github.com/hearthside/authkit/metrics/export/prometheus"
)

func main() {
	var (
		listenAddr   = flag.String("addr", ":8080", "HTTP listen address")
		redisAddr    = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or embedded miniredis is used")
		jwtSecret    = flag.String("jwt-secret", "", "HS256 signing secret; if empty, AUTHKIT_JWT_SECRET env or a random dev secret is used")
		smtpAddr     = flag.String("smtp-addr", "", "SMTP relay host:port; if empty, SMTP_ADDR env or stdout mail sink is used")
		smtpFrom     = flag.String("smtp-from", "", "SMTP sender address")
		smtpUser     = flag.String("smtp-user", "", "SMTP AUTH username")
		smtpPass     = flag.String("smtp-pass", "", "SMTP AUTH password; empty disables AUTH")
		resetURLBase = flag.String("reset-url-base", "", "base URL embedded in password reset mail")
	)
	flag.Parse()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var cleanup func()
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			log.Fatalf("authkitd: start miniredis: %v", err)
		}
		addr = mr.Addr()
		cleanup = mr.Close
		log.Printf("authkitd: no redis configured, using embedded miniredis at %s (development only)", addr)
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer func() {
		_ = client.Close()
		if cleanup != nil {
			cleanup()
		}
	}()

	secret := *jwtSecret
	if secret == "" {
		secret = os.Getenv("AUTHKIT_JWT_SECRET")
	}
	if secret == "" {
		// Tokens do not survive a restart with an ephemeral secret.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			log.Fatalf("authkitd: generate dev secret: %v", err)
		}
		secret = hex.EncodeToString(buf)
		log.Print("authkitd: no JWT secret configured, generated an ephemeral one (development only)")
	}

	cfg := authkit.DefaultConfig()
	cfg.JWT.Secret = []byte(secret)
	cfg.PasswordReset.ResetURLBase = *resetURLBase

	mail, err := buildMailer(*smtpAddr, *smtpFrom, *smtpUser, *smtpPass)
	if err != nil {
		log.Fatalf("authkitd: configure mailer: %v", err)
	}

	engine, err := authkit.New().
		WithConfig(cfg).
		WithRedis(client).
		WithAccountStore(accounts.NewRedisStore(client)).
		WithMailer(mail).
		Build()
	if err != nil {
		log.Fatalf("authkitd: build engine: %v", err)
	}
	defer engine.Close()

	api := httpapi.NewServer(engine, httpapi.Options{
		Metrics: prometheus.NewPrometheusExporter(engine).Handler(),
	})

	srv := &http.Server{
		Addr:              *listenAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("authkitd: listening on %s", *listenAddr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("authkitd: serve: %v", err)
		}
	case sig := <-stop:
		log.Printf("authkitd: received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("authkitd: shutdown: %v", err)
		}
	}
}

func buildMailer(addr, from, user, pass string) (authkit.Mailer, error) {
	if addr == "" {
		addr = os.Getenv("SMTP_ADDR")
	}
	if addr == "" {
		fmt.Fprintln(os.Stderr, "authkitd: no SMTP configured, printing mail to stdout (development only)")
		return mailer.NewWriter(os.Stdout), nil
	}
	if from == "" {
		from = os.Getenv("SMTP_FROM")
	}
	return mailer.NewSMTP(mailer.Config{
		Addr:     addr,
		From:     from,
		Username: user,
		Password: pass,
	})
}
