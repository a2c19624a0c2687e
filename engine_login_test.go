package authkit

import (
	"context"
	"errors"
	"testing"
)

func verifyTestAccount(t *testing.T, engine *Engine, mail *mockMailer, account Account) {
	t.Helper()

	if _, err := engine.VerifyRegistration(context.Background(), account.ID, mail.lastCode()); err != nil {
		t.Fatalf("VerifyRegistration failed: %v", err)
	}
}

func TestLoginIssuesOTPAndReturnsAccountID(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newMockAccountStore()
	mail := &mockMailer{}
	engine := newTestEngine(t, rdb, store, mail)

	account := registerTestAccount(t, engine, "a@x.com")
	verifyTestAccount(t, engine, mail, account)

	accountID, err := engine.Login(ctx, "a@x.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if accountID != account.ID {
		t.Fatalf("expected account ID %q, got %q", account.ID, accountID)
	}

	if mail.lastOTPPurpose != PurposeLogin {
		t.Fatalf("expected a login OTP, got purpose %v", mail.lastOTPPurpose)
	}
	if rdb.Exists(ctx, "aotp:login:"+account.ID).Val() != 1 {
		t.Fatal("expected pending login OTP record in redis")
	}
}

func TestLoginUnknownEmailAndWrongPasswordIndistinguishable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newMockAccountStore()
	mail := &mockMailer{}
	engine := newTestEngine(t, rdb, store, mail)

	registerTestAccount(t, engine, "a@x.com")

	_, unknownErr := engine.Login(ctx, "nobody@x.com", "Passw0rd!")
	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknownErr)
	}

	_, wrongErr := engine.Login(ctx, "a@x.com", "WrongPass1!")
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongErr)
	}

	if unknownErr.Error() != wrongErr.Error() {
		t.Fatal("unknown email and wrong password must be indistinguishable")
	}
}

func TestLoginEmptyPassword(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	engine := newTestEngine(t, rdb, newMockAccountStore(), &mockMailer{})

	if _, err := engine.Login(context.Background(), "a@x.com", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRequireVerifiedGate(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newMockAccountStore()
	mail := &mockMailer{}

	cfg := newTestConfig()
	cfg.Account.RequireVerified = true
	engine := newTestEngineWithConfig(t, rdb, store, mail, cfg)

	registerTestAccount(t, engine, "a@x.com")

	if _, err := engine.Login(ctx, "a@x.com", "Passw0rd!"); !errors.Is(err, ErrAccountUnverified) {
		t.Fatalf("expected ErrAccountUnverified, got %v", err)
	}
}

func TestSecondLoginOverwritesFirstOTP(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newMockAccountStore()
	mail := &mockMailer{}
	engine := newTestEngine(t, rdb, store, mail)

	account := registerTestAccount(t, engine, "a@x.com")
	verifyTestAccount(t, engine, mail, account)

	if _, err := engine.Login(ctx, "a@x.com", "Passw0rd!"); err != nil {
		t.Fatalf("first Login failed: %v", err)
	}
	firstCode := mail.lastCode()

	if _, err := engine.Login(ctx, "a@x.com", "Passw0rd!"); err != nil {
		t.Fatalf("second Login failed: %v", err)
	}
	secondCode := mail.lastCode()

	if firstCode == secondCode {
		t.Skip("codes collided; overwrite is unobservable in this run")
	}

	if _, err := engine.VerifyLogin(ctx, account.ID, firstCode); !errors.Is(err, ErrOTPInvalid) {
		t.Fatalf("expected first OTP to be invalidated, got %v", err)
	}
	if _, err := engine.VerifyLogin(ctx, account.ID, secondCode); err != nil {
		t.Fatalf("expected latest OTP to verify, got %v", err)
	}
}

func TestLoginNeverReturnsToken(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newMockAccountStore()
	mail := &mockMailer{}
	engine := newTestEngine(t, rdb, store, mail)

	account := registerTestAccount(t, engine, "a@x.com")
	verifyTestAccount(t, engine, mail, account)

	// Login yields only the account ID; the token comes from VerifyLogin.
	accountID, err := engine.Login(ctx, "a@x.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	result, err := engine.VerifyLogin(ctx, accountID, mail.lastCode())
	if err != nil {
		t.Fatalf("VerifyLogin failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected VerifyLogin to issue the token")
	}
	if _, err := engine.Authorize(ctx, result.Token); err != nil {
		t.Fatalf("Authorize of issued token failed: %v", err)
	}
}

func TestLoginMailerFailure(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newMockAccountStore()
	mail := &mockMailer{}
	engine := newTestEngine(t, rdb, store, mail)

	account := registerTestAccount(t, engine, "a@x.com")
	verifyTestAccount(t, engine, mail, account)

	mail.setOTPErr(errors.New("smtp down"))
	if _, err := engine.Login(ctx, "a@x.com", "Passw0rd!"); !errors.Is(err, ErrMailerUnavailable) {
		t.Fatalf("expected ErrMailerUnavailable, got %v", err)
	}
}
