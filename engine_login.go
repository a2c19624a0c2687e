package authkit

import (
	"context"
	"errors"
	"log"
)

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// A successful Login never yields a token. It verifies the credentials,
// dispatches a login OTP, and returns the account ID for the follow-up
// [Engine.VerifyLogin] call; the token is issued only by that step.
func (e *Engine) Login(ctx context.Context, email, password string) (string, error) {
	if e == nil || e.passwordHash == nil || e.accounts == nil || e.otpStore == nil {
		return "", ErrEngineNotReady
	}
	if password == "" {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "empty_password",
			}
		})
		return "", ErrInvalidCredentials
	}

	account, err := e.accounts.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "account_not_found",
			}
		})
		// Unknown email and wrong password are indistinguishable to callers.
		return "", ErrInvalidCredentials
	}

	ok, err := e.passwordHash.Verify(password, account.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, account.ID, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "password_mismatch",
			}
		})
		return "", ErrInvalidCredentials
	}

	if e.config.Account.RequireVerified && !account.Verified {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, account.ID, ErrAccountUnverified, func() map[string]string {
			return map[string]string{
				"reason": "unverified",
			}
		})
		return "", ErrAccountUnverified
	}

	if e.config.Password.UpgradeOnLogin {
		if needsUpgrade, err := e.passwordHash.NeedsUpgrade(account.PasswordHash); err == nil && needsUpgrade {
			if upgradedHash, err := e.passwordHash.Hash(password); err == nil {
				// Rehash update is best-effort and must not block the login flow.
				if err := e.accounts.UpdatePasswordHash(ctx, account.ID, upgradedHash); err != nil {
					log.Print("authkit: password hash upgrade update failed")
				}
			} else {
				log.Print("authkit: password hash upgrade generation failed")
			}
		}
	}
	password = ""

	// A second login overwrites the previous pending login challenge.
	if err := e.issueOTP(ctx, account, PurposeLogin); err != nil {
		return "", err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, account.ID, nil, nil)
	return account.ID, nil
}

func (e *Engine) mapOTPStoreError(err error) error {
	switch {
	case errors.Is(err, errOTPNotFound), errors.Is(err, errOTPCodeMismatch):
		return ErrOTPInvalid
	case errors.Is(err, errOTPCodeExpired):
		return ErrOTPExpired
	case errors.Is(err, errOTPAttemptsExhausted):
		return ErrOTPAttemptsExceeded
	case errors.Is(err, errOTPRedisUnavailable):
		return ErrOTPUnavailable
	default:
		return ErrOTPUnavailable
	}
}
