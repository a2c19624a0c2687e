package authkit

import (
	"context"
	"errors"
	"time"

	"github.com/hearthside/authkit/internal"
)

// Register describes the register operation and its observable behavior.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Register does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (Account, error) {
	if e == nil || e.passwordHash == nil || e.accounts == nil || e.otpStore == nil {
		return Account{}, ErrEngineNotReady
	}

	if err := ValidateName(req.Name); err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", err, func() map[string]string {
			return map[string]string{
				"reason": "invalid_name",
			}
		})
		return Account{}, err
	}

	email := NormalizeEmail(req.Email)
	if err := ValidateEmail(email); err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", err, func() map[string]string {
			return map[string]string{
				"reason": "invalid_email",
			}
		})
		return Account{}, err
	}

	if err := ValidatePassword(req.Password); err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", err, func() map[string]string {
			return map[string]string{
				"reason": "password_policy",
			}
		})
		return Account{}, err
	}

	passwordHash, err := e.passwordHash.Hash(req.Password)
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", ErrPasswordPolicy, func() map[string]string {
			return map[string]string{
				"reason": "hash_policy",
			}
		})
		return Account{}, ErrPasswordPolicy
	}
	req.Password = ""

	account, err := e.accounts.Create(ctx, CreateAccountInput{
		Name:         req.Name,
		Email:        email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateAccount) {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegisterDuplicate, false, "", ErrDuplicateAccount, func() map[string]string {
				return map[string]string{
					"email": email,
				}
			})
			return Account{}, ErrDuplicateAccount
		}
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", err, func() map[string]string {
			return map[string]string{
				"reason": "store_create_failed",
			}
		})
		return Account{}, err
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, account.ID, nil, nil)

	// The account persists even when OTP dispatch fails: the caller can
	// recover with ResendRegistrationOTP.
	if err := e.issueOTP(ctx, account, PurposeRegistration); err != nil {
		return account, err
	}

	return account, nil
}

// ResendRegistrationOTP describes the resendregistrationotp operation and its observable behavior.
//
// ResendRegistrationOTP may return an error when input validation, dependency calls, or security checks fail.
// ResendRegistrationOTP does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ResendRegistrationOTP(ctx context.Context, email string) error {
	if e == nil || e.accounts == nil || e.otpStore == nil {
		return ErrEngineNotReady
	}

	account, err := e.accounts.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}
	if account.Verified {
		return ErrAccountAlreadyVerified
	}

	if err := e.issueOTP(ctx, account, PurposeRegistration); err != nil {
		return err
	}

	e.metricInc(MetricOTPResent)
	e.emitAudit(ctx, auditEventOTPResent, true, account.ID, nil, func() map[string]string {
		return map[string]string{
			"purpose": PurposeRegistration.String(),
		}
	})
	return nil
}

// issueOTP generates a fresh code, overwrites any pending challenge for the
// same purpose, and dispatches it. The plaintext code never outlives this
// call.
func (e *Engine) issueOTP(ctx context.Context, account Account, purpose OTPPurpose) error {
	code, err := internal.NewOTP(e.config.OTP.Digits)
	if err != nil {
		return err
	}

	record := &otpRecord{
		AccountID: account.ID,
		CodeHash:  internal.HashBytes([]byte(code)),
		ExpiresAt: time.Now().Add(e.config.OTP.TTL).Unix(),
		Purpose:   purpose,
	}
	if err := e.otpStore.Save(ctx, record); err != nil {
		return ErrOTPUnavailable
	}

	if err := e.mailer.SendOTP(ctx, account.Email, code, purpose); err != nil {
		e.metricInc(MetricMailerFailure)
		e.emitAudit(ctx, auditEventMailerFailure, false, account.ID, ErrMailerUnavailable, func() map[string]string {
			return map[string]string{
				"purpose": purpose.String(),
			}
		})
		return ErrMailerUnavailable
	}

	e.metricInc(MetricOTPIssued)
	e.emitAudit(ctx, auditEventOTPIssued, true, account.ID, nil, func() map[string]string {
		return map[string]string{
			"purpose": purpose.String(),
		}
	})
	return nil
}
