package authkit

import (
	"context"

	"github.com/hearthside/authkit/internal"
)

// VerifyRegistration describes the verifyregistration operation and its observable behavior.
//
// VerifyRegistration may return an error when input validation, dependency calls, or security checks fail.
// VerifyRegistration does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) VerifyRegistration(ctx context.Context, accountID, code string) (*VerifyResult, error) {
	if e == nil || e.accounts == nil || e.otpStore == nil || e.jwtManager == nil {
		return nil, ErrEngineNotReady
	}

	account, err := e.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// The code is checked first: a replay of a consumed code reads as an
	// invalid code, never as already-verified.
	if err := e.consumeOTP(ctx, PurposeRegistration, account.ID, code); err != nil {
		return nil, err
	}
	if account.Verified {
		return nil, ErrAccountAlreadyVerified
	}

	if err := e.accounts.MarkVerified(ctx, account.ID); err != nil {
		e.emitAudit(ctx, auditEventOTPVerifyFailure, false, account.ID, err, func() map[string]string {
			return map[string]string{
				"purpose": PurposeRegistration.String(),
				"reason":  "mark_verified_failed",
			}
		})
		return nil, err
	}
	account.Verified = true

	return e.issueVerifyResult(ctx, account, PurposeRegistration)
}

// VerifyLogin describes the verifylogin operation and its observable behavior.
//
// VerifyLogin may return an error when input validation, dependency calls, or security checks fail.
// VerifyLogin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) VerifyLogin(ctx context.Context, accountID, code string) (*VerifyResult, error) {
	if e == nil || e.accounts == nil || e.otpStore == nil || e.jwtManager == nil {
		return nil, ErrEngineNotReady
	}

	account, err := e.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := e.consumeOTP(ctx, PurposeLogin, account.ID, code); err != nil {
		return nil, err
	}

	return e.issueVerifyResult(ctx, account, PurposeLogin)
}

// consumeOTP checks the provided code against the pending challenge for the
// account and purpose. Any outcome other than a match leaves no token issued;
// a match deletes the challenge so the code is single-use.
func (e *Engine) consumeOTP(ctx context.Context, purpose OTPPurpose, accountID, code string) error {
	if len(code) != e.config.OTP.Digits || !isNumericString(code) {
		e.metricInc(MetricOTPVerifyFailure)
		e.emitAudit(ctx, auditEventOTPVerifyFailure, false, accountID, ErrOTPInvalid, func() map[string]string {
			return map[string]string{
				"purpose": purpose.String(),
				"reason":  "malformed_code",
			}
		})
		return ErrOTPInvalid
	}

	_, err := e.otpStore.Consume(ctx, purpose, accountID, internal.HashBytes([]byte(code)), e.config.OTP.MaxAttempts)
	if err != nil {
		mapped := e.mapOTPStoreError(err)
		switch mapped {
		case ErrOTPExpired:
			e.metricInc(MetricOTPExpired)
		case ErrOTPAttemptsExceeded:
			e.metricInc(MetricOTPAttemptsExceeded)
		default:
			e.metricInc(MetricOTPVerifyFailure)
		}
		e.emitAudit(ctx, auditEventOTPVerifyFailure, false, accountID, mapped, func() map[string]string {
			return map[string]string{
				"purpose": purpose.String(),
			}
		})
		return mapped
	}

	e.metricInc(MetricOTPVerifySuccess)
	e.emitAudit(ctx, auditEventOTPVerifySuccess, true, accountID, nil, func() map[string]string {
		return map[string]string{
			"purpose": purpose.String(),
		}
	})
	return nil
}

func (e *Engine) issueVerifyResult(ctx context.Context, account Account, purpose OTPPurpose) (*VerifyResult, error) {
	token, err := e.jwtManager.CreateToken(account.ID)
	if err != nil {
		e.emitAudit(ctx, auditEventOTPVerifyFailure, false, account.ID, err, func() map[string]string {
			return map[string]string{
				"purpose": purpose.String(),
				"reason":  "token_issue_failed",
			}
		})
		return nil, err
	}

	e.metricInc(MetricTokenIssued)
	e.emitAudit(ctx, auditEventTokenIssued, true, account.ID, nil, func() map[string]string {
		return map[string]string{
			"purpose": purpose.String(),
		}
	})

	return &VerifyResult{
		Token:   token,
		Account: account,
	}, nil
}

func isNumericString(v string) bool {
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}
