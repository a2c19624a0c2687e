package authkit

import (
	"context"
	"errors"
	"time"

	"github.com/hearthside/authkit/internal"
)

// RequestPasswordReset describes the requestpasswordreset operation and its observable behavior.
//
// RequestPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// RequestPasswordReset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// An email with no matching account reports [ErrAccountNotFound].
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) error {
	if e == nil || e.accounts == nil || e.resetStore == nil || e.mailer == nil {
		return ErrEngineNotReady
	}

	account, err := e.accounts.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			e.emitAudit(ctx, auditEventPasswordResetRequest, false, "", ErrAccountNotFound, func() map[string]string {
				return map[string]string{
					"reason": "unknown_email",
				}
			})
			return ErrAccountNotFound
		}
		return err
	}

	resetID, err := internal.NewResetID()
	if err != nil {
		return err
	}
	secret, err := internal.NewResetSecret()
	if err != nil {
		return err
	}
	token, err := internal.EncodeResetToken(resetID.String(), secret)
	if err != nil {
		return err
	}

	// A second request overwrites nothing: each request gets its own resetID
	// key, and each record is single-use with its own TTL.
	record := &passwordResetRecord{
		AccountID:  account.ID,
		SecretHash: internal.HashSecret(secret),
		ExpiresAt:  time.Now().Add(e.config.PasswordReset.ResetTTL).Unix(),
	}
	if err := e.resetStore.Save(ctx, resetID.String(), record, e.config.PasswordReset.ResetTTL); err != nil {
		return ErrResetUnavailable
	}

	resetURL := token
	if e.config.PasswordReset.ResetURLBase != "" {
		resetURL = e.config.PasswordReset.ResetURLBase + "?token=" + token
	}

	if err := e.mailer.SendPasswordReset(ctx, account.Email, resetURL); err != nil {
		// Roll back so a token that never reached the user cannot linger.
		_ = e.resetStore.Delete(ctx, resetID.String())
		e.metricInc(MetricMailerFailure)
		e.emitAudit(ctx, auditEventMailerFailure, false, account.ID, ErrMailerUnavailable, func() map[string]string {
			return map[string]string{
				"purpose": "password_reset",
			}
		})
		return ErrMailerUnavailable
	}

	e.metricInc(MetricPasswordResetRequest)
	e.emitAudit(ctx, auditEventPasswordResetRequest, true, account.ID, nil, nil)
	return nil
}

// ConfirmPasswordReset describes the confirmpasswordreset operation and its observable behavior.
//
// ConfirmPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// ConfirmPasswordReset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if e == nil || e.accounts == nil || e.resetStore == nil || e.passwordHash == nil {
		return ErrEngineNotReady
	}

	if err := ValidatePassword(newPassword); err != nil {
		e.metricInc(MetricPasswordResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, "", err, func() map[string]string {
			return map[string]string{
				"reason": "password_policy",
			}
		})
		return err
	}

	resetID, secret, err := internal.DecodeResetToken(token)
	if err != nil {
		e.metricInc(MetricPasswordResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, "", ErrResetTokenInvalid, func() map[string]string {
			return map[string]string{
				"reason": "malformed_token",
			}
		})
		return ErrResetTokenInvalid
	}

	record, err := e.resetStore.Consume(ctx, resetID, internal.HashSecret(secret), e.config.PasswordReset.MaxAttempts)
	if err != nil {
		mapped := mapResetStoreError(err)
		e.metricInc(MetricPasswordResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, "", mapped, nil)
		return mapped
	}

	newHash, err := e.passwordHash.Hash(newPassword)
	if err != nil {
		e.metricInc(MetricPasswordResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, record.AccountID, ErrPasswordPolicy, func() map[string]string {
			return map[string]string{
				"reason": "hash_policy",
			}
		})
		return ErrPasswordPolicy
	}
	newPassword = ""

	if err := e.accounts.UpdatePasswordHash(ctx, record.AccountID, newHash); err != nil {
		e.metricInc(MetricPasswordResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, record.AccountID, err, func() map[string]string {
			return map[string]string{
				"reason": "update_hash_failed",
			}
		})
		return err
	}

	e.metricInc(MetricPasswordResetConfirmSuccess)
	e.emitAudit(ctx, auditEventPasswordResetConfirm, true, record.AccountID, nil, nil)
	return nil
}

func mapResetStoreError(err error) error {
	switch {
	case errors.Is(err, errResetNotFound), errors.Is(err, errResetSecretMismatch):
		return ErrResetTokenInvalid
	case errors.Is(err, errResetAttemptsExceeded):
		return ErrResetTokenInvalid
	case errors.Is(err, errResetRedisUnavailable):
		return ErrResetUnavailable
	default:
		return ErrResetUnavailable
	}
}
