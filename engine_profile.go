package authkit

import (
	"context"
	"strings"
)

// UpdateName describes the updatename operation and its observable behavior.
//
// UpdateName may return an error when input validation, dependency calls, or security checks fail.
// UpdateName does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) UpdateName(ctx context.Context, accountID, name string) (Account, error) {
	if e == nil || e.accounts == nil {
		return Account{}, ErrEngineNotReady
	}
	if accountID == "" {
		return Account{}, ErrAccountNotFound
	}

	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return Account{}, err
	}

	account, err := e.accounts.UpdateName(ctx, accountID, name)
	if err != nil {
		return Account{}, err
	}

	e.metricInc(MetricProfileUpdate)
	e.emitAudit(ctx, auditEventProfileUpdate, true, accountID, nil, nil)
	return account, nil
}

// ChangePassword describes the changepassword operation and its observable behavior.
//
// ChangePassword may return an error when input validation, dependency calls, or security checks fail.
// ChangePassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The stored hash is untouched unless every check passes: old password must
// verify, the new password must satisfy policy, and the new password must
// differ from the current one.
func (e *Engine) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	if e == nil || e.passwordHash == nil || e.accounts == nil {
		return ErrEngineNotReady
	}
	if accountID == "" || oldPassword == "" {
		e.metricInc(MetricPasswordChangeInvalidOld)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, accountID, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "invalid_input",
			}
		})
		return ErrInvalidCredentials
	}

	if err := ValidatePassword(newPassword); err != nil {
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, accountID, err, func() map[string]string {
			return map[string]string{
				"reason": "password_policy",
			}
		})
		return err
	}

	account, err := e.accounts.GetByID(ctx, accountID)
	if err != nil {
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, accountID, err, func() map[string]string {
			return map[string]string{
				"reason": "account_not_found",
			}
		})
		return err
	}

	oldOK, err := e.passwordHash.Verify(oldPassword, account.PasswordHash)
	if err != nil || !oldOK {
		e.metricInc(MetricPasswordChangeInvalidOld)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, accountID, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "old_password_mismatch",
			}
		})
		return ErrInvalidCredentials
	}

	samePassword, err := e.passwordHash.Verify(newPassword, account.PasswordHash)
	if err == nil && samePassword {
		e.metricInc(MetricPasswordChangeReuseRejected)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, accountID, ErrPasswordReuse, nil)
		return ErrPasswordReuse
	}

	newHash, err := e.passwordHash.Hash(newPassword)
	if err != nil {
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, accountID, ErrPasswordPolicy, func() map[string]string {
			return map[string]string{
				"reason": "hash_policy",
			}
		})
		return ErrPasswordPolicy
	}

	if err := e.accounts.UpdatePasswordHash(ctx, accountID, newHash); err != nil {
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, accountID, err, func() map[string]string {
			return map[string]string{
				"reason": "update_hash_failed",
			}
		})
		return err
	}

	oldPassword = ""
	newPassword = ""
	e.metricInc(MetricPasswordChangeSuccess)
	e.emitAudit(ctx, auditEventPasswordChangeSuccess, true, accountID, nil, nil)
	return nil
}
