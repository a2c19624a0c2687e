package authkit

import (
	"context"
	"time"

	"github.com/hearthside/authkit/internal"
)

// Authorize describes the authorize operation and its observable behavior.
//
// Authorize may return an error when input validation, dependency calls, or security checks fail.
// Authorize does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Authorize is the hot path: signature and expiry checks are local, followed
// by exactly one revocation lookup and one account lookup.
func (e *Engine) Authorize(ctx context.Context, tokenStr string) (*AuthResult, error) {
	if e == nil || e.jwtManager == nil || e.revocations == nil || e.accounts == nil {
		return nil, ErrEngineNotReady
	}

	if e.metrics != nil && e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() {
			e.metrics.Observe(MetricAuthorizeLatency, time.Since(start))
		}()
	}

	claims, err := e.jwtManager.Parse(tokenStr)
	if err != nil {
		e.metricInc(MetricAuthorizeFailure)
		return nil, ErrUnauthenticated
	}

	revoked, err := e.revocations.IsRevoked(ctx, internal.HashString(tokenStr))
	if err != nil {
		// Fail closed: an unreachable blacklist must not admit revoked tokens.
		e.metricInc(MetricAuthorizeFailure)
		return nil, ErrRevocationUnavailable
	}
	if revoked {
		e.metricInc(MetricRevokedTokenRejected)
		e.metricInc(MetricAuthorizeFailure)
		e.emitAudit(ctx, auditEventAuthorizeFailure, false, claims.UID, ErrUnauthenticated, func() map[string]string {
			return map[string]string{
				"reason": "token_revoked",
			}
		})
		return nil, ErrUnauthenticated
	}

	account, err := e.accounts.GetByID(ctx, claims.UID)
	if err != nil {
		e.metricInc(MetricAuthorizeFailure)
		e.emitAudit(ctx, auditEventAuthorizeFailure, false, claims.UID, ErrUnauthenticated, func() map[string]string {
			return map[string]string{
				"reason": "account_not_found",
			}
		})
		return nil, ErrUnauthenticated
	}

	e.metricInc(MetricAuthorizeSuccess)
	return &AuthResult{Account: account}, nil
}
