package authkit

import (
	"context"
	"log"
	"time"

	"github.com/hearthside/authkit/internal"
)

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Logout blacklists the presented token until its natural expiry. The token
// must still verify; revoking an already-invalid token is reported as
// [ErrTokenInvalid]. Revocation is best-effort: a failed blacklist insertion
// is logged and audited while logout still reports success, since the client
// discards its copy of the token either way.
func (e *Engine) Logout(ctx context.Context, tokenStr string) error {
	if e == nil || e.jwtManager == nil || e.revocations == nil {
		return ErrEngineNotReady
	}

	claims, err := e.jwtManager.Parse(tokenStr)
	if err != nil {
		e.emitAudit(ctx, auditEventLogout, false, "", ErrTokenInvalid, func() map[string]string {
			return map[string]string{
				"reason": "invalid_token",
			}
		})
		return ErrTokenInvalid
	}

	expiry := time.Now().Add(e.jwtManager.TokenTTL())
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	if err := e.revocations.Revoke(ctx, internal.HashString(tokenStr), expiry); err != nil {
		log.Print("authkit: token revocation insert failed")
		e.emitAudit(ctx, auditEventLogout, false, claims.UID, ErrRevocationUnavailable, nil)
		return nil
	}

	e.metricInc(MetricTokenRevoked)
	e.emitAudit(ctx, auditEventLogout, true, claims.UID, nil, nil)
	return nil
}
