package internaldefs

import (
	"github.com/hearthside/authkit"
)

// CounterDef defines a public type used by authkit APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   authkit.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by authkit APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   authkit.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authentication engine.
var CounterDefs = []CounterDef{
	{ID: authkit.MetricRegisterSuccess, Name: "authkit_register_success_total", Help: "Successful registrations."},
	{ID: authkit.MetricRegisterDuplicate, Name: "authkit_register_duplicate_total", Help: "Registration attempts rejected as duplicate."},
	{ID: authkit.MetricRegisterFailure, Name: "authkit_register_failure_total", Help: "Failed registration attempts."},
	{ID: authkit.MetricOTPIssued, Name: "authkit_otp_issued_total", Help: "Issued one-time codes."},
	{ID: authkit.MetricOTPResent, Name: "authkit_otp_resent_total", Help: "Re-issued registration one-time codes."},
	{ID: authkit.MetricOTPVerifySuccess, Name: "authkit_otp_verify_success_total", Help: "Successful one-time code verifications."},
	{ID: authkit.MetricOTPVerifyFailure, Name: "authkit_otp_verify_failure_total", Help: "Failed one-time code verifications."},
	{ID: authkit.MetricOTPExpired, Name: "authkit_otp_expired_total", Help: "Verification attempts against expired one-time codes."},
	{ID: authkit.MetricOTPAttemptsExceeded, Name: "authkit_otp_attempts_exceeded_total", Help: "One-time challenges invalidated due to attempt cap."},
	{ID: authkit.MetricLoginSuccess, Name: "authkit_login_success_total", Help: "Successful login attempts."},
	{ID: authkit.MetricLoginFailure, Name: "authkit_login_failure_total", Help: "Failed login attempts."},
	{ID: authkit.MetricTokenIssued, Name: "authkit_token_issued_total", Help: "Issued session tokens."},
	{ID: authkit.MetricTokenRevoked, Name: "authkit_token_revoked_total", Help: "Revoked session tokens."},
	{ID: authkit.MetricRevokedTokenRejected, Name: "authkit_revoked_token_rejected_total", Help: "Authorize calls rejected for a revoked token."},
	{ID: authkit.MetricAuthorizeSuccess, Name: "authkit_authorize_success_total", Help: "Successful authorize calls."},
	{ID: authkit.MetricAuthorizeFailure, Name: "authkit_authorize_failure_total", Help: "Failed authorize calls."},
	{ID: authkit.MetricPasswordResetRequest, Name: "authkit_password_reset_request_total", Help: "Password reset requests."},
	{ID: authkit.MetricPasswordResetConfirmSuccess, Name: "authkit_password_reset_confirm_success_total", Help: "Successful password reset confirmations."},
	{ID: authkit.MetricPasswordResetConfirmFailure, Name: "authkit_password_reset_confirm_failure_total", Help: "Failed password reset confirmations."},
	{ID: authkit.MetricPasswordChangeSuccess, Name: "authkit_password_change_success_total", Help: "Successful password changes."},
	{ID: authkit.MetricPasswordChangeInvalidOld, Name: "authkit_password_change_invalid_old_total", Help: "Password change attempts with invalid old password."},
	{ID: authkit.MetricPasswordChangeReuseRejected, Name: "authkit_password_change_reuse_rejected_total", Help: "Password change attempts rejected for reuse."},
	{ID: authkit.MetricProfileUpdate, Name: "authkit_profile_update_total", Help: "Profile update operations."},
	{ID: authkit.MetricMailerFailure, Name: "authkit_mailer_failure_total", Help: "Failed mail dispatch attempts."},
}

// HistogramDefs is an exported constant or variable used by the authentication engine.
var HistogramDefs = []HistogramDef{
	{ID: authkit.MetricAuthorizeLatency, Name: "authkit_authorize_latency_seconds", Help: "Authorize latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the authentication engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the authentication engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
