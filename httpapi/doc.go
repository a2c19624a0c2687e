// Package httpapi exposes the authentication engine as an HTTP JSON service.
//
// # Endpoints
//
//	POST /auth/register                    {name, email, password} → {success, userId}
//	POST /auth/verify-registration         {userId, otp}           → {success, token, user}
//	POST /auth/login                       {email, password}       → {success, userId}
//	POST /auth/verify-login                {userId, otp}           → {success, token, user}
//	POST /auth/forgot-password             {email}                 → {success}
//	POST /auth/reset-password/:resetToken  {password}              → {success}
//	POST /auth/resend-otp                  {email}                 → {success}
//	POST /auth/logout                      (bearer)                → {success}
//	PUT  /auth/profile                     (bearer) {name}         → {success, user}
//	PUT  /auth/password                    (bearer) {currentPassword, newPassword} → {success}
//	GET  /auth/me                          (bearer)                → {success, user}
//	GET  /healthz                                                  → {success}
//	GET  /metrics                          (when configured)       → Prometheus text
//
// Error responses are {success:false, message, errors?} with field-level
// validation detail as {path, msg} arrays. Validation failures are rejected
// before any business logic runs; all other domain errors are mapped to an
// HTTP status at the handler boundary with internal detail suppressed.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls and Engine errors
// into statuses. It does NOT implement authentication logic itself.
//
// # What this package must NOT do
//
//   - Access Redis or the account store directly (Engine handles I/O).
//   - Leak internal error detail to clients.
package httpapi
