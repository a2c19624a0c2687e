// Package authkit provides an email-first authentication engine with OTP-based
// two-factor login, JWT bearer tokens, Redis-backed token revocation, and
// single-use password reset tokens.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// authkit is the public surface. It exposes [Engine], [Builder], [Config], and value types
// (Account, AuthResult, VerifyResult, MetricsSnapshot). Durable account storage and email
// delivery are collaborator interfaces ([AccountStore], [Mailer]) supplied by the caller;
// the transient state machine records (pending OTPs, reset tokens, revoked tokens) are
// owned by the engine and live in Redis under TTL keys.
//
// # What this package must NOT do
//
//   - Expose Redis clients, internal stores, or record encoding details in its public API.
//   - Hold or return plaintext passwords, OTP codes, or reset secrets after dispatch.
//   - Perform I/O outside of Engine methods (construction via Builder is allocation-only
//     until Build).
//
// # Performance contract
//
// Authorize is the hot path: it runs on every authenticated request and is limited to one
// Redis round-trip (the revocation check) plus one account lookup. Login, Register, and
// the OTP verification flows are allowed one store round-trip and one mail dispatch each.
package authkit
