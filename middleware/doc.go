// Package middleware exposes an HTTP middleware adapter that enforces bearer
// token authorization on top of authkit.Engine validation.
//
// # Guards
//
//   - [Guard] — JWT verification plus revocation blacklist check.
//
// The guard reads the Authorization header, calls Engine.Authorize, and injects
// the validated result into the request context for [AuthResultFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT implement
// authentication logic itself — all decisions are delegated to Engine.Authorize.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from Engine.Authorize.
package middleware
