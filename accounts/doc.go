// Package accounts provides a Redis-backed implementation of
// [authkit.AccountStore] for deployments without an existing user database.
package accounts
