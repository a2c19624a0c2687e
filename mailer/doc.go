// Package mailer provides [authkit.Mailer] implementations: a plain SMTP
// relay client for production and a writer-backed sink for development.
package mailer
