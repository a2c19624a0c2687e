// Package internal holds crypto-random identifier and token helpers shared by
// the engine's stores. Nothing here is part of the public API.
package internal
