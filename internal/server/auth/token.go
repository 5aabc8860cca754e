// Package auth derives and verifies stateless bearer tokens.
//
// A token is the base64 (standard) encoding of
// sha256(username || password_hash || secret). It carries no identity claim
// and no expiry: the server recomputes it per candidate user instead of
// storing sessions, and any password-hash change invalidates all tokens
// issued for that user.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// Token computes the bearer token for a (username, passwordHash) pair.
// The same inputs always produce the same token.
func Token(username string, passwordHash string, secret []byte) string {
	h := sha256.New()
	h.Write([]byte(username))
	h.Write([]byte(passwordHash))
	h.Write(secret)
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// Verify reports whether token was derived from the given (username,
// passwordHash) pair. Comparison is constant-time.
func Verify(token string, username string, passwordHash string, secret []byte) bool {
	expected := Token(username, passwordHash, secret)
	return subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1
}
