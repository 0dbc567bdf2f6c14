// Package id generates the public identifiers used across the service
// (member ids, loan ids, repayment ids, notification ids).
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 returns exactly 32 lowercase hex characters, no separators.
// These are the ids validated by the hex32 request tag.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
