// Package digest provides the keyed fingerprint functions compared by the
// search package.
//
// A Fingerprinter maps (candidate, salt) to a fixed-width Token. The search
// code only ever compares tokens for equality, so any deterministic, pure and
// concurrency-safe function can be plugged in. Two are built in:
//
//   - DES: one DES-ECB block of the candidate under the salt used as key
//   - BLAKE2b: an 8-byte keyed BLAKE2b digest of the candidate
//
// Neither is meant to protect anything.
package digest

import (
	"encoding/hex"
	"fmt"
)

// Size is the width in bytes of salts and tokens.
const Size = 8

// Token is the fixed-width output of a Fingerprinter.
type Token [Size]byte

// String returns the token as 16 lowercase hex characters.
func (t Token) String() string {
	return hex.EncodeToString(t[:])
}

// ParseToken parses the output of Token.String.
func ParseToken(s string) (Token, error) {
	var t Token
	if len(s) != 2*Size {
		return t, fmt.Errorf("digest: token must be %d hex characters, got %d", 2*Size, len(s))
	}
	if _, err := hex.Decode(t[:], []byte(s)); err != nil {
		return t, fmt.Errorf("digest: invalid token %q: %w", s, err)
	}
	return t, nil
}

// Salt is the key material mixed into every fingerprint.
type Salt [Size]byte

// SaltFromString copies the first Size bytes of s into a Salt.
// Shorter strings are zero padded.
func SaltFromString(s string) Salt {
	var salt Salt
	copy(salt[:], s)
	return salt
}

// Fingerprinter computes the keyed fingerprint of a candidate.
// Implementations must be safe for concurrent use.
type Fingerprinter interface {
	Fingerprint(candidate string, salt Salt) Token
}

// Func adapts an ordinary function to the Fingerprinter interface.
type Func func(candidate string, salt Salt) Token

// Fingerprint calls f(candidate, salt).
func (f Func) Fingerprint(candidate string, salt Salt) Token {
	return f(candidate, salt)
}

// block truncates or zero-pads candidate to a single block.
func block(candidate string) [Size]byte {
	var b [Size]byte
	copy(b[:], candidate)
	return b
}

// ByName returns a new built-in Fingerprinter by its stable name.
func ByName(name string) (Fingerprinter, bool) {
	switch name {
	case "des", "":
		return NewDES(), true
	case "blake2b":
		return BLAKE2b{}, true
	default:
		return nil, false
	}
}
