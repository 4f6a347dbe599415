package digest

import (
	"golang.org/x/crypto/blake2b"
)

// BLAKE2b fingerprints a candidate with an 8-byte BLAKE2b digest keyed by the
// salt. The whole candidate is hashed, not only its first block.
type BLAKE2b struct{}

// Fingerprint implements Fingerprinter.
func (BLAKE2b) Fingerprint(candidate string, salt Salt) Token {
	// blake2b.New only fails for sizes outside [1, 64] or keys over 64 bytes.
	h, err := blake2b.New(Size, salt[:])
	if err != nil {
		panic(err)
	}
	_, _ = h.Write([]byte(candidate))

	var out Token
	h.Sum(out[:0])
	return out
}
