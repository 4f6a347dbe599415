package digest

import (
	"crypto/cipher"
	"crypto/des"
	"sync/atomic"
)

// DES fingerprints a candidate by encrypting its first block with DES in ECB
// mode, using the salt as the key.
//
// The key schedule is derived lazily and cached per instance together with the
// salt it belongs to. A different salt replaces the cached schedule. The cache
// is a single atomic pointer, so concurrent callers never block each other; two
// goroutines racing on a new salt may both derive it, which is harmless.
type DES struct {
	current     atomic.Pointer[desKey]
	derivations atomic.Uint64
}

type desKey struct {
	salt  Salt
	block cipher.Block
}

// NewDES returns a DES fingerprinter with an empty key cache.
func NewDES() *DES {
	return &DES{}
}

// Fingerprint implements Fingerprinter.
func (d *DES) Fingerprint(candidate string, salt Salt) Token {
	in := block(candidate)

	var out Token
	d.key(salt).Encrypt(out[:], in[:])
	return out
}

// Derivations returns how many key schedules this instance has built.
func (d *DES) Derivations() uint64 {
	return d.derivations.Load()
}

func (d *DES) key(salt Salt) cipher.Block {
	if k := d.current.Load(); k != nil && k.salt == salt {
		return k.block
	}

	// des.NewCipher only fails on a key of the wrong length.
	b, err := des.NewCipher(salt[:])
	if err != nil {
		panic(err)
	}
	d.derivations.Add(1)
	d.current.Store(&desKey{salt: salt, block: b})
	return b
}
