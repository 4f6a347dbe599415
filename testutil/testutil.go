package testutil

import (
	"math/rand"
	"sync"
)

// Charset is the alphabet of the default wordlist policy.
const Charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789./"

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// String returns a random string of the given length drawn from Charset.
func (r *RNG) String(length int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stringLocked(length)
}

func (r *RNG) stringLocked(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = Charset[r.rand.Intn(len(Charset))]
	}
	return string(b)
}

// Candidates returns n distinct random strings of the given length.
// Locks only once per call.
func (r *RNG) Candidates(n, length int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for len(out) < n {
		s := r.stringLocked(length)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Absent returns a random string of the given length that is not in list.
func (r *RNG) Absent(list []string, length int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		s := r.stringLocked(length)
		if IndexOf(list, s) < 0 {
			return s
		}
	}
}

// IndexOf returns the position of s in list, or -1. It is the ground truth
// searches are compared against.
func IndexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// Clone returns a copy of list that shares no backing array with it.
func Clone(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}
