package mem

import (
	"unsafe"
)

// CacheLine is the assumed cache line size in bytes.
const CacheLine = 64

// AllocAligned allocates a byte slice of the given size aligned to CacheLine.
// It returns nil for non-positive sizes.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+CacheLine)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := int((CacheLine - (addr & (CacheLine - 1))) & (CacheLine - 1))

	return buf[offset : offset+size : offset+size]
}
