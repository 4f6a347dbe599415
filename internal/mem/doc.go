// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// AllocAligned returns buffers that start on a cache line boundary, so a
// stride of CacheLine bytes touches every line exactly once.
package mem
