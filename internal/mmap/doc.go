// Package mmap provides read-only memory-mapped file access.
//
// Wordlists are mapped rather than read so that loading a multi-gigabyte list
// does not double its footprint before it is split into candidates.
//
//	m, err := mmap.Open("filtered_passwords.txt")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// Unix uses mmap(2); Windows uses CreateFileMapping/MapViewOfFile.
// Callers must not touch Bytes() after Close returns.
package mmap
