// Package fs abstracts the file system operations behind the local blob
// store so tests can inject write, sync and rename failures.
//
//   - [LocalFS]: production implementation on top of the os package
//   - [FaultyFS]: test wrapper that fails operations on matching paths
//
// The package does not take a context.Context: local file operations are
// short and cannot be interrupted at the syscall level.
package fs
