// Package errs defines the sentinel error kinds shared across the snapshot
// pipeline. Call sites wrap these with fmt.Errorf("...: %w", errs.Transport)
// so callers can classify a failure with errors.Is while the message keeps
// whatever local context caused it.
package errs

import "errors"

var (
	// Transport marks a memory read/write failure on the DMA view.
	Transport = errors.New("transport error")
	// PatternNotFound marks a pattern-scan miss.
	PatternNotFound = errors.New("pattern not found")
	// NotInitialized marks a component used before its init step ran.
	NotInitialized = errors.New("not initialized")
	// VersionMismatch marks an incompatible game build at startup.
	VersionMismatch = errors.New("version mismatch")
	// Serialization marks a JSON/compression failure while framing a snapshot.
	Serialization = errors.New("serialization error")
	// Network marks a failure writing to or reading from a client socket.
	Network = errors.New("network error")
)
