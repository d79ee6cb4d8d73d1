package core

import "errors"

// Common errors.
var (
	// ErrNotFound is returned when a note id has no valid record on disk.
	// Unreadable or partially written note directories are reported the
	// same way; read paths never surface parse errors.
	ErrNotFound = errors.New("note not found")
)
