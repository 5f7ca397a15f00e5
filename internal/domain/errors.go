package domain

import "errors"

var (
	// ErrStoreUnavailable means the store could not be reached or timed out.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrWriteRejected means the store refused the write.
	ErrWriteRejected = errors.New("write rejected")
	// ErrNotFound means no record exists under the requested key.
	ErrNotFound = errors.New("record not found")
)
