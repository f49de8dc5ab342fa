package repository

import "errors"

// Sentinel kinds for roster store errors.
var (
	ErrNotFound = errors.New("server not found")
	ErrDecode   = errors.New("malformed roster data")
	ErrPersist  = errors.New("persist roster failed")
)
