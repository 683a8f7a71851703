package store

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicated row key")
	ErrLockTimeout  = errors.New("lock acquisition timed out")
	ErrNoSnapshot   = errors.New("no snapshot available")
)
