package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: the requested object does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrKeyExists: Put without Overwrite hit an existing key.
	ErrKeyExists = errors.New("object already exists at this key")

	// ErrInvalidKey: empty key or a path traversal attempt.
	ErrInvalidKey = errors.New("invalid storage key")

	// ErrTooLarge: the object exceeded PutOptions.MaxSize.
	ErrTooLarge = errors.New("object exceeds maximum size")

	// ErrAccessDenied: the provider refused the operation.
	ErrAccessDenied = errors.New("access denied")
)

// Error wraps storage failures with the operation and key, and unwraps to
// the sentinel errors above for errors.Is checks.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the object was absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTooLarge reports whether err means the object blew past its size cap.
func IsTooLarge(err error) bool {
	return errors.Is(err, ErrTooLarge)
}
