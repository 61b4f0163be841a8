// Package errkind defines the failure kinds shared by the gateway, the song
// and the interactive session.
package errkind

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrIO           = errors.New("io failure")
	ErrUpstream     = errors.New("upstream failure")
	ErrDecode       = errors.New("decode failure")
	ErrInvalidState = errors.New("invalid state")

	// ErrUnavailable signals the provider couldn't be reached.
	ErrUnavailable = errors.New("provider unavailable")
)

var kinds = []error{
	ErrInvalidInput,
	ErrNotFound,
	ErrIO,
	ErrUpstream,
	ErrDecode,
	ErrInvalidState,
	ErrUnavailable,
}

// Kind returns the name of the first kind found in the error chain, or
// "unknown".
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k.Error()
		}
	}
	return "unknown"
}
