package ports

import (
	"errors"
	"fmt"
)

// FetchError is the single failure kind of a shop fetch: transport failure,
// non-success status or an undecodable body. Message is meant for display.
type FetchError struct {
	Message string
	Err     error
}

func NewFetchError(msg string, err error) *FetchError {
	return &FetchError{Message: msg, Err: err}
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err carries a *FetchError anywhere in its chain.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
