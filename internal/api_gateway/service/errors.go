package service

import "errors"

// ValidationError wraps a rejected input; its message is safe to return
// to the client
type ValidationError struct {
	Err error
}

func (e ValidationError) Error() string {
	return e.Err.Error()
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error) error {
	return ValidationError{Err: err}
}

func invalidf(msg string) error {
	return ValidationError{Err: errors.New(msg)}
}
