package assistant

import "errors"

var (
	// ErrUnknownOperation is returned for names outside the declared function set
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrInvalidArguments wraps argument decoding and validation failures
	ErrInvalidArguments = errors.New("invalid arguments")
)
