package merger

import (
	"errors"
	"fmt"
)

// ErrMissingLoadAddress is returned for a binary input that declares no load
// address when the merger has no default base either.
var ErrMissingLoadAddress = errors.New("binary input needs a load address")

// InputError attaches the input name to a parse, load or merge failure.
type InputError struct {
	Source string
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
