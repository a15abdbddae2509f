package linker

import (
	"errors"
	"fmt"
)

// ErrInvalidTerm is matched by every *InvalidTermError through errors.Is.
var ErrInvalidTerm = errors.New("linker: invalid glossary term")

// InvalidTermError reports a vocabulary entry that cannot be turned into a
// pattern. A single invalid term fails the whole pass.
type InvalidTermError struct {
	Word   string
	Reason string
	Err    error
}

func (e *InvalidTermError) Error() string {
	msg := fmt.Sprintf("linker: invalid glossary term %q", e.Word)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidTermError) Unwrap() error {
	return e.Err
}

func (e *InvalidTermError) Is(target error) bool {
	return target == ErrInvalidTerm
}
