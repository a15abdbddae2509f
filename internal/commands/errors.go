package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// failure describes how an error from one execution stage is surfaced.
type failure struct {
	category goerrors.Category
	code     string
	message  string
}

var (
	invalidMessage = failure{goerrors.CategoryValidation, "GLOSSARY_COMMAND_INVALID", "glossary command rejected"}
	canceled       = failure{goerrors.CategoryCommand, "GLOSSARY_COMMAND_CANCELED", "glossary command cancelled"}
	timedOut       = failure{goerrors.CategoryCommand, "GLOSSARY_COMMAND_TIMEOUT", "glossary command timed out"}
	contextFailed  = failure{goerrors.CategoryCommand, "GLOSSARY_COMMAND_CONTEXT", "glossary command context error"}
	executeFailed  = failure{goerrors.CategoryCommand, "GLOSSARY_COMMAND_FAILED", "glossary command failed"}
)

// wrap tags err unless it already carries a go-errors category.
func (f failure) wrap(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, f.category, f.message).WithTextCode(f.code)
}

func contextFailure(err error) failure {
	switch {
	case errors.Is(err, context.Canceled):
		return canceled
	case errors.Is(err, context.DeadlineExceeded):
		return timedOut
	default:
		return contextFailed
	}
}
