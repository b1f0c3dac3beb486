package cli

import (
	"context"
	"errors"

	errs "github.com/matzehuels/cardstack/pkg/errors"
)

// Exit statuses of the cardstack binary.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitInvalid   = 2   // bad flags, indices, config or formats
	ExitNotFound  = 3   // missing deck or file
	ExitCancelled = 130 // interrupted, as shells report SIGINT
)

// IsCancelled reports whether err comes from an interrupted command.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if IsCancelled(err) {
		return ExitCancelled
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidIndex, errs.ErrCodeInvalidConfig,
		errs.ErrCodeInvalidState, errs.ErrCodeInvalidFormat:
		return ExitInvalid
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		return ExitNotFound
	}
	return ExitFailure
}

// ErrorMessage formats err for the terminal. A coded error at the top of the
// chain is shown without its code prefix.
func ErrorMessage(err error) string {
	msg := err.Error()
	var e *errs.Error
	if errors.As(err, &e) && error(e) == err {
		msg = e.Message
		if e.Cause != nil {
			msg += ": " + e.Cause.Error()
		}
	}
	return styleIconError.Render(iconError) + " " + msg
}
