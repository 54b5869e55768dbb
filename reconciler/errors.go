package reconciler

import (
	"github.com/Daskott/govnotify/phone"
	"github.com/pkg/errors"
)

var (
	ErrInvalidPhone       = phone.ErrInvalidPhone
	ErrNoSourceAvailable  = errors.New("no notification source is available for this organization yet")
	ErrAuthFailed         = errors.New("unable to sign in to the notification service")
	ErrMutationFailed     = errors.New("unable to save notification settings")
	ErrSaveInProgress     = errors.New("a save is already in progress")
	ErrStaleSnapshot      = errors.New("account data changed while it was loading")
	ErrChannelUnsupported = errors.New("this channel is not supported by the notification service")
)

// SaveError is returned by every failing session operation. Kind is one of
// the Err* values above; Err is the underlying cause, if any.
type SaveError struct {
	Kind error
	Err  error
}

// Error is the message shown to the subscriber. Backend failures are
// reported with the backend's own message, invalid phones with the reason.
func (e *SaveError) Error() string {
	if e.Err != nil && (e.Kind == ErrAuthFailed || e.Kind == ErrMutationFailed || e.Kind == ErrInvalidPhone) {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *SaveError) Is(target error) bool {
	return e.Kind == target
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

func newError(kind, cause error) *SaveError {
	return &SaveError{Kind: kind, Err: cause}
}
