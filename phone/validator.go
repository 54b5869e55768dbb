package phone

import (
	"context"

	"github.com/Daskott/govnotify/colors"
	"github.com/Daskott/govnotify/logger"
)

var logg = logger.NewLogger()

// Checker asks an external service whether a number can receive SMS
type Checker interface {
	Check(ctx context.Context, number string) (bool, error)
}

// Validator checks numbers locally and, when Remote is set, with an
// external lookup. A failing lookup falls back to the local result.
type Validator struct {
	Remote Checker
}

func (v Validator) IsValid(ctx context.Context, number string) bool {
	if !IsValid(number) {
		return false
	}

	if v.Remote == nil {
		return true
	}

	valid, err := v.Remote.Check(ctx, number)
	if err != nil {
		logg.Warnf(colors.Prefix("phone")+"lookup for %v failed, using local validation: %v", number, err)
		return true
	}

	return valid
}
