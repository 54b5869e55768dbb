// Package phone converts between stored phone numbers ("+442071838750")
// and the (dial code, local digits) pair the subscriber edits.
package phone

import (
	"strings"

	"github.com/Daskott/govnotify/dialcode"
	"github.com/go-playground/validator"
	"github.com/pkg/errors"
)

const MaxLocalDigits = 10

var (
	ErrInvalidPhone = errors.New("invalid phone number")

	validate = validator.New()
)

type Parts struct {
	DialCode    string
	Country     dialcode.Country
	LocalDigits string
}

// Split finds the dial code at the start of stored by growing a prefix one
// character at a time, and returns it with the remaining local digits.
// An empty stored value yields the default country and no digits.
func Split(stored string) (Parts, error) {
	if stored == "" {
		country := dialcode.Default()
		return Parts{DialCode: country.DialCode, Country: country}, nil
	}

	dialCodes := dialcode.DialCodes()
	for i := 1; i <= len(stored); i++ {
		prefix := stored[:i]

		candidates := withPrefix(dialCodes, prefix)
		if len(candidates) == 0 {
			return Parts{}, errors.Wrapf(ErrInvalidPhone, "no dial code matches %q", stored)
		}

		if len(candidates) == 1 {
			return splitAt(stored, candidates[0])
		}

		// prefix is itself a dial code, but a longer one may still match
		if inList(candidates, prefix) && !anyLonger(candidates, prefix, stored) {
			return splitAt(stored, prefix)
		}
	}

	return Parts{}, errors.Wrapf(ErrInvalidPhone, "%q is not a complete dial code", stored)
}

// Compose concatenates a dial code from the table and local digits
func Compose(dialCode, localDigits string) (string, error) {
	if !dialcode.IsDialCode(dialCode) {
		return "", errors.Wrapf(ErrInvalidPhone, "unknown dial code %q", dialCode)
	}

	err := checkLocalDigits(localDigits)
	if err != nil {
		return "", err
	}

	return dialCode + localDigits, nil
}

// ComposeInput strips everything but digits from raw user input and
// composes it with dialCode. Input without digits means "no phone" and
// returns "".
func ComposeInput(dialCode, rawInput string) (string, error) {
	digits := onlyDigits(rawInput)
	if digits == "" {
		return "", nil
	}

	return Compose(dialCode, digits)
}

// IsValid reports whether stored splits cleanly, has local digits and is
// a well formed E.164 number.
func IsValid(stored string) bool {
	parts, err := Split(stored)
	if err != nil || parts.LocalDigits == "" {
		return false
	}

	return validate.Var(stored, "required,e164") == nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func splitAt(stored, dialCode string) (Parts, error) {
	if !strings.HasPrefix(stored, dialCode) {
		return Parts{}, errors.Wrapf(ErrInvalidPhone, "no dial code matches %q", stored)
	}

	localDigits := stored[len(dialCode):]
	err := checkLocalDigits(localDigits)
	if err != nil {
		return Parts{}, err
	}

	country, _ := dialcode.Resolve(dialCode)
	return Parts{DialCode: dialCode, Country: country, LocalDigits: localDigits}, nil
}

func checkLocalDigits(localDigits string) error {
	if len(localDigits) > MaxLocalDigits {
		return errors.Wrapf(ErrInvalidPhone, "local number has more than %v digits", MaxLocalDigits)
	}

	for _, r := range localDigits {
		if r < '0' || r > '9' {
			return errors.Wrapf(ErrInvalidPhone, "local number %q must only contain digits", localDigits)
		}
	}

	return nil
}

func withPrefix(dialCodes []string, prefix string) []string {
	result := []string{}
	for _, dialCode := range dialCodes {
		if strings.HasPrefix(dialCode, prefix) {
			result = append(result, dialCode)
		}
	}
	return result
}

func anyLonger(candidates []string, prefix, stored string) bool {
	for _, candidate := range candidates {
		if len(candidate) > len(prefix) && strings.HasPrefix(stored, candidate) {
			return true
		}
	}
	return false
}

func inList(list []string, item string) bool {
	for _, value := range list {
		if value == item {
			return true
		}
	}
	return false
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
