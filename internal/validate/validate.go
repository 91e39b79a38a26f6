// Package validate implements per-data-type answer validation. All checks are
// pure functions over the raw value.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

// ErrAmbiguous is returned for boolean answers outside the fixed yes/no
// vocabulary. It is distinct from a validation failure: the caller should
// re-ask rather than report a bad value.
var ErrAmbiguous = errors.New("answer is ambiguous")

// ValidationError describes a value that failed its data-type check. Reason is
// a stable, user-facing explanation carrying the expected format.
type ValidationError struct {
	DataType models.DataType
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s value: %s", e.DataType, e.Reason)
}

const (
	// DateLayout is the only accepted date format.
	DateLayout = "2006-01-02"
	// ITINReason is the error reason for a malformed ITIN.
	ITINReason = "Invalid ITIN format (9XX-XX-XXXX)"
)

var itinRe = regexp.MustCompile(`^9\d{2}-\d{2}-\d{4}$`)

var affirmatives = []string{
	"yes", "y", "true", "correct", "yeah", "yep", "yup", "sure", "ok", "okay",
	"affirmative", "indeed",
}

var negatives = []string{
	"no", "n", "false", "incorrect", "wrong", "nope", "nah",
}

// Boolean maps raw text onto the fixed yes/no vocabulary. It returns
// ErrAmbiguous for anything outside the vocabulary.
func Boolean(raw string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, a := range affirmatives {
		if v == a {
			return "yes", nil
		}
	}
	for _, n := range negatives {
		if v == n {
			return "no", nil
		}
	}
	return "", ErrAmbiguous
}

// Validate checks raw against the expected data type and returns the
// normalized value. Failures return a *ValidationError; unrecognized boolean
// answers return ErrAmbiguous.
func Validate(dataType models.DataType, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	switch dataType {
	case models.DataTypeDate:
		if _, err := time.Parse(DateLayout, trimmed); err != nil {
			return "", &ValidationError{DataType: dataType, Reason: "Please use YYYY-MM-DD format"}
		}
		return trimmed, nil

	case models.DataTypeBoolean:
		return Boolean(trimmed)

	case models.DataTypeITIN:
		if !itinRe.MatchString(trimmed) {
			return "", &ValidationError{DataType: dataType, Reason: ITINReason}
		}
		return trimmed, nil

	case models.DataTypeString:
		if trimmed == "" {
			return "", &ValidationError{DataType: dataType, Reason: "This field cannot be empty"}
		}
		return trimmed, nil
	}

	return "", &ValidationError{DataType: dataType, Reason: fmt.Sprintf("unknown data type %q", dataType)}
}
