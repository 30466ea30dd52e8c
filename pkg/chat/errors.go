package chat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyOrUnrecognizedFormat is matched (via errors.Is) by every
// *FormatError. Callers should treat it as "cannot analyze this file".
var ErrEmptyOrUnrecognizedFormat = errors.New("empty or unrecognized chat export")

// FormatReason distinguishes an empty input from a grammar mismatch.
type FormatReason string

const (
	// ReasonEmptyInput means the input held no text at all.
	ReasonEmptyInput FormatReason = "empty_input"

	// ReasonNoTimestamps means none of the configured grammars matched.
	ReasonNoTimestamps FormatReason = "no_timestamps"
)

// FormatError is returned when the input cannot be parsed at all.
type FormatError struct {
	Reason   FormatReason
	Grammars []string // grammar names that were tried
}

func (e *FormatError) Error() string {
	switch e.Reason {
	case ReasonEmptyInput:
		return "chat export is empty"
	default:
		return fmt.Sprintf("no timestamps found (tried: %s)", strings.Join(e.Grammars, ", "))
	}
}

// Is makes every FormatError match ErrEmptyOrUnrecognizedFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrEmptyOrUnrecognizedFormat
}

// TimestampError reports a single stamp that failed to parse in strict mode.
type TimestampError struct {
	Index   int    // record position
	Raw     string // stamp text after delimiter stripping
	Grammar string
	Err     error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("record %d: parsing timestamp %q with grammar %q: %v", e.Index, e.Raw, e.Grammar, e.Err)
}

func (e *TimestampError) Unwrap() error {
	return e.Err
}
