package domain

import (
	"strings"

	dErrors "claimbank/pkg/domain-errors"
)

// Party is an opaque party identifier (an address on the external
// ownership and value ledgers).
//
// Usage: construct via ParseParty at trust boundaries; direct casting
// bypasses validation.
type Party string

const maxPartyLen = 128

// ParseParty constructs a Party from external input.
//
// Errors: returns CodeValidation when the value is empty, padded, or
// over-long; no other errors are expected.
func ParseParty(s string) (Party, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "party cannot be empty")
	}
	if strings.TrimSpace(s) != s {
		return "", dErrors.New(dErrors.CodeValidation, "party cannot contain leading or trailing whitespace")
	}
	if len(s) > maxPartyLen {
		return "", dErrors.Newf(dErrors.CodeValidation, "party must be at most %d characters", maxPartyLen)
	}
	return Party(s), nil
}

func (p Party) String() string { return string(p) }

// IsZero reports whether the party is unset.
func (p Party) IsZero() bool { return p == "" }
