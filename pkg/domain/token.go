package domain

import dErrors "claimbank/pkg/domain-errors"

// Token identifies the fungible-value ledger a claim settles in.
type Token string

// ParseToken constructs a Token from external input.
func ParseToken(s string) (Token, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "claim token cannot be empty")
	}
	if len(s) > maxPartyLen {
		return "", dErrors.Newf(dErrors.CodeValidation, "claim token must be at most %d characters", maxPartyLen)
	}
	return Token(s), nil
}

func (t Token) String() string { return string(t) }
