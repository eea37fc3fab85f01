package models

import (
	"time"

	"claimbank/pkg/domain"
	dErrors "claimbank/pkg/domain-errors"
)

// CreateClaimParams carries everything needed to register a new claim.
type CreateClaimParams struct {
	Creditor    domain.Party
	Debtor      domain.Party
	Description string
	ClaimAmount int64
	DueBy       time.Time
	Token       domain.Token
	Attachment  Attachment
}

// Validate checks the creation preconditions against the given time.
// A zero DueBy means "no due date"; otherwise it must be strictly in
// the future. A due date equal to now is rejected.
func (p CreateClaimParams) Validate(now time.Time) error {
	if p.Creditor.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "creditor is required")
	}
	if p.Debtor.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "debtor is required")
	}
	if p.Creditor == p.Debtor {
		return dErrors.New(dErrors.CodeValidation, "creditor and debtor must be distinct").
			With("creditor", p.Creditor.String())
	}
	if p.ClaimAmount <= 0 {
		return dErrors.New(dErrors.CodeInvalidAmount, "claim amount must be positive").
			With("amount", p.ClaimAmount)
	}
	if p.Token == "" {
		return dErrors.New(dErrors.CodeValidation, "claim token is required")
	}
	if len(p.Description) > maxDescriptionLen {
		return dErrors.Newf(dErrors.CodeValidation, "description must be at most %d characters", maxDescriptionLen)
	}
	if !p.DueBy.IsZero() && !p.DueBy.After(now) {
		return dErrors.New(dErrors.CodeInvalidDueDate, "due date must be in the future").
			With("due_by", p.DueBy)
	}
	return p.Attachment.Validate()
}
