package models

import (
	"time"

	"claimbank/pkg/domain"
	dErrors "claimbank/pkg/domain-errors"
)

const (
	// MaxTagLen bounds the mutable tag label, matching the 32-byte
	// labels the settlement ledgers use.
	MaxTagLen = 32

	maxDescriptionLen = 256
)

// Claim is the aggregate root for a single IOU between two parties.
//
// Invariants:
//   - ClaimAmount > 0, fixed at creation
//   - 0 <= PaidAmount <= ClaimAmount; PaidAmount only increases
//   - Creditor != Debtor; both immutable after creation
//   - Status transitions follow the Status state machine (monotonic)
//   - ID, once assigned, stays bound to the original creditor/debtor
//     pair even if holdership of the representing identity is
//     transferred on the ownership registry
//
// A claim is never deleted; terminal states are retained as history.
// Tag is the only field either counterparty may freely overwrite.
type Claim struct {
	ID          int64        `json:"id"`
	Creditor    domain.Party `json:"creditor"`
	Debtor      domain.Party `json:"debtor"`
	Description string       `json:"description"`
	ClaimAmount int64        `json:"claim_amount"`
	PaidAmount  int64        `json:"paid_amount"`
	Token       domain.Token `json:"token"`
	DueBy       time.Time    `json:"due_by"` // zero value means no due date
	Attachment  Attachment   `json:"attachment"`
	Status      Status       `json:"status"`
	Tag         []byte       `json:"tag"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewClaim constructs a Pending claim from validated parameters.
// The id is assigned by the store at creation time.
func NewClaim(params CreateClaimParams, now time.Time) (*Claim, error) {
	if err := params.Validate(now); err != nil {
		return nil, err
	}
	return &Claim{
		Creditor:    params.Creditor,
		Debtor:      params.Debtor,
		Description: params.Description,
		ClaimAmount: params.ClaimAmount,
		PaidAmount:  0,
		Token:       params.Token,
		DueBy:       params.DueBy,
		Attachment:  params.Attachment,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Remaining returns the unpaid balance.
func (c *Claim) Remaining() int64 {
	return c.ClaimAmount - c.PaidAmount
}

// IsParty reports whether caller is the claim's creditor or debtor.
// Holders on the ownership registry do not count: authorization is
// bound to the parties fixed at creation.
func (c *Claim) IsParty(caller domain.Party) bool {
	return caller == c.Creditor || caller == c.Debtor
}

// CanPay checks the payment preconditions without mutating the claim.
// Overpayment is rejected outright; the final payment must equal the
// remaining balance exactly. Returns an error carrying the failing
// amount for diagnosis.
func (c *Claim) CanPay(amount int64) error {
	if !c.Status.Payable() {
		return dErrors.Newf(dErrors.CodeInvalidState, "claim is %s and no longer accepts payments", c.Status).
			With("claim_id", c.ID)
	}
	if amount <= 0 {
		return dErrors.New(dErrors.CodeInvalidAmount, "payment amount must be positive").
			With("claim_id", c.ID).
			With("amount", amount)
	}
	if amount > c.Remaining() {
		return dErrors.Newf(dErrors.CodeInvalidAmount, "payment of %d exceeds remaining balance of %d", amount, c.Remaining()).
			With("claim_id", c.ID).
			With("amount", amount)
	}
	return nil
}

// ApplyPayment records a payment. Call CanPay first; ApplyPayment
// assumes the preconditions hold.
func (c *Claim) ApplyPayment(amount int64, now time.Time) {
	c.PaidAmount += amount
	if c.PaidAmount == c.ClaimAmount {
		c.Status = StatusPaid
	} else {
		c.Status = StatusRepaying
	}
	c.UpdatedAt = now
}

// CanReject checks that caller is the debtor and the claim can still be
// declined.
func (c *Claim) CanReject(caller domain.Party) error {
	if caller != c.Debtor {
		return dErrors.New(dErrors.CodeNotCreditorOrDebtor, "only the debtor may reject a claim").
			With("claim_id", c.ID).
			With("caller", caller.String())
	}
	if !c.Status.CanTransitionTo(StatusRejected) {
		return dErrors.Newf(dErrors.CodeInvalidState, "claim is %s and cannot be rejected", c.Status).
			With("claim_id", c.ID)
	}
	return nil
}

// ApplyRejection moves the claim to Rejected. Call CanReject first.
func (c *Claim) ApplyRejection(now time.Time) {
	c.Status = StatusRejected
	c.UpdatedAt = now
}

// CanRescind checks that caller is the creditor and the claim can still
// be withdrawn.
func (c *Claim) CanRescind(caller domain.Party) error {
	if caller != c.Creditor {
		return dErrors.New(dErrors.CodeNotCreditorOrDebtor, "only the creditor may rescind a claim").
			With("claim_id", c.ID).
			With("caller", caller.String())
	}
	if !c.Status.CanTransitionTo(StatusRescinded) {
		return dErrors.Newf(dErrors.CodeInvalidState, "claim is %s and cannot be rescinded", c.Status).
			With("claim_id", c.ID)
	}
	return nil
}

// ApplyRescission moves the claim to Rescinded. Call CanRescind first.
func (c *Claim) ApplyRescission(now time.Time) {
	c.Status = StatusRescinded
	c.UpdatedAt = now
}

// SetTag overwrites the tag unconditionally. Authorization is the
// service's concern; no history is retained.
func (c *Claim) SetTag(tag []byte, now time.Time) {
	c.Tag = append([]byte(nil), tag...)
	c.UpdatedAt = now
}

// Clone returns a deep copy so staged mutations never alias stored state.
func (c *Claim) Clone() *Claim {
	dup := *c
	dup.Tag = append([]byte(nil), c.Tag...)
	return &dup
}

// ValidateTag bounds a tag label.
func ValidateTag(tag []byte) error {
	if len(tag) > MaxTagLen {
		return dErrors.Newf(dErrors.CodeValidation, "tag must be at most %d bytes", MaxTagLen)
	}
	return nil
}
