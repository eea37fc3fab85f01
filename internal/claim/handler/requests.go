package handler

import (
	"time"

	"claimbank/internal/claim/models"
	"claimbank/pkg/domain"
	dErrors "claimbank/pkg/domain-errors"
)

// AttachmentPayload mirrors models.Attachment on the wire.
type AttachmentPayload struct {
	Hash         string `json:"hash"`
	HashFunction uint8  `json:"hash_function"`
	Size         uint8  `json:"size"`
}

// CreateClaimRequest is the body for POST /claims. Tag is optional;
// DueBy omitted or null means no due date.
type CreateClaimRequest struct {
	Creditor    string             `json:"creditor"`
	Debtor      string             `json:"debtor"`
	Description string             `json:"description"`
	ClaimAmount int64              `json:"claim_amount"`
	Token       string             `json:"token"`
	DueBy       *time.Time         `json:"due_by,omitempty"`
	Attachment  *AttachmentPayload `json:"attachment,omitempty"`
	Tag         string             `json:"tag,omitempty"`

	params models.CreateClaimParams
}

// Validate parses the party and token identifiers and checks the tag
// bound. Amount, due-date, and attachment semantics are validated by
// the domain layer against the request-scoped clock.
func (r *CreateClaimRequest) Validate() error {
	creditor, err := domain.ParseParty(r.Creditor)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid creditor")
	}
	debtor, err := domain.ParseParty(r.Debtor)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid debtor")
	}
	token, err := domain.ParseToken(r.Token)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid token")
	}
	if err := models.ValidateTag([]byte(r.Tag)); err != nil {
		return err
	}

	r.params = models.CreateClaimParams{
		Creditor:    creditor,
		Debtor:      debtor,
		Description: r.Description,
		ClaimAmount: r.ClaimAmount,
		Token:       token,
	}
	if r.DueBy != nil {
		r.params.DueBy = *r.DueBy
	}
	if r.Attachment != nil {
		r.params.Attachment = models.Attachment{
			Hash:         r.Attachment.Hash,
			HashFunction: r.Attachment.HashFunction,
			Size:         r.Attachment.Size,
		}
	}
	return nil
}

// Params returns the parsed creation parameters. Call Validate first.
func (r *CreateClaimRequest) Params() models.CreateClaimParams { return r.params }

// TagBytes returns the tag as bytes, nil when absent.
func (r *CreateClaimRequest) TagBytes() []byte {
	if r.Tag == "" {
		return nil
	}
	return []byte(r.Tag)
}

// PayClaimRequest is the body for POST /claims/{claimID}/payments.
type PayClaimRequest struct {
	Amount int64 `json:"amount"`
}

func (r *PayClaimRequest) Validate() error {
	if r.Amount <= 0 {
		return dErrors.New(dErrors.CodeInvalidAmount, "payment amount must be positive").
			With("amount", r.Amount)
	}
	return nil
}

// UpdateTagRequest is the body for PUT /claims/{claimID}/tag. An empty
// tag clears the label.
type UpdateTagRequest struct {
	Tag string `json:"tag"`
}

func (r *UpdateTagRequest) Validate() error {
	return models.ValidateTag([]byte(r.Tag))
}
