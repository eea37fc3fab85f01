package handler

import (
	"time"

	"claimbank/internal/claim/models"
)

// ClaimResponse is the wire form of a claim. Tag is rendered as a
// string for readability; DueBy and Attachment are omitted when unset.
type ClaimResponse struct {
	ID          int64              `json:"id"`
	Creditor    string             `json:"creditor"`
	Debtor      string             `json:"debtor"`
	Description string             `json:"description"`
	ClaimAmount int64              `json:"claim_amount"`
	PaidAmount  int64              `json:"paid_amount"`
	Remaining   int64              `json:"remaining"`
	Token       string             `json:"token"`
	DueBy       *time.Time         `json:"due_by,omitempty"`
	Attachment  *AttachmentPayload `json:"attachment,omitempty"`
	Status      string             `json:"status"`
	Tag         string             `json:"tag,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// NewClaimResponse converts a claim aggregate to its wire form.
func NewClaimResponse(claim *models.Claim) ClaimResponse {
	resp := ClaimResponse{
		ID:          claim.ID,
		Creditor:    claim.Creditor.String(),
		Debtor:      claim.Debtor.String(),
		Description: claim.Description,
		ClaimAmount: claim.ClaimAmount,
		PaidAmount:  claim.PaidAmount,
		Remaining:   claim.Remaining(),
		Token:       claim.Token.String(),
		Status:      claim.Status.String(),
		Tag:         string(claim.Tag),
		CreatedAt:   claim.CreatedAt,
		UpdatedAt:   claim.UpdatedAt,
	}
	if !claim.DueBy.IsZero() {
		due := claim.DueBy
		resp.DueBy = &due
	}
	if !claim.Attachment.None() {
		resp.Attachment = &AttachmentPayload{
			Hash:         claim.Attachment.Hash,
			HashFunction: claim.Attachment.HashFunction,
			Size:         claim.Attachment.Size,
		}
	}
	return resp
}

// HolderResponse is the wire form for GET /claims/{claimID}/holder.
type HolderResponse struct {
	ClaimID int64  `json:"claim_id"`
	Holder  string `json:"holder"`
}

// ListClaimsResponse wraps the claims a party participates in.
type ListClaimsResponse struct {
	Claims []ClaimResponse `json:"claims"`
}
