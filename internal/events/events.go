// Package events defines the domain events the registry surfaces to
// observers and the publisher abstraction used to emit them. Events are
// emitted only after state has committed; a failed operation emits
// nothing.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"claimbank/pkg/domain"
)

// Kind discriminates event payloads.
type Kind string

const (
	KindClaimCreated   Kind = "claim_created"
	KindTagUpdated     Kind = "tag_updated"
	KindPaymentApplied Kind = "payment_applied"
)

// Event is the flat envelope shared by all registry events. Fields not
// relevant to a kind stay zero.
type Event struct {
	ID         string       `json:"id"`
	Kind       Kind         `json:"kind"`
	RegistryID string       `json:"registry_id"`
	ClaimID    int64        `json:"claim_id"`
	Creditor   domain.Party `json:"creditor,omitempty"`
	Debtor     domain.Party `json:"debtor,omitempty"`
	Caller     domain.Party `json:"caller,omitempty"`
	Amount     int64        `json:"amount,omitempty"`
	Fee        int64        `json:"fee,omitempty"`
	Token      domain.Token `json:"token,omitempty"`
	Tag        []byte       `json:"tag,omitempty"`
	Status     string       `json:"status,omitempty"`
	At         time.Time    `json:"at"`
}

// NewClaimCreated builds the creation event carrying the new id.
func NewClaimCreated(registryID string, claimID int64, creditor, debtor domain.Party, amount int64, token domain.Token, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       KindClaimCreated,
		RegistryID: registryID,
		ClaimID:    claimID,
		Creditor:   creditor,
		Debtor:     debtor,
		Amount:     amount,
		Token:      token,
		At:         at,
	}
}

// NewTagUpdated builds the tag event: (registry, claim, caller, tag, timestamp).
func NewTagUpdated(registryID string, claimID int64, caller domain.Party, tag []byte, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       KindTagUpdated,
		RegistryID: registryID,
		ClaimID:    claimID,
		Caller:     caller,
		Tag:        append([]byte(nil), tag...),
		At:         at,
	}
}

// NewPaymentApplied builds the payment event carrying the fee split and
// the claim's post-payment status.
func NewPaymentApplied(registryID string, claimID int64, caller domain.Party, amount, fee int64, status string, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       KindPaymentApplied,
		RegistryID: registryID,
		ClaimID:    claimID,
		Caller:     caller,
		Amount:     amount,
		Fee:        fee,
		Status:     status,
		At:         at,
	}
}

// Publisher delivers events to observers. Emit failures are logged by
// callers but never abort the already-committed operation.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
	Close() error
}
