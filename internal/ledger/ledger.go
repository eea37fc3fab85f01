// Package ledger defines the registry's external collaborators: the
// ownership registry that tracks who holds a claim's representing
// identity, and the per-token value ledgers that settle payments.
//
// The registry only depends on these interfaces; the memory
// implementations back tests and single-process deployments.
package ledger

import (
	"context"

	"claimbank/pkg/domain"
)

// OwnershipRegistry tracks which party holds a claim's representing
// identity. Holdership is minted to the creditor at creation and may be
// transferred freely afterwards; transfers never change the creditor
// and debtor recorded on the claim itself.
type OwnershipRegistry interface {
	// Mint assigns initial holdership of a claim identity.
	Mint(ctx context.Context, claimID int64, holder domain.Party) error
	// HolderOf resolves the current holder. Returns
	// sentinel.ErrNotFound for an identity that was never minted.
	HolderOf(ctx context.Context, claimID int64) (domain.Party, error)
	// Transfer moves holdership between parties.
	Transfer(ctx context.Context, claimID int64, from, to domain.Party) error
}

// TokenLedger performs authorized balance transfers on fungible-value
// ledgers, one namespace per token. A transfer spends the allowance the
// payer granted to the registry; insufficient balance or allowance
// surfaces as sentinel.ErrInsufficientFunds and aborts the enclosing
// operation.
type TokenLedger interface {
	BalanceOf(ctx context.Context, token domain.Token, party domain.Party) (int64, error)
	// Allowance reports how much the registry may still move on the
	// owner's behalf.
	Allowance(ctx context.Context, token domain.Token, owner domain.Party) (int64, error)
	// Transfer moves amount from payer to recipient, consuming the
	// payer's allowance.
	Transfer(ctx context.Context, token domain.Token, from, to domain.Party, amount int64) error
}
