package memory

import (
	"context"
	"fmt"
	"sync"

	"claimbank/pkg/domain"
	"claimbank/pkg/platform/sentinel"
)

type balanceKey struct {
	token domain.Token
	party domain.Party
}

// TokenLedger is an in-memory value ledger with per-token balances and
// registry allowances. It backs tests and single-process deployments.
type TokenLedger struct {
	mu         sync.RWMutex
	balances   map[balanceKey]int64
	allowances map[balanceKey]int64
}

// NewTokenLedger creates an empty in-memory value ledger.
func NewTokenLedger() *TokenLedger {
	return &TokenLedger{
		balances:   make(map[balanceKey]int64),
		allowances: make(map[balanceKey]int64),
	}
}

// Mint credits a party's balance. Test and bootstrap helper.
func (l *TokenLedger) Mint(token domain.Token, party domain.Party, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[balanceKey{token, party}] += amount
}

// Approve grants the registry an allowance to move the owner's funds.
func (l *TokenLedger) Approve(token domain.Token, owner domain.Party, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowances[balanceKey{token, owner}] = amount
}

func (l *TokenLedger) BalanceOf(ctx context.Context, token domain.Token, party domain.Party) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[balanceKey{token, party}], nil
}

func (l *TokenLedger) Allowance(ctx context.Context, token domain.Token, owner domain.Party) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.allowances[balanceKey{token, owner}], nil
}

func (l *TokenLedger) Transfer(ctx context.Context, token domain.Token, from, to domain.Party, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("transfer amount must be positive, got %d", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	fromKey := balanceKey{token, from}
	if l.balances[fromKey] < amount {
		return fmt.Errorf("balance of %s on %s is %d, need %d: %w",
			from, token, l.balances[fromKey], amount, sentinel.ErrInsufficientFunds)
	}
	if l.allowances[fromKey] < amount {
		return fmt.Errorf("allowance of %s on %s is %d, need %d: %w",
			from, token, l.allowances[fromKey], amount, sentinel.ErrInsufficientFunds)
	}

	l.balances[fromKey] -= amount
	l.allowances[fromKey] -= amount
	l.balances[balanceKey{token, to}] += amount
	return nil
}

// OwnershipRegistry is an in-memory holdership table for claim
// identities.
type OwnershipRegistry struct {
	mu      sync.RWMutex
	holders map[int64]domain.Party
}

// NewOwnershipRegistry creates an empty in-memory ownership registry.
func NewOwnershipRegistry() *OwnershipRegistry {
	return &OwnershipRegistry{holders: make(map[int64]domain.Party)}
}

func (r *OwnershipRegistry) Mint(ctx context.Context, claimID int64, holder domain.Party) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.holders[claimID]; exists {
		return fmt.Errorf("claim identity %d already minted: %w", claimID, sentinel.ErrConflict)
	}
	r.holders[claimID] = holder
	return nil
}

func (r *OwnershipRegistry) HolderOf(ctx context.Context, claimID int64) (domain.Party, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	holder, ok := r.holders[claimID]
	if !ok {
		return "", fmt.Errorf("claim identity %d: %w", claimID, sentinel.ErrNotFound)
	}
	return holder, nil
}

func (r *OwnershipRegistry) Transfer(ctx context.Context, claimID int64, from, to domain.Party) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	holder, ok := r.holders[claimID]
	if !ok {
		return fmt.Errorf("claim identity %d: %w", claimID, sentinel.ErrNotFound)
	}
	if holder != from {
		return fmt.Errorf("claim identity %d held by %s, not %s: %w", claimID, holder, from, sentinel.ErrConflict)
	}
	r.holders[claimID] = to
	return nil
}
