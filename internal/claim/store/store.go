// Package store persists claim records. Implementations return
// sentinel errors; the service layer translates them into coded domain
// errors.
package store

import (
	"context"

	"claimbank/internal/claim/models"
	"claimbank/pkg/domain"
)

// Store owns the claim table. Create assigns the next sequential id on
// the passed claim; ids are never reused, and claims are never deleted.
type Store interface {
	Create(ctx context.Context, claim *models.Claim) error
	// Get returns sentinel.ErrNotFound for an id that was never assigned.
	Get(ctx context.Context, id int64) (*models.Claim, error)
	Update(ctx context.Context, claim *models.Claim) error
	// ListByParty returns every claim where party is creditor or
	// debtor, ordered by id.
	ListByParty(ctx context.Context, party domain.Party) ([]*models.Claim, error)
	Count(ctx context.Context) (int, error)
}
