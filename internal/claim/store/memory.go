package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"claimbank/internal/claim/models"
	"claimbank/pkg/domain"
	"claimbank/pkg/platform/sentinel"
)

// InMemory implements Store with a mutex-guarded map. Ids are assigned
// from a monotonic counter starting at 1. Claims are stored as copies
// so callers can mutate their own instances freely.
type InMemory struct {
	mu     sync.RWMutex
	claims map[int64]*models.Claim
	nextID int64
}

// NewInMemory creates an empty in-memory claim store.
func NewInMemory() *InMemory {
	return &InMemory{claims: make(map[int64]*models.Claim), nextID: 1}
}

func (s *InMemory) Create(ctx context.Context, claim *models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	claim.ID = s.nextID
	s.nextID++
	s.claims[claim.ID] = claim.Clone()
	return nil
}

func (s *InMemory) Get(ctx context.Context, id int64) (*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	claim, ok := s.claims[id]
	if !ok {
		return nil, fmt.Errorf("claim %d: %w", id, sentinel.ErrNotFound)
	}
	return claim.Clone(), nil
}

func (s *InMemory) Update(ctx context.Context, claim *models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.claims[claim.ID]; !ok {
		return fmt.Errorf("claim %d: %w", claim.ID, sentinel.ErrNotFound)
	}
	s.claims[claim.ID] = claim.Clone()
	return nil
}

func (s *InMemory) ListByParty(ctx context.Context, party domain.Party) ([]*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Claim
	for _, c := range s.claims {
		if c.IsParty(party) {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.claims), nil
}
