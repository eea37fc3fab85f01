// Package service implements multi-item units of work over the claim
// registry: many creations or many payments submitted together and
// committed atomically. The heavy lifting lives in the registry's own
// batch staging; this layer enforces batch shape and size.
package service

import (
	"context"
	"io"
	"log/slog"

	"claimbank/internal/claim/models"
	claimservice "claimbank/internal/claim/service"
	dErrors "claimbank/pkg/domain-errors"
	"claimbank/pkg/requestcontext"
)

// DefaultLimit caps batch size when no limit is configured.
const DefaultLimit = 20

// Service validates batch shape and delegates to the registry's staged
// unit of work. Either every item lands or none do.
type Service struct {
	claims *claimservice.ClaimService
	limit  int
	logger *slog.Logger
}

// Option configures optional dependencies.
type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithLimit overrides the maximum number of items per batch.
func WithLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// New constructs a batch Service over the claim registry.
func New(claims *claimservice.ClaimService, opts ...Option) *Service {
	s := &Service{
		claims: claims,
		limit:  DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Limit reports the configured batch size cap.
func (s *Service) Limit() int { return s.limit }

// BatchCreate registers every claim as one unit of work on behalf of
// the caller, who must be a party to each, all labeled with one shared
// tag. Returns the assigned ids in item order.
func (s *Service) BatchCreate(ctx context.Context, items []models.CreateClaimParams, sharedTag []byte) ([]int64, error) {
	if err := s.checkSize(len(items)); err != nil {
		return nil, err
	}

	ids, err := s.claims.Batch(ctx, func(b *claimservice.BatchTx) error {
		for i, params := range items {
			if _, err := b.CreateClaimWithTag(params, sharedTag); err != nil {
				return dErrors.Wrap(err, dErrors.CodeOf(err), "batch item rejected").With("item", i)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "batch create committed",
		"request_id", requestcontext.RequestID(ctx),
		"count", len(ids),
		"tag", string(sharedTag),
	)
	return ids, nil
}

// BatchPay applies payments to the listed claims as one unit of work,
// all funded by the caller. claimIDs and amounts are parallel; a length
// mismatch rejects the batch before anything is staged.
func (s *Service) BatchPay(ctx context.Context, claimIDs []int64, amounts []int64) error {
	if len(claimIDs) != len(amounts) {
		return dErrors.Newf(dErrors.CodeLengthMismatch, "got %d claim ids and %d amounts", len(claimIDs), len(amounts))
	}
	if err := s.checkSize(len(claimIDs)); err != nil {
		return err
	}

	_, err := s.claims.Batch(ctx, func(b *claimservice.BatchTx) error {
		for i, claimID := range claimIDs {
			if _, err := b.PayClaim(claimID, amounts[i]); err != nil {
				return dErrors.Wrap(err, dErrors.CodeOf(err), "batch item rejected").With("item", i)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "batch pay committed",
		"request_id", requestcontext.RequestID(ctx),
		"count", len(claimIDs),
	)
	return nil
}

func (s *Service) checkSize(n int) error {
	if n == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "batch must contain at least one item")
	}
	if n > s.limit {
		return dErrors.Newf(dErrors.CodeBadRequest, "batch of %d exceeds the limit of %d", n, s.limit)
	}
	return nil
}
