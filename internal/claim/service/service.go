// Package service implements the claim registry: the claim lifecycle
// and authorization state machine, the fee split on payments, the tag
// annotation layer, and the party-facing façade that couples creation
// with tagging.
//
// Every mutating operation runs under one service-wide mutex, making
// execution globally serialized: an operation completes fully or aborts
// with no visible effect, and nothing can interleave between the
// validation and commit phases of a unit of work. Claim state is always
// staged and committed before value-ledger transfers execute, and
// transfers are pre-validated against balance and allowance while the
// lock is held.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	claimmetrics "claimbank/internal/claim/metrics"
	"claimbank/internal/claim/models"
	"claimbank/internal/claim/store"
	"claimbank/internal/events"
	"claimbank/internal/ledger"
	"claimbank/pkg/domain"
	dErrors "claimbank/pkg/domain-errors"
	"claimbank/pkg/platform/sentinel"
	"claimbank/pkg/requestcontext"
)

const tracerName = "claimbank/internal/claim/service"

// Tx runs a function inside one unit of work. The Postgres runner wraps
// fn in a SQL transaction; the default passthrough is used with the
// in-memory store, where the service-level staging already guarantees
// all-or-nothing commits.
type Tx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ClaimService orchestrates the claim lifecycle.
type ClaimService struct {
	mu sync.Mutex

	store      store.Store
	ownership  ledger.OwnershipRegistry
	tokens     ledger.TokenLedger
	fees       FeePolicy
	registryID string

	publisher events.Publisher
	logger    *slog.Logger
	metrics   *claimmetrics.Metrics
	tx        Tx
	tracer    trace.Tracer
}

// Option configures optional service dependencies.
type Option func(s *ClaimService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *ClaimService) { s.logger = logger }
}

func WithPublisher(publisher events.Publisher) Option {
	return func(s *ClaimService) { s.publisher = publisher }
}

func WithMetrics(m *claimmetrics.Metrics) Option {
	return func(s *ClaimService) { s.metrics = m }
}

func WithTx(tx Tx) Option {
	return func(s *ClaimService) { s.tx = tx }
}

// New constructs a ClaimService.
func New(claims store.Store, ownership ledger.OwnershipRegistry, tokens ledger.TokenLedger, fees FeePolicy, registryID string, opts ...Option) *ClaimService {
	s := &ClaimService{
		store:      claims,
		ownership:  ownership,
		tokens:     tokens,
		fees:       fees,
		registryID: registryID,
		tx:         passthroughTx{},
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Fees exposes the active fee policy for read-side surfaces.
func (s *ClaimService) Fees() FeePolicy { return s.fees }

// CreateClaim registers a new claim without caller authorization or a
// tag. The id is assigned by the store; holdership of the representing
// identity is minted to the creditor.
func (s *ClaimService) CreateClaim(ctx context.Context, params models.CreateClaimParams) (*models.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claim.create")
	defer span.End()

	var created *models.Claim
	_, err := s.Batch(ctx, func(b *BatchTx) error {
		claim, err := b.CreateClaim(params)
		if err != nil {
			return err
		}
		created = claim
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateClaimWithTag is the party-facing façade: it requires the caller
// to be the stated creditor or debtor (checked before any state
// mutation), then creates the claim and assigns the tag as one unit.
// No intermediate claim-without-tag state is observable.
func (s *ClaimService) CreateClaimWithTag(ctx context.Context, params models.CreateClaimParams, tag []byte) (*models.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claim.create_with_tag")
	defer span.End()

	var created *models.Claim
	_, err := s.Batch(ctx, func(b *BatchTx) error {
		claim, err := b.stageCreate(params, tag, true)
		if err != nil {
			return err
		}
		created = claim
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// PayClaim applies a payment from the calling party. The fee leg goes
// to the collector and the remainder to the creditor, contingent on the
// payer's balance and pre-authorization on the value ledger. A payment
// exceeding the remaining balance is rejected outright, never clamped.
func (s *ClaimService) PayClaim(ctx context.Context, claimID int64, amount int64) (*models.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claim.pay")
	defer span.End()

	var paid *models.Claim
	_, err := s.Batch(ctx, func(b *BatchTx) error {
		claim, err := b.PayClaim(claimID, amount)
		if err != nil {
			return err
		}
		paid = claim
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// GetClaim resolves a claim by id.
func (s *ClaimService) GetClaim(ctx context.Context, claimID int64) (*models.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claim.get")
	defer span.End()
	return s.loadClaim(ctx, claimID)
}

// ListClaims returns every claim the party participates in.
func (s *ClaimService) ListClaims(ctx context.Context, party domain.Party) ([]*models.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claim.list")
	defer span.End()

	claims, err := s.store.ListByParty(ctx, party)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list claims")
	}
	return claims, nil
}

// Holder resolves the current holder of a claim's representing identity
// on the ownership registry.
func (s *ClaimService) Holder(ctx context.Context, claimID int64) (domain.Party, error) {
	holder, err := s.ownership.HolderOf(ctx, claimID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.Newf(dErrors.CodeNotFound, "claim %d not found", claimID).With("claim_id", claimID)
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve holder")
	}
	return holder, nil
}

// UpdateTag overwrites the claim's tag. Either counterparty may do so,
// regardless of payment state; no history is retained.
func (s *ClaimService) UpdateTag(ctx context.Context, claimID int64, tag []byte) (*models.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claim.update_tag")
	defer span.End()

	caller := requestcontext.Caller(ctx)
	now := requestcontext.Now(ctx)
	if err := models.ValidateTag(tag); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	claim, err := s.loadClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if !claim.IsParty(caller) {
		return nil, errNotCreditorOrDebtor(caller).With("claim_id", claimID)
	}

	claim.SetTag(tag, now)
	if err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.store.Update(txCtx, claim)
	}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update tag")
	}

	s.emit(ctx, events.NewTagUpdated(s.registryID, claimID, caller, tag, now))
	s.incTagsUpdated()
	s.logger.InfoContext(ctx, "tag updated",
		"request_id", requestcontext.RequestID(ctx),
		"claim_id", claimID,
		"caller", caller,
	)
	return claim, nil
}

// RejectClaim lets the debtor decline a claim that is not yet settled.
func (s *ClaimService) RejectClaim(ctx context.Context, claimID int64) (*models.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claim.reject")
	defer span.End()

	caller := requestcontext.Caller(ctx)
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	claim, err := s.loadClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if err := claim.CanReject(caller); err != nil {
		return nil, err
	}

	claim.ApplyRejection(now)
	if err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.store.Update(txCtx, claim)
	}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reject claim")
	}

	s.logger.InfoContext(ctx, "claim rejected",
		"request_id", requestcontext.RequestID(ctx),
		"claim_id", claimID,
		"caller", caller,
	)
	return claim, nil
}

// RescindClaim lets the creditor withdraw a claim that is not yet
// settled. Partial payments already received are not reversed.
func (s *ClaimService) RescindClaim(ctx context.Context, claimID int64) (*models.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claim.rescind")
	defer span.End()

	caller := requestcontext.Caller(ctx)
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	claim, err := s.loadClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if err := claim.CanRescind(caller); err != nil {
		return nil, err
	}

	claim.ApplyRescission(now)
	if err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.store.Update(txCtx, claim)
	}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to rescind claim")
	}

	s.logger.InfoContext(ctx, "claim rescinded",
		"request_id", requestcontext.RequestID(ctx),
		"claim_id", claimID,
		"caller", caller,
	)
	return claim, nil
}

func (s *ClaimService) loadClaim(ctx context.Context, claimID int64) (*models.Claim, error) {
	claim, err := s.store.Get(ctx, claimID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "claim %d not found", claimID).With("claim_id", claimID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load claim")
	}
	return claim, nil
}

func (s *ClaimService) emit(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "event emission failed",
			"event_id", event.ID,
			"kind", event.Kind,
			"claim_id", event.ClaimID,
			"error", err,
		)
	}
}

func (s *ClaimService) incClaimsCreated() {
	if s.metrics != nil {
		s.metrics.ClaimsCreated.Inc()
	}
}

func (s *ClaimService) incPaymentsApplied(count int, feeTotal int64) {
	if s.metrics != nil {
		s.metrics.PaymentsApplied.Add(float64(count))
		s.metrics.FeesCollected.Add(float64(feeTotal))
	}
}

func (s *ClaimService) incTagsUpdated() {
	if s.metrics != nil {
		s.metrics.TagsUpdated.Inc()
	}
}
