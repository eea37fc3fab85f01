package service

import (
	"context"
	"time"

	"claimbank/internal/claim/models"
	"claimbank/internal/events"
	"claimbank/pkg/domain"
	dErrors "claimbank/pkg/domain-errors"
	"claimbank/pkg/requestcontext"
)

// fundsKey accumulates the value a single payer must cover on one token
// ledger across a whole unit of work.
type fundsKey struct {
	token domain.Token
	payer domain.Party
}

type transferIntent struct {
	token  domain.Token
	from   domain.Party
	to     domain.Party
	amount int64
}

// BatchTx stages mutations for one unit of work. Nothing a BatchTx does
// is visible outside the batch until commit: creates are held back from
// the store, payments are applied to private copies, ledger transfers
// and events are buffered. Any error from a staging call aborts the
// whole batch with no effect.
//
// A BatchTx is only valid inside the function passed to
// ClaimService.Batch and must not be retained after it returns.
type BatchTx struct {
	s      *ClaimService
	ctx    context.Context
	caller domain.Party
	now    time.Time

	staged    map[int64]*models.Claim // overlay of existing claims mutated in this batch
	creates   []*models.Claim
	transfers []transferIntent
	required  map[fundsKey]int64
	pending   []func() events.Event // evaluated after commit, once ids are assigned

	feeTotal int64
	payments int
}

// CreateClaim stages a claim without caller authorization or a tag.
func (b *BatchTx) CreateClaim(params models.CreateClaimParams) (*models.Claim, error) {
	return b.stageCreate(params, nil, false)
}

// CreateClaimWithTag stages a claim on behalf of the caller, who must
// be the stated creditor or debtor, and assigns the tag in the same
// unit of work.
func (b *BatchTx) CreateClaimWithTag(params models.CreateClaimParams, tag []byte) (*models.Claim, error) {
	return b.stageCreate(params, tag, true)
}

func (b *BatchTx) stageCreate(params models.CreateClaimParams, tag []byte, authorize bool) (*models.Claim, error) {
	if authorize && !IsCreditorOrDebtor(b.caller, params.Creditor, params.Debtor) {
		return nil, errNotCreditorOrDebtor(b.caller)
	}
	if err := models.ValidateTag(tag); err != nil {
		return nil, err
	}

	claim, err := models.NewClaim(params, b.now)
	if err != nil {
		return nil, err
	}
	if len(tag) > 0 {
		claim.SetTag(tag, b.now)
	}
	b.creates = append(b.creates, claim)

	b.pending = append(b.pending, func() events.Event {
		return events.NewClaimCreated(b.s.registryID, claim.ID, claim.Creditor, claim.Debtor, claim.ClaimAmount, claim.Token, b.now)
	})
	if len(tag) > 0 {
		caller := b.caller
		b.pending = append(b.pending, func() events.Event {
			return events.NewTagUpdated(b.s.registryID, claim.ID, caller, claim.Tag, b.now)
		})
	}
	return claim, nil
}

// PayClaim stages a payment from the calling party against an existing
// claim. The payer's cumulative obligations within the batch are checked
// against balance and allowance at staging time, so a commit never fails
// mid-way through its transfers.
func (b *BatchTx) PayClaim(claimID int64, amount int64) (*models.Claim, error) {
	claim, err := b.load(claimID)
	if err != nil {
		return nil, err
	}
	if err := claim.CanPay(amount); err != nil {
		return nil, err
	}

	fee := b.s.fees.Fee(amount)
	if err := b.reserve(claim.Token, b.caller, amount); err != nil {
		return nil, err
	}
	if fee > 0 {
		b.transfers = append(b.transfers, transferIntent{claim.Token, b.caller, b.s.fees.Collector, fee})
	}
	if amount-fee > 0 {
		b.transfers = append(b.transfers, transferIntent{claim.Token, b.caller, claim.Creditor, amount - fee})
	}

	claim.ApplyPayment(amount, b.now)
	b.feeTotal += fee
	b.payments++

	caller := b.caller
	status := claim.Status.String()
	b.pending = append(b.pending, func() events.Event {
		return events.NewPaymentApplied(b.s.registryID, claimID, caller, amount, fee, status, b.now)
	})
	return claim, nil
}

// load resolves a claim for mutation, preferring the batch's own staged
// copy so consecutive payments within one batch observe each other.
func (b *BatchTx) load(claimID int64) (*models.Claim, error) {
	if claim, ok := b.staged[claimID]; ok {
		return claim, nil
	}
	claim, err := b.s.loadClaim(b.ctx, claimID)
	if err != nil {
		return nil, err
	}
	b.staged[claimID] = claim
	return claim, nil
}

// reserve adds amount to the payer's cumulative requirement on the token
// ledger and verifies both balance and allowance still cover it.
func (b *BatchTx) reserve(token domain.Token, payer domain.Party, amount int64) error {
	key := fundsKey{token: token, payer: payer}
	needed := b.required[key] + amount

	balance, err := b.s.tokens.BalanceOf(b.ctx, token, payer)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read ledger balance")
	}
	if balance < needed {
		return dErrors.Newf(dErrors.CodeInsufficientFunds, "balance %d does not cover %d on token %s", balance, needed, token).
			With("party", payer.String()).
			With("token", token.String())
	}
	allowance, err := b.s.tokens.Allowance(b.ctx, token, payer)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read ledger allowance")
	}
	if allowance < needed {
		return dErrors.Newf(dErrors.CodeInsufficientFunds, "allowance %d does not cover %d on token %s", allowance, needed, token).
			With("party", payer.String()).
			With("token", token.String())
	}

	b.required[key] = needed
	return nil
}

// Batch runs fn against a fresh BatchTx and commits everything it staged
// as one unit of work. If fn returns an error nothing is persisted and
// no event is emitted. On success it returns the ids of claims created
// by the batch, in staging order.
//
// Commit order: claim rows first inside one store transaction, then
// holdership mints, then the pre-validated value transfers, then events
// and metrics. The service mutex is held throughout, so no other
// operation can observe or disturb a half-committed batch.
func (s *ClaimService) Batch(ctx context.Context, fn func(b *BatchTx) error) ([]int64, error) {
	ctx, span := s.tracer.Start(ctx, "claim.batch")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	b := &BatchTx{
		s:        s,
		ctx:      ctx,
		caller:   requestcontext.Caller(ctx),
		now:      requestcontext.Now(ctx),
		staged:   make(map[int64]*models.Claim),
		required: make(map[fundsKey]int64),
	}
	if err := fn(b); err != nil {
		s.countAbort()
		return nil, err
	}

	if err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, claim := range b.creates {
			if err := s.store.Create(txCtx, claim); err != nil {
				return err
			}
		}
		for _, claim := range b.staged {
			if err := s.store.Update(txCtx, claim); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		s.countAbort()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit batch")
	}

	for _, claim := range b.creates {
		if err := s.ownership.Mint(ctx, claim.ID, claim.Creditor); err != nil {
			s.logger.ErrorContext(ctx, "holdership mint failed after commit",
				"claim_id", claim.ID, "error", err)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint claim holdership")
		}
	}
	// Transfers were reserved against balance and allowance under the
	// service mutex, so a failure here indicates a ledger fault rather
	// than insufficient funds.
	for _, t := range b.transfers {
		if err := s.tokens.Transfer(ctx, t.token, t.from, t.to, t.amount); err != nil {
			s.logger.ErrorContext(ctx, "ledger transfer failed after commit",
				"token", t.token, "from", t.from, "to", t.to, "amount", t.amount, "error", err)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to settle payment transfer")
		}
	}

	for _, build := range b.pending {
		s.emit(ctx, build())
	}
	for range b.creates {
		s.incClaimsCreated()
	}
	if b.payments > 0 {
		s.incPaymentsApplied(b.payments, b.feeTotal)
	}
	s.countCommit()

	ids := make([]int64, len(b.creates))
	for i, claim := range b.creates {
		ids[i] = claim.ID
	}
	return ids, nil
}

func (s *ClaimService) countCommit() {
	if s.metrics != nil {
		s.metrics.BatchesCommitted.Inc()
	}
}

func (s *ClaimService) countAbort() {
	if s.metrics != nil {
		s.metrics.BatchesAborted.Inc()
	}
}
