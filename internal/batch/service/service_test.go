package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	batchservice "claimbank/internal/batch/service"
	"claimbank/internal/claim/models"
	claimservice "claimbank/internal/claim/service"
	"claimbank/internal/claim/store"
	eventsmem "claimbank/internal/events/memory"
	ledgermem "claimbank/internal/ledger/memory"
	"claimbank/pkg/domain"
	dErrors "claimbank/pkg/domain-errors"
	"claimbank/pkg/requestcontext"
)

const (
	creditor  = domain.Party("alice")
	debtor    = domain.Party("bob")
	collector = domain.Party("fee-collector")
	dai       = domain.Token("DAI")
)

type BatchSuite struct {
	suite.Suite
	store     *store.InMemory
	tokens    *ledgermem.TokenLedger
	publisher *eventsmem.Publisher
	claims    *claimservice.ClaimService
	svc       *batchservice.Service
}

func (s *BatchSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.tokens = ledgermem.NewTokenLedger()
	s.publisher = eventsmem.NewPublisher()

	fees, err := claimservice.NewFeePolicy(collector, 1000)
	s.Require().NoError(err)

	s.claims = claimservice.New(s.store, ledgermem.NewOwnershipRegistry(), s.tokens, fees, "test-registry",
		claimservice.WithPublisher(s.publisher),
	)
	s.svc = batchservice.New(s.claims)
}

func (s *BatchSuite) ctx(caller domain.Party) context.Context {
	ctx := requestcontext.WithCaller(context.Background(), caller)
	return requestcontext.WithTime(ctx, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func (s *BatchSuite) item(amount int64) models.CreateClaimParams {
	return models.CreateClaimParams{
		Creditor:    creditor,
		Debtor:      debtor,
		Description: "invoice",
		ClaimAmount: amount,
		Token:       dai,
	}
}

func (s *BatchSuite) fund(party domain.Party, amount int64) {
	s.tokens.Mint(dai, party, amount)
	s.tokens.Approve(dai, party, amount)
}

func (s *BatchSuite) count() int {
	count, err := s.store.Count(context.Background())
	s.Require().NoError(err)
	return count
}

func (s *BatchSuite) TestBatchCreate() {
	ids, err := s.svc.BatchCreate(s.ctx(creditor), []models.CreateClaimParams{
		s.item(100), s.item(200), s.item(300),
	}, []byte("q1"))
	s.Require().NoError(err)
	s.Equal([]int64{1, 2, 3}, ids)
	s.Equal(3, s.count())

	// one created and one tag event per item
	s.Len(s.publisher.Events(), 6)
}

func (s *BatchSuite) TestBatchCreateAllOrNothing() {
	bad := s.item(0)
	_, err := s.svc.BatchCreate(s.ctx(creditor), []models.CreateClaimParams{
		s.item(100), bad, s.item(300),
	}, []byte("q1"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidAmount))
	s.Zero(s.count())
	s.Empty(s.publisher.Events())
}

func (s *BatchSuite) TestBatchCreateUnauthorizedItem() {
	foreign := s.item(100)
	foreign.Creditor = domain.Party("carol")
	foreign.Debtor = domain.Party("dave")

	_, err := s.svc.BatchCreate(s.ctx(creditor), []models.CreateClaimParams{
		s.item(100), foreign,
	}, nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotCreditorOrDebtor))
	s.Zero(s.count())
}

func (s *BatchSuite) TestBatchCreateLimit() {
	items := make([]models.CreateClaimParams, batchservice.DefaultLimit+1)
	for i := range items {
		items[i] = s.item(100)
	}
	_, err := s.svc.BatchCreate(s.ctx(creditor), items, nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = s.svc.BatchCreate(s.ctx(creditor), nil, nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *BatchSuite) TestBatchCreateCustomLimit() {
	svc := batchservice.New(s.claims, batchservice.WithLimit(2))
	s.Equal(2, svc.Limit())

	_, err := svc.BatchCreate(s.ctx(creditor), []models.CreateClaimParams{
		s.item(100), s.item(200), s.item(300),
	}, nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *BatchSuite) TestBatchPay() {
	ids, err := s.svc.BatchCreate(s.ctx(creditor), []models.CreateClaimParams{
		s.item(100), s.item(200),
	}, []byte("q1"))
	s.Require().NoError(err)
	s.fund(debtor, 300)

	err = s.svc.BatchPay(s.ctx(debtor), ids, []int64{100, 200})
	s.Require().NoError(err)

	for _, id := range ids {
		claim, err := s.claims.GetClaim(s.ctx(debtor), id)
		s.Require().NoError(err)
		s.Equal(models.StatusPaid, claim.Status)
	}

	balance, err := s.tokens.BalanceOf(context.Background(), dai, collector)
	s.Require().NoError(err)
	s.Equal(int64(30), balance)
}

func (s *BatchSuite) TestBatchPayLengthMismatch() {
	err := s.svc.BatchPay(s.ctx(debtor), []int64{1, 2}, []int64{100})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeLengthMismatch))
}

func (s *BatchSuite) TestBatchPayUnknownClaimAborts() {
	ids, err := s.svc.BatchCreate(s.ctx(creditor), []models.CreateClaimParams{s.item(100)}, nil)
	s.Require().NoError(err)
	s.fund(debtor, 300)

	err = s.svc.BatchPay(s.ctx(debtor), []int64{ids[0], 12}, []int64{100, 100})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	claim, err := s.claims.GetClaim(s.ctx(debtor), ids[0])
	s.Require().NoError(err)
	s.Equal(int64(0), claim.PaidAmount)

	balance, err := s.tokens.BalanceOf(context.Background(), dai, debtor)
	s.Require().NoError(err)
	s.Equal(int64(300), balance)
}

func (s *BatchSuite) TestBatchPayInsufficientFundsAborts() {
	ids, err := s.svc.BatchCreate(s.ctx(creditor), []models.CreateClaimParams{
		s.item(100), s.item(200),
	}, []byte("q1"))
	s.Require().NoError(err)
	s.fund(debtor, 250)

	err = s.svc.BatchPay(s.ctx(debtor), ids, []int64{100, 200})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInsufficientFunds))

	for _, id := range ids {
		claim, err := s.claims.GetClaim(s.ctx(debtor), id)
		s.Require().NoError(err)
		s.Equal(models.StatusPending, claim.Status)
	}
}

func TestBatchSuite(t *testing.T) {
	suite.Run(t, new(BatchSuite))
}
