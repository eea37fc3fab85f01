package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"claimbank/pkg/platform/sentinel"
)

type TokenLedgerSuite struct {
	suite.Suite
	ledger *TokenLedger
	ctx    context.Context
}

func (s *TokenLedgerSuite) SetupTest() {
	s.ledger = NewTokenLedger()
	s.ctx = context.Background()
}

func TestTokenLedgerSuite(t *testing.T) {
	suite.Run(t, new(TokenLedgerSuite))
}

func (s *TokenLedgerSuite) TestTransferMovesBalanceAndAllowance() {
	s.ledger.Mint("tok", "payer", 100)
	s.ledger.Approve("tok", "payer", 80)

	s.Require().NoError(s.ledger.Transfer(s.ctx, "tok", "payer", "creditor", 50))

	balance, err := s.ledger.BalanceOf(s.ctx, "tok", "payer")
	s.Require().NoError(err)
	s.Equal(int64(50), balance)

	allowance, err := s.ledger.Allowance(s.ctx, "tok", "payer")
	s.Require().NoError(err)
	s.Equal(int64(30), allowance)

	received, err := s.ledger.BalanceOf(s.ctx, "tok", "creditor")
	s.Require().NoError(err)
	s.Equal(int64(50), received)
}

func (s *TokenLedgerSuite) TestTransferInsufficientBalance() {
	s.ledger.Mint("tok", "payer", 10)
	s.ledger.Approve("tok", "payer", 100)

	err := s.ledger.Transfer(s.ctx, "tok", "payer", "creditor", 50)
	s.Require().ErrorIs(err, sentinel.ErrInsufficientFunds)

	balance, _ := s.ledger.BalanceOf(s.ctx, "tok", "payer")
	s.Equal(int64(10), balance, "failed transfer must not move funds")
}

func (s *TokenLedgerSuite) TestTransferInsufficientAllowance() {
	s.ledger.Mint("tok", "payer", 100)
	s.ledger.Approve("tok", "payer", 10)

	err := s.ledger.Transfer(s.ctx, "tok", "payer", "creditor", 50)
	s.Require().ErrorIs(err, sentinel.ErrInsufficientFunds)
}

func (s *TokenLedgerSuite) TestTokensAreIndependent() {
	s.ledger.Mint("tokA", "payer", 100)
	s.ledger.Approve("tokA", "payer", 100)

	err := s.ledger.Transfer(s.ctx, "tokB", "payer", "creditor", 1)
	s.Require().ErrorIs(err, sentinel.ErrInsufficientFunds)
}

func TestOwnershipRegistry(t *testing.T) {
	ctx := context.Background()
	reg := NewOwnershipRegistry()

	require.NoError(t, reg.Mint(ctx, 1, "creditor"))

	holder, err := reg.HolderOf(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "creditor", holder.String())

	// double mint is a conflict
	require.ErrorIs(t, reg.Mint(ctx, 1, "other"), sentinel.ErrConflict)

	// unknown identity
	_, err = reg.HolderOf(ctx, 12)
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	// transfer changes the holder but nothing else
	require.NoError(t, reg.Transfer(ctx, 1, "creditor", "buyer"))
	holder, err = reg.HolderOf(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "buyer", holder.String())

	// transfer from a non-holder is rejected
	require.ErrorIs(t, reg.Transfer(ctx, 1, "creditor", "thief"), sentinel.ErrConflict)
}
