package service

import (
	"claimbank/pkg/domain"
	dErrors "claimbank/pkg/domain-errors"
)

// MaxBasisPoints is the full-amount fee rate: 10000 bps = 100%.
const MaxBasisPoints = 10000

// FeePolicy computes the collector's cut of each payment. It is owned
// and configured independently of individual claims, fixed at
// construction.
//
// The fee rounds down, so rounding loss always favors the payer side of
// the split; no compensation is carried across payments. Callers must
// not assume fee < amount: at 10000 bps the fee consumes the entire
// payment and the creditor receives nothing.
type FeePolicy struct {
	Collector   domain.Party
	BasisPoints int64
}

// NewFeePolicy validates the rate and collector once, at construction.
func NewFeePolicy(collector domain.Party, basisPoints int64) (FeePolicy, error) {
	if basisPoints < 0 || basisPoints > MaxBasisPoints {
		return FeePolicy{}, dErrors.Newf(dErrors.CodeValidation, "fee basis points must be in [0, %d], got %d", MaxBasisPoints, basisPoints)
	}
	if basisPoints > 0 && collector.IsZero() {
		return FeePolicy{}, dErrors.New(dErrors.CodeValidation, "fee collector is required when the fee rate is non-zero")
	}
	return FeePolicy{Collector: collector, BasisPoints: basisPoints}, nil
}

// Fee returns floor(amount * basisPoints / 10000). The computation is
// decomposed so it cannot overflow int64 for any valid amount.
func (p FeePolicy) Fee(amount int64) int64 {
	return amount/MaxBasisPoints*p.BasisPoints + (amount%MaxBasisPoints)*p.BasisPoints/MaxBasisPoints
}
