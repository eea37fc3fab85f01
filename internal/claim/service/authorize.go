package service

import (
	"claimbank/pkg/domain"
	dErrors "claimbank/pkg/domain-errors"
)

// IsCreditorOrDebtor is the authorization predicate for claim creation
// and tag updates: the caller must be one of the two stated parties.
// A zero caller never authorizes.
func IsCreditorOrDebtor(caller, creditor, debtor domain.Party) bool {
	return !caller.IsZero() && (caller == creditor || caller == debtor)
}

func errNotCreditorOrDebtor(caller domain.Party) *dErrors.Error {
	return dErrors.Newf(dErrors.CodeNotCreditorOrDebtor, "caller %q is not the creditor or debtor", caller).
		With("caller", caller.String())
}
