package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"claimbank/internal/claim/service"
)

func TestIsCreditorOrDebtor(t *testing.T) {
	assert.True(t, service.IsCreditorOrDebtor(creditor, creditor, debtor))
	assert.True(t, service.IsCreditorOrDebtor(debtor, creditor, debtor))
	assert.False(t, service.IsCreditorOrDebtor(outsider, creditor, debtor))
	assert.False(t, service.IsCreditorOrDebtor("", "", debtor))
}
