package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "claimbank/pkg/domain-errors"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func validParams() CreateClaimParams {
	return CreateClaimParams{
		Creditor:    "0xcreditor",
		Debtor:      "0xdebtor",
		Description: "invoice 42",
		ClaimAmount: 100,
		DueBy:       testNow.Add(24 * time.Hour),
		Token:       "0xtoken",
	}
}

func TestNewClaim(t *testing.T) {
	c, err := NewClaim(validParams(), testNow)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, c.Status)
	assert.Zero(t, c.PaidAmount)
	assert.Equal(t, int64(100), c.Remaining())
	assert.Zero(t, c.ID, "id is assigned by the store, not the constructor")
}

func TestCreateClaimParamsValidate(t *testing.T) {
	t.Run("zero amount", func(t *testing.T) {
		p := validParams()
		p.ClaimAmount = 0
		err := p.Validate(testNow)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAmount))
	})

	t.Run("negative amount", func(t *testing.T) {
		p := validParams()
		p.ClaimAmount = -10
		err := p.Validate(testNow)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAmount))
	})

	t.Run("creditor equals debtor", func(t *testing.T) {
		p := validParams()
		p.Debtor = p.Creditor
		err := p.Validate(testNow)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("due date equal to now is rejected", func(t *testing.T) {
		p := validParams()
		p.DueBy = testNow
		err := p.Validate(testNow)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidDueDate))
	})

	t.Run("due date in the past is rejected", func(t *testing.T) {
		p := validParams()
		p.DueBy = testNow.Add(-time.Second)
		err := p.Validate(testNow)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidDueDate))
	})

	t.Run("zero due date means no due date", func(t *testing.T) {
		p := validParams()
		p.DueBy = time.Time{}
		assert.NoError(t, p.Validate(testNow))
	})

	t.Run("missing token", func(t *testing.T) {
		p := validParams()
		p.Token = ""
		err := p.Validate(testNow)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestPaymentAccounting(t *testing.T) {
	c, err := NewClaim(validParams(), testNow)
	require.NoError(t, err)

	t.Run("partial payment moves to repaying", func(t *testing.T) {
		require.NoError(t, c.CanPay(40))
		c.ApplyPayment(40, testNow)
		assert.Equal(t, StatusRepaying, c.Status)
		assert.Equal(t, int64(40), c.PaidAmount)
		assert.Equal(t, int64(60), c.Remaining())
	})

	t.Run("overpayment of remaining balance is rejected", func(t *testing.T) {
		err := c.CanPay(61)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAmount))
		assert.Equal(t, int64(40), c.PaidAmount, "rejected payment must not change state")
	})

	t.Run("zero payment is rejected", func(t *testing.T) {
		err := c.CanPay(0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAmount))
	})

	t.Run("exact remaining balance settles the claim", func(t *testing.T) {
		require.NoError(t, c.CanPay(60))
		c.ApplyPayment(60, testNow)
		assert.Equal(t, StatusPaid, c.Status)
		assert.Equal(t, c.ClaimAmount, c.PaidAmount)
	})

	t.Run("paid claim accepts no further payments", func(t *testing.T) {
		err := c.CanPay(1)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
	})
}

func TestRejectAndRescind(t *testing.T) {
	t.Run("debtor rejects a pending claim", func(t *testing.T) {
		c, _ := NewClaim(validParams(), testNow)
		require.NoError(t, c.CanReject("0xdebtor"))
		c.ApplyRejection(testNow)
		assert.Equal(t, StatusRejected, c.Status)
	})

	t.Run("creditor cannot reject", func(t *testing.T) {
		c, _ := NewClaim(validParams(), testNow)
		err := c.CanReject("0xcreditor")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotCreditorOrDebtor))
	})

	t.Run("creditor rescinds a repaying claim", func(t *testing.T) {
		c, _ := NewClaim(validParams(), testNow)
		c.ApplyPayment(10, testNow)
		require.NoError(t, c.CanRescind("0xcreditor"))
		c.ApplyRescission(testNow)
		assert.Equal(t, StatusRescinded, c.Status)
	})

	t.Run("debtor cannot rescind", func(t *testing.T) {
		c, _ := NewClaim(validParams(), testNow)
		err := c.CanRescind("0xdebtor")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotCreditorOrDebtor))
	})

	t.Run("terminal claims cannot be rejected", func(t *testing.T) {
		c, _ := NewClaim(validParams(), testNow)
		c.ApplyRescission(testNow)
		err := c.CanReject("0xdebtor")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
	})
}

func TestSetTagAndClone(t *testing.T) {
	c, _ := NewClaim(validParams(), testNow)
	c.SetTag([]byte("creditor tag"), testNow)

	dup := c.Clone()
	dup.SetTag([]byte("other"), testNow)
	dup.PaidAmount = 99

	assert.Equal(t, []byte("creditor tag"), c.Tag, "clone must not alias the original tag")
	assert.Zero(t, c.PaidAmount)
}

func TestValidateTag(t *testing.T) {
	assert.NoError(t, ValidateTag([]byte("short")))
	assert.NoError(t, ValidateTag(nil))
	err := ValidateTag(make([]byte, MaxTagLen+1))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
