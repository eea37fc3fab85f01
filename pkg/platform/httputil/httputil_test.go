package httputil

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "claimbank/pkg/domain-errors"
)

type fakeRequest struct {
	Amount int64 `json:"amount"`
}

func (r *fakeRequest) Validate() error {
	if r.Amount <= 0 {
		return dErrors.New(dErrors.CodeInvalidAmount, "amount must be positive")
	}
	return nil
}

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		code   dErrors.Code
		status int
	}{
		{dErrors.CodeNotFound, 404},
		{dErrors.CodeNotCreditorOrDebtor, 403},
		{dErrors.CodeUnauthorized, 401},
		{dErrors.CodeInvalidAmount, 400},
		{dErrors.CodeInvalidDueDate, 400},
		{dErrors.CodeLengthMismatch, 400},
		{dErrors.CodeInvalidState, 409},
		{dErrors.CodeInsufficientFunds, 402},
		{dErrors.CodeInternal, 500},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, dErrors.New(tc.code, "boom"))
			assert.Equal(t, tc.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, string(tc.code), body.Error)
		})
	}
}

func TestWriteErrorHidesPlainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, assert.AnError)

	assert.Equal(t, 500, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "internal error", body.Message)
}

func TestDecodeAndPrepare(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(`{"amount": 100}`)))

		decoded, ok := DecodeAndPrepare[fakeRequest](rec, req, nil, req.Context(), "req-1")
		require.True(t, ok)
		assert.Equal(t, int64(100), decoded.Amount)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(`not json`)))

		_, ok := DecodeAndPrepare[fakeRequest](rec, req, nil, req.Context(), "req-1")
		assert.False(t, ok)
		assert.Equal(t, 400, rec.Code)
	})

	t.Run("failing validation", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(`{"amount": -5}`)))

		_, ok := DecodeAndPrepare[fakeRequest](rec, req, nil, req.Context(), "req-1")
		assert.False(t, ok)
		assert.Equal(t, 400, rec.Code)

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, string(dErrors.CodeInvalidAmount), body.Error)
	})
}
