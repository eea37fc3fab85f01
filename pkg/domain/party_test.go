package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "claimbank/pkg/domain-errors"
)

func TestParseParty(t *testing.T) {
	p, err := ParseParty("0xcreditor")
	require.NoError(t, err)
	assert.Equal(t, Party("0xcreditor"), p)
	assert.False(t, p.IsZero())
}

func TestParsePartyRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"padded":     " 0xcreditor ",
		"over-long":  strings.Repeat("a", 129),
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseParty(input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestParseToken(t *testing.T) {
	tok, err := ParseToken("0xbullatoken")
	require.NoError(t, err)
	assert.Equal(t, "0xbullatoken", tok.String())

	_, err = ParseToken("")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
