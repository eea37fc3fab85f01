package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttachmentSentinel(t *testing.T) {
	assert.True(t, Attachment{}.None())
	// A hash with zero function/size still counts as "no attachment";
	// the sentinel is defined by the function/size pair alone.
	assert.True(t, Attachment{Hash: "some hash"}.None())
	assert.False(t, Attachment{Hash: "h", HashFunction: 18, Size: 32}.None())
}

func TestAttachmentValidate(t *testing.T) {
	assert.NoError(t, Attachment{}.Validate())
	assert.NoError(t, Attachment{Hash: "abc", HashFunction: 18, Size: 32}.Validate())
	assert.Error(t, Attachment{Hash: strings.Repeat("h", 200)}.Validate())
}
