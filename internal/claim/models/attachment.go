package models

import dErrors "claimbank/pkg/domain-errors"

const maxAttachmentHashLen = 128

// Attachment is a content reference attached to a claim: a multihash-style
// triple of digest, hash-function id, and digest size. The all-zero value
// is the documented "no attachment" sentinel.
type Attachment struct {
	Hash         string `json:"hash"`
	HashFunction uint8  `json:"hash_function"`
	Size         uint8  `json:"size"`
}

// None reports the no-attachment sentinel.
func (a Attachment) None() bool {
	return a.HashFunction == 0 && a.Size == 0
}

// Validate accepts any attachment value, including the sentinel; it
// rejects only structurally malformed input. The unsigned function and
// size fields make negative values unrepresentable, so the only
// structural check left is the digest length bound.
func (a Attachment) Validate() error {
	if len(a.Hash) > maxAttachmentHashLen {
		return dErrors.Newf(dErrors.CodeValidation, "attachment hash must be at most %d characters", maxAttachmentHashLen)
	}
	return nil
}
