// Package qbank derives stable identifiers for exam questions. The hash of
// a question's normalized content is the questionId used by the scheduler,
// so re-importing an unchanged bank never creates duplicate review state.
package qbank

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/prepdeck/prepdeck/internal/domain"
)

// Normalize produces the canonical form of a question's content: each
// field lowercased, trimmed, with line endings normalized, then joined
// with newlines so fields cannot run together.
func Normalize(q domain.Question) string {
	parts := []string{q.Prompt, q.Answer, q.Topic}
	for i, p := range parts {
		p = strings.ToLower(p)
		p = strings.TrimSpace(p)
		parts[i] = strings.ReplaceAll(p, "\r\n", "\n")
	}
	return strings.Join(parts, "\n")
}

// Hash returns the sha256 of the normalized question as a hex string.
// Cosmetic edits (whitespace, casing) keep the same identity; a change to
// the prompt, answer or topic text produces a new question.
func Hash(q domain.Question) string {
	sum := sha256.Sum256([]byte(Normalize(q)))
	return hex.EncodeToString(sum[:])
}
