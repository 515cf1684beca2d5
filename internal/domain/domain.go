package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Word is one learnable vocabulary item. Words are owned by the corpus and
// never mutated by the challenge flow.
type Word struct {
	// Key is the corpus key, "Word<N>" with N a 1-based index.
	Key string
	// Translations maps a language code to the word's text in that language.
	Translations map[string]string
}

// Profile is the per-user learning profile.
type Profile struct {
	UserID string
	// ForLang is the language the user is currently learning.
	ForLang string
	// Seen maps a language code to the word keys already shown to the user,
	// in order of first appearance. Append-only.
	Seen map[string][]string
}

// Challenge is one quiz attempt. End fields stay nil until the challenge
// is finished.
type Challenge struct {
	ChallengeID string
	UserID      string
	StartTime   time.Time
	EndTime     *time.Time
	Correct     *int32
	Incorrect   *int32
	Score       *decimal.Decimal
}

// Finished reports whether the challenge has been closed.
func (c Challenge) Finished() bool {
	return c.EndTime != nil
}
