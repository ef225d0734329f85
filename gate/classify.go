package gate

import (
	"github.com/hupe1980/turnmesh/config"
	"github.com/hupe1980/turnmesh/internal/textutil"
)

// Answer is the total classification of a user reply to an awaiting gate.
// Every input lands in exactly one class.
type Answer int

const (
	// AnswerUnclear means the reply matched no vocabulary; the gate stays
	// awaiting and the user is re-prompted.
	AnswerUnclear Answer = iota
	// AnswerYes confirms the pending question.
	AnswerYes
	// AnswerNo declines the pending question.
	AnswerNo
	// AnswerCancel aborts the interrupted flow entirely.
	AnswerCancel
)

// String returns the lower-case class name.
func (a Answer) String() string {
	switch a {
	case AnswerYes:
		return "yes"
	case AnswerNo:
		return "no"
	case AnswerCancel:
		return "cancel"
	default:
		return "unclear"
	}
}

// Classify folds the raw reply (trim, punctuation strip, lower-case) and
// matches it against the three token vocabularies, exact token or
// token-plus-space prefix. Cancel is checked before no and yes so an
// explicit abort always wins. The boundary rule lives in
// textutil.HasTokenPrefix and is a compatibility contract, not a tunable.
func Classify(cfg *config.Config, raw string) Answer {
	text := textutil.Fold(raw)
	if text == "" {
		return AnswerUnclear
	}
	for _, tok := range cfg.CancelTokens {
		if textutil.HasTokenPrefix(text, tok) {
			return AnswerCancel
		}
	}
	for _, tok := range cfg.NoTokens {
		if textutil.HasTokenPrefix(text, tok) {
			return AnswerNo
		}
	}
	for _, tok := range cfg.YesTokens {
		if textutil.HasTokenPrefix(text, tok) {
			return AnswerYes
		}
	}
	return AnswerUnclear
}
