// Package routing implements the pure routing-signal heuristic. The computer
// inspects the effective query text and the upstream classification and
// reports whether the turn should target the data-query destination. It
// never mutates its inputs, is idempotent and safe to skip.
package routing

import (
	"fmt"
	"strings"

	"github.com/hupe1980/turnmesh/config"
	"github.com/hupe1980/turnmesh/core"
	"github.com/hupe1980/turnmesh/internal/textutil"
)

// SignalComputer evaluates strength-ordered routing checks against a turn.
// It holds only immutable configuration tables and is safe for concurrent
// use across conversations.
type SignalComputer struct {
	cfg *config.Config
}

// NewSignalComputer creates a computer over the given tables (defaults when
// nil).
func NewSignalComputer(cfg *config.Config) *SignalComputer {
	if cfg == nil {
		cfg = config.Default()
	}
	return &SignalComputer{cfg: cfg.Normalize()}
}

// Compute runs the checks strongest first; the first match wins, so no ties
// are possible:
//
//  1. command-style prefix at the start of the query (strong, lockable)
//  2. the query, or the token after a recognized prefix, equals a known
//     topic/collection name (strong, lockable)
//  3. classified intent "action" in an allow-listed domain with a
//     database-ish keyword anywhere (medium, non-lockable hint)
//  4. otherwise no opinion
func (sc *SignalComputer) Compute(state core.State, req core.Request) core.RoutingSignals {
	_ = state // reserved: the heuristic reads only the request today

	text := textutil.Fold(req.Query)
	if text == "" {
		return core.RoutingSignals{Key: core.SignalKeyNone}
	}

	first := textutil.FirstToken(text)
	if sc.isCommandPrefix(first) {
		return core.RoutingSignals{
			Target: core.RouteDataQuery,
			Locked: true,
			Key:    core.SignalKeyCommandPrefix,
			Reason: fmt.Sprintf("command prefix %q", first),
		}
	}

	if topic, ok := sc.topicMatch(text); ok {
		return core.RoutingSignals{
			Target: core.RouteDataQuery,
			Locked: true,
			Key:    core.SignalKeyTopicMatch,
			Reason: fmt.Sprintf("topic %q", topic),
		}
	}

	if sc.intentHint(text, req.Classification) {
		return core.RoutingSignals{
			Target: core.RouteDataQuery,
			Locked: false,
			Key:    core.SignalKeyIntentHint,
			Reason: fmt.Sprintf("action intent in domain %q", core.NormalizeName(req.Classification.Domain)),
		}
	}

	return core.RoutingSignals{Key: core.SignalKeyNone}
}

// isCommandPrefix reports whether token is one of the recognized
// command-style leading words.
func (sc *SignalComputer) isCommandPrefix(token string) bool {
	for _, prefix := range sc.cfg.CommandPrefixes {
		if token == prefix {
			return true
		}
	}
	return false
}

// topicMatch reports whether the whole text, or the token after a recognized
// command prefix, names a known topic/collection.
func (sc *SignalComputer) topicMatch(text string) (string, bool) {
	candidates := []string{text}
	if sc.isCommandPrefix(textutil.FirstToken(text)) {
		candidates = append(candidates, textutil.TokenAfter(text))
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		for _, topic := range sc.cfg.Topics {
			if candidate == topic {
				return topic, true
			}
		}
	}
	return "", false
}

// intentHint checks the medium-strength signal: an externally classified
// action intent in an allow-listed domain plus a generic database-ish
// keyword anywhere in the text.
func (sc *SignalComputer) intentHint(text string, cls core.Classification) bool {
	if core.NormalizeName(cls.Intent) != "action" {
		return false
	}
	domain := core.NormalizeName(cls.Domain)
	allowed := false
	for _, d := range sc.cfg.ActionDomains {
		if d == domain {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	for _, word := range strings.Fields(text) {
		for _, kw := range sc.cfg.DataKeywords {
			if word == kw {
				return true
			}
		}
	}
	return false
}
