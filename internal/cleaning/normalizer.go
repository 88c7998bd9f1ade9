package cleaning

import (
	"errors"
	"strings"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
)

// ErrInvalidType reports a preference container that is neither a token
// list nor a delimited string. The whole record is skipped for it.
var ErrInvalidType = errors.New("preferences value is neither a list nor a string")

// Rewrite rules applied during normalization. Both source codes are legal
// input (never flagged as unmapped) but are always rewritten; each rewrite
// is an audited Modified event.
var rewrites = map[string]string{
	"D":  "DA",
	"KA": "K",
}

// Event is one audit-worthy observation made while normalizing a single
// preference container.
type Event struct {
	Action  string
	Reason  string
	Details string
}

// Normalizer maps raw preference tokens onto the canonical vocabulary. It is
// a pure function over its input; audit observations are returned to the
// caller rather than logged directly.
type Normalizer struct {
	vocabulary map[string]string
}

// NewNormalizer builds a Normalizer. A nil vocabulary selects
// DefaultVocabulary.
func NewNormalizer(vocabulary map[string]string) *Normalizer {
	if vocabulary == nil {
		vocabulary = DefaultVocabulary
	}
	return &Normalizer{vocabulary: vocabulary}
}

// Normalize coerces a raw preference container into a deduplicated,
// order-preserving list of canonical codes plus their translations.
//
// Unknown codes are flagged but retained, translating to the empty string.
// An empty result means the record should be skipped, not written. A
// container of the wrong type returns ErrInvalidType.
func (n *Normalizer) Normalize(raw any) (codes, translated []string, events []Event, err error) {
	tokens, err := coerceTokens(raw)
	if err != nil {
		return nil, nil, nil, err
	}

	var normalized []string
	for _, tok := range tokens {
		tok = strings.ToUpper(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		if _, known := n.vocabulary[tok]; !known {
			if _, alias := rewrites[tok]; !alias {
				events = append(events, Event{
					Action:  models.ActionFlagged,
					Reason:  models.ReasonUnmappedPref,
					Details: "Preference: " + tok,
				})
			}
		}
		if target, ok := rewrites[tok]; ok {
			events = append(events, Event{
				Action:  models.ActionModified,
				Reason:  models.ReasonNormalizedPref,
				Details: tok + " -> " + target,
			})
			tok = target
		}
		normalized = append(normalized, tok)
	}

	seen := make(map[string]struct{}, len(normalized))
	for _, tok := range normalized {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		codes = append(codes, tok)
		translated = append(translated, n.vocabulary[tok])
	}
	return codes, translated, events, nil
}

// coerceTokens turns the raw container into a token slice: nil becomes
// empty, strings split on commas, lists are taken as-is. Anything else,
// including a list holding non-string elements, is an invalid type.
func coerceTokens(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		parts := strings.Split(v, ",")
		tokens := make([]string, 0, len(parts))
		for _, p := range parts {
			tokens = append(tokens, strings.TrimSpace(p))
		}
		return tokens, nil
	case []string:
		return v, nil
	case []any:
		tokens := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, ErrInvalidType
			}
			tokens = append(tokens, s)
		}
		return tokens, nil
	default:
		return nil, ErrInvalidType
	}
}
