package cleaning

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
)

func TestNormalizeRewritesAndDeduplicates(t *testing.T) {
	n := NewNormalizer(nil)

	// "D" rewrites to "DA" and then collapses into the existing "DA".
	codes, translated, events, err := n.Normalize([]any{"A", "D", "DA"})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if !reflect.DeepEqual(codes, []string{"A", "DA"}) {
		t.Fatalf("codes = %v, want [A DA]", codes)
	}
	if !reflect.DeepEqual(translated, []string{"Full Gym", "Dumbbells"}) {
		t.Fatalf("translated = %v, want [Full Gym Dumbbells]", translated)
	}
	if len(events) != 1 {
		t.Fatalf("events = %v, want exactly one rewrite event", events)
	}
	if events[0].Action != models.ActionModified || events[0].Details != "D -> DA" {
		t.Fatalf("event = %+v, want Modified D -> DA", events[0])
	}
}

func TestNormalizeKettlebellAlias(t *testing.T) {
	n := NewNormalizer(nil)

	codes, translated, events, err := n.Normalize([]any{"KA"})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if !reflect.DeepEqual(codes, []string{"K"}) {
		t.Fatalf("codes = %v, want [K]", codes)
	}
	if !reflect.DeepEqual(translated, []string{"Kettlebells"}) {
		t.Fatalf("translated = %v, want [Kettlebells]", translated)
	}
	if len(events) != 1 || events[0].Details != "KA -> K" {
		t.Fatalf("events = %v, want one KA -> K rewrite", events)
	}
}

func TestNormalizeUnmappedCodeRetained(t *testing.T) {
	n := NewNormalizer(nil)

	codes, translated, events, err := n.Normalize([]any{"Z"})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if !reflect.DeepEqual(codes, []string{"Z"}) {
		t.Fatalf("codes = %v, want [Z]", codes)
	}
	if !reflect.DeepEqual(translated, []string{""}) {
		t.Fatalf("translated = %v, want one empty translation", translated)
	}
	if len(events) != 1 || events[0].Action != models.ActionFlagged || events[0].Reason != models.ReasonUnmappedPref {
		t.Fatalf("events = %v, want one unmapped-preference flag", events)
	}
}

func TestNormalizeDelimitedString(t *testing.T) {
	n := NewNormalizer(nil)

	codes, _, _, err := n.Normalize("a, d , ,n")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if !reflect.DeepEqual(codes, []string{"A", "DA", "N"}) {
		t.Fatalf("codes = %v, want [A DA N]", codes)
	}
}

func TestNormalizeEmptyResult(t *testing.T) {
	n := NewNormalizer(nil)

	for _, raw := range []any{nil, "", " , ", []any{}} {
		codes, _, _, err := n.Normalize(raw)
		if err != nil {
			t.Fatalf("Normalize(%v) returned error: %v", raw, err)
		}
		if len(codes) != 0 {
			t.Fatalf("Normalize(%v) codes = %v, want none", raw, codes)
		}
	}
}

func TestNormalizeInvalidType(t *testing.T) {
	n := NewNormalizer(nil)

	for _, raw := range []any{42, map[string]any{"a": true}, []any{"A", 7}} {
		if _, _, _, err := n.Normalize(raw); !errors.Is(err, ErrInvalidType) {
			t.Fatalf("Normalize(%v) error = %v, want ErrInvalidType", raw, err)
		}
	}
}
