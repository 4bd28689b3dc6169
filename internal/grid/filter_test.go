package grid

import (
	"net/url"
	"strings"
	"testing"
)

func testFilters() *FilterSet {
	return NewFilterSet(
		Filter{Name: "received", Label: "Received"},
		Filter{Name: "include_variants", Label: "Include Variants"},
	)
}

func TestFilterSetAndClear(t *testing.T) {
	s := testFilters()
	if err := s.Set("received", "true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	active := s.Active()
	if len(active) != 1 || active[0].Name != "received" {
		t.Fatalf("unexpected active filters: %v", active)
	}

	s.Clear("received")
	if len(s.Active()) != 0 {
		t.Fatalf("expected no active filters after clear")
	}
}

func TestFilterSetRejectsUnknownWithHint(t *testing.T) {
	s := testFilters()
	err := s.Set("recieved", "true")
	if err == nil {
		t.Fatalf("expected error for unknown filter")
	}
	if !strings.Contains(err.Error(), `"received"`) {
		t.Fatalf("expected nearest-name hint, got %v", err)
	}
	if len(s.Active()) != 0 {
		t.Fatalf("rejected set must not activate anything")
	}

	err = s.Set("completely_different", "true")
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("distant name should get no hint, got %v", err)
	}
}

func TestFilterSetDuplicateDeclarationOverwrites(t *testing.T) {
	s := NewFilterSet(
		Filter{Name: "received", Label: "First"},
		Filter{Name: "received", Label: "Second"},
	)
	if len(s.Filters()) != 1 {
		t.Fatalf("duplicate names must collapse, got %d filters", len(s.Filters()))
	}
	f, _ := s.Get("received")
	if f.Label != "Second" {
		t.Fatalf("later declaration should win, got %q", f.Label)
	}
}

func TestFilterQueryParameters(t *testing.T) {
	s := testFilters()
	if err := s.Set("received", "true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	q := url.Values{}
	s.Query(q)
	if q.Get("received") != "true" {
		t.Fatalf("expected received=true, got %q", q.Get("received"))
	}
	if _, ok := q["include_variants"]; ok {
		t.Fatalf("inactive filter must not appear in query")
	}
}

func TestFilterClearAll(t *testing.T) {
	s := testFilters()
	_ = s.Set("received", "true")
	_ = s.Set("include_variants", "false")
	s.ClearAll()
	if len(s.Active()) != 0 {
		t.Fatalf("expected empty active set")
	}
}
