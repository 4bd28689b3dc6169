package grid

import (
	"encoding/json"
	"testing"
)

func TestResolveNestedPath(t *testing.T) {
	rec := Record{
		"pk": float64(7),
		"part_detail": map[string]any{
			"name":     "M3 Bolt",
			"supplier": map[string]any{"code": "ACME"},
		},
	}
	if got := Resolve(rec, "part_detail.name"); got != "M3 Bolt" {
		t.Fatalf("expected nested value, got %v", got)
	}
	if got := Resolve(rec, "part_detail.supplier.code"); got != "ACME" {
		t.Fatalf("expected deep value, got %v", got)
	}
	if got := Resolve(rec, "pk"); got != float64(7) {
		t.Fatalf("expected top-level value, got %v", got)
	}
}

func TestResolveMissingSegmentsYieldNil(t *testing.T) {
	rec := Record{"part_detail": map[string]any{"name": "M3 Bolt"}, "quantity": float64(5)}
	cases := []string{
		"part_detail.missing",
		"missing.name",
		"quantity.inner", // non-map intermediate
		"",
	}
	for _, path := range cases {
		if got := Resolve(rec, path); got != nil {
			t.Fatalf("path %q: expected nil, got %v", path, got)
		}
	}
	if got := Resolve(nil, "anything"); got != nil {
		t.Fatalf("nil record: expected nil, got %v", got)
	}
}

func TestAsInt64Coercions(t *testing.T) {
	if v, ok := AsInt64(float64(42)); !ok || v != 42 {
		t.Fatalf("float64: got %v %v", v, ok)
	}
	if v, ok := AsInt64(int(7)); !ok || v != 7 {
		t.Fatalf("int: got %v %v", v, ok)
	}
	if v, ok := AsInt64(json.Number("13")); !ok || v != 13 {
		t.Fatalf("json.Number: got %v %v", v, ok)
	}
	if _, ok := AsInt64("42"); ok {
		t.Fatalf("string should not coerce")
	}
	if _, ok := AsInt64(nil); ok {
		t.Fatalf("nil should not coerce")
	}
}

func TestAsFloatCoercions(t *testing.T) {
	if v, ok := AsFloat(float64(2.5)); !ok || v != 2.5 {
		t.Fatalf("float64: got %v %v", v, ok)
	}
	if v, ok := AsFloat(int64(4)); !ok || v != 4 {
		t.Fatalf("int64: got %v %v", v, ok)
	}
	if _, ok := AsFloat("2.5"); ok {
		t.Fatalf("string should not coerce")
	}
}
