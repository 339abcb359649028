package records

import "testing"

func TestRecordString(t *testing.T) {
	r := Record{"a": "x", "b": nil, "n": 42}

	if got := r.String("a"); got != "x" {
		t.Errorf("String(a) = %q", got)
	}
	if got := r.String("b"); got != "" {
		t.Errorf("String(b) = %q, want empty for nil", got)
	}
	if got := r.String("missing"); got != "" {
		t.Errorf("String(missing) = %q, want empty", got)
	}
	if got := r.String("n"); got != "42" {
		t.Errorf("String(n) = %q", got)
	}
}

func TestRecordHas(t *testing.T) {
	r := Record{"a": "x", "b": nil}

	if !r.Has("a") {
		t.Error("Has(a) = false")
	}
	if r.Has("b") {
		t.Error("Has(b) = true for nil value")
	}
	if r.Has("missing") {
		t.Error("Has(missing) = true")
	}
}

func TestRecordClone(t *testing.T) {
	r := Record{"a": "x"}
	c := r.Clone()
	c["a"] = "y"

	if r.String("a") != "x" {
		t.Error("Clone shares storage with the original")
	}
}
