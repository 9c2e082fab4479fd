package model_test

import (
	"testing"

	"github.com/pocketdoc/pocketdoc/model"
)

func TestFieldPathBasics(t *testing.T) {
	p := model.MustFieldPath("a", "b", "c")

	if p.Len() != 3 {
		t.Fatalf("Len = %d, want 3", p.Len())
	}
	if p.First() != "a" || p.Segment(1) != "b" || p.Last() != "c" {
		t.Errorf("unexpected segments in %v", p)
	}

	popped := p.PopFirst()
	if popped.Len() != 2 || popped.First() != "b" {
		t.Errorf("PopFirst = %v", popped)
	}
	// The original is untouched.
	if p.Len() != 3 || p.First() != "a" {
		t.Errorf("PopFirst mutated the receiver: %v", p)
	}

	appended := popped.Append("d")
	if appended.CanonicalString() != "b.c.d" {
		t.Errorf("Append = %v", appended)
	}
	if popped.Len() != 2 {
		t.Errorf("Append mutated the receiver: %v", popped)
	}
}

func TestFieldPathPrefix(t *testing.T) {
	a := model.MustFieldPath("a")
	ab := model.MustFieldPath("a", "b")
	ac := model.MustFieldPath("a", "c")

	if !a.IsPrefixOf(ab) {
		t.Error("a should prefix a.b")
	}
	if !ab.IsPrefixOf(ab) {
		t.Error("a path should prefix itself")
	}
	if ab.IsPrefixOf(a) {
		t.Error("a.b should not prefix a")
	}
	if ab.IsPrefixOf(ac) {
		t.Error("a.b should not prefix a.c")
	}
}

func TestFieldPathCanonicalString(t *testing.T) {
	tests := []struct {
		segments []string
		want     string
	}{
		{[]string{"a", "b"}, "a.b"},
		{[]string{"a.b"}, "`a.b`"},
		{[]string{"we`ird"}, "`we``ird`"},
		{[]string{"plain", "dot.ted"}, "plain.`dot.ted`"},
	}
	for _, tt := range tests {
		p := model.MustFieldPath(tt.segments...)
		got := p.CanonicalString()
		if got != tt.want {
			t.Errorf("CanonicalString(%q) = %q, want %q", tt.segments, got, tt.want)
		}

		parsed, err := model.ParseFieldPath(got)
		if err != nil {
			t.Fatalf("ParseFieldPath(%q): %v", got, err)
		}
		if !parsed.Equal(p) {
			t.Errorf("round trip of %q gave %v", got, parsed)
		}
	}
}

func TestFieldPathValidation(t *testing.T) {
	if _, err := model.NewFieldPath("a", ""); err == nil {
		t.Error("empty segment accepted")
	}
	if _, err := model.ParseFieldPath(""); err == nil {
		t.Error("empty path accepted")
	}
	if _, err := model.ParseFieldPath("a..b"); err == nil {
		t.Error("empty middle segment accepted")
	}
	if _, err := model.ParseFieldPath("`open"); err == nil {
		t.Error("unterminated backtick accepted")
	}
}

func TestFieldPathKeyField(t *testing.T) {
	if !model.KeyFieldPath().IsKeyField() {
		t.Error("KeyFieldPath should be the key field")
	}
	if model.MustFieldPath("__name__", "x").IsKeyField() {
		t.Error("multi-segment path should not be the key field")
	}
	if model.MustFieldPath("name").IsKeyField() {
		t.Error("ordinary segment should not be the key field")
	}
}
