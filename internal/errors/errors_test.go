package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestIsCoreClassification(t *testing.T) {
	root := stdErrors.New("root")
	wrapped := fmt.Errorf("adding context: %w", root)
	pe := NewParseError("cursor.readTagHeader", wrapped)
	if !IsCore(pe) {
		t.Fatalf("expected IsCore=true for parse error")
	}
	if !stdErrors.Is(pe, root) {
		t.Fatalf("expected errors.Is to find root cause")
	}
	var p *ParseError
	if !stdErrors.As(pe, &p) {
		t.Fatalf("expected errors.As to *ParseError")
	}
	if p.Op != "cursor.readTagHeader" {
		t.Fatalf("unexpected op: %s", p.Op)
	}

	be := NewBoundsError("slice.sub", nil)
	if !IsCore(be) {
		t.Fatalf("expected bounds error classified as core")
	}
	re := NewResourceError("preload.DefineSound", nil)
	if !IsCore(re) {
		t.Fatalf("expected resource error classified as core")
	}
	mc := NewMissingCharacter("place.resolve", 42)
	if !IsCore(mc) {
		t.Fatalf("expected missing character classified as core")
	}
	mt := NewMissingTarget("cxform.apply", 7, "button")
	if !IsCore(mt) {
		t.Fatalf("expected missing target classified as core")
	}
}

func TestUnwrapChains(t *testing.T) {
	base := stdErrors.New("unexpected EOF")
	l1 := fmt.Errorf("read tag payload: %w", base)
	l2 := NewParseError("cursor.payload", l1)
	if !stdErrors.Is(l2, base) {
		t.Fatalf("errors.Is should reach base cause")
	}
	var cm coreMarker
	if !stdErrors.As(l2, &cm) {
		t.Fatalf("expected to match coreMarker via As")
	}
}

func TestNilSafety(t *testing.T) {
	if IsCore(nil) {
		t.Fatalf("nil should not be core error")
	}
}

func TestConstructorWithoutCause(t *testing.T) {
	pe := NewParseError("preload.scan", nil)
	if pe == nil {
		t.Fatalf("constructor returned nil")
	}
	if errStr := pe.Error(); errStr == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestErrorStrings(t *testing.T) {
	if s := NewParseError("op1", nil).Error(); s == "" {
		t.Fatalf("empty parse error string")
	}
	if s := NewBoundsError("op2", nil).Error(); s == "" {
		t.Fatalf("empty bounds error string")
	}
	if s := NewResourceError("op3", nil).Error(); s == "" {
		t.Fatalf("empty resource error string")
	}
	mc := &MissingCharacter{Op: "place", CharacterID: 9}
	if s := mc.Error(); s == "" {
		t.Fatalf("empty missing character string")
	}
	mt := &MissingTarget{Op: "cxform", CharacterID: 3}
	if s := mt.Error(); s == "" {
		t.Fatalf("empty missing target string (no want)")
	}
	mtWant := &MissingTarget{Op: "cxform", CharacterID: 3, Want: "button"}
	if s := mtWant.Error(); s == "" {
		t.Fatalf("empty missing target string (with want)")
	}
}

func TestNegativePredicates(t *testing.T) {
	if IsCore(stdErrors.New("plain")) {
		t.Fatalf("plain error shouldn't be core")
	}
}
