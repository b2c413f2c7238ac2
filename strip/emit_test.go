package strip

import (
	"errors"
	"testing"
)

func TestEmitterRestoreUndoesEdits(t *testing.T) {
	var e emitter
	e.append("hello world")
	cp := &checkpoint{outLen: 5}
	e.live = append(e.live, cp)
	e.append("!!")
	e.replace(0, 5, "HI")
	if got := e.String(); got != "HI world!!" {
		t.Fatalf("after replace: got %q", got)
	}
	e.restore(cp)
	if got := e.String(); got != "hello" {
		t.Errorf("after restore: got %q, want %q", got, "hello")
	}
}

func TestEmitterEditsAboveMarkAreNotJournaled(t *testing.T) {
	var e emitter
	e.append("abc")
	cp := &checkpoint{outLen: 3}
	e.live = append(e.live, cp)
	e.append("def")
	e.replace(3, 6, "xy")
	if len(cp.patches) != 0 {
		t.Errorf("got %d patches, want 0", len(cp.patches))
	}
	e.restore(cp)
	if got := e.String(); got != "abc" {
		t.Errorf("got %q, want %q", got, "abc")
	}
}

func TestEmitterNestedCheckpoints(t *testing.T) {
	var e emitter
	e.append("0123")
	outer := &checkpoint{outLen: 4}
	e.live = append(e.live, outer)
	e.append("45")
	inner := &checkpoint{outLen: 6}
	e.live = append(e.live, inner)
	e.replace(2, 6, "x")
	e.restore(inner)
	e.live = e.live[:1]
	if got := e.String(); got != "012345" {
		t.Fatalf("after inner restore: got %q", got)
	}
	e.replace(1, 2, "y")
	e.restore(outer)
	if got := e.String(); got != "0123" {
		t.Errorf("after outer restore: got %q", got)
	}
}

func TestReplaceOutputKeepsLines(t *testing.T) {
	tests := []struct {
		name     string
		emitted  string
		text     string
		expected string
	}{
		{"same line", "enum E { ", "var E = {", "var E = {"},
		{"keeps line breaks and indentation", "A,\n  ", "x;", "x;\n  "},
		{"keeps trailing line break", "B\n", "y;", "y;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser("", buildOptions(nil))
			p.out.append("head ")
			p.out.append(tt.emitted)
			p.replaceOutput(5, tt.text)
			if got := p.out.String(); got != "head "+tt.expected {
				t.Errorf("got %q, want %q", got, "head "+tt.expected)
			}
		})
	}
}

func TestReplaceOutputRejectsNewLines(t *testing.T) {
	p := newParser("", buildOptions(nil))
	p.out.append("ab")
	defer func() {
		r := recover()
		a, ok := r.(abort)
		if !ok {
			t.Fatalf("got %v, want abort", r)
		}
		if !errors.Is(a.err, ErrLineCountGrowth) {
			t.Errorf("got %v, want ErrLineCountGrowth", a.err)
		}
	}()
	p.replaceOutput(0, "x\ny")
}
