package strip

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSyntax is the kind of every parse failure.
	ErrSyntax = errors.New("syntax error")
	// ErrTrailingInput is reported when the top level stops before the end
	// of the input.
	ErrTrailingInput = errors.New("trailing input")
	// ErrLineCountGrowth is reported when an output rewrite would add lines.
	ErrLineCountGrowth = errors.New("replacement adds lines")
)

// Position is a location in the source text. Offset is in bytes, Line and
// Column are 1-based and Column counts runes.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ParseError describes a failed rule.
type ParseError struct {
	// Rule is the innermost grammar rule active at the failure, or
	// "top-level".
	Rule string
	Pos  Position
	// Excerpt holds the next few characters of unconsumed input.
	Excerpt string
	// Expected lists the atoms and sequences tried at Pos, sorted.
	Expected []string
	// Attempts are the failures of speculative parses tried at Pos.
	Attempts []*ParseError

	kind error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("could not parse %s at %s, got %q[..]", e.Rule, e.Pos, e.Excerpt)
	if len(e.Expected) > 0 {
		msg += ", expected one of: " + strings.Join(e.Expected, " ")
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.kind == ErrTrailingInput {
		return []error{ErrTrailingInput, ErrSyntax}
	}
	return []error{ErrSyntax}
}

// Details renders the error followed by its nested attempts, indented.
func (e *ParseError) Details() string {
	var b strings.Builder
	e.details(&b, 0)
	return b.String()
}

func (e *ParseError) details(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(e.Error())
	b.WriteByte('\n')
	for _, a := range e.Attempts {
		a.details(b, depth+1)
	}
}

// abort carries a non-syntax error out of the grammar to Transpile.
type abort struct {
	err error
}
