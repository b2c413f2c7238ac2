package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/typestripped/strip"
)

// LineEncoder writes one tab-separated line per failure: position, rule
// and message, followed by the failed attempts indented by a tab each.
type LineEncoder struct {
	w   io.Writer
	err *strip.ParseError
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(err *strip.ParseError) error {
	e.err = err
	text, merr := e.MarshalText()
	if merr != nil {
		return merr
	}
	_, werr := e.w.Write(text)
	return werr
}

// MarshalText renders the last encoded failure, or nothing before the
// first Encode.
func (e *LineEncoder) MarshalText() ([]byte, error) {
	if e.err == nil {
		return nil, nil
	}
	var sb strings.Builder
	writeLine(&sb, e.err, 0)
	return []byte(sb.String()), nil
}

func writeLine(sb *strings.Builder, err *strip.ParseError, depth int) {
	fmt.Fprintf(sb, "%s%s\t%s\t%s\n", strings.Repeat("\t", depth), err.Pos, err.Rule, err)
	for _, a := range err.Attempts {
		writeLine(sb, a, depth+1)
	}
}

// TraceEncoder writes trace records, one per line.
type TraceEncoder struct {
	w io.Writer
}

func NewTraceEncoder(w io.Writer) *TraceEncoder {
	return &TraceEncoder{w: w}
}

func (e *TraceEncoder) Encode(rec strip.TraceRecord) error {
	_, err := fmt.Fprintln(e.w, rec)
	return err
}

// Func adapts the encoder to strip.WithTrace. Write errors are dropped.
func (e *TraceEncoder) Func() strip.TraceFunc {
	return func(rec strip.TraceRecord) {
		_ = e.Encode(rec)
	}
}
