// Package format renders transpile failures and trace records for the
// command line.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/typestripped/strip"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(err *strip.ParseError) error
}

// New returns the encoder registered under name, "text" or "json".
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "", "text":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q", name)
}
