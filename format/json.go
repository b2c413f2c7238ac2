package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/typestripped/strip"
)

type JSONEncoder struct {
	w   io.Writer
	err *strip.ParseError
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(err *strip.ParseError) error {
	e.err = err
	text, merr := e.MarshalText()
	if merr != nil {
		return merr
	}
	text = append(text, '\n')
	_, werr := e.w.Write(text)
	return werr
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	if e.err == nil {
		return nil, nil
	}
	return json.MarshalIndent(errorToJSON(e.err), "", "  ")
}

type jsonError struct {
	File     string       `json:"file,omitempty"`
	Line     int          `json:"line"`
	Column   int          `json:"column"`
	Offset   int          `json:"offset"`
	Rule     string       `json:"rule"`
	Got      string       `json:"got"`
	Expected []string     `json:"expected,omitempty"`
	Message  string       `json:"message"`
	Attempts []*jsonError `json:"attempts,omitempty"`
}

func errorToJSON(err *strip.ParseError) *jsonError {
	je := &jsonError{
		File:     err.Pos.File,
		Line:     err.Pos.Line,
		Column:   err.Pos.Column,
		Offset:   err.Pos.Offset,
		Rule:     err.Rule,
		Got:      err.Excerpt,
		Expected: err.Expected,
		Message:  err.Error(),
	}
	if len(err.Attempts) > 0 {
		je.Attempts = make([]*jsonError, len(err.Attempts))
		for i, a := range err.Attempts {
			je.Attempts[i] = errorToJSON(a)
		}
	}
	return je
}
