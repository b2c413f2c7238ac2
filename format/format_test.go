package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/typestripped/strip"
)

func parseError(t *testing.T, source string) *strip.ParseError {
	t.Helper()
	_, err := strip.Transpile(source, strip.WithFile("a.ts"))
	var perr *strip.ParseError
	require.True(t, errors.As(err, &perr), "got %v", err)
	return perr
}

func TestLineEncoder(t *testing.T) {
	perr := parseError(t, "let = 5;")
	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf).Encode(perr))

	line := strings.SplitN(buf.String(), "\n", 2)[0]
	fields := strings.Split(line, "\t")
	require.Len(t, fields, 3)
	assert.Equal(t, "a.ts:1:5", fields[0])
	assert.Equal(t, "VarDecl", fields[1])
	assert.Equal(t, perr.Error(), fields[2])
}

func TestJSONEncoder(t *testing.T) {
	perr := parseError(t, "let a = 1;\nlet b = ;")
	var buf bytes.Buffer
	require.NoError(t, NewJSONEncoder(&buf).Encode(perr))

	var got jsonError
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "a.ts", got.File)
	assert.Equal(t, 2, got.Line)
	assert.Equal(t, 9, got.Column)
	assert.Equal(t, perr.Rule, got.Rule)
	assert.Equal(t, perr.Expected, got.Expected)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	enc, err := New("json", &buf)
	require.NoError(t, err)
	assert.IsType(t, &JSONEncoder{}, enc)

	enc, err = New("", &buf)
	require.NoError(t, err)
	assert.IsType(t, &LineEncoder{}, enc)

	_, err = New("xml", &buf)
	assert.Error(t, err)
}

func TestMarshalTextBeforeEncode(t *testing.T) {
	for _, enc := range []Encoder{NewLineEncoder(nil), NewJSONEncoder(nil)} {
		text, err := enc.MarshalText()
		require.NoError(t, err)
		assert.Empty(t, text)
	}
}

func TestLineEncoderMarshalText(t *testing.T) {
	perr := parseError(t, "let = 5;")
	var buf bytes.Buffer
	enc := NewLineEncoder(&buf)
	require.NoError(t, enc.Encode(perr))
	text, err := enc.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(text))
}

func TestTraceEncoder(t *testing.T) {
	var buf bytes.Buffer
	_, err := strip.Transpile("let x: T;", strip.WithTrace(NewTraceEncoder(&buf).Func()))
	require.NoError(t, err)
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, `1:1 eat "let " "let" in VarDecl <- Statement`, first)
}
