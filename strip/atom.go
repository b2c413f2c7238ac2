package strip

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Atom is a single token definition. Atoms only ever match anchored at the
// offset they are given; they never search forward.
type Atom interface {
	// matchAt returns the byte length of the match starting exactly at pos.
	matchAt(src string, pos int) (int, bool)
	String() string
}

// Lit is an exact literal: a keyword or a piece of punctuation.
//
// A literal that ends in an identifier character does not match when the
// source character that follows is also an identifier character, so "in"
// never matches the start of "index".
type Lit string

func (l Lit) matchAt(src string, pos int) (int, bool) {
	s := string(l)
	if !strings.HasPrefix(src[pos:], s) {
		return 0, false
	}
	end := pos + len(s)
	if isIdentByte(s[len(s)-1]) && end < len(src) && isIdentByte(src[end]) {
		return 0, false
	}
	return len(s), true
}

func (l Lit) String() string {
	return strconv.Quote(string(l))
}

// Raw wraps an atom whose trailing whitespace must not be consumed, as is the
// case inside template strings where whitespace and "//" are content.
type Raw struct {
	Atom
}

// Pattern is a named token class, matched either by an anchored regular
// expression or by a hand-written scanner.
type Pattern struct {
	name string
	re   *regexp.Regexp
	scan func(src string, pos int) (int, bool)
}

func (p *Pattern) matchAt(src string, pos int) (int, bool) {
	if p.scan != nil {
		return p.scan(src, pos)
	}
	loc := p.re.FindStringIndex(src[pos:])
	if loc == nil || loc[1] == 0 {
		return 0, false
	}
	return loc[1], true
}

func (p *Pattern) String() string {
	return "<" + p.name + ">"
}

func regexpPattern(name, expr string) *Pattern {
	return &Pattern{name: name, re: regexp.MustCompile(`^(?:` + expr + `)`)}
}

func scanPattern(name string, scan func(src string, pos int) (int, bool)) *Pattern {
	return &Pattern{name: name, scan: scan}
}

var (
	whitespace = regexpPattern("whitespace",
		`(?:[\s\v\x{00A0}\x{FEFF}\x{2028}\x{2029}]|//[^\n]*|/\*(?s:.*?)\*/)+`)
	identifier = regexpPattern("identifier",
		`#?[\p{L}_$][\p{L}\p{N}_$]*`)
	stringLiteral = scanPattern("string", scanString)
	number        = regexpPattern("number",
		`[+-]?(?:0[xX][0-9a-fA-F_]+|0[oO][0-7_]+|0[bB][01_]+|(?:\d[\d_]*(?:\.\d[\d_]*)?|\.\d[\d_]*)(?:[eE][+-]?\d+)?)n?`)
	binaryOperator = regexpPattern("bin-op",
		`instanceof\b|in\b|[!=]==|\*\*=?|\?\?=?|\|\|=?|&&=?|>>>=?|>>=?|<<=?|[+\-*/%&|^!=<>]=|[+\-*/%&|^=<>]`)
	templateSegment = scanPattern("`string`", scanTemplateSegment)
	prefixOperator  = regexpPattern("pre-op",
		`\+\+|--|!|~|\+|-|typeof\b|delete\b|await\b|void\b`)
	regexpLiteral = scanPattern("regexp", scanRegexp)
	anything      = scanPattern("anything", scanRune)
)

// scanString matches a single or double quoted string. Backslash escapes
// any character but a line break; an unescaped line break ends the match
// unsuccessfully.
func scanString(src string, pos int) (int, bool) {
	if pos >= len(src) || (src[pos] != '"' && src[pos] != '\'') {
		return 0, false
	}
	quote := src[pos]
	for i := pos + 1; i < len(src); i++ {
		switch c := src[i]; c {
		case '\\':
			if i+1 >= len(src) || src[i+1] == '\n' || src[i+1] == '\r' {
				return 0, false
			}
			i++
		case '\n', '\r':
			return 0, false
		case quote:
			return i + 1 - pos, true
		}
	}
	return 0, false
}

// scanTemplateSegment matches raw template text up to and including the
// next interpolation opener or the closing backtick.
func scanTemplateSegment(src string, pos int) (int, bool) {
	for i := pos; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '`':
			return i + 1 - pos, true
		case '$':
			if i+1 < len(src) && src[i+1] == '{' {
				return i + 2 - pos, true
			}
		}
	}
	return 0, false
}

// scanRegexp matches a regular expression literal including its flags.
func scanRegexp(src string, pos int) (int, bool) {
	if pos+1 >= len(src) || src[pos] != '/' || src[pos+1] == '/' || src[pos+1] == '*' {
		return 0, false
	}
	inClass := false
	i := pos + 1
	for ; i < len(src); i++ {
		c := src[i]
		if c == '\n' || c == '\r' {
			return 0, false
		}
		if c == '\\' {
			if i+1 >= len(src) || src[i+1] == '\n' {
				return 0, false
			}
			i++
			continue
		}
		if c == '[' {
			inClass = true
		} else if c == ']' {
			inClass = false
		} else if c == '/' && !inClass {
			break
		}
	}
	if i >= len(src) || i == pos+1 {
		return 0, false
	}
	i++
	for i < len(src) && strings.IndexByte("dgimsuvy", src[i]) >= 0 {
		i++
	}
	return i - pos, true
}

func scanRune(src string, pos int) (int, bool) {
	if pos >= len(src) {
		return 0, false
	}
	_, size := utf8.DecodeRuneInString(src[pos:])
	return size, true
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func isJSSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// blankOut replaces every non-whitespace rune by a single space, keeping
// line breaks and the rune count intact.
func blankOut(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isJSSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func describe(atoms []Atom) string {
	if len(atoms) == 1 {
		return describeAtom(atoms[0])
	}
	parts := make([]string, len(atoms))
	for i, a := range atoms {
		parts[i] = describeAtom(a)
	}
	return strings.Join(parts, " + ")
}

func describeAtom(a Atom) string {
	if r, ok := a.(Raw); ok {
		return r.Atom.String()
	}
	return a.String()
}

func lits(words []string) []Atom {
	atoms := make([]Atom, len(words))
	for i, w := range words {
		atoms[i] = Lit(w)
	}
	return atoms
}
