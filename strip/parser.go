package strip

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Parser holds the state of one Transpile call. It is not safe for
// concurrent use and is never reused.
type Parser struct {
	opts options
	src  string

	pos  int
	line int
	col  int
	out  emitter

	blank      int
	peeking    int
	attempting int

	memo        failureMemo
	postNewline bool
	stmtStart   int
	rules       []string
}

type failureMemo struct {
	expected []string
	attempts []*ParseError
}

func (m *failureMemo) expect(desc string) {
	m.expected = append(m.expected, desc)
}

// TraceRecord describes one matcher action. Rules lists the active grammar
// rules, outermost first.
type TraceRecord struct {
	Line   int
	Col    int
	Action string
	Text   string
	Atom   string
	Rules  []string
}

func (r TraceRecord) String() string {
	chain := make([]string, len(r.Rules))
	for i, name := range r.Rules {
		chain[len(r.Rules)-1-i] = name
	}
	return fmt.Sprintf("%d:%d %s %q %s in %s", r.Line, r.Col, r.Action, r.Text, r.Atom, strings.Join(chain, " <- "))
}

// Transpile converts TypeScript source to JavaScript by blanking out type
// syntax. The output has the same number of lines as the input and every
// kept token stays on its original line.
func Transpile(source string, opts ...Option) (out string, err error) {
	p := newParser(source, buildOptions(opts))
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch e := r.(type) {
		case *ParseError:
			err = e
		case abort:
			err = e.err
		default:
			panic(r)
		}
	}()
	p.parseMain()
	return p.out.String(), nil
}

func newParser(source string, opts options) *Parser {
	return &Parser{
		opts:        opts,
		src:         source,
		line:        1,
		col:         1,
		postNewline: true,
		out:         emitter{buf: make([]byte, 0, len(source)+len(source)/8)},
	}
}

func (p *Parser) parseMain() {
	p.take(whitespace)
	for p.recoverErrors(p.parseStatement) {
	}
	if p.pos < len(p.src) {
		panic(p.newError(ErrTrailingInput))
	}
}

// rule pushes name onto the rule stack and returns the matching pop.
func (p *Parser) rule(name string) func() {
	p.rules = append(p.rules, name)
	return p.popRule
}

func (p *Parser) popRule() {
	p.rules = p.rules[:len(p.rules)-1]
}

// scan matches atoms in sequence at the current offset, each followed by
// optional whitespace, without changing any state.
func (p *Parser) scan(atoms []Atom) (end int, last string, newline bool, ok bool) {
	pos := p.pos
	for _, a := range atoms {
		n, ok := a.matchAt(p.src, pos)
		if !ok {
			return 0, "", false, false
		}
		last = p.src[pos : pos+n]
		pos += n
		newline = false
		if _, raw := a.(Raw); raw {
			continue
		}
		if ws, ok := whitespace.matchAt(p.src, pos); ok {
			newline = strings.IndexByte(p.src[pos:pos+ws], '\n') >= 0
			pos += ws
		}
	}
	return pos, last, newline, true
}

// consume is the single entry point of the matcher. The returned text is
// the match of the last atom.
func (p *Parser) consume(atoms []Atom) (string, bool) {
	end, last, newline, ok := p.scan(atoms)
	if !ok {
		if p.peeking == 0 {
			p.memo.expect(describe(atoms))
		}
		return "", false
	}
	if p.peeking > 0 {
		return last, true
	}
	text := p.src[p.pos:end]
	p.memo = failureMemo{}
	p.postNewline = newline
	if p.blank > 0 {
		p.trace("skip", text, describe(atoms))
		p.out.append(blankOut(text))
	} else {
		p.trace("eat", text, describe(atoms))
		p.out.append(text)
	}
	p.advance(text)
	p.pos = end
	return last, true
}

func (p *Parser) advance(text string) {
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		p.line += strings.Count(text, "\n")
		p.col = utf8.RuneCountInString(text[i+1:]) + 1
		return
	}
	p.col += utf8.RuneCountInString(text)
}

func (p *Parser) eat(words ...string) bool {
	_, ok := p.consume(lits(words))
	return ok
}

func (p *Parser) eatSeq(atoms ...Atom) (string, bool) {
	return p.consume(atoms)
}

func (p *Parser) take(a Atom) (string, bool) {
	return p.consume([]Atom{a})
}

func (p *Parser) has(a Atom) bool {
	_, ok := p.consume([]Atom{a})
	return ok
}

func (p *Parser) skip(words ...string) bool {
	p.blank++
	ok := p.eat(words...)
	p.blank--
	return ok
}

func (p *Parser) skipTake(a Atom) (string, bool) {
	p.blank++
	text, ok := p.take(a)
	p.blank--
	return text, ok
}

// skipRule runs rule in blank mode. A failure raised by rule leaves the
// counter raised; recovery sites and attempt put it back.
func (p *Parser) skipRule(rule func() bool) bool {
	p.blank++
	ok := rule()
	p.blank--
	return ok
}

func (p *Parser) peek(words ...string) bool {
	return p.peekSeq(lits(words)...)
}

func (p *Parser) peekSeq(atoms ...Atom) bool {
	p.peeking++
	_, ok := p.consume(atoms)
	p.peeking--
	return ok
}

// modifierAhead reports whether word is next and is followed by something
// that can start a member name, which is what makes it a modifier rather
// than a name of its own.
func (p *Parser) modifierAhead(word string) bool {
	end, _, _, ok := p.scan([]Atom{Lit(word)})
	if !ok || end >= len(p.src) {
		return false
	}
	switch c := p.src[end]; {
	case isIdentByte(c), c == '#', c == '[', c == '*', c == '"', c == '\'':
		return true
	}
	return false
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.src)
}

func (p *Parser) fail() {
	panic(p.newError(ErrSyntax))
}

func (p *Parser) must(ok bool) {
	if !ok {
		p.fail()
	}
}

func (p *Parser) mustRule(rule func() bool) {
	if !rule() {
		p.fail()
	}
}

func (p *Parser) mustTake(a Atom) string {
	text, ok := p.take(a)
	if !ok {
		p.fail()
	}
	return text
}

func (p *Parser) mustSkipTake(a Atom) string {
	text, ok := p.skipTake(a)
	if !ok {
		p.fail()
	}
	return text
}

func (p *Parser) newError(kind error) *ParseError {
	rule := "top-level"
	if n := len(p.rules); n > 0 {
		rule = p.rules[n-1]
	}
	excerpt := p.src[p.pos:]
	runes := 0
	for i := range excerpt {
		if runes == 8 {
			excerpt = excerpt[:i]
			break
		}
		runes++
	}
	expected := slices.Clone(p.memo.expected)
	slices.Sort(expected)
	expected = slices.Compact(expected)
	return &ParseError{
		Rule:     rule,
		Pos:      Position{File: p.opts.file, Offset: p.pos, Line: p.line, Column: p.col},
		Excerpt:  excerpt,
		Expected: expected,
		Attempts: slices.Clone(p.memo.attempts),
		kind:     kind,
	}
}

func (p *Parser) trace(action, text, atom string) {
	if p.opts.trace == nil {
		return
	}
	p.opts.trace(TraceRecord{
		Line:   p.line,
		Col:    p.col,
		Action: action,
		Text:   text,
		Atom:   atom,
		Rules:  slices.Clone(p.rules),
	})
}

// replaceOutput substitutes everything emitted since at with text. The
// region keeps its line breaks: missing ones are appended, as is the
// indentation that ended the region. Adding lines is an error.
func (p *Parser) replaceOutput(at int, text string) {
	replaced := p.out.tail(at)
	have := strings.Count(replaced, "\n")
	want := strings.Count(text, "\n")
	if want > have {
		panic(abort{fmt.Errorf("%w: %d lines replaced by %d at %d:%d", ErrLineCountGrowth, have, want, p.line, p.col)})
	}
	var b strings.Builder
	b.WriteString(text)
	b.WriteString(strings.Repeat("\n", have-want))
	if last := replaced[strings.LastIndexByte(replaced, '\n')+1:]; strings.TrimSpace(last) == "" {
		b.WriteString(last)
	}
	p.trace("replace", text, "")
	p.out.replace(at, p.out.len(), b.String())
}

// insertOutput places text at an earlier output offset.
func (p *Parser) insertOutput(at int, text string) {
	if strings.Contains(text, "\n") {
		panic(abort{fmt.Errorf("%w: insertion at %d:%d", ErrLineCountGrowth, p.line, p.col)})
	}
	p.trace("replace", text, "")
	p.out.replace(at, at, text)
}

// wipeStatement blanks everything emitted for the current statement.
func (p *Parser) wipeStatement() {
	orig := p.out.tail(p.stmtStart)
	blanked := blankOut(orig)
	if blanked == orig {
		return
	}
	p.trace("wipe", orig, "")
	p.out.replace(p.stmtStart, p.out.len(), blanked)
}
