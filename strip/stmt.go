package strip

import (
	"fmt"
	"strconv"
	"strings"
)

func (p *Parser) parseStatement() bool {
	defer p.rule("Statement")()
	p.stmtStart = p.out.len()
	return p.parseVarDecl() ||
		p.parseTypeDecl() ||
		p.parseBlock() ||
		p.parseExport() ||
		p.parseEnum() ||
		p.parseClass() ||
		p.parseReturn() ||
		p.parseIfWhile() ||
		p.parseThrow() ||
		p.parseDoWhile() ||
		p.parseFor() ||
		p.parseImport() ||
		p.parseTry() ||
		p.parseDeclare() ||
		p.parseSwitch() ||
		p.parseJump() ||
		p.parseLabeled() ||
		p.parseExpressionStatement() ||
		p.eat(";")
}

// mustEndStatement accepts the end of input, a semicolon, a line break after
// the previous token or an upcoming closing brace.
func (p *Parser) mustEndStatement() {
	if p.atEnd() || p.eat(";") || p.postNewline || p.peek("}") {
		return
	}
	p.fail()
}

func (p *Parser) parseVarDecl() bool {
	defer p.rule("VarDecl")()
	if p.peek("const", "enum") {
		p.opts.log.Infof("const enum at %d:%d is emitted as a regular enum", p.line, p.col)
		p.skip("const")
		return p.parseEnum()
	}
	if !p.eat("let") && !p.eat("const") && !p.eat("var") {
		return false
	}
	p.parseDeclarators()
	p.mustEndStatement()
	return true
}

func (p *Parser) parseDeclarators() {
	for {
		p.must(p.parseBinding())
		p.skip("!")
		if p.skip(":") {
			p.must(p.skipRule(p.parseType))
		}
		if p.eat("=") {
			p.mustRule(p.parseExpression)
		}
		if !p.eat(",") {
			return
		}
	}
}

// parseBinding matches a binding name or a destructuring pattern.
func (p *Parser) parseBinding() bool {
	return p.has(identifier) || p.parseLiteralArray() || p.parseLiteralObject()
}

func (p *Parser) parseTypeDecl() bool {
	defer p.rule("TypeDecl")()
	if !p.peekSeq(Lit("type"), identifier) {
		return false
	}
	p.wipeStatement()
	p.blank++
	p.eat("type")
	p.mustTake(identifier)
	p.parseTemplateDef()
	if p.eat("=") {
		p.mustRule(p.parseType)
	}
	p.mustEndStatement()
	p.blank--
	return true
}

func (p *Parser) parseBlock() bool {
	defer p.rule("Block")()
	if !p.eat("{") {
		return false
	}
	for p.recoverErrors(p.parseStatement) {
	}
	p.must(p.eat("}"))
	return true
}

func (p *Parser) parseEnum() bool {
	defer p.rule("Enum")()
	start := p.out.len()
	if !p.eat("enum") {
		return false
	}
	name := p.mustTake(identifier)
	p.must(p.eat("{"))
	p.replaceOutput(start, fmt.Sprintf("var %s = (function (%s) {", name, name))
	next := int64(0)
	for {
		start = p.out.len()
		key, ok := p.take(identifier)
		if ok {
			key = `"` + key + `"`
		} else if key, ok = p.take(stringLiteral); !ok {
			break
		}
		value := ""
		if p.eat("=") {
			if s, ok := p.take(stringLiteral); ok {
				value = s
			} else {
				next = parseOrdinal(p.mustTake(number))
			}
		}
		more := p.eat(",")
		if value != "" {
			p.replaceOutput(start, fmt.Sprintf("%s[%s] = %s;", name, key, value))
		} else {
			p.replaceOutput(start, fmt.Sprintf("%s[(%s[%s] = %d)] = %s;", name, name, key, next, key))
			next++
		}
		if !more {
			break
		}
	}
	start = p.out.len()
	p.must(p.eat("}"))
	p.replaceOutput(start, fmt.Sprintf("return %s;})(%s || {});", name, name))
	return true
}

func (p *Parser) parseReturn() bool {
	defer p.rule("Return")()
	if !p.eat("return") {
		return false
	}
	if !p.postNewline {
		p.parseExpressionSeq()
	}
	p.mustEndStatement()
	return true
}

func (p *Parser) parseIfWhile() bool {
	defer p.rule("IfWhile")()
	if p.eat("if") {
		p.parseCondition()
		if p.eat("else") {
			p.mustRule(p.parseStatement)
		}
		return true
	}
	if p.eat("while") {
		p.parseCondition()
		return true
	}
	return false
}

func (p *Parser) parseCondition() {
	p.must(p.eat("("))
	p.mustRule(p.parseExpressionSeq)
	p.must(p.eat(")"))
	p.mustRule(p.parseStatement)
}

func (p *Parser) parseThrow() bool {
	defer p.rule("Throw")()
	if !p.eat("throw") {
		return false
	}
	p.mustRule(p.parseExpressionSeq)
	p.mustEndStatement()
	return true
}

func (p *Parser) parseDoWhile() bool {
	defer p.rule("DoWhile")()
	if !p.eat("do") {
		return false
	}
	p.mustRule(p.parseStatement)
	p.must(p.eat("while"))
	p.must(p.eat("("))
	p.mustRule(p.parseExpressionSeq)
	p.must(p.eat(")"))
	p.mustEndStatement()
	return true
}

func (p *Parser) parseFor() bool {
	defer p.rule("For")()
	if !p.eat("for") {
		return false
	}
	p.eat("await")
	p.must(p.eat("("))
	switch {
	case p.eat("let") || p.eat("const") || p.eat("var"):
		p.parseDeclarators()
	case p.peekSeq(identifier, Lit("of")) || p.peekSeq(identifier, Lit("in")):
		p.take(identifier)
	default:
		p.parseExpressionSeq()
	}
	if p.eat("of") || p.eat("in") {
		p.mustRule(p.parseExpressionSeq)
	} else {
		p.must(p.eat(";"))
		p.parseExpressionSeq()
		p.must(p.eat(";"))
		p.parseExpressionSeq()
	}
	p.must(p.eat(")"))
	p.mustRule(p.parseStatement)
	return true
}

func (p *Parser) parseImport() bool {
	defer p.rule("Import")()
	if !p.peek("import") || p.peek("import", "(") || p.peek("import", ".") {
		return false
	}
	typeOnly := (p.peek("import", "type", "{") || p.peek("import", "type", "*") ||
		p.peekSeq(Lit("import"), Lit("type"), identifier)) &&
		!p.peekSeq(Lit("import"), Lit("type"), Lit("from"), stringLiteral)
	if typeOnly {
		p.blank++
	}
	p.eat("import")
	if typeOnly {
		p.eat("type")
	}
	if !p.parseSpecifier() {
		if p.has(identifier) {
			if p.eat(",") {
				p.must(p.parseNamespaceImport() || p.parseNamedBindings())
			}
		} else {
			p.must(p.parseNamespaceImport() || p.parseNamedBindings())
		}
		p.must(p.eat("from"))
		p.must(p.parseSpecifier())
	}
	if p.eat("with") || p.eat("assert") {
		p.must(p.parseLiteralObject())
	}
	p.mustEndStatement()
	if typeOnly {
		p.blank--
		p.wipeStatement()
	}
	return true
}

func (p *Parser) parseNamespaceImport() bool {
	if !p.eat("*") {
		return false
	}
	p.must(p.eat("as"))
	p.mustTake(identifier)
	return true
}

// parseNamedBindings matches the braces of an import or export clause.
// Specifiers marked with "type" are blanked together with their comma.
func (p *Parser) parseNamedBindings() bool {
	if !p.eat("{") {
		return false
	}
	for {
		if p.peekSeq(Lit("type"), identifier) && !p.peek("type", "as") {
			p.skip("type")
			p.mustSkipTake(identifier)
			if p.skip("as") {
				p.must(p.skipName())
			}
			p.skip(",")
			continue
		}
		if !p.has(identifier) && !p.has(stringLiteral) {
			break
		}
		if p.eat("as") {
			p.must(p.has(identifier) || p.has(stringLiteral))
		}
		if !p.eat(",") {
			break
		}
	}
	p.must(p.eat("}"))
	return true
}

func (p *Parser) skipName() bool {
	p.blank++
	ok := p.has(identifier) || p.has(stringLiteral)
	p.blank--
	return ok
}

// parseSpecifier matches a module specifier and hands it to the import
// transform, rewriting the literal in place.
func (p *Parser) parseSpecifier() bool {
	start := p.out.len()
	lit, ok := p.take(stringLiteral)
	if !ok {
		return false
	}
	if p.opts.transformImport == nil || p.blank > 0 {
		return true
	}
	specifier := unquote(lit)
	replacement, err := p.opts.transformImport(specifier)
	if err != nil {
		panic(abort{fmt.Errorf("transform import %q: %w", specifier, err)})
	}
	if replacement == specifier {
		return true
	}
	p.trace("replace", replacement, "")
	p.out.replace(start, start+len(lit), quote(replacement, lit[0]))
	return true
}

func (p *Parser) parseExport() bool {
	defer p.rule("Export")()
	if !p.eat("export") {
		return false
	}
	if p.eat("default") {
		if !p.parseClass() {
			p.mustRule(p.parseExpressionStatement)
		}
		return true
	}
	if p.peek("type", "{") || p.peek("type", "*") {
		p.blank++
		p.eat("type")
		p.must(p.parseExportClause())
		p.mustEndStatement()
		p.blank--
		p.wipeStatement()
		return true
	}
	if p.parseExportClause() {
		p.mustEndStatement()
		return true
	}
	p.must(p.parseVarDecl() || p.parseTypeDecl() || p.parseEnum() || p.parseDeclare() || p.parseClass() ||
		p.parseExpressionStatement())
	return true
}

func (p *Parser) parseExportClause() bool {
	if p.eat("*") {
		if p.eat("as") {
			p.must(p.has(identifier) || p.has(stringLiteral))
		}
		p.must(p.eat("from"))
		p.must(p.parseSpecifier())
		return true
	}
	if !p.parseNamedBindings() {
		return false
	}
	if p.eat("from") {
		p.must(p.parseSpecifier())
	}
	return true
}

func (p *Parser) parseTry() bool {
	defer p.rule("Try")()
	if !p.eat("try") {
		return false
	}
	p.must(p.parseBlock())
	if p.eat("catch") {
		if p.eat("(") {
			p.must(p.parseBinding())
			if p.skip(":") {
				p.must(p.skipRule(p.parseType))
			}
			p.must(p.eat(")"))
		}
		p.must(p.parseBlock())
	}
	if p.eat("finally") {
		p.must(p.parseBlock())
	}
	return true
}

// parseDeclare erases an ambient declaration entirely.
func (p *Parser) parseDeclare() bool {
	defer p.rule("Declare")()
	if !p.peekSeq(Lit("declare"), identifier) {
		return false
	}
	stmtStart := p.stmtStart
	p.blank++
	p.eat("declare")
	p.eat("const")
	switch {
	case p.eat("enum"):
		p.mustTake(identifier)
		p.must(p.parseBlock())
	case p.eat("global"):
		p.must(p.parseBlock())
	case p.eat("module") || p.eat("namespace"):
		if !p.has(stringLiteral) {
			p.mustTake(identifier)
			for p.eat(".") {
				p.mustTake(identifier)
			}
		}
		if !p.parseBlock() {
			p.mustEndStatement()
		}
	case p.eat("let") || p.eat("var"):
		p.parseDeclarators()
		p.mustEndStatement()
	case p.peek("abstract", "class") || p.peek("class") || p.peek("interface"):
		p.must(p.parseClass())
	case p.peekSeq(Lit("type"), identifier):
		p.must(p.parseTypeDecl())
	case p.peek("function") || p.peek("async", "function"):
		p.must(p.parseFunction())
	default:
		// "declare const x: T" lands here after "const" was consumed above.
		p.parseDeclarators()
		p.mustEndStatement()
	}
	p.blank--
	p.stmtStart = stmtStart
	p.wipeStatement()
	return true
}

func (p *Parser) parseSwitch() bool {
	defer p.rule("Switch")()
	if !p.eat("switch") {
		return false
	}
	p.must(p.eat("("))
	p.mustRule(p.parseExpressionSeq)
	p.must(p.eat(")"))
	p.must(p.eat("{"))
	inCase := false
	for !p.eat("}") {
		switch {
		case p.eat("case"):
			p.mustRule(p.parseExpression)
			p.must(p.eat(":"))
			inCase = true
		case p.eat("default"):
			p.must(p.eat(":"))
			inCase = true
		default:
			p.must(inCase && p.recoverErrors(p.parseStatement))
		}
	}
	return true
}

// parseJump matches break and continue with an optional label.
func (p *Parser) parseJump() bool {
	defer p.rule("Jump")()
	if !p.eat("break") && !p.eat("continue") {
		return false
	}
	if !p.postNewline {
		p.has(identifier)
	}
	p.mustEndStatement()
	return true
}

func (p *Parser) parseLabeled() bool {
	defer p.rule("Labeled")()
	if !p.peekSeq(identifier, Lit(":")) {
		return false
	}
	p.take(identifier)
	p.eat(":")
	p.mustRule(p.parseStatement)
	return true
}

func (p *Parser) parseExpressionStatement() bool {
	defer p.rule("ExpressionStatement")()
	declaration := p.peek("function") || p.peek("async", "function")
	if !p.parseExpressionSeq() {
		return false
	}
	if !declaration {
		p.mustEndStatement()
	}
	return true
}

// unquote returns the value of a quoted string literal. Only the escapes
// that can appear in module specifiers are interpreted.
func unquote(lit string) string {
	body := lit[1 : len(lit)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(body[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// quote renders s as a string literal using the given quote character.
func quote(s string, q byte) string {
	var b strings.Builder
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case q, '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// parseOrdinal reads a numeric enum initializer. Fractions are truncated.
func parseOrdinal(lit string) int64 {
	lit = strings.TrimSuffix(lit, "n")
	if v, err := strconv.ParseInt(lit, 0, 64); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(lit, "_", ""), 64); err == nil {
		return int64(f)
	}
	return 0
}
