package strip

import "strings"

// parseClass matches a class declaration or expression, or an interface
// declaration, which is erased.
func (p *Parser) parseClass() bool {
	defer p.rule("Class")()
	if p.peekSeq(Lit("interface"), identifier) {
		p.parseInterface()
		return true
	}
	if p.peek("abstract", "class") {
		p.skip("abstract")
	}
	if !p.eat("class") {
		return false
	}
	if !p.peek("extends") && !p.peek("implements") {
		p.has(identifier)
	}
	p.parseTemplateDef()
	if p.eat("extends") {
		p.must(p.parseExpressionWith(true))
	}
	if p.skip("implements") {
		p.parseTypeList()
	}
	p.must(p.eat("{"))
	for !p.eat("}") {
		p.must(p.eat(";") || p.recoverErrors(p.parseMember))
	}
	return true
}

func (p *Parser) parseInterface() {
	p.wipeStatement()
	p.blank++
	p.eat("interface")
	p.mustTake(identifier)
	p.parseTemplateDef()
	if p.eat("extends") {
		p.mustRule(p.parseType)
		for p.eat(",") {
			p.mustRule(p.parseType)
		}
	}
	p.must(p.eat("{"))
	p.parseTypeMembers()
	p.blank--
}

// parseMember matches one class member. Access modifiers are blanked;
// abstract and declare members are erased with their whole text.
func (p *Parser) parseMember() bool {
	defer p.rule("Member")()
	p.stmtStart = p.out.len()
	start := p.pos
	if p.peek("static", "{") {
		p.eat("static")
		return p.parseBlock()
	}
	erase := false
	for modifiers := true; modifiers; {
		switch {
		case p.skipModifier("public", "private", "protected", "readonly", "override"):
		case p.skipModifier("abstract", "declare"):
			erase = true
		case p.modifierAhead("static"):
			p.eat("static")
		default:
			modifiers = false
		}
	}
	if p.peekSeq(Lit("["), identifier, Lit(":")) {
		p.blank++
		p.eat("[")
		p.parseIndexSignature()
		p.must(p.eat(":"))
		p.mustRule(p.parseType)
		p.mustEndStatement()
		p.blank--
		p.wipeStatement()
		return true
	}
	for _, word := range []string{"async", "get", "set"} {
		if p.modifierAhead(word) {
			p.eat(word)
		}
	}
	p.eat("*")
	name, ok := p.take(identifier)
	if !ok && !p.has(stringLiteral) && !p.has(number) && !p.parseComputedName() {
		if p.pos != start {
			p.fail()
		}
		return false
	}
	p.skip("?")
	p.skip("!")
	if !p.peek("(") && !p.peek("<") {
		if p.skip(":") {
			p.must(p.skipRule(p.parseType))
		}
		if p.eat("=") {
			p.mustRule(p.parseExpression)
		}
		p.mustEndStatement()
		if erase {
			p.wipeStatement()
		}
		return true
	}
	p.parseTemplateDef()
	fields, ok := p.parseFuncParams(name == "constructor")
	p.must(ok)
	p.parseReturnType()
	if erase || !p.eat("{") {
		p.mustEndStatement()
		p.wipeStatement()
		return true
	}
	p.parseConstructorBody(fields)
	return true
}

func (p *Parser) skipModifier(words ...string) bool {
	for _, word := range words {
		if p.modifierAhead(word) {
			return p.skip(word)
		}
	}
	return false
}

func (p *Parser) parseComputedName() bool {
	if !p.eat("[") {
		return false
	}
	p.mustRule(p.parseExpression)
	p.must(p.eat("]"))
	return true
}

// parseConstructorBody matches a method body after its opening brace.
// Field assignments for parameter properties go right after the first
// top-level super() call, or at the start of the body when there is none.
func (p *Parser) parseConstructorBody(fields string) {
	bodyStart := p.out.len()
	placed := fields == ""
	for !p.eat("}") {
		superCall := !placed && p.peek("super", "(")
		stmt := p.out.len()
		p.must(p.recoverErrors(p.parseStatement))
		if superCall {
			text := fields
			if !p.postNewline && !strings.HasSuffix(strings.TrimRight(p.out.tail(stmt), " \t"), ";") {
				text = ";" + fields
			}
			p.insertOutput(p.out.len(), text)
			placed = true
		}
	}
	if !placed {
		p.insertOutput(bodyStart, fields)
	}
}
