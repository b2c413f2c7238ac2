package strip

import "strings"

// Types are only ever parsed in blank mode, so nothing here decides what is
// emitted; the rules only have to find where a type ends.

func (p *Parser) parseType() bool {
	return p.parseTypeWith(true)
}

// parseTypeWith matches a type. Function types are not allowed as union
// and intersection members unless parenthesized.
func (p *Parser) parseTypeWith(allowFunction bool) bool {
	defer p.rule("Type")()
	required := p.typeOperator()
	for p.eat("keyof") || p.eat("unique") || p.eat("infer") || p.modifierAhead("readonly") && p.eat("readonly") {
		required = true
	}
	switch {
	case p.eat("typeof"):
		p.mustTake(identifier)
		for p.eat(".") {
			p.mustTake(identifier)
		}
	case p.peekSeq(Lit("asserts"), identifier):
		p.eat("asserts")
		p.take(identifier)
		if p.eat("is") {
			p.mustRule(p.parseType)
		}
		return true
	case allowFunction && (p.peek("(") || p.peek("<") || p.peek("new") || p.peek("abstract", "new")) &&
		p.attempt(p.parseFunctionType):
		return true
	case p.has(identifier):
		for p.eat(".") {
			p.mustTake(identifier)
		}
		if p.eat("is") {
			p.mustRule(p.parseType)
			return true
		}
		if p.eat("<") {
			p.mustRule(p.parseType)
			for p.eat(",") {
				p.mustRule(p.parseType)
			}
			p.must(p.eat(">"))
		}
	case p.eat("{"):
		p.parseTypeMembers()
	case p.eat("["):
		p.parseTupleMembers()
	case p.eat("("):
		p.mustRule(p.parseType)
		p.must(p.eat(")"))
	case p.parseTemplateString(), p.has(number), p.has(stringLiteral):
	default:
		if required {
			p.fail()
		}
		return false
	}
	for !p.postNewline && p.eat("[") {
		p.parseType()
		p.must(p.eat("]"))
	}
	for p.typeOperator() {
		p.must(p.parseTypeWith(false))
	}
	if p.eat("extends") {
		p.mustRule(p.parseType)
		p.must(p.eat("?"))
		p.mustRule(p.parseType)
		p.must(p.eat(":"))
		p.mustRule(p.parseType)
	}
	return true
}

// typeOperator matches a union or intersection bar. "||", "&&", "|=" and
// "&=" are expression operators and end the type.
func (p *Parser) typeOperator() bool {
	for _, op := range []string{"|", "&"} {
		rest := p.src[p.pos:]
		if !strings.HasPrefix(rest, op) {
			continue
		}
		if len(rest) > 1 && (rest[1] == op[0] || rest[1] == '=') {
			return false
		}
		return p.eat(op)
	}
	return false
}

func (p *Parser) parseFunctionType() bool {
	defer p.rule("FunctionType")()
	p.eat("abstract")
	p.eat("new")
	p.parseTemplateDef()
	if _, ok := p.parseFuncParams(false); !ok {
		return false
	}
	p.must(p.eat("=>"))
	p.mustRule(p.parseType)
	return true
}

// parseTypeMembers matches the members of a type literal or interface
// body after the opening brace, up to and including the closing brace.
func (p *Parser) parseTypeMembers() {
	defer p.rule("TypeMembers")()
	for {
		if p.eat("+") || p.eat("-") {
			p.must(p.eat("readonly"))
		}
		for _, word := range []string{"readonly", "get", "set"} {
			if p.modifierAhead(word) {
				p.eat(word)
			}
		}
		switch {
		case p.eat("["):
			p.parseIndexSignature()
		case p.peek("(") || p.peek("<"):
		case p.has(identifier) || p.has(stringLiteral) || p.has(number):
		default:
			p.must(p.eat("}"))
			return
		}
		if p.eat("+") || p.eat("-") {
			p.must(p.eat("?"))
		} else {
			p.eat("?")
		}
		if p.peek("(") || p.peek("<") {
			p.parseTemplateDef()
			_, ok := p.parseFuncParams(false)
			p.must(ok)
		}
		if p.eat(":") {
			p.mustRule(p.parseType)
		}
		if !p.eat(",") && !p.eat(";") && !p.postNewline {
			p.must(p.eat("}"))
			return
		}
	}
}

// parseIndexSignature matches what follows "[" in a member position: an
// index signature, a mapped type key or a computed name.
func (p *Parser) parseIndexSignature() {
	switch {
	case p.peekSeq(identifier, Lit(":")):
		p.take(identifier)
		p.eat(":")
		p.mustRule(p.parseType)
	case p.peekSeq(identifier, Lit("in")):
		p.take(identifier)
		p.eat("in")
		p.mustRule(p.parseType)
		if p.eat("as") {
			p.mustRule(p.parseType)
		}
	default:
		p.mustRule(p.parseExpression)
	}
	p.must(p.eat("]"))
}

func (p *Parser) parseTupleMembers() {
	for {
		p.eat("...")
		if p.peekSeq(identifier, Lit("?"), Lit(":")) || p.peekSeq(identifier, Lit(":")) {
			p.take(identifier)
			p.eat("?")
			p.eat(":")
		}
		if !p.parseType() {
			break
		}
		p.eat("?")
		if !p.eat(",") {
			break
		}
	}
	p.must(p.eat("]"))
}
