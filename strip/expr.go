package strip

func (p *Parser) parseExpressionSeq() bool {
	if !p.parseExpression() {
		return false
	}
	for p.eat(",") {
		p.mustRule(p.parseExpression)
	}
	return true
}

func (p *Parser) parseExpression() bool {
	return p.parseExpressionWith(false)
}

// parseExpressionWith matches an expression. With typeArgs set, a type
// argument list directly after the primary operand is blanked without
// disambiguation, as needed after "new" and in "extends" clauses.
//
// Binary operators are re-emitted as a right-recursive chain; precedence is
// never restructured.
func (p *Parser) parseExpressionWith(typeArgs bool) bool {
	defer p.rule("Expression")()
	if p.eat("yield") {
		p.eat("*")
		if !p.postNewline {
			p.parseExpression()
		}
		return true
	}
	required := false
	for p.has(prefixOperator) {
		required = true
	}
	if p.eat("new") {
		typeArgs = true
		required = true
		if p.eat(".") {
			p.mustTake(identifier)
			return true
		}
	}
	ok := p.has(stringLiteral) ||
		p.parseTemplateString() ||
		p.has(number) ||
		p.parseClass() ||
		p.parseFunction() ||
		p.parseArrowFunction() ||
		p.parseParenthesized() ||
		p.has(identifier) ||
		p.parseLiteralArray() ||
		p.parseLiteralObject() ||
		p.has(regexpLiteral)
	if !ok {
		if required {
			p.fail()
		}
		return false
	}
	if typeArgs && p.skip("<") {
		p.parseTypeList()
		p.must(p.skip(">"))
	}
	for {
		switch {
		case p.parseCall(), p.parseIndex(), p.parseTemplateString():
		case !p.postNewline && (p.eat("++") || p.eat("--")):
		case p.skip("as"), p.skip("satisfies"):
			p.must(p.skipRule(p.parseType))
		case p.eat("?."):
			p.must(p.has(identifier) || p.parseIndex() || p.parseCall())
		case p.eat("."):
			p.mustTake(identifier)
		case p.peek("<") && p.attempt(p.parseTypeArguments):
		case p.has(binaryOperator):
			p.mustRule(p.parseExpression)
			return true
		case p.skip("!"):
		default:
			if p.eat("?") {
				p.mustRule(p.parseExpression)
				p.must(p.eat(":"))
				p.mustRule(p.parseExpression)
			}
			return true
		}
	}
}

// parseTypeList matches comma separated types in blank mode.
func (p *Parser) parseTypeList() {
	p.must(p.skipRule(p.parseType))
	for p.skip(",") {
		p.must(p.skipRule(p.parseType))
	}
}

// parseTypeArguments decides whether "<" starts type arguments of a call
// or instantiation rather than a comparison: the closing ">" must be
// followed by something that can continue or end an operand.
func (p *Parser) parseTypeArguments() bool {
	defer p.rule("TypeArguments")()
	if !p.skip("<") {
		return false
	}
	p.parseTypeList()
	p.must(p.skip(">"))
	return p.atEnd() ||
		p.peek(".") || p.peek("?.") ||
		p.peek("(") || p.peek("{") ||
		p.peek(";") || p.peek(")") || p.peek(",") || p.peek("]") || p.peek("}")
}

func (p *Parser) parseCall() bool {
	defer p.rule("Call")()
	if !p.eat("(") {
		return false
	}
	for {
		if p.eat("...") {
			p.mustRule(p.parseExpression)
		} else if !p.parseExpression() {
			break
		}
		if !p.eat(",") {
			break
		}
	}
	p.must(p.eat(")"))
	return true
}

func (p *Parser) parseIndex() bool {
	if !p.eat("[") {
		return false
	}
	p.mustRule(p.parseExpressionSeq)
	p.must(p.eat("]"))
	return true
}

func (p *Parser) parseParenthesized() bool {
	if !p.eat("(") {
		return false
	}
	p.mustRule(p.parseExpressionSeq)
	p.must(p.eat(")"))
	return true
}

// parseTemplateString matches a template string. Whitespace after the
// opening backtick and before the closing brace of an interpolation is
// string content and is left to the segment atom.
func (p *Parser) parseTemplateString() bool {
	defer p.rule("TemplateString")()
	if _, ok := p.eatSeq(Raw{Lit("`")}); !ok {
		return false
	}
	for {
		segment := p.mustTake(templateSegment)
		if segment[len(segment)-1] == '`' {
			return true
		}
		p.mustRule(p.parseExpressionSeq)
		_, ok := p.eatSeq(Raw{Lit("}")})
		p.must(ok)
	}
}

func (p *Parser) parseLiteralArray() bool {
	defer p.rule("LiteralArray")()
	if !p.eat("[") {
		return false
	}
	for {
		p.eat("...")
		p.parseExpression()
		if !p.eat(",") {
			break
		}
	}
	p.must(p.eat("]"))
	return true
}

func (p *Parser) parseLiteralObject() bool {
	defer p.rule("LiteralObject")()
	if !p.eat("{") {
		return false
	}
	for {
		if p.eat("...") {
			p.mustRule(p.parseExpression)
		} else {
			for _, word := range []string{"async", "get", "set"} {
				if p.modifierAhead(word) {
					p.eat(word)
				}
			}
			p.eat("*")
			if !p.parsePropertyName() {
				break
			}
			if p.peek("(") || p.peek("<") {
				p.parseTemplateDef()
				_, ok := p.parseFuncParams(false)
				p.must(ok)
				p.parseReturnType()
				p.must(p.parseBlock())
			} else if p.eat(":") || p.eat("=") {
				p.mustRule(p.parseExpression)
			}
		}
		if !p.eat(",") {
			break
		}
	}
	p.must(p.eat("}"))
	return true
}

// parsePropertyName matches a plain, quoted, numeric or computed key.
func (p *Parser) parsePropertyName() bool {
	if p.has(identifier) || p.has(stringLiteral) || p.has(number) {
		return true
	}
	if !p.eat("[") {
		return false
	}
	p.mustRule(p.parseExpression)
	p.must(p.eat("]"))
	return true
}

func (p *Parser) parseFunction() bool {
	defer p.rule("Function")()
	if !p.eat("async", "function") && !p.eat("function") {
		return false
	}
	p.eat("*")
	p.has(identifier)
	p.parseTemplateDef()
	_, ok := p.parseFuncParams(false)
	p.must(ok)
	p.parseReturnType()
	if p.parseBlock() {
		return true
	}
	p.mustEndStatement()
	p.wipeStatement()
	return true
}

func (p *Parser) parseReturnType() {
	if p.skip(":") {
		p.must(p.skipRule(p.parseType))
	}
}

// parseFuncParams matches a parameter list. For constructors it also
// collects the field assignments implied by parameter properties.
func (p *Parser) parseFuncParams(constructor bool) (string, bool) {
	defer p.rule("FuncParams")()
	if !p.eat("(") {
		return "", false
	}
	fields := ""
	for {
		if p.peek("this", ":") {
			p.skip("this", ":")
			p.must(p.skipRule(p.parseType))
			p.skip(",")
			continue
		}
		if p.eat("...") {
			p.must(p.parseBinding())
		} else if constructor && p.skipParameterModifiers() {
			name := p.mustTake(identifier)
			fields += "this." + name + "=" + name + ";"
		} else if !p.parseBinding() {
			break
		}
		p.skip("?")
		if p.skip(":") {
			p.must(p.skipRule(p.parseType))
		}
		if p.eat("=") {
			p.mustRule(p.parseExpression)
		}
		if !p.eat(",") {
			break
		}
	}
	p.must(p.eat(")"))
	return fields, true
}

func (p *Parser) skipParameterModifiers() bool {
	found := false
	for _, word := range []string{"public", "private", "protected", "override", "readonly"} {
		if p.modifierAhead(word) {
			p.skip(word)
			found = true
		}
	}
	return found
}

// parseTemplateDef blanks a type parameter list.
func (p *Parser) parseTemplateDef() bool {
	defer p.rule("TemplateDef")()
	if !p.skip("<") {
		return false
	}
	for !p.peek(">") {
		for _, word := range []string{"const", "in", "out"} {
			if p.peekSeq(Lit(word), identifier) {
				p.skip(word)
			}
		}
		p.mustSkipTake(identifier)
		if p.skip("extends") {
			p.must(p.skipRule(p.parseType))
		}
		if p.skip("=") {
			p.must(p.skipRule(p.parseType))
		}
		if !p.skip(",") {
			break
		}
	}
	p.must(p.skip(">"))
	return true
}

func (p *Parser) parseArrowFunction() bool {
	defer p.rule("ArrowFunction")()
	if !p.attempt(p.parseArrowHead) {
		return false
	}
	p.must(p.parseBlock() || p.parseExpression())
	return true
}

func (p *Parser) parseArrowHead() bool {
	p.eat("async")
	p.parseTemplateDef()
	if _, ok := p.parseFuncParams(false); !ok && !p.has(identifier) {
		return false
	}
	p.parseReturnType()
	return p.eat("=>")
}
