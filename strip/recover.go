package strip

// recoverErrors runs rule at a statement-list recovery site. In strict
// mode, or inside an attempt, it is rule itself. Otherwise a raised failure
// is reported and the input is skipped up to the next statement boundary;
// the site reports success only if that made progress.
func (p *Parser) recoverErrors(rule func() bool) bool {
	if !p.opts.recover || p.attempting > 0 {
		return rule()
	}
	start := p.pos
	blank, peeking, depth := p.blank, p.peeking, len(p.rules)
	ok, perr := p.guard(rule)
	if perr == nil {
		return ok
	}
	p.blank, p.peeking = blank, peeking
	p.rules = p.rules[:depth]
	p.opts.log.Errorf("recovering from parse error: %s", perr)
	if p.opts.onError != nil {
		p.opts.onError(perr)
	}
	for !p.atEnd() && !p.eat(";") && !p.eat("}") {
		if !p.has(whitespace) && !p.has(identifier) && !p.has(stringLiteral) && !p.has(anything) {
			p.fail()
		}
		if p.postNewline {
			break
		}
	}
	return p.pos > start
}
