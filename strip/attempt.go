package strip

type checkpoint struct {
	pos         int
	line        int
	col         int
	outLen      int
	postNewline bool
	stmtStart   int
	blank       int
	peeking     int
	memo        failureMemo
	patches     []patch
}

func (p *Parser) checkpoint() *checkpoint {
	return &checkpoint{
		pos:         p.pos,
		line:        p.line,
		col:         p.col,
		outLen:      p.out.len(),
		postNewline: p.postNewline,
		stmtStart:   p.stmtStart,
		blank:       p.blank,
		peeking:     p.peeking,
		memo:        p.memo,
	}
}

func (p *Parser) restore(cp *checkpoint) {
	p.pos = cp.pos
	p.line = cp.line
	p.col = cp.col
	p.postNewline = cp.postNewline
	p.stmtStart = cp.stmtStart
	p.blank = cp.blank
	p.peeking = cp.peeking
	p.memo = cp.memo
	p.out.restore(cp)
}

// attempt runs rule speculatively. When rule fails after consuming input,
// or raises a failure, every effect is rolled back and the failure is kept
// in the failure memo as a nested attempt.
func (p *Parser) attempt(rule func() bool) bool {
	cp := p.checkpoint()
	p.memo = failureMemo{}
	p.attempting++
	p.out.live = append(p.out.live, cp)
	ok, perr := p.guard(func() bool {
		if rule() {
			return true
		}
		if p.pos != cp.pos || p.out.len() != cp.outLen || len(cp.patches) > 0 {
			p.fail()
		}
		return false
	})
	p.out.live = p.out.live[:len(p.out.live)-1]
	p.attempting--
	if perr == nil {
		return ok
	}
	p.restore(cp)
	p.memo.attempts = append(p.memo.attempts, perr)
	p.trace("revert", perr.Excerpt, perr.Rule)
	return false
}

// guard runs rule and turns a raised *ParseError into a return value.
// Anything else keeps panicking.
func (p *Parser) guard(rule func() bool) (ok bool, perr *ParseError) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		e, isParseError := r.(*ParseError)
		if !isParseError {
			panic(r)
		}
		perr = e
	}()
	return rule(), nil
}
