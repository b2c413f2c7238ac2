package strip

// emitter is the output buffer. It only grows by appending, except for
// in-place edits made through replace, which are journaled into every live
// checkpoint whose mark lies past the edited offset so that a restore can
// undo them.
type emitter struct {
	buf  []byte
	live []*checkpoint
}

type patch struct {
	at  int
	old []byte
}

func (e *emitter) len() int {
	return len(e.buf)
}

func (e *emitter) append(s string) {
	e.buf = append(e.buf, s...)
}

func (e *emitter) tail(from int) string {
	return string(e.buf[from:])
}

func (e *emitter) String() string {
	return string(e.buf)
}

// replace substitutes buf[at:end] with text.
func (e *emitter) replace(at, end int, text string) {
	for _, cp := range e.live {
		if cp.outLen <= at {
			continue
		}
		keep := min(len(e.buf), cp.outLen)
		cp.patches = append(cp.patches, patch{at: at, old: append([]byte(nil), e.buf[at:keep]...)})
	}
	rest := append([]byte(nil), e.buf[end:]...)
	e.buf = append(append(e.buf[:at], text...), rest...)
}

// restore truncates the buffer back to the checkpoint and undoes the
// journaled edits, newest first.
func (e *emitter) restore(cp *checkpoint) {
	for i := len(cp.patches) - 1; i >= 0; i-- {
		pt := cp.patches[i]
		e.buf = append(e.buf[:pt.at], pt.old...)
	}
	e.buf = e.buf[:cp.outLen]
}
