package httpcap

// Window accumulates stream bytes between reads and exposes them as a
// single contiguous slice for start location and framing. Consumed
// prefixes are dropped eagerly so the window only ever holds the
// unresolved tail of the stream; all offsets are relative to the
// current window start and rebase to zero on every consume.
type Window struct {
	buf []byte
}

// Append adds a freshly read chunk to the window.
func (w *Window) Append(chunk []byte) {
	w.buf = append(w.buf, chunk...)
}

// Bytes returns the current window contents. The slice is invalidated
// by the next Append, ConsumeTo or CompactIfOversized call.
func (w *Window) Bytes() []byte {
	return w.buf
}

// Len returns the number of buffered bytes.
func (w *Window) Len() int {
	return len(w.buf)
}

// ConsumeTo drops all bytes before off, rebasing the window so the byte
// previously at off becomes offset zero. The retained tail is moved to
// the front of the existing allocation rather than re-sliced, so the
// window's memory stays bounded by what is actually unresolved.
func (w *Window) ConsumeTo(off int) {
	if off <= 0 {
		return
	}
	if off >= len(w.buf) {
		w.buf = w.buf[:0]
		return
	}
	n := copy(w.buf, w.buf[off:])
	w.buf = w.buf[:n]
}

// CompactIfOversized bounds memory on pathological input. When the
// window has grown past max without any locatable message start, only
// the trailing keep bytes are retained. A message start inside the
// discarded prefix is lost; this is accepted data loss for inputs with
// no recognizable boundary over a very long span. Reports whether data
// was discarded.
func (w *Window) CompactIfOversized(max, keep int) bool {
	if len(w.buf) <= max || keep >= len(w.buf) {
		return false
	}
	w.ConsumeTo(len(w.buf) - keep)
	return true
}
