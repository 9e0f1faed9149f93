package httpcap

// Item groups a request with the response that followed it in capture
// order. At least one side is always present: orphan requests carry a
// nil Response, orphan responses a nil Request.
type Item struct {
	Request  *Message
	Response *Message
}

type pairState int

const (
	pairIdle    pairState = iota // no request awaiting a response
	pairPending                  // one request held, waiting for its response
)

// Pairer associates each request with the next following response. It
// holds at most one pending request: a second request before any
// response flushes the first as unpaired, a response with nothing
// pending is emitted as an orphan.
type Pairer struct {
	state   pairState
	pending *Message
}

// Feed consumes one message in capture order. It returns an item and
// true when the message completes or forces an emission; requests are
// otherwise held until their outcome is known.
func (p *Pairer) Feed(m *Message) (Item, bool) {
	if m.Kind == KindRequest {
		if p.state == pairPending {
			flushed := Item{Request: p.pending}
			p.pending = m
			itemsEmitted.WithLabelValues("unpaired_request").Inc()
			return flushed, true
		}
		p.state = pairPending
		p.pending = m
		return Item{}, false
	}
	if p.state == pairPending {
		it := Item{Request: p.pending, Response: m}
		p.state = pairIdle
		p.pending = nil
		itemsEmitted.WithLabelValues("paired").Inc()
		return it, true
	}
	itemsEmitted.WithLabelValues("orphan_response").Inc()
	return Item{Response: m}, true
}

// Flush emits the pending request, if any, at end of stream.
func (p *Pairer) Flush() (Item, bool) {
	if p.state != pairPending {
		return Item{}, false
	}
	it := Item{Request: p.pending}
	p.state = pairIdle
	p.pending = nil
	itemsEmitted.WithLabelValues("unpaired_request").Inc()
	return it, true
}

// Pairs drains the scanner, pairing messages and invoking fn for each
// emitted item until limit items have been produced (limit <= 0 means
// unlimited). When the limit is reached the scanner is not consumed
// further, and a request left pending at that exact point is not
// flushed; in the unlimited case the pending request is always flushed
// at end of stream. Returns the number of items emitted.
func Pairs(s *Scanner, limit int, fn func(Item) error) (int, error) {
	var p Pairer
	count := 0
	for s.Scan() {
		it, ok := p.Feed(s.Message())
		if !ok {
			continue
		}
		if err := fn(it); err != nil {
			return count, err
		}
		count++
		if limit > 0 && count >= limit {
			return count, s.Err()
		}
	}
	if err := s.Err(); err != nil {
		return count, err
	}
	if it, ok := p.Flush(); ok {
		if err := fn(it); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
