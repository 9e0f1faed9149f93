package httpcap

import (
	"strings"
	"testing"
)

func request(target string) *Message {
	return &Message{
		Bytes:     []byte("GET " + target + " HTTP/1.1\r\n\r\n"),
		FirstLine: "GET " + target + " HTTP/1.1",
		Headers:   map[string]string{},
		Kind:      KindRequest,
	}
}

func response(status string) *Message {
	return &Message{
		Bytes:     []byte("HTTP/1.1 " + status + "\r\n\r\n"),
		FirstLine: "HTTP/1.1 " + status,
		Headers:   map[string]string{},
		Kind:      KindResponse,
	}
}

func TestPairer_RequestResponse(t *testing.T) {
	var p Pairer
	if _, ok := p.Feed(request("/a")); ok {
		t.Error("Expected a lone request to be held, not emitted")
	}
	it, ok := p.Feed(response("200 OK"))
	if !ok {
		t.Fatal("Expected a paired item")
	}
	if it.Request == nil || it.Response == nil {
		t.Error("Expected both sides populated")
	}
	if _, ok := p.Flush(); ok {
		t.Error("Expected nothing pending after pairing")
	}
}

func TestPairer_BackToBackRequests(t *testing.T) {
	var p Pairer
	p.Feed(request("/a"))
	it, ok := p.Feed(request("/b"))
	if !ok {
		t.Fatal("Expected the first request flushed when a second arrives")
	}
	if it.Response != nil {
		t.Error("Expected flushed request to be unpaired")
	}
	if !strings.Contains(it.Request.FirstLine, "/a") {
		t.Errorf("Expected /a flushed first, got %q", it.Request.FirstLine)
	}
	final, ok := p.Flush()
	if !ok {
		t.Fatal("Expected the second request flushed at end of stream")
	}
	if !strings.Contains(final.Request.FirstLine, "/b") {
		t.Errorf("Expected /b flushed last, got %q", final.Request.FirstLine)
	}
}

func TestPairer_OrphanResponse(t *testing.T) {
	var p Pairer
	it, ok := p.Feed(response("502 Bad Gateway"))
	if !ok {
		t.Fatal("Expected an orphan response emitted immediately")
	}
	if it.Request != nil {
		t.Error("Expected no request side for an orphan response")
	}
	if it.Response == nil {
		t.Error("Expected the response side populated")
	}
}

func TestPairs_EndToEnd(t *testing.T) {
	input := "GET /a HTTP/1.1\r\nHost: x\r\n\r\n" +
		"HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok"
	var items []Item
	n, err := Pairs(NewScannerSize(strings.NewReader(input), 32), 0, func(it Item) error {
		items = append(items, it)
		return nil
	})
	if err != nil {
		t.Fatalf("Pairs() error = %v", err)
	}
	if n != 1 || len(items) != 1 {
		t.Fatalf("Expected exactly one item, got %d", n)
	}
	if items[0].Request == nil || items[0].Response == nil {
		t.Error("Expected a fully paired item")
	}
}

func TestPairs_TwoLoneRequests(t *testing.T) {
	input := "GET /a HTTP/1.1\r\nHost: x\r\n\r\n" +
		"GET /b HTTP/1.1\r\nHost: y\r\n\r\n"
	var items []Item
	n, err := Pairs(NewScannerSize(strings.NewReader(input), 32), 0, func(it Item) error {
		items = append(items, it)
		return nil
	})
	if err != nil {
		t.Fatalf("Pairs() error = %v", err)
	}
	if n != 2 {
		t.Fatalf("Expected two unpaired items, got %d", n)
	}
	for i, it := range items {
		if it.Response != nil {
			t.Errorf("Item %d: expected no response side", i)
		}
	}
	if !strings.Contains(items[0].Request.FirstLine, "/a") ||
		!strings.Contains(items[1].Request.FirstLine, "/b") {
		t.Error("Expected items in input order")
	}
}

func TestPairs_LimitStopsEarly(t *testing.T) {
	input := "HTTP/1.1 200 OK\r\n\r\n" +
		"HTTP/1.1 201 Created\r\n\r\n" +
		"HTTP/1.1 202 Accepted\r\n\r\n"
	count := 0
	n, err := Pairs(NewScannerSize(strings.NewReader(input), 64), 2, func(Item) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("Pairs() error = %v", err)
	}
	if n != 2 || count != 2 {
		t.Errorf("Expected the cap to stop at 2 items, got %d", n)
	}
}

func TestPairs_LimitSkipsPendingFlush(t *testing.T) {
	// Cap reached exactly after a lone request: the pending request is
	// not flushed in capped runs.
	input := "HTTP/1.1 200 OK\r\n\r\n" +
		"GET /pending HTTP/1.1\r\nHost: x\r\n\r\n"
	var items []Item
	n, err := Pairs(NewScannerSize(strings.NewReader(input), 64), 1, func(it Item) error {
		items = append(items, it)
		return nil
	})
	if err != nil {
		t.Fatalf("Pairs() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("Expected exactly the capped item, got %d", n)
	}
	if items[0].Response == nil || items[0].Request != nil {
		t.Error("Expected the orphan response to be the only item")
	}
}
