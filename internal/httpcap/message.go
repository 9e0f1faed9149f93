// Package httpcap reconstructs discrete HTTP/1.x messages from a raw
// capture byte stream. The stream is a concatenation of request and
// response bytes with no explicit boundaries; the package re-derives
// message spans incrementally in bounded memory, then pairs requests
// with the responses that follow them.
package httpcap

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Kind classifies a reconstructed message by the shape of its first line.
type Kind int

const (
	// KindRequest is a message whose first line starts with an HTTP method token.
	KindRequest Kind = iota
	// KindResponse is a message whose first line starts with an HTTP version token.
	KindResponse
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k == KindRequest {
		return "request"
	}
	return "response"
}

// methodTokens is the fixed set of request methods recognized by the
// start locator and the message classifier.
var methodTokens = []string{
	"GET",
	"POST",
	"PUT",
	"DELETE",
	"HEAD",
	"OPTIONS",
	"PATCH",
	"CONNECT",
	"TRACE",
}

// Message is one complete HTTP request or response recovered from the
// stream: the verbatim wire bytes (start line, headers, body, and any
// chunked framing), the decoded first line, and a flat header map.
// Messages are immutable once emitted by the Scanner.
type Message struct {
	// Bytes is the full message span exactly as captured. Chunked bodies
	// keep their size lines and terminators; nothing is de-chunked.
	Bytes []byte
	// FirstLine is the request line or status line, decoded leniently.
	FirstLine string
	// Headers maps lower-cased header names to values. Duplicate header
	// lines overwrite earlier ones (last wins).
	Headers map[string]string
	Kind    Kind
}

// Header returns the value for name, looked up case-insensitively.
func (m *Message) Header(name string) string {
	return m.Headers[strings.ToLower(name)]
}

// SplitBody splits the raw message bytes at the header terminator.
// When no terminator is present the whole span is returned as the
// header block and the body is empty.
func (m *Message) SplitBody() (header, body []byte) {
	end := bytes.Index(m.Bytes, []byte("\r\n\r\n"))
	sep := 4
	if end == -1 {
		end = bytes.Index(m.Bytes, []byte("\n\n"))
		sep = 2
	}
	if end == -1 {
		return m.Bytes, nil
	}
	return m.Bytes[:end], m.Bytes[end+sep:]
}

// classify decides request vs response from the first-line shape alone:
// a line whose first token begins with a known method is a request.
func classify(firstLine string) Kind {
	for _, m := range methodTokens {
		if len(firstLine) >= len(m) && strings.EqualFold(firstLine[:len(m)], m) {
			return KindRequest
		}
	}
	return KindResponse
}

// decodeText decodes header and first-line bytes as UTF-8 when valid,
// falling back to a lossless Latin-1 interpretation otherwise. Captures
// regularly carry non-UTF-8 bytes in header values; the fallback keeps
// them representable without ever failing.
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}
