// Package issue extracts embedded issue records from a raw capture
// stream. The pass is independent of HTTP message reconstruction: it
// scans the same bytes for <issue ...>...</issue> spans and parses each
// span as a small XML document, skipping spans that fail to parse.
package issue

import (
	"encoding/xml"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the read size for the scan; the retained lookback
// tail between reads is bounded to the same value.
const DefaultChunkSize = 4 << 20

var blockRE = regexp.MustCompile(`(?is)<issue\b[^>]*>.*?</issue>`)

// Record is one successfully parsed issue block: a flat map of child
// element names to their concatenated text, plus the raw span bytes.
type Record struct {
	Fields map[string]string
	Raw    []byte
}

// Collect streams r in chunkSize reads and returns up to limit parsed
// issue records (limit <= 0 means unlimited). Blocks that are not
// well-formed XML are skipped silently.
func Collect(r io.Reader, chunkSize, limit int) ([]Record, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	var records []Record
	var buf []byte
	chunk := make([]byte, chunkSize)
	for {
		n, err := io.ReadFull(r, chunk)
		if n == 0 {
			break
		}
		buf = append(buf, chunk[:n]...)

		lastEnd := 0
		for _, loc := range blockRE.FindAllIndex(buf, -1) {
			block := buf[loc[0]:loc[1]]
			if rec, ok := parseBlock(block); ok {
				records = append(records, rec)
				if limit > 0 && len(records) >= limit {
					return records, nil
				}
			}
			lastEnd = loc[1]
		}
		if lastEnd > 0 {
			buf = buf[lastEnd:]
		}
		// Keep only a bounded tail so a block split across reads can
		// still complete without the buffer growing without limit.
		if len(buf) > chunkSize {
			buf = buf[len(buf)-chunkSize:]
		}

		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return records, err
		}
	}
	return records, nil
}

// parseBlock decodes one issue span. Each direct child element becomes
// a field keyed by its local name, valued with all nested character
// data trimmed; empty fields are omitted. The raw span is copied so it
// survives buffer reuse.
func parseBlock(block []byte) (Record, bool) {
	text := decodeBlock(block)
	dec := xml.NewDecoder(strings.NewReader(text))

	fields := make(map[string]string)
	depth := 0
	var name string
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Record{}, false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				name = t.Name.Local
				sb.Reset()
			}
		case xml.EndElement:
			if depth == 2 {
				if v := strings.TrimSpace(sb.String()); v != "" {
					fields[name] = v
				}
			}
			depth--
		case xml.CharData:
			if depth >= 2 {
				sb.Write(t)
			}
		}
	}
	raw := make([]byte, len(block))
	copy(raw, block)
	return Record{Fields: fields, Raw: raw}, true
}

// decodeBlock interprets the span as UTF-8 when valid, else as Latin-1
// so arbitrary capture bytes never abort the pass.
func decodeBlock(b []byte) string {
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
