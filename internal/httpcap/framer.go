package httpcap

import (
	"bytes"
	"strconv"
	"strings"
)

var (
	crlfcrlf = []byte("\r\n\r\n")
	lflf     = []byte("\n\n")
	crlf     = []byte("\r\n")
)

// frame describes one fully resolved message span within a window.
type frame struct {
	end       int // first byte after the body (and chunk terminator, if chunked)
	firstLine string
	headers   map[string]string
}

// frameAt resolves the message starting at off within buf: locates the
// header terminator, parses the header block, and determines the body
// end from content-length or chunked framing. ok is false whenever more
// buffered bytes are required to finish — missing header terminator,
// short body, incomplete or malformed chunk stream. Malformed chunk
// sizes are deliberately conflated with "need more data": the caller
// retries as input arrives and drops the span at end of stream.
func frameAt(buf []byte, off int) (frame, bool) {
	headerEnd := bytes.Index(buf[off:], crlfcrlf)
	sep := 4
	if headerEnd == -1 {
		headerEnd = bytes.Index(buf[off:], lflf)
		sep = 2
	}
	if headerEnd == -1 {
		return frame{}, false
	}
	headerEnd += off

	firstLine, headers := parseHeaderBlock(buf[off:headerEnd])

	bodyStart := headerEnd + sep
	bodyEnd := bodyStart
	if cl, present := headers["content-length"]; present {
		length, err := strconv.Atoi(strings.TrimSpace(cl))
		if err != nil || length < 0 {
			length = 0
		}
		// Compared without adding so an absurdly large length cannot
		// wrap negative; it just reads as not-yet-buffered and the
		// message drops at end of input.
		if length > len(buf)-bodyStart {
			return frame{}, false
		}
		bodyEnd = bodyStart + length
	} else if te, present := headers["transfer-encoding"]; present && containsFold(te, "chunked") {
		end, done := chunkedEnd(buf, bodyStart)
		if !done {
			return frame{}, false
		}
		bodyEnd = end
	}
	return frame{end: bodyEnd, firstLine: firstLine, headers: headers}, true
}

// parseHeaderBlock splits a header block into the decoded first line
// and a flat header map. Names are trimmed and lower-cased; values are
// trimmed. Lines without a colon are skipped, and duplicate names
// overwrite (last wins).
func parseHeaderBlock(block []byte) (string, map[string]string) {
	headers := make(map[string]string)
	lines := splitLines(block)
	if len(lines) == 0 {
		return "", headers
	}
	firstLine := strings.TrimSpace(decodeText(lines[0]))
	for _, line := range lines[1:] {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		colon := bytes.IndexByte(line, ':')
		if colon == -1 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(decodeText(line[:colon])))
		headers[name] = strings.TrimSpace(decodeText(line[colon+1:]))
	}
	return firstLine, headers
}

// splitLines splits on LF, trimming a trailing CR from each line.
func splitLines(block []byte) [][]byte {
	if len(block) == 0 {
		return nil
	}
	lines := bytes.Split(block, []byte("\n"))
	for i, line := range lines {
		lines[i] = bytes.TrimSuffix(line, []byte("\r"))
	}
	return lines
}

// chunkedEnd walks a chunked body starting at idx and returns the
// offset just past the zero-size chunk's terminating line break. Each
// chunk is `<hex-size>[;ext]<break><size bytes><break>`, where the
// break is CRLF or a tolerated bare LF. done is false when the buffer
// ends mid-chunk or a size token fails to parse as hex; either way the
// caller waits for more input.
func chunkedEnd(buf []byte, idx int) (end int, done bool) {
	for {
		lineEnd := bytes.Index(buf[idx:], crlf)
		brk := 2
		if lineEnd == -1 {
			lineEnd = bytes.IndexByte(buf[idx:], '\n')
			brk = 1
		}
		if lineEnd == -1 {
			return 0, false
		}
		lineEnd += idx

		sizeTok := buf[idx:lineEnd]
		if semi := bytes.IndexByte(sizeTok, ';'); semi != -1 {
			sizeTok = sizeTok[:semi]
		}
		size, err := strconv.ParseInt(string(bytes.TrimSpace(sizeTok)), 16, 64)
		if err != nil || size < 0 {
			return 0, false
		}

		idx = lineEnd + brk
		// Non-wrapping comparison: a size near the int64 maximum must
		// read as insufficient bytes, never index past the buffer.
		if size > int64(len(buf)-idx-brk) {
			return 0, false
		}
		idx += int(size)
		switch {
		case bytes.HasPrefix(buf[idx:], crlf):
			idx += 2
		case idx < len(buf) && buf[idx] == '\n':
			idx++
		default:
			return 0, false
		}
		if size == 0 {
			return idx, true
		}
	}
}
