package httpcap

// maxTargetLen bounds the request-target length accepted by the start
// locator. Anything longer is assumed to be body noise, not a request line.
const maxTargetLen = 2048

// findStart scans the window for the earliest plausible message start:
// either a request line (method, target, version) or a status line
// (version, 3-digit code). Candidates are only considered at the start
// of the buffer or immediately after a line break, and matching is
// ASCII case-insensitive. At identical offsets a request wins, which
// cannot happen on well-formed input but must not misbehave. The
// returned offset points at the first content byte of the matched line.
// ok is false when no start is present in the buffered bytes.
func findStart(buf []byte) (off int, ok bool) {
	for i := 0; i < len(buf); i++ {
		if i > 0 && buf[i-1] != '\r' && buf[i-1] != '\n' {
			continue
		}
		if matchRequestLine(buf[i:]) || matchStatusLine(buf[i:]) {
			return i, true
		}
	}
	return 0, false
}

// matchRequestLine reports whether b begins with a request line: a
// known method token, whitespace, a target of 1..maxTargetLen bytes
// with no line breaks, whitespace, and an HTTP version token.
func matchRequestLine(b []byte) bool {
	for _, m := range methodTokens {
		if !hasFoldPrefix(b, m) {
			continue
		}
		if matchTargetAndVersion(b[len(m):]) {
			return true
		}
	}
	return false
}

// matchTargetAndVersion matches `\s+<target>\s+HTTP/<d>[.<d>]` at the
// start of b. Spaces and tabs may appear inside the target as long as
// a later whitespace run is followed by a version token; a line break
// always terminates the target.
func matchTargetAndVersion(b []byte) bool {
	i := 0
	if i >= len(b) || !isWS(b[i]) {
		return false
	}
	for i < len(b) && isWS(b[i]) {
		i++
	}
	start := i
	for j := i; j < len(b) && j-start <= maxTargetLen; j++ {
		c := b[j]
		if !isWS(c) {
			continue
		}
		if j > start && matchVersion(skipWS(b, j)) {
			return true
		}
		if c == '\r' || c == '\n' {
			return false
		}
	}
	return false
}

// matchStatusLine reports whether b begins with a status line:
// `HTTP/<d>[.<d>]\s+<3 digits>`.
func matchStatusLine(b []byte) bool {
	rest, ok := versionSuffix(b)
	if !ok {
		return false
	}
	i := 0
	if i >= len(rest) || !isWS(rest[i]) {
		return false
	}
	for i < len(rest) && isWS(rest[i]) {
		i++
	}
	return len(rest)-i >= 3 && isDigit(rest[i]) && isDigit(rest[i+1]) && isDigit(rest[i+2])
}

// matchVersion reports whether b begins with `HTTP/<d>[.<d>]`.
func matchVersion(b []byte) bool {
	_, ok := versionSuffix(b)
	return ok
}

// versionSuffix consumes a leading `HTTP/<d>[.<d>]` token and returns
// the remainder.
func versionSuffix(b []byte) ([]byte, bool) {
	if !hasFoldPrefix(b, "HTTP/") {
		return nil, false
	}
	b = b[5:]
	if len(b) == 0 || !isDigit(b[0]) {
		return nil, false
	}
	b = b[1:]
	if len(b) >= 2 && b[0] == '.' && isDigit(b[1]) {
		b = b[2:]
	}
	return b, true
}

func skipWS(b []byte, i int) []byte {
	for i < len(b) && isWS(b[i]) {
		i++
	}
	return b[i:]
}

func isWS(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// hasFoldPrefix reports whether b starts with s under ASCII
// case-insensitive comparison.
func hasFoldPrefix(b []byte, s string) bool {
	if len(b) < len(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		cb := b[i]
		cs := s[i]
		if 'A' <= cb && cb <= 'Z' {
			cb |= 0x20
		}
		if 'A' <= cs && cs <= 'Z' {
			cs |= 0x20
		}
		if cb != cs {
			return false
		}
	}
	return true
}

// containsFold reports whether s contains sub under ASCII
// case-insensitive comparison.
func containsFold(s, sub string) bool {
	if len(sub) == 0 {
		return true
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		match := true
		for j := 0; j < len(sub); j++ {
			cs := s[i+j]
			ct := sub[j]
			if 'A' <= cs && cs <= 'Z' {
				cs |= 0x20
			}
			if 'A' <= ct && ct <= 'Z' {
				ct |= 0x20
			}
			if cs != ct {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
