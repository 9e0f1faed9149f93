// Package xmlout renders recovered HTTP items and issue records as the
// tool's XML export document. All decisions about printable-vs-binary
// encoding, field projection from first lines and headers, and XML
// escaping live here, outside the reconstruction core.
package xmlout

import (
	"regexp"
	"strings"
)

// xmlInvalid matches control characters that are not representable in
// XML 1.0 character data and must be stripped before emission.
var xmlInvalid = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f]")

// safeTag matches element names that can be emitted verbatim.
var safeTag = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-.]*$`)

// escaper covers markup characters and attribute quotes. Line breaks
// stay literal so message text renders multi-line in the document.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Escape returns s with XML special characters escaped.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Sanitize strips XML-invalid control characters from s.
func Sanitize(s string) string {
	return xmlInvalid.ReplaceAllString(s, "")
}

// latin1 decodes arbitrary bytes as Latin-1 text; it never fails, so
// binary-ish spans still render as a character-per-byte string.
func latin1(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// mostlyPrintable reports whether at least 90% of data is tab, CR, LF
// or printable ASCII; such spans are emitted as escaped text rather
// than base64.
func mostlyPrintable(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	printable := 0
	for _, b := range data {
		if b == '\t' || b == '\r' || b == '\n' || (b >= 32 && b < 127) {
			printable++
		}
	}
	return float64(printable)/float64(len(data)) >= 0.9
}
