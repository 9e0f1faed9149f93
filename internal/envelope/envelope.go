// Package envelope classifies a capture file's outer container and
// unwraps compression envelopes, so callers can dispatch to the right
// extraction path: XML passthrough, zip member extraction, SQLite table
// export, or raw HTTP stream recovery.
package envelope

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
)

// Kind is the detected payload container.
type Kind int

const (
	// KindUnknown means none of the known containers matched; the
	// payload is treated as a raw HTTP capture stream.
	KindUnknown Kind = iota
	KindZip
	KindSQLite
	KindXML
)

var (
	gzipMagic   = []byte{0x1f, 0x8b}
	zipMagic    = []byte("PK\x03\x04")
	sqliteMagic = []byte("SQLite format 3\x00")
)

// ErrNoZipXML is returned when a zip payload carries no XML member.
var ErrNoZipXML = errors.New("no XML member found inside zip payload")

// Detect unwraps a gzip envelope when present and classifies the
// payload. When acceptBrotli is set and no container matched, a brotli
// decode is attempted as a last resort; a clean decode replaces the
// payload. The returned slice is the payload to operate on, which may
// differ from raw after unwrapping.
func Detect(raw []byte, acceptBrotli bool) (Kind, []byte, error) {
	if bytes.HasPrefix(raw, gzipMagic) {
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return KindUnknown, nil, fmt.Errorf("gzip envelope: %w", err)
		}
		inflated, err := io.ReadAll(gz)
		if err != nil {
			return KindUnknown, nil, fmt.Errorf("gzip envelope: %w", err)
		}
		raw = inflated
	}
	kind := classify(raw)
	if kind == KindUnknown && acceptBrotli {
		if dec, err := io.ReadAll(brotli.NewReader(bytes.NewReader(raw))); err == nil && len(dec) > 0 {
			return classify(dec), dec, nil
		}
	}
	return kind, raw, nil
}

func classify(raw []byte) Kind {
	switch {
	case bytes.HasPrefix(raw, zipMagic):
		return KindZip
	case bytes.HasPrefix(raw, sqliteMagic):
		return KindSQLite
	}
	trimmed := bytes.TrimLeft(raw, " \t\r\n\v\f")
	if bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<")) {
		return KindXML
	}
	return KindUnknown
}

// ExtractZipXML returns the contents of the first member of the
// archive whose name ends in .xml.
func ExtractZipXML(raw []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("zip payload: %w", err)
	}
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("zip member %s: %w", f.Name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, ErrNoZipXML
}
