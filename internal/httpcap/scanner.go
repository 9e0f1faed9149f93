package httpcap

import (
	"io"
)

// DefaultChunkSize is the read size used by NewScanner. The window
// compacts itself whenever it grows past twice this without a
// locatable message start.
const DefaultChunkSize = 4 << 20

// Scanner pulls bounded chunks from a byte source and yields complete
// HTTP messages one at a time. It is single use and single threaded:
// the caller drives it, and all buffer state is owned by the one
// in-progress scan. A trailing truncated message at end of input is
// dropped, never emitted.
type Scanner struct {
	r         io.Reader
	win       Window
	chunk     []byte
	chunkSize int
	start     int // resolved message start awaiting framing, -1 if none
	eof       bool
	err       error
	msg       *Message
}

// NewScanner returns a Scanner reading r in DefaultChunkSize chunks.
func NewScanner(r io.Reader) *Scanner {
	return NewScannerSize(r, DefaultChunkSize)
}

// NewScannerSize returns a Scanner with an explicit read-chunk size,
// which also scales the window compaction threshold.
func NewScannerSize(r io.Reader, chunkSize int) *Scanner {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Scanner{
		r:         r,
		chunk:     make([]byte, chunkSize),
		chunkSize: chunkSize,
		start:     -1,
	}
}

// Scan advances to the next complete message, reading more input as
// needed. It returns false at end of input; Err reports any read error
// other than end of file.
func (s *Scanner) Scan() bool {
	s.msg = nil
	for {
		if s.start < 0 {
			off, ok := findStart(s.win.Bytes())
			if !ok {
				// Nothing recognizable yet. Bound the window and wait
				// for more bytes; at end of input we are done.
				if s.win.CompactIfOversized(2*s.chunkSize, s.chunkSize) {
					bufferCompactions.Inc()
				}
				if !s.fill() {
					return false
				}
				continue
			}
			s.start = off
		}

		// A start is pinned: keep framing at the same offset across
		// refills rather than re-scanning, so one truncated message
		// near the end cannot cause a rescan loop.
		f, ok := frameAt(s.win.Bytes(), s.start)
		if !ok {
			if !s.fill() {
				messagesDropped.Inc()
				return false
			}
			continue
		}

		raw := make([]byte, f.end-s.start)
		copy(raw, s.win.Bytes()[s.start:f.end])
		s.msg = &Message{
			Bytes:     raw,
			FirstLine: f.firstLine,
			Headers:   f.headers,
			Kind:      classify(f.firstLine),
		}
		s.win.ConsumeTo(f.end)
		s.start = -1
		messagesTotal.WithLabelValues(s.msg.Kind.String()).Inc()
		return true
	}
}

// Message returns the message produced by the last successful Scan.
func (s *Scanner) Message() *Message {
	return s.msg
}

// Err returns the first read error other than end of file.
func (s *Scanner) Err() error {
	return s.err
}

// fill reads one more chunk into the window, reporting whether any
// bytes arrived. All read errors terminate input; only non-EOF ones
// are retained for Err.
func (s *Scanner) fill() bool {
	if s.eof {
		return false
	}
	n, err := io.ReadFull(s.r, s.chunk)
	if n > 0 {
		s.win.Append(s.chunk[:n])
		bytesConsumed.Add(float64(n))
	}
	if err != nil {
		s.eof = true
		if err != io.EOF && err != io.ErrUnexpectedEOF {
			s.err = err
		}
	}
	return n > 0
}
