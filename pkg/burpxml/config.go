// Package burpxml converts Burp capture files to XML. It detects the
// file's container (XML, zip-with-XML, SQLite, or raw captured HTTP
// traffic) and dispatches to the matching export path.
package burpxml

import (
	"io"
	"log"
)

// DefaultChunkSize is the read size for streaming passes over raw
// capture data.
const DefaultChunkSize = 4 << 20

// Config holds the conversion options.
type Config struct {
	ChunkSize    int         // Read-chunk size for raw HTTP and issue extraction
	Limit        int         // Maximum exported HTTP items (0 for unlimited)
	IssueLimit   int         // Maximum exported issues (0 for unlimited)
	Tables       []string    // SQLite tables to export (empty for all)
	AcceptBrotli bool        // Attempt brotli envelope decoding for unrecognized payloads
	Logger       *log.Logger // Logger for conversion progress
}

// newSilentLogger creates a logger that discards all output.
func newSilentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ChunkSize: DefaultChunkSize,
		Logger:    newSilentLogger(),
	}
}

// Validate checks and normalizes the configuration values.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.Limit < 0 {
		c.Limit = 0
	}
	if c.IssueLimit < 0 {
		c.IssueLimit = 0
	}
	if c.Logger == nil {
		c.Logger = newSilentLogger()
	}
	return nil
}
