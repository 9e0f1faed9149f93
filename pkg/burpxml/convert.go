package burpxml

import (
	"bytes"
	"context"
	"errors"
	"os"

	"go.opentelemetry.io/otel/attribute"

	"github.com/burpxml/burpxml/internal/envelope"
	"github.com/burpxml/burpxml/internal/httpcap"
	"github.com/burpxml/burpxml/internal/issue"
	"github.com/burpxml/burpxml/internal/sqlitedump"
	"github.com/burpxml/burpxml/internal/xmlout"
)

// ErrUnsupportedFormat is returned when the input matches no known
// container and raw extraction recovers no HTTP items.
var ErrUnsupportedFormat = errors.New(
	"unsupported capture format: expected XML, zip-with-XML, SQLite, or raw HTTP data")

// Convert reads the capture file at inputPath and writes its XML
// export to outputPath. The container kind decides the path: XML is
// passed through, zip payloads have their first XML member extracted,
// SQLite stores are dumped table by table, and anything else goes
// through raw HTTP message reconstruction with issue extraction.
func Convert(ctx context.Context, inputPath, outputPath string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	ctx, span := startSpan(ctx, "convert",
		attribute.String("input", inputPath),
		attribute.Int("input_bytes", len(raw)))
	defer span.End()

	_, detectSpan := startSpan(ctx, "detect")
	kind, payload, err := envelope.Detect(raw, cfg.AcceptBrotli)
	detectSpan.End()
	if err != nil {
		return err
	}

	switch kind {
	case envelope.KindXML:
		cfg.Logger.Printf("XML payload, writing through (%d bytes)", len(payload))
		return os.WriteFile(outputPath, payload, 0o644)

	case envelope.KindZip:
		cfg.Logger.Print("zip payload, extracting XML member")
		xmlPayload, err := envelope.ExtractZipXML(payload)
		if err != nil {
			return err
		}
		return os.WriteFile(outputPath, xmlPayload, 0o644)

	case envelope.KindSQLite:
		cfg.Logger.Print("SQLite payload, exporting tables")
		return convertSQLite(ctx, payload, outputPath, cfg)

	default:
		cfg.Logger.Print("no container detected, attempting raw HTTP extraction")
		return convertRaw(ctx, payload, outputPath, cfg)
	}
}

// convertSQLite writes the payload to a temporary file (the driver
// opens paths, not byte slices) and dumps its tables.
func convertSQLite(ctx context.Context, payload []byte, outputPath string, cfg Config) error {
	_, span := startSpan(ctx, "sqlite_dump")
	defer span.End()

	tmp, err := os.CreateTemp("", "burpxml-*.db")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	db, err := sqlitedump.Open(tmp.Name())
	if err != nil {
		return err
	}
	defer db.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := sqlitedump.Dump(db, out, cfg.Tables); err != nil {
		return err
	}
	return out.Close()
}

// convertRaw runs the two independent passes over the payload — issue
// extraction and HTTP message reconstruction with pairing — and
// renders the export document. Zero recovered items means the input is
// not a capture this tool understands.
func convertRaw(ctx context.Context, payload []byte, outputPath string, cfg Config) error {
	_, issueSpan := startSpan(ctx, "issue_scan")
	issues, err := issue.Collect(bytes.NewReader(payload), cfg.ChunkSize, cfg.IssueLimit)
	issueSpan.End()
	if err != nil {
		return err
	}
	cfg.Logger.Printf("collected %d issue records", len(issues))

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, extractSpan := startSpan(ctx, "http_extract")
	w := xmlout.NewWriter(out)
	if err := w.Begin(); err != nil {
		extractSpan.End()
		return err
	}
	scanner := httpcap.NewScannerSize(bytes.NewReader(payload), cfg.ChunkSize)
	count, err := httpcap.Pairs(scanner, cfg.Limit, w.WriteItem)
	extractSpan.End()
	if err != nil {
		return err
	}
	cfg.Logger.Printf("exported %d HTTP items", count)

	if err := w.EndItems(); err != nil {
		return err
	}
	if err := w.WriteIssues(issues); err != nil {
		return err
	}
	if err := w.End(); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if count == 0 {
		return ErrUnsupportedFormat
	}
	return nil
}
