package envelope

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"testing"

	"github.com/andybalholm/brotli"
)

func TestDetect_XML(t *testing.T) {
	kind, payload, err := Detect([]byte("  <?xml version=\"1.0\"?><burp/>"), false)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if kind != KindXML {
		t.Errorf("Expected KindXML, got %v", kind)
	}
	if !bytes.Contains(payload, []byte("<burp/>")) {
		t.Error("Expected payload unchanged")
	}
}

func TestDetect_BareAngleBracketIsXML(t *testing.T) {
	kind, _, err := Detect([]byte("<items></items>"), false)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if kind != KindXML {
		t.Errorf("Expected KindXML for leading '<', got %v", kind)
	}
}

func TestDetect_SQLite(t *testing.T) {
	raw := append([]byte("SQLite format 3\x00"), make([]byte, 100)...)
	kind, _, err := Detect(raw, false)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if kind != KindSQLite {
		t.Errorf("Expected KindSQLite, got %v", kind)
	}
}

func TestDetect_RawHTTP(t *testing.T) {
	kind, _, err := Detect([]byte("GET / HTTP/1.1\r\nHost: x\r\n\r\n"), false)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if kind != KindUnknown {
		t.Errorf("Expected KindUnknown for raw HTTP, got %v", kind)
	}
}

func TestDetect_GzipEnvelope(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	gz.Write([]byte("<?xml version=\"1.0\"?><burp/>"))
	gz.Close()

	kind, payload, err := Detect(buf.Bytes(), false)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if kind != KindXML {
		t.Errorf("Expected gzip to unwrap to KindXML, got %v", kind)
	}
	if !bytes.HasPrefix(payload, []byte("<?xml")) {
		t.Errorf("Expected inflated payload, got %q", payload[:10])
	}
}

func TestDetect_CorruptGzip(t *testing.T) {
	raw := []byte{0x1f, 0x8b, 0xff, 0xff, 0xff}
	if _, _, err := Detect(raw, false); err == nil {
		t.Error("Expected an error for a corrupt gzip envelope")
	}
}

func TestDetect_BrotliEnvelope(t *testing.T) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	bw.Write([]byte("<?xml version=\"1.0\"?><burp/>"))
	bw.Close()

	kind, payload, err := Detect(buf.Bytes(), true)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if kind != KindXML {
		t.Errorf("Expected brotli to unwrap to KindXML, got %v", kind)
	}
	if !bytes.HasPrefix(payload, []byte("<?xml")) {
		t.Error("Expected decoded payload")
	}

	// Without opt-in the same bytes stay unknown.
	kind, _, err = Detect(buf.Bytes(), false)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if kind != KindUnknown {
		t.Errorf("Expected KindUnknown without brotli opt-in, got %v", kind)
	}
}

func TestExtractZipXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("notes.txt")
	f.Write([]byte("ignore me"))
	f, _ = zw.Create("Project.XML")
	f.Write([]byte("<burp/>"))
	zw.Close()

	payload, err := ExtractZipXML(buf.Bytes())
	if err != nil {
		t.Fatalf("ExtractZipXML() error = %v", err)
	}
	if string(payload) != "<burp/>" {
		t.Errorf("Expected the XML member contents, got %q", payload)
	}
}

func TestExtractZipXML_NoXMLMember(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("notes.txt")
	f.Write([]byte("no xml here"))
	zw.Close()

	if _, err := ExtractZipXML(buf.Bytes()); !errors.Is(err, ErrNoZipXML) {
		t.Errorf("Expected ErrNoZipXML, got %v", err)
	}
}
