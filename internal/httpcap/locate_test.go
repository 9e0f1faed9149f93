package httpcap

import "testing"

func TestFindStart(t *testing.T) {
	tests := []struct {
		name string
		buf  string
		want int
		ok   bool
	}{
		{"request at start", "GET /index HTTP/1.1\r\nHost: x\r\n\r\n", 0, true},
		{"response at start", "HTTP/1.1 200 OK\r\n\r\n", 0, true},
		{"request after noise", "junk bytes\nPOST /api HTTP/1.0\r\n", 11, true},
		{"response after noise", "garbage\r\nHTTP/1.1 404 Not Found\r\n", 9, true},
		{"lowercase method", "get / http/1.1\r\n", 0, true},
		{"version without minor", "GET / HTTP/2\r\n", 0, true},
		{"mid-line method not anchored", "xGET / HTTP/1.1\r\n", 0, false},
		{"status code too short", "HTTP/1.1 99\r\n", 0, false},
		{"no whitespace after method", "GET/ HTTP/1.1\r\n", 0, false},
		{"empty target", "GET  HTTP/1.1\r\n", 0, false},
		{"plain text", "nothing to see here", 0, false},
		{"empty buffer", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off, ok := findStart([]byte(tt.buf))
			if ok != tt.ok {
				t.Fatalf("findStart(%q) ok = %v, want %v", tt.buf, ok, tt.ok)
			}
			if ok && off != tt.want {
				t.Errorf("findStart(%q) offset = %d, want %d", tt.buf, off, tt.want)
			}
		})
	}
}

func TestFindStart_EarliestWins(t *testing.T) {
	buf := []byte("HTTP/1.1 200 OK\r\n\r\nGET /later HTTP/1.1\r\n\r\n")
	off, ok := findStart(buf)
	if !ok {
		t.Fatal("Expected a start to be found")
	}
	if off != 0 {
		t.Errorf("Expected the earlier response start at 0, got %d", off)
	}
}

func TestFindStart_SkipsLeadingLineBreaks(t *testing.T) {
	buf := []byte("\r\n\r\nGET / HTTP/1.1\r\n")
	off, ok := findStart(buf)
	if !ok {
		t.Fatal("Expected a start to be found")
	}
	if off != 4 {
		t.Errorf("Expected offset 4 pointing at the method, got %d", off)
	}
	if buf[off] != 'G' {
		t.Errorf("Expected offset to point at first content byte, got %q", buf[off])
	}
}

func TestFindStart_TargetLengthBound(t *testing.T) {
	long := make([]byte, 0, maxTargetLen+64)
	long = append(long, "GET /"...)
	for len(long) < maxTargetLen+10 {
		long = append(long, 'a')
	}
	long = append(long, " HTTP/1.1\r\n"...)
	if _, ok := findStart(long); ok {
		t.Error("Expected an over-long target to be rejected")
	}

	okBuf := []byte("GET /short HTTP/1.1\r\n")
	if _, ok := findStart(okBuf); !ok {
		t.Error("Expected a short target to match")
	}
}

func TestFindStart_RequestWithSpacesInTarget(t *testing.T) {
	buf := []byte("GET /has space HTTP/1.1\r\n")
	off, ok := findStart(buf)
	if !ok {
		t.Fatal("Expected a request target containing spaces to match")
	}
	if off != 0 {
		t.Errorf("Expected offset 0, got %d", off)
	}
}
