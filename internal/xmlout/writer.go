package xmlout

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/burpxml/burpxml/internal/httpcap"
	"github.com/burpxml/burpxml/internal/issue"
)

// Writer streams the export document: an items section of paired
// request/response entries followed by an optional issues section.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Begin writes the document prolog and opens the items section.
func (w *Writer) Begin() error {
	w.w.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	w.w.WriteString("<burpExport>\n")
	_, err := w.w.WriteString("  <items>\n")
	return err
}

// WriteItem emits one paired or unpaired item.
func (w *Writer) WriteItem(it httpcap.Item) error {
	w.w.WriteString("  <item>\n")
	if it.Request != nil {
		w.writeRequest(it.Request)
	}
	if it.Response != nil {
		w.writeResponse(it.Response)
	}
	_, err := w.w.WriteString("  </item>\n")
	return err
}

func (w *Writer) writeRequest(req *httpcap.Message) {
	meta := requestMeta(req.FirstLine, req.Headers)
	w.element("url", meta.URL)
	w.element("host", meta.Host)
	w.element("port", meta.Port)
	w.element("protocol", meta.Protocol)
	w.element("method", meta.Method)
	w.element("path", meta.Path)
	w.messageBody("request", req.Bytes)
	fmt.Fprintf(w.w, "    <requestLength>%d</requestLength>\n", len(req.Bytes))
}

func (w *Writer) writeResponse(resp *httpcap.Message) {
	if parts := strings.Fields(resp.FirstLine); len(parts) >= 2 {
		w.element("status", parts[1])
	}
	w.element("mimeType", resp.Header("Content-Type"))
	w.messageBody("response", resp.Bytes)
	fmt.Fprintf(w.w, "    <responseLength>%d</responseLength>\n", len(resp.Bytes))
}

// element writes a simple text element, skipping empty values.
func (w *Writer) element(tag, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w.w, "    <%s>%s</%s>\n", tag, Escape(Sanitize(value)), tag)
}

// messageBody writes raw message bytes inline when mostly printable,
// base64-encoded otherwise.
func (w *Writer) messageBody(tag string, raw []byte) {
	if mostlyPrintable(raw) {
		fmt.Fprintf(w.w, "    <%s>%s</%s>\n", tag, Escape(Sanitize(latin1(raw))), tag)
		return
	}
	fmt.Fprintf(w.w, "    <%s base64=\"true\">%s</%s>\n", tag, base64.StdEncoding.EncodeToString(raw), tag)
}

// EndItems closes the items section.
func (w *Writer) EndItems() error {
	_, err := w.w.WriteString("  </items>\n")
	return err
}

// WriteIssues emits the issues section; nothing is written when the
// slice is empty.
func (w *Writer) WriteIssues(records []issue.Record) error {
	if len(records) == 0 {
		return nil
	}
	w.w.WriteString("  <issues>\n")
	for _, rec := range records {
		w.w.WriteString("    <issue>\n")
		tags := make([]string, 0, len(rec.Fields))
		for tag := range rec.Fields {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			value := rec.Fields[tag]
			if safeTag.MatchString(tag) {
				fmt.Fprintf(w.w, "      <%s>%s</%s>\n", tag, Escape(Sanitize(value)), tag)
			} else {
				fmt.Fprintf(w.w, "      <field name=\"%s\">%s</field>\n",
					Escape(Sanitize(tag)), Escape(Sanitize(value)))
			}
		}
		fmt.Fprintf(w.w, "      <raw base64=\"true\">%s</raw>\n",
			base64.StdEncoding.EncodeToString(rec.Raw))
		w.w.WriteString("    </issue>\n")
	}
	_, err := w.w.WriteString("  </issues>\n")
	return err
}

// End closes the document and flushes buffered output.
func (w *Writer) End() error {
	w.w.WriteString("</burpExport>\n")
	return w.w.Flush()
}
