package output

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"github.com/selimozcann/seoaudit/internal/model"
)

// JSONLWriter writes one AuditResult per line as JSON. It is safe for use
// from several workers.
type JSONLWriter struct {
	w  *bufio.Writer
	mu sync.Mutex
}

// NewJSONLWriter wraps an io.Writer with buffering.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{w: bufio.NewWriter(w)}
}

// Write writes a single result as a JSON line.
func (j *JSONLWriter) Write(r model.AuditResult) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	enc := json.NewEncoder(j.w)
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// Flush flushes the underlying buffer.
func (j *JSONLWriter) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.w.Flush()
}

// Close flushes the buffer; keep the signature similar to io.Closer.
func (j *JSONLWriter) Close() error {
	return j.Flush()
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
