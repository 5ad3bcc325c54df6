package sse

import (
	"fmt"
	"io"
	"net/http"
)

type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter sets the event-stream headers and writes the status line.
func NewWriter(w http.ResponseWriter) *Writer {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	return &Writer{w: w, flusher: flusher}
}

func (s *Writer) WriteContent(content string) error {
	if _, err := io.WriteString(s.w, Encode(content)); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

func (s *Writer) WriteDone() error {
	return s.WriteContent(Done)
}
