// Package sse frames streamed assistant output as server-sent events.
//
// Every event is a single data line holding a JSON object:
//
//	data: {"content":"..."}\n\n
package sse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	dataPrefix = "data: "
	separator  = "\n\n"

	// Done is sent as the content of the last event of every stream.
	Done = "[DONE]"
)

type Frame struct {
	Content string `json:"content"`
}

// Encode frames content as one event. HTML characters are left unescaped so
// the output is byte-identical to JSON.stringify in the browser client.
func Encode(content string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a struct with one string field cannot fail.
	_ = enc.Encode(Frame{Content: content})

	return dataPrefix + strings.TrimSuffix(buf.String(), "\n") + separator
}

// Decode parses a buffer of concatenated events.
func Decode(data []byte) ([]Frame, error) {
	raw := DecodeRaw(data)
	frames := make([]Frame, 0, len(raw))
	for i, payload := range raw {
		var f Frame
		if err := json.Unmarshal([]byte(payload), &f); err != nil {
			return nil, fmt.Errorf("decoding event %d: %w", i, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// DecodeRaw returns the payload of every event without parsing it.
func DecodeRaw(data []byte) []string {
	var payloads []string
	for _, fragment := range strings.Split(string(data), separator) {
		if fragment == "" {
			continue
		}
		payloads = append(payloads, strings.TrimPrefix(fragment, dataPrefix))
	}
	return payloads
}
