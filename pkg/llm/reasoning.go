package llm

import "strings"

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// stripReasoning removes everything up to and including the first close
// marker of a complete response.
func stripReasoning(content string) string {
	idx := strings.Index(content, thinkClose)
	if idx < 0 {
		return content
	}
	return content[idx+len(thinkClose):]
}

// reasoningFilter tracks whether a stream is inside a reasoning block.
// Markers arrive as their own chunks; text trailing a close marker in the
// same chunk is kept.
type reasoningFilter struct {
	show        bool
	inReasoning bool
}

// next returns the visible part of chunk, if any.
func (f *reasoningFilter) next(chunk string) (string, bool) {
	trimmed := strings.TrimSpace(chunk)

	switch {
	case trimmed == thinkOpen:
		f.inReasoning = true
		return chunk, f.show
	case strings.HasPrefix(trimmed, thinkClose):
		f.inReasoning = false
		if f.show {
			return chunk, true
		}
		rest := strings.TrimPrefix(trimmed, thinkClose)
		return rest, rest != ""
	case f.inReasoning:
		return chunk, f.show
	}

	return chunk, true
}
