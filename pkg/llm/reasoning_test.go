package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripReasoning(t *testing.T) {
	assert.Equal(t, "Answer", stripReasoning("<think>a</think>Answer"))
	assert.Equal(t, "no markers", stripReasoning("no markers"))
	assert.Equal(t, "b</think>c", stripReasoning("a</think>b</think>c"))
}

func TestReasoningFilter(t *testing.T) {
	tests := []struct {
		name   string
		show   bool
		chunks []string
		want   []string
	}{
		{
			name:   "hidden",
			chunks: []string{"<think>", "hmm", "</think>", "Answer"},
			want:   []string{"Answer"},
		},
		{
			name:   "shown",
			show:   true,
			chunks: []string{"<think>", "hmm", "</think>", "Answer"},
			want:   []string{"<think>", "hmm", "</think>", "Answer"},
		},
		{
			name:   "marker padded with whitespace",
			chunks: []string{" <think>\n", "hmm", "\n</think>\n", "Answer"},
			want:   []string{"Answer"},
		},
		{
			name:   "text after close marker",
			chunks: []string{"<think>", "hmm", "</think>Hello", " there"},
			want:   []string{"Hello", " there"},
		},
		{
			name:   "no reasoning",
			chunks: []string{"plain ", "text"},
			want:   []string{"plain ", "text"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := reasoningFilter{show: tc.show}
			var got []string
			for _, c := range tc.chunks {
				if text, ok := f.next(c); ok {
					got = append(got, text)
				}
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
