package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain",
			in:   "Hello there",
			want: "Hello there",
		},
		{
			name: "emphasis",
			in:   "You are **not** alone, *truly*.",
			want: "You are <b>not</b> alone, <i>truly</i>.",
		},
		{
			name: "heading",
			in:   "# Breathing\n\nInhale slowly.",
			want: "<b>Breathing</b>\n\nInhale slowly.",
		},
		{
			name: "list",
			in:   "- call 988\n- text HOME to 741741",
			want: "• call 988\n• text HOME to 741741",
		},
		{
			name: "escapes",
			in:   "a < b & c",
			want: "a &lt; b &amp; c",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToHTML(tc.in))
		})
	}
}

func TestToHTML_CodeBlock(t *testing.T) {
	got := ToHTML("```go\nx < 1\n```")

	assert.Contains(t, got, "<pre><code>x &lt; 1")
	assert.NotContains(t, got, "class=")
}

func TestToHTML_SkipsRawHTML(t *testing.T) {
	got := ToHTML("<script>alert(1)</script> hi")

	assert.NotContains(t, got, "<script>")
}
