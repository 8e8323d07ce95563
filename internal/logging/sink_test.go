package logging

import (
	"strings"
	"testing"
)

func TestLineSink(t *testing.T) {
	tests := []struct {
		name     string
		tag      Tag
		text     string
		expected string
	}{
		{
			name:     "single line",
			tag:      TagGeneratedQuery,
			text:     "MATCH (n) RETURN n",
			expected: "[TOOL] MATCH (n) RETURN n\n",
		},
		{
			name:     "multi line result keeps one tag per line",
			tag:      TagResult,
			text:     "name\nAlice",
			expected: "[DB] name\n[DB] Alice\n",
		},
		{
			name:     "model reply",
			tag:      TagModelReply,
			text:     "There are 3 nodes.",
			expected: "[LLM] There are 3 nodes.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			LineSink{W: &b}.Write(tt.tag, tt.text)
			if b.String() != tt.expected {
				t.Errorf("Write() = %q, want %q", b.String(), tt.expected)
			}
		})
	}
}
