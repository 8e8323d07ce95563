package logging

import (
	"fmt"
	"io"
	"strings"
)

// Tag labels one mirrored REPL event.
type Tag string

const (
	// TagGeneratedQuery marks Cypher text about to be executed, whether typed
	// by the user or emitted by the model through the send_cypher tool.
	TagGeneratedQuery Tag = "TOOL"
	// TagResult marks the formatted result (or error text) of an execution.
	TagResult Tag = "DB"
	// TagModelReply marks the model's final natural-language reply.
	TagModelReply Tag = "LLM"
)

// Sink receives mirrored REPL events. Writes are best-effort: a sink must
// never fail the operation that produced the event.
type Sink interface {
	Write(tag Tag, text string)
}

// LineSink writes each line of an event prefixed with its tag, one event line
// per output line.
type LineSink struct {
	W io.Writer
}

func (s LineSink) Write(tag Tag, text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(s.W, "[%s] %s\n", tag, line)
	}
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Write(Tag, string) {}
