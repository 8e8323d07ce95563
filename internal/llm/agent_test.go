package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

// scriptedModel replays one ContentResponse per GenerateContent call and
// records the message lists it was given.
type scriptedModel struct {
	responses []*llms.ContentResponse
	calls     [][]llms.MessageContent
}

func (m *scriptedModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls = append(m.calls, messages)
	if len(m.responses) == 0 {
		return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "done"}}}, nil
	}
	r := m.responses[0]
	m.responses = m.responses[1:]
	return r, nil
}

func (m *scriptedModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return "", errors.New("not used")
}

func toolCallResponse(query string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		ToolCalls: []llms.ToolCall{{
			ID:   "call_1",
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      ToolName,
				Arguments: `{"query": ` + strings.ReplaceAll(`"`+query+`"`, "\n", " ") + `}`,
			},
		}},
	}}}
}

func finalResponse(text string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text}}}
}

func TestConverseToolRoundTrip(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("MATCH (n) RETURN count(n) AS c"),
		finalResponse("There are 3 nodes."),
	}}
	var executed []string
	agent := NewAgent(model, "system prompt", 0, func(_ context.Context, q string) (string, error) {
		executed = append(executed, q)
		return "c\n3", nil
	})

	reply, err := agent.Converse(context.Background(), "how many nodes?")
	if err != nil {
		t.Fatalf("Converse() error = %v", err)
	}
	if reply != "There are 3 nodes." {
		t.Errorf("reply = %q", reply)
	}
	if len(executed) != 1 || executed[0] != "MATCH (n) RETURN count(n) AS c" {
		t.Errorf("executed = %q", executed)
	}

	// The second model call must contain the tool result.
	if len(model.calls) != 2 {
		t.Fatalf("model called %d times, want 2", len(model.calls))
	}
	last := model.calls[1]
	foundResult := false
	for _, msg := range last {
		for _, part := range msg.Parts {
			if tr, ok := part.(llms.ToolCallResponse); ok {
				if tr.Content == "c\n3" && tr.ToolCallID == "call_1" {
					foundResult = true
				}
			}
		}
	}
	if !foundResult {
		t.Error("tool result did not re-enter the model's context")
	}
}

func TestConverseNoToolCalls(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		finalResponse("MATCH is a pattern-matching clause."),
	}}
	agent := NewAgent(model, "system", 0, func(_ context.Context, _ string) (string, error) {
		t.Fatal("execute must not be called for a text-only turn")
		return "", nil
	})

	reply, err := agent.Converse(context.Background(), "what does MATCH do?")
	if err != nil {
		t.Fatalf("Converse() error = %v", err)
	}
	if reply != "MATCH is a pattern-matching clause." {
		t.Errorf("reply = %q", reply)
	}
}

func TestConverseExecutionErrorReachesModel(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("MATCH n RETURN n"),
		finalResponse("That query was invalid."),
	}}
	agent := NewAgent(model, "system", 0, func(_ context.Context, _ string) (string, error) {
		return "", errors.New("syntax error at or near \"n\"")
	})

	if _, err := agent.Converse(context.Background(), "run it"); err != nil {
		t.Fatalf("Converse() error = %v, tool failures must not fail the turn", err)
	}
	last := model.calls[len(model.calls)-1]
	found := false
	for _, msg := range last {
		for _, part := range msg.Parts {
			if tr, ok := part.(llms.ToolCallResponse); ok && strings.Contains(tr.Content, "Cypher error") {
				found = true
			}
		}
	}
	if !found {
		t.Error("execution error was not relayed to the model as tool output")
	}
}

func TestConverseKeepsHistory(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		finalResponse("first"),
		finalResponse("second"),
	}}
	agent := NewAgent(model, "system", 0, nil)

	if _, err := agent.Converse(context.Background(), "one"); err != nil {
		t.Fatal(err)
	}
	if _, err := agent.Converse(context.Background(), "two"); err != nil {
		t.Fatal(err)
	}
	// Second call: system + 2 history entries + new turn.
	if got := len(model.calls[1]); got != 4 {
		t.Errorf("second call carried %d messages, want 4", got)
	}
}

func TestConverseRoundBound(t *testing.T) {
	// A model that never stops calling the tool must be cut off.
	responses := make([]*llms.ContentResponse, 0, defaultMaxRounds+1)
	for i := 0; i <= defaultMaxRounds; i++ {
		responses = append(responses, toolCallResponse("RETURN 1 AS one"))
	}
	model := &scriptedModel{responses: responses}
	agent := NewAgent(model, "system", 0, func(_ context.Context, _ string) (string, error) {
		return "one\n1", nil
	})

	if _, err := agent.Converse(context.Background(), "loop"); err == nil {
		t.Fatal("Converse() expected round-bound error")
	}
	if len(model.calls) != defaultMaxRounds {
		t.Errorf("model called %d times, want %d", len(model.calls), defaultMaxRounds)
	}
}
