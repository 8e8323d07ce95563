package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// defaultMaxRounds bounds the tool-calling cycle within a single turn. The
// model hands back control after at most this many tool rounds.
const defaultMaxRounds = 8

// ExecFunc runs Cypher text through the execution pipeline and returns the
// formatted result text. Errors are relayed to the model as tool output so it
// can correct its query.
type ExecFunc func(ctx context.Context, query string) (string, error)

// Agent relays natural-language turns to the model and services its
// send_cypher tool calls. Conversation history accumulates across turns for
// the lifetime of the session; it is not persisted.
type Agent struct {
	model       llms.Model
	execute     ExecFunc
	system      string
	temperature float64
	maxRounds   int
	history     []llms.MessageContent
}

// NewAgent creates an Agent. system is the system prompt; execute services
// tool calls.
func NewAgent(model llms.Model, system string, temperature float64, execute ExecFunc) *Agent {
	return &Agent{
		model:       model,
		execute:     execute,
		system:      system,
		temperature: temperature,
		maxRounds:   defaultMaxRounds,
	}
}

// Converse processes one natural-language turn. The model may call
// send_cypher any number of times (up to the round bound); each call's result
// re-enters the model's context before it produces its final reply. The turn
// and the final reply are appended to the conversation history.
func (a *Agent) Converse(ctx context.Context, turn string) (string, error) {
	msgs := make([]llms.MessageContent, 0, len(a.history)+2)
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, a.system))
	msgs = append(msgs, a.history...)
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, turn))

	for round := 0; round < a.maxRounds; round++ {
		resp, err := a.model.GenerateContent(ctx, msgs,
			llms.WithTools([]llms.Tool{cypherTool}),
			llms.WithTemperature(a.temperature),
		)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("model returned no choices")
		}
		choice := resp.Choices[0]
		if len(choice.ToolCalls) == 0 {
			reply := choice.Content
			a.history = append(a.history,
				llms.TextParts(llms.ChatMessageTypeHuman, turn),
				llms.TextParts(llms.ChatMessageTypeAI, reply),
			)
			return reply, nil
		}

		assistant := llms.MessageContent{Role: llms.ChatMessageTypeAI}
		for _, tc := range choice.ToolCalls {
			assistant.Parts = append(assistant.Parts, tc)
		}
		msgs = append(msgs, assistant)

		for _, tc := range choice.ToolCalls {
			msgs = append(msgs, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: tc.ID,
					Name:       ToolName,
					Content:    a.serviceCall(ctx, tc),
				}},
			})
		}
	}
	return "", fmt.Errorf("model did not produce a final reply within %d tool rounds", a.maxRounds)
}

// serviceCall runs one tool call. Failures become tool output rather than
// turn failures: the model reads the error text and can adjust its query.
func (a *Agent) serviceCall(ctx context.Context, tc llms.ToolCall) string {
	if tc.FunctionCall == nil {
		return "error: malformed tool call"
	}
	if tc.FunctionCall.Name != ToolName {
		return fmt.Sprintf("error: unknown tool %q", tc.FunctionCall.Name)
	}
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(tc.FunctionCall.Arguments), &args); err != nil {
		return fmt.Sprintf("error: invalid tool arguments: %v", err)
	}
	out, err := a.execute(ctx, args.Query)
	if err != nil {
		return fmt.Sprintf("Cypher error: %v", err)
	}
	return out
}
