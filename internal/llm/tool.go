package llm

import "github.com/tmc/langchaingo/llms"

// ToolName is the single tool exposed to the model.
const ToolName = "send_cypher"

// cypherTool declares the send_cypher function: pure Cypher in, a formatted
// result table (or error text) out.
var cypherTool = llms.Tool{
	Type: "function",
	Function: &llms.FunctionDefinition{
		Name: ToolName,
		Description: "Execute a Cypher query on the AGE/PostgreSQL graph database and return results. " +
			"Use it when the user asks to retrieve/create/update/delete graph data, or to " +
			"count/filter/analyze data stored in the graph. Do NOT use it for conceptual " +
			"questions or syntax explanations. Returns a text table of results, or an error message.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type": "string",
					"description": "The full Cypher statement ONLY: no SQL wrapper, no graph name, " +
						"no trailing semicolon. Example: MATCH (n) RETURN n AS node",
				},
			},
			"required": []string{"query"},
		},
	},
}
