// Package llm provides the model client and the tool-calling bridge between
// the REPL and an LLM provider. The model sees exactly one tool, send_cypher,
// which routes generated query text through the execution pipeline and feeds
// the decoded results back into the conversation.
package llm

import (
	"cypherline/cli/internal/config"
	"cypherline/cli/internal/errors"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// New creates the model client for the configured provider. Configuration
// problems are reported as config_invalid so the caller can fall back to
// Cypher-only mode with a clear message.
func New(cfg config.LLM) (llms.Model, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New(errors.ConfigInvalid,
				"OpenAI API key is required when using the 'openai' provider; set OPENAI_API_KEY")
		}
		return openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.OpenAIModel),
		)
	case "azure_openai":
		if cfg.AzureAPIKey == "" {
			return nil, errors.New(errors.ConfigInvalid,
				"Azure OpenAI API key is required when using the 'azure_openai' provider; set AZURE_OPENAI_API_KEY")
		}
		if cfg.AzureEndpoint == "" {
			return nil, errors.New(errors.ConfigInvalid,
				"Azure OpenAI endpoint is required when using the 'azure_openai' provider; set AZURE_OPENAI_ENDPOINT")
		}
		return openai.New(
			openai.WithAPIType(openai.APITypeAzure),
			openai.WithToken(cfg.AzureAPIKey),
			openai.WithBaseURL(cfg.AzureEndpoint),
			openai.WithAPIVersion(cfg.AzureAPIVersion),
			openai.WithModel(cfg.AzureDeployment),
		)
	default:
		return nil, errors.New(errors.ConfigInvalid,
			"unknown LLM provider '"+cfg.Provider+"'; supported providers are 'openai' and 'azure_openai'")
	}
}
