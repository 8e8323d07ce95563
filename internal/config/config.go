// Package config loads and stores CLI configuration. Non-secret settings live
// in a JSON file under the XDG config dir and can be overridden through the
// environment; secrets (passwords, API keys) come only from the environment or
// the OS keychain and are never written to the file.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"cypherline/cli/internal/xdg"
)

// Config holds non-sensitive CLI settings plus secrets resolved at load time.
type Config struct {
	Graph string `json:"graph"`
	DB    DB     `json:"db"`
	LLM   LLM    `json:"llm"`
}

// DB holds database connection settings. Password is resolved from the
// environment or keychain and is excluded from the config file.
type DB struct {
	DSN      string `json:"dsn,omitempty"`
	Host     string `json:"host,omitempty"`
	Port     string `json:"port,omitempty"`
	Database string `json:"database,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"-"`
}

// LLM holds model provider settings. API keys are excluded from the config
// file.
type LLM struct {
	Provider        string  `json:"provider"`
	OpenAIModel     string  `json:"openai_model"`
	Temperature     float64 `json:"temperature"`
	OpenAIAPIKey    string  `json:"-"`
	AzureAPIKey     string  `json:"-"`
	AzureEndpoint   string  `json:"azure_endpoint,omitempty"`
	AzureAPIVersion string  `json:"azure_api_version,omitempty"`
	AzureDeployment string  `json:"azure_deployment,omitempty"`
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config file (missing file yields defaults), then applies
// environment overrides on top.
func Load() (Config, error) {
	c := defaults()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, err
	}
	if err == nil {
		if err := json.Unmarshal(data, &c); err != nil {
			return c, err
		}
	}
	applyEnv(&c)
	return c, nil
}

// Save writes the non-secret settings with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

func defaults() Config {
	return Config{
		Graph: "demo",
		DB: DB{
			Host:     "localhost",
			Port:     "5432",
			Database: "postgres",
			User:     "postgres",
		},
		LLM: LLM{
			Provider:    "openai",
			OpenAIModel: "gpt-4.1",
			Temperature: 0,
		},
	}
}

// applyEnv layers environment values over the loaded config. The standard
// libpq variables (PGHOST etc.) and DATABASE_URL are honored so the CLI drops
// into existing Postgres setups without its own config file.
func applyEnv(c *Config) {
	setIf(&c.DB.DSN, "DATABASE_URL")
	setIf(&c.DB.Host, "PGHOST")
	setIf(&c.DB.Port, "PGPORT")
	setIf(&c.DB.Database, "PGDATABASE")
	setIf(&c.DB.User, "PGUSER")
	setIf(&c.DB.Password, "PGPASSWORD")

	setIf(&c.Graph, "AGE_GRAPH")

	setIf(&c.LLM.Provider, "LLM_PROVIDER")
	setIf(&c.LLM.OpenAIModel, "OPENAI_MODEL_NAME")
	setIf(&c.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	setIf(&c.LLM.AzureAPIKey, "AZURE_OPENAI_API_KEY")
	setIf(&c.LLM.AzureEndpoint, "AZURE_OPENAI_ENDPOINT")
	setIf(&c.LLM.AzureAPIVersion, "AZURE_OPENAI_API_VERSION")
	setIf(&c.LLM.AzureDeployment, "AZURE_OPENAI_DEPLOYMENT")
	if v := os.Getenv("OPENAI_TEMPERATURE"); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			c.LLM.Temperature = t
		}
	}
}

func setIf(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
