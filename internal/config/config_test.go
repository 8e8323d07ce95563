package config

import "testing"

func TestDefaults(t *testing.T) {
	c := defaults()
	if c.Graph != "demo" {
		t.Errorf("Graph = %q, want demo", c.Graph)
	}
	if c.DB.Host != "localhost" || c.DB.Port != "5432" {
		t.Errorf("DB defaults = %+v", c.DB)
	}
	if c.LLM.Provider != "openai" || c.LLM.OpenAIModel != "gpt-4.1" {
		t.Errorf("LLM defaults = %+v", c.LLM)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGPASSWORD", "hunter2")
	t.Setenv("AGE_GRAPH", "flights")
	t.Setenv("OPENAI_TEMPERATURE", "0.7")
	t.Setenv("LLM_PROVIDER", "azure_openai")

	c := defaults()
	applyEnv(&c)

	if c.DB.Host != "db.internal" {
		t.Errorf("Host = %q", c.DB.Host)
	}
	if c.DB.Password != "hunter2" {
		t.Errorf("Password not picked up from PGPASSWORD")
	}
	if c.Graph != "flights" {
		t.Errorf("Graph = %q", c.Graph)
	}
	if c.LLM.Temperature != 0.7 {
		t.Errorf("Temperature = %v", c.LLM.Temperature)
	}
	if c.LLM.Provider != "azure_openai" {
		t.Errorf("Provider = %q", c.LLM.Provider)
	}
	// Unset vars leave defaults intact.
	if c.DB.Port != "5432" {
		t.Errorf("Port = %q, want default", c.DB.Port)
	}
}

func TestApplyEnvBadTemperatureIgnored(t *testing.T) {
	t.Setenv("OPENAI_TEMPERATURE", "warm")
	c := defaults()
	applyEnv(&c)
	if c.LLM.Temperature != 0 {
		t.Errorf("Temperature = %v, want default 0", c.LLM.Temperature)
	}
}
