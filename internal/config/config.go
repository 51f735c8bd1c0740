// Package config loads the service configuration from a YAML file and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Environment variables that override the file.
const (
	EnvListenAddr   = "A2UI_LISTEN_ADDR"
	EnvLLMProvider  = "A2UI_LLM_PROVIDER"
	EnvLLMModel     = "A2UI_LLM_MODEL"
	EnvLLMBaseURL   = "A2UI_LLM_BASE_URL"
	EnvLLMAPIKey    = "A2UI_LLM_API_KEY"
	EnvOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// SupportedProviders lists the LLM providers the client factory knows.
var SupportedProviders = sets.New("openai", "anthropic", "mistral", "google", "vertex")

// Config is the full service configuration.
type Config struct {
	// ListenAddr is the address of the preview API
	ListenAddr string `yaml:"listenAddr"`

	LLM LLMConfig `yaml:"llm"`

	Prompt PromptConfig `yaml:"prompt"`

	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LLMConfig selects and parameterizes the model. An empty Provider disables
// the chat endpoint.
type LLMConfig struct {
	// +optional
	Provider string `yaml:"provider,omitempty"`
	// +optional
	Model string `yaml:"model,omitempty"`
	// +optional
	BaseURL string `yaml:"baseURL,omitempty"`
	// APIKey is a token, or the credentials JSON for vertex
	// +optional
	APIKey string `yaml:"apiKey,omitempty"`
	// +optional
	Temperature *float64 `yaml:"temperature,omitempty"`
	// +optional
	MaxTokens int `yaml:"maxTokens,omitempty"`
}

// Enabled reports whether a provider is configured.
func (l LLMConfig) Enabled() bool {
	return l.Provider != ""
}

type PromptConfig struct {
	// Role is the persona the system prompt opens with
	// +optional
	Role string `yaml:"role,omitempty"`
	// +optional
	OmitSchema bool `yaml:"omitSchema,omitempty"`
}

type TelemetryConfig struct {
	// Endpoint of the OTLP/HTTP collector. Empty disables export.
	// +optional
	Endpoint string `yaml:"endpoint,omitempty"`
	// +optional
	Insecure bool `yaml:"insecure,omitempty"`
	// +optional
	ServiceName string `yaml:"serviceName,omitempty"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		ListenAddr: ":8082",
		Telemetry: TelemetryConfig{
			ServiceName: "a2ui-agent",
		},
	}
}

// Load reads path (skipped when empty) over the defaults and then applies the
// environment.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := Parse(data, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// Parse decodes YAML into cfg. Unknown fields are rejected.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from the environment variables that are set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(EnvListenAddr, &c.ListenAddr)
	set(EnvLLMProvider, &c.LLM.Provider)
	set(EnvLLMModel, &c.LLM.Model)
	set(EnvLLMBaseURL, &c.LLM.BaseURL)
	set(EnvLLMAPIKey, &c.LLM.APIKey)
	set(EnvOTLPEndpoint, &c.Telemetry.Endpoint)
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listenAddr must not be empty")
	}
	if c.LLM.Enabled() {
		if !SupportedProviders.Has(c.LLM.Provider) {
			return fmt.Errorf("unsupported provider: %s. Supported providers are: %s",
				c.LLM.Provider, strings.Join(sets.List(SupportedProviders), ", "))
		}
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.apiKey is required for provider %s", c.LLM.Provider)
		}
	}
	if t := c.LLM.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %s", strconv.FormatFloat(*t, 'f', -1, 64))
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm.maxTokens must not be negative")
	}
	return nil
}
