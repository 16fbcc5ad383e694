package config

import (
	"log"
	"os"
)

// Provider selects the text-generation backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderMock   Provider = "mock"
)

type Config struct {
	Addr string

	Provider Provider

	OpenAIAPIKey string
	OpenAIModel  string

	GCPProjectID string
	GCPLocation  string
	GeminiModel  string

	DefaultLength string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads all env vars and builds the config.
func Load() *Config {
	cfg := &Config{
		Addr: ":" + getEnv("SAGES_PORT", "8080"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("SAGES_OPENAI_MODEL", "gpt-3.5-turbo"),

		GCPProjectID: getEnv("SAGES_GCP_PROJECT", ""),
		GCPLocation:  getEnv("SAGES_GCP_LOCATION", "us-central1"),
		GeminiModel:  getEnv("SAGES_GEMINI_MODEL", "gemini-2.5-flash"),

		DefaultLength: getEnv("SAGES_DEFAULT_LENGTH", "medium"),
	}

	// Default provider: OpenAI when a key is present, mock otherwise.
	providerStr := getEnv("SAGES_PROVIDER", "")
	switch providerStr {
	case "openai":
		cfg.Provider = ProviderOpenAI
	case "gemini":
		cfg.Provider = ProviderGemini
	case "mock":
		cfg.Provider = ProviderMock
	case "":
		if cfg.OpenAIAPIKey != "" {
			cfg.Provider = ProviderOpenAI
		} else {
			cfg.Provider = ProviderMock
		}
	default:
		log.Fatalf("unknown SAGES_PROVIDER %q", providerStr)
	}

	// Missing credentials for the selected provider is a startup-time
	// fatal condition.
	if cfg.Provider == ProviderOpenAI && cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY must be set when SAGES_PROVIDER=openai")
	}
	if cfg.Provider == ProviderGemini && cfg.GCPProjectID == "" {
		log.Fatal("SAGES_GCP_PROJECT must be set when SAGES_PROVIDER=gemini")
	}

	return cfg
}
