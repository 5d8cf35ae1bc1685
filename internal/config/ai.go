package config

import (
	"os"
	"strconv"
)

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Classify reads scraped website content (short prompt, fast model)
	Classify string `json:"classify"`

	// Report writes the HTML archetype report (long output)
	Report string `json:"report"`

	// Analyze produces the free-form answer analysis
	Analyze string `json:"analyze"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`
}

// DefaultAIConfig returns the AI configuration from the environment
func DefaultAIConfig() *AIConfig {
	timeout, err := strconv.Atoi(getEnvOrDefault("AI_TIMEOUT_MS", "30000"))
	if err != nil || timeout <= 0 {
		timeout = 30000
	}

	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		Models: GeminiModels{
			Classify: getEnvOrDefault("GEMINI_MODEL_CLASSIFY", "gemini-2.0-flash"),
			Report:   getEnvOrDefault("GEMINI_MODEL_REPORT", "gemini-2.0-flash"),
			Analyze:  getEnvOrDefault("GEMINI_MODEL_ANALYZE", "gemini-2.0-flash"),
		},
		TimeoutMS: timeout,
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}
