package configs

import "os"

const (
	ProviderOpenAI = `openai`
	ProviderOllama = `ollama`
)

type LLM struct {
	Enabled     bool         `yaml:"Enabled"`     // Whether LLM generation is enabled
	Provider    string       `yaml:"Provider"`    // "openai" or "ollama"
	Model       string       `yaml:"Model"`       // The model to use (e.g., "gpt-4.1-nano")
	BaseURL     string       `yaml:"BaseURL"`     // Base URL for the LLM API
	APIKey      ConfigSecret `yaml:"APIKey"` // Falls back to OPENAI_API_KEY when unset
	Temperature float64      `yaml:"Temperature"` // Temperature for response generation (0.0-1.0)
	MaxTokens   int          `yaml:"MaxTokens"`   // Response length cap
}

func (l *LLM) Validate() {

	if l.Provider != ProviderOllama {
		l.Provider = ProviderOpenAI
	}

	if l.Temperature < 0.0 {
		l.Temperature = 0.7
	} else if l.Temperature > 1.0 {
		l.Temperature = 1.0
	}

	if l.MaxTokens < 1 {
		l.MaxTokens = 500
	}

	if l.Model == `` {
		if l.Provider == ProviderOllama {
			l.Model = `llama2`
		} else {
			l.Model = `gpt-4.1-nano`
		}
	}

	if l.BaseURL == `` {
		if l.Provider == ProviderOllama {
			l.BaseURL = `http://localhost:11434`
		} else {
			l.BaseURL = `https://api.openai.com/v1`
		}
	}

	if l.APIKey == `` {
		l.APIKey = ConfigSecret(os.Getenv(`OPENAI_API_KEY`))
	}
}
