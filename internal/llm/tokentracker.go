package llm

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Almyria/VillagerGPT/internal/vglog"
	"github.com/Almyria/VillagerGPT/internal/world"
)

// Cost per 1K tokens for different models
const (
	CostPerGPT41Nano_Input  = 0.0003 // $0.0003 per 1K input tokens
	CostPerGPT41Nano_Output = 0.0015 // $0.0015 per 1K output tokens

	// Ollama costs are assumed to be zero when run locally
	CostPerOllamaToken = 0.0
)

// TokenUsage holds token usage stats for a participant
type TokenUsage struct {
	TotalCalls   int       `yaml:"total_calls"`
	InputTokens  int       `yaml:"input_tokens"`
	OutputTokens int       `yaml:"output_tokens"`
	TotalCost    float64   `yaml:"total_cost"` // Total cost in dollars
	LastUsed     time.Time `yaml:"last_used"`
}

var (
	// Bounded per-participant usage; entries idle for a day fall out.
	tokenUsage      = expirable.NewLRU[world.EntityID, TokenUsage](1024, nil, 24*time.Hour)
	tokenUsageMutex sync.Mutex
)

// RecordTokenUsage records token usage for a participant
func RecordTokenUsage(participant world.EntityID, model string, inputTokens, outputTokens int) {
	tokenUsageMutex.Lock()
	defer tokenUsageMutex.Unlock()

	usage, _ := tokenUsage.Get(participant)

	usage.TotalCalls++
	usage.InputTokens += inputTokens
	usage.OutputTokens += outputTokens
	usage.LastUsed = time.Now()

	if model == `gpt-4.1-nano` {
		usage.TotalCost += float64(inputTokens) * CostPerGPT41Nano_Input / 1000.0
		usage.TotalCost += float64(outputTokens) * CostPerGPT41Nano_Output / 1000.0
	}
	// Add more models as needed

	tokenUsage.Add(participant, usage)

	vglog.Debug("LLM", "tokens_recorded", "recorded token usage",
		"participant", string(participant), "input", inputTokens, "output", outputTokens)
}

// GetTokenUsage gets token usage for a participant
func GetTokenUsage(participant world.EntityID) TokenUsage {
	tokenUsageMutex.Lock()
	defer tokenUsageMutex.Unlock()

	usage, _ := tokenUsage.Get(participant)
	return usage
}

// EstimateTokenCount gives a rough estimate of token count based on text length.
// Rough estimate: 1 token ~= 4 characters in English
func EstimateTokenCount(text string) int {
	return len(text) / 4
}
