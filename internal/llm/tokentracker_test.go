package llm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordTokenUsageAccumulates(t *testing.T) {
	RecordTokenUsage(`tracker-player-1`, `gpt-4.1-nano`, 1000, 500)
	RecordTokenUsage(`tracker-player-1`, `gpt-4.1-nano`, 200, 100)

	usage := GetTokenUsage(`tracker-player-1`)
	require.Equal(t, 2, usage.TotalCalls)
	require.Equal(t, 1200, usage.InputTokens)
	require.Equal(t, 600, usage.OutputTokens)
	require.False(t, usage.LastUsed.IsZero())
}

func TestRecordTokenUsageCost(t *testing.T) {
	RecordTokenUsage(`tracker-player-2`, `gpt-4.1-nano`, 1000, 1000)

	usage := GetTokenUsage(`tracker-player-2`)
	require.InDelta(t, CostPerGPT41Nano_Input+CostPerGPT41Nano_Output, usage.TotalCost, 1e-9)
}

func TestRecordTokenUsageUnknownModelHasNoCost(t *testing.T) {
	RecordTokenUsage(`tracker-player-3`, `llama2`, 1000, 1000)

	usage := GetTokenUsage(`tracker-player-3`)
	require.Equal(t, 0.0, usage.TotalCost)
	require.Equal(t, 1000, usage.InputTokens)
}

func TestGetTokenUsageUnknownParticipant(t *testing.T) {
	usage := GetTokenUsage(`never-seen`)
	require.Zero(t, usage.TotalCalls)
}

func TestEstimateTokenCount(t *testing.T) {
	require.Equal(t, 0, EstimateTokenCount(``))
	require.Equal(t, 5, EstimateTokenCount(`twenty characters ok`))
}
