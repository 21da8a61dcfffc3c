package conversations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Almyria/VillagerGPT/internal/configs"
	"github.com/Almyria/VillagerGPT/internal/llm"
	"github.com/Almyria/VillagerGPT/internal/world"
)

func TestBuildPreambleDefaultsToSystemRole(t *testing.T) {
	configs.ReplaceConfig(configs.Config{})

	msg := buildPreamble(&stubWorld{}, testCharacter(), testParticipant())
	require.Equal(t, llm.RoleSystem, msg.Role)
	require.False(t, strings.HasPrefix(msg.Content, `[SYSTEM MESSAGE]`))
}

func TestBuildPreambleUserRole(t *testing.T) {
	cfg := configs.Config{}
	cfg.Conversation.PreambleMessageType = configs.PreambleUser
	configs.ReplaceConfig(cfg)
	defer configs.ReplaceConfig(configs.Config{})

	msg := buildPreamble(&stubWorld{}, testCharacter(), testParticipant())
	require.Equal(t, llm.RoleUser, msg.Role)
	require.True(t, strings.HasPrefix(msg.Content, "[SYSTEM MESSAGE]\n\n"))
}

func TestSystemPromptCarriesIdentity(t *testing.T) {
	w := &stubWorld{biome: `sunflower_plains`, reputation: 42}

	prompt := buildSystemPrompt(w, testCharacter(), testParticipant())

	require.Contains(t, prompt, `Joram`)
	require.Contains(t, prompt, `farmer`)
	require.Contains(t, prompt, `Steve`)
	require.Contains(t, prompt, `sunflower_plains`)
	require.Contains(t, prompt, `42`)
}

func TestSystemPromptCarriesGrammar(t *testing.T) {
	prompt := buildSystemPrompt(&stubWorld{}, testCharacter(), testParticipant())

	require.Contains(t, prompt, `TRADE[["{qty} {item}"],["{qty} {item}"]]ENDTRADE`)
	require.Contains(t, prompt, `SHAKE_HEAD`)
	require.Contains(t, prompt, `SOUND_AMBIENT`)
}

func TestSystemPromptWorldSnapshot(t *testing.T) {
	day := buildSystemPrompt(&stubWorld{phase: world.Day}, testCharacter(), testParticipant())
	require.Contains(t, day, `Day`)

	night := buildSystemPrompt(&stubWorld{phase: world.Night, storming: true}, testCharacter(), testParticipant())
	require.Contains(t, night, `Night`)
	require.Contains(t, night, `Rainy`)
}

func TestSystemPromptCarriesPersonality(t *testing.T) {
	character := testCharacter()
	prompt := buildSystemPrompt(&stubWorld{}, character, testParticipant())

	require.Contains(t, prompt, PersonalityFor(character.ID).PromptDescription())
}
