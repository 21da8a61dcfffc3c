package conversations

import (
	"github.com/Almyria/VillagerGPT/internal/configs"
	"github.com/Almyria/VillagerGPT/internal/language"
	"github.com/Almyria/VillagerGPT/internal/llm"
	"github.com/Almyria/VillagerGPT/internal/vglog"
	"github.com/Almyria/VillagerGPT/internal/world"
)

// preambleMarker prefixes the instruction text when it is delivered as
// a user-role message instead of a system-role message.
const preambleMarker = "[SYSTEM MESSAGE]\n\n"

// buildPreamble wraps the instruction prompt according to the
// configured preamble-message-type.
func buildPreamble(w world.Context, character CharacterInfo, participant ParticipantInfo) llm.Message {

	prompt := buildSystemPrompt(w, character, participant)

	if configs.GetConversationConfig().PreambleMessageType == configs.PreambleUser {
		return llm.Message{Role: llm.RoleUser, Content: preambleMarker + prompt}
	}

	return llm.Message{Role: llm.RoleSystem, Content: prompt}
}

// buildSystemPrompt assembles the instruction text from a world
// snapshot, the villager's identity and personality, and the player's
// reputation. Pure aside from a diagnostic log line.
func buildSystemPrompt(w world.Context, character CharacterInfo, participant ParticipantInfo) string {

	worldId := w.WorldOf(character.ID)

	timeOfDay := language.T(`Prompt.TimeDay`)
	if w.TimeOfDay(worldId) == world.Night {
		timeOfDay = language.T(`Prompt.TimeNight`)
	}

	weather := language.T(`Prompt.WeatherClear`)
	if w.IsStorming(worldId) {
		weather = language.T(`Prompt.WeatherStorm`)
	}

	personality := PersonalityFor(character.ID)

	vglog.Info("Conversation", "personality", character.Name+` is `+personality.String())

	return language.T(`Prompt.System`, map[string]any{
		`Time`:         timeOfDay,
		`Weather`:      weather,
		`Biome`:        w.BiomeAt(worldId, w.LocationOf(character.ID)),
		`PlayerName`:   participant.Name,
		`Reputation`:   w.ReputationScore(character.ID, participant.ID),
		`VillagerName`: character.Name,
		`Profession`:   character.Profession,
		`Personality`:  personality.PromptDescription(),
	})
}
