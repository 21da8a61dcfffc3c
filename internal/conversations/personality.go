package conversations

import (
	"hash/fnv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Almyria/VillagerGPT/internal/language"
	"github.com/Almyria/VillagerGPT/internal/world"
)

// Personality is one of the fixed villager archetypes.
type Personality int

const (
	Elder Personality = iota
	Optimist
	Grumpy
	Barterer
	Jester
	Serious
	Empath
)

var personalityNames = [...]string{
	Elder:    `ELDER`,
	Optimist: `OPTIMIST`,
	Grumpy:   `GRUMPY`,
	Barterer: `BARTERER`,
	Jester:   `JESTER`,
	Serious:  `SERIOUS`,
	Empath:   `EMPATH`,
}

func (p Personality) String() string {
	if p < 0 || int(p) >= len(personalityNames) {
		return `UNKNOWN`
	}
	return personalityNames[p]
}

// PromptDescription returns the localized persona line for the system
// prompt.
func (p Personality) PromptDescription() string {
	return language.T(`Personality.` + p.String())
}

var personalityCache, _ = lru.New[world.EntityID, Personality](512)

// PersonalityFor selects the archetype for a character. The draw is
// seeded from the character's stable identity, so the same villager
// keeps the same personality across resets and restarts.
func PersonalityFor(id world.EntityID) Personality {

	if p, ok := personalityCache.Get(id); ok {
		return p
	}

	h := fnv.New64a()
	h.Write([]byte(id))
	p := Personality(h.Sum64() % uint64(len(personalityNames)))

	personalityCache.Add(id, p)

	return p
}
