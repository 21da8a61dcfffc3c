package conversations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Almyria/VillagerGPT/internal/llm"
	"github.com/Almyria/VillagerGPT/internal/world"
)

// stubWorld is a fixed world snapshot for tests. Zero value puts every
// entity at the origin of the same world.
type stubWorld struct {
	worlds     map[world.EntityID]world.WorldID
	positions  map[world.EntityID]world.Position
	phase      world.DayPhase
	storming   bool
	biome      string
	reputation int
}

var _ world.Context = (*stubWorld)(nil)

func (s *stubWorld) TimeOfDay(world.WorldID) world.DayPhase { return s.phase }
func (s *stubWorld) IsStorming(world.WorldID) bool          { return s.storming }
func (s *stubWorld) BiomeAt(world.WorldID, world.Position) string {
	if s.biome == `` {
		return `plains`
	}
	return s.biome
}
func (s *stubWorld) ReputationScore(world.EntityID, world.EntityID) int { return s.reputation }
func (s *stubWorld) WorldOf(id world.EntityID) world.WorldID {
	if w, ok := s.worlds[id]; ok {
		return w
	}
	return `overworld`
}
func (s *stubWorld) LocationOf(id world.EntityID) world.Position { return s.positions[id] }

func testCharacter() CharacterInfo {
	return CharacterInfo{ID: `villager-1`, Name: `Joram`, Profession: `farmer`}
}

func testParticipant() ParticipantInfo {
	return ParticipantInfo{ID: `player-1`, Name: `Steve`}
}

func TestNewConversationSeedsPreamble(t *testing.T) {
	c := newConversation(&stubWorld{}, testCharacter(), testParticipant(), nil)

	messages := c.Messages()
	require.Len(t, messages, 1)
	require.Equal(t, llm.RoleSystem, messages[0].Role)
	require.Contains(t, messages[0].Content, `Joram`)
}

func TestAddAndRemoveMessage(t *testing.T) {
	c := newConversation(&stubWorld{}, testCharacter(), testParticipant(), nil)

	c.AddMessage(llm.Message{Role: llm.RoleUser, Content: `hello`})
	require.Len(t, c.Messages(), 2)

	c.RemoveLastMessage()
	messages := c.Messages()
	require.Len(t, messages, 1)
	require.Equal(t, llm.RoleSystem, messages[0].Role)
}

func TestAddMessageAfterEndIsNoOp(t *testing.T) {
	c := newConversation(&stubWorld{}, testCharacter(), testParticipant(), nil)

	c.end()
	c.AddMessage(llm.Message{Role: llm.RoleUser, Content: `anyone there?`})

	require.Len(t, c.Messages(), 1)
}

func TestRemoveLastMessageAfterEndIsNoOp(t *testing.T) {
	c := newConversation(&stubWorld{}, testCharacter(), testParticipant(), nil)

	c.AddMessage(llm.Message{Role: llm.RoleUser, Content: `hello`})
	c.end()

	c.RemoveLastMessage()
	require.Len(t, c.Messages(), 2)
}

func TestResetRebuildsPreamble(t *testing.T) {
	c := newConversation(&stubWorld{}, testCharacter(), testParticipant(), nil)

	c.AddMessage(llm.Message{Role: llm.RoleUser, Content: `hello`})
	c.AddMessage(llm.Message{Role: llm.RoleAssistant, Content: `well met`})

	c.Reset()

	messages := c.Messages()
	require.Len(t, messages, 1)
	require.Equal(t, llm.RoleSystem, messages[0].Role)
}

func TestHasExpired(t *testing.T) {
	c := newConversation(&stubWorld{}, testCharacter(), testParticipant(), nil)

	base := time.Now()
	c.lastMessageAt = base

	c.now = func() time.Time { return base.Add(IdleTimeout - time.Second) }
	require.False(t, c.HasExpired())

	c.now = func() time.Time { return base.Add(IdleTimeout + time.Second) }
	require.True(t, c.HasExpired())
}

func TestAddMessageRefreshesActivity(t *testing.T) {
	c := newConversation(&stubWorld{}, testCharacter(), testParticipant(), nil)

	base := time.Now()
	c.lastMessageAt = base.Add(-IdleTimeout * 2)
	c.now = func() time.Time { return base }

	c.AddMessage(llm.Message{Role: llm.RoleUser, Content: `still here`})
	require.False(t, c.HasExpired())
}

func TestHasParticipantLeftByDistance(t *testing.T) {
	w := &stubWorld{
		positions: map[world.EntityID]world.Position{
			`villager-1`: {X: 0, Y: 64, Z: 0},
			`player-1`:   {X: 12, Y: 64, Z: 16}, // 20 blocks away exactly
		},
	}
	c := newConversation(w, testCharacter(), testParticipant(), nil)

	require.False(t, c.HasParticipantLeft())

	w.positions[`player-1`] = world.Position{X: 21, Y: 64, Z: 0}
	require.True(t, c.HasParticipantLeft())
}

func TestHasParticipantLeftByWorldChange(t *testing.T) {
	w := &stubWorld{
		worlds: map[world.EntityID]world.WorldID{
			`villager-1`: `overworld`,
			`player-1`:   `the_nether`,
		},
	}
	c := newConversation(w, testCharacter(), testParticipant(), nil)

	require.True(t, c.HasParticipantLeft())
}

func TestBeginTurnClaimsSlot(t *testing.T) {
	c := newConversation(&stubWorld{}, testCharacter(), testParticipant(), nil)

	require.NoError(t, c.beginTurn())
	require.True(t, c.Pending())

	require.ErrorIs(t, c.beginTurn(), ErrConversationBusy)

	c.endTurn()
	require.False(t, c.Pending())
	require.NoError(t, c.beginTurn())
}

func TestBeginTurnAfterEnd(t *testing.T) {
	c := newConversation(&stubWorld{}, testCharacter(), testParticipant(), nil)

	c.end()
	require.ErrorIs(t, c.beginTurn(), ErrNoActiveConversation)
}

func TestEndIsFirstCallOnly(t *testing.T) {
	c := newConversation(&stubWorld{}, testCharacter(), testParticipant(), nil)

	require.True(t, c.end())
	require.False(t, c.end())
	require.True(t, c.Ended())
}

func TestMessagesReturnsSnapshot(t *testing.T) {
	c := newConversation(&stubWorld{}, testCharacter(), testParticipant(), nil)

	snapshot := c.Messages()
	c.AddMessage(llm.Message{Role: llm.RoleUser, Content: `hello`})

	require.Len(t, snapshot, 1)
	require.Len(t, c.Messages(), 2)
}
