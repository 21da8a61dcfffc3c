package web

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/Almyria/VillagerGPT/internal/conversations"
	"github.com/Almyria/VillagerGPT/internal/llm"
	"github.com/Almyria/VillagerGPT/internal/world"
)

type fixedWorld struct{}

func (fixedWorld) TimeOfDay(world.WorldID) world.DayPhase             { return world.Day }
func (fixedWorld) IsStorming(world.WorldID) bool                      { return false }
func (fixedWorld) BiomeAt(world.WorldID, world.Position) string       { return `plains` }
func (fixedWorld) ReputationScore(world.EntityID, world.EntityID) int { return 0 }
func (fixedWorld) WorldOf(world.EntityID) world.WorldID               { return `overworld` }
func (fixedWorld) LocationOf(world.EntityID) world.Position           { return world.Position{} }

func dialBroadcaster(t *testing.T, b *Broadcaster) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(b)
	t.Cleanup(server.Close)

	url := `ws` + strings.TrimPrefix(server.URL, `http`)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestBroadcasterStreamsEvents(t *testing.T) {
	broadcaster := NewBroadcaster()
	defer broadcaster.Close()

	conn := dialBroadcaster(t, broadcaster)

	registry := conversations.NewRegistry(fixedWorld{}, broadcaster)
	c, err := registry.StartConversation(
		conversations.ParticipantInfo{ID: `player-1`, Name: `Steve`},
		conversations.CharacterInfo{ID: `villager-1`, Name: `Joram`, Profession: `farmer`},
	)
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var started eventPayload
	require.NoError(t, conn.ReadJSON(&started))
	require.Equal(t, `session_started`, started.Type)
	require.Equal(t, `Joram`, started.Villager)
	require.Equal(t, `Steve`, started.Player)

	c.AddMessage(llm.Message{Role: llm.RoleUser, Content: `hello`})

	var appended eventPayload
	require.NoError(t, conn.ReadJSON(&appended))
	require.Equal(t, `message`, appended.Type)
	require.Equal(t, `user`, appended.Role)
	require.Equal(t, `hello`, appended.Content)

	registry.EndConversation(c)

	var ended eventPayload
	require.NoError(t, conn.ReadJSON(&ended))
	require.Equal(t, `session_ended`, ended.Type)
}

func TestBroadcasterConcurrentSessions(t *testing.T) {
	broadcaster := NewBroadcaster()
	defer broadcaster.Close()

	conn := dialBroadcaster(t, broadcaster)

	registry := conversations.NewRegistry(fixedWorld{}, broadcaster)
	c1, err := registry.StartConversation(
		conversations.ParticipantInfo{ID: `player-1`, Name: `Steve`},
		conversations.CharacterInfo{ID: `villager-1`, Name: `Joram`, Profession: `farmer`},
	)
	require.NoError(t, err)
	c2, err := registry.StartConversation(
		conversations.ParticipantInfo{ID: `player-2`, Name: `Alex`},
		conversations.CharacterInfo{ID: `villager-2`, Name: `Merel`, Profession: `librarian`},
	)
	require.NoError(t, err)

	// Two sessions appending in parallel must not collide on the
	// client connection; the websocket allows one writer at a time.
	const perSession = 25
	var wg sync.WaitGroup
	for _, c := range []*conversations.Conversation{c1, c2} {
		wg.Add(1)
		go func(c *conversations.Conversation) {
			defer wg.Done()
			for i := 0; i < perSession; i++ {
				c.AddMessage(llm.Message{Role: llm.RoleUser, Content: `hello`})
			}
		}(c)
	}

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	received := 0
	for received < 2+2*perSession {
		var payload eventPayload
		require.NoError(t, conn.ReadJSON(&payload))
		received++
	}

	wg.Wait()
}

func TestBroadcasterDropsDeadConnections(t *testing.T) {
	broadcaster := NewBroadcaster()
	defer broadcaster.Close()

	conn := dialBroadcaster(t, broadcaster)
	conn.Close()

	// Notifying after the client is gone must not panic; the dead
	// connection is pruned on write failure.
	registry := conversations.NewRegistry(fixedWorld{}, broadcaster)
	c, err := registry.StartConversation(
		conversations.ParticipantInfo{ID: `player-1`, Name: `Steve`},
		conversations.CharacterInfo{ID: `villager-1`, Name: `Joram`, Profession: `farmer`},
	)
	require.NoError(t, err)
	registry.EndConversation(c)
}
