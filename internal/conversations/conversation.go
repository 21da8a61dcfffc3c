package conversations

import (
	"sync"
	"time"

	"github.com/Almyria/VillagerGPT/internal/llm"
	"github.com/Almyria/VillagerGPT/internal/world"
)

const (
	// IdleTimeout is how long a conversation may sit with no appended
	// message before the sweep ends it.
	IdleTimeout = 120 * time.Second

	// LeaveRadius is the distance (in blocks) beyond which the player
	// counts as having walked away.
	LeaveRadius = 20.0
)

// CharacterInfo identifies the villager side of a conversation.
type CharacterInfo struct {
	ID         world.EntityID
	Name       string
	Profession string
}

// ParticipantInfo identifies the player side of a conversation.
type ParticipantInfo struct {
	ID   world.EntityID
	Name string
}

// Conversation is one live session between a player and a villager.
// Its log always starts with a single preamble message. All mutation
// happens under the session's own lock; concurrent turns are rejected
// through the pending flag rather than queued.
type Conversation struct {
	character   CharacterInfo
	participant ParticipantInfo

	mu            sync.Mutex
	messages      []llm.Message
	lastMessageAt time.Time
	pending       bool
	ended         bool

	world  world.Context
	notify func(Event)
	now    func() time.Time
}

func newConversation(w world.Context, character CharacterInfo, participant ParticipantInfo, notify func(Event)) *Conversation {

	c := &Conversation{
		character:   character,
		participant: participant,
		world:       w,
		notify:      notify,
		now:         time.Now,
	}

	// The preamble is seeded directly, without a MessageAppended event.
	c.messages = []llm.Message{buildPreamble(w, character, participant)}
	c.lastMessageAt = c.now()

	return c
}

func (c *Conversation) Character() CharacterInfo {
	return c.character
}

func (c *Conversation) Participant() ParticipantInfo {
	return c.participant
}

// AddMessage appends to the log and refreshes the activity timestamp.
// Content is not validated. No-op once the conversation has ended.
func (c *Conversation) AddMessage(msg llm.Message) {

	c.mu.Lock()
	if c.ended {
		c.mu.Unlock()
		return
	}
	c.messages = append(c.messages, msg)
	c.lastMessageAt = c.now()
	c.mu.Unlock()

	if c.notify != nil {
		c.notify(MessageAppended{Conversation: c, Message: msg})
	}
}

// RemoveLastMessage undoes the most recent append, so a failed turn can
// be retried without the player's message appearing twice. No-op once
// the conversation has ended.
func (c *Conversation) RemoveLastMessage() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ended || len(c.messages) == 0 {
		return
	}
	c.messages = c.messages[:len(c.messages)-1]
}

// Reset clears the log and rebuilds the preamble from current world
// state.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ended {
		return
	}

	c.messages = []llm.Message{buildPreamble(c.world, c.character, c.participant)}
	c.lastMessageAt = c.now()
}

// Messages returns a snapshot of the log.
func (c *Conversation) Messages() []llm.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]llm.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// HasExpired reports whether the idle timeout has elapsed since the
// last appended message.
func (c *Conversation) HasExpired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now().Sub(c.lastMessageAt) > IdleTimeout
}

// HasParticipantLeft reports whether the player changed worlds or moved
// out of range of the villager.
func (c *Conversation) HasParticipantLeft() bool {

	if c.world.WorldOf(c.participant.ID) != c.world.WorldOf(c.character.ID) {
		return true
	}

	playerPos := c.world.LocationOf(c.participant.ID)
	villagerPos := c.world.LocationOf(c.character.ID)

	return playerPos.DistanceSquaredTo(villagerPos) > LeaveRadius*LeaveRadius
}

// Ended reports whether the conversation has been ended.
func (c *Conversation) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ended
}

// Pending reports whether a reply is currently being generated.
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// beginTurn atomically claims the single in-flight turn slot.
func (c *Conversation) beginTurn() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ended {
		return ErrNoActiveConversation
	}
	if c.pending {
		return ErrConversationBusy
	}

	c.pending = true
	return nil
}

func (c *Conversation) endTurn() {
	c.mu.Lock()
	c.pending = false
	c.mu.Unlock()
}

// end marks the conversation terminal. Returns true only on the first
// call, so enders can emit their notification exactly once.
func (c *Conversation) end() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ended {
		return false
	}
	c.ended = true
	return true
}
