package conversations

import (
	"sync"

	"github.com/Almyria/VillagerGPT/internal/vglog"
	"github.com/Almyria/VillagerGPT/internal/world"
)

// Registry owns every live conversation. It enforces at most one
// conversation per villager and one per player, and fans events out to
// registered sinks.
type Registry struct {
	mu            sync.RWMutex
	byParticipant map[world.EntityID]*Conversation
	byCharacter   map[world.EntityID]*Conversation
	notifiers     []Notifier

	world world.Context
}

func NewRegistry(w world.Context, notifiers ...Notifier) *Registry {
	return &Registry{
		byParticipant: map[world.EntityID]*Conversation{},
		byCharacter:   map[world.EntityID]*Conversation{},
		notifiers:     notifiers,
		world:         w,
	}
}

// AddNotifier registers an additional event sink.
func (r *Registry) AddNotifier(n Notifier) {
	r.mu.Lock()
	r.notifiers = append(r.notifiers, n)
	r.mu.Unlock()
}

func (r *Registry) notify(evt Event) {
	r.mu.RLock()
	sinks := make([]Notifier, len(r.notifiers))
	copy(sinks, r.notifiers)
	r.mu.RUnlock()

	for _, n := range sinks {
		n.Notify(evt)
	}
}

// StartConversation pairs a player with a villager. Fails with
// ErrAlreadyInConversation when either side already owns a session; the
// existing session is untouched.
func (r *Registry) StartConversation(participant ParticipantInfo, character CharacterInfo) (*Conversation, error) {

	r.mu.Lock()

	if _, busy := r.byParticipant[participant.ID]; busy {
		r.mu.Unlock()
		return nil, ErrAlreadyInConversation
	}
	if _, busy := r.byCharacter[character.ID]; busy {
		r.mu.Unlock()
		return nil, ErrAlreadyInConversation
	}

	c := newConversation(r.world, character, participant, r.notify)
	r.byParticipant[participant.ID] = c
	r.byCharacter[character.ID] = c

	r.mu.Unlock()

	vglog.Info("Conversation", "start", "conversation started", "villager", character.Name, "player", participant.Name)
	r.notify(SessionStarted{Conversation: c})

	return c, nil
}

// GetByParticipant returns the player's live conversation, or nil.
func (r *Registry) GetByParticipant(id world.EntityID) *Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byParticipant[id]
}

// GetByCharacter returns the villager's live conversation, or nil.
func (r *Registry) GetByCharacter(id world.EntityID) *Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byCharacter[id]
}

// EndConversation removes the conversation and marks it terminal.
// Idempotent: ending an already-ended conversation is a no-op, and the
// SessionEnded event fires exactly once.
func (r *Registry) EndConversation(c *Conversation) {
	if c == nil {
		return
	}

	first := c.end()

	r.mu.Lock()
	if r.byParticipant[c.participant.ID] == c {
		delete(r.byParticipant, c.participant.ID)
	}
	if r.byCharacter[c.character.ID] == c {
		delete(r.byCharacter, c.character.ID)
	}
	r.mu.Unlock()

	if first {
		vglog.Info("Conversation", "end", "conversation ended", "villager", c.character.Name, "player", c.participant.Name)
		r.notify(SessionEnded{Conversation: c})
	}
}

// Live returns a snapshot of every live conversation.
func (r *Registry) Live() []*Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Conversation, 0, len(r.byParticipant))
	for _, c := range r.byParticipant {
		out = append(out, c)
	}
	return out
}

// Sweep ends every conversation that has expired or whose player has
// left, and returns how many were ended. Drive it from a ticker.
func (r *Registry) Sweep() int {

	ended := 0
	for _, c := range r.Live() {
		if c.HasExpired() || c.HasParticipantLeft() {
			r.EndConversation(c)
			ended++
		}
	}

	if ended > 0 {
		vglog.Debug("Conversation", "sweep", "reaped conversations", "count", ended)
	}

	return ended
}

// Shutdown ends every live conversation.
func (r *Registry) Shutdown() {
	for _, c := range r.Live() {
		r.EndConversation(c)
	}
}
