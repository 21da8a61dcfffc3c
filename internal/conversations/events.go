package conversations

import "github.com/Almyria/VillagerGPT/internal/llm"

// Event is a sealed interface over conversation notifications. The
// engine only defines the payloads; delivery is whatever sinks the
// host registers. The unexported marker method prevents external
// implementations.
type Event interface {
	event()
}

// SessionStarted is emitted once when a conversation is registered.
type SessionStarted struct {
	Conversation *Conversation
}

func (SessionStarted) event() {}

// SessionEnded is emitted exactly once when a conversation ends,
// whatever ended it (command, expiry, departure, shutdown).
type SessionEnded struct {
	Conversation *Conversation
}

func (SessionEnded) event() {}

// MessageAppended is emitted for every message added to a session log
// after the preamble.
type MessageAppended struct {
	Conversation *Conversation
	Message      llm.Message
}

func (MessageAppended) event() {}

// Interface compliance checks.
var (
	_ Event = SessionStarted{}
	_ Event = SessionEnded{}
	_ Event = MessageAppended{}
)

// Notifier consumes conversation events.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(evt Event) { f(evt) }
