package conversations

import "errors"

// Typed outcomes for the recoverable conversation failures. Callers
// show a player-facing message and nothing else changes.
var (
	// ErrAlreadyInConversation means the villager or the player already
	// owns an active conversation.
	ErrAlreadyInConversation = errors.New(`already in a conversation`)

	// ErrNoActiveConversation means the operation targeted a player or
	// villager with no live conversation.
	ErrNoActiveConversation = errors.New(`no active conversation`)

	// ErrConversationBusy means a turn was submitted while a reply was
	// still being generated. No state is mutated.
	ErrConversationBusy = errors.New(`conversation is awaiting a reply`)
)
