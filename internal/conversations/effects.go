package conversations

import "github.com/Almyria/VillagerGPT/internal/replyparse"

// Effect is a sealed interface over the deferred actions one turn
// produces. The engine never touches the world itself; the caller
// executes effects in order on whatever thread the host requires for
// world mutation.
type Effect interface {
	effect()
}

// DisplayTextEffect shows the villager's reply text to the player.
type DisplayTextEffect struct {
	Conversation *Conversation
	Text         string
}

func (DisplayTextEffect) effect() {}

// ApplyTradeEffect installs the proposed trade offer on the villager.
type ApplyTradeEffect struct {
	Conversation *Conversation
	Offer        replyparse.TradeOffer
}

func (ApplyTradeEffect) effect() {}

// PlayActionEffect performs a gesture or sound at the villager.
type PlayActionEffect struct {
	Conversation *Conversation
	Action       replyparse.Action
}

func (PlayActionEffect) effect() {}

// Interface compliance checks.
var (
	_ Effect = DisplayTextEffect{}
	_ Effect = ApplyTradeEffect{}
	_ Effect = PlayActionEffect{}
)
