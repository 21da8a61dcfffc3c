package conversations

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Almyria/VillagerGPT/internal/llm"
	"github.com/Almyria/VillagerGPT/internal/replyparse"
)

// Pipeline runs one conversation turn end to end: append the player's
// message, generate a reply, interpret it, and hand back the ordered
// effects. The generation call is the only blocking point and holds no
// locks while in flight.
type Pipeline struct {
	client llm.GenerationClient
}

func NewPipeline(client llm.GenerationClient) *Pipeline {
	return &Pipeline{client: client}
}

// ProcessMessage submits one player message.
//
// Failure modes: ErrConversationBusy when a reply is already in flight
// (nothing is mutated); an error wrapping llm.ErrGenerationUnavailable
// when the backend fails, in which case the player's message has been
// rolled back and can be resubmitted. If the conversation ends while
// the reply is being generated, the turn is dropped silently: nil
// effects, nil error.
func (p *Pipeline) ProcessMessage(ctx context.Context, c *Conversation, playerMessage string) ([]Effect, error) {

	if c == nil {
		return nil, ErrNoActiveConversation
	}

	if err := c.beginTurn(); err != nil {
		return nil, err
	}
	defer c.endTurn()

	c.AddMessage(llm.Message{Role: llm.RoleUser, Content: playerMessage})

	ctx = llm.WithParticipant(ctx, c.Participant().ID)
	replyText, err := p.client.Complete(ctx, c.Messages())
	if err != nil {
		// Undo the player's message so a retry doesn't see it twice.
		c.RemoveLastMessage()
		return nil, errors.Wrap(err, `villager reply`)
	}

	if c.Ended() {
		// Ended while the reply was in flight; discard the result.
		return nil, nil
	}

	c.AddMessage(llm.Message{Role: llm.RoleAssistant, Content: replyText})

	reply := replyparse.Parse(replyText)

	effects := make([]Effect, 0, 2+len(reply.Actions))

	if reply.DisplayText != `` {
		effects = append(effects, DisplayTextEffect{Conversation: c, Text: reply.DisplayText})
	}
	if reply.Offer != nil {
		effects = append(effects, ApplyTradeEffect{Conversation: c, Offer: *reply.Offer})
	}
	for _, action := range reply.Actions {
		effects = append(effects, PlayActionEffect{Conversation: c, Action: action})
	}

	return effects, nil
}
