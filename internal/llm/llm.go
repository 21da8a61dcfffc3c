package llm

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Almyria/VillagerGPT/internal/world"
)

// Role tags who authored a conversation message.
type Role string

const (
	RoleSystem    Role = `system`
	RoleUser      Role = `user`
	RoleAssistant Role = `assistant`
)

// Message is one entry in a conversation log. Messages are treated as
// immutable once appended.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// ErrGenerationUnavailable is returned when the generation backend
// cannot produce a completion. The transport cause is wrapped and
// reachable through errors.Cause / errors.Is chains.
var ErrGenerationUnavailable = errors.New(`generation service unavailable`)

// GenerationClient is the narrow capability the engine needs from the
// language-generation backend.
type GenerationClient interface {
	// Complete submits the full ordered message log and returns the
	// generated reply text.
	Complete(ctx context.Context, messages []Message) (string, error)
}

type participantKey struct{}

// WithParticipant tags a request context with the participant the
// completion is generated for, so the client can attribute token usage.
func WithParticipant(ctx context.Context, id world.EntityID) context.Context {
	return context.WithValue(ctx, participantKey{}, id)
}

func participantFrom(ctx context.Context) world.EntityID {
	id, _ := ctx.Value(participantKey{}).(world.EntityID)
	return id
}
