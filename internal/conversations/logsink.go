package conversations

import (
	"github.com/Almyria/VillagerGPT/internal/configs"
	"github.com/Almyria/VillagerGPT/internal/vglog"
)

// NewLogNotifier returns a sink that logs message traffic when the
// log-conversations option is on.
func NewLogNotifier() Notifier {
	return NotifierFunc(func(evt Event) {
		e, ok := evt.(MessageAppended)
		if !ok {
			return
		}

		if !configs.GetConversationConfig().LogConversations {
			return
		}

		vglog.Info("Conversation", "messages",
			"message traffic",
			"villager", e.Conversation.Character().Name,
			"player", e.Conversation.Participant().Name,
			"role", string(e.Message.Role),
			"content", e.Message.Content)
	})
}
