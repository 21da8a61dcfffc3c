package configs

const (
	PreambleSystem = `system`
	PreambleUser   = `user`
)

type Conversation struct {
	PreambleMessageType string `yaml:"preamble-message-type"` // "system" or "user"
	LogConversations    bool   `yaml:"log-conversations"`     // Log full message traffic
	Language            string `yaml:"language"`              // Locale for prompts and player-facing text
}

func (c *Conversation) Validate() {

	if c.PreambleMessageType != PreambleUser {
		c.PreambleMessageType = PreambleSystem
	}

	if c.Language == `` {
		c.Language = `en`
	}
}
