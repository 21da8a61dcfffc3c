package configs

import (
	"sync"

	"github.com/Almyria/VillagerGPT/internal/fileloader"
	"github.com/Almyria/VillagerGPT/internal/vglog"
)

var (
	configData     Config
	configDataLock sync.RWMutex
)

// ConfigSecret is a string that masks itself when printed or logged.
type ConfigSecret string

func (c ConfigSecret) String() string {
	if c == `` {
		return ``
	}
	return `********`
}

type Config struct {
	Conversation Conversation `yaml:"Conversation"`
	LLM          LLM          `yaml:"LLM"`
	Web          Web          `yaml:"Web"`
	Logging      Logging      `yaml:"Logging"`

	filepath  string `yaml:"-"`
	validated bool   `yaml:"-"`
}

// Validate applies defaults to every section. Implements
// fileloader.LoadableSimple.
func (c *Config) Validate() error {
	c.Conversation.Validate()
	c.LLM.Validate()
	c.Web.Validate()
	c.Logging.Validate()
	c.validated = true
	return nil
}

// Filepath implements fileloader.LoadableSimple.
func (c *Config) Filepath() string {
	if c.filepath == `` {
		return `config.yaml`
	}
	return c.filepath
}

// Load reads the config file at path. A missing file is not an error;
// defaults apply.
func Load(path string) error {

	loaded, err := fileloader.LoadFlatFile[*Config](path)
	if err != nil {
		vglog.Warn("Config", "info", "using defaults", "path", path, "reason", err.Error())
		loaded = &Config{}
		if vErr := loaded.Validate(); vErr != nil {
			return vErr
		}
	}
	loaded.filepath = path

	configDataLock.Lock()
	configData = *loaded
	configDataLock.Unlock()

	return nil
}

// ReplaceConfig swaps in a full config. Used by tests and embedding hosts.
func ReplaceConfig(c Config) {
	c.Validate()
	configDataLock.Lock()
	configData = c
	configDataLock.Unlock()
}

func GetConversationConfig() Conversation {
	configDataLock.Lock()
	defer configDataLock.Unlock()

	if !configData.validated {
		configData.Validate()
	}
	return configData.Conversation
}

func GetLLMConfig() LLM {
	configDataLock.Lock()
	defer configDataLock.Unlock()

	if !configData.validated {
		configData.Validate()
	}
	return configData.LLM
}

func GetWebConfig() Web {
	configDataLock.Lock()
	defer configDataLock.Unlock()

	if !configData.validated {
		configData.Validate()
	}
	return configData.Web
}

func GetLoggingConfig() Logging {
	configDataLock.Lock()
	defer configDataLock.Unlock()

	if !configData.validated {
		configData.Validate()
	}
	return configData.Logging
}
