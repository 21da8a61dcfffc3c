package language

import (
	"embed"
	"sync"

	"github.com/Almyria/VillagerGPT/internal/vglog"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

//go:embed locales/*.yaml
var localeFS embed.FS

var (
	bundle      *i18n.Bundle
	localizer   *i18n.Localizer
	localizerMu sync.RWMutex
)

func init() {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc(`yaml`, yaml.Unmarshal)

	for _, name := range []string{`locales/en.yaml`, `locales/fr.yaml`} {
		if _, err := bundle.LoadMessageFileFS(localeFS, name); err != nil {
			panic(`language: bad embedded locale ` + name + `: ` + err.Error())
		}
	}

	localizer = i18n.NewLocalizer(bundle, language.English.String())
}

// SetLanguage switches the active locale. Unknown tags fall back to English.
func SetLanguage(tag string) {
	localizerMu.Lock()
	localizer = i18n.NewLocalizer(bundle, tag, language.English.String())
	localizerMu.Unlock()
}

// T localizes the message with the given id. Template data is optional.
func T(id string, data ...map[string]any) string {
	cfg := &i18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}

	localizerMu.RLock()
	l := localizer
	localizerMu.RUnlock()

	out, err := l.Localize(cfg)
	if err != nil {
		vglog.Warn("Language", "error", "missing message", "id", id, "err", err.Error())
		return id
	}
	return out
}
