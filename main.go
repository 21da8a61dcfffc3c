package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Almyria/VillagerGPT/internal/configs"
	"github.com/Almyria/VillagerGPT/internal/conversations"
	"github.com/Almyria/VillagerGPT/internal/language"
	"github.com/Almyria/VillagerGPT/internal/llm"
	"github.com/Almyria/VillagerGPT/internal/vglog"
	"github.com/Almyria/VillagerGPT/internal/web"
)

// Standalone harness: wires the engine against a stub world and drives
// one villager conversation from stdin. Game servers embed the
// internal packages directly instead of running this.

const sweepInterval = 10 * time.Second

func main() {

	configPath := flag.String(`config`, `config.yaml`, `path to config file`)
	flag.Parse()

	if err := configs.Load(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, `config:`, err)
		os.Exit(1)
	}

	logCfg := configs.GetLoggingConfig()
	vglog.Setup(vglog.Config{
		Level:      logCfg.Level,
		FilePath:   logCfg.FilePath,
		MaxSizeMb:  logCfg.MaxSizeMb,
		MaxBackups: logCfg.MaxBackups,
		MaxAgeDays: logCfg.MaxAgeDays,
	})

	language.SetLanguage(configs.GetConversationConfig().Language)

	w := newDemoWorld()
	registry := conversations.NewRegistry(w, conversations.NewLogNotifier())
	pipeline := conversations.NewPipeline(llm.NewClient())

	if webCfg := configs.GetWebConfig(); webCfg.Enabled {
		broadcaster := web.NewBroadcaster()
		registry.AddNotifier(broadcaster)
		go func() {
			mux := http.NewServeMux()
			mux.Handle(`/events`, broadcaster)
			vglog.Info("Web", "info", "serving event stream", "addr", webCfg.ListenAddr)
			if err := http.ListenAndServe(webCfg.ListenAddr, mux); err != nil {
				vglog.Error("Web", "error", "event stream server stopped", "err", err.Error())
			}
		}()
	}

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				registry.Sweep()
			case <-stop:
				return
			}
		}
	}()

	villager := conversations.CharacterInfo{
		ID:         `villager-5f1c`,
		Name:       `Joram`,
		Profession: `farmer`,
	}
	player := conversations.ParticipantInfo{
		ID:   `player-1`,
		Name: `Steve`,
	}

	conv, err := registry.StartConversation(player, villager)
	if err != nil {
		fmt.Fprintln(os.Stderr, `start:`, err)
		os.Exit(1)
	}

	fmt.Println(language.T(`Notify.ConversationStarted`, map[string]any{`Villager`: villager.Name}))
	fmt.Println(`Commands: /end, /reset, /quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(`> `)
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == `` {
			continue
		}

		switch line {
		case `/quit`:
			registry.Shutdown()
			close(stop)
			return

		case `/end`, `/ttvend`:
			if c := registry.GetByParticipant(player.ID); c != nil {
				registry.EndConversation(c)
				fmt.Println(language.T(`Notify.ConversationEnded`, map[string]any{`Villager`: villager.Name}))
			} else {
				fmt.Println(language.T(`Notify.NoConversation`))
			}
			continue

		case `/reset`:
			if c := registry.GetByParticipant(player.ID); c != nil {
				c.Reset()
				fmt.Println(`(context cleared)`)
			} else {
				fmt.Println(language.T(`Notify.NoConversation`))
			}
			continue
		}

		conv = registry.GetByParticipant(player.ID)
		if conv == nil {
			fmt.Println(language.T(`Notify.NoConversation`))
			continue
		}

		effects, err := pipeline.ProcessMessage(context.Background(), conv, line)
		if err != nil {
			switch {
			case errors.Is(err, conversations.ErrConversationBusy):
				fmt.Println(language.T(`Notify.AwaitingReply`, map[string]any{`Villager`: villager.Name}))
			case errors.Is(err, conversations.ErrNoActiveConversation):
				fmt.Println(language.T(`Notify.NoConversation`))
			default:
				fmt.Println(language.T(`Notify.ReplyProblem`, map[string]any{`Villager`: villager.Name}))
			}
			continue
		}

		runEffects(villager.Name, effects)
	}

	registry.Shutdown()
	close(stop)
}

// runEffects plays the turn's deferred effects. A real host applies
// these on its world-update thread; here we print them.
func runEffects(villagerName string, effects []conversations.Effect) {
	for _, effect := range effects {
		switch e := effect.(type) {
		case conversations.DisplayTextEffect:
			fmt.Printf("<%s> %s\n", villagerName, e.Text)
		case conversations.ApplyTradeEffect:
			fmt.Printf("[trade] %s offers %v for %v\n", villagerName, e.Offer.Result, e.Offer.Ingredients)
		case conversations.PlayActionEffect:
			fmt.Printf("[action] %s: %s\n", villagerName, e.Action)
		}
	}
}
