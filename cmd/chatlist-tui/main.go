// Command chatlist-tui starts the ChatList TUI — an interactive terminal
// interface for fanning prompts out to every configured LLM endpoint and
// comparing the responses side by side.
//
// Usage:
//
//	go run ./cmd/chatlist-tui --config chatlist.json
//	# or after building:
//	./chatlist-tui --config chatlist.json
//
// The TUI provides:
//   - Split-pane layout: endpoint sidebar + response cards + prompt input
//   - One keystroke sends the prompt to all active endpoints concurrently
//   - Favorite toggling on saved results (Tab, then 1-9)
//   - Works over SSH, tmux, screen — no GUI needed
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chatlist/chatlist/internal/config"
	"github.com/chatlist/chatlist/internal/llm"
	"github.com/chatlist/chatlist/internal/runner"
	"github.com/chatlist/chatlist/internal/store"
	"github.com/chatlist/chatlist/internal/tui"
)

func main() {
	configPath := flag.String("config", "chatlist.json", "path to config file")
	flag.Parse()

	cfg, err := config.LoadOrInit(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	// Set up logging to file (stdout is owned by the TUI)
	logFile, err := os.OpenFile("chatlist-tui.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close() //nolint:errcheck

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	st, err := store.Open(cfg.DBPath(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close() //nolint:errcheck

	if err := st.Seed(); err != nil {
		fmt.Fprintf(os.Stderr, "error seeding database: %v\n", err)
		os.Exit(1)
	}

	settings, err := st.Settings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading settings: %v\n", err)
		os.Exit(1)
	}

	client := llm.NewClient(time.Duration(settings.RequestTimeout)*time.Second, logger)
	client.SetMaxTokens(cfg.Request.MaxTokens)

	keys := cfg.APIKeys
	client.SetCredentialResolver(func(p llm.Provider) string {
		if k, ok := keys[p.String()]; ok && k != "" {
			return k
		}
		return llm.EnvCredentials(p)
	})

	rn := runner.New(st, client, logger)

	logger.Info("starting TUI", "db", cfg.DBPath())
	if err := tui.Run(st, rn, logger); err != nil {
		fmt.Fprintf(os.Stderr, "error running TUI: %v\n", err)
		os.Exit(1)
	}
}
