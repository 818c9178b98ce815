// Command chatlist sends one prompt to every configured LLM endpoint
// concurrently and records the responses.
//
// Usage:
//
//	chatlist init
//	chatlist send "explain goroutines in one paragraph"
//	chatlist prompts -search goroutines
//	chatlist results 3
//	chatlist favorites
//	chatlist favorite 7
//	chatlist endpoints list
//	chatlist endpoints import endpoints.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chatlist/chatlist/internal/config"
	"github.com/chatlist/chatlist/internal/llm"
	"github.com/chatlist/chatlist/internal/runner"
	"github.com/chatlist/chatlist/internal/store"
	"github.com/chatlist/chatlist/internal/tui"
)

func main() {
	configPath := flag.String("config", "chatlist.json", "path to config file")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadOrInit(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

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

	app := &app{cfg: cfg, store: st, logger: logger}

	if err := app.dispatch(args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `ChatList — fan one prompt out to many LLM endpoints

Usage: chatlist [-config path] <command> [args]

Commands:
  init                      create config, database and seed endpoints
  send <prompt>             fan the prompt out to all active endpoints
  stream <prompt>           stream from the single first active endpoint
  prompts                   list stored prompts
  results <prompt-id>       show saved results for a prompt
  favorites                 list favorited results
  favorite <result-id>      toggle favorite on a result
  endpoints <subcommand>    list | add | import | export | enable | disable
  settings [key [value]]    show or change stored settings
`)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

type app struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

func (a *app) dispatch(command string, args []string) error {
	switch command {
	case "init":
		// Config, schema and seed already ran; nothing left to do.
		fmt.Println("initialized:", a.cfg.DBPath())
		return nil
	case "send":
		return a.cmdSend(args)
	case "stream":
		return a.cmdStream(args)
	case "prompts":
		return a.cmdPrompts(args)
	case "results":
		return a.cmdResults(args)
	case "favorites":
		return a.cmdFavorites(args)
	case "favorite":
		return a.cmdFavorite(args)
	case "endpoints":
		return a.cmdEndpoints(args)
	case "settings":
		return a.cmdSettings(args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// newClient builds the fan-out client from stored settings and config.
// Keys in the config file win over environment variables.
func (a *app) newClient() (*llm.Client, error) {
	settings, err := a.store.Settings()
	if err != nil {
		return nil, err
	}

	client := llm.NewClient(time.Duration(settings.RequestTimeout)*time.Second, a.logger)
	client.SetMaxTokens(a.cfg.Request.MaxTokens)

	keys := a.cfg.APIKeys
	client.SetCredentialResolver(func(p llm.Provider) string {
		if k, ok := keys[p.String()]; ok && k != "" {
			return k
		}
		return llm.EnvCredentials(p)
	})
	return client, nil
}

func (a *app) cmdSend(args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	author := fs.String("author", "", "prompt author recorded in the database")
	_ = fs.Parse(args)

	prompt := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if prompt == "" {
		return fmt.Errorf("send: empty prompt")
	}

	client, err := a.newClient()
	if err != nil {
		return err
	}

	if *author == "" {
		settings, err := a.store.Settings()
		if err != nil {
			return err
		}
		*author = settings.DefaultAuthor
	}

	run, err := runner.New(a.store, client, a.logger).Run(context.Background(), prompt, *author)
	if err != nil {
		return err
	}

	fmt.Printf("run %s (%s)\n\n", run.ID, tui.FormatElapsed(run.Elapsed))
	for _, item := range run.Items {
		if item.Outcome.Success {
			fmt.Printf("── %s ── ok, %d tokens (result %d)\n", item.Endpoint.Name, item.Outcome.TokensUsed, item.ResultID)
			fmt.Println(item.Outcome.Content)
		} else {
			fmt.Printf("── %s ── FAILED\n", item.Endpoint.Name)
			fmt.Println(item.Outcome.Err)
		}
		fmt.Println()
	}
	return nil
}

func (a *app) cmdStream(args []string) error {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return fmt.Errorf("stream: empty prompt")
	}

	endpoints, err := a.store.ListEndpoints(true)
	if err != nil {
		return err
	}
	if len(endpoints) == 0 {
		return fmt.Errorf("no active endpoints configured")
	}
	ep := endpoints[0]

	client, err := a.newClient()
	if err != nil {
		return err
	}

	fmt.Printf("── %s ──\n", ep.Name)
	out := client.SendStream(context.Background(), ep.Descriptor(), prompt, func(chunk string) {
		fmt.Print(chunk)
	})
	fmt.Println()

	if !out.Success {
		return fmt.Errorf("stream failed: %s", out.Err)
	}

	promptID, err := a.store.CreatePrompt(prompt, "user")
	if err != nil {
		return err
	}
	_, err = a.store.SaveResult(store.Result{
		PromptID:   promptID,
		EndpointID: ep.ID,
		Response:   out.Content,
		TokensUsed: out.TokensUsed,
	})
	return err
}

func (a *app) cmdPrompts(args []string) error {
	fs := flag.NewFlagSet("prompts", flag.ExitOnError)
	search := fs.String("search", "", "substring to search prompt text for")
	from := fs.String("from", "", "earliest date (YYYY-MM-DD)")
	to := fs.String("to", "", "latest date (YYYY-MM-DD)")
	limit := fs.Int("limit", 100, "maximum number of prompts")
	_ = fs.Parse(args)

	prompts, err := a.store.ListPrompts(store.PromptFilter{
		Search:   *search,
		DateFrom: *from,
		DateTo:   *to,
		Limit:    *limit,
	})
	if err != nil {
		return err
	}

	for _, p := range prompts {
		fmt.Printf("%4d  %s  %-8s  %s\n", p.ID, p.CreatedAt.Format("2006-01-02 15:04"), p.Author, oneLine(p.Text, 80))
	}
	return nil
}

func (a *app) cmdResults(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("results: expected a prompt id")
	}
	promptID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("results: bad prompt id %q", args[0])
	}

	results, err := a.store.ResultsForPrompt(promptID)
	if err != nil {
		return err
	}

	for _, r := range results {
		star := " "
		if r.Favorite {
			star = "★"
		}
		fmt.Printf("%4d %s %-28s %s\n", r.ID, star, r.EndpointName, oneLine(r.Response, 70))
	}
	return nil
}

func (a *app) cmdFavorites(_ []string) error {
	favs, err := a.store.Favorites()
	if err != nil {
		return err
	}

	for _, r := range favs {
		fmt.Printf("%4d  %-28s  %s\n", r.ID, r.EndpointName, oneLine(r.PromptText, 40))
		fmt.Printf("      %s\n", oneLine(r.Response, 90))
	}
	return nil
}

func (a *app) cmdFavorite(args []string) error {
	fs := flag.NewFlagSet("favorite", flag.ExitOnError)
	unset := fs.Bool("unset", false, "remove the favorite mark instead")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("favorite: expected a result id")
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("favorite: bad result id %q", fs.Arg(0))
	}

	ok, err := a.store.SetFavorite(id, !*unset)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("favorite: no result with id %d", id)
	}
	return nil
}

func (a *app) cmdEndpoints(args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		endpoints, err := a.store.ListEndpoints(false)
		if err != nil {
			return err
		}
		for _, e := range endpoints {
			state := "off"
			if e.Active {
				state = "on "
			}
			fmt.Printf("%4d  [%s]  %-32s  %-40s  %s\n", e.ID, state, e.Name, e.APIID, e.APIURL)
		}
		return nil

	case "add":
		fs := flag.NewFlagSet("endpoints add", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		url := fs.String("url", "", "full POST URL")
		model := fs.String("model", "", "provider-specific model id")
		_ = fs.Parse(args[1:])
		if *name == "" || *url == "" || *model == "" {
			return fmt.Errorf("endpoints add: -name, -url and -model are required")
		}
		id, err := a.store.CreateEndpoint(store.Endpoint{Name: *name, APIURL: *url, APIID: *model, Active: true})
		if err != nil {
			return err
		}
		fmt.Println("added endpoint", id)
		return nil

	case "import":
		if len(args) != 2 {
			return fmt.Errorf("endpoints import: expected a YAML file path")
		}
		defs, err := config.LoadEndpointsFile(args[1])
		if err != nil {
			return err
		}
		for _, d := range defs {
			if _, err := a.store.CreateEndpoint(store.Endpoint{Name: d.Name, APIURL: d.URL, APIID: d.Model, Active: d.Active}); err != nil {
				return fmt.Errorf("import %q: %w", d.Name, err)
			}
		}
		fmt.Printf("imported %d endpoints\n", len(defs))
		return nil

	case "export":
		if len(args) != 2 {
			return fmt.Errorf("endpoints export: expected a YAML file path")
		}
		endpoints, err := a.store.ListEndpoints(false)
		if err != nil {
			return err
		}
		defs := make([]config.EndpointDef, len(endpoints))
		for i, e := range endpoints {
			defs[i] = config.EndpointDef{Name: e.Name, URL: e.APIURL, Model: e.APIID, Active: e.Active}
		}
		return config.SaveEndpointsFile(args[1], defs)

	case "enable", "disable":
		if len(args) != 2 {
			return fmt.Errorf("endpoints %s: expected an endpoint id", args[0])
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("endpoints %s: bad id %q", args[0], args[1])
		}
		e, err := a.store.GetEndpoint(id)
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("no endpoint with id %d", id)
		}
		e.Active = args[0] == "enable"
		_, err = a.store.UpdateEndpoint(*e)
		return err

	default:
		return fmt.Errorf("endpoints: unknown subcommand %q", args[0])
	}
}

func (a *app) cmdSettings(args []string) error {
	switch len(args) {
	case 0:
		settings, err := a.store.Settings()
		if err != nil {
			return err
		}
		fmt.Printf("theme            %s\n", settings.Theme)
		fmt.Printf("default_author   %s\n", settings.DefaultAuthor)
		fmt.Printf("request_timeout  %d\n", settings.RequestTimeout)
		return nil
	case 1:
		value, err := a.store.GetSetting(args[0], "")
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	case 2:
		return a.store.SetSetting(args[0], args[1])
	default:
		return fmt.Errorf("settings: expected [key [value]]")
	}
}

func oneLine(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}
