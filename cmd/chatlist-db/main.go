// Command chatlist-db inspects a ChatList database: row counts per table
// plus a dump of the most recent rows, useful when debugging seed data or
// verifying that runs were saved.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/chatlist/chatlist/internal/config"
	"github.com/chatlist/chatlist/internal/store"
)

func main() {
	configPath := flag.String("config", "chatlist.json", "path to config file")
	dbPath := flag.String("db", "", "database path (overrides the config)")
	limit := flag.Int("limit", 10, "rows to dump per table")
	flag.Parse()

	path := *dbPath
	if path == "" {
		cfg, err := config.LoadOrInit(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		path = cfg.DBPath()
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	st, err := store.Open(path, logger)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer st.Close() //nolint:errcheck

	db := st.DB()
	fmt.Println("database:", path)
	fmt.Println()

	for _, table := range []string{"prompts", "endpoints", "results", "settings"} {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			log.Fatalf("count %s: %v", table, err)
		}
		fmt.Printf("%-10s %d rows\n", table, n)
	}
	fmt.Println()

	dumpPrompts(db, *limit)
	dumpEndpoints(db)
	dumpResults(db, *limit)
	dumpSettings(db)
}

func dumpPrompts(db *sql.DB, limit int) {
	fmt.Println("── prompts ──")
	rows, err := db.Query("SELECT id, text, author, created_at FROM prompts ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		log.Fatalf("query prompts: %v", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var (
			id        int64
			text      string
			author    string
			createdAt int64
		)
		if err := rows.Scan(&id, &text, &author, &createdAt); err != nil {
			log.Fatalf("scan prompt: %v", err)
		}
		fmt.Printf("%4d  %s  %-8s  %s\n", id, time.Unix(createdAt, 0).Format("2006-01-02 15:04"), author, clip(text, 70))
	}
	fmt.Println()
}

func dumpEndpoints(db *sql.DB) {
	fmt.Println("── endpoints ──")
	rows, err := db.Query("SELECT id, name, api_url, api_id, active FROM endpoints ORDER BY id")
	if err != nil {
		log.Fatalf("query endpoints: %v", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var (
			id     int64
			name   string
			apiURL string
			apiID  string
			active int
		)
		if err := rows.Scan(&id, &name, &apiURL, &apiID, &active); err != nil {
			log.Fatalf("scan endpoint: %v", err)
		}
		state := "off"
		if active != 0 {
			state = "on "
		}
		fmt.Printf("%4d  [%s]  %-32s  %-40s  %s\n", id, state, name, apiID, apiURL)
	}
	fmt.Println()
}

func dumpResults(db *sql.DB, limit int) {
	fmt.Println("── results ──")
	rows, err := db.Query(`
		SELECT r.id, r.prompt_id, e.name, r.run_id, r.tokens_used, r.favorite, r.response_text
		FROM results r
		JOIN endpoints e ON e.id = r.endpoint_id
		ORDER BY r.id DESC LIMIT ?`, limit)
	if err != nil {
		log.Fatalf("query results: %v", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var (
			id       int64
			promptID int64
			name     string
			runID    string
			tokens   int
			favorite int
			response string
		)
		if err := rows.Scan(&id, &promptID, &name, &runID, &tokens, &favorite, &response); err != nil {
			log.Fatalf("scan result: %v", err)
		}
		star := " "
		if favorite != 0 {
			star = "★"
		}
		fmt.Printf("%4d %s prompt=%d  %-28s  run=%.8s  %4d tok  %s\n", id, star, promptID, name, runID, tokens, clip(response, 50))
	}
	fmt.Println()
}

func dumpSettings(db *sql.DB) {
	fmt.Println("── settings ──")
	rows, err := db.Query("SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		log.Fatalf("query settings: %v", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			log.Fatalf("scan setting: %v", err)
		}
		fmt.Printf("%-18s %s\n", key, value)
	}
}

func clip(s string, max int) string {
	for i := range s {
		if s[i] == '\n' {
			s = s[:i]
			break
		}
	}
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}
