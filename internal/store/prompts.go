package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Prompt is one user prompt, sent to one or more endpoints.
type Prompt struct {
	ID        int64
	Text      string
	Author    string
	CreatedAt time.Time
}

// CreatePrompt inserts a prompt and returns its ID.
func (s *Store) CreatePrompt(text, author string) (int64, error) {
	if author == "" {
		author = "user"
	}
	res, err := s.db.Exec(
		`INSERT INTO prompts (text, author, created_at) VALUES (?, ?, ?)`,
		text, author, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert prompt: %w", err)
	}
	return res.LastInsertId()
}

// GetPrompt returns the prompt with the given ID, or nil if absent.
func (s *Store) GetPrompt(id int64) (*Prompt, error) {
	row := s.db.QueryRow(`SELECT id, text, author, created_at FROM prompts WHERE id = ?`, id)

	var p Prompt
	var created int64
	if err := row.Scan(&p.ID, &p.Text, &p.Author, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get prompt: %w", err)
	}
	p.CreatedAt = time.Unix(created, 0)
	return &p, nil
}

// PromptFilter narrows ListPrompts. Zero values mean "no filter".
type PromptFilter struct {
	Search   string // substring match on text
	DateFrom string // YYYY-MM-DD inclusive
	DateTo   string // YYYY-MM-DD inclusive
	Limit    int    // default 100
}

// ListPrompts returns prompts newest-first, optionally filtered by text
// substring and creation-date range.
func (s *Store) ListPrompts(f PromptFilter) ([]Prompt, error) {
	conds := []string{}
	args := []any{}

	if f.Search != "" {
		conds = append(conds, "text LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}
	if f.DateFrom != "" {
		conds = append(conds, "date(created_at, 'unixepoch') >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		conds = append(conds, "date(created_at, 'unixepoch') <= ?")
		args = append(args, f.DateTo)
	}

	where := "1=1"
	if len(conds) > 0 {
		where = strings.Join(conds, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	rows, err := s.db.Query(
		`SELECT id, text, author, created_at FROM prompts WHERE `+where+` ORDER BY created_at DESC, id DESC LIMIT ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var prompts []Prompt
	for rows.Next() {
		var p Prompt
		var created int64
		if err := rows.Scan(&p.ID, &p.Text, &p.Author, &created); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		p.CreatedAt = time.Unix(created, 0)
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

// DeletePrompt removes a prompt and, via cascade, its results. Returns
// whether a row was deleted.
func (s *Store) DeletePrompt(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete prompt: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
