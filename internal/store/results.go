package store

import (
	"fmt"
	"strings"
	"time"
)

// Result is one endpoint's saved response to a prompt. RunID groups all
// results written by a single fan-out call.
type Result struct {
	ID         int64
	PromptID   int64
	EndpointID int64
	RunID      string
	Response   string
	TokensUsed int
	Favorite   bool
	CreatedAt  time.Time

	// Joined display fields, not stored on the results table
	EndpointName string
	PromptText   string
}

// SaveResult inserts a result row and returns its ID.
func (s *Store) SaveResult(r Result) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO results (prompt_id, endpoint_id, run_id, response_text, tokens_used, favorite, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.PromptID, r.EndpointID, r.RunID, r.Response, r.TokensUsed, boolToInt(r.Favorite), time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert result: %w", err)
	}
	return res.LastInsertId()
}

const resultColumns = `r.id, r.prompt_id, r.endpoint_id, r.run_id, r.response_text,
	r.tokens_used, r.favorite, r.created_at, e.name, p.text`

const resultJoins = `FROM results r
	JOIN endpoints e ON e.id = r.endpoint_id
	JOIN prompts p ON p.id = r.prompt_id`

// ResultsForPrompt returns all saved results for a prompt, oldest run first.
func (s *Store) ResultsForPrompt(promptID int64) ([]Result, error) {
	return s.queryResults(`WHERE r.prompt_id = ? ORDER BY r.created_at, r.id`, promptID)
}

// ResultsForRun returns the results written by one fan-out call.
func (s *Store) ResultsForRun(runID string) ([]Result, error) {
	return s.queryResults(`WHERE r.run_id = ? ORDER BY e.name`, runID)
}

// Favorites returns all favorited results, newest first.
func (s *Store) Favorites() ([]Result, error) {
	return s.queryResults(`WHERE r.favorite = 1 ORDER BY r.created_at DESC, r.id DESC`)
}

// SetFavorite marks or unmarks one result. Returns whether a row matched.
func (s *Store) SetFavorite(resultID int64, favorite bool) (bool, error) {
	res, err := s.db.Exec(`UPDATE results SET favorite = ? WHERE id = ?`, boolToInt(favorite), resultID)
	if err != nil {
		return false, fmt.Errorf("set favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetFavorites marks or unmarks a batch of results in one statement and
// returns how many rows matched.
func (s *Store) SetFavorites(resultIDs []int64, favorite bool) (int64, error) {
	if len(resultIDs) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(resultIDs)), ",")
	args := make([]any, 0, len(resultIDs)+1)
	args = append(args, boolToInt(favorite))
	for _, id := range resultIDs {
		args = append(args, id)
	}

	res, err := s.db.Exec(
		fmt.Sprintf(`UPDATE results SET favorite = ? WHERE id IN (%s)`, placeholders),
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("set favorites: %w", err)
	}
	return res.RowsAffected()
}

// DeleteResult removes one result row.
func (s *Store) DeleteResult(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM results WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete result: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) queryResults(tail string, args ...any) ([]Result, error) {
	rows, err := s.db.Query(
		fmt.Sprintf("SELECT %s %s %s", resultColumns, resultJoins, tail),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var results []Result
	for rows.Next() {
		var r Result
		var fav int
		var created int64
		if err := rows.Scan(
			&r.ID, &r.PromptID, &r.EndpointID, &r.RunID, &r.Response,
			&r.TokensUsed, &fav, &created, &r.EndpointName, &r.PromptText,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Favorite = fav != 0
		r.CreatedAt = time.Unix(created, 0)
		results = append(results, r)
	}
	return results, rows.Err()
}
