package store

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/chatlist/chatlist/internal/llm"
)

// Endpoint is a configured LLM API endpoint. APIURL is the full POST URL,
// APIID the provider-specific model identifier.
type Endpoint struct {
	ID     int64
	Name   string
	APIURL string
	APIID  string
	Active bool
}

// Descriptor converts a stored endpoint into the fan-out descriptor shape.
func (e Endpoint) Descriptor() llm.Endpoint {
	return llm.Endpoint{
		ID:      strconv.FormatInt(e.ID, 10),
		Name:    e.Name,
		URL:     e.APIURL,
		ModelID: e.APIID,
		Active:  e.Active,
	}
}

// CreateEndpoint inserts an endpoint and returns its ID.
func (s *Store) CreateEndpoint(e Endpoint) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO endpoints (name, api_url, api_id, active) VALUES (?, ?, ?, ?)`,
		e.Name, e.APIURL, e.APIID, boolToInt(e.Active),
	)
	if err != nil {
		return 0, fmt.Errorf("insert endpoint: %w", err)
	}
	return res.LastInsertId()
}

// GetEndpoint returns the endpoint with the given ID, or nil if absent.
func (s *Store) GetEndpoint(id int64) (*Endpoint, error) {
	row := s.db.QueryRow(`SELECT id, name, api_url, api_id, active FROM endpoints WHERE id = ?`, id)
	return scanEndpoint(row)
}

// ListEndpoints returns all endpoints, or only active ones.
func (s *Store) ListEndpoints(activeOnly bool) ([]Endpoint, error) {
	query := `SELECT id, name, api_url, api_id, active FROM endpoints ORDER BY name`
	if activeOnly {
		query = `SELECT id, name, api_url, api_id, active FROM endpoints WHERE active = 1 ORDER BY name`
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list endpoints: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var endpoints []Endpoint
	for rows.Next() {
		var e Endpoint
		var active int
		if err := rows.Scan(&e.ID, &e.Name, &e.APIURL, &e.APIID, &active); err != nil {
			return nil, fmt.Errorf("scan endpoint: %w", err)
		}
		e.Active = active != 0
		endpoints = append(endpoints, e)
	}
	return endpoints, rows.Err()
}

// UpdateEndpoint overwrites an endpoint's fields by ID. Returns whether a
// row matched.
func (s *Store) UpdateEndpoint(e Endpoint) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE endpoints SET name = ?, api_url = ?, api_id = ?, active = ? WHERE id = ?`,
		e.Name, e.APIURL, e.APIID, boolToInt(e.Active), e.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update endpoint: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteEndpoint removes an endpoint and cascades to its results.
func (s *Store) DeleteEndpoint(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM endpoints WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete endpoint: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func scanEndpoint(row *sql.Row) (*Endpoint, error) {
	var e Endpoint
	var active int
	if err := row.Scan(&e.ID, &e.Name, &e.APIURL, &e.APIID, &active); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get endpoint: %w", err)
	}
	e.Active = active != 0
	return &e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
