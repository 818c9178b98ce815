package store

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Settings are the user-tunable application settings persisted in the db.
type Settings struct {
	Theme          string
	DefaultAuthor  string
	RequestTimeout int // seconds
}

// DefaultSettings returns the values seeded on first run.
func DefaultSettings() Settings {
	return Settings{
		Theme:          "dark",
		DefaultAuthor:  "user",
		RequestTimeout: 30,
	}
}

// GetSetting returns the value for key, or def when the key is absent.
func (s *Store) GetSetting(key, def string) (string, error) {
	row := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key)

	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return def, nil
		}
		return def, fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

// SetSetting upserts one setting.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// Settings loads all known settings, applying defaults for missing keys.
func (s *Store) Settings() (Settings, error) {
	def := DefaultSettings()

	theme, err := s.GetSetting("theme", def.Theme)
	if err != nil {
		return def, err
	}
	author, err := s.GetSetting("default_author", def.DefaultAuthor)
	if err != nil {
		return def, err
	}
	timeoutStr, err := s.GetSetting("request_timeout", strconv.Itoa(def.RequestTimeout))
	if err != nil {
		return def, err
	}

	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil || timeout <= 0 {
		timeout = def.RequestTimeout
	}

	return Settings{
		Theme:          theme,
		DefaultAuthor:  author,
		RequestTimeout: timeout,
	}, nil
}

// SaveSettings persists all settings.
func (s *Store) SaveSettings(settings Settings) error {
	if err := s.SetSetting("theme", settings.Theme); err != nil {
		return err
	}
	if err := s.SetSetting("default_author", settings.DefaultAuthor); err != nil {
		return err
	}
	return s.SetSetting("request_timeout", strconv.Itoa(settings.RequestTimeout))
}
