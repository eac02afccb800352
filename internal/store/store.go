package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Themes the UI layer understands.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Store is the local preference and cache database, the stand-in for what
// the browser kept in localStorage.
type Store struct {
	db *sql.DB
}

// Open initializes the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createPrefsTable := `
	CREATE TABLE IF NOT EXISTS prefs (
		key TEXT PRIMARY KEY,
		value TEXT
	);`

	createMyRoomsTable := `
	CREATE TABLE IF NOT EXISTS my_rooms (
		id INTEGER PRIMARY KEY,
		title TEXT,
		cached_at DATETIME
	);`

	if _, err := db.Exec(createPrefsTable); err != nil {
		return nil, fmt.Errorf("failed to create prefs table: %w", err)
	}

	if _, err := db.Exec(createMyRoomsTable); err != nil {
		return nil, fmt.Errorf("failed to create my_rooms table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) getPref(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read pref %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) setPref(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO prefs (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write pref %s: %w", key, err)
	}
	return nil
}

// Theme returns the saved theme, defaulting to light.
func (s *Store) Theme() (string, error) {
	return s.getPref("theme", ThemeLight)
}

// SetTheme persists the theme. Only light and dark are accepted.
func (s *Store) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme: %s", theme)
	}
	return s.setPref("theme", theme)
}

// ToggleTheme flips between light and dark and returns the new value.
func (s *Store) ToggleTheme() (string, error) {
	current, err := s.Theme()
	if err != nil {
		return "", err
	}
	next := ThemeLight
	if current == ThemeLight {
		next = ThemeDark
	}
	if err := s.SetTheme(next); err != nil {
		return "", err
	}
	return next, nil
}

// Locale returns the saved locale, or fallback when none is saved.
func (s *Store) Locale(fallback string) (string, error) {
	return s.getPref("locale", fallback)
}

// SetLocale persists the locale.
func (s *Store) SetLocale(locale string) error {
	return s.setPref("locale", locale)
}

// MyRoom is one cached entry of the rooms the user created.
type MyRoom struct {
	ID       int64
	Title    string
	CachedAt time.Time
}

// ReplaceMyRooms swaps the cached my-rooms list for a fresh one.
func (s *Store) ReplaceMyRooms(rooms []MyRoom) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM my_rooms`); err != nil {
		return fmt.Errorf("failed to clear my_rooms: %w", err)
	}

	now := time.Now()
	for _, room := range rooms {
		if _, err := tx.Exec(
			`INSERT INTO my_rooms (id, title, cached_at) VALUES (?, ?, ?)`,
			room.ID, room.Title, now); err != nil {
			return fmt.Errorf("failed to insert my_room: %w", err)
		}
	}

	return tx.Commit()
}

// MyRooms returns the cached my-rooms list, newest cache first.
func (s *Store) MyRooms() ([]MyRoom, error) {
	rows, err := s.db.Query(`SELECT id, title, cached_at FROM my_rooms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query my_rooms: %w", err)
	}
	defer rows.Close()

	var rooms []MyRoom
	for rows.Next() {
		var room MyRoom
		if err := rows.Scan(&room.ID, &room.Title, &room.CachedAt); err != nil {
			return nil, fmt.Errorf("failed to scan my_room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}
