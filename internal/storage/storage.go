// Package storage is the settings store: every durable piece of bot state
// lives in a single sqlite database, one row per setting, read fresh on
// every lookup so that restarts and concurrent handlers always observe the
// committed state.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// statusCommandLock is the single process-wide row in bot_status that
// carries the global command lock flag.
const statusCommandLock = "command_lock"

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Migrate applies the embedded schema files in order. Safe to run at every
// startup: statements are IF NOT EXISTS / INSERT OR IGNORE, and anything
// sqlite still rejects as a duplicate is skipped.
func (s *Store) Migrate() error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return err
	}

	var files []string
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := migrations.ReadFile(path.Join("migrations", file))
		if err != nil {
			return err
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			if isIgnorableMigrationError(err) {
				continue
			}
			return fmt.Errorf("migration %s failed: %w", file, err)
		}
	}
	return nil
}

// WelcomeChannel returns the configured welcome channel for the guild, or
// "" when none is set.
func (s *Store) WelcomeChannel(ctx context.Context, guildID string) (string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT welcome_channel_id FROM guild_settings WHERE guild_id = ?`, guildID)

	var channelID string
	if err := row.Scan(&channelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return channelID, nil
}

func (s *Store) SetWelcomeChannel(ctx context.Context, guildID, channelID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guild_settings (guild_id, welcome_channel_id) VALUES (?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET welcome_channel_id = excluded.welcome_channel_id
	`, guildID, channelID)
	return err
}

func (s *Store) ResetWelcomeChannel(ctx context.Context, guildID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM guild_settings WHERE guild_id = ?`, guildID)
	return err
}

// IsLocked reports the global command lock. A missing row counts as
// unlocked, matching the seeded default.
func (s *Store) IsLocked(ctx context.Context) (bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT is_locked FROM bot_status WHERE status_name = ?`, statusCommandLock)

	var locked int
	if err := row.Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return locked == 1, nil
}

func (s *Store) SetLocked(ctx context.Context, locked bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bot_status (status_name, is_locked) VALUES (?, ?)
		ON CONFLICT(status_name) DO UPDATE SET is_locked = excluded.is_locked
	`, statusCommandLock, boolToInt(locked))
	return err
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func isIgnorableMigrationError(err error) bool {
	if err == nil {
		return false
	}
	message := err.Error()
	return strings.Contains(message, "duplicate column name") || strings.Contains(message, "already exists")
}
