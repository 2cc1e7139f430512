package storage

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) SetReactionRole(ctx context.Context, guildID, messageID, emoji, roleID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reaction_roles (guild_id, message_id, emoji, role_id) VALUES (?, ?, ?, ?)
		ON CONFLICT(guild_id, message_id, emoji) DO UPDATE SET role_id = excluded.role_id
	`, guildID, messageID, emoji, roleID)
	return err
}

// ReactionRole returns the role bound to (message, emoji) in the guild, or
// "" when no binding exists.
func (s *Store) ReactionRole(ctx context.Context, guildID, messageID, emoji string) (string, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT role_id FROM reaction_roles WHERE guild_id = ? AND message_id = ? AND emoji = ?
	`, guildID, messageID, emoji)

	var roleID string
	if err := row.Scan(&roleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return roleID, nil
}

func (s *Store) SetSilentChannel(ctx context.Context, guildID, channelID string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO silent_channels (channel_id, guild_id) VALUES (?, ?)`, channelID, guildID)
	return err
}

func (s *Store) RemoveSilentChannel(ctx context.Context, guildID, channelID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM silent_channels WHERE channel_id = ? AND guild_id = ?`, channelID, guildID)
	return err
}

func (s *Store) IsSilentChannel(ctx context.Context, channelID string) (bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT channel_id FROM silent_channels WHERE channel_id = ?`, channelID)

	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) SetAutorole(ctx context.Context, guildID, roleID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO autoroles (guild_id, role_id) VALUES (?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET role_id = excluded.role_id
	`, guildID, roleID)
	return err
}

// Autorole returns the join role for the guild, or "" when none is set.
func (s *Store) Autorole(ctx context.Context, guildID string) (string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT role_id FROM autoroles WHERE guild_id = ?`, guildID)

	var roleID string
	if err := row.Scan(&roleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return roleID, nil
}

func (s *Store) ResetAutorole(ctx context.Context, guildID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM autoroles WHERE guild_id = ?`, guildID)
	return err
}
