package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type TicketSettings struct {
	GuildID         string
	CategoryID      string
	LogChannelID    string
	ModeratorRoleID string
}

type ActiveTicket struct {
	ChannelID string
	GuildID   string
	UserID    string
	OpenedAt  time.Time
}

func (s *Store) SetTicketSettings(ctx context.Context, settings TicketSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ticket_settings (guild_id, ticket_category_id, ticket_log_channel_id, ticket_moderator_role_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET
			ticket_category_id = excluded.ticket_category_id,
			ticket_log_channel_id = excluded.ticket_log_channel_id,
			ticket_moderator_role_id = excluded.ticket_moderator_role_id
	`, settings.GuildID, settings.CategoryID, settings.LogChannelID, settings.ModeratorRoleID)
	return err
}

func (s *Store) TicketSettings(ctx context.Context, guildID string) (TicketSettings, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT guild_id, ticket_category_id, ticket_log_channel_id, ticket_moderator_role_id
		FROM ticket_settings WHERE guild_id = ?
	`, guildID)

	var settings TicketSettings
	err := row.Scan(&settings.GuildID, &settings.CategoryID, &settings.LogChannelID, &settings.ModeratorRoleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TicketSettings{}, false, nil
		}
		return TicketSettings{}, false, err
	}
	return settings, true, nil
}

// ListTicketSettings returns the ticket configuration of every guild that
// has one, used at startup to report which guilds have a live panel.
func (s *Store) ListTicketSettings(ctx context.Context) ([]TicketSettings, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guild_id, ticket_category_id, ticket_log_channel_id, ticket_moderator_role_id
		FROM ticket_settings
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []TicketSettings
	for rows.Next() {
		var settings TicketSettings
		if err := rows.Scan(&settings.GuildID, &settings.CategoryID, &settings.LogChannelID, &settings.ModeratorRoleID); err != nil {
			return nil, err
		}
		all = append(all, settings)
	}
	return all, rows.Err()
}

func (s *Store) InsertActiveTicket(ctx context.Context, ticket ActiveTicket) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO active_tickets (channel_id, guild_id, user_id, opened_at) VALUES (?, ?, ?, ?)
	`, ticket.ChannelID, ticket.GuildID, ticket.UserID, ticket.OpenedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) ActiveTicketForUser(ctx context.Context, guildID, userID string) (ActiveTicket, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT channel_id, guild_id, user_id, opened_at
		FROM active_tickets WHERE guild_id = ? AND user_id = ?
	`, guildID, userID)
	return scanActiveTicket(row)
}

func (s *Store) ActiveTicketByChannel(ctx context.Context, channelID string) (ActiveTicket, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT channel_id, guild_id, user_id, opened_at
		FROM active_tickets WHERE channel_id = ?
	`, channelID)
	return scanActiveTicket(row)
}

func (s *Store) DeleteActiveTicket(ctx context.Context, channelID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM active_tickets WHERE channel_id = ?`, channelID)
	return err
}

func scanActiveTicket(row *sql.Row) (ActiveTicket, bool, error) {
	var ticket ActiveTicket
	var openedAt string
	err := row.Scan(&ticket.ChannelID, &ticket.GuildID, &ticket.UserID, &openedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ActiveTicket{}, false, nil
		}
		return ActiveTicket{}, false, err
	}
	if parsed, err := time.Parse(time.RFC3339, openedAt); err == nil {
		ticket.OpenedAt = parsed
	}
	return ticket, true, nil
}
