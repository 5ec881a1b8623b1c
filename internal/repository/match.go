package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lol-denylist/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// MatchRepository caches normalized match details so repeated lookups of the
// same match never hit the upstream service twice.
type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(db *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{db: db, logger: logger}
}

// Get returns a cached match with participants in upstream order, or
// domain.ErrNotFound when the match has not been cached.
func (r *MatchRepository) Get(ctx context.Context, matchID string) (*domain.MatchDetail, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT match_id, queue_id, game_mode, game_creation, game_duration
		FROM matches WHERE match_id = ?`, matchID)

	var detail domain.MatchDetail
	var creation, duration int64
	err := row.Scan(&detail.MatchID, &detail.QueueID, &detail.GameMode, &creation, &duration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %s: %w", matchID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read match %s: %w", matchID, err)
	}
	detail.GameCreation = time.UnixMilli(creation)
	detail.GameDuration = time.Duration(duration) * time.Second

	rows, err := r.db.QueryContext(ctx, `
		SELECT puuid, display_name, tag, champion, team
		FROM match_participants WHERE match_id = ? ORDER BY ordinal`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to read participants of %s: %w", matchID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.MatchParticipant
		var team string
		if err := rows.Scan(&p.Puuid, &p.Name, &p.Tag, &p.Champion, &team); err != nil {
			return nil, fmt.Errorf("failed to scan participant of %s: %w", matchID, err)
		}
		p.Team = domain.Team(team)
		detail.Participants = append(detail.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read participants of %s: %w", matchID, err)
	}

	return &detail, nil
}

// Upsert stores a match and its participants, replacing any previous rows
// for the same match id.
func (r *MatchRepository) Upsert(ctx context.Context, detail *domain.MatchDetail) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches (match_id, queue_id, game_mode, game_creation, game_duration, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (match_id) DO UPDATE SET
			queue_id = excluded.queue_id,
			game_mode = excluded.game_mode,
			game_creation = excluded.game_creation,
			game_duration = excluded.game_duration,
			fetched_at = excluded.fetched_at`,
		detail.MatchID,
		detail.QueueID,
		detail.GameMode,
		detail.GameCreation.UnixMilli(),
		int64(detail.GameDuration/time.Second),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert match %s: %w", detail.MatchID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM match_participants WHERE match_id = ?`, detail.MatchID); err != nil {
		return fmt.Errorf("failed to clear participants of %s: %w", detail.MatchID, err)
	}

	for i, p := range detail.Participants {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate participant id: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO match_participants (id, match_id, puuid, display_name, tag, champion, team, ordinal)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, detail.MatchID, p.Puuid, p.Name, p.Tag, p.Champion, string(p.Team), i)
		if err != nil {
			return fmt.Errorf("failed to insert participant of %s: %w", detail.MatchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match %s: %w", detail.MatchID, err)
	}

	r.logger.Debug().
		Str("match_id", detail.MatchID).
		Int("participants", len(detail.Participants)).
		Msg("match cached")
	return nil
}
