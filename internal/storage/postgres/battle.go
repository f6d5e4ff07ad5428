package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/colosseum/internal/game/battle"
)

// ErrBattleNotFound is returned when a battle lookup yields no results.
var ErrBattleNotFound = errors.New("battle not found")

// BattleRecord represents a scheduled or completed battle in the database.
// Seed is fixed at creation time so a completed battle can be replayed.
type BattleRecord struct {
	ID        string
	Fighter1  string
	Fighter2  string
	Seed      int64
	Winner    string
	Completed bool
	Events    []battle.Event
	CreatedAt time.Time
}

// BattleRepository provides battle persistence operations.
type BattleRepository struct {
	db *pgxpool.Pool
}

// NewBattleRepository creates a BattleRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewBattleRepository(db *pgxpool.Pool) *BattleRepository {
	return &BattleRepository{db: db}
}

// CreatePending inserts a new battle awaiting execution.
//
// Precondition: rec.ID must be a fresh UUID; both fighter names must exist in
// the fighters table.
// Postcondition: Returns the stored record with CreatedAt set.
func (r *BattleRepository) CreatePending(ctx context.Context, rec BattleRecord) (BattleRecord, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO battles (id, fighter1, fighter2, seed)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		rec.ID, rec.Fighter1, rec.Fighter2, rec.Seed,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return BattleRecord{}, fmt.Errorf("inserting battle: %w", err)
	}
	rec.Completed = false
	rec.Winner = ""
	rec.Events = nil
	return rec, nil
}

// Get retrieves a battle by its UUID.
//
// Precondition: id must be non-empty.
// Postcondition: Returns the BattleRecord or ErrBattleNotFound. Events are
// decoded for completed battles and nil for pending ones.
func (r *BattleRepository) Get(ctx context.Context, id string) (BattleRecord, error) {
	var rec BattleRecord
	var winner *string
	var events []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, fighter1, fighter2, seed, winner, completed, events, created_at
		FROM battles WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Fighter1, &rec.Fighter2, &rec.Seed, &winner,
		&rec.Completed, &events, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BattleRecord{}, ErrBattleNotFound
		}
		return BattleRecord{}, fmt.Errorf("querying battle: %w", err)
	}

	if winner != nil {
		rec.Winner = *winner
	}
	if len(events) > 0 {
		rec.Events, err = battle.UnmarshalEvents(events)
		if err != nil {
			return BattleRecord{}, fmt.Errorf("decoding battle events: %w", err)
		}
	}
	return rec, nil
}

// List returns all battles ordered by creation time, oldest first. Event logs
// are not loaded; use Get for the full record.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *BattleRepository) List(ctx context.Context) ([]BattleRecord, error) {
	return r.list(ctx, `
		SELECT id, fighter1, fighter2, seed, winner, completed, created_at
		FROM battles ORDER BY created_at ASC`)
}

// ListPending returns battles that have not been executed yet, oldest first.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *BattleRepository) ListPending(ctx context.Context) ([]BattleRecord, error) {
	return r.list(ctx, `
		SELECT id, fighter1, fighter2, seed, winner, completed, created_at
		FROM battles WHERE NOT completed ORDER BY created_at ASC`)
}

func (r *BattleRepository) list(ctx context.Context, query string) ([]BattleRecord, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing battles: %w", err)
	}
	defer rows.Close()

	records := make([]BattleRecord, 0)
	for rows.Next() {
		var rec BattleRecord
		var winner *string
		if err := rows.Scan(&rec.ID, &rec.Fighter1, &rec.Fighter2, &rec.Seed,
			&winner, &rec.Completed, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning battle row: %w", err)
		}
		if winner != nil {
			rec.Winner = *winner
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Complete stores the outcome of an executed battle.
//
// Precondition: events must end with a battle.Ended whose winner is winner.
// Postcondition: The battle is marked completed with its event log persisted,
// or ErrBattleNotFound if no pending battle matches id.
func (r *BattleRepository) Complete(ctx context.Context, id string, winner string, events []battle.Event) error {
	encoded, err := battle.MarshalEvents(events)
	if err != nil {
		return fmt.Errorf("encoding battle events: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE battles SET winner = $2, events = $3, completed = TRUE
		WHERE id = $1 AND NOT completed`,
		id, winner, encoded,
	)
	if err != nil {
		return fmt.Errorf("completing battle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBattleNotFound
	}
	return nil
}

// DeleteAll removes every battle record.
//
// Postcondition: The battles table is empty.
func (r *BattleRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM battles`); err != nil {
		return fmt.Errorf("deleting battles: %w", err)
	}
	return nil
}
