package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/colosseum/internal/game/fighter"
)

// ErrFighterNotFound is returned when a fighter lookup yields no results.
var ErrFighterNotFound = errors.New("fighter not found")

// ErrFighterExists is returned when attempting to create a duplicate fighter name.
var ErrFighterExists = errors.New("fighter already exists")

// FighterRepository provides fighter persistence operations.
type FighterRepository struct {
	db *pgxpool.Pool
}

// NewFighterRepository creates a FighterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewFighterRepository(db *pgxpool.Pool) *FighterRepository {
	return &FighterRepository{db: db}
}

// Create inserts a new fighter.
//
// Precondition: f must have passed fighter.New validation.
// Postcondition: Returns nil on success, or ErrFighterExists if the name is taken.
func (r *FighterRepository) Create(ctx context.Context, f fighter.Fighter) error {
	abilities, err := json.Marshal(f.Abilities)
	if err != nil {
		return fmt.Errorf("encoding abilities: %w", err)
	}
	behavior, err := json.Marshal(f.Behavior)
	if err != nil {
		return fmt.Errorf("encoding behavior: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO fighters
			(name, health, base_attack, base_defense, heal_delta, abilities, behavior)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		f.Name, f.Health, f.BaseAttack, f.BaseDefense, f.HealDelta,
		abilities, behavior,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrFighterExists
		}
		return fmt.Errorf("inserting fighter: %w", err)
	}
	return nil
}

// GetByName retrieves a fighter by its unique name.
//
// Precondition: name must be non-empty.
// Postcondition: Returns the Fighter or ErrFighterNotFound.
func (r *FighterRepository) GetByName(ctx context.Context, name string) (fighter.Fighter, error) {
	var f fighter.Fighter
	var abilities, behavior []byte
	err := r.db.QueryRow(ctx, `
		SELECT name, health, base_attack, base_defense, heal_delta, abilities, behavior
		FROM fighters WHERE name = $1`,
		name,
	).Scan(&f.Name, &f.Health, &f.BaseAttack, &f.BaseDefense, &f.HealDelta,
		&abilities, &behavior)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fighter.Fighter{}, ErrFighterNotFound
		}
		return fighter.Fighter{}, fmt.Errorf("querying fighter: %w", err)
	}

	if err := json.Unmarshal(abilities, &f.Abilities); err != nil {
		return fighter.Fighter{}, fmt.Errorf("decoding abilities: %w", err)
	}
	if err := json.Unmarshal(behavior, &f.Behavior); err != nil {
		return fighter.Fighter{}, fmt.Errorf("decoding behavior: %w", err)
	}
	return f, nil
}

// List returns all fighters ordered by name.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *FighterRepository) List(ctx context.Context) ([]fighter.Fighter, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, health, base_attack, base_defense, heal_delta, abilities, behavior
		FROM fighters ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing fighters: %w", err)
	}
	defer rows.Close()

	fighters := make([]fighter.Fighter, 0)
	for rows.Next() {
		var f fighter.Fighter
		var abilities, behavior []byte
		if err := rows.Scan(&f.Name, &f.Health, &f.BaseAttack, &f.BaseDefense,
			&f.HealDelta, &abilities, &behavior); err != nil {
			return nil, fmt.Errorf("scanning fighter row: %w", err)
		}
		if err := json.Unmarshal(abilities, &f.Abilities); err != nil {
			return nil, fmt.Errorf("decoding abilities for %q: %w", f.Name, err)
		}
		if err := json.Unmarshal(behavior, &f.Behavior); err != nil {
			return nil, fmt.Errorf("decoding behavior for %q: %w", f.Name, err)
		}
		fighters = append(fighters, f)
	}
	return fighters, rows.Err()
}

// DeleteAll removes every fighter. Battles referencing them are removed first
// by the cascading foreign keys.
//
// Postcondition: The fighters table is empty.
func (r *FighterRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM fighters`); err != nil {
		return fmt.Errorf("deleting fighters: %w", err)
	}
	return nil
}
