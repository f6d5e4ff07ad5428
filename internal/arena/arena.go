// Package arena orchestrates fighter and battle stores with the battle engine.
// It owns battle scheduling and execution; the engine itself stays pure.
package arena

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/colosseum/internal/game/battle"
	"github.com/cory-johannsen/colosseum/internal/game/dice"
	"github.com/cory-johannsen/colosseum/internal/game/fighter"
	"github.com/cory-johannsen/colosseum/internal/storage/postgres"
)

// ErrSameFighter is returned when a battle is created with one fighter on
// both sides.
var ErrSameFighter = errors.New("a fighter cannot battle itself")

// ErrBattleCompleted is returned when running a battle that already has an
// outcome.
var ErrBattleCompleted = errors.New("battle already completed")

// FighterStore is the fighter persistence surface the arena depends on.
type FighterStore interface {
	Create(ctx context.Context, f fighter.Fighter) error
	GetByName(ctx context.Context, name string) (fighter.Fighter, error)
	List(ctx context.Context) ([]fighter.Fighter, error)
}

// BattleStore is the battle persistence surface the arena depends on.
type BattleStore interface {
	CreatePending(ctx context.Context, rec postgres.BattleRecord) (postgres.BattleRecord, error)
	Get(ctx context.Context, id string) (postgres.BattleRecord, error)
	List(ctx context.Context) ([]postgres.BattleRecord, error)
	ListPending(ctx context.Context) ([]postgres.BattleRecord, error)
	Complete(ctx context.Context, id string, winner string, events []battle.Event) error
	DeleteAll(ctx context.Context) error
}

// Arena schedules and executes battles.
type Arena struct {
	fighters FighterStore
	battles  BattleStore
	engine   *battle.Engine
	logger   *zap.Logger
}

// New creates an Arena.
//
// Precondition: maxTurns must be >= 1; stores must be non-nil.
// A nil logger is replaced with a no-op logger.
func New(fighters FighterStore, battles BattleStore, maxTurns int, logger *zap.Logger) *Arena {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Arena{
		fighters: fighters,
		battles:  battles,
		engine:   battle.NewEngine(maxTurns, logger),
		logger:   logger,
	}
}

// CreateBattle schedules a pending battle between two distinct, existing
// fighters. The RNG seed is fixed at creation time so the battle can be
// replayed later.
//
// Postcondition: Returns the pending record with a fresh UUID and seed, or
// ErrSameFighter / postgres.ErrFighterNotFound.
func (a *Arena) CreateBattle(ctx context.Context, name1, name2 string) (postgres.BattleRecord, error) {
	if name1 == name2 {
		return postgres.BattleRecord{}, ErrSameFighter
	}
	if _, err := a.fighters.GetByName(ctx, name1); err != nil {
		return postgres.BattleRecord{}, fmt.Errorf("looking up fighter %q: %w", name1, err)
	}
	if _, err := a.fighters.GetByName(ctx, name2); err != nil {
		return postgres.BattleRecord{}, fmt.Errorf("looking up fighter %q: %w", name2, err)
	}

	rec, err := a.battles.CreatePending(ctx, postgres.BattleRecord{
		ID:       uuid.NewString(),
		Fighter1: name1,
		Fighter2: name2,
		Seed:     dice.Seed(),
	})
	if err != nil {
		return postgres.BattleRecord{}, err
	}

	a.logger.Info("battle scheduled",
		zap.String("battle_id", rec.ID),
		zap.String("fighter1", name1),
		zap.String("fighter2", name2),
	)
	return rec, nil
}

// RunBattle executes a pending battle with its stored seed and persists the
// outcome.
//
// Postcondition: Returns the completed record, or ErrBattleCompleted if the
// battle already ran, or postgres.ErrBattleNotFound.
func (a *Arena) RunBattle(ctx context.Context, id string) (postgres.BattleRecord, error) {
	rec, err := a.battles.Get(ctx, id)
	if err != nil {
		return postgres.BattleRecord{}, err
	}
	if rec.Completed {
		return postgres.BattleRecord{}, ErrBattleCompleted
	}

	f1, err := a.fighters.GetByName(ctx, rec.Fighter1)
	if err != nil {
		return postgres.BattleRecord{}, fmt.Errorf("loading fighter %q: %w", rec.Fighter1, err)
	}
	f2, err := a.fighters.GetByName(ctx, rec.Fighter2)
	if err != nil {
		return postgres.BattleRecord{}, fmt.Errorf("loading fighter %q: %w", rec.Fighter2, err)
	}

	src := dice.NewLoggedSource(dice.NewSeededSource(rec.Seed), a.logger)
	events := a.engine.Run(f1, f2, src)
	ended, ok := battle.Outcome(events)
	if !ok {
		return postgres.BattleRecord{}, fmt.Errorf("battle %s produced no outcome", id)
	}

	if err := a.battles.Complete(ctx, id, ended.Winner, events); err != nil {
		return postgres.BattleRecord{}, err
	}

	a.logger.Info("battle completed",
		zap.String("battle_id", id),
		zap.String("winner", ended.Winner),
		zap.String("loser", ended.Loser),
		zap.Int("turns", ended.Turn),
	)

	rec.Completed = true
	rec.Winner = ended.Winner
	rec.Events = events
	return rec, nil
}

// RunPending executes every pending battle in creation order.
//
// Postcondition: Returns the completed records. Stops at the first failure.
func (a *Arena) RunPending(ctx context.Context) ([]postgres.BattleRecord, error) {
	pending, err := a.battles.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	completed := make([]postgres.BattleRecord, 0, len(pending))
	for _, rec := range pending {
		done, err := a.RunBattle(ctx, rec.ID)
		if err != nil {
			return completed, fmt.Errorf("running battle %s: %w", rec.ID, err)
		}
		completed = append(completed, done)
	}
	return completed, nil
}

// ListBattles returns every battle, oldest first.
func (a *Arena) ListBattles(ctx context.Context) ([]postgres.BattleRecord, error) {
	return a.battles.List(ctx)
}

// ListPendingBattles returns battles awaiting execution, oldest first.
func (a *Arena) ListPendingBattles(ctx context.Context) ([]postgres.BattleRecord, error) {
	return a.battles.ListPending(ctx)
}

// WatchBattle loads a completed battle's event log for display. It is
// read-only; replaying a log never changes the stored record.
//
// Postcondition: Returns the record with its events, or an error if the
// battle is missing or still pending.
func (a *Arena) WatchBattle(ctx context.Context, id string) (postgres.BattleRecord, error) {
	rec, err := a.battles.Get(ctx, id)
	if err != nil {
		return postgres.BattleRecord{}, err
	}
	if !rec.Completed {
		return postgres.BattleRecord{}, fmt.Errorf("battle %s has not run yet", id)
	}
	return rec, nil
}

// Replay re-simulates a completed battle from its stored seed and verifies
// the result matches the persisted event log.
//
// Postcondition: Returns the freshly simulated events, or an error if they
// diverge from the stored log.
func (a *Arena) Replay(ctx context.Context, id string) ([]battle.Event, error) {
	rec, err := a.WatchBattle(ctx, id)
	if err != nil {
		return nil, err
	}

	f1, err := a.fighters.GetByName(ctx, rec.Fighter1)
	if err != nil {
		return nil, fmt.Errorf("loading fighter %q: %w", rec.Fighter1, err)
	}
	f2, err := a.fighters.GetByName(ctx, rec.Fighter2)
	if err != nil {
		return nil, fmt.Errorf("loading fighter %q: %w", rec.Fighter2, err)
	}

	events := a.engine.Run(f1, f2, dice.NewSeededSource(rec.Seed))
	stored, err := battle.MarshalEvents(rec.Events)
	if err != nil {
		return nil, fmt.Errorf("encoding stored events: %w", err)
	}
	fresh, err := battle.MarshalEvents(events)
	if err != nil {
		return nil, fmt.Errorf("encoding replayed events: %w", err)
	}
	if string(stored) != string(fresh) {
		return nil, fmt.Errorf("battle %s replay diverged from stored log", id)
	}
	return events, nil
}

// Clean removes every stored battle.
func (a *Arena) Clean(ctx context.Context) error {
	if err := a.battles.DeleteAll(ctx); err != nil {
		return err
	}
	a.logger.Info("battle history cleaned")
	return nil
}
