package arena_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/colosseum/internal/arena"
	"github.com/cory-johannsen/colosseum/internal/game/battle"
	"github.com/cory-johannsen/colosseum/internal/game/fighter"
	"github.com/cory-johannsen/colosseum/internal/storage/postgres"
)

// memFighterStore is an in-memory FighterStore.
type memFighterStore struct {
	fighters map[string]fighter.Fighter
}

func newMemFighterStore() *memFighterStore {
	return &memFighterStore{fighters: make(map[string]fighter.Fighter)}
}

func (s *memFighterStore) Create(_ context.Context, f fighter.Fighter) error {
	if _, ok := s.fighters[f.Name]; ok {
		return postgres.ErrFighterExists
	}
	s.fighters[f.Name] = f
	return nil
}

func (s *memFighterStore) GetByName(_ context.Context, name string) (fighter.Fighter, error) {
	f, ok := s.fighters[name]
	if !ok {
		return fighter.Fighter{}, postgres.ErrFighterNotFound
	}
	return f, nil
}

func (s *memFighterStore) List(_ context.Context) ([]fighter.Fighter, error) {
	out := make([]fighter.Fighter, 0, len(s.fighters))
	for _, f := range s.fighters {
		out = append(out, f)
	}
	return out, nil
}

// memBattleStore is an in-memory BattleStore preserving insertion order.
type memBattleStore struct {
	order   []string
	battles map[string]postgres.BattleRecord
}

func newMemBattleStore() *memBattleStore {
	return &memBattleStore{battles: make(map[string]postgres.BattleRecord)}
}

func (s *memBattleStore) CreatePending(_ context.Context, rec postgres.BattleRecord) (postgres.BattleRecord, error) {
	s.order = append(s.order, rec.ID)
	s.battles[rec.ID] = rec
	return rec, nil
}

func (s *memBattleStore) Get(_ context.Context, id string) (postgres.BattleRecord, error) {
	rec, ok := s.battles[id]
	if !ok {
		return postgres.BattleRecord{}, postgres.ErrBattleNotFound
	}
	return rec, nil
}

func (s *memBattleStore) List(_ context.Context) ([]postgres.BattleRecord, error) {
	out := make([]postgres.BattleRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.battles[id])
	}
	return out, nil
}

func (s *memBattleStore) ListPending(_ context.Context) ([]postgres.BattleRecord, error) {
	out := make([]postgres.BattleRecord, 0)
	for _, id := range s.order {
		if rec := s.battles[id]; !rec.Completed {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memBattleStore) Complete(_ context.Context, id string, winner string, events []battle.Event) error {
	rec, ok := s.battles[id]
	if !ok || rec.Completed {
		return postgres.ErrBattleNotFound
	}
	rec.Completed = true
	rec.Winner = winner
	rec.Events = events
	s.battles[id] = rec
	return nil
}

func (s *memBattleStore) DeleteAll(_ context.Context) error {
	s.order = nil
	s.battles = make(map[string]postgres.BattleRecord)
	return nil
}

func testFighter(t *testing.T, name string) fighter.Fighter {
	t.Helper()
	f, err := fighter.New(fighter.Def{
		Name:        name,
		Health:      80,
		HealDelta:   10,
		BaseAttack:  8,
		BaseDefense: 4,
		Behavior:    fighter.Behavior{AttackChance: 0.7, HealChance: 0.3},
	})
	require.NoError(t, err)
	return f
}

func newTestArena(t *testing.T) (*arena.Arena, *memBattleStore) {
	t.Helper()
	fighters := newMemFighterStore()
	battles := newMemBattleStore()
	ctx := context.Background()
	require.NoError(t, fighters.Create(ctx, testFighter(t, "Scorchio")))
	require.NoError(t, fighters.Create(ctx, testFighter(t, "Shoyru")))
	return arena.New(fighters, battles, 30, nil), battles
}

func TestArena_CreateBattle(t *testing.T) {
	a, _ := newTestArena(t)

	rec, err := a.CreateBattle(context.Background(), "Scorchio", "Shoyru")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Scorchio", rec.Fighter1)
	assert.Equal(t, "Shoyru", rec.Fighter2)
	assert.False(t, rec.Completed)
}

func TestArena_CreateBattle_SameFighter(t *testing.T) {
	a, _ := newTestArena(t)

	_, err := a.CreateBattle(context.Background(), "Scorchio", "Scorchio")
	assert.ErrorIs(t, err, arena.ErrSameFighter)
}

func TestArena_CreateBattle_UnknownFighter(t *testing.T) {
	a, _ := newTestArena(t)

	_, err := a.CreateBattle(context.Background(), "Scorchio", "Nobody")
	assert.ErrorIs(t, err, postgres.ErrFighterNotFound)

	_, err = a.CreateBattle(context.Background(), "Nobody", "Shoyru")
	assert.ErrorIs(t, err, postgres.ErrFighterNotFound)
}

func TestArena_RunBattle(t *testing.T) {
	a, _ := newTestArena(t)
	ctx := context.Background()

	rec, err := a.CreateBattle(ctx, "Scorchio", "Shoyru")
	require.NoError(t, err)

	done, err := a.RunBattle(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.NotEmpty(t, done.Winner)
	require.NotEmpty(t, done.Events)

	ended, ok := battle.Outcome(done.Events)
	require.True(t, ok)
	assert.Equal(t, done.Winner, ended.Winner)
}

func TestArena_RunBattle_AlreadyCompleted(t *testing.T) {
	a, _ := newTestArena(t)
	ctx := context.Background()

	rec, err := a.CreateBattle(ctx, "Scorchio", "Shoyru")
	require.NoError(t, err)
	_, err = a.RunBattle(ctx, rec.ID)
	require.NoError(t, err)

	_, err = a.RunBattle(ctx, rec.ID)
	assert.ErrorIs(t, err, arena.ErrBattleCompleted)
}

func TestArena_RunBattle_NotFound(t *testing.T) {
	a, _ := newTestArena(t)

	_, err := a.RunBattle(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, postgres.ErrBattleNotFound)
}

func TestArena_RunPending(t *testing.T) {
	a, battles := newTestArena(t)
	ctx := context.Background()

	first, err := a.CreateBattle(ctx, "Scorchio", "Shoyru")
	require.NoError(t, err)
	second, err := a.CreateBattle(ctx, "Shoyru", "Scorchio")
	require.NoError(t, err)

	done, err := a.RunPending(ctx)
	require.NoError(t, err)
	require.Len(t, done, 2)
	assert.Equal(t, first.ID, done[0].ID, "pending battles run in creation order")
	assert.Equal(t, second.ID, done[1].ID)

	pending, err := battles.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestArena_WatchBattle(t *testing.T) {
	a, _ := newTestArena(t)
	ctx := context.Background()

	rec, err := a.CreateBattle(ctx, "Scorchio", "Shoyru")
	require.NoError(t, err)

	_, err = a.WatchBattle(ctx, rec.ID)
	require.Error(t, err, "pending battles cannot be watched")

	done, err := a.RunBattle(ctx, rec.ID)
	require.NoError(t, err)

	watched, err := a.WatchBattle(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, done.Events, watched.Events)
}

// TestArena_Replay: a completed battle re-simulated from its stored seed
// reproduces the persisted event log exactly.
func TestArena_Replay(t *testing.T) {
	a, _ := newTestArena(t)
	ctx := context.Background()

	rec, err := a.CreateBattle(ctx, "Scorchio", "Shoyru")
	require.NoError(t, err)
	done, err := a.RunBattle(ctx, rec.ID)
	require.NoError(t, err)

	replayed, err := a.Replay(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, done.Events, replayed)
}

func TestArena_Clean(t *testing.T) {
	a, battles := newTestArena(t)
	ctx := context.Background()

	_, err := a.CreateBattle(ctx, "Scorchio", "Shoyru")
	require.NoError(t, err)
	require.NoError(t, a.Clean(ctx))

	all, err := battles.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
