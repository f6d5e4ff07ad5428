package battle_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/colosseum/internal/game/fighter"
)

// scriptedSrc is a deterministic source that replays queued draws in order.
// Intn values are queued as raw [0, n) results; use dies() to queue d20 faces.
// Panics on exhaustion so a test that consumes more randomness than scripted
// fails loudly.
type scriptedSrc struct {
	ints   []int
	floats []float64
}

func (s *scriptedSrc) Intn(_ int) int {
	if len(s.ints) == 0 {
		panic("scriptedSrc: int draws exhausted")
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func (s *scriptedSrc) Float64() float64 {
	if len(s.floats) == 0 {
		panic("scriptedSrc: float draws exhausted")
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// dies converts d20 face values into the Intn results that produce them.
func dies(faces ...int) []int {
	ints := make([]int, len(faces))
	for i, f := range faces {
		ints[i] = f - 1
	}
	return ints
}

// fixedFloatSrc returns the same float for every draw; Intn cycles a fixed die.
type fixedFloatSrc struct {
	f   float64
	die int
}

func (s fixedFloatSrc) Intn(_ int) int   { return s.die - 1 }
func (s fixedFloatSrc) Float64() float64 { return s.f }

func mustFighter(t *testing.T, def fighter.Def) fighter.Fighter {
	t.Helper()
	f, err := fighter.New(def)
	require.NoError(t, err)
	return f
}

// brawler is a plain attacker/healer definition used across the engine tests.
func brawler(name string, health, attack, defense, healDelta int, attackChance, healChance float64) fighter.Def {
	return fighter.Def{
		Name:        name,
		Health:      health,
		HealDelta:   healDelta,
		BaseAttack:  attack,
		BaseDefense: defense,
		Behavior: fighter.Behavior{
			AttackChance: attackChance,
			HealChance:   healChance,
		},
	}
}
