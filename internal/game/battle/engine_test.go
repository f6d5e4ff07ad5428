package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/colosseum/internal/game/battle"
	"github.com/cory-johannsen/colosseum/internal/game/dice"
)

// TestEngine_Run_Deterministic: the same two fighters and the same seed
// produce a bit-identical event sequence.
func TestEngine_Run_Deterministic(t *testing.T) {
	f1 := mustFighter(t, brawler("Scorchio", 100, 8, 4, 10, 0.6, 0.4))
	f2 := mustFighter(t, brawler("Shoyru", 100, 6, 6, 12, 0.5, 0.5))
	eng := battle.NewEngine(50, nil)

	for _, seed := range []int64{0, 1, 42, -7, 1 << 40} {
		a := eng.Run(f1, f2, dice.NewSeededSource(seed))
		b := eng.Run(f1, f2, dice.NewSeededSource(seed))
		require.Equal(t, a, b, "seed %d must replay identically", seed)
	}
}

// TestEngine_Run_EndsWithExactlyOneEnded: every battle terminates with exactly
// one terminal event, and it is the last entry in the log.
func TestEngine_Run_EndsWithExactlyOneEnded(t *testing.T) {
	f1 := mustFighter(t, brawler("Scorchio", 60, 8, 4, 10, 0.6, 0.4))
	f2 := mustFighter(t, brawler("Shoyru", 60, 6, 6, 12, 0.5, 0.5))
	eng := battle.NewEngine(30, nil)

	events := eng.Run(f1, f2, dice.NewSeededSource(9))

	count := 0
	for _, ev := range events {
		if _, ok := ev.(battle.Ended); ok {
			count++
		}
	}
	assert.Equal(t, 1, count)
	_, isEnded := events[len(events)-1].(battle.Ended)
	assert.True(t, isEnded, "Ended must be the final event")

	ended, ok := battle.Outcome(events)
	require.True(t, ok)
	assert.NotEmpty(t, ended.Winner)
	assert.NotEmpty(t, ended.Loser)
	assert.NotEqual(t, ended.Winner, ended.Loser)
}

// TestEngine_Run_InitiativeReroll: a scripted tie forces a full re-roll; both
// iterations are recorded as turn-0 initiative rolls and the final pair has a
// strict winner who acts first.
func TestEngine_Run_InitiativeReroll(t *testing.T) {
	// Both fighters only heal, so each turn consumes one float and one die.
	f1 := mustFighter(t, brawler("Alpha", 100, 0, 0, 0, 0.0, 1.0))
	f2 := mustFighter(t, brawler("Beta", 100, 0, 0, 0, 0.0, 1.0))
	eng := battle.NewEngine(4, nil)

	src := &scriptedSrc{
		// initiative: 10 vs 10 (tie, re-roll), then 5 vs 12 (Beta first),
		// then four heal rolls.
		ints:   dies(10, 10, 5, 12, 7, 7, 7, 7),
		floats: []float64{0.5, 0.5, 0.5, 0.5},
	}

	events := eng.Run(f1, f2, src)

	for i := 0; i < 4; i++ {
		roll, ok := events[i].(battle.Roll)
		require.True(t, ok, "event %d must be an initiative roll", i)
		assert.Equal(t, battle.PurposeInitiative, roll.Purpose)
		assert.Equal(t, 0, roll.Turn)
	}
	first := events[0].(battle.Roll)
	second := events[1].(battle.Roll)
	assert.Equal(t, "Alpha", first.Actor)
	assert.Equal(t, "Beta", second.Actor)
	assert.Equal(t, events[2].(battle.Roll).Die, 5)
	assert.Equal(t, events[3].(battle.Roll).Die, 12)

	// Beta won initiative, so turn 1 belongs to Beta.
	turn1 := events[4].(battle.Roll)
	assert.Equal(t, 1, turn1.Turn)
	assert.Equal(t, "Beta", turn1.Actor)
}

// TestEngine_Run_MaxTurnsTieBreak: two identical pacifists run to the cap;
// the reason is max-turns at the configured cap and the full tie resolves to
// the first-listed fighter.
func TestEngine_Run_MaxTurnsTieBreak(t *testing.T) {
	f1 := mustFighter(t, brawler("Alpha", 100, 0, 0, 0, 0.0, 1.0))
	f2 := mustFighter(t, brawler("Beta", 100, 0, 0, 0, 0.0, 1.0))
	eng := battle.NewEngine(10, nil)

	events := eng.Run(f1, f2, dice.NewSeededSource(3))

	ended, ok := battle.Outcome(events)
	require.True(t, ok)
	assert.Equal(t, battle.ReasonMaxTurns, ended.Reason.Kind)
	assert.Equal(t, 10, ended.Reason.Turns)
	assert.Equal(t, 10, ended.Turn)
	assert.Equal(t, "Alpha", ended.Winner, "full tie goes to the first-listed fighter")
	assert.Equal(t, "Beta", ended.Loser)
	assert.Equal(t, 100, ended.WinnerHP)
	assert.Equal(t, 100, ended.LoserHP)
}

// TestEngine_Run_StopsMidRound: a kill on turn 1 ends the battle before the
// second fighter ever acts.
func TestEngine_Run_StopsMidRound(t *testing.T) {
	f1 := mustFighter(t, brawler("Alpha", 100, 100, 0, 0, 1.0, 0.0))
	f2 := mustFighter(t, brawler("Beta", 1, 0, 0, 0, 0.0, 1.0))
	eng := battle.NewEngine(10, nil)

	src := &scriptedSrc{
		ints:   dies(15, 3, 10, 5), // initiative 15 vs 3, then attack 10 vs defense 5
		floats: []float64{0.0},     // Alpha chooses attack
	}

	events := eng.Run(f1, f2, src)

	// 2 initiative rolls + attack roll + defense roll + Attack + HealthChanged + Ended.
	require.Len(t, events, 7)

	ended := events[6].(battle.Ended)
	assert.Equal(t, 1, ended.Turn)
	assert.Equal(t, "Alpha", ended.Winner)
	assert.Equal(t, "Beta", ended.Loser)
	assert.Equal(t, 0, ended.LoserHP)
	assert.Equal(t, battle.ReasonHPDepleted, ended.Reason.Kind)
	assert.Equal(t, "Beta", ended.Reason.Loser)
}

// TestEngine_Run_Property checks the battle-wide invariants for arbitrary
// seeds: termination with one terminal event, rolls in [1, 20] with correct
// crit flags, HP ledger values always within [0, max], initiative never
// resolved on a tie, and a well-formed completion reason.
func TestEngine_Run_Property(t *testing.T) {
	f1 := mustFighter(t, brawler("Scorchio", 80, 8, 4, 10, 0.6, 0.4))
	f2 := mustFighter(t, brawler("Shoyru", 90, 6, 6, 12, 0.5, 0.5))
	eng := battle.NewEngine(20, nil)

	maxHP := map[string]int{"Scorchio": 80, "Shoyru": 90}

	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		events := eng.Run(f1, f2, dice.NewSeededSource(seed))

		endedCount := 0
		var lastInitiative [2]int
		initiativeRolls := 0
		for _, ev := range events {
			switch e := ev.(type) {
			case battle.Roll:
				assert.GreaterOrEqual(rt, e.Die, 1)
				assert.LessOrEqual(rt, e.Die, 20)
				assert.Equal(rt, e.Die == 20, e.CritSuccess)
				assert.Equal(rt, e.Die == 1, e.CritFailure)
				if e.Purpose == battle.PurposeInitiative {
					lastInitiative[initiativeRolls%2] = e.Die
					initiativeRolls++
				}
			case battle.HealthChanged:
				assert.GreaterOrEqual(rt, e.NewHP, 0)
				assert.LessOrEqual(rt, e.NewHP, maxHP[e.Fighter])
			case battle.Ended:
				endedCount++
				switch e.Reason.Kind {
				case battle.ReasonHPDepleted:
					assert.Equal(rt, 0, e.LoserHP)
					assert.Equal(rt, e.Loser, e.Reason.Loser)
				case battle.ReasonMaxTurns:
					assert.Equal(rt, 20, e.Reason.Turns)
				default:
					rt.Fatalf("invalid completion reason %v", e.Reason.Kind)
				}
			}
		}

		assert.Equal(rt, 1, endedCount, "exactly one terminal event")
		assert.Equal(rt, 0, initiativeRolls%2, "initiative rolls come in pairs")
		assert.NotEqual(rt, lastInitiative[0], lastInitiative[1],
			"initiative must resolve with a strict winner")
	})
}

func TestNewEngine_RejectsNonPositiveCap(t *testing.T) {
	assert.Panics(t, func() { battle.NewEngine(0, nil) })
}
