package battle

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/colosseum/internal/game/dice"
	"github.com/cory-johannsen/colosseum/internal/game/fighter"
)

// Engine runs complete battles. It holds only configuration; all per-battle
// state lives in a State owned by the Run call, so one Engine may serve many
// concurrent battles provided each gets its own Source.
type Engine struct {
	maxTurns int
	logger   *zap.Logger
}

// NewEngine creates an Engine with the given turn cap.
//
// Precondition: maxTurns >= 1 (panics otherwise). A nil logger disables
// logging; logging never affects the event sequence.
func NewEngine(maxTurns int, logger *zap.Logger) *Engine {
	if maxTurns < 1 {
		panic(fmt.Sprintf("battle: NewEngine requires maxTurns >= 1, got %d", maxTurns))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{maxTurns: maxTurns, logger: logger}
}

// Run simulates a full battle between f1 and f2, drawing all randomness from
// src, and returns the complete event log.
//
// Phases: initiative (re-roll entirely on ties, no iteration cap), turn
// alternation (turn numbers advance by 1 per individual action, starting at
// 1), completion (the loop stops immediately once a reason is recorded, even
// mid-round, and exactly one Ended event is appended).
//
// Precondition: f1 and f2 are validated fighters with distinct names; src is
// non-nil and exclusively owned by this call for its duration.
// Postcondition: the returned log ends with exactly one Ended event, and
// re-running with a Source built from the same seed reproduces it exactly.
func (e *Engine) Run(f1, f2 fighter.Fighter, src dice.Source) []Event {
	var events []Event

	// Initiative: both fighters roll until a strict winner emerges. This can
	// loop arbitrarily long on ties; it terminates with probability 1.
	var first, second fighter.Fighter
	for {
		r1Die, r1 := rollFor(f1.Name, 0, 0, PurposeInitiative, src)
		r2Die, r2 := rollFor(f2.Name, 0, 0, PurposeInitiative, src)
		events = append(events, r1, r2)
		if r1Die == r2Die {
			continue
		}
		first, second = f1, f2
		if r2Die > r1Die {
			first, second = f2, f1
		}
		break
	}
	e.logger.Debug("initiative resolved",
		zap.String("first", first.Name),
		zap.String("second", second.Name),
	)

	// Tie-break order follows the argument order, not initiative order.
	st := NewState(f1, f2, e.maxTurns)

	actors := [2]fighter.Fighter{first, second}
	for {
		for i, actor := range actors {
			opponent := actors[1-i]
			turn := st.AdvanceTurn()

			action := ChooseAction(actor.Behavior, src)
			e.logger.Debug("turn resolved",
				zap.Int("turn", turn),
				zap.String("actor", actor.Name),
				zap.Stringer("action", action),
			)
			events = append(events, ResolveTurn(actor, opponent, action, turn, src, st)...)

			if reason := st.CheckCompletion(); reason != nil {
				winner, loser, _ := st.WinnerLoser()
				ended := Ended{
					Turn:     st.Turn(),
					Winner:   winner,
					Loser:    loser,
					WinnerHP: st.HP(winner),
					LoserHP:  st.HP(loser),
					Reason:   *reason,
				}
				events = append(events, ended)
				e.logger.Debug("battle ended",
					zap.Int("turn", ended.Turn),
					zap.String("winner", winner),
					zap.String("loser", loser),
					zap.String("reason", reason.Kind.String()),
				)
				return events
			}
		}
	}
}
