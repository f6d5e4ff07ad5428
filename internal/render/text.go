// Package render formats battle event logs as human-readable text. It only
// reads the event stream; nothing here feeds back into the engine.
package render

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/colosseum/internal/game/battle"
)

// Events formats an event log as one line per event.
func Events(events []battle.Event) string {
	var b strings.Builder
	for _, ev := range events {
		b.WriteString(renderEvent(ev))
		b.WriteString("\n")
	}
	return b.String()
}

func renderEvent(ev battle.Event) string {
	switch e := ev.(type) {
	case battle.Roll:
		line := fmt.Sprintf("[turn %2d] %s rolls %d for %s (total %d)",
			e.Turn, e.Actor, e.Die, e.Purpose, e.Total)
		if e.CritSuccess {
			line += " CRITICAL!"
		}
		if e.CritFailure {
			line += " FUMBLE!"
		}
		return line
	case battle.Attack:
		return fmt.Sprintf("[turn %2d] %s attacks %s: %d vs %d, %d damage",
			e.Turn, e.Actor, e.Target, e.AttackTotal, e.DefenseTotal, e.Damage)
	case battle.Heal:
		return fmt.Sprintf("[turn %2d] %s heals for %d",
			e.Turn, e.Actor, e.Amount)
	case battle.AbilityUse:
		return fmt.Sprintf("[turn %2d] %s uses %s on %s",
			e.Turn, e.Actor, e.Ability, e.Target)
	case battle.HealthChanged:
		return fmt.Sprintf("[turn %2d] %s: %d -> %d HP",
			e.Turn, e.Fighter, e.PreviousHP, e.NewHP)
	case battle.Ended:
		switch e.Reason.Kind {
		case battle.ReasonMaxTurns:
			return fmt.Sprintf("[turn %2d] battle over after %d turns: %s defeats %s (%d HP vs %d HP)",
				e.Turn, e.Reason.Turns, e.Winner, e.Loser, e.WinnerHP, e.LoserHP)
		default:
			return fmt.Sprintf("[turn %2d] %s falls: %s wins with %d HP",
				e.Turn, e.Loser, e.Winner, e.WinnerHP)
		}
	default:
		return fmt.Sprintf("unknown event %T", ev)
	}
}

// Summary formats a one-line battle result, or a pending notice when the
// battle has not run.
func Summary(fighter1, fighter2, winner string, completed bool) string {
	matchup := fmt.Sprintf("%s vs %s", fighter1, fighter2)
	if !completed {
		return fmt.Sprintf("%-40s pending", matchup)
	}
	return fmt.Sprintf("%-40s winner: %s", matchup, winner)
}
