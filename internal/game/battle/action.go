package battle

import (
	"fmt"

	"github.com/cory-johannsen/colosseum/internal/game/dice"
	"github.com/cory-johannsen/colosseum/internal/game/fighter"
)

// ActionType identifies what a fighter does on their turn.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionType int

const (
	ActionUnknown ActionType = iota // zero value; intentionally invalid
	ActionAttack
	ActionHeal
	ActionUseAbility
)

// String returns the human-readable name of the ActionType.
func (a ActionType) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionHeal:
		return "heal"
	case ActionUseAbility:
		return "use_ability"
	default:
		return "unknown"
	}
}

// Action is one selected action for a turn. AbilityIndex is meaningful only
// when Type == ActionUseAbility.
type Action struct {
	Type         ActionType
	AbilityIndex int
}

// String returns a short description, e.g. "attack" or "use_ability(1)".
func (a Action) String() string {
	if a.Type == ActionUseAbility {
		return fmt.Sprintf("use_ability(%d)", a.AbilityIndex)
	}
	return a.Type.String()
}

// ChooseAction partitions [0, 1) into contiguous intervals in fixed order
// (attack first, then heal, then abilities in declaration order) and returns
// the action whose interval contains one uniform draw from src.
//
// If float drift leaves the draw past every interval (cannot occur for a
// Behavior that passed validation), the selector falls back to Attack. This
// fallback is a documented defensive guard, not normal control flow.
//
// Precondition: src must be non-nil.
func ChooseAction(b fighter.Behavior, src dice.Source) Action {
	draw := src.Float64()
	if draw < b.AttackChance {
		return Action{Type: ActionAttack}
	}
	if draw < b.AttackChance+b.HealChance {
		return Action{Type: ActionHeal}
	}

	abilityDraw := draw - (b.AttackChance + b.HealChance)
	cumulative := 0.0
	for i, chance := range b.AbilityChances {
		cumulative += chance
		if abilityDraw < cumulative {
			return Action{Type: ActionUseAbility, AbilityIndex: i}
		}
	}

	// Defensive fallback for float drift past the last interval.
	return Action{Type: ActionAttack}
}
