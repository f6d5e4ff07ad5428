package battle

import (
	"github.com/cory-johannsen/colosseum/internal/game/dice"
	"github.com/cory-johannsen/colosseum/internal/game/fighter"
)

// UnknownAbility is the sentinel ability name emitted when the selected
// ability index is out of range. That can only happen on a misbehaving
// selector; the resolver records the use rather than failing the battle.
const UnknownAbility = "Unknown"

// rollFor draws a d20 for actor and builds the Roll event with modifier added
// and crit flags evaluated independently (20 sets CritSuccess, 1 sets
// CritFailure, all other values set neither).
func rollFor(actor string, modifier, turn int, purpose RollPurpose, src dice.Source) (int, Roll) {
	die := dice.RollD20(src)
	return die, Roll{
		Turn:        turn,
		Actor:       actor,
		Die:         die,
		Total:       die + modifier,
		CritSuccess: die == 20,
		CritFailure: die == 1,
		Purpose:     purpose,
	}
}

// ResolveTurn computes the full outcome of actor's chosen action against
// opponent on the given turn, applies any HP mutation to st, and returns the
// events in emission order.
//
// Attack: two rolls (attack then defense). Raw damage is the saturating
// difference of the totals; a positive crit on the attacker's die doubles it,
// a negative crit zeroes it (the zero overrides the double). The defender's
// roll is recorded but never independently crits the attack.
//
// Heal: one roll; the configured heal amount is doubled on a positive crit
// and zeroed on a negative crit.
//
// UseAbility: no dice, no state mutation; one AbilityUse event.
//
// HealthChanged is emitted only when the applied amount is > 0.
//
// Precondition: actor and opponent are validated fighters tracked by st;
// src and st must be non-nil.
func ResolveTurn(actor, opponent fighter.Fighter, action Action, turn int, src dice.Source, st *State) []Event {
	switch action.Type {
	case ActionHeal:
		return resolveHeal(actor, turn, src, st)
	case ActionUseAbility:
		return resolveAbility(actor, opponent, action.AbilityIndex, turn)
	default:
		// ActionAttack; ActionUnknown never leaves ChooseAction.
		return resolveAttack(actor, opponent, turn, src, st)
	}
}

func resolveAttack(actor, opponent fighter.Fighter, turn int, src dice.Source, st *State) []Event {
	atkDie, atkRoll := rollFor(actor.Name, actor.BaseAttack, turn, PurposeAttack, src)
	_, defRoll := rollFor(opponent.Name, opponent.BaseDefense, turn, PurposeDefense, src)

	// Saturating subtraction: damage is never negative. A double-20 exchange
	// still applies the defender's total before the crit doubling, so the
	// doubled net can legitimately be zero.
	damage := atkRoll.Total - defRoll.Total
	if damage < 0 {
		damage = 0
	}
	if atkDie == 20 {
		damage *= 2
	}
	if atkDie == 1 {
		damage = 0
	}

	events := []Event{
		atkRoll,
		defRoll,
		Attack{
			Turn:         turn,
			Actor:        actor.Name,
			Target:       opponent.Name,
			AttackTotal:  atkRoll.Total,
			DefenseTotal: defRoll.Total,
			Damage:       damage,
		},
	}

	if damage > 0 {
		prev := st.HP(opponent.Name)
		newHP := st.ApplyDamage(opponent.Name, damage)
		events = append(events, HealthChanged{
			Fighter:    opponent.Name,
			PreviousHP: prev,
			NewHP:      newHP,
			Turn:       turn,
		})
	}

	return events
}

func resolveHeal(actor fighter.Fighter, turn int, src dice.Source, st *State) []Event {
	die, roll := rollFor(actor.Name, 0, turn, PurposeHeal, src)

	amount := actor.HealDelta
	if die == 20 {
		amount *= 2
	}
	if die == 1 {
		amount = 0
	}

	events := []Event{
		roll,
		Heal{Turn: turn, Actor: actor.Name, Amount: amount},
	}

	if amount > 0 {
		prev := st.HP(actor.Name)
		newHP := st.ApplyHealing(actor.Name, amount)
		events = append(events, HealthChanged{
			Fighter:    actor.Name,
			PreviousHP: prev,
			NewHP:      newHP,
			Turn:       turn,
		})
	}

	return events
}

func resolveAbility(actor, opponent fighter.Fighter, index, turn int) []Event {
	name := UnknownAbility
	if index >= 0 && index < len(actor.Abilities) {
		name = actor.Abilities[index].Name
	}
	return []Event{
		AbilityUse{Turn: turn, Actor: actor.Name, Target: opponent.Name, Ability: name},
	}
}
