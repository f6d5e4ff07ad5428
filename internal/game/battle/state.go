package battle

import (
	"fmt"

	"github.com/cory-johannsen/colosseum/internal/game/fighter"
)

// State is the mutable HP ledger for one battle. It is owned exclusively by
// the orchestrator for the battle's duration and is the single source of
// truth for "is the battle over and who is winning".
//
// Invariant: 0 <= hp[name] <= maxHP[name] for both fighters at all times.
type State struct {
	first  string
	second string

	hp    map[string]int
	maxHP map[string]int

	turn     int
	maxTurns int

	reason *Reason
}

// NewState creates the ledger for a battle between f1 and f2. The argument
// order fixes the "first-listed" fighter used by the documented tie-breaks;
// it is independent of initiative order.
//
// Precondition: f1 and f2 must be validated fighters with distinct names;
// maxTurns must be >= 1.
func NewState(f1, f2 fighter.Fighter, maxTurns int) *State {
	if f1.Name == f2.Name {
		panic("battle: NewState requires two distinct fighter names, got " + f1.Name)
	}
	if maxTurns < 1 {
		panic(fmt.Sprintf("battle: NewState requires maxTurns >= 1, got %d", maxTurns))
	}
	return &State{
		first:  f1.Name,
		second: f2.Name,
		hp: map[string]int{
			f1.Name: f1.Health,
			f2.Name: f2.Health,
		},
		maxHP: map[string]int{
			f1.Name: f1.Health,
			f2.Name: f2.Health,
		},
		maxTurns: maxTurns,
	}
}

// HP returns the current HP for the named fighter.
//
// Precondition: name must be one of the two fighters. Panics otherwise;
// an unrecognized name is a caller bug, not a battle condition.
func (s *State) HP(name string) int {
	hp, ok := s.hp[name]
	if !ok {
		panic("battle: unknown fighter name " + name)
	}
	return hp
}

// MaxHP returns the maximum HP for the named fighter.
//
// Precondition: name must be one of the two fighters; panics otherwise.
func (s *State) MaxHP(name string) int {
	max, ok := s.maxHP[name]
	if !ok {
		panic("battle: unknown fighter name " + name)
	}
	return max
}

// Turn returns the current turn counter. Turn 0 is the initiative phase;
// the counter advances by 1 per individual action.
func (s *State) Turn() int { return s.turn }

// MaxTurns returns the configured turn cap.
func (s *State) MaxTurns() int { return s.maxTurns }

// AdvanceTurn increments the turn counter and returns the new value.
func (s *State) AdvanceTurn() int {
	s.turn++
	return s.turn
}

// ApplyDamage subtracts amount from the named fighter's HP, saturating at 0,
// and returns the new HP.
//
// Precondition: amount >= 0; name must be one of the two fighters (panics
// otherwise).
// Postcondition: 0 <= returned HP <= MaxHP(name).
func (s *State) ApplyDamage(name string, amount int) int {
	hp, ok := s.hp[name]
	if !ok {
		panic("battle: ApplyDamage on unknown fighter name " + name)
	}
	hp -= amount
	if hp < 0 {
		hp = 0
	}
	s.hp[name] = hp
	return hp
}

// ApplyHealing adds amount to the named fighter's HP, clamping at that
// fighter's max HP, and returns the new HP.
//
// Precondition: amount >= 0; name must be one of the two fighters (panics
// otherwise).
// Postcondition: 0 <= returned HP <= MaxHP(name).
func (s *State) ApplyHealing(name string, amount int) int {
	hp, ok := s.hp[name]
	if !ok {
		panic("battle: ApplyHealing on unknown fighter name " + name)
	}
	hp += amount
	if hp > s.maxHP[name] {
		hp = s.maxHP[name]
	}
	s.hp[name] = hp
	return hp
}

// CheckCompletion evaluates the termination conditions and returns the
// completion reason, or nil while the battle continues.
//
// Evaluation order: HP depletion of the first-listed fighter, then of the
// second (a documented tie-break when both reach 0 in the same resolution
// step), then the turn cap. Idempotent: once a reason is recorded, subsequent
// calls return the same cached reason without re-evaluating.
func (s *State) CheckCompletion() *Reason {
	if s.reason != nil {
		return s.reason
	}
	switch {
	case s.hp[s.first] == 0:
		s.reason = &Reason{Kind: ReasonHPDepleted, Loser: s.first}
	case s.hp[s.second] == 0:
		s.reason = &Reason{Kind: ReasonHPDepleted, Loser: s.second}
	case s.turn >= s.maxTurns:
		s.reason = &Reason{Kind: ReasonMaxTurns, Turns: s.turn}
	}
	return s.reason
}

// Completed reports whether a completion reason has been recorded.
func (s *State) Completed() bool { return s.reason != nil }

// WinnerLoser returns the battle's winner and loser once complete.
//
// Postcondition: ok is false while the battle is incomplete. Once complete,
// the fighter with strictly higher HP wins; on an HP tie the fighter with the
// higher max HP wins; on a full tie the first-listed fighter wins. The
// tie-breaks are fixed and documented, never random.
func (s *State) WinnerLoser() (winner, loser string, ok bool) {
	if s.reason == nil {
		return "", "", false
	}
	firstHP, secondHP := s.hp[s.first], s.hp[s.second]
	switch {
	case firstHP > secondHP:
		return s.first, s.second, true
	case secondHP > firstHP:
		return s.second, s.first, true
	case s.maxHP[s.first] > s.maxHP[s.second]:
		return s.first, s.second, true
	case s.maxHP[s.second] > s.maxHP[s.first]:
		return s.second, s.first, true
	default:
		return s.first, s.second, true
	}
}
