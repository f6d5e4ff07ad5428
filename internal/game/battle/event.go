// Package battle implements the turn-based battle simulation engine: a pure,
// synchronous function of two validated fighters and an injected random
// source, producing a deterministic, replayable event log.
package battle

import (
	"encoding/json"
	"fmt"
)

// RollPurpose identifies why a die was rolled. It is a closed enum rather
// than a free-form string so an invalid purpose cannot be constructed.
type RollPurpose int

const (
	PurposeAttack RollPurpose = iota
	PurposeDefense
	PurposeHeal
	PurposeInitiative
)

// String returns the stable tag for the purpose.
func (p RollPurpose) String() string {
	switch p {
	case PurposeAttack:
		return "attack"
	case PurposeDefense:
		return "defense"
	case PurposeHeal:
		return "heal"
	case PurposeInitiative:
		return "initiative"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the purpose as its string tag.
func (p RollPurpose) MarshalJSON() ([]byte, error) {
	if p < PurposeAttack || p > PurposeInitiative {
		return nil, fmt.Errorf("battle: cannot marshal invalid roll purpose %d", int(p))
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a string tag into a RollPurpose.
func (p *RollPurpose) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "attack":
		*p = PurposeAttack
	case "defense":
		*p = PurposeDefense
	case "heal":
		*p = PurposeHeal
	case "initiative":
		*p = PurposeInitiative
	default:
		return fmt.Errorf("battle: unknown roll purpose %q", s)
	}
	return nil
}

// ReasonKind distinguishes the two battle completion conditions.
type ReasonKind int

const (
	ReasonHPDepleted ReasonKind = iota
	ReasonMaxTurns
)

// String returns the stable tag for the reason kind.
func (k ReasonKind) String() string {
	switch k {
	case ReasonHPDepleted:
		return "hp_depleted"
	case ReasonMaxTurns:
		return "max_turns"
	default:
		return "unknown"
	}
}

// Reason records why a battle completed. Exactly one is recorded per battle;
// once set it never changes.
type Reason struct {
	Kind ReasonKind
	// Loser names the fighter whose HP reached 0. Set only for ReasonHPDepleted.
	Loser string
	// Turns is the turn count at which the cap was hit. Set only for ReasonMaxTurns.
	Turns int
}

type reasonJSON struct {
	Kind  string `json:"kind"`
	Loser string `json:"loser,omitempty"`
	Turns int    `json:"turns,omitempty"`
}

// MarshalJSON encodes the reason with its kind tag.
func (r Reason) MarshalJSON() ([]byte, error) {
	return json.Marshal(reasonJSON{Kind: r.Kind.String(), Loser: r.Loser, Turns: r.Turns})
}

// UnmarshalJSON decodes a kind-tagged reason.
func (r *Reason) UnmarshalJSON(data []byte) error {
	var raw reasonJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case "hp_depleted":
		r.Kind = ReasonHPDepleted
	case "max_turns":
		r.Kind = ReasonMaxTurns
	default:
		return fmt.Errorf("battle: unknown completion reason %q", raw.Kind)
	}
	r.Loser = raw.Loser
	r.Turns = raw.Turns
	return nil
}

// Event is one entry in a battle's append-only log. Events are immutable once
// appended; the log is the sole externally observed artifact of a battle.
type Event interface {
	// EventKind returns the stable tag used when serializing the log.
	EventKind() string
}

// Roll records a single die roll, its modified total, and its crit flags.
// CritSuccess is set iff the die shows exactly 20; CritFailure iff exactly 1.
type Roll struct {
	Turn        int         `json:"turn"`
	Actor       string      `json:"actor"`
	Die         int         `json:"die"`
	Total       int         `json:"total"`
	CritSuccess bool        `json:"crit_success"`
	CritFailure bool        `json:"crit_failure"`
	Purpose     RollPurpose `json:"purpose"`
}

// EventKind returns "roll".
func (Roll) EventKind() string { return "roll" }

// Attack records a resolved attack: the opposing totals and the final damage
// after crit adjustment and clamping.
type Attack struct {
	Turn         int    `json:"turn"`
	Actor        string `json:"actor"`
	Target       string `json:"target"`
	AttackTotal  int    `json:"attack_total"`
	DefenseTotal int    `json:"defense_total"`
	Damage       int    `json:"damage"`
}

// EventKind returns "attack".
func (Attack) EventKind() string { return "attack" }

// Heal records a resolved heal with the amount after crit adjustment.
type Heal struct {
	Turn   int    `json:"turn"`
	Actor  string `json:"actor"`
	Amount int    `json:"amount"`
}

// EventKind returns "heal".
func (Heal) EventKind() string { return "heal" }

// AbilityUse records an ability being invoked. Abilities have no numeric
// effect resolution; the event is the entire outcome.
type AbilityUse struct {
	Turn    int    `json:"turn"`
	Actor   string `json:"actor"`
	Target  string `json:"target"`
	Ability string `json:"ability"`
}

// EventKind returns "ability_use".
func (AbilityUse) EventKind() string { return "ability_use" }

// HealthChanged records an HP mutation with both the previous and new values.
type HealthChanged struct {
	Fighter    string `json:"fighter"`
	PreviousHP int    `json:"previous_hp"`
	NewHP      int    `json:"new_hp"`
	Turn       int    `json:"turn"`
}

// EventKind returns "health_changed".
func (HealthChanged) EventKind() string { return "health_changed" }

// Ended is the single terminal event of every battle.
type Ended struct {
	Turn     int    `json:"turn"`
	Winner   string `json:"winner"`
	Loser    string `json:"loser"`
	WinnerHP int    `json:"winner_hp"`
	LoserHP  int    `json:"loser_hp"`
	Reason   Reason `json:"reason"`
}

// EventKind returns "battle_ended".
func (Ended) EventKind() string { return "battle_ended" }

// Outcome returns the terminal Ended event of a completed battle log.
//
// Postcondition: ok is true iff the log contains an Ended event; a well-formed
// log produced by Engine.Run always ends with exactly one.
func Outcome(events []Event) (Ended, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if e, isEnd := events[i].(Ended); isEnd {
			return e, true
		}
	}
	return Ended{}, false
}
