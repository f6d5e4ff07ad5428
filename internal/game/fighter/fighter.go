// Package fighter defines the immutable combatant stat block and its
// construction-time validation. The battle engine assumes every Fighter it
// receives passed through New; invalid definitions never reach a battle.
package fighter

import (
	"fmt"
	"math"
)

// weightEpsilon is the tolerance used when checking that behavior weights
// sum to 1.0. Float summation noise is far below this; real misconfiguration
// is far above it.
const weightEpsilon = 1e-9

// Ability is a named ability with an opaque effect payload. The engine never
// interprets Effect; it is carried through serialization untouched.
type Ability struct {
	Name   string         `json:"name" yaml:"name"`
	Effect map[string]any `json:"effect" yaml:"effect"`
}

// Behavior is the action-selection weight set for a fighter.
//
// Invariant (enforced by Validate): AttackChance + HealChance +
// sum(AbilityChances) == 1.0 within weightEpsilon, and every weight is in
// [0, 1].
type Behavior struct {
	AttackChance   float64   `json:"attack_chance" yaml:"attack_chance"`
	HealChance     float64   `json:"heal_chance" yaml:"heal_chance"`
	AbilityChances []float64 `json:"ability_chances" yaml:"ability_chances"`
}

// Validate checks the behavior weight invariants.
//
// Postcondition: returns nil iff every weight is in [0, 1] and the weights
// sum to 1.0 within weightEpsilon.
func (b Behavior) Validate() error {
	weights := append([]float64{b.AttackChance, b.HealChance}, b.AbilityChances...)
	total := 0.0
	for _, w := range weights {
		if w < 0 || w > 1 {
			return fmt.Errorf("behavior weight %v out of range [0, 1] (attack: %v, heal: %v, abilities: %v)",
				w, b.AttackChance, b.HealChance, b.AbilityChances)
		}
		total += w
	}
	if math.Abs(total-1.0) > weightEpsilon {
		return fmt.Errorf("behavior probabilities sum to %v but must equal 1.0 (attack: %v, heal: %v, abilities: %v)",
			total, b.AttackChance, b.HealChance, b.AbilityChances)
	}
	return nil
}

// Fighter is an immutable, validated combatant stat block. Construct via New.
type Fighter struct {
	Name        string    `json:"name"`
	Health      int       `json:"health"`
	HealDelta   int       `json:"heal_delta"`
	BaseAttack  int       `json:"base_attack"`
	BaseDefense int       `json:"base_defense"`
	Abilities   []Ability `json:"abilities"`
	Behavior    Behavior  `json:"behavior"`
}

// Def is the raw, not-yet-validated fighter definition as it appears in
// roster YAML files and stored rows.
type Def struct {
	Name        string    `json:"name" yaml:"name"`
	Health      int       `json:"health" yaml:"health"`
	HealDelta   int       `json:"heal_delta" yaml:"heal_delta"`
	BaseAttack  int       `json:"base_attack" yaml:"base_attack"`
	BaseDefense int       `json:"base_defense" yaml:"base_defense"`
	Abilities   []Ability `json:"abilities" yaml:"abilities"`
	Behavior    Behavior  `json:"behavior" yaml:"behavior"`
}

// New validates def and returns the Fighter.
//
// Postcondition: on success the returned Fighter satisfies every engine
// precondition: non-empty name, Health >= 1, non-negative deltas, ability
// chance count equal to ability count, and valid behavior weights.
func New(def Def) (Fighter, error) {
	if def.Name == "" {
		return Fighter{}, fmt.Errorf("fighter: name must not be empty")
	}
	if def.Health < 1 {
		return Fighter{}, fmt.Errorf("fighter %s: health must be >= 1, got %d", def.Name, def.Health)
	}
	if def.HealDelta < 0 {
		return Fighter{}, fmt.Errorf("fighter %s: heal_delta must be >= 0, got %d", def.Name, def.HealDelta)
	}
	if def.BaseAttack < 0 {
		return Fighter{}, fmt.Errorf("fighter %s: base_attack must be >= 0, got %d", def.Name, def.BaseAttack)
	}
	if def.BaseDefense < 0 {
		return Fighter{}, fmt.Errorf("fighter %s: base_defense must be >= 0, got %d", def.Name, def.BaseDefense)
	}
	if len(def.Behavior.AbilityChances) != len(def.Abilities) {
		return Fighter{}, fmt.Errorf("fighter %s: %d ability chances but %d abilities",
			def.Name, len(def.Behavior.AbilityChances), len(def.Abilities))
	}
	if err := def.Behavior.Validate(); err != nil {
		return Fighter{}, fmt.Errorf("fighter %s: %w", def.Name, err)
	}

	return Fighter{
		Name:        def.Name,
		Health:      def.Health,
		HealDelta:   def.HealDelta,
		BaseAttack:  def.BaseAttack,
		BaseDefense: def.BaseDefense,
		Abilities:   def.Abilities,
		Behavior:    def.Behavior,
	}, nil
}
