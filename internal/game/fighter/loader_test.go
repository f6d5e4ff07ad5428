package fighter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/colosseum/internal/game/fighter"
)

func writeRosterFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

const validFighterYAML = `
name: Scorchio
health: 100
heal_delta: 10
base_attack: 5
base_defense: 3
abilities:
  - name: Fireball
    effect: {}
behavior:
  attack_chance: 0.6
  heal_chance: 0.2
  ability_chances: [0.2]
`

func TestLoadRoster_Valid(t *testing.T) {
	dir := t.TempDir()
	writeRosterFile(t, dir, "scorchio.yaml", validFighterYAML)

	fighters, err := fighter.LoadRoster(dir)
	require.NoError(t, err)
	require.Len(t, fighters, 1)
	assert.Equal(t, "Scorchio", fighters[0].Name)
	assert.Equal(t, 100, fighters[0].Health)
	require.Len(t, fighters[0].Abilities, 1)
	assert.Equal(t, "Fireball", fighters[0].Abilities[0].Name)
}

func TestLoadRoster_SkipsNonYAML(t *testing.T) {
	dir := t.TempDir()
	writeRosterFile(t, dir, "scorchio.yaml", validFighterYAML)
	writeRosterFile(t, dir, "README.md", "not a fighter")

	fighters, err := fighter.LoadRoster(dir)
	require.NoError(t, err)
	assert.Len(t, fighters, 1)
}

func TestLoadRoster_InvalidBehaviorSum(t *testing.T) {
	dir := t.TempDir()
	writeRosterFile(t, dir, "broken.yaml", `
name: BrokenPet
health: 100
heal_delta: 10
base_attack: 5
base_defense: 3
abilities: []
behavior:
  attack_chance: 0.5
  heal_chance: 0.1
  ability_chances: []
`)

	_, err := fighter.LoadRoster(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
	assert.Contains(t, err.Error(), "sum")
}

func TestLoadRoster_AbilityCountMismatch(t *testing.T) {
	dir := t.TempDir()
	writeRosterFile(t, dir, "mismatch.yaml", `
name: MismatchPet
health: 100
heal_delta: 10
base_attack: 5
base_defense: 3
abilities:
  - name: Fireball
    effect: {}
  - name: Frost Nova
    effect: {}
behavior:
  attack_chance: 0.5
  heal_chance: 0.4
  ability_chances: [0.1]
`)

	_, err := fighter.LoadRoster(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ability chances")
}

func TestLoadRoster_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeRosterFile(t, dir, "garbage.yaml", "::: not yaml :::")

	_, err := fighter.LoadRoster(dir)
	assert.Error(t, err)
}

func TestLoadRoster_MissingDir(t *testing.T) {
	_, err := fighter.LoadRoster(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
