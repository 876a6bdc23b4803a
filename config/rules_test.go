package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPoolRules(t *testing.T) {
	rules := DefaultPoolRules()

	require.NoError(t, rules.Validate())
	assert.Equal(t, 6, rules.PoolSize())
	assert.Equal(t, []string{"joey", "chris", "dan", "nick", "kevin", "aaron"}, rules.PlayerIDs())

	assert.Equal(t, 1.0, rules.Rate)
	assert.Equal(t, 7.0, rules.CoverKicker)
	assert.Equal(t, -100.0, rules.PressThreshold)
	assert.Equal(t, 7.0, rules.DogMinSpread)
	assert.Equal(t, 46.88, rules.Bonuses.SweepWinner)
	assert.Equal(t, 46.88, rules.Bonuses.DogAward)
	assert.Equal(t, 23.44, rules.Bonuses.GooseAward)
	assert.False(t, rules.Bonuses.GooseEnabled)
}

func TestSeedOf(t *testing.T) {
	rules := DefaultPoolRules()

	assert.Equal(t, 1, rules.SeedOf("joey"))
	assert.Equal(t, 6, rules.SeedOf("aaron"))
	assert.Equal(t, 999, rules.SeedOf("stranger"))
	assert.True(t, rules.HasPlayer("dan"))
	assert.False(t, rules.HasPlayer("stranger"))
}

func TestValidateRejectsBadRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PoolRules)
	}{
		{"short roster", func(r *PoolRules) { r.Roster = r.Roster[:1] }},
		{"oversized roster", func(r *PoolRules) {
			for i := 0; i < 5; i++ {
				r.Roster = append(r.Roster, RosterEntry{ID: fmt.Sprintf("extra%d", i), Name: fmt.Sprintf("Extra %d", i)})
			}
		}},
		{"empty id", func(r *PoolRules) { r.Roster[2].ID = "" }},
		{"duplicate id", func(r *PoolRules) { r.Roster[1].ID = "joey" }},
		{"zero rate", func(r *PoolRules) { r.Rate = 0 }},
		{"negative dog spread", func(r *PoolRules) { r.DogMinSpread = -7 }},
		{"positive press threshold", func(r *PoolRules) { r.PressThreshold = 50 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultPoolRules()
			tt.mutate(rules)
			assert.Error(t, rules.Validate())
		})
	}
}

func TestLoadRulesMissingFileUsesDefaults(t *testing.T) {
	rules, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPoolRules(), rules)
}

func TestLoadRulesOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
rate: 2.5
cover_kicker: 3
bonuses:
  sweep_winner: 100
  goose_enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)

	assert.Equal(t, 2.5, rules.Rate)
	assert.Equal(t, 3.0, rules.CoverKicker)
	assert.Equal(t, 100.0, rules.Bonuses.SweepWinner)
	assert.True(t, rules.Bonuses.GooseEnabled)

	// Untouched fields keep their defaults
	assert.Equal(t, 6, rules.PoolSize())
	assert.Equal(t, 7.0, rules.DogMinSpread)
	assert.Equal(t, 46.88, rules.Bonuses.DogAward)
}

func TestLoadRulesRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()

	badYAML := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badYAML, []byte("rate: [not a number"), 0o644))
	_, err := LoadRules(badYAML)
	assert.Error(t, err)

	badRules := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(badRules, []byte("rate: -1\n"), 0o644))
	_, err = LoadRules(badRules)
	assert.Error(t, err)
}
