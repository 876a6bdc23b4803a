package config

import (
	"fmt"
	"os"

	"sac-pickem-go/logging"

	"gopkg.in/yaml.v3"
)

// PoolRules holds the pool's roster and money rules. Loaded from a YAML
// file so a commissioner can tune amounts without a rebuild; every field
// has a default matching the long-running house rules.
type PoolRules struct {
	// Roster in seed priority order (first entry = seed 1).
	Roster []RosterEntry `yaml:"roster"`

	// Dollars per askip point.
	Rate float64 `yaml:"rate"`

	// Flat bonus added to askip for any covering pick. Not multiplied.
	CoverKicker float64 `yaml:"cover_kicker"`

	// Press is only allowed at or below this cumulative balance.
	PressThreshold float64 `yaml:"press_threshold"`

	// Minimum underdog spread for a DOG token to be valid.
	DogMinSpread float64 `yaml:"dog_min_spread"`

	// A favorite at or below this spread that gets shut out is a cooked goose.
	CookedGooseSpread float64 `yaml:"cooked_goose_spread"`

	Bonuses BonusCatalog `yaml:"bonuses"`
}

// RosterEntry is one player in the pool
type RosterEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// BonusCatalog holds the trigger-side dollar amount of each bonus. The
// offsetting side is always the amount split evenly across the other
// players, which keeps every bonus zero-sum for any roster size.
type BonusCatalog struct {
	SweepWinner         float64 `yaml:"sweep_winner"`
	ReverseSweepLoser   float64 `yaml:"reverse_sweep_loser"`
	QuiggerWinner       float64 `yaml:"quigger_winner"`
	ReverseQuiggerLoser float64 `yaml:"reverse_quigger_loser"`
	DogAward            float64 `yaml:"dog_award"`
	GooseAward          float64 `yaml:"goose_award"`
	CookedGoose         float64 `yaml:"cooked_goose"`
	GooseEnabled        bool    `yaml:"goose_enabled"`
}

// DefaultPoolRules returns the standing house rules
func DefaultPoolRules() *PoolRules {
	return &PoolRules{
		Roster: []RosterEntry{
			{ID: "joey", Name: "Joey"},
			{ID: "chris", Name: "Chris"},
			{ID: "dan", Name: "Dan"},
			{ID: "nick", Name: "Nick"},
			{ID: "kevin", Name: "Kevin"},
			{ID: "aaron", Name: "Aaron"},
		},
		Rate:              1.0,
		CoverKicker:       7.0,
		PressThreshold:    -100.0,
		DogMinSpread:      7.0,
		CookedGooseSpread: -2.0,
		Bonuses: BonusCatalog{
			SweepWinner:         46.88,
			ReverseSweepLoser:   46.88,
			QuiggerWinner:       46.88,
			ReverseQuiggerLoser: 46.88,
			DogAward:            46.88,
			GooseAward:          23.44,
			CookedGoose:         23.44,
			GooseEnabled:        false,
		},
	}
}

// LoadRules reads pool rules from a YAML file. A missing file is not an
// error; the defaults apply. Fields absent from the file keep their
// default values.
func LoadRules(path string) (*PoolRules, error) {
	rules := DefaultPoolRules()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Warnf("Rules file %s not found, using default pool rules", path)
			return rules, nil
		}
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pool rules in %s: %w", path, err)
	}

	logging.Infof("Loaded pool rules from %s (%d players, rate %.2f)", path, len(rules.Roster), rules.Rate)
	return rules, nil
}

// Validate checks the rules for values the engine cannot work with
func (r *PoolRules) Validate() error {
	if len(r.Roster) < 2 {
		return fmt.Errorf("roster needs at least 2 players, got %d", len(r.Roster))
	}
	// The steal ladder packs within-tier standing into strides of 10,
	// so an 11th player would let standing leak across token tiers.
	if len(r.Roster) > 10 {
		return fmt.Errorf("roster cannot exceed 10 players, got %d", len(r.Roster))
	}

	seen := make(map[string]bool, len(r.Roster))
	for _, entry := range r.Roster {
		if entry.ID == "" {
			return fmt.Errorf("roster entry with empty id")
		}
		if seen[entry.ID] {
			return fmt.Errorf("duplicate roster id: %s", entry.ID)
		}
		seen[entry.ID] = true
	}

	if r.Rate <= 0 {
		return fmt.Errorf("rate must be positive, got %.2f", r.Rate)
	}
	if r.DogMinSpread <= 0 {
		return fmt.Errorf("dog minimum spread must be positive, got %.1f", r.DogMinSpread)
	}
	if r.PressThreshold > 0 {
		return fmt.Errorf("press threshold must be zero or negative, got %.2f", r.PressThreshold)
	}

	return nil
}

// PoolSize returns the number of players in the roster
func (r *PoolRules) PoolSize() int {
	return len(r.Roster)
}

// SeedOf returns the 1-based seed priority of a player, or 999 for
// players not on the roster.
func (r *PoolRules) SeedOf(playerID string) int {
	for i, entry := range r.Roster {
		if entry.ID == playerID {
			return i + 1
		}
	}
	return 999
}

// HasPlayer reports whether the player is on the roster
func (r *PoolRules) HasPlayer(playerID string) bool {
	return r.SeedOf(playerID) != 999
}

// PlayerIDs returns the roster ids in seed order
func (r *PoolRules) PlayerIDs() []string {
	ids := make([]string, len(r.Roster))
	for i, entry := range r.Roster {
		ids[i] = entry.ID
	}
	return ids
}
