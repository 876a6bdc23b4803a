package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Slot identifies one of the two weekly pick columns
type Slot string

const (
	SlotCollege Slot = "A" // college slot
	SlotPro     Slot = "B" // pro slot
)

// League identifies the game source for a pick
type League string

const (
	LeagueNCAA League = "NCAA"
	LeagueNFL  League = "NFL"
)

// Outcome represents a pick's against-the-spread result
type Outcome string

const (
	OutcomeWin  Outcome = "W"
	OutcomeLoss Outcome = "L"
	OutcomePush Outcome = "P"
	OutcomeNone Outcome = "" // no final score yet
)

// BonusCombo is the set of bonus tokens riding a pick. Stored as a
// "+"-joined string ("LOY+LOQ+DOG") on the pick row; parsed at the
// persistence boundary.
type BonusCombo struct {
	LOY bool `json:"loy"`
	LOQ bool `json:"loq"`
	DOG bool `json:"dog"`
}

// ParseBonusCombo parses a combo string. Case-insensitive; unknown
// tokens are ignored.
func ParseBonusCombo(s string) BonusCombo {
	var combo BonusCombo
	for _, token := range strings.Split(s, "+") {
		switch strings.ToUpper(strings.TrimSpace(token)) {
		case "LOY":
			combo.LOY = true
		case "LOQ":
			combo.LOQ = true
		case "DOG":
			combo.DOG = true
		}
	}
	return combo
}

// String returns the canonical combo string (LOY, LOQ, DOG order),
// empty when no tokens are set.
func (c BonusCombo) String() string {
	var tokens []string
	if c.LOY {
		tokens = append(tokens, "LOY")
	}
	if c.LOQ {
		tokens = append(tokens, "LOQ")
	}
	if c.DOG {
		tokens = append(tokens, "DOG")
	}
	return strings.Join(tokens, "+")
}

// HasProtection reports whether the combo carries a steal-protection
// token (LOY or LOQ)
func (c BonusCombo) HasProtection() bool {
	return c.LOY || c.LOQ
}

// Multiplier returns the askip multiplier for the combo: LOY wins over
// LOQ, and the pressed flag doubles whatever the tokens give.
func (c BonusCombo) Multiplier(pressed bool) float64 {
	mult := 1.0
	if c.LOY {
		mult = 4.0
	} else if c.LOQ {
		mult = 2.0
	}
	if pressed {
		mult *= 2
	}
	return mult
}

// IsEmpty reports whether no tokens are set
func (c BonusCombo) IsEmpty() bool {
	return !c.LOY && !c.LOQ && !c.DOG
}

// Pick represents one player's claim on a team for a week and slot.
// A stolen pick stays in the collection for history and token
// accounting but is invisible to boards and scoring.
type Pick struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	WeekID   int                `bson:"week_id" json:"week_id"`
	PlayerID string             `bson:"player_id" json:"player_id"`
	Slot     Slot               `bson:"slot" json:"slot"`
	League   League             `bson:"league" json:"league"`
	Team     string             `bson:"team" json:"team"`
	Spread   float64            `bson:"spread" json:"spread"`
	Odds     int                `bson:"odds,omitempty" json:"odds,omitempty"`
	Combo    string             `bson:"combo,omitempty" json:"combo,omitempty"`
	Pressed  bool               `bson:"pressed" json:"pressed"`
	Steal    bool               `bson:"steal" json:"steal"`
	Stolen   bool               `bson:"stolen" json:"stolen"`
	StolenBy string             `bson:"stolen_by,omitempty" json:"stolen_by,omitempty"`

	// Pinned feed event, resolved best-effort at claim time
	EventID       string    `bson:"event_id,omitempty" json:"event_id,omitempty"`
	EventHome     string    `bson:"event_home,omitempty" json:"event_home,omitempty"`
	EventAway     string    `bson:"event_away,omitempty" json:"event_away,omitempty"`
	EventCommence time.Time `bson:"event_commence,omitempty" json:"event_commence,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Bonuses parses the pick's combo string
func (p *Pick) Bonuses() BonusCombo {
	return ParseBonusCombo(p.Combo)
}

// IsActive reports whether the pick still owns its team
func (p *Pick) IsActive() bool {
	return !p.Stolen
}

// FormatSpread renders the spread for display ("+7", "-3.5", "PK")
func (p *Pick) FormatSpread() string {
	if p.Spread == 0 {
		return "PK"
	}
	if p.Spread == float64(int(p.Spread)) {
		return fmt.Sprintf("%+d", int(p.Spread))
	}
	return fmt.Sprintf("%+.1f", p.Spread)
}

// LeagueForSlot returns the league a slot draws from. The first week of
// a quarter is all college, both slots.
func LeagueForSlot(slot Slot, weekOne bool) League {
	if slot == SlotPro && !weekOne {
		return LeagueNFL
	}
	return LeagueNCAA
}

// Record is an against-the-spread tally
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Pushes int `json:"pushes"`
}

// Add counts one outcome into the record. Unset outcomes are ignored.
func (r *Record) Add(o Outcome) {
	switch o {
	case OutcomeWin:
		r.Wins++
	case OutcomeLoss:
		r.Losses++
	case OutcomePush:
		r.Pushes++
	}
}

// String returns the record in "W-L-P" format
func (r Record) String() string {
	return fmt.Sprintf("%d-%d-%d", r.Wins, r.Losses, r.Pushes)
}
