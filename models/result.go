package models

// SlotLine is the scoring detail of one pick within a week breakdown
type SlotLine struct {
	Team    string   `json:"team,omitempty"`
	Spread  float64  `json:"spread"`
	Outcome Outcome  `json:"outcome"`
	Diff    *float64 `json:"diff,omitempty"` // cover margin; nil until a final score exists
	Askip   float64  `json:"askip"`
	Dollars float64  `json:"dollars"`
}

// BonusAward is one bonus line for a player in a week. Negative
// amounts are charges.
type BonusAward struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// PlayerLine is one player's full scoring line for a week
type PlayerLine struct {
	PlayerID       string       `json:"player_id"`
	College        SlotLine     `json:"college"`
	Pro            SlotLine     `json:"pro"`
	Askip          float64      `json:"askip"`
	CollegeDollars float64      `json:"college_dollars"`
	ProDollars     float64      `json:"pro_dollars"`
	Bonuses        []BonusAward `json:"bonuses,omitempty"`
	BonusTotal     float64      `json:"bonus_total"`
	WeekTotal      float64      `json:"week_total"`
}

// BonusLabels returns the labels of the player's bonus awards
func (l *PlayerLine) BonusLabels() []string {
	if len(l.Bonuses) == 0 {
		return nil
	}
	labels := make([]string, len(l.Bonuses))
	for i, b := range l.Bonuses {
		labels[i] = b.Label
	}
	return labels
}

// WeekBreakdown is the computed scoring of one week
type WeekBreakdown struct {
	WeekID  int          `json:"week_id"`
	Quarter int          `json:"quarter"`
	Lines   []PlayerLine `json:"lines"`
}

// LineFor returns the breakdown line for a player, or nil
func (b *WeekBreakdown) LineFor(playerID string) *PlayerLine {
	for i := range b.Lines {
		if b.Lines[i].PlayerID == playerID {
			return &b.Lines[i]
		}
	}
	return nil
}

// Standing is a player's cumulative position in the pool
type Standing struct {
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	Dollars  float64 `json:"dollars"`
	Record   Record  `json:"record"`
	Seed     int     `json:"seed"`
	Rank     int     `json:"rank"` // display rank, 1 = lowest dollars
}

// QuarterCard is one quarter column of the season scorecard
type QuarterCard struct {
	Quarter int       `json:"quarter"`
	Weeks   []float64 `json:"weeks"`
	Total   float64   `json:"total"`
}

// ScorecardRow is one player's row of the season scorecard
type ScorecardRow struct {
	PlayerID    string        `json:"player_id"`
	Name        string        `json:"name"`
	Quarters    []QuarterCard `json:"quarters"`
	SeasonTotal float64       `json:"season_total"`
}
