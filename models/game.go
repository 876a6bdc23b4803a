package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameResult is a cached score for one game, upserted from the feed.
// Scores are pointers so a scheduled or in-progress game without a
// final can be represented without inventing zeros.
type GameResult struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	League    League             `bson:"league" json:"league"`
	EventID   string             `bson:"event_id" json:"event_id"`
	Home      string             `bson:"home" json:"home"`
	Away      string             `bson:"away" json:"away"`
	HomeScore *int               `bson:"home_score,omitempty" json:"home_score,omitempty"`
	AwayScore *int               `bson:"away_score,omitempty" json:"away_score,omitempty"`
	Completed bool               `bson:"completed" json:"completed"`
	Kickoff   time.Time          `bson:"kickoff" json:"kickoff"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// HasFinalScore reports whether both scores are present and the game
// is done
func (g *GameResult) HasFinalScore() bool {
	return g.Completed && g.HomeScore != nil && g.AwayScore != nil
}

// MarginFor returns picked-team score minus opponent score for the
// given side. side must be g.Home or g.Away exactly; fuzzy resolution
// happens before this call.
func (g *GameResult) MarginFor(side string) (int, bool) {
	if !g.HasFinalScore() {
		return 0, false
	}
	switch side {
	case g.Home:
		return *g.HomeScore - *g.AwayScore, true
	case g.Away:
		return *g.AwayScore - *g.HomeScore, true
	}
	return 0, false
}

// OpponentScoreFor returns the opponent's score for the given side
func (g *GameResult) OpponentScoreFor(side string) (int, bool) {
	if !g.HasFinalScore() {
		return 0, false
	}
	switch side {
	case g.Home:
		return *g.AwayScore, true
	case g.Away:
		return *g.HomeScore, true
	}
	return 0, false
}

// PinnedEvent is a feed event resolved for a pick at claim time
type PinnedEvent struct {
	EventID  string    `json:"event_id"`
	Home     string    `json:"home"`
	Away     string    `json:"away"`
	Commence time.Time `json:"commence"`
	Side     string    `json:"side"` // the event team the pick resolved to
}
