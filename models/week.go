package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeekStatus tracks whether a week still accepts claims
type WeekStatus string

const (
	WeekStatusOpen   WeekStatus = "OPEN"
	WeekStatusLocked WeekStatus = "LOCKED"
)

// Week is one scoring period of the season. Weeks are grouped into
// quarters; the first week of each quarter takes college picks in both
// slots.
type Week struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Number    int                `bson:"number" json:"number"`
	Quarter   int                `bson:"quarter" json:"quarter"`
	Label     string             `bson:"label" json:"label"` // "Q2-W3"
	Status    WeekStatus         `bson:"status" json:"status"`
	StartDate time.Time          `bson:"start_date" json:"start_date"`
	EndDate   time.Time          `bson:"end_date" json:"end_date"`
	WeekOne   bool               `bson:"week_one" json:"week_one"`
}

// IsOpen reports whether the week accepts claims
func (w *Week) IsOpen() bool {
	return w.Status == WeekStatusOpen
}

// FormatLabel builds the canonical week label
func FormatLabel(quarter, weekOfQuarter int) string {
	return fmt.Sprintf("Q%d-W%d", quarter, weekOfQuarter)
}

// WeeklyResult is the persisted scoring line for one player and week
type WeeklyResult struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PlayerID       string             `bson:"player_id" json:"player_id"`
	WeekID         int                `bson:"week_id" json:"week_id"`
	Quarter        int                `bson:"quarter" json:"quarter"`
	WeekTotal      float64            `bson:"week_total" json:"week_total"`
	CollegeDollars float64            `bson:"college_dollars" json:"college_dollars"`
	ProDollars     float64            `bson:"pro_dollars" json:"pro_dollars"`
	BonusTotal     float64            `bson:"bonus_total" json:"bonus_total"`
	BonusLabels    []string           `bson:"bonus_labels,omitempty" json:"bonus_labels,omitempty"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
