package interfaces

import (
	"context"

	"sac-pickem-go/models"
	"sac-pickem-go/services"
)

// PickFlow defines the claim operations handlers depend on
type PickFlow interface {
	Claim(ctx context.Context, req models.ClaimRequest) (*services.ClaimResult, error)
	Erase(ctx context.Context, weekID int, playerID string, slot models.Slot) error
	Board(ctx context.Context, weekID int) ([]*models.Pick, error)
	History(ctx context.Context, playerID string) ([]*models.Pick, error)
}

// WeekSource defines schedule lookups handlers depend on
type WeekSource interface {
	FindByNumber(ctx context.Context, number int) (*models.Week, error)
	FindCurrent(ctx context.Context) (*models.Week, error)
}

// WeekAdmin defines the schedule maintenance operations
type WeekAdmin interface {
	Upsert(ctx context.Context, week *models.Week) error
	SetStatus(ctx context.Context, number int, status models.WeekStatus) error
}

// Scoring defines week scoring and standings operations
type Scoring interface {
	ScoreWeek(ctx context.Context, weekNumber int) (*models.WeekBreakdown, error)
	Standings(ctx context.Context) ([]models.Standing, error)
	Scorecard(ctx context.Context) ([]models.ScorecardRow, error)
}

// LineFeed serves current spread offerings from the odds feed
type LineFeed interface {
	GetLines(ctx context.Context, league models.League) ([]services.GameLine, error)
}

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	TestConnection(ctx context.Context) error
}
