package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"sac-pickem-go/config"
	"sac-pickem-go/logging"
	"sac-pickem-go/models"
)

// scoreWindowPad widens a week's date range when pulling cached scores
// so late kickoffs and timezone drift do not lose games.
const scoreWindowPad = 24 * time.Hour

// WeekRepository is the schedule access the standings service needs
type WeekRepository interface {
	FindAll(ctx context.Context) ([]*models.Week, error)
	FindByNumber(ctx context.Context, number int) (*models.Week, error)
}

// PickReader reads pick snapshots
type PickReader interface {
	FindByWeek(ctx context.Context, weekID int) ([]*models.Pick, error)
}

// ScoreReader reads cached game results
type ScoreReader interface {
	FindByWindow(ctx context.Context, start, end time.Time) ([]*models.GameResult, error)
}

// ResultWriter persists weekly scoring lines
type ResultWriter interface {
	UpsertWeek(ctx context.Context, results []*models.WeeklyResult) error
	FindAll(ctx context.Context) ([]*models.WeeklyResult, error)
}

// StandingsService computes cumulative standings and the season
// scorecard. Standings always recompute from picks and cached scores;
// the weekly_results collection is a persisted convenience, not the
// source of truth.
type StandingsService struct {
	rules     *config.PoolRules
	weekRepo  WeekRepository
	pickRepo  PickReader
	scoreRepo ScoreReader
	results   ResultWriter
	payout    *PayoutService
	logger    *logging.Logger
}

func NewStandingsService(rules *config.PoolRules, weekRepo WeekRepository, pickRepo PickReader, scoreRepo ScoreReader, results ResultWriter, payout *PayoutService) *StandingsService {
	return &StandingsService{
		rules:     rules,
		weekRepo:  weekRepo,
		pickRepo:  pickRepo,
		scoreRepo: scoreRepo,
		results:   results,
		payout:    payout,
		logger:    logging.WithPrefix("StandingsService"),
	}
}

// ScoreWeek computes one week's breakdown from the current snapshot
// and persists its lines
func (s *StandingsService) ScoreWeek(ctx context.Context, weekNumber int) (*models.WeekBreakdown, error) {
	week, err := s.weekRepo.FindByNumber(ctx, weekNumber)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.computeWeek(ctx, week)
	if err != nil {
		return nil, err
	}

	if err := s.results.UpsertWeek(ctx, s.payout.BuildWeeklyResults(breakdown)); err != nil {
		return nil, fmt.Errorf("failed to persist week %d results: %w", weekNumber, err)
	}

	return breakdown, nil
}

func (s *StandingsService) computeWeek(ctx context.Context, week *models.Week) (*models.WeekBreakdown, error) {
	picks, err := s.pickRepo.FindByWeek(ctx, week.Number)
	if err != nil {
		return nil, err
	}

	scores, err := s.scoreRepo.FindByWindow(ctx,
		week.StartDate.Add(-scoreWindowPad), week.EndDate.Add(scoreWindowPad))
	if err != nil {
		return nil, err
	}

	return s.payout.ComputeWeek(week, picks, scores)
}

// Standings recomputes cumulative standings across the whole season.
// Display order is ascending dollars (the board tracks who owes),
// seed as tiebreak.
func (s *StandingsService) Standings(ctx context.Context) ([]models.Standing, error) {
	weeks, err := s.weekRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	byPlayer := make(map[string]*models.Standing)
	for _, entry := range s.rules.Roster {
		byPlayer[entry.ID] = &models.Standing{
			PlayerID: entry.ID,
			Name:     entry.Name,
			Seed:     s.rules.SeedOf(entry.ID),
		}
	}

	for _, week := range weeks {
		breakdown, err := s.computeWeek(ctx, week)
		if err != nil {
			return nil, fmt.Errorf("failed to score week %d: %w", week.Number, err)
		}
		for _, line := range breakdown.Lines {
			standing, ok := byPlayer[line.PlayerID]
			if !ok {
				continue
			}
			standing.Dollars += line.WeekTotal
			standing.Record.Add(line.College.Outcome)
			standing.Record.Add(line.Pro.Outcome)
		}
	}

	standings := make([]models.Standing, 0, len(byPlayer))
	for _, standing := range byPlayer {
		standings = append(standings, *standing)
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Dollars != standings[j].Dollars {
			return standings[i].Dollars < standings[j].Dollars
		}
		return standings[i].Seed < standings[j].Seed
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}

	return standings, nil
}

// Scorecard builds the player-by-quarter season grid from the
// persisted weekly results
func (s *StandingsService) Scorecard(ctx context.Context) ([]models.ScorecardRow, error) {
	results, err := s.results.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	type quarterAgg struct {
		weeks map[int]float64
	}
	byPlayer := make(map[string]map[int]*quarterAgg)
	for _, result := range results {
		if byPlayer[result.PlayerID] == nil {
			byPlayer[result.PlayerID] = make(map[int]*quarterAgg)
		}
		if byPlayer[result.PlayerID][result.Quarter] == nil {
			byPlayer[result.PlayerID][result.Quarter] = &quarterAgg{weeks: make(map[int]float64)}
		}
		byPlayer[result.PlayerID][result.Quarter].weeks[result.WeekID] = result.WeekTotal
	}

	rows := make([]models.ScorecardRow, 0, s.rules.PoolSize())
	for _, entry := range s.rules.Roster {
		row := models.ScorecardRow{PlayerID: entry.ID, Name: entry.Name}

		quarters := byPlayer[entry.ID]
		var quarterNums []int
		for q := range quarters {
			quarterNums = append(quarterNums, q)
		}
		sort.Ints(quarterNums)

		for _, q := range quarterNums {
			card := models.QuarterCard{Quarter: q}

			var weekNums []int
			for w := range quarters[q].weeks {
				weekNums = append(weekNums, w)
			}
			sort.Ints(weekNums)
			for _, w := range weekNums {
				total := quarters[q].weeks[w]
				card.Weeks = append(card.Weeks, total)
				card.Total += total
			}

			row.Quarters = append(row.Quarters, card)
			row.SeasonTotal += card.Total
		}

		rows = append(rows, row)
	}

	return rows, nil
}
