package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"sac-pickem-go/logging"
	"sac-pickem-go/models"
)

// OddsAPIService pulls scores and spreads from the-odds-api.com
type OddsAPIService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  *logging.Logger
}

// NewOddsAPIService creates a new Odds API client
func NewOddsAPIService(apiKey string) *OddsAPIService {
	return &OddsAPIService{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://api.the-odds-api.com/v4",
		apiKey:  apiKey,
		logger:  logging.WithPrefix("OddsAPI"),
	}
}

func sportKey(league models.League) string {
	if league == models.LeagueNFL {
		return "americanfootball_nfl"
	}
	return "americanfootball_ncaaf"
}

// Odds API response structures
type oddsAPIScore struct {
	ID           string             `json:"id"`
	SportKey     string             `json:"sport_key"`
	CommenceTime time.Time          `json:"commence_time"`
	Completed    bool               `json:"completed"`
	HomeTeam     string             `json:"home_team"`
	AwayTeam     string             `json:"away_team"`
	Scores       []oddsAPITeamScore `json:"scores"`
}

type oddsAPITeamScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

type oddsAPIEvent struct {
	ID           string             `json:"id"`
	CommenceTime time.Time          `json:"commence_time"`
	HomeTeam     string             `json:"home_team"`
	AwayTeam     string             `json:"away_team"`
	Bookmakers   []oddsAPIBookmaker `json:"bookmakers"`
}

type oddsAPIBookmaker struct {
	Key     string          `json:"key"`
	Title   string          `json:"title"`
	Markets []oddsAPIMarket `json:"markets"`
}

type oddsAPIMarket struct {
	Key      string           `json:"key"`
	Outcomes []oddsAPIOutcome `json:"outcomes"`
}

type oddsAPIOutcome struct {
	Name  string   `json:"name"`
	Price int      `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// GameLine is one game's current spread offering. Spread and odds are
// quoted from the home side's perspective.
type GameLine struct {
	EventID    string        `json:"event_id"`
	League     models.League `json:"league"`
	Home       string        `json:"home"`
	Away       string        `json:"away"`
	Commence   time.Time     `json:"commence"`
	HomeSpread float64       `json:"home_spread"`
	HomeOdds   int           `json:"home_odds"`
	AwayOdds   int           `json:"away_odds"`
	HasSpread  bool          `json:"has_spread"`
}

// GetScores fetches scores for a league, covering games up to daysFrom
// days back
func (o *OddsAPIService) GetScores(ctx context.Context, league models.League, daysFrom int) ([]*models.GameResult, error) {
	endpoint := fmt.Sprintf("%s/sports/%s/scores", o.baseURL, sportKey(league))
	query := url.Values{
		"apiKey":   {o.apiKey},
		"daysFrom": {strconv.Itoa(daysFrom)},
	}

	var scores []oddsAPIScore
	if err := o.getJSON(ctx, endpoint+"?"+query.Encode(), &scores); err != nil {
		return nil, fmt.Errorf("failed to fetch %s scores: %w", league, err)
	}

	results := make([]*models.GameResult, 0, len(scores))
	for _, score := range scores {
		results = append(results, convertScore(league, score))
	}

	o.logger.Debugf("Fetched %d %s score rows", len(results), league)
	return results, nil
}

// GetLines fetches upcoming spread lines for a league
func (o *OddsAPIService) GetLines(ctx context.Context, league models.League) ([]GameLine, error) {
	endpoint := fmt.Sprintf("%s/sports/%s/odds", o.baseURL, sportKey(league))
	query := url.Values{
		"apiKey":     {o.apiKey},
		"regions":    {"us"},
		"markets":    {"spreads"},
		"oddsFormat": {"american"},
	}

	var events []oddsAPIEvent
	if err := o.getJSON(ctx, endpoint+"?"+query.Encode(), &events); err != nil {
		return nil, fmt.Errorf("failed to fetch %s lines: %w", league, err)
	}

	lines := make([]GameLine, 0, len(events))
	for _, event := range events {
		lines = append(lines, convertEvent(league, event))
	}

	o.logger.Debugf("Fetched %d %s lines", len(lines), league)
	return lines, nil
}

// TestConnection verifies the feed answers at all
func (o *OddsAPIService) TestConnection(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/sports?apiKey=%s", o.baseURL, o.apiKey)

	var sports []json.RawMessage
	if err := o.getJSON(ctx, endpoint, &sports); err != nil {
		return fmt.Errorf("odds feed health check failed: %w", err)
	}
	return nil
}

func (o *OddsAPIService) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func convertScore(league models.League, score oddsAPIScore) *models.GameResult {
	result := &models.GameResult{
		League:    league,
		EventID:   score.ID,
		Home:      score.HomeTeam,
		Away:      score.AwayTeam,
		Completed: score.Completed,
		Kickoff:   score.CommenceTime,
	}

	for _, ts := range score.Scores {
		points, err := strconv.Atoi(ts.Score)
		if err != nil {
			continue
		}
		p := points
		switch ts.Name {
		case score.HomeTeam:
			result.HomeScore = &p
		case score.AwayTeam:
			result.AwayScore = &p
		}
	}

	return result
}

// convertEvent takes the first bookmaker carrying a spreads market
func convertEvent(league models.League, event oddsAPIEvent) GameLine {
	line := GameLine{
		EventID:  event.ID,
		League:   league,
		Home:     event.HomeTeam,
		Away:     event.AwayTeam,
		Commence: event.CommenceTime,
	}

	for _, bookmaker := range event.Bookmakers {
		for _, market := range bookmaker.Markets {
			if market.Key != "spreads" {
				continue
			}
			for _, outcome := range market.Outcomes {
				if outcome.Point == nil {
					continue
				}
				switch outcome.Name {
				case event.HomeTeam:
					line.HomeSpread = *outcome.Point
					line.HomeOdds = outcome.Price
					line.HasSpread = true
				case event.AwayTeam:
					line.AwayOdds = outcome.Price
				}
			}
			if line.HasSpread {
				return line
			}
		}
	}

	return line
}
