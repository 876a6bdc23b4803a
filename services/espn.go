package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sac-pickem-go/logging"
	"sac-pickem-go/models"
)

// ESPNService resolves picked teams to ESPN scoreboard events. Pinning
// an event id at claim time lets scoring match deterministically later
// instead of re-running name matching against a moving feed.
type ESPNService struct {
	client  *http.Client
	baseURL string
	logger  *logging.Logger
}

// NewESPNService creates a new ESPN scoreboard client
func NewESPNService() *ESPNService {
	return &ESPNService{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://site.api.espn.com/apis/site/v2/sports/football",
		logger:  logging.WithPrefix("ESPN"),
	}
}

func leaguePath(league models.League) string {
	if league == models.LeagueNFL {
		return "nfl"
	}
	return "college-football"
}

// ESPN API response structures
type espnResponse struct {
	Events []espnEvent `json:"events"`
}

type espnEvent struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	Competitions []espnCompetition `json:"competitions"`
}

type espnCompetition struct {
	Competitors []espnCompetitor `json:"competitors"`
}

type espnCompetitor struct {
	HomeAway string   `json:"homeAway"`
	Team     espnTeam `json:"team"`
}

type espnTeam struct {
	DisplayName string `json:"displayName"`
	Location    string `json:"location"`
	Name        string `json:"name"`
}

// PinEvent finds the event within [start, end] whose home or away side
// best matches team. Returns nil without error when nothing clears the
// matching thresholds.
func (e *ESPNService) PinEvent(ctx context.Context, league models.League, team string, start, end time.Time) (*models.PinnedEvent, error) {
	events, err := e.getScoreboard(ctx, league, start, end)
	if err != nil {
		return nil, err
	}

	var best *models.PinnedEvent
	bestScore := 0.0

	for _, event := range events {
		commence, err := parseEventDate(event.Date)
		if err != nil {
			e.logger.Warnf("Skipping event %s with unparseable date %q: %v", event.ID, event.Date, err)
			continue
		}
		if len(event.Competitions) == 0 {
			continue
		}

		var home, away string
		for _, competitor := range event.Competitions[0].Competitors {
			name := competitor.Team.DisplayName
			if name == "" {
				name = competitor.Team.Location + " " + competitor.Team.Name
			}
			if competitor.HomeAway == "home" {
				home = name
			} else {
				away = name
			}
		}

		for _, side := range []string{home, away} {
			score := TeamSimilarity(team, side)
			if score > bestScore {
				bestScore = score
				best = &models.PinnedEvent{
					EventID:  event.ID,
					Home:     home,
					Away:     away,
					Commence: commence,
					Side:     side,
				}
			}
		}
	}

	if best == nil || !teamsMatch(team, best.Side) {
		e.logger.Debugf("No %s event matched %q (best score %.2f)", league, team, bestScore)
		return nil, nil
	}

	e.logger.Debugf("Pinned %q to event %s (%s vs %s)", team, best.EventID, best.Away, best.Home)
	return best, nil
}

// parseEventDate handles the scoreboard's date variants: ESPN usually
// drops the seconds.
func parseEventDate(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04Z", raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
	}
	return t, err
}

func (e *ESPNService) getScoreboard(ctx context.Context, league models.League, start, end time.Time) ([]espnEvent, error) {
	url := fmt.Sprintf("%s/%s/scoreboard?dates=%s-%s&limit=1000",
		e.baseURL, leaguePath(league),
		start.Format("20060102"), end.Format("20060102"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build scoreboard request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scoreboard request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoreboard returned status %d", resp.StatusCode)
	}

	var parsed espnResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode scoreboard: %w", err)
	}

	return parsed.Events, nil
}
