package services

import (
	"context"
	"sync"
	"time"

	"sac-pickem-go/logging"
	"sac-pickem-go/models"
)

// ScoreWriter persists feed results
type ScoreWriter interface {
	UpsertMany(ctx context.Context, results []*models.GameResult) error
}

// BackgroundUpdater polls the odds feed on an interval and refreshes
// the game score cache for both leagues
type BackgroundUpdater struct {
	feed     *OddsAPIService
	scores   ScoreWriter
	interval time.Duration
	daysFrom int
	logger   *logging.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

func NewBackgroundUpdater(feed *OddsAPIService, scores ScoreWriter, interval time.Duration, daysFrom int) *BackgroundUpdater {
	return &BackgroundUpdater{
		feed:     feed,
		scores:   scores,
		interval: interval,
		daysFrom: daysFrom,
		logger:   logging.WithPrefix("Updater"),
	}
}

// Start launches the polling loop. Safe to call once; later calls are
// no-ops until Stop.
func (u *BackgroundUpdater) Start() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	u.running = true

	go u.run(ctx)
	u.logger.Infof("Started, polling every %s", u.interval)
}

// Stop halts the polling loop
func (u *BackgroundUpdater) Stop() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.running {
		return
	}
	u.cancel()
	u.running = false
	u.logger.Info("Stopped")
}

func (u *BackgroundUpdater) run(ctx context.Context) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	u.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.refresh(ctx)
		}
	}
}

func (u *BackgroundUpdater) refresh(ctx context.Context) {
	for _, league := range []models.League{models.LeagueNCAA, models.LeagueNFL} {
		results, err := u.feed.GetScores(ctx, league, u.daysFrom)
		if err != nil {
			u.logger.Warnf("Score refresh failed for %s: %v", league, err)
			continue
		}
		if len(results) == 0 {
			continue
		}
		if err := u.scores.UpsertMany(ctx, results); err != nil {
			u.logger.Errorf("Score cache write failed for %s: %v", league, err)
			continue
		}
		u.logger.Debugf("Refreshed %d %s results", len(results), league)
	}
}
