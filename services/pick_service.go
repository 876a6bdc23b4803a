package services

import (
	"context"
	"fmt"
	"time"

	"sac-pickem-go/config"
	"sac-pickem-go/logging"
	"sac-pickem-go/models"
)

// PickStore is the pick persistence the claim flow needs
type PickStore interface {
	FindAll(ctx context.Context) ([]*models.Pick, error)
	FindByPlayer(ctx context.Context, playerID string) ([]*models.Pick, error)
	FindActiveByWeek(ctx context.Context, weekID int) ([]*models.Pick, error)
	FindActiveClaim(ctx context.Context, weekID int, slot models.Slot, team string) (*models.Pick, error)
	FindActiveByPlayerSlot(ctx context.Context, weekID int, playerID string, slot models.Slot) (*models.Pick, error)
	Assign(ctx context.Context, pick *models.Pick, victim *models.Pick) error
	DeleteActive(ctx context.Context, weekID int, playerID string, slot models.Slot) error
}

// EventPinner resolves a picked team to a feed event
type EventPinner interface {
	PinEvent(ctx context.Context, league models.League, team string, start, end time.Time) (*models.PinnedEvent, error)
}

// StandingsSource supplies cumulative standings for press gating and
// ladder ranks
type StandingsSource interface {
	Standings(ctx context.Context) ([]models.Standing, error)
}

// ClaimResult is the outcome of a claim attempt. A denial comes back
// with Allowed=false and no pick; an accepted claim carries the
// written pick.
type ClaimResult struct {
	Decision models.Decision `json:"decision"`
	Pick     *models.Pick    `json:"pick,omitempty"`
}

// PickService runs the claim and erase flows
type PickService struct {
	rules     *config.PoolRules
	store     PickStore
	weekRepo  WeekRepository
	usage     *BonusUsageService
	steal     *StealService
	ladder    *LadderService
	standings StandingsSource
	pinner    EventPinner // may be nil when no feed is configured
	logger    *logging.Logger
}

func NewPickService(rules *config.PoolRules, store PickStore, weekRepo WeekRepository, usage *BonusUsageService, steal *StealService, ladder *LadderService, standings StandingsSource, pinner EventPinner) *PickService {
	return &PickService{
		rules:     rules,
		store:     store,
		weekRepo:  weekRepo,
		usage:     usage,
		steal:     steal,
		ladder:    ladder,
		standings: standings,
		pinner:    pinner,
		logger:    logging.WithPrefix("PickService"),
	}
}

// Claim validates, authorizes and writes a claim. The three failure
// families stay distinct: malformed or over-spent claims return a
// ValidationError, refused steals return a denial Decision, and a
// lost write race returns models.ErrTeamTaken.
func (s *PickService) Claim(ctx context.Context, req models.ClaimRequest) (*ClaimResult, error) {
	if err := s.validateShape(req); err != nil {
		return nil, err
	}

	week, err := s.weekRepo.FindByNumber(ctx, req.WeekID)
	if err != nil {
		return nil, err
	}
	if !week.IsOpen() {
		return nil, models.ErrWeekLocked
	}

	league := models.LeagueForSlot(req.Slot, week.WeekOne)

	if err := s.validateTokens(ctx, req, week); err != nil {
		return nil, err
	}

	standings, err := s.standings.Standings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load standings: %w", err)
	}

	if req.Pressed {
		if err := s.validatePress(req.PlayerID, standings); err != nil {
			return nil, err
		}
	}

	victim, err := s.store.FindActiveClaim(ctx, req.WeekID, req.Slot, req.Team)
	if err != nil {
		return nil, err
	}

	isSteal := victim != nil && victim.PlayerID != req.PlayerID
	if isSteal && !req.Combo.HasProtection() && !req.ConfirmSteal {
		return nil, models.NewValidationError("confirm_steal", "stealing %s without LOY or LOQ requires confirmation", req.Team)
	}

	if isSteal {
		ranks := s.ladder.Ranks(standings)
		decision := s.steal.Authorize(req.PlayerID, req.Combo, victim, ranks)
		if !decision.Allowed {
			s.logger.Infof("Claim denied: %s on %s held by %s (%s)",
				req.PlayerID, req.Team, victim.PlayerID, decision.Reason)
			return &ClaimResult{Decision: decision}, nil
		}
	}

	pick := &models.Pick{
		WeekID:    req.WeekID,
		PlayerID:  req.PlayerID,
		Slot:      req.Slot,
		League:    league,
		Team:      req.Team,
		Spread:    req.Spread,
		Odds:      req.Odds,
		Combo:     req.Combo.String(),
		Pressed:   req.Pressed,
		Steal:     isSteal,
		CreatedAt: time.Now(),
	}

	s.pinEvent(ctx, pick, week)

	if !isSteal {
		victim = nil
	}
	if err := s.store.Assign(ctx, pick, victim); err != nil {
		return nil, err
	}

	if isSteal {
		s.logger.Infof("%s stole %s from %s (week %d slot %s)",
			req.PlayerID, req.Team, victim.PlayerID, req.WeekID, req.Slot)
	} else {
		s.logger.Infof("%s claimed %s (week %d slot %s)",
			req.PlayerID, req.Team, req.WeekID, req.Slot)
	}

	return &ClaimResult{Decision: models.Allow(), Pick: pick}, nil
}

// Erase removes the caller's own active pick for a week and slot
func (s *PickService) Erase(ctx context.Context, weekID int, playerID string, slot models.Slot) error {
	week, err := s.weekRepo.FindByNumber(ctx, weekID)
	if err != nil {
		return err
	}
	if !week.IsOpen() {
		return models.ErrWeekLocked
	}

	if err := s.store.DeleteActive(ctx, weekID, playerID, slot); err != nil {
		return err
	}
	s.logger.Infof("%s erased their week %d slot %s pick", playerID, weekID, slot)
	return nil
}

// History returns a player's full season of picks, stolen rows
// included. This is the token ledger: every combo ever played shows
// here, whether or not the pick survived.
func (s *PickService) History(ctx context.Context, playerID string) ([]*models.Pick, error) {
	if !s.rules.HasPlayer(playerID) {
		return nil, models.NewValidationError("player_id", "unknown player %q", playerID)
	}
	return s.store.FindByPlayer(ctx, playerID)
}

// Board returns the live picks of a week. Stolen picks are already
// filtered out by the store; the duplicate check guards against a
// corrupted board.
func (s *PickService) Board(ctx context.Context, weekID int) ([]*models.Pick, error) {
	picks, err := s.store.FindActiveByWeek(ctx, weekID)
	if err != nil {
		return nil, err
	}
	if _, err := activePicks(picks); err != nil {
		return nil, err
	}
	return picks, nil
}

func (s *PickService) validateShape(req models.ClaimRequest) error {
	if !s.rules.HasPlayer(req.PlayerID) {
		return models.NewValidationError("player_id", "unknown player %q", req.PlayerID)
	}
	if req.Slot != models.SlotCollege && req.Slot != models.SlotPro {
		return models.NewValidationError("slot", "slot must be A or B, got %q", req.Slot)
	}
	if req.Team == "" {
		return models.NewValidationError("team", "team is required")
	}
	if req.Combo.DOG && req.Spread < s.rules.DogMinSpread {
		return models.NewValidationError("combo", "DOG needs an underdog of at least %+.1f, got %+.1f",
			s.rules.DogMinSpread, req.Spread)
	}
	return nil
}

func (s *PickService) validateTokens(ctx context.Context, req models.ClaimRequest, week *models.Week) error {
	if req.Combo.IsEmpty() {
		return nil
	}

	picks, err := s.store.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pick history: %w", err)
	}

	weeks, err := s.weekRepo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedule: %w", err)
	}
	weekQuarters := make(map[int]int, len(weeks))
	for _, w := range weeks {
		weekQuarters[w.Number] = w.Quarter
	}

	current, err := s.store.FindActiveByPlayerSlot(ctx, req.WeekID, req.PlayerID, req.Slot)
	if err != nil {
		return err
	}

	avail := s.usage.Available(req.PlayerID, week.Quarter, picks, weekQuarters, current)
	return s.usage.Validate(req.Combo, avail)
}

func (s *PickService) validatePress(playerID string, standings []models.Standing) error {
	for _, standing := range standings {
		if standing.PlayerID != playerID {
			continue
		}
		if standing.Dollars <= s.rules.PressThreshold {
			return nil
		}
		return models.NewValidationError("pressed", "press requires a balance at or below %.2f, %s sits at %.2f",
			s.rules.PressThreshold, playerID, standing.Dollars)
	}
	return models.NewValidationError("pressed", "no standing found for %s", playerID)
}

// pinEvent resolves the feed event for a pick, best effort. Failure
// leaves the pick unpinned; scoring falls back to name matching.
func (s *PickService) pinEvent(ctx context.Context, pick *models.Pick, week *models.Week) {
	if s.pinner == nil {
		return
	}

	pinned, err := s.pinner.PinEvent(ctx, pick.League, pick.Team, week.StartDate, week.EndDate)
	if err != nil {
		s.logger.Warnf("Could not pin event for %s (%s): %v", pick.Team, pick.League, err)
		return
	}
	if pinned == nil {
		return
	}

	pick.EventID = pinned.EventID
	pick.EventHome = pinned.Home
	pick.EventAway = pinned.Away
	pick.EventCommence = pinned.Commence
}
