package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sac-pickem-go/models"
)

type stubPickStore struct {
	history   []*models.Pick
	holder    *models.Pick
	assignErr error

	assigned       *models.Pick
	assignedVictim *models.Pick
	deleted        bool
}

func (s *stubPickStore) FindAll(ctx context.Context) ([]*models.Pick, error) {
	return s.history, nil
}

func (s *stubPickStore) FindByPlayer(ctx context.Context, playerID string) ([]*models.Pick, error) {
	var picks []*models.Pick
	for _, p := range s.history {
		if p.PlayerID == playerID {
			picks = append(picks, p)
		}
	}
	return picks, nil
}

func (s *stubPickStore) FindActiveByWeek(ctx context.Context, weekID int) ([]*models.Pick, error) {
	return nil, nil
}

func (s *stubPickStore) FindActiveClaim(ctx context.Context, weekID int, slot models.Slot, team string) (*models.Pick, error) {
	return s.holder, nil
}

func (s *stubPickStore) FindActiveByPlayerSlot(ctx context.Context, weekID int, playerID string, slot models.Slot) (*models.Pick, error) {
	return nil, nil
}

func (s *stubPickStore) Assign(ctx context.Context, pick *models.Pick, victim *models.Pick) error {
	if s.assignErr != nil {
		return s.assignErr
	}
	s.assigned = pick
	s.assignedVictim = victim
	return nil
}

func (s *stubPickStore) DeleteActive(ctx context.Context, weekID int, playerID string, slot models.Slot) error {
	s.deleted = true
	return nil
}

type stubWeekRepo struct {
	weeks []*models.Week
}

func (s *stubWeekRepo) FindAll(ctx context.Context) ([]*models.Week, error) {
	return s.weeks, nil
}

func (s *stubWeekRepo) FindByNumber(ctx context.Context, number int) (*models.Week, error) {
	for _, w := range s.weeks {
		if w.Number == number {
			return w, nil
		}
	}
	return nil, models.ErrWeekNotFound
}

type stubStandings struct {
	standings []models.Standing
}

func (s *stubStandings) Standings(ctx context.Context) ([]models.Standing, error) {
	return s.standings, nil
}

type pickFixture struct {
	store     *stubPickStore
	standings *stubStandings
	svc       *PickService
}

// newPickFixture wires a claim flow over stubbed storage: weeks 1-2
// are an open Q1, week 5 is locked.
func newPickFixture() *pickFixture {
	rules := testRules()
	store := &stubPickStore{}
	weeks := &stubWeekRepo{weeks: []*models.Week{
		{Number: 1, Quarter: 1, Status: models.WeekStatusOpen, WeekOne: true},
		{Number: 2, Quarter: 1, Status: models.WeekStatusOpen},
		{Number: 5, Quarter: 2, Status: models.WeekStatusLocked, WeekOne: true},
	}}
	standings := &stubStandings{}
	ladder := NewLadderService(rules)
	svc := NewPickService(rules, store, weeks, NewBonusUsageService(), NewStealService(ladder), ladder, standings, nil)
	return &pickFixture{store: store, standings: standings, svc: svc}
}

func claimReq(player, team string) models.ClaimRequest {
	return models.ClaimRequest{WeekID: 2, PlayerID: player, Slot: models.SlotPro, Team: team, Spread: -3}
}

func heldBy(player, team, combo string) *models.Pick {
	return &models.Pick{WeekID: 2, PlayerID: player, Slot: models.SlotPro, Team: team, Combo: combo}
}

func TestClaimOpenTeam(t *testing.T) {
	f := newPickFixture()

	result, err := f.svc.Claim(context.Background(), claimReq("joey", "Chiefs"))

	require.NoError(t, err)
	assert.True(t, result.Decision.Allowed)
	require.NotNil(t, f.store.assigned)
	assert.Equal(t, "Chiefs", f.store.assigned.Team)
	assert.Equal(t, models.LeagueNFL, f.store.assigned.League)
	assert.False(t, f.store.assigned.Steal)
	assert.Nil(t, f.store.assignedVictim)
}

func TestClaimShapeValidation(t *testing.T) {
	f := newPickFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		req  models.ClaimRequest
	}{
		{"unknown player", models.ClaimRequest{WeekID: 2, PlayerID: "stranger", Slot: models.SlotPro, Team: "Chiefs"}},
		{"bad slot", models.ClaimRequest{WeekID: 2, PlayerID: "joey", Slot: "C", Team: "Chiefs"}},
		{"missing team", models.ClaimRequest{WeekID: 2, PlayerID: "joey", Slot: models.SlotPro}},
		{"dog on a favorite", models.ClaimRequest{WeekID: 2, PlayerID: "joey", Slot: models.SlotPro,
			Team: "Panthers", Spread: 3, Combo: models.BonusCombo{DOG: true}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Claim(ctx, tc.req)
			assert.True(t, models.IsValidationError(err), "got %v", err)
		})
	}
	assert.Nil(t, f.store.assigned)
}

func TestClaimLockedWeek(t *testing.T) {
	f := newPickFixture()

	req := claimReq("joey", "Chiefs")
	req.WeekID = 5
	_, err := f.svc.Claim(context.Background(), req)

	assert.ErrorIs(t, err, models.ErrWeekLocked)
	assert.Nil(t, f.store.assigned)
}

func TestClaimBareStealNeedsConfirmation(t *testing.T) {
	f := newPickFixture()
	f.store.holder = heldBy("joey", "Chiefs", "")

	req := claimReq("aaron", "Chiefs")
	_, err := f.svc.Claim(context.Background(), req)

	assert.True(t, models.IsValidationError(err), "got %v", err)
	assert.Nil(t, f.store.assigned)

	// Confirmed, the same steal goes through on ladder priority:
	// aaron's seed outranks joey's for stealing.
	req.ConfirmSteal = true
	result, err := f.svc.Claim(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, result.Decision.Allowed)
	require.NotNil(t, f.store.assigned)
	assert.True(t, f.store.assigned.Steal)
	assert.Same(t, f.store.holder, f.store.assignedVictim)
}

func TestClaimProtectedStealSkipsConfirmation(t *testing.T) {
	f := newPickFixture()
	f.store.holder = heldBy("joey", "Chiefs", "")

	req := claimReq("chris", "Chiefs")
	req.Combo = models.BonusCombo{LOQ: true}
	result, err := f.svc.Claim(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, result.Decision.Allowed)
	require.NotNil(t, f.store.assigned)
	assert.Equal(t, "LOQ", f.store.assigned.Combo)
}

func TestClaimDeniedStealWritesNothing(t *testing.T) {
	f := newPickFixture()
	f.store.holder = heldBy("chris", "Chiefs", "LOY")

	req := claimReq("aaron", "Chiefs")
	req.ConfirmSteal = true
	result, err := f.svc.Claim(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, result.Decision.Allowed)
	assert.Equal(t, models.DenialLOYRequired, result.Decision.Reason)
	assert.Nil(t, result.Pick)
	assert.Nil(t, f.store.assigned)
}

func TestClaimDeniedByLadder(t *testing.T) {
	f := newPickFixture()
	f.store.holder = heldBy("aaron", "Chiefs", "")

	req := claimReq("joey", "Chiefs")
	req.ConfirmSteal = true
	result, err := f.svc.Claim(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, result.Decision.Allowed)
	assert.Equal(t, models.DenialLadderPriority, result.Decision.Reason)
	assert.Nil(t, f.store.assigned)
}

func TestClaimPressGate(t *testing.T) {
	f := newPickFixture()
	f.standings.standings = []models.Standing{
		{PlayerID: "joey", Dollars: 50},
		{PlayerID: "chris", Dollars: -150},
	}

	req := claimReq("joey", "Chiefs")
	req.Pressed = true
	_, err := f.svc.Claim(context.Background(), req)
	assert.True(t, models.IsValidationError(err), "got %v", err)

	req = claimReq("chris", "Chiefs")
	req.Pressed = true
	result, err := f.svc.Claim(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Decision.Allowed)
	require.NotNil(t, f.store.assigned)
	assert.True(t, f.store.assigned.Pressed)
}

func TestClaimPressWithoutStanding(t *testing.T) {
	f := newPickFixture()

	req := claimReq("joey", "Chiefs")
	req.Pressed = true
	_, err := f.svc.Claim(context.Background(), req)

	assert.True(t, models.IsValidationError(err), "got %v", err)
}

func TestClaimSpentTokenRefused(t *testing.T) {
	f := newPickFixture()
	f.store.history = []*models.Pick{
		{WeekID: 1, PlayerID: "joey", Slot: models.SlotCollege, Combo: "LOQ"},
	}

	req := claimReq("joey", "Chiefs")
	req.Combo = models.BonusCombo{LOQ: true}
	_, err := f.svc.Claim(context.Background(), req)

	assert.True(t, models.IsValidationError(err), "got %v", err)
	assert.Nil(t, f.store.assigned)
}

func TestClaimLostRace(t *testing.T) {
	f := newPickFixture()
	f.store.assignErr = models.ErrTeamTaken

	_, err := f.svc.Claim(context.Background(), claimReq("joey", "Chiefs"))

	assert.ErrorIs(t, err, models.ErrTeamTaken)
}

func TestEraseRespectsLock(t *testing.T) {
	f := newPickFixture()

	err := f.svc.Erase(context.Background(), 5, "joey", models.SlotPro)
	assert.ErrorIs(t, err, models.ErrWeekLocked)
	assert.False(t, f.store.deleted)

	err = f.svc.Erase(context.Background(), 2, "joey", models.SlotPro)
	assert.NoError(t, err)
	assert.True(t, f.store.deleted)
}

func TestHistoryUnknownPlayer(t *testing.T) {
	f := newPickFixture()

	_, err := f.svc.History(context.Background(), "stranger")
	assert.True(t, models.IsValidationError(err), "got %v", err)
}
