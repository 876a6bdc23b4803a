package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sac-pickem-go/models"
)

const moneyDelta = 1e-9

func payoutWeek() *models.Week {
	return &models.Week{Number: 3, Quarter: 1, Label: "Q1-W3", Status: models.WeekStatusLocked}
}

func pk(player string, slot models.Slot, team string, spread float64, combo string) *models.Pick {
	league := models.LeagueNCAA
	if slot == models.SlotPro {
		league = models.LeagueNFL
	}
	return &models.Pick{
		WeekID: 3, PlayerID: player, Slot: slot, League: league,
		Team: team, Spread: spread, Combo: combo,
	}
}

func final(league models.League, home, away string, homeScore, awayScore int) *models.GameResult {
	hs, as := homeScore, awayScore
	return &models.GameResult{
		League: league, EventID: home + "@" + away,
		Home: home, Away: away,
		HomeScore: &hs, AwayScore: &as, Completed: true,
	}
}

func bonusTotal(line *models.PlayerLine, label string) float64 {
	total := 0.0
	for _, b := range line.Bonuses {
		if b.Label == label {
			total += b.Amount
		}
	}
	return total
}

func TestCoverDiff(t *testing.T) {
	// Underdog: margin plus the points taken
	assert.Equal(t, 4.0, CoverDiff(-3, 7))
	// Favorite: margin minus the points laid
	assert.Equal(t, -4.0, CoverDiff(3, -7))
	assert.Equal(t, 0.0, CoverDiff(7, -7))

	assert.Equal(t, models.OutcomeWin, OutcomeForDiff(0.5))
	assert.Equal(t, models.OutcomeLoss, OutcomeForDiff(-0.5))
	assert.Equal(t, models.OutcomePush, OutcomeForDiff(0))
}

func TestComputeWeekTwoPlayerBase(t *testing.T) {
	payout := NewPayoutService(testRules())

	picks := []*models.Pick{
		pk("joey", models.SlotCollege, "Georgia Bulldogs", -10, ""),
		pk("chris", models.SlotCollege, "Texas Longhorns", -3, ""),
	}
	results := []*models.GameResult{
		// Georgia -10 wins by 13: diff +3, askip 3 + 7 kicker = 10
		final(models.LeagueNCAA, "Georgia Bulldogs", "Auburn Tigers", 20, 7),
		// Texas -3 loses by 7: diff -10, askip -10
		final(models.LeagueNCAA, "Oklahoma Sooners", "Texas Longhorns", 21, 14),
	}

	breakdown, err := payout.ComputeWeek(payoutWeek(), picks, results)
	require.NoError(t, err)
	require.Len(t, breakdown.Lines, 2)

	joey := breakdown.LineFor("joey")
	chris := breakdown.LineFor("chris")
	require.NotNil(t, joey)
	require.NotNil(t, chris)

	assert.Equal(t, models.OutcomeWin, joey.College.Outcome)
	assert.InDelta(t, 10, joey.College.Askip, moneyDelta)
	assert.Equal(t, models.OutcomeLoss, chris.College.Outcome)
	assert.InDelta(t, -10, chris.College.Askip, moneyDelta)

	// dollars_i = (N*A_i - sum(A)) * rate with N=2, sum=0
	assert.InDelta(t, 20, joey.CollegeDollars, moneyDelta)
	assert.InDelta(t, -20, chris.CollegeDollars, moneyDelta)
	assert.InDelta(t, 0, joey.CollegeDollars+chris.CollegeDollars, moneyDelta)
}

func TestComputeWeekZeroSumColumns(t *testing.T) {
	payout := NewPayoutService(testRules())

	picks := []*models.Pick{
		// College: mixed card with one push, so no college sweep
		pk("joey", models.SlotCollege, "Georgia Bulldogs", -7, ""),
		pk("chris", models.SlotCollege, "Michigan Wolverines", -7, ""),
		pk("dan", models.SlotCollege, "Oregon Ducks", 3, ""),
		pk("nick", models.SlotCollege, "Alabama Crimson Tide", -14, ""),
		pk("kevin", models.SlotCollege, "Texas Longhorns", 7, "LOQ"),
		pk("aaron", models.SlotCollege, "Ohio State Buckeyes", -3, ""),
		// Pro: five covers and one miss, reverse sweep
		pk("joey", models.SlotPro, "Buffalo Bills", -3, ""),
		pk("chris", models.SlotPro, "Dallas Cowboys", 3, ""),
		pk("dan", models.SlotPro, "Green Bay Packers", -6, ""),
		pk("nick", models.SlotPro, "Miami Dolphins", 4, ""),
		pk("kevin", models.SlotPro, "Denver Broncos", 7, ""),
		pk("aaron", models.SlotPro, "Chicago Bears", 2, ""),
	}
	results := []*models.GameResult{
		final(models.LeagueNCAA, "Georgia Bulldogs", "Florida Gators", 28, 14),        // joey W
		final(models.LeagueNCAA, "Michigan Wolverines", "Penn State Nittany Lions", 20, 13), // chris P
		final(models.LeagueNCAA, "Oregon Ducks", "Washington Huskies", 17, 24),        // dan L
		final(models.LeagueNCAA, "Alabama Crimson Tide", "Vanderbilt Commodores", 42, 10), // nick W
		final(models.LeagueNCAA, "Texas Longhorns", "Oklahoma Sooners", 21, 24),       // kevin W
		final(models.LeagueNCAA, "Ohio State Buckeyes", "Iowa Hawkeyes", 23, 21),      // aaron L
		final(models.LeagueNFL, "Buffalo Bills", "New York Jets", 30, 10),             // joey W
		final(models.LeagueNFL, "Philadelphia Eagles", "Dallas Cowboys", 20, 21),      // chris W
		final(models.LeagueNFL, "Green Bay Packers", "Minnesota Vikings", 31, 17),     // dan W
		final(models.LeagueNFL, "Kansas City Chiefs", "Miami Dolphins", 24, 27),       // nick W
		final(models.LeagueNFL, "Denver Broncos", "Las Vegas Raiders", 13, 27),        // kevin L
		final(models.LeagueNFL, "Detroit Lions", "Chicago Bears", 17, 20),             // aaron W
	}

	breakdown, err := payout.ComputeWeek(payoutWeek(), picks, results)
	require.NoError(t, err)
	require.Len(t, breakdown.Lines, 6)

	var college, pro, bonus, week float64
	for _, line := range breakdown.Lines {
		college += line.CollegeDollars
		pro += line.ProDollars
		bonus += line.BonusTotal
		week += line.WeekTotal
	}
	assert.InDelta(t, 0, college, moneyDelta)
	assert.InDelta(t, 0, pro, moneyDelta)
	assert.InDelta(t, 0, bonus, moneyDelta)
	assert.InDelta(t, 0, week, moneyDelta)

	// College push kills every pool-wide trigger touching that slot
	for i := range breakdown.Lines {
		line := &breakdown.Lines[i]
		assert.Zero(t, bonusTotal(line, "SWEEP A"))
		assert.Zero(t, bonusTotal(line, "QUIGGER"))
		assert.Zero(t, bonusTotal(line, "REVERSE QUIGGER"))
	}

	// Pro slot: kevin missed alone, reverse sweep B
	kevin := breakdown.LineFor("kevin")
	assert.InDelta(t, -46.88, bonusTotal(kevin, "REVERSE SWEEP B"), moneyDelta)
	joey := breakdown.LineFor("joey")
	assert.InDelta(t, 46.88/5, bonusTotal(joey, "REVERSE SWEEP B"), moneyDelta)

	// LOQ multiplier: kevin's college diff +4 gives 4*2 + 7 kicker
	assert.InDelta(t, 15, kevin.College.Askip, moneyDelta)
}

func TestSweepLoneCover(t *testing.T) {
	payout := NewPayoutService(testRules())

	picks := []*models.Pick{
		pk("joey", models.SlotCollege, "Georgia Bulldogs", -7, ""),
		pk("chris", models.SlotCollege, "Oregon Ducks", 3, ""),
		pk("dan", models.SlotCollege, "Texas Longhorns", -3, ""),
	}
	results := []*models.GameResult{
		final(models.LeagueNCAA, "Georgia Bulldogs", "Florida Gators", 28, 14),  // W
		final(models.LeagueNCAA, "Oregon Ducks", "Washington Huskies", 10, 24), // L
		final(models.LeagueNCAA, "Texas Longhorns", "Oklahoma Sooners", 20, 21), // L
	}

	breakdown, err := payout.ComputeWeek(payoutWeek(), picks, results)
	require.NoError(t, err)

	joey := breakdown.LineFor("joey")
	assert.InDelta(t, 46.88, bonusTotal(joey, "SWEEP A"), moneyDelta)
	assert.InDelta(t, -46.88/2, bonusTotal(breakdown.LineFor("chris"), "SWEEP A"), moneyDelta)
	assert.InDelta(t, -46.88/2, bonusTotal(breakdown.LineFor("dan"), "SWEEP A"), moneyDelta)

	sum := 0.0
	for _, line := range breakdown.Lines {
		sum += line.BonusTotal
	}
	assert.InDelta(t, 0, sum, moneyDelta)
}

func TestSweepSuppressedByPush(t *testing.T) {
	payout := NewPayoutService(testRules())

	picks := []*models.Pick{
		pk("joey", models.SlotCollege, "Georgia Bulldogs", -7, ""),
		pk("chris", models.SlotCollege, "Oregon Ducks", 3, ""),
		pk("dan", models.SlotCollege, "Texas Longhorns", -1, ""),
	}
	results := []*models.GameResult{
		final(models.LeagueNCAA, "Georgia Bulldogs", "Florida Gators", 28, 14),   // W
		final(models.LeagueNCAA, "Oregon Ducks", "Washington Huskies", 10, 24),  // L
		final(models.LeagueNCAA, "Texas Longhorns", "Oklahoma Sooners", 21, 20), // P
	}

	breakdown, err := payout.ComputeWeek(payoutWeek(), picks, results)
	require.NoError(t, err)

	for _, line := range breakdown.Lines {
		assert.Empty(t, line.Bonuses)
	}

	// The push itself contributes nothing
	dan := breakdown.LineFor("dan")
	assert.Equal(t, models.OutcomePush, dan.College.Outcome)
	assert.Zero(t, dan.College.Askip)
}

func TestQuiggerAndReverseQuigger(t *testing.T) {
	payout := NewPayoutService(testRules())

	// aaron goes 2-0 alone, joey 0-2 alone, everyone else 1-1, no
	// pushes anywhere
	picks := []*models.Pick{
		pk("joey", models.SlotCollege, "Georgia Bulldogs", -7, ""),
		pk("chris", models.SlotCollege, "Michigan Wolverines", -3, ""),
		pk("dan", models.SlotCollege, "Oregon Ducks", 3, ""),
		pk("nick", models.SlotCollege, "Alabama Crimson Tide", -14, ""),
		pk("kevin", models.SlotCollege, "Texas Longhorns", 7, ""),
		pk("aaron", models.SlotCollege, "Ohio State Buckeyes", -3, ""),
		pk("joey", models.SlotPro, "Buffalo Bills", -3, ""),
		pk("chris", models.SlotPro, "Dallas Cowboys", 3, ""),
		pk("dan", models.SlotPro, "Green Bay Packers", -6, ""),
		pk("nick", models.SlotPro, "Miami Dolphins", 4, ""),
		pk("kevin", models.SlotPro, "Denver Broncos", 7, ""),
		pk("aaron", models.SlotPro, "Chicago Bears", 2, ""),
	}
	results := []*models.GameResult{
		final(models.LeagueNCAA, "Georgia Bulldogs", "Florida Gators", 20, 17),   // joey L
		final(models.LeagueNCAA, "Michigan Wolverines", "Penn State Nittany Lions", 27, 13), // chris W
		final(models.LeagueNCAA, "Oregon Ducks", "Washington Huskies", 17, 24),   // dan L
		final(models.LeagueNCAA, "Alabama Crimson Tide", "Vanderbilt Commodores", 42, 10), // nick W
		final(models.LeagueNCAA, "Texas Longhorns", "Oklahoma Sooners", 10, 24),  // kevin L
		final(models.LeagueNCAA, "Ohio State Buckeyes", "Iowa Hawkeyes", 30, 14), // aaron W
		final(models.LeagueNFL, "Buffalo Bills", "New York Jets", 20, 19),        // joey L
		final(models.LeagueNFL, "Philadelphia Eagles", "Dallas Cowboys", 24, 10), // chris L
		final(models.LeagueNFL, "Green Bay Packers", "Minnesota Vikings", 31, 17), // dan W
		final(models.LeagueNFL, "Kansas City Chiefs", "Miami Dolphins", 30, 13),  // nick L
		final(models.LeagueNFL, "Denver Broncos", "Las Vegas Raiders", 27, 10),   // kevin W
		final(models.LeagueNFL, "Detroit Lions", "Chicago Bears", 17, 20),        // aaron W
	}

	breakdown, err := payout.ComputeWeek(payoutWeek(), picks, results)
	require.NoError(t, err)

	aaron := breakdown.LineFor("aaron")
	joey := breakdown.LineFor("joey")
	assert.InDelta(t, 46.88, bonusTotal(aaron, "QUIGGER"), moneyDelta)
	assert.InDelta(t, -46.88, bonusTotal(joey, "REVERSE QUIGGER"), moneyDelta)

	// aaron also collects a reverse quigger share, joey pays a quigger
	// share: net 46.88 + 46.88/5 each way
	assert.InDelta(t, 46.88+46.88/5, aaron.BonusTotal, moneyDelta)
	assert.InDelta(t, -46.88-46.88/5, joey.BonusTotal, moneyDelta)

	// 1-1 players wash out
	assert.InDelta(t, 0, breakdown.LineFor("chris").BonusTotal, moneyDelta)

	sum := 0.0
	for _, line := range breakdown.Lines {
		sum += line.BonusTotal
	}
	assert.InDelta(t, 0, sum, moneyDelta)
}

func TestQuiggerNeedsEveryPickScored(t *testing.T) {
	payout := NewPayoutService(testRules())

	picks := []*models.Pick{
		pk("joey", models.SlotCollege, "Georgia Bulldogs", -7, ""),
		pk("joey", models.SlotPro, "Buffalo Bills", -3, ""),
		pk("chris", models.SlotCollege, "Oregon Ducks", 3, ""),
		pk("chris", models.SlotPro, "Dallas Cowboys", 3, ""),
	}
	results := []*models.GameResult{
		final(models.LeagueNCAA, "Georgia Bulldogs", "Florida Gators", 28, 14), // joey W
		final(models.LeagueNFL, "Buffalo Bills", "New York Jets", 30, 10),      // joey W
		final(models.LeagueNCAA, "Oregon Ducks", "Washington Huskies", 10, 24), // chris L
		// chris's pro game has no result yet
	}

	breakdown, err := payout.ComputeWeek(payoutWeek(), picks, results)
	require.NoError(t, err)

	// joey is 2-0 but the week is not fully scored
	for i := range breakdown.Lines {
		line := &breakdown.Lines[i]
		assert.Zero(t, bonusTotal(line, "QUIGGER"))
		assert.Zero(t, bonusTotal(line, "REVERSE QUIGGER"))
	}
}

func TestDogNeedsOutrightWin(t *testing.T) {
	payout := NewPayoutService(testRules())

	picks := []*models.Pick{
		// Covers and wins outright at +7.5
		pk("nick", models.SlotCollege, "Vanderbilt Commodores", 7.5, "DOG"),
		// Covers at +10 but loses the game, no dog
		pk("dan", models.SlotCollege, "Iowa Hawkeyes", 10, "DOG"),
		pk("joey", models.SlotCollege, "Georgia Bulldogs", -7, ""),
	}
	results := []*models.GameResult{
		final(models.LeagueNCAA, "Alabama Crimson Tide", "Vanderbilt Commodores", 20, 23),
		final(models.LeagueNCAA, "Ohio State Buckeyes", "Iowa Hawkeyes", 27, 21),
		final(models.LeagueNCAA, "Georgia Bulldogs", "Florida Gators", 28, 14),
	}

	breakdown, err := payout.ComputeWeek(payoutWeek(), picks, results)
	require.NoError(t, err)

	nick := breakdown.LineFor("nick")
	dan := breakdown.LineFor("dan")
	assert.InDelta(t, 46.88, bonusTotal(nick, "DOG"), moneyDelta)
	assert.InDelta(t, -46.88/2, bonusTotal(dan, "DOG"), moneyDelta)

	// dan covered but lost outright, so he only pays nick's share
	assert.Equal(t, models.OutcomeWin, dan.College.Outcome)

	sum := 0.0
	for _, line := range breakdown.Lines {
		sum += line.BonusTotal
	}
	assert.InDelta(t, 0, sum, moneyDelta)
}

func TestDogIgnoredBelowMinimumSpread(t *testing.T) {
	payout := NewPayoutService(testRules())

	picks := []*models.Pick{
		pk("nick", models.SlotCollege, "Vanderbilt Commodores", 3, "DOG"),
		pk("joey", models.SlotCollege, "Georgia Bulldogs", -7, ""),
	}
	results := []*models.GameResult{
		final(models.LeagueNCAA, "Alabama Crimson Tide", "Vanderbilt Commodores", 20, 23),
		final(models.LeagueNCAA, "Georgia Bulldogs", "Florida Gators", 28, 14),
	}

	breakdown, err := payout.ComputeWeek(payoutWeek(), picks, results)
	require.NoError(t, err)

	assert.Zero(t, bonusTotal(breakdown.LineFor("nick"), "DOG"))
}

func TestIncompleteResultsScoreAsNothing(t *testing.T) {
	payout := NewPayoutService(testRules())

	picks := []*models.Pick{
		pk("joey", models.SlotCollege, "Georgia Bulldogs", -7, ""),
		pk("chris", models.SlotCollege, "Oregon Ducks", 3, ""),
		pk("dan", models.SlotCollege, "Texas Longhorns", -3, ""),
	}
	results := []*models.GameResult{
		final(models.LeagueNCAA, "Georgia Bulldogs", "Florida Gators", 28, 14), // W, diff 7
		final(models.LeagueNCAA, "Oregon Ducks", "Washington Huskies", 10, 24), // L, diff -11
		// dan's game has not been played
	}

	breakdown, err := payout.ComputeWeek(payoutWeek(), picks, results)
	require.NoError(t, err)

	dan := breakdown.LineFor("dan")
	assert.Equal(t, models.OutcomeNone, dan.College.Outcome)
	assert.Nil(t, dan.College.Diff)
	assert.Zero(t, dan.College.Askip)

	// The slot still settles over all three with dan at zero. joey
	// askip 14, chris askip -11, sum 3.
	joey := breakdown.LineFor("joey")
	assert.InDelta(t, (3*14-3)*1.0, joey.CollegeDollars, moneyDelta)
	assert.InDelta(t, (3*0-3)*1.0, dan.CollegeDollars, moneyDelta)

	// No sweep with an unscored pick in the slot
	for _, line := range breakdown.Lines {
		assert.Empty(t, line.Bonuses)
	}
}

func TestComputeWeekIdempotent(t *testing.T) {
	payout := NewPayoutService(testRules())

	picks := []*models.Pick{
		pk("joey", models.SlotCollege, "Georgia Bulldogs", -7, "LOQ"),
		pk("chris", models.SlotCollege, "Oregon Ducks", 3, ""),
	}
	results := []*models.GameResult{
		final(models.LeagueNCAA, "Georgia Bulldogs", "Florida Gators", 28, 14),
		final(models.LeagueNCAA, "Oregon Ducks", "Washington Huskies", 10, 24),
	}

	first, err := payout.ComputeWeek(payoutWeek(), picks, results)
	require.NoError(t, err)
	second, err := payout.ComputeWeek(payoutWeek(), picks, results)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestStolenPicksDoNotScore(t *testing.T) {
	payout := NewPayoutService(testRules())

	stolen := pk("nick", models.SlotCollege, "Georgia Bulldogs", -7, "")
	stolen.Stolen = true
	stolen.StolenBy = "joey"

	picks := []*models.Pick{
		stolen,
		pk("joey", models.SlotCollege, "Georgia Bulldogs", -7, ""),
		pk("chris", models.SlotCollege, "Oregon Ducks", 3, ""),
	}
	results := []*models.GameResult{
		final(models.LeagueNCAA, "Georgia Bulldogs", "Florida Gators", 28, 14),
		final(models.LeagueNCAA, "Oregon Ducks", "Washington Huskies", 10, 24),
	}

	breakdown, err := payout.ComputeWeek(payoutWeek(), picks, results)
	require.NoError(t, err)

	assert.Nil(t, breakdown.LineFor("nick"))
	require.Len(t, breakdown.Lines, 2)
}

func TestDuplicateActiveClaimRefused(t *testing.T) {
	payout := NewPayoutService(testRules())

	picks := []*models.Pick{
		pk("joey", models.SlotCollege, "Georgia Bulldogs", -7, ""),
		pk("nick", models.SlotCollege, "Georgia Bulldogs", -7, ""),
	}

	_, err := payout.ComputeWeek(payoutWeek(), picks, nil)
	assert.True(t, errors.Is(err, models.ErrDuplicateClaim))
}

func TestPressedMultiplier(t *testing.T) {
	payout := NewPayoutService(testRules())

	pressed := pk("joey", models.SlotCollege, "Georgia Bulldogs", -7, "LOQ")
	pressed.Pressed = true

	picks := []*models.Pick{
		pressed,
		pk("chris", models.SlotCollege, "Oregon Ducks", 3, ""),
	}
	results := []*models.GameResult{
		final(models.LeagueNCAA, "Georgia Bulldogs", "Florida Gators", 28, 14), // diff +7
		final(models.LeagueNCAA, "Oregon Ducks", "Washington Huskies", 10, 24), // diff -11
	}

	breakdown, err := payout.ComputeWeek(payoutWeek(), picks, results)
	require.NoError(t, err)

	// LOQ pressed: 7 * 2 * 2 = 28, plus the unmultiplied 7 kicker
	joey := breakdown.LineFor("joey")
	assert.InDelta(t, 35, joey.College.Askip, moneyDelta)
}

func TestBuildWeeklyResults(t *testing.T) {
	payout := NewPayoutService(testRules())

	picks := []*models.Pick{
		pk("joey", models.SlotCollege, "Georgia Bulldogs", -7, ""),
		pk("chris", models.SlotCollege, "Oregon Ducks", 3, ""),
	}
	results := []*models.GameResult{
		final(models.LeagueNCAA, "Georgia Bulldogs", "Florida Gators", 28, 14),
		final(models.LeagueNCAA, "Oregon Ducks", "Washington Huskies", 10, 24),
	}

	breakdown, err := payout.ComputeWeek(payoutWeek(), picks, results)
	require.NoError(t, err)

	rows := payout.BuildWeeklyResults(breakdown)
	require.Len(t, rows, 2)
	for i, row := range rows {
		line := breakdown.Lines[i]
		assert.Equal(t, line.PlayerID, row.PlayerID)
		assert.Equal(t, 3, row.WeekID)
		assert.Equal(t, 1, row.Quarter)
		assert.InDelta(t, line.WeekTotal, row.WeekTotal, moneyDelta)
		assert.InDelta(t, line.CollegeDollars, row.CollegeDollars, moneyDelta)
		assert.Equal(t, line.BonusLabels(), row.BonusLabels)
	}
}
