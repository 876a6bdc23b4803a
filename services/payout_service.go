package services

import (
	"fmt"
	"sort"

	"sac-pickem-go/config"
	"sac-pickem-go/logging"
	"sac-pickem-go/models"
)

// PayoutService turns a week's picks and scores into dollars. All of
// it is pure computation over its inputs: the same snapshot always
// yields the same breakdown, so recomputing a week is safe.
type PayoutService struct {
	rules  *config.PoolRules
	logger *logging.Logger
}

func NewPayoutService(rules *config.PoolRules) *PayoutService {
	return &PayoutService{
		rules:  rules,
		logger: logging.WithPrefix("PayoutService"),
	}
}

// CoverDiff is the cover margin: picked-team margin of victory plus
// the spread taken
func CoverDiff(margin int, spread float64) float64 {
	return float64(margin) + spread
}

// OutcomeForDiff classifies a cover margin
func OutcomeForDiff(diff float64) models.Outcome {
	switch {
	case diff > 0:
		return models.OutcomeWin
	case diff < 0:
		return models.OutcomeLoss
	default:
		return models.OutcomePush
	}
}

// scoredPick is one active pick with its result resolved
type scoredPick struct {
	pick    *models.Pick
	outcome models.Outcome
	diff    float64 // valid only when outcome is set
	margin  int     // raw margin of victory, for outright-win checks
	oppPts  int     // opponent's score, for goose checks
}

// ComputeWeek computes the full breakdown for one week. Picks may
// include stolen rows; only active picks score. Results without a
// final score leave the pick's outcome unset and contribute nothing.
func (s *PayoutService) ComputeWeek(week *models.Week, picks []*models.Pick, results []*models.GameResult) (*models.WeekBreakdown, error) {
	active, err := activePicks(picks)
	if err != nil {
		return nil, err
	}

	scored := make(map[models.Slot]map[string]*scoredPick, 2)
	scored[models.SlotCollege] = make(map[string]*scoredPick)
	scored[models.SlotPro] = make(map[string]*scoredPick)

	for _, pick := range active {
		sp := &scoredPick{pick: pick}
		if result, side := MatchResult(pick, results); result != nil {
			if margin, ok := result.MarginFor(side); ok {
				sp.margin = margin
				sp.diff = CoverDiff(margin, pick.Spread)
				sp.outcome = OutcomeForDiff(sp.diff)
				sp.oppPts, _ = result.OpponentScoreFor(side)
			}
		}
		scored[pick.Slot][pick.PlayerID] = sp
	}

	lines := s.newLines(active)

	for slot, slotPicks := range scored {
		s.fillSlotLines(lines, slot, slotPicks)
	}

	s.settleSlot(lines, models.SlotCollege, scored[models.SlotCollege])
	s.settleSlot(lines, models.SlotPro, scored[models.SlotPro])

	s.applySweep(lines, models.SlotCollege, scored[models.SlotCollege])
	s.applySweep(lines, models.SlotPro, scored[models.SlotPro])
	s.applyQuigger(lines, scored)
	s.applyDog(lines, scored)
	if s.rules.Bonuses.GooseEnabled {
		s.applyGoose(lines, scored)
	}

	breakdown := &models.WeekBreakdown{
		WeekID:  week.Number,
		Quarter: week.Quarter,
	}
	for _, id := range s.orderedPlayers(lines) {
		line := lines[id]
		line.Askip = line.College.Askip + line.Pro.Askip
		line.CollegeDollars = line.College.Dollars
		line.ProDollars = line.Pro.Dollars
		for _, b := range line.Bonuses {
			line.BonusTotal += b.Amount
		}
		line.WeekTotal = line.CollegeDollars + line.ProDollars + line.BonusTotal
		breakdown.Lines = append(breakdown.Lines, *line)
	}

	return breakdown, nil
}

// BuildWeeklyResults converts a breakdown to persistable rows
func (s *PayoutService) BuildWeeklyResults(breakdown *models.WeekBreakdown) []*models.WeeklyResult {
	results := make([]*models.WeeklyResult, 0, len(breakdown.Lines))
	for i := range breakdown.Lines {
		line := &breakdown.Lines[i]
		results = append(results, &models.WeeklyResult{
			PlayerID:       line.PlayerID,
			WeekID:         breakdown.WeekID,
			Quarter:        breakdown.Quarter,
			WeekTotal:      line.WeekTotal,
			CollegeDollars: line.CollegeDollars,
			ProDollars:     line.ProDollars,
			BonusTotal:     line.BonusTotal,
			BonusLabels:    line.BonusLabels(),
		})
	}
	return results
}

// activePicks filters to live picks and refuses boards that violate
// the one-owner rule
func activePicks(picks []*models.Pick) ([]*models.Pick, error) {
	owners := make(map[string]string)
	var active []*models.Pick

	for _, pick := range picks {
		if !pick.IsActive() {
			continue
		}
		key := fmt.Sprintf("%s|%s", pick.Slot, pick.Team)
		if owner, taken := owners[key]; taken {
			return nil, fmt.Errorf("%w: %s held by %s and %s", models.ErrDuplicateClaim, pick.Team, owner, pick.PlayerID)
		}
		owners[key] = pick.PlayerID
		active = append(active, pick)
	}

	return active, nil
}

func (s *PayoutService) newLines(active []*models.Pick) map[string]*models.PlayerLine {
	lines := make(map[string]*models.PlayerLine)
	for _, pick := range active {
		if _, ok := lines[pick.PlayerID]; !ok {
			lines[pick.PlayerID] = &models.PlayerLine{PlayerID: pick.PlayerID}
		}
	}
	return lines
}

func (s *PayoutService) orderedPlayers(lines map[string]*models.PlayerLine) []string {
	ids := make([]string, 0, len(lines))
	for id := range lines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.rules.SeedOf(ids[i]) < s.rules.SeedOf(ids[j])
	})
	return ids
}

func (s *PayoutService) fillSlotLines(lines map[string]*models.PlayerLine, slot models.Slot, slotPicks map[string]*scoredPick) {
	for playerID, sp := range slotPicks {
		line := lines[playerID]

		slotLine := models.SlotLine{
			Team:    sp.pick.Team,
			Spread:  sp.pick.Spread,
			Outcome: sp.outcome,
		}
		if sp.outcome != models.OutcomeNone {
			diff := sp.diff
			slotLine.Diff = &diff
			slotLine.Askip = diff * sp.pick.Bonuses().Multiplier(sp.pick.Pressed)
			if diff > 0 {
				slotLine.Askip += s.rules.CoverKicker
			}
		}

		if slot == models.SlotCollege {
			line.College = slotLine
		} else {
			line.Pro = slotLine
		}
	}
}

// settleSlot applies the zero-sum base formula within one slot:
// dollars_i = (N*A_i - sum(A)) * rate over the slot's participants
func (s *PayoutService) settleSlot(lines map[string]*models.PlayerLine, slot models.Slot, slotPicks map[string]*scoredPick) {
	n := len(slotPicks)
	if n < 2 {
		return
	}

	sum := 0.0
	for playerID := range slotPicks {
		sum += slotAskip(lines[playerID], slot)
	}

	for playerID := range slotPicks {
		line := lines[playerID]
		askip := slotAskip(line, slot)
		dollars := (float64(n)*askip - sum) * s.rules.Rate
		if slot == models.SlotCollege {
			line.College.Dollars = dollars
		} else {
			line.Pro.Dollars = dollars
		}
	}
}

func slotAskip(line *models.PlayerLine, slot models.Slot) float64 {
	if slot == models.SlotCollege {
		return line.College.Askip
	}
	return line.Pro.Askip
}

// applySweep checks one slot for a lone cover or a lone miss. A push
// anywhere in the slot, or an unscored pick, kills the trigger.
func (s *PayoutService) applySweep(lines map[string]*models.PlayerLine, slot models.Slot, slotPicks map[string]*scoredPick) {
	n := len(slotPicks)
	if n < 2 {
		return
	}

	var record models.Record
	var lastWinner, lastLoser string
	for playerID, sp := range slotPicks {
		record.Add(sp.outcome)
		switch sp.outcome {
		case models.OutcomeWin:
			lastWinner = playerID
		case models.OutcomeLoss:
			lastLoser = playerID
		}
	}

	if record.Pushes > 0 || record.Wins+record.Losses != n {
		return
	}

	suffix := " A"
	if slot == models.SlotPro {
		suffix = " B"
	}

	if record.Wins == 1 {
		amount := s.rules.Bonuses.SweepWinner
		s.splitAward(lines, playersOf(slotPicks), lastWinner, "SWEEP"+suffix, amount)
		s.logger.Debugf("Sweep%s: %s over the field for %.2f", suffix, lastWinner, amount)
	} else if record.Losses == 1 {
		amount := s.rules.Bonuses.ReverseSweepLoser
		s.splitCharge(lines, playersOf(slotPicks), lastLoser, "REVERSE SWEEP"+suffix, amount)
		s.logger.Debugf("Reverse sweep%s: %s pays the field %.2f", suffix, lastLoser, amount)
	}
}

// applyQuigger checks the combined two-slot records. Only evaluated
// when every active pick is scored and nobody pushed.
func (s *PayoutService) applyQuigger(lines map[string]*models.PlayerLine, scored map[models.Slot]map[string]*scoredPick) {
	records := make(map[string]*models.Record)
	for _, slotPicks := range scored {
		for playerID, sp := range slotPicks {
			if sp.outcome == models.OutcomeNone {
				return
			}
			if records[playerID] == nil {
				records[playerID] = &models.Record{}
			}
			records[playerID].Add(sp.outcome)
		}
	}
	if len(records) < 2 {
		return
	}

	participants := make([]string, 0, len(records))
	for playerID, record := range records {
		if record.Pushes > 0 {
			return
		}
		participants = append(participants, playerID)
	}

	var twoAndO, oAndTwo []string
	for playerID, record := range records {
		if record.Wins == 2 && record.Losses == 0 {
			twoAndO = append(twoAndO, playerID)
		}
		if record.Losses == 2 && record.Wins == 0 {
			oAndTwo = append(oAndTwo, playerID)
		}
	}

	if len(twoAndO) == 1 {
		s.splitAward(lines, participants, twoAndO[0], "QUIGGER", s.rules.Bonuses.QuiggerWinner)
		s.logger.Debugf("Quigger: %s went 2-0 alone", twoAndO[0])
	}
	if len(oAndTwo) == 1 {
		s.splitCharge(lines, participants, oAndTwo[0], "REVERSE QUIGGER", s.rules.Bonuses.ReverseQuiggerLoser)
		s.logger.Debugf("Reverse quigger: %s went 0-2 alone", oAndTwo[0])
	}
}

// applyDog pays out DOG tokens. The token needs a real underdog and an
// outright win; covering as a loser is not enough.
func (s *PayoutService) applyDog(lines map[string]*models.PlayerLine, scored map[models.Slot]map[string]*scoredPick) {
	participants := weekParticipants(scored)
	if len(participants) < 2 {
		return
	}

	for _, slotPicks := range scored {
		for playerID, sp := range slotPicks {
			if !sp.pick.Bonuses().DOG {
				continue
			}
			if sp.pick.Spread < s.rules.DogMinSpread {
				continue
			}
			if sp.outcome == models.OutcomeNone || sp.margin <= 0 {
				continue
			}
			s.splitAward(lines, participants, playerID, "DOG", s.rules.Bonuses.DogAward)
			s.logger.Debugf("Dog: %s won outright at %+.1f", playerID, sp.pick.Spread)
		}
	}
}

// applyGoose pays the goose bonuses: an opponent shut out is a goose
// for the picker, a heavy favorite shut out is a cooked goose against
// them
func (s *PayoutService) applyGoose(lines map[string]*models.PlayerLine, scored map[models.Slot]map[string]*scoredPick) {
	participants := weekParticipants(scored)
	if len(participants) < 2 {
		return
	}

	for _, slotPicks := range scored {
		for playerID, sp := range slotPicks {
			if sp.outcome == models.OutcomeNone {
				continue
			}
			if sp.oppPts == 0 {
				s.splitAward(lines, participants, playerID, "GOOSE", s.rules.Bonuses.GooseAward)
				continue
			}
			ownPts := sp.oppPts + sp.margin
			if ownPts == 0 && sp.pick.Spread <= s.rules.CookedGooseSpread {
				s.splitCharge(lines, participants, playerID, "COOKED GOOSE", s.rules.Bonuses.CookedGoose)
			}
		}
	}
}

// splitAward credits amount to one player and charges the rest of the
// group evenly, keeping the bonus zero-sum
func (s *PayoutService) splitAward(lines map[string]*models.PlayerLine, group []string, winner, label string, amount float64) {
	share := amount / float64(len(group)-1)
	for _, playerID := range group {
		if playerID == winner {
			addBonus(lines[playerID], label, amount)
		} else {
			addBonus(lines[playerID], label, -share)
		}
	}
}

// splitCharge debits amount from one player and credits the rest
// evenly
func (s *PayoutService) splitCharge(lines map[string]*models.PlayerLine, group []string, loser, label string, amount float64) {
	share := amount / float64(len(group)-1)
	for _, playerID := range group {
		if playerID == loser {
			addBonus(lines[playerID], label, -amount)
		} else {
			addBonus(lines[playerID], label, share)
		}
	}
}

func addBonus(line *models.PlayerLine, label string, amount float64) {
	line.Bonuses = append(line.Bonuses, models.BonusAward{Label: label, Amount: amount})
}

func playersOf(slotPicks map[string]*scoredPick) []string {
	ids := make([]string, 0, len(slotPicks))
	for playerID := range slotPicks {
		ids = append(ids, playerID)
	}
	return ids
}

func weekParticipants(scored map[models.Slot]map[string]*scoredPick) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, slotPicks := range scored {
		for playerID := range slotPicks {
			if !seen[playerID] {
				seen[playerID] = true
				ids = append(ids, playerID)
			}
		}
	}
	return ids
}
