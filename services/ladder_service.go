package services

import (
	"sort"

	"sac-pickem-go/config"
	"sac-pickem-go/models"
)

// UnrankedSentinel is the rank assigned to anyone not on the roster.
// Large enough to lose every ladder comparison.
const UnrankedSentinel = 999

// LadderService computes claim-strength ordering for steals. Strength
// comes from bonus tokens first, then from standing: the further down
// the money you are, the stronger your claim.
type LadderService struct {
	rules *config.PoolRules
}

func NewLadderService(rules *config.PoolRules) *LadderService {
	return &LadderService{rules: rules}
}

// Ranks maps each roster player to a 1-based rank. With no scored
// weeks everyone sits at their seed; once money exists, rank 1 is the
// player with the most dollars, ties broken by seed.
func (s *LadderService) Ranks(standings []models.Standing) map[string]int {
	ranks := make(map[string]int, s.rules.PoolSize())

	hasMoney := false
	for _, st := range standings {
		if st.Dollars != 0 || st.Record.Wins+st.Record.Losses+st.Record.Pushes > 0 {
			hasMoney = true
			break
		}
	}

	if !hasMoney {
		for _, id := range s.rules.PlayerIDs() {
			ranks[id] = s.rules.SeedOf(id)
		}
		return ranks
	}

	ordered := make([]models.Standing, len(standings))
	copy(ordered, standings)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Dollars != ordered[j].Dollars {
			return ordered[i].Dollars > ordered[j].Dollars
		}
		return s.rules.SeedOf(ordered[i].PlayerID) < s.rules.SeedOf(ordered[j].PlayerID)
	})

	for i, st := range ordered {
		ranks[st.PlayerID] = i + 1
	}

	// Roster players missing from the standings still get a rank
	for _, id := range s.rules.PlayerIDs() {
		if _, ok := ranks[id]; !ok {
			ranks[id] = len(ranks) + 1
		}
	}

	return ranks
}

// RankOf returns a player's rank from a rank map, with the sentinel
// for unknown players
func (s *LadderService) RankOf(playerID string, ranks map[string]int) int {
	if rank, ok := ranks[playerID]; ok {
		return rank
	}
	return UnrankedSentinel
}

// tier orders token strength: LOY+LOQ beats LOY beats LOQ beats none
func tier(combo models.BonusCombo) int {
	switch {
	case combo.LOY && combo.LOQ:
		return 0
	case combo.LOY:
		return 1
	case combo.LOQ:
		return 2
	default:
		return 3
	}
}

// LadderIndex folds token tier and standing into one comparable value.
// Smaller is stronger. Within a tier, a worse standing (bigger rank)
// gives a smaller index.
func (s *LadderService) LadderIndex(combo models.BonusCombo, rank int) int {
	within := s.rules.PoolSize() - rank
	if within < 0 {
		within = 0
	}
	return tier(combo)*10 + within
}

// Beats reports whether claim a takes the team from claim b. Equal
// indexes go to the worse-standing player; a full tie keeps the team
// with the holder.
func (s *LadderService) Beats(aCombo models.BonusCombo, aRank int, bCombo models.BonusCombo, bRank int) bool {
	ia := s.LadderIndex(aCombo, aRank)
	ib := s.LadderIndex(bCombo, bRank)
	if ia != ib {
		return ia < ib
	}
	return aRank > bRank
}
