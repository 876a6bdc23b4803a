package services

import (
	"sac-pickem-go/models"
)

// TokenAvailability says which tokens a player can still spend
type TokenAvailability struct {
	LOY bool `json:"loy"`
	LOQ bool `json:"loq"`
	DOG bool `json:"dog"`
}

// BonusUsageService derives token usage from the pick history. Usage
// is never stored separately: the picks are the ledger. Stolen picks
// count, their tokens were spent when the pick was made.
type BonusUsageService struct{}

func NewBonusUsageService() *BonusUsageService {
	return &BonusUsageService{}
}

// Available reports which tokens playerID may spend in the given
// quarter. LOY is once a season; LOQ and DOG once a quarter. exclude,
// when non-nil, names a pick to leave out of the tally, used when a
// player replaces their own pick and its tokens come back with it.
func (s *BonusUsageService) Available(playerID string, quarter int, picks []*models.Pick, weekQuarters map[int]int, exclude *models.Pick) TokenAvailability {
	avail := TokenAvailability{LOY: true, LOQ: true, DOG: true}

	for _, pick := range picks {
		if pick.PlayerID != playerID {
			continue
		}
		if exclude != nil && pick.WeekID == exclude.WeekID && pick.Slot == exclude.Slot && pick.IsActive() {
			continue
		}

		combo := pick.Bonuses()
		if combo.LOY {
			avail.LOY = false
		}

		pickQuarter, ok := weekQuarters[pick.WeekID]
		if !ok || pickQuarter != quarter {
			continue
		}
		if combo.LOQ {
			avail.LOQ = false
		}
		if combo.DOG {
			avail.DOG = false
		}
	}

	return avail
}

// Validate rejects a proposal spending tokens the player does not have
func (s *BonusUsageService) Validate(proposal models.BonusCombo, avail TokenAvailability) error {
	if proposal.LOY && !avail.LOY {
		return models.NewValidationError("combo", "LOY already used this season")
	}
	if proposal.LOQ && !avail.LOQ {
		return models.NewValidationError("combo", "LOQ already used this quarter")
	}
	if proposal.DOG && !avail.DOG {
		return models.NewValidationError("combo", "DOG already used this quarter")
	}
	return nil
}
