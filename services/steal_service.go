package services

import (
	"sac-pickem-go/models"
)

// StealService decides whether a claim may displace the current owner
// of a team. The answer is a Decision, never an error: being refused
// is a normal outcome on this board.
type StealService struct {
	ladder *LadderService
}

func NewStealService(ladder *LadderService) *StealService {
	return &StealService{ladder: ladder}
}

// Authorize runs the permission matrix for a proposed claim against
// the victim's active pick.
//
// A LOY-protected pick only falls to LOY. A LOQ-protected pick falls
// to LOQ or LOY from a player ranked at or below the victim, but a
// better-ranked player needs LOY outright. An unprotected pick goes to
// whoever wins the ladder comparison.
func (s *StealService) Authorize(attemptorID string, proposal models.BonusCombo, victim *models.Pick, ranks map[string]int) models.Decision {
	if victim == nil || victim.PlayerID == attemptorID {
		return models.Allow()
	}

	held := victim.Bonuses()

	if held.LOY {
		if proposal.LOY {
			return models.Allow()
		}
		return models.Deny(models.DenialLOYRequired)
	}

	if held.LOQ {
		attemptorRank := s.ladder.RankOf(attemptorID, ranks)
		victimRank := s.ladder.RankOf(victim.PlayerID, ranks)

		if attemptorRank >= victimRank {
			if proposal.LOQ || proposal.LOY {
				return models.Allow()
			}
			return models.Deny(models.DenialLOQOrLOYRequired)
		}
		if proposal.LOY {
			return models.Allow()
		}
		return models.Deny(models.DenialLOYRequired)
	}

	attemptorRank := s.ladder.RankOf(attemptorID, ranks)
	victimRank := s.ladder.RankOf(victim.PlayerID, ranks)
	if s.ladder.Beats(proposal, attemptorRank, held, victimRank) {
		return models.Allow()
	}
	return models.Deny(models.DenialLadderPriority)
}
