package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sac-pickem-go/models"
)

func heldPick(playerID, combo string) *models.Pick {
	return &models.Pick{
		WeekID:   3,
		PlayerID: playerID,
		Slot:     models.SlotCollege,
		Team:     "Georgia Bulldogs",
		Combo:    combo,
	}
}

// seedRanks gives the pre-season ordering: joey 1 .. aaron 6
func seedRanks() map[string]int {
	return map[string]int{
		"joey": 1, "chris": 2, "dan": 3, "nick": 4, "kevin": 5, "aaron": 6,
	}
}

func TestAuthorizeNoVictim(t *testing.T) {
	steal := NewStealService(NewLadderService(testRules()))

	decision := steal.Authorize("nick", models.BonusCombo{}, nil, seedRanks())
	assert.True(t, decision.Allowed)

	// Replacing your own pick is never a steal
	decision = steal.Authorize("nick", models.BonusCombo{}, heldPick("nick", "LOY"), seedRanks())
	assert.True(t, decision.Allowed)
}

func TestAuthorizeAgainstLOY(t *testing.T) {
	steal := NewStealService(NewLadderService(testRules()))
	victim := heldPick("chris", "LOY")

	decision := steal.Authorize("aaron", models.BonusCombo{LOQ: true, DOG: true}, victim, seedRanks())
	assert.False(t, decision.Allowed)
	assert.Equal(t, models.DenialLOYRequired, decision.Reason)

	decision = steal.Authorize("aaron", models.BonusCombo{LOY: true}, victim, seedRanks())
	assert.True(t, decision.Allowed)
}

func TestAuthorizeAgainstLOQ(t *testing.T) {
	steal := NewStealService(NewLadderService(testRules()))
	victim := heldPick("dan", "LOQ") // dan sits at rank 3

	tests := []struct {
		name      string
		attemptor string // rank relative to dan decides the requirement
		proposal  models.BonusCombo
		allowed   bool
		reason    models.DenialReason
	}{
		{"worse ranked, no token", "nick", models.BonusCombo{}, false, models.DenialLOQOrLOYRequired},
		{"worse ranked, loq", "nick", models.BonusCombo{LOQ: true}, true, ""},
		{"worse ranked, loy", "aaron", models.BonusCombo{LOY: true}, true, ""},
		{"equal rank treated as at-or-below", "dan", models.BonusCombo{LOQ: true}, true, ""},
		{"better ranked, loq is not enough", "joey", models.BonusCombo{LOQ: true}, false, models.DenialLOYRequired},
		{"better ranked, loy", "joey", models.BonusCombo{LOY: true}, true, ""},
		{"better ranked, no token", "chris", models.BonusCombo{DOG: true}, false, models.DenialLOYRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := steal.Authorize(tt.attemptor, tt.proposal, victim, seedRanks())
			assert.Equal(t, tt.allowed, decision.Allowed)
			if !tt.allowed {
				assert.Equal(t, tt.reason, decision.Reason)
			}
		})
	}
}

func TestAuthorizeAgainstUnprotected(t *testing.T) {
	steal := NewStealService(NewLadderService(testRules()))
	victim := heldPick("nick", "") // rank 4, no tokens

	// Any protection token out-tiers an unprotected pick
	decision := steal.Authorize("joey", models.BonusCombo{LOQ: true}, victim, seedRanks())
	assert.True(t, decision.Allowed)

	// Token-less attack from a worse standing wins the ladder
	decision = steal.Authorize("aaron", models.BonusCombo{}, victim, seedRanks())
	assert.True(t, decision.Allowed)

	// Token-less attack from a better standing loses
	decision = steal.Authorize("joey", models.BonusCombo{}, victim, seedRanks())
	assert.False(t, decision.Allowed)
	assert.Equal(t, models.DenialLadderPriority, decision.Reason)

	// DOG carries no claim strength
	decision = steal.Authorize("joey", models.BonusCombo{DOG: true}, victim, seedRanks())
	assert.False(t, decision.Allowed)
	assert.Equal(t, models.DenialLadderPriority, decision.Reason)
}

func TestAuthorizeUnknownAttemptor(t *testing.T) {
	steal := NewStealService(NewLadderService(testRules()))
	victim := heldPick("dan", "LOQ")

	// A player missing from the rank map counts as worst standing, so
	// LOQ is enough against a LOQ holder
	decision := steal.Authorize("stranger", models.BonusCombo{LOQ: true}, victim, seedRanks())
	assert.True(t, decision.Allowed)

	decision = steal.Authorize("stranger", models.BonusCombo{}, victim, seedRanks())
	assert.False(t, decision.Allowed)
	assert.Equal(t, models.DenialLOQOrLOYRequired, decision.Reason)
}
