package services

import (
	"strings"

	"sac-pickem-go/models"
)

// Team names arrive spelled differently by every feed ("Ole Miss",
// "Mississippi", "Miss. Rebels"). Matching is a blend of token overlap
// and edit distance over normalized names. Thresholds are deliberately
// conservative; an unmatched pick scores as incomplete rather than
// against the wrong game.

const (
	matchAcceptScore  = 0.82
	matchLooseScore   = 0.65
	matchLooseOverlap = 2
)

var teamAbbreviations = map[string]string{
	"st":    "state",
	"u":     "university",
	"univ":  "university",
	"s":     "south",
	"n":     "north",
	"e":     "east",
	"w":     "west",
	"tcu":   "texas christian",
	"lsu":   "louisiana state",
	"byu":   "brigham young",
	"smu":   "southern methodist",
	"ucf":   "central florida",
	"usc":   "southern california",
	"miss":  "mississippi",
	"mich":  "michigan",
	"wash":  "washington",
	"colo":  "colorado",
	"ariz":  "arizona",
	"ark":   "arkansas",
	"okla":  "oklahoma",
	"tenn":  "tennessee",
}

// NormalizeTeam lowercases a name, strips rankings and punctuation,
// and expands common abbreviations
func NormalizeTeam(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		case r == '&':
			b.WriteString(" and ")
		case r == '-', r == '.', r == '\'', r == '(', r == ')':
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		// "#12 Georgia" style rankings
		if len(f) > 0 && f[0] >= '0' && f[0] <= '9' {
			continue
		}
		if expanded, ok := teamAbbreviations[f]; ok {
			out = append(out, strings.Fields(expanded)...)
			continue
		}
		out = append(out, f)
	}

	return strings.Join(out, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, f := range strings.Fields(s) {
		set[f] = true
	}
	return set
}

func tokenOverlap(a, b map[string]bool) int {
	overlap := 0
	for t := range a {
		if b[t] {
			overlap++
		}
	}
	return overlap
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := tokenOverlap(a, b)
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// TeamSimilarity scores two raw team names in [0, 1]
func TeamSimilarity(a, b string) float64 {
	na, nb := NormalizeTeam(a), NormalizeTeam(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	ta, tb := tokenSet(na), tokenSet(nb)
	maxLen := len(na)
	if len(nb) > maxLen {
		maxLen = len(nb)
	}
	editScore := 1 - float64(levenshtein(na, nb))/float64(maxLen)

	return 0.6*jaccard(ta, tb) + 0.4*editScore
}

// teamsMatch applies the acceptance thresholds to a similarity score
func teamsMatch(a, b string) bool {
	score := TeamSimilarity(a, b)
	if score >= matchAcceptScore {
		return true
	}
	if score >= matchLooseScore {
		overlap := tokenOverlap(tokenSet(NormalizeTeam(a)), tokenSet(NormalizeTeam(b)))
		return overlap >= matchLooseOverlap
	}
	return false
}

// MatchResult resolves the game result and side for a pick. A pinned
// event id wins outright; otherwise the best-scoring side across the
// candidate results is taken, subject to the thresholds. Returns
// (nil, "") when nothing matches.
func MatchResult(pick *models.Pick, results []*models.GameResult) (*models.GameResult, string) {
	if pick.EventID != "" {
		for _, result := range results {
			if result.League == pick.League && result.EventID == pick.EventID {
				if side := bestSide(pick.Team, result); side != "" {
					return result, side
				}
				// Pinned but the name drifted; trust the pin and rescore
				if TeamSimilarity(pick.Team, result.Home) >= TeamSimilarity(pick.Team, result.Away) {
					return result, result.Home
				}
				return result, result.Away
			}
		}
	}

	var best *models.GameResult
	var bestSideName string
	bestScore := 0.0

	for _, result := range results {
		if result.League != pick.League {
			continue
		}
		for _, side := range []string{result.Home, result.Away} {
			score := TeamSimilarity(pick.Team, side)
			if score > bestScore {
				bestScore = score
				best = result
				bestSideName = side
			}
		}
	}

	if best == nil || !teamsMatch(pick.Team, bestSideName) {
		return nil, ""
	}
	return best, bestSideName
}

func bestSide(team string, result *models.GameResult) string {
	if teamsMatch(team, result.Home) {
		return result.Home
	}
	if teamsMatch(team, result.Away) {
		return result.Away
	}
	return ""
}
