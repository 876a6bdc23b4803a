package handlers

import (
	"net/http"

	"sac-pickem-go/interfaces"
)

// StandingsHandler serves the standings and scorecard endpoints
type StandingsHandler struct {
	scoring interfaces.Scoring
}

func NewStandingsHandler(scoring interfaces.Scoring) *StandingsHandler {
	return &StandingsHandler{scoring: scoring}
}

// Standings handles GET /api/standings
func (h *StandingsHandler) Standings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.scoring.Standings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

// Scorecard handles GET /api/scorecard, the player-by-quarter season
// grid
func (h *StandingsHandler) Scorecard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.scoring.Scorecard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
