package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"sac-pickem-go/interfaces"
	"sac-pickem-go/models"
)

// LinesHandler serves current spread lines so players can see what a
// team is laying before claiming it. Feed may be nil when no odds API
// key is configured.
type LinesHandler struct {
	feed interfaces.LineFeed
}

func NewLinesHandler(feed interfaces.LineFeed) *LinesHandler {
	return &LinesHandler{feed: feed}
}

// Lines handles GET /api/lines/{league}
func (h *LinesHandler) Lines(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "odds feed not configured"})
		return
	}

	var league models.League
	switch strings.ToUpper(mux.Vars(r)["league"]) {
	case string(models.LeagueNCAA):
		league = models.LeagueNCAA
	case string(models.LeagueNFL):
		league = models.LeagueNFL
	default:
		writeError(w, models.NewValidationError("league", "league must be NCAA or NFL"))
		return
	}

	lines, err := h.feed.GetLines(r.Context(), league)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}
