package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"sac-pickem-go/interfaces"
	"sac-pickem-go/models"
)

// PickHandler serves the claim, erase and board endpoints
type PickHandler struct {
	picks interfaces.PickFlow
}

func NewPickHandler(picks interfaces.PickFlow) *PickHandler {
	return &PickHandler{picks: picks}
}

// claimBody is the wire form of a claim request
type claimBody struct {
	WeekID       int     `json:"week_id"`
	PlayerID     string  `json:"player_id"`
	Slot         string  `json:"slot"`
	Team         string  `json:"team"`
	Spread       float64 `json:"spread"`
	Odds         int     `json:"odds"`
	Combo        string  `json:"combo"`
	Pressed      bool    `json:"pressed"`
	ConfirmSteal bool    `json:"confirm_steal"`
}

// Claim handles POST /api/picks/claim. A denied steal is a 200 with
// allowed=false; only malformed requests, lost races and locked weeks
// are errors.
func (h *PickHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var body claimBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	req := models.ClaimRequest{
		WeekID:       body.WeekID,
		PlayerID:     body.PlayerID,
		Slot:         models.Slot(body.Slot),
		Team:         body.Team,
		Spread:       body.Spread,
		Odds:         body.Odds,
		Combo:        models.ParseBonusCombo(body.Combo),
		Pressed:      body.Pressed,
		ConfirmSteal: body.ConfirmSteal,
	}

	result, err := h.picks.Claim(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// eraseBody is the wire form of an erase request
type eraseBody struct {
	WeekID   int    `json:"week_id"`
	PlayerID string `json:"player_id"`
	Slot     string `json:"slot"`
}

// Erase handles DELETE /api/picks
func (h *PickHandler) Erase(w http.ResponseWriter, r *http.Request) {
	var body eraseBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.picks.Erase(r.Context(), body.WeekID, body.PlayerID, models.Slot(body.Slot)); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"erased": true})
}

// Board handles GET /api/weeks/{number}/picks, the live board with
// stolen picks hidden
func (h *PickHandler) Board(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		writeError(w, models.NewValidationError("number", "week number must be an integer"))
		return
	}

	picks, err := h.picks.Board(r.Context(), number)
	if err != nil {
		writeError(w, err)
		return
	}
	if picks == nil {
		picks = []*models.Pick{}
	}

	writeJSON(w, http.StatusOK, picks)
}

// History handles GET /api/players/{id}/picks, a player's full season
// of picks with stolen rows included
func (h *PickHandler) History(w http.ResponseWriter, r *http.Request) {
	picks, err := h.picks.History(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if picks == nil {
		picks = []*models.Pick{}
	}

	writeJSON(w, http.StatusOK, picks)
}
