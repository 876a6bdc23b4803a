package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"sac-pickem-go/interfaces"
	"sac-pickem-go/models"
)

// WeekHandler serves the schedule and week summary endpoints
type WeekHandler struct {
	weeks   interfaces.WeekSource
	admin   interfaces.WeekAdmin
	scoring interfaces.Scoring
}

func NewWeekHandler(weeks interfaces.WeekSource, admin interfaces.WeekAdmin, scoring interfaces.Scoring) *WeekHandler {
	return &WeekHandler{weeks: weeks, admin: admin, scoring: scoring}
}

// Current handles GET /api/weeks/current
func (h *WeekHandler) Current(w http.ResponseWriter, r *http.Request) {
	week, err := h.weeks.FindCurrent(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}

// Summary handles GET /api/weeks/{number}/summary. Scoring a week is
// idempotent, so serving the summary recomputes and re-persists it.
func (h *WeekHandler) Summary(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		writeError(w, models.NewValidationError("number", "week number must be an integer"))
		return
	}

	breakdown, err := h.scoring.ScoreWeek(r.Context(), number)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, breakdown)
}

type saveWeekBody struct {
	Quarter       int       `json:"quarter"`
	WeekOfQuarter int       `json:"week_of_quarter"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	WeekOne       bool      `json:"week_one"`
}

// Save handles PUT /api/weeks/{number}. New weeks open for claims;
// an existing week keeps its status until locked explicitly.
func (h *WeekHandler) Save(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		writeError(w, models.NewValidationError("number", "week number must be an integer"))
		return
	}

	var body saveWeekBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.Quarter < 1 || body.Quarter > 4 {
		writeError(w, models.NewValidationError("quarter", "quarter must be 1 through 4, got %d", body.Quarter))
		return
	}
	if !body.EndDate.After(body.StartDate) {
		writeError(w, models.NewValidationError("end_date", "end date must follow start date"))
		return
	}

	week := &models.Week{
		Number:    number,
		Quarter:   body.Quarter,
		Label:     models.FormatLabel(body.Quarter, body.WeekOfQuarter),
		Status:    models.WeekStatusOpen,
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
		WeekOne:   body.WeekOne,
	}
	if err := h.admin.Upsert(r.Context(), week); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}

type weekStatusBody struct {
	Status models.WeekStatus `json:"status"`
}

// SetStatus handles POST /api/weeks/{number}/status
func (h *WeekHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		writeError(w, models.NewValidationError("number", "week number must be an integer"))
		return
	}

	var body weekStatusBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.Status != models.WeekStatusOpen && body.Status != models.WeekStatusLocked {
		writeError(w, models.NewValidationError("status", "status must be OPEN or LOCKED, got %q", body.Status))
		return
	}

	if err := h.admin.SetStatus(r.Context(), number, body.Status); err != nil {
		writeError(w, err)
		return
	}

	week, err := h.weeks.FindByNumber(r.Context(), number)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}
