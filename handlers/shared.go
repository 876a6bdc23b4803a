package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"sac-pickem-go/logging"
	"sac-pickem-go/models"
)

// errorResponse is the JSON body of every non-2xx answer
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Errorf("Failed to encode response: %v", err)
	}
}

// writeError maps the error families onto status codes: validation is
// 422, a lost claim race is 409, missing things are 404, a locked week
// is 409, and anything else is a 500 with a generic body.
func writeError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: ve.Message, Field: ve.Field})
	case errors.Is(err, models.ErrTeamTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrWeekLocked):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrWeekNotFound), errors.Is(err, models.ErrPickNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		logging.Errorf("Request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return models.NewValidationError("", "invalid request body: %v", err)
	}
	return nil
}
