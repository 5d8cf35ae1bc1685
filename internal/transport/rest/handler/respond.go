package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"brandquiz/internal/model"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success       bool               `json:"success"`
	Message       string             `json:"message"`
	Errors        []model.FieldError `json:"errors,omitempty"`
	QuestionIndex int                `json:"questionIndex,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}

// writeRequestError maps caller errors to 400 and everything else to 500
func writeRequestError(w http.ResponseWriter, err error, internalMessage string) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Success: false,
			Message: "Invalid submission",
			Errors:  verr.Fields,
		})
		return
	}

	var missing *model.MissingAnswerError
	if errors.As(err, &missing) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Success:       false,
			Message:       missing.Error(),
			QuestionIndex: missing.QuestionIndex,
		})
		return
	}

	writeError(w, http.StatusInternalServerError, internalMessage)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
