package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"brandquiz/internal/service"
)

// StatusHandler handles report status endpoints
type StatusHandler struct {
	statusSvc *service.StatusService
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(statusSvc *service.StatusService) *StatusHandler {
	return &StatusHandler{statusSvc: statusSvc}
}

// Get handles GET /v1/quiz/status/{reportId}
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, mux.Vars(r)["reportId"])
}

// Check handles GET /check-status?reportId=
func (h *StatusHandler) Check(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r.URL.Query().Get("reportId"))
}

func (h *StatusHandler) respond(w http.ResponseWriter, reportID string) {
	status, err := h.statusSvc.Check(reportID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Success: false, Message: "Report ID is required"})
		return
	}
	writeJSON(w, http.StatusOK, status)
}
