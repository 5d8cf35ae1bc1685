package handler

import (
	"log"
	"net/http"

	"brandquiz/internal/catalog"
	"brandquiz/internal/model"
	"brandquiz/internal/service"
	"brandquiz/internal/transport/rest/middleware"
)

// QuizHandler handles quiz endpoints
type QuizHandler struct {
	submissionSvc *service.SubmissionService
	catalog       *catalog.Catalog
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(submissionSvc *service.SubmissionService, c *catalog.Catalog) *QuizHandler {
	return &QuizHandler{
		submissionSvc: submissionSvc,
		catalog:       c,
	}
}

// Submit handles POST /v1/quiz/submit
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, trace, err := h.submissionSvc.Submit(r.Context(), &req)
	if err != nil {
		writeRequestError(w, err, "Error processing quiz submission")
		return
	}

	log.Printf("[Submit] request %s: %d steps traced for %s", middleware.GetRequestID(r.Context()), len(trace.Steps), trace.SubmissionID)
	writeJSON(w, http.StatusOK, result)
}

// Analyze handles POST /v1/quiz/analyze
func (h *QuizHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.submissionSvc.Analyze(r.Context(), &req)
	if err != nil {
		log.Printf("[Analyze] request %s failed: %v", middleware.GetRequestID(r.Context()), err)
		writeRequestError(w, err, "Error processing quiz submission")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Questions handles GET /v1/quiz/questions
func (h *QuizHandler) Questions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"questions": h.submissionSvc.Questions().Public(),
	})
}

// Archetypes handles GET /v1/archetypes
func (h *QuizHandler) Archetypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"archetypes": h.catalog.All(),
		"pairs":      h.catalog.Pairs(),
	})
}
