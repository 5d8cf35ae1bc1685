package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"brandquiz/internal/catalog"
	"brandquiz/internal/service"
	"brandquiz/internal/transport/rest/handler"
	"brandquiz/internal/transport/rest/middleware"
	"brandquiz/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Catalog           *catalog.Catalog
	SubmissionService *service.SubmissionService
	StatusService     *service.StatusService
	WSHub             *ws.Hub
	AllowedOrigins    string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(c.SubmissionService, c.Catalog)
	statusHandler := handler.NewStatusHandler(c.StatusService)
	wsHandler := ws.NewHandler(c.WSHub)

	// Recovery wraps everything, then request ids, then CORS
	r.Use(middleware.Recover)
	r.Use(middleware.RequestID)
	r.Use(corsMiddleware(c.AllowedOrigins))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/quiz/submit", quizHandler.Submit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/quiz/analyze", quizHandler.Analyze).Methods("POST", "OPTIONS")
	v1.HandleFunc("/quiz/status/{reportId}", statusHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/quiz/questions", quizHandler.Questions).Methods("GET", "OPTIONS")
	v1.HandleFunc("/archetypes", quizHandler.Archetypes).Methods("GET", "OPTIONS")

	// WebSocket routes
	v1.HandleFunc("/ws/submissions/{submissionId}", wsHandler.SubmissionWS).Methods("GET")

	// Paths used by the deployed form
	r.HandleFunc("/submit-quiz", quizHandler.Submit).Methods("POST", "OPTIONS")
	r.HandleFunc("/check-status", statusHandler.Check).Methods("GET", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
			if allowedMethods == "" {
				allowedMethods = "GET, POST, OPTIONS"
			}

			allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
			if allowedHeaders == "" {
				allowedHeaders = "Content-Type, X-Request-ID"
			}

			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
