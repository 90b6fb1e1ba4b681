package dashboard

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
)

// NewRouter wires the dashboard pages and the JSON endpoints.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(withSession(h.log, h.sessionTTL))

	// Dashboard
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/analyze", h.Analyze).Methods("POST")
	r.HandleFunc("/clear", h.Clear).Methods("POST")
	r.HandleFunc("/feedback", h.Feedback).Methods("POST")
	r.HandleFunc("/feedback/reset", h.ResetFeedback).Methods("POST")
	r.HandleFunc("/feedback/stats", h.FeedbackStats).Methods("POST")
	r.HandleFunc("/chart", h.Chart).Methods("GET")
	r.HandleFunc("/export.xlsx", h.Export).Methods("GET")

	// JSON
	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)
	api.HandleFunc("/session", h.SessionJSON).Methods("GET", "OPTIONS")

	r.HandleFunc("/healthz", h.Health).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
