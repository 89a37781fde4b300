package markers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// MarkersResponse is the JSON response structure for GET /api/markers.
type MarkersResponse struct {
	Markers     []Marker  `json:"markers"`
	Count       int       `json:"count"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// StatusResponse is the JSON response structure for GET /api/status.
type StatusResponse struct {
	Status    string    `json:"status"`
	Trains    int       `json:"trains"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRouter builds the HTTP API the map frontend polls. status reports the
// scheduler's lifecycle state for the status endpoint.
func NewRouter(board *Board, status func() string, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/markers", func(w http.ResponseWriter, r *http.Request) {
		response := MarkersResponse{
			Markers:     board.Markers(),
			Count:       board.Len(),
			GeneratedAt: time.Now().UTC(),
		}

		// Markers refresh every poll interval; let clients reuse briefly.
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=5, stale-while-revalidate=5")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		response := StatusResponse{
			Status:    status(),
			Trains:    board.Len(),
			Timestamp: time.Now().UTC(),
		}

		code := http.StatusOK
		if msg := board.FatalMessage(); msg != "" {
			response.Error = msg
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(response)
	})

	return r
}
