package markers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/WireNext/RodaliesCV-RealTIme/internal/tracker"
)

func newTestAPI(board *Board, status string) http.Handler {
	return NewRouter(board, func() string { return status }, []string{"*"})
}

func TestGetMarkers(t *testing.T) {
	board := NewBoard()
	board.TrainAppeared(&tracker.Train{
		TripID:      "T1",
		Latitude:    39.0,
		Longitude:   -0.3,
		Line:        "C1",
		Destination: "Gandia",
	})

	req := httptest.NewRequest("GET", "/api/markers", nil)
	rec := httptest.NewRecorder()
	newTestAPI(board, "ready").ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var response MarkersResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Count != 1 || len(response.Markers) != 1 {
		t.Fatalf("response = %+v", response)
	}
	m := response.Markers[0]
	if m.TripID != "T1" || m.Line != "C1" || m.Destination != "Gandia" {
		t.Errorf("marker = %+v", m)
	}
}

func TestGetStatusHealthy(t *testing.T) {
	board := NewBoard()

	req := httptest.NewRequest("GET", "/api/status", nil)
	rec := httptest.NewRecorder()
	newTestAPI(board, "polling").ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var response StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatal(err)
	}
	if response.Status != "polling" {
		t.Errorf("status = %q, want polling", response.Status)
	}
	if response.Error != "" {
		t.Errorf("unexpected error field: %q", response.Error)
	}
}

func TestGetStatusBlockedByFatalLoad(t *testing.T) {
	board := NewBoard()
	board.SetFatal("static load failed for routes: unreachable")

	req := httptest.NewRequest("GET", "/api/status", nil)
	rec := httptest.NewRecorder()
	newTestAPI(board, "failed").ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var response StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatal(err)
	}
	if response.Status != "failed" || response.Error == "" {
		t.Errorf("response = %+v", response)
	}
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	newTestAPI(NewBoard(), "ready").ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
