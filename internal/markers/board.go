// Package markers is the presentation side of the tracker: it listens to
// engine events and keeps the marker set the web map renders. The board is
// the only piece the HTTP layer reads; it never touches the engine.
package markers

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/WireNext/RodaliesCV-RealTIme/internal/tracker"
)

// Marker is one map marker. ID is the stable handle the frontend uses to
// animate a marker across refreshes; it lives exactly as long as the train
// is tracked.
type Marker struct {
	ID           uuid.UUID `json:"id"`
	TripID       string    `json:"tripId"`
	Latitude     float64   `json:"lat"`
	Longitude    float64   `json:"lon"`
	Line         string    `json:"line"`
	Destination  string    `json:"destination"`
	DelaySeconds int       `json:"delaySeconds"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Board holds the current marker set. Writes come from the polling
// goroutine through the tracker.Listener methods; reads come from HTTP
// handlers.
type Board struct {
	mu       sync.RWMutex
	byTrip   map[string]*Marker
	fatalMsg string
	now      func() time.Time
}

func NewBoard() *Board {
	return &Board{
		byTrip: make(map[string]*Marker),
		now:    time.Now,
	}
}

// TrainAppeared creates a marker with a fresh handle.
func (b *Board) TrainAppeared(t *tracker.Train) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.byTrip[t.TripID] = &Marker{
		ID:           uuid.New(),
		TripID:       t.TripID,
		Latitude:     t.Latitude,
		Longitude:    t.Longitude,
		Line:         t.Line,
		Destination:  t.Destination,
		DelaySeconds: t.DelaySeconds,
		UpdatedAt:    b.now().UTC(),
	}
}

// TrainMoved repositions the marker, keeping its handle.
func (b *Board) TrainMoved(t *tracker.Train) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.byTrip[t.TripID]
	if !ok {
		return
	}
	m.Latitude = t.Latitude
	m.Longitude = t.Longitude
	m.UpdatedAt = b.now().UTC()
}

// TrainDelayChanged refreshes the marker's delay label.
func (b *Board) TrainDelayChanged(t *tracker.Train) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.byTrip[t.TripID]
	if !ok {
		return
	}
	m.DelaySeconds = t.DelaySeconds
	m.UpdatedAt = b.now().UTC()
}

// TrainDeparted removes the marker and releases its handle.
func (b *Board) TrainDeparted(t *tracker.Train) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.byTrip, t.TripID)
}

// SetFatal records a blocking static-load failure for the status endpoint.
func (b *Board) SetFatal(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.fatalMsg = msg
}

// FatalMessage returns the blocking error message, if any.
func (b *Board) FatalMessage() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.fatalMsg
}

// Markers returns a copy of the current marker set.
func (b *Board) Markers() []Marker {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Marker, 0, len(b.byTrip))
	for _, m := range b.byTrip {
		out = append(out, *m)
	}
	return out
}

// Len reports how many markers are on the board.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.byTrip)
}
