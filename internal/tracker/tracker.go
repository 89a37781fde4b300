// Package tracker maintains the live set of trains currently visible on the
// map. It reconciles each polling cycle's vehicle positions and trip delays
// against the static reference tables: trains appear on their first sighting
// inside the region, move on every later sighting, and disappear the moment
// a cycle's position batch no longer mentions them.
package tracker

import (
	"github.com/WireNext/RodaliesCV-RealTIme/internal/geo"
	"github.com/WireNext/RodaliesCV-RealTIme/internal/realtime/cercanias"
	"github.com/WireNext/RodaliesCV-RealTIme/internal/static"
)

// UnknownLine is shown when a trip's route has no entry in the static data.
const UnknownLine = "Unknown line"

// Train is one currently-visible train, keyed by its trip id.
type Train struct {
	TripID       string
	Latitude     float64
	Longitude    float64
	DelaySeconds int
	Line         string
	Destination  string
}

// Listener receives lifecycle events as the live set changes. The pointers
// passed are owned by the engine; implementations must copy what they keep.
type Listener interface {
	TrainAppeared(t *Train)
	TrainMoved(t *Train)
	TrainDelayChanged(t *Train)
	TrainDeparted(t *Train)
}

// Engine owns the live registry and applies position and delay batches to
// it. All mutation goes through the engine; one goroutine at a time.
type Engine struct {
	store    *static.Store
	bounds   geo.Bounds
	listener Listener
	trains   map[string]*Train
}

func NewEngine(store *static.Store, bounds geo.Bounds, listener Listener) *Engine {
	return &Engine{
		store:    store,
		bounds:   bounds,
		listener: listener,
		trains:   make(map[string]*Train),
	}
}

// ApplyDelayBatch overwrites the delay of every tracked train mentioned in
// the batch. Reports for trips that are not tracked are ignored: delay
// reports carry no coordinates, so they can never create a train, and this
// phase never removes one either.
func (e *Engine) ApplyDelayBatch(reports []cercanias.DelayReport) {
	for _, r := range reports {
		train, ok := e.trains[r.TripID]
		if !ok {
			continue
		}
		if train.DelaySeconds == r.DelaySeconds {
			continue
		}
		train.DelaySeconds = r.DelaySeconds
		e.listener.TrainDelayChanged(train)
	}
}

// ApplyPositionBatch runs one reconciliation cycle against the batch.
// Membership in the batch is the sole liveness signal: any tracked train
// absent from it is evicted immediately, with no grace period.
func (e *Engine) ApplyPositionBatch(reports []cercanias.PositionReport) {
	seen := make(map[string]bool, len(reports))

	for _, r := range reports {
		if r.TripID == "" {
			continue
		}
		if !e.bounds.Contains(r.Latitude, r.Longitude) {
			continue
		}

		// No reference data means the train cannot be labelled, so it is
		// not displayed at all. A trip that loses its static match is
		// evicted below rather than kept with stale labels.
		trip, ok := e.store.ResolveTrip(r.TripID)
		if !ok {
			continue
		}

		line := UnknownLine
		if route, ok := e.store.ResolveRoute(trip.RouteID); ok {
			line = route.ShortName
		}

		seen[r.TripID] = true

		if train, ok := e.trains[r.TripID]; ok {
			train.Latitude = r.Latitude
			train.Longitude = r.Longitude
			e.listener.TrainMoved(train)
			continue
		}

		train := &Train{
			TripID:      r.TripID,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			Line:        line,
			Destination: trip.Headsign,
		}
		e.trains[r.TripID] = train
		e.listener.TrainAppeared(train)
	}

	for tripID, train := range e.trains {
		if !seen[tripID] {
			delete(e.trains, tripID)
			e.listener.TrainDeparted(train)
		}
	}
}

// Len reports how many trains are currently tracked.
func (e *Engine) Len() int {
	return len(e.trains)
}

// Snapshot returns a copy of the live set. Callers may not reach back into
// the registry; this is the only read surface for other goroutines' data
// needs, taken while the engine is idle.
func (e *Engine) Snapshot() []Train {
	out := make([]Train, 0, len(e.trains))
	for _, t := range e.trains {
		out = append(out, *t)
	}
	return out
}
