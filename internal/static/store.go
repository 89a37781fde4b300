package static

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// UnknownDestination is shown when a trip has no headsign in the static data.
const UnknownDestination = "Unknown destination"

// RouteInfo holds the display names for a route, keyed by route_id.
type RouteInfo struct {
	ShortName string
	LongName  string
}

// TripInfo links a trip to its route and destination label, keyed by trip_id.
type TripInfo struct {
	RouteID  string
	Headsign string
}

// LoadError marks a whole-source failure: the source was unreachable or its
// header could not be parsed. Callers must treat it as fatal and stop polling
// rather than reconcile against empty tables forever.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("static load failed for %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Store holds the session-immutable route and trip reference tables.
// Load once before polling starts; lookups afterwards are read-only.
type Store struct {
	routes map[string]RouteInfo
	trips  map[string]TripInfo
}

func NewStore() *Store {
	return &Store{
		routes: make(map[string]RouteInfo),
		trips:  make(map[string]TripInfo),
	}
}

// Load parses the routes and trips tables. Individual malformed rows are
// skipped; a source that cannot be read at all surfaces as *LoadError.
func (s *Store) Load(routesSrc, tripsSrc io.Reader) error {
	if err := s.loadRoutes(routesSrc); err != nil {
		return &LoadError{Source: "routes", Err: err}
	}
	if err := s.loadTrips(tripsSrc); err != nil {
		return &LoadError{Source: "trips", Err: err}
	}
	return nil
}

func (s *Store) loadRoutes(src io.Reader) error {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	idx := makeIndex(header)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		routeID := getField(record, idx, "route_id")
		if routeID == "" {
			continue
		}

		s.routes[routeID] = RouteInfo{
			ShortName: getField(record, idx, "route_short_name"),
			LongName:  getField(record, idx, "route_long_name"),
		}
	}

	return nil
}

func (s *Store) loadTrips(src io.Reader) error {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	idx := makeIndex(header)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		tripID := getField(record, idx, "trip_id")
		if tripID == "" {
			continue
		}

		headsign := getField(record, idx, "trip_headsign")
		if headsign == "" {
			headsign = UnknownDestination
		}

		s.trips[tripID] = TripInfo{
			RouteID:  getField(record, idx, "route_id"),
			Headsign: headsign,
		}
	}

	return nil
}

// ResolveTrip looks up the reference data for a trip.
func (s *Store) ResolveTrip(tripID string) (TripInfo, bool) {
	info, ok := s.trips[tripID]
	return info, ok
}

// ResolveRoute looks up the display names for a route.
func (s *Store) ResolveRoute(routeID string) (RouteInfo, bool) {
	info, ok := s.routes[routeID]
	return info, ok
}

// TripCount reports how many trips are loaded. Zero means the store is
// unusable and polling should not reconcile.
func (s *Store) TripCount() int {
	return len(s.trips)
}

func (s *Store) RouteCount() int {
	return len(s.routes)
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		// Renfe files ship with a UTF-8 BOM on the first column.
		idx[strings.TrimPrefix(strings.TrimSpace(h), "\uFEFF")] = i
	}
	return idx
}

func getField(record []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}
