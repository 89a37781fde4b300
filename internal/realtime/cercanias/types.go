package cercanias

// PositionReport is one vehicle position from the GTFS-RT feed, reduced to
// the fields the tracker needs. Entities missing a trip id or coordinates
// never make it into a report.
type PositionReport struct {
	TripID    string
	Latitude  float64
	Longitude float64
}

// DelayReport is one trip update from the GTFS-RT feed. DelaySeconds is the
// trip-level delay when the feed carries one, otherwise the first per-stop
// delay, otherwise zero.
type DelayReport struct {
	TripID       string
	DelaySeconds int
}
