package geo

import "testing"

// Valencia Cercanías coverage area, roughly Gandia to Castelló.
var valencia = Bounds{MinLat: 38.8, MinLon: -1.3, MaxLat: 40.2, MaxLon: 0.3}

func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"valencia city", 39.4699, -0.3763, true},
		{"gandia", 38.9670, -0.1830, true},
		{"castello", 39.9887, -0.0387, true},
		{"madrid", 40.4168, -3.7038, false},
		{"barcelona", 41.3874, 2.1686, false},
		{"north of box", 40.3, -0.4, false},
		{"south of box", 38.7, -0.4, false},
		{"west of box", 39.5, -1.4, false},
		{"east of box", 39.5, 0.4, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := valencia.Contains(tc.lat, tc.lon); got != tc.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tc.lat, tc.lon, got, tc.want)
			}
		})
	}
}

func TestContainsEdgesInclusive(t *testing.T) {
	edges := []struct {
		name     string
		lat, lon float64
	}{
		{"min lat", valencia.MinLat, -0.4},
		{"max lat", valencia.MaxLat, -0.4},
		{"min lon", 39.5, valencia.MinLon},
		{"max lon", 39.5, valencia.MaxLon},
		{"southwest corner", valencia.MinLat, valencia.MinLon},
		{"northeast corner", valencia.MaxLat, valencia.MaxLon},
	}

	for _, e := range edges {
		t.Run(e.name, func(t *testing.T) {
			if !valencia.Contains(e.lat, e.lon) {
				t.Errorf("Contains(%v, %v) = false, boundary must be inclusive", e.lat, e.lon)
			}
		})
	}
}
