package geo

import (
	"math"
	"testing"
)

func TestDistanceMeters_KnownDistances(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lon1 float64
		lat2, lon2 float64
		wantMeters float64
		tolerance  float64
	}{
		{
			name: "same point",
			lat1: 52.5200, lon1: 13.4050,
			lat2: 52.5200, lon2: 13.4050,
			wantMeters: 0,
			tolerance:  0.001,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			wantMeters: 111195,
			tolerance:  5,
		},
		{
			name: "Berlin center to Kreuzberg (~3.4km)",
			lat1: 52.5200, lon1: 13.4050,
			lat2: 52.4909, lon2: 13.3929,
			wantMeters: 3335,
			tolerance:  50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantMeters) > tt.tolerance {
				t.Errorf("DistanceMeters() = %.2f, want %.2f ± %.2f", got, tt.wantMeters, tt.tolerance)
			}
		})
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	a := DistanceMeters(52.52, 13.405, 52.5076, 13.3904)
	b := DistanceMeters(52.5076, 13.3904, 52.52, 13.405)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("expected symmetric distance, got %f vs %f", a, b)
	}
}

func TestPathKm(t *testing.T) {
	if got := PathKm(nil); got != 0 {
		t.Fatalf("empty path: got %f", got)
	}
	if got := PathKm([]Point{{Lat: 52.52, Lon: 13.405}}); got != 0 {
		t.Fatalf("single point: got %f", got)
	}

	// Out and back along a meridian: two legs of ~1.112 km each.
	track := []Point{{Lat: 0, Lon: 0}, {Lat: 0.01, Lon: 0}, {Lat: 0, Lon: 0}}
	got := PathKm(track)
	if math.Abs(got-2.224) > 0.002 {
		t.Fatalf("PathKm() = %.3f, want ~2.224", got)
	}
}

func TestRound(t *testing.T) {
	if got := Round(1.23456, 2); got != 1.23 {
		t.Errorf("Round(1.23456, 2) = %v", got)
	}
	if got := Round(3.14159, 3); got != 3.142 {
		t.Errorf("Round(3.14159, 3) = %v", got)
	}
}
