package environment

import (
	"context"
	"testing"
	"time"
)

// TestSimulatedProvider_Deterministic verifies two snapshots for the same
// location and day are identical
func TestSimulatedProvider_Deterministic(t *testing.T) {
	p := NewSimulatedProvider()
	p.now = func() time.Time { return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC) }

	loc := Location{Latitude: 45.0, Longitude: 12.5}
	a, err := p.Snapshot(context.Background(), loc)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	b, err := p.Snapshot(context.Background(), loc)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if *a != *b {
		t.Errorf("Expected identical snapshots, got %+v and %+v", a, b)
	}
}

// TestSimulatedProvider_Ranges verifies simulated values stay in their
// documented ranges across a grid of locations
func TestSimulatedProvider_Ranges(t *testing.T) {
	p := NewSimulatedProvider()
	p.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	for lat := -60.0; lat <= 60.0; lat += 7.3 {
		for lon := -150.0; lon <= 150.0; lon += 31.7 {
			snap, err := p.Snapshot(context.Background(), Location{Latitude: lat, Longitude: lon})
			if err != nil {
				t.Fatalf("Snapshot failed at %.1f,%.1f: %v", lat, lon, err)
			}
			if snap.SoilMoisture.Percentage < 0 || snap.SoilMoisture.Percentage > 100 {
				t.Errorf("Moisture out of range at %.1f,%.1f: %v", lat, lon, snap.SoilMoisture.Percentage)
			}
			if snap.VegetationIndex.NDVI < -1 || snap.VegetationIndex.NDVI > 1 {
				t.Errorf("NDVI out of range at %.1f,%.1f: %v", lat, lon, snap.VegetationIndex.NDVI)
			}
			if snap.Confidence < 0 || snap.Confidence > 1 {
				t.Errorf("Confidence out of range at %.1f,%.1f: %v", lat, lon, snap.Confidence)
			}
			if snap.Temperature.Min >= snap.Temperature.Max {
				t.Errorf("Temperature min/max inverted at %.1f,%.1f: %+v", lat, lon, snap.Temperature)
			}
		}
	}
}

// TestMoistureStatus verifies the status buckets
func TestMoistureStatus(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{10, "very_low"},
		{25, "low"},
		{50, "adequate"},
		{75, "high"},
		{92, "saturated"},
	}
	for _, tc := range cases {
		if got := MoistureStatus(tc.pct); got != tc.want {
			t.Errorf("MoistureStatus(%v): expected %s, got %s", tc.pct, tc.want, got)
		}
	}
}
