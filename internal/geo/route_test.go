package geo

import (
	"math"
	"testing"

	"github.com/openelect/wardcast/internal/models"
)

func routeFixture() ([]models.GeoCluster, map[string]models.Centroid, map[string]StopInfo) {
	centroids := map[string]models.Centroid{
		"East1": {Lon: 0.10, Lat: 52.0},
		"East2": {Lon: 0.12, Lat: 52.0},
		"West1": {Lon: -1.00, Lat: 52.0},
		"West2": {Lon: -1.02, Lat: 52.0},
		"Far1":  {Lon: -3.00, Lat: 52.0},
	}
	clusters := []models.GeoCluster{
		{Index: 0, Wards: []string{"East1", "East2"}, Centroid: models.Centroid{Lon: 0.11, Lat: 52.0}},
		{Index: 1, Wards: []string{"Far1"}, Centroid: models.Centroid{Lon: -3.00, Lat: 52.0}},
		{Index: 2, Wards: []string{"West1", "West2"}, Centroid: models.Centroid{Lon: -1.01, Lat: 52.0}},
	}
	info := map[string]StopInfo{
		"East1": {Hours: 10, ROI: models.ROIExcellent},
		"East2": {Hours: 5, ROI: models.ROIGood},
		"West1": {Hours: 3, ROI: models.ROIFair},
		"West2": {Hours: 2, ROI: models.ROIGood},
		"Far1":  {Hours: 1, ROI: models.ROIPoor},
	}
	return clusters, centroids, info
}

func TestOptimiseRouteCoversEveryWardOnce(t *testing.T) {
	clusters, centroids, info := routeFixture()

	sessions, _ := OptimiseRoute(clusters, centroids, info)

	if len(sessions) != 3 {
		t.Fatalf("sessions = %d, want 3", len(sessions))
	}
	seen := map[string]int{}
	for _, s := range sessions {
		if s.ID == "" {
			t.Error("session missing ID")
		}
		for i, stop := range s.Stops {
			seen[stop.Ward]++
			if stop.VisitOrder != i+1 {
				t.Errorf("stop %s visit order = %d, want %d", stop.Ward, stop.VisitOrder, i+1)
			}
		}
	}
	for ward := range centroids {
		if seen[ward] != 1 {
			t.Errorf("ward %s visited %d times, want exactly once", ward, seen[ward])
		}
	}
}

func TestOptimiseRouteNearestNeighbourOrder(t *testing.T) {
	clusters, centroids, info := routeFixture()

	sessions, _ := OptimiseRoute(clusters, centroids, info)

	// Walk starts at cluster 0 (east), hops to the nearer west pair, then far.
	if sessions[0].Stops[0].Ward != "East1" {
		t.Errorf("first stop = %s, want East1", sessions[0].Stops[0].Ward)
	}
	if w := sessions[1].Stops[0].Ward; w != "West1" {
		t.Errorf("second session starts at %s, want West1", w)
	}
	if w := sessions[2].Stops[0].Ward; w != "Far1" {
		t.Errorf("third session starts at %s, want Far1", w)
	}
	for i, s := range sessions {
		if s.Number != i+1 {
			t.Errorf("session %d numbered %d", i, s.Number)
		}
	}
}

func TestOptimiseRouteHoursAndBlocks(t *testing.T) {
	clusters, centroids, info := routeFixture()

	sessions, _ := OptimiseRoute(clusters, centroids, info)

	for _, s := range sessions {
		var sum float64
		for _, stop := range s.Stops {
			sum += stop.Hours
		}
		if math.Abs(s.TotalHours-sum) > 1e-9 {
			t.Errorf("session %d total hours = %f, want %f", s.Number, s.TotalHours, sum)
		}
		wantBlocks := int(math.Ceil(sum / 4))
		if s.EstimatedBlocks != wantBlocks {
			t.Errorf("session %d blocks = %d, want %d", s.Number, s.EstimatedBlocks, wantBlocks)
		}
	}
	// East pair: 15 hours is 4 blocks.
	if sessions[0].EstimatedBlocks != 4 {
		t.Errorf("east session blocks = %d, want 4", sessions[0].EstimatedBlocks)
	}
}

func TestOptimiseRouteSegments(t *testing.T) {
	clusters, centroids, info := routeFixture()

	sessions, segments := OptimiseRoute(clusters, centroids, info)

	// Five stops in total means four connecting segments, including the
	// inter-session connectors.
	if len(segments) != 4 {
		t.Fatalf("segments = %d, want 4", len(segments))
	}
	// Segments chain: each starts where the previous ended.
	for i := 1; i < len(segments); i++ {
		if segments[i].FromWard != segments[i-1].ToWard {
			t.Errorf("segment %d starts at %s, previous ended at %s",
				i, segments[i].FromWard, segments[i-1].ToWard)
		}
	}
	// The first segment leaves the first stop of the first session.
	if segments[0].FromWard != sessions[0].Stops[0].Ward {
		t.Errorf("first segment from %s, want %s", segments[0].FromWard, sessions[0].Stops[0].Ward)
	}
}

func TestOptimiseRouteEmpty(t *testing.T) {
	sessions, segments := OptimiseRoute(nil, map[string]models.Centroid{}, nil)
	if len(sessions) != 0 || len(segments) != 0 {
		t.Errorf("empty input should produce empty outputs, got %d sessions, %d segments",
			len(sessions), len(segments))
	}
}
