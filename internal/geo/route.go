package geo

import (
	"math"

	"github.com/google/uuid"
	"github.com/openelect/wardcast/internal/models"
)

// Hours in one canvassing block; sessions report their length in blocks.
const blockHours = 4.0

// StopInfo carries the per-ward allocation figures attached to each visit.
type StopInfo struct {
	Hours float64
	ROI   models.ROITier
}

// OptimiseRoute orders clusters and their member wards into canvass sessions.
//
// Session order is a nearest-neighbour walk over inter-cluster centroid
// distances starting from cluster 0; visit order within each session is a
// nearest-neighbour walk over intra-cluster ward distances starting from the
// cluster's first ward. This is a greedy heuristic, not an optimal tour.
//
// Alongside the sessions it returns the flat sequence of connecting line
// segments, including the connector between the last stop of one session and
// the first stop of the next.
func OptimiseRoute(clusters []models.GeoCluster, centroids map[string]models.Centroid, info map[string]StopInfo) ([]models.CanvassSession, []models.RouteSegment) {
	if len(clusters) == 0 {
		return []models.CanvassSession{}, []models.RouteSegment{}
	}

	order := clusterOrder(clusters)

	sessions := make([]models.CanvassSession, 0, len(clusters))
	segments := []models.RouteSegment{}
	var prevStop *models.CanvassStop

	for number, ci := range order {
		cluster := clusters[ci]
		visitOrder := wardOrder(cluster.Wards, centroids)

		session := models.CanvassSession{
			ID:       uuid.New().String(),
			Number:   number + 1,
			Centroid: cluster.Centroid,
		}
		for i, ward := range visitOrder {
			si := info[ward]
			stop := models.CanvassStop{
				Ward:       ward,
				VisitOrder: i + 1,
				Centroid:   centroids[ward],
				Hours:      si.Hours,
				ROI:        si.ROI,
			}
			session.Stops = append(session.Stops, stop)
			session.TotalHours += stop.Hours

			if prevStop != nil {
				segments = append(segments, models.RouteSegment{
					FromWard: prevStop.Ward,
					ToWard:   stop.Ward,
					From:     prevStop.Centroid,
					To:       stop.Centroid,
				})
			}
			last := stop
			prevStop = &last
		}
		session.EstimatedBlocks = int(math.Ceil(session.TotalHours / blockHours))
		sessions = append(sessions, session)
	}

	return sessions, segments
}

// clusterOrder is the nearest-neighbour walk over cluster centroids from
// cluster 0, returning cluster indices in visit order.
func clusterOrder(clusters []models.GeoCluster) []int {
	visited := make([]bool, len(clusters))
	order := make([]int, 0, len(clusters))

	current := 0
	visited[0] = true
	order = append(order, 0)

	for len(order) < len(clusters) {
		next := -1
		bestDist := math.Inf(1)
		for i := range clusters {
			if visited[i] {
				continue
			}
			d := Haversine(clusters[current].Centroid, clusters[i].Centroid)
			if d < bestDist {
				next = i
				bestDist = d
			}
		}
		visited[next] = true
		order = append(order, next)
		current = next
	}
	return order
}

// wardOrder is the nearest-neighbour walk over ward centroids from the first
// ward in the cluster. Distance ties break on ward name ascending.
func wardOrder(wards []string, centroids map[string]models.Centroid) []string {
	if len(wards) == 0 {
		return nil
	}
	visited := make(map[string]bool, len(wards))
	order := make([]string, 0, len(wards))

	current := wards[0]
	visited[current] = true
	order = append(order, current)

	for len(order) < len(wards) {
		next := ""
		bestDist := math.Inf(1)
		for _, ward := range wards {
			if visited[ward] {
				continue
			}
			d := Haversine(centroids[current], centroids[ward])
			if d < bestDist || (d == bestDist && (next == "" || ward < next)) {
				next = ward
				bestDist = d
			}
		}
		visited[next] = true
		order = append(order, next)
		current = next
	}
	return order
}
