// Package geo groups contested wards into canvassing sessions by centroid
// proximity and orders visits with a nearest-neighbour heuristic.
//
// Determinism matters more than optimality here: the same input must always
// produce the same sessions and the same visit order, so wards are processed
// in sorted name order, k-means is seeded by even index spacing rather than
// randomized restarts, and all distance ties break on ward name.
package geo

import (
	"math"
	"sort"

	"github.com/openelect/wardcast/internal/logger"
	"github.com/openelect/wardcast/internal/models"
)

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance between two centroids in
// kilometres.
func Haversine(a, b models.Centroid) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Bounded k-means iteration cap. Assignment almost always stabilizes in a
// handful of rounds on ward-scale inputs.
const maxKMeansIterations = 20

// ClusterWards groups the given wards into canvassing clusters of at most
// sessionCap wards each (approximately; k-means does not enforce a hard cap).
//
// Wards without a centroid are excluded and logged, never fatal. When the
// remaining count fits a single session, one cluster is returned with the
// arithmetic-mean centroid. Otherwise k = ceil(count/cap) clusters are fit by
// bounded k-means (<= 20 iterations, early exit on stable assignment) over
// great-circle distance, seeded by even index spacing through the sorted ward
// list.
func ClusterWards(wards []string, centroids map[string]models.Centroid, sessionCap int) []models.GeoCluster {
	if sessionCap <= 0 {
		sessionCap = 1
	}

	usable := make([]string, 0, len(wards))
	for _, ward := range wards {
		if _, ok := centroids[ward]; !ok {
			logger.Debug("ClusterWards: ward %s has no centroid, excluded from clustering", ward)
			continue
		}
		usable = append(usable, ward)
	}
	sort.Strings(usable)

	if len(usable) == 0 {
		return []models.GeoCluster{}
	}
	if len(usable) <= sessionCap {
		return []models.GeoCluster{{
			Index:    0,
			Wards:    usable,
			Centroid: meanCentroid(usable, centroids),
		}}
	}

	k := (len(usable) + sessionCap - 1) / sessionCap

	// Deterministic seeding: even index spacing through the sorted ward list.
	means := make([]models.Centroid, k)
	for i := 0; i < k; i++ {
		means[i] = centroids[usable[i*len(usable)/k]]
	}

	assignment := make([]int, len(usable))
	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false
		for i, ward := range usable {
			best := nearestMean(centroids[ward], means)
			if assignment[i] != best {
				assignment[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		for c := 0; c < k; c++ {
			var members []string
			for i, ward := range usable {
				if assignment[i] == c {
					members = append(members, ward)
				}
			}
			// An emptied cluster keeps its previous mean.
			if len(members) > 0 {
				means[c] = meanCentroid(members, centroids)
			}
		}
	}

	clusters := make([]models.GeoCluster, 0, k)
	for c := 0; c < k; c++ {
		var members []string
		for i, ward := range usable {
			if assignment[i] == c {
				members = append(members, ward)
			}
		}
		if len(members) == 0 {
			continue
		}
		clusters = append(clusters, models.GeoCluster{
			Index:    len(clusters),
			Wards:    members,
			Centroid: meanCentroid(members, centroids),
		})
	}
	return clusters
}

func nearestMean(p models.Centroid, means []models.Centroid) int {
	best := 0
	bestDist := math.Inf(1)
	for i, m := range means {
		if d := Haversine(p, m); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func meanCentroid(wards []string, centroids map[string]models.Centroid) models.Centroid {
	var lon, lat float64
	for _, ward := range wards {
		c := centroids[ward]
		lon += c.Lon
		lat += c.Lat
	}
	n := float64(len(wards))
	return models.Centroid{Lon: lon / n, Lat: lat / n}
}
