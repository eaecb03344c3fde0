package models

import "errors"

// Centroid is a ward's representative point in WGS84 coordinates.
type Centroid struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Validate checks that the coordinates are on the globe.
func (c *Centroid) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if c.Lon < -180 || c.Lon > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// GeoCluster is a proximity group of contested wards produced by the
// clusterer, before route ordering.
type GeoCluster struct {
	Index    int      `json:"index"`
	Wards    []string `json:"wards"`
	Centroid Centroid `json:"centroid"` // arithmetic mean of member centroids
}

// CanvassStop is one ward visit inside a canvass session.
type CanvassStop struct {
	Ward       string   `json:"ward"`
	VisitOrder int      `json:"visit_order"` // 1-based within the session
	Centroid   Centroid `json:"centroid"`
	Hours      float64  `json:"hours"`
	ROI        ROITier  `json:"roi"`
}

// CanvassSession is an ordered sequence of ward visits for one volunteer team.
type CanvassSession struct {
	ID              string        `json:"id"`
	Number          int           `json:"number"` // 1-based session sequence
	Stops           []CanvassStop `json:"stops"`
	Centroid        Centroid      `json:"centroid"`
	TotalHours      float64       `json:"total_hours"`
	EstimatedBlocks int           `json:"estimated_blocks"` // 4-hour canvassing blocks
}

// RouteSegment is one connecting line between consecutive visits, including
// the connector between the last stop of a session and the first of the next.
type RouteSegment struct {
	FromWard string   `json:"from_ward"`
	ToWard   string   `json:"to_ward"`
	From     Centroid `json:"from"`
	To       Centroid `json:"to"`
}
