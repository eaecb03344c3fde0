// Package export writes the delimited-text files downstream tooling consumes.
// Column orders are fixed compatibility contracts: reordering or renaming a
// header breaks the importers on the other side. Quoting follows RFC 4180
// (fields containing the separator are quoted, embedded quotes doubled).
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/openelect/wardcast/internal/models"
)

// AllocationHeader is the fixed ordered column list of the resource
// allocation export.
var AllocationHeader = []string{
	"Ward", "Classification", "Score", "Win Probability", "Hours",
	"% of Budget", "Est. Incremental Votes", "Cost per Vote", "ROI",
}

// WriteAllocations writes the resource allocation export.
func WriteAllocations(w io.Writer, allocations []models.ResourceAllocation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(AllocationHeader); err != nil {
		return fmt.Errorf("failed to write allocation header: %w", err)
	}
	for _, a := range allocations {
		record := []string{
			a.Ward,
			string(a.Classification),
			fmt.Sprintf("%d", a.Score),
			fmt.Sprintf("%.3f", a.WinProbability),
			fmt.Sprintf("%.1f", a.Hours),
			fmt.Sprintf("%.1f", a.PercentOfBudget),
			fmt.Sprintf("%.1f", a.IncrementalVotes),
			fmt.Sprintf("%.2f", a.CostPerVote),
			string(a.ROI),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write allocation row for %s: %w", a.Ward, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CanvassHeader is the fixed ordered column list of the canvassing export.
var CanvassHeader = []string{
	"Session", "Visit Order", "Ward", "Latitude", "Longitude", "Hours", "ROI",
	"Estimated 4hr Blocks",
}

// WriteCanvassPlan writes the canvassing route export, one row per visit.
func WriteCanvassPlan(w io.Writer, sessions []models.CanvassSession) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CanvassHeader); err != nil {
		return fmt.Errorf("failed to write canvass header: %w", err)
	}
	for _, session := range sessions {
		for _, stop := range session.Stops {
			record := []string{
				fmt.Sprintf("%d", session.Number),
				fmt.Sprintf("%d", stop.VisitOrder),
				stop.Ward,
				fmt.Sprintf("%.6f", stop.Centroid.Lat),
				fmt.Sprintf("%.6f", stop.Centroid.Lon),
				fmt.Sprintf("%.1f", stop.Hours),
				string(stop.ROI),
				fmt.Sprintf("%d", session.EstimatedBlocks),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write canvass row for %s: %w", stop.Ward, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
