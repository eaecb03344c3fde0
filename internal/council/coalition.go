package council

import (
	"sort"

	"github.com/openelect/wardcast/internal/models"
)

// MajorityThreshold returns the minimum seats for outright control:
// floor(totalSeats/2) + 1.
func MajorityThreshold(totalSeats int) int {
	return totalSeats/2 + 1
}

// FindCoalitions enumerates viable governing combinations from seat totals.
// Single parties at or above the threshold are flagged as outright
// majorities; every 2-party sum is checked next, and 3-party sums only when
// neither singles nor pairs produce a solution. Plain enumeration suffices:
// party cardinality is in single digits.
//
// Results are sorted by total seats descending, then by first party name for
// determinism. An empty (non-nil) slice means no viable combination exists.
func FindCoalitions(totals models.SeatTotals) []models.Coalition {
	threshold := MajorityThreshold(totals.Total())
	parties := totals.Parties()

	coalitions := []models.Coalition{}

	for _, p := range parties {
		if totals[p] >= threshold {
			coalitions = append(coalitions, models.Coalition{
				Parties: []string{p},
				Seats:   totals[p],
				Margin:  totals[p] - threshold,
				Kind:    models.SinglePartyMajority,
			})
		}
	}

	for i := 0; i < len(parties); i++ {
		for j := i + 1; j < len(parties); j++ {
			seats := totals[parties[i]] + totals[parties[j]]
			if seats >= threshold {
				coalitions = append(coalitions, models.Coalition{
					Parties: []string{parties[i], parties[j]},
					Seats:   seats,
					Margin:  seats - threshold,
					Kind:    models.MultiPartyCoalition,
				})
			}
		}
	}

	if len(coalitions) == 0 {
		for i := 0; i < len(parties); i++ {
			for j := i + 1; j < len(parties); j++ {
				for k := j + 1; k < len(parties); k++ {
					seats := totals[parties[i]] + totals[parties[j]] + totals[parties[k]]
					if seats >= threshold {
						coalitions = append(coalitions, models.Coalition{
							Parties: []string{parties[i], parties[j], parties[k]},
							Seats:   seats,
							Margin:  seats - threshold,
							Kind:    models.MultiPartyCoalition,
						})
					}
				}
			}
		}
	}

	sort.Slice(coalitions, func(i, j int) bool {
		if coalitions[i].Seats != coalitions[j].Seats {
			return coalitions[i].Seats > coalitions[j].Seats
		}
		return coalitions[i].Parties[0] < coalitions[j].Parties[0]
	})
	return coalitions
}
