package strategy

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/openelect/wardcast/internal/models"
)

// Scenario snapshots are taken every this many wards along the ladder.
const scenarioStride = 3

// BuildPath models ourParty's path to a council majority.
//
// The scenario ladder starts from the party's seats not up for contest and
// walks the ranked contested wards in descending win probability. A seat is
// added (and the cumulative probability multiplied by the ward's win
// probability) whenever the predicted winner is ourParty or swing-required
// is <= 0. A snapshot is taken every third ward, at the end of the walk, and
// the instant the majority threshold is first reached, at which point the
// walk stops.
//
// Vulnerable seats are defended-but-losing wards, ascending by win
// probability (the most endangered first). Top targets are non-defended,
// non-write-off wards in rank order.
func BuildPath(ranked []models.RankedWard, ourParty string, totalSeats, currentSeats, seatsNotUp int) models.PathToControl {
	threshold := totalSeats/2 + 1
	seatsNeeded := threshold - currentSeats
	if seatsNeeded < 0 {
		seatsNeeded = 0
	}

	path := models.PathToControl{
		Party:             ourParty,
		TotalSeats:        totalSeats,
		MajorityThreshold: threshold,
		CurrentSeats:      currentSeats,
		SeatsNeeded:       seatsNeeded,
		Scenarios:         []models.Scenario{},
		VulnerableSeats:   []models.RankedWard{},
		TopTargets:        []models.RankedWard{},
	}

	byProbability := make([]models.RankedWard, len(ranked))
	copy(byProbability, ranked)
	sort.Slice(byProbability, func(i, j int) bool {
		if byProbability[i].WinProbability != byProbability[j].WinProbability {
			return byProbability[i].WinProbability > byProbability[j].WinProbability
		}
		return byProbability[i].Prediction.Ward < byProbability[j].Prediction.Ward
	})

	seats := seatsNotUp
	cumulative := 1.0
	for i, rw := range byProbability {
		if rw.Prediction.Winner == ourParty || rw.SwingRequired <= 0 {
			seats++
			cumulative *= rw.WinProbability
		}

		reached := seats >= threshold
		atStride := (i+1)%scenarioStride == 0
		atEnd := i == len(byProbability)-1
		if reached || atStride || atEnd {
			path.Scenarios = append(path.Scenarios, models.Scenario{
				ID:                    uuid.New().String(),
				WardsConsidered:       i + 1,
				Seats:                 seats,
				CumulativeProbability: cumulative,
				MajorityReached:       reached,
				Description:           scenarioDescription(i+1, seats, threshold, reached),
			})
		}
		if reached {
			break
		}
	}

	for _, rw := range byProbability {
		if rw.Defending && rw.Prediction.Winner != ourParty {
			path.VulnerableSeats = append(path.VulnerableSeats, rw)
		}
	}
	sort.Slice(path.VulnerableSeats, func(i, j int) bool {
		if path.VulnerableSeats[i].WinProbability != path.VulnerableSeats[j].WinProbability {
			return path.VulnerableSeats[i].WinProbability < path.VulnerableSeats[j].WinProbability
		}
		return path.VulnerableSeats[i].Prediction.Ward < path.VulnerableSeats[j].Prediction.Ward
	})

	for _, rw := range ranked {
		if !rw.Defending && rw.Classification != models.ClassWriteOff {
			path.TopTargets = append(path.TopTargets, rw)
		}
	}

	return path
}

func scenarioDescription(wards, seats, threshold int, reached bool) string {
	if reached {
		return fmt.Sprintf("majority reached after best %d wards: %d seats (threshold %d)", wards, seats, threshold)
	}
	return fmt.Sprintf("after best %d wards: %d seats, %d short of majority", wards, seats, threshold-seats)
}
