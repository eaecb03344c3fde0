package strategy

import (
	"testing"

	"github.com/openelect/wardcast/internal/models"
)

func pathWard(name string, winner string, ourParty string, winProb float64, defending bool, class models.Classification) models.RankedWard {
	swing := 0.05
	if winner == ourParty {
		swing = -0.05
	}
	return models.RankedWard{
		Prediction: models.WardPrediction{
			Ward: name, Valid: true, Winner: winner, RunnerUp: "Other",
		},
		Classification: class,
		SwingRequired:  swing,
		WinProbability: winProb,
		Defending:      defending,
	}
}

func TestBuildPathSeatsNeeded(t *testing.T) {
	path := BuildPath(nil, "Labour", 45, 10, 10)
	if path.MajorityThreshold != 23 {
		t.Errorf("threshold = %d, want 23", path.MajorityThreshold)
	}
	if path.SeatsNeeded != 13 {
		t.Errorf("seats needed = %d, want 13", path.SeatsNeeded)
	}

	// Already past the threshold.
	path = BuildPath(nil, "Labour", 45, 30, 30)
	if path.SeatsNeeded != 0 {
		t.Errorf("seats needed = %d, want 0 when already in control", path.SeatsNeeded)
	}
}

func TestBuildPathScenarioLadder(t *testing.T) {
	ranked := []models.RankedWard{
		pathWard("A", "Labour", "Labour", 0.9, false, models.ClassTarget),
		pathWard("B", "Labour", "Labour", 0.8, false, models.ClassTarget),
		pathWard("C", "Labour", "Labour", 0.7, false, models.ClassBattleground),
		pathWard("D", "Other", "Labour", 0.2, false, models.ClassStretch),
		pathWard("E", "Labour", "Labour", 0.6, false, models.ClassBattleground),
	}

	// Threshold 4 (6 seats), 2 seats not up: needs 2 wins from the ladder.
	path := BuildPath(ranked, "Labour", 6, 2, 2)

	if len(path.Scenarios) == 0 {
		t.Fatal("expected at least one scenario")
	}
	last := path.Scenarios[len(path.Scenarios)-1]
	if !last.MajorityReached {
		t.Errorf("final scenario should reach majority: %+v", last)
	}
	// Walk stops at the first reach: A and B already give 4 seats.
	if last.WardsConsidered != 2 {
		t.Errorf("wards considered = %d, want 2 (walk stops at first reach)", last.WardsConsidered)
	}
	if last.Seats != 4 {
		t.Errorf("seats = %d, want 4", last.Seats)
	}
	// Cumulative probability multiplies only the won wards: 0.9 * 0.8.
	if diff := last.CumulativeProbability - 0.72; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("cumulative probability = %f, want 0.72", last.CumulativeProbability)
	}
	for _, s := range path.Scenarios {
		if s.ID == "" {
			t.Error("scenario missing ID")
		}
		if s.Description == "" {
			t.Error("scenario missing description")
		}
	}
}

func TestBuildPathSnapshotStride(t *testing.T) {
	// Majority unreachable: snapshots at every third ward and the end.
	ranked := []models.RankedWard{
		pathWard("A", "Other", "Labour", 0.1, false, models.ClassStretch),
		pathWard("B", "Other", "Labour", 0.1, false, models.ClassStretch),
		pathWard("C", "Other", "Labour", 0.1, false, models.ClassStretch),
		pathWard("D", "Other", "Labour", 0.1, false, models.ClassStretch),
	}
	path := BuildPath(ranked, "Labour", 45, 0, 0)
	if len(path.Scenarios) != 2 {
		t.Fatalf("scenarios = %d, want 2 (after ward 3 and at the end)", len(path.Scenarios))
	}
	if path.Scenarios[0].WardsConsidered != 3 || path.Scenarios[1].WardsConsidered != 4 {
		t.Errorf("snapshot points = %d, %d, want 3, 4",
			path.Scenarios[0].WardsConsidered, path.Scenarios[1].WardsConsidered)
	}
	if path.Scenarios[1].MajorityReached {
		t.Error("majority must not be reached with zero wins")
	}
}

func TestBuildPathVulnerableAndTargets(t *testing.T) {
	ranked := []models.RankedWard{
		pathWard("Gain", "Other", "Labour", 0.45, false, models.ClassTarget),
		pathWard("Slipping", "Other", "Labour", 0.35, true, models.ClassBattleground),
		pathWard("Doomed", "Other", "Labour", 0.05, true, models.ClassWriteOff),
		pathWard("Held", "Labour", "Labour", 0.9, true, models.ClassSafe),
		pathWard("NoHope", "Other", "Labour", 0.02, false, models.ClassWriteOff),
	}

	path := BuildPath(ranked, "Labour", 45, 10, 10)

	// Vulnerable: defending but not winning, most endangered first.
	if len(path.VulnerableSeats) != 2 {
		t.Fatalf("vulnerable = %d, want 2", len(path.VulnerableSeats))
	}
	if path.VulnerableSeats[0].Prediction.Ward != "Doomed" || path.VulnerableSeats[1].Prediction.Ward != "Slipping" {
		t.Errorf("vulnerable order = %s, %s, want Doomed, Slipping",
			path.VulnerableSeats[0].Prediction.Ward, path.VulnerableSeats[1].Prediction.Ward)
	}

	// Targets: not defending, not write-off, in rank order.
	if len(path.TopTargets) != 1 || path.TopTargets[0].Prediction.Ward != "Gain" {
		t.Errorf("top targets = %+v, want only Gain", path.TopTargets)
	}
}
