package predictor

import (
	"math"
	"testing"

	"github.com/openelect/wardcast/internal/models"
)

func testInputs(t *testing.T) Inputs {
	t.Helper()
	return Inputs{
		History: models.WardElectionHistory{
			Ward: "Riverside",
			Elections: []models.ElectionRecord{
				election(2023, "local", 0.32, map[string]float64{
					"Labour": 0.45, "Conservative": 0.38, "Green": 0.17,
				}),
			},
		},
		Status:      models.WardStatus{Ward: "Riverside", Contested: true, Defender: "Labour"},
		References:  testRefs(),
		CurrentYear: 2026,
		TargetType:  "local",
	}
}

func TestPredictProducesValidPrediction(t *testing.T) {
	p := Predict(testInputs(t), models.DefaultAssumptions())
	if !p.Valid {
		t.Fatal("expected a valid prediction")
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("prediction invalid: %v", err)
	}
	if !p.Shares.SumsToOne(1e-6) {
		t.Errorf("final shares sum to %f, want 1.0", p.Shares.Sum())
	}
	if p.Winner == "" || p.RunnerUp == "" {
		t.Errorf("winner/runner-up missing: %q / %q", p.Winner, p.RunnerUp)
	}
}

func TestPredictTrailOrder(t *testing.T) {
	p := Predict(testInputs(t), models.DefaultAssumptions())

	wantStages := []string{"baseline", "swing", "demographics", "incumbency", "entrant_proxy", "estimate"}
	if len(p.Trail) != len(wantStages) {
		t.Fatalf("trail has %d entries, want %d: %+v", len(p.Trail), len(wantStages), p.Trail)
	}
	for i, stage := range wantStages {
		if p.Trail[i].Stage != stage {
			t.Errorf("trail[%d].Stage = %s, want %s", i, p.Trail[i].Stage, stage)
		}
		if p.Trail[i].Detail == "" {
			t.Errorf("trail[%d] has empty detail", i)
		}
	}
}

func TestPredictNoHistoryFailsFast(t *testing.T) {
	in := testInputs(t)
	in.History.Elections = nil

	p := Predict(in, models.DefaultAssumptions())
	if p.Valid {
		t.Fatal("expected invalid prediction for empty history")
	}
	if p.Confidence != models.ConfidenceNone {
		t.Errorf("confidence = %s, want none", p.Confidence)
	}
	if len(p.Trail) != 1 || p.Trail[0].Stage != "baseline" {
		t.Errorf("expected single diagnostic trail entry, got %+v", p.Trail)
	}
}

func TestPredictTurnoutClamped(t *testing.T) {
	in := testInputs(t)
	in.History.Elections[0].Turnout = 0.10 // below floor

	a := models.DefaultAssumptions()
	a.TurnoutAdjustment = -0.05
	p := Predict(in, a)
	if p.Turnout != 0.15 {
		t.Errorf("turnout = %f, want clamped to 0.15", p.Turnout)
	}

	in.History.Elections[0].Turnout = 0.80
	a.TurnoutAdjustment = 0.05
	p = Predict(in, a)
	if p.Turnout != 0.65 {
		t.Errorf("turnout = %f, want clamped to 0.65", p.Turnout)
	}
}

func TestPredictVoteArithmetic(t *testing.T) {
	p := Predict(testInputs(t), models.DefaultAssumptions())

	wantTotal := int(math.Round(float64(p.Electorate) * p.Turnout))
	if p.TotalVotes != wantTotal {
		t.Errorf("total votes = %d, want %d", p.TotalVotes, wantTotal)
	}
	for party, votes := range p.Votes {
		want := int(math.Round(p.Shares[party] * float64(p.TotalVotes)))
		if votes != want {
			t.Errorf("votes[%s] = %d, want %d", party, votes, want)
		}
	}
	if p.MajorityVotes != p.Votes[p.Winner]-p.Votes[p.RunnerUp] {
		t.Errorf("majority votes = %d, want winner minus runner-up", p.MajorityVotes)
	}
}

func TestConfidenceTiers(t *testing.T) {
	cases := []struct {
		majority  float64
		staleness int
		want      models.Confidence
	}{
		{0.15, 3, models.ConfidenceHigh},
		{0.08, 3, models.ConfidenceMedium},
		{0.02, 3, models.ConfidenceLow},
		{0.15, 11, models.ConfidenceMedium}, // staleness caps high at medium
		{0.02, 11, models.ConfidenceLow},    // cap never upgrades
	}
	for _, c := range cases {
		got := confidenceTier("Labour", c.majority, c.staleness, nil)
		if got != c.want {
			t.Errorf("confidenceTier(majority=%.2f, staleness=%d) = %s, want %s",
				c.majority, c.staleness, got, c.want)
		}
	}
}

func TestConfidenceUsesCalibratedMAE(t *testing.T) {
	cal := &models.Calibration{MeanAbsoluteError: map[string]float64{"Labour": 0.03}}
	// Tiny margin, but the calibrated error for the winner is small.
	got := confidenceTier("Labour", 0.01, 3, cal)
	if got != models.ConfidenceHigh {
		t.Errorf("calibrated confidence = %s, want high", got)
	}
	// Party missing from the table falls back to the margin rule.
	got = confidenceTier("Green", 0.01, 3, cal)
	if got != models.ConfidenceLow {
		t.Errorf("fallback confidence = %s, want low", got)
	}
}

func TestPredictAssumptionsAreNotMutated(t *testing.T) {
	a := models.Assumptions{
		NationalToLocalDampening: 5.0, // out of range; clamped internally
		SwingMultiplier:          1.0,
		EntrantParty:             "Reform UK",
		EntrantProxyWeights:      models.ProxyWeights{Primary: 1},
		EntrantStandsInAllWards:  true,
	}
	_ = Predict(testInputs(t), a)
	if a.NationalToLocalDampening != 5.0 {
		t.Error("caller's Assumptions value must not be mutated")
	}
}

func TestPredictDeterministic(t *testing.T) {
	a := models.DefaultAssumptions()
	p1 := Predict(testInputs(t), a)
	p2 := Predict(testInputs(t), a)
	if p1.Winner != p2.Winner || p1.MajorityVotes != p2.MajorityVotes {
		t.Errorf("identical inputs produced different predictions: %+v vs %+v", p1, p2)
	}
	for party, share := range p1.Shares {
		if p2.Shares[party] != share {
			t.Errorf("share mismatch for %s: %f vs %f", party, share, p2.Shares[party])
		}
	}
}
