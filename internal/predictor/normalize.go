package predictor

import (
	"fmt"
	"math"

	"github.com/openelect/wardcast/internal/models"
)

// Turnout bounds. Local elections rarely fall outside this band; the
// user-tunable adjustment cannot push the estimate past it.
const (
	turnoutFloor = 0.15
	turnoutCeil  = 0.65
)

// Majority-fraction thresholds for the confidence tiers, used when no
// calibrated error table is available for the winning party.
const (
	confidenceHighMargin   = 0.10
	confidenceMediumMargin = 0.05
)

// Calibrated mean-absolute-error thresholds, used instead of the margin rule
// when the winning party has an entry in the calibration table.
const (
	confidenceHighMAE   = 0.05
	confidenceMediumMAE = 0.10
)

// Finalize clamps and renormalizes the running shares, estimates turnout and
// votes, and assigns winner, runner-up, majority and confidence.
//
// turnout = clamp(baselineTurnout + turnoutAdjustment, [0.15, 0.65])
// totalVotes = round(electorate * turnout); per-party votes = round(share * total).
//
// Confidence is high/medium/low from the majority fraction (or from the
// calibrated MAE when available for the winner), capped at medium whenever
// the baseline is more than 10 years stale regardless of margin.
func Finalize(ward string, running models.ShareVector, b models.Baseline, a models.Assumptions, cal *models.Calibration, trail []models.TrailEntry) models.WardPrediction {
	shares := running.Normalize()

	turnout := clampFloat(b.Turnout+a.TurnoutAdjustment, turnoutFloor, turnoutCeil)
	totalVotes := int(math.Round(float64(b.Electorate) * turnout))

	votes := make(map[string]int, len(shares))
	for party, share := range shares {
		votes[party] = int(math.Round(share * float64(totalVotes)))
	}

	winner, runnerUp := votesLeaders(votes)
	majorityVotes := 0
	majorityFraction := 0.0
	if winner != "" && runnerUp != "" {
		majorityVotes = votes[winner] - votes[runnerUp]
		majorityFraction = shares[winner] - shares[runnerUp]
	}

	confidence := confidenceTier(winner, majorityFraction, b.Staleness, cal)

	trail = append(trail, models.TrailEntry{
		Stage: "estimate",
		Detail: fmt.Sprintf("turnout %.0f%% of %d electors = %d votes; %s leads %s by %d votes (%.1fpp); confidence %s",
			turnout*100, b.Electorate, totalVotes, winner, runnerUp, majorityVotes, majorityFraction*100, confidence),
	})

	return models.WardPrediction{
		Ward:             ward,
		Valid:            true,
		Winner:           winner,
		RunnerUp:         runnerUp,
		MajorityVotes:    majorityVotes,
		MajorityFraction: majorityFraction,
		Shares:           shares,
		Votes:            votes,
		Turnout:          turnout,
		TotalVotes:       totalVotes,
		Electorate:       b.Electorate,
		Staleness:        b.Staleness,
		Confidence:       confidence,
		Trail:            trail,
	}
}

// votesLeaders returns the two parties with the most votes, ties broken
// lexicographically ascending for determinism.
func votesLeaders(votes map[string]int) (winner, runnerUp string) {
	shares := make(models.ShareVector, len(votes))
	for party, v := range votes {
		shares[party] = float64(v)
	}
	return shares.Leaders()
}

// confidenceTier applies the margin (or calibrated MAE) rule, then the
// staleness cap.
func confidenceTier(winner string, majorityFraction float64, staleness int, cal *models.Calibration) models.Confidence {
	tier := models.ConfidenceLow
	if cal != nil {
		if mae, ok := cal.MeanAbsoluteError[winner]; ok {
			switch {
			case mae < confidenceHighMAE:
				tier = models.ConfidenceHigh
			case mae < confidenceMediumMAE:
				tier = models.ConfidenceMedium
			}
			return capStale(tier, staleness)
		}
	}
	switch {
	case majorityFraction > confidenceHighMargin:
		tier = models.ConfidenceHigh
	case majorityFraction > confidenceMediumMargin:
		tier = models.ConfidenceMedium
	}
	return capStale(tier, staleness)
}

func capStale(tier models.Confidence, staleness int) models.Confidence {
	if staleness > incumbencyStaleYears && tier == models.ConfidenceHigh {
		return models.ConfidenceMedium
	}
	return tier
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
