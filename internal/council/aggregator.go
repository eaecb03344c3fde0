// Package council rolls per-ward forecasts into council-level seat totals and
// searches for viable governing coalitions.
package council

import (
	"sort"

	"github.com/openelect/wardcast/internal/logger"
	"github.com/openelect/wardcast/internal/models"
	"github.com/openelect/wardcast/internal/predictor"
)

// SkippedWard records a ward excluded from aggregation and why. Skips are
// per-ward degradations, never batch failures.
type SkippedWard struct {
	Ward   string `json:"ward"`
	Reason string `json:"reason"`
}

// Result is the council-level outcome of one aggregation run.
type Result struct {
	Predictions map[string]models.WardPrediction `json:"predictions"`
	Totals      models.SeatTotals                `json:"totals"`
	Skipped     []SkippedWard                    `json:"skipped"`
}

// Aggregate runs the ward predictor over every contested ward and credits
// seats: the predicted winner takes the contested seat, retained seats (seats
// not up this cycle, and all seats of uncontested wards) are credited to
// their current holders directly. Wards are processed in sorted key order so
// identical inputs always produce identical output.
//
// A contested ward whose prediction comes back invalid (no history) is
// skipped and listed in Skipped; its seat is not credited to anyone.
func Aggregate(inputs map[string]predictor.Inputs, a models.Assumptions) Result {
	result := Result{
		Predictions: make(map[string]models.WardPrediction, len(inputs)),
		Totals:      make(models.SeatTotals),
	}

	wards := make([]string, 0, len(inputs))
	for ward := range inputs {
		wards = append(wards, ward)
	}
	sort.Strings(wards)

	for _, ward := range wards {
		in := inputs[ward]

		for party, seats := range in.Status.RetainedSeats {
			result.Totals[party] += seats
		}

		if !in.Status.Contested {
			continue
		}

		prediction := predictor.Predict(in, a)
		result.Predictions[ward] = prediction
		if !prediction.Valid {
			result.Skipped = append(result.Skipped, SkippedWard{
				Ward:   ward,
				Reason: "no election history",
			})
			logger.Warn("Aggregate: ward %s skipped (no election history)", ward)
			continue
		}
		result.Totals[prediction.Winner]++
	}

	logger.Info("Aggregate: %d wards processed, %d predicted, %d skipped, %d seats credited",
		len(wards), len(result.Predictions), len(result.Skipped), result.Totals.Total())
	return result
}

// ApplyOverrides recomputes seat totals with manual per-ward winner
// overrides: the original predicted winner loses the seat (the entry is
// deleted if it drops to zero) and the override party gains it. Overrides
// for unknown or invalid wards are ignored. The input totals are not mutated.
func ApplyOverrides(totals models.SeatTotals, predictions map[string]models.WardPrediction, overrides map[string]string) models.SeatTotals {
	out := totals.Clone()

	wards := make([]string, 0, len(overrides))
	for ward := range overrides {
		wards = append(wards, ward)
	}
	sort.Strings(wards)

	for _, ward := range wards {
		override := overrides[ward]
		prediction, ok := predictions[ward]
		if !ok || !prediction.Valid {
			logger.Warn("ApplyOverrides: no valid prediction for ward %s, override ignored", ward)
			continue
		}
		if override == prediction.Winner {
			continue
		}
		out[prediction.Winner]--
		if out[prediction.Winner] <= 0 {
			delete(out, prediction.Winner)
		}
		out[override]++
	}
	return out
}
