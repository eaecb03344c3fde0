package predictor

import (
	"fmt"

	"github.com/openelect/wardcast/internal/logger"
	"github.com/openelect/wardcast/internal/models"
)

// Inputs gathers everything the pipeline needs for one ward. History is
// required; everything else degrades gracefully when absent.
type Inputs struct {
	History      models.WardElectionHistory
	Status       models.WardStatus
	Demographics *models.DemographicProfile
	Deprivation  *models.DeprivationProfile
	References   models.ReferenceResults
	Calibration  *models.Calibration // optional; switches to calibrated stages
	Fresh        models.ShareVector  // optional fresher constituency result
	CurrentYear  int
	TargetType   string // election type to match for the baseline
}

// Predict runs the full pipeline for one ward: baseline extraction, the four
// additive adjustment stages in order, then normalization and vote
// estimation. The returned prediction carries a methodology trail with one
// entry per stage.
//
// A ward with no usable history returns an invalid prediction (Valid=false,
// confidence "none") with a diagnostic trail entry; no stage runs.
func Predict(in Inputs, a models.Assumptions) models.WardPrediction {
	a = a.Clamped()

	baseline, ok := ExtractBaseline(in.History, in.TargetType, in.CurrentYear, in.Fresh)
	if !ok {
		logger.Debug("Predict: ward %s has no election history, skipping", in.History.Ward)
		return models.WardPrediction{
			Ward:       in.History.Ward,
			Valid:      false,
			Confidence: models.ConfidenceNone,
			Trail: []models.TrailEntry{{
				Stage:  "baseline",
				Detail: "no election history available; prediction not attempted",
			}},
		}
	}

	blended := baseline.Staleness > blendStalenessYears && len(in.Fresh) > 0
	trail := []models.TrailEntry{{Stage: "baseline", Detail: baselineTrail(baseline, blended)}}

	running := baseline.Shares.Clone()

	// Stage order is load-bearing: the entrant proxy must observe the
	// post-swing vector to avoid double counting.
	swingDelta, detail := SwingDelta(in.References, a, in.Calibration)
	applyDelta(running, swingDelta)
	trail = append(trail, models.TrailEntry{Stage: "swing", Detail: detail})

	adjuster := SelectAdjuster(in.Calibration)
	demoDelta, detail := adjuster.Adjust(in.Demographics, in.Deprivation)
	applyDelta(running, demoDelta)
	trail = append(trail, models.TrailEntry{Stage: "demographics", Detail: detail})

	incDelta, detail := IncumbencyDelta(in.Status, baseline.Staleness, a)
	applyDelta(running, incDelta)
	trail = append(trail, models.TrailEntry{Stage: "incumbency", Detail: detail})

	running, detail = EntrantProxy(running, baseline.Shares, in.References, a, in.Calibration)
	trail = append(trail, models.TrailEntry{Stage: "entrant_proxy", Detail: detail})

	prediction := Finalize(in.History.Ward, running, baseline, a, in.Calibration, trail)
	if err := prediction.Validate(); err != nil {
		// Degenerate inputs (e.g. all shares zero) can fail the share-sum
		// check; the prediction is still returned, downgraded to low.
		logger.Warn("Predict: ward %s produced a degenerate prediction: %v", in.History.Ward, err)
		prediction.Confidence = models.ConfidenceLow
	}
	return prediction
}

// applyDelta accumulates an additive stage delta onto the running vector.
// Deltas may introduce parties absent from the baseline; no renormalization
// happens between stages.
func applyDelta(running, delta models.ShareVector) {
	for party, d := range delta {
		running[party] += d
	}
}

// Describe renders a one-line summary of a prediction for logs.
func Describe(p models.WardPrediction) string {
	if !p.Valid {
		return fmt.Sprintf("%s: no prediction (insufficient history)", p.Ward)
	}
	return fmt.Sprintf("%s: %s by %.1fpp over %s (%s confidence)",
		p.Ward, p.Winner, p.MajorityFraction*100, p.RunnerUp, p.Confidence)
}
