// Package predictor produces calibrated vote-share forecasts for single wards.
//
// A prediction starts from a historical baseline and folds in four additive
// adjustment stages, in load-bearing order, onto one running share vector:
//
//	baseline -> swing -> demographics -> incumbency -> entrant proxy -> normalize
//
// The entrant proxy must see post-swing shares so it can subtract whatever
// share the swing stage already implicitly assigned to the entrant; reordering
// the stages double-counts. No renormalization happens between stages.
//
// Each stage appends one entry to the methodology trail documenting what it
// changed and why, including stages that were skipped.
package predictor

import (
	"fmt"
	"math"

	"github.com/openelect/wardcast/internal/models"
)

// Fresh-baseline blending: beyond this staleness (years) a fresher
// constituency-level result, when available, is blended in.
const (
	blendStalenessYears = 8
	blendDecayPerYear   = 0.05
	blendDecayFloor     = 0.3
)

// ExtractBaseline picks and ages a ward's reference historical result.
//
// The most recent election matching targetType is preferred, falling back to
// the most recent election of any type. When a party fields multiple
// candidates in one election, the maximum share per party is kept.
//
// If the baseline is more than 8 years stale and a fresher constituency-level
// result is supplied, the two are blended over the union of party keys
// (absent = 0) with decay = max(0.3, 1 - (staleness-8)*0.05) on the historical
// side. Parties present locally but absent from the fresh result simply
// receive zero fresh evidence; no mapping between party universes is guessed.
//
// Returns ok=false when the ward has no history at all: the prediction fails
// fast with confidence "none" and nothing downstream runs.
func ExtractBaseline(history models.WardElectionHistory, targetType string, currentYear int, fresh models.ShareVector) (models.Baseline, bool) {
	if len(history.Elections) == 0 {
		return models.Baseline{}, false
	}

	chosen := -1
	for i, e := range history.Elections {
		if e.Type != targetType {
			continue
		}
		if chosen < 0 || e.Date.After(history.Elections[chosen].Date) {
			chosen = i
		}
	}
	if chosen < 0 {
		for i, e := range history.Elections {
			if chosen < 0 || e.Date.After(history.Elections[chosen].Date) {
				chosen = i
			}
		}
	}

	record := history.Elections[chosen]
	staleness := currentYear - record.Date.Year()
	if staleness < 0 {
		staleness = 0
	}

	baseline := models.Baseline{
		Shares:     record.Shares(),
		Date:       record.Date,
		Year:       record.Date.Year(),
		Type:       record.Type,
		Turnout:    record.Turnout,
		Electorate: record.Electorate,
		Staleness:  staleness,
	}

	if staleness > blendStalenessYears && len(fresh) > 0 {
		baseline.Shares = blendWithFresh(baseline.Shares, fresh, staleness)
	}

	return baseline, true
}

// blendWithFresh mixes a stale historical vector with a fresher result over
// the union of party keys, weighting the historical side by the decay factor.
func blendWithFresh(historical, fresh models.ShareVector, staleness int) models.ShareVector {
	decay := math.Max(blendDecayFloor, 1-float64(staleness-blendStalenessYears)*blendDecayPerYear)

	union := make(models.ShareVector, len(historical)+len(fresh))
	for party := range historical {
		union[party] = 0
	}
	for party := range fresh {
		union[party] = 0
	}
	for party := range union {
		union[party] = decay*historical[party] + (1-decay)*fresh[party]
	}
	return union
}

// baselineTrail describes the chosen baseline for the methodology trail.
func baselineTrail(b models.Baseline, blended bool) string {
	detail := fmt.Sprintf("baseline from %d %s election (staleness %dy, turnout %.0f%%)",
		b.Year, b.Type, b.Staleness, b.Turnout*100)
	if blended {
		detail += "; blended with fresher constituency result due to staleness"
	}
	return detail
}
