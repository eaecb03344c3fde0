package predictor

import (
	"fmt"
	"strings"

	"github.com/openelect/wardcast/internal/models"
)

// SwingDelta proposes the national-polling adjustment:
//
//	delta[party] = (currentPolling[party] - priorNational[party]) * dampening * swingMultiplier
//
// computed over the union of parties in both national vectors, so a party
// absent from the ward baseline still receives its swing (the entrant proxy
// later corrects for this implicit assignment). Dampening is the single
// global factor from Assumptions unless a calibrated per-party coefficient
// table is supplied, in which case each party's own coefficient is used and
// parties missing from the table fall back to the global factor.
func SwingDelta(refs models.ReferenceResults, a models.Assumptions, cal *models.Calibration) (models.ShareVector, string) {
	delta := make(models.ShareVector)

	union := make(map[string]struct{}, len(refs.NationalPolling)+len(refs.PriorNational))
	for party := range refs.NationalPolling {
		union[party] = struct{}{}
	}
	for party := range refs.PriorNational {
		union[party] = struct{}{}
	}

	calibrated := cal != nil && len(cal.SwingDampening) > 0
	for party := range union {
		dampening := a.NationalToLocalDampening
		if calibrated {
			if c, ok := cal.SwingDampening[party]; ok {
				dampening = c
			}
		}
		swing := refs.NationalPolling[party] - refs.PriorNational[party]
		if swing == 0 {
			continue
		}
		delta[party] = swing * dampening * a.SwingMultiplier
	}

	var moves []string
	for _, party := range delta.Parties() {
		moves = append(moves, fmt.Sprintf("%s %+.1fpp", party, delta[party]*100))
	}
	source := "global dampening"
	if calibrated {
		source = "calibrated per-party dampening"
	}
	detail := fmt.Sprintf("national swing (%s x%.2f, multiplier %.2f): no net movement",
		source, a.NationalToLocalDampening, a.SwingMultiplier)
	if len(moves) > 0 {
		detail = fmt.Sprintf("national swing (%s, multiplier %.2f): %s",
			source, a.SwingMultiplier, strings.Join(moves, ", "))
	}
	return delta, detail
}
