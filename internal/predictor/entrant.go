package predictor

import (
	"fmt"

	"github.com/openelect/wardcast/internal/models"
)

// Dampening applied to the recent comparable local election when it serves as
// a proxy scope. Local-to-local evidence transfers with less loss than
// national polling, which uses the configured national-to-local factor.
const localProxyDampening = 0.9

// EntrantProxy estimates a share for a party absent from the ward baseline
// and folds it into the running vector.
//
// The estimate blends the entrant's result at two reference scopes, each
// independently dampened, then moves it by the same swing logic the swing
// stage applies. Whatever share the swing stage already implicitly assigned
// to the entrant is subtracted first so the proxy adds only the remainder.
// That remainder is deducted from every other party in proportion to its
// current post-adjustment share, not its original baseline.
//
// The stage is a no-op (with a trail entry saying so) when the
// stands-in-all-wards toggle is off, when no entrant party is configured, or
// when the entrant already has real evidence in the ward baseline.
func EntrantProxy(running, baseline models.ShareVector, refs models.ReferenceResults, a models.Assumptions, cal *models.Calibration) (models.ShareVector, string) {
	if !a.EntrantStandsInAllWards {
		return running, "entrant proxy: entrant not assumed to stand in all wards, skipped"
	}
	entrant := a.EntrantParty
	if entrant == "" {
		return running, "entrant proxy: no entrant party configured, skipped"
	}
	if _, ok := baseline[entrant]; ok {
		return running, fmt.Sprintf("entrant proxy: %s has a ward baseline, skipped", entrant)
	}

	weights := a.EntrantProxyWeights
	weightSum := weights.Primary + weights.Secondary
	if weightSum <= 0 {
		return running, "entrant proxy: proxy weights sum to zero, skipped"
	}

	primary := refs.NationalPolling[entrant] * a.NationalToLocalDampening
	secondary := refs.RecentLocal[entrant] * localProxyDampening
	estimate := (weights.Primary*primary + weights.Secondary*secondary) / weightSum

	swingDelta, _ := SwingDelta(refs, a, cal)
	target := estimate + swingDelta[entrant]
	if target <= 0 {
		return running, fmt.Sprintf("entrant proxy: no reference evidence for %s, skipped", entrant)
	}

	// The swing stage already pushed the entrant to running[entrant]; only the
	// remainder up to the proxy target is new share.
	remainder := target - running[entrant]
	if remainder <= 0 {
		return running, fmt.Sprintf("entrant proxy: swing already assigns %s %.1fpp >= proxy %.1fpp, skipped",
			entrant, running[entrant]*100, target*100)
	}

	out := running.Clone()
	var othersSum float64
	for party, share := range out {
		if party == entrant || share <= 0 {
			continue
		}
		othersSum += share
	}
	if othersSum > 0 {
		for party, share := range out {
			if party == entrant || share <= 0 {
				continue
			}
			out[party] = share - remainder*(share/othersSum)
		}
	}
	out[entrant] = running[entrant] + remainder

	return out, fmt.Sprintf("entrant proxy: %s estimated at %.1fpp (polling %.1fpp x%.2f, local %.1fpp x%.2f), %+.1fpp added and deducted pro rata",
		entrant, target*100,
		refs.NationalPolling[entrant]*100, a.NationalToLocalDampening,
		refs.RecentLocal[entrant]*100, localProxyDampening,
		remainder*100)
}
