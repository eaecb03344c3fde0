// Package strategy turns ward forecasts into an actionable campaign plan:
// strategic tiers, battleground priority scores, a majority-seeking scenario
// ladder, and a campaign-hour budget split.
package strategy

import "github.com/openelect/wardcast/internal/models"

// Classification margin thresholds (share-point fractions). Defended wins use
// strictly-greater comparisons; losses use strictly-less, so a 5.0pp loss to
// a non-defended winner is a target, not a battleground.
const (
	safeMargin       = 0.15
	holdMargin       = 0.05
	gainMargin       = 0.05
	knifeEdgeMargin  = 0.02
	targetLossMargin = 0.10
	stretchMargin    = 0.20
	nearLossMargin   = 0.05
)

// Classify derives the strategic tier of a ward for ourParty from the
// predicted winner, the margin, and who defends the seat. The margin returned
// is the winner's lead over the runner-up when we win, and the winner's lead
// over us when we lose.
//
// Decision table (margins in share points):
//
//	defend + win:   >15 safe, >5 hold, else marginal_hold
//	gain   + win:   >5 target, else battleground
//	defend + lose:  <2 battleground, <5 marginal_hold, else target
//	other  + lose:  <2 battleground, <10 target, <20 stretch, else write_off
//
// An absent or invalid prediction classifies as unknown with a zero margin.
func Classify(p models.WardPrediction, ourParty, defender string) (models.Classification, float64) {
	if !p.Valid || p.Winner == "" {
		return models.ClassUnknown, 0
	}

	weDefend := defender == ourParty
	weWin := p.Winner == ourParty

	if weWin {
		margin := p.MajorityFraction
		if weDefend {
			switch {
			case margin > safeMargin:
				return models.ClassSafe, margin
			case margin > holdMargin:
				return models.ClassHold, margin
			default:
				return models.ClassMarginalHold, margin
			}
		}
		if margin > gainMargin {
			return models.ClassTarget, margin
		}
		return models.ClassBattleground, margin
	}

	margin := p.Shares[p.Winner] - p.Shares[ourParty]
	if weDefend {
		switch {
		case margin < knifeEdgeMargin:
			return models.ClassBattleground, margin
		case margin < nearLossMargin:
			return models.ClassMarginalHold, margin
		default:
			return models.ClassTarget, margin
		}
	}
	switch {
	case margin < knifeEdgeMargin:
		return models.ClassBattleground, margin
	case margin < targetLossMargin:
		return models.ClassTarget, margin
	case margin < stretchMargin:
		return models.ClassStretch, margin
	default:
		return models.ClassWriteOff, margin
	}
}

// SwingRequired computes the Butler swing ourParty needs to take the ward.
// If we already win, the result is negative: half our lead over the next
// best party, a safety margin. Otherwise it is half the winner's lead over
// us, the points that must move.
func SwingRequired(p models.WardPrediction, ourParty string) float64 {
	if !p.Valid || p.Winner == "" {
		return 0
	}
	if p.Winner == ourParty {
		next := p.Shares[p.RunnerUp]
		return -(p.Shares[ourParty] - next) / 2
	}
	return (p.Shares[p.Winner] - p.Shares[ourParty]) / 2
}
