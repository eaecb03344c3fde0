package strategy

import (
	"fmt"
	"math"
	"sort"

	"github.com/openelect/wardcast/internal/models"
)

// Composite score weights. The four factors are each in [0,1]; the score is
// their weighted sum rounded and clamped to [0,100].
const (
	winProbWeight    = 40
	efficiencyWeight = 25
	turnoutOppWeight = 20
	defendingWeight  = 15
)

// Logistic steepness for win probability: a one-point additional swing
// requirement costs roughly 4x in odds.
const winProbSteepness = 15

// Electorate above which canvassing efficiency bottoms out.
const efficiencyCeiling = 15000

// WinProbability maps swing-required onto a win probability through a
// logistic curve: 1 / (1 + e^(swing*15)). Zero swing is an even chance;
// small additional swing requirements sharply lower the probability.
func WinProbability(swingRequired float64) float64 {
	return 1 / (1 + math.Exp(swingRequired*winProbSteepness))
}

// Efficiency rewards small electorates, where a fixed canvassing effort
// reaches a larger fraction of voters: max(0, 1 - electorate/15000).
func Efficiency(electorate int) float64 {
	return math.Max(0, 1-float64(electorate)/efficiencyCeiling)
}

// TurnoutOpportunity rewards low-turnout wards, where mobilisation has the
// most headroom: max(0, 1 - turnout).
func TurnoutOpportunity(turnout float64) float64 {
	return math.Max(0, 1-turnout)
}

// CompositeScore blends the four factors into the 0-100 priority score.
func CompositeScore(winProb, efficiency, turnoutOpp float64, defending bool) int {
	defendingBonus := 0.0
	if defending {
		defendingBonus = 1.0
	}
	raw := winProbWeight*winProb + efficiencyWeight*efficiency + turnoutOppWeight*turnoutOpp + defendingWeight*defendingBonus
	score := int(math.Round(raw))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// WardFacts carries the per-ward context the ranker needs beyond the
// prediction itself.
type WardFacts struct {
	Status       models.WardStatus
	Demographics *models.DemographicProfile
	Deprivation  *models.DeprivationProfile
}

// RankBattlegrounds scores every valid prediction for ourParty and returns
// them sorted by composite score descending, ties broken by ward name
// ascending for determinism. Invalid predictions are excluded.
func RankBattlegrounds(predictions map[string]models.WardPrediction, facts map[string]WardFacts, ourParty string) []models.RankedWard {
	ranked := make([]models.RankedWard, 0, len(predictions))

	for ward, p := range predictions {
		if !p.Valid {
			continue
		}
		f := facts[ward]
		classification, margin := Classify(p, ourParty, f.Status.Defender)
		swing := SwingRequired(p, ourParty)
		winProb := WinProbability(swing)
		defending := f.Status.Defender == ourParty

		rw := models.RankedWard{
			Prediction:     p,
			Classification: classification,
			Margin:         margin,
			SwingRequired:  swing,
			WinProbability: winProb,
			Defending:      defending,
			Score:          CompositeScore(winProb, Efficiency(p.Electorate), TurnoutOpportunity(p.Turnout), defending),
		}
		rw.TalkingPoints = TalkingPoints(rw, f)
		ranked = append(ranked, rw)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Prediction.Ward < ranked[j].Prediction.Ward
	})
	return ranked
}

// Talking-point thresholds. These mirror the rule-based demographic stage so
// canvassers are prompted on the same features the model adjusted for.
const (
	tpOver65Threshold  = 0.25
	tpDeprivedDecile   = 2
	tpLowTurnout       = 0.30
	tpTightMargin      = 0.05
	tpDiverseThreshold = 0.20
)

// TalkingPoints generates rule-based canvassing prompts for a ward from its
// demographic, deprivation, turnout and competition picture.
func TalkingPoints(rw models.RankedWard, f WardFacts) []models.TalkingPoint {
	var points []models.TalkingPoint
	p := rw.Prediction

	if math.Abs(rw.Margin) < tpTightMargin {
		points = append(points, models.TalkingPoint{
			Category: "competition",
			Icon:     "target",
			Priority: "high",
			Text:     fmt.Sprintf("Knife-edge contest: %.1fpp between %s and %s. Every conversation counts.", math.Abs(rw.Margin)*100, p.Winner, p.RunnerUp),
		})
	}
	if p.Turnout < tpLowTurnout {
		points = append(points, models.TalkingPoint{
			Category: "turnout",
			Icon:     "ballot",
			Priority: "high",
			Text:     fmt.Sprintf("Turnout projected at just %.0f%%. Getting pledged voters out decides this ward.", p.Turnout*100),
		})
	}
	if f.Demographics != nil {
		if over65 := f.Demographics.BandFraction(f.Demographics.AgeBands, "age_65_plus"); over65 > tpOver65Threshold {
			points = append(points, models.TalkingPoint{
				Category: "demographics",
				Icon:     "people",
				Priority: "medium",
				Text:     fmt.Sprintf("%.0f%% of residents are over 65. Lead with social care, buses and pension-age services.", over65*100),
			})
		}
		if diverse := nonWhiteShare(f.Demographics); diverse > tpDiverseThreshold {
			points = append(points, models.TalkingPoint{
				Category: "demographics",
				Icon:     "people",
				Priority: "medium",
				Text:     fmt.Sprintf("Diverse ward (%.0f%% non-white residents). Community-group outreach outperforms doorstep-only canvassing here.", diverse*100),
			})
		}
	}
	if f.Deprivation != nil && f.Deprivation.Decile <= tpDeprivedDecile {
		points = append(points, models.TalkingPoint{
			Category: "deprivation",
			Icon:     "house",
			Priority: "medium",
			Text:     fmt.Sprintf("Deprivation decile %d. Cost of living, housing quality and local services are the doorstep issues.", f.Deprivation.Decile),
		})
	}
	return points
}

func nonWhiteShare(demo *models.DemographicProfile) float64 {
	if demo.Population <= 0 {
		return 0
	}
	var count int
	for band, n := range demo.EthnicityBands {
		if len(band) >= 5 && (band[:5] == "white" || band[:5] == "White") {
			continue
		}
		count += n
	}
	return float64(count) / float64(demo.Population)
}
