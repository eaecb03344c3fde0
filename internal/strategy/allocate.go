package strategy

import (
	"math"
	"sort"

	"github.com/openelect/wardcast/internal/logger"
	"github.com/openelect/wardcast/internal/models"
)

// Classification multipliers: where an hour of canvassing can actually move
// the outcome. Safe seats and write-offs get token weight only.
var classificationMultiplier = map[models.Classification]float64{
	models.ClassSafe:         0.1,
	models.ClassHold:         0.4,
	models.ClassMarginalHold: 1.2,
	models.ClassBattleground: 1.5,
	models.ClassTarget:       1.3,
	models.ClassStretch:      0.5,
	models.ClassWriteOff:     0.05,
	models.ClassUnknown:      0.1,
}

// urgencyFactor applies diminishing returns by win probability: near-certain
// wins and near-certain losses both waste hours; the 0.3-0.5 band is where
// effort buys the most.
func urgencyFactor(winProb float64) float64 {
	switch {
	case winProb > 0.7:
		return 0.6
	case winProb > 0.5:
		return 0.8
	case winProb > 0.3:
		return 1.0
	case winProb > 0.1:
		return 0.7
	default:
		return 0.3
	}
}

// Canvassing yield constants: doorstep contacts per volunteer hour, the
// fraction of contacts persuaded, and the notional cost of a volunteer hour
// used for cost-per-vote comparisons.
const (
	contactsPerHour = 6.0
	persuasionRate  = 0.08
	costPerHour     = 15.0
)

// ROI tier thresholds on (win probability band, cost per vote).
const (
	roiCostExcellent = 40.0
	roiCostGood      = 80.0
	roiCostFair      = 150.0
)

func roiTier(winProb, costPerVote float64) models.ROITier {
	switch {
	case winProb >= 0.3 && winProb <= 0.7 && costPerVote < roiCostExcellent:
		return models.ROIExcellent
	case winProb >= 0.1 && winProb <= 0.9 && costPerVote < roiCostGood:
		return models.ROIGood
	case costPerVote < roiCostFair:
		return models.ROIFair
	default:
		return models.ROIPoor
	}
}

// AllocateResources splits budgetHours across the ranked wards.
//
// Each ward's raw weight is score x classification multiplier x urgency
// factor x sqrt(electorate/5000); weights are normalized so allocated hours
// sum to the budget. The incremental-vote estimate is hours x contact rate x
// persuasion rate, and cost per vote prices those hours at the notional
// volunteer rate. Output is sorted by allocated hours descending, ties by
// ward name ascending.
//
// A non-positive budget or an all-zero weight pool returns an empty slice.
func AllocateResources(ranked []models.RankedWard, budgetHours float64) []models.ResourceAllocation {
	if budgetHours <= 0 || len(ranked) == 0 {
		return []models.ResourceAllocation{}
	}

	weights := make([]float64, len(ranked))
	var weightSum float64
	for i, rw := range ranked {
		sizeScale := math.Sqrt(float64(rw.Prediction.Electorate) / 5000)
		weights[i] = float64(rw.Score) * classificationMultiplier[rw.Classification] * urgencyFactor(rw.WinProbability) * sizeScale
		weightSum += weights[i]
	}
	if weightSum <= 0 {
		logger.Warn("AllocateResources: all ward weights are zero, nothing to allocate")
		return []models.ResourceAllocation{}
	}

	allocations := make([]models.ResourceAllocation, 0, len(ranked))
	for i, rw := range ranked {
		hours := budgetHours * weights[i] / weightSum
		votes := hours * contactsPerHour * persuasionRate
		costPerVote := 0.0
		if votes > 0 {
			costPerVote = hours * costPerHour / votes
		}
		allocations = append(allocations, models.ResourceAllocation{
			Ward:             rw.Prediction.Ward,
			Classification:   rw.Classification,
			Score:            rw.Score,
			WinProbability:   rw.WinProbability,
			Hours:            hours,
			PercentOfBudget:  100 * hours / budgetHours,
			IncrementalVotes: votes,
			CostPerVote:      costPerVote,
			ROI:              roiTier(rw.WinProbability, costPerVote),
		})
	}

	sort.Slice(allocations, func(i, j int) bool {
		if allocations[i].Hours != allocations[j].Hours {
			return allocations[i].Hours > allocations[j].Hours
		}
		return allocations[i].Ward < allocations[j].Ward
	})
	return allocations
}
