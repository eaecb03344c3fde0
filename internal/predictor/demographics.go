package predictor

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/openelect/wardcast/internal/models"
)

// DemographicAdjuster proposes a per-party additive delta from ward features.
// The rule-based and regression-calibrated adjusters are interchangeable
// implementations of this one capability; SelectAdjuster picks between them
// by whether calibration data is present.
type DemographicAdjuster interface {
	Name() string
	Adjust(demo *models.DemographicProfile, depr *models.DeprivationProfile) (models.ShareVector, string)
}

// SelectAdjuster returns the regression adjuster when calibrated coefficients
// are supplied, otherwise the documented rule-based adjuster.
func SelectAdjuster(cal *models.Calibration) DemographicAdjuster {
	if cal.HasDemographicCoeffs() {
		return &RegressionAdjuster{Coefficients: cal.DemographicCoeffs}
	}
	return &RuleAdjuster{}
}

// Rule-based demographic thresholds. Each rule is a fixed, documented bonus:
// wards with an older electorate historically favour the Conservatives, the
// most deprived deciles and ethnically diverse wards favour Labour.
const (
	over65Threshold   = 0.25 // fraction of population aged 65+
	over65Bonus       = 0.02 // Conservative
	deprivedMaxDecile = 2    // IMD decile 1-2
	deprivedBonus     = 0.03 // Labour
	diverseThreshold  = 0.20 // fraction of population in non-white bands
	diverseBonus      = 0.02 // Labour
)

// RuleAdjuster applies the fixed threshold rules above. It is used whenever
// no calibrated regression coefficients are available.
type RuleAdjuster struct{}

func (r *RuleAdjuster) Name() string { return "rules" }

// Adjust evaluates each threshold rule against the ward's profiles. Missing
// profiles contribute nothing; a ward with no demographic data gets a zero
// delta, not an error.
func (r *RuleAdjuster) Adjust(demo *models.DemographicProfile, depr *models.DeprivationProfile) (models.ShareVector, string) {
	delta := make(models.ShareVector)
	var fired []string

	if demo != nil {
		over65 := demo.BandFraction(demo.AgeBands, "age_65_plus")
		if over65 > over65Threshold {
			delta["Conservative"] += over65Bonus
			fired = append(fired, fmt.Sprintf("over-65 share %.0f%% > %.0f%% (+%.1fpp Conservative)",
				over65*100, over65Threshold*100, over65Bonus*100))
		}
		diverse := nonWhiteFraction(demo)
		if diverse > diverseThreshold {
			delta["Labour"] += diverseBonus
			fired = append(fired, fmt.Sprintf("non-white share %.0f%% > %.0f%% (+%.1fpp Labour)",
				diverse*100, diverseThreshold*100, diverseBonus*100))
		}
	}
	if depr != nil && depr.Decile >= 1 && depr.Decile <= deprivedMaxDecile {
		delta["Labour"] += deprivedBonus
		fired = append(fired, fmt.Sprintf("deprivation decile %d <= %d (+%.1fpp Labour)",
			depr.Decile, deprivedMaxDecile, deprivedBonus*100))
	}

	if len(fired) == 0 {
		return delta, "demographics (rules): no threshold rules fired"
	}
	return delta, "demographics (rules): " + strings.Join(fired, "; ")
}

// nonWhiteFraction sums every ethnicity band except the white ones.
func nonWhiteFraction(demo *models.DemographicProfile) float64 {
	if demo.Population <= 0 {
		return 0
	}
	var count int
	for band, n := range demo.EthnicityBands {
		if strings.HasPrefix(strings.ToLower(band), "white") {
			continue
		}
		count += n
	}
	return float64(count) / float64(demo.Population)
}

// regressionCap bounds the regression adjustment per party. The dot product
// of normalized features against fitted coefficients is squashed into
// [-regressionCap, +regressionCap] via tanh so an extreme ward cannot swamp
// the baseline.
const regressionCap = 0.04

// RegressionAdjuster computes per-party deltas as the dot product of
// normalized ward features against calibrated coefficients.
type RegressionAdjuster struct {
	Coefficients map[string]map[string]float64 // party -> feature -> coefficient
}

func (r *RegressionAdjuster) Name() string { return "regression" }

// Adjust builds the ward's feature vector, applies each party's coefficients,
// and scales the raw score into the bounded adjustment range.
func (r *RegressionAdjuster) Adjust(demo *models.DemographicProfile, depr *models.DeprivationProfile) (models.ShareVector, string) {
	features := wardFeatures(demo, depr)
	delta := make(models.ShareVector, len(r.Coefficients))

	parties := make([]string, 0, len(r.Coefficients))
	for party := range r.Coefficients {
		parties = append(parties, party)
	}
	sort.Strings(parties)

	var moves []string
	for _, party := range parties {
		var raw float64
		for feature, coeff := range r.Coefficients[party] {
			raw += coeff * features[feature]
		}
		adj := regressionCap * math.Tanh(raw)
		if adj == 0 {
			continue
		}
		delta[party] = adj
		moves = append(moves, fmt.Sprintf("%s %+.1fpp", party, adj*100))
	}

	if len(moves) == 0 {
		return delta, "demographics (regression): no net adjustment"
	}
	return delta, "demographics (regression): " + strings.Join(moves, ", ")
}

// wardFeatures normalizes the ward's profile into the [0,1] feature space the
// coefficients were fitted on. Missing profiles yield zero features.
func wardFeatures(demo *models.DemographicProfile, depr *models.DeprivationProfile) map[string]float64 {
	features := make(map[string]float64)
	if demo != nil {
		features["over_65"] = demo.BandFraction(demo.AgeBands, "age_65_plus")
		features["under_30"] = demo.BandFraction(demo.AgeBands, "age_18_29")
		features["non_white"] = nonWhiteFraction(demo)
		features["economically_inactive"] = demo.BandFraction(demo.EconomicBands, "economically_inactive")
	}
	if depr != nil {
		// Decile 1 (most deprived) -> 1.0, decile 10 -> 0.1
		features["deprivation"] = float64(11-depr.Decile) / 10
	}
	return features
}
