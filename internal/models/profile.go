package models

import "errors"

// DemographicProfile holds per-ward census counts. Band keys are open strings
// (e.g. "age_65_plus", "economically_inactive"); unknown bands are carried but
// ignored by the adjustment stages.
type DemographicProfile struct {
	Ward           string         `json:"ward"`
	Population     int            `json:"population"`
	AgeBands       map[string]int `json:"age_bands"`
	EthnicityBands map[string]int `json:"ethnicity_bands"`
	EconomicBands  map[string]int `json:"economic_bands"`
}

// Validate checks that all demographic profile fields are valid.
func (d *DemographicProfile) Validate() error {
	if d.Ward == "" {
		return errors.New("ward name must not be empty")
	}
	if d.Population < 0 {
		return errors.New("population must not be negative")
	}
	for _, bands := range []map[string]int{d.AgeBands, d.EthnicityBands, d.EconomicBands} {
		for _, count := range bands {
			if count < 0 {
				return errors.New("band count must not be negative")
			}
		}
	}
	return nil
}

// BandFraction returns count/population for a band, or 0 for a zero or
// missing population. Zero comparison populations are a degenerate input,
// not an error.
func (d *DemographicProfile) BandFraction(bands map[string]int, key string) float64 {
	if d.Population <= 0 {
		return 0
	}
	return float64(bands[key]) / float64(d.Population)
}

// DeprivationProfile holds a ward's Index of Multiple Deprivation summary.
type DeprivationProfile struct {
	Ward   string  `json:"ward"`
	Score  float64 `json:"score"`
	Decile int     `json:"decile"` // 1 = most deprived, 10 = least
}

// Validate checks that all deprivation profile fields are valid.
func (d *DeprivationProfile) Validate() error {
	if d.Ward == "" {
		return errors.New("ward name must not be empty")
	}
	if d.Decile < 1 || d.Decile > 10 {
		return errors.New("deprivation decile must be between 1 and 10")
	}
	return nil
}

// Calibration is an optional table of fitted coefficients. When present it
// switches the swing stage to per-party dampening, the demographic stage to
// the regression adjuster, and confidence tiers to the per-party mean
// absolute error of past forecasts.
type Calibration struct {
	SwingDampening    map[string]float64            `json:"swing_dampening"`    // party -> dampening coefficient
	DemographicCoeffs map[string]map[string]float64 `json:"demographic_coeffs"` // party -> feature -> coefficient
	MeanAbsoluteError map[string]float64            `json:"mean_absolute_error"`
}

// HasDemographicCoeffs reports whether regression coefficients are available.
func (c *Calibration) HasDemographicCoeffs() bool {
	return c != nil && len(c.DemographicCoeffs) > 0
}
