package models

// ProxyWeights controls the blend of reference scopes used to estimate a
// new-entrant party's share in wards where it has no baseline.
type ProxyWeights struct {
	Primary   float64 `json:"primary"`   // weight on current national polling
	Secondary float64 `json:"secondary"` // weight on the recent comparable local election
}

// Assumptions is the immutable set of user-tunable model options. It is passed
// explicitly into every prediction call; there is no process-wide default, so
// repeated runs with different tunings cannot interfere.
type Assumptions struct {
	NationalToLocalDampening float64      `json:"national_to_local_dampening"` // [0, 1]
	IncumbencyBonusPct       float64      `json:"incumbency_bonus_pct"`        // percentage points
	RetirementPenaltyPct     float64      `json:"retirement_penalty_pct"`      // percentage points
	EntrantParty             string       `json:"entrant_party"`
	EntrantProxyWeights      ProxyWeights `json:"entrant_proxy_weights"`
	EntrantStandsInAllWards  bool         `json:"entrant_stands_in_all_wards"`
	TurnoutAdjustment        float64      `json:"turnout_adjustment"` // [-0.05, 0.05]
	SwingMultiplier          float64      `json:"swing_multiplier"`   // [0.5, 1.5]
}

// DefaultAssumptions returns the documented defaults for every option.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		NationalToLocalDampening: 0.6,
		IncumbencyBonusPct:       3.0,
		RetirementPenaltyPct:     2.0,
		EntrantParty:             "Reform UK",
		EntrantProxyWeights:      ProxyWeights{Primary: 0.6, Secondary: 0.4},
		EntrantStandsInAllWards:  true,
		TurnoutAdjustment:        0.0,
		SwingMultiplier:          1.0,
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamped returns a copy with every out-of-range option pulled back inside its
// documented bounds. Out-of-range user input is clamped at point of use, never
// rejected.
func (a Assumptions) Clamped() Assumptions {
	out := a
	out.NationalToLocalDampening = clampFloat(a.NationalToLocalDampening, 0, 1)
	out.TurnoutAdjustment = clampFloat(a.TurnoutAdjustment, -0.05, 0.05)
	out.SwingMultiplier = clampFloat(a.SwingMultiplier, 0.5, 1.5)
	if out.IncumbencyBonusPct < 0 {
		out.IncumbencyBonusPct = 0
	}
	if out.RetirementPenaltyPct < 0 {
		out.RetirementPenaltyPct = 0
	}
	if out.EntrantProxyWeights.Primary < 0 {
		out.EntrantProxyWeights.Primary = 0
	}
	if out.EntrantProxyWeights.Secondary < 0 {
		out.EntrantProxyWeights.Secondary = 0
	}
	return out
}
