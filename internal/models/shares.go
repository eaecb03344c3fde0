// Package models defines the core domain entities for the wardcast strategy engine.
// These models represent ward election histories, vote-share forecasts, seat totals,
// strategic classifications, resource allocations, and canvassing geography.
//
// Party identities are open, data-driven string keys throughout. The set of
// parties is never enumerated in code; unrecognized keys simply do not match
// any known-feature adjustment.
//
// Terminology (matching UK local-government usage):
//   - Ward: smallest electoral geography electing one or more council seats.
//   - Defender: party whose incumbent holds the seat up for contest.
//   - Staleness: years since a ward's reference historical election.
package models

import (
	"math"
	"sort"
)

// ShareVector maps a party identity to a fractional vote share.
// After Normalize, all entries are >= 0 and sum to 1 (within floating tolerance),
// provided at least one entry was positive.
type ShareVector map[string]float64

// Clone returns an independent copy of the vector.
func (v ShareVector) Clone() ShareVector {
	out := make(ShareVector, len(v))
	for party, share := range v {
		out[party] = share
	}
	return out
}

// Sum returns the total of all shares, negatives included.
func (v ShareVector) Sum() float64 {
	var sum float64
	for _, share := range v {
		sum += share
	}
	return sum
}

// Normalize clamps every share at zero and rescales so the shares sum to 1.
// If the clamped sum is zero or negative the clamped vector is returned
// unscaled: a degenerate input must not cause a divide by zero.
func (v ShareVector) Normalize() ShareVector {
	out := make(ShareVector, len(v))
	var sum float64
	for party, share := range v {
		if share < 0 {
			share = 0
		}
		out[party] = share
		sum += share
	}
	if sum <= 0 {
		return out
	}
	for party := range out {
		out[party] /= sum
	}
	return out
}

// Parties returns the party keys sorted lexicographically. Map iteration order
// is randomized in Go; every ordered walk over a ShareVector goes through here
// so identical inputs always produce identical output.
func (v ShareVector) Parties() []string {
	parties := make([]string, 0, len(v))
	for party := range v {
		parties = append(parties, party)
	}
	sort.Strings(parties)
	return parties
}

// Leaders returns the highest- and second-highest-share parties.
// Ties break lexicographically ascending so results are deterministic.
// Empty strings are returned for missing positions.
func (v ShareVector) Leaders() (winner, runnerUp string) {
	for _, party := range v.Parties() {
		switch {
		case winner == "" || v[party] > v[winner]:
			runnerUp = winner
			winner = party
		case runnerUp == "" || v[party] > v[runnerUp]:
			runnerUp = party
		}
	}
	return winner, runnerUp
}

// SumsToOne reports whether the shares total 1 within the given tolerance.
func (v ShareVector) SumsToOne(tolerance float64) bool {
	return math.Abs(v.Sum()-1) <= tolerance
}
