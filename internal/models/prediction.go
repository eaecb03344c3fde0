package models

import (
	"errors"
	"sort"
)

// Confidence is the reliability tier attached to a ward prediction.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none" // no usable history; prediction is absent
)

// TrailEntry is one step of a prediction's methodology trail: which stage ran
// and a human-readable account of what it changed and why. Skipped stages
// still append an entry so the trail is a complete audit of the pipeline.
type TrailEntry struct {
	Stage  string `json:"stage"`
	Detail string `json:"detail"`
}

// WardPrediction is the calibrated forecast for a single contested ward.
// Valid is false when the ward had no usable history; in that case only
// Ward, Confidence (none) and the diagnostic Trail are populated and nothing
// downstream consumes it.
type WardPrediction struct {
	Ward             string         `json:"ward"`
	Valid            bool           `json:"valid"`
	Winner           string         `json:"winner"`
	RunnerUp         string         `json:"runner_up"`
	MajorityVotes    int            `json:"majority_votes"`
	MajorityFraction float64        `json:"majority_fraction"`
	Shares           ShareVector    `json:"shares"`
	Votes            map[string]int `json:"votes"`
	Turnout          float64        `json:"turnout"`
	TotalVotes       int            `json:"total_votes"`
	Electorate       int            `json:"electorate"`
	Staleness        int            `json:"staleness"`
	Confidence       Confidence     `json:"confidence"`
	Trail            []TrailEntry   `json:"trail"`
}

// Validate checks that all prediction fields are internally consistent.
func (p *WardPrediction) Validate() error {
	if p.Ward == "" {
		return errors.New("ward name must not be empty")
	}
	if !p.Valid {
		return nil
	}
	if p.Winner == "" {
		return errors.New("valid prediction must name a winner")
	}
	if p.Turnout < 0.0 || p.Turnout > 1.0 {
		return errors.New("turnout must be between 0.0 and 1.0")
	}
	if p.MajorityVotes < 0 {
		return errors.New("majority votes must not be negative")
	}
	if !p.Shares.SumsToOne(0.01) {
		return errors.New("predicted shares must sum to approximately 1.0")
	}
	return nil
}

// SeatTotals maps party to predicted council seats. Seats are conserved:
// exactly one per contested ward plus every retained seat.
type SeatTotals map[string]int

// Total returns the number of seats across all parties.
func (s SeatTotals) Total() int {
	var total int
	for _, n := range s {
		total += n
	}
	return total
}

// Parties returns the party keys sorted by seats descending, then
// lexicographically for determinism.
func (s SeatTotals) Parties() []string {
	parties := make([]string, 0, len(s))
	for party := range s {
		parties = append(parties, party)
	}
	sort.Slice(parties, func(i, j int) bool {
		if s[parties[i]] != s[parties[j]] {
			return s[parties[i]] > s[parties[j]]
		}
		return parties[i] < parties[j]
	})
	return parties
}

// Clone returns an independent copy of the totals.
func (s SeatTotals) Clone() SeatTotals {
	out := make(SeatTotals, len(s))
	for party, n := range s {
		out[party] = n
	}
	return out
}

// CoalitionKind distinguishes outright control from a multi-party deal.
type CoalitionKind string

const (
	SinglePartyMajority CoalitionKind = "single_party_majority"
	MultiPartyCoalition CoalitionKind = "multi_party_coalition"
)

// Coalition is one viable governing combination found from seat totals.
type Coalition struct {
	Parties []string      `json:"parties"`
	Seats   int           `json:"seats"`
	Margin  int           `json:"margin"` // seats above the majority threshold
	Kind    CoalitionKind `json:"kind"`
}
