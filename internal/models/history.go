package models

import (
	"errors"
	"time"
)

// CandidateResult is one candidate's outcome in a past ward election.
type CandidateResult struct {
	Party string  `json:"party"`
	Share float64 `json:"share"` // fraction of valid votes, 0-1
}

// ElectionRecord is a single past election in a ward.
type ElectionRecord struct {
	Date       time.Time         `json:"date"`
	Type       string            `json:"type"` // e.g. "local", "by-election"
	Electorate int               `json:"electorate"`
	Turnout    float64           `json:"turnout"` // fraction, 0-1
	Candidates []CandidateResult `json:"candidates"`
}

// Validate checks that all election record fields are valid.
func (e *ElectionRecord) Validate() error {
	if e.Date.IsZero() {
		return errors.New("election date must not be zero")
	}
	if e.Type == "" {
		return errors.New("election type must not be empty")
	}
	if e.Electorate < 0 {
		return errors.New("electorate must not be negative")
	}
	if e.Turnout < 0.0 || e.Turnout > 1.0 {
		return errors.New("turnout must be between 0.0 and 1.0")
	}
	for _, c := range e.Candidates {
		if c.Party == "" {
			return errors.New("candidate party must not be empty")
		}
		if c.Share < 0.0 || c.Share > 1.0 {
			return errors.New("candidate share must be between 0.0 and 1.0")
		}
	}
	return nil
}

// Shares collapses the candidate list into a per-party share vector.
// When a party fields multiple candidates in one election, the maximum
// share per party is kept.
func (e *ElectionRecord) Shares() ShareVector {
	shares := make(ShareVector, len(e.Candidates))
	for _, c := range e.Candidates {
		if c.Share > shares[c.Party] {
			shares[c.Party] = c.Share
		}
	}
	return shares
}

// WardElectionHistory is the ordered sequence of past elections in one ward,
// oldest first. It is the source of the prediction baseline.
type WardElectionHistory struct {
	Ward      string           `json:"ward"`
	Elections []ElectionRecord `json:"elections"`
}

// Validate checks that the history and every contained record are valid.
func (h *WardElectionHistory) Validate() error {
	if h.Ward == "" {
		return errors.New("ward name must not be empty")
	}
	for i := range h.Elections {
		if err := h.Elections[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Baseline is the derived reference snapshot a ward prediction starts from.
type Baseline struct {
	Shares     ShareVector `json:"shares"`
	Date       time.Time   `json:"date"`
	Year       int         `json:"year"`
	Type       string      `json:"type"`
	Turnout    float64     `json:"turnout"`
	Electorate int         `json:"electorate"`
	Staleness  int         `json:"staleness"` // years since the baseline election
}

// WardStatus describes the defensive situation of a ward in the target cycle.
type WardStatus struct {
	Ward             string         `json:"ward"`
	Contested        bool           `json:"contested"`
	Defender         string         `json:"defender"` // party defending the seat up for contest
	DefenderRetiring bool           `json:"defender_retiring"`
	RetainedSeats    map[string]int `json:"retained_seats"` // seats not up this cycle (elect-by-thirds)
}

// ReferenceResults holds external comparison shares used when a party has no
// ward baseline: current national polling, the prior national election, and a
// recent comparable local election.
type ReferenceResults struct {
	NationalPolling ShareVector `json:"national_polling"`
	PriorNational   ShareVector `json:"prior_national"`
	RecentLocal     ShareVector `json:"recent_local"`
}
