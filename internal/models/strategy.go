package models

// Classification is the strategic tier of a ward relative to the chosen party.
type Classification string

const (
	ClassSafe         Classification = "safe"
	ClassHold         Classification = "hold"
	ClassMarginalHold Classification = "marginal_hold"
	ClassBattleground Classification = "battleground"
	ClassTarget       Classification = "target"
	ClassStretch      Classification = "stretch"
	ClassWriteOff     Classification = "write_off"
	ClassUnknown      Classification = "unknown"
)

// TalkingPoint is one rule-generated canvassing prompt for a ward.
type TalkingPoint struct {
	Category string `json:"category"`
	Icon     string `json:"icon"`
	Priority string `json:"priority"` // "high", "medium", "low"
	Text     string `json:"text"`
}

// RankedWard combines a ward prediction with its strategic assessment.
// Score is the composite 0-100 battleground priority.
type RankedWard struct {
	Prediction     WardPrediction `json:"prediction"`
	Classification Classification `json:"classification"`
	Margin         float64        `json:"margin"` // share-point gap driving the classification
	SwingRequired  float64        `json:"swing_required"`
	WinProbability float64        `json:"win_probability"`
	Defending      bool           `json:"defending"`
	Score          int            `json:"score"`
	TalkingPoints  []TalkingPoint `json:"talking_points"`
}

// Scenario is one rung of the path-to-control ladder: the cumulative position
// after walking some number of contested wards in descending win probability.
type Scenario struct {
	ID                    string  `json:"id"`
	WardsConsidered       int     `json:"wards_considered"`
	Seats                 int     `json:"seats"`
	CumulativeProbability float64 `json:"cumulative_probability"`
	MajorityReached       bool    `json:"majority_reached"`
	Description           string  `json:"description"`
}

// PathToControl is the majority-seeking summary for the chosen party.
type PathToControl struct {
	Party             string       `json:"party"`
	TotalSeats        int          `json:"total_seats"`
	MajorityThreshold int          `json:"majority_threshold"`
	CurrentSeats      int          `json:"current_seats"`
	SeatsNeeded       int          `json:"seats_needed"`
	Scenarios         []Scenario   `json:"scenarios"`
	VulnerableSeats   []RankedWard `json:"vulnerable_seats"`
	TopTargets        []RankedWard `json:"top_targets"`
}

// ROITier buckets a ward's expected return on canvassing investment.
type ROITier string

const (
	ROIExcellent ROITier = "excellent"
	ROIGood      ROITier = "good"
	ROIFair      ROITier = "fair"
	ROIPoor      ROITier = "poor"
)

// ResourceAllocation is the campaign-hour budget assigned to one ward.
type ResourceAllocation struct {
	Ward             string         `json:"ward"`
	Classification   Classification `json:"classification"`
	Score            int            `json:"score"`
	WinProbability   float64        `json:"win_probability"`
	Hours            float64        `json:"hours"`
	PercentOfBudget  float64        `json:"percent_of_budget"`
	IncrementalVotes float64        `json:"incremental_votes"`
	CostPerVote      float64        `json:"cost_per_vote"`
	ROI              ROITier        `json:"roi"`
}
