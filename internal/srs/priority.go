package srs

import "math"

// Priority bounds and scoring caps.
const (
	MinPriority = 1
	MaxPriority = 5

	wrongCountWeight = 0.5
	wrongCountCap    = 3.0
	stalenessWeight  = 0.1
	stalenessCap     = 2.0
)

// Priority scores how urgently a question needs review, on a 1..5 scale.
// The score starts at 1, grows as mastery drops, and is nudged up by the
// cumulative wrong count (capped at +3) and by days since the last review
// (capped at +2). Wrong count and staleness are derived values, never
// user input, so negative inputs are clamped to zero instead of rejected.
func Priority(masteryLevel, wrongCount int, daysSinceLastReview float64) int {
	if wrongCount < 0 {
		wrongCount = 0
	}
	if daysSinceLastReview < 0 {
		daysSinceLastReview = 0
	}

	score := 1.0
	score += float64(MaxMasteryLevel - masteryLevel)
	score += math.Min(float64(wrongCount)*wrongCountWeight, wrongCountCap)
	score += math.Min(daysSinceLastReview*stalenessWeight, stalenessCap)

	p := int(math.Round(score))
	if p < MinPriority {
		return MinPriority
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}

// UrgencyLabel maps a clamped priority to one of the four labels shown to
// the learner.
func UrgencyLabel(priority int) string {
	switch {
	case priority >= 5:
		return "urgent"
	case priority >= 4:
		return "high"
	case priority >= 3:
		return "medium"
	default:
		return "low"
	}
}
