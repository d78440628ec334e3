// Package srs implements the spaced-repetition scheduling core: the
// interval table, mastery transitions, next-review computation and the
// priority/urgency scoring. Every function here is pure and total.
package srs

// MaxMasteryLevel is the level at which a question is considered mastered
// and retired from active review.
const MaxMasteryLevel = 5

// intervals holds the review delay in minutes for each mastery level 0..5:
// 1 minute, 5 minutes, 30 minutes, 3 hours, 24 hours, 3 days.
var intervals = [MaxMasteryLevel + 1]int{1, 5, 30, 180, 1440, 4320}

// IntervalFor returns the review interval in minutes for the given mastery
// level. Levels outside 0..5 fall back to the level-0 interval rather than
// panicking; mastery levels are clamped at the transition layer, so this
// path is only reachable through caller bugs.
func IntervalFor(level int) int {
	if level < 0 || level > MaxMasteryLevel {
		return intervals[0]
	}
	return intervals[level]
}
