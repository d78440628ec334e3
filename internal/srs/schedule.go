package srs

import "time"

// NextReviewInterval returns the review delay in minutes that follows from
// answering a question at the given mastery level. The interval reflects
// the level after the answer is applied, not the level before it.
func NextReviewInterval(levelBefore int, isCorrect bool) int {
	return IntervalFor(NextMasteryLevel(levelBefore, isCorrect))
}

// NextReviewDate schedules the next review relative to the answer
// timestamp. Callers pass the moment the answer was recorded, so a replayed
// or late-synced event lands on the date it would have produced live.
func NextReviewDate(answeredAt time.Time, intervalMinutes int) time.Time {
	return answeredAt.Add(time.Duration(intervalMinutes) * time.Minute)
}
