package domain

import "time"

// AnswerEvent records one answer given to a question.
// AnsweredAt is the moment the answer was submitted; the scheduler uses it
// as the base for the next review date, never the read-time clock.
type AnswerEvent struct {
	QuestionID string    `json:"questionId" validate:"required"`
	IsCorrect  bool      `json:"isCorrect"`
	AnsweredAt time.Time `json:"answeredAt" validate:"required"`
}

// ReviewItem is the per-question scheduling record: mastery, timing and
// priority. One exists per question, keyed by the question hash, created
// the first time the question is answered incorrectly.
type ReviewItem struct {
	QuestionID    string     `json:"questionId"`
	MasteryLevel  int        `json:"masteryLevel"`
	ReviewCount   int        `json:"reviewCount"`
	LastReviewed  *time.Time `json:"lastReviewed"`
	NextReview    time.Time  `json:"nextReview"`
	WrongCount    int        `json:"wrongCount"`
	CorrectStreak int        `json:"correctStreak"`
	Priority      int        `json:"priority"`
	Urgency       string     `json:"urgency,omitempty"` // derived from Priority, not persisted
	IsActive      bool       `json:"isActive"`
}

// ReviewSession is a write-once summary of one review run. It feeds
// reporting only, never scheduling.
type ReviewSession struct {
	ID           string    `json:"id"`
	Duration     int       `json:"duration"` // seconds
	TotalItems   int       `json:"totalItems"`
	CorrectItems int       `json:"correctItems"`
	DeviceType   string    `json:"deviceType"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Queue is the ordered set of due review items handed to a caller,
// with the derived volume suggestions.
type Queue struct {
	Items               []ReviewItem `json:"items"`
	TotalDue            int          `json:"totalDue"`
	EstimatedMinutes    int          `json:"estimatedMinutes"`
	SuggestedDailyCount int          `json:"suggestedDailyCount"`
}
