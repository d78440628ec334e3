// Package review owns the review-item lifecycle: recording answer events,
// selecting the due queue, and writing session summaries. Scheduling math
// lives in internal/srs; persistence sits behind the Repository interface.
package review

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/srs"
)

// Repository is the narrow persistence contract the service needs. A
// missing item is reported as (nil, nil), not an error. SaveReviewItem
// must write the whole record atomically: a partial write would leave
// priority inconsistent with mastery level.
type Repository interface {
	LoadReviewItem(questionID string) (*domain.ReviewItem, error)
	SaveReviewItem(item *domain.ReviewItem) error
	QueryDue(now time.Time) ([]domain.ReviewItem, error)
	InsertReviewSession(session *domain.ReviewSession) error
}

// Service applies answer events to review items and serves the due queue.
type Service struct {
	repo Repository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a review service on top of the given repository.
func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		locks: make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing updates to one question. Duplicate
// submissions and offline-sync replays hit the same key; answers to
// different questions proceed in parallel.
func (s *Service) lockFor(questionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[questionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[questionID] = l
	}
	return l
}

// RecordAnswer applies one answer event to the question's review item and
// persists the result. If no item exists yet the question is entering
// spaced review for the first time, so one is created at the defaults:
// level 0, wrong count 1, streak 0, active. The wrong-count default of 1
// is a long-standing schema quirk that priority scoring depends on.
func (s *Service) RecordAnswer(event domain.AnswerEvent) (*domain.ReviewItem, error) {
	if event.QuestionID == "" {
		return nil, fmt.Errorf("record answer: empty question id")
	}

	lock := s.lockFor(event.QuestionID)
	lock.Lock()
	defer lock.Unlock()

	item, err := s.repo.LoadReviewItem(event.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("record answer for %s: %w", event.QuestionID, err)
	}
	created := item == nil
	if created {
		item = &domain.ReviewItem{
			QuestionID: event.QuestionID,
			IsActive:   true,
		}
	}

	levelBefore := item.MasteryLevel
	previousReview := item.LastReviewed
	answeredAt := event.AnsweredAt

	item.MasteryLevel = srs.NextMasteryLevel(levelBefore, event.IsCorrect)
	item.CorrectStreak = srs.NextCorrectStreak(item.CorrectStreak, event.IsCorrect)
	if created {
		// The creation default already accounts for the miss that put the
		// question into review, so the triggering answer is not counted
		// again. A first correct answer still starts at 1.
		item.WrongCount = 1
	} else {
		item.WrongCount = srs.NextWrongCount(item.WrongCount, event.IsCorrect)
	}
	item.ReviewCount++

	interval := srs.NextReviewInterval(levelBefore, event.IsCorrect)
	item.NextReview = srs.NextReviewDate(answeredAt, interval)
	item.LastReviewed = &answeredAt

	item.Priority = srs.Priority(item.MasteryLevel, item.WrongCount, daysSince(previousReview, answeredAt))
	item.Urgency = srs.UrgencyLabel(item.Priority)
	item.IsActive = srs.IsActiveForLevel(item.MasteryLevel)

	if err := s.repo.SaveReviewItem(item); err != nil {
		return nil, fmt.Errorf("record answer for %s: %w", event.QuestionID, err)
	}
	return item, nil
}

// SelectQueue returns the ordered due queue at the given instant, bounded
// by limit, along with the derived volume suggestions. It is a pure read
// over a repository snapshot; an item updated just after the snapshot shows
// up on the next poll.
func (s *Service) SelectQueue(now time.Time, limit int) (*domain.Queue, error) {
	items, err := s.repo.QueryDue(now)
	if err != nil {
		return nil, fmt.Errorf("select queue: %w", err)
	}

	due := OrderForSession(DueItems(items, now))
	totalDue := len(due)
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	for i := range due {
		due[i].Urgency = srs.UrgencyLabel(due[i].Priority)
	}

	return &domain.Queue{
		Items:               due,
		TotalDue:            totalDue,
		EstimatedMinutes:    EstimateReviewTime(len(due)),
		SuggestedDailyCount: SuggestedDailyCount(totalDue),
	}, nil
}

// RecordSession writes a one-off summary of a finished review run. The
// record is append-only and never read back by the scheduler.
func (s *Service) RecordSession(session domain.ReviewSession) (*domain.ReviewSession, error) {
	if session.TotalItems < 0 || session.CorrectItems < 0 || session.CorrectItems > session.TotalItems {
		return nil, fmt.Errorf("record session: %d correct of %d total is not a valid summary",
			session.CorrectItems, session.TotalItems)
	}
	session.ID = uuid.NewString()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.InsertReviewSession(&session); err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}
	return &session, nil
}

// daysSince measures the staleness input for priority scoring: how long
// the question sat between its previous review and this answer. A first
// review has no previous timestamp and contributes zero.
func daysSince(previousReview *time.Time, now time.Time) float64 {
	if previousReview == nil {
		return 0
	}
	d := now.Sub(*previousReview)
	if d < 0 {
		return 0
	}
	return d.Hours() / 24
}
