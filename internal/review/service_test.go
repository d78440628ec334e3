package review

import (
	"sync"
	"testing"
	"time"

	"github.com/prepdeck/prepdeck/internal/domain"
)

// memoryRepo is an in-memory Repository for exercising the service without
// a database.
type memoryRepo struct {
	mu       sync.Mutex
	items    map[string]domain.ReviewItem
	sessions []domain.ReviewSession
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[string]domain.ReviewItem)}
}

func (r *memoryRepo) LoadReviewItem(questionID string) (*domain.ReviewItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[questionID]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *memoryRepo) SaveReviewItem(item *domain.ReviewItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.QuestionID] = *item
	return nil
}

func (r *memoryRepo) QueryDue(now time.Time) ([]domain.ReviewItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []domain.ReviewItem
	for _, item := range r.items {
		if item.IsActive && !item.NextReview.After(now) {
			due = append(due, item)
		}
	}
	return due, nil
}

func (r *memoryRepo) InsertReviewSession(session *domain.ReviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, *session)
	return nil
}

func answer(id string, correct bool, at time.Time) domain.AnswerEvent {
	return domain.AnswerEvent{QuestionID: id, IsCorrect: correct, AnsweredAt: at}
}

func TestRecordAnswerCreatesItemAtDefaults(t *testing.T) {
	svc := NewService(newMemoryRepo())
	at := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)

	item, err := svc.RecordAnswer(answer("q1", false, at))
	if err != nil {
		t.Fatalf("RecordAnswer returned an unexpected error: %v", err)
	}

	if item.MasteryLevel != 0 {
		t.Errorf("expected level 0 after a first miss, got %d", item.MasteryLevel)
	}
	if item.WrongCount != 1 {
		// The creation default of 1 already counts the triggering miss.
		t.Errorf("expected wrong count 1, got %d", item.WrongCount)
	}
	if item.CorrectStreak != 0 {
		t.Errorf("expected streak 0, got %d", item.CorrectStreak)
	}
	if !item.IsActive {
		t.Error("expected a new item to be active")
	}
	if item.ReviewCount != 1 {
		t.Errorf("expected review count 1, got %d", item.ReviewCount)
	}
	if item.LastReviewed == nil || !item.LastReviewed.Equal(at) {
		t.Errorf("expected lastReviewed to be the answer time, got %v", item.LastReviewed)
	}
	// Level stays 0, so the next review is one minute out.
	if expected := at.Add(time.Minute); !item.NextReview.Equal(expected) {
		t.Errorf("expected next review at %v, got %v", expected, item.NextReview)
	}
	if item.Priority != 5 {
		t.Errorf("expected a fresh miss to score priority 5, got %d", item.Priority)
	}
	if item.Urgency != "urgent" {
		t.Errorf("expected urgency %q, got %q", "urgent", item.Urgency)
	}
}

func TestRecordAnswerStalenessRaisesPriority(t *testing.T) {
	at := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)

	seed := func(repo *memoryRepo, lastReviewed time.Time) {
		item := domain.ReviewItem{
			QuestionID:   "q1",
			MasteryLevel: 3,
			ReviewCount:  4,
			LastReviewed: &lastReviewed,
			NextReview:   at.Add(-time.Hour),
			WrongCount:   1,
			IsActive:     true,
		}
		if err := repo.SaveReviewItem(&item); err != nil {
			t.Fatalf("seeding repo failed: %v", err)
		}
	}

	// Reviewed an hour ago: 1 + (5-4) + 0.5 + ~0 rounds to 3.
	freshRepo := newMemoryRepo()
	seed(freshRepo, at.Add(-time.Hour))
	fresh, err := NewService(freshRepo).RecordAnswer(answer("q1", true, at))
	if err != nil {
		t.Fatalf("RecordAnswer on the fresh item failed: %v", err)
	}
	if fresh.Priority != 3 {
		t.Errorf("expected priority 3 for a recently reviewed item, got %d", fresh.Priority)
	}

	// Reviewed thirty days ago: the staleness term adds its full +2,
	// 1 + (5-4) + 0.5 + 2 rounds to 5.
	staleRepo := newMemoryRepo()
	seed(staleRepo, at.AddDate(0, 0, -30))
	stale, err := NewService(staleRepo).RecordAnswer(answer("q1", true, at))
	if err != nil {
		t.Fatalf("RecordAnswer on the stale item failed: %v", err)
	}
	if stale.Priority != 5 {
		t.Errorf("expected priority 5 with 30 days of staleness, got %d", stale.Priority)
	}
	if stale.Urgency != "urgent" {
		t.Errorf("expected urgency %q, got %q", "urgent", stale.Urgency)
	}
	if stale.Priority <= fresh.Priority {
		t.Errorf("expected staleness to raise priority, got fresh=%d stale=%d", fresh.Priority, stale.Priority)
	}
}

func TestRecordAnswerFirstCorrectKeepsWrongCountQuirk(t *testing.T) {
	svc := NewService(newMemoryRepo())
	at := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)

	item, err := svc.RecordAnswer(answer("q1", true, at))
	if err != nil {
		t.Fatalf("RecordAnswer returned an unexpected error: %v", err)
	}
	if item.MasteryLevel != 1 {
		t.Errorf("expected level 1 after a first correct answer, got %d", item.MasteryLevel)
	}
	// The schema default is 1 even when the item was never missed.
	if item.WrongCount != 1 {
		t.Errorf("expected wrong count 1, got %d", item.WrongCount)
	}
	if item.CorrectStreak != 1 {
		t.Errorf("expected streak 1, got %d", item.CorrectStreak)
	}
	// Level 0 -> 1 earns the five minute interval.
	if expected := at.Add(5 * time.Minute); !item.NextReview.Equal(expected) {
		t.Errorf("expected next review at %v, got %v", expected, item.NextReview)
	}
}

func TestRecordAnswerProgressesToMastery(t *testing.T) {
	svc := NewService(newMemoryRepo())
	at := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)

	if _, err := svc.RecordAnswer(answer("q1", false, at)); err != nil {
		t.Fatalf("seeding miss failed: %v", err)
	}

	var item *domain.ReviewItem
	var err error
	for i := 0; i < 5; i++ {
		at = at.Add(time.Hour)
		item, err = svc.RecordAnswer(answer("q1", true, at))
		if err != nil {
			t.Fatalf("correct answer %d failed: %v", i+1, err)
		}
	}

	if item.MasteryLevel != 5 {
		t.Fatalf("expected level 5 after five correct answers, got %d", item.MasteryLevel)
	}
	if item.IsActive {
		t.Error("expected a mastered item to be retired")
	}
	if item.CorrectStreak != 5 {
		t.Errorf("expected streak 5, got %d", item.CorrectStreak)
	}
	// Level 4 -> 5 earns the three day interval.
	if expected := at.Add(4320 * time.Minute); !item.NextReview.Equal(expected) {
		t.Errorf("expected next review at %v, got %v", expected, item.NextReview)
	}
}

func TestRecordAnswerReactivatesMasteredItem(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	at := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)

	mastered := domain.ReviewItem{
		QuestionID:   "q1",
		MasteryLevel: 5,
		ReviewCount:  6,
		WrongCount:   1,
		NextReview:   at,
		IsActive:     false,
	}
	if err := repo.SaveReviewItem(&mastered); err != nil {
		t.Fatalf("seeding repo failed: %v", err)
	}

	item, err := svc.RecordAnswer(answer("q1", false, at.Add(time.Hour)))
	if err != nil {
		t.Fatalf("RecordAnswer returned an unexpected error: %v", err)
	}

	if item.MasteryLevel != 4 {
		t.Errorf("expected a miss on a mastered item to drop it to level 4, got %d", item.MasteryLevel)
	}
	if !item.IsActive {
		t.Error("expected the item to be active again")
	}
	if item.WrongCount != 2 {
		t.Errorf("expected wrong count 2, got %d", item.WrongCount)
	}
}

func TestRecordAnswerRejectsEmptyQuestionID(t *testing.T) {
	svc := NewService(newMemoryRepo())
	if _, err := svc.RecordAnswer(answer("", true, time.Now())); err == nil {
		t.Fatal("expected an error for an empty question id")
	}
}

func TestSelectQueueOrderingAndBounds(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	now := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)

	seed := []domain.ReviewItem{
		{QuestionID: "a", Priority: 3, IsActive: true, NextReview: now.Add(-time.Hour)},
		{QuestionID: "b", Priority: 5, IsActive: true, NextReview: now.Add(-time.Minute)},
		{QuestionID: "c", Priority: 5, IsActive: true, NextReview: now.Add(-2 * time.Hour)},
		{QuestionID: "d", Priority: 1, IsActive: true, NextReview: now.Add(time.Hour)},
		{QuestionID: "e", Priority: 4, IsActive: false, NextReview: now.Add(-time.Hour)},
	}
	for i := range seed {
		if err := repo.SaveReviewItem(&seed[i]); err != nil {
			t.Fatalf("seeding repo failed: %v", err)
		}
	}

	queue, err := svc.SelectQueue(now, 2)
	if err != nil {
		t.Fatalf("SelectQueue returned an unexpected error: %v", err)
	}

	if queue.TotalDue != 3 {
		t.Errorf("expected 3 due items, got %d", queue.TotalDue)
	}
	if len(queue.Items) != 2 {
		t.Fatalf("expected the queue page to be bounded to 2, got %d", len(queue.Items))
	}
	if queue.Items[0].QuestionID != "c" || queue.Items[1].QuestionID != "b" {
		t.Errorf("unexpected page order: %s, %s", queue.Items[0].QuestionID, queue.Items[1].QuestionID)
	}
	for _, item := range queue.Items {
		if item.Urgency != "urgent" {
			t.Errorf("expected item %s to carry urgency %q, got %q", item.QuestionID, "urgent", item.Urgency)
		}
	}
	if queue.EstimatedMinutes != 4 {
		t.Errorf("expected 4 estimated minutes for 2 items, got %d", queue.EstimatedMinutes)
	}
	if queue.SuggestedDailyCount != 5 {
		t.Errorf("expected suggested daily count 5 for a backlog of 3, got %d", queue.SuggestedDailyCount)
	}
}

func TestSelectQueueIsIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	now := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)

	for _, id := range []string{"a", "b", "c"} {
		item := domain.ReviewItem{QuestionID: id, Priority: 3, IsActive: true, NextReview: now.Add(-time.Hour)}
		if err := repo.SaveReviewItem(&item); err != nil {
			t.Fatalf("seeding repo failed: %v", err)
		}
	}

	first, err := svc.SelectQueue(now, 10)
	if err != nil {
		t.Fatalf("first SelectQueue failed: %v", err)
	}
	second, err := svc.SelectQueue(now, 10)
	if err != nil {
		t.Fatalf("second SelectQueue failed: %v", err)
	}

	if len(first.Items) != len(second.Items) {
		t.Fatalf("queue length changed between reads: %d then %d", len(first.Items), len(second.Items))
	}
	for i := range first.Items {
		if first.Items[i].QuestionID != second.Items[i].QuestionID {
			t.Errorf("position %d changed between reads: %s then %s",
				i, first.Items[i].QuestionID, second.Items[i].QuestionID)
		}
	}
}

func TestRecordAnswerSerializesPerQuestion(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	at := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := svc.RecordAnswer(answer("q1", false, at.Add(time.Duration(n)*time.Second))); err != nil {
				t.Errorf("concurrent RecordAnswer failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	item, err := repo.LoadReviewItem("q1")
	if err != nil || item == nil {
		t.Fatalf("expected the item to exist, got item=%v err=%v", item, err)
	}
	if item.ReviewCount != 20 {
		t.Errorf("expected 20 reviews to be applied, got %d", item.ReviewCount)
	}
	// Creation counts the first miss, then nineteen increments.
	if item.WrongCount != 20 {
		t.Errorf("expected wrong count 20, got %d", item.WrongCount)
	}
}

func TestRecordSession(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	session, err := svc.RecordSession(domain.ReviewSession{
		Duration:     300,
		TotalItems:   10,
		CorrectItems: 7,
		DeviceType:   "mobile",
	})
	if err != nil {
		t.Fatalf("RecordSession returned an unexpected error: %v", err)
	}
	if session.ID == "" {
		t.Error("expected a session id to be assigned")
	}
	if session.CreatedAt.IsZero() {
		t.Error("expected createdAt to be set")
	}
	if len(repo.sessions) != 1 {
		t.Fatalf("expected 1 stored session, got %d", len(repo.sessions))
	}

	if _, err := svc.RecordSession(domain.ReviewSession{TotalItems: 3, CorrectItems: 5}); err == nil {
		t.Error("expected an error when correctItems exceeds totalItems")
	}
}
