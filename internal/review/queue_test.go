package review

import (
	"testing"
	"time"

	"github.com/prepdeck/prepdeck/internal/domain"
)

func TestDueItems(t *testing.T) {
	now := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)
	items := []domain.ReviewItem{
		{QuestionID: "overdue", IsActive: true, NextReview: now.Add(-time.Hour)},
		{QuestionID: "due-now", IsActive: true, NextReview: now},
		{QuestionID: "not-yet", IsActive: true, NextReview: now.Add(time.Minute)},
		{QuestionID: "retired", IsActive: false, NextReview: now.Add(-time.Hour)},
	}

	due := DueItems(items, now)
	if len(due) != 2 {
		t.Fatalf("expected 2 due items, got %d", len(due))
	}
	if due[0].QuestionID != "overdue" || due[1].QuestionID != "due-now" {
		t.Errorf("unexpected due set: %s, %s", due[0].QuestionID, due[1].QuestionID)
	}
}

func TestOrderForSession(t *testing.T) {
	now := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)
	items := []domain.ReviewItem{
		{QuestionID: "low", Priority: 2, NextReview: now.Add(-3 * time.Hour)},
		{QuestionID: "high-recent", Priority: 4, NextReview: now.Add(-time.Hour)},
		{QuestionID: "high-old", Priority: 4, NextReview: now.Add(-2 * time.Hour)},
		{QuestionID: "urgent", Priority: 5, NextReview: now.Add(-time.Minute)},
	}

	ordered := OrderForSession(items)

	expected := []string{"urgent", "high-old", "high-recent", "low"}
	for i, id := range expected {
		if ordered[i].QuestionID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, ordered[i].QuestionID)
		}
	}

	// The input slice must not be reordered.
	if items[0].QuestionID != "low" {
		t.Error("OrderForSession mutated its input")
	}
}

func TestEstimateReviewTime(t *testing.T) {
	if got := EstimateReviewTime(10); got != 20 {
		t.Errorf("expected 10 items to cost 20 minutes, got %d", got)
	}
	if got := EstimateReviewTime(0); got != 0 {
		t.Errorf("expected empty queue to cost 0 minutes, got %d", got)
	}
}

func TestSuggestedDailyCount(t *testing.T) {
	testCases := []struct {
		totalDue int
		expected int
	}{
		{totalDue: 3, expected: 5},
		{totalDue: 5, expected: 5},
		{totalDue: 10, expected: 10},
		{totalDue: 20, expected: 20},
		{totalDue: 25, expected: 20},
		{totalDue: 0, expected: 5},
	}

	for _, tc := range testCases {
		if got := SuggestedDailyCount(tc.totalDue); got != tc.expected {
			t.Errorf("SuggestedDailyCount(%d) = %d, expected %d", tc.totalDue, got, tc.expected)
		}
	}
}
