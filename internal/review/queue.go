package review

import (
	"sort"
	"time"

	"github.com/prepdeck/prepdeck/internal/domain"
)

// Daily volume and time-cost defaults for queue suggestions.
const (
	minDailyCount     = 5
	maxDailyCount     = 20
	avgMinutesPerItem = 2
)

// DueItems filters to the items that belong in a review queue right now:
// active and past their next-review time.
func DueItems(items []domain.ReviewItem, now time.Time) []domain.ReviewItem {
	var due []domain.ReviewItem
	for _, item := range items {
		if item.IsActive && !item.NextReview.After(now) {
			due = append(due, item)
		}
	}
	return due
}

// OrderForSession sorts due items for presentation: highest priority first,
// and among equal priorities the longest-overdue item first. The tie-break
// keeps the ordering deterministic across repeated queue reads.
func OrderForSession(items []domain.ReviewItem) []domain.ReviewItem {
	ordered := make([]domain.ReviewItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].NextReview.Before(ordered[j].NextReview)
	})
	return ordered
}

// EstimateReviewTime returns the expected minutes needed to clear the given
// number of items, at roughly two minutes per question.
func EstimateReviewTime(itemCount int) int {
	return itemCount * avgMinutesPerItem
}

// SuggestedDailyCount recommends how many items to review today: the due
// backlog, held between 5 and 20 regardless of its size.
func SuggestedDailyCount(totalDue int) int {
	if totalDue < minDailyCount {
		return minDailyCount
	}
	if totalDue > maxDailyCount {
		return maxDailyCount
	}
	return totalDue
}
