package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/campusbites/canteenhub/internal/domain/feedback"
)

type FeedbackRepo struct {
	mu    sync.RWMutex
	items []feedback.Feedback
}

func NewFeedbackRepo() *FeedbackRepo {
	return &FeedbackRepo{}
}

func (r *FeedbackRepo) Create(ctx context.Context, fb feedback.Feedback) error {
	r.mu.Lock()
	r.items = append(r.items, fb)
	r.mu.Unlock()

	return nil
}

func (r *FeedbackRepo) ListByUser(ctx context.Context, userID string) ([]feedback.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []feedback.Feedback{}

	for _, fb := range r.items {
		if fb.UserID == userID {
			out = append(out, fb)
		}
	}

	sortNewestFirst(out)

	return out, nil
}

func (r *FeedbackRepo) ListCursor(ctx context.Context, limit int, afterCreatedAt time.Time, afterID string) ([]feedback.Feedback, bool, error) {
	r.mu.RLock()
	all := make([]feedback.Feedback, len(r.items))
	copy(all, r.items)
	r.mu.RUnlock()

	sortNewestFirst(all)

	// skip everything at or before the cursor position

	start := 0

	if afterID != "" {
		for i, fb := range all {
			if fb.ID == afterID && fb.CreatedAt.Equal(afterCreatedAt) {
				start = i + 1
				break
			}
		}
	}

	rest := all[start:]

	if len(rest) > limit {
		return rest[:limit], true, nil
	}

	return rest, false, nil
}

func sortNewestFirst(items []feedback.Feedback) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
