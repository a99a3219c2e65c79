package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/campusbites/canteenhub/internal/cache"
	"github.com/campusbites/canteenhub/internal/config"
	"github.com/campusbites/canteenhub/internal/domain/feedback"
	"github.com/campusbites/canteenhub/internal/http/middlewares"
	"github.com/campusbites/canteenhub/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	defaultFeedbackPageSize = 20
	maxFeedbackPageSize     = 100
)

type FeedbackStore interface {
	Create(ctx context.Context, fb feedback.Feedback) error
	ListByUser(ctx context.Context, userID string) ([]feedback.Feedback, error)
	ListCursor(ctx context.Context, limit int, afterCreatedAt time.Time, afterID string) ([]feedback.Feedback, bool, error)
}

type FeedbackHandler struct {
	store FeedbackStore
	cache *cache.Cache
}

func NewFeedbackHandler(store FeedbackStore, listCache *cache.Cache) *FeedbackHandler {
	return &FeedbackHandler{
		store: store,
		cache: listCache,
	}
}

func (h *FeedbackHandler) Submit(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondError(ctx, http.StatusUnauthorized, "No token provided")
		return
	}

	var req feedback.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	fb := feedback.NewFromCreateRequest(userID, req)

	if err := h.store.Create(cctx, fb); err != nil {
		RespondInternal(ctx, "Could not save feedback")
		return
	}

	if h.cache != nil {
		h.cache.Delete(feedbackCacheKey(userID))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Feedback submitted successfully",
	})
}

func (h *FeedbackHandler) GetUserFeedback(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondError(ctx, http.StatusUnauthorized, "No token provided")
		return
	}

	if h.cache != nil {
		if cached, hit := h.cache.Get(feedbackCacheKey(userID)); hit {
			if items, castOK := cached.([]feedback.Feedback); castOK {
				RespondJSONWithETag(ctx, http.StatusOK, gin.H{"feedback": items})
				return
			}
		}
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	items, err := h.store.ListByUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not load feedback")
		return
	}

	if h.cache != nil {
		h.cache.Set(feedbackCacheKey(userID), items)
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"feedback": items})
}

// ListAll pages through everyone's feedback for admins.
func (h *FeedbackHandler) ListAll(ctx *gin.Context) {
	limit := defaultFeedbackPageSize

	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)

		if err != nil || n < 1 {
			RespondBadRequest(ctx, "limit must be a positive integer")
			return
		}

		if n > maxFeedbackPageSize {
			n = maxFeedbackPageSize
		}

		limit = n
	}

	var afterCreatedAt time.Time
	var afterID string

	if raw := ctx.Query("cursor"); raw != "" {
		cursor, err := utils.DecodeFeedbackCursor(raw)

		if err != nil {
			RespondBadRequest(ctx, "invalid cursor")
			return
		}

		afterCreatedAt = cursor.CreatedAt
		afterID = cursor.ID
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	items, hasMore, err := h.store.ListCursor(cctx, limit, afterCreatedAt, afterID)

	if err != nil {
		RespondInternal(ctx, "Could not load feedback")
		return
	}

	body := gin.H{"feedback": items}

	if hasMore && len(items) > 0 {
		last := items[len(items)-1]

		next, encErr := utils.EncodeFeedbackCursor(last.CreatedAt, last.ID)

		if encErr == nil {
			body["nextCursor"] = next
		}
	}

	ctx.JSON(http.StatusOK, body)
}

func feedbackCacheKey(userID string) string {
	return "feedback:user:" + userID
}
