package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chirper/internal/httputil"
	"chirper/internal/model"
	"chirper/internal/service"
	"chirper/internal/transport/http/middleware"
)

type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// GetPosts handles GET /users/{handle}/posts
// Returns the user's top-level posts, newest first, enriched for the
// viewer (anonymous viewers get is_liked=false).
func (h *FeedHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.feedService.AuthoredPosts)
}

// GetReplies handles GET /users/{handle}/replies
func (h *FeedHandler) GetReplies(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.feedService.AuthoredReplies)
}

// GetLikes handles GET /users/{handle}/likes
// Ordered by when the user liked each post, most recent first.
func (h *FeedHandler) GetLikes(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.feedService.LikedPosts)
}

func (h *FeedHandler) serve(
	w http.ResponseWriter,
	r *http.Request,
	feed func(ctx context.Context, handle string, viewerID *int64) (*model.FeedResponse, error),
) {
	handle := chi.URLParam(r, "handle")

	var viewerID *int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	response, err := feed(r.Context(), handle, viewerID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] Feed handler: handle=%s err=%v", handle, err)
		httputil.WriteInternalError(w, "Failed to get feed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, response)
}
