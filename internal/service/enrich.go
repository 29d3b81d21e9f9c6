package service

import (
	"context"
	"fmt"
	"time"

	"chirper/internal/model"
	"chirper/internal/repository"
	"chirper/internal/timeutil"
)

// Enricher attaches the viewer- and time-sensitive fields to raw posts:
// like count, reply count, whether the viewer liked the post, and a
// relative timestamp. Counts are read live from the store; nothing is
// cached. A nil viewer always yields is_liked=false.
type Enricher struct {
	postRepo repository.PostRepository
	now      func() time.Time
}

func NewEnricher(postRepo repository.PostRepository) *Enricher {
	return &Enricher{
		postRepo: postRepo,
		now:      time.Now,
	}
}

// Enrich builds the view-model for a single post. The post must come
// from the store with its author joined in.
func (e *Enricher) Enrich(ctx context.Context, post model.Post, viewerID *int64) (model.EnrichedPost, error) {
	likeCount, err := e.postRepo.CountLikes(ctx, post.ID)
	if err != nil {
		return model.EnrichedPost{}, fmt.Errorf("count likes: %w", err)
	}

	replyCount, err := e.postRepo.CountReplies(ctx, post.ID)
	if err != nil {
		return model.EnrichedPost{}, fmt.Errorf("count replies: %w", err)
	}

	isLiked := false
	if viewerID != nil {
		isLiked, err = e.postRepo.IsLiked(ctx, *viewerID, post.ID)
		if err != nil {
			return model.EnrichedPost{}, fmt.Errorf("check like: %w", err)
		}
	}

	return e.assemble(post, likeCount, replyCount, isLiked, e.now()), nil
}

// EnrichAll enriches a fetched post set with three queries keyed by the
// post-id set instead of three queries per post. The returned slice
// preserves the input order.
func (e *Enricher) EnrichAll(ctx context.Context, posts []model.Post, viewerID *int64) ([]model.EnrichedPost, error) {
	postIDs := make([]int64, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	likeCounts, err := e.postRepo.CountLikesByPost(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("count likes by post: %w", err)
	}

	replyCounts, err := e.postRepo.CountRepliesByPost(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("count replies by post: %w", err)
	}

	liked := map[int64]bool{}
	if viewerID != nil {
		liked, err = e.postRepo.CheckLikes(ctx, *viewerID, postIDs)
		if err != nil {
			return nil, fmt.Errorf("check likes: %w", err)
		}
	}

	now := e.now()
	enriched := make([]model.EnrichedPost, len(posts))
	for i, p := range posts {
		enriched[i] = e.assemble(p, likeCounts[p.ID], replyCounts[p.ID], liked[p.ID], now)
	}
	return enriched, nil
}

func (e *Enricher) assemble(post model.Post, likeCount, replyCount int, isLiked bool, now time.Time) model.EnrichedPost {
	var author model.UserSummary
	if post.Author != nil {
		author = *post.Author
	}

	return model.EnrichedPost{
		ID:           post.ID,
		Body:         post.Body,
		Author:       author,
		ParentPostID: post.ParentPostID,
		ParentAuthor: post.ParentAuthor,
		LikeCount:    likeCount,
		ReplyCount:   replyCount,
		IsLiked:      isLiked,
		CreatedAt:    timeutil.Relative(post.CreatedAt, now),
	}
}
