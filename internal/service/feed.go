package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"chirper/internal/model"
	"chirper/internal/repository"
)

// FeedService assembles the three profile feeds: a user's top-level
// posts, their replies, and the posts they liked. Each feed resolves
// the handle, runs one relation-expanded fetch, and enriches the
// result set in fetch order.
type FeedService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	enricher *Enricher
}

func NewFeedService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	enricher *Enricher,
) *FeedService {
	return &FeedService{
		userRepo: userRepo,
		postRepo: postRepo,
		enricher: enricher,
	}
}

// AuthoredPosts returns the user's top-level posts, newest first.
func (s *FeedService) AuthoredPosts(ctx context.Context, handle string, viewerID *int64) (*model.FeedResponse, error) {
	return s.assemble(ctx, handle, viewerID, s.postRepo.GetAuthoredPosts)
}

// AuthoredReplies returns the user's replies, newest first.
func (s *FeedService) AuthoredReplies(ctx context.Context, handle string, viewerID *int64) (*model.FeedResponse, error) {
	return s.assemble(ctx, handle, viewerID, s.postRepo.GetAuthoredReplies)
}

// LikedPosts returns the posts the user liked, most recently liked
// first. The ordering follows the like's timestamp, not the post's.
func (s *FeedService) LikedPosts(ctx context.Context, handle string, viewerID *int64) (*model.FeedResponse, error) {
	return s.assemble(ctx, handle, viewerID, s.postRepo.GetLikedPosts)
}

func (s *FeedService) assemble(
	ctx context.Context,
	handle string,
	viewerID *int64,
	fetch func(ctx context.Context, userID int64) ([]model.Post, error),
) (*model.FeedResponse, error) {
	startTime := time.Now()

	user, err := s.userRepo.GetByUsername(ctx, handle)
	if err != nil {
		return nil, err
	}

	posts, err := fetch(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}

	enriched, err := s.enricher.EnrichAll(ctx, posts, viewerID)
	if err != nil {
		return nil, fmt.Errorf("enrich posts: %w", err)
	}

	log.Printf("[FeedService] Feed OK: handle=%s posts=%d duration=%v",
		handle, len(enriched), time.Since(startTime))

	return &model.FeedResponse{Posts: enriched}, nil
}
