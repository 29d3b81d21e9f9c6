package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"chirper/internal/model"
	"chirper/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	enricher *Enricher
}

func NewPostService(postRepo repository.PostRepository, enricher *Enricher) *PostService {
	return &PostService{
		postRepo: postRepo,
		enricher: enricher,
	}
}

// Create creates a new post or, when parent_post_id is set, a reply.
func (s *PostService) Create(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, model.ErrBodyRequired
	}
	if len(body) > model.MaxPostBodyLength {
		return nil, model.ErrBodyTooLong
	}

	if req.ParentPostID != nil {
		exists, err := s.postRepo.Exists(ctx, *req.ParentPostID)
		if err != nil {
			return nil, fmt.Errorf("check parent exists: %w", err)
		}
		if !exists {
			return nil, model.ErrParentNotFound
		}
	}

	post, err := s.postRepo.Create(ctx, userID, body, req.ParentPostID)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	return post, nil
}

// GetByID retrieves a single post enriched for the viewer.
func (s *PostService) GetByID(ctx context.Context, postID int64, viewerID *int64) (*model.EnrichedPost, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	enriched, err := s.enricher.Enrich(ctx, *post, viewerID)
	if err != nil {
		return nil, fmt.Errorf("enrich post: %w", err)
	}

	return &enriched, nil
}

// Delete soft-deletes a post (only the owner can delete).
func (s *PostService) Delete(ctx context.Context, postID, userID int64) error {
	return s.postRepo.Delete(ctx, postID, userID)
}

// Like records a like for the viewer on a post.
func (s *PostService) Like(ctx context.Context, postID, userID int64) error {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return fmt.Errorf("check post exists: %w", err)
	}
	if !exists {
		return model.ErrPostNotFound
	}

	if err := s.postRepo.Like(ctx, postID, userID); err != nil {
		return err
	}

	log.Printf("[PostService] User %d liked post %d", userID, postID)
	return nil
}

// Unlike removes the viewer's like from a post.
func (s *PostService) Unlike(ctx context.Context, postID, userID int64) error {
	if err := s.postRepo.Unlike(ctx, postID, userID); err != nil {
		return err
	}

	log.Printf("[PostService] User %d unliked post %d", userID, postID)
	return nil
}
