package repository

import (
	"context"
	"time"

	"chirper/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type ProfileRepository interface {
	// Create inserts a profile row; fails with model.ErrProfileExists if
	// the user already has one.
	Create(ctx context.Context, profile *model.Profile) (*model.Profile, error)
	GetByUserID(ctx context.Context, userID int64) (*model.Profile, error)
	// Update applies only the non-nil fields of the update. Returns
	// model.ErrProfileNotFound if the user has no profile row.
	Update(ctx context.Context, userID int64, update model.ProfileUpdate) (*model.Profile, error)
}

type PostRepository interface {
	Create(ctx context.Context, authorID int64, body string, parentPostID *int64) (*model.Post, error)
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	Delete(ctx context.Context, postID, userID int64) error
	Exists(ctx context.Context, postID int64) (bool, error)

	// Feed fetches: author (and parent author handle where relevant)
	// joined in, newest-first.
	GetAuthoredPosts(ctx context.Context, authorID int64) ([]model.Post, error)
	GetAuthoredReplies(ctx context.Context, authorID int64) ([]model.Post, error)
	// GetLikedPosts orders by the like's created_at, not the post's.
	GetLikedPosts(ctx context.Context, userID int64) ([]model.Post, error)

	// Per-post enrichment lookups
	CountLikes(ctx context.Context, postID int64) (int, error)
	CountReplies(ctx context.Context, postID int64) (int, error)
	IsLiked(ctx context.Context, userID, postID int64) (bool, error)

	// Batch enrichment lookups keyed by post-id set
	CountLikesByPost(ctx context.Context, postIDs []int64) (map[int64]int, error)
	CountRepliesByPost(ctx context.Context, postIDs []int64) (map[int64]int, error)
	CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)

	Like(ctx context.Context, postID, userID int64) error
	Unlike(ctx context.Context, postID, userID int64) error
}

type FollowRepository interface {
	CountFollowers(ctx context.Context, userID int64) (int, error)
	CountFollowing(ctx context.Context, userID int64) (int, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}
