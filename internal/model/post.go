package model

import (
	"errors"
	"time"
)

// Post represents a microblog post. A nil ParentPostID marks a top-level
// post; non-nil marks a reply to another post.
type Post struct {
	ID           int64      `db:"id" json:"id"`
	AuthorID     int64      `db:"author_id" json:"author_id"`
	Body         string     `db:"body" json:"body"`
	ParentPostID *int64     `db:"parent_post_id" json:"parent_post_id,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`

	// Joined fields (not in posts table)
	Author       *UserSummary `json:"author,omitempty"`
	ParentAuthor *string      `json:"parent_author,omitempty"` // parent post author's handle
}

// EnrichedPost is the view-model returned by the feed endpoints: post
// fields plus viewer- and time-sensitive derived values. CreatedAt is a
// relative duration string such as "3 hours".
type EnrichedPost struct {
	ID           int64       `json:"id"`
	Body         string      `json:"body"`
	Author       UserSummary `json:"author"`
	ParentPostID *int64      `json:"parent_post_id,omitempty"`
	ParentAuthor *string     `json:"parent_author,omitempty"`
	LikeCount    int         `json:"like_count"`
	ReplyCount   int         `json:"reply_count"`
	IsLiked      bool        `json:"is_liked"`
	CreatedAt    string      `json:"created_at"`
}

// FeedResponse wraps an enriched post collection.
type FeedResponse struct {
	Posts []EnrichedPost `json:"posts"`
}

// CreatePostRequest is the request body for creating a post or reply.
type CreatePostRequest struct {
	Body         string `json:"body"`
	ParentPostID *int64 `json:"parent_post_id,omitempty"`
}

// Post constraints
const (
	MaxPostBodyLength = 280
)

// Post errors
var (
	ErrPostNotFound   = errors.New("post not found")
	ErrParentNotFound = errors.New("parent post not found")
	ErrNotPostOwner   = errors.New("not the owner of this post")
	ErrBodyRequired   = errors.New("post body is required")
	ErrBodyTooLong    = errors.New("post body too long")
)

// Like errors
var (
	ErrAlreadyLiked = errors.New("post already liked")
	ErrNotLiked     = errors.New("post not liked")
)
