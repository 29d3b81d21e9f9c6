package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"chirper/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// feedPostRow is the flattened shape of a relation-expanded post fetch:
// post columns plus the author summary and, for replies, the parent
// post author's handle.
type feedPostRow struct {
	ID                int64      `db:"id"`
	AuthorID          int64      `db:"author_id"`
	Body              string     `db:"body"`
	ParentPostID      *int64     `db:"parent_post_id"`
	CreatedAt         time.Time  `db:"created_at"`
	AuthorUsername    string     `db:"author_username"`
	AuthorDisplayName *string    `db:"author_display_name"`
	AuthorAvatarURL   *string    `db:"author_avatar_url"`
	ParentAuthor      *string    `db:"parent_author"`
}

func (row feedPostRow) toPost() model.Post {
	return model.Post{
		ID:           row.ID,
		AuthorID:     row.AuthorID,
		Body:         row.Body,
		ParentPostID: row.ParentPostID,
		CreatedAt:    row.CreatedAt,
		Author: &model.UserSummary{
			ID:          row.AuthorID,
			Username:    row.AuthorUsername,
			DisplayName: row.AuthorDisplayName,
			AvatarURL:   row.AuthorAvatarURL,
		},
		ParentAuthor: row.ParentAuthor,
	}
}

// expandedSelect joins the author (and parent post's author handle) in
// one round trip so feed assembly never looks up authors per post.
const expandedSelect = `
	SELECT p.id, p.author_id, p.body, p.parent_post_id, p.created_at,
	       u.username AS author_username,
	       pr.display_name AS author_display_name,
	       pr.avatar_url AS author_avatar_url,
	       pu.username AS parent_author
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN profiles pr ON pr.user_id = p.author_id
	LEFT JOIN posts pp ON pp.id = p.parent_post_id
	LEFT JOIN users pu ON pu.id = pp.author_id
`

// Create inserts a new post. parentPostID marks the row as a reply.
func (r *postRepository) Create(ctx context.Context, authorID int64, body string, parentPostID *int64) (*model.Post, error) {
	query := `
		INSERT INTO posts (author_id, body, parent_post_id)
		VALUES ($1, $2, $3)
		RETURNING id, author_id, body, parent_post_id, created_at
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, authorID, body, parentPostID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, model.ErrParentNotFound
		}
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return &post, nil
}

// GetByID retrieves a single post with its author and, if it is a
// reply, the parent post author's handle.
func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := expandedSelect + ` WHERE p.id = $1 AND p.deleted_at IS NULL`

	var row feedPostRow
	err := r.db.GetContext(ctx, &row, query, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	post := row.toPost()
	return &post, nil
}

// Delete performs a soft delete on a post owned by userID.
func (r *postRepository) Delete(ctx context.Context, postID, userID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE posts SET deleted_at = NOW()
		WHERE id = $1 AND author_id = $2 AND deleted_at IS NULL
	`, postID, userID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		// Check if post exists but belongs to a different user
		var exists bool
		r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1 AND deleted_at IS NULL)`, postID)
		if exists {
			return model.ErrNotPostOwner
		}
		return model.ErrPostNotFound
	}

	return nil
}

// Exists checks if a post exists and is not deleted.
func (r *postRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1 AND deleted_at IS NULL)`, postID)
	if err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	return exists, nil
}

// GetAuthoredPosts returns a user's top-level posts, newest first.
func (r *postRepository) GetAuthoredPosts(ctx context.Context, authorID int64) ([]model.Post, error) {
	query := expandedSelect + `
		WHERE p.author_id = $1 AND p.parent_post_id IS NULL AND p.deleted_at IS NULL
		ORDER BY p.created_at DESC
	`
	return r.selectExpanded(ctx, query, authorID)
}

// GetAuthoredReplies returns a user's replies, newest first, with the
// parent post author's handle joined in.
func (r *postRepository) GetAuthoredReplies(ctx context.Context, authorID int64) ([]model.Post, error) {
	query := expandedSelect + `
		WHERE p.author_id = $1 AND p.parent_post_id IS NOT NULL AND p.deleted_at IS NULL
		ORDER BY p.created_at DESC
	`
	return r.selectExpanded(ctx, query, authorID)
}

// GetLikedPosts returns the posts a user has liked, ordered by when the
// like happened (not when the post was written).
func (r *postRepository) GetLikedPosts(ctx context.Context, userID int64) ([]model.Post, error) {
	query := `
		SELECT p.id, p.author_id, p.body, p.parent_post_id, p.created_at,
		       u.username AS author_username,
		       pr.display_name AS author_display_name,
		       pr.avatar_url AS author_avatar_url,
		       pu.username AS parent_author
		FROM post_likes l
		JOIN posts p ON p.id = l.post_id
		JOIN users u ON u.id = p.author_id
		LEFT JOIN profiles pr ON pr.user_id = p.author_id
		LEFT JOIN posts pp ON pp.id = p.parent_post_id
		LEFT JOIN users pu ON pu.id = pp.author_id
		WHERE l.user_id = $1 AND p.deleted_at IS NULL
		ORDER BY l.created_at DESC
	`
	return r.selectExpanded(ctx, query, userID)
}

func (r *postRepository) selectExpanded(ctx context.Context, query string, args ...interface{}) ([]model.Post, error) {
	var rows []feedPostRow
	err := r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}

	posts := make([]model.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.toPost()
	}
	return posts, nil
}

// CountLikes returns the number of likes on a post.
func (r *postRepository) CountLikes(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

// CountReplies returns the number of replies to a post.
func (r *postRepository) CountReplies(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts WHERE parent_post_id = $1 AND deleted_at IS NULL`, postID)
	if err != nil {
		return 0, fmt.Errorf("count replies: %w", err)
	}
	return count, nil
}

// IsLiked reports whether userID has liked postID.
func (r *postRepository) IsLiked(ctx context.Context, userID, postID int64) (bool, error) {
	var liked bool
	err := r.db.GetContext(ctx, &liked, `SELECT EXISTS(SELECT 1 FROM post_likes WHERE user_id = $1 AND post_id = $2)`, userID, postID)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return liked, nil
}

// CountLikesByPost returns like counts for a set of posts in one query.
// Posts with no likes are present in the map with a zero count.
func (r *postRepository) CountLikesByPost(ctx context.Context, postIDs []int64) (map[int64]int, error) {
	result := make(map[int64]int, len(postIDs))
	for _, id := range postIDs {
		result[id] = 0
	}
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT post_id, COUNT(*) AS n
		FROM post_likes
		WHERE post_id = ANY($1)
		GROUP BY post_id
	`
	rows := []struct {
		PostID int64 `db:"post_id"`
		N      int   `db:"n"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(postIDs)); err != nil {
		return nil, fmt.Errorf("count likes by post: %w", err)
	}
	for _, row := range rows {
		result[row.PostID] = row.N
	}
	return result, nil
}

// CountRepliesByPost returns reply counts for a set of posts in one query.
func (r *postRepository) CountRepliesByPost(ctx context.Context, postIDs []int64) (map[int64]int, error) {
	result := make(map[int64]int, len(postIDs))
	for _, id := range postIDs {
		result[id] = 0
	}
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT parent_post_id AS post_id, COUNT(*) AS n
		FROM posts
		WHERE parent_post_id = ANY($1) AND deleted_at IS NULL
		GROUP BY parent_post_id
	`
	rows := []struct {
		PostID int64 `db:"post_id"`
		N      int   `db:"n"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(postIDs)); err != nil {
		return nil, fmt.Errorf("count replies by post: %w", err)
	}
	for _, row := range rows {
		result[row.PostID] = row.N
	}
	return result, nil
}

// CheckLikes checks which posts the user has liked.
// Returns a map of post_id -> liked (true/false).
func (r *postRepository) CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(postIDs))
	for _, id := range postIDs {
		result[id] = false
	}
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `SELECT post_id FROM post_likes WHERE user_id = $1 AND post_id = ANY($2)`
	var likedIDs []int64
	err := r.db.SelectContext(ctx, &likedIDs, query, userID, pq.Array(postIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("check likes: %w", err)
	}
	for _, id := range likedIDs {
		result[id] = true
	}

	return result, nil
}

// Like inserts a like record. Returns ErrAlreadyLiked if duplicate.
func (r *postRepository) Like(ctx context.Context, postID, userID int64) error {
	query := `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrAlreadyLiked
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

// Unlike deletes a like record. Returns ErrNotLiked if not found.
func (r *postRepository) Unlike(ctx context.Context, postID, userID int64) error {
	query := `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotLiked
	}
	return nil
}
