package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"chirper/internal/model"
)

// =============================================================================
// MOCK USER REPOSITORY
// =============================================================================

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func aliceUserRepo() *mockUserRepository {
	return &mockUserRepository{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			if username == "alice" {
				return &model.User{ID: 7, Username: "alice"}, nil
			}
			return nil, model.ErrUserNotFound
		},
	}
}

// =============================================================================
// FEED TESTS
// =============================================================================

func TestFeedService_AuthoredPosts(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// The repo only hands back top-level posts; the service must not
	// re-filter or re-order them.
	mockPosts := &mockPostRepository{
		getAuthoredPostsFn: func(ctx context.Context, authorID int64) ([]model.Post, error) {
			if authorID != 7 {
				t.Errorf("fetched posts for author %d, want 7", authorID)
			}
			return []model.Post{
				testPost(20, now.Add(-1*time.Hour)),
				testPost(10, now.Add(-2*time.Hour)),
			}, nil
		},
		getAuthoredRepliesFn: func(ctx context.Context, authorID int64) ([]model.Post, error) {
			t.Error("replies fetch must not run for the posts feed")
			return nil, nil
		},
	}

	svc := NewFeedService(aliceUserRepo(), mockPosts, newTestEnricher(mockPosts, now))

	feed, err := svc.AuthoredPosts(context.Background(), "alice", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(feed.Posts) != 2 {
		t.Fatalf("len = %d, want 2", len(feed.Posts))
	}
	if feed.Posts[0].ID != 20 || feed.Posts[1].ID != 10 {
		t.Errorf("order = [%d, %d], want [20, 10]", feed.Posts[0].ID, feed.Posts[1].ID)
	}
}

func TestFeedService_AuthoredReplies(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	parent := "bob"

	mockPosts := &mockPostRepository{
		getAuthoredRepliesFn: func(ctx context.Context, authorID int64) ([]model.Post, error) {
			parentID := int64(5)
			reply := testPost(30, now.Add(-10*time.Minute))
			reply.ParentPostID = &parentID
			reply.ParentAuthor = &parent
			return []model.Post{reply}, nil
		},
	}

	svc := NewFeedService(aliceUserRepo(), mockPosts, newTestEnricher(mockPosts, now))

	feed, err := svc.AuthoredReplies(context.Background(), "alice", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(feed.Posts) != 1 {
		t.Fatalf("len = %d, want 1", len(feed.Posts))
	}
	got := feed.Posts[0]
	if got.ParentPostID == nil || *got.ParentPostID != 5 {
		t.Error("reply must carry its parent post id")
	}
	if got.ParentAuthor == nil || *got.ParentAuthor != "bob" {
		t.Error("reply must carry the parent author's handle")
	}
}

func TestFeedService_LikedPosts_OrderedByLikeTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Post A is newer than post B, but B was liked last. The liked feed
	// follows the repo's like-time ordering: B first.
	postA := testPost(1, now.Add(-1*time.Hour))
	postB := testPost(2, now.Add(-48*time.Hour))

	mockPosts := &mockPostRepository{
		getLikedPostsFn: func(ctx context.Context, userID int64) ([]model.Post, error) {
			return []model.Post{postB, postA}, nil
		},
	}

	svc := NewFeedService(aliceUserRepo(), mockPosts, newTestEnricher(mockPosts, now))

	feed, err := svc.LikedPosts(context.Background(), "alice", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(feed.Posts) != 2 {
		t.Fatalf("len = %d, want 2", len(feed.Posts))
	}
	if feed.Posts[0].ID != 2 || feed.Posts[1].ID != 1 {
		t.Errorf("order = [%d, %d], want [2, 1] (like time, not post time)",
			feed.Posts[0].ID, feed.Posts[1].ID)
	}
}

func TestFeedService_UnknownHandle(t *testing.T) {
	mockPosts := &mockPostRepository{}
	svc := NewFeedService(&mockUserRepository{}, mockPosts, newTestEnricher(mockPosts, time.Now()))

	feeds := map[string]func(context.Context, string, *int64) (*model.FeedResponse, error){
		"posts":   svc.AuthoredPosts,
		"replies": svc.AuthoredReplies,
		"likes":   svc.LikedPosts,
	}

	for name, feed := range feeds {
		t.Run(name, func(t *testing.T) {
			_, err := feed(context.Background(), "ghost_user_404", nil)
			if !errors.Is(err, model.ErrUserNotFound) {
				t.Errorf("error = %v, want ErrUserNotFound", err)
			}
		})
	}
}

func TestFeedService_EmptyFeed(t *testing.T) {
	mockPosts := &mockPostRepository{}
	svc := NewFeedService(aliceUserRepo(), mockPosts, newTestEnricher(mockPosts, time.Now()))

	feed, err := svc.AuthoredPosts(context.Background(), "alice", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed.Posts == nil {
		t.Error("posts must be an empty slice, not nil")
	}
	if len(feed.Posts) != 0 {
		t.Errorf("len = %d, want 0", len(feed.Posts))
	}
}

func TestFeedService_ViewerLikesPropagate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	viewerID := int64(42)

	mockPosts := &mockPostRepository{
		getAuthoredPostsFn: func(ctx context.Context, authorID int64) ([]model.Post, error) {
			return []model.Post{testPost(1, now), testPost(2, now)}, nil
		},
		checkLikesFn: func(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
			if userID != viewerID {
				t.Errorf("checked likes for user %d, want %d", userID, viewerID)
			}
			return map[int64]bool{1: true, 2: false}, nil
		},
	}

	svc := NewFeedService(aliceUserRepo(), mockPosts, newTestEnricher(mockPosts, now))

	feed, err := svc.AuthoredPosts(context.Background(), "alice", &viewerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !feed.Posts[0].IsLiked || feed.Posts[1].IsLiked {
		t.Errorf("is_liked = [%v, %v], want [true, false]",
			feed.Posts[0].IsLiked, feed.Posts[1].IsLiked)
	}
}
