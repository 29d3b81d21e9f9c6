package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"chirper/internal/model"
)

// =============================================================================
// MOCK PROFILE + FOLLOW REPOSITORIES
// =============================================================================

type mockProfileRepository struct {
	createFn      func(ctx context.Context, profile *model.Profile) (*model.Profile, error)
	getByUserIDFn func(ctx context.Context, userID int64) (*model.Profile, error)
	updateFn      func(ctx context.Context, userID int64, update model.ProfileUpdate) (*model.Profile, error)

	updateCalls int
}

func (m *mockProfileRepository) Create(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	if m.createFn != nil {
		return m.createFn(ctx, profile)
	}
	return profile, nil
}

func (m *mockProfileRepository) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, model.ErrProfileNotFound
}

func (m *mockProfileRepository) Update(ctx context.Context, userID int64, update model.ProfileUpdate) (*model.Profile, error) {
	m.updateCalls++
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, update)
	}
	return &model.Profile{UserID: userID}, nil
}

type mockFollowRepository struct {
	countFollowersFn func(ctx context.Context, userID int64) (int, error)
	countFollowingFn func(ctx context.Context, userID int64) (int, error)
}

func (m *mockFollowRepository) CountFollowers(ctx context.Context, userID int64) (int, error) {
	if m.countFollowersFn != nil {
		return m.countFollowersFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockFollowRepository) CountFollowing(ctx context.Context, userID int64) (int, error) {
	if m.countFollowingFn != nil {
		return m.countFollowingFn(ctx, userID)
	}
	return 0, nil
}

func strPtr(s string) *string { return &s }

// =============================================================================
// UPDATE TESTS
// =============================================================================

func TestProfileService_Update_PartialFieldsOnly(t *testing.T) {
	existingName := "Alice"
	mockProfiles := &mockProfileRepository{
		updateFn: func(ctx context.Context, userID int64, update model.ProfileUpdate) (*model.Profile, error) {
			// Only the supplied field reaches the store
			if update.Bio == nil || *update.Bio != "new bio" {
				t.Error("bio should carry the new value")
			}
			if update.DisplayName != nil {
				t.Error("display_name was not in the update and must stay nil")
			}
			if update.DOB != nil {
				t.Error("dob was not in the update and must stay nil")
			}
			return &model.Profile{
				UserID:      userID,
				DisplayName: &existingName,
				Bio:         update.Bio,
			}, nil
		},
	}
	svc := NewProfileService(mockProfiles, &mockUserRepository{}, &mockFollowRepository{})

	updated, err := svc.Update(context.Background(), 7, model.ProfileUpdate{Bio: strPtr("new bio")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.DisplayName == nil || *updated.DisplayName != "Alice" {
		t.Error("untouched field must keep its prior value")
	}
	if updated.Bio == nil || *updated.Bio != "new bio" {
		t.Error("supplied field must take the new value")
	}
}

func TestProfileService_Update_Validation(t *testing.T) {
	tests := []struct {
		name    string
		update  model.ProfileUpdate
		wantErr error
	}{
		{
			name:    "bio too long",
			update:  model.ProfileUpdate{Bio: strPtr(strings.Repeat("x", model.MaxBioLength+1))},
			wantErr: model.ErrBioTooLong,
		},
		{
			name:    "display name too long",
			update:  model.ProfileUpdate{DisplayName: strPtr(strings.Repeat("x", model.MaxDisplayNameLength+1))},
			wantErr: model.ErrNameTooLong,
		},
		{
			name:   "bio at limit is fine",
			update: model.ProfileUpdate{Bio: strPtr(strings.Repeat("x", model.MaxBioLength))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewProfileService(&mockProfileRepository{}, &mockUserRepository{}, &mockFollowRepository{})
			_, err := svc.Update(context.Background(), 7, tt.update)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProfileService_Update_EmptyIsRead(t *testing.T) {
	mockProfiles := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return &model.Profile{UserID: userID}, nil
		},
	}
	svc := NewProfileService(mockProfiles, &mockUserRepository{}, &mockFollowRepository{})

	profile, err := svc.Update(context.Background(), 7, model.ProfileUpdate{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.UserID != 7 {
		t.Errorf("user_id = %d, want 7", profile.UserID)
	}
	if mockProfiles.updateCalls != 0 {
		t.Errorf("empty update ran %d store updates, want 0", mockProfiles.updateCalls)
	}
}

func TestProfileService_Create_Duplicate(t *testing.T) {
	mockProfiles := &mockProfileRepository{
		createFn: func(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
			return nil, model.ErrProfileExists
		},
	}
	svc := NewProfileService(mockProfiles, &mockUserRepository{}, &mockFollowRepository{})

	_, err := svc.Create(context.Background(), &model.Profile{UserID: 7})
	if !errors.Is(err, model.ErrProfileExists) {
		t.Errorf("error = %v, want ErrProfileExists", err)
	}
}

// =============================================================================
// VIEW TESTS
// =============================================================================

func TestProfileService_PublicProfile(t *testing.T) {
	joined := time.Date(2023, 3, 15, 8, 0, 0, 0, time.UTC)
	dob := time.Date(1990, 7, 4, 0, 0, 0, 0, time.UTC)

	mockProfiles := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return &model.Profile{
				UserID:      userID,
				DisplayName: strPtr("Alice A."),
				Bio:         strPtr("hello"),
				DOB:         &dob,
				CreatedAt:   joined,
			}, nil
		},
	}
	mockFollows := &mockFollowRepository{
		countFollowersFn: func(ctx context.Context, userID int64) (int, error) { return 12, nil },
		countFollowingFn: func(ctx context.Context, userID int64) (int, error) { return 34, nil },
	}
	svc := NewProfileService(mockProfiles, aliceUserRepo(), mockFollows)

	view, err := svc.PublicProfile(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.JoinedAt != "March 2023" {
		t.Errorf("joined_at = %q, want %q", view.JoinedAt, "March 2023")
	}
	if view.DOB == nil || *view.DOB != "July 4, 1990" {
		t.Errorf("dob = %v, want %q", view.DOB, "July 4, 1990")
	}
	if view.FollowerCount != 12 || view.FollowingCount != 34 {
		t.Errorf("follow counts = %d/%d, want 12/34", view.FollowerCount, view.FollowingCount)
	}
	if view.Username != "alice" {
		t.Errorf("username = %q, want %q", view.Username, "alice")
	}
}

func TestProfileService_PublicProfile_UnknownHandle(t *testing.T) {
	svc := NewProfileService(&mockProfileRepository{}, &mockUserRepository{}, &mockFollowRepository{})

	_, err := svc.PublicProfile(context.Background(), "ghost_user_404")
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}

func TestProfileService_PublicProfile_CountFailureDegrades(t *testing.T) {
	mockProfiles := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return &model.Profile{UserID: userID, CreatedAt: time.Now()}, nil
		},
	}
	mockFollows := &mockFollowRepository{
		countFollowersFn: func(ctx context.Context, userID int64) (int, error) {
			return 0, errors.New("timeout")
		},
	}
	svc := NewProfileService(mockProfiles, aliceUserRepo(), mockFollows)

	view, err := svc.PublicProfile(context.Background(), "alice")
	if err != nil {
		t.Fatalf("count failure must not fail the page, got %v", err)
	}
	if view.FollowerCount != 0 {
		t.Errorf("follower_count = %d, want 0 on count failure", view.FollowerCount)
	}
}

func TestProfileService_EditableProfile(t *testing.T) {
	dob := time.Date(1990, 7, 4, 0, 0, 0, 0, time.UTC)

	mockUsers := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			if id != 7 {
				t.Errorf("fetched user %d, want the viewer's own id 7", id)
			}
			return &model.User{ID: id, Username: "alice"}, nil
		},
	}
	mockProfiles := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			if userID != 7 {
				t.Errorf("fetched profile %d, want the viewer's own id 7", userID)
			}
			return &model.Profile{UserID: userID, DOB: &dob}, nil
		},
	}
	svc := NewProfileService(mockProfiles, mockUsers, &mockFollowRepository{})

	view, err := svc.EditableProfile(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.DOB == nil || *view.DOB != "1990-07-04" {
		t.Errorf("dob = %v, want %q", view.DOB, "1990-07-04")
	}
	if view.Username != "alice" {
		t.Errorf("username = %q, want %q", view.Username, "alice")
	}
}

func TestProfileService_EditableProfile_NoDOB(t *testing.T) {
	mockUsers := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Username: "alice"}, nil
		},
	}
	mockProfiles := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return &model.Profile{UserID: userID}, nil
		},
	}
	svc := NewProfileService(mockProfiles, mockUsers, &mockFollowRepository{})

	view, err := svc.EditableProfile(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.DOB != nil {
		t.Errorf("dob = %v, want nil when unset", *view.DOB)
	}
}
