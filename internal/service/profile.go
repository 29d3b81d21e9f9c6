package service

import (
	"context"
	"log"

	"chirper/internal/model"
	"chirper/internal/repository"
	"chirper/internal/timeutil"
)

// ProfileService handles profile reads and writes plus the two display
// projections: the public directory page and the owner's edit form.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		followRepo:  followRepo,
	}
}

// Create inserts a profile for a user. Fails with ErrProfileExists if
// the user already has one.
func (s *ProfileService) Create(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	return s.profileRepo.Create(ctx, profile)
}

// Get returns the raw profile row for a user.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*model.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// Update applies a partial update to the viewer's own profile. Fields
// left nil in the update keep their prior values.
func (s *ProfileService) Update(ctx context.Context, userID int64, update model.ProfileUpdate) (*model.Profile, error) {
	if update.Bio != nil && len(*update.Bio) > model.MaxBioLength {
		return nil, model.ErrBioTooLong
	}
	if update.DisplayName != nil && len(*update.DisplayName) > model.MaxDisplayNameLength {
		return nil, model.ErrNameTooLong
	}
	if update.IsEmpty() {
		return s.profileRepo.GetByUserID(ctx, userID)
	}

	return s.profileRepo.Update(ctx, userID, update)
}

// PublicProfile resolves a handle to the directory-page view: display
// fields, follow counts, and dates formatted for reading ("March 2023",
// "July 4, 1990").
func (s *ProfileService) PublicProfile(ctx context.Context, handle string) (*model.PublicProfile, error) {
	user, err := s.userRepo.GetByUsername(ctx, handle)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	view := &model.PublicProfile{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: profile.DisplayName,
		Bio:         profile.Bio,
		Location:    profile.Location,
		Website:     profile.Website,
		AvatarURL:   profile.AvatarURL,
		JoinedAt:    timeutil.MonthYear(profile.CreatedAt),
	}
	if profile.DOB != nil {
		dob := timeutil.LongDate(*profile.DOB)
		view.DOB = &dob
	}

	// Follow counts are display-only; a count failure degrades to zero
	// rather than failing the page.
	if followers, err := s.followRepo.CountFollowers(ctx, user.ID); err == nil {
		view.FollowerCount = followers
	} else {
		log.Printf("[ProfileService] Failed to count followers: user=%d err=%v", user.ID, err)
	}
	if following, err := s.followRepo.CountFollowing(ctx, user.ID); err == nil {
		view.FollowingCount = following
	} else {
		log.Printf("[ProfileService] Failed to count following: user=%d err=%v", user.ID, err)
	}

	return view, nil
}

// EditableProfile returns the viewer's own profile shaped for the edit
// form. It is always fetched by the viewer's id, never by handle, and
// the date of birth uses the canonical "2006-01-02" input format.
func (s *ProfileService) EditableProfile(ctx context.Context, viewerID int64) (*model.EditableProfile, error) {
	user, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	view := &model.EditableProfile{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: profile.DisplayName,
		Bio:         profile.Bio,
		Location:    profile.Location,
		Website:     profile.Website,
		AvatarURL:   profile.AvatarURL,
	}
	if profile.DOB != nil {
		dob := timeutil.ISODate(*profile.DOB)
		view.DOB = &dob
	}

	return view, nil
}
