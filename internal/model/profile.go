package model

import (
	"errors"
	"time"
)

// Profile holds the display fields for a user. One row per user, created
// during registration.
type Profile struct {
	UserID      int64      `db:"user_id" json:"user_id"`
	DisplayName *string    `db:"display_name" json:"display_name"`
	Bio         *string    `db:"bio" json:"bio"`
	Location    *string    `db:"location" json:"location"`
	Website     *string    `db:"website" json:"website"`
	AvatarURL   *string    `db:"avatar_url" json:"avatar_url"`
	AvatarKey   *string    `db:"avatar_key" json:"-"`
	DOB         *time.Time `db:"dob" json:"dob,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// ProfileUpdate carries a partial update; nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName *string    `json:"display_name"`
	Bio         *string    `json:"bio"`
	Location    *string    `json:"location"`
	Website     *string    `json:"website"`
	AvatarURL   *string    `json:"-"`
	AvatarKey   *string    `json:"-"`
	DOB         *time.Time `json:"dob"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u ProfileUpdate) IsEmpty() bool {
	return u.DisplayName == nil && u.Bio == nil && u.Location == nil &&
		u.Website == nil && u.AvatarURL == nil && u.AvatarKey == nil && u.DOB == nil
}

// PublicProfile is the directory-page view of a profile. Dates are
// pre-formatted for display.
type PublicProfile struct {
	UserID         int64   `json:"user_id"`
	Username       string  `json:"username"`
	DisplayName    *string `json:"display_name"`
	Bio            *string `json:"bio"`
	Location       *string `json:"location"`
	Website        *string `json:"website"`
	AvatarURL      *string `json:"avatar_url"`
	JoinedAt       string  `json:"joined_at"`      // "March 2023"
	DOB            *string `json:"dob,omitempty"`  // "July 4, 1990"
	FollowerCount  int     `json:"follower_count"`
	FollowingCount int     `json:"following_count"`
}

// EditableProfile is the edit-form view of the viewer's own profile.
// DOB uses the canonical input format so it can round-trip through a
// date field.
type EditableProfile struct {
	UserID      int64   `json:"user_id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	Website     *string `json:"website"`
	AvatarURL   *string `json:"avatar_url"`
	DOB         *string `json:"dob,omitempty"` // "1990-07-04"
}

// Profile constraints
const (
	MaxBioLength         = 300
	MaxDisplayNameLength = 60
)

// Profile errors
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists for user")
	ErrBioTooLong      = errors.New("bio too long")
	ErrNameTooLong     = errors.New("display name too long")
)
