package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"chirper/internal/model"
)

const profileColumns = `user_id, display_name, bio, location, website, avatar_url, avatar_key, dob, created_at, updated_at`

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create inserts a new profile row. The UNIQUE constraint on user_id
// keeps profiles 1:1 with users; a duplicate maps to ErrProfileExists.
func (r *profileRepository) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, display_name, bio, location, website, avatar_url, avatar_key, dob, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + profileColumns

	var inserted model.Profile
	err := r.db.GetContext(ctx, &inserted, query,
		p.UserID, p.DisplayName, p.Bio, p.Location, p.Website, p.AvatarURL, p.AvatarKey, p.DOB)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, model.ErrProfileExists
		}
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	return &inserted, nil
}

// GetByUserID retrieves the profile owned by userID.
func (r *profileRepository) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	var p model.Profile
	err := r.db.GetContext(ctx, &p, query, userID)
	if err == sql.ErrNoRows {
		return nil, model.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &p, nil
}

// Update applies only the non-nil fields of the update and returns the
// updated row. An empty result means the user has no profile.
func (r *profileRepository) Update(ctx context.Context, userID int64, update model.ProfileUpdate) (*model.Profile, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{userID}
	idx := 2

	appendSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if update.DisplayName != nil {
		appendSet("display_name", *update.DisplayName)
	}
	if update.Bio != nil {
		appendSet("bio", *update.Bio)
	}
	if update.Location != nil {
		appendSet("location", *update.Location)
	}
	if update.Website != nil {
		appendSet("website", *update.Website)
	}
	if update.AvatarURL != nil {
		appendSet("avatar_url", *update.AvatarURL)
	}
	if update.AvatarKey != nil {
		appendSet("avatar_key", *update.AvatarKey)
	}
	if update.DOB != nil {
		appendSet("dob", *update.DOB)
	}

	query := fmt.Sprintf(
		`UPDATE profiles SET %s WHERE user_id = $1 RETURNING %s`,
		strings.Join(sets, ", "), profileColumns)

	var updated model.Profile
	err := r.db.GetContext(ctx, &updated, query, args...)
	if err == sql.ErrNoRows {
		return nil, model.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return &updated, nil
}
