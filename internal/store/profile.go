package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cama-app/apiserver/types"
	"github.com/lib/pq"
)

// ProfileName is the id/name pair returned by the profile listing.
type ProfileName struct {
	UserID   int    `json:"user_id"`
	FullName string `json:"full_name"`
}

// ProfileRepository handles persistence for profiles.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile types.Profile) (types.Profile, error) {
	profile.CreatedAt = time.Now()

	const query = `
		INSERT INTO profiles (user_id, email, full_name, date_of_birth, gender, phone_number, profile_picture, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
		RETURNING profile_id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		profile.UserID,
		profile.Email,
		profile.FullName,
		profile.DateOfBirth,
		profile.Gender,
		profile.PhoneNumber,
		profile.ProfilePicture,
		profile.CreatedAt,
	).Scan(&profile.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return types.Profile{}, ErrConflict
		}
		return types.Profile{}, err
	}
	return profile, nil
}

// ExistsByUserID reports whether the account has completed onboarding.
func (r *ProfileRepository) ExistsByUserID(ctx context.Context, userID int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM profiles WHERE user_id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ProfileRepository) ListNames(ctx context.Context) ([]ProfileName, error) {
	const query = `SELECT user_id, full_name FROM profiles`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]ProfileName, 0)
	for rows.Next() {
		var name ProfileName
		if err := rows.Scan(&name.UserID, &name.FullName); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
