package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cama-app/apiserver/types"
)

// ResidentRepository handles persistence for residents.
type ResidentRepository struct {
	db *sql.DB
}

func NewResidentRepository(db *sql.DB) *ResidentRepository {
	return &ResidentRepository{db: db}
}

func (r *ResidentRepository) List(ctx context.Context) ([]types.Resident, error) {
	const query = `
		SELECT resident_id, user_id, full_name, apartment, contact_number, created_at
		FROM residents`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	residents := make([]types.Resident, 0)
	for rows.Next() {
		var resident types.Resident
		if err := rows.Scan(
			&resident.ID,
			&resident.UserID,
			&resident.FullName,
			&resident.Apartment,
			&resident.ContactNumber,
			&resident.CreatedAt,
		); err != nil {
			return nil, err
		}
		residents = append(residents, resident)
	}
	return residents, rows.Err()
}

func (r *ResidentRepository) Create(ctx context.Context, resident types.Resident) (types.Resident, error) {
	resident.CreatedAt = time.Now()

	const query = `
		INSERT INTO residents (user_id, full_name, apartment, contact_number, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING resident_id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		resident.UserID,
		resident.FullName,
		resident.Apartment,
		resident.ContactNumber,
		resident.CreatedAt,
	).Scan(&resident.ID); err != nil {
		return types.Resident{}, err
	}
	return resident, nil
}

// DeleteByUserID removes the resident rows for an account. The mobile
// admin screen keys removal by the account id, not the resident id.
func (r *ResidentRepository) DeleteByUserID(ctx context.Context, userID int) error {
	const query = `DELETE FROM residents WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetNameByUserID returns the resident's full name for an account id.
func (r *ResidentRepository) GetNameByUserID(ctx context.Context, userID int) (string, error) {
	const query = `SELECT full_name FROM residents WHERE user_id = $1`
	var name string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return name, nil
}
