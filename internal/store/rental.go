package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cama-app/apiserver/types"
)

// RentalRepository handles persistence for rental agreements.
type RentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) *RentalRepository {
	return &RentalRepository{db: db}
}

func (r *RentalRepository) GetByUserID(ctx context.Context, userID int) (types.RentalAgreement, error) {
	const query = `
		SELECT id, user_id, monthly_rent, security_deposit, notice_period
		FROM rental_agreements
		WHERE user_id = $1`
	var agreement types.RentalAgreement
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&agreement.ID,
		&agreement.UserID,
		&agreement.MonthlyRent,
		&agreement.SecurityDeposit,
		&agreement.NoticePeriod,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.RentalAgreement{}, ErrNotFound
		}
		return types.RentalAgreement{}, err
	}
	return agreement, nil
}

func (r *RentalRepository) Update(ctx context.Context, agreement types.RentalAgreement) (types.RentalAgreement, error) {
	const query = `
		UPDATE rental_agreements
		SET monthly_rent = $1,
			security_deposit = $2,
			notice_period = $3
		WHERE id = $4
		RETURNING user_id`
	err := r.db.QueryRowContext(
		ctx,
		query,
		agreement.MonthlyRent,
		agreement.SecurityDeposit,
		agreement.NoticePeriod,
		agreement.ID,
	).Scan(&agreement.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.RentalAgreement{}, ErrNotFound
		}
		return types.RentalAgreement{}, err
	}
	return agreement, nil
}
