package store

import (
	"context"
	"database/sql"

	"github.com/cama-app/apiserver/types"
)

// FamilyRepository handles persistence for family members.
type FamilyRepository struct {
	db *sql.DB
}

func NewFamilyRepository(db *sql.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

func (r *FamilyRepository) Create(ctx context.Context, member types.FamilyMember) (types.FamilyMember, error) {
	const query = `
		INSERT INTO familymembers (resident_id, name, age, relationship)
		VALUES ($1, $2, $3, $4)
		RETURNING member_id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		member.ResidentID,
		member.Name,
		member.Age,
		member.Relationship,
	).Scan(&member.ID); err != nil {
		return types.FamilyMember{}, err
	}
	return member, nil
}

func (r *FamilyRepository) ListByResident(ctx context.Context, residentID int) ([]types.FamilyMember, error) {
	const query = `
		SELECT member_id, resident_id, name, age, relationship
		FROM familymembers
		WHERE resident_id = $1`
	rows, err := r.db.QueryContext(ctx, query, residentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]types.FamilyMember, 0)
	for rows.Next() {
		var member types.FamilyMember
		if err := rows.Scan(
			&member.ID,
			&member.ResidentID,
			&member.Name,
			&member.Age,
			&member.Relationship,
		); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *FamilyRepository) Delete(ctx context.Context, memberID int) error {
	const query = `DELETE FROM familymembers WHERE member_id = $1`
	result, err := r.db.ExecContext(ctx, query, memberID)
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
