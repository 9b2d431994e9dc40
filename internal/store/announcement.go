package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cama-app/apiserver/types"
)

// AnnouncementRepository handles persistence for announcements.
type AnnouncementRepository struct {
	db *sql.DB
}

func NewAnnouncementRepository(db *sql.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) List(ctx context.Context) ([]types.Announcement, error) {
	const query = `
		SELECT announcement_id, title, description, created_at
		FROM announcements
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	announcements := make([]types.Announcement, 0)
	for rows.Next() {
		var announcement types.Announcement
		if err := rows.Scan(
			&announcement.ID,
			&announcement.Title,
			&announcement.Description,
			&announcement.CreatedAt,
		); err != nil {
			return nil, err
		}
		announcements = append(announcements, announcement)
	}
	return announcements, rows.Err()
}

func (r *AnnouncementRepository) Create(ctx context.Context, announcement types.Announcement) (types.Announcement, error) {
	announcement.CreatedAt = time.Now()

	const query = `
		INSERT INTO announcements (title, description, created_at)
		VALUES ($1, $2, $3)
		RETURNING announcement_id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		announcement.Title,
		announcement.Description,
		announcement.CreatedAt,
	).Scan(&announcement.ID); err != nil {
		return types.Announcement{}, err
	}
	return announcement, nil
}

func (r *AnnouncementRepository) Update(ctx context.Context, announcement types.Announcement) (types.Announcement, error) {
	const query = `
		UPDATE announcements
		SET title = $1,
			description = $2
		WHERE announcement_id = $3
		RETURNING created_at`
	err := r.db.QueryRowContext(
		ctx,
		query,
		announcement.Title,
		announcement.Description,
		announcement.ID,
	).Scan(&announcement.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Announcement{}, ErrNotFound
		}
		return types.Announcement{}, err
	}
	return announcement, nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM announcements WHERE announcement_id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
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
