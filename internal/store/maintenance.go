package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cama-app/apiserver/types"
)

// MaintenanceRepository handles persistence for maintenance requests
// and their media attachments.
type MaintenanceRepository struct {
	db *sql.DB
}

func NewMaintenanceRepository(db *sql.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// Create inserts the request row and all media rows in one transaction,
// so a failed media insert never leaves a partial batch behind.
func (r *MaintenanceRepository) Create(ctx context.Context, request types.MaintenanceRequest, media []types.MediaAttachment) (types.MaintenanceRequest, error) {
	request.CreatedAt = time.Now()
	if request.Status == "" {
		request.Status = types.StatusPending
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.MaintenanceRequest{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const insertRequest = `
		INSERT INTO maintenance_requests (user_id, subject, description, priority, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING request_id`
	if err := tx.QueryRowContext(
		ctx,
		insertRequest,
		request.UserID,
		request.Subject,
		request.Description,
		request.Priority,
		request.Status,
		request.CreatedAt,
	).Scan(&request.ID); err != nil {
		return types.MaintenanceRequest{}, err
	}

	const insertMedia = `
		INSERT INTO request_media (request_id, media_url, media_type)
		VALUES ($1, $2, $3)
		RETURNING media_id`
	for i := range media {
		media[i].RequestID = request.ID
		if err := tx.QueryRowContext(
			ctx,
			insertMedia,
			media[i].RequestID,
			media[i].MediaURL,
			media[i].MediaType,
		).Scan(&media[i].ID); err != nil {
			return types.MaintenanceRequest{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return types.MaintenanceRequest{}, err
	}

	request.Media = media
	return request, nil
}

func (r *MaintenanceRepository) List(ctx context.Context) ([]types.MaintenanceRequest, error) {
	const query = `
		SELECT request_id, user_id, subject, description, priority, status, created_at
		FROM maintenance_requests`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]types.MaintenanceRequest, 0)
	for rows.Next() {
		var request types.MaintenanceRequest
		if err := rows.Scan(
			&request.ID,
			&request.UserID,
			&request.Subject,
			&request.Description,
			&request.Priority,
			&request.Status,
			&request.CreatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

func (r *MaintenanceRepository) ListMediaByRequest(ctx context.Context, requestID int) ([]types.MediaAttachment, error) {
	const query = `
		SELECT media_id, request_id, media_url, media_type
		FROM request_media
		WHERE request_id = $1`
	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := make([]types.MediaAttachment, 0)
	for rows.Next() {
		var item types.MediaAttachment
		if err := rows.Scan(
			&item.ID,
			&item.RequestID,
			&item.MediaURL,
			&item.MediaType,
		); err != nil {
			return nil, err
		}
		media = append(media, item)
	}
	return media, rows.Err()
}

// ListHighPriority returns the high-priority subset shown on the admin
// dashboard, newest first.
func (r *MaintenanceRepository) ListHighPriority(ctx context.Context) ([]types.MaintenanceRequest, error) {
	const query = `
		SELECT request_id, user_id, subject, description, priority, status, created_at
		FROM maintenance_requests
		WHERE priority = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, types.PriorityHigh)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]types.MaintenanceRequest, 0)
	for rows.Next() {
		var request types.MaintenanceRequest
		if err := rows.Scan(
			&request.ID,
			&request.UserID,
			&request.Subject,
			&request.Description,
			&request.Priority,
			&request.Status,
			&request.CreatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

func (r *MaintenanceRepository) UpdateStatus(ctx context.Context, id int, status string) (types.MaintenanceRequest, error) {
	const query = `
		UPDATE maintenance_requests
		SET status = $1
		WHERE request_id = $2
		RETURNING request_id, user_id, subject, description, priority, status, created_at`
	var request types.MaintenanceRequest
	err := r.db.QueryRowContext(ctx, query, status, id).Scan(
		&request.ID,
		&request.UserID,
		&request.Subject,
		&request.Description,
		&request.Priority,
		&request.Status,
		&request.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.MaintenanceRequest{}, ErrNotFound
		}
		return types.MaintenanceRequest{}, err
	}
	return request, nil
}
