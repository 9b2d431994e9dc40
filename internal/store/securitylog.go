package store

import (
	"context"
	"database/sql"

	"github.com/cama-app/apiserver/types"
)

// SecurityLogRepository reads gate/security events. The API never
// writes this table.
type SecurityLogRepository struct {
	db *sql.DB
}

func NewSecurityLogRepository(db *sql.DB) *SecurityLogRepository {
	return &SecurityLogRepository{db: db}
}

func (r *SecurityLogRepository) List(ctx context.Context) ([]types.SecurityLog, error) {
	const query = `
		SELECT id, event, COALESCE(details, ''), created_at
		FROM security_logs
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]types.SecurityLog, 0)
	for rows.Next() {
		var entry types.SecurityLog
		if err := rows.Scan(
			&entry.ID,
			&entry.Event,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
