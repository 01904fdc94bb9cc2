package realtime

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// ActivityRepository persists collaboration activity for audit views
type ActivityRepository interface {
	Record(ctx context.Context, userID, projectID, category, message string) error
	RecentForProject(ctx context.Context, projectID string, limit int) ([]ActivityRecord, error)
}

// ActivityRecord is one persisted collaboration event
type ActivityRecord struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	ProjectID string    `json:"project_id"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type sqlActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository opens a database/sql connection for the
// collaboration audit log.
func NewActivityRepository(dsn string) (ActivityRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open activity database: %w", err)
	}
	return &sqlActivityRepository{db: db}, nil
}

// NewActivityRepositoryWithDB wraps an existing connection, for tests
func NewActivityRepositoryWithDB(db *sql.DB) ActivityRepository {
	return &sqlActivityRepository{db: db}
}

func (r *sqlActivityRepository) Record(ctx context.Context, userID, projectID, category, message string) error {
	query := `
		INSERT INTO activity_log (id, user_id, project_id, category, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New(), userID, projectID, category, message, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

func (r *sqlActivityRepository) RecentForProject(ctx context.Context, projectID string, limit int) ([]ActivityRecord, error) {
	query := `
		SELECT id, user_id, project_id, category, message, created_at
		FROM activity_log
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var records []ActivityRecord
	for rows.Next() {
		var record ActivityRecord
		if err := rows.Scan(
			&record.ID, &record.UserID, &record.ProjectID,
			&record.Category, &record.Message, &record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
