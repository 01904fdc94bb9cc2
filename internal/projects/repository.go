package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/richxcame/localeflow/internal/models"
	"github.com/richxcame/localeflow/internal/workflow"
	"github.com/richxcame/localeflow/pkg/common"
)

// Repository mirrors jobs to durable storage. Workflow, segments,
// metadata, and quality reports are stored as JSONB documents since
// the in-memory store is the source of truth for reads.
type Repository interface {
	Upsert(ctx context.Context, job models.Job) error
	Get(ctx context.Context, id uuid.UUID) (models.Job, error)
	ListAll(ctx context.Context) ([]models.Job, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a job repository backed by Postgres
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Upsert(ctx context.Context, job models.Job) error {
	workflowJSON, err := json.Marshal(job.Workflow)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow: %w", err)
	}
	segmentsJSON, err := json.Marshal(job.Segments)
	if err != nil {
		return fmt.Errorf("failed to marshal segments: %w", err)
	}
	metadataJSON, err := json.Marshal(job.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	reportsJSON, err := json.Marshal(job.QualityReports)
	if err != nil {
		return fmt.Errorf("failed to marshal quality reports: %w", err)
	}

	query := `
		INSERT INTO jobs (
			id, connector_id, content_id, sector, source_locale, target_locales,
			created_at, status, workflow, segments, metadata, quality_reports,
			name, client, priority, due_date, estimated_word_count, budget,
			description, progress, assigned_vendor_id, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			workflow = EXCLUDED.workflow,
			segments = EXCLUDED.segments,
			metadata = EXCLUDED.metadata,
			quality_reports = EXCLUDED.quality_reports,
			priority = EXCLUDED.priority,
			due_date = EXCLUDED.due_date,
			estimated_word_count = EXCLUDED.estimated_word_count,
			budget = EXCLUDED.budget,
			description = EXCLUDED.description,
			progress = EXCLUDED.progress,
			assigned_vendor_id = EXCLUDED.assigned_vendor_id,
			last_updated = EXCLUDED.last_updated`

	_, err = r.db.Exec(ctx, query,
		job.ID, job.ConnectorID, job.ContentID, job.Sector, job.SourceLocale, job.TargetLocales,
		job.CreatedAt, string(job.Status), workflowJSON, segmentsJSON, metadataJSON, reportsJSON,
		job.Name, job.Client, string(job.Priority), job.DueDate, job.EstimatedWordCount, job.Budget,
		job.Description, job.Progress, job.AssignedVendorID, job.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert job: %w", err)
	}
	return nil
}

const jobColumns = `
	id, connector_id, content_id, sector, source_locale, target_locales,
	created_at, status, workflow, segments, metadata, quality_reports,
	name, client, priority, due_date, estimated_word_count, budget,
	description, progress, assigned_vendor_id, last_updated`

func (r *postgresRepository) Get(ctx context.Context, id uuid.UUID) (models.Job, error) {
	query := `SELECT` + jobColumns + ` FROM jobs WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	job, err := scanJob(row)
	if err == pgx.ErrNoRows {
		return models.Job{}, common.NewNotFoundError("project not found")
	}
	if err != nil {
		return models.Job{}, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]models.Job, error) {
	query := `SELECT` + jobColumns + ` FROM jobs ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func scanJob(row pgx.Row) (models.Job, error) {
	var (
		job          models.Job
		status       string
		priority     string
		dueDate      *time.Time
		workflowJSON []byte
		segmentsJSON []byte
		metadataJSON []byte
		reportsJSON  []byte
	)

	err := row.Scan(
		&job.ID, &job.ConnectorID, &job.ContentID, &job.Sector, &job.SourceLocale, &job.TargetLocales,
		&job.CreatedAt, &status, &workflowJSON, &segmentsJSON, &metadataJSON, &reportsJSON,
		&job.Name, &job.Client, &priority, &dueDate, &job.EstimatedWordCount, &job.Budget,
		&job.Description, &job.Progress, &job.AssignedVendorID, &job.LastUpdated,
	)
	if err != nil {
		return models.Job{}, err
	}

	job.Status = workflow.JobStatus(status)
	job.Priority = models.Priority(priority)
	job.DueDate = dueDate
	if err := json.Unmarshal(workflowJSON, &job.Workflow); err != nil {
		return models.Job{}, fmt.Errorf("failed to unmarshal workflow: %w", err)
	}
	if err := json.Unmarshal(segmentsJSON, &job.Segments); err != nil {
		return models.Job{}, fmt.Errorf("failed to unmarshal segments: %w", err)
	}
	if err := json.Unmarshal(metadataJSON, &job.Metadata); err != nil {
		return models.Job{}, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	if err := json.Unmarshal(reportsJSON, &job.QualityReports); err != nil {
		return models.Job{}, fmt.Errorf("failed to unmarshal quality reports: %w", err)
	}
	return job, nil
}
