package terminology

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/richxcame/localeflow/internal/models"
)

// Repository mirrors term base entries to durable storage
type Repository interface {
	Upsert(ctx context.Context, entry models.TermEntry) error
	ListAll(ctx context.Context) ([]models.TermEntry, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a term base repository backed by Postgres
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Upsert(ctx context.Context, entry models.TermEntry) error {
	query := `
		INSERT INTO term_entries (id, sector, source_locale, target_locale, term, translation, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			translation = EXCLUDED.translation,
			notes = EXCLUDED.notes`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.Sector, entry.SourceLocale, entry.TargetLocale,
		entry.Term, entry.Translation, entry.Notes, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert term entry: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]models.TermEntry, error) {
	query := `
		SELECT id, sector, source_locale, target_locale, term, translation, notes, created_at
		FROM term_entries
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list term entries: %w", err)
	}
	defer rows.Close()

	var entries []models.TermEntry
	for rows.Next() {
		var entry models.TermEntry
		if err := rows.Scan(
			&entry.ID, &entry.Sector, &entry.SourceLocale, &entry.TargetLocale,
			&entry.Term, &entry.Translation, &entry.Notes, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan term entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
