package tm

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/richxcame/localeflow/internal/models"
)

// Repository mirrors TM entries to durable storage
type Repository interface {
	Upsert(ctx context.Context, entry models.TranslationMemoryEntry) error
	UpdateUsage(ctx context.Context, id uuid.UUID, usageCount int) error
	ListAll(ctx context.Context) ([]models.TranslationMemoryEntry, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a TM repository backed by Postgres
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Upsert(ctx context.Context, entry models.TranslationMemoryEntry) error {
	query := `
		INSERT INTO translation_memory (id, source_locale, target_locale, source_text, translated_text, created_at, usage_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			translated_text = EXCLUDED.translated_text,
			usage_count = EXCLUDED.usage_count`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.SourceLocale, entry.TargetLocale,
		entry.SourceText, entry.TranslatedText, entry.CreatedAt, entry.UsageCount)
	if err != nil {
		return fmt.Errorf("failed to upsert tm entry: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateUsage(ctx context.Context, id uuid.UUID, usageCount int) error {
	query := `UPDATE translation_memory SET usage_count = $2 WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, usageCount)
	if err != nil {
		return fmt.Errorf("failed to update tm usage: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]models.TranslationMemoryEntry, error) {
	query := `
		SELECT id, source_locale, target_locale, source_text, translated_text, created_at, usage_count
		FROM translation_memory
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tm entries: %w", err)
	}
	defer rows.Close()

	var entries []models.TranslationMemoryEntry
	for rows.Next() {
		var entry models.TranslationMemoryEntry
		if err := rows.Scan(
			&entry.ID, &entry.SourceLocale, &entry.TargetLocale,
			&entry.SourceText, &entry.TranslatedText, &entry.CreatedAt, &entry.UsageCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tm entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
