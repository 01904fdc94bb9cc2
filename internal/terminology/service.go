// Package terminology manages the sector-aware term base
package terminology

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/internal/models"
	"github.com/richxcame/localeflow/internal/state"
)

// Service stores and looks up term base entries per sector and locale
// pair, mirroring writes to Postgres when a repository is configured.
type Service struct {
	store  *state.Store
	repo   Repository
	logger *zap.Logger
}

// NewService creates the term base service. repo may be nil when the
// Postgres mirror is disabled.
func NewService(store *state.Store, repo Repository, logger *zap.Logger) *Service {
	return &Service{store: store, repo: repo, logger: logger}
}

// LoadFromDB hydrates the in-memory store from the Postgres mirror
func (s *Service) LoadFromDB(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		s.store.AddTermEntry(entry)
	}
	return nil
}

// AddEntry stores a new term base entry
func (s *Service) AddEntry(ctx context.Context, sector, sourceLocale, targetLocale, term, translation, notes string) models.TermEntry {
	entry := models.TermEntry{
		ID:           uuid.New(),
		Sector:       sector,
		SourceLocale: sourceLocale,
		TargetLocale: targetLocale,
		Term:         term,
		Translation:  translation,
		Notes:        notes,
		CreatedAt:    time.Now().UTC(),
	}
	s.store.AddTermEntry(entry)

	if s.repo != nil {
		if err := s.repo.Upsert(ctx, entry); err != nil {
			s.logger.Warn("failed to mirror term entry", zap.Error(err))
		}
	}
	return entry
}

// Lookup returns the terms whose source form appears in the text
func (s *Service) Lookup(sector, sourceLocale, targetLocale, sourceText string) []models.TermEntry {
	entries := s.store.ListTermEntries(sector, sourceLocale, targetLocale)
	lowered := strings.ToLower(sourceText)

	var hits []models.TermEntry
	for _, entry := range entries {
		if strings.Contains(lowered, strings.ToLower(entry.Term)) {
			hits = append(hits, entry)
		}
	}
	return hits
}

// ListEntries returns all terms for a sector and locale pair
func (s *Service) ListEntries(sector, sourceLocale, targetLocale string) []models.TermEntry {
	return s.store.ListTermEntries(sector, sourceLocale, targetLocale)
}
