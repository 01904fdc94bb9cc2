// Package tm implements translation memory: fuzzy lookup of previously
// translated segments per locale pair.
package tm

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/internal/models"
	"github.com/richxcame/localeflow/internal/state"
)

// MatchThreshold is the minimum similarity for a TM suggestion
const MatchThreshold = 0.6

// Service performs fuzzy TM lookups against the in-memory store and
// mirrors writes to Postgres when a repository is configured.
type Service struct {
	store  *state.Store
	repo   Repository
	logger *zap.Logger
}

// NewService creates the TM service. repo may be nil when the Postgres
// mirror is disabled.
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
		s.store.AddTMEntry(entry)
	}
	return nil
}

// AddEntry stores a new TM entry
func (s *Service) AddEntry(ctx context.Context, sourceLocale, targetLocale, sourceText, translatedText string) models.TranslationMemoryEntry {
	entry := models.TranslationMemoryEntry{
		ID:             uuid.New(),
		SourceLocale:   sourceLocale,
		TargetLocale:   targetLocale,
		SourceText:     sourceText,
		TranslatedText: translatedText,
		CreatedAt:      time.Now().UTC(),
	}
	s.store.AddTMEntry(entry)

	if s.repo != nil {
		if err := s.repo.Upsert(ctx, entry); err != nil {
			s.logger.Warn("failed to mirror tm entry", zap.Error(err))
		}
	}
	return entry
}

// Lookup finds the closest TM entry for the source text. The best
// match always gets its usage counter bumped, but a suggestion is only
// returned when similarity clears the threshold.
func (s *Service) Lookup(ctx context.Context, sourceLocale, targetLocale, sourceText string) (*models.TranslationMemoryEntry, float64) {
	entries := s.store.ListTMEntries(sourceLocale, targetLocale)

	var best *models.TranslationMemoryEntry
	bestScore := 0.0
	for i := range entries {
		score := Similarity(entries[i].SourceText, sourceText)
		if score > bestScore {
			bestScore = score
			best = &entries[i]
		}
	}

	if best != nil {
		s.store.BumpTMUsage(sourceLocale, targetLocale, best.ID)
		best.UsageCount++
		if s.repo != nil {
			if err := s.repo.UpdateUsage(ctx, best.ID, best.UsageCount); err != nil {
				s.logger.Warn("failed to mirror tm usage", zap.Error(err))
			}
		}
	}

	if bestScore >= MatchThreshold {
		return best, bestScore
	}
	return nil, 0
}

// ListEntries returns all TM entries for a locale pair
func (s *Service) ListEntries(sourceLocale, targetLocale string) []models.TranslationMemoryEntry {
	return s.store.ListTMEntries(sourceLocale, targetLocale)
}

// Similarity is the character-level match ratio between two strings
func Similarity(a, b string) float64 {
	matcher := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return matcher.Ratio()
}
