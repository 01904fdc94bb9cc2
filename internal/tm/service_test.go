package tm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/internal/state"
)

func newTestService() *Service {
	return NewService(state.NewStore(), nil, zap.NewNop())
}

func TestAddEntryAndList(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	entry := svc.AddEntry(ctx, "en-US", "fr-FR", "Welcome to our store", "Bienvenue dans notre boutique")
	assert.NotEqual(t, "", entry.ID.String())
	assert.Equal(t, 0, entry.UsageCount)

	entries := svc.ListEntries("en-US", "fr-FR")
	require.Len(t, entries, 1)
	assert.Equal(t, "Welcome to our store", entries[0].SourceText)
}

func TestLookup_ExactMatch(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.AddEntry(ctx, "en-US", "fr-FR", "Welcome to our store", "Bienvenue dans notre boutique")

	match, score := svc.Lookup(ctx, "en-US", "fr-FR", "Welcome to our store")
	require.NotNil(t, match)
	assert.Equal(t, 1.0, score)
	assert.Equal(t, "Bienvenue dans notre boutique", match.TranslatedText)
	assert.Equal(t, 1, match.UsageCount)
}

func TestLookup_FuzzyMatchAboveThreshold(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.AddEntry(ctx, "en-US", "fr-FR", "Welcome to our store", "Bienvenue dans notre boutique")

	match, score := svc.Lookup(ctx, "en-US", "fr-FR", "Welcome to our stores")
	require.NotNil(t, match)
	assert.GreaterOrEqual(t, score, MatchThreshold)
}

func TestLookup_BelowThresholdStillBumpsUsage(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.AddEntry(ctx, "en-US", "fr-FR", "Welcome to our store", "Bienvenue dans notre boutique")

	match, score := svc.Lookup(ctx, "en-US", "fr-FR", "Quarterly account statement")
	assert.Nil(t, match)
	assert.Equal(t, 0.0, score)

	// The closest entry is tracked even when no suggestion is returned.
	entries := svc.ListEntries("en-US", "fr-FR")
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].UsageCount)
}

func TestLookup_PicksBestOfSeveral(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.AddEntry(ctx, "en-US", "fr-FR", "Security update", "Mise à jour de sécurité")
	best := svc.AddEntry(ctx, "en-US", "fr-FR", "Security update required", "Mise à jour de sécurité requise")

	match, _ := svc.Lookup(ctx, "en-US", "fr-FR", "Security update required today")
	require.NotNil(t, match)
	assert.Equal(t, best.ID, match.ID)
}

func TestLookup_EmptyBucket(t *testing.T) {
	svc := newTestService()

	match, score := svc.Lookup(context.Background(), "en-US", "de-DE", "anything")
	assert.Nil(t, match)
	assert.Equal(t, 0.0, score)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("same", "same"))
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
	assert.InDelta(t, 0.96, Similarity("Welcome to our store", "Welcome to our stores"), 0.05)
}
