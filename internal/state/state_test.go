package state

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/localeflow/internal/models"
)

func TestConnectorRoundTrip(t *testing.T) {
	store := NewStore()
	connector := models.Connector{
		ID:     uuid.New(),
		Name:   "Marketing CMS",
		Type:   models.ConnectorCMS,
		Sector: "ecommerce",
		Active: true,
	}

	store.AddConnector(connector)

	got, ok := store.GetConnector(connector.ID)
	require.True(t, ok)
	assert.Equal(t, "Marketing CMS", got.Name)

	_, ok = store.GetConnector(uuid.New())
	assert.False(t, ok)

	now := time.Now().UTC()
	got.LastSyncedAt = &now
	got.LastSyncStatus = "success"
	store.UpdateConnector(got)

	updated, ok := store.GetConnector(connector.ID)
	require.True(t, ok)
	assert.Equal(t, "success", updated.LastSyncStatus)
	assert.Len(t, store.ListConnectors(), 1)
}

func TestJobUpdateIsLastWriteWins(t *testing.T) {
	store := NewStore()
	job := models.Job{ID: uuid.New(), Name: "Handbook", Sector: "legal"}
	store.AddJob(job)

	job.Name = "Employee Handbook"
	store.UpdateJob(job)

	got, ok := store.GetJob(job.ID)
	require.True(t, ok)
	assert.Equal(t, "Employee Handbook", got.Name)
	assert.Len(t, store.ListJobs(), 1)
}

func TestTMKeyIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, "en-us::fr-fr", TMKey("en-US", "fr-FR"))
	assert.Equal(t, TMKey("EN-US", "FR-FR"), TMKey("en-us", "fr-fr"))
}

func TestTMEntriesBucketByLocalePair(t *testing.T) {
	store := NewStore()
	store.AddTMEntry(models.TranslationMemoryEntry{
		ID:           uuid.New(),
		SourceLocale: "en-US",
		TargetLocale: "fr-FR",
		SourceText:   "Welcome",
	})
	store.AddTMEntry(models.TranslationMemoryEntry{
		ID:           uuid.New(),
		SourceLocale: "en-US",
		TargetLocale: "de-DE",
		SourceText:   "Welcome",
	})

	assert.Len(t, store.ListTMEntries("en-us", "fr-fr"), 1)
	assert.Len(t, store.ListTMEntries("en-US", "de-DE"), 1)
	assert.Empty(t, store.ListTMEntries("en-US", "es-ES"))
}

func TestBumpTMUsage(t *testing.T) {
	store := NewStore()
	entry := models.TranslationMemoryEntry{
		ID:           uuid.New(),
		SourceLocale: "en-US",
		TargetLocale: "fr-FR",
	}
	store.AddTMEntry(entry)

	store.BumpTMUsage("en-US", "fr-FR", entry.ID)
	store.BumpTMUsage("en-US", "fr-FR", entry.ID)
	store.BumpTMUsage("en-US", "fr-FR", uuid.New()) // unknown id is a no-op

	entries := store.ListTMEntries("en-US", "fr-FR")
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].UsageCount)
}

func TestTermEntriesBucketBySectorAndLocalePair(t *testing.T) {
	store := NewStore()
	store.AddTermEntry(models.TermEntry{
		ID:           uuid.New(),
		Sector:       "BFSI",
		SourceLocale: "en-US",
		TargetLocale: "fr-FR",
		Term:         "statement",
	})

	assert.Len(t, store.ListTermEntries("bfsi", "en-us", "fr-fr"), 1)
	assert.Empty(t, store.ListTermEntries("legal", "en-US", "fr-FR"))
}

func TestActivityFeedIsBoundedNewestFirst(t *testing.T) {
	store := NewStore()
	for i := 0; i < 60; i++ {
		store.RecordActivityMessage("project", fmt.Sprintf("event %d", i))
	}

	recent := store.RecentActivity(6)
	require.Len(t, recent, 6)
	assert.Equal(t, "event 59", recent[0].Message)

	all := store.RecentActivity(100)
	assert.Len(t, all, maxActivityEntries)
}

func TestTimeTrackingReturnsCopies(t *testing.T) {
	store := NewStore()
	store.SetTimeTracking(
		map[string]float64{"translation": 10, "review": 5},
		[]models.TimeTrackingPoint{{Label: "Mon", Hours: 3}},
	)

	breakdown, trend := store.TimeTracking()
	breakdown["translation"] = 99
	trend[0].Hours = 99

	breakdown2, trend2 := store.TimeTracking()
	assert.Equal(t, 10.0, breakdown2["translation"])
	assert.Equal(t, 3.0, trend2[0].Hours)
}

func TestSeededFlag(t *testing.T) {
	store := NewStore()
	assert.False(t, store.Seeded())
	store.MarkSeeded()
	assert.True(t, store.Seeded())
}

func TestConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.AddJob(models.Job{ID: uuid.New()})
		}()
		go func() {
			defer wg.Done()
			store.RecordActivityMessage("system", "tick")
			store.ListJobs()
		}()
	}
	wg.Wait()

	assert.Len(t, store.ListJobs(), 20)
}
