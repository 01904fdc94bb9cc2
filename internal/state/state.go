// Package state is the in-memory store backing the prototype pipeline.
// A single coarse mutex guards every collection; writes are
// last-write-wins. The optional Postgres mirror in each domain
// repository persists the same records for durability.
package state

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/richxcame/localeflow/internal/models"
)

// maxActivityEntries bounds the recent activity feed
const maxActivityEntries = 50

// Store holds connectors, jobs, linguistic assets, vendors, and the
// activity feed under one lock.
type Store struct {
	mu sync.Mutex

	connectors map[uuid.UUID]models.Connector
	jobs       map[uuid.UUID]models.Job
	tm         map[string][]models.TranslationMemoryEntry
	terms      map[string][]models.TermEntry
	vendors    map[uuid.UUID]models.Vendor
	activity   []models.ActivityEntry

	timeBreakdown map[string]float64
	timeTrend     []models.TimeTrackingPoint

	seeded bool
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		connectors: make(map[uuid.UUID]models.Connector),
		jobs:       make(map[uuid.UUID]models.Job),
		tm:         make(map[string][]models.TranslationMemoryEntry),
		terms:      make(map[string][]models.TermEntry),
		vendors:    make(map[uuid.UUID]models.Vendor),
		timeBreakdown: map[string]float64{
			"translation":   0,
			"review":        0,
			"communication": 0,
		},
	}
}

// ========================================
// Connectors
// ========================================

func (s *Store) AddConnector(connector models.Connector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectors[connector.ID] = connector
}

func (s *Store) GetConnector(id uuid.UUID) (models.Connector, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	connector, ok := s.connectors[id]
	return connector, ok
}

func (s *Store) ListConnectors() []models.Connector {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Connector, 0, len(s.connectors))
	for _, connector := range s.connectors {
		out = append(out, connector)
	}
	return out
}

func (s *Store) UpdateConnector(connector models.Connector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectors[connector.ID] = connector
}

// ========================================
// Jobs
// ========================================

func (s *Store) AddJob(job models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *Store) GetJob(id uuid.UUID) (models.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	return job, ok
}

func (s *Store) ListJobs() []models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job)
	}
	return out
}

// UpdateJob stores the job unconditionally, last write wins
func (s *Store) UpdateJob(job models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

// ========================================
// Translation memory
// ========================================

// TMKey builds the locale-pair bucket key for TM entries
func TMKey(sourceLocale, targetLocale string) string {
	return fmt.Sprintf("%s::%s", strings.ToLower(sourceLocale), strings.ToLower(targetLocale))
}

func (s *Store) AddTMEntry(entry models.TranslationMemoryEntry) {
	key := TMKey(entry.SourceLocale, entry.TargetLocale)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tm[key] = append(s.tm[key], entry)
}

// ListTMEntries returns a copy of the bucket for the locale pair
func (s *Store) ListTMEntries(sourceLocale, targetLocale string) []models.TranslationMemoryEntry {
	key := TMKey(sourceLocale, targetLocale)
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.tm[key]
	out := make([]models.TranslationMemoryEntry, len(entries))
	copy(out, entries)
	return out
}

// BumpTMUsage increments the usage counter of a TM entry in place
func (s *Store) BumpTMUsage(sourceLocale, targetLocale string, id uuid.UUID) {
	key := TMKey(sourceLocale, targetLocale)
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.tm[key]
	for i := range entries {
		if entries[i].ID == id {
			entries[i].UsageCount++
			return
		}
	}
}

// ========================================
// Term base
// ========================================

// TermKey builds the sector and locale-pair bucket key for terms
func TermKey(sector, sourceLocale, targetLocale string) string {
	return fmt.Sprintf("%s::%s::%s",
		strings.ToLower(sector), strings.ToLower(sourceLocale), strings.ToLower(targetLocale))
}

func (s *Store) AddTermEntry(entry models.TermEntry) {
	key := TermKey(entry.Sector, entry.SourceLocale, entry.TargetLocale)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms[key] = append(s.terms[key], entry)
}

func (s *Store) ListTermEntries(sector, sourceLocale, targetLocale string) []models.TermEntry {
	key := TermKey(sector, sourceLocale, targetLocale)
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.terms[key]
	out := make([]models.TermEntry, len(entries))
	copy(out, entries)
	return out
}

// ========================================
// Vendors
// ========================================

func (s *Store) AddVendor(vendor models.Vendor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vendors[vendor.ID] = vendor
}

func (s *Store) ListVendors() []models.Vendor {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Vendor, 0, len(s.vendors))
	for _, vendor := range s.vendors {
		out = append(out, vendor)
	}
	return out
}

// ========================================
// Activity feed
// ========================================

// RecordActivity prepends an entry, keeping the feed bounded
func (s *Store) RecordActivity(entry models.ActivityEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = append([]models.ActivityEntry{entry}, s.activity...)
	if len(s.activity) > maxActivityEntries {
		s.activity = s.activity[:maxActivityEntries]
	}
}

// RecordActivityMessage records a feed entry with a fresh id and timestamp
func (s *Store) RecordActivityMessage(category, message string) {
	s.RecordActivity(models.ActivityEntry{
		ID:        uuid.New(),
		Message:   message,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	})
}

// RecentActivity returns the newest n entries, newest first
func (s *Store) RecentActivity(n int) []models.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.activity) {
		n = len(s.activity)
	}
	out := make([]models.ActivityEntry, n)
	copy(out, s.activity[:n])
	return out
}

// ========================================
// Time tracking
// ========================================

// SetTimeTracking replaces the logged hours breakdown and trend
func (s *Store) SetTimeTracking(breakdown map[string]float64, trend []models.TimeTrackingPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeBreakdown = breakdown
	s.timeTrend = trend
}

// TimeTracking returns copies of the hours breakdown and trend
func (s *Store) TimeTracking() (map[string]float64, []models.TimeTrackingPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	breakdown := make(map[string]float64, len(s.timeBreakdown))
	for k, v := range s.timeBreakdown {
		breakdown[k] = v
	}
	trend := make([]models.TimeTrackingPoint, len(s.timeTrend))
	copy(trend, s.timeTrend)
	return breakdown, trend
}

// ========================================
// Seeding
// ========================================

func (s *Store) Seeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seeded
}

func (s *Store) MarkSeeded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeded = true
}
