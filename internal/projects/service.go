// Package projects coordinates translation job creation, the CAT
// workspace, workflow progression, and studio snapshots.
package projects

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/internal/events"
	"github.com/richxcame/localeflow/internal/models"
	"github.com/richxcame/localeflow/internal/mt"
	"github.com/richxcame/localeflow/internal/state"
	"github.com/richxcame/localeflow/internal/terminology"
	"github.com/richxcame/localeflow/internal/tm"
	"github.com/richxcame/localeflow/internal/workflow"
	"github.com/richxcame/localeflow/pkg/common"
)

// CreateProjectInput carries everything needed to spin up a job, from
// a manual project form or an inbound connector payload.
type CreateProjectInput struct {
	Name               string
	Sector             string
	SourceLocale       string
	TargetLocales      []string
	Content            string
	Client             string
	Priority           models.Priority
	DueDate            *time.Time
	EstimatedWordCount int
	Budget             float64
	Description        string
	AssignedVendorID   string
	ConnectorID        uuid.UUID
	CreatedByID        string
	Metadata           map[string]string
}

// SegmentUpdate applies studio edits to one segment. Nil fields are
// left untouched so a reviewer can save notes without clearing an edit.
type SegmentUpdate struct {
	PostEdit      *string `json:"post_edit"`
	ReviewerNotes *string `json:"reviewer_notes"`
}

// StepCompletion advances a workflow step, optionally batch-applying
// edits to some or all segments.
type StepCompletion struct {
	ReviewerNotes string      `json:"reviewer_notes"`
	PostEdit      string      `json:"post_edit"`
	SegmentIDs    []uuid.UUID `json:"segment_ids"`
	QAFlags       []string    `json:"qa_flags"`
}

// Service owns the job lifecycle. Jobs live in the in-memory store;
// the optional repository mirrors them to Postgres.
type Service struct {
	store  *state.Store
	tm     *tm.Service
	terms  *terminology.Service
	engine *mt.Engine
	repo   Repository
	events *events.Publisher
	logger *zap.Logger
}

// NewService wires the project service. repo may be nil when the
// Postgres mirror is disabled.
func NewService(
	store *state.Store,
	tmService *tm.Service,
	termService *terminology.Service,
	engine *mt.Engine,
	repo Repository,
	publisher *events.Publisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:  store,
		tm:     tmService,
		terms:  termService,
		engine: engine,
		repo:   repo,
		events: publisher,
		logger: logger,
	}
}

// LoadFromDB hydrates the in-memory store from the Postgres mirror
func (s *Service) LoadFromDB(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	jobs, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		s.store.AddJob(job)
	}
	return nil
}

// CreateProject builds a job from inbound content: sector workflow,
// machine-translated segments per target locale, TM and terminology
// enrichment, and an initial progress score.
func (s *Service) CreateProject(ctx context.Context, input CreateProjectInput) models.Job {
	connectorID := input.ConnectorID
	if connectorID == uuid.Nil {
		connectorID = models.ManualConnectorID
	}

	metadata := make(map[string]string, len(input.Metadata)+3)
	for k, v := range input.Metadata {
		metadata[k] = v
	}
	if input.CreatedByID != "" {
		metadata["created_by_id"] = input.CreatedByID
	}
	if _, ok := metadata["workflow_mode"]; !ok {
		metadata["workflow_mode"] = "human_post_edit"
	}
	if _, ok := metadata["_source_content"]; !ok {
		metadata["_source_content"] = input.Content
	}

	contentID := metadata["content_id"]
	if contentID == "" {
		contentID = input.Name
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := time.Now().UTC()
	job := models.Job{
		ID:                 uuid.New(),
		ConnectorID:        connectorID,
		ContentID:          contentID,
		Sector:             input.Sector,
		SourceLocale:       input.SourceLocale,
		TargetLocales:      input.TargetLocales,
		CreatedAt:          now,
		Workflow:           workflow.Build(input.Sector),
		Segments:           s.buildSegments(ctx, input.Content, input.SourceLocale, input.TargetLocales, input.Sector),
		Metadata:           metadata,
		QualityReports:     []models.QualityReport{},
		Name:               input.Name,
		Client:             input.Client,
		Priority:           priority,
		DueDate:            input.DueDate,
		EstimatedWordCount: input.EstimatedWordCount,
		Budget:             input.Budget,
		Description:        input.Description,
		AssignedVendorID:   input.AssignedVendorID,
		LastUpdated:        now,
	}
	job.Status = workflow.Status(job.Workflow)
	job.Progress = RecalculateProgress(&job)

	s.store.AddJob(job)
	s.persist(ctx, job)
	s.store.RecordActivityMessage("project",
		fmt.Sprintf("Created project '%s' for %s sector.", displayName(job), titleCase(job.Sector)))
	s.events.ProjectCreated(job.ID, job.Name, job.Sector)

	s.logger.Info("project created",
		zap.String("project_id", job.ID.String()),
		zap.String("sector", job.Sector),
		zap.Int("segments", len(job.Segments)))

	return job
}

// ListProjects returns all jobs, newest first
func (s *Service) ListProjects() []models.Job {
	jobs := s.store.ListJobs()
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs
}

// ListProjectsForUser filters the project list by role: managers see
// their own projects plus unowned ones, translators see open work,
// everyone else sees everything.
func (s *Service) ListProjectsForUser(userID uuid.UUID, role string) []models.Job {
	jobs := s.ListProjects()
	switch role {
	case "manager":
		managerID := userID.String()
		filtered := make([]models.Job, 0, len(jobs))
		for _, job := range jobs {
			owner := job.Metadata["created_by_id"]
			if owner == managerID || owner == "" {
				filtered = append(filtered, job)
			}
		}
		return filtered
	case "translator":
		filtered := make([]models.Job, 0, len(jobs))
		for _, job := range jobs {
			if job.Status != workflow.StatusCompleted {
				filtered = append(filtered, job)
			}
		}
		return filtered
	default:
		return jobs
	}
}

// GetProject fetches a job, falling back to the Postgres mirror when
// the in-memory store misses (e.g. after a restart).
func (s *Service) GetProject(ctx context.Context, projectID uuid.UUID) (models.Job, error) {
	if job, ok := s.store.GetJob(projectID); ok {
		return job, nil
	}
	if s.repo != nil {
		job, err := s.repo.Get(ctx, projectID)
		if err == nil {
			s.store.UpdateJob(job)
			return job, nil
		}
	}
	return models.Job{}, common.NewNotFoundError("project not found")
}

// UpdateSegment applies a studio edit to one segment and refreshes the
// job's progress.
func (s *Service) UpdateSegment(ctx context.Context, projectID, segmentID uuid.UUID, update SegmentUpdate) (models.Segment, error) {
	job, ok := s.store.GetJob(projectID)
	if !ok {
		return models.Segment{}, common.NewNotFoundError("project not found")
	}

	idx := -1
	for i := range job.Segments {
		if job.Segments[i].ID == segmentID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Segment{}, common.NewNotFoundError("segment not found")
	}

	now := time.Now().UTC()
	if update.PostEdit != nil {
		job.Segments[idx].PostEdit = *update.PostEdit
	}
	if update.ReviewerNotes != nil {
		job.Segments[idx].ReviewerNotes = *update.ReviewerNotes
	}
	job.Segments[idx].LastUpdated = now
	job.Progress = RecalculateProgress(&job)
	job.LastUpdated = now

	s.store.UpdateJob(job)
	s.persist(ctx, job)
	s.store.RecordActivityMessage("cat",
		fmt.Sprintf("Updated segment in project '%s'.", displayName(job)))
	s.events.SegmentUpdated(job.ID, segmentID)

	return job.Segments[idx], nil
}

// CompleteStep finishes the named workflow step, batch-applying any
// edits to the targeted segments, then advances the workflow.
func (s *Service) CompleteStep(ctx context.Context, jobID uuid.UUID, stepName string, completion StepCompletion) (models.Job, error) {
	job, ok := s.store.GetJob(jobID)
	if !ok {
		return models.Job{}, common.NewNotFoundError("job not found")
	}

	stepIdx := workflow.FindStep(job.Workflow, stepName)
	if stepIdx == -1 {
		return models.Job{}, common.NewBadRequestError("unknown workflow step", nil)
	}
	if job.Workflow[stepIdx].Status != workflow.StepInProgress {
		return models.Job{}, common.NewConflictError("step is not in progress")
	}

	targets := segmentTargets(job.Segments, completion.SegmentIDs)
	now := time.Now().UTC()
	for _, i := range targets {
		if completion.PostEdit != "" {
			job.Segments[i].PostEdit = completion.PostEdit
		}
		if completion.ReviewerNotes != "" {
			job.Segments[i].ReviewerNotes = completion.ReviewerNotes
		}
		if len(completion.QAFlags) > 0 {
			job.Segments[i].QAFlags = mergeFlags(job.Segments[i].QAFlags, completion.QAFlags)
		}
		job.Segments[i].LastUpdated = now
	}

	workflow.Advance(job.Workflow)
	job.Status = workflow.Status(job.Workflow)
	job.Progress = RecalculateProgress(&job)
	job.LastUpdated = now

	s.store.UpdateJob(job)
	s.persist(ctx, job)
	s.events.StepCompleted(job.ID, stepName, string(job.Status))

	s.logger.Info("workflow step completed",
		zap.String("job_id", job.ID.String()),
		zap.String("step", stepName),
		zap.String("status", string(job.Status)))

	return job, nil
}

// AddQualityReport appends a quality evaluation and refreshes the job
func (s *Service) AddQualityReport(ctx context.Context, jobID uuid.UUID, report models.QualityReport) (models.Job, error) {
	job, ok := s.store.GetJob(jobID)
	if !ok {
		return models.Job{}, common.NewNotFoundError("job not found")
	}

	if report.SubmittedAt.IsZero() {
		report.SubmittedAt = time.Now().UTC()
	}
	job.QualityReports = append(job.QualityReports, report)
	job.Status = workflow.Status(job.Workflow)
	job.Progress = RecalculateProgress(&job)
	job.LastUpdated = time.Now().UTC()

	s.store.UpdateJob(job)
	s.persist(ctx, job)
	return job, nil
}

// StudioSnapshot assembles the CAT workspace payload for one project
// and target locale.
func (s *Service) StudioSnapshot(ctx context.Context, projectID uuid.UUID, targetLocale string) (models.StudioSnapshot, error) {
	job, err := s.GetProject(ctx, projectID)
	if err != nil {
		return models.StudioSnapshot{}, err
	}

	segments := make([]models.Segment, 0, len(job.Segments))
	for _, segment := range job.Segments {
		if segment.TargetLocale == targetLocale {
			segments = append(segments, segment)
		}
	}

	return models.StudioSnapshot{
		ProjectID:         job.ID,
		ProjectName:       displayName(job),
		SourceLocale:      job.SourceLocale,
		TargetLocale:      targetLocale,
		Sector:            job.Sector,
		Segments:          segments,
		TranslationMemory: s.tm.ListEntries(job.SourceLocale, targetLocale),
		TermBase:          s.terms.ListEntries(job.Sector, job.SourceLocale, targetLocale),
		QAInsights:        buildQAInsights(segments),
		Workflow:          job.Workflow,
		Progress:          job.Progress,
	}, nil
}

// BuildSegment enriches one source line with TM, terminology, and
// machine translation plus its quality estimate.
func (s *Service) BuildSegment(ctx context.Context, sourceText, sourceLocale, targetLocale, sector string) models.Segment {
	tmEntry, tmScore := s.tm.Lookup(ctx, sourceLocale, targetLocale, sourceText)
	output := s.engine.Translate(sourceText, sourceLocale, targetLocale, sector)
	termHits := s.terms.Lookup(sector, sourceLocale, targetLocale, sourceText)

	segment := models.Segment{
		ID:              uuid.New(),
		SourceText:      sourceText,
		TargetLocale:    targetLocale,
		NMTSuggestion:   output.Translation,
		RiskLevel:       output.Risk,
		QualityEstimate: output.Quality,
		QAFlags:         output.QAFlags,
	}
	if tmEntry != nil {
		segment.TMSuggestion = tmEntry.TranslatedText
		segment.TMScore = tmScore
	}
	for _, hit := range termHits {
		segment.TermHits = append(segment.TermHits, hit.Translation)
	}
	return segment
}

func (s *Service) buildSegments(ctx context.Context, content, sourceLocale string, targetLocales []string, sector string) []models.Segment {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	segments := make([]models.Segment, 0, len(lines)*len(targetLocales))
	for _, targetLocale := range targetLocales {
		for _, line := range lines {
			segments = append(segments, s.BuildSegment(ctx, line, sourceLocale, targetLocale, sector))
		}
	}
	return segments
}

func (s *Service) persist(ctx context.Context, job models.Job) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Upsert(ctx, job); err != nil {
		s.logger.Warn("failed to mirror job", zap.String("job_id", job.ID.String()), zap.Error(err))
	}
}

// RecalculateProgress blends workflow completion (40%) with the share
// of post-edited segments (60%), rounded to four decimal places.
func RecalculateProgress(job *models.Job) float64 {
	workflowProgress := workflow.CompletionRatio(job.Workflow)

	inScope := make(map[string]bool, len(job.TargetLocales))
	for _, locale := range job.TargetLocales {
		inScope[locale] = true
	}
	total := 0
	completed := 0
	for _, segment := range job.Segments {
		if !inScope[segment.TargetLocale] {
			continue
		}
		total++
		if segment.PostEdit != "" {
			completed++
		}
	}
	segmentProgress := 0.0
	if total > 0 {
		segmentProgress = float64(completed) / float64(total)
	}

	progress := workflowProgress*0.4 + segmentProgress*0.6
	return math.Round(progress*10000) / 10000
}

// buildQAInsights summarizes segment risk for the studio sidebar
func buildQAInsights(segments []models.Segment) []models.QAInsight {
	if len(segments) == 0 {
		return []models.QAInsight{}
	}

	highRisk := 0
	mediumRisk := 0
	for _, segment := range segments {
		switch segment.RiskLevel {
		case mt.RiskHigh:
			highRisk++
		case mt.RiskMedium:
			mediumRisk++
		}
	}

	var insights []models.QAInsight
	if highRisk > 0 {
		insights = append(insights, models.QAInsight{
			Title:    "High MT risk detected",
			Message:  fmt.Sprintf("%d segments require urgent human review.", highRisk),
			Severity: mt.RiskHigh,
		})
	}
	if mediumRisk > 0 {
		insights = append(insights, models.QAInsight{
			Title:    "Segments to monitor",
			Message:  fmt.Sprintf("%d segments flagged for additional QA.", mediumRisk),
			Severity: mt.RiskMedium,
		})
	}
	if len(insights) == 0 {
		insights = append(insights, models.QAInsight{
			Title:    "Machine output validated",
			Message:  "All segments scored high MTQE with low risk.",
			Severity: mt.RiskLow,
		})
	}
	return insights
}

// segmentTargets resolves which segment indexes a batch edit applies
// to. Without explicit ids it targets every segment.
func segmentTargets(segments []models.Segment, ids []uuid.UUID) []int {
	if len(ids) == 0 {
		targets := make([]int, len(segments))
		for i := range segments {
			targets[i] = i
		}
		return targets
	}

	index := make(map[uuid.UUID]int, len(segments))
	for i := range segments {
		index[segments[i].ID] = i
	}
	var targets []int
	for _, id := range ids {
		if i, ok := index[id]; ok {
			targets = append(targets, i)
		}
	}
	return targets
}

func mergeFlags(existing, incoming []string) []string {
	set := make(map[string]bool, len(existing)+len(incoming))
	for _, f := range existing {
		set[f] = true
	}
	for _, f := range incoming {
		set[f] = true
	}
	merged := make([]string, 0, len(set))
	for f := range set {
		merged = append(merged, f)
	}
	sort.Strings(merged)
	return merged
}

func displayName(job models.Job) string {
	if job.Name != "" {
		return job.Name
	}
	return job.ContentID
}

// titleCase uppercases the first letter of each word, matching how
// sectors are rendered in activity messages.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
