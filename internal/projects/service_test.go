package projects

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

type fixture struct {
	store   *state.Store
	tm      *tm.Service
	terms   *terminology.Service
	service *Service
}

func newFixture() *fixture {
	store := state.NewStore()
	logger := zap.NewNop()
	tmService := tm.NewService(store, nil, logger)
	termService := terminology.NewService(store, nil, logger)
	service := NewService(store, tmService, termService, mt.NewEngine(), nil,
		events.NewNoopPublisher(logger), logger)
	return &fixture{store: store, tm: tmService, terms: termService, service: service}
}

func TestCreateProject_Basics(t *testing.T) {
	f := newFixture()

	job := f.service.CreateProject(context.Background(), CreateProjectInput{
		Name:          "Spring Sale Banner",
		Sector:        "ecommerce",
		SourceLocale:  "en-US",
		TargetLocales: []string{"fr-FR", "de-DE"},
		Content:       "Welcome to our store\n\n  Flash sale today  \n",
	})

	assert.Equal(t, models.ManualConnectorID, job.ConnectorID)
	assert.Equal(t, "Spring Sale Banner", job.ContentID)
	assert.Equal(t, workflow.StatusIntake, job.Status)
	assert.Equal(t, models.PriorityMedium, job.Priority)

	// Two trimmed non-empty lines for each of two locales.
	require.Len(t, job.Segments, 4)
	assert.Equal(t, "Welcome to our store", job.Segments[0].SourceText)
	assert.Equal(t, "fr-FR", job.Segments[0].TargetLocale)
	assert.Equal(t, "bienvenue à notre boutique", job.Segments[0].NMTSuggestion)

	assert.Equal(t, "human_post_edit", job.Metadata["workflow_mode"])
	assert.Equal(t, "Welcome to our store\n\n  Flash sale today  \n", job.Metadata["_source_content"])
	assert.Equal(t, 0.0, job.Progress)

	stored, ok := f.store.GetJob(job.ID)
	require.True(t, ok)
	assert.Equal(t, job.ID, stored.ID)

	activity := f.store.RecentActivity(1)
	require.Len(t, activity, 1)
	assert.Equal(t, "Created project 'Spring Sale Banner' for Ecommerce sector.", activity[0].Message)
}

func TestCreateProject_UsesContentIDFromMetadata(t *testing.T) {
	f := newFixture()

	job := f.service.CreateProject(context.Background(), CreateProjectInput{
		Name:          "Homepage",
		Sector:        "ecommerce",
		SourceLocale:  "en-US",
		TargetLocales: []string{"fr-FR"},
		Content:       "Welcome",
		ConnectorID:   uuid.New(),
		CreatedByID:   "c1a9e2f0-0000-0000-0000-000000000042",
		Metadata:      map[string]string{"content_id": "cms-42"},
	})

	assert.Equal(t, "cms-42", job.ContentID)
	assert.NotEqual(t, models.ManualConnectorID, job.ConnectorID)
	assert.Equal(t, "c1a9e2f0-0000-0000-0000-000000000042", job.Metadata["created_by_id"])
}

func TestCreateProject_EnrichesSegmentsWithTMAndTerms(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tm.AddEntry(ctx, "en-US", "fr-FR", "Welcome to our store", "Bienvenue dans notre boutique")
	f.terms.AddEntry(ctx, "ecommerce", "en-US", "fr-FR", "store", "boutique", "")

	job := f.service.CreateProject(ctx, CreateProjectInput{
		Name:          "Banner",
		Sector:        "ecommerce",
		SourceLocale:  "en-US",
		TargetLocales: []string{"fr-FR"},
		Content:       "Welcome to our store",
	})

	require.Len(t, job.Segments, 1)
	segment := job.Segments[0]
	assert.Equal(t, "Bienvenue dans notre boutique", segment.TMSuggestion)
	assert.Equal(t, 1.0, segment.TMScore)
	assert.Equal(t, []string{"boutique"}, segment.TermHits)
}

func TestListProjectsForUser(t *testing.T) {
	f := newFixture()
	managerID := uuid.New()
	base := time.Now().UTC()

	f.store.AddJob(models.Job{
		ID:        uuid.New(),
		Name:      "unowned",
		Status:    workflow.StatusIntake,
		CreatedAt: base,
		Metadata:  map[string]string{},
	})
	f.store.AddJob(models.Job{
		ID:        uuid.New(),
		Name:      "mine",
		Status:    workflow.StatusInProgress,
		CreatedAt: base.Add(time.Second),
		Metadata:  map[string]string{"created_by_id": managerID.String()},
	})
	f.store.AddJob(models.Job{
		ID:        uuid.New(),
		Name:      "someone elses, completed",
		Status:    workflow.StatusCompleted,
		CreatedAt: base.Add(2 * time.Second),
		Metadata:  map[string]string{"created_by_id": uuid.New().String()},
	})

	manager := f.service.ListProjectsForUser(managerID, "manager")
	require.Len(t, manager, 2)
	// Newest first.
	assert.Equal(t, "mine", manager[0].Name)
	assert.Equal(t, "unowned", manager[1].Name)

	translator := f.service.ListProjectsForUser(uuid.New(), "translator")
	require.Len(t, translator, 2)
	for _, job := range translator {
		assert.NotEqual(t, workflow.StatusCompleted, job.Status)
	}

	admin := f.service.ListProjectsForUser(uuid.New(), "admin")
	assert.Len(t, admin, 3)
}

func TestGetProject_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.GetProject(context.Background(), uuid.New())
	require.Error(t, err)

	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.Code)
}

func TestUpdateSegment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job := f.service.CreateProject(ctx, CreateProjectInput{
		Name:          "Banner",
		Sector:        "ecommerce",
		SourceLocale:  "en-US",
		TargetLocales: []string{"fr-FR"},
		Content:       "Welcome to our store",
	})
	segmentID := job.Segments[0].ID

	edit := "Bienvenue dans notre boutique !"
	segment, err := f.service.UpdateSegment(ctx, job.ID, segmentID, SegmentUpdate{PostEdit: &edit})
	require.NoError(t, err)
	assert.Equal(t, edit, segment.PostEdit)
	assert.Empty(t, segment.ReviewerNotes)

	// Only the workflow share is outstanding once every segment is edited.
	updated, ok := f.store.GetJob(job.ID)
	require.True(t, ok)
	assert.Equal(t, 0.6, updated.Progress)

	notes := "checked tone"
	segment, err = f.service.UpdateSegment(ctx, job.ID, segmentID, SegmentUpdate{ReviewerNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, edit, segment.PostEdit, "post edit survives a notes-only update")
	assert.Equal(t, notes, segment.ReviewerNotes)
}

func TestUpdateSegment_UnknownSegment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job := f.service.CreateProject(ctx, CreateProjectInput{
		Name:          "Banner",
		Sector:        "ecommerce",
		SourceLocale:  "en-US",
		TargetLocales: []string{"fr-FR"},
		Content:       "Welcome",
	})

	_, err := f.service.UpdateSegment(ctx, job.ID, uuid.New(), SegmentUpdate{})
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.Code)
}

func TestCompleteStep(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job := f.service.CreateProject(ctx, CreateProjectInput{
		Name:          "Banner",
		Sector:        "ecommerce",
		SourceLocale:  "en-US",
		TargetLocales: []string{"fr-FR"},
		Content:       "Welcome to our store",
	})

	updated, err := f.service.CompleteStep(ctx, job.ID, "intake_review", StepCompletion{
		PostEdit: "Bienvenue dans notre boutique",
		QAFlags:  []string{"tone_check", "length_check"},
	})
	require.NoError(t, err)

	assert.Equal(t, workflow.StepCompleted, updated.Workflow[0].Status)
	assert.Equal(t, workflow.StepInProgress, updated.Workflow[1].Status)
	assert.Equal(t, workflow.StatusInProgress, updated.Status)

	segment := updated.Segments[0]
	assert.Equal(t, "Bienvenue dans notre boutique", segment.PostEdit)
	assert.Equal(t, []string{"length_check", "tone_check"}, segment.QAFlags)

	// 1/4 workflow steps done, every segment post-edited.
	assert.Equal(t, 0.7, updated.Progress)
}

func TestCompleteStep_TargetsOnlyListedSegments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job := f.service.CreateProject(ctx, CreateProjectInput{
		Name:          "Banner",
		Sector:        "ecommerce",
		SourceLocale:  "en-US",
		TargetLocales: []string{"fr-FR"},
		Content:       "Welcome\nFlash sale",
	})

	updated, err := f.service.CompleteStep(ctx, job.ID, "intake_review", StepCompletion{
		PostEdit:   "edited",
		SegmentIDs: []uuid.UUID{job.Segments[0].ID, uuid.New()},
	})
	require.NoError(t, err)

	assert.Equal(t, "edited", updated.Segments[0].PostEdit)
	assert.Empty(t, updated.Segments[1].PostEdit)
}

func TestCompleteStep_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job := f.service.CreateProject(ctx, CreateProjectInput{
		Name:          "Banner",
		Sector:        "ecommerce",
		SourceLocale:  "en-US",
		TargetLocales: []string{"fr-FR"},
		Content:       "Welcome",
	})

	var appErr *common.AppError

	_, err := f.service.CompleteStep(ctx, job.ID, "pii_masking", StepCompletion{})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.Code)

	// nmt_translation exists in the ecommerce workflow but is pending.
	_, err = f.service.CompleteStep(ctx, job.ID, "nmt_translation", StepCompletion{})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 409, appErr.Code)

	_, err = f.service.CompleteStep(ctx, uuid.New(), "intake_review", StepCompletion{})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.Code)
}

func TestAddQualityReport(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job := f.service.CreateProject(ctx, CreateProjectInput{
		Name:          "Banner",
		Sector:        "ecommerce",
		SourceLocale:  "en-US",
		TargetLocales: []string{"fr-FR"},
		Content:       "Welcome",
	})

	updated, err := f.service.AddQualityReport(ctx, job.ID, models.QualityReport{
		MTQEScore: 88.5,
		Reviewer:  "qa_bot",
	})
	require.NoError(t, err)
	require.Len(t, updated.QualityReports, 1)
	assert.False(t, updated.QualityReports[0].SubmittedAt.IsZero())
}

func TestStudioSnapshot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tm.AddEntry(ctx, "en-US", "fr-FR", "Welcome", "Bienvenue")
	f.terms.AddEntry(ctx, "legal", "en-US", "fr-FR", "clause", "clause", "")

	job := f.service.CreateProject(ctx, CreateProjectInput{
		Name:          "Contract",
		Sector:        "legal",
		SourceLocale:  "en-US",
		TargetLocales: []string{"fr-FR", "de-DE"},
		Content:       "This clause limits liability\nGoverning law",
	})

	snapshot, err := f.service.StudioSnapshot(ctx, job.ID, "fr-FR")
	require.NoError(t, err)

	assert.Equal(t, "Contract", snapshot.ProjectName)
	assert.Equal(t, "fr-FR", snapshot.TargetLocale)
	require.Len(t, snapshot.Segments, 2)
	for _, segment := range snapshot.Segments {
		assert.Equal(t, "fr-FR", segment.TargetLocale)
	}
	assert.Len(t, snapshot.TranslationMemory, 1)
	assert.Len(t, snapshot.TermBase, 1)
	assert.NotEmpty(t, snapshot.QAInsights)
}

func TestBuildQAInsights(t *testing.T) {
	high := models.Segment{RiskLevel: mt.RiskHigh}
	medium := models.Segment{RiskLevel: mt.RiskMedium}
	low := models.Segment{RiskLevel: mt.RiskLow}

	insights := buildQAInsights([]models.Segment{high, high, medium, low})
	require.Len(t, insights, 2)
	assert.Equal(t, "High MT risk detected", insights[0].Title)
	assert.Equal(t, "2 segments require urgent human review.", insights[0].Message)
	assert.Equal(t, "Segments to monitor", insights[1].Title)
	assert.Equal(t, "1 segments flagged for additional QA.", insights[1].Message)

	clean := buildQAInsights([]models.Segment{low})
	require.Len(t, clean, 1)
	assert.Equal(t, "Machine output validated", clean[0].Title)

	assert.Empty(t, buildQAInsights(nil))
}

func TestRecalculateProgress(t *testing.T) {
	job := models.Job{
		TargetLocales: []string{"fr-FR"},
		Workflow: []workflow.Step{
			{Name: "a", Status: workflow.StepCompleted},
			{Name: "b", Status: workflow.StepInProgress},
		},
		Segments: []models.Segment{
			{TargetLocale: "fr-FR", PostEdit: "done"},
			{TargetLocale: "fr-FR"},
			{TargetLocale: "ja-JP", PostEdit: "out of scope"},
		},
	}

	// 0.4*(1/2) + 0.6*(1/2)
	assert.Equal(t, 0.5, RecalculateProgress(&job))

	empty := models.Job{}
	// Empty workflow counts as complete, no segments contribute nothing.
	assert.Equal(t, 0.4, RecalculateProgress(&empty))
}
