package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/localeflow/internal/models"
	"github.com/richxcame/localeflow/internal/state"
	"github.com/richxcame/localeflow/internal/workflow"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestService(store *state.Store) *Service {
	return NewService(store).WithNow(func() time.Time { return testNow })
}

func addJob(store *state.Store, job models.Job) models.Job {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	store.AddJob(job)
	return job
}

func TestDashboardSummary(t *testing.T) {
	store := state.NewStore()
	svc := newTestService(store)

	dueThisMonth := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)
	dueNextMonth := time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)

	addJob(store, models.Job{
		Name:   "Active with review",
		Status: workflow.StatusInProgress,
		Workflow: []workflow.Step{
			{Name: "intake_review", Status: workflow.StepCompleted},
			{Name: "human_post_edit", Automated: false, Status: workflow.StepInProgress},
		},
		DueDate:            &dueThisMonth,
		Budget:             1200.50,
		EstimatedWordCount: 900,
		Priority:           models.PriorityHigh,
	})
	addJob(store, models.Job{
		Name:   "Automated step in progress",
		Status: workflow.StatusInProgress,
		Workflow: []workflow.Step{
			{Name: "nmt_translation", Automated: true, Status: workflow.StepInProgress},
		},
		DueDate: &dueNextMonth,
		Budget:  800,
	})
	addJob(store, models.Job{
		Name:               "Done",
		Status:             workflow.StatusCompleted,
		EstimatedWordCount: 5000,
		Budget:             3000,
	})

	store.RecordActivityMessage("project", "something happened")

	summary := svc.DashboardSummary()

	assert.Equal(t, 2, summary.ActiveProjects)
	assert.Equal(t, 1, summary.PendingReviews, "automated steps do not count as reviews")
	assert.Equal(t, 1200.50, summary.MonthlyEarnings)
	assert.Equal(t, 5000, summary.WordsTranslated)
	assert.Len(t, summary.RecentActivity, 1)

	require.Len(t, summary.UpcomingDeadlines, 2)
	assert.Equal(t, "Active with review", summary.UpcomingDeadlines[0].ProjectName)
	assert.Equal(t, models.PriorityHigh, summary.UpcomingDeadlines[0].Priority)
}

func TestDashboardSummary_CapsDeadlinesAtFive(t *testing.T) {
	store := state.NewStore()
	svc := newTestService(store)

	for i := 0; i < 8; i++ {
		due := testNow.AddDate(0, 0, i+1)
		addJob(store, models.Job{
			Name:    "job",
			Status:  workflow.StatusIntake,
			DueDate: &due,
		})
	}

	summary := svc.DashboardSummary()
	assert.Len(t, summary.UpcomingDeadlines, 5)
}

func TestSummary(t *testing.T) {
	store := state.NewStore()
	svc := newTestService(store)

	store.AddConnector(models.Connector{ID: uuid.New(), Name: "CMS"})

	addJob(store, models.Job{
		Sector: "BFSI",
		Status: workflow.StatusCompleted,
		QualityReports: []models.QualityReport{
			{MTQEScore: 90},
			{MTQEScore: 80},
		},
		Metadata: map[string]string{"translator": "marie", "translation_hours": "12.5"},
	})
	addJob(store, models.Job{
		Sector:   "bfsi",
		Status:   workflow.StatusInProgress,
		Metadata: map[string]string{"translator": "marie", "translation_hours": "2.5"},
	})
	addJob(store, models.Job{
		Sector:   "legal",
		Status:   workflow.StatusIntake,
		Metadata: map[string]string{},
	})

	summary := svc.Summary()

	assert.Equal(t, 1, summary.TotalConnectors)
	assert.Equal(t, 3, summary.TotalJobs)
	assert.Equal(t, 1, summary.CompletedJobs)

	require.NotNil(t, summary.AverageMTQE)
	assert.Equal(t, 85.0, *summary.AverageMTQE)

	assert.Equal(t, models.SectorStats{Total: 2, Completed: 1}, summary.SectorBreakdown["bfsi"])
	assert.Equal(t, models.SectorStats{Total: 1}, summary.SectorBreakdown["legal"])

	assert.Equal(t, 15.0, summary.TranslatorProductivity["marie"])
}

func TestSummary_NoReportsMeansNilAverage(t *testing.T) {
	store := state.NewStore()
	svc := newTestService(store)

	addJob(store, models.Job{Sector: "legal", Metadata: map[string]string{}})

	assert.Nil(t, svc.Summary().AverageMTQE)
}

func TestOverview(t *testing.T) {
	store := state.NewStore()
	svc := newTestService(store)

	addJob(store, models.Job{
		SourceLocale:       "en-US",
		TargetLocales:      []string{"fr-FR", "de-DE"},
		Status:             workflow.StatusCompleted,
		Budget:             1000,
		EstimatedWordCount: 400,
		Metadata:           map[string]string{"reporting_week": "Week 2", "rating": "4.6"},
	})
	addJob(store, models.Job{
		SourceLocale:       "en-US",
		TargetLocales:      []string{"fr-FR"},
		Status:             workflow.StatusInProgress,
		Budget:             500,
		EstimatedWordCount: 200,
		Metadata:           map[string]string{"reporting_week": "Week 1", "rating": "5"},
	})

	store.SetTimeTracking(
		map[string]float64{"translation": 40, "review": 15, "communication": 5},
		[]models.TimeTrackingPoint{{Label: "Mon", Hours: 8}},
	)

	overview := svc.Overview()

	assert.Equal(t, 1500.0, overview.TotalEarnings)
	assert.Equal(t, 600, overview.WordsTranslated)
	assert.Equal(t, 1, overview.ProjectsCompleted)
	assert.Equal(t, 4.8, overview.AverageRating)

	require.Len(t, overview.EarningsTrend, 2)
	assert.Equal(t, "Week 1", overview.EarningsTrend[0].Label)
	assert.Equal(t, 500.0, overview.EarningsTrend[0].Earnings)
	assert.Equal(t, "Week 2", overview.EarningsTrend[1].Label)

	require.Len(t, overview.LanguagePairPerformance, 2)
	assert.Equal(t, "en-US-de-DE", overview.LanguagePairPerformance[0].Pair)
	assert.Equal(t, 400.0, overview.LanguagePairPerformance[0].Value)
	assert.Equal(t, "en-US-fr-FR", overview.LanguagePairPerformance[1].Pair)
	assert.Equal(t, 600.0, overview.LanguagePairPerformance[1].Value)

	assert.Equal(t, 60.0, overview.TimeTracking.TotalHours)
	assert.Equal(t, 2.0, overview.TimeTracking.DailyAverage)
	require.Len(t, overview.TimeTracking.Trend, 1)
}

func TestOverview_DefaultRating(t *testing.T) {
	store := state.NewStore()
	svc := newTestService(store)

	addJob(store, models.Job{Metadata: map[string]string{}})

	assert.Equal(t, 4.8, svc.Overview().AverageRating)
}
