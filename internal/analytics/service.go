// Package analytics aggregates jobs into dashboard and reporting views
package analytics

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/richxcame/localeflow/internal/models"
	"github.com/richxcame/localeflow/internal/state"
	"github.com/richxcame/localeflow/internal/workflow"
)

// Service computes aggregate views over the in-memory store
type Service struct {
	store *state.Store
	now   func() time.Time
}

// NewService creates the analytics service
func NewService(store *state.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithNow overrides the clock, for tests
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// DashboardSummary aggregates the home dashboard metrics
func (s *Service) DashboardSummary() models.DashboardSummary {
	jobs := s.store.ListJobs()
	currentMonth := s.now().UTC().Month()

	active := 0
	pendingReviews := 0
	monthlyEarnings := 0.0
	wordsTranslated := 0
	var deadlines []models.DeadlineEntry

	for _, job := range jobs {
		if job.Status != workflow.StatusCompleted {
			active++
		}
		for _, step := range job.Workflow {
			if step.Status == workflow.StepInProgress && !step.Automated {
				pendingReviews++
			}
		}
		if job.DueDate != nil && job.DueDate.Month() == currentMonth {
			monthlyEarnings += job.Budget
		}
		if job.Status == workflow.StatusCompleted {
			wordsTranslated += job.EstimatedWordCount
		}
		if job.DueDate != nil && job.Status != workflow.StatusCompleted {
			deadlines = append(deadlines, models.DeadlineEntry{
				ProjectID:   job.ID,
				ProjectName: displayName(job),
				DueDate:     *job.DueDate,
				Priority:    job.Priority,
			})
		}
	}

	sort.Slice(deadlines, func(i, j int) bool {
		return deadlines[i].DueDate.Before(deadlines[j].DueDate)
	})
	if len(deadlines) > 5 {
		deadlines = deadlines[:5]
	}

	return models.DashboardSummary{
		ActiveProjects:    active,
		PendingReviews:    pendingReviews,
		MonthlyEarnings:   round2(monthlyEarnings),
		WordsTranslated:   wordsTranslated,
		RecentActivity:    s.store.RecentActivity(6),
		UpcomingDeadlines: deadlines,
	}
}

// Summary computes the platform-wide analytics rollup
func (s *Service) Summary() models.AnalyticsSummary {
	jobs := s.store.ListJobs()

	completed := 0
	mtqeSum := 0.0
	mtqeCount := 0
	breakdown := make(map[string]models.SectorStats)
	productivity := make(map[string]float64)

	for _, job := range jobs {
		sectorKey := strings.ToLower(job.Sector)
		stats := breakdown[sectorKey]
		stats.Total++
		if job.Status == workflow.StatusCompleted {
			completed++
			stats.Completed++
		}
		breakdown[sectorKey] = stats

		for _, report := range job.QualityReports {
			mtqeSum += report.MTQEScore
			mtqeCount++
		}

		if translator := job.Metadata["translator"]; translator != "" {
			hours, _ := strconv.ParseFloat(job.Metadata["translation_hours"], 64)
			productivity[translator] += hours
		}
	}

	var averageMTQE *float64
	if mtqeCount > 0 {
		avg := mtqeSum / float64(mtqeCount)
		averageMTQE = &avg
	}

	return models.AnalyticsSummary{
		TotalConnectors:        len(s.store.ListConnectors()),
		TotalJobs:              len(jobs),
		CompletedJobs:          completed,
		AverageMTQE:            averageMTQE,
		SectorBreakdown:        breakdown,
		TranslatorProductivity: productivity,
	}
}

// Overview computes the detailed reporting view: earnings trend,
// language pair effort, ratings, and time tracking.
func (s *Service) Overview() models.AnalyticsOverview {
	jobs := s.store.ListJobs()

	totalEarnings := 0.0
	wordsTranslated := 0
	projectsCompleted := 0
	ratingSum := 0.0
	ratingCount := 0
	trendMap := make(map[string]*models.EarningsPoint)
	pairEffort := make(map[string]float64)

	for _, job := range jobs {
		totalEarnings += job.Budget
		wordsTranslated += job.EstimatedWordCount
		if job.Status == workflow.StatusCompleted {
			projectsCompleted++
		}
		if raw := job.Metadata["rating"]; raw != "" {
			if rating, err := strconv.ParseFloat(raw, 64); err == nil {
				ratingSum += rating
				ratingCount++
			}
		}

		label := job.Metadata["reporting_week"]
		if label == "" {
			label = "Week 1"
		}
		point, ok := trendMap[label]
		if !ok {
			point = &models.EarningsPoint{Label: label}
			trendMap[label] = point
		}
		point.Earnings += job.Budget
		point.Words += job.EstimatedWordCount
		point.Projects++

		for _, locale := range job.TargetLocales {
			pairEffort[job.SourceLocale+"-"+locale] += float64(job.EstimatedWordCount)
		}
	}

	averageRating := 4.8
	if ratingCount > 0 {
		averageRating = ratingSum / float64(ratingCount)
	}

	trend := make([]models.EarningsPoint, 0, len(trendMap))
	for _, point := range trendMap {
		trend = append(trend, *point)
	}
	sort.Slice(trend, func(i, j int) bool {
		ni, li := trendSortKey(trend[i].Label)
		nj, lj := trendSortKey(trend[j].Label)
		if ni != nj {
			return ni < nj
		}
		return li < lj
	})

	pairs := make([]models.LanguagePairPerformance, 0, len(pairEffort))
	for pair, value := range pairEffort {
		pairs = append(pairs, models.LanguagePairPerformance{Pair: pair, Value: value})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Pair < pairs[j].Pair })

	breakdown, timeTrend := s.store.TimeTracking()
	totalHours := 0.0
	for _, hours := range breakdown {
		totalHours += hours
	}
	dailyAverage := 0.0
	if totalHours > 0 {
		dailyAverage = round2(totalHours / 30)
	}

	return models.AnalyticsOverview{
		TotalEarnings:           round2(totalEarnings),
		WordsTranslated:         wordsTranslated,
		ProjectsCompleted:       projectsCompleted,
		AverageRating:           round2(averageRating),
		EarningsTrend:           trend,
		LanguagePairPerformance: pairs,
		TimeTracking: models.TimeTrackingAnalysis{
			TotalHours:   totalHours,
			Breakdown:    breakdown,
			DailyAverage: dailyAverage,
			Trend:        timeTrend,
		},
	}
}

// trendSortKey orders "Week N" labels numerically, everything else
// alphabetically ahead of them.
func trendSortKey(label string) (int, string) {
	parts := strings.Fields(label)
	if len(parts) == 2 {
		if n, err := strconv.Atoi(parts[1]); err == nil {
			return n, label
		}
	}
	return 0, label
}

func displayName(job models.Job) string {
	if job.Name != "" {
		return job.Name
	}
	return job.ContentID
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
