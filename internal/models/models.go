// Package models holds the domain types shared across the localization
// pipeline: connectors, jobs, segments, linguistic assets, and the
// aggregate views served to dashboards.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/richxcame/localeflow/internal/mt"
	"github.com/richxcame/localeflow/internal/workflow"
)

// ManualConnectorID is the reserved connector for projects created by
// hand instead of through a content integration.
var ManualConnectorID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// ConnectorType categorizes content integrations
type ConnectorType string

const (
	ConnectorCMS ConnectorType = "cms"
	ConnectorGit ConnectorType = "git"
)

// Priority labels attached to projects
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ParsePriority normalizes a raw priority label. Unknown or empty
// values fall back to medium so inbound connector payloads never fail
// on a bad label.
func ParsePriority(raw string) Priority {
	switch Priority(raw) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return Priority(raw)
	default:
		return PriorityMedium
	}
}

// Connector is a registered content integration (CMS, git repo)
type Connector struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Type           ConnectorType     `json:"type"`
	Sector         string            `json:"sector"`
	Metadata       map[string]string `json:"metadata"`
	AutoSync       bool              `json:"auto_sync"`
	ContentPaths   []string          `json:"content_paths"`
	CreatedAt      time.Time         `json:"created_at"`
	LastSyncedAt   *time.Time        `json:"last_synced_at,omitempty"`
	LastSyncStatus string            `json:"last_sync_status,omitempty"`
	Active         bool              `json:"active"`
}

// Vendor is a registered language service provider
type Vendor struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Sectors      []string  `json:"sectors"`
	Locales      []string  `json:"locales"`
	Rating       float64   `json:"rating"`
	ContactEmail string    `json:"contact_email"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// TranslationMemoryEntry is a reusable source/target pair for a locale pair
type TranslationMemoryEntry struct {
	ID             uuid.UUID `json:"id"`
	SourceLocale   string    `json:"source_locale"`
	TargetLocale   string    `json:"target_locale"`
	SourceText     string    `json:"source_text"`
	TranslatedText string    `json:"translated_text"`
	CreatedAt      time.Time `json:"created_at"`
	UsageCount     int       `json:"usage_count"`
}

// TermEntry is a term base record scoped to a sector and locale pair
type TermEntry struct {
	ID           uuid.UUID `json:"id"`
	Sector       string    `json:"sector"`
	SourceLocale string    `json:"source_locale"`
	TargetLocale string    `json:"target_locale"`
	Term         string    `json:"term"`
	Translation  string    `json:"translation"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Segment is one translatable line of a job for one target locale.
// Machine suggestions are filled by the pipeline; post edits and
// reviewer notes come from humans in the studio.
type Segment struct {
	ID              uuid.UUID    `json:"id"`
	SourceText      string       `json:"source_text"`
	TargetLocale    string       `json:"target_locale"`
	TMSuggestion    string       `json:"tm_suggestion,omitempty"`
	TMScore         float64      `json:"tm_score,omitempty"`
	NMTSuggestion   string       `json:"nmt_suggestion,omitempty"`
	PostEdit        string       `json:"post_edit,omitempty"`
	ReviewerNotes   string       `json:"reviewer_notes,omitempty"`
	RiskLevel       mt.RiskLevel `json:"risk_level,omitempty"`
	QualityEstimate float64      `json:"quality_estimate"`
	QAFlags         []string     `json:"qa_flags"`
	TermHits        []string     `json:"term_hits"`
	LastUpdated     time.Time    `json:"last_updated"`
}

// QualityReport is a human or automated quality evaluation for a job
type QualityReport struct {
	MTQEScore       float64         `json:"mtqe_score" binding:"min=0,max=100"`
	MQMErrors       map[string]int  `json:"mqm_errors"`
	Comments        string          `json:"comments,omitempty"`
	SubmittedAt     time.Time       `json:"submitted_at"`
	Reviewer        string          `json:"reviewer,omitempty"`
	ComplianceFlags map[string]bool `json:"compliance_flags"`
}

// Job is a translation job created from inbound connector content or a
// manually configured project.
type Job struct {
	ID                 uuid.UUID          `json:"id"`
	ConnectorID        uuid.UUID          `json:"connector_id"`
	ContentID          string             `json:"content_id"`
	Sector             string             `json:"sector"`
	SourceLocale       string             `json:"source_locale"`
	TargetLocales      []string           `json:"target_locales"`
	CreatedAt          time.Time          `json:"created_at"`
	Status             workflow.JobStatus `json:"status"`
	Workflow           []workflow.Step    `json:"workflow"`
	Segments           []Segment          `json:"segments"`
	Metadata           map[string]string  `json:"metadata"`
	QualityReports     []QualityReport    `json:"quality_reports"`
	Name               string             `json:"name,omitempty"`
	Client             string             `json:"client,omitempty"`
	Priority           Priority           `json:"priority,omitempty"`
	DueDate            *time.Time         `json:"due_date,omitempty"`
	EstimatedWordCount int                `json:"estimated_word_count,omitempty"`
	Budget             float64            `json:"budget,omitempty"`
	Description        string             `json:"description,omitempty"`
	Progress           float64            `json:"progress"`
	AssignedVendorID   string             `json:"assigned_vendor_id,omitempty"`
	LastUpdated        time.Time          `json:"last_updated"`
}

// ActivityEntry is one line of the recent activity feed
type ActivityEntry struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// DeadlineEntry is an upcoming due date surfaced on the dashboard
type DeadlineEntry struct {
	ProjectID   uuid.UUID `json:"project_id"`
	ProjectName string    `json:"project_name"`
	DueDate     time.Time `json:"due_date"`
	Priority    Priority  `json:"priority,omitempty"`
}

// DashboardSummary is the aggregate view behind the home dashboard
type DashboardSummary struct {
	ActiveProjects    int             `json:"active_projects"`
	PendingReviews    int             `json:"pending_reviews"`
	MonthlyEarnings   float64         `json:"monthly_earnings"`
	WordsTranslated   int             `json:"words_translated"`
	RecentActivity    []ActivityEntry `json:"recent_activity"`
	UpcomingDeadlines []DeadlineEntry `json:"upcoming_deadlines"`
}

// SectorStats counts jobs per sector for analytics breakdowns
type SectorStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// AnalyticsSummary is the platform-wide rollup
type AnalyticsSummary struct {
	TotalConnectors        int                    `json:"total_connectors"`
	TotalJobs              int                    `json:"total_jobs"`
	CompletedJobs          int                    `json:"completed_jobs"`
	AverageMTQE            *float64               `json:"average_mtqe"`
	SectorBreakdown        map[string]SectorStats `json:"sector_breakdown"`
	TranslatorProductivity map[string]float64     `json:"translator_productivity"`
}

// EarningsPoint is one bucket of the earnings trend chart
type EarningsPoint struct {
	Label    string  `json:"label"`
	Earnings float64 `json:"earnings"`
	Words    int     `json:"words"`
	Projects int     `json:"projects"`
}

// LanguagePairPerformance tracks effort per language pair
type LanguagePairPerformance struct {
	Pair  string  `json:"pair"`
	Value float64 `json:"value"`
}

// TimeTrackingPoint is one entry on the time tracking trend chart
type TimeTrackingPoint struct {
	Label string  `json:"label"`
	Hours float64 `json:"hours"`
}

// TimeTrackingAnalysis summarizes logged hours for analytics views
type TimeTrackingAnalysis struct {
	TotalHours   float64             `json:"total_hours"`
	Breakdown    map[string]float64  `json:"breakdown"`
	DailyAverage float64             `json:"daily_average"`
	Trend        []TimeTrackingPoint `json:"trend"`
}

// AnalyticsOverview is the detailed analytics payload for reporting views
type AnalyticsOverview struct {
	TotalEarnings           float64                   `json:"total_earnings"`
	WordsTranslated         int                       `json:"words_translated"`
	ProjectsCompleted       int                       `json:"projects_completed"`
	AverageRating           float64                   `json:"average_rating"`
	EarningsTrend           []EarningsPoint           `json:"earnings_trend"`
	LanguagePairPerformance []LanguagePairPerformance `json:"language_pair_performance"`
	TimeTracking            TimeTrackingAnalysis      `json:"time_tracking"`
}

// QAInsight is an automated QA observation shown in the studio
type QAInsight struct {
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Severity mt.RiskLevel `json:"severity"`
}

// StudioSnapshot is the full workspace payload for one project and
// target locale: segments, linguistic assets, QA insights, workflow.
type StudioSnapshot struct {
	ProjectID         uuid.UUID                `json:"project_id"`
	ProjectName       string                   `json:"project_name"`
	SourceLocale      string                   `json:"source_locale"`
	TargetLocale      string                   `json:"target_locale"`
	Sector            string                   `json:"sector"`
	Segments          []Segment                `json:"segments"`
	TranslationMemory []TranslationMemoryEntry `json:"translation_memory"`
	TermBase          []TermEntry              `json:"term_base"`
	QAInsights        []QAInsight              `json:"qa_insights"`
	Workflow          []workflow.Step          `json:"workflow"`
	Progress          float64                  `json:"progress"`
}
