package workflow

import "strings"

// StepStatus is the lifecycle state of a single workflow step
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
)

// JobStatus is the rollup status derived from a job's workflow
type JobStatus string

const (
	StatusIntake     JobStatus = "intake"
	StatusInProgress JobStatus = "in_progress"
	StatusCompleted  JobStatus = "completed"
)

// Step is one stage of a localization workflow. Automated steps are
// completed by bots or connectors; manual steps wait on a human assignee.
type Step struct {
	Name      string     `json:"name"`
	Automated bool       `json:"automated"`
	Assignee  string     `json:"assignee"`
	Status    StepStatus `json:"status"`
}

// Sector workflow templates. The first step of a built workflow starts
// in progress; everything else is pending.
var templates = map[string][]Step{
	"legal": {
		{Name: "intake_review", Automated: false, Assignee: "legal_pm"},
		{Name: "human_translation", Automated: false, Assignee: "linguist"},
		{Name: "compliance_review", Automated: false, Assignee: "legal_reviewer"},
		{Name: "qa_checks", Automated: true, Assignee: "quality_bot"},
		{Name: "signoff", Automated: false, Assignee: "legal_pm"},
	},
	"bfsi": {
		{Name: "intake_review", Automated: false, Assignee: "program_manager"},
		{Name: "pii_masking", Automated: true, Assignee: "privacy_bot"},
		{Name: "nmt_translation", Automated: true, Assignee: "nmt_engine"},
		{Name: "human_post_edit", Automated: false, Assignee: "post_editor"},
		{Name: "qa_checks", Automated: true, Assignee: "quality_bot"},
	},
	"ecommerce": {
		{Name: "intake_review", Automated: true, Assignee: "connector"},
		{Name: "nmt_translation", Automated: true, Assignee: "nmt_engine"},
		{Name: "light_review", Automated: false, Assignee: "reviewer"},
		{Name: "launch_ready", Automated: true, Assignee: "connector"},
	},
}

var defaultTemplate = []Step{
	{Name: "intake_review", Automated: true, Assignee: "connector"},
	{Name: "nmt_translation", Automated: true, Assignee: "nmt_engine"},
	{Name: "human_post_edit", Automated: false, Assignee: "post_editor"},
	{Name: "qa_checks", Automated: true, Assignee: "quality_bot"},
}

// Build returns a fresh workflow for the sector with the first step
// already in progress. Sector matching is case-insensitive; unknown
// sectors get the default template.
func Build(sector string) []Step {
	template, ok := templates[strings.ToLower(sector)]
	if !ok {
		template = defaultTemplate
	}

	steps := make([]Step, len(template))
	copy(steps, template)
	for i := range steps {
		steps[i].Status = StepPending
	}
	if len(steps) > 0 {
		steps[0].Status = StepInProgress
	}
	return steps
}

// Advance completes the current in-progress step and starts the next
// pending one. A workflow with nothing in progress is left untouched.
func Advance(steps []Step) {
	for i := range steps {
		if steps[i].Status == StepInProgress {
			steps[i].Status = StepCompleted
			for j := i + 1; j < len(steps); j++ {
				if steps[j].Status == StepPending {
					steps[j].Status = StepInProgress
					break
				}
			}
			break
		}
	}
}

// Status rolls a workflow up into a job status. An empty or fully
// completed workflow is completed; a job still on its first step is in
// intake; anything else is in progress.
func Status(steps []Step) JobStatus {
	if len(steps) == 0 {
		return StatusCompleted
	}

	allCompleted := true
	for i := range steps {
		if steps[i].Status != StepCompleted {
			allCompleted = false
			break
		}
	}
	if allCompleted {
		return StatusCompleted
	}

	if steps[0].Status == StepInProgress {
		return StatusIntake
	}
	return StatusInProgress
}

// InProgressIndex returns the index of the in-progress step, or -1
func InProgressIndex(steps []Step) int {
	for i := range steps {
		if steps[i].Status == StepInProgress {
			return i
		}
	}
	return -1
}

// FindStep returns the index of the named step, or -1
func FindStep(steps []Step, name string) int {
	for i := range steps {
		if steps[i].Name == name {
			return i
		}
	}
	return -1
}

// CompletionRatio is the fraction of completed steps. An empty workflow
// counts as fully complete.
func CompletionRatio(steps []Step) float64 {
	if len(steps) == 0 {
		return 1.0
	}
	completed := 0
	for i := range steps {
		if steps[i].Status == StepCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(steps))
}
