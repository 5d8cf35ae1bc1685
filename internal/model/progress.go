package model

import "time"

// Step names a stage of the submission pipeline
type Step string

const (
	StepValidating       Step = "validating"
	StepScoring          Step = "scoring"
	StepScraping         Step = "scraping"
	StepClassifying      Step = "classifying"
	StepReportGenerating Step = "report_generating"
	StepSyncingCRM       Step = "syncing_crm"
	StepEmailing         Step = "emailing"
	StepResponding       Step = "responding"
)

// StepOutcome records how one pipeline step ended
type StepOutcome struct {
	Step     Step   `json:"step"`
	OK       bool   `json:"ok"`
	Fallback bool   `json:"fallback,omitempty"` // a substitute value was used
	Error    string `json:"error,omitempty"`
	Duration int64  `json:"durationMs"`
}

// ProgressEvent is published to listeners of a submission
type ProgressEvent struct {
	SubmissionID string `json:"submissionId"`
	Step         Step   `json:"step"`
	Status       string `json:"status"` // started, done, fallback, failed
	Message      string `json:"message,omitempty"`
}

// ReportStatus is the answer of the status endpoint
type ReportStatus struct {
	Success   bool      `json:"success"`
	ReportID  string    `json:"reportId"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// PipelineTrace is the ordered record of one submission's steps
type PipelineTrace struct {
	SubmissionID string        `json:"submissionId"`
	Steps        []StepOutcome `json:"steps"`
}

// Outcome returns the recorded outcome of step
func (t *PipelineTrace) Outcome(step Step) (StepOutcome, bool) {
	for _, o := range t.Steps {
		if o.Step == step {
			return o, true
		}
	}
	return StepOutcome{}, false
}
