package service

import (
	"math/rand"
	"strings"
	"time"

	"brandquiz/internal/model"
)

// Report statuses
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var statusMessages = map[string]string{
	StatusCompleted:  "Your report is ready and has been sent to your email.",
	StatusProcessing: "Your report is still being generated. Please check back in a few minutes.",
	StatusFailed:     "There was an issue generating your report. Please try again.",
}

var reportStatuses = []string{StatusProcessing, StatusCompleted, StatusFailed}

// StatusService answers report status checks. Reports are not persisted,
// so the status is simulated.
type StatusService struct {
	pick func(n int) int
	now  func() time.Time
}

// NewStatusService creates a new status service
func NewStatusService() *StatusService {
	return &StatusService{
		pick: rand.Intn,
		now:  time.Now,
	}
}

// Check returns a simulated status for reportID
func (s *StatusService) Check(reportID string) (*model.ReportStatus, error) {
	reportID = strings.TrimSpace(reportID)
	if reportID == "" {
		verr := &model.ValidationError{}
		verr.Add("reportId", "Report ID is required")
		return nil, verr
	}

	status := reportStatuses[s.pick(len(reportStatuses))]
	return &model.ReportStatus{
		Success:   true,
		ReportID:  reportID,
		Status:    status,
		Message:   statusMessages[status],
		Timestamp: s.now().UTC(),
	}, nil
}
