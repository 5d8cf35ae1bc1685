package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandquiz/internal/model"
)

func TestStatusCheck_RequiresReportID(t *testing.T) {
	_, err := NewStatusService().Check("  ")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "reportId", verr.Fields[0].Field)
}

func TestStatusCheck_MessagesMatchStatus(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, want := range []string{StatusProcessing, StatusCompleted, StatusFailed} {
		svc := &StatusService{
			pick: func(int) int { return i },
			now:  func() time.Time { return fixed },
		}
		status, err := svc.Check("report-1")
		require.NoError(t, err)
		assert.True(t, status.Success)
		assert.Equal(t, "report-1", status.ReportID)
		assert.Equal(t, want, status.Status)
		assert.Equal(t, statusMessages[want], status.Message)
		assert.Equal(t, fixed, status.Timestamp)
	}
}

func TestStatusCheck_RandomStatusIsKnown(t *testing.T) {
	svc := NewStatusService()
	for i := 0; i < 50; i++ {
		status, err := svc.Check("r")
		require.NoError(t, err)
		assert.Contains(t, reportStatuses, status.Status)
		assert.NotEmpty(t, status.Message)
	}
}
