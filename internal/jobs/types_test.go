package jobs

import (
	"testing"
	"time"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/finance"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/pipeline"
)

func TestAnalysisJobClone(t *testing.T) {
	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	job := &AnalysisJob{
		JobID:     "a",
		GCSURI:    "gs://bucket/ledger.csv",
		Status:    JobStatusCompleted,
		StartedAt: &started,
		Result: &pipeline.Result{
			Score:      80,
			Flags:      []finance.Flag{{Type: finance.FlagDebtStress, Severity: finance.SeverityHigh}},
			ChartsData: []finance.MonthlyPoint{{Month: "2024-01", Revenue: 100}},
		},
	}

	c := job.Clone()
	*c.StartedAt = c.StartedAt.Add(time.Hour)
	c.Result.Score = 10
	c.Result.Flags[0].Type = "changed"
	c.Result.ChartsData[0].Revenue = 0

	if !job.StartedAt.Equal(started) {
		t.Errorf("StartedAt shared with clone: %v", job.StartedAt)
	}
	if job.Result.Score != 80 {
		t.Errorf("Result shared with clone: score = %d", job.Result.Score)
	}
	if job.Result.Flags[0].Type != finance.FlagDebtStress {
		t.Errorf("Flags shared with clone: %v", job.Result.Flags)
	}
	if job.Result.ChartsData[0].Revenue != 100 {
		t.Errorf("ChartsData shared with clone: %v", job.Result.ChartsData)
	}

	empty := (&AnalysisJob{JobID: "b"}).Clone()
	if empty.Result != nil || empty.StartedAt != nil || empty.CompletedAt != nil {
		t.Errorf("Clone() of bare job = %+v, want nil pointers", empty)
	}
}

func TestJobFilterMatches(t *testing.T) {
	job := &AnalysisJob{GCSURI: "gs://b/a.csv", Status: JobStatusFailed}

	tests := []struct {
		name   string
		filter JobFilter
		want   bool
	}{
		{"empty filter", JobFilter{}, true},
		{"same uri", JobFilter{GCSURI: "gs://b/a.csv"}, true},
		{"other uri", JobFilter{GCSURI: "gs://b/b.csv"}, false},
		{"same status", JobFilter{Status: JobStatusFailed}, true},
		{"other status", JobFilter{Status: JobStatusCompleted}, false},
		{"paging is ignored", JobFilter{Limit: 1, Offset: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(job); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
