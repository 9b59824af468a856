// Package jobs defines asynchronous ledger analysis jobs and the
// interfaces queue and store implementations satisfy.
package jobs

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/pipeline"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeAnalyzeLedger analyzes a ledger file stored in GCS.
	JobTypeAnalyzeLedger JobType = "analyze_ledger"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
	// JobStatusRetrying indicates the job failed and is being retried.
	JobStatusRetrying JobStatus = "retrying"
)

// DefaultMaxRetries applies when a published job does not set MaxRetries.
const DefaultMaxRetries = 3

// AnalysisJob is a request to analyze the ledger at a GCS URI.
type AnalysisJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// GCSURI is the gs:// URI of the ledger CSV.
	GCSURI string `json:"gcs_uri"`

	// Enrich enables Debit/Credit enrichment before analysis.
	Enrich bool `json:"enrich"`

	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	RetryCount int `json:"retry_count"`
	MaxRetries int `json:"max_retries"`

	// Result is set once the analysis ran, including when the ledger was
	// rejected.
	Result *pipeline.Result `json:"result,omitempty"`
}

// Type returns the job type.
func (j *AnalysisJob) Type() JobType {
	return JobTypeAnalyzeLedger
}

// Done reports whether the job reached a final state.
func (j *AnalysisJob) Done() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// Clone returns a deep copy of j. The copy shares no timestamps, result or
// result slices with j.
func (j *AnalysisJob) Clone() *AnalysisJob {
	c := *j
	c.StartedAt = cloneTime(j.StartedAt)
	c.CompletedAt = cloneTime(j.CompletedAt)
	if j.Result != nil {
		r := *j.Result
		r.Flags = slices.Clone(j.Result.Flags)
		r.ChartsData = slices.Clone(j.Result.ChartsData)
		r.Metrics.Monthly = slices.Clone(j.Result.Metrics.Monthly)
		c.Result = &r
	}
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Publisher defines the interface for publishing jobs to a queue.
type Publisher interface {
	// PublishAnalysis enqueues an analysis job.
	PublishAnalysis(ctx context.Context, job *AnalysisJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	// The handler function is called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler processes a job. A returned error triggers a retry unless it
// is marked Permanent.
type JobHandler func(ctx context.Context, job *AnalysisJob) error

// JobStore defines the interface for storing and retrieving job status.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *AnalysisJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*AnalysisJob, error)

	// ListJobs retrieves jobs with optional filtering, newest first.
	ListJobs(ctx context.Context, filter JobFilter) ([]*AnalysisJob, error)

	// UpdateJobStatus updates the status of a job.
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// GCSURI filters jobs by source URI.
	GCSURI string

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}

// Matches reports whether job passes the URI and status filters. Paging is
// applied by the store.
func (f JobFilter) Matches(job *AnalysisJob) bool {
	if f.GCSURI != "" && job.GCSURI != f.GCSURI {
		return false
	}
	return f.Status == "" || job.Status == f.Status
}

// ErrJobNotFound is returned by stores for unknown job IDs.
var ErrJobNotFound = errors.New("job not found")

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
