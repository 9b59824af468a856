package inmemory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/jobs"
)

var errMissingJobID = errors.New("job ID is required")

// Store keeps analysis jobs in memory. Jobs are deep-copied on the way in
// and out, so a caller never shares a Result with a worker.
type Store struct {
	mu   sync.RWMutex
	byID map[string]*jobs.AnalysisJob
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{byID: make(map[string]*jobs.AnalysisJob)}
}

// SaveJob stores a snapshot of job, replacing any earlier state.
func (s *Store) SaveJob(ctx context.Context, job *jobs.AnalysisJob) error {
	if job == nil || job.JobID == "" {
		return fmt.Errorf("SaveJob: %w", errMissingJobID)
	}
	snapshot := job.Clone()

	s.mu.Lock()
	s.byID[job.JobID] = snapshot
	s.mu.Unlock()
	return nil
}

// GetJob returns a copy of the job with the given ID.
func (s *Store) GetJob(ctx context.Context, jobID string) (*jobs.AnalysisJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.byID[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", jobs.ErrJobNotFound, jobID)
	}
	return job.Clone(), nil
}

// ListJobs returns copies of the matching jobs, newest first with ties
// broken by ID, paged by filter.Offset and filter.Limit. The slice is never
// nil.
func (s *Store) ListJobs(ctx context.Context, filter jobs.JobFilter) ([]*jobs.AnalysisJob, error) {
	s.mu.RLock()
	matched := make([]*jobs.AnalysisJob, 0, len(s.byID))
	for _, job := range s.byID {
		if filter.Matches(job) {
			matched = append(matched, job.Clone())
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, newestFirst)
	return page(matched, filter.Offset, filter.Limit), nil
}

// UpdateJobStatus sets the status of a stored job and stamps StartedAt on
// the first move to running and CompletedAt on a final status. An empty
// errorMsg leaves the recorded error untouched.
func (s *Store) UpdateJobStatus(ctx context.Context, jobID string, status jobs.JobStatus, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.byID[jobID]
	if !ok {
		return fmt.Errorf("%w: %s", jobs.ErrJobNotFound, jobID)
	}

	now := time.Now()
	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}
	if status == jobs.JobStatusRunning && job.StartedAt == nil {
		job.StartedAt = &now
	}
	if job.Done() && job.CompletedAt == nil {
		job.CompletedAt = &now
	}
	return nil
}

func newestFirst(a, b *jobs.AnalysisJob) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.JobID < b.JobID:
		return -1
	case a.JobID > b.JobID:
		return 1
	}
	return 0
}

func page(list []*jobs.AnalysisJob, offset, limit int) []*jobs.AnalysisJob {
	if offset >= len(list) {
		return []*jobs.AnalysisJob{}
	}
	if offset > 0 {
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

var _ jobs.JobStore = (*Store)(nil)
