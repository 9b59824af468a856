package inmemory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/jobs"
)

func waitForStatus(t *testing.T, store *Store, id string, status jobs.JobStatus) *jobs.AnalysisJob {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetJob(context.Background(), id)
		if err == nil && job.Status == status {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	job, _ := store.GetJob(context.Background(), id)
	t.Fatalf("job %s did not reach status %s, last seen %+v", id, status, job)
	return nil
}

func TestQueuePublishDefaults(t *testing.T) {
	store := NewStore()
	q := NewQueue(1, store)
	defer q.Close()

	job := &jobs.AnalysisJob{GCSURI: "gs://b/o.csv"}
	if err := q.PublishAnalysis(context.Background(), job); err != nil {
		t.Fatalf("PublishAnalysis() error = %v", err)
	}

	if job.JobID == "" {
		t.Error("expected generated job ID")
	}
	if job.Status != jobs.JobStatusPending {
		t.Errorf("Status = %s, want pending", job.Status)
	}
	if job.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if job.MaxRetries != jobs.DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", job.MaxRetries, jobs.DefaultMaxRetries)
	}
	if _, err := store.GetJob(context.Background(), job.JobID); err != nil {
		t.Errorf("job not saved: %v", err)
	}
}

func TestQueueCompletesJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	q := NewQueue(4, store, WithWorkers(2))

	handler := func(ctx context.Context, job *jobs.AnalysisJob) error {
		return nil
	}
	if err := q.Start(ctx, handler); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	job := &jobs.AnalysisJob{JobID: "ok", GCSURI: "gs://b/o.csv"}
	if err := q.PublishAnalysis(ctx, job); err != nil {
		t.Fatalf("PublishAnalysis() error = %v", err)
	}

	got := waitForStatus(t, store, "ok", jobs.JobStatusCompleted)
	if got.StartedAt == nil || got.CompletedAt == nil {
		t.Error("expected start and completion timestamps")
	}

	if err := q.Stop(context.Background()); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestQueueRetriesTransientFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	q := NewQueue(4, store, WithRetryBackoff(time.Millisecond))
	defer q.Close()

	var calls int32
	handler := func(ctx context.Context, job *jobs.AnalysisJob) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("temporarily unavailable")
		}
		return nil
	}
	if err := q.Start(ctx, handler); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := q.PublishAnalysis(ctx, &jobs.AnalysisJob{JobID: "flaky"}); err != nil {
		t.Fatalf("PublishAnalysis() error = %v", err)
	}

	got := waitForStatus(t, store, "flaky", jobs.JobStatusCompleted)
	if got.RetryCount != 2 {
		t.Errorf("RetryCount = %d, want 2", got.RetryCount)
	}
	if got.Error != "" {
		t.Errorf("Error = %q, want empty after success", got.Error)
	}
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	q := NewQueue(4, store, WithRetryBackoff(time.Millisecond))
	defer q.Close()

	var calls int32
	handler := func(ctx context.Context, job *jobs.AnalysisJob) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("still down")
	}
	if err := q.Start(ctx, handler); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := q.PublishAnalysis(ctx, &jobs.AnalysisJob{JobID: "down", MaxRetries: 2}); err != nil {
		t.Fatalf("PublishAnalysis() error = %v", err)
	}

	got := waitForStatus(t, store, "down", jobs.JobStatusFailed)
	if got.RetryCount != 2 {
		t.Errorf("RetryCount = %d, want 2", got.RetryCount)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("handler called %d times, want 3", n)
	}
}

func TestQueueDoesNotRetryPermanentFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	q := NewQueue(4, store, WithRetryBackoff(time.Millisecond))
	defer q.Close()

	var calls int32
	handler := func(ctx context.Context, job *jobs.AnalysisJob) error {
		atomic.AddInt32(&calls, 1)
		return jobs.Permanent(errors.New("Missing required columns"))
	}
	if err := q.Start(ctx, handler); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := q.PublishAnalysis(ctx, &jobs.AnalysisJob{JobID: "bad"}); err != nil {
		t.Fatalf("PublishAnalysis() error = %v", err)
	}

	got := waitForStatus(t, store, "bad", jobs.JobStatusFailed)
	if got.RetryCount != 0 {
		t.Errorf("RetryCount = %d, want 0", got.RetryCount)
	}
	if got.Error != "Missing required columns" {
		t.Errorf("Error = %q", got.Error)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("handler called %d times, want 1", n)
	}
}

func TestQueueClosed(t *testing.T) {
	q := NewQueue(1, nil)
	if err := q.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := q.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if err := q.PublishAnalysis(context.Background(), &jobs.AnalysisJob{}); err == nil {
		t.Error("expected error publishing to closed queue")
	}
	if err := q.Start(context.Background(), func(ctx context.Context, job *jobs.AnalysisJob) error { return nil }); err == nil {
		t.Error("expected error starting closed queue")
	}
}

func TestWithWorkersIgnoresNonPositive(t *testing.T) {
	q := NewQueue(1, nil, WithWorkers(0))
	if q.workers != DefaultWorkers {
		t.Errorf("workers = %d, want %d", q.workers, DefaultWorkers)
	}
	q = NewQueue(1, nil, WithWorkers(3))
	if q.workers != 3 {
		t.Errorf("workers = %d, want 3", q.workers)
	}
}
