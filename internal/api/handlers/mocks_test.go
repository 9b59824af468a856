package handlers

import (
	"context"
	"errors"
	"io"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/jobs"
)

type mockPublisher struct {
	PublishAnalysisFunc func(ctx context.Context, job *jobs.AnalysisJob) error
}

func (m *mockPublisher) PublishAnalysis(ctx context.Context, job *jobs.AnalysisJob) error {
	if m.PublishAnalysisFunc != nil {
		return m.PublishAnalysisFunc(ctx, job)
	}
	return errors.New("not implemented")
}

func (m *mockPublisher) Close() error { return nil }

type mockJobStore struct {
	SaveJobFunc         func(ctx context.Context, job *jobs.AnalysisJob) error
	GetJobFunc          func(ctx context.Context, jobID string) (*jobs.AnalysisJob, error)
	ListJobsFunc        func(ctx context.Context, filter jobs.JobFilter) ([]*jobs.AnalysisJob, error)
	UpdateJobStatusFunc func(ctx context.Context, jobID string, status jobs.JobStatus, errorMsg string) error
}

func (m *mockJobStore) SaveJob(ctx context.Context, job *jobs.AnalysisJob) error {
	if m.SaveJobFunc != nil {
		return m.SaveJobFunc(ctx, job)
	}
	return errors.New("not implemented")
}

func (m *mockJobStore) GetJob(ctx context.Context, jobID string) (*jobs.AnalysisJob, error) {
	if m.GetJobFunc != nil {
		return m.GetJobFunc(ctx, jobID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockJobStore) ListJobs(ctx context.Context, filter jobs.JobFilter) ([]*jobs.AnalysisJob, error) {
	if m.ListJobsFunc != nil {
		return m.ListJobsFunc(ctx, filter)
	}
	return nil, errors.New("not implemented")
}

func (m *mockJobStore) UpdateJobStatus(ctx context.Context, jobID string, status jobs.JobStatus, errorMsg string) error {
	if m.UpdateJobStatusFunc != nil {
		return m.UpdateJobStatusFunc(ctx, jobID, status, errorMsg)
	}
	return errors.New("not implemented")
}

type mockStorageService struct {
	FetchFunc  func(ctx context.Context, uri string) ([]byte, error)
	UploadFunc func(ctx context.Context, bucket, object string, r io.Reader) error
}

func (m *mockStorageService) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, uri)
	}
	return nil, errors.New("not implemented")
}

func (m *mockStorageService) Upload(ctx context.Context, bucket, object string, r io.Reader) error {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, bucket, object, r)
	}
	return errors.New("not implemented")
}

type mockClassifier struct {
	ClassifyFunc func(ctx context.Context, text string) (string, error)
}

func (m *mockClassifier) Classify(ctx context.Context, text string) (string, error) {
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, text)
	}
	return "", errors.New("not implemented")
}
