package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/categorize"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/infra/gcs"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/ledger"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/logger"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/pipeline"
)

// NewAnalysisHandler returns a JobHandler that fetches the job's ledger
// from storage and analyzes it. Fetch failures are retried; a rejected
// ledger fails the job permanently with its Result attached.
func NewAnalysisHandler(fetcher gcs.Fetcher, categorizer *categorize.Categorizer) JobHandler {
	return func(ctx context.Context, job *AnalysisJob) error {
		log := logger.WithFields(logger.Component(ctx, "jobs"), map[string]interface{}{
			"job_id":  job.JobID,
			"gcs_uri": job.GCSURI,
		})
		ctx = logger.WithContext(ctx, log)

		if _, _, err := gcs.ParseURI(job.GCSURI); err != nil {
			return Permanent(err)
		}

		t, err := gcs.LoadLedger(ctx, fetcher, job.GCSURI)
		if err != nil {
			if errors.Is(err, ledger.ErrEmptyInput) || errors.Is(err, gcs.ErrObjectTooLarge) {
				return Permanent(err)
			}
			return fmt.Errorf("AnalysisHandler: %w", err)
		}

		res := pipeline.Analyze(ctx, t, pipeline.Options{Enrich: job.Enrich, Categorizer: categorizer})
		job.Result = &res
		if res.Failed() {
			return Permanent(errors.New(res.Error))
		}
		return nil
	}
}
