package usecase

import (
	"context"
	"time"

	"ReviewTriage/internal/ports"
)

// Scheduler wires a recurring driver with pipeline runs for one source.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	request  RunRequest
}

// NewScheduler returns a helper to start/stop recurring runs of req.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, req RunRequest) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, request: req}
}

// Start registers the pipeline with the provided scheduler.
// Every trigger gets a fresh run; nothing carries over between runs.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		report, err := s.pipeline.Run(ctx, s.request)
		if err != nil {
			s.pipeline.logger.Error("scheduled run failed", "source", s.request.Source, "trigger", trigger, "error", err)
			return
		}
		s.pipeline.logger.Info("scheduled run done",
			"source", s.request.Source,
			"run_id", report.RunID,
			"tickets", report.Counters.TicketsCreated)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
