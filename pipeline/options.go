package pipeline

import (
	"log/slog"
	"time"
)

type PipelineOption func(p *Pipeline)

// WithPipelineLogger specifies the logger for the pipeline
func WithPipelineLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = l
	}
}

type SchedulerOption func(s *Scheduler)

// WithLogger specifies the logger for the scheduler
func WithLogger(l *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithQueryInterval specifies how often the scheduler checks for due
// jobs. Defaults to 1s. This should only be modified if the registered
// jobs have sparse runs (once every few hours)
func WithQueryInterval(q time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.queryInterval = q
	}
}

// WithRunTimeout specifies the deadline applied to every job run,
// so a hung upstream cannot stall the scheduler indefinitely
func WithRunTimeout(t time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.runTimeout = t
	}
}
