package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sig-0/iq"
)

var (
	errInvalidJob      = errors.New("invalid job")
	errInvalidInterval = errors.New("invalid interval")
)

// Job is a unit of scheduled work
type Job interface {
	// Name returns the human-readable name of the job
	Name() string

	// Run executes the job
	Run(ctx context.Context) error
}

// scheduledRun is a single future job execution
type scheduledRun struct {
	at       time.Time
	job      Job
	jobID    xid.ID
	interval time.Duration
}

// Less is utilized to sort scheduled runs by their due-time (earliest == first)
func (a scheduledRun) Less(b scheduledRun) bool {
	return a.at.Before(b.at)
}

// Scheduler triggers registered jobs at fixed intervals.
//
// Due jobs are executed inline in the scheduler loop, one at a time:
// a run that outlasts its interval delays the next trigger instead of
// racing it, so overlapping runs cannot happen
type Scheduler struct {
	logger *slog.Logger

	q             iq.Queue[scheduledRun]
	queryInterval time.Duration
	runTimeout    time.Duration
	qMux          sync.Mutex
}

// NewScheduler creates a new Scheduler instance
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		logger:        noopLogger,
		q:             iq.NewQueue[scheduledRun](),
		queryInterval: time.Second,
		runTimeout:    time.Minute * 5,
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register registers a new job with the scheduler.
// The job is immediately queued up for execution
func (s *Scheduler) Register(job Job, interval time.Duration) error {
	if job == nil || job.Name() == "" {
		return errInvalidJob
	}

	if interval <= 0 {
		return errInvalidInterval
	}

	id := xid.New()

	s.logger.Info(
		"registered new job",
		"name", job.Name(),
		"interval", interval.String(),
	)

	// Schedule the first run right away
	s.scheduleRun(scheduledRun{
		at:       time.Now().UTC(),
		job:      job,
		jobID:    id,
		interval: interval,
	})

	return nil
}

// Start starts the scheduling service loop [BLOCKING]
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.queryInterval)
	defer ticker.Stop()

	// handleDue executes all due jobs, serially
	handleDue := func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				next := s.nextRun()
				if next == nil {
					return // nothing due
				}

				s.execute(ctx, next)
			}
		}
	}

	// Run the initially due jobs (on boot)
	handleDue()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler shut down")

			return nil
		case <-ticker.C:
			handleDue()
		}
	}
}

// execute runs a single due job and schedules its next run.
// Failed runs are logged, never fatal; the job simply waits
// for its next trigger
func (s *Scheduler) execute(ctx context.Context, run *scheduledRun) {
	s.logger.Info(
		"starting job run",
		"name", run.job.Name(),
		"id", run.jobID.String(),
	)

	runCtx, cancelFn := context.WithTimeout(ctx, s.runTimeout)
	defer cancelFn()

	if err := run.job.Run(runCtx); err != nil {
		s.logger.Error(
			"job run failed",
			"name", run.job.Name(),
			"id", run.jobID.String(),
			"err", err,
		)
	}

	s.scheduleRun(scheduledRun{
		at:       time.Now().UTC().Add(run.interval),
		job:      run.job,
		jobID:    run.jobID,
		interval: run.interval,
	})
}

// scheduleRun queues a future job run
func (s *Scheduler) scheduleRun(run scheduledRun) {
	s.qMux.Lock()
	defer s.qMux.Unlock()

	s.q.Push(run)
}

// nextRun fetches the next due run, as of the moment of calling
func (s *Scheduler) nextRun() *scheduledRun {
	s.qMux.Lock()
	defer s.qMux.Unlock()

	now := time.Now().UTC()

	if s.q.Len() == 0 {
		return nil // nothing scheduled
	}

	// Check if the top element is due
	if s.q.Index(0).at.After(now) {
		return nil // earliest run is in the future
	}

	return s.q.PopFront()
}
