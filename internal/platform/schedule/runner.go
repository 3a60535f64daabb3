package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rucktrack/rucktrack/internal/platform/logging"
)

// IntervalRunner invokes a task on a fixed interval until its context is
// cancelled. It replaces ad hoc interval handles with an explicit handle
// whose lifetime is tied to the caller.
type IntervalRunner struct {
	interval time.Duration
	task     func(context.Context)
	logger   *logging.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewIntervalRunner(interval time.Duration, task func(context.Context), logger *logging.Logger) (*IntervalRunner, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", interval)
	}
	if task == nil {
		return nil, fmt.Errorf("task is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &IntervalRunner{
		interval: interval,
		task:     task,
		logger:   logger,
	}, nil
}

// Start launches the tick loop. Calling Start twice without Stop is a no-op.
func (r *IntervalRunner) Start(ctx context.Context) {
	if r.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.task(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for the in-flight tick to finish.
func (r *IntervalRunner) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
}

// CronScheduler wraps robfig/cron for background jobs driven by a spec
// string, such as the periodic bulk sync.
type CronScheduler struct {
	c      *cron.Cron
	logger *logging.Logger
}

func NewCronScheduler(logger *logging.Logger) *CronScheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CronScheduler{
		c:      cron.New(),
		logger: logger,
	}
}

func (s *CronScheduler) AddJob(spec string, name string, job func()) error {
	_, err := s.c.AddFunc(spec, func() {
		s.logger.Info("scheduler tick", "job", name)
		job()
	})
	if err != nil {
		return fmt.Errorf("add cron job %s (%s): %w", name, spec, err)
	}
	return nil
}

func (s *CronScheduler) Start() {
	s.c.Start()
}

func (s *CronScheduler) Stop() {
	s.c.Stop()
}
