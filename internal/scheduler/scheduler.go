package scheduler

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is a unit of periodic maintenance work
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler runs its jobs once at startup and then on a cron schedule, one
// job at a time
type Scheduler struct {
	cron     *cron.Cron
	jobs     []Job
	logger   *logrus.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures sequential job execution
	stopOnce sync.Once
}

// NewScheduler creates a scheduler for a standard cron spec or a descriptor
// such as "@hourly" or "@every 30m".
func NewScheduler(spec string, logger *logrus.Logger, jobs ...Job) (*Scheduler, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   cron.New(),
		jobs:   jobs,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the jobs once in the background and begins the schedule
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Info("Running startup maintenance jobs")
		s.RunOnce()
	}()

	s.cron.Start()
}

// RunOnce executes every job in order. A failing job does not stop the rest.
func (s *Scheduler) RunOnce() {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	for _, job := range s.jobs {
		if s.ctx.Err() != nil {
			return
		}

		start := time.Now()
		fields := logrus.Fields{"job": job.Name}

		if err := job.Run(s.ctx); err != nil {
			s.logger.WithError(err).WithFields(fields).Error("Maintenance job failed")
			continue
		}

		fields["duration_ms"] = time.Since(start).Milliseconds()
		s.logger.WithFields(fields).Debug("Maintenance job completed")
	}
}

// Stop cancels running jobs and waits for them to return. It is safe to call
// more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.cron.Stop().Done()
	})
	s.wg.Wait()
}
