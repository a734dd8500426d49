// Package scheduler runs jobs on cron expressions. Runs of the same job
// never overlap: a tick that arrives while the previous run is still busy
// is skipped.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/newthinker/pairlens/internal/logger"
)

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler manages all cron tasks.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger

	mu      sync.Mutex
	ctx     context.Context
	entries map[string]cron.EntryID
	running bool
}

// New creates a Scheduler using the standard five-field cron syntax.
func New(log *zap.Logger) *Scheduler {
	log = logger.OrNop(log).Named("scheduler")
	cl := cronLogger{log.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  log,
		ctx:     context.Background(),
		entries: make(map[string]cron.EntryID),
	}
}

// Register adds job under name with the cron expression spec.
func (s *Scheduler) Register(name, spec string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}
	id, err := s.cron.AddFunc(spec, s.wrap(name, job))
	if err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	s.entries[name] = id
	s.logger.Info("job registered", zap.String("job", name), zap.String("cron", spec))
	return nil
}

// Next returns the next activation of name.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	e := s.cron.Entry(id)
	if e.Next.IsZero() {
		return e.Schedule.Next(time.Now()), true
	}
	return e.Next, true
}

// Run starts the scheduler and blocks until ctx is cancelled. It then waits
// for running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))

	<-ctx.Done()
	<-s.cron.Stop().Done()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	s.logger.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) jobContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// wrap logs each run of job.
func (s *Scheduler) wrap(name string, job Job) func() {
	return func() {
		ctx := s.jobContext()
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		s.logger.Info("job started", zap.String("job", name))
		if err := job(ctx); err != nil {
			s.logger.Error("job failed",
				zap.String("job", name),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
			return
		}
		s.logger.Info("job finished",
			zap.String("job", name),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
