package scheduler

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"SMASentinel/internal/model"
)

// Scheduler re-runs a Job on a cron schedule.
type Scheduler struct {
	Cron *cron.Cron
	Job  *Job

	mu   sync.Mutex
	runs int
}

// NewScheduler creates a new Scheduler. Specs carry a leading seconds field.
func NewScheduler(job *Job) *Scheduler {
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Job:  job,
	}
}

// Register adds the analysis task under spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.task); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Int("runs", s.Runs()).Msg("scheduler stopped")
}

// RunNow executes the analysis task immediately.
func (s *Scheduler) RunNow() {
	s.task()
}

// Runs returns how many times the task has executed.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func (s *Scheduler) task() {
	s.mu.Lock()
	s.runs++
	run := s.runs
	s.mu.Unlock()

	log.Info().Int("run", run).Msg("running scheduled analysis")
	if _, err := s.Job.Run(); err != nil {
		// The input may be fixed before the next tick.
		log.Error().Err(err).Str("kind", model.ErrorKind(err)).Int("run", run).Msg("scheduled analysis failed")
	}
}
