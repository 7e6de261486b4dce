// Package scheduler runs named recurring jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named recurring task. Schedule uses standard five-field cron syntax
// (descriptors such as @hourly and @every are accepted too).
type Job struct {
	Name     string
	Schedule string
	Handler  func(ctx context.Context)
}

// Scheduler owns registered jobs. A job that is still running when its next
// tick fires is skipped for that tick.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
}

func New() *Scheduler {
	logger := slogLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		entries: make(map[string]cron.EntryID),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// UpsertJob registers job, replacing any job already registered under the same name.
func (s *Scheduler) UpsertJob(ctx context.Context, job Job) error {
	if strings.TrimSpace(job.Name) == "" {
		return fmt.Errorf("job name is required")
	}
	if job.Handler == nil {
		return fmt.Errorf("job %q has no handler", job.Name)
	}
	schedule, err := cron.ParseStandard(job.Schedule)
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %q: %w", job.Schedule, job.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[job.Name]; ok {
		s.cron.Remove(id)
		slog.Info("[Scheduler] Replacing job", "job", job.Name)
	}

	handler := job.Handler
	name := job.Name
	s.entries[job.Name] = s.cron.Schedule(schedule, cron.FuncJob(func() {
		started := time.Now()
		slog.Info("[Scheduler] Running job", "job", name)
		handler(s.ctx)
		slog.Info("[Scheduler] Job finished", "job", name, "duration", time.Since(started))
	}))

	slog.Info("[Scheduler] Job registered",
		"job", job.Name,
		"schedule", job.Schedule,
		"next", schedule.Next(time.Now()),
	)
	return nil
}

// Jobs returns the registered job names, sorted.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the next activation time of the named job.
// It is zero until the scheduler has been started.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

// Start begins running jobs in the background and stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	slog.Info("[Scheduler] Started", "jobs", len(s.Jobs()))

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.ctx.Done():
		}
	}()
}

// Stop cancels the context handed to running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	slog.Info("[Scheduler] Stopped")
}

// slogLogger routes cron's internal logging through slog.
type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("[Scheduler] "+msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("[Scheduler] "+msg, append(keysAndValues, "error", err)...)
}
