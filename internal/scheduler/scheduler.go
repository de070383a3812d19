package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/harunnryd/tsukai/internal/config"
	"github.com/harunnryd/tsukai/internal/notify"
	"github.com/harunnryd/tsukai/internal/orchestrator"
)

// PromptRunner runs one orchestration for a scheduled prompt. Satisfied
// by *orchestrator.Orchestrator.
type PromptRunner interface {
	Run(ctx context.Context, question string) (*orchestrator.Result, error)
}

// Scheduler fires configured prompts on cron schedules and hands each
// outcome to the entry's notifier. A prompt still running when its next
// fire comes due is skipped, not queued.
type Scheduler struct {
	cron    *cron.Cron
	runner  PromptRunner
	entries []entry

	mu       sync.Mutex
	inFlight map[string]bool
}

type entry struct {
	name     string
	prompt   string
	notifier notify.Notifier
}

func New(runner PromptRunner, cfg config.SchedulerConfig, notifyCfg config.NotifyConfig) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithParser(cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
		))),
		runner:   runner,
		inFlight: make(map[string]bool),
	}

	for i, sp := range cfg.Entries {
		name := strings.TrimSpace(sp.Name)
		if name == "" {
			name = fmt.Sprintf("entry-%d", i)
		}
		if strings.TrimSpace(sp.Prompt) == "" {
			return nil, fmt.Errorf("scheduled prompt %s has no prompt", name)
		}

		e := entry{
			name:     name,
			prompt:   sp.Prompt,
			notifier: notify.Build(sp.Notifier, notifyCfg),
		}
		if _, err := s.cron.AddFunc(sp.Schedule, func() { s.fire(e) }); err != nil {
			return nil, fmt.Errorf("scheduled prompt %s: bad schedule %q: %w", name, sp.Schedule, err)
		}
		s.entries = append(s.entries, e)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	slog.Info("Scheduler started", "entries", len(s.entries))
	s.cron.Start()
}

// Stop halts scheduling and waits for any running prompt to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		slog.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		slog.Warn("Scheduler shutdown timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) Entries() int { return len(s.entries) }

func (s *Scheduler) fire(e entry) {
	s.mu.Lock()
	if s.inFlight[e.name] {
		s.mu.Unlock()
		slog.Warn("Skipping overlapping scheduled run", "entry", e.name)
		return
	}
	s.inFlight[e.name] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight[e.name] = false
		s.mu.Unlock()
	}()

	started := time.Now()
	result, err := s.runner.Run(context.Background(), e.prompt)
	if err != nil {
		slog.Error("Scheduled run failed", "entry", e.name, "error", err)
		if nerr := e.notifier.Notify(context.Background(), e.name, "run failed: "+err.Error()); nerr != nil {
			slog.Error("Notification failed", "entry", e.name, "error", nerr)
		}
		return
	}

	slog.Info("Scheduled run finished",
		"entry", e.name,
		"stop", result.Stop,
		"model_calls", result.ModelCalls,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	body := result.Answer
	if result.Incomplete() {
		body = "(incomplete, iteration budget exhausted)\n" + body
	}
	if err := e.notifier.Notify(context.Background(), e.name, body); err != nil {
		slog.Error("Notification failed", "entry", e.name, "error", err)
	}
}
