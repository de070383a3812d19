package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harunnryd/tsukai/internal/config"
	"github.com/harunnryd/tsukai/internal/orchestrator"
)

type stubRunner struct {
	mu      sync.Mutex
	calls   int
	block   chan struct{}
	result  *orchestrator.Result
	lastErr error
}

func (s *stubRunner) Run(ctx context.Context, question string) (*orchestrator.Result, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.block != nil {
		<-s.block
	}
	if s.lastErr != nil {
		return nil, s.lastErr
	}
	if s.result != nil {
		return s.result, nil
	}
	return &orchestrator.Result{Answer: "ok", Stop: orchestrator.StopFinalAnswer, ModelCalls: 1}, nil
}

func (s *stubRunner) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
	bodies []string
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) Notify(_ context.Context, title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
	r.bodies = append(r.bodies, body)
	return nil
}

func TestNew_ValidSchedules(t *testing.T) {
	sched, err := New(&stubRunner{}, config.SchedulerConfig{
		Entries: []config.ScheduledPrompt{
			{Name: "morning", Schedule: "0 8 * * *", Prompt: "what's on today?"},
			{Name: "hourly", Schedule: "@hourly", Prompt: "anything new?"},
		},
	}, config.NotifyConfig{})
	require.NoError(t, err)
	assert.Equal(t, 2, sched.Entries())
}

func TestNew_BadScheduleRejected(t *testing.T) {
	_, err := New(&stubRunner{}, config.SchedulerConfig{
		Entries: []config.ScheduledPrompt{
			{Name: "broken", Schedule: "not a cron spec", Prompt: "hi"},
		},
	}, config.NotifyConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad schedule")
}

func TestNew_EmptyPromptRejected(t *testing.T) {
	_, err := New(&stubRunner{}, config.SchedulerConfig{
		Entries: []config.ScheduledPrompt{
			{Name: "empty", Schedule: "@hourly", Prompt: "  "},
		},
	}, config.NotifyConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no prompt")
}

func TestFire_DeliversAnswer(t *testing.T) {
	runner := &stubRunner{result: &orchestrator.Result{
		Answer:     "sunny, 30C",
		Stop:       orchestrator.StopFinalAnswer,
		ModelCalls: 2,
	}}
	notifier := &recordingNotifier{}
	sched, err := New(runner, config.SchedulerConfig{}, config.NotifyConfig{})
	require.NoError(t, err)

	sched.fire(entry{name: "weather", prompt: "weather?", notifier: notifier})

	assert.Equal(t, 1, runner.callCount())
	require.Len(t, notifier.bodies, 1)
	assert.Equal(t, "weather", notifier.titles[0])
	assert.Equal(t, "sunny, 30C", notifier.bodies[0])
}

func TestFire_MarksIncompleteRuns(t *testing.T) {
	runner := &stubRunner{result: &orchestrator.Result{
		Answer: "partial text",
		Stop:   orchestrator.StopIterationLimit,
	}}
	notifier := &recordingNotifier{}
	sched, err := New(runner, config.SchedulerConfig{}, config.NotifyConfig{})
	require.NoError(t, err)

	sched.fire(entry{name: "digest", prompt: "summarize", notifier: notifier})

	require.Len(t, notifier.bodies, 1)
	assert.Contains(t, notifier.bodies[0], "incomplete")
	assert.Contains(t, notifier.bodies[0], "partial text")
}

func TestFire_SkipsOverlappingRun(t *testing.T) {
	block := make(chan struct{})
	runner := &stubRunner{block: block}
	notifier := &recordingNotifier{}
	sched, err := New(runner, config.SchedulerConfig{}, config.NotifyConfig{})
	require.NoError(t, err)

	e := entry{name: "slow", prompt: "think hard", notifier: notifier}

	done := make(chan struct{})
	go func() {
		sched.fire(e)
		close(done)
	}()

	// Wait until the first run is inside the runner.
	require.Eventually(t, func() bool { return runner.callCount() == 1 },
		time.Second, 5*time.Millisecond)

	// A second fire while the first is in flight must be dropped.
	sched.fire(e)
	assert.Equal(t, 1, runner.callCount())

	close(block)
	<-done

	// After completion the entry can fire again.
	runner.block = nil
	sched.fire(e)
	assert.Equal(t, 2, runner.callCount())
}
