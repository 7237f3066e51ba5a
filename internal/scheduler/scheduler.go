// Package scheduler drives the benchmark run loop: it discovers usable
// measurement backends, executes each target command the configured number
// of times round-robining across them, and streams progress and results to
// the display.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mbench/internal/backend"
	"mbench/internal/config"
	"mbench/internal/logging"
)

// ErrCanceled reports a user-requested early termination. Not a failure.
var ErrCanceled = errors.New("benchmark canceled")

// DefaultTick bounds the cancellation latency of the run loop.
const DefaultTick = 50 * time.Millisecond

type Scheduler struct {
	cfg    *config.Config
	view   *ViewModel
	events chan<- Event
	tick   time.Duration
}

func New(cfg *config.Config, view *ViewModel, events chan<- Event) *Scheduler {
	return &Scheduler{cfg: cfg, view: view, events: events, tick: DefaultTick}
}

// Run executes the whole benchmark session. It returns ErrCanceled when the
// context is canceled, and the underlying error when a run fails; partial
// statistics are never reported.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := logging.GetLogger()

	backends, err := backend.Discover(ctx, backend.DiscoveryConfig{
		Shell:          s.cfg.Shell,
		ShellArg:       s.cfg.ShellArg,
		UseBuiltin:     s.cfg.UseBuiltin,
		NoBSD:          s.cfg.NoBSD,
		NoGNU:          s.cfg.NoGNU,
		BSDCommand:     s.cfg.BSDCommand,
		GNUCommand:     s.cfg.GNUCommand,
		BuiltinCommand: s.cfg.BuiltinCommand,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return ErrCanceled
		}
		return err
	}
	for _, b := range backends {
		logger.WithField("backend", b.Family().String()).
			WithField("invocation", b.Describe()).
			Debug("Backend ready")
	}
	s.warnMissingFamilies(backends)

	for i, target := range s.cfg.NormalizedCommands() {
		if err := s.benchmark(ctx, i, target, backends); err != nil {
			return err
		}
	}
	return nil
}

// warnMissingFamilies surfaces requested families that failed discovery.
// The session proceeds on the remaining backends.
func (s *Scheduler) warnMissingFamilies(backends []*backend.Backend) {
	if s.cfg.UseBuiltin {
		return
	}
	has := func(f backend.Family) bool {
		for _, b := range backends {
			if b.Family() == f {
				return true
			}
		}
		return false
	}
	if !s.cfg.NoBSD && !has(backend.BSD) {
		s.events <- Event{Type: EventWarning, Text: "The bsd time command not found. Please install or specify `--no-bsd` to turn off this warning."}
	}
	if !s.cfg.NoGNU && !has(backend.GNU) {
		s.events <- Event{Type: EventWarning, Text: "The gnu time command not found. Please install or specify `--no-gnu` to turn off this warning."}
	}
}

func (s *Scheduler) benchmark(ctx context.Context, index int, target string, backends []*backend.Backend) error {
	s.events <- Event{Type: EventSectionHeader, Text: fmt.Sprintf("Benchmark #%d> %s", index+1, target)}
	s.view.StartTarget(s.cfg.Runs)
	s.events <- Event{Type: EventMeasureStarted}

	command := s.loopCommand(target)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for n := 0; n < s.cfg.Runs; n++ {
		s.view.SetRun(n)
		b := backends[n%len(backends)]

		if err := b.Execute(command); err != nil {
			return err
		}
		// re-check after the spawn so a cancel arriving during a slow
		// fork never starts an unkillable wait
		if ctx.Err() != nil {
			_ = b.Kill()
			return ErrCanceled
		}
		for !b.Finished() {
			select {
			case <-ctx.Done():
				_ = b.Kill()
				return ErrCanceled
			case <-ticker.C:
			}
		}

		report, err := b.CollectReport()
		if err != nil {
			return fmt.Errorf("run %d of %q: %w", n+1, target, err)
		}
		s.view.AppendReport(report)
	}

	_, _, reports := s.view.Snapshot()
	s.events <- Event{Type: EventFinalReport, Reports: reports}
	return nil
}

// loopCommand wraps the target in an inner shell loop when more than one
// iteration per run is configured, so the backend measures the aggregate.
func (s *Scheduler) loopCommand(target string) string {
	if s.cfg.Loops <= 1 {
		return target
	}
	iters := strings.TrimSuffix(strings.Repeat("0 ", s.cfg.Loops), " ")
	return fmt.Sprintf("sh -c 'for i in %s ;do %s;done'", iters, target)
}
