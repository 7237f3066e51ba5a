package backend

import (
	"context"
	"errors"
	"time"

	"mbench/internal/logging"
)

// ErrNoBackend is returned when every requested family failed its self-test.
var ErrNoBackend = errors.New("no measurement backend found: install the BSD or GNU time command, or use --use-builtin")

// fallbackShell is tried when the configured shell cannot run a family's
// measuring program.
const fallbackShell = "/usr/bin/env bash"

// gnuAlias is the unprefixed GNU time invocation, tried when the gtime
// alias is absent (common on Linux, where GNU time is just `time`).
const gnuAlias = "/usr/bin/env time -v"

// DiscoveryConfig selects which backend families to probe and how to
// invoke them.
type DiscoveryConfig struct {
	Shell    string
	ShellArg string

	UseBuiltin bool
	NoBSD      bool
	NoGNU      bool

	BSDCommand     string
	GNUCommand     string
	BuiltinCommand string
}

// ProbeTick bounds how long a cancellation can go unnoticed while waiting
// for a self-test child to exit.
const ProbeTick = 50 * time.Millisecond

type variant struct {
	shell   string
	timeCmd string
}

// Discover probes the requested families in order and returns the usable
// backends. Each family retries with scripted fallbacks before giving up;
// the shell builtin serves as a last resort when nothing else works. A
// canceled context aborts the whole phase without leaving children behind.
func Discover(ctx context.Context, cfg DiscoveryConfig) ([]*Backend, error) {
	var found []*Backend

	if !cfg.UseBuiltin {
		if !cfg.NoBSD {
			b, err := probeFamily(ctx, BSD, cfg.ShellArg, parseBSD, []variant{
				{cfg.Shell, cfg.BSDCommand},
				{fallbackShell, cfg.BSDCommand},
			})
			if err != nil {
				abandon(found)
				return nil, err
			}
			if b != nil {
				found = append(found, b)
			}
		}
		if !cfg.NoGNU {
			b, err := probeFamily(ctx, GNU, cfg.ShellArg, parseGNU, []variant{
				{cfg.Shell, cfg.GNUCommand},
				{cfg.Shell, gnuAlias},
				{fallbackShell, cfg.GNUCommand},
			})
			if err != nil {
				abandon(found)
				return nil, err
			}
			if b != nil {
				found = append(found, b)
			}
		}
	}

	if len(found) == 0 {
		b, err := probeFamily(ctx, Builtin, cfg.ShellArg, parseBuiltin, []variant{
			{"bash", cfg.BuiltinCommand},
			{cfg.Shell, cfg.BuiltinCommand},
		})
		if err != nil {
			return nil, err
		}
		if b != nil {
			found = append(found, b)
		}
	}

	if len(found) == 0 {
		return nil, ErrNoBackend
	}
	return found, nil
}

// probeFamily tries each variant until one passes its self-test. A nil
// backend with a nil error means the family is unavailable; only
// cancellation is returned as an error.
func probeFamily(ctx context.Context, family Family, shellArg string, parse parseFunc, variants []variant) (*Backend, error) {
	logger := logging.GetLogger()

	for _, v := range variants {
		b, err := newBackend(family, v.shell, shellArg, v.timeCmd, parse)
		if err != nil {
			logger.WithField("backend", family.String()).WithError(err).Debug("Self-test spawn failed")
			continue
		}
		status, err := awaitReady(ctx, b)
		if err != nil {
			return nil, err
		}
		if status == StatusReady {
			return b, nil
		}
		logger.WithField("backend", family.String()).
			WithField("invocation", b.Describe()).
			Debug("Self-test rejected backend variant")
	}
	return nil, nil
}

func awaitReady(ctx context.Context, b *Backend) (ReadyStatus, error) {
	ticker := time.NewTicker(ProbeTick)
	defer ticker.Stop()
	for {
		if status := b.ProbeReady(); status != StatusChecking {
			return status, nil
		}
		select {
		case <-ctx.Done():
			_ = b.Kill()
			return StatusChecking, ctx.Err()
		case <-ticker.C:
		}
	}
}

func abandon(found []*Backend) {
	for _, b := range found {
		_ = b.Kill()
	}
}
