package backend

import (
	"errors"
	"os/exec"
	"testing"
	"time"
)

func requireBash(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not installed")
	}
}

func newBuiltinForTest(t *testing.T) *Backend {
	t.Helper()
	b, err := newBackend(Builtin, "bash", "-c", "time", parseBuiltin)
	if err != nil {
		t.Fatalf("self-test spawn: %v", err)
	}
	deadline := time.After(5 * time.Second)
	for b.ProbeReady() == StatusChecking {
		select {
		case <-deadline:
			t.Fatal("self-test did not finish")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if b.ProbeReady() != StatusReady {
		t.Fatalf("self-test status = %v, want ready", b.ProbeReady())
	}
	return b
}

func runToCompletion(t *testing.T, b *Backend, target string) Report {
	t.Helper()
	if err := b.Execute(target); err != nil {
		t.Fatalf("execute: %v", err)
	}
	deadline := time.After(10 * time.Second)
	for !b.Finished() {
		select {
		case <-deadline:
			t.Fatal("command did not finish")
		case <-time.After(10 * time.Millisecond):
		}
	}
	report, err := b.CollectReport()
	if err != nil {
		t.Fatalf("collect report: %v", err)
	}
	return report
}

func TestBuiltinLifecycle(t *testing.T) {
	requireBash(t)
	b := newBuiltinForTest(t)

	report := runToCompletion(t, b, "true")
	if _, ok := report[WallTime]; !ok {
		t.Errorf("report lacks wall time: %v", report)
	}
	if got := report[ExitStatus]; got != 0 {
		t.Errorf("exit status = %v, want 0", got)
	}

	// the report is cached
	again, err := b.CollectReport()
	if err != nil {
		t.Fatalf("second collect: %v", err)
	}
	if len(again) != len(report) || again[WallTime] != report[WallTime] {
		t.Errorf("cached report differs: %v vs %v", again, report)
	}
}

func TestExitStatusSynthesizedFromProcess(t *testing.T) {
	requireBash(t)
	b := newBuiltinForTest(t)

	report := runToCompletion(t, b, "false")
	if got := report[ExitStatus]; got != 1 {
		t.Errorf("exit status = %v, want 1", got)
	}
}

func TestExecuteBeforeReady(t *testing.T) {
	requireBash(t)
	b, err := newBackend(Builtin, "bash", "-c", "time", parseBuiltin)
	if err != nil {
		t.Fatalf("self-test spawn: %v", err)
	}
	defer b.Kill()

	if err := b.Execute("true"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("execute before ready = %v, want ErrNotReady", err)
	}
}

func TestCollectBeforeFinished(t *testing.T) {
	requireBash(t)
	b := newBuiltinForTest(t)

	if err := b.Execute("sleep 5"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := b.CollectReport(); !errors.Is(err, ErrNotFinished) {
		t.Errorf("collect before finish = %v, want ErrNotFinished", err)
	}
	if err := b.Kill(); err != nil {
		t.Fatalf("kill: %v", err)
	}
	deadline := time.After(2 * time.Second)
	for !b.Finished() {
		select {
		case <-deadline:
			t.Fatal("killed child did not get reaped")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
