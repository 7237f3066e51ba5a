package scheduler

import (
	"sync"

	"mbench/internal/backend"
)

// ViewModel is the progress snapshot shared between the scheduler and the
// display. The scheduler is the sole writer; the display polls it on its
// own tick.
type ViewModel struct {
	mu      sync.RWMutex
	run     int
	total   int
	reports []backend.Report
}

// StartTarget resets the snapshot for the next benchmark target.
func (m *ViewModel) StartTarget(total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.run = 0
	m.total = total
	m.reports = nil
}

func (m *ViewModel) SetRun(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.run = n
}

func (m *ViewModel) AppendReport(r backend.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, r)
}

// Snapshot returns the current progress and a copy of the report slice so
// the reader never aliases the scheduler's backing array.
func (m *ViewModel) Snapshot() (run, total int, reports []backend.Report) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	reports = make([]backend.Report, len(m.reports))
	copy(reports, m.reports)
	return m.run, m.total, reports
}
