package scheduler

import "mbench/internal/backend"

// EventType discriminates the messages the scheduler streams to the display.
type EventType int

const (
	// EventWarning carries a non-fatal condition, e.g. a requested
	// backend family that failed discovery.
	EventWarning EventType = iota
	// EventSectionHeader opens one benchmark target's output section.
	EventSectionHeader
	// EventMeasureStarted switches the display into progress mode.
	EventMeasureStarted
	// EventFinalReport carries the collected reports for one target.
	EventFinalReport
)

// Event is one message on the scheduler-to-display channel. Channel order
// is the display order.
type Event struct {
	Type    EventType
	Text    string
	Reports []backend.Report
}
