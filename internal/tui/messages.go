package tui

import "github.com/muhammadolammi/maarg/internal/interview"

// EventMsg carries a controller event onto the program's event loop.
type EventMsg struct {
	Event interview.Event
}

type op string

const (
	opStart  op = "start"
	opSubmit op = "submit"
	opReport op = "report"
	opReset  op = "reset"
	opEnd    op = "end"
)

// OpDoneMsg reports the outcome of a controller call made off the event loop.
type OpDoneMsg struct {
	Op  op
	Err error
}

// ScoresLoadedMsg carries the latest saved score per role.
type ScoresLoadedMsg struct {
	Scores map[string]float64
	Err    error
}

// ReportSavedMsg is sent once a finished report is written to history.
type ReportSavedMsg struct {
	Err error
}
