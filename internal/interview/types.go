package interview

import (
	"context"
	"errors"
	"time"
)

// Phase is the lifecycle position of an interview session.
type Phase string

const (
	PhaseNotStarted        Phase = "not_started"
	PhaseAwaitingQuestions Phase = "awaiting_questions"
	PhaseInterviewing      Phase = "interviewing"
	PhaseAwaitingFeedback  Phase = "awaiting_feedback"
	PhaseCompleted         Phase = "completed"
	PhaseAwaitingReport    Phase = "awaiting_report"
	PhaseReportReady       Phase = "report_ready"
)

// Pending reports whether the phase has a model request in flight.
func (p Phase) Pending() bool {
	switch p {
	case PhaseAwaitingQuestions, PhaseAwaitingFeedback, PhaseAwaitingReport:
		return true
	}
	return false
}

type MessageKind string

const (
	KindQuestion      MessageKind = "question"
	KindAnswer        MessageKind = "answer"
	KindFeedback      MessageKind = "feedback"
	KindClosingNotice MessageKind = "closing_notice"
)

// AnswerStatus tracks an optimistically appended answer until its feedback
// arrives. Only answer messages carry a status.
type AnswerStatus string

const (
	AnswerPending     AnswerStatus = "pending"
	AnswerConfirmed   AnswerStatus = "confirmed"
	AnswerUnconfirmed AnswerStatus = "unconfirmed"
)

// Message is one entry of the session transcript.
type Message struct {
	Kind MessageKind `json:"type"`
	Text string      `json:"text"`
	// ForQuestion is the question an answer or feedback belongs to.
	ForQuestion string       `json:"forQuestion,omitempty"`
	Status      AnswerStatus `json:"status,omitempty"`
}

// Report is the final assessment produced once per session.
type Report struct {
	ConfidenceScore      float64  `json:"confidenceScore"`
	FluencyAnalysis      string   `json:"fluencyAnalysis"`
	Strengths            []string `json:"strengths"`
	AreasForImprovement  []string `json:"areasForImprovement"`
	Summary              string   `json:"summary"`
	TechnicalProficiency string   `json:"technicalProficiency"`
	BehavioralCompetency string   `json:"behavioralCompetency"`
	StarMethodAdherence  string   `json:"starMethodAdherence"`
}

// TranscriptEntry is the wire form of a question or answer sent for reporting.
type TranscriptEntry struct {
	Type MessageKind `json:"type"`
	Text string      `json:"text"`
}

// Submission carries an answer together with the question it answers.
// Role is optional; when set it must match the session role.
type Submission struct {
	Role     string `json:"role,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"userAnswer"`
}

// Prompter generates interview content. Implementations must be safe to retry.
type Prompter interface {
	GenerateQuestions(ctx context.Context, role string) ([]string, error)
	GenerateFeedback(ctx context.Context, role, question, answer string) (string, error)
	GenerateReport(ctx context.Context, role string, transcript []TranscriptEntry) (*Report, error)
}

// Task is a scheduled callback that can be cancelled before it runs.
type Task interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}

var (
	ErrRequestPending  = errors.New("interview: a request is already in flight")
	ErrInvalidPhase    = errors.New("interview: operation not allowed in current phase")
	ErrEmptyAnswer     = errors.New("interview: answer is empty")
	ErrStaleSubmission = errors.New("interview: submission does not match the current question")
	ErrStaleResponse   = errors.New("interview: response belongs to a superseded session")
	ErrUnknownRole     = errors.New("interview: unknown role")
	ErrNoQuestions     = errors.New("interview: no questions generated")
)

type EventKind string

const (
	EventPhaseChanged    EventKind = "phase_changed"
	EventMessageAppended EventKind = "message_appended"
	EventMessageUpdated  EventKind = "message_updated"
	EventNotice          EventKind = "notice"
	EventReportReady     EventKind = "report_ready"
	EventReset           EventKind = "reset"
	// EventEnded closes out a started session abandoned by Reset or End. It
	// carries the outgoing session id, role and phase.
	EventEnded EventKind = "ended"
)

// Event describes a single state change. Position is the transcript index
// for message events.
type Event struct {
	Kind      EventKind `json:"kind"`
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role,omitempty"`
	Phase     Phase     `json:"phase"`
	Message   *Message  `json:"message,omitempty"`
	Position  int       `json:"position,omitempty"`
	Report    *Report   `json:"report,omitempty"`
	Notice    string    `json:"notice,omitempty"`

	// Transcript is the filtered transcript the report was generated from.
	Transcript []TranscriptEntry `json:"transcript,omitempty"`
}

// Listener observes controller events. Listeners run outside the controller
// lock but must not call mutating controller methods synchronously.
type Listener func(Event)
