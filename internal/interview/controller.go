package interview

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPacing        = time.Second
	DefaultClosingNotice = "That's the end of the questions! Request your report to see the feedback dashboard."
)

// Controller sequences one mock interview: question generation, per-answer
// feedback and the final report. The mutex is never held across a Prompter
// call; each call captures the session id and question index it was issued
// for and its result is discarded if either has moved on.
type Controller struct {
	prompter      Prompter
	scheduler     Scheduler
	pacing        time.Duration
	closingNotice string
	roleCheck     func(string) bool
	now           func() time.Time
	listeners     []Listener

	mu         sync.Mutex
	sessionID  string
	role       string
	questions  []string
	messages   []Message
	index      int
	phase      Phase
	prevPhase  Phase
	report     *Report
	answerPos  int // transcript position of the current question's answer, -1 if none
	paced      Task
	pacedDue   bool
	lastActive time.Time
	outbox     []Event

	dispatchMu sync.Mutex
}

type Option func(*Controller)

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.scheduler = s }
}

// WithPacing sets the delay before the next question is shown. Zero shows it
// immediately.
func WithPacing(d time.Duration) Option {
	return func(c *Controller) { c.pacing = d }
}

func WithClosingNotice(text string) Option {
	return func(c *Controller) { c.closingNotice = text }
}

// WithRoleCheck restricts Start to roles accepted by check.
func WithRoleCheck(check func(string) bool) Option {
	return func(c *Controller) { c.roleCheck = check }
}

func WithListener(l Listener) Option {
	return func(c *Controller) { c.listeners = append(c.listeners, l) }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func New(prompter Prompter, opts ...Option) *Controller {
	c := &Controller{
		prompter:      prompter,
		scheduler:     timerScheduler{},
		pacing:        DefaultPacing,
		closingNotice: DefaultClosingNotice,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.clearLocked()
	c.touchLocked()
	return c
}

// AddListener registers l for all subsequent events.
func (c *Controller) AddListener(l Listener) {
	c.dispatchMu.Lock()
	c.listeners = append(c.listeners, l)
	c.dispatchMu.Unlock()
}

// Start selects the role and fetches the question set.
func (c *Controller) Start(ctx context.Context, role string) error {
	role = strings.TrimSpace(role)

	c.mu.Lock()
	if c.phase.Pending() {
		c.mu.Unlock()
		return ErrRequestPending
	}
	if c.phase != PhaseNotStarted {
		c.mu.Unlock()
		return ErrInvalidPhase
	}
	if role == "" || (c.roleCheck != nil && !c.roleCheck(role)) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	c.touchLocked()
	c.role = role
	c.setPhaseLocked(PhaseAwaitingQuestions)
	sid := c.sessionID
	c.unlock()

	questions, err := c.prompter.GenerateQuestions(ctx, role)
	if err == nil {
		questions = cleanQuestions(questions)
		if len(questions) == 0 {
			err = ErrNoQuestions
		}
	}

	c.mu.Lock()
	if c.sessionID != sid || c.phase != PhaseAwaitingQuestions {
		c.mu.Unlock()
		return ErrStaleResponse
	}
	c.touchLocked()
	if err != nil {
		c.setPhaseLocked(PhaseNotStarted)
		c.role = ""
		c.noticeLocked("Could not generate interview questions. Please try again.")
		c.unlock()
		return fmt.Errorf("generate questions: %w", err)
	}
	c.questions = questions
	c.index = 0
	c.appendQuestionLocked()
	c.setPhaseLocked(PhaseInterviewing)
	c.unlock()
	return nil
}

// SubmitAnswer records the answer for the current question and requests
// feedback on it. A submission whose question is not the current one is
// rejected with ErrStaleSubmission and changes nothing.
func (c *Controller) SubmitAnswer(ctx context.Context, sub Submission) error {
	answer := strings.TrimSpace(sub.Answer)

	c.mu.Lock()
	if c.phase.Pending() {
		c.mu.Unlock()
		return ErrRequestPending
	}
	if c.phase != PhaseInterviewing {
		c.mu.Unlock()
		return ErrInvalidPhase
	}
	if answer == "" {
		c.mu.Unlock()
		return ErrEmptyAnswer
	}
	if sub.Question != c.questions[c.index] || (sub.Role != "" && sub.Role != c.role) {
		c.mu.Unlock()
		return ErrStaleSubmission
	}
	c.touchLocked()
	c.flushPacedLocked()

	question := c.questions[c.index]
	if c.answerPos >= 0 {
		// retry after a failed feedback request: reuse the existing answer entry
		c.messages[c.answerPos].Text = answer
		c.messages[c.answerPos].Status = AnswerPending
		c.emitMessageLocked(EventMessageUpdated, c.answerPos)
	} else {
		c.answerPos = c.appendLocked(Message{Kind: KindAnswer, Text: answer, ForQuestion: question, Status: AnswerPending})
	}
	c.setPhaseLocked(PhaseAwaitingFeedback)
	sid, idx, role := c.sessionID, c.index, c.role
	c.unlock()

	feedback, err := c.prompter.GenerateFeedback(ctx, role, question, answer)

	c.mu.Lock()
	if c.sessionID != sid || c.index != idx || c.phase != PhaseAwaitingFeedback {
		c.mu.Unlock()
		return ErrStaleResponse
	}
	c.touchLocked()
	if err != nil {
		c.messages[c.answerPos].Status = AnswerUnconfirmed
		c.emitMessageLocked(EventMessageUpdated, c.answerPos)
		c.setPhaseLocked(PhaseInterviewing)
		c.noticeLocked("Could not get feedback on your answer. Please submit it again.")
		c.unlock()
		return fmt.Errorf("generate feedback: %w", err)
	}

	c.messages[c.answerPos].Status = AnswerConfirmed
	c.emitMessageLocked(EventMessageUpdated, c.answerPos)
	c.answerPos = -1
	c.appendLocked(Message{Kind: KindFeedback, Text: feedback, ForQuestion: question})

	if c.index+1 < len(c.questions) {
		c.index++
		c.setPhaseLocked(PhaseInterviewing)
		c.scheduleQuestionLocked()
	} else {
		c.appendLocked(Message{Kind: KindClosingNotice, Text: c.closingNotice})
		c.setPhaseLocked(PhaseCompleted)
	}
	c.unlock()
	return nil
}

// RequestReport ends the question flow and asks for the final report. It is
// allowed mid-interview as well as after the last question.
func (c *Controller) RequestReport(ctx context.Context) (*Report, error) {
	c.mu.Lock()
	if c.phase.Pending() {
		c.mu.Unlock()
		return nil, ErrRequestPending
	}
	if c.phase != PhaseInterviewing && c.phase != PhaseCompleted {
		c.mu.Unlock()
		return nil, ErrInvalidPhase
	}
	c.touchLocked()
	c.flushPacedLocked()
	c.prevPhase = c.phase
	c.setPhaseLocked(PhaseAwaitingReport)
	sid, role := c.sessionID, c.role
	transcript := FilterTranscript(c.messages)
	c.unlock()

	report, err := c.prompter.GenerateReport(ctx, role, transcript)

	c.mu.Lock()
	if c.sessionID != sid || c.phase != PhaseAwaitingReport {
		c.mu.Unlock()
		return nil, ErrStaleResponse
	}
	c.touchLocked()
	if err == nil && report == nil {
		err = fmt.Errorf("empty report")
	}
	if err != nil {
		c.setPhaseLocked(c.prevPhase)
		c.noticeLocked("Could not generate your report. Please try again.")
		c.unlock()
		return nil, fmt.Errorf("generate report: %w", err)
	}
	c.report = report
	c.setPhaseLocked(PhaseReportReady)
	c.outbox = append(c.outbox, Event{Kind: EventReportReady, SessionID: sid, Role: role, Phase: c.phase, Report: report, Transcript: transcript})
	c.unlock()
	return report, nil
}

// Reset clears every field and begins a fresh session identity. Any response
// still in flight for the previous session is discarded on arrival.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.touchLocked()
	if c.role != "" {
		c.outbox = append(c.outbox, Event{Kind: EventEnded, SessionID: c.sessionID, Role: c.role, Phase: c.phase})
	}
	c.clearLocked()
	c.outbox = append(c.outbox, Event{Kind: EventReset, SessionID: c.sessionID, Phase: c.phase})
	c.unlock()
}

// End abandons the session from any phase, with or without a report.
func (c *Controller) End() {
	c.Reset()
}

func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

func (c *Controller) clearLocked() {
	if c.paced != nil {
		c.paced.Stop()
	}
	c.paced = nil
	c.pacedDue = false
	c.sessionID = uuid.NewString()
	c.role = ""
	c.questions = nil
	c.messages = nil
	c.index = 0
	c.phase = PhaseNotStarted
	c.prevPhase = PhaseNotStarted
	c.report = nil
	c.answerPos = -1
}

func (c *Controller) scheduleQuestionLocked() {
	if c.pacing <= 0 {
		c.appendQuestionLocked()
		return
	}
	sid, idx := c.sessionID, c.index
	c.pacedDue = true
	c.paced = c.scheduler.AfterFunc(c.pacing, func() {
		c.mu.Lock()
		if c.sessionID != sid || c.index != idx || !c.pacedDue {
			c.mu.Unlock()
			return
		}
		c.appendQuestionLocked()
		c.unlock()
	})
}

// flushPacedLocked shows a scheduled question now so it precedes whatever the
// caller appends next.
func (c *Controller) flushPacedLocked() {
	if !c.pacedDue {
		return
	}
	if c.paced != nil {
		c.paced.Stop()
	}
	c.appendQuestionLocked()
}

func (c *Controller) appendQuestionLocked() {
	c.pacedDue = false
	c.paced = nil
	c.appendLocked(Message{Kind: KindQuestion, Text: c.questions[c.index]})
}

func (c *Controller) appendLocked(m Message) int {
	c.messages = append(c.messages, m)
	pos := len(c.messages) - 1
	c.emitMessageLocked(EventMessageAppended, pos)
	return pos
}

func (c *Controller) emitMessageLocked(kind EventKind, pos int) {
	m := c.messages[pos]
	c.outbox = append(c.outbox, Event{Kind: kind, SessionID: c.sessionID, Role: c.role, Phase: c.phase, Message: &m, Position: pos})
}

func (c *Controller) setPhaseLocked(p Phase) {
	if c.phase == p {
		return
	}
	c.phase = p
	c.outbox = append(c.outbox, Event{Kind: EventPhaseChanged, SessionID: c.sessionID, Role: c.role, Phase: p})
}

func (c *Controller) noticeLocked(text string) {
	c.outbox = append(c.outbox, Event{Kind: EventNotice, SessionID: c.sessionID, Role: c.role, Phase: c.phase, Notice: text})
}

func (c *Controller) touchLocked() {
	c.lastActive = c.now()
}

// unlock releases the state lock and delivers queued events in order.
func (c *Controller) unlock() {
	c.mu.Unlock()

	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()
	c.mu.Lock()
	events := c.outbox
	c.outbox = nil
	c.mu.Unlock()
	for _, ev := range events {
		for _, l := range c.listeners {
			l(ev)
		}
	}
}

func cleanQuestions(in []string) []string {
	out := make([]string, 0, len(in))
	for _, q := range in {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}
