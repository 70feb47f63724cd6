package interview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrompter struct {
	mu             sync.Mutex
	questions      []string
	questionsErr   error
	feedbackErrs   []error
	reportErr      error
	feedbackCalls  int
	lastTranscript []TranscriptEntry
}

func (f *fakePrompter) GenerateQuestions(_ context.Context, role string) ([]string, error) {
	if f.questionsErr != nil {
		return nil, f.questionsErr
	}
	return f.questions, nil
}

func (f *fakePrompter) GenerateFeedback(_ context.Context, role, question, answer string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedbackCalls++
	if len(f.feedbackErrs) > 0 {
		err := f.feedbackErrs[0]
		f.feedbackErrs = f.feedbackErrs[1:]
		if err != nil {
			return "", err
		}
	}
	return "feedback on " + question, nil
}

func (f *fakePrompter) GenerateReport(_ context.Context, role string, transcript []TranscriptEntry) (*Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTranscript = transcript
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	return &Report{ConfidenceScore: 72, Summary: "solid"}, nil
}

// blockingPrompter parks every call until release is closed.
type blockingPrompter struct {
	fakePrompter
	entered chan string
	release chan struct{}
}

func newBlockingPrompter(questions ...string) *blockingPrompter {
	return &blockingPrompter{
		fakePrompter: fakePrompter{questions: questions},
		entered:      make(chan string, 4),
		release:      make(chan struct{}),
	}
}

func (b *blockingPrompter) GenerateQuestions(ctx context.Context, role string) ([]string, error) {
	b.entered <- "questions"
	<-b.release
	return b.fakePrompter.GenerateQuestions(ctx, role)
}

func (b *blockingPrompter) GenerateFeedback(ctx context.Context, role, question, answer string) (string, error) {
	b.entered <- "feedback"
	<-b.release
	return b.fakePrompter.GenerateFeedback(ctx, role, question, answer)
}

func (b *blockingPrompter) GenerateReport(ctx context.Context, role string, t []TranscriptEntry) (*Report, error) {
	b.entered <- "report"
	<-b.release
	return b.fakePrompter.GenerateReport(ctx, role, t)
}

type manualTask struct {
	s       *manualScheduler
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTask) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{s: s, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

// Fire runs every task that is neither stopped nor already fired, ignoring
// stop state when force is set to model a timer that fired just before Stop.
func (s *manualScheduler) Fire(force bool) int {
	s.mu.Lock()
	var due []*manualTask
	for _, t := range s.tasks {
		if t.fired || (t.stopped && !force) {
			continue
		}
		t.fired = true
		due = append(due, t)
	}
	s.mu.Unlock()
	for _, t := range due {
		t.f()
	}
	return len(due)
}

var frontendQuestions = []string{
	"What is the Box Model in CSS?",
	"Explain state and props in React.",
	"What are Promises in JavaScript?",
	"How do you make a website responsive?",
}

func startedController(t *testing.T, p Prompter, opts ...Option) *Controller {
	t.Helper()
	c := New(p, append([]Option{WithPacing(0)}, opts...)...)
	require.NoError(t, c.Start(context.Background(), "Frontend Developer"))
	return c
}

func answer(t *testing.T, c *Controller, text string) error {
	t.Helper()
	s := c.Snapshot()
	return c.SubmitAnswer(context.Background(), Submission{Question: s.CurrentQuestion, Answer: text})
}

func kinds(messages []Message) []MessageKind {
	out := make([]MessageKind, len(messages))
	for i, m := range messages {
		out[i] = m.Kind
	}
	return out
}

func TestStartShowsFirstQuestion(t *testing.T) {
	roles := []string{"Data Scientist", "Frontend Developer", "Cybersecurity Analyst"}
	for _, role := range roles {
		t.Run(role, func(t *testing.T) {
			p := &fakePrompter{questions: []string{"Q1", "Q2"}}
			c := New(p, WithPacing(0))

			require.NoError(t, c.Start(context.Background(), role))

			s := c.Snapshot()
			assert.Equal(t, PhaseInterviewing, s.Phase)
			assert.Equal(t, role, s.Role)
			assert.Equal(t, 0, s.Index)
			require.Len(t, s.Messages, 1)
			assert.Equal(t, Message{Kind: KindQuestion, Text: "Q1"}, s.Messages[0])
			assert.True(t, s.CanSubmit)
		})
	}
}

func TestStartFailureClearsRole(t *testing.T) {
	tests := []struct {
		name     string
		prompter *fakePrompter
		wantErr  error
	}{
		{"model error", &fakePrompter{questionsErr: errors.New("boom")}, nil},
		{"empty set", &fakePrompter{questions: []string{" ", ""}}, ErrNoQuestions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var notices []string
			c := New(tt.prompter, WithListener(func(ev Event) {
				if ev.Kind == EventNotice {
					notices = append(notices, ev.Notice)
				}
			}))

			err := c.Start(context.Background(), "Data Engineer")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			s := c.Snapshot()
			assert.Equal(t, PhaseNotStarted, s.Phase)
			assert.Empty(t, s.Role)
			assert.Empty(t, s.Messages)
			assert.Len(t, notices, 1)

			// the same action can be retried
			tt.prompter.questionsErr = nil
			tt.prompter.questions = []string{"Q1"}
			assert.NoError(t, c.Start(context.Background(), "Data Engineer"))
		})
	}
}

func TestStartValidation(t *testing.T) {
	c := New(&fakePrompter{questions: []string{"Q1"}}, WithRoleCheck(func(r string) bool { return r == "Data Scientist" }))

	assert.ErrorIs(t, c.Start(context.Background(), ""), ErrUnknownRole)
	assert.ErrorIs(t, c.Start(context.Background(), "Astronaut"), ErrUnknownRole)
	require.NoError(t, c.Start(context.Background(), "Data Scientist"))
	assert.ErrorIs(t, c.Start(context.Background(), "Data Scientist"), ErrInvalidPhase)
}

func TestSubmitAnswerOnlyForCurrentQuestion(t *testing.T) {
	p := &fakePrompter{questions: frontendQuestions}
	c := startedController(t, p)

	tests := []struct {
		name    string
		sub     Submission
		wantErr error
	}{
		{"later question", Submission{Question: frontendQuestions[1], Answer: "content box"}, ErrStaleSubmission},
		{"unknown question", Submission{Question: "Why?", Answer: "because"}, ErrStaleSubmission},
		{"other role", Submission{Role: "Data Scientist", Question: frontendQuestions[0], Answer: "content box"}, ErrStaleSubmission},
		{"blank answer", Submission{Question: frontendQuestions[0], Answer: "   "}, ErrEmptyAnswer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := c.Snapshot()
			err := c.SubmitAnswer(context.Background(), tt.sub)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, c.Snapshot())
		})
	}
	assert.Zero(t, p.feedbackCalls)

	require.NoError(t, c.SubmitAnswer(context.Background(), Submission{Role: "Frontend Developer", Question: frontendQuestions[0], Answer: "content, padding, border, margin"}))
	assert.Equal(t, 1, c.Snapshot().Index)

	// replaying the first submission after the index advanced is a no-op
	before := c.Snapshot()
	err := c.SubmitAnswer(context.Background(), Submission{Question: frontendQuestions[0], Answer: "content, padding, border, margin"})
	assert.ErrorIs(t, err, ErrStaleSubmission)
	assert.Equal(t, before, c.Snapshot())
}

func TestFullInterviewScenario(t *testing.T) {
	p := &fakePrompter{questions: frontendQuestions}
	c := startedController(t, p)

	for i := range frontendQuestions {
		require.NoError(t, answer(t, c, "answer "+frontendQuestions[i]))
	}

	s := c.Snapshot()
	assert.Equal(t, PhaseCompleted, s.Phase)
	assert.Equal(t, 3, s.Index)
	require.Len(t, s.Messages, 13)
	assert.Equal(t, []MessageKind{
		KindQuestion, KindAnswer, KindFeedback,
		KindQuestion, KindAnswer, KindFeedback,
		KindQuestion, KindAnswer, KindFeedback,
		KindQuestion, KindAnswer, KindFeedback,
		KindClosingNotice,
	}, kinds(s.Messages))
	assert.Equal(t, DefaultClosingNotice, s.Messages[12].Text)
	for _, m := range s.Messages {
		if m.Kind == KindAnswer {
			assert.Equal(t, AnswerConfirmed, m.Status)
		}
	}
	assert.False(t, s.CanSubmit)
	assert.True(t, s.CanRequestReport)

	// no more answers and no more questions once completed
	err := c.SubmitAnswer(context.Background(), Submission{Question: frontendQuestions[3], Answer: "again"})
	assert.ErrorIs(t, err, ErrInvalidPhase)
	assert.Len(t, c.Snapshot().Messages, 13)
}

func TestFeedbackFailureKeepsAnswerForRetry(t *testing.T) {
	p := &fakePrompter{questions: frontendQuestions, feedbackErrs: []error{errors.New("model unavailable")}}
	c := startedController(t, p)

	err := answer(t, c, "content, padding, border, margin")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStaleResponse)

	s := c.Snapshot()
	assert.Equal(t, PhaseInterviewing, s.Phase)
	assert.Equal(t, 0, s.Index)
	require.Len(t, s.Messages, 2)
	assert.Equal(t, KindAnswer, s.Messages[1].Kind)
	assert.Equal(t, AnswerUnconfirmed, s.Messages[1].Status)

	require.NoError(t, answer(t, c, "content, padding, border, margin"))

	s = c.Snapshot()
	assert.Equal(t, 1, s.Index)
	assert.Equal(t, []MessageKind{KindQuestion, KindAnswer, KindFeedback, KindQuestion}, kinds(s.Messages))
	assert.Equal(t, AnswerConfirmed, s.Messages[1].Status)
	assert.Equal(t, 2, p.feedbackCalls)
}

func TestRetryWithEditedAnswerOverwrites(t *testing.T) {
	p := &fakePrompter{questions: frontendQuestions, feedbackErrs: []error{errors.New("timeout")}}
	c := startedController(t, p)

	require.Error(t, answer(t, c, "first draft"))
	require.NoError(t, answer(t, c, "second draft"))

	s := c.Snapshot()
	answers := 0
	for _, m := range s.Messages {
		if m.Kind == KindAnswer {
			answers++
			assert.Equal(t, "second draft", m.Text)
		}
	}
	assert.Equal(t, 1, answers)
}

func TestRequestReportSendsFilteredTranscript(t *testing.T) {
	p := &fakePrompter{questions: []string{"Q1", "Q2"}}
	c := startedController(t, p)
	require.NoError(t, answer(t, c, "A1"))
	require.NoError(t, answer(t, c, "A2"))

	report, err := c.RequestReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 72.0, report.ConfidenceScore)

	assert.Equal(t, []TranscriptEntry{
		{Type: KindQuestion, Text: "Q1"},
		{Type: KindAnswer, Text: "A1"},
		{Type: KindQuestion, Text: "Q2"},
		{Type: KindAnswer, Text: "A2"},
	}, p.lastTranscript)

	s := c.Snapshot()
	assert.Equal(t, PhaseReportReady, s.Phase)
	require.NotNil(t, s.Report)
	assert.Equal(t, "solid", s.Report.Summary)
	assert.False(t, s.CanRequestReport)
}

func TestRequestReportFailureRestoresPhase(t *testing.T) {
	tests := []struct {
		name    string
		answers int
		want    Phase
	}{
		{"mid interview", 1, PhaseInterviewing},
		{"after last question", 2, PhaseCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePrompter{questions: []string{"Q1", "Q2"}, reportErr: errors.New("quota")}
			c := startedController(t, p)
			for i := 0; i < tt.answers; i++ {
				require.NoError(t, answer(t, c, "A"))
			}

			_, err := c.RequestReport(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.want, c.Phase())
			assert.Nil(t, c.Snapshot().Report)

			p.reportErr = nil
			_, err = c.RequestReport(context.Background())
			require.NoError(t, err)
			assert.Equal(t, PhaseReportReady, c.Phase())
		})
	}
}

func TestRequestReportPhaseRules(t *testing.T) {
	c := New(&fakePrompter{questions: []string{"Q1"}}, WithPacing(0))
	_, err := c.RequestReport(context.Background())
	assert.ErrorIs(t, err, ErrInvalidPhase)

	require.NoError(t, c.Start(context.Background(), "Product Manager"))
	require.NoError(t, answer(t, c, "A1"))
	_, err = c.RequestReport(context.Background())
	require.NoError(t, err)

	_, err = c.RequestReport(context.Background())
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestResetFromAnyPhase(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, c *Controller)
	}{
		{"not started", func(t *testing.T, c *Controller) {}},
		{"interviewing", func(t *testing.T, c *Controller) {
			require.NoError(t, c.Start(context.Background(), "DevOps Engineer"))
		}},
		{"mid interview", func(t *testing.T, c *Controller) {
			require.NoError(t, c.Start(context.Background(), "DevOps Engineer"))
			require.NoError(t, answer(t, c, "A1"))
		}},
		{"completed", func(t *testing.T, c *Controller) {
			require.NoError(t, c.Start(context.Background(), "DevOps Engineer"))
			require.NoError(t, answer(t, c, "A1"))
			require.NoError(t, answer(t, c, "A2"))
		}},
		{"report ready", func(t *testing.T, c *Controller) {
			require.NoError(t, c.Start(context.Background(), "DevOps Engineer"))
			require.NoError(t, answer(t, c, "A1"))
			_, err := c.RequestReport(context.Background())
			require.NoError(t, err)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&fakePrompter{questions: []string{"Q1", "Q2"}}, WithPacing(0))
			tt.setup(t, c)
			before := c.SessionID()

			c.Reset()

			s := c.Snapshot()
			assert.Equal(t, PhaseNotStarted, s.Phase)
			assert.Empty(t, s.Role)
			assert.Empty(t, s.Messages)
			assert.Empty(t, s.Questions)
			assert.Zero(t, s.Index)
			assert.Nil(t, s.Report)
			assert.NotEqual(t, before, s.SessionID)
			assert.True(t, s.CanStart)
		})
	}
}

func TestPacedQuestionInsertedByScheduler(t *testing.T) {
	sched := &manualScheduler{}
	c := startedController(t, &fakePrompter{questions: []string{"Q1", "Q2"}}, WithPacing(time.Second), WithScheduler(sched))

	require.NoError(t, answer(t, c, "A1"))
	s := c.Snapshot()
	assert.Equal(t, []MessageKind{KindQuestion, KindAnswer, KindFeedback}, kinds(s.Messages))
	assert.Equal(t, "Q2", s.CurrentQuestion)

	assert.Equal(t, 1, sched.Fire(false))
	s = c.Snapshot()
	assert.Equal(t, []MessageKind{KindQuestion, KindAnswer, KindFeedback, KindQuestion}, kinds(s.Messages))
	assert.Equal(t, "Q2", s.Messages[3].Text)
}

func TestPacedQuestionFlushedBeforeEarlyAnswer(t *testing.T) {
	sched := &manualScheduler{}
	c := startedController(t, &fakePrompter{questions: []string{"Q1", "Q2", "Q3"}}, WithPacing(time.Second), WithScheduler(sched))

	require.NoError(t, answer(t, c, "A1"))
	require.NoError(t, answer(t, c, "A2"))

	// the flushed Q2 timer may still fire; only the Q3 timer may append
	assert.Equal(t, 2, sched.Fire(true))

	s := c.Snapshot()
	assert.Equal(t, []MessageKind{
		KindQuestion, KindAnswer, KindFeedback,
		KindQuestion, KindAnswer, KindFeedback,
		KindQuestion,
	}, kinds(s.Messages))
	assert.Equal(t, "Q2", s.Messages[3].Text)
	assert.Equal(t, "Q3", s.Messages[6].Text)
	assert.Equal(t, 2, s.Index)
}

func TestResetCancelsPacedQuestion(t *testing.T) {
	sched := &manualScheduler{}
	c := startedController(t, &fakePrompter{questions: []string{"Q1", "Q2"}}, WithPacing(time.Second), WithScheduler(sched))
	require.NoError(t, answer(t, c, "A1"))

	c.Reset()
	assert.Zero(t, sched.Fire(false))

	// even a timer that escaped cancellation cannot touch the new session
	sched.Fire(true)
	require.NoError(t, c.Start(context.Background(), "Frontend Developer"))
	s := c.Snapshot()
	assert.Equal(t, []MessageKind{KindQuestion}, kinds(s.Messages))
	assert.Equal(t, "Q1", s.Messages[0].Text)
}

func TestLateQuestionsAfterResetAreDiscarded(t *testing.T) {
	p := newBlockingPrompter("Q1", "Q2")
	c := New(p, WithPacing(0))

	started := make(chan error, 1)
	go func() { started <- c.Start(context.Background(), "Backend Developer") }()
	<-p.entered
	assert.Equal(t, PhaseAwaitingQuestions, c.Phase())

	c.Reset()
	close(p.release)

	assert.ErrorIs(t, <-started, ErrStaleResponse)
	s := c.Snapshot()
	assert.Equal(t, PhaseNotStarted, s.Phase)
	assert.Empty(t, s.Messages)
	assert.Empty(t, s.Role)
}

func TestOneRequestInFlight(t *testing.T) {
	p := newBlockingPrompter("Q1", "Q2")
	c := New(p, WithPacing(0))

	go func() {
		<-p.entered
		p.release <- struct{}{}
	}()
	require.NoError(t, c.Start(context.Background(), "Backend Developer"))

	done := make(chan error, 1)
	go func() {
		done <- c.SubmitAnswer(context.Background(), Submission{Question: "Q1", Answer: "A1"})
	}()
	assert.Equal(t, "feedback", <-p.entered)

	assert.Equal(t, PhaseAwaitingFeedback, c.Phase())
	assert.True(t, c.Snapshot().Pending)
	assert.ErrorIs(t, c.SubmitAnswer(context.Background(), Submission{Question: "Q1", Answer: "A1"}), ErrRequestPending)
	_, err := c.RequestReport(context.Background())
	assert.ErrorIs(t, err, ErrRequestPending)
	assert.ErrorIs(t, c.Start(context.Background(), "Backend Developer"), ErrRequestPending)

	// ending the session while feedback is outstanding discards the reply
	c.End()
	close(p.release)
	assert.ErrorIs(t, <-done, ErrStaleResponse)
	assert.Empty(t, c.Snapshot().Messages)
}

func TestListenerSeesOrderedEvents(t *testing.T) {
	var mu sync.Mutex
	var got []EventKind
	c := New(&fakePrompter{questions: []string{"Q1"}}, WithPacing(0), WithListener(func(ev Event) {
		mu.Lock()
		got = append(got, ev.Kind)
		mu.Unlock()
	}))

	require.NoError(t, c.Start(context.Background(), "Data Scientist"))
	require.NoError(t, answer(t, c, "A1"))
	_, err := c.RequestReport(context.Background())
	require.NoError(t, err)
	c.Reset()

	assert.Equal(t, []EventKind{
		EventPhaseChanged,    // awaiting questions
		EventMessageAppended, // Q1
		EventPhaseChanged,    // interviewing
		EventMessageAppended, // A1
		EventPhaseChanged,    // awaiting feedback
		EventMessageUpdated,  // A1 confirmed
		EventMessageAppended, // feedback
		EventMessageAppended, // closing notice
		EventPhaseChanged,    // completed
		EventPhaseChanged,    // awaiting report
		EventPhaseChanged,    // report ready
		EventReportReady,
		EventEnded,
		EventReset,
	}, got)
}

func TestLateReportAfterResetIsDiscarded(t *testing.T) {
	p := newBlockingPrompter("Q1")
	c := New(p, WithPacing(0))
	go func() {
		<-p.entered
		p.release <- struct{}{}
	}()
	require.NoError(t, c.Start(context.Background(), "Data Scientist"))

	done := make(chan error, 1)
	go func() {
		_, err := c.RequestReport(context.Background())
		done <- err
	}()
	assert.Equal(t, "report", <-p.entered)
	assert.Equal(t, PhaseAwaitingReport, c.Phase())

	c.Reset()
	close(p.release)

	assert.ErrorIs(t, <-done, ErrStaleResponse)
	s := c.Snapshot()
	assert.Equal(t, PhaseNotStarted, s.Phase)
	assert.Nil(t, s.Report)
	assert.Empty(t, s.Messages)
}

func TestEndedEventClosesOutgoingSession(t *testing.T) {
	var got []Event
	c := New(&fakePrompter{questions: []string{"Q1"}}, WithPacing(0), WithListener(func(ev Event) {
		if ev.Kind == EventEnded || ev.Kind == EventReset {
			got = append(got, ev)
		}
	}))
	c.Reset()
	assert.Len(t, got, 1, "an unstarted session has nothing to close")

	require.NoError(t, c.Start(context.Background(), "Data Scientist"))
	old := c.SessionID()
	got = nil
	c.End()

	require.Len(t, got, 2)
	assert.Equal(t, Event{Kind: EventEnded, SessionID: old, Role: "Data Scientist", Phase: PhaseInterviewing}, got[0])
	assert.Equal(t, EventReset, got[1].Kind)
	assert.NotEqual(t, old, got[1].SessionID)
}

func TestFailedStartReportsPhaseWithRole(t *testing.T) {
	var phases []Event
	c := New(&fakePrompter{questionsErr: errors.New("boom")}, WithListener(func(ev Event) {
		if ev.Kind == EventPhaseChanged {
			phases = append(phases, ev)
		}
	}))

	require.Error(t, c.Start(context.Background(), "Data Engineer"))

	require.Len(t, phases, 2)
	assert.Equal(t, PhaseNotStarted, phases[1].Phase)
	assert.Equal(t, "Data Engineer", phases[1].Role)
	assert.Empty(t, c.Snapshot().Role)
}

func TestSnapshotReportIsACopy(t *testing.T) {
	p := &fakePrompter{questions: []string{"Q1"}}
	c := startedController(t, p)
	_, err := c.RequestReport(context.Background())
	require.NoError(t, err)

	c.mu.Lock()
	c.report.Strengths = []string{"structure"}
	c.report.AreasForImprovement = []string{"metrics"}
	c.mu.Unlock()

	s := c.Snapshot()
	s.Report.Strengths[0] = "changed"
	s.Report.AreasForImprovement[0] = "changed"

	again := c.Snapshot()
	assert.Equal(t, []string{"structure"}, again.Report.Strengths)
	assert.Equal(t, []string{"metrics"}, again.Report.AreasForImprovement)
}
