package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muhammadolammi/maarg/internal/interview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedPrompter struct {
	questions []string
	report    *interview.Report
}

func (p *scriptedPrompter) GenerateQuestions(context.Context, string) ([]string, error) {
	return p.questions, nil
}

func (p *scriptedPrompter) GenerateFeedback(_ context.Context, _, question, _ string) (string, error) {
	return "feedback on " + question, nil
}

func (p *scriptedPrompter) GenerateReport(context.Context, string, []interview.TranscriptEntry) (*interview.Report, error) {
	return p.report, nil
}

type memHistory struct {
	saved []Entry
}

func (h *memHistory) SaveReport(e Entry) error {
	h.saved = append(h.saved, e)
	return nil
}

func (h *memHistory) LatestScores() (map[string]float64, error) {
	out := map[string]float64{}
	for _, e := range h.saved {
		out[e.Role] = e.Report.ConfidenceScore
	}
	return out, nil
}

var roles = []string{"Data Scientist", "Software Engineer"}

func newTestModel(t *testing.T, history HistoryStore) (Model, *interview.Controller, *[]interview.Event) {
	t.Helper()
	p := &scriptedPrompter{
		questions: []string{"Q1", "Q2"},
		report:    &interview.Report{ConfidenceScore: 82, Summary: "Solid answers"},
	}
	var events []interview.Event
	ctrl := interview.New(p, interview.WithPacing(0), interview.WithListener(func(ev interview.Event) {
		events = append(events, ev)
	}))
	return New(ctrl, roles, history), ctrl, &events
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// press feeds msg to the model and runs any resulting command back through it.
func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	m = updated.(Model)
	for cmd != nil {
		next := cmd()
		if _, ok := next.(tea.QuitMsg); ok {
			return m
		}
		updated, cmd = m.Update(next)
		m = updated.(Model)
	}
	return m
}

func start(t *testing.T, m Model) Model {
	t.Helper()
	m = press(t, m, key(tea.KeyEnter))
	require.Equal(t, interview.PhaseInterviewing, m.snap.Phase)
	return m
}

func TestPickerNavigation(t *testing.T) {
	m, _, _ := newTestModel(t, nil)

	m = press(t, m, key(tea.KeyDown))
	assert.Equal(t, 1, m.cursor)
	m = press(t, m, key(tea.KeyDown))
	assert.Equal(t, 1, m.cursor)
	m = press(t, m, runes("k"))
	assert.Equal(t, 0, m.cursor)
	m = press(t, m, key(tea.KeyUp))
	assert.Equal(t, 0, m.cursor)
}

func TestEnterStartsSelectedRole(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = press(t, m, key(tea.KeyDown))

	m = start(t, m)

	assert.Equal(t, "Software Engineer", m.snap.Role)
	assert.Equal(t, "Q1", m.snap.CurrentQuestion)
	assert.Contains(t, m.View(), "Q: Q1")
}

func TestTypingAndSubmittingAnswer(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = start(t, m)

	m = press(t, m, runes("I"))
	m = press(t, m, key(tea.KeySpace))
	m = press(t, m, runes("led it!"))
	m = press(t, m, key(tea.KeyBackspace))
	assert.Equal(t, "I led it", string(m.input))

	m = press(t, m, key(tea.KeyEnter))

	assert.Empty(t, m.input)
	assert.Equal(t, "Q2", m.snap.CurrentQuestion)
	require.Len(t, m.snap.Messages, 4)
	assert.Equal(t, "I led it", m.snap.Messages[1].Text)
	assert.Equal(t, interview.AnswerConfirmed, m.snap.Messages[1].Status)
	assert.Equal(t, "feedback on Q1", m.snap.Messages[2].Text)
}

func TestEnterWithEmptyInputDoesNothing(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = start(t, m)

	_, cmd := m.Update(key(tea.KeyEnter))

	assert.Nil(t, cmd)
}

func TestKeysIgnoredWhilePending(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = start(t, m)
	m.input = []rune("answer")
	m.snap.Pending = true

	_, cmd := m.Update(key(tea.KeyEnter))
	assert.Nil(t, cmd)
	_, cmd = m.Update(key(tea.KeyCtrlR))
	assert.Nil(t, cmd)
}

func TestReportIsSavedAndScoreShownInPicker(t *testing.T) {
	history := &memHistory{}
	m, _, events := newTestModel(t, history)
	m = start(t, m)

	m = press(t, m, key(tea.KeyCtrlR))
	require.Equal(t, interview.PhaseReportReady, m.snap.Phase)
	assert.Contains(t, m.View(), "82/100")

	var ready *interview.Event
	for i := range *events {
		if (*events)[i].Kind == interview.EventReportReady {
			ready = &(*events)[i]
		}
	}
	require.NotNil(t, ready)
	m = press(t, m, EventMsg{Event: *ready})

	require.Len(t, history.saved, 1)
	assert.Equal(t, "Data Scientist", history.saved[0].Role)
	assert.Equal(t, ready.SessionID, history.saved[0].SessionID)
	assert.Equal(t, 82.0, m.scores["Data Scientist"])

	m = press(t, m, key(tea.KeyEsc))
	assert.Equal(t, interview.PhaseNotStarted, m.snap.Phase)
	assert.Contains(t, m.View(), "last score 82")
}

func TestEndAbandonsInterview(t *testing.T) {
	m, ctrl, _ := newTestModel(t, nil)
	m = start(t, m)
	before := ctrl.SessionID()

	m = press(t, m, key(tea.KeyCtrlE))

	assert.Equal(t, interview.PhaseNotStarted, m.snap.Phase)
	assert.NotEqual(t, before, ctrl.SessionID())
}

func TestEscOnlyResetsAfterReport(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = start(t, m)

	m = press(t, m, key(tea.KeyEsc))

	assert.Equal(t, interview.PhaseInterviewing, m.snap.Phase)
}

func TestEventMsgUpdatesNotice(t *testing.T) {
	m, _, _ := newTestModel(t, nil)

	m = press(t, m, EventMsg{Event: interview.Event{Kind: interview.EventNotice, Notice: "Could not get feedback"}})
	assert.Contains(t, m.View(), "Could not get feedback")

	m = press(t, m, EventMsg{Event: interview.Event{Kind: interview.EventReset}})
	assert.Empty(t, m.notice)
}

func TestOpErrors(t *testing.T) {
	m, _, _ := newTestModel(t, nil)

	m = press(t, m, OpDoneMsg{Op: opSubmit, Err: interview.ErrStaleResponse})
	assert.Empty(t, m.err)

	m = press(t, m, OpDoneMsg{Op: opSubmit, Err: fmt.Errorf("wrap: %w", interview.ErrEmptyAnswer)})
	assert.Equal(t, "Type an answer first.", m.err)

	m = press(t, m, OpDoneMsg{Op: opReport, Err: errors.New("generate report: boom")})
	assert.Equal(t, "generate report: boom", m.err)
}

func TestCtrlCQuits(t *testing.T) {
	m, _, _ := newTestModel(t, nil)

	_, cmd := m.Update(key(tea.KeyCtrlC))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
