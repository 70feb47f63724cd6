// Package tui is a terminal front end for a single in-process interview
// session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muhammadolammi/maarg/internal/interview"
)

const requestTimeout = 2 * time.Minute

// Model is the root bubbletea model.
type Model struct {
	ctrl    *interview.Controller
	history HistoryStore
	roles   []string
	cursor  int

	snap   interview.Snapshot
	input  []rune
	scores map[string]float64
	notice string
	err    string

	width  int
	height int
}

// New builds the model. history may be nil.
func New(ctrl *interview.Controller, roles []string, history HistoryStore) Model {
	return Model{
		ctrl:    ctrl,
		history: history,
		roles:   roles,
		snap:    ctrl.Snapshot(),
		scores:  map[string]float64{},
	}
}

// Run starts the program and forwards controller events to it until the
// user quits.
func Run(ctrl *interview.Controller, roles []string, history HistoryStore) error {
	p := tea.NewProgram(New(ctrl, roles, history), tea.WithAltScreen())
	ctrl.AddListener(func(ev interview.Event) {
		p.Send(EventMsg{Event: ev})
	})
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return loadScores(m.history)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		m.snap = m.ctrl.Snapshot()
		switch msg.Event.Kind {
		case interview.EventNotice:
			m.notice = msg.Event.Notice
		case interview.EventReset:
			m.notice = ""
			m.err = ""
			m.input = nil
		case interview.EventReportReady:
			if msg.Event.Report != nil {
				return m, saveReport(m.history, Entry{
					SessionID: msg.Event.SessionID,
					Role:      msg.Event.Role,
					Report:    *msg.Event.Report,
				})
			}
		}
		return m, nil

	case OpDoneMsg:
		m.snap = m.ctrl.Snapshot()
		switch {
		case msg.Err == nil:
			m.err = ""
			if msg.Op == opSubmit {
				m.input = nil
			}
		case errors.Is(msg.Err, interview.ErrStaleResponse):
		default:
			m.err = describe(msg.Err)
		}
		return m, nil

	case ScoresLoadedMsg:
		if msg.Err != nil {
			m.err = "Could not load history: " + msg.Err.Error()
			return m, nil
		}
		m.scores = msg.Scores
		return m, nil

	case ReportSavedMsg:
		if msg.Err != nil {
			m.err = "Could not save report: " + msg.Err.Error()
			return m, nil
		}
		return m, loadScores(m.history)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyCtrlC:
		return m, tea.Quit
	case KeyEnd:
		if m.snap.Phase == interview.PhaseNotStarted {
			return m, nil
		}
		return m, call(opEnd, func(context.Context) error {
			m.ctrl.End()
			return nil
		})
	}

	if m.snap.Pending {
		return m, nil
	}

	switch m.snap.Phase {
	case interview.PhaseNotStarted:
		return m.handlePickerKey(msg)
	case interview.PhaseReportReady:
		if msg.String() == KeyReset {
			return m, call(opReset, func(context.Context) error {
				m.ctrl.Reset()
				return nil
			})
		}
		return m, nil
	}

	switch msg.String() {
	case KeyReport:
		if !m.snap.CanRequestReport {
			return m, nil
		}
		m.notice = ""
		return m, call(opReport, func(ctx context.Context) error {
			_, err := m.ctrl.RequestReport(ctx)
			return err
		})
	case KeyEnter:
		if !m.snap.CanSubmit || strings.TrimSpace(string(m.input)) == "" {
			return m, nil
		}
		sub := interview.Submission{
			Role:     m.snap.Role,
			Question: m.snap.CurrentQuestion,
			Answer:   string(m.input),
		}
		m.notice = ""
		return m, call(opSubmit, func(ctx context.Context) error {
			return m.ctrl.SubmitAnswer(ctx, sub)
		})
	case KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil
	case KeyClearLine:
		m.input = nil
		return m, nil
	}

	if m.snap.CanSubmit {
		switch msg.Type {
		case tea.KeyRunes:
			m.input = append(m.input, msg.Runes...)
		case tea.KeySpace:
			m.input = append(m.input, ' ')
		}
	}
	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyUp, KeyK:
		if m.cursor > 0 {
			m.cursor--
		}
	case KeyDown, KeyJ:
		if m.cursor < len(m.roles)-1 {
			m.cursor++
		}
	case KeyEnter:
		if len(m.roles) == 0 {
			return m, nil
		}
		role := m.roles[m.cursor]
		m.err = ""
		m.notice = ""
		return m, call(opStart, func(ctx context.Context) error {
			return m.ctrl.Start(ctx, role)
		})
	}
	return m, nil
}

// call runs fn off the event loop. Controller listeners send to the program,
// so mutating calls must never run inside Update.
func call(o op, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return OpDoneMsg{Op: o, Err: fn(ctx)}
	}
}

func loadScores(h HistoryStore) tea.Cmd {
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		scores, err := h.LatestScores()
		return ScoresLoadedMsg{Scores: scores, Err: err}
	}
}

func saveReport(h HistoryStore, e Entry) tea.Cmd {
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		return ReportSavedMsg{Err: h.SaveReport(e)}
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, interview.ErrEmptyAnswer):
		return "Type an answer first."
	case errors.Is(err, interview.ErrRequestPending):
		return "Still waiting for the previous request."
	case errors.Is(err, interview.ErrStaleSubmission):
		return "That question has moved on."
	case errors.Is(err, interview.ErrUnknownRole):
		return "Please choose a role from the list."
	case errors.Is(err, interview.ErrInvalidPhase):
		return "That is not available right now."
	}
	return err.Error()
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("maarg · mock interview"))
	b.WriteString("\n\n")

	switch m.snap.Phase {
	case interview.PhaseNotStarted:
		b.WriteString(m.pickerView())
	case interview.PhaseAwaitingQuestions:
		b.WriteString(StatusStyle.Render(fmt.Sprintf("Preparing questions for %s...", m.snap.Role)))
		b.WriteString("\n")
	case interview.PhaseAwaitingReport:
		b.WriteString(m.transcriptView())
		b.WriteString(StatusStyle.Render("Generating your report..."))
		b.WriteString("\n")
	case interview.PhaseReportReady:
		b.WriteString(m.reportView())
	default:
		b.WriteString(m.transcriptView())
		b.WriteString(m.inputView())
	}

	if m.notice != "" {
		b.WriteString("\n" + NoticeStyle.Render(m.notice) + "\n")
	}
	if m.err != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.err) + "\n")
	}
	b.WriteString("\n" + HelpStyle.Render(m.help()))

	if m.width > 0 {
		return lipgloss.NewStyle().Width(m.width).Render(b.String())
	}
	return b.String()
}

func (m Model) pickerView() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Choose a role"))
	b.WriteString("\n")
	for i, role := range m.roles {
		line := "  " + role
		if score, ok := m.scores[role]; ok {
			line += StatusStyle.Render(fmt.Sprintf("  last score %.0f", score))
		}
		if i == m.cursor {
			line = SelectedStyle.Render("> "+role) + strings.TrimPrefix(line, "  "+role)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) transcriptView() string {
	var b strings.Builder
	header := m.snap.Role
	if n := len(m.snap.Questions); n > 0 {
		header += fmt.Sprintf("  question %d of %d", m.snap.Index+1, n)
	}
	b.WriteString(HeaderStyle.Render(header))
	b.WriteString("\n\n")

	for _, msg := range m.snap.Messages {
		switch msg.Kind {
		case interview.KindQuestion:
			b.WriteString(QuestionStyle.Render("Q: " + msg.Text))
		case interview.KindAnswer:
			text := "You: " + msg.Text
			switch msg.Status {
			case interview.AnswerPending:
				b.WriteString(AnswerStyle.Render(text) + StatusStyle.Render(" (sending)"))
			case interview.AnswerUnconfirmed:
				b.WriteString(UnconfirmedStyle.Render(text + " (not sent)"))
			default:
				b.WriteString(AnswerStyle.Render(text))
			}
		case interview.KindFeedback:
			b.WriteString(FeedbackStyle.Render("Feedback: " + msg.Text))
		case interview.KindClosingNotice:
			b.WriteString(NoticeStyle.Render(msg.Text))
		}
		b.WriteString("\n")
	}
	if m.snap.Phase == interview.PhaseAwaitingFeedback {
		b.WriteString(StatusStyle.Render("Reviewing your answer..."))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) inputView() string {
	if !m.snap.CanSubmit {
		return ""
	}
	return "\n" + PanelStyle.Render("> "+string(m.input)+"█") + "\n"
}

func (m Model) reportView() string {
	r := m.snap.Report
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Report for "+m.snap.Role) + "\n\n")
	b.WriteString("Confidence " + ScoreStyle.Render(fmt.Sprintf("%.0f/100", r.ConfidenceScore)) + "\n\n")
	b.WriteString(r.Summary + "\n\n")
	section := func(title, body string) {
		if body != "" {
			b.WriteString(QuestionStyle.Render(title) + "\n" + body + "\n\n")
		}
	}
	section("Fluency", r.FluencyAnalysis)
	section("Technical proficiency", r.TechnicalProficiency)
	section("Behavioral competency", r.BehavioralCompetency)
	section("STAR method", r.StarMethodAdherence)
	section("Strengths", bullets(r.Strengths))
	section("Areas for improvement", bullets(r.AreasForImprovement))
	return PanelStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func bullets(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return "• " + strings.Join(items, "\n• ")
}

func (m Model) help() string {
	switch m.snap.Phase {
	case interview.PhaseNotStarted:
		return "↑/↓ choose · enter start · ctrl+c quit"
	case interview.PhaseReportReady:
		return "esc new interview · ctrl+e end · ctrl+c quit"
	case interview.PhaseInterviewing, interview.PhaseCompleted:
		return "enter submit · ctrl+r report · ctrl+e end · ctrl+c quit"
	}
	return "ctrl+e end · ctrl+c quit"
}
