package interview

import "encoding/json"

// Snapshot is a consistent copy of the controller state, with the
// affordances a view needs to enable or disable its controls.
type Snapshot struct {
	SessionID        string    `json:"sessionId"`
	Role             string    `json:"role,omitempty"`
	Phase            Phase     `json:"phase"`
	Questions        []string  `json:"questions"`
	Index            int       `json:"currentQuestionIndex"`
	CurrentQuestion  string    `json:"currentQuestion,omitempty"`
	Messages         []Message `json:"messages"`
	Report           *Report   `json:"report,omitempty"`
	Pending          bool      `json:"pending"`
	CanStart         bool      `json:"canStart"`
	CanSubmit        bool      `json:"canSubmit"`
	CanRequestReport bool      `json:"canRequestReport"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		SessionID:        c.sessionID,
		Role:             c.role,
		Phase:            c.phase,
		Questions:        append([]string{}, c.questions...),
		Index:            c.index,
		Messages:         append([]Message{}, c.messages...),
		Pending:          c.phase.Pending(),
		CanStart:         c.phase == PhaseNotStarted,
		CanSubmit:        c.phase == PhaseInterviewing,
		CanRequestReport: c.phase == PhaseInterviewing || c.phase == PhaseCompleted,
	}
	if c.index < len(c.questions) && (c.phase == PhaseInterviewing || c.phase == PhaseAwaitingFeedback) {
		s.CurrentQuestion = c.questions[c.index]
	}
	if c.report != nil {
		r := *c.report
		r.Strengths = append([]string(nil), r.Strengths...)
		r.AreasForImprovement = append([]string(nil), r.AreasForImprovement...)
		s.Report = &r
	}
	return s
}

// FilterTranscript keeps only question and answer messages, in order.
func FilterTranscript(messages []Message) []TranscriptEntry {
	out := make([]TranscriptEntry, 0, len(messages))
	for _, m := range messages {
		if m.Kind == KindQuestion || m.Kind == KindAnswer {
			out = append(out, TranscriptEntry{Type: m.Kind, Text: m.Text})
		}
	}
	return out
}

// EncodeTranscript serializes a filtered transcript as a JSON array of
// {type, text} objects.
func EncodeTranscript(entries []TranscriptEntry) (string, error) {
	b, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeTranscript parses the output of EncodeTranscript. Entries other than
// questions and answers are dropped.
func DecodeTranscript(s string) ([]TranscriptEntry, error) {
	var raw []TranscriptEntry
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, err
	}
	out := raw[:0]
	for _, e := range raw {
		if e.Type == KindQuestion || e.Type == KindAnswer {
			out = append(out, e)
		}
	}
	return out, nil
}
