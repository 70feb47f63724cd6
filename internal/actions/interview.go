package actions

import (
	"context"
	"strings"

	"github.com/muhammadolammi/maarg/internal/interview"
)

// InterviewPrepForm is the stateless interview submission. Which fields are
// present selects the operation: a conversation asks for the report, a
// question with an answer asks for feedback, a role alone asks for questions.
type InterviewPrepForm struct {
	Role         string `json:"role" form:"role"`
	Question     string `json:"question,omitempty" form:"question"`
	UserAnswer   string `json:"userAnswer,omitempty" form:"userAnswer"`
	Conversation string `json:"conversation,omitempty" form:"conversation"`
}

type InterviewPrepOutput struct {
	Questions []string          `json:"questions,omitempty"`
	Feedback  string            `json:"feedback,omitempty"`
	Report    *interview.Report `json:"report,omitempty"`
}

func (a *Actions) InterviewPrep(ctx context.Context, in InterviewPrepForm) Envelope[InterviewPrepOutput] {
	c := newChecker(a.budget, map[string]string{
		"role":         in.Role,
		"question":     in.Question,
		"userAnswer":   in.UserAnswer,
		"conversation": in.Conversation,
	})
	a.checkRole(c, in.Role, "Please select a role.")
	c.tokens("Interview input", in.Question+in.UserAnswer+in.Conversation)

	var transcript []interview.TranscriptEntry
	if strings.TrimSpace(in.Conversation) != "" {
		var err error
		if transcript, err = interview.DecodeTranscript(in.Conversation); err != nil {
			c.fail("Conversation must be a JSON list of questions and answers.")
		}
	}
	if err := c.err(); err != nil {
		return Failure[InterviewPrepOutput](err)
	}

	var out InterviewPrepOutput
	var err error
	switch {
	case transcript != nil:
		out.Report, err = a.advisor.GenerateReport(ctx, in.Role, transcript)
	case strings.TrimSpace(in.Question) != "" && strings.TrimSpace(in.UserAnswer) != "":
		out.Feedback, err = a.advisor.GenerateFeedback(ctx, in.Role, in.Question, in.UserAnswer)
	default:
		out.Questions, err = a.advisor.GenerateQuestions(ctx, in.Role)
	}
	if err != nil {
		return Failure[InterviewPrepOutput](err)
	}
	return Success("Success", &out)
}
