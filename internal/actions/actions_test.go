package actions

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/maarg/internal/advisor"
	"github.com/muhammadolammi/maarg/internal/catalog"
	"github.com/muhammadolammi/maarg/internal/interview"
)

// fakeAdvisor returns canned results and counts calls.
type fakeAdvisor struct {
	err   error
	calls []string

	transcript []interview.TranscriptEntry
}

func (f *fakeAdvisor) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeAdvisor) ExtractSkills(context.Context, advisor.SkillsInput) (*advisor.SkillsOutput, error) {
	if err := f.record("skills"); err != nil {
		return nil, err
	}
	return &advisor.SkillsOutput{HardSkills: []string{"Go"}, SoftSkills: []string{"Teamwork"}}, nil
}

func (f *fakeAdvisor) RecommendCareerPaths(context.Context, advisor.CareerInput) (*advisor.CareerOutput, error) {
	if err := f.record("careers"); err != nil {
		return nil, err
	}
	return &advisor.CareerOutput{CareerPaths: []string{"Data Scientist"}, Summary: "ok"}, nil
}

func (f *fakeAdvisor) GenerateResumeBullets(context.Context, advisor.ResumeInput) (*advisor.ResumeOutput, error) {
	if err := f.record("resume"); err != nil {
		return nil, err
	}
	return &advisor.ResumeOutput{BulletPoints: []string{"Led a team"}}, nil
}

func (f *fakeAdvisor) ForecastDemand(context.Context, advisor.ForecastInput) (*advisor.ForecastOutput, error) {
	if err := f.record("forecast"); err != nil {
		return nil, err
	}
	return &advisor.ForecastOutput{Forecast: "growing"}, nil
}

func (f *fakeAdvisor) LearningPath(context.Context, advisor.LearningInput) (*advisor.LearningOutput, error) {
	if err := f.record("learning"); err != nil {
		return nil, err
	}
	return &advisor.LearningOutput{Summary: "plan"}, nil
}

func (f *fakeAdvisor) MatchJobs(context.Context, advisor.JobsInput) (*advisor.JobsOutput, error) {
	if err := f.record("jobs"); err != nil {
		return nil, err
	}
	return &advisor.JobsOutput{Summary: "jobs"}, nil
}

func (f *fakeAdvisor) MarketIntelligence(context.Context, advisor.MarketInput) (*advisor.MarketOutput, error) {
	if err := f.record("market"); err != nil {
		return nil, err
	}
	return &advisor.MarketOutput{AnalysisSummary: "hot"}, nil
}

func (f *fakeAdvisor) Chat(context.Context, advisor.ChatInput) (*advisor.ChatOutput, error) {
	if err := f.record("chat"); err != nil {
		return nil, err
	}
	return &advisor.ChatOutput{Response: "hello"}, nil
}

func (f *fakeAdvisor) GenerateQuestions(context.Context, string) ([]string, error) {
	if err := f.record("questions"); err != nil {
		return nil, err
	}
	return []string{"Q1", "Q2"}, nil
}

func (f *fakeAdvisor) GenerateFeedback(context.Context, string, string, string) (string, error) {
	if err := f.record("feedback"); err != nil {
		return "", err
	}
	return "good", nil
}

func (f *fakeAdvisor) GenerateReport(_ context.Context, _ string, transcript []interview.TranscriptEntry) (*interview.Report, error) {
	if err := f.record("report"); err != nil {
		return nil, err
	}
	f.transcript = transcript
	return &interview.Report{ConfidenceScore: 80, Summary: "solid"}, nil
}

func newActions(t *testing.T, limit int) (*Actions, *fakeAdvisor) {
	t.Helper()
	budget, err := NewBudget(limit)
	require.NoError(t, err)
	f := &fakeAdvisor{}
	return New(f, catalog.Default(), budget), f
}

func TestMapSkills(t *testing.T) {
	a, f := newActions(t, 0)
	ctx := context.Background()

	env := a.MapSkills(ctx, advisor.SkillsInput{AcademicRecords: "too short"})
	assert.False(t, env.OK())
	assert.Equal(t, MsgInvalidInput, env.Message)
	assert.Equal(t, []string{"Please provide more details about your academic records."}, env.Issues)
	assert.Equal(t, "too short", env.Fields["academicRecords"])
	assert.Empty(t, f.calls)

	env = a.MapSkills(ctx, advisor.SkillsInput{AcademicRecords: "BSc Computer Science with honours"})
	require.True(t, env.OK())
	assert.Equal(t, "Skills extracted successfully.", env.Message)
	assert.Equal(t, []string{"Go"}, env.Data.HardSkills)
	assert.Nil(t, env.Fields)
}

func TestValidationRules(t *testing.T) {
	a, f := newActions(t, 0)
	ctx := context.Background()

	tests := []struct {
		name   string
		run    func() (bool, []string)
		issues []string
	}{
		{
			name: "career paths",
			run: func() (bool, []string) {
				env := a.RecommendCareerPaths(ctx, advisor.CareerInput{Skills: "Go", Interests: "robots", Aptitude: "maths"})
				return env.OK(), env.Issues
			},
			issues: []string{"Please provide your skills.", "Please describe your interests.", "Please describe your aptitude."},
		},
		{
			name: "resume",
			run: func() (bool, []string) {
				env := a.GenerateResumePoints(ctx, advisor.ResumeInput{ExperienceDescription: "did things", JobDescription: "  "})
				return env.OK(), env.Issues
			},
			issues: []string{"Please provide more details about your experience.", "Please provide more details about the job description."},
		},
		{
			name: "forecast without role",
			run: func() (bool, []string) {
				env := a.ForecastDemand(ctx, advisor.ForecastInput{TimeframeYears: 11})
				return env.OK(), env.Issues
			},
			issues: []string{"Please select a role.", "Timeframe must be between 1 and 10 years."},
		},
		{
			name: "forecast unknown role",
			run: func() (bool, []string) {
				env := a.ForecastDemand(ctx, advisor.ForecastInput{Role: "Astronaut", TimeframeYears: 5})
				return env.OK(), env.Issues
			},
			issues: []string{"Please choose a role from the list."},
		},
		{
			name: "learning plan",
			run: func() (bool, []string) {
				env := a.LearningPlan(ctx, advisor.LearningInput{CurrentSkills: "Go"})
				return env.OK(), env.Issues
			},
			issues: []string{"Please select a career role.", "Please enter at least one skill."},
		},
		{
			name: "job matches",
			run: func() (bool, []string) {
				env := a.FindJobs(ctx, advisor.JobsInput{Skills: "C"})
				return env.OK(), env.Issues
			},
			issues: []string{"Please provide at least one skill."},
		},
		{
			name: "chat",
			run: func() (bool, []string) {
				env := a.Chat(ctx, advisor.ChatInput{Prompt: " "})
				return env.OK(), env.Issues
			},
			issues: []string{"Please enter a message."},
		},
		{
			name: "chat history role",
			run: func() (bool, []string) {
				env := a.Chat(ctx, advisor.ChatInput{Prompt: "hi", History: []advisor.ChatMessage{{Role: "system", Content: "x"}}})
				return env.OK(), env.Issues
			},
			issues: []string{"History roles must be user or model."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, issues := tt.run()
			assert.False(t, ok)
			assert.Equal(t, tt.issues, issues)
		})
	}
	assert.Empty(t, f.calls)
}

func TestSuccessMessages(t *testing.T) {
	a, _ := newActions(t, 0)
	ctx := context.Background()

	assert.Equal(t, "Career paths recommended.", a.RecommendCareerPaths(ctx, advisor.CareerInput{
		Skills: "Python", Interests: "data and statistics", Aptitude: "analytical thinking",
	}).Message)
	assert.Equal(t, "Bullet points generated.", a.GenerateResumePoints(ctx, advisor.ResumeInput{
		ExperienceDescription: "Built dashboards for the sales team",
		JobDescription:        "Analyst role focused on reporting",
	}).Message)
	assert.Equal(t, "Forecast generated.", a.ForecastDemand(ctx, advisor.ForecastInput{Role: "data scientist", TimeframeYears: 5}).Message)
	assert.Equal(t, "Learning path generated.", a.LearningPlan(ctx, advisor.LearningInput{TargetCareer: "Data Scientist", CurrentSkills: "SQL"}).Message)
	assert.Equal(t, "Job matches found.", a.FindJobs(ctx, advisor.JobsInput{Skills: "Go, SQL"}).Message)
	assert.Equal(t, "Market analysis generated.", a.AnalyzeMarket(ctx, advisor.MarketInput{Role: "Data Scientist"}).Message)
	chat := a.Chat(ctx, advisor.ChatInput{Prompt: "hi", History: []advisor.ChatMessage{{Role: "user", Content: "hello"}, {Role: "model", Content: "hey"}}})
	assert.Equal(t, "Success", chat.Message)
	assert.Equal(t, "hello", chat.Data.Response)
}

func TestModelFailureBecomesServerError(t *testing.T) {
	a, f := newActions(t, 0)
	f.err = errors.New("quota exceeded")

	env := a.AnalyzeMarket(context.Background(), advisor.MarketInput{Role: "Data Scientist"})
	assert.False(t, env.OK())
	assert.Equal(t, MsgServerError, env.Message)
	assert.Equal(t, []string{"quota exceeded"}, env.Issues)
}

func TestTokenBudget(t *testing.T) {
	a, f := newActions(t, 20)

	env := a.FindJobs(context.Background(), advisor.JobsInput{Skills: strings.Repeat("kubernetes terraform ", 50)})
	assert.False(t, env.OK())
	assert.Equal(t, []string{"Skills is too long (limit 20 tokens)."}, env.Issues)
	assert.Empty(t, f.calls)

	env = a.FindJobs(context.Background(), advisor.JobsInput{Skills: "Go, SQL"})
	assert.True(t, env.OK())
}

func TestBudgetNilAllowsEverything(t *testing.T) {
	var b *Budget
	assert.True(t, b.Allows(strings.Repeat("x", 10000)))
}

func TestInterviewPrepDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("questions", func(t *testing.T) {
		a, f := newActions(t, 0)
		env := a.InterviewPrep(ctx, InterviewPrepForm{Role: "Data Scientist"})
		require.True(t, env.OK())
		assert.Equal(t, []string{"Q1", "Q2"}, env.Data.Questions)
		assert.Equal(t, []string{"questions"}, f.calls)
	})

	t.Run("feedback", func(t *testing.T) {
		a, f := newActions(t, 0)
		env := a.InterviewPrep(ctx, InterviewPrepForm{Role: "Data Scientist", Question: "Q1", UserAnswer: "A1"})
		require.True(t, env.OK())
		assert.Equal(t, "good", env.Data.Feedback)
		assert.Equal(t, []string{"feedback"}, f.calls)
	})

	t.Run("report", func(t *testing.T) {
		a, f := newActions(t, 0)
		env := a.InterviewPrep(ctx, InterviewPrepForm{
			Role:         "Data Scientist",
			Conversation: `[{"type":"question","text":"Q1"},{"type":"feedback","text":"F1"},{"type":"answer","text":"A1"}]`,
		})
		require.True(t, env.OK())
		assert.Equal(t, "Success", env.Message)
		assert.Equal(t, 80.0, env.Data.Report.ConfidenceScore)
		assert.Equal(t, []interview.TranscriptEntry{
			{Type: interview.KindQuestion, Text: "Q1"},
			{Type: interview.KindAnswer, Text: "A1"},
		}, f.transcript)
	})

	t.Run("bad conversation", func(t *testing.T) {
		a, f := newActions(t, 0)
		env := a.InterviewPrep(ctx, InterviewPrepForm{Role: "Data Scientist", Conversation: "not json"})
		assert.Equal(t, MsgInvalidInput, env.Message)
		assert.Empty(t, f.calls)
	})

	t.Run("unknown role", func(t *testing.T) {
		a, _ := newActions(t, 0)
		env := a.InterviewPrep(ctx, InterviewPrepForm{Role: "Pilot"})
		assert.Equal(t, []string{"Please choose a role from the list."}, env.Issues)
	})
}
