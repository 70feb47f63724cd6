package actions

import (
	"context"
	"strconv"
	"strings"

	"github.com/muhammadolammi/maarg/internal/advisor"
	"github.com/muhammadolammi/maarg/internal/catalog"
	"github.com/muhammadolammi/maarg/internal/interview"
)

// Advisor is the model-backed feature set the actions dispatch to.
type Advisor interface {
	interview.Prompter
	ExtractSkills(ctx context.Context, in advisor.SkillsInput) (*advisor.SkillsOutput, error)
	RecommendCareerPaths(ctx context.Context, in advisor.CareerInput) (*advisor.CareerOutput, error)
	GenerateResumeBullets(ctx context.Context, in advisor.ResumeInput) (*advisor.ResumeOutput, error)
	ForecastDemand(ctx context.Context, in advisor.ForecastInput) (*advisor.ForecastOutput, error)
	LearningPath(ctx context.Context, in advisor.LearningInput) (*advisor.LearningOutput, error)
	MatchJobs(ctx context.Context, in advisor.JobsInput) (*advisor.JobsOutput, error)
	MarketIntelligence(ctx context.Context, in advisor.MarketInput) (*advisor.MarketOutput, error)
	Chat(ctx context.Context, in advisor.ChatInput) (*advisor.ChatOutput, error)
}

type Actions struct {
	advisor Advisor
	catalog *catalog.Catalog
	budget  *Budget
}

func New(a Advisor, cat *catalog.Catalog, budget *Budget) *Actions {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Actions{advisor: a, catalog: cat, budget: budget}
}

func run[In, Out any](ctx context.Context, in In, verr error, success string, call func(context.Context, In) (*Out, error)) Envelope[Out] {
	if verr != nil {
		return Failure[Out](verr)
	}
	out, err := call(ctx, in)
	if err != nil {
		return Failure[Out](err)
	}
	return Success(success, out)
}

func (a *Actions) MapSkills(ctx context.Context, in advisor.SkillsInput) Envelope[advisor.SkillsOutput] {
	c := newChecker(a.budget, map[string]string{
		"academicRecords":           in.AcademicRecords,
		"extracurricularActivities": in.ExtracurricularActivities,
		"projectDescriptions":       in.ProjectDescriptions,
	})
	c.minLen(in.AcademicRecords, 20, "Please provide more details about your academic records.")
	c.tokens("Academic records", in.AcademicRecords+in.ExtracurricularActivities+in.ProjectDescriptions)
	return run(ctx, in, c.err(), "Skills extracted successfully.", a.advisor.ExtractSkills)
}

func (a *Actions) RecommendCareerPaths(ctx context.Context, in advisor.CareerInput) Envelope[advisor.CareerOutput] {
	c := newChecker(a.budget, map[string]string{
		"skills":    in.Skills,
		"interests": in.Interests,
		"aptitude":  in.Aptitude,
	})
	c.minLen(in.Skills, 3, "Please provide your skills.")
	c.minLen(in.Interests, 10, "Please describe your interests.")
	c.minLen(in.Aptitude, 10, "Please describe your aptitude.")
	c.tokens("Your description", in.Skills+in.Interests+in.Aptitude)
	return run(ctx, in, c.err(), "Career paths recommended.", a.advisor.RecommendCareerPaths)
}

func (a *Actions) GenerateResumePoints(ctx context.Context, in advisor.ResumeInput) Envelope[advisor.ResumeOutput] {
	c := newChecker(a.budget, map[string]string{
		"experienceDescription": in.ExperienceDescription,
		"jobDescription":        in.JobDescription,
	})
	c.minLen(in.ExperienceDescription, 20, "Please provide more details about your experience.")
	c.minLen(in.JobDescription, 20, "Please provide more details about the job description.")
	c.tokens("Experience and job description", in.ExperienceDescription+in.JobDescription)
	return run(ctx, in, c.err(), "Bullet points generated.", a.advisor.GenerateResumeBullets)
}

func (a *Actions) ForecastDemand(ctx context.Context, in advisor.ForecastInput) Envelope[advisor.ForecastOutput] {
	c := newChecker(a.budget, map[string]string{
		"role":           in.Role,
		"timeframeYears": strconv.Itoa(in.TimeframeYears),
	})
	a.checkRole(c, in.Role, "Please select a role.")
	if in.TimeframeYears < 1 || in.TimeframeYears > 10 {
		c.fail("Timeframe must be between 1 and 10 years.")
	}
	return run(ctx, in, c.err(), "Forecast generated.", a.advisor.ForecastDemand)
}

func (a *Actions) LearningPlan(ctx context.Context, in advisor.LearningInput) Envelope[advisor.LearningOutput] {
	c := newChecker(a.budget, map[string]string{
		"targetCareer":  in.TargetCareer,
		"currentSkills": in.CurrentSkills,
	})
	a.checkRole(c, in.TargetCareer, "Please select a career role.")
	c.minLen(in.CurrentSkills, 3, "Please enter at least one skill.")
	c.tokens("Current skills", in.CurrentSkills)
	return run(ctx, in, c.err(), "Learning path generated.", a.advisor.LearningPath)
}

func (a *Actions) FindJobs(ctx context.Context, in advisor.JobsInput) Envelope[advisor.JobsOutput] {
	c := newChecker(a.budget, map[string]string{"skills": in.Skills})
	c.minLen(in.Skills, 3, "Please provide at least one skill.")
	c.tokens("Skills", in.Skills)
	return run(ctx, in, c.err(), "Job matches found.", a.advisor.MatchJobs)
}

func (a *Actions) AnalyzeMarket(ctx context.Context, in advisor.MarketInput) Envelope[advisor.MarketOutput] {
	c := newChecker(a.budget, map[string]string{"role": in.Role})
	a.checkRole(c, in.Role, "Please select a role.")
	return run(ctx, in, c.err(), "Market analysis generated.", a.advisor.MarketIntelligence)
}

func (a *Actions) Chat(ctx context.Context, in advisor.ChatInput) Envelope[advisor.ChatOutput] {
	c := newChecker(a.budget, map[string]string{"prompt": in.Prompt})
	c.minLen(in.Prompt, 1, "Please enter a message.")
	for _, m := range in.History {
		if m.Role != "user" && m.Role != "model" {
			c.fail("History roles must be user or model.")
			break
		}
	}
	var all strings.Builder
	for _, m := range in.History {
		all.WriteString(m.Content)
	}
	all.WriteString(in.Prompt)
	c.tokens("Conversation", all.String())
	return run(ctx, in, c.err(), "Success", a.advisor.Chat)
}

func (a *Actions) checkRole(c *checker, role, msg string) {
	if strings.TrimSpace(role) == "" {
		c.fail(msg)
		return
	}
	if !a.catalog.HasRole(role) {
		c.fail("Please choose a role from the list.")
	}
}
