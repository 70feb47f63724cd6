// Package advisor turns each career feature into a prompt for the model and
// checks the reply against a typed result.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/muhammadolammi/maarg/internal/catalog"
	"github.com/muhammadolammi/maarg/internal/interview"
	"github.com/muhammadolammi/maarg/internal/llm"
)

type Service struct {
	model         llm.Model
	catalog       *catalog.Catalog
	questionCount int
}

func New(model llm.Model, cat *catalog.Catalog, questionCount int) *Service {
	if cat == nil {
		cat = catalog.Default()
	}
	if questionCount <= 0 {
		questionCount = 5
	}
	return &Service{model: model, catalog: cat, questionCount: questionCount}
}

var _ interview.Prompter = (*Service)(nil)

type validator[T any] interface {
	*T
	validate() error
}

// generate runs one feature and decodes the reply into T.
func generate[T any, PT validator[T]](ctx context.Context, s *Service, feature, prompt string) (*T, error) {
	raw, err := s.model.Generate(ctx, llm.Request{
		Feature:     feature,
		Instruction: instructions[feature],
		Prompt:      prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", feature, err)
	}
	out, err := llm.DecodeJSON[T](raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", feature, err)
	}
	if err := PT(&out).validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOutput, feature, err)
	}
	return &out, nil
}

func (s *Service) generateText(ctx context.Context, feature, prompt string) (string, error) {
	raw, err := s.model.Generate(ctx, llm.Request{
		Feature:     feature,
		Instruction: instructions[feature],
		Prompt:      prompt,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", feature, err)
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", fmt.Errorf("%s: %w", feature, llm.ErrEmptyResponse)
	}
	return text, nil
}

func (s *Service) ExtractSkills(ctx context.Context, in SkillsInput) (*SkillsOutput, error) {
	return generate[SkillsOutput](ctx, s, FeatureSkills, skillsPrompt(in))
}

func (s *Service) RecommendCareerPaths(ctx context.Context, in CareerInput) (*CareerOutput, error) {
	return generate[CareerOutput](ctx, s, FeatureCareerPaths, careerPrompt(in))
}

func (s *Service) GenerateResumeBullets(ctx context.Context, in ResumeInput) (*ResumeOutput, error) {
	return generate[ResumeOutput](ctx, s, FeatureResumeBullets, resumePrompt(in))
}

func (s *Service) ForecastDemand(ctx context.Context, in ForecastInput) (*ForecastOutput, error) {
	return generate[ForecastOutput](ctx, s, FeatureDemandForecast, forecastPrompt(in))
}

func (s *Service) LearningPath(ctx context.Context, in LearningInput) (*LearningOutput, error) {
	var role *catalog.Role
	var curated []catalog.Resource
	if r, ok := s.catalog.Role(in.TargetCareer); ok {
		role = &r
		curated = s.catalog.ResourcesFor(append(append([]string{}, r.Skills.Essential...), r.Skills.GoodToHave...))
	}
	return generate[LearningOutput](ctx, s, FeatureLearningPlan, learningPrompt(in, role, curated))
}

func (s *Service) MatchJobs(ctx context.Context, in JobsInput) (*JobsOutput, error) {
	return generate[JobsOutput](ctx, s, FeatureJobMatches, jobsPrompt(in))
}

func (s *Service) MarketIntelligence(ctx context.Context, in MarketInput) (*MarketOutput, error) {
	return generate[MarketOutput](ctx, s, FeatureMarketIntelligence, marketPrompt(in))
}

func (s *Service) Chat(ctx context.Context, in ChatInput) (*ChatOutput, error) {
	text, err := s.generateText(ctx, FeatureChat, chatPrompt(in))
	if err != nil {
		return nil, err
	}
	return &ChatOutput{Response: text}, nil
}

// GenerateQuestions returns at most the configured number of questions.
func (s *Service) GenerateQuestions(ctx context.Context, role string) ([]string, error) {
	var seeds []string
	if r, ok := s.catalog.Role(role); ok {
		seeds = r.Questions
	}
	out, err := generate[questionsOutput](ctx, s, FeatureInterviewQuestions, questionsPrompt(role, s.questionCount, seeds))
	if err != nil {
		return nil, err
	}
	if len(out.Questions) > s.questionCount {
		out.Questions = out.Questions[:s.questionCount]
	}
	return out.Questions, nil
}

func (s *Service) GenerateFeedback(ctx context.Context, role, question, answer string) (string, error) {
	return s.generateText(ctx, FeatureInterviewFeedback, feedbackPrompt(role, question, answer))
}

func (s *Service) GenerateReport(ctx context.Context, role string, transcript []interview.TranscriptEntry) (*interview.Report, error) {
	encoded, err := interview.EncodeTranscript(transcript)
	if err != nil {
		return nil, fmt.Errorf("encode transcript: %w", err)
	}
	out, err := generate[reportOutput](ctx, s, FeatureInterviewReport, reportPrompt(role, encoded))
	if err != nil {
		return nil, err
	}
	return &out.Report, nil
}
