package advisor

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/muhammadolammi/maarg/internal/interview"
)

// ErrInvalidOutput marks a model reply that parsed but broke its contract.
var ErrInvalidOutput = errors.New("advisor: invalid model output")

var (
	gapImportance = map[string]bool{"essential": true, "good-to-have": true}
	resourceTypes = map[string]bool{"Course": true, "Book": true, "Project": true, "Article": true, "Video": true}
	demandLevels  = map[string]bool{"High": true, "Medium": true, "Low": true}
)

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func nonEmpty(items []string) []string {
	out := items[:0]
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (o *SkillsOutput) validate() error {
	o.HardSkills = nonEmpty(o.HardSkills)
	o.SoftSkills = nonEmpty(o.SoftSkills)
	if len(o.HardSkills)+len(o.SoftSkills) == 0 {
		return fmt.Errorf("no skills extracted")
	}
	return nil
}

func (o *CareerOutput) validate() error {
	o.CareerPaths = nonEmpty(o.CareerPaths)
	if len(o.CareerPaths) == 0 {
		return fmt.Errorf("no career paths")
	}
	if strings.TrimSpace(o.Summary) == "" {
		return fmt.Errorf("missing summary")
	}
	return nil
}

func (o *ResumeOutput) validate() error {
	o.BulletPoints = nonEmpty(o.BulletPoints)
	if len(o.BulletPoints) == 0 {
		return fmt.Errorf("no bullet points")
	}
	return nil
}

func (o *ForecastOutput) validate() error {
	if strings.TrimSpace(o.Forecast) == "" {
		return fmt.Errorf("empty forecast")
	}
	return nil
}

func (o *LearningOutput) validate() error {
	for _, g := range o.SkillGaps {
		if !gapImportance[g.Importance] {
			return fmt.Errorf("skill gap %q has importance %q", g.Skill, g.Importance)
		}
	}
	for _, r := range o.LearningResources {
		if !resourceTypes[r.Type] {
			return fmt.Errorf("resource %q has type %q", r.Title, r.Type)
		}
		if !validURL(r.URL) {
			return fmt.Errorf("resource %q has invalid url %q", r.Title, r.URL)
		}
	}
	if strings.TrimSpace(o.Summary) == "" {
		return fmt.Errorf("missing summary")
	}
	return nil
}

func (o *JobsOutput) validate() error {
	if len(o.Jobs) == 0 {
		return fmt.Errorf("no jobs")
	}
	for _, j := range o.Jobs {
		if strings.TrimSpace(j.Title) == "" || strings.TrimSpace(j.Company) == "" {
			return fmt.Errorf("job without title or company")
		}
		if !validURL(j.URL) {
			return fmt.Errorf("job %q has invalid url %q", j.Title, j.URL)
		}
	}
	return nil
}

func (o *MarketOutput) validate() error {
	if strings.TrimSpace(o.AnalysisSummary) == "" {
		return fmt.Errorf("missing analysis summary")
	}
	s := o.SalaryData
	if s.EntryLevel < 0 || s.MidLevel < 0 || s.SeniorLevel < 0 {
		return fmt.Errorf("negative salary")
	}
	if strings.TrimSpace(s.Currency) == "" {
		return fmt.Errorf("missing currency")
	}
	for _, d := range o.RequiredSkills {
		if !demandLevels[d.Demand] {
			return fmt.Errorf("skill %q has demand %q", d.Skill, d.Demand)
		}
	}
	return nil
}

func (o *questionsOutput) validate() error {
	o.Questions = nonEmpty(o.Questions)
	if len(o.Questions) == 0 {
		return fmt.Errorf("no questions")
	}
	return nil
}

type reportOutput struct {
	interview.Report
}

func (o *reportOutput) validate() error {
	if o.ConfidenceScore < 0 || o.ConfidenceScore > 100 {
		return fmt.Errorf("confidence score %v outside 0..100", o.ConfidenceScore)
	}
	if strings.TrimSpace(o.Summary) == "" {
		return fmt.Errorf("missing summary")
	}
	o.Strengths = nonEmpty(o.Strengths)
	o.AreasForImprovement = nonEmpty(o.AreasForImprovement)
	return nil
}
