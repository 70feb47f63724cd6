package advisor

type SkillsInput struct {
	AcademicRecords           string `json:"academicRecords"`
	ExtracurricularActivities string `json:"extracurricularActivities,omitempty"`
	ProjectDescriptions       string `json:"projectDescriptions,omitempty"`
}

type SkillsOutput struct {
	HardSkills []string `json:"hardSkills"`
	SoftSkills []string `json:"softSkills"`
}

type CareerInput struct {
	Skills    string `json:"skills"`
	Interests string `json:"interests"`
	Aptitude  string `json:"aptitude"`
}

type CareerOutput struct {
	CareerPaths []string `json:"careerPaths"`
	Summary     string   `json:"summary"`
}

type ResumeInput struct {
	ExperienceDescription string `json:"experienceDescription"`
	JobDescription        string `json:"jobDescription"`
}

type ResumeOutput struct {
	BulletPoints []string `json:"bulletPoints"`
}

type ForecastInput struct {
	Role           string `json:"role"`
	TimeframeYears int    `json:"timeframeYears"`
}

type ForecastOutput struct {
	Forecast string `json:"forecast"`
}

type LearningInput struct {
	TargetCareer  string `json:"targetCareer"`
	CurrentSkills string `json:"currentSkills"`
}

type SkillGap struct {
	Skill      string `json:"skill"`
	Importance string `json:"importance"`
}

type LearningResource struct {
	Title    string `json:"title"`
	Platform string `json:"platform"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	ForSkill string `json:"forSkill"`
}

type LearningOutput struct {
	SkillGaps         []SkillGap         `json:"skillGaps"`
	LearningResources []LearningResource `json:"learningResources"`
	Summary           string             `json:"summary"`
}

type JobsInput struct {
	Skills string `json:"skills"`
}

type Job struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	MatchingSkills []string `json:"matchingSkills"`
	URL            string   `json:"url"`
}

type JobsOutput struct {
	Jobs    []Job  `json:"jobs"`
	Summary string `json:"summary"`
}

type MarketInput struct {
	Role string `json:"role"`
}

type SalaryData struct {
	EntryLevel  float64 `json:"entryLevel"`
	MidLevel    float64 `json:"midLevel"`
	SeniorLevel float64 `json:"seniorLevel"`
	Currency    string  `json:"currency"`
}

type SkillDemand struct {
	Skill  string `json:"skill"`
	Demand string `json:"demand"`
}

type MarketOutput struct {
	AnalysisSummary string        `json:"analysisSummary"`
	SalaryData      SalaryData    `json:"salaryData"`
	TopCompanies    []string      `json:"topCompanies"`
	TopLocations    []string      `json:"topLocations"`
	RequiredSkills  []SkillDemand `json:"requiredSkills"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatInput struct {
	History []ChatMessage `json:"history"`
	Prompt  string        `json:"prompt"`
}

type ChatOutput struct {
	Response string `json:"response"`
}

type questionsOutput struct {
	Questions []string `json:"questions"`
}
