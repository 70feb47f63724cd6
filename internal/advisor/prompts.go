package advisor

import (
	"fmt"
	"strings"

	"github.com/muhammadolammi/maarg/internal/catalog"
)

const (
	FeatureSkills             = "skills"
	FeatureCareerPaths        = "career-paths"
	FeatureResumeBullets      = "resume-bullets"
	FeatureDemandForecast     = "demand-forecast"
	FeatureLearningPlan       = "learning-plan"
	FeatureJobMatches         = "job-matches"
	FeatureMarketIntelligence = "market-intelligence"
	FeatureChat               = "chat"
	FeatureInterviewQuestions = "interview-questions"
	FeatureInterviewFeedback  = "interview-feedback"
	FeatureInterviewReport    = "interview-report"
)

const jsonOnly = `
Return only valid JSON. Do not include explanations, markdown, or text before or after the JSON.
Your response must be a single JSON object.`

var instructions = map[string]string{
	FeatureSkills: `You are an assistant that identifies the hard and soft skills a student or graduate has demonstrated.
Base every skill on the provided academic records, activities and projects. Do not invent experience.` + jsonOnly,

	FeatureCareerPaths: `You are a career counselor. Recommend 3 to 5 personalized career paths that fit the user's skills, interests and aptitude,
taking current industry trends and hiring demand into account. Explain briefly why each path fits.` + jsonOnly,

	FeatureResumeBullets: `You are a professional resume writer. Turn a work experience description into 3 to 5 resume bullet points
tailored to the target job description. Lead with strong verbs and quantify achievements where the text allows it.` + jsonOnly,

	FeatureDemandForecast: `You are a career advisor who forecasts which skills will be in demand for a role over a given number of years.
Cover specific technologies, methodologies and soft skills. Write the forecast as readable prose with short sections.` + jsonOnly,

	FeatureLearningPlan: `You are a career coach and learning advisor. Compare the user's current skills against the essential and good-to-have
skills of their target career, list the gaps, and recommend 1 or 2 high quality learning resources per gap with a working URL.
Resource type must be one of Course, Book, Project, Article, Video. Gap importance must be essential or good-to-have.` + jsonOnly,

	FeatureJobMatches: `You are a recruiter. Suggest 5 to 7 realistic but fictional job postings from well known tech companies or startups
that fit the user's skills. For each job name the matching skills taken from the user's list and give an application URL.` + jsonOnly,

	FeatureMarketIntelligence: `You are a market intelligence analyst for the tech industry. Produce realistic, data driven estimates for a job role:
market outlook, salary ranges in USD, the 5 top hiring companies, the 5 top cities, and 10 key skills rated High, Medium or Low demand.` + jsonOnly,

	FeatureChat: `You are Maarg, a friendly AI career coach. Give concise, supportive and actionable advice about career paths,
resumes, interviews and skill development, and point users to the app's features when useful.
Keep replies short. Use markdown when it helps readability.`,

	FeatureInterviewQuestions: `You are an expert career coach preparing a candidate for a job interview.
Write a mix of common behavioral and technical interview questions for the given role.` + jsonOnly,

	FeatureInterviewFeedback: `You are an expert interview coach. Give constructive, concise feedback on a single practice answer.
Comment on structure (for example the STAR method), clarity and relevance, and suggest specific improvements.
Format the feedback in markdown. Reply with the feedback only.`,

	FeatureInterviewReport: `You are an expert interview coach reviewing a full mock interview transcript.
Score confidence from 0 to 100 where 50 is average and 90 or more is exceptional. Analyse fluency and filler words,
name 2 or 3 strengths and 2 or 3 areas for improvement with examples from the transcript, assess technical proficiency
(say so if no technical questions were asked), behavioral competency and use of the STAR method,
and end with an encouraging summary and a clear next step.` + jsonOnly,
}

func skillsPrompt(in SkillsInput) string {
	var sb strings.Builder
	sb.WriteString("Academic records:\n")
	sb.WriteString(in.AcademicRecords)
	if in.ExtracurricularActivities != "" {
		sb.WriteString("\n\nExtracurricular activities:\n")
		sb.WriteString(in.ExtracurricularActivities)
	}
	if in.ProjectDescriptions != "" {
		sb.WriteString("\n\nProject descriptions:\n")
		sb.WriteString(in.ProjectDescriptions)
	}
	sb.WriteString("\n\nRespond in this format:\n")
	sb.WriteString(`{"hardSkills": [string], "softSkills": [string]}`)
	return sb.String()
}

func careerPrompt(in CareerInput) string {
	return fmt.Sprintf("Skills: %s\nInterests: %s\nAptitude: %s\n\nRespond in this format:\n%s",
		in.Skills, in.Interests, in.Aptitude,
		`{"careerPaths": [string], "summary": string}`)
}

func resumePrompt(in ResumeInput) string {
	return fmt.Sprintf("Work experience description:\n%s\n\nJob description:\n%s\n\nRespond in this format:\n%s",
		in.ExperienceDescription, in.JobDescription,
		`{"bulletPoints": [string]}`)
}

func forecastPrompt(in ForecastInput) string {
	return fmt.Sprintf("Role: %s\nTimeframe: %d years\n\nRespond in this format:\n%s",
		in.Role, in.TimeframeYears, `{"forecast": string}`)
}

func learningPrompt(in LearningInput, role *catalog.Role, curated []catalog.Resource) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Target career: %s\nCurrent skills: %s\n", in.TargetCareer, in.CurrentSkills)
	if role != nil {
		fmt.Fprintf(&sb, "Essential skills for the role: %s\n", strings.Join(role.Skills.Essential, ", "))
		fmt.Fprintf(&sb, "Good-to-have skills for the role: %s\n", strings.Join(role.Skills.GoodToHave, ", "))
	}
	if len(curated) > 0 {
		sb.WriteString("Resources we already recommend, prefer them when they fit:\n")
		for _, r := range curated {
			fmt.Fprintf(&sb, "- %s (%s, %s) for %s\n", r.Title, r.Platform, r.Type, r.Skill)
		}
	}
	sb.WriteString("\nRespond in this format:\n")
	sb.WriteString(`{"skillGaps": [{"skill": string, "importance": "essential" | "good-to-have"}], ` +
		`"learningResources": [{"title": string, "platform": string, "type": "Course" | "Book" | "Project" | "Article" | "Video", "url": string, "forSkill": string}], ` +
		`"summary": string}`)
	return sb.String()
}

func jobsPrompt(in JobsInput) string {
	return fmt.Sprintf("User skills: %s\n\nRespond in this format:\n%s", in.Skills,
		`{"jobs": [{"title": string, "company": string, "description": string, "location": string, "matchingSkills": [string], "url": string}], "summary": string}`)
}

func marketPrompt(in MarketInput) string {
	return fmt.Sprintf("Role: %s\n\nRespond in this format:\n%s", in.Role,
		`{"analysisSummary": string, "salaryData": {"entryLevel": number, "midLevel": number, "seniorLevel": number, "currency": string}, `+
			`"topCompanies": [string], "topLocations": [string], "requiredSkills": [{"skill": string, "demand": "High" | "Medium" | "Low"}]}`)
}

func chatPrompt(in ChatInput) string {
	var sb strings.Builder
	if len(in.History) > 0 {
		sb.WriteString("Conversation so far:\n")
		for _, m := range in.History {
			speaker := "User"
			if m.Role == "model" {
				speaker = "Maarg"
			}
			fmt.Fprintf(&sb, "%s: %s\n", speaker, m.Content)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "User: %s\nMaarg:", in.Prompt)
	return sb.String()
}

func questionsPrompt(role string, count int, seeds []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write %d interview questions for a %s position.\n", count, role)
	if len(seeds) > 0 {
		sb.WriteString("Questions commonly asked for this role, for reference:\n")
		for _, q := range seeds {
			fmt.Fprintf(&sb, "- %s\n", q)
		}
	}
	sb.WriteString("\nRespond in this format:\n")
	sb.WriteString(`{"questions": [string]}`)
	return sb.String()
}

func feedbackPrompt(role, question, answer string) string {
	return fmt.Sprintf("The candidate is practicing for a %s interview.\n\nQuestion: %q\nCandidate's answer: %q", role, question, answer)
}

func reportPrompt(role, transcript string) string {
	return fmt.Sprintf("Role: %s\nThe transcript is a JSON array of objects with \"type\" and \"text\".\n\nTranscript:\n%s\n\nRespond in this format:\n%s",
		role, transcript,
		`{"confidenceScore": number, "fluencyAnalysis": string, "strengths": [string], "areasForImprovement": [string], `+
			`"summary": string, "technicalProficiency": string, "behavioralCompetency": string, "starMethodAdherence": string}`)
}
