package services

import (
	"context"
	"fmt"
)

type fixtureService struct {
	profile SkillProfile
}

// NewFixtureService returns a CompletionClient that answers every prompt kind
// with a canned, deterministic reply. It is selected by MOCK_MODE.
func NewFixtureService(profile SkillProfile) CompletionClient {
	return &fixtureService{profile: profile}
}

// GenerateText implements CompletionClient.
func (f *fixtureService) GenerateText(ctx context.Context, prompt Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch prompt.Kind {
	case KindSummarize:
		return "Condensed resume: experienced professional with a record of delivering projects, leading small teams and using modern tools.", nil
	case KindExtractSkills:
		return "```json\n" + mustMarshal(map[string][]string{"skills": f.flatSkills()}) + "\n```", nil
	case KindCategorizeSkills:
		return "```json\n" + mustMarshal(fixtureSkills(f.profile)) + "\n```", nil
	case KindFeedback:
		return fixtureFeedback[f.profile.Name], nil
	case KindProjectIdeas:
		return fixtureProjectIdeas[f.profile.Name], nil
	case KindMatchAnalysis:
		return `{
  "matchScore": 72,
  "skillsScore": 78,
  "toolsScore": 64,
  "matchedSkills": ["SQL", "Project Management", "Communication"],
  "missingSkills": ["Tableau", "Stakeholder Reporting"],
  "suggestions": ["Quantify the impact of your last two roles.", "Add a short skills summary near the top."]
}`, nil
	case KindATSEvaluation:
		return "```json\n" + `{
  "atsScore": 78,
  "keywordScore": 70,
  "formattingScore": 85,
  "readabilityScore": 80,
  "overallAssessment": "The resume parses cleanly and covers most core keywords, but achievements are rarely quantified.",
  "summary": "Solid ATS compatibility with room to strengthen keyword density.",
  "strengths": ["Clear section headings", "Consistent date formatting"],
  "skillGaps": ["Cloud certifications", "Data visualization tools"],
  "formattingIssues": ["Skills listed in a two-column table"],
  "suggestedFixes": ["Move skills into a single-column list", "Add metrics to each bullet"],
  "redFlags": [],
  "missingKeywords": ["stakeholder management", "KPI"]
}` + "\n```", nil
	case KindResumeHTML:
		return "```html\n<section><h2>Resume</h2><p>Structured view of the uploaded resume.</p></section>\n```", nil
	case KindChat:
		return "Based on your resume, lead with your most recent achievements and add measurable results to each role. Happy to go section by section if that helps.", nil
	case KindCompareJD:
		return `{"matchedSkills": ["SQL", "Python"], "missingSkills": ["AWS"], "overallMatch": 67}`, nil
	default:
		return "", fmt.Errorf("no fixture for prompt kind %q", prompt.Kind)
	}
}

func (f *fixtureService) flatSkills() []string {
	var skills []string
	for _, category := range f.profile.Categories {
		skills = append(skills, fixtureSkills(f.profile)[category]...)
	}
	return skills
}

func fixtureSkills(profile SkillProfile) map[string][]string {
	if skills, ok := fixtureCategorized[profile.Name]; ok {
		return skills
	}
	return fixtureCategorized["tech"]
}

var fixtureCategorized = map[string]map[string][]string{
	"tech": {
		"Languages":   {"Go", "Python", "SQL"},
		"Frameworks":  {"React", "Fiber"},
		"Tools":       {"Docker", "Git"},
		"Cloud":       {"AWS"},
		"Design":      {"Figma"},
		"Soft Skills": {"Communication", "Mentoring"},
		"Other":       {},
	},
	"business": {
		"Finance & Accounting":       {"Financial Modeling", "Budgeting"},
		"Marketing & Sales":          {"SEO", "CRM Tools"},
		"Data Analysis":              {"Excel", "SQL", "Market Research"},
		"Operations & Strategy":      {"Project Management", "Logistics"},
		"Leadership & Communication": {"Public Speaking", "Team Leadership"},
		"Business Tools":             {"Salesforce", "Microsoft Office"},
		"Soft Skills":                {"Problem Solving", "Adaptability"},
	},
	"science": {
		"Scientific Research":     {"Microscopy", "Cell Culture", "Spectroscopy"},
		"Programming & Analysis":  {"Python", "MATLAB", "R"},
		"Lab Tools & Instruments": {"PCR", "Centrifuge", "Titration Equipment"},
		"Data Management":         {"Excel", "SPSS", "GraphPad Prism"},
		"Communication & Writing": {"Scientific Writing", "Grant Writing", "Public Speaking"},
		"Soft Skills":             {"Critical Thinking", "Attention to Detail"},
	},
}

var fixtureFeedback = map[string]string{
	"tech":     "Add infrastructure-as-code experience such as Terraform to round out your cloud skills.\n\nDescribe the scale of the systems you built, with request volumes or latency numbers.",
	"business": "Learn advanced Excel functions and Tableau.\n\nImprove leadership examples in your experience section.",
	"science":  "Consider improving your proficiency in R for data analysis and seek out publication experience.\n\nImprove your collaborative research examples and communication clarity in your experience section.",
}

var fixtureProjectIdeas = map[string]string{
	"tech":     "1. Build a rate-limited REST API in Go and deploy it with Docker on AWS.\n2. Create a React dashboard that visualizes data from a public API.",
	"business": "1. Create a budgeting app.\n2. Run a mock digital marketing campaign for a local business.",
	"science":  "1. Analyze gene expression data from a public dataset.\n2. Design an experiment to test a novel hypothesis using CRISPR tools.",
}
