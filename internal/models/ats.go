package models

type ATSEvaluation struct {
	ATSScore          int      `json:"atsScore"`
	KeywordScore      int      `json:"keywordScore"`
	FormattingScore   int      `json:"formattingScore"`
	ReadabilityScore  int      `json:"readabilityScore"`
	OverallAssessment string   `json:"overallAssessment"`
	Summary           string   `json:"summary"`
	Strengths         []string `json:"strengths"`
	SkillGaps         []string `json:"skillGaps"`
	FormattingIssues  []string `json:"formattingIssues"`
	SuggestedFixes    []string `json:"suggestedFixes"`
	RedFlags          []string `json:"redFlags"`
	MissingKeywords   []string `json:"missingKeywords"`
}

type ATSScanResult struct {
	ATSEvaluation      ATSEvaluation `json:"atsEvaluation"`
	OriginalResumeHTML string        `json:"originalResumeHTML"`
	PlainTextResume    string        `json:"plainTextResume"`
}

// ATSSummary is the contact/history view returned by the resume parser.
type ATSSummary struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Experience []ExperienceRow `json:"experience"`
	Education  []EducationRow  `json:"education"`
}

type ExperienceRow struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Dates    string `json:"dates"`
	Location string `json:"location,omitempty"`
}

type EducationRow struct {
	Degree       string `json:"degree"`
	Organization string `json:"organization"`
	Dates        string `json:"dates,omitempty"`
}
