package models

// AnalysisRequest is built once per HTTP call and never mutated.
type AnalysisRequest struct {
	ResumeText     string
	JobDescription string
	TargetRole     string
}

// CategorizedSkills maps every category of the active skill profile to its
// skills. Values are never nil.
type CategorizedSkills map[string][]string

// SkillStrength maps the same categories to a bounded score.
type SkillStrength map[string]int

type KeywordAnalysis struct {
	WordCount     int            `json:"wordCount"`
	KeywordCounts map[string]int `json:"keywordCounts"`
}

type JobMatch struct {
	MatchPercent     int      `json:"matchPercent"`
	MatchingKeywords []string `json:"matchingKeywords"`
	MissingKeywords  []string `json:"missingKeywords"`
}

// ResumeInsights is the insights shape of POST /analyze-resume.
type ResumeInsights struct {
	Message           string            `json:"message"`
	CategorizedSkills CategorizedSkills `json:"categorizedSkills"`
	Feedback          string            `json:"feedback"`
	FeedbackItems     []string          `json:"feedbackItems"`
	ProjectIdeas      string            `json:"projectIdeas"`
	ProjectIdeaList   []string          `json:"projectIdeaList"`
	SkillStrength     SkillStrength     `json:"skillStrength"`
	ATSSummary        *ATSSummary       `json:"atsSummary,omitempty"`
}

// ResumeMatch is the match shape of POST /analyze-resume.
type ResumeMatch struct {
	MatchScore    int      `json:"matchScore"`
	SkillsScore   int      `json:"skillsScore"`
	ToolsScore    int      `json:"toolsScore"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	Suggestions   []string `json:"suggestions"`
}

type JDComparison struct {
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	OverallMatch  int      `json:"overallMatch"`
}
