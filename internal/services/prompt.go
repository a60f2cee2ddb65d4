package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"parsepro/resume-analyzer/internal/models"
)

type PromptKind string

const (
	KindSummarize        PromptKind = "summarize"
	KindExtractSkills    PromptKind = "extract_skills"
	KindCategorizeSkills PromptKind = "categorize_skills"
	KindFeedback         PromptKind = "feedback"
	KindProjectIdeas     PromptKind = "project_ideas"
	KindMatchAnalysis    PromptKind = "match_analysis"
	KindATSEvaluation    PromptKind = "ats_evaluation"
	KindResumeHTML       PromptKind = "resume_html"
	KindChat             PromptKind = "chat"
	KindCompareJD        PromptKind = "compare_jd"
)

// Prompt carries its kind so fixtures and metrics can tell calls apart.
type Prompt struct {
	Kind PromptKind
	Text string
}

const TruncationMarker = "\n...[truncated]"

type PromptBuilder struct {
	profile       SkillProfile
	maxInputChars int
}

func NewPromptBuilder(profile SkillProfile, maxInputChars int) *PromptBuilder {
	return &PromptBuilder{
		profile:       profile,
		maxInputChars: maxInputChars,
	}
}

// Truncate cuts text to the configured ceiling, marker included.
func (pb *PromptBuilder) Truncate(text string) string {
	return TruncateText(text, pb.maxInputChars)
}

// TruncateText keeps the result within limit runes, ending in TruncationMarker
// when anything was cut.
func TruncateText(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	markerLen := utf8.RuneCountInString(TruncationMarker)
	keep := limit - markerLen
	if keep < 0 {
		keep = 0
	}
	runes := []rune(text)
	return string(runes[:keep]) + TruncationMarker
}

// BuildSummaryPrompt condenses one part of an overlong resume.
func (pb *PromptBuilder) BuildSummaryPrompt(chunk string, part, total int) Prompt {
	return Prompt{Kind: KindSummarize, Text: fmt.Sprintf(`You are condensing part %d of %d of a long resume so it can be analyzed later.

RESUME PART:
%s

Rewrite this part as compact plain text. Keep every job title, employer, date range, degree, certification, tool, technology and measurable achievement. Drop filler words and repeated phrasing.

Return ONLY the condensed text, no JSON and no commentary.`,
		part, total, chunk)}
}

func (pb *PromptBuilder) BuildSkillExtractionPrompt(resumeText string) Prompt {
	return Prompt{Kind: KindExtractSkills, Text: fmt.Sprintf(`You are an expert resume parser. Extract every professional skill mentioned in the resume below: programming languages, frameworks, tools, platforms, methodologies, domain skills and soft skills.

RESUME:
%s

Return your response in the following JSON format:
{
  "skills": ["Python", "Docker", "Team Leadership"]
}

Use the wording found in the resume. Do not invent skills. Return only valid JSON.`,
		pb.Truncate(resumeText))}
}

func (pb *PromptBuilder) BuildCategorizationPrompt(skills []string) Prompt {
	example := make(map[string][]string, len(pb.profile.Categories))
	for _, category := range pb.profile.Categories {
		example[category] = []string{}
	}

	return Prompt{Kind: KindCategorizeSkills, Text: fmt.Sprintf(`You are a career coach organizing a candidate's skills.

SKILLS:
%s

Sort every skill into exactly one of these categories: %s.
Every category must appear in the output, use an empty array when no skill fits.

Return your response in the following JSON format:
%s

Return only valid JSON.`,
		strings.Join(skills, ", "), strings.Join(pb.profile.Categories, ", "), mustMarshal(example))}
}

func (pb *PromptBuilder) BuildFeedbackPrompt(req models.AnalysisRequest, skills models.CategorizedSkills) Prompt {
	var target strings.Builder
	if req.TargetRole != "" {
		fmt.Fprintf(&target, "\nTARGET ROLE:\n%s\n", req.TargetRole)
	}
	if req.JobDescription != "" {
		fmt.Fprintf(&target, "\nJOB DESCRIPTION:\n%s\n", pb.Truncate(req.JobDescription))
	}

	return Prompt{Kind: KindFeedback, Text: fmt.Sprintf(`You are an experienced hiring manager reviewing a resume.

RESUME:
%s

CATEGORIZED SKILLS:
%s
%s
Write 2-4 short paragraphs of actionable feedback: which skills to strengthen or learn next, and how to present experience more convincingly. Separate paragraphs with a blank line.

Return ONLY the feedback text, no JSON format needed.`,
		pb.Truncate(req.ResumeText), mustMarshal(skills), target.String())}
}

func (pb *PromptBuilder) BuildProjectIdeasPrompt(req models.AnalysisRequest, skills models.CategorizedSkills) Prompt {
	role := req.TargetRole
	if role == "" {
		role = "the candidate's next role"
	}

	return Prompt{Kind: KindProjectIdeas, Text: fmt.Sprintf(`You are a mentor suggesting portfolio projects.

CANDIDATE SKILLS:
%s

Suggest 3 to 5 concrete projects that would build on these skills and strengthen a resume for %s.

Return a numbered list, one project per line, for example:
1. Build a budgeting app with ...
2. Run a mock marketing campaign for ...

Return ONLY the list.`,
		mustMarshal(skills), role)}
}

func (pb *PromptBuilder) BuildMatchPrompt(req models.AnalysisRequest) Prompt {
	jd := req.JobDescription
	if jd == "" {
		jd = "No job description provided. Evaluate against a typical posting for the candidate's most recent role."
	}

	return Prompt{Kind: KindMatchAnalysis, Text: fmt.Sprintf(`You are an expert recruiter comparing a resume to a job description.

JOB DESCRIPTION:
%s

RESUME:
%s

Score the match from 0 to 100 overall, for skills and for tools.

Return your response in the following JSON format:
{
  "matchScore": <0-100>,
  "skillsScore": <0-100>,
  "toolsScore": <0-100>,
  "matchedSkills": ["skill present in both"],
  "missingSkills": ["skill required but absent"],
  "suggestions": ["short actionable suggestion"]
}

Return only valid JSON.`,
		pb.Truncate(jd), pb.Truncate(req.ResumeText))}
}

func (pb *PromptBuilder) BuildATSPrompt(resumeText string) Prompt {
	return Prompt{Kind: KindATSEvaluation, Text: fmt.Sprintf(`You are an Applicant Tracking System evaluating a resume the way automated screening software would.

RESUME:
%s

Evaluate keyword coverage, formatting and readability for ATS parsing.

Return your response in the following JSON format:
{
  "atsScore": <0-100>,
  "keywordScore": <0-100>,
  "formattingScore": <0-100>,
  "readabilityScore": <0-100>,
  "overallAssessment": "<2-3 sentences>",
  "summary": "<one sentence>",
  "strengths": ["..."],
  "skillGaps": ["..."],
  "formattingIssues": ["..."],
  "suggestedFixes": ["..."],
  "redFlags": ["..."],
  "missingKeywords": ["..."]
}

Keep list items short. Return only valid JSON.`,
		pb.Truncate(resumeText))}
}

func (pb *PromptBuilder) BuildResumeHTMLPrompt(resumeText string) Prompt {
	return Prompt{Kind: KindResumeHTML, Text: fmt.Sprintf(`Convert the plain-text resume below into clean semantic HTML.

RESUME:
%s

Rules:
- Use <section>, <h2>, <h3>, <p>, <ul> and <li> only.
- Keep the original wording and order; do not add or remove content.
- No <html>, <head>, <body>, <style> or <script> tags.

Return ONLY the HTML fragment.`,
		pb.Truncate(resumeText))}
}

// BuildChatPrompt renders the system turn, the prior conversation and the new
// message as one transcript.
func (pb *PromptBuilder) BuildChatPrompt(resumeText string, history []models.ChatTurn, message string) Prompt {
	var transcript strings.Builder
	for _, turn := range history {
		switch turn.Role {
		case models.RoleUser:
			fmt.Fprintf(&transcript, "User: %s\n", turn.Content)
		case models.RoleAssistant:
			fmt.Fprintf(&transcript, "Assistant: %s\n", turn.Content)
		}
	}
	fmt.Fprintf(&transcript, "User: %s\nAssistant:", message)

	return Prompt{Kind: KindChat, Text: fmt.Sprintf(`%s

CONVERSATION:
%s`,
		ChatSystemPrompt(pb.Truncate(resumeText)), transcript.String())}
}

// ChatSystemPrompt is the system turn that opens every chat.
func ChatSystemPrompt(resumeText string) string {
	return fmt.Sprintf(`You are a friendly career advisor. Answer questions about the candidate's resume below, suggest improvements when asked, and keep answers under 200 words. If a question is unrelated to careers or the resume, politely steer back.

RESUME:
%s`, resumeText)
}

func (pb *PromptBuilder) BuildCompareJDPrompt(resumeText, jobDescription string) Prompt {
	return Prompt{Kind: KindCompareJD, Text: fmt.Sprintf(`You are a recruiter checking which requirements of a job description a resume satisfies.

JOB DESCRIPTION:
%s

RESUME:
%s

Return your response in the following JSON format:
{
  "matchedSkills": ["..."],
  "missingSkills": ["..."],
  "overallMatch": <0-100>
}

Return only valid JSON.`,
		pb.Truncate(jobDescription), pb.Truncate(resumeText))}
}

// mustMarshal is a tiny helper for embedding example payloads in prompts.
func mustMarshal(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
