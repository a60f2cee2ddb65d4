package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"parsepro/resume-analyzer/internal/models"
)

type AnalyzerService interface {
	ResumeInsights(ctx context.Context, req models.AnalysisRequest, file *UploadedFile) (*models.ResumeInsights, error)
	ResumeMatch(ctx context.Context, req models.AnalysisRequest) (*models.ResumeMatch, error)
	ATSScan(ctx context.Context, resumeText string) (*models.ATSScanResult, error)
	Chat(ctx context.Context, resumeText string, history []models.ChatTurn, message string) (*models.ChatResponse, error)
	CompareJD(ctx context.Context, resumeText, jobDescription string) (*models.JDComparison, error)
}

// kindParseResume labels resume parser calls in metrics and errors.
const kindParseResume PromptKind = "parse_resume"

type AnalyzerOptions struct {
	Timeout             time.Duration
	MaxInputChars       int
	SummarizeAboveChars int
	ChunkSize           int
	Profile             SkillProfile
}

type analyzerService struct {
	caller         *completionCaller
	parser         ResumeParser
	promptBuilder  *PromptBuilder
	chunker        TextChunker
	profile        SkillProfile
	skillsSchema   *Schema
	summarizeAbove int
	chunkSize      int
	metrics        *Metrics
}

// NewAnalyzerService wires the prompt, completion and normalization steps.
// parser may be nil, in which case no ATS summary is produced.
func NewAnalyzerService(client CompletionClient, parser ResumeParser, metrics *Metrics, opts AnalyzerOptions) AnalyzerService {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = opts.MaxInputChars / 2
	}

	return &analyzerService{
		caller:         newCompletionCaller(client, opts.Timeout, metrics),
		parser:         parser,
		promptBuilder:  NewPromptBuilder(opts.Profile, opts.MaxInputChars),
		chunker:        NewTextChunker(),
		profile:        opts.Profile,
		skillsSchema:   CategorizedSkillsSchema(opts.Profile),
		summarizeAbove: opts.SummarizeAboveChars,
		chunkSize:      opts.ChunkSize,
		metrics:        metrics,
	}
}

type insightsState struct {
	req         models.AnalysisRequest
	file        *UploadedFile
	skills      []string
	categorized models.CategorizedSkills
	feedback    string
	ideas       string
	atsSummary  *models.ATSSummary
}

// ResumeInsights runs skill extraction, categorization, feedback and project
// ideas in that order, each feeding the next.
func (a *analyzerService) ResumeInsights(ctx context.Context, req models.AnalysisRequest, file *UploadedFile) (result *models.ResumeInsights, err error) {
	defer func() { a.metrics.ObservePipeline("resume_insights", err) }()

	if strings.TrimSpace(req.ResumeText) == "" {
		return nil, fmt.Errorf("%w: resume text is empty", ErrMissingInput)
	}

	state := &insightsState{req: req, file: file}
	steps := []Step[insightsState]{
		{Name: "condense", Run: func(ctx context.Context, s *insightsState) error {
			text, err := a.condense(ctx, s.req.ResumeText)
			s.req.ResumeText = text
			return err
		}},
		{Name: "extract_skills", Run: func(ctx context.Context, s *insightsState) error {
			var out struct {
				Skills []string `json:"skills"`
			}
			if err := a.completeJSON(ctx, a.promptBuilder.BuildSkillExtractionPrompt(s.req.ResumeText), SkillsSchema, &out); err != nil {
				return err
			}
			s.skills = out.Skills
			return nil
		}},
		{Name: "categorize_skills", Run: func(ctx context.Context, s *insightsState) error {
			s.categorized = a.emptyCategories()
			if len(s.skills) == 0 {
				return nil
			}
			var out map[string][]string
			if err := a.completeJSON(ctx, a.promptBuilder.BuildCategorizationPrompt(s.skills), a.skillsSchema, &out); err != nil {
				return err
			}
			for category, skills := range out {
				if skills != nil {
					s.categorized[category] = skills
				}
			}
			return nil
		}},
		{Name: "feedback", Run: func(ctx context.Context, s *insightsState) error {
			text, err := a.completeText(ctx, a.promptBuilder.BuildFeedbackPrompt(s.req, s.categorized))
			s.feedback = text
			return err
		}},
		{Name: "project_ideas", Run: func(ctx context.Context, s *insightsState) error {
			text, err := a.completeText(ctx, a.promptBuilder.BuildProjectIdeasPrompt(s.req, s.categorized))
			s.ideas = text
			return err
		}},
	}

	if a.parser != nil && file != nil {
		steps = append(steps, Step[insightsState]{Name: "parse_resume", Run: func(ctx context.Context, s *insightsState) error {
			return a.caller.do(ctx, kindParseResume, func(ctx context.Context) error {
				summary, err := a.parser.Parse(ctx, s.file)
				if err != nil {
					return err
				}
				s.atsSummary = summary
				return nil
			})
		}})
	}

	if err := RunSteps(ctx, "resume_insights", state, steps...); err != nil {
		return nil, err
	}

	return &models.ResumeInsights{
		Message:           "Resume analyzed successfully",
		CategorizedSkills: state.categorized,
		Feedback:          state.feedback,
		FeedbackItems:     SplitParagraphs(state.feedback),
		ProjectIdeas:      state.ideas,
		ProjectIdeaList:   SplitProjectIdeas(state.ideas),
		SkillStrength:     ComputeSkillStrength(a.profile, state.categorized),
		ATSSummary:        state.atsSummary,
	}, nil
}

type matchState struct {
	req    models.AnalysisRequest
	result models.ResumeMatch
}

func (a *analyzerService) ResumeMatch(ctx context.Context, req models.AnalysisRequest) (result *models.ResumeMatch, err error) {
	defer func() { a.metrics.ObservePipeline("resume_match", err) }()

	if strings.TrimSpace(req.ResumeText) == "" {
		return nil, fmt.Errorf("%w: resume text is empty", ErrMissingInput)
	}

	state := &matchState{req: req}
	err = RunSteps(ctx, "resume_match", state,
		Step[matchState]{Name: "condense", Run: func(ctx context.Context, s *matchState) error {
			text, err := a.condense(ctx, s.req.ResumeText)
			s.req.ResumeText = text
			return err
		}},
		Step[matchState]{Name: "match_analysis", Run: func(ctx context.Context, s *matchState) error {
			return a.completeJSON(ctx, a.promptBuilder.BuildMatchPrompt(s.req), MatchSchema, &s.result)
		}},
	)
	if err != nil {
		return nil, err
	}

	return &state.result, nil
}

type atsState struct {
	condensed  string
	evaluation models.ATSEvaluation
	html       string
}

// ATSScan evaluates the resume, then renders it as HTML. plainTextResume is
// the text as extracted, before any condensing.
func (a *analyzerService) ATSScan(ctx context.Context, resumeText string) (result *models.ATSScanResult, err error) {
	defer func() { a.metrics.ObservePipeline("ats_scan", err) }()

	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("%w: resume text is empty", ErrMissingInput)
	}

	state := &atsState{}
	err = RunSteps(ctx, "ats_scan", state,
		Step[atsState]{Name: "condense", Run: func(ctx context.Context, s *atsState) error {
			text, err := a.condense(ctx, resumeText)
			s.condensed = text
			return err
		}},
		Step[atsState]{Name: "ats_evaluation", Run: func(ctx context.Context, s *atsState) error {
			return a.completeJSON(ctx, a.promptBuilder.BuildATSPrompt(s.condensed), ATSSchema, &s.evaluation)
		}},
		Step[atsState]{Name: "resume_html", Run: func(ctx context.Context, s *atsState) error {
			html, err := a.completeText(ctx, a.promptBuilder.BuildResumeHTMLPrompt(s.condensed))
			s.html = html
			return err
		}},
	)
	if err != nil {
		return nil, err
	}

	return &models.ATSScanResult{
		ATSEvaluation:      state.evaluation,
		OriginalResumeHTML: state.html,
		PlainTextResume:    resumeText,
	}, nil
}

type chatState struct {
	resume string
	reply  string
}

// Chat answers one message. The returned history is the caller's history
// without system turns, followed by the new user and assistant turns.
func (a *analyzerService) Chat(ctx context.Context, resumeText string, history []models.ChatTurn, message string) (result *models.ChatResponse, err error) {
	defer func() { a.metrics.ObservePipeline("chat", err) }()

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrMissingInput)
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("%w: resume context is required", ErrMissingInput)
	}

	visible := VisibleHistory(history)
	state := &chatState{}
	err = RunSteps(ctx, "chat", state,
		Step[chatState]{Name: "condense", Run: func(ctx context.Context, s *chatState) error {
			text, err := a.condense(ctx, resumeText)
			s.resume = text
			return err
		}},
		Step[chatState]{Name: "chat", Run: func(ctx context.Context, s *chatState) error {
			reply, err := a.completeText(ctx, a.promptBuilder.BuildChatPrompt(s.resume, visible, message))
			s.reply = reply
			return err
		}},
	)
	if err != nil {
		return nil, err
	}

	conversation := append(visible,
		models.ChatTurn{Role: models.RoleUser, Content: message},
		models.ChatTurn{Role: models.RoleAssistant, Content: state.reply},
	)

	return &models.ChatResponse{
		Reply:               state.reply,
		ConversationHistory: conversation,
	}, nil
}

// VisibleHistory drops system turns, unknown roles and empty turns. The
// result is a fresh slice.
func VisibleHistory(history []models.ChatTurn) []models.ChatTurn {
	visible := make([]models.ChatTurn, 0, len(history)+2)
	for _, turn := range history {
		if turn.Role == models.RoleSystem || !turn.Role.Valid() {
			continue
		}
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		visible = append(visible, turn)
	}
	return visible
}

type compareState struct {
	resume string
	result models.JDComparison
}

func (a *analyzerService) CompareJD(ctx context.Context, resumeText, jobDescription string) (result *models.JDComparison, err error) {
	defer func() { a.metrics.ObservePipeline("compare_jd", err) }()

	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("%w: resumeText and jobDescription are required", ErrMissingInput)
	}

	state := &compareState{}
	err = RunSteps(ctx, "compare_jd", state,
		Step[compareState]{Name: "condense", Run: func(ctx context.Context, s *compareState) error {
			text, err := a.condense(ctx, resumeText)
			s.resume = text
			return err
		}},
		Step[compareState]{Name: "compare_jd", Run: func(ctx context.Context, s *compareState) error {
			return a.completeJSON(ctx, a.promptBuilder.BuildCompareJDPrompt(s.resume, jobDescription), CompareJDSchema, &s.result)
		}},
	)
	if err != nil {
		return nil, err
	}

	return &state.result, nil
}

// condense summarizes overlong text chunk by chunk, then applies the
// truncation ceiling. Short text only passes through the ceiling.
func (a *analyzerService) condense(ctx context.Context, text string) (string, error) {
	if a.summarizeAbove <= 0 || utf8.RuneCountInString(text) <= a.summarizeAbove {
		return a.promptBuilder.Truncate(text), nil
	}

	chunks := a.chunker.Chunk(text, a.chunkSize, 200)
	log.Printf("📝 Condensing %d characters in %d chunks", utf8.RuneCountInString(text), len(chunks))

	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		summary, err := a.completeText(ctx, a.promptBuilder.BuildSummaryPrompt(chunk, i+1, len(chunks)))
		if err != nil {
			return "", err
		}
		summaries = append(summaries, summary)
	}

	return a.promptBuilder.Truncate(strings.Join(summaries, "\n\n")), nil
}

func (a *analyzerService) completeJSON(ctx context.Context, prompt Prompt, schema *Schema, target interface{}) error {
	log.Printf("📝 %s prompt length: %d characters", prompt.Kind, len(prompt.Text))

	response, err := a.caller.call(ctx, prompt)
	if err != nil {
		return err
	}

	return NormalizeInto(response, schema, target)
}

func (a *analyzerService) completeText(ctx context.Context, prompt Prompt) (string, error) {
	log.Printf("📝 %s prompt length: %d characters", prompt.Kind, len(prompt.Text))

	response, err := a.caller.call(ctx, prompt)
	if err != nil {
		return "", err
	}

	return NormalizeText(response)
}

func (a *analyzerService) emptyCategories() models.CategorizedSkills {
	out := make(models.CategorizedSkills, len(a.profile.Categories))
	for _, category := range a.profile.Categories {
		out[category] = []string{}
	}
	return out
}
