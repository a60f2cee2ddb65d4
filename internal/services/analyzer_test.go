package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"parsepro/resume-analyzer/internal/models"
)

// scriptedClient answers each prompt kind with a fixed reply and records the
// order of calls.
type scriptedClient struct {
	mu      sync.Mutex
	replies map[PromptKind]string
	errs    map[PromptKind]error
	block   bool
	calls   []PromptKind
	prompts []Prompt
}

func (s *scriptedClient) GenerateText(ctx context.Context, prompt Prompt) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, prompt.Kind)
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err := s.errs[prompt.Kind]; err != nil {
		return "", err
	}
	return s.replies[prompt.Kind], nil
}

func (s *scriptedClient) kinds() []PromptKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PromptKind(nil), s.calls...)
}

const sampleResume = "Jane Doe. Backend engineer with five years of Go, SQL and Docker experience. Led a team of four."

func newTestAnalyzer(client CompletionClient, parser ResumeParser, opts AnalyzerOptions) AnalyzerService {
	if opts.MaxInputChars == 0 {
		opts.MaxInputChars = 12000
	}
	if opts.Profile.Name == "" {
		opts.Profile = LookupSkillProfile("tech")
	}
	return NewAnalyzerService(client, parser, nil, opts)
}

func TestResumeInsights(t *testing.T) {
	convey.Convey("Given well-formed replies", t, func() {
		client := &scriptedClient{replies: map[PromptKind]string{
			KindExtractSkills:    "```json\n{\"skills\": [\"Go\", \"SQL\", \"Docker\", \"Leadership\"]}\n```",
			KindCategorizeSkills: `{"Languages": ["Go", "SQL"], "Tools": ["Docker"], "Soft Skills": ["Leadership"]}`,
			KindFeedback:         "Add cloud experience.\n\nQuantify your impact.",
			KindProjectIdeas:     "1. Build a CLI.\n2. Deploy a service on AWS.",
		}}
		analyzer := newTestAnalyzer(client, nil, AnalyzerOptions{})

		result, err := analyzer.ResumeInsights(context.Background(), models.AnalysisRequest{ResumeText: sampleResume}, nil)

		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the steps run in order", func() {
			convey.So(client.kinds(), convey.ShouldResemble, []PromptKind{
				KindExtractSkills, KindCategorizeSkills, KindFeedback, KindProjectIdeas,
			})
		})

		convey.Convey("Then every category is present", func() {
			convey.So(result.CategorizedSkills, convey.ShouldHaveLength, 7)
			convey.So(result.CategorizedSkills["Languages"], convey.ShouldResemble, []string{"Go", "SQL"})
			convey.So(result.CategorizedSkills["Cloud"], convey.ShouldResemble, []string{})
			convey.So(result.SkillStrength["Languages"], convey.ShouldEqual, 2)
			convey.So(result.SkillStrength["Cloud"], convey.ShouldEqual, 0)
		})

		convey.Convey("Then text replies are split into items", func() {
			convey.So(result.FeedbackItems, convey.ShouldResemble, []string{"Add cloud experience.", "Quantify your impact."})
			convey.So(result.ProjectIdeaList, convey.ShouldResemble, []string{"Build a CLI.", "Deploy a service on AWS."})
			convey.So(result.ATSSummary, convey.ShouldBeNil)
		})

		convey.Convey("Then extracted skills feed the categorization prompt", func() {
			convey.So(client.prompts[1].Text, convey.ShouldContainSubstring, "Go, SQL, Docker, Leadership")
		})
	})

	convey.Convey("Given an unparseable extraction reply", t, func() {
		client := &scriptedClient{replies: map[PromptKind]string{
			KindExtractSkills: "I could not find any skills, sorry.",
		}}
		analyzer := newTestAnalyzer(client, nil, AnalyzerOptions{})

		result, err := analyzer.ResumeInsights(context.Background(), models.AnalysisRequest{ResumeText: sampleResume}, nil)

		convey.So(result, convey.ShouldBeNil)
		convey.So(errors.Is(err, ErrUpstreamFormat), convey.ShouldBeTrue)
		convey.So(client.kinds(), convey.ShouldResemble, []PromptKind{KindExtractSkills})
	})

	convey.Convey("Given no skills in the resume", t, func() {
		client := &scriptedClient{replies: map[PromptKind]string{
			KindExtractSkills: `{"skills": []}`,
			KindFeedback:      "List your skills explicitly.",
			KindProjectIdeas:  "1. Write a portfolio site.",
		}}
		analyzer := newTestAnalyzer(client, nil, AnalyzerOptions{})

		result, err := analyzer.ResumeInsights(context.Background(), models.AnalysisRequest{ResumeText: sampleResume}, nil)

		convey.So(err, convey.ShouldBeNil)
		convey.So(client.kinds(), convey.ShouldResemble, []PromptKind{KindExtractSkills, KindFeedback, KindProjectIdeas})
		for _, skills := range result.CategorizedSkills {
			convey.So(skills, convey.ShouldBeEmpty)
		}
	})

	convey.Convey("Given a failing upstream call midway", t, func() {
		client := &scriptedClient{
			replies: map[PromptKind]string{
				KindExtractSkills:    `{"skills": ["Go"]}`,
				KindCategorizeSkills: `{"Languages": ["Go"]}`,
			},
			errs: map[PromptKind]error{KindFeedback: errors.New("connection reset")},
		}
		analyzer := newTestAnalyzer(client, nil, AnalyzerOptions{})

		result, err := analyzer.ResumeInsights(context.Background(), models.AnalysisRequest{ResumeText: sampleResume}, nil)

		convey.So(result, convey.ShouldBeNil)
		convey.So(errors.Is(err, ErrUpstreamCall), convey.ShouldBeTrue)
		convey.So(client.kinds(), convey.ShouldNotContain, KindProjectIdeas)
	})

	convey.Convey("Given a resume parser", t, func() {
		analyzer := newTestAnalyzer(NewFixtureService(LookupSkillProfile("tech")), NewFixtureResumeParser(), AnalyzerOptions{})
		file := &UploadedFile{Filename: "resume.txt", Data: []byte(sampleResume)}

		result, err := analyzer.ResumeInsights(context.Background(), models.AnalysisRequest{ResumeText: sampleResume}, file)

		convey.So(err, convey.ShouldBeNil)
		convey.So(result.ATSSummary, convey.ShouldNotBeNil)
		convey.So(result.ATSSummary.Name, convey.ShouldEqual, "Jane Doe")
	})

	convey.Convey("Given an empty resume", t, func() {
		client := &scriptedClient{}
		analyzer := newTestAnalyzer(client, nil, AnalyzerOptions{})

		_, err := analyzer.ResumeInsights(context.Background(), models.AnalysisRequest{ResumeText: "  "}, nil)

		convey.So(errors.Is(err, ErrMissingInput), convey.ShouldBeTrue)
		convey.So(client.kinds(), convey.ShouldBeEmpty)
	})
}

func TestCompletionTimeout(t *testing.T) {
	convey.Convey("Given a completion service that never answers", t, func() {
		client := &scriptedClient{block: true}
		analyzer := newTestAnalyzer(client, nil, AnalyzerOptions{Timeout: 20 * time.Millisecond})

		start := time.Now()
		_, err := analyzer.ResumeMatch(context.Background(), models.AnalysisRequest{ResumeText: sampleResume})

		convey.So(errors.Is(err, ErrUpstreamTimeout), convey.ShouldBeTrue)
		convey.So(time.Since(start), convey.ShouldBeLessThan, 5*time.Second)
		convey.So(client.kinds(), convey.ShouldHaveLength, 1)
	})
}

type blockingParser struct{}

func (blockingParser) Parse(ctx context.Context, _ *UploadedFile) (*models.ATSSummary, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestParserTimeout(t *testing.T) {
	file := &UploadedFile{Filename: "resume.pdf", Data: []byte("%PDF-1.4 fake")}
	req := models.AnalysisRequest{ResumeText: sampleResume}

	convey.Convey("Given a resume parser that never answers", t, func() {
		analyzer := newTestAnalyzer(NewFixtureService(LookupSkillProfile("tech")), blockingParser{}, AnalyzerOptions{Timeout: 20 * time.Millisecond})

		start := time.Now()
		result, err := analyzer.ResumeInsights(context.Background(), req, file)

		convey.So(result, convey.ShouldBeNil)
		convey.So(errors.Is(err, ErrUpstreamTimeout), convey.ShouldBeTrue)
		convey.So(time.Since(start), convey.ShouldBeLessThan, 5*time.Second)
	})

	convey.Convey("Given a parser API slower than the HTTP client timeout", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		parser := NewResumeParserService(&http.Client{Timeout: 50 * time.Millisecond}, server.URL, "")
		analyzer := newTestAnalyzer(NewFixtureService(LookupSkillProfile("tech")), parser, AnalyzerOptions{})

		result, err := analyzer.ResumeInsights(context.Background(), req, file)

		convey.So(result, convey.ShouldBeNil)
		convey.So(errors.Is(err, ErrUpstreamTimeout), convey.ShouldBeTrue)
	})
}

func TestCondense(t *testing.T) {
	convey.Convey("Given a resume above the summarize threshold", t, func() {
		client := &scriptedClient{replies: map[PromptKind]string{
			KindSummarize:     "condensed part",
			KindMatchAnalysis: `{"matchScore": 61}`,
		}}
		analyzer := newTestAnalyzer(client, nil, AnalyzerOptions{
			MaxInputChars:       5000,
			SummarizeAboveChars: 300,
			ChunkSize:           200,
		})
		long := strings.Repeat(strings.Repeat("w", 150)+"\n\n", 6)

		result, err := analyzer.ResumeMatch(context.Background(), models.AnalysisRequest{ResumeText: long})

		convey.So(err, convey.ShouldBeNil)
		convey.So(result.MatchScore, convey.ShouldEqual, 61)

		kinds := client.kinds()
		convey.So(len(kinds), convey.ShouldBeGreaterThan, 2)
		convey.So(kinds[len(kinds)-1], convey.ShouldEqual, KindMatchAnalysis)
		for _, k := range kinds[:len(kinds)-1] {
			convey.So(k, convey.ShouldEqual, KindSummarize)
		}
		convey.So(client.prompts[len(kinds)-1].Text, convey.ShouldContainSubstring, "condensed part")
		convey.So(client.prompts[len(kinds)-1].Text, convey.ShouldNotContainSubstring, strings.Repeat("w", 150))
	})
}

func TestATSScan(t *testing.T) {
	convey.Convey("Given ATS and HTML replies", t, func() {
		client := &scriptedClient{replies: map[PromptKind]string{
			KindATSEvaluation: `{"atsScore": 104, "summary": "Good", "strengths": ["Clear headings"]}`,
			KindResumeHTML:    "```html\n<section><p>Jane</p></section>\n```",
		}}
		analyzer := newTestAnalyzer(client, nil, AnalyzerOptions{})

		result, err := analyzer.ATSScan(context.Background(), sampleResume)

		convey.So(err, convey.ShouldBeNil)
		convey.So(client.kinds(), convey.ShouldResemble, []PromptKind{KindATSEvaluation, KindResumeHTML})
		convey.So(result.ATSEvaluation.ATSScore, convey.ShouldEqual, 100)
		convey.So(result.ATSEvaluation.RedFlags, convey.ShouldResemble, []string{})
		convey.So(result.OriginalResumeHTML, convey.ShouldEqual, "<section><p>Jane</p></section>")
		convey.So(result.PlainTextResume, convey.ShouldEqual, sampleResume)
	})
}

func TestChat(t *testing.T) {
	convey.Convey("Given a history with a system turn", t, func() {
		client := &scriptedClient{replies: map[PromptKind]string{KindChat: "Add metrics to each role."}}
		analyzer := newTestAnalyzer(client, nil, AnalyzerOptions{})
		history := []models.ChatTurn{
			{Role: models.RoleSystem, Content: "hidden instructions"},
			{Role: models.RoleUser, Content: "Hi"},
			{Role: models.RoleAssistant, Content: "Hello! How can I help?"},
		}

		result, err := analyzer.Chat(context.Background(), sampleResume, history, "How do I improve it?")

		convey.So(err, convey.ShouldBeNil)
		convey.So(result.Reply, convey.ShouldEqual, "Add metrics to each role.")

		convey.Convey("Then the returned history has no system turns", func() {
			convey.So(result.ConversationHistory, convey.ShouldResemble, []models.ChatTurn{
				{Role: models.RoleUser, Content: "Hi"},
				{Role: models.RoleAssistant, Content: "Hello! How can I help?"},
				{Role: models.RoleUser, Content: "How do I improve it?"},
				{Role: models.RoleAssistant, Content: "Add metrics to each role."},
			})
		})

		convey.Convey("Then the caller's history is left untouched", func() {
			convey.So(history, convey.ShouldHaveLength, 3)
		})

		convey.Convey("Then client-supplied system text never reaches the prompt", func() {
			convey.So(client.prompts[0].Text, convey.ShouldNotContainSubstring, "hidden instructions")
		})
	})

	convey.Convey("Given an empty message", t, func() {
		client := &scriptedClient{}
		analyzer := newTestAnalyzer(client, nil, AnalyzerOptions{})

		_, err := analyzer.Chat(context.Background(), sampleResume, nil, " ")

		convey.So(errors.Is(err, ErrMissingInput), convey.ShouldBeTrue)
		convey.So(client.kinds(), convey.ShouldBeEmpty)
	})
}

func TestCompareJD(t *testing.T) {
	convey.Convey("Given a comparison reply", t, func() {
		client := &scriptedClient{replies: map[PromptKind]string{
			KindCompareJD: `{"matchingSkills": ["SQL"], "missingSkills": ["AWS"], "overallMatch": "50"}`,
		}}
		analyzer := newTestAnalyzer(client, nil, AnalyzerOptions{})

		result, err := analyzer.CompareJD(context.Background(), sampleResume, "SQL and AWS required")

		convey.So(err, convey.ShouldBeNil)
		convey.So(result.MatchedSkills, convey.ShouldResemble, []string{"SQL"})
		convey.So(result.MissingSkills, convey.ShouldResemble, []string{"AWS"})
		convey.So(result.OverallMatch, convey.ShouldEqual, 50)
	})

	convey.Convey("Given a missing job description", t, func() {
		client := &scriptedClient{}
		analyzer := newTestAnalyzer(client, nil, AnalyzerOptions{})

		_, err := analyzer.CompareJD(context.Background(), sampleResume, "")

		convey.So(errors.Is(err, ErrMissingInput), convey.ShouldBeTrue)
		convey.So(client.kinds(), convey.ShouldBeEmpty)
	})
}

func TestFixtureService(t *testing.T) {
	convey.Convey("Every profile produces a complete insights result", t, func() {
		for _, name := range []string{"tech", "business", "science"} {
			profile := LookupSkillProfile(name)
			analyzer := newTestAnalyzer(NewFixtureService(profile), nil, AnalyzerOptions{Profile: profile})

			result, err := analyzer.ResumeInsights(context.Background(), models.AnalysisRequest{ResumeText: sampleResume}, nil)

			convey.So(err, convey.ShouldBeNil)
			convey.So(result.CategorizedSkills, convey.ShouldHaveLength, len(profile.Categories))
			convey.So(result.FeedbackItems, convey.ShouldNotBeEmpty)
			convey.So(result.ProjectIdeaList, convey.ShouldHaveLength, 2)
		}
	})
}
