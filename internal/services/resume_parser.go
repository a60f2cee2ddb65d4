package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"parsepro/resume-analyzer/internal/models"
)

// ResumeParser calls the third-party resume-parsing API.
type ResumeParser interface {
	Parse(ctx context.Context, file *UploadedFile) (*models.ATSSummary, error)
}

type resumeParserService struct {
	httpClient *http.Client
	url        string
	apiKey     string
}

func NewResumeParserService(httpClient *http.Client, url, apiKey string) ResumeParser {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &resumeParserService{httpClient: httpClient, url: url, apiKey: apiKey}
}

// Parse uploads the original document and normalizes the parser's reply.
func (p *resumeParserService) Parse(ctx context.Context, file *UploadedFile) (*models.ATSSummary, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", file.Filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: resume parser: %w", ErrUpstreamCall, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: resume parser: %w", ErrUpstreamCall, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: resume parser returned status %d", ErrUpstreamCall, resp.StatusCode)
	}

	return NormalizeATSSummary(string(respBytes))
}

// NormalizeATSSummary maps a parser reply onto ATSSummary. A "data"
// envelope is unwrapped first. Contact fields go through the normalizer;
// experience and education rows are read leniently.
func NormalizeATSSummary(raw string) (*models.ATSSummary, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &parsed); err == nil {
		if inner, ok := parsed["data"].(map[string]interface{}); ok {
			parsed = inner
			if b, err := json.Marshal(inner); err == nil {
				raw = string(b)
			}
		}
	}

	contact, err := Normalize(raw, ATSSummarySchema)
	if err != nil {
		return nil, err
	}

	summary := &models.ATSSummary{
		Name:       contact["name"].(string),
		Email:      contact["email"].(string),
		Phone:      contact["phone"].(string),
		Experience: []models.ExperienceRow{},
		Education:  []models.EducationRow{},
	}

	for _, row := range objectRows(parsed, "experience", "workExperience", "work_experience") {
		summary.Experience = append(summary.Experience, models.ExperienceRow{
			Title:    firstString(row, "title", "jobTitle", "job_title", "position"),
			Company:  firstString(row, "company", "organization", "employer"),
			Dates:    firstString(row, "dates", "dateRange", "date_range", "period"),
			Location: firstString(row, "location"),
		})
	}

	for _, row := range objectRows(parsed, "education", "educations") {
		summary.Education = append(summary.Education, models.EducationRow{
			Degree:       firstString(row, "degree", "title", "accreditation"),
			Organization: firstString(row, "organization", "institution", "school"),
			Dates:        firstString(row, "dates", "dateRange", "date_range", "period"),
		})
	}

	return summary, nil
}

func objectRows(obj map[string]interface{}, keys ...string) []map[string]interface{} {
	for _, key := range keys {
		arr, ok := obj[key].([]interface{})
		if !ok {
			continue
		}
		rows := make([]map[string]interface{}, 0, len(arr))
		for _, item := range arr {
			if row, ok := item.(map[string]interface{}); ok {
				rows = append(rows, row)
			}
		}
		return rows
	}
	return nil
}

func firstString(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

type fixtureResumeParser struct{}

// NewFixtureResumeParser answers with a fixed parsed resume.
func NewFixtureResumeParser() ResumeParser {
	return &fixtureResumeParser{}
}

func (fixtureResumeParser) Parse(ctx context.Context, file *UploadedFile) (*models.ATSSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.ATSSummary{
		Name:  "Jane Doe",
		Email: "jane.doe@example.com",
		Phone: "(123) 456-7890",
		Experience: []models.ExperienceRow{
			{Title: "Marketing Intern", Company: "Acme Corp", Dates: "2023", Location: "NYC"},
		},
		Education: []models.EducationRow{
			{Degree: "B.A. in Business Administration", Organization: "State University", Dates: "2020–2024"},
		},
	}, nil
}
