package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultDeepseekURL = "https://api.deepseek.com/chat/completions"

type deepseekMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type deepseekRequest struct {
	Model       string            `json:"model"`
	Messages    []deepseekMessage `json:"messages"`
	Temperature float32           `json:"temperature"`
	Stream      bool              `json:"stream"`
}

type deepseekResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type deepseekService struct {
	httpClient  *http.Client
	url         string
	apiKey      string
	modelName   string
	temperature float32
}

// NewDeepseekService builds a CompletionClient for any OpenAI-compatible
// chat completions endpoint. An empty url selects DeepSeek.
func NewDeepseekService(httpClient *http.Client, url, apiKey, modelName string, temperature float32) CompletionClient {
	if url == "" {
		url = defaultDeepseekURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &deepseekService{
		httpClient:  httpClient,
		url:         url,
		apiKey:      apiKey,
		modelName:   modelName,
		temperature: temperature,
	}
}

// GenerateText implements CompletionClient. Rate limiting is reported, not retried.
func (d *deepseekService) GenerateText(ctx context.Context, prompt Prompt) (string, error) {
	body, err := json.Marshal(deepseekRequest{
		Model:       d.modelName,
		Messages:    []deepseekMessage{{Role: "user", Content: prompt.Text}},
		Temperature: d.temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: rate limited by completion api", ErrUpstreamCall)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: completion api returned status %d", ErrUpstreamCall, resp.StatusCode)
	}

	buff, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed deepseekResponse
	if err := json.Unmarshal(buff, &parsed); err != nil {
		return "", fmt.Errorf("%w: undecodable completion envelope: %v", ErrUpstreamFormat, err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: completion api returned no choices", ErrUpstreamFormat)
	}

	return parsed.Choices[0].Message.Content, nil
}
