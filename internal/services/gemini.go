package services

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"
)

type geminiService struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

// NewGeminiService builds a CompletionClient backed by the Gemini API.
func NewGeminiService(ctx context.Context, apiKey, modelName string, temperature float32) (CompletionClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:      client,
		modelName:   modelName,
		temperature: temperature,
	}, nil
}

// GenerateText implements CompletionClient.
func (g *geminiService) GenerateText(ctx context.Context, prompt Prompt) (string, error) {
	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt.Text), config)
	if err != nil {
		log.Printf("❌ Gemini API error (%s): %v", prompt.Kind, err)
		return "", fmt.Errorf("%w: gemini: %v", ErrUpstreamCall, err)
	}

	if resp == nil {
		return "", fmt.Errorf("%w: gemini returned nil response", ErrUpstreamCall)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: no text content in gemini response", ErrUpstreamFormat)
	}

	log.Printf("📊 Gemini response received (%s): %d characters", prompt.Kind, len(text))
	return text, nil
}
