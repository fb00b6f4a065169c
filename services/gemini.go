package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Generator is the external generation-service collaborator.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Embedder is the external embedding-service collaborator. It returns one
// vector per input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// GeminiClient implements Generator and Embedder on top of the Gemini API.
type GeminiClient struct {
	client     *genai.Client
	model      string
	embedModel string
}

// NewGeminiClient connects to the Gemini API. Returns nil without error when
// no API key is configured; callers treat a nil client as "path disabled".
func NewGeminiClient(ctx context.Context, cfg *Config) (*GeminiClient, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{
		client:     client,
		model:      cfg.GeminiModel,
		embedModel: cfg.GeminiEmbedModel,
	}, nil
}

// Generate sends the assembled prompt with a fixed system instruction and
// returns the raw generated text.
func (g *GeminiClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{}
	if contents := genai.Text(system); len(contents) > 0 {
		config.SystemInstruction = contents[0]
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var responseText strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Text != "" {
			responseText.WriteString(p.Text)
		}
	}
	if responseText.Len() == 0 {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return responseText.String(), nil
}

// Embed batches texts through the embedding model, one vector per text.
func (g *GeminiClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding call failed: %w", err)
	}

	vectors := make([][]float32, 0, len(result.Embeddings))
	for _, emb := range result.Embeddings {
		vectors = append(vectors, emb.Values)
	}
	return vectors, nil
}
