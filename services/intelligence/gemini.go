package intelligence

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"cargoassist/models"
)

// GeminiExtractor implements Extractor on top of the Gemini API.
type GeminiExtractor struct {
	model  *genai.GenerativeModel
	logger *zap.Logger
}

func NewGeminiExtractor(apiKey string, logger *zap.Logger) (*GeminiExtractor, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	model := client.GenerativeModel("models/gemini-1.5-pro")
	model.ResponseMIMEType = "application/json"
	return &GeminiExtractor{model: model, logger: logger}, nil
}

// Extract calls the model and parses its JSON reply. Any failure maps to
// ErrExtractionUnavailable so the dialogue machine can degrade gracefully.
func (g *GeminiExtractor) Extract(ctx context.Context, utterance string, history []models.ConversationTurn, accumulated models.AccumulatedSlots) (*models.Extraction, error) {
	prompt := buildPrompt(utterance, history, accumulated)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.logger.Warn("gemini generate failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrExtractionUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: empty response", ErrExtractionUnavailable)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}

	ext, err := parseExtraction(sb.String())
	if err != nil {
		g.logger.Warn("unparseable extraction", zap.Error(err), zap.String("raw", sb.String()))
		return nil, fmt.Errorf("%w: %v", ErrExtractionUnavailable, err)
	}
	return ext, nil
}
