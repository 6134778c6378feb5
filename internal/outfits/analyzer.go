package outfits

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Analyzer derives descriptive metadata from an outfit image.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte) (*Metadata, error)
}

const analyzePrompt = `Analyze this outfit image and provide structured JSON with:
1. description (short text)
2. occasion (choose one: Casual, Formal, Business / Office, Party / Celebration, Wedding, Sports / Active, Travel / Vacation, Loungewear / Home, Traditional / Cultural, Seasonal)
3. color (main colors)
4. style (short style description)`

type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiAnalyzer{client: client, model: model}, nil
}

func (a *GeminiAnalyzer) Analyze(ctx context.Context, image []byte) (*Metadata, error) {
	model := a.client.GenerativeModel(a.model)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx,
		genai.ImageData(imageFormat(image), image),
		genai.Text(analyzePrompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}

	return parseMetadata(sb.String())
}

func (a *GeminiAnalyzer) Close() error {
	return a.client.Close()
}

// imageFormat returns the subtype genai.ImageData expects ("jpeg", "png").
func imageFormat(data []byte) string {
	ct := http.DetectContentType(data)
	if sub, ok := strings.CutPrefix(ct, "image/"); ok {
		return sub
	}
	return "jpeg"
}

func parseMetadata(text string) (*Metadata, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var m Metadata
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &m); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &m, nil
}
