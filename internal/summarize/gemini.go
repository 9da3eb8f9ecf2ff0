package summarize

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"github.com/tidwall/gjson"
	"google.golang.org/api/option"
)

const maxPromptChars = 6000

const summarizePrompt = `You are a news analyst. Summarize the following item and respond with ONLY a JSON object, no prose and no markdown fences.

TITLE: %s

CONTENT: %s

Respond with exactly this JSON shape:
{
  "summary": "2-4 sentence summary",
  "key_points": ["point 1", "point 2", "point 3"],
  "importance_score": 5.0
}

importance_score is 1-10: 1-3 minor or incremental, 4-6 notable, 7-8 significant, 9-10 major developments.`

// Gemini is the production Provider backed by Google's generative AI API.
type Gemini struct {
	client    *genai.Client
	modelName string
}

// NewGemini creates a Gemini provider. Close must be called when done.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &Gemini{client: client, modelName: modelName}, nil
}

func (g *Gemini) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

// Summarize sends one item to the model and parses the structured response.
func (g *Gemini) Summarize(ctx context.Context, title, body string) (Summary, error) {
	model := g.client.GenerativeModel(g.modelName)

	body = strings.Join(strings.Fields(body), " ")
	if utf8.RuneCountInString(body) > maxPromptChars {
		runes := []rune(body)
		body = string(runes[:maxPromptChars]) + " [TRUNCATED]"
	}

	prompt := fmt.Sprintf(summarizePrompt, title, body)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Summary{}, fmt.Errorf("generating summary: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Summary{}, fmt.Errorf("empty response from model")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return Summary{}, fmt.Errorf("unexpected response part type %T", resp.Candidates[0].Content.Parts[0])
	}

	return ParseResponse(string(text))
}

// ParseResponse extracts the structured summary from model output. Models
// wrap JSON in markdown fences often enough that fences are stripped before
// parsing, and fields are read tolerantly so a partially valid response
// still yields what it carries.
func ParseResponse(raw string) (Summary, error) {
	cleaned := stripFences(raw)
	if !gjson.Valid(cleaned) {
		return Summary{}, fmt.Errorf("response is not valid JSON")
	}

	parsed := gjson.Parse(cleaned)
	summary := Summary{
		Text:       strings.TrimSpace(parsed.Get("summary").String()),
		Importance: parsed.Get("importance_score").Float(),
	}
	for _, p := range parsed.Get("key_points").Array() {
		if point := strings.TrimSpace(p.String()); point != "" {
			summary.KeyPoints = append(summary.KeyPoints, point)
		}
	}

	if summary.Text == "" {
		return Summary{}, fmt.Errorf("response missing summary field")
	}
	return summary, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
