package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/inference"
	"github.com/kbukum/videoscribe/transcript"
)

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   schema  `json:"responseSchema"`
}

type schema struct {
	Type       string            `json:"type"`
	Properties map[string]schema `json:"properties,omitempty"`
	Items      *schema           `json:"items,omitempty"`
	Required   []string          `json:"required,omitempty"`
}

var analysisSchema = schema{
	Type: "OBJECT",
	Properties: map[string]schema{
		"metadata": {
			Type: "OBJECT",
			Properties: map[string]schema{
				"summary":  {Type: "STRING"},
				"tags":     {Type: "ARRAY", Items: &schema{Type: "STRING"}},
				"language": {Type: "STRING"},
			},
			Required: []string{"summary", "tags", "language"},
		},
		"transcript": {
			Type: "ARRAY",
			Items: &schema{
				Type: "OBJECT",
				Properties: map[string]schema{
					"timestamp": {Type: "STRING"},
					"speaker":   {Type: "STRING"},
					"text":      {Type: "STRING"},
					"tone":      {Type: "STRING"},
					"intent":    {Type: "STRING"},
				},
				Required: []string{"timestamp", "speaker", "text"},
			},
		},
	},
	Required: []string{"metadata", "transcript"},
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// text joins the text parts of the first candidate.
func (r generateResponse) text() (string, error) {
	if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
		err := apperrors.ExternalServiceError(ProviderName, fmt.Errorf("prompt blocked: %s", r.PromptFeedback.BlockReason))
		err.Retryable = false
		return "", err
	}
	if len(r.Candidates) == 0 {
		return "", apperrors.ExternalServiceError(ProviderName, fmt.Errorf("no candidates returned"))
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", apperrors.ExternalServiceError(ProviderName,
			fmt.Errorf("empty candidate (finish reason %s)", r.Candidates[0].FinishReason))
	}
	return sb.String(), nil
}

type analysisPayload struct {
	Metadata struct {
		Summary  string   `json:"summary"`
		Tags     []string `json:"tags"`
		Language string   `json:"language"`
	} `json:"metadata"`
	Transcript []transcript.Entry `json:"transcript"`
}

// decodeAnalysis parses the model output. Title, speaker and category come
// from the hints, never from the model.
func decodeAnalysis(text string, hints inference.Hints) (*transcript.AnalysisResult, error) {
	var payload analysisPayload
	if err := json.Unmarshal([]byte(extractJSON(text)), &payload); err != nil {
		return nil, apperrors.ExternalServiceError(ProviderName, fmt.Errorf("decode analysis: %w", err))
	}
	tags := payload.Metadata.Tags
	if tags == nil {
		tags = []string{}
	}
	entries := payload.Transcript
	if entries == nil {
		entries = []transcript.Entry{}
	}
	return &transcript.AnalysisResult{
		Metadata: transcript.Metadata{
			Title:    hints.Title,
			Speaker:  hints.Speaker,
			Category: hints.Category,
			Summary:  strings.TrimSpace(payload.Metadata.Summary),
			Tags:     tags,
			Language: strings.TrimSpace(payload.Metadata.Language),
		},
		Transcript: entries,
	}, nil
}

// extractJSON strips markdown code fences and surrounding prose from model output.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s[3:], "\n"); idx >= 0 {
			s = s[3+idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
