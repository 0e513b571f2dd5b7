package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Classifier extracts structured job fields from raw JD text. The jobs
// module treats a nil Classifier as "AI features disabled".
type Classifier interface {
	ClassifyJobDescription(ctx context.Context, jdText string) (*JDClassification, error)
}

// ErrUnusableResponse marks model output that could not be decoded into
// a classification, as opposed to transport or quota failures.
var ErrUnusableResponse = errors.New("model returned unusable output")

// JDClassification is the structured form of a pasted job description.
// Missing fields stay at their zero value.
type JDClassification struct {
	Title              string   `json:"title"`
	ClientName         string   `json:"client_name,omitempty"`
	ExperienceRequired float64  `json:"experience_required"`
	TechRequired       []string `json:"tech_required"`
	Location           string   `json:"location,omitempty"`
	VisaRequired       string   `json:"visa_required,omitempty"`
	StartDate          string   `json:"start_date,omitempty"`
	JobType            string   `json:"job_type,omitempty"`
	JDSummary          string   `json:"jd_summary,omitempty"`
	AdditionalNotes    string   `json:"additional_notes,omitempty"`
}

// Oversized pastes get truncated before they hit the model.
const maxJDTextBytes = 20000

const classifyPrompt = `Extract structured information from the following job description text.
Return a JSON object with the following fields:
- title: Job title (string)
- client_name: Client/Company name (string, or null if not mentioned)
- experience_required: Required years of experience (float number, default to 0 if not mentioned)
- tech_required: List of required technologies/skills (array of strings, empty array if none)
- location: Job location (string, or null if not mentioned)
- visa_required: Visa requirements (string, or null if not mentioned)
- start_date: Start date or availability date in ISO format YYYY-MM-DD (string, or null if not mentioned)
- job_type: Job type - one of: "Contract", "Full-time", "C2C", "W2" (string, default to null if not clear)
- jd_summary: Brief summary of the job description (string, or null)
- additional_notes: Any additional notes or requirements (string, or null)

Job Description Text:
%s

Return ONLY valid JSON, no additional text or explanation.`

// GeminiClassifier calls Gemini through langchaingo.
type GeminiClassifier struct {
	client llms.Model
	logger *slog.Logger
}

func NewGeminiClassifier(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiClassifier, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClassifier{client: llm, logger: logger}, nil
}

func (c *GeminiClassifier) ClassifyJobDescription(ctx context.Context, jdText string) (*JDClassification, error) {
	if len(jdText) > maxJDTextBytes {
		jdText = jdText[:maxJDTextBytes]
	}

	resp, err := llms.GenerateFromSinglePrompt(ctx, c.client, fmt.Sprintf(classifyPrompt, jdText),
		llms.WithTemperature(0.3),
		llms.WithMaxTokens(2000),
	)
	if err != nil {
		return nil, fmt.Errorf("classify job description: %w", err)
	}

	parsed, err := parseClassification(resp)
	if err != nil {
		c.logger.Error("unusable classification response", "error", err)
		return nil, err
	}
	if parsed.StartDate != "" && !validStartDate(parsed.StartDate) {
		c.logger.Warn("dropping unparseable start date", "start_date", parsed.StartDate)
		parsed.StartDate = ""
	}
	c.logger.Info("classified job description", "title", parsed.Title)
	return parsed, nil
}

// parseClassification strips the markdown fence models like to wrap JSON
// in, then decodes and normalizes the result.
func parseClassification(resp string) (*JDClassification, error) {
	text := strings.TrimSpace(resp)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var out JDClassification
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrUnusableResponse, err)
	}
	out.Title = strings.TrimSpace(out.Title)
	if out.Title == "" {
		out.Title = "Untitled Position"
	}
	if out.TechRequired == nil {
		out.TechRequired = []string{}
	}
	return &out, nil
}

func validStartDate(s string) bool {
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}
