package calls

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// FallbackSummary is used whenever transcript analysis is unavailable or
// fails; the booking flow must never fail on a summarizer error.
const FallbackSummary = "Simulated Summary: The patient requested a follow-up appointment regarding persistent headaches."

// Analysis is the clinical digest of a finished call.
type Analysis struct {
	Summary       string `json:"summary"`
	Sentiment     string `json:"sentiment"`
	SuggestedDate string `json:"suggestedDate,omitempty"`
}

// Analyzer converts a finished call's transcript into a short clinical
// summary.
type Analyzer interface {
	AnalyzeTranscript(ctx context.Context, transcript string) (Analysis, error)
}

// StaticAnalyzer returns a fixed simulated analysis; the default when no
// Gemini key is configured.
type StaticAnalyzer struct {
	now func() time.Time
}

// NewStaticAnalyzer creates the simulated analyzer.
func NewStaticAnalyzer() *StaticAnalyzer {
	return &StaticAnalyzer{now: time.Now}
}

// AnalyzeTranscript ignores the transcript and returns the canned summary.
func (a *StaticAnalyzer) AnalyzeTranscript(ctx context.Context, transcript string) (Analysis, error) {
	return Analysis{
		Summary:       FallbackSummary,
		Sentiment:     "Neutral",
		SuggestedDate: a.now().UTC().Format(time.RFC3339),
	}, nil
}

// GeminiAnalyzer summarizes transcripts with Google's Gemini API.
type GeminiAnalyzer struct {
	client  *genai.Client
	modelID string
	now     func() time.Time
}

// NewGeminiAnalyzer creates a Gemini-backed analyzer.
func NewGeminiAnalyzer(ctx context.Context, apiKey, modelID string) (*GeminiAnalyzer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("calls: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("calls: failed to create gemini client: %w", err)
	}
	return &GeminiAnalyzer{client: client, modelID: modelID, now: time.Now}, nil
}

// AnalyzeTranscript asks Gemini for a one-sentence clinical summary and a
// sentiment label.
func (a *GeminiAnalyzer) AnalyzeTranscript(ctx context.Context, transcript string) (Analysis, error) {
	if strings.TrimSpace(transcript) == "" {
		return Analysis{}, errors.New("calls: empty transcript")
	}

	model := a.client.GenerativeModel(a.modelID)
	model.SetTemperature(0.2)
	model.SystemInstruction = genai.NewUserContent(genai.Text(
		"You summarize phone call transcripts between a clinic's AI assistant and a patient. " +
			"Reply with exactly two lines. Line 1: a one-sentence clinical summary of what the patient needs. " +
			"Line 2: a single word sentiment, one of Positive, Neutral, Negative."))

	resp, err := model.GenerateContent(ctx, genai.Text(transcript))
	if err != nil {
		return Analysis{}, fmt.Errorf("calls: gemini analysis failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return Analysis{}, errors.New("calls: gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return Analysis{}, errors.New("calls: gemini returned empty content")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return parseAnalysis(text.String(), a.now()), nil
}

// Close releases resources held by the Gemini client.
func (a *GeminiAnalyzer) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

// parseAnalysis splits the model reply into summary and sentiment lines.
// Anything unparseable falls back to Neutral sentiment with the whole
// reply as summary.
func parseAnalysis(reply string, now time.Time) Analysis {
	lines := strings.Split(strings.TrimSpace(reply), "\n")
	out := Analysis{
		Summary:       strings.TrimSpace(lines[0]),
		Sentiment:     "Neutral",
		SuggestedDate: now.UTC().Format(time.RFC3339),
	}
	if len(lines) > 1 {
		switch sentiment := strings.TrimSpace(lines[len(lines)-1]); sentiment {
		case "Positive", "Neutral", "Negative":
			out.Sentiment = sentiment
		}
	}
	if out.Summary == "" {
		out.Summary = FallbackSummary
	}
	return out
}
