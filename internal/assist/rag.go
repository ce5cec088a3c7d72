package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/medischedule/medischedule-server/pkg/logging"
)

// Canned answers for the degraded paths. The Q&A endpoint never fails a
// request over a model error.
const (
	NoSourcesAnswer = "I don't have specific information about that topic in my medical knowledge base. Please consult with a healthcare professional for accurate medical advice."
	ErrorAnswer     = "I'm experiencing technical difficulties. Please try again or consult with a healthcare professional."
)

// Answer confidence levels.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

const ragTopK = 3

// RAGAnswer is the response to a medical knowledge question.
type RAGAnswer struct {
	Answer     string     `json:"answer"`
	Sources    []Document `json:"sources"`
	Confidence string     `json:"confidence"`
}

// Generator produces an answer from a fully assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// StaticGenerator answers without a model; the default when no Gemini key
// is configured. It restates the retrieved context so the retrieval path
// still works end to end.
type StaticGenerator struct{}

// NewStaticGenerator creates the model-free generator.
func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

// Generate echoes the context section of the prompt back as the answer.
func (g *StaticGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	_, after, found := strings.Cut(prompt, "CONTEXT:\n")
	if !found {
		return ErrorAnswer, nil
	}
	contextText, _, _ := strings.Cut(after, "\n\nQUESTION:")
	return "Based on the knowledge base: " + strings.TrimSpace(contextText) +
		"\n\nPlease consult with a healthcare professional for medical decisions.", nil
}

// GeminiGenerator answers prompts with Google's Gemini API.
type GeminiGenerator struct {
	client  *genai.Client
	modelID string
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey, modelID string) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("assist: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("assist: failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, modelID: modelID}, nil
}

// Generate sends the prompt and concatenates the text parts of the first
// candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.modelID)
	model.SetTemperature(0.2)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("assist: gemini generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("assist: gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("assist: gemini returned empty content")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String(), nil
}

// Close releases resources held by the Gemini client.
func (g *GeminiGenerator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// RAGService answers medical questions by retrieving keyword-matched
// documents from the built-in knowledge base and grounding the generator
// on them.
type RAGService struct {
	mu        sync.RWMutex
	documents []Document
	generator Generator
	logger    *logging.Logger
	nextID    int
}

// NewRAGService creates the Q&A service over the built-in knowledge base.
func NewRAGService(generator Generator, logger *logging.Logger) *RAGService {
	if logger == nil {
		logger = logging.Default()
	}
	docs := make([]Document, len(medicalDocuments))
	copy(docs, medicalDocuments)
	return &RAGService{
		documents: docs,
		generator: generator,
		logger:    logger,
		nextID:    len(docs) + 1,
	}
}

// Query answers a medical question. No matching documents yields the
// canned no-sources answer; a generator error yields the canned error
// answer. Both are 200-level outcomes, never request failures.
func (s *RAGService) Query(ctx context.Context, question string) RAGAnswer {
	s.mu.RLock()
	docs := retrieveDocuments(s.documents, question, ragTopK)
	s.mu.RUnlock()

	if len(docs) == 0 {
		return RAGAnswer{
			Answer:     NoSourcesAnswer,
			Sources:    []Document{},
			Confidence: ConfidenceLow,
		}
	}

	var contextText strings.Builder
	for i, doc := range docs {
		if i > 0 {
			contextText.WriteString("\n\n")
		}
		contextText.WriteString("**" + doc.Title + "**: " + doc.Content)
	}

	prompt := "You are a medical AI assistant. Based on the following medical knowledge base excerpts, answer the user's question.\n\n" +
		"IMPORTANT GUIDELINES:\n" +
		"- Only use information from the provided context\n" +
		"- If the context doesn't contain enough information, say so\n" +
		"- Always recommend consulting healthcare professionals for medical decisions\n" +
		"- Be precise and avoid speculation\n" +
		"- Include relevant details from the context\n\n" +
		"CONTEXT:\n" + contextText.String() + "\n\n" +
		"QUESTION: " + question + "\n\nANSWER:"

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("assist: knowledge query failed", "error", err)
		return RAGAnswer{
			Answer:     ErrorAnswer,
			Sources:    []Document{},
			Confidence: ConfidenceLow,
		}
	}

	confidence := ConfidenceMedium
	switch {
	case len(docs) >= 2 && len(answer) > 100:
		confidence = ConfidenceHigh
	case len(docs) == 1 || len(answer) < 50:
		confidence = ConfidenceLow
	}

	return RAGAnswer{
		Answer:     answer,
		Sources:    docs,
		Confidence: confidence,
	}
}

// AddDocument appends an entry to the knowledge base with a fresh id.
func (s *RAGService) AddDocument(doc Document) Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.ID = fmt.Sprintf("%d", s.nextID)
	s.nextID++
	s.documents = append(s.documents, doc)
	return doc
}

// Documents returns a copy of the knowledge base, optionally filtered by
// category.
func (s *RAGService) Documents(category DocumentCategory) []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Document, 0, len(s.documents))
	for _, doc := range s.documents {
		if category != "" && doc.Category != category {
			continue
		}
		out = append(out, doc)
	}
	return out
}
