package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/GeoMark/GM-Backend/internal/provider"
)

const geminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// Suggestion errors callers must tell apart: a rate limit clears on retry, a
// bad key does not.
var (
	ErrSuggestionRateLimited  = errors.New("suggestion provider rate limit exceeded")
	ErrSuggestionUnauthorized = errors.New("suggestion provider rejected the API key")
)

// Suggester produces a short AI-written marketing message for a pattern.
type Suggester interface {
	SuggestMessage(ctx context.Context, p UserPattern, style string) (string, error)
}

// GeminiClient calls the Gemini generateContent API.
type GeminiClient struct {
	apiKey     string
	httpClient *http.Client
}

// NewGeminiClient builds a client from GEMINI_API_KEY.
func NewGeminiClient() (*GeminiClient, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY must be set")
	}
	return &GeminiClient{
		apiKey: key,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// SuggestMessage asks Gemini for a sub-50-word promotional email tied to the
// user's visits, without exposing tracking details.
func (c *GeminiClient) SuggestMessage(ctx context.Context, p UserPattern, style string) (string, error) {
	prompt := fmt.Sprintf(
		"Generate a marketing email for %s who visited %s. "+
			"Style: '%s' (e.g., casual and inviting, highlight discounts, neutral). "+
			"Keep it engaging, under 50 words, tied to their visit to %s. "+
			"Do NOT mention specific times or tracking details to avoid sounding intrusive.",
		p.UserName, p.GeofenceName, style, p.GeofenceName,
	)

	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: 50,
			Temperature:     0.7,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, geminiURL+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		provider.LogError("gemini", "generateContent", err)
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()
	provider.LogResponse("gemini", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusTooManyRequests:
		return "", ErrSuggestionRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrSuggestionUnauthorized
	default:
		return "", fmt.Errorf("gemini returned HTTP %d", resp.StatusCode)
	}

	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding gemini response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text), nil
}
