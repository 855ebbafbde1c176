package mentor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultGeneratorURL is the generateContent endpoint of the hosted model
const DefaultGeneratorURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// HTTPGenerator calls a generateContent-style text API
type HTTPGenerator struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// GeneratorOption configures an HTTPGenerator
type GeneratorOption func(*HTTPGenerator)

// WithGeneratorURL overrides DefaultGeneratorURL
func WithGeneratorURL(url string) GeneratorOption {
	return func(g *HTTPGenerator) {
		if url != "" {
			g.url = url
		}
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) GeneratorOption {
	return func(g *HTTPGenerator) {
		g.httpClient = c
	}
}

// NewHTTPGenerator creates a generator authenticated with apiKey.
// It returns nil when apiKey is empty so callers can pass the result
// straight to NewService.
func NewHTTPGenerator(apiKey string, opts ...GeneratorOption) Generator {
	if apiKey == "" {
		return nil
	}
	g := &HTTPGenerator{
		url:    DefaultGeneratorURL,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// Generate sends prompt and returns the first candidate's text
func (g *HTTPGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error: %s", http.StatusText(resp.StatusCode))
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no content generated")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
