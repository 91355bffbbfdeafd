// Package gemini extracts location names from free-text descriptions using
// the Google Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/location-resolution-service/internal/domain"
)

// DefaultBaseURL is the public Generative Language API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

const model = "gemini-1.5-flash"

// promptTemplate is a few-shot prompt that instructs the model to answer with
// the bare location name and nothing else.
const promptTemplate = `Extract the specific location name from this disaster description. Return only the location name, nothing else. If no specific location is mentioned, return "Unknown Location".

Description: %s

Examples:
- "Heavy flooding in Manhattan" → "Manhattan"
- "Wildfire spreading in Los Angeles County" → "Los Angeles"
- "Tornado touchdown in Dallas suburbs" → "Dallas"
- "Earthquake in Tokyo" → "Tokyo"

Location:`

// Client implements semantic location extraction. It satisfies the same
// extractor contract as the keyword heuristic, so the resolver can chain the
// two and fall back on any error.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// NewClient creates a Gemini extraction client. Pass an empty baseURL to use
// the public endpoint.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// Name identifies this strategy in logs and metrics.
func (c *Client) Name() string { return "semantic" }

// ExtractLocation asks the model for the location named in description. A
// blank model answer is a successful "Unknown Location" extraction, not an
// error; transport and API failures are errors so the caller can fall back.
func (c *Client) ExtractLocation(ctx context.Context, description string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: fmt.Sprintf(promptTemplate, description)}}},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/models/%s:generateContent?key=%s", c.baseURL, model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini API error: status %d: %s", resp.StatusCode, body)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	locationName := domain.UnknownLocation
	if len(genResp.Candidates) > 0 {
		cand := genResp.Candidates[0]
		if len(cand.Content.Parts) > 0 {
			if text := strings.TrimSpace(cand.Content.Parts[0].Text); text != "" {
				locationName = text
			}
		}
	}

	c.logger.Debug("semantic extraction complete", "location", locationName)
	return locationName, nil
}

// Generative Language API request/response types, trimmed to the fields this
// client uses.

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}
