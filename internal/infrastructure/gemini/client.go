package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/merchai/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with the Gemini generateContent API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Gemini API client
func NewClient(apiKey, baseURL string) *Client {
	// Keep comfortably under the per-minute request quota of the free tier
	limiter := rate.NewLimiter(rate.Limit(2), 4)

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // search-grounded calls can take tens of seconds
		},
		apiKey:      apiKey,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		rateLimiter: limiter,
	}
}

// SetDebug enables request/response logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// generateRequest is the request body for models/{model}:generateContent
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
	Tools            []tool            `json:"tools,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   *domain.Schema  `json:"responseSchema,omitempty"`
	ThinkingConfig   *thinkingConfig `json:"thinkingConfig,omitempty"`
}

type thinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

type tool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

// generateResponse is the response body for models/{model}:generateContent
type generateResponse struct {
	Candidates    []candidate    `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata"`
}

type candidate struct {
	Content           content            `json:"content"`
	GroundingMetadata *groundingMetadata `json:"groundingMetadata"`
}

type groundingMetadata struct {
	GroundingChunks []groundingChunk `json:"groundingChunks"`
}

type groundingChunk struct {
	Web *webSource `json:"web"`
}

type webSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// usageMetadata carries token counters. Not every response includes it.
type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
}

// Generate sends a prompt to the given model and returns generated text,
// token usage and any grounding citations. There are no retries; a failed
// call is reported to the caller as-is.
func (c *Client) Generate(ctx context.Context, model, prompt string, opts domain.GenerateOptions) (*domain.GenerateResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAborted, err)
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	cfg := &generationConfig{}
	if opts.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = opts.ResponseSchema
	}
	if opts.ThinkingBudget > 0 {
		cfg.ThinkingConfig = &thinkingConfig{ThinkingBudget: opts.ThinkingBudget}
	}
	if cfg.ResponseMIMEType != "" || cfg.ThinkingConfig != nil {
		reqBody.GenerationConfig = cfg
	}
	if opts.EnableSearch {
		reqBody.Tools = []tool{{GoogleSearch: &struct{}{}}}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	if c.debug {
		log.Printf("[GEMINI] POST %s (%d bytes, search=%v)", reqURL, len(body), opts.EnableSearch)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrAborted, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrUpstreamFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		if c.debug {
			log.Printf("[GEMINI] API error - status: %d, body: %s", resp.StatusCode, string(respBody))
		}
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrUpstreamFailure, err)
	}

	return mapResponse(&genResp), nil
}

// mapResponse converts the wire response into the domain result shape
func mapResponse(resp *generateResponse) *domain.GenerateResult {
	result := &domain.GenerateResult{}

	if resp.UsageMetadata != nil {
		result.Usage = domain.TokenUsage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CandidatesTokens: resp.UsageMetadata.CandidatesTokenCount,
		}
	}

	if len(resp.Candidates) == 0 {
		return result
	}

	first := resp.Candidates[0]

	var sb strings.Builder
	for _, p := range first.Content.Parts {
		sb.WriteString(p.Text)
	}
	result.Text = sb.String()

	if first.GroundingMetadata != nil {
		for _, chunk := range first.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil {
				continue
			}
			result.Citations = append(result.Citations, domain.Citation{
				URI:   chunk.Web.URI,
				Title: chunk.Web.Title,
			})
		}
	}

	return result
}

// Ensure Client implements the GenAI interface
var _ domain.GenAI = (*Client)(nil)
