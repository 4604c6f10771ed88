package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is the content-extraction boundary. The orchestrator only
// depends on this interface; tests substitute a fake.
type Client interface {
	Scrape(ctx context.Context, req ScrapeRequest) (*ScrapeResponse, error)
	Extract(ctx context.Context, req ExtractRequest) (*ExtractResponse, error)
}

// HTTPClient talks to the hosted Firecrawl API with bearer-token auth.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ScrapeRequest asks for page content in the given formats.
type ScrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats,omitempty"`
	OnlyMainContent bool     `json:"onlyMainContent,omitempty"`
	WaitFor         int      `json:"waitFor,omitempty"`
}

// ScrapeResponse carries the retrieved page content.
type ScrapeResponse struct {
	Success bool       `json:"success"`
	Data    ScrapeData `json:"data"`
}

type ScrapeData struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// ExtractRequest asks for structured extraction against a JSON schema.
type ExtractRequest struct {
	URLs   []string       `json:"urls"`
	Prompt string         `json:"prompt,omitempty"`
	Schema map[string]any `json:"schema,omitempty"`
}

// ExtractedEvent is the raw structured record the extraction API
// returns for one event candidate. Dates arrive as strings and are
// validated downstream.
type ExtractedEvent struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date,omitempty"`
	LocationName string `json:"location_name,omitempty"`
	LocationURL  string `json:"location_url,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
}

// ExtractResponse carries the structured extraction result.
type ExtractResponse struct {
	Success bool        `json:"success"`
	Data    ExtractData `json:"data"`
}

type ExtractData struct {
	Events []ExtractedEvent `json:"events"`
}

// NewClient creates a Firecrawl API client.
func NewClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// Scrape retrieves page content for one URL.
func (c *HTTPClient) Scrape(ctx context.Context, req ScrapeRequest) (*ScrapeResponse, error) {
	out := &ScrapeResponse{}
	if err := c.doJSON(ctx, c.baseURL+"/v1/scrape", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Extract runs structured extraction over the given URLs.
func (c *HTTPClient) Extract(ctx context.Context, req ExtractRequest) (*ExtractResponse, error) {
	out := &ExtractResponse{}
	if err := c.doJSON(ctx, c.baseURL+"/v1/extract", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, endpoint string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("firecrawl api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return err
	}

	return nil
}
