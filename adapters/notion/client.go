package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
	httpTimeout    = 10 * time.Second
)

// ScoreProperty is the number property the relay writes to.
const ScoreProperty = "my_score"

type queryRequest struct {
	Filter struct {
		Property string `json:"property"`
		URL      struct {
			Equals string `json:"equals"`
		} `json:"url"`
	} `json:"filter"`
}

type queryResponse struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
}

// Client calls the Notion API against one database.
type Client struct {
	token      string
	databaseID string
	client     *http.Client
	baseURL    string
}

// NewClient creates a Notion client bound to the given database.
func NewClient(token, databaseID string) *Client {
	return &Client{
		token:      token,
		databaseID: databaseID,
		client:     &http.Client{Timeout: httpTimeout},
		baseURL:    defaultBaseURL,
	}
}

// WithBaseURL overrides the Notion API base URL (for testing).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// FindPageByURL queries the database for the page whose URL property equals
// the given URL and returns its id, or "" when nothing matches.
func (c *Client) FindPageByURL(ctx context.Context, url string) (string, error) {
	var q queryRequest
	q.Filter.Property = "URL"
	q.Filter.URL.Equals = url

	endpoint := fmt.Sprintf("%s/databases/%s/query", c.baseURL, c.databaseID)
	body, err := c.call(ctx, http.MethodPost, endpoint, q)
	if err != nil {
		return "", fmt.Errorf("query database: %w", err)
	}

	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode query response: %w", err)
	}

	if len(resp.Results) == 0 {
		return "", nil
	}
	return resp.Results[0].ID, nil
}

// UpdateScore writes the score to the page's number property and returns
// the raw update response.
func (c *Client) UpdateScore(ctx context.Context, pageID string, score int) (json.RawMessage, error) {
	payload := map[string]any{
		"properties": map[string]any{
			ScoreProperty: map[string]any{"number": score},
		},
	}

	endpoint := fmt.Sprintf("%s/pages/%s", c.baseURL, pageID)
	body, err := c.call(ctx, http.MethodPatch, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}
	return body, nil
}

func (c *Client) call(ctx context.Context, method, endpoint string, payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Message string `json:"message"`
		}
		json.Unmarshal(body, &apiErr)
		return nil, fmt.Errorf("api status %d: %s", resp.StatusCode, apiErr.Message)
	}

	return body, nil
}
