package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://slack.com/api"
	httpTimeout    = 10 * time.Second
)

type repliesResponse struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error"`
	Messages []struct {
		TS   string `json:"ts"`
		Text string `json:"text"`
	} `json:"messages"`
}

// Client calls the Slack Web API with a bot token.
type Client struct {
	token   string
	client  *http.Client
	baseURL string
}

// NewClient creates a Slack Web API client.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		client:  &http.Client{Timeout: httpTimeout},
		baseURL: defaultBaseURL,
	}
}

// WithBaseURL overrides the Slack API base URL (for testing).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// FetchMessage returns the text of the message at ts in the given channel.
// conversations.replies is used even for non-threaded messages: it is the
// one call that returns an exact-timestamp match. A missing message, an
// ok=false response, or an empty reply list yields ("", nil).
func (c *Client) FetchMessage(ctx context.Context, channel, ts string) (string, error) {
	q := url.Values{"channel": {channel}, "ts": {ts}}
	endpoint := fmt.Sprintf("%s/conversations.replies?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api status: %d", resp.StatusCode)
	}

	var body repliesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if !body.OK || body.Messages == nil {
		return "", nil
	}

	for _, m := range body.Messages {
		if m.TS == ts {
			return m.Text, nil
		}
	}
	return "", nil
}
