package feedclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is the HTTP LikeToggler talking to the API's envelope protocol.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient returns a Client for the API at baseURL authenticating with the
// given bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// ToggleLike calls POST /api/posts/:id/like and returns the resulting
// state.
func (c *Client) ToggleLike(ctx context.Context, postID string) (*LikeState, error) {
	url := fmt.Sprintf("%s/api/posts/%s/like", c.baseURL, postID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding like response: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("like toggle failed (%d): %s", resp.StatusCode, env.Error)
	}

	var state LikeState
	if err := json.Unmarshal(env.Data, &state); err != nil {
		return nil, fmt.Errorf("decoding like state: %w", err)
	}
	return &state, nil
}
